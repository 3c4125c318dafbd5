package dlsim

//
// PAR: Positive-Acknowledgment-with-Retransmission
//

// parProtocol implements [Protocol] for PAR: unidirectional stop-and-wait
// with a retransmission timer, sequence modulus M=2.
type parProtocol struct {
	Base

	// sender state
	seq           int
	lastPacket    *Packet
	lastDst       string
	waitingForAck bool

	// receiver state
	expected int
}

const parModulus = 2

func newPAR() *parProtocol {
	return &parProtocol{}
}

// OnNetworkReady implements [Protocol].
func (p *parProtocol) OnNetworkReady(net *NetworkLayer) {
	if p.waitingForAck {
		return
	}
	payload, dst, ok := net.TakeNext()
	if !ok {
		return
	}
	p.lastPacket = payload
	p.lastDst = dst
	p.waitingForAck = true
	p.ToPhysical(&Frame{Kind: FrameData, SeqNum: p.seq, AckNum: 0, Payload: payload}, dst)
	p.StartTimer()
}

// OnFrame implements [Protocol].
func (p *parProtocol) OnFrame(frame *Frame) {
	switch frame.Kind {
	case FrameData:
		p.onFrameReceiver(frame)
	case FrameACK:
		p.onAckSender(frame)
	}
}

// onFrameReceiver implements the receiver side of the protocol.
func (p *parProtocol) onFrameReceiver(frame *Frame) {
	if frame.SeqNum == p.expected {
		p.ToNetwork(frame.Payload)
		p.ToPhysical(&Frame{Kind: FrameACK, AckNum: p.expected}, frame.From)
		p.expected = (p.expected + 1) % parModulus
		return
	}
	// duplicate: resend the ack for the other sequence number without
	// delivering again.
	p.ToPhysical(&Frame{Kind: FrameACK, AckNum: (p.expected + parModulus - 1) % parModulus}, frame.From)
}

// onAckSender implements the sender side of the protocol.
func (p *parProtocol) onAckSender(frame *Frame) {
	if !p.waitingForAck || frame.AckNum != p.seq {
		return
	}
	p.StopTimer()
	p.seq = (p.seq + 1) % parModulus
	p.waitingForAck = false
	p.EnableNetworkLayer()
}

// OnCorrupt implements [Protocol]: ignored, the retransmission timer heals.
func (p *parProtocol) OnCorrupt(frame *Frame) {
	// nothing to do: the sender's timer will retransmit.
}

// OnTimeout implements [Protocol]: resend the last DATA frame and restart
// the timer.
func (p *parProtocol) OnTimeout(timerID int64) {
	p.RecordRetransmit()
	p.ToPhysical(&Frame{Kind: FrameData, SeqNum: p.seq, AckNum: 0, Payload: p.lastPacket}, p.lastDst)
	p.StartTimer()
}

// IsBidirectional implements [Protocol].
func (p *parProtocol) IsBidirectional() bool { return false }

// ProtocolName implements [Protocol].
func (p *parProtocol) ProtocolName() string { return string(PAR) }

// TimerDiscipline implements [Protocol].
func (p *parProtocol) TimerDiscipline() TimerDiscipline { return EpochTimer }

var _ Protocol = &parProtocol{}
