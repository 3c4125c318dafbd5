package dlsim

//
// 1-bit Sliding Window (alternating bit, bidirectional)
//

// slidingWindow1BitProtocol implements [Protocol] for the 1-bit Sliding
// Window protocol: bidirectional full-duplex, one outstanding frame per
// direction, sequence modulus M=2. Every outgoing DATA frame carries a
// piggybacked ack, and every received DATA frame is also answered with an
// explicit ACK frame, so correctness never depends on whether a piggyback
// opportunity existed; see DESIGN.md.
type slidingWindow1BitProtocol struct {
	Base

	nextToSend    int
	expected      int
	waitingForAck bool
	lastPacket    *Packet
	lastDst       string
}

const slidingWindow1BitModulus = 2

func newSlidingWindow1Bit() *slidingWindow1BitProtocol {
	return &slidingWindow1BitProtocol{}
}

// OnNetworkReady implements [Protocol].
func (p *slidingWindow1BitProtocol) OnNetworkReady(net *NetworkLayer) {
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
	p.ToPhysical(&Frame{
		Kind:    FrameData,
		SeqNum:  p.nextToSend,
		AckNum:  p.piggybackAck(),
		Payload: payload,
	}, dst)
	p.StartTimer()
}

// piggybackAck is the ack number to carry on an outgoing DATA frame: the
// sequence number of the last in-order frame this endpoint has accepted.
func (p *slidingWindow1BitProtocol) piggybackAck() int {
	return (p.expected + slidingWindow1BitModulus - 1) % slidingWindow1BitModulus
}

// OnFrame implements [Protocol].
func (p *slidingWindow1BitProtocol) OnFrame(frame *Frame) {
	switch frame.Kind {
	case FrameData:
		p.onData(frame)
	case FrameACK:
		p.onAck(frame.AckNum)
	}
}

// onData implements the receiver half of the protocol: deliver in-order
// frames, always (re)ack, and check whether the piggybacked ack advances
// our own sender state.
func (p *slidingWindow1BitProtocol) onData(frame *Frame) {
	if frame.SeqNum == p.expected {
		p.ToNetwork(frame.Payload)
		p.expected = (p.expected + 1) % slidingWindow1BitModulus
	}
	p.ToPhysical(&Frame{Kind: FrameACK, AckNum: p.piggybackAck()}, frame.From)
	p.onAck(frame.AckNum)
}

// onAck implements the sender half of the protocol.
func (p *slidingWindow1BitProtocol) onAck(ackNum int) {
	if !p.waitingForAck || ackNum != p.nextToSend {
		return
	}
	p.StopTimer()
	p.nextToSend = (p.nextToSend + 1) % slidingWindow1BitModulus
	p.waitingForAck = false
	p.EnableNetworkLayer()
}

// OnCorrupt implements [Protocol]: ignored, the sender's timer heals.
func (p *slidingWindow1BitProtocol) OnCorrupt(frame *Frame) {
	// nothing to do: retransmission timer will fire.
}

// OnTimeout implements [Protocol]: resend the outstanding DATA frame.
func (p *slidingWindow1BitProtocol) OnTimeout(timerID int64) {
	p.RecordRetransmit()
	p.ToPhysical(&Frame{
		Kind:    FrameData,
		SeqNum:  p.nextToSend,
		AckNum:  p.piggybackAck(),
		Payload: p.lastPacket,
	}, p.lastDst)
	p.StartTimer()
}

// IsBidirectional implements [Protocol].
func (p *slidingWindow1BitProtocol) IsBidirectional() bool { return true }

// ProtocolName implements [Protocol].
func (p *slidingWindow1BitProtocol) ProtocolName() string { return string(SlidingWindow1Bit) }

// TimerDiscipline implements [Protocol].
func (p *slidingWindow1BitProtocol) TimerDiscipline() TimerDiscipline { return EpochTimer }

var _ Protocol = &slidingWindow1BitProtocol{}
