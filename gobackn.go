package dlsim

//
// Go-Back-N
//

// gbnBufferedFrame is one of a [goBackNProtocol] sender's outstanding
// frames, kept around for retransmission.
type gbnBufferedFrame struct {
	frame *Frame
	dst   string
}

// goBackNProtocol implements [Protocol] for Go-Back-N: bidirectional,
// sender window W, receiver window 1, cumulative ACKs, sequence modulus
// M=W+1, a single retransmission timer tied to the oldest outstanding
// frame.
type goBackNProtocol struct {
	Base

	windowSize int
	modulus    int

	// sender state
	sendBase    int
	nextSeq     int
	outstanding int
	buffer      map[int]gbnBufferedFrame

	// receiver state
	expected int
}

func newGoBackN(windowSize int) (*goBackNProtocol, error) {
	if err := validateWindowSize(windowSize); err != nil {
		return nil, err
	}
	return &goBackNProtocol{
		windowSize: windowSize,
		modulus:    windowSize + 1,
		buffer:     make(map[int]gbnBufferedFrame),
	}, nil
}

// OnNetworkReady implements [Protocol]: drains the outbound queue while the
// sender window has room.
func (p *goBackNProtocol) OnNetworkReady(net *NetworkLayer) {
	for p.outstanding < p.windowSize {
		payload, dst, ok := net.TakeNext()
		if !ok {
			return
		}
		frame := &Frame{
			Kind:    FrameData,
			SeqNum:  p.nextSeq,
			AckNum:  p.piggybackAck(),
			Payload: payload,
		}
		p.buffer[p.nextSeq] = gbnBufferedFrame{frame: frame, dst: dst}
		wasEmpty := p.outstanding == 0
		p.outstanding++
		p.nextSeq = (p.nextSeq + 1) % p.modulus
		p.ToPhysical(frame, dst)
		if wasEmpty {
			p.StartTimer()
		}
	}
}

// piggybackAck is the ack number this endpoint currently carries on
// outgoing DATA frames as the receiver side of the bidirectional protocol.
func (p *goBackNProtocol) piggybackAck() int {
	return (p.expected + p.modulus - 1) % p.modulus
}

// OnFrame implements [Protocol].
func (p *goBackNProtocol) OnFrame(frame *Frame) {
	switch frame.Kind {
	case FrameData:
		p.onData(frame)
	case FrameACK:
		p.onAck(frame.AckNum)
	}
}

// onData implements the receiver half of the protocol.
func (p *goBackNProtocol) onData(frame *Frame) {
	if frame.SeqNum == p.expected {
		p.ToNetwork(frame.Payload)
		p.expected = (p.expected + 1) % p.modulus
		p.ToPhysical(&Frame{Kind: FrameACK, AckNum: (p.expected + p.modulus - 1) % p.modulus}, frame.From)
		return
	}
	// out-of-order: re-ack the last in-order frame we accepted.
	p.ToPhysical(&Frame{Kind: FrameACK, AckNum: (p.expected + p.modulus - 1) % p.modulus}, frame.From)
}

// onAck implements the sender half of the protocol: a cumulative ack of a
// pops every buffered frame from sendBase through a, inclusive.
func (p *goBackNProtocol) onAck(a int) {
	if p.outstanding == 0 {
		return
	}
	steps := ((a-p.sendBase)%p.modulus + p.modulus) % p.modulus + 1
	if steps > p.outstanding {
		// a does not correspond to any currently outstanding frame.
		return
	}
	for i := 0; i < steps; i++ {
		delete(p.buffer, p.sendBase)
		p.sendBase = (p.sendBase + 1) % p.modulus
	}
	p.outstanding -= steps
	if p.outstanding == 0 {
		p.StopTimer()
	} else {
		p.StartTimer()
	}
	p.EnableNetworkLayer()
}

// OnCorrupt implements [Protocol]: ignored, the timeout will retransmit
// the whole outstanding window.
func (p *goBackNProtocol) OnCorrupt(frame *Frame) {
	// nothing to do: the sender's timer will recover.
}

// OnTimeout implements [Protocol]: retransmit every outstanding frame, in
// order, starting from sendBase, and restart the timer.
func (p *goBackNProtocol) OnTimeout(timerID int64) {
	seq := p.sendBase
	for i := 0; i < p.outstanding; i++ {
		entry := p.buffer[seq]
		p.RecordRetransmit()
		p.ToPhysical(entry.frame, entry.dst)
		seq = (seq + 1) % p.modulus
	}
	if p.outstanding > 0 {
		p.StartTimer()
	}
}

// IsBidirectional implements [Protocol].
func (p *goBackNProtocol) IsBidirectional() bool { return true }

// ProtocolName implements [Protocol].
func (p *goBackNProtocol) ProtocolName() string { return string(GoBackN) }

// TimerDiscipline implements [Protocol].
func (p *goBackNProtocol) TimerDiscipline() TimerDiscipline { return EpochTimer }

var _ Protocol = &goBackNProtocol{}
