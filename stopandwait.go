package dlsim

//
// Stop-and-Wait (error-free channel assumed; no timer)
//

// stopAndWaitProtocol implements [Protocol] for the error-free
// Stop-and-Wait protocol: the sender holds back a second submission until
// the first is acknowledged, and the receiver ACKs every DATA frame it
// sees.
type stopAndWaitProtocol struct {
	Base

	// waitingForAck is true between sending a DATA frame and receiving
	// its ACK.
	waitingForAck bool
}

func newStopAndWait() *stopAndWaitProtocol {
	return &stopAndWaitProtocol{}
}

// OnNetworkReady implements [Protocol].
func (p *stopAndWaitProtocol) OnNetworkReady(net *NetworkLayer) {
	if p.waitingForAck {
		return
	}
	payload, dst, ok := net.TakeNext()
	if !ok {
		return
	}
	p.ToPhysical(&Frame{Kind: FrameData, SeqNum: 0, AckNum: 0, Payload: payload}, dst)
	p.waitingForAck = true
}

// OnFrame implements [Protocol].
func (p *stopAndWaitProtocol) OnFrame(frame *Frame) {
	switch frame.Kind {
	case FrameData:
		p.ToNetwork(frame.Payload)
		p.ToPhysical(&Frame{Kind: FrameACK, SeqNum: 0, AckNum: 0}, frame.From)
	case FrameACK:
		p.waitingForAck = false
		p.EnableNetworkLayer()
	}
}

// OnCorrupt implements [Protocol]: a contract violation under an
// error-free channel assumption, so it is logged and otherwise ignored.
func (p *stopAndWaitProtocol) OnCorrupt(frame *Frame) {
	p.Logger().Warnf("dlsim: stop-and-wait endpoint %s received a corrupted frame on an assumed error-free channel", p.ID())
}

// OnTimeout implements [Protocol]: Stop-and-Wait never arms a timer.
func (p *stopAndWaitProtocol) OnTimeout(timerID int64) {
	// unreachable: Stop-and-Wait never starts a timer.
}

// IsBidirectional implements [Protocol].
func (p *stopAndWaitProtocol) IsBidirectional() bool { return false }

// ProtocolName implements [Protocol].
func (p *stopAndWaitProtocol) ProtocolName() string { return string(StopAndWait) }

// TimerDiscipline implements [Protocol].
func (p *stopAndWaitProtocol) TimerDiscipline() TimerDiscipline { return EpochTimer }

var _ Protocol = &stopAndWaitProtocol{}
