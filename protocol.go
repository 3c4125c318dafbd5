package dlsim

//
// Protocol contract
//

// ProtocolName identifies one of the six built-in protocol state machines,
// used by [Simulator.RegisterEndpoint] and by [NewProtocol]. A closed
// string-enum, rather than ad-hoc strings scattered across call sites.
type ProtocolName string

const (
	// Utopia is the no-sequencing, no-ACK, no-timer baseline protocol.
	Utopia = ProtocolName("utopia")

	// StopAndWait is the error-free, single-outstanding-frame protocol.
	StopAndWait = ProtocolName("stop_and_wait")

	// PAR is Stop-and-Wait augmented with a retransmission timer.
	PAR = ProtocolName("par")

	// SlidingWindow1Bit is the bidirectional alternating-bit protocol.
	SlidingWindow1Bit = ProtocolName("sliding_window_1bit")

	// GoBackN is the cumulative-ACK sliding-window protocol.
	GoBackN = ProtocolName("go_back_n")

	// SelectiveRepeat is the per-frame-ACK/NAK sliding-window protocol.
	SelectiveRepeat = ProtocolName("selective_repeat")
)

// ProtocolConfig carries the parameters needed to construct a [Protocol].
// Not every field is meaningful for every protocol; see [NewProtocol].
type ProtocolConfig struct {
	// WindowSize is the sender (and, for Selective Repeat, receiver)
	// window size, required when [NewProtocol] builds [GoBackN] or
	// [SelectiveRepeat].
	// MUST be in [2, 8].
	WindowSize int
}

// Protocol is the contract every data-link state machine implements. A
// Protocol reaches the outside world exclusively through the helpers
// embedded via [Base]: ToPhysical, ToNetwork, StartTimer, StopTimer,
// EnableNetworkLayer.
type Protocol interface {
	// OnNetworkReady drains as much of the outbound queue as the
	// protocol's window allows.
	OnNetworkReady(net *NetworkLayer)

	// OnFrame handles a frame the channel certified as intact.
	OnFrame(frame *Frame)

	// OnCorrupt handles a frame the channel flagged as corrupted.
	OnCorrupt(frame *Frame)

	// OnTimeout handles the expiry of a timer. For [EpochTimer] protocols
	// timerID is the epoch that was current when the caller armed it
	// (already validated live by the [Endpoint] before this is called);
	// for [MultiTimer] protocols it identifies exactly which in-flight
	// frame timed out.
	OnTimeout(timerID int64)

	// IsBidirectional governs whether the outer driver should also feed
	// payloads submitted in the B->A direction through this protocol.
	IsBidirectional() bool

	// ProtocolName returns the human-readable protocol name used in logs.
	ProtocolName() string

	// TimerDiscipline says whether this protocol uses a single
	// epoch-based timer per endpoint or a per-frame multi-timer set.
	TimerDiscipline() TimerDiscipline

	// bindEndpoint wires the protocol to its hosting [Endpoint]; called
	// once by [Simulator.RegisterEndpoint]. Unexported: only this
	// package constructs protocols bound to endpoints.
	bindEndpoint(ep *Endpoint)
}

// Base is the shared scaffolding every built-in [Protocol] embeds: the four
// helpers exposed to protocol implementations, plus the common "which
// endpoint am I" bookkeeping. Grounded in the original source's BaseProtocol
// mixin (original_source/protocols/base_protocol.py), reimplemented as Go
// struct embedding instead of inheritance.
type Base struct {
	// Endpoint is the endpoint this protocol instance is bound to. Set by
	// [Simulator.RegisterEndpoint] before any protocol method is called.
	Endpoint *Endpoint
}

// bindEndpoint implements [Protocol].
func (b *Base) bindEndpoint(ep *Endpoint) { b.Endpoint = ep }

// ToPhysical hands frame to the physical layer for transmission to dst.
func (b *Base) ToPhysical(frame *Frame, dst string) { b.Endpoint.toPhysical(frame, dst) }

// ToNetwork hands packet up to the network layer.
func (b *Base) ToNetwork(packet *Packet) { b.Endpoint.toNetwork(packet) }

// StartTimer arms the endpoint's single epoch timer and returns the epoch
// to stamp as this arming's identity. Only meaningful for [EpochTimer]
// protocols.
func (b *Base) StartTimer() int64 { return b.Endpoint.startEpochTimer() }

// StartTimerFor arms a fresh per-frame timer bound to seq and returns its
// id. Only meaningful for [MultiTimer] protocols.
func (b *Base) StartTimerFor(seq int) int64 { return b.Endpoint.startFrameTimer(seq) }

// StopTimer cancels the endpoint's single epoch timer.
func (b *Base) StopTimer() { b.Endpoint.stopEpochTimer() }

// StopTimerFor cancels the per-frame timer identified by id.
func (b *Base) StopTimerFor(id int64) { b.Endpoint.stopFrameTimer(id) }

// StopTimerForSeq cancels whichever live per-frame timer is bound to seq.
func (b *Base) StopTimerForSeq(seq int) { b.Endpoint.stopFrameTimerForSeq(seq) }

// SeqForTimer returns the sequence number a [MultiTimer] timer id is bound
// to. Only meaningful while handling the OnTimeout call for that id, before
// the endpoint removes it from the live set.
func (b *Base) SeqForTimer(id int64) (int, bool) { return b.Endpoint.multi.seqFor(id) }

// EnableNetworkLayer self-posts an immediate NETWORK_READY event.
func (b *Base) EnableNetworkLayer() { b.Endpoint.enableNetworkLayer() }

// Now returns the simulator's current virtual time.
func (b *Base) Now() float64 { return b.Endpoint.now() }

// ID returns the id of the endpoint this protocol is bound to.
func (b *Base) ID() string { return b.Endpoint.id }

// Logger returns the logger the hosting simulator was configured with.
func (b *Base) Logger() Logger { return b.Endpoint.logger() }

// RecordRetransmit increments this endpoint's retransmit counter (see
// [Stats.Retransmits]). Protocols call this whenever OnTimeout or OnFrame
// (NAK handling) resends a frame rather than sending it for the first
// time.
func (b *Base) RecordRetransmit() { b.Endpoint.stats.Retransmits++ }

// NewProtocol constructs the [Protocol] named by name, using cfg for the
// protocols that need window parameters. Returns [ErrInvalidConfig] for an
// unknown name or an out-of-range WindowSize.
func NewProtocol(name ProtocolName, cfg ProtocolConfig) (Protocol, error) {
	switch name {
	case Utopia:
		return newUtopia(), nil
	case StopAndWait:
		return newStopAndWait(), nil
	case PAR:
		return newPAR(), nil
	case SlidingWindow1Bit:
		return newSlidingWindow1Bit(), nil
	case GoBackN:
		return newGoBackN(cfg.WindowSize)
	case SelectiveRepeat:
		return newSelectiveRepeat(cfg.WindowSize)
	default:
		return nil, ErrInvalidConfig
	}
}

// validateWindowSize enforces the allowed window_size range.
func validateWindowSize(w int) error {
	if w < 2 || w > 8 {
		return ErrInvalidConfig
	}
	return nil
}

// between reports whether, walking forward from a modulo m, b is reached
// strictly before c — the circular sequence-number comparison used to test
// window membership.
func between(a, b, c, m int) bool {
	a, b, c = ((a%m)+m)%m, ((b%m)+m)%m, ((c%m)+m)%m
	if a <= c {
		return a <= b && b < c
	}
	return b >= a || b < c
}
