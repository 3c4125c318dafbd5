package dlsim

//
// Data model
//

// FrameKind identifies the kind of a [Frame].
type FrameKind int

const (
	// FrameData is a frame carrying a [Packet].
	FrameData = FrameKind(iota)

	// FrameACK is a positive acknowledgement frame.
	FrameACK

	// FrameNAK is a negative acknowledgement frame.
	FrameNAK
)

// String implements fmt.Stringer.
func (k FrameKind) String() string {
	switch k {
	case FrameData:
		return "DATA"
	case FrameACK:
		return "ACK"
	case FrameNAK:
		return "NAK"
	default:
		return "UNKNOWN"
	}
}

// Packet is the opaque network-layer payload carried inside a DATA [Frame].
type Packet struct {
	// Payload is the arbitrary content of the packet.
	Payload string
}

// Frame is the data-link unit exchanged between two endpoints' physical
// layers. The zero value is not meaningful; frames are always built by a
// protocol via the helpers in [Base].
type Frame struct {
	// Kind says whether this is a DATA, ACK, or NAK frame.
	Kind FrameKind

	// SeqNum is the frame's sequence number, modulo the protocol's modulus.
	SeqNum int

	// AckNum is the frame's (possibly piggybacked) ack number.
	AckNum int

	// Payload carries the packet for DATA frames, nil otherwise.
	Payload *Packet

	// Corrupted is set exclusively by the [Channel] that carried this
	// frame; it is the only authority on whether the frame is intact.
	Corrupted bool

	// From is the id of the endpoint that sent this frame, stamped by
	// [Endpoint]'s physical-layer hand-off. Lets a receiving protocol
	// address its reply without separately tracking "the peer."
	From string
}

// EventKind identifies the kind of a scheduled [Event]. This is a closed sum
// type: every event the scheduler will ever dispatch is one of these.
type EventKind int

const (
	// EventFrameArrival means a [Frame] reached an endpoint intact.
	EventFrameArrival = EventKind(iota)

	// EventChecksumError means a [Frame] reached an endpoint, but the
	// channel flagged it as corrupted.
	EventChecksumError

	// EventNetworkReady wakes a protocol to drain its outbound queue.
	EventNetworkReady

	// EventDeliverPacket hands a [Packet] from the data-link layer up to
	// the network layer.
	EventDeliverPacket

	// EventTimeout fires when a previously armed timer expires.
	EventTimeout
)

// String implements fmt.Stringer.
func (k EventKind) String() string {
	switch k {
	case EventFrameArrival:
		return "FRAME_ARRIVAL"
	case EventChecksumError:
		return "CKSUM_ERR"
	case EventNetworkReady:
		return "NETWORK_READY"
	case EventDeliverPacket:
		return "DELIVER_PACKET"
	case EventTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// TimeoutData is the payload of an [EventTimeout] event.
type TimeoutData struct {
	// TimerID is the epoch (for [EpochTimer] protocols) or the per-frame
	// timer identifier (for [MultiTimer] protocols) in effect when the
	// timer was armed.
	TimerID int64
}

// Event is a single unit of work the [Scheduler] dispatches at its
// [Event.Timestamp]. Data is kind-dependent: a [Frame] for
// [EventFrameArrival]/[EventChecksumError], a [*Packet] for
// [EventDeliverPacket], a [*TimeoutData] for [EventTimeout], nil for
// [EventNetworkReady].
type Event struct {
	// Kind says which of the five closed event kinds this is.
	Kind EventKind

	// Timestamp is the virtual-clock time at which this event fires.
	Timestamp float64

	// Target is the id of the endpoint this event is dispatched to.
	Target string

	// Data is the kind-dependent payload described above.
	Data any

	// seq is a monotonically increasing tiebreaker assigned by the
	// scheduler at schedule time, guaranteeing a deterministic FIFO
	// order among events sharing the same Timestamp.
	seq int64
}

// Logger is the logger used throughout the simulator. Satisfied in
// production by github.com/apex/log's package-level logger, and by
// [internal.NullLogger] in tests that don't care about log output.
type Logger interface {
	// Debugf formats and emits a debug message.
	Debugf(format string, v ...any)

	// Debug emits a debug message.
	Debug(message string)

	// Infof formats and emits an informational message.
	Infof(format string, v ...any)

	// Info emits an informational message.
	Info(message string)

	// Warnf formats and emits a warning message.
	Warnf(format string, v ...any)

	// Warn emits a warning message.
	Warn(message string)
}

// RNG is the minimal random-number-generator interface the [Channel] needs.
// Abstracted away from [math/rand.Rand] for testability, mirroring the
// teacher's LinkFwdRNG seam.
type RNG interface {
	// Float64 returns a pseudo-random number in [0.0, 1.0).
	Float64() float64
}

// ObserverEvent is the payload delivered to an observer tap registered via
// [Simulator.SetObserver]. Exactly two kinds are ever emitted: "packet_sent"
// and "packet_delivered".
type ObserverEvent struct {
	// Kind is either "packet_sent" or "packet_delivered".
	Kind string

	// Frame is set for "packet_sent" events.
	Frame *Frame

	// Packet is set for "packet_delivered" events.
	Packet *Packet

	// From is the sending endpoint id, set for "packet_sent" events.
	From string

	// To is the destination endpoint id, set for "packet_sent" events.
	To string

	// Duration is the channel's transmission delay, set for "packet_sent" events.
	Duration float64

	// EndpointID is the endpoint whose network layer accepted delivery,
	// set for "packet_delivered" events.
	EndpointID string
}

// Observer is the callback invoked synchronously as frames are handed to the
// physical layer and as packets are delivered upward. Any cross-thread
// dispatch (e.g. to a UI thread) is the observer's own responsibility.
type Observer func(ev ObserverEvent)
