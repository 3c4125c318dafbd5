package dlsim

//
// Channel (physical layer)
//

import "math/rand"

// ChannelConfig contains config for a [Channel]. Make sure you initialize
// all the fields marked as MANDATORY.
type ChannelConfig struct {
	// ErrorRate is the OPTIONAL probability, in [0, 1], that this channel
	// flags a transmitted frame as corrupted.
	ErrorRate float64

	// TransmissionDelay is the OPTIONAL virtual-time delay, in seconds,
	// added between a send and the corresponding arrival event.
	TransmissionDelay float64

	// RNG is the OPTIONAL random number generator used to draw corruption
	// decisions. Defaults to a [math/rand.Rand] with the fixed seed 1, which
	// satisfies [RNG] directly. Inject another one to control the draws.
	RNG RNG
}

// Channel is the physical layer of one [Endpoint]: it delays frames by a
// configured transmission delay and flips a corruption flag with
// probability ErrorRate, scheduling the resulting [EventFrameArrival] or
// [EventChecksumError] event at the destination endpoint. The zero value is
// invalid; use [NewChannel] to construct.
type Channel struct {
	cfg    ChannelConfig
	paused bool
}

// NewChannel validates cfg and creates a [Channel]. Returns
// [ErrInvalidConfig] if ErrorRate is outside [0, 1] or TransmissionDelay is
// negative.
func NewChannel(cfg ChannelConfig) (*Channel, error) {
	if cfg.ErrorRate < 0 || cfg.ErrorRate > 1 {
		return nil, ErrInvalidConfig
	}
	if cfg.TransmissionDelay < 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.RNG == nil {
		cfg.RNG = rand.New(rand.NewSource(1))
	}
	return &Channel{cfg: cfg, paused: false}, nil
}

// Pause suppresses future [Channel.Send] calls: they are dropped at the
// sender silently. Events already scheduled are unaffected.
func (c *Channel) Pause() { c.paused = true }

// Resume undoes [Channel.Pause].
func (c *Channel) Resume() { c.paused = false }

// IsPaused reports whether the channel currently drops outgoing sends.
func (c *Channel) IsPaused() bool { return c.paused }

// Send schedules, on sched, the arrival of frame at endpoint dst, at virtual
// time now+TransmissionDelay. With probability ErrorRate the scheduled
// event is [EventChecksumError] and frame.Corrupted is set to true;
// otherwise it is [EventFrameArrival] and frame.Corrupted is false. If the
// channel is paused, Send is a silent no-op. Returns the transmission delay
// actually used, for the caller to report via the observer tap.
func (c *Channel) Send(sched *Scheduler, frame *Frame, dst string, now float64) float64 {
	if c.paused {
		return c.cfg.TransmissionDelay
	}

	corrupted := c.cfg.ErrorRate > 0 && c.cfg.RNG.Float64() < c.cfg.ErrorRate
	frame.Corrupted = corrupted

	kind := EventFrameArrival
	if corrupted {
		kind = EventChecksumError
	}

	sched.Schedule(&Event{
		Kind:      kind,
		Timestamp: now + c.cfg.TransmissionDelay,
		Target:    dst,
		Data:      frame,
	})
	return c.cfg.TransmissionDelay
}

// TransmissionDelay returns the channel's configured one-way delay.
func (c *Channel) TransmissionDelay() float64 { return c.cfg.TransmissionDelay }
