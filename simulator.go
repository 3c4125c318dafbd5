package dlsim

//
// Simulator façade
//

import "time"

// RegisterOptions contains the per-endpoint config surface exposed at
// registration. Make sure you initialize the fields marked as MANDATORY.
type RegisterOptions struct {
	// Protocol is the MANDATORY name of the protocol state machine this
	// endpoint runs.
	Protocol ProtocolName

	// ErrorRate is the OPTIONAL per-frame probability, in [0, 1], that
	// this endpoint's channel flips the corruption flag.
	ErrorRate float64

	// TransmissionDelay is the OPTIONAL virtual-time delay, in seconds,
	// from send to arrival on this endpoint's channel.
	TransmissionDelay float64

	// WindowSize is the OPTIONAL sender window, in [2, 8], required by
	// [GoBackN] and [SelectiveRepeat].
	WindowSize int

	// RNG is the OPTIONAL corruption-draw generator; see [ChannelConfig.RNG].
	RNG RNG
}

// Simulator is the façade over the whole core: it owns the [Scheduler], the
// endpoint registry, the virtual clock, and the observer tap. The zero
// value is invalid; use [NewSimulator] to construct.
type Simulator struct {
	scheduler *Scheduler
	endpoints map[string]*Endpoint
	now       float64
	log       Logger
	observer  Observer
	stopped   bool

	// wall-clock pacing state, used only by AdvanceUntil/Tick (driver b).
	startWall  time.Time
	paused     bool
	pausedAt   time.Time
	pauseAccum time.Duration
}

// NewSimulator creates an empty [Simulator] logging through logger.
func NewSimulator(logger Logger) *Simulator {
	return &Simulator{
		scheduler: NewScheduler(),
		endpoints: make(map[string]*Endpoint),
		log:       logger,
		startWall: time.Now(),
	}
}

// RegisterEndpoint creates an [Endpoint] named id running the protocol and
// channel parameters in opts. Returns [ErrAlreadyRegistered] if id is
// already in use, or [ErrInvalidConfig] if ErrorRate, TransmissionDelay, or
// WindowSize (for protocols that need one) are out of range.
func (s *Simulator) RegisterEndpoint(id string, opts RegisterOptions) error {
	if _, exists := s.endpoints[id]; exists {
		return ErrAlreadyRegistered
	}

	proto, err := NewProtocol(opts.Protocol, ProtocolConfig{WindowSize: opts.WindowSize})
	if err != nil {
		return err
	}

	channel, err := NewChannel(ChannelConfig{
		ErrorRate:         opts.ErrorRate,
		TransmissionDelay: opts.TransmissionDelay,
		RNG:               opts.RNG,
	})
	if err != nil {
		return err
	}

	ep := &Endpoint{
		id:        id,
		channel:   channel,
		network:   NewNetworkLayer(),
		protocol:  proto,
		sim:       s,
		timerKind: proto.TimerDiscipline(),
	}
	if ep.timerKind == MultiTimer {
		ep.multi = newMultiTimerService()
	}
	proto.bindEndpoint(ep)

	s.endpoints[id] = ep
	s.log.Infof("dlsim: registered endpoint %s running %s", id, proto.ProtocolName())
	return nil
}

// Endpoint returns the registered endpoint named id, or nil if unknown.
// Mainly useful for tests that want to inspect delivered packets or stats
// directly.
func (s *Simulator) Endpoint(id string) *Endpoint {
	return s.endpoints[id]
}

// SendData enqueues payload at the from endpoint's network layer, destined
// for to, and schedules the NETWORK_READY event that will wake its
// protocol. Returns false if either id is unknown.
func (s *Simulator) SendData(from, to, payload string) bool {
	src, ok := s.endpoints[from]
	if !ok {
		return false
	}
	if _, ok := s.endpoints[to]; !ok {
		return false
	}
	src.network.Enqueue(&Packet{Payload: payload}, to)
	s.scheduler.Schedule(&Event{
		Kind:      EventNetworkReady,
		Timestamp: s.now,
		Target:    from,
	})
	return true
}

// Start runs the "tight" driver: it pops and dispatches events until the
// queue drains or [Simulator.Stop] is called, always advancing the virtual
// clock to the popped event's timestamp. Suitable for batch tests; use
// [Simulator.AdvanceUntil] for wall-clock pacing instead.
func (s *Simulator) Start() {
	s.stopped = false
	for !s.stopped {
		ev := s.scheduler.PopEarliest()
		if ev == nil {
			return
		}
		s.dispatch(ev)
	}
}

// Stop halts the simulator: it discards the remaining event queue and
// marks the simulator stopped. In-flight frames are abandoned. A stopped
// simulator can be restarted by calling [Simulator.Start] again; pending
// work must be resubmitted via [Simulator.SendData].
func (s *Simulator) Stop() {
	s.stopped = true
	for !s.scheduler.IsEmpty() {
		s.scheduler.PopEarliest()
	}
}

// IsPaused reports whether the wall-clock-paced driver is currently paused.
func (s *Simulator) IsPaused() bool {
	return s.paused
}

// Pause freezes real elapsed time for [Simulator.AdvanceUntil]/[Simulator.Tick].
// Scheduled events are preserved across Pause/Resume.
func (s *Simulator) Pause() {
	if s.paused {
		return
	}
	s.paused = true
	s.pausedAt = time.Now()
}

// Resume undoes [Simulator.Pause], accounting the paused interval out of
// future real-elapsed-time computations.
func (s *Simulator) Resume() {
	if !s.paused {
		return
	}
	s.pauseAccum += time.Since(s.pausedAt)
	s.paused = false
}

// AdvanceUntil implements the "wall-clock-paced" driver: it dispatches
// every pending event whose timestamp is at most the real elapsed time
// (excluding any paused intervals) since the simulator was created, then
// returns without blocking. A no-op while paused.
func (s *Simulator) AdvanceUntil(realNow time.Time) {
	if s.paused || s.stopped {
		return
	}
	elapsed := realNow.Sub(s.startWall) - s.pauseAccum
	for {
		ev := s.scheduler.PeekEarliest()
		if ev == nil {
			return
		}
		if ev.Timestamp > elapsed.Seconds() {
			return
		}
		s.scheduler.PopEarliest()
		s.dispatch(ev)
	}
}

// Tick is a convenience wrapper around [Simulator.AdvanceUntil] using the
// current wall-clock time.
func (s *Simulator) Tick() {
	s.AdvanceUntil(time.Now())
}

// CurrentTime returns the simulator's current virtual clock value, in
// seconds.
func (s *Simulator) CurrentTime() float64 {
	return s.now
}

// SetObserver registers fn as the synchronous callback invoked as frames
// are handed to the physical layer and as packets are delivered upward.
// Pass nil to detach.
func (s *Simulator) SetObserver(fn Observer) {
	s.observer = fn
}

// Delivered returns the packets delivered so far to the endpoint named id,
// in delivery order, or nil if id is unknown.
func (s *Simulator) Delivered(id string) []*Packet {
	ep, ok := s.endpoints[id]
	if !ok {
		return nil
	}
	return ep.Network().Delivered()
}

// Stats returns a snapshot of the endpoint named id's counters, or the zero
// [Stats] if id is unknown.
func (s *Simulator) Stats(id string) Stats {
	ep, ok := s.endpoints[id]
	if !ok {
		return Stats{}
	}
	return ep.Stats()
}

// dispatch advances the virtual clock to max(now, ev.Timestamp) and routes
// ev to its target endpoint. A lower-than-now timestamp is accepted but
// must not move the clock backward.
func (s *Simulator) dispatch(ev *Event) {
	if ev.Timestamp > s.now {
		s.now = ev.Timestamp
	}
	ep, ok := s.endpoints[ev.Target]
	if !ok {
		s.log.Warnf("dlsim: event %s targets unknown endpoint %s, dropping", ev.Kind, ev.Target)
		return
	}
	ep.dispatch(ev)
}

// notifyPacketSent emits the "packet_sent" observer-tap event.
func (s *Simulator) notifyPacketSent(frame *Frame, from, to string, duration float64) {
	if s.observer == nil {
		return
	}
	s.observer(ObserverEvent{
		Kind:     "packet_sent",
		Frame:    frame,
		From:     from,
		To:       to,
		Duration: duration,
	})
}

// notifyPacketDelivered emits the "packet_delivered" observer-tap event.
func (s *Simulator) notifyPacketDelivered(packet *Packet, endpointID string) {
	if s.observer == nil {
		return
	}
	s.observer(ObserverEvent{
		Kind:       "packet_delivered",
		Packet:     packet,
		EndpointID: endpointID,
	})
}

// logger returns the configured [Logger], for the [Endpoint]/[Base] helpers.
func (s *Simulator) logger() Logger {
	return s.log
}
