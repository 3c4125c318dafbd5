package dlsim

//
// Endpoint (machine)
//

// EndpointConfig contains config for registering an [Endpoint]. Make sure
// you initialize the fields marked as MANDATORY.
type EndpointConfig struct {
	// Protocol is the MANDATORY data-link protocol instance this endpoint
	// runs.
	Protocol Protocol

	// ErrorRate is the OPTIONAL per-frame corruption probability, in
	// [0, 1], for this endpoint's outgoing channel.
	ErrorRate float64

	// TransmissionDelay is the OPTIONAL virtual-time one-way delay, in
	// seconds, for this endpoint's outgoing channel.
	TransmissionDelay float64

	// RNG is the OPTIONAL corruption-draw random number generator; see
	// [ChannelConfig.RNG].
	RNG RNG
}

// Endpoint is a machine: an id, a [Channel] (physical layer), a
// [NetworkLayer], a bound [Protocol] (data-link layer), and the timer state
// backing whichever [TimerDiscipline] the protocol declares. The zero value
// is invalid; endpoints are created by [Simulator.RegisterEndpoint].
type Endpoint struct {
	id        string
	channel   *Channel
	network   *NetworkLayer
	protocol  Protocol
	sim       *Simulator
	epoch     epochTimerService
	multi     *multiTimerService
	timerKind TimerDiscipline
	stats     Stats
}

// ID returns this endpoint's registered identifier.
func (e *Endpoint) ID() string { return e.id }

// Network returns this endpoint's network layer, primarily for tests and
// for [Simulator.Delivered].
func (e *Endpoint) Network() *NetworkLayer { return e.network }

// Protocol returns the protocol instance bound to this endpoint.
func (e *Endpoint) Protocol() Protocol { return e.protocol }

// Stats returns a snapshot of this endpoint's counters.
func (e *Endpoint) Stats() Stats { return e.stats }

// dispatch routes ev to the appropriate protocol callback.
func (e *Endpoint) dispatch(ev *Event) {
	switch ev.Kind {
	case EventFrameArrival:
		frame := ev.Data.(*Frame)
		e.protocol.OnFrame(frame)
	case EventChecksumError:
		frame := ev.Data.(*Frame)
		e.stats.FramesCorrupted++
		e.protocol.OnCorrupt(frame)
	case EventNetworkReady:
		e.protocol.OnNetworkReady(e.network)
	case EventDeliverPacket:
		packet := ev.Data.(*Packet)
		e.network.Deliver(packet)
		e.stats.PacketsDelivered++
		e.sim.notifyPacketDelivered(packet, e.id)
	case EventTimeout:
		td := ev.Data.(*TimeoutData)
		e.dispatchTimeout(td.TimerID)
	default:
		e.sim.logger().Warnf("dlsim: endpoint %s: unknown event kind %v", e.id, ev.Kind)
	}
}

// dispatchTimeout filters out stale timeouts, branching on the protocol's
// declared [TimerDiscipline] rather than a runtime capability check.
func (e *Endpoint) dispatchTimeout(timerID int64) {
	switch e.timerKind {
	case EpochTimer:
		if e.epoch.fires(timerID) {
			e.protocol.OnTimeout(timerID)
		}
	case MultiTimer:
		if _, ok := e.multi.seqFor(timerID); ok {
			// OnTimeout may arm a replacement timer for the same seq
			// before we get here; cancel by the exact fired id, never
			// by scanning for seq, so the replacement is never the one
			// removed.
			e.protocol.OnTimeout(timerID)
			e.multi.cancel(timerID)
		}
	}
}

// toPhysical implements the Base.ToPhysical helper: hands frame to this
// endpoint's channel for delivery to dst, and notifies the observer tap.
func (e *Endpoint) toPhysical(frame *Frame, dst string) {
	e.stats.FramesSent++
	frame.From = e.id
	delay := e.channel.Send(e.sim.scheduler, frame, dst, e.sim.now)
	e.sim.notifyPacketSent(frame, e.id, dst, delay)
}

// toNetwork implements the Base.ToNetwork helper: schedules an immediate
// DELIVER_PACKET hand-off to this same endpoint's network layer.
func (e *Endpoint) toNetwork(packet *Packet) {
	e.sim.scheduler.Schedule(&Event{
		Kind:      EventDeliverPacket,
		Timestamp: e.sim.now,
		Target:    e.id,
		Data:      packet,
	})
}

// enableNetworkLayer implements the Base.EnableNetworkLayer helper.
func (e *Endpoint) enableNetworkLayer() {
	e.sim.scheduler.Schedule(&Event{
		Kind:      EventNetworkReady,
		Timestamp: e.sim.now,
		Target:    e.id,
	})
}

// startEpochTimer implements the Base.StartTimer helper for [EpochTimer]
// protocols: it bumps the epoch and schedules the corresponding TIMEOUT.
func (e *Endpoint) startEpochTimer() int64 {
	epoch := e.epoch.arm()
	timeout := DefaultTimeoutDuration(e.channel.TransmissionDelay())
	e.sim.scheduler.Schedule(&Event{
		Kind:      EventTimeout,
		Timestamp: e.sim.now + timeout,
		Target:    e.id,
		Data:      &TimeoutData{TimerID: epoch},
	})
	return epoch
}

// stopEpochTimer implements the Base.StopTimer helper: bumps the epoch,
// invalidating whatever TIMEOUT is pending.
func (e *Endpoint) stopEpochTimer() {
	e.epoch.cancel()
}

// startFrameTimer implements the Base.StartTimerFor helper for
// [MultiTimer] protocols: allocates a fresh timer id bound to seq and
// schedules its TIMEOUT.
func (e *Endpoint) startFrameTimer(seq int) int64 {
	id := e.multi.arm(seq)
	timeout := DefaultTimeoutDuration(e.channel.TransmissionDelay())
	e.sim.scheduler.Schedule(&Event{
		Kind:      EventTimeout,
		Timestamp: e.sim.now + timeout,
		Target:    e.id,
		Data:      &TimeoutData{TimerID: id},
	})
	return id
}

// stopFrameTimer implements the Base.StopTimerFor helper.
func (e *Endpoint) stopFrameTimer(id int64) {
	e.multi.cancel(id)
}

// stopFrameTimerForSeq cancels whichever live per-frame timer is currently
// bound to seq.
func (e *Endpoint) stopFrameTimerForSeq(seq int) {
	e.multi.cancelForSeq(seq)
}

// now returns the simulator's current virtual clock value.
func (e *Endpoint) now() float64 { return e.sim.now }

// logger returns the simulator's configured logger.
func (e *Endpoint) logger() Logger { return e.sim.log }
