// Package dlsim is a discrete-event simulator of classical data-link-layer
// protocols between two endpoints, conventionally named A and B, connected
// by a lossy, delayed, corrupting channel.
//
// The simulator reproduces, at the behavioral level, the textbook protocol
// family: [Utopia], [StopAndWait], [PAR], [SlidingWindow1Bit], [GoBackN], and
// [SelectiveRepeat]. Each [ProtocolName] is constructed by [NewProtocol] into
// a [Protocol] implementation plugged into an [Endpoint] by
// [Simulator.RegisterEndpoint].
//
// The simulator core is built around a virtual clock: a [Scheduler] holds
// a min-heap of [Event]s keyed by timestamp, and advances the clock only by
// dispatching events, never by sleeping. This makes every run fully
// reproducible given a seeded [RNG].
//
// A typical caller creates a [Simulator], registers two endpoints with
// [Simulator.RegisterEndpoint], optionally attaches an [Observer] with
// [Simulator.SetObserver], submits payloads with [Simulator.SendData], and
// drains the event queue with [Simulator.Start] (or paces it to wall-clock
// time with [Simulator.AdvanceUntil]).
//
// Each [Endpoint] is the composition of three layers:
//
//   - a [Channel], the physical layer, which delays frames and flips a
//     corruption flag with some probability;
//
//   - a [Protocol], the data-link layer under study, which owns all
//     sequencing, windowing, and retransmission logic;
//
//   - a [NetworkLayer], which queues outbound payloads and records
//     delivered ones.
//
// Because the whole core is single-threaded and cooperative, no protocol
// needs locks: all state mutation happens inside the handler of a single
// [Event].
package dlsim
