package dlsim

import (
	"testing"

	"github.com/bassosimone/dlsim/internal"
)

// sequenceRNG returns floats from a fixed script in order, then clamps to
// the script's last value for any further draw. Deterministic replacement
// for the channel's default fixed-seed generator in tests that need
// exact control over which frames are corrupted.
type sequenceRNG struct {
	values []float64
	idx    int
}

func (r *sequenceRNG) Float64() float64 {
	v := r.values[r.idx]
	if r.idx < len(r.values)-1 {
		r.idx++
	}
	return v
}

var _ Logger = &internal.NullLogger{}

func newSimulator() *Simulator {
	return NewSimulator(&internal.NullLogger{})
}

func TestSimulatorUtopiaDeliversPayloads(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: Utopia})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: Utopia})

	if !sim.SendData("a", "b", "hello") {
		t.Fatal("SendData should succeed for registered endpoints")
	}
	if !sim.SendData("a", "b", "world") {
		t.Fatal("SendData should succeed for registered endpoints")
	}
	sim.Start()

	delivered := sim.Delivered("b")
	if len(delivered) != 2 || delivered[0].Payload != "hello" || delivered[1].Payload != "world" {
		t.Fatalf("got %v, want [hello world]", delivered)
	}
	if got := sim.Stats("a").FramesSent; got != 2 {
		t.Fatalf("FramesSent = %d, want 2", got)
	}
}

func TestSimulatorSendDataUnknownEndpoint(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: Utopia})

	if sim.SendData("a", "ghost", "x") {
		t.Fatal("SendData must return false for an unknown destination")
	}
	if sim.SendData("ghost", "a", "x") {
		t.Fatal("SendData must return false for an unknown source")
	}
}

func TestSimulatorRegisterEndpointAlreadyRegistered(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: Utopia})

	err := sim.RegisterEndpoint("a", RegisterOptions{Protocol: Utopia})
	if err != ErrAlreadyRegistered {
		t.Fatalf("got %v, want ErrAlreadyRegistered", err)
	}
}

func TestSimulatorRegisterEndpointInvalidConfig(t *testing.T) {
	sim := newSimulator()
	err := sim.RegisterEndpoint("a", RegisterOptions{Protocol: Utopia, ErrorRate: 2.0})
	if err != ErrInvalidConfig {
		t.Fatalf("got %v, want ErrInvalidConfig", err)
	}
}

func TestSimulatorStopAndWaitClean(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: StopAndWait})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: StopAndWait})

	sim.SendData("a", "b", "one")
	sim.SendData("a", "b", "two")
	sim.Start()

	delivered := sim.Delivered("b")
	if len(delivered) != 2 || delivered[0].Payload != "one" || delivered[1].Payload != "two" {
		t.Fatalf("got %v, want [one two]", delivered)
	}
}

func TestSimulatorSlidingWindow1BitBidirectional(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: SlidingWindow1Bit})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: SlidingWindow1Bit})

	sim.SendData("a", "b", "from-a")
	sim.SendData("b", "a", "from-b")
	sim.Start()

	deliveredAtB := sim.Delivered("b")
	if len(deliveredAtB) != 1 || deliveredAtB[0].Payload != "from-a" {
		t.Fatalf("got %v at b, want [from-a]", deliveredAtB)
	}
	deliveredAtA := sim.Delivered("a")
	if len(deliveredAtA) != 1 || deliveredAtA[0].Payload != "from-b" {
		t.Fatalf("got %v at a, want [from-b]", deliveredAtA)
	}
}

func TestSimulatorPARRecoversFromOneCorruption(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{
		Protocol:  PAR,
		ErrorRate: 0.5,
		RNG:       &sequenceRNG{values: []float64{0.1, 0.9}},
	})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: PAR})

	sim.SendData("a", "b", "payload")
	sim.Start()

	delivered := sim.Delivered("b")
	if len(delivered) != 1 || delivered[0].Payload != "payload" {
		t.Fatalf("got %v, want [payload]", delivered)
	}
	if got := sim.Stats("a").Retransmits; got != 1 {
		t.Fatalf("Retransmits = %d, want 1", got)
	}
	if got := sim.Stats("b").FramesCorrupted; got != 1 {
		t.Fatalf("FramesCorrupted = %d, want 1", got)
	}
}

func TestSimulatorGoBackNWindowRecoversFromCorruption(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{
		Protocol:   GoBackN,
		WindowSize: 4,
		ErrorRate:  0.5,
		// the second frame in the window (seq 1) is corrupted once;
		// every later draw clamps to the script's last (clean) value.
		RNG: &sequenceRNG{values: []float64{0.9, 0.1, 0.9, 0.9}},
	})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: GoBackN, WindowSize: 4})

	for _, payload := range []string{"p0", "p1", "p2", "p3"} {
		sim.SendData("a", "b", payload)
	}
	sim.Start()

	delivered := sim.Delivered("b")
	want := []string{"p0", "p1", "p2", "p3"}
	if len(delivered) != len(want) {
		t.Fatalf("got %d delivered packets, want %d", len(delivered), len(want))
	}
	for i, p := range want {
		if delivered[i].Payload != p {
			t.Fatalf("delivered[%d] = %q, want %q", i, delivered[i].Payload, p)
		}
	}
	// Go-Back-N has no per-frame NAK: a lost frame drags the whole
	// outstanding window (seq 1, 2, 3) back after the timeout.
	if got := sim.Stats("a").Retransmits; got != 3 {
		t.Fatalf("Retransmits = %d, want 3", got)
	}
	if got := sim.Stats("b").FramesCorrupted; got != 1 {
		t.Fatalf("FramesCorrupted = %d, want 1", got)
	}
}

func TestSimulatorSelectiveRepeatRecoversWithSingleRetransmit(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{
		Protocol:   SelectiveRepeat,
		WindowSize: 4,
		ErrorRate:  0.5,
		RNG:        &sequenceRNG{values: []float64{0.9, 0.1, 0.9, 0.9}},
	})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: SelectiveRepeat, WindowSize: 4})

	for _, payload := range []string{"p0", "p1", "p2", "p3"} {
		sim.SendData("a", "b", payload)
	}
	sim.Start()

	delivered := sim.Delivered("b")
	want := []string{"p0", "p1", "p2", "p3"}
	if len(delivered) != len(want) {
		t.Fatalf("got %d delivered packets, want %d", len(delivered), len(want))
	}
	for i, p := range want {
		if delivered[i].Payload != p {
			t.Fatalf("delivered[%d] = %q, want %q", i, delivered[i].Payload, p)
		}
	}
	// Selective Repeat's per-frame NAK retransmits only the lost frame,
	// unlike Go-Back-N's whole-window retransmission above.
	if got := sim.Stats("a").Retransmits; got != 1 {
		t.Fatalf("Retransmits = %d, want 1", got)
	}
	if got := sim.Stats("b").FramesCorrupted; got != 1 {
		t.Fatalf("FramesCorrupted = %d, want 1", got)
	}
}

func TestSimulatorUtopiaErrorRateOneNeverDelivers(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: Utopia, ErrorRate: 1.0})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: Utopia})

	sim.SendData("a", "b", "lost")
	sim.Start()

	if delivered := sim.Delivered("b"); len(delivered) != 0 {
		t.Fatalf("got %v, want no deliveries at error_rate=1.0", delivered)
	}
}

func TestSimulatorPARErrorRateOneRetransmitsIndefinitely(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: PAR, ErrorRate: 1.0})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: PAR})

	// The sender would retransmit forever under a permanently corrupting
	// channel; bound the run externally via the observer tap instead of
	// letting Start() spin without end.
	const retransmitCap = 5
	sim.SetObserver(func(ev ObserverEvent) {
		if sim.Stats("a").Retransmits >= retransmitCap {
			sim.Stop()
		}
	})

	sim.SendData("a", "b", "never-delivered")
	sim.Start()

	if got := sim.Stats("a").Retransmits; got < retransmitCap {
		t.Fatalf("Retransmits = %d, want at least %d", got, retransmitCap)
	}
	if delivered := sim.Delivered("b"); len(delivered) != 0 {
		t.Fatalf("got %v, want no deliveries with error_rate=1.0", delivered)
	}
}

func TestSimulatorPauseResumeTogglesIsPaused(t *testing.T) {
	sim := newSimulator()
	mustRegister(t, sim, "a", RegisterOptions{Protocol: Utopia})
	mustRegister(t, sim, "b", RegisterOptions{Protocol: Utopia})

	if sim.IsPaused() {
		t.Fatal("a fresh simulator must not be paused")
	}
	sim.Pause()
	if !sim.IsPaused() {
		t.Fatal("expected simulator to be paused")
	}
	sim.Resume()
	if sim.IsPaused() {
		t.Fatal("expected simulator to be resumed")
	}
}

func TestSimulatorStatsAndDeliveredForUnknownEndpoint(t *testing.T) {
	sim := newSimulator()
	if got := sim.Stats("ghost"); got != (Stats{}) {
		t.Fatalf("got %+v, want zero value", got)
	}
	if got := sim.Delivered("ghost"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
	if got := sim.Endpoint("ghost"); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

func mustRegister(t *testing.T, sim *Simulator, id string, opts RegisterOptions) {
	t.Helper()
	if err := sim.RegisterEndpoint(id, opts); err != nil {
		t.Fatalf("RegisterEndpoint(%q): %v", id, err)
	}
}
