package dlsim

import (
	"testing"

	"github.com/bassosimone/dlsim/internal"
)

// spyProtocol records every callback invocation, for tests that want to
// drive an [Endpoint] directly without a full protocol state machine.
type spyProtocol struct {
	Base

	onNetworkReadyCalls int
	onFrameCalls        []*Frame
	onCorruptCalls      []*Frame
	onTimeoutCalls      []int64
}

func (p *spyProtocol) OnNetworkReady(net *NetworkLayer) { p.onNetworkReadyCalls++ }
func (p *spyProtocol) OnFrame(frame *Frame)             { p.onFrameCalls = append(p.onFrameCalls, frame) }
func (p *spyProtocol) OnCorrupt(frame *Frame)           { p.onCorruptCalls = append(p.onCorruptCalls, frame) }
func (p *spyProtocol) OnTimeout(timerID int64)          { p.onTimeoutCalls = append(p.onTimeoutCalls, timerID) }
func (p *spyProtocol) IsBidirectional() bool            { return false }
func (p *spyProtocol) ProtocolName() string             { return "spy" }
func (p *spyProtocol) TimerDiscipline() TimerDiscipline { return EpochTimer }

var _ Protocol = &spyProtocol{}

func newSpyEndpoint(t *testing.T) (*Endpoint, *spyProtocol, *Simulator) {
	t.Helper()
	sim := NewSimulator(&internal.NullLogger{})
	spy := &spyProtocol{}
	if err := sim.RegisterEndpoint("spy", RegisterOptions{Protocol: ProtocolName("spy-unused")}); err == nil {
		t.Fatal("expected NewProtocol to reject an unknown protocol name")
	}
	// RegisterEndpoint only constructs built-in protocols, so wire the spy
	// in directly the way [Simulator.RegisterEndpoint] would.
	ep := &Endpoint{
		id:        "spy",
		channel:   mustChannel(t),
		network:   NewNetworkLayer(),
		protocol:  spy,
		sim:       sim,
		timerKind: spy.TimerDiscipline(),
	}
	spy.bindEndpoint(ep)
	sim.endpoints["spy"] = ep
	return ep, spy, sim
}

func mustChannel(t *testing.T) *Channel {
	t.Helper()
	ch, err := NewChannel(ChannelConfig{})
	if err != nil {
		t.Fatal(err)
	}
	return ch
}

func TestEndpointDispatchFrameArrival(t *testing.T) {
	ep, spy, _ := newSpyEndpoint(t)
	frame := &Frame{Kind: FrameData}
	ep.dispatch(&Event{Kind: EventFrameArrival, Data: frame})
	if len(spy.onFrameCalls) != 1 || spy.onFrameCalls[0] != frame {
		t.Fatalf("expected OnFrame to be called once with frame, got %v", spy.onFrameCalls)
	}
}

func TestEndpointDispatchChecksumError(t *testing.T) {
	ep, spy, _ := newSpyEndpoint(t)
	frame := &Frame{Kind: FrameData, Corrupted: true}
	ep.dispatch(&Event{Kind: EventChecksumError, Data: frame})
	if len(spy.onCorruptCalls) != 1 {
		t.Fatalf("expected OnCorrupt to be called once, got %d", len(spy.onCorruptCalls))
	}
	if ep.Stats().FramesCorrupted != 1 {
		t.Fatalf("expected FramesCorrupted to be 1, got %d", ep.Stats().FramesCorrupted)
	}
}

func TestEndpointDispatchNetworkReady(t *testing.T) {
	ep, spy, _ := newSpyEndpoint(t)
	ep.dispatch(&Event{Kind: EventNetworkReady})
	if spy.onNetworkReadyCalls != 1 {
		t.Fatalf("expected OnNetworkReady to be called once, got %d", spy.onNetworkReadyCalls)
	}
}

func TestEndpointDispatchDeliverPacket(t *testing.T) {
	ep, _, _ := newSpyEndpoint(t)
	packet := &Packet{Payload: "hi"}
	ep.dispatch(&Event{Kind: EventDeliverPacket, Data: packet})
	if ep.Stats().PacketsDelivered != 1 {
		t.Fatalf("expected PacketsDelivered to be 1, got %d", ep.Stats().PacketsDelivered)
	}
	delivered := ep.Network().Delivered()
	if len(delivered) != 1 || delivered[0] != packet {
		t.Fatalf("expected packet to be delivered, got %v", delivered)
	}
}

func TestEndpointEpochTimeoutFiltersStaleEvents(t *testing.T) {
	ep, spy, _ := newSpyEndpoint(t)

	first := ep.startEpochTimer()
	second := ep.startEpochTimer() // invalidates first

	ep.dispatch(&Event{Kind: EventTimeout, Data: &TimeoutData{TimerID: first}})
	if len(spy.onTimeoutCalls) != 0 {
		t.Fatalf("a stale epoch timeout must not reach the protocol, got %v", spy.onTimeoutCalls)
	}

	ep.dispatch(&Event{Kind: EventTimeout, Data: &TimeoutData{TimerID: second}})
	if len(spy.onTimeoutCalls) != 1 || spy.onTimeoutCalls[0] != second {
		t.Fatalf("expected the live epoch timeout to reach the protocol, got %v", spy.onTimeoutCalls)
	}
}

func TestEndpointToPhysicalStampsFrom(t *testing.T) {
	ep, _, sim := newSpyEndpoint(t)
	frame := &Frame{Kind: FrameData}
	ep.toPhysical(frame, "dst")
	if frame.From != "spy" {
		t.Fatalf("got From %q, want %q", frame.From, "spy")
	}
	if sim.scheduler.IsEmpty() {
		t.Fatal("toPhysical must schedule an arrival event")
	}
}

func TestEndpointEnableNetworkLayerSchedulesImmediateEvent(t *testing.T) {
	ep, _, sim := newSpyEndpoint(t)
	ep.enableNetworkLayer()
	ev := sim.scheduler.PopEarliest()
	if ev == nil || ev.Kind != EventNetworkReady || ev.Target != "spy" {
		t.Fatalf("got %+v, want an immediate NETWORK_READY targeting spy", ev)
	}
}
