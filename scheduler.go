package dlsim

//
// Event scheduler
//

import (
	"container/heap"
)

// Scheduler holds pending [Event]s and returns them in non-decreasing
// timestamp order, breaking ties deterministically by schedule order. The
// zero value is invalid; use [NewScheduler] to construct.
//
// The scheduler itself advances no clock: it is the caller's (the
// [Simulator]'s) responsibility to move the virtual clock to the timestamp
// of each event it pops.
type Scheduler struct {
	// heap is the underlying min-heap of pending events.
	heap eventHeap

	// nextSeq is the monotonically increasing tiebreaker counter.
	nextSeq int64
}

// NewScheduler creates an empty [Scheduler].
func NewScheduler() *Scheduler {
	return &Scheduler{
		heap:    eventHeap{},
		nextSeq: 0,
	}
}

// Schedule inserts ev into the queue. An event with a timestamp before any
// already-dispatched time is accepted (treated as immediate); the caller
// (the [Simulator]) is responsible for never moving the virtual clock
// backward when it eventually dispatches the event.
func (s *Scheduler) Schedule(ev *Event) {
	ev.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.heap, ev)
}

// PopEarliest removes and returns the event with the smallest timestamp
// (FIFO among ties), or nil if the queue is empty.
func (s *Scheduler) PopEarliest() *Event {
	if s.heap.Len() == 0 {
		return nil
	}
	return heap.Pop(&s.heap).(*Event)
}

// PeekEarliest returns, without removing it, the event with the smallest
// timestamp, or nil if the queue is empty.
func (s *Scheduler) PeekEarliest() *Event {
	if s.heap.Len() == 0 {
		return nil
	}
	return s.heap[0]
}

// PurgeFor removes every pending event targeting endpointID and returns how
// many were removed.
func (s *Scheduler) PurgeFor(endpointID string) int {
	kept := s.heap[:0]
	removed := 0
	for _, ev := range s.heap {
		if ev.Target == endpointID {
			removed++
			continue
		}
		kept = append(kept, ev)
	}
	s.heap = kept
	heap.Init(&s.heap)
	return removed
}

// IsEmpty reports whether the queue holds no pending events.
func (s *Scheduler) IsEmpty() bool {
	return s.heap.Len() == 0
}

// eventHeap implements container/heap.Interface over *Event, ordered by
// Timestamp ascending with Event.seq as a deterministic FIFO tiebreak.
type eventHeap []*Event

func (h eventHeap) Len() int { return len(h) }

func (h eventHeap) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*Event))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
