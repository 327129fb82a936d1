package event

import (
	"github.com/go-foundations/dpsim/internal/dheap"
	"github.com/go-foundations/dpsim/job"
)

func less(a, b Event) bool {
	if a.Time != b.Time {
		return a.Time < b.Time
	}
	ar, at := a.Priority()
	br, bt := b.Priority()
	if ar != br {
		return ar < br
	}
	return at < bt
}

// Queue is the simulator's event heap.
type Queue struct {
	heap *dheap.Heap[Event]
}

// NewQueue returns an empty event queue.
func NewQueue() *Queue {
	return &Queue{heap: dheap.New(less)}
}

// Push enqueues an event.
func (q *Queue) Push(e Event) { q.heap.Push(e) }

// Top returns the raw minimum event without discarding ignored entries.
func (q *Queue) Top() (Event, bool) { return q.heap.Peek() }

// Pop removes and returns the raw minimum event.
func (q *Queue) Pop() (Event, bool) { return q.heap.Pop() }

// Len returns the number of queued events.
func (q *Queue) Len() int { return q.heap.Len() }

// Events enumerates all queued events; order is unspecified (heap order),
// matching the spec's "order-irrelevant" snapshot contract.
func (q *Queue) Events() []Event { return q.heap.Items() }

// EffectiveTop pops and discards any ignored Completion events from the top
// of the heap, returning the next live event (or none if the queue drains).
func (q *Queue) EffectiveTop(mgr *job.Manager) (Event, bool, error) {
	for {
		e, ok := q.heap.Peek()
		if !ok {
			return Event{}, false, nil
		}
		ignore, err := e.Check(mgr)
		if err != nil {
			return Event{}, false, err
		}
		if !ignore {
			return e, true, nil
		}
		q.heap.Pop()
	}
}
