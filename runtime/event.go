// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"container/heap"
	"math"
)

// EventKind distinguishes the three event shapes of spec.md §4.4.1.
type EventKind int

const (
	EventStep EventKind = iota
	EventSpike
	EventSpikeLatch
)

// Visitor owns the instances processed at one rung of an EventStep's
// cycling queue (spec.md §4.4.1 "Owns a cycling queue of Visitors; each
// visitor owns the list of instances at its rung").
type Visitor[T Numeric] struct {
	Population Population[T]
}

// Event is one entry of the scheduler's priority queue.
type Event[T Numeric] struct {
	Kind       EventKind
	T          T
	Dt         T // step interval, for EventStep re-enqueue
	Visitors   []Visitor[T]
	Targets    []Instance[T]
	ValueIndex int // which EventSource triggered this spike, for SpikeLatch
	index      int // heap.Interface bookkeeping
}

// eventQueue is a binary min-heap ordered by Event.T (spec.md §4.4.1
// "at each simulator tick, the earliest-time event is popped").
type eventQueue[T Numeric] []*Event[T]

func (q eventQueue[T]) Len() int { return len(q) }

// Less orders primarily by time; at equal time it breaks ties by Kind so
// a step's integrate/update/finalize always completes before a same-tick
// spike is delivered (spec.md §5 "Spike events at the same t as a step
// are delivered after the step's finalize", §9 Open Question "the source
// privileges step finalize first").
func (q eventQueue[T]) Less(i, j int) bool {
	if q[i].T != q[j].T {
		return q[i].T < q[j].T
	}
	return q[i].Kind < q[j].Kind
}
func (q eventQueue[T]) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index, q[j].index = i, j
}

func (q *eventQueue[T]) Push(x any) {
	e := x.(*Event[T])
	e.index = len(*q)
	*q = append(*q, e)
}

func (q *eventQueue[T]) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler drives the event-driven dispatch loop of spec.md §4.4.1.
type Scheduler[T Numeric] struct {
	queue eventQueue[T]
	Now   T
}

// NewScheduler returns an empty Scheduler.
func NewScheduler[T Numeric]() *Scheduler[T] {
	s := &Scheduler[T]{}
	heap.Init(&s.queue)
	return s
}

// Schedule inserts ev into the queue.
func (s *Scheduler[T]) Schedule(ev *Event[T]) { heap.Push(&s.queue, ev) }

// Empty reports whether the scheduler has no pending events.
func (s *Scheduler[T]) Empty() bool { return len(s.queue) == 0 }

// PeekLE reports whether the earliest pending event's time is <= until,
// without popping it.
func (s *Scheduler[T]) PeekLE(until T) bool {
	return len(s.queue) > 0 && s.queue[0].T <= until
}

// Step pops the earliest event and dispatches it (spec.md §4.4.1
// "Dispatch"): for a step event the integrator runs, then update then
// finalize over every live instance, then the event is re-enqueued at
// t+dt; for a spike event, targets' latches are set and finalizeEvent is
// called.
func (s *Scheduler[T]) Step(integrate func(pop Population[T], t T, dt T)) {
	ev := heap.Pop(&s.queue).(*Event[T])
	s.Now = ev.T
	switch ev.Kind {
	case EventStep:
		for _, v := range ev.Visitors {
			integrate(v.Population, ev.T, ev.Dt)
			v.Population.Update(ev.T)
			v.Population.Finalize(ev.T)
		}
		ev.T += ev.Dt
		heap.Push(&s.queue, ev)
	case EventSpike:
		for _, inst := range ev.Targets {
			inst.SetLatch(ev.ValueIndex)
			inst.FinalizeEvent(ev.ValueIndex)
		}
	case EventSpikeLatch:
		for _, inst := range ev.Targets {
			inst.SetLatch(ev.ValueIndex)
		}
	}
}

// edge is the trigger condition an EventSource watches for (spec.md
// §4.4.1 "Event detection").
type edge int

const (
	EdgeNonzero edge = iota
	EdgeRise
	EdgeFall
	EdgeChange
)

// Triggered reports whether the transition from before to after crosses
// e, per spec.md §4.4.1's four edge definitions.
func Triggered[T Numeric](e edge, before, after T) bool {
	var zero T
	switch e {
	case EdgeRise:
		return before == zero && after != zero
	case EdgeFall:
		return before != zero && after == zero
	case EdgeChange:
		return before != after
	default: // EdgeNonzero
		return after != zero
	}
}

// QuantizeDelay snaps delay to the nearest multiple of dt when within
// 1e-3 of it, otherwise returns delay unchanged for off-grid delivery
// (spec.md §4.4.1 "Delay quantization").
func QuantizeDelay(delay, dt float64) float64 {
	if dt == 0 {
		return delay
	}
	steps := delay / dt
	rounded := math.Round(steps)
	if math.Abs(steps-rounded) < 1e-3 {
		return rounded * dt
	}
	return delay
}
