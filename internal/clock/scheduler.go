// Package clock provides the deterministic event scheduler that drives every
// game engine. Cadences (countdowns, spawns, movement) and one-shot deadlines
// (expiry, feedback delays) are entries in one queue, drained in order by
// Advance, so a session never runs two handlers at once and replays exactly.
package clock

import (
	"container/heap"
	"time"
)

// Kind identifies a timer within one scheduler. Engines define their own kinds.
type Kind int

// Event is a timer firing delivered by Advance.
type Event struct {
	Kind    Kind
	At      time.Duration // Scheduler time the event was due
	Payload any           // Value passed to After; nil for repeating timers
}

type timer struct {
	kind      Kind
	due       time.Duration
	interval  time.Duration // 0 for one-shot timers
	seq       uint64
	payload   any
	cancelled bool
	index     int
}

// Scheduler is a single-threaded timer queue on simulated time.
// The zero value is not usable; call New.
type Scheduler struct {
	now       time.Duration
	seq       uint64
	queue     timerQueue
	repeating map[Kind]*timer
	stopped   bool
}

// New creates an empty scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{
		repeating: make(map[Kind]*timer),
	}
}

// Now returns the current scheduler time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Every starts a repeating timer that first fires one interval from now.
// An existing repeating timer of the same kind is replaced.
func (s *Scheduler) Every(kind Kind, interval time.Duration) {
	if s.stopped || interval <= 0 {
		return
	}
	if old, ok := s.repeating[kind]; ok {
		old.cancelled = true
	}
	t := s.push(kind, s.now+interval, interval, nil)
	s.repeating[kind] = t
}

// After schedules a one-shot timer delay from now carrying payload.
func (s *Scheduler) After(kind Kind, delay time.Duration, payload any) {
	if s.stopped {
		return
	}
	if delay < 0 {
		delay = 0
	}
	s.push(kind, s.now+delay, 0, payload)
}

// Cancel drops every pending timer of the given kind, repeating or not.
func (s *Scheduler) Cancel(kind Kind) {
	for _, t := range s.queue {
		if t.kind == kind {
			t.cancelled = true
		}
	}
	delete(s.repeating, kind)
}

// Pending returns the number of live timers.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// Advance moves time forward by dt and calls dispatch for every timer that
// falls due, ordered by due time then registration order. Now() reports the
// event's due time while dispatch runs, so timers scheduled from a handler are
// relative to the event. A repeating timer fires once per elapsed interval.
// Advance returns early if dispatch calls Stop.
func (s *Scheduler) Advance(dt time.Duration, dispatch func(Event)) {
	if s.stopped {
		return
	}
	target := s.now + dt

	for len(s.queue) > 0 && !s.stopped {
		next := s.queue[0]
		if next.due > target {
			break
		}
		heap.Pop(&s.queue)
		if next.cancelled {
			continue
		}

		s.now = next.due
		if next.interval > 0 {
			next.due += next.interval
			heap.Push(&s.queue, next)
		}
		dispatch(Event{Kind: next.kind, At: s.now, Payload: next.payload})
	}

	if !s.stopped {
		s.now = target
	}
}

// Stop discards every pending timer. Nothing fires after Stop, and later
// calls to Every, After and Advance are no-ops.
func (s *Scheduler) Stop() {
	s.stopped = true
	s.queue = nil
	s.repeating = make(map[Kind]*timer)
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

func (s *Scheduler) push(kind Kind, due, interval time.Duration, payload any) *timer {
	s.seq++
	t := &timer{
		kind:     kind,
		due:      due,
		interval: interval,
		seq:      s.seq,
		payload:  payload,
	}
	heap.Push(&s.queue, t)
	return t
}

// timerQueue implements heap.Interface ordered by (due, seq).
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
