// Package downtime measures the listening gap incurred at each session
// rotation: the interval between one session's end-of-input and its
// replacement beginning to listen.
package downtime

import (
	"sync"
	"time"
)

// Sink receives one sample per rotation.
type Sink interface {
	ReportDowntime(gap time.Duration)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(gap time.Duration)

func (f SinkFunc) ReportDowntime(gap time.Duration) { f(gap) }

// Tracker records stop/start timestamps and reports the elapsed gap,
// rounded to millisecond precision. The very first start has no prior stop
// and reports nothing.
type Tracker struct {
	mu        sync.Mutex
	clock     func() time.Time
	sink      Sink
	stoppedAt time.Time
	pending   bool
}

func NewTracker(sink Sink) *Tracker {
	return NewTrackerWithClock(sink, time.Now)
}

// NewTrackerWithClock takes an injectable time source for deterministic
// measurement.
func NewTrackerWithClock(sink Sink, clock func() time.Time) *Tracker {
	if sink == nil {
		sink = SinkFunc(func(time.Duration) {})
	}
	if clock == nil {
		clock = time.Now
	}
	return &Tracker{clock: clock, sink: sink}
}

// MarkStoppedListening records the moment audio forwarding ceased.
func (t *Tracker) MarkStoppedListening() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stoppedAt = t.clock()
	t.pending = true
}

// MarkStartedListening reports elapsed-since-stop when a stop is pending
// and clears it.
func (t *Tracker) MarkStartedListening() {
	t.mu.Lock()
	if !t.pending {
		t.mu.Unlock()
		return
	}
	gap := t.clock().Sub(t.stoppedAt).Round(time.Millisecond)
	t.pending = false
	sink := t.sink
	t.mu.Unlock()

	sink.ReportDowntime(gap)
}
