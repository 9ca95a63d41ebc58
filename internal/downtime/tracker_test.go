package downtime

import (
	"testing"
	"time"
)

type captureSink struct {
	samples []time.Duration
}

func (c *captureSink) ReportDowntime(gap time.Duration) {
	c.samples = append(c.samples, gap)
}

func newTrackerAt(sink Sink, at *time.Time) *Tracker {
	tr := NewTracker(sink)
	tr.clock = func() time.Time { return *at }
	return tr
}

func TestFirstStartReportsNothing(t *testing.T) {
	sink := &captureSink{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrackerAt(sink, &now)

	tr.MarkStartedListening()
	if len(sink.samples) != 0 {
		t.Fatalf("expected no sample before any stop, got %v", sink.samples)
	}
}

func TestReportsGapOncePerRotation(t *testing.T) {
	sink := &captureSink{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrackerAt(sink, &now)

	tr.MarkStoppedListening()
	now = now.Add(200 * time.Millisecond)
	tr.MarkStartedListening()

	if len(sink.samples) != 1 {
		t.Fatalf("expected exactly 1 sample, got %d", len(sink.samples))
	}
	if sink.samples[0] != 200*time.Millisecond {
		t.Fatalf("expected 200ms gap, got %v", sink.samples[0])
	}

	// A second start without a new stop must not report again.
	tr.MarkStartedListening()
	if len(sink.samples) != 1 {
		t.Fatalf("expected still 1 sample, got %d", len(sink.samples))
	}
}

func TestGapRoundedToMillisecond(t *testing.T) {
	sink := &captureSink{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrackerAt(sink, &now)

	tr.MarkStoppedListening()
	now = now.Add(150*time.Millisecond + 499*time.Microsecond)
	tr.MarkStartedListening()

	if sink.samples[0] != 150*time.Millisecond {
		t.Fatalf("expected rounded 150ms, got %v", sink.samples[0])
	}
}

func TestGapNonNegative(t *testing.T) {
	sink := &captureSink{}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := newTrackerAt(sink, &now)

	tr.MarkStoppedListening()
	tr.MarkStartedListening()

	if sink.samples[0] < 0 {
		t.Fatalf("expected non-negative gap, got %v", sink.samples[0])
	}
}
