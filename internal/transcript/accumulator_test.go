package transcript

import "testing"

func TestAppendJoinsWithSingleSpace(t *testing.T) {
	a := NewAccumulator()
	if got := a.Append("hello world"); got != "hello world" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if got := a.Append("goodbye"); got != "hello world goodbye" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if got := a.Text(); got != "hello world goodbye" {
		t.Fatalf("unexpected transcript: %q", got)
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 fragments, got %d", a.Len())
	}
}

func TestAppendIsVerbatim(t *testing.T) {
	a := NewAccumulator()
	a.Append("hello")
	// No dedup and no merging: repeated fragments stay.
	if got := a.Append("hello"); got != "hello hello" {
		t.Fatalf("unexpected transcript: %q", got)
	}
}

func TestEmptyAccumulator(t *testing.T) {
	a := NewAccumulator()
	if got := a.Text(); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}
