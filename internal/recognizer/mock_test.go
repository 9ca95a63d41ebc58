package recognizer

import (
	"testing"
	"time"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
)

func configWithMode(mode string) config.RecognizerConfig {
	return config.RecognizerConfig{Mode: mode, SampleRate: 16000, Channels: 1, RotationIntervalMS: 45000}
}

func TestMockDeliversOneTerminalResult(t *testing.T) {
	results := make(chan Result, 4)
	svc := NewMock()

	sess, err := svc.Begin(func(r Result) { results <- r })
	if err != nil {
		t.Fatalf("begin session: %v", err)
	}

	sess.Feed(make([]byte, 320))
	sess.Feed(make([]byte, 160))
	sess.EndInput()

	select {
	case r := <-results:
		if !r.Terminal() {
			t.Fatalf("expected terminal result, got %+v", r)
		}
		if r.Err != nil {
			t.Fatalf("unexpected failure: %v", r.Err)
		}
		if r.Text != "[final transcript length=480]" {
			t.Fatalf("unexpected text: %q", r.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for terminal result")
	}

	// Calls after end-of-input must not produce a second delivery.
	sess.Feed(make([]byte, 100))
	sess.EndInput()
	select {
	case r := <-results:
		t.Fatalf("unexpected extra result: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNewRejectsUnknownMode(t *testing.T) {
	if _, err := New(configWithMode("telepathy")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestNewExecRequiresCommand(t *testing.T) {
	if _, err := New(configWithMode("exec")); err == nil {
		t.Fatal("expected error for empty exec command")
	}
}
