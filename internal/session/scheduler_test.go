package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTimerSchedulerFiresOnce(t *testing.T) {
	s := NewTimerScheduler()
	var fires atomic.Int32
	s.Arm(10*time.Millisecond, func() { fires.Add(1) })

	time.Sleep(60 * time.Millisecond)
	if got := fires.Load(); got != 1 {
		t.Fatalf("expected exactly one fire, got %d", got)
	}

	// Disarm after the fire is a harmless no-op.
	s.Disarm()
}

func TestTimerSchedulerDisarmCancelsPendingFire(t *testing.T) {
	s := NewTimerScheduler()
	var fires atomic.Int32
	s.Arm(30*time.Millisecond, func() { fires.Add(1) })
	s.Disarm()

	time.Sleep(80 * time.Millisecond)
	if got := fires.Load(); got != 0 {
		t.Fatalf("expected no fire after disarm, got %d", got)
	}
}

func TestTimerSchedulerRearm(t *testing.T) {
	s := NewTimerScheduler()
	var fires atomic.Int32
	s.Arm(10*time.Millisecond, func() { fires.Add(1) })
	time.Sleep(40 * time.Millisecond)

	s.Arm(10*time.Millisecond, func() { fires.Add(1) })
	time.Sleep(40 * time.Millisecond)

	if got := fires.Load(); got != 2 {
		t.Fatalf("expected two fires across two arms, got %d", got)
	}
}
