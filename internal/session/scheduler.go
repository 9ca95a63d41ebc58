package session

import (
	"sync"
	"time"
)

// Scheduler signals the controller to rotate the live session. Arm
// schedules a one-shot callback; the callback fires at most once per arm.
// Disarm cancels a pending callback and is a harmless no-op after the
// callback has already fired. Re-arming after a fire or disarm is legal.
type Scheduler interface {
	Arm(d time.Duration, fire func())
	Disarm()
}

// TimerScheduler is the production Scheduler on time.AfterFunc.
type TimerScheduler struct {
	mu    sync.Mutex
	timer *time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

func (s *TimerScheduler) Arm(d time.Duration, fire func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(d, fire)
}

func (s *TimerScheduler) Disarm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		// Stop returning false means the callback already fired or is
		// running; the controller's state guard absorbs that misfire.
		s.timer.Stop()
		s.timer = nil
	}
}
