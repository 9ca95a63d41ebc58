package recognizer

import (
	"fmt"
	"sync"
)

type mockService struct{}

// NewMock returns a backend that reports the amount of audio it swallowed
// instead of real text. Useful for wiring checks without a model.
func NewMock() Service {
	return &mockService{}
}

func (m *mockService) Begin(onResult func(Result)) (Session, error) {
	return &mockSession{onResult: onResult}, nil
}

type mockSession struct {
	mu       sync.Mutex
	onResult func(Result)
	bytes    int
	done     bool
}

func (s *mockSession) Feed(pcm []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return
	}
	s.bytes += len(pcm)
}

func (s *mockSession) EndInput() {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.done = true
	bytes := s.bytes
	cb := s.onResult
	s.mu.Unlock()

	go cb(Result{
		Text:  fmt.Sprintf("[final transcript length=%d]", bytes),
		Final: true,
	})
}
