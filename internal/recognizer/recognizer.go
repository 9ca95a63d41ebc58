// Package recognizer abstracts bounded speech-recognition sessions. Backends
// cap each session at roughly a minute of audio, so callers are expected to
// open sessions back to back rather than stream indefinitely.
package recognizer

import (
	"fmt"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
)

// Result is one delivery on a session's result callback. A session yields
// zero or more non-final results followed by exactly one terminal delivery:
// either a final result or a failure. After the terminal delivery the
// session handle is invalid.
type Result struct {
	Text       string
	Confidence float64
	Final      bool
	Err        error
}

// Terminal reports whether this delivery completes the session.
func (r Result) Terminal() bool {
	return r.Final || r.Err != nil
}

// Session is one bounded recognition exchange. Feed submits captured PCM;
// EndInput signals that no more audio will arrive and the backend should
// produce its terminal result.
type Session interface {
	Feed(pcm []byte)
	EndInput()
}

// Service opens recognition sessions. Begin returns an error when the
// backend cannot be engaged at all; failures after a successful Begin are
// delivered through the result callback instead.
type Service interface {
	Begin(onResult func(Result)) (Session, error)
}

// New constructs the backend selected by configuration.
func New(cfg config.RecognizerConfig) (Service, error) {
	switch cfg.Mode {
	case "mock":
		return NewMock(), nil
	case "exec":
		return NewExec(cfg)
	default:
		return nil, fmt.Errorf("unknown recognizer mode %q", cfg.Mode)
	}
}
