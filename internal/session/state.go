package session

import "errors"

// State is the controller's lifecycle position. The current session handle
// is present in Listening and Finishing and absent in Inactive; that
// pairing is an invariant, checked at every access.
type State string

const (
	StateInactive  State = "inactive"
	StateListening State = "listening"
	StateFinishing State = "finishing"
)

var (
	// ErrAlreadyActive rejects a start command while a session is live.
	// Rotation is the only legitimate path to a second session.
	ErrAlreadyActive = errors.New("recognition already active")
	// ErrNotAvailable indicates the recognition backend could not be
	// engaged. Requires a fresh start command; there is no auto-retry.
	ErrNotAvailable = errors.New("recognition service not available")
	// ErrCaptureFailed indicates audio capture could not start or restart,
	// which is fatal to the current activation.
	ErrCaptureFailed = errors.New("audio capture failed")
)
