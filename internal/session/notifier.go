package session

// Notifier receives controller lifecycle events for presentation and
// persistence. The core emits on its own serialization point; adapters are
// responsible for marshaling onto whatever execution context presentation
// requires, must return quickly, and must not call back into the controller.
type Notifier interface {
	StateChanged(state State, sessionID, detail string)
	TranscriptUpdated(sessionID, fragment, fullText string)
}

// noopNotifier preserves controller flow when no adapter is wired.
type noopNotifier struct{}

func (noopNotifier) StateChanged(State, string, string)       {}
func (noopNotifier) TranscriptUpdated(string, string, string) {}
