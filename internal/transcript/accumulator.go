// Package transcript collects finalized text from successive recognition
// sessions into one ordered, append-only transcript.
package transcript

import (
	"strings"
	"sync"
)

// Accumulator joins session fragments with a single space, matching the
// backend's per-utterance segmentation. Fragments are never reordered,
// merged, or removed.
type Accumulator struct {
	mu        sync.Mutex
	fragments []string
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append adds one fragment and returns the updated full transcript.
func (a *Accumulator) Append(text string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.fragments = append(a.fragments, text)
	return strings.Join(a.fragments, " ")
}

// Text returns the full transcript so far.
func (a *Accumulator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return strings.Join(a.fragments, " ")
}

// Len reports the number of appended fragments.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.fragments)
}
