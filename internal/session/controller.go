// Package session keeps one continuous transcription stream alive over a
// recognition backend that caps every session at a hard time and request
// budget. The controller tears the live session down on a timer and opens a
// replacement as soon as the old one completes, measuring the listening gap
// each hand-off costs.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/audio"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/downtime"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/recognizer"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/transcript"
)

// activeSession is the controller's handle on the one live recognition
// session. Prior sessions are immutable history once closed.
type activeSession struct {
	id        string
	sess      recognizer.Session
	capture   audio.Capture
	startedAt time.Time
}

// Controller owns at most one recognition session at a time. Three
// asynchronous sources feed it: the capture callback (per frame), the
// scheduler's rotation fire (once per interval), and the backend's
// completion callback (once per session). All three serialize on one mutex
// before touching controller state; the state machine is not safe under
// concurrent transitions.
type Controller struct {
	log       *slog.Logger
	service   recognizer.Service
	source    audio.Source
	scheduler Scheduler
	accum     *transcript.Accumulator
	downtime  *downtime.Tracker
	notifier  Notifier
	interval  time.Duration
	clock     func() time.Time
	newID     func() string

	mu      sync.Mutex
	state   State
	active  bool
	current *activeSession
}

func NewController(
	log *slog.Logger,
	service recognizer.Service,
	source audio.Source,
	scheduler Scheduler,
	accum *transcript.Accumulator,
	tracker *downtime.Tracker,
	notifier Notifier,
	interval time.Duration,
) *Controller {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if accum == nil {
		accum = transcript.NewAccumulator()
	}
	if tracker == nil {
		tracker = downtime.NewTracker(nil)
	}
	return &Controller{
		log:       log.With(slog.String("component", "session-controller")),
		service:   service,
		source:    source,
		scheduler: scheduler,
		accum:     accum,
		downtime:  tracker,
		notifier:  notifier,
		interval:  interval,
		clock:     time.Now,
		newID:     uuid.NewString,
		state:     StateInactive,
	}
}

// State returns the current state snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Transcript returns the accumulated text so far.
func (c *Controller) Transcript() string {
	return c.accum.Text()
}

// Start activates continuous recognition. Returns ErrAlreadyActive when a
// session is already live; rotation is the only path to a second session.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInactive {
		return ErrAlreadyActive
	}
	c.active = true
	if err := c.openSessionLocked(); err != nil {
		c.notifier.StateChanged(StateInactive, "", "not available")
		return err
	}
	return nil
}

// Stop deactivates the rotation cycle. The live session is asked to finish
// gracefully rather than aborted, so audio already submitted still yields a
// final result. Stop while inactive is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateInactive {
		return
	}
	// The flag must be cleared before the completion handler decides
	// whether to rotate; both run under c.mu, so the handler observes it.
	c.active = false
	c.scheduler.Disarm()
	if c.state == StateListening {
		c.finishLocked("stop")
	}
}

// rotate is the scheduler's fire callback.
func (c *Controller) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateListening || c.current == nil {
		// Fire arrived after disarm or after the session already ended.
		c.log.Debug("ignoring stale rotation fire")
		return
	}
	c.finishLocked("rotation")
}

// finishLocked moves Listening -> Finishing: stops forwarding audio,
// signals end-of-input, and records the session-end timestamp.
func (c *Controller) finishLocked(reason string) {
	s := c.current
	c.state = StateFinishing
	if s.capture != nil {
		s.capture.Stop()
		s.capture = nil
	}
	c.downtime.MarkStoppedListening()
	s.sess.EndInput()
	c.log.Info("session finishing",
		slog.String("session_id", s.id),
		slog.String("reason", reason))
	c.notifier.StateChanged(StateFinishing, s.id, reason)
}

// handleFrame forwards captured audio to the live session. Frames arriving
// between end-of-input and the next session starting are dropped; that
// window is exactly what the downtime tracker measures.
func (c *Controller) handleFrame(s *activeSession, f audio.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateListening || c.current != s {
		return
	}
	s.sess.Feed(f.PCM)
}

// handleResult consumes a session's result deliveries. Only the terminal
// delivery matters here; partial results are disabled.
func (c *Controller) handleResult(s *activeSession, r recognizer.Result) {
	if !r.Terminal() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current != s {
		// Completion for a superseded or torn-down session.
		return
	}

	if c.state == StateListening {
		// Terminal failure arrived without end-of-input (silence timeout
		// and the like). Close out capture and the pending rotation.
		c.scheduler.Disarm()
		if s.capture != nil {
			s.capture.Stop()
			s.capture = nil
		}
		c.downtime.MarkStoppedListening()
	}

	if r.Err != nil {
		// Expected background noise of the rotation scheme; logged, never
		// surfaced to the user.
		c.log.Warn("session ended with failure",
			slog.String("session_id", s.id),
			slog.String("error", r.Err.Error()))
	} else if r.Text != "" {
		full := c.accum.Append(r.Text)
		c.notifier.TranscriptUpdated(s.id, r.Text, full)
	}

	c.current = nil
	c.state = StateInactive

	if !c.active {
		c.notifier.StateChanged(StateInactive, "", "ready")
		return
	}

	// Rotation path: the user still wants recognition running, so open the
	// replacement immediately.
	if err := c.openSessionLocked(); err != nil {
		c.log.Warn("rotation restart failed", slog.String("error", err.Error()))
		c.notifier.StateChanged(StateInactive, "", "not available")
	}
}

// openSessionLocked acquires a fresh session, begins forwarding frames, and
// arms the rotation timer. On failure the activation is abandoned: the
// activity flag is cleared and the controller stays Inactive.
func (c *Controller) openSessionLocked() error {
	s := &activeSession{id: c.newID()}

	rs, err := c.service.Begin(func(r recognizer.Result) { c.handleResult(s, r) })
	if err != nil {
		c.active = false
		c.current = nil
		c.state = StateInactive
		return fmt.Errorf("%w: %s", ErrNotAvailable, err)
	}
	s.sess = rs

	capture, err := c.source.Start(func(f audio.Frame) { c.handleFrame(s, f) })
	if err != nil {
		// Let the backend finish the orphaned session; its terminal result
		// is ignored because the session never becomes current.
		rs.EndInput()
		c.active = false
		c.current = nil
		c.state = StateInactive
		return fmt.Errorf("%w: %s", ErrCaptureFailed, err)
	}
	s.capture = capture
	s.startedAt = c.clock()

	c.current = s
	c.state = StateListening
	c.downtime.MarkStartedListening()
	c.scheduler.Arm(c.interval, c.rotate)
	c.log.Info("session listening", slog.String("session_id", s.id))
	c.notifier.StateChanged(StateListening, s.id, "")
	return nil
}
