package protocol

import "time"

// AudioFrame represents PCM audio data streamed from edge capture devices.
type AudioFrame struct {
	StreamID   string `json:"stream_id"`
	Sequence   int    `json:"sequence"`
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	PCM        []byte `json:"pcm"`
}

// TranscriptUpdate is broadcast after each completed recognition session.
// Fragment is the text produced by that session; Text is the full
// accumulated transcript so far.
type TranscriptUpdate struct {
	SessionID string    `json:"session_id"`
	Fragment  string    `json:"fragment"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// StateChange announces a controller state transition for UI adapters.
type StateChange struct {
	State     string    `json:"state"`
	SessionID string    `json:"session_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// DowntimeSample reports the gap between one session ending and its
// replacement beginning to listen, rounded to millisecond precision.
type DowntimeSample struct {
	GapMS     int64     `json:"gap_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// ControlResponse is the request/reply answer to a start/stop command.
type ControlResponse struct {
	OK    bool   `json:"ok"`
	State string `json:"state"`
	Error string `json:"error,omitempty"`
}

const (
	SubjectAudioFramePrefix = "audio.frame"
	SubjectTranscriptFinal  = "recognizer.text.final"
	SubjectStateChange      = "recognizer.state"
	SubjectDowntime         = "recognizer.downtime"
	SubjectControlStart     = "recognizer.control.start"
	SubjectControlStop      = "recognizer.control.stop"
	SubjectStatusHeartbeat  = "status.heartbeat"
	SubjectStatusAnnounce   = "status.announce"
)
