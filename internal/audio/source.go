package audio

// Frame is one chunk of captured PCM audio.
type Frame struct {
	PCM        []byte
	SampleRate int
	Channels   int
}

// Source provides continuous capture. Start is invoked again after every
// session rotation, so implementations must tolerate frequent stop/start
// cycles without expensive reinitialization.
type Source interface {
	Start(onFrame func(Frame)) (Capture, error)
}

// Capture is one running capture handle. Stop ceases frame delivery;
// frames already in flight may still be dropped by the consumer.
type Capture interface {
	Stop()
}
