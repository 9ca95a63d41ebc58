package audio

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/bus"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/protocol"
)

// NATSSource consumes PCM frames published by edge capture devices on the
// bus. Each Start opens a fresh subscription, which is cheap enough to do
// once per rotation interval.
type NATSSource struct {
	bus *bus.Client
	log *slog.Logger
}

func NewNATSSource(busClient *bus.Client, log *slog.Logger) *NATSSource {
	return &NATSSource{
		bus: busClient,
		log: log.With(slog.String("component", "audio-source")),
	}
}

func (s *NATSSource) Start(onFrame func(Frame)) (Capture, error) {
	subject := protocol.SubjectAudioFramePrefix + ".>"
	sub, err := s.bus.Conn().Subscribe(subject, func(msg *nats.Msg) {
		var frame protocol.AudioFrame
		if err := json.Unmarshal(msg.Data, &frame); err != nil {
			s.log.Warn("failed to decode audio frame", slog.String("error", err.Error()))
			return
		}
		onFrame(Frame{
			PCM:        frame.PCM,
			SampleRate: frame.SampleRate,
			Channels:   frame.Channels,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe audio frames: %w", err)
	}
	return &natsCapture{sub: sub}, nil
}

type natsCapture struct {
	sub *nats.Subscription
}

func (c *natsCapture) Stop() {
	_ = c.sub.Unsubscribe()
}
