package runtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/bus"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/protocol"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/session"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/transcript"
)

// busNotifier bridges controller events onto the bus and into the
// transcript store, and doubles as the downtime sink. It runs on the
// controller's serialization point, so every operation here must be quick
// and must never call back into the controller.
type busNotifier struct {
	log       *slog.Logger
	bus       *bus.Client
	store     *transcript.Store
	histogram metric.Float64Histogram
	rotations metric.Int64Counter
}

func newBusNotifier(busClient *bus.Client, store *transcript.Store, log *slog.Logger) *busNotifier {
	n := &busNotifier{
		log:   log.With(slog.String("component", "bus-notifier")),
		bus:   busClient,
		store: store,
	}

	meter := otel.Meter("github.com/travis-mendoza/SpokenWord-Persistence-Edit/runtime")
	histogram, err := meter.Float64Histogram("spokenword.rotation.downtime_seconds",
		metric.WithDescription("Listening gap incurred at each session rotation"))
	if err != nil {
		n.log.Warn("failed to create downtime histogram", slog.String("error", err.Error()))
	} else {
		n.histogram = histogram
	}
	rotations, err := meter.Int64Counter("spokenword.rotation.total",
		metric.WithDescription("Completed session rotations"))
	if err != nil {
		n.log.Warn("failed to create rotation counter", slog.String("error", err.Error()))
	} else {
		n.rotations = rotations
	}
	return n
}

func (n *busNotifier) StateChanged(state session.State, sessionID, detail string) {
	ctx := context.Background()
	switch state {
	case session.StateListening:
		if err := n.store.AppendSession(ctx, sessionID, time.Now()); err != nil {
			n.log.Warn("failed to record session start", slog.String("error", err.Error()))
		}
	case session.StateFinishing:
		if err := n.store.CloseSession(ctx, sessionID, time.Now()); err != nil {
			n.log.Warn("failed to record session end", slog.String("error", err.Error()))
		}
	}

	n.publish(protocol.SubjectStateChange, protocol.StateChange{
		State:     string(state),
		SessionID: sessionID,
		Detail:    detail,
		Timestamp: time.Now().UTC(),
	})
}

func (n *busNotifier) TranscriptUpdated(sessionID, fragment, fullText string) {
	if err := n.store.AppendFragment(context.Background(), sessionID, fragment); err != nil {
		n.log.Warn("failed to persist fragment", slog.String("error", err.Error()))
	}
	n.publish(protocol.SubjectTranscriptFinal, protocol.TranscriptUpdate{
		SessionID: sessionID,
		Fragment:  fragment,
		Text:      fullText,
		Timestamp: time.Now().UTC(),
	})
}

// ReportDowntime implements downtime.Sink: one sample per rotation.
func (n *busNotifier) ReportDowntime(gap time.Duration) {
	n.log.Info("session rotation downtime",
		slog.Float64("seconds", gap.Seconds()))
	if n.histogram != nil {
		n.histogram.Record(context.Background(), gap.Seconds())
	}
	if n.rotations != nil {
		n.rotations.Add(context.Background(), 1)
	}
	n.publish(protocol.SubjectDowntime, protocol.DowntimeSample{
		GapMS:     gap.Milliseconds(),
		Timestamp: time.Now().UTC(),
	})
}

func (n *busNotifier) publish(subject string, msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		n.log.Warn("failed to marshal bus message", slog.String("subject", subject), slog.String("error", err.Error()))
		return
	}
	if err := n.bus.Conn().Publish(subject, data); err != nil {
		n.log.Warn("failed to publish bus message", slog.String("subject", subject), slog.String("error", err.Error()))
	}
}
