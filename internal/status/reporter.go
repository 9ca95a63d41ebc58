// Package status advertises the runtime's presence and controller state on
// the bus and exposes them as metrics.
package status

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/bus"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/protocol"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/session"
)

type announceMessage struct {
	NodeID    string    `json:"node_id"`
	Runtime   string    `json:"runtime"`
	Timestamp time.Time `json:"timestamp"`
}

type heartbeatMessage struct {
	NodeID    string    `json:"node_id"`
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// StateSource is the controller-facing subset the reporter needs.
type StateSource interface {
	State() session.State
}

type Reporter struct {
	cfg        config.StatusConfig
	log        *slog.Logger
	bus        *bus.Client
	controller StateSource
	heartbeat  *time.Ticker
	cancel     context.CancelFunc
	meter      metric.Meter
}

func NewReporter(ctx context.Context, cfg config.StatusConfig, busClient *bus.Client, controller StateSource, log *slog.Logger) (*Reporter, error) {
	ctx, cancel := context.WithCancel(ctx)
	r := &Reporter{
		cfg:        cfg,
		log:        log.With(slog.String("component", "status-reporter")),
		bus:        busClient,
		controller: controller,
		meter:      otel.Meter("github.com/travis-mendoza/SpokenWord-Persistence-Edit/runtime"),
		cancel:     cancel,
	}

	if err := r.initMetrics(); err != nil {
		r.log.Warn("failed to initialize metrics", slog.String("error", err.Error()))
	}

	r.heartbeat = time.NewTicker(time.Duration(cfg.HeartbeatInterval) * time.Millisecond)
	go r.runHeartbeat(ctx)

	if err := r.announce(); err != nil {
		r.log.Warn("failed to announce runtime", slog.String("error", err.Error()))
	}

	return r, nil
}

func (r *Reporter) Close() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.heartbeat != nil {
		r.heartbeat.Stop()
	}
}

func (r *Reporter) initMetrics() error {
	activeGauge, err := r.meter.Int64ObservableGauge("spokenword.session.active",
		metric.WithDescription("1 while a recognition session is live"))
	if err != nil {
		return err
	}
	_, err = r.meter.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		var active int64
		if r.controller.State() != session.StateInactive {
			active = 1
		}
		obs.ObserveInt64(activeGauge, active)
		return nil
	}, activeGauge)
	return err
}

func (r *Reporter) runHeartbeat(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.heartbeat.C:
			if err := r.publishHeartbeat(); err != nil {
				r.log.Warn("failed to publish heartbeat", slog.String("error", err.Error()))
			}
		}
	}
}

func (r *Reporter) announce() error {
	msg := announceMessage{
		NodeID:    r.cfg.NodeID,
		Runtime:   "spokenword",
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.bus.Conn().Publish(protocol.SubjectStatusAnnounce, payload)
}

func (r *Reporter) publishHeartbeat() error {
	msg := heartbeatMessage{
		NodeID:    r.cfg.NodeID,
		State:     string(r.controller.State()),
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("%s.%s", protocol.SubjectStatusHeartbeat, r.cfg.NodeID)
	return r.bus.Conn().Publish(subject, payload)
}
