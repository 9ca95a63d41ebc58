package runtime

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/bus"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/protocol"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/session"
)

// control serves start/stop commands from bus clients. Commands are
// fire-and-forget from the caller's perspective; when the request carries a
// reply subject a ControlResponse is returned.
type control struct {
	log        *slog.Logger
	bus        *bus.Client
	controller *session.Controller
	subs       []*nats.Subscription
}

func newControl(busClient *bus.Client, controller *session.Controller, log *slog.Logger) *control {
	return &control{
		log:        log.With(slog.String("component", "control")),
		bus:        busClient,
		controller: controller,
	}
}

func (c *control) Start() error {
	conn := c.bus.Conn()
	startSub, err := conn.Subscribe(protocol.SubjectControlStart, c.handleStart)
	if err != nil {
		return fmt.Errorf("subscribe control start: %w", err)
	}
	c.subs = append(c.subs, startSub)

	stopSub, err := conn.Subscribe(protocol.SubjectControlStop, c.handleStop)
	if err != nil {
		return fmt.Errorf("subscribe control stop: %w", err)
	}
	c.subs = append(c.subs, stopSub)
	return nil
}

func (c *control) Close() {
	for _, sub := range c.subs {
		_ = sub.Drain()
	}
}

func (c *control) handleStart(msg *nats.Msg) {
	resp := protocol.ControlResponse{OK: true}
	if err := c.controller.Start(); err != nil {
		resp.OK = false
		resp.Error = err.Error()
	}
	resp.State = string(c.controller.State())
	c.reply(msg, resp)
}

func (c *control) handleStop(msg *nats.Msg) {
	c.controller.Stop()
	c.reply(msg, protocol.ControlResponse{
		OK:    true,
		State: string(c.controller.State()),
	})
}

func (c *control) reply(msg *nats.Msg, resp protocol.ControlResponse) {
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		c.log.Warn("failed to marshal control response", slog.String("error", err.Error()))
		return
	}
	if err := msg.Respond(data); err != nil {
		c.log.Warn("failed to send control response", slog.String("error", err.Error()))
	}
}
