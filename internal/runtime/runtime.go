package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/audio"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/bus"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/config"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/downtime"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/natsserver"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/recognizer"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/session"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/status"
	"github.com/travis-mendoza/SpokenWord-Persistence-Edit/internal/transcript"
)

type Runtime struct {
	cfg         config.Config
	logger      *slog.Logger
	httpServer  *http.Server
	tracerClose func(context.Context) error
	busClient   *bus.Client
	ready       atomic.Bool
	wg          sync.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger) *Runtime {
	return &Runtime{
		cfg:    cfg,
		logger: logger,
	}
}

func (r *Runtime) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	shutdownTelemetry, metricHandler, err := setupTelemetry(r.cfg, r.logger)
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	r.tracerClose = shutdownTelemetry

	embedded, err := natsserver.Start(r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("failed to start embedded bus: %w", err)
	}
	defer embedded.Shutdown()

	busClient, err := bus.Connect(ctx, r.cfg.Bus, r.logger)
	if err != nil {
		return fmt.Errorf("failed to connect to bus: %w", err)
	}
	defer busClient.Close()
	r.busClient = busClient

	store, err := transcript.Open(ctx, r.cfg.Transcripts, r.logger)
	if err != nil {
		return fmt.Errorf("failed to open transcript store: %w", err)
	}
	defer store.Close()

	backend, err := recognizer.New(r.cfg.Recognizer)
	if err != nil {
		return fmt.Errorf("failed to build recognizer: %w", err)
	}

	notifier := newBusNotifier(busClient, store, r.logger)
	controller := session.NewController(
		r.logger,
		backend,
		audio.NewNATSSource(busClient, r.logger),
		session.NewTimerScheduler(),
		transcript.NewAccumulator(),
		downtime.NewTracker(notifier),
		notifier,
		time.Duration(r.cfg.Recognizer.RotationIntervalMS)*time.Millisecond,
	)
	defer controller.Stop()

	reporter, err := status.NewReporter(ctx, r.cfg.Status, busClient, controller, r.logger)
	if err != nil {
		return fmt.Errorf("failed to start status reporter: %w", err)
	}
	defer reporter.Close()

	ctrl := newControl(busClient, controller, r.logger)
	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("failed to start control endpoint: %w", err)
	}
	defer ctrl.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", r.handleHealth)
	mux.HandleFunc("/readyz", r.handleReady)
	if metricHandler != nil {
		mux.Handle("/metrics", metricHandler)
	}

	addr := fmt.Sprintf("%s:%d", r.cfg.HTTP.Bind, r.cfg.HTTP.Port)
	r.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("http server failed", slog.String("error", err.Error()))
		}
	}()

	r.ready.Store(true)
	r.logger.Info("runtime started",
		slog.String("addr", addr),
		slog.Int("rotation_interval_ms", r.cfg.Recognizer.RotationIntervalMS))

	<-ctx.Done()
	r.logger.Info("runtime stopping")
	r.ready.Store(false)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := r.httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Error("http shutdown error", slog.String("error", err.Error()))
	}
	r.wg.Wait()

	if r.tracerClose != nil {
		if err := r.tracerClose(shutdownCtx); err != nil {
			r.logger.Error("telemetry shutdown error", slog.String("error", err.Error()))
		}
	}

	return nil
}

func (r *Runtime) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (r *Runtime) handleReady(w http.ResponseWriter, _ *http.Request) {
	if r.ready.Load() && r.busClient.Healthy() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready"))
}
