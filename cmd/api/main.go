package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/disasterbio/internal/api"
	"github.com/your-org/disasterbio/internal/api/handlers"
	"github.com/your-org/disasterbio/internal/api/ws"
	"github.com/your-org/disasterbio/internal/config"
	"github.com/your-org/disasterbio/internal/intake"
	"github.com/your-org/disasterbio/internal/match"
	"github.com/your-org/disasterbio/internal/observability"
	"github.com/your-org/disasterbio/internal/offline"
	"github.com/your-org/disasterbio/internal/queue"
	"github.com/your-org/disasterbio/internal/registry"
	"github.com/your-org/disasterbio/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging)

	slog.Info("starting DisasterBio API service", "port", cfg.Server.Port, "blob", cfg.Blob.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Blob store
	blob, err := storage.OpenBlobStore(ctx, cfg)
	if err != nil {
		slog.Error("open blob store", "driver", cfg.Blob.Driver, "error", err)
		os.Exit(1)
	}
	defer blob.Close()

	store := registry.NewStore(blob)
	records, err := store.Load(ctx)
	if err != nil {
		slog.Error("load registry", "error", err)
		os.Exit(1)
	}
	slog.Info("registry loaded", "records", len(records))

	settings := registry.NewSettings(blob)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	checks := map[string]handlers.Pinger{"blob": blob.Ping}

	// Offline sync over NATS
	q := offline.NewQueue(blob)
	var uploader offline.Uploader
	var registrations *offline.Queue
	if cfg.Sync.Enabled {
		producer, err := queue.NewProducer(cfg.NATS.URL)
		if err != nil {
			slog.Error("connect to nats", "error", err)
			os.Exit(1)
		}
		defer producer.Close()

		if err := producer.EnsureStreams(ctx); err != nil {
			slog.Warn("ensure nats streams", "error", err)
		}
		uploader = producer
		registrations = q
		checks["nats"] = func(context.Context) error { return producer.Ping() }
	}
	syncer := offline.NewSyncer(blob, q, uploader, hub, cfg.Simulation.CloudSync)

	if cfg.Sync.Enabled && cfg.Sync.Schedule != "" {
		sched, err := offline.NewScheduler(cfg.Sync.Schedule, syncer, func(ctx context.Context) string {
			name, _ := settings.OperatorName(ctx)
			return registry.DisplayOperator(name)
		})
		if err != nil {
			slog.Error("schedule sync", "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		slog.Info("scheduled offline sync", "schedule", cfg.Sync.Schedule)
	}

	sessions := intake.NewSessions(cfg.Session.IdleTimeout, cfg.Session.CleanupInterval, hub, intake.Delays{
		Fingerprint: cfg.Simulation.FingerprintCapture,
		Photo:       cfg.Simulation.PhotoCapture,
	})

	tasks := handlers.NewTasks(ctx)

	// Setup router
	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.RouterConfig{
		APIKey:     cfg.Server.APIKey,
		Simulation: cfg.Simulation,
		Store:      store,
		Settings:   settings,
		Sessions:   sessions,
		Simulator:  match.NewRandomSimulator(nil),
		Syncer:     syncer,
		Offline:    registrations,
		Hub:        hub,
		Tasks:      tasks,
		Checks:     checks,
	})

	// Start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down API server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	cancel()
	tasks.Wait()

	slog.Info("API server stopped")
}
