package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	ovhttp "github.com/strandwork/overseer/internal/adapter/http"
	"github.com/strandwork/overseer/internal/adapter/llm"
	"github.com/strandwork/overseer/internal/adapter/mcp"
	"github.com/strandwork/overseer/internal/adapter/memory"
	ovnats "github.com/strandwork/overseer/internal/adapter/nats"
	"github.com/strandwork/overseer/internal/adapter/otel"
	"github.com/strandwork/overseer/internal/adapter/ristretto"
	"github.com/strandwork/overseer/internal/adapter/ws"
	"github.com/strandwork/overseer/internal/config"
	"github.com/strandwork/overseer/internal/logger"
	"github.com/strandwork/overseer/internal/middleware"
	"github.com/strandwork/overseer/internal/port/messagequeue"
	"github.com/strandwork/overseer/internal/resilience"
	"github.com/strandwork/overseer/internal/service"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"reasoner_model", cfg.Reasoner.Model,
		"log_level", cfg.Logging.Level,
		"nats_enabled", cfg.NATS.URL != "",
		"mcp_enabled", cfg.MCP.Enabled,
	)

	ctx := context.Background()

	// --- Infrastructure ---

	// Telemetry (optional; no-op without an OTLP endpoint)
	otelShutdown, err := otel.Init(ctx, cfg.Logging.Service, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otelShutdown(shutdownCtx); err != nil {
			slog.Warn("telemetry shutdown", "error", err)
		}
	}()

	// Event history, kept in process memory.
	events := memory.NewEventStore()

	// Idempotency cache
	cache, err := ristretto.New(cfg.Cache.MaxSizeMB * 1024 * 1024)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer cache.Close()

	// NATS (optional; an empty URL keeps runs local-only)
	var queue messagequeue.Queue
	if cfg.NATS.URL != "" {
		natsQueue, natsErr := ovnats.Connect(ctx, cfg.NATS.URL)
		if natsErr != nil {
			return fmt.Errorf("nats: %w", natsErr)
		}
		defer func() { _ = natsQueue.Close() }()
		queue = natsQueue
	}

	// --- Reasoning collaborator ---
	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	client := llm.NewClient(cfg.Reasoner.URL, cfg.Reasoner.APIKey, cfg.Reasoner.Model)
	client.SetBreaker(breaker)
	reasoner := llm.NewReasoner(client)

	// --- Services ---
	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	hub := ws.NewHub()
	orch := service.NewOrchestrator(reasoner, events, hub, queue, metrics)
	sessions := service.NewSessionManager(orch, cfg.Orchestrator.MaxConcurrentRuns, cfg.Orchestrator.MaxIterations)

	// --- HTTP ---
	handlers := &ovhttp.Handlers{
		Sessions: sessions,
		Events:   events,
		Health: func(context.Context) map[string]any {
			return map[string]any{
				"version":    version,
				"ws_clients": hub.Count(),
				"reasoner":   cfg.Reasoner.URL,
				"breaker":    breaker.State(),
			}
		},
	}

	r := chi.NewRouter()

	r.Use(ovhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.RequestID)
	r.Use(ovhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))
	r.Use(middleware.Idempotency(cache, cfg.Cache.TTL))

	ovhttp.MountRoutes(r, handlers, hub)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// --- MCP (optional) ---
	var mcpSrv *mcp.Server
	if cfg.MCP.Enabled {
		mcpSrv = mcp.NewServer(mcp.ServerConfig{
			Addr:    ":" + cfg.MCP.Port,
			Name:    cfg.Logging.Service,
			Version: version,
		}, sessions)
		go func() {
			if err := mcpSrv.Start(); err != nil {
				slog.Error("mcp server failed", "error", err)
			}
		}()
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if mcpSrv != nil {
		if err := mcpSrv.Stop(shutdownCtx); err != nil {
			slog.Warn("mcp shutdown", "error", err)
		}
	}
	return srv.Shutdown(shutdownCtx)
}
