package main

import (
	"chat-feed/api"
	"chat-feed/auth"
	"chat-feed/enrichment"
	"chat-feed/internal"
	"chat-feed/observability"
	"chat-feed/repositories"
	"chat-feed/runtime"
	"chat-feed/runtime/workers"
	"chat-feed/services"
	"chat-feed/sink"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns the server lifecycle so deferred closes always run.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB) and search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()

	// 3. Repositories
	registerer := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registerer)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	userRepository := repositories.NewUserRepository(db)
	reactionRepository := repositories.NewReactionRepository(db, log)
	workspaceRepository := repositories.NewWorkspaceRepository(db, log)
	attachmentRepository := repositories.NewAttachmentRepository(db, log, config.PublicURL(), config.MaxAttachmentBytes)
	messageIndex := repositories.NewMessageIndex(writer, log)

	// 4. Setup Supervision & Orchestration
	sup := workers.NewSupervisor(log, metrics, config.RestartInterval)
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(log, sup, registry, metrics, config.BufferSize, config.SinkTimeout).
		WithSampleInterval(config.SampleInterval)
	orchestrator.Add(sink.NewIndexSink(messageIndex, log))

	// 5. Services
	enricher := enrichment.NewEnricher(log, messageRepository, userRepository, reactionRepository,
		attachmentRepository, metrics).WithConcurrency(config.EnrichConcurrency)
	feeds := services.NewFeedService(log, messageRepository, userRepository, workspaceRepository,
		messageIndex, registry, enricher, metrics, config.PageSize)
	messages := services.NewMessageService(log, messageRepository, userRepository, workspaceRepository,
		reactionRepository, attachmentRepository, orchestrator)
	workspaces := services.NewWorkspaceService(log, workspaceRepository, userRepository)
	attachments := services.NewAttachmentService(log, attachmentRepository)

	// 6. HTTP Server Setup
	gin.SetMode(gin.ReleaseMode)
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	handler := api.NewHandler(log, feeds, messages, workspaces, attachments)
	router := api.NewRouter(log, api.RouterConfig{
		AllowedOrigins: config.AllowedOrigins,
		Gatherer:       registerer,
		WriteRPS:       config.WriteRPS,
		WriteBurst:     config.WriteBurst,
	}, issuer, handler)
	if config.EnableDebug {
		started := time.Now()
		internal.RegisterDebugRoutes(router, db, "/debug/inspect", nil, func() map[string]any {
			lsm, vlog := db.Size()
			return map[string]any{
				"uptime":       humanize.Time(started),
				"live_viewers": registry.Len(),
				"lsm_size":     humanize.Bytes(uint64(lsm)),
				"vlog_size":    humanize.Bytes(uint64(vlog)),
			}
		})
	}
	server := &http.Server{Addr: config.Addr(), Handler: router}

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Use an error channel to capture Start() and ListenAndServe() issues
	errChan := make(chan error, 2)
	go func() {
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator failed to start: %w", err)
		}
	}()
	go func() {
		log.Info("Starting HTTP server", "address", config.Addr(), "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 8. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		orchestrator.Stop()
		return err
	}

	// 9. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown failed", "error", err)
	}
	orchestrator.Stop()
	log.Info("Program stopped cleanly")
	return nil
}
