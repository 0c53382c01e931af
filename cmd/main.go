/*
Package main is the entry point for the chat relay.

It loads configuration, initializes the global logger, builds the content filter from the
configured word-list source, wires the registry, relay and WebSocket hub behind the HTTP
router, and shuts everything down gracefully on SIGINT or SIGTERM. SIGHUP reloads the word list.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatrelay/internal/app/chat"
	"chatrelay/internal/app/db"
	"chatrelay/internal/app/moderation"
	"chatrelay/internal/app/registry"
	"chatrelay/internal/app/storage"
	"chatrelay/internal/configs"
	"chatrelay/internal/handler"
	"chatrelay/internal/pkg/logx"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("wordlist_source", cfg.WordListSource).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, closeSource, err := newWordListSource(ctx, cfg)
	if err != nil {
		logx.Fatal(err, "Failed to initialize word list source")
	}
	defer closeSource()

	filter, err := moderation.LoadFilter(ctx, source)
	if err != nil {
		logx.Fatal(err, "Failed to load content filter")
	}
	logx.Info("Content filter loaded.", "source", source.Name(), "words", filter.Size())

	go reloadOnHangup(ctx, filter, source)

	hub := chat.NewHub()
	relay := chat.NewRelay(registry.New(), hub, filter)

	router := handler.Router(ctx, &handler.AppDeps{
		Hub:    hub,
		Relay:  relay,
		Config: cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Chat relay starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	// WebSocket connections are hijacked, so server.Shutdown leaves them open.
	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}

// newWordListSource builds the configured word-list source. The returned func releases
// whatever the source holds open.
func newWordListSource(ctx context.Context, cfg *configs.AppConfig) (moderation.Source, func(), error) {
	noop := func() {}

	switch cfg.WordListSource {
	case configs.WordListFile:
		return moderation.FileSource{Path: cfg.WordListFile}, noop, nil

	case configs.WordListPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, noop, err
		}
		return db.WordListSource{DB: pool}, pool.Close, nil

	case configs.WordListS3:
		svc, err := storage.NewStorageService(ctx, storage.ServiceConfig{
			S3BucketName:      cfg.S3BucketName,
			S3Endpoint:        cfg.S3Endpoint,
			S3AccessKeyID:     cfg.S3AccessKeyID,
			S3SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, noop, err
		}
		return storage.WordListSource{Storage: svc, Key: cfg.S3WordListKey}, noop, nil

	default:
		return moderation.BuiltinSource{}, noop, nil
	}
}

// reloadOnHangup refreshes the filter from source on every SIGHUP until ctx ends.
func reloadOnHangup(ctx context.Context, filter *moderation.Filter, source moderation.Source) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := filter.Refresh(ctx, source); err != nil {
				logx.Error(err, "Word list reload failed; keeping the current list.")
				continue
			}
			logx.Info("Content filter reloaded.", "source", source.Name(), "words", filter.Size())
		}
	}
}
