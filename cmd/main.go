package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"dm-lab/infrastructure/httpapi"
	"dm-lab/internal"
	"dm-lab/moderation"
	"dm-lab/repositories"
	"dm-lab/runtime"
	"dm-lab/runtime/workers"
	"dm-lab/search"
	"dm-lab/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the HTTP server and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	//  Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (bluge)
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = writer.Close()
	}()
	index := search.NewIndex(writer, log)

	// 4. Moderation
	censoredChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	words, err := moderation.LoadCensoredWords()
	if err != nil {
		return fmt.Errorf("loading censored words failed: %w", err)
	}
	moderator, err := moderation.NewModerator(words, censoredChar, log)
	if err != nil {
		return fmt.Errorf("building moderator failed: %w", err)
	}

	// 5. Core: repositories, registry, pipeline, scheduler
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	scheduledRepository := repositories.NewScheduledMessageRepository(db, log)
	postRepository := repositories.NewPostRepository(db, log)

	registry := runtime.NewRegistry(log)
	pipeline := runtime.NewPipeline(messageRepository, postRepository, registry, index, &moderator, log)
	scheduler := runtime.NewScheduler(scheduledRepository, pipeline, log,
		config.SchedulerMaxAttempts, config.SchedulerRetryBackoff)

	// Jobs persisted by a previous process re-enter the dispatch loop
	if err := scheduler.Rehydrate(); err != nil {
		return fmt.Errorf("scheduler rehydration failed: %w", err)
	}

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(scheduler, workers.NewHeartbeatWorker(log, config.HeartbeatInterval))
	sup.Run(ctx)

	// 8. HTTP Server Setup
	messageService := services.NewMessageService(pipeline, messageRepository, index, log)
	scheduleService := services.NewScheduleService(scheduledRepository, scheduler, log)
	handler := httpapi.NewMessageHandler(messageService, scheduleService, log)
	stream := httpapi.NewStreamHandler(registry, config.ConnectionBufferSize, log)
	server := httpapi.NewServer(config.Host, config.Port, handler, stream, log)

	// Use an error channel to capture ListenAndServe() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 9. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 10. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown did not finish cleanly", "error", err)
	}
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
