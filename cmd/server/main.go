package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/audio-sentinel/internal/config"
	"github.com/nguyentantai21042004/audio-sentinel/internal/logger"
	"github.com/nguyentantai21042004/audio-sentinel/internal/pipeline"
	"github.com/nguyentantai21042004/audio-sentinel/internal/server"
	"github.com/nguyentantai21042004/audio-sentinel/internal/store"
	"github.com/nguyentantai21042004/audio-sentinel/internal/summarizer"
	"github.com/nguyentantai21042004/audio-sentinel/internal/transcriber"
	"github.com/nguyentantai21042004/audio-sentinel/internal/watcher"
	"github.com/nguyentantai21042004/audio-sentinel/pkg/executor"
)

func main() {
	ctx := context.Background()

	// Load .env if present; real environments set variables directly
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, falling back to environment variables")
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Audio Sentinel")
	log.Info(ctx, "========================================")
	log.Info(ctx, "Configuration loaded successfully")

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := store.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, log)
	if err != nil {
		log.Error(ctx, "Failed to connect to store: %v", err)
		os.Exit(1)
	}
	defer st.Close(ctx)

	exec := executor.New()
	trans := transcriber.New(cfg, exec, log)
	summ := summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	pipe := pipeline.New(cfg, trans, summ, st, log)
	srv := server.New(cfg, st, pipe, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)

	if cfg.Watcher.Enabled {
		w, err := watcher.New(cfg.Paths.Inbox, inboxHandler(cfg, pipe), log, cfg.Watcher.MaxConcurrent)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				errChan <- err
			}
		}()
		log.Info(ctx, "Inbox: %s", cfg.Paths.Inbox)
	}

	go func() {
		if err := srv.Run(ctx); err != nil {
			errChan <- err
		}
	}()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Audio Sentinel is ready!")
	log.Info(ctx, "Listening on: :%d", cfg.Server.Port)
	log.Info(ctx, "Uploads: %s", cfg.Paths.Uploads)
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	log.Info(ctx, "Audio Sentinel stopped")
}

// inboxHandler ingests a single dropped recording through the same
// pipeline the upload endpoint uses.
func inboxHandler(cfg *config.Config, pipe pipeline.Pipeline) watcher.EventHandler {
	return func(ctx context.Context, filePath string) error {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read recording: %w", err)
		}

		files := []pipeline.File{{Name: filepath.Base(filePath), Data: data}}
		opts := pipeline.Options{Location: cfg.Watcher.DefaultLocation}

		result, err := pipe.Ingest(ctx, files, opts)
		if err != nil {
			return err
		}
		if len(result.Failures) > 0 {
			return result.Failures[0].Err
		}

		// Remove the original so the inbox never re-processes it.
		return os.Remove(filePath)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Temp,
	}
	if cfg.Watcher.Enabled {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
