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

	"github.com/joho/godotenv"

	"github.com/sau-rabh-7/finrlx-ai-invest/internal/classifier"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/classifier/classifierobs"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/lexicon"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/logger"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/news"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/sentiment"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/server"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/store"
	"github.com/sau-rabh-7/finrlx-ai-invest/internal/trace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	ctx := context.Background()

	configPath := "config.yaml"
	if p := os.Getenv("SENTIMENT_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Warn(ctx, "Config file not found, using defaults", "path", configPath)
		cfg = store.Default()
	}

	cls, err := classifier.NewOpenAIClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize classifier: %w", err)
	}

	sentimentSvc := sentiment.NewService(cfg, classifierobs.Wrap(cls), lexicon.Default())
	newsSvc := news.NewService(cfg, sentimentSvc)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.New(cfg, sentimentSvc, newsSvc).Router(),
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info(ctx, "Server started", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx,
		time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "Server shutdown failed", err)
	}
	if err := trace.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithErr(ctx, "Tracer shutdown failed", err)
	}
	return nil
}
