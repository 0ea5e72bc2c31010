// Command server starts the Syllabus Skill Mapper HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpserver "github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/httpserver"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/adapter/observability"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/app"
	"github.com/pranaytej157/smart-syllabus-skill-mapper/internal/config"
)

func main() {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	ctx := context.Background()

	// Reference data is read once; it is immutable for the process lifetime.
	tax := app.LoadTaxonomy(ctx, cfg)

	agent := app.BuildAgent(ctx, cfg)
	defer agent.Close()

	analyzeSvc, err := app.NewAnalyzeService(tax, agent.Mapper.Func())
	if err != nil {
		slog.Error("analysis service init failed", slog.Any("error", err))
		os.Exit(1)
	}
	docSvc, tikaClient := app.NewDocumentService(cfg)

	var redisPing, tikaPing app.Pinger
	if agent.Redis != nil {
		redisPing = agent.Redis
	}
	if tikaClient != nil {
		tikaPing = tikaClient
	}
	checks := app.BuildReadinessChecks(tax, redisPing, tikaPing)

	srv := httpserver.NewServer(cfg, analyzeSvc, docSvc, checks...)
	handler := app.BuildRouter(cfg, srv)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting",
			slog.Int("port", cfg.Port),
			slog.Int("roles", tax.Len()),
			slog.Bool("agent", agent.Mapper != nil))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	if err := srvHTTP.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
