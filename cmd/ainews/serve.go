package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/deusflow/ainews/internal/app"
	"github.com/deusflow/ainews/internal/config"
	"github.com/deusflow/ainews/internal/logger"
	"github.com/deusflow/ainews/internal/metrics"
	"github.com/deusflow/ainews/internal/scheduler"
)

func serve(ctx context.Context, a *app.App, cfg *config.Config, runNow bool) error {
	sched, err := scheduler.New(cfg.Schedule, cfg.Timezone, func(ctx context.Context) error {
		_, err := a.Run(ctx, app.Overrides{})
		return err
	}, logger.Logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.MonitorPort,
		Handler:           monitorMux(metrics.Global),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting monitoring server", "port", cfg.MonitorPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Monitoring server error", "error", err)
		}
	}()

	if runNow {
		if err := sched.RunNow(ctx); err != nil {
			logger.Error("Run failed", "error", err)
		}
	}
	sched.Start(ctx)
	logger.Info("Scheduler started", "schedule", cfg.Schedule, "next", sched.Next())

	<-ctx.Done()
	logger.Info("Shutting down")
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func monitorMux(m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler(m))
	mux.HandleFunc("/metrics", metricsHandler(m))
	return mux
}

func healthHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := m.GetStats()

		status := "ok"
		code := http.StatusOK
		if !m.Healthy() {
			status = "error"
			code = http.StatusServiceUnavailable
		}

		response := map[string]interface{}{
			"status":     status,
			"last_run":   stats["last_run_time"],
			"last_error": stats["last_error"],
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(response)
	}
}

func metricsHandler(m *metrics.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(m.GetStats())
	}
}
