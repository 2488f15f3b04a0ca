package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/elo-advisor/internal/api"
	"github.com/yourusername/elo-advisor/internal/health"
	"github.com/yourusername/elo-advisor/internal/metrics"
	"github.com/yourusername/elo-advisor/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  `Serves GET /api/ranking, POST /api/analysis, health probes and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	appLog.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
		"source":      cfg.Ranking.SourceURL,
	}).Info("Starting elo-advisor")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	ranking, err := newRankingService()
	if err != nil {
		return err
	}
	analyses := newAnalysisService(ranking)

	probes := health.NewHandler(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
	})
	probes.AddCheck("ranking_snapshot", func(ctx context.Context) error {
		if _, ok := ranking.Cached(); !ok {
			return fmt.Errorf("no ranking snapshot cached")
		}
		return nil
	})

	var sched *scheduler.Scheduler
	if cfg.Ranking.RefreshEnabled {
		sched = scheduler.NewScheduler(ranking, appLog)
		if err := sched.ScheduleRankingRefresh(cfg.Ranking.RefreshSchedule); err != nil {
			return fmt.Errorf("failed to schedule ranking refresh: %w", err)
		}
		// Warm the cache in the background; the API serves misses meanwhile
		go sched.RunNow("startup")
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	server := api.NewServer(api.Options{
		Addr:           cfg.ListenAddress(),
		ReadTimeout:    cfg.Server.ReadTimeout(),
		WriteTimeout:   cfg.Server.WriteTimeout(),
		RequestTimeout: cfg.Server.RequestTimeout(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}, api.NewHandler(ranking, analyses, appLog.WithField("component", "api")), probes, appLog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	probes.SetReady(true)

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		appLog.WithField("signal", sig).Info("Shutdown signal received")
	case serveErr = <-errCh:
		if serveErr != nil {
			appLog.WithError(serveErr).Error("API server failed")
		}
	}

	probes.SetReady(false)
	if sched != nil {
		sched.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	appLog.Info("elo-advisor stopped")
	return serveErr
}
