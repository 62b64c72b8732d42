package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"fact-news/internal/config"
	"fact-news/internal/infra/factnews"
	workerPkg "fact-news/internal/infra/worker"
	"fact-news/internal/observability/logging"
	paperUC "fact-news/internal/usecase/paper"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	metrics := workerPkg.NewWorkerMetrics(nil)

	workerCfg, err := workerPkg.LoadConfigFromEnv(logger, metrics)
	if err != nil {
		return err
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerCfg.CronSchedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.Duration("job_timeout", workerCfg.JobTimeout),
		slog.Int("days_ahead", workerCfg.DaysAhead),
		slog.Int("health_port", workerCfg.HealthPort))

	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	api, err := factnews.New(factnews.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	job := &workerPkg.WarmJob{
		Papers:  &paperUC.Service{Papers: api, Logger: logger},
		Config:  workerCfg,
		Metrics: metrics,
		Logger:  logger,
	}
	scheduler, err := workerPkg.NewScheduler(ctx, job)
	if err != nil {
		return err
	}

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), nil, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.Start(gctx)
	})
	g.Go(func() error {
		scheduler.Start()
		healthServer.SetReady(true)
		logger.Info("worker started",
			slog.String("schedule", workerCfg.CronSchedule),
			slog.String("timezone", workerCfg.Timezone))

		<-gctx.Done()
		healthServer.SetReady(false)
		logger.Info("waiting for running job to finish")
		<-scheduler.Stop().Done()
		logger.Info("worker stopped")
		return nil
	})
	return g.Wait()
}
