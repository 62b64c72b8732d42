package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"fact-news/internal/config"
	"fact-news/internal/infra/factnews"
	"fact-news/internal/observability/logging"
	"fact-news/internal/ui/tui"
	feedUC "fact-news/internal/usecase/feed"
	paperUC "fact-news/internal/usecase/paper"
	srcUC "fact-news/internal/usecase/source"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The screen belongs to the dashboard, so configuration problems go to stderr
	// and logs to a file.
	cfg, err := config.Load(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		return err
	}

	logger, closer, err := logging.NewFileLogger(cfg.TUILogPath)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	slog.SetDefault(logger)

	api, err := factnews.New(factnews.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.API.Timeout})
	if err != nil {
		return err
	}
	logger.Info("terminal dashboard starting", slog.String("base_url", api.BaseURL()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	model := tui.New(ctx, tui.Services{
		Feed:    &feedUC.Service{Sources: api, Articles: api, Logger: logger},
		Papers:  &paperUC.Service{Papers: api, Logger: logger},
		Sources: &srcUC.Service{Repo: api, Logger: logger},
	}, tui.Options{
		Pages:           cfg.Pages,
		NoticeTTL:       cfg.NoticeTTL,
		CellMinDistance: cfg.Swipe.CellMinDistance,
	})

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	logger.Info("terminal dashboard stopped")
	return nil
}
