package paper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fact-news/internal/domain/entity"
	"fact-news/internal/observability/metrics"
	"fact-news/internal/repository"
	"fact-news/internal/usecase/notify"
)

// Service performs the paper view's API calls.
type Service struct {
	Papers repository.PaperRepository
	Logger *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

func (svc *Service) logger() *slog.Logger {
	if svc.Logger != nil {
		return svc.Logger
	}
	return slog.Default()
}

func (svc *Service) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

// Fetch gets the paper for the requested day. A missing paper is generated
// and fetched once more; there is no further retry.
func (svc *Service) Fetch(ctx context.Context, req LoadRequest) LoadResult {
	paper, generated, err := svc.getOrGenerate(ctx, req.Date)
	if err != nil {
		svc.logger().Error("paper load failed",
			slog.String("date", entity.FormatPaperDate(req.Date)),
			slog.Any("error", err))
	}
	return LoadResult{Seq: req.Seq, Date: req.Date, Paper: paper, Generated: generated, Err: err}
}

func (svc *Service) getOrGenerate(ctx context.Context, date time.Time) (entity.Paper, bool, error) {
	paper, err := svc.Papers.GetPaper(ctx, date)
	if err == nil {
		return paper, false, nil
	}
	if !errors.Is(err, entity.ErrNotFound) {
		return entity.Paper{}, false, fmt.Errorf("get paper: %w", err)
	}

	svc.logger().Info("paper missing, generating", slog.String("date", entity.FormatPaperDate(date)))
	if err := svc.Papers.GeneratePaper(ctx, date); err != nil {
		return entity.Paper{}, false, fmt.Errorf("generate paper: %w", err)
	}
	paper, err = svc.Papers.GetPaper(ctx, date)
	if err != nil {
		return entity.Paper{}, false, fmt.Errorf("get generated paper: %w", err)
	}
	return paper, true, nil
}

// FactCheck runs one paper fact-check.
func (svc *Service) FactCheck(ctx context.Context, req FactCheckRequest) FactCheckResult {
	result, err := svc.Papers.FactCheckPaper(ctx, req.ID)
	metrics.RecordFactCheck("paper", err == nil)
	if err != nil {
		err = fmt.Errorf("fact check paper %d: %w", req.ID, err)
		svc.logger().Error("paper fact-check failed", slog.Int64("paper_id", req.ID), slog.Any("error", err))
	}
	return FactCheckResult{ID: req.ID, Result: result, Err: err}
}

// Load runs a whole load synchronously against st.
func (svc *Service) Load(ctx context.Context, st *State, sink notify.Sink) {
	st.ApplyLoad(svc.Fetch(ctx, st.BeginLoad(svc.now())), sink)
}

// RunFactCheck runs a whole fact-check synchronously against st.
func (svc *Service) RunFactCheck(ctx context.Context, st *State, sink notify.Sink) error {
	req, err := st.BeginFactCheck()
	if err != nil {
		return err
	}
	st.ApplyFactCheck(svc.FactCheck(ctx, req), sink)
	return nil
}

// Warm makes sure the paper for date exists, generating it when missing.
// It reports whether a generation was requested.
func (svc *Service) Warm(ctx context.Context, date time.Time) (bool, error) {
	_, generated, err := svc.getOrGenerate(ctx, date)
	if err != nil {
		return false, fmt.Errorf("warm paper %s: %w", entity.FormatPaperDate(date), err)
	}
	return generated, nil
}
