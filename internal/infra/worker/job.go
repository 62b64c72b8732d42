package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fact-news/internal/domain/entity"
	"fact-news/internal/handler/http/respond"
)

// Warmer makes sure the paper for a day exists, generating it when missing.
// It reports whether generation was requested.
type Warmer interface {
	Warm(ctx context.Context, date time.Time) (bool, error)
}

// WarmJob fetches today's paper (and DaysAhead following days) so the first
// reader of the day does not wait for generation.
type WarmJob struct {
	Papers  Warmer
	Config  *WorkerConfig
	Metrics *WorkerMetrics
	Logger  *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run performs one warm-up pass. Every day is attempted; the returned error
// joins the failures.
func (j *WarmJob) Run(ctx context.Context) error {
	start := time.Now()
	j.Metrics.RecordJobRun("started")
	j.Logger.Info("paper warm-up started")

	// 生成待ちを含めてタイムアウトを設定
	ctx, cancel := context.WithTimeout(ctx, j.Config.JobTimeout)
	defer cancel()

	var errs []error
	var generated int
	for _, day := range j.days() {
		gen, err := j.Papers.Warm(ctx, day)
		switch {
		case err != nil:
			j.Metrics.RecordPaperWarmed("failure")
			j.Logger.Error("paper warm-up failed",
				slog.String("date", entity.FormatPaperDate(day)),
				slog.String("error", respond.SanitizeError(err)))
			errs = append(errs, err)
		case gen:
			generated++
			j.Metrics.RecordPaperWarmed("generated")
		default:
			j.Metrics.RecordPaperWarmed("found")
		}
	}

	j.Metrics.RecordJobDuration(time.Since(start).Seconds())
	if len(errs) > 0 {
		j.Metrics.RecordJobRun("failure")
		return errors.Join(errs...)
	}
	j.Metrics.RecordJobRun("success")
	j.Metrics.RecordLastSuccess()
	j.Logger.Info("paper warm-up completed",
		slog.Int("days", j.Config.DaysAhead+1),
		slog.Int("generated", generated),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// days returns midnight of today and the following DaysAhead days in the configured zone.
func (j *WarmJob) days() []time.Time {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	y, m, d := now().In(j.Config.Location()).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, j.Config.Location())

	days := make([]time.Time, 0, j.Config.DaysAhead+1)
	for i := 0; i <= j.Config.DaysAhead; i++ {
		days = append(days, today.AddDate(0, 0, i))
	}
	return days
}

// NewScheduler registers job on the configured schedule. Runs never overlap:
// a run still in progress makes the next tick skip. The caller starts and stops
// the returned scheduler.
func NewScheduler(ctx context.Context, job *WarmJob) (*cron.Cron, error) {
	c := cron.New(
		cron.WithLocation(job.Config.Location()),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(job.Config.CronSchedule, func() {
		// エラーは Run 内でログとメトリクスに記録済み
		_ = job.Run(ctx)
	}); err != nil {
		return nil, fmt.Errorf("add cron job %q: %w", job.Config.CronSchedule, err)
	}
	return c, nil
}
