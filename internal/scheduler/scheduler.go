package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/config"
	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

const (
	reportTimeout = 2 * time.Minute
	purgeTimeout  = 30 * time.Second
)

// Reporter builds and publishes the daily receiving report.
type Reporter interface {
	RunDaily(ctx context.Context, day time.Time) (models.DailyReceivingReport, error)
}

// DraftPurger removes drafts not touched since cutoff.
type DraftPurger interface {
	PurgeDrafts(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	reporter Reporter
	drafts   DraftPurger
	now      func() time.Time
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. Either job dependency may be
// nil, in which case that job is not registered.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, drafts DraftPurger, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field specs, evaluated in the reporting time zone.
	c := cron.New(cron.WithLocation(cfg.Location()))

	return &Scheduler{
		cron:     c,
		cfg:      cfg,
		reporter: reporter,
		drafts:   drafts,
		now:      time.Now,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler",
		zap.String("report_schedule", s.cfg.CronSchedule),
		zap.String("purge_schedule", s.cfg.DraftPurgeSpec),
		zap.String("timezone", s.cfg.Timezone),
	)

	if s.reporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDailyReport); err != nil {
			return fmt.Errorf("schedule daily report: %w", err)
		}
	}
	if s.drafts != nil {
		if _, err := s.cron.AddFunc(s.cfg.DraftPurgeSpec, s.purgeDrafts); err != nil {
			return fmt.Errorf("schedule draft purge: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler jobs still running at shutdown")
	}
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating daily receiving report")
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if _, err := s.reporter.RunDaily(ctx, s.now()); err != nil {
		s.logger.Error("failed to publish daily receiving report", zap.Error(err))
		return
	}
	s.logger.Info("daily receiving report published")
}

func (s *Scheduler) purgeDrafts() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	cutoff := s.now().Add(-s.cfg.DraftTTL)
	n, err := s.drafts.PurgeDrafts(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to purge drafts", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("purged stale drafts", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
}
