// Package scheduler runs the periodic retirement of stale vacancies.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spigell/job-monitor/internal/storage"
)

const (
	DefaultSpec   = "@every 24h"
	DefaultMaxAge = 30 * 24 * time.Hour
)

// Scheduler wraps robfig/cron and deactivates vacancies older than maxAge.
type Scheduler struct {
	cron   *cron.Cron
	units  storage.UnitOfWork[storage.VacancyScope]
	spec   string
	maxAge time.Duration
	now    func() time.Time
	logger *zap.Logger
}

func New(units storage.UnitOfWork[storage.VacancyScope], spec string, maxAge time.Duration, logger *zap.Logger) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(),
		units:  units,
		spec:   spec,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RetireStale(ctx); err != nil {
			s.logger.Error("retiring stale vacancies", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("retention scheduler started", zap.String("spec", s.spec), zap.Duration("max_age", s.maxAge))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("retention scheduler stopped")
}

// RetireStale deactivates vacancies created before now-maxAge. They stay
// stored so reposts are still recognized as duplicates.
func (s *Scheduler) RetireStale(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.maxAge).UTC()

	var retired int64
	err := s.units.Do(ctx, func(ctx context.Context, scope storage.VacancyScope) error {
		var err error
		retired, err = scope.Vacancies().DeactivateOlderThan(ctx, cutoff)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("stale vacancies retired", zap.Int64("count", retired), zap.Time("cutoff", cutoff))
	return retired, nil
}
