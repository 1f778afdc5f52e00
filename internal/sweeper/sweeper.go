// Package sweeper reconciles time-based session transitions: any scheduled
// session whose start deadline elapsed without activation is marked missed.
package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"interviewhub/internal/store"
)

// DefaultSchedule runs the sweep every five minutes.
const DefaultSchedule = "*/5 * * * *"

type Sweeper struct {
	sessions *store.SessionStore
	log      *zap.Logger
	cron     *cron.Cron
	schedule string
}

func New(sessions *store.SessionStore, schedule string, log *zap.Logger) *Sweeper {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	return &Sweeper{
		sessions: sessions,
		log:      log,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// Sweep runs one pass and returns how many sessions it transitioned. Safe
// to invoke concurrently or repeatedly: the status filter makes a second
// pass over the same sessions a no-op.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	count, err := s.sessions.MarkMissedBefore(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("mark missed sessions: %w", err)
	}
	if count > 0 {
		s.log.Info("marked missed sessions", zap.Int("count", count))
	}
	return count, nil
}

// Start schedules recurring sweeps.
func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(context.Background()); err != nil {
			s.log.Error("scheduled sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep job: %w", err)
	}
	s.cron.Start()
	s.log.Info("missed-session sweeper started", zap.String("schedule", s.schedule))
	return nil
}

func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
