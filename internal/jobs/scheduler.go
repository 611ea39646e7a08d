package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"wcmap/api/internal/repository"
)

// Scheduler runs the periodic session purge. It is a no-op unless a
// session TTL is configured, which keeps the default behavior of
// never-expiring sessions.
type Scheduler struct {
	cron       *cron.Cron
	sessions   *repository.SessionRepository
	sessionTTL time.Duration
	log        zerolog.Logger
}

func NewScheduler(sessions *repository.SessionRepository, sessionTTL time.Duration, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		sessions:   sessions,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

func (s *Scheduler) Start() error {
	if s.sessionTTL <= 0 {
		return nil
	}

	if _, err := s.cron.AddFunc("@hourly", s.purgeExpiredSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

func (s *Scheduler) purgeExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-s.sessionTTL)
	deleted, err := s.sessions.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("session purge failed")
		return
	}
	if deleted > 0 {
		s.log.Info().Int64("deleted", deleted).Msg("purged expired sessions")
	}
}
