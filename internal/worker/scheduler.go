package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// Daily runs the overdue sweep and then the reminder dispatch, so reminders
// see current statuses.
type Daily struct {
	Overdue   *OverdueJob
	Reminders *ReminderJob
}

// Run executes both jobs in order. A failed sweep still lets the reminder
// dispatch run; the first error is returned. Expired Idempotency-Key records
// are purged afterwards.
func (d *Daily) Run(ctx context.Context) (OverdueResult, ReminderResult, error) {
	ov, oerr := d.Overdue.Run(ctx)
	rem, rerr := d.Reminders.Run(ctx)
	if n, err := repo.PurgeExpiredIdempotency(ctx, d.Overdue.DB, time.Now().UTC()); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("purge idempotency keys")
	} else if n > 0 {
		log.Ctx(ctx).Debug().Int64("purged", n).Msg("expired idempotency keys removed")
	}
	if oerr != nil {
		return ov, rem, fmt.Errorf("recompute overdue: %w", oerr)
	}
	if rerr != nil {
		return ov, rem, fmt.Errorf("send reminders: %w", rerr)
	}
	return ov, rem, nil
}

// Scheduler runs Daily on a cron spec in the business timezone.
type Scheduler struct {
	cron *cron.Cron
	loc  *time.Location
}

// NewScheduler parses spec (standard 5-field cron) and registers d.
// Overlapping ticks are skipped while a run is still in progress.
func NewScheduler(spec string, loc *time.Location, d *Daily) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	lg := log.Logger.With().Str("component", "scheduler").Logger()
	clog := cron.PrintfLogger(&lg)
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx := lg.WithContext(context.Background())
		ov, rem, err := d.Run(ctx)
		if err != nil {
			lg.Error().Err(err).Msg("daily run failed")
			return
		}
		lg.Info().
			Int64("overdue_updated", ov.Updated).
			Int("reminders_sent", rem.Sent).
			Int("reminders_failed", rem.Failed).
			Msg("daily run finished")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, loc: loc}, nil
}

// Start begins scheduling in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop stops scheduling; the returned context is done when running jobs end.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }

// Next returns the next activation time.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().In(s.loc))
}
