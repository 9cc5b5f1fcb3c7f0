package worker

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// OverdueResult reports one sweep.
type OverdueResult struct {
	Updated  int64  `json:"updated"`
	DateUsed string `json:"dateUsed"`
	// Locked is true when another sweep was running and this one did nothing.
	Locked bool `json:"locked,omitempty"`
}

// OverdueJob promotes PENDING invoices whose due date has passed to OVERDUE.
type OverdueJob struct {
	DB      *gorm.DB
	Clock   calendar.Clock
	Locker  Locker
	LockTTL time.Duration
}

// Run performs the sweep for the current business date.
func (j *OverdueJob) Run(ctx context.Context) (OverdueResult, error) {
	ctx, span := otel.Tracer("worker").Start(ctx, "RecomputeOverdue")
	defer span.End()
	start := time.Now()
	defer func() { jobDuration.WithLabelValues(JobRecomputeOverdue).Observe(time.Since(start).Seconds()) }()

	today := calendar.Today(j.Clock)
	res := OverdueResult{DateUsed: calendar.Format(today)}
	span.SetAttributes(attribute.String("business.date", res.DateUsed))

	err := withLock(ctx, j.Locker, JobRecomputeOverdue, j.LockTTL, func() error {
		n, err := repo.MarkOverdue(ctx, j.DB, today)
		if err != nil {
			return err
		}
		res.Updated = n
		return nil
	})
	if errors.Is(err, ErrLocked) {
		log.Ctx(ctx).Warn().Str("job", JobRecomputeOverdue).Msg("sweep already running; skipped")
		res.Locked = true
		return res, nil
	}
	if err != nil {
		span.RecordError(err)
		return res, err
	}

	overdueUpdated.Add(float64(res.Updated))
	span.SetAttributes(attribute.Int64("invoices.updated", res.Updated))
	log.Ctx(ctx).Info().
		Str("job", JobRecomputeOverdue).
		Str("date_used", res.DateUsed).
		Int64("updated", res.Updated).
		Msg("overdue sweep done")
	return res, nil
}
