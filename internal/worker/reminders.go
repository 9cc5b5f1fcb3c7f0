package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/notify"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// Outcome labels for rent_reminders_total.
const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeSkipped = "skipped"
)

// ReminderResult counts the outcomes of one dispatch run.
type ReminderResult struct {
	Date    string `json:"date"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
	Locked  bool   `json:"locked,omitempty"`
}

// ReminderJob sends the daily reminders. Every (subject, rule, date) is
// delivered at most once: an existing NotificationLog row, whatever its
// status, means the candidate is skipped. Candidates routed to the log
// channel are counted as skipped and leave no row.
type ReminderJob struct {
	DB        *gorm.DB
	Clock     calendar.Clock
	Router    *notify.Router
	Templates *notify.Templates
	Locker    Locker
	LockTTL   time.Duration
}

// candidate is one message to deliver.
type candidate struct {
	rule      domain.NotificationType
	subject   string
	invoiceID *string
	leaseID   *string
	to        notify.Recipient
	title     string
	body      string
	payload   map[string]any
}

// Run executes the three rules for the current business date. Delivery
// failures are logged and counted; store errors abort the run.
func (j *ReminderJob) Run(ctx context.Context) (ReminderResult, error) {
	ctx, span := otel.Tracer("worker").Start(ctx, "SendReminders")
	defer span.End()
	start := time.Now()
	defer func() { jobDuration.WithLabelValues(JobSendReminders).Observe(time.Since(start).Seconds()) }()

	today := calendar.Today(j.Clock)
	res := ReminderResult{Date: calendar.Format(today)}
	span.SetAttributes(attribute.String("business.date", res.Date))

	err := withLock(ctx, j.Locker, JobSendReminders, j.LockTTL, func() error {
		if err := j.invoiceRule(ctx, today, domain.NotifyThreeDaysBefore, calendar.AddDays(today, 3), &res); err != nil {
			return err
		}
		if err := j.invoiceRule(ctx, today, domain.NotifyDueToday, today, &res); err != nil {
			return err
		}
		if today.Weekday() == time.Monday {
			return j.weeklyRule(ctx, today, &res)
		}
		return nil
	})
	if errors.Is(err, ErrLocked) {
		log.Ctx(ctx).Warn().Str("job", JobSendReminders).Msg("dispatch already running; skipped")
		res.Locked = true
		return res, nil
	}
	span.SetAttributes(
		attribute.Int("reminders.sent", res.Sent),
		attribute.Int("reminders.failed", res.Failed),
		attribute.Int("reminders.skipped", res.Skipped),
	)
	if err != nil {
		span.RecordError(err)
		log.Ctx(ctx).Error().Err(err).Str("job", JobSendReminders).Msg("reminder dispatch aborted")
		return res, err
	}
	log.Ctx(ctx).Info().
		Str("job", JobSendReminders).
		Str("date", res.Date).
		Int("sent", res.Sent).
		Int("failed", res.Failed).
		Int("skipped", res.Skipped).
		Msg("reminder dispatch done")
	return res, nil
}

// invoiceRule handles the per-invoice rules: PENDING invoices due exactly on
// due.
func (j *ReminderJob) invoiceRule(ctx context.Context, today time.Time, rule domain.NotificationType, due time.Time, res *ReminderResult) error {
	rows, err := repo.ListDueCandidates(ctx, j.DB, due, domain.InvoicePending)
	if err != nil {
		return err
	}
	for _, r := range rows {
		var title, body string
		if rule == domain.NotifyThreeDaysBefore {
			title, body = j.Templates.ThreeDaysBefore(r.DisplayName, r.Amount, r.DueDate)
		} else {
			title, body = j.Templates.DueToday(r.DisplayName, r.Amount, r.DueDate)
		}
		invoiceID, leaseID := r.InvoiceID, r.LeaseID
		c := candidate{
			rule:      rule,
			subject:   domain.InvoiceSubject(r.InvoiceID),
			invoiceID: &invoiceID,
			leaseID:   &leaseID,
			to:        notify.Recipient{Name: r.DisplayName, Phone: r.Phone, Email: r.Email},
			title:     title,
			body:      body,
			payload: map[string]any{
				"invoice_id": r.InvoiceID,
				"due_date":   calendar.Format(r.DueDate),
				"amount":     r.Amount,
				"body":       body,
			},
		}
		if err := j.dispatch(ctx, today, c, res); err != nil {
			return err
		}
	}
	return nil
}

// weeklyRule sends one summary per ACTIVE lease with overdue invoices.
func (j *ReminderJob) weeklyRule(ctx context.Context, today time.Time, res *ReminderResult) error {
	rows, err := repo.ListOverdueForActiveLeases(ctx, j.DB)
	if err != nil {
		return err
	}
	for i := 0; i < len(rows); {
		k := i
		var lines []notify.OverdueLine
		var ids []string
		var total int64
		for ; k < len(rows) && rows[k].LeaseID == rows[i].LeaseID; k++ {
			lines = append(lines, notify.OverdueLine{DueDate: rows[k].DueDate, Amount: rows[k].Amount})
			ids = append(ids, rows[k].InvoiceID)
			total += rows[k].Amount
		}
		r := rows[i]
		i = k

		title, body := j.Templates.WeeklySummary(r.DisplayName, lines)
		leaseID := r.LeaseID
		c := candidate{
			rule:    domain.NotifyWeeklyOverdueSummary,
			subject: domain.LeaseSubject(r.LeaseID),
			leaseID: &leaseID,
			to:      notify.Recipient{Name: r.DisplayName, Phone: r.Phone, Email: r.Email},
			title:   title,
			body:    body,
			payload: map[string]any{
				"lease_id":    r.LeaseID,
				"invoice_ids": ids,
				"total":       total,
				"body":        body,
			},
		}
		if err := j.dispatch(ctx, today, c, res); err != nil {
			return err
		}
	}
	return nil
}

// dispatch checks the log, delivers, and records the outcome. Only store
// errors are returned.
func (j *ReminderJob) dispatch(ctx context.Context, today time.Time, c candidate, res *ReminderResult) error {
	lg := log.Ctx(ctx).With().
		Str("job", JobSendReminders).
		Str("rule", string(c.rule)).
		Str("subject", c.subject).
		Logger()

	done, err := repo.NotificationExists(ctx, j.DB, c.subject, c.rule, today)
	if err != nil {
		return err
	}
	if done {
		j.count(res, c.rule, outcomeSkipped)
		lg.Debug().Msg("already processed today")
		return nil
	}

	entry := &domain.NotificationLog{
		InvoiceID:  c.invoiceID,
		LeaseID:    c.leaseID,
		SubjectKey: c.subject,
		Type:       c.rule,
		SendDate:   today,
	}
	raw, err := json.Marshal(c.payload)
	if err != nil {
		lg.Warn().Err(err).Msg("payload not encodable, storing body only")
		raw, _ = json.Marshal(map[string]string{"body": c.body})
	}
	entry.Payload = datatypes.JSON(raw)

	sender, to, err := j.route(c.to)
	entry.To = to
	if err == nil && sender.Channel() == notify.ChannelLog {
		// Nothing is delivered, so the key stays free for a real channel.
		if _, err := sender.Send(ctx, to, c.title, c.body); err != nil {
			lg.Warn().Err(err).Msg("dry run failed")
		}
		j.count(res, c.rule, outcomeSkipped)
		return nil
	}
	if err == nil {
		entry.Channel = sender.Channel()
		var providerID string
		providerID, err = sender.Send(ctx, to, c.title, c.body)
		if err == nil {
			entry.ProviderMessageID = &providerID
		}
	}
	if err != nil {
		msg := err.Error()
		entry.Status, entry.Error = domain.DeliveryFailed, &msg
		if entry.Channel == "" {
			entry.Channel = "none"
		}
	} else {
		entry.Status = domain.DeliverySent
	}

	if werr := repo.CreateNotificationLog(ctx, j.DB, entry); werr != nil {
		if errors.Is(werr, repo.ErrDuplicate) {
			// A concurrent run logged this key first.
			j.count(res, c.rule, outcomeSkipped)
			lg.Warn().Msg("notification already logged by a concurrent run")
			return nil
		}
		return werr
	}

	if entry.Status == domain.DeliverySent {
		j.count(res, c.rule, outcomeSent)
		lg.Info().Str("channel", entry.Channel).Msg("reminder sent")
	} else {
		j.count(res, c.rule, outcomeFailed)
		logFailure(lg, entry)
	}
	return nil
}

func (j *ReminderJob) route(r notify.Recipient) (notify.Sender, string, error) {
	if j.Router == nil {
		return nil, "", notify.ErrNoRecipient
	}
	return j.Router.Route(r)
}

func (j *ReminderJob) count(res *ReminderResult, rule domain.NotificationType, outcome string) {
	switch outcome {
	case outcomeSent:
		res.Sent++
	case outcomeFailed:
		res.Failed++
	case outcomeSkipped:
		res.Skipped++
	}
	remindersTotal.WithLabelValues(string(rule), outcome).Inc()
}

func logFailure(lg zerolog.Logger, e *domain.NotificationLog) {
	ev := lg.Warn().Str("channel", e.Channel)
	if e.Error != nil {
		ev = ev.Str("error", *e.Error)
	}
	ev.Msg("reminder delivery failed")
}
