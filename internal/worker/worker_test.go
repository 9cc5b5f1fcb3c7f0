package worker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/notify"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
)

// ---------- fixtures ----------

func newJobDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "worker_test.db"))
	require.NoError(t, err)
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func fixedAt(y int, m time.Month, day int) calendar.FixedClock {
	return calendar.FixedClock{T: time.Date(y, m, day, 9, 0, 0, 0, time.UTC)}
}

type tenantOpts struct {
	optIn bool
	phone string
	email string
}

// seedLease creates a tenant, a room and an ACTIVE lease, then inserts one
// invoice per (due, status) pair.
func seedLease(t *testing.T, db *gorm.DB, opts tenantOpts, invoices map[time.Time]domain.InvoiceStatus) (*domain.Lease, map[time.Time]string) {
	t.Helper()
	ctx := context.Background()
	tp := &domain.TenantProfile{
		LandlordID:    "l1",
		UserID:        uuid.NewString(),
		DisplayName:   "Marta",
		Phone:         opts.phone,
		Email:         opts.email,
		WhatsAppOptIn: opts.optIn,
	}
	require.NoError(t, repo.CreateTenantProfile(ctx, db, tp))
	room, err := repo.CreateRoom(ctx, db, "l1", "Room "+tp.ID[:4])
	require.NoError(t, err)

	l := &domain.Lease{
		ID:         uuid.NewString(),
		LandlordID: "l1",
		TenantID:   tp.ID,
		StartDate:  d(2025, time.January, 1),
		RentAmount: 35000,
		BillingDay: 1,
		Status:     domain.LeaseActive,
	}
	require.NoError(t, repo.CreateLease(ctx, db, l, []string{room.ID}))

	ids := make(map[time.Time]string, len(invoices))
	var rows []domain.Invoice
	for due, st := range invoices {
		id := uuid.NewString()
		ids[due] = id
		rows = append(rows, domain.Invoice{ID: id, LeaseID: l.ID, LandlordID: "l1", DueDate: due, Amount: 35000, Status: st})
	}
	require.NoError(t, repo.CreateInvoices(ctx, db, rows))
	return l, ids
}

type sentMsg struct {
	to, subject, body string
}

type fakeSender struct {
	mu      sync.Mutex
	channel string
	fail    map[string]error
	sent    []sentMsg
	onSend  func()
}

func (f *fakeSender) Channel() string { return f.channel }

func (f *fakeSender) Send(_ context.Context, to, subject, body string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.onSend != nil {
		f.onSend()
	}
	if err := f.fail[to]; err != nil {
		return "", err
	}
	f.sent = append(f.sent, sentMsg{to: to, subject: subject, body: body})
	return "msg-" + uuid.NewString(), nil
}

func newReminderJob(db *gorm.DB, clock calendar.Clock, wa, email notify.Sender) *ReminderJob {
	return &ReminderJob{
		DB:        db,
		Clock:     clock,
		Router:    &notify.Router{WhatsApp: wa, Email: email},
		Templates: notify.NewTemplates("en", "€"),
	}
}

func logsFor(t *testing.T, db *gorm.DB, subject string) []domain.NotificationLog {
	t.Helper()
	logs, err := repo.ListNotificationLogs(context.Background(), db, subject)
	require.NoError(t, err)
	return logs
}

// ---------- overdue sweep ----------

func TestOverdueJob_IdempotentSweep(t *testing.T) {
	db := newJobDB(t)
	_, ids := seedLease(t, db, tenantOpts{}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.June, 1):  domain.InvoicePending,
		d(2025, time.June, 30): domain.InvoicePending,
		d(2025, time.July, 1):  domain.InvoicePending,
		d(2025, time.May, 1):   domain.InvoicePaid,
	})

	job := &OverdueJob{DB: db, Clock: fixedAt(2025, time.June, 30)}
	res, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, OverdueResult{Updated: 1, DateUsed: "2025-06-30"}, res)

	again, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(0), again.Updated)

	ctx := context.Background()
	inv, _ := repo.GetInvoice(ctx, db, ids[d(2025, time.June, 1)], "l1")
	require.Equal(t, domain.InvoiceOverdue, inv.Status)
	inv, _ = repo.GetInvoice(ctx, db, ids[d(2025, time.June, 30)], "l1")
	require.Equal(t, domain.InvoicePending, inv.Status, "due today is not overdue")
	inv, _ = repo.GetInvoice(ctx, db, ids[d(2025, time.May, 1)], "l1")
	require.Equal(t, domain.InvoicePaid, inv.Status)

	// Catching up after downtime promotes everything that has passed.
	job.Clock = fixedAt(2025, time.July, 10)
	late, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), late.Updated)
}

// ---------- reminders ----------

func TestReminderJob_AllRulesOnMonday(t *testing.T) {
	db := newJobDB(t)
	monday := fixedAt(2025, time.June, 30)
	require.Equal(t, time.Monday, monday.T.Weekday())

	lease, ids := seedLease(t, db, tenantOpts{optIn: true, phone: "+34600111222"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 3):   domain.InvoicePending,
		d(2025, time.June, 30):  domain.InvoicePending,
		d(2025, time.May, 30):   domain.InvoiceOverdue,
		d(2025, time.April, 30): domain.InvoiceOverdue,
	})
	// Opted out: never contacted.
	seedLease(t, db, tenantOpts{optIn: false, phone: "+34600999999"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.June, 30): domain.InvoicePending,
		d(2025, time.May, 30):  domain.InvoiceOverdue,
	})

	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	job := newReminderJob(db, monday, wa, nil)

	res, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, res.Sent)
	require.Equal(t, 0, res.Failed)
	require.Len(t, wa.sent, 3)
	for _, m := range wa.sent {
		require.Equal(t, "+34600111222", m.to)
	}

	weekly := logsFor(t, db, domain.LeaseSubject(lease.ID))
	require.Len(t, weekly, 1)
	require.Equal(t, domain.NotifyWeeklyOverdueSummary, weekly[0].Type)
	require.Equal(t, domain.DeliverySent, weekly[0].Status)
	require.NotNil(t, weekly[0].ProviderMessageID)
	require.Contains(t, wa.sent[2].body, "Total due: €700.00")

	three := logsFor(t, db, domain.InvoiceSubject(ids[d(2025, time.July, 3)]))
	require.Len(t, three, 1)
	require.Equal(t, domain.NotifyThreeDaysBefore, three[0].Type)
	require.True(t, three[0].SendDate.Equal(d(2025, time.June, 30)))

	// Second invocation the same day sends nothing and logs nothing new.
	again, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, again.Sent)
	require.Equal(t, 3, again.Skipped)
	require.Len(t, wa.sent, 3)
	require.Len(t, logsFor(t, db, domain.InvoiceSubject(ids[d(2025, time.June, 30)])), 1)
}

func TestReminderJob_NoWeeklySummaryOffMonday(t *testing.T) {
	db := newJobDB(t)
	tuesday := fixedAt(2025, time.July, 1)
	seedLease(t, db, tenantOpts{optIn: true, phone: "+34600111222"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.May, 30): domain.InvoiceOverdue,
		d(2025, time.July, 1): domain.InvoicePending,
	})

	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	res, err := newReminderJob(db, tuesday, wa, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)
	require.Contains(t, wa.sent[0].subject, "due today")
}

func TestReminderJob_FailureIsLoggedAndLoopContinues(t *testing.T) {
	db := newJobDB(t)
	today := fixedAt(2025, time.July, 1)
	_, badIDs := seedLease(t, db, tenantOpts{optIn: true, phone: "+1000"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})
	_, goodIDs := seedLease(t, db, tenantOpts{optIn: true, phone: "+2000"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})

	wa := &fakeSender{channel: notify.ChannelWhatsApp, fail: map[string]error{"+1000": errors.New("provider down")}}
	job := newReminderJob(db, today, wa, nil)

	res, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)
	require.Equal(t, 1, res.Failed)

	bad := logsFor(t, db, domain.InvoiceSubject(badIDs[d(2025, time.July, 1)]))
	require.Len(t, bad, 1)
	require.Equal(t, domain.DeliveryFailed, bad[0].Status)
	require.NotNil(t, bad[0].Error)
	require.Contains(t, *bad[0].Error, "provider down")
	require.Nil(t, bad[0].ProviderMessageID)

	good := logsFor(t, db, domain.InvoiceSubject(goodIDs[d(2025, time.July, 1)]))
	require.Len(t, good, 1)
	require.Equal(t, domain.DeliverySent, good[0].Status)

	// A FAILED row still counts as processed for the day.
	delete(wa.fail, "+1000")
	again, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, again.Sent)
	require.Equal(t, 2, again.Skipped)
}

func TestReminderJob_EmailFallbackAndNoContact(t *testing.T) {
	db := newJobDB(t)
	today := fixedAt(2025, time.July, 1)
	_, mailIDs := seedLease(t, db, tenantOpts{optIn: true, email: "m@example.com"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})
	_, noneIDs := seedLease(t, db, tenantOpts{optIn: true}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})

	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	mail := &fakeSender{channel: notify.ChannelEmail}
	res, err := newReminderJob(db, today, wa, mail).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)
	require.Equal(t, 1, res.Failed)
	require.Empty(t, wa.sent)
	require.Len(t, mail.sent, 1)

	sent := logsFor(t, db, domain.InvoiceSubject(mailIDs[d(2025, time.July, 1)]))
	require.Equal(t, notify.ChannelEmail, sent[0].Channel)
	require.Equal(t, "m@example.com", sent[0].To)

	none := logsFor(t, db, domain.InvoiceSubject(noneIDs[d(2025, time.July, 1)]))
	require.Equal(t, domain.DeliveryFailed, none[0].Status)
	require.Contains(t, *none[0].Error, "no phone or email")
}

func TestReminderJob_DryRunLeavesKeyFree(t *testing.T) {
	db := newJobDB(t)
	today := fixedAt(2025, time.July, 1)
	_, ids := seedLease(t, db, tenantOpts{optIn: true, phone: "+34600"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})
	subject := domain.InvoiceSubject(ids[d(2025, time.July, 1)])

	job := newReminderJob(db, today, nil, nil)
	job.Router.Fallback = notify.LogSender{}
	res, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, ReminderResult{Date: "2025-07-01", Skipped: 1}, res)
	require.Empty(t, logsFor(t, db, subject))

	// A provider configured later the same day still delivers.
	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	job.Router.WhatsApp = wa
	again, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, again.Sent)
	require.Len(t, wa.sent, 1)
	logs := logsFor(t, db, subject)
	require.Len(t, logs, 1)
	require.Equal(t, domain.DeliverySent, logs[0].Status)
	require.Equal(t, notify.ChannelWhatsApp, logs[0].Channel)
}

func TestReminderJob_UnencodablePayloadKeepsBody(t *testing.T) {
	db := newJobDB(t)
	today := fixedAt(2025, time.July, 1)
	_, ids := seedLease(t, db, tenantOpts{optIn: true, phone: "+34600"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})
	invoiceID := ids[d(2025, time.July, 1)]
	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	job := newReminderJob(db, today, wa, nil)

	var res ReminderResult
	err := job.dispatch(context.Background(), d(2025, time.July, 1), candidate{
		rule:      domain.NotifyDueToday,
		subject:   domain.InvoiceSubject(invoiceID),
		invoiceID: &invoiceID,
		to:        notify.Recipient{Phone: "+34600"},
		title:     "due today",
		body:      "pay please",
		payload:   map[string]any{"bad": make(chan int)},
	}, &res)
	require.NoError(t, err)
	require.Equal(t, 1, res.Sent)

	logs := logsFor(t, db, domain.InvoiceSubject(invoiceID))
	require.Len(t, logs, 1)
	require.JSONEq(t, `{"body":"pay please"}`, string(logs[0].Payload))
}

func TestReminderJob_ConcurrentLogIsSwallowed(t *testing.T) {
	db := newJobDB(t)
	today := fixedAt(2025, time.July, 1)
	_, ids := seedLease(t, db, tenantOpts{optIn: true, phone: "+34600"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.July, 1): domain.InvoicePending,
	})
	subject := domain.InvoiceSubject(ids[d(2025, time.July, 1)])

	// Another run logs the same key while this one is delivering.
	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	wa.onSend = func() {
		require.NoError(t, repo.CreateNotificationLog(context.Background(), db, &domain.NotificationLog{
			SubjectKey: subject,
			Type:       domain.NotifyDueToday,
			SendDate:   d(2025, time.July, 1),
			Channel:    notify.ChannelWhatsApp,
			To:         "+34600",
			Status:     domain.DeliverySent,
		}))
	}

	res, err := newReminderJob(db, today, wa, nil).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, res.Skipped)
	require.Len(t, logsFor(t, db, subject), 1)
}

// ---------- locking ----------

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	lk := NewRedisLocker(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = lk.Close() })
	ctx := context.Background()

	release, ok, err := lk.Acquire(ctx, JobSendReminders, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, mr.Exists("rentd:lock:"+JobSendReminders))

	_, ok, err = lk.Acquire(ctx, JobSendReminders, time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	release()
	require.False(t, mr.Exists("rentd:lock:"+JobSendReminders))

	_, ok, err = lk.Acquire(ctx, JobSendReminders, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRedisLocker_ReleaseKeepsForeignLock(t *testing.T) {
	mr := miniredis.RunT(t)
	lk := NewRedisLocker(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = lk.Close() })

	release, ok, err := lk.Acquire(context.Background(), "job", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Our lock expires and someone else takes it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("rentd:lock:job", "other"))

	release()
	got, err := mr.Get("rentd:lock:job")
	require.NoError(t, err)
	require.Equal(t, "other", got)
}

func TestJobs_SkipWhileLocked(t *testing.T) {
	db := newJobDB(t)
	mr := miniredis.RunT(t)
	lk := NewRedisLocker(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = lk.Close() })

	release, ok, err := lk.Acquire(context.Background(), JobRecomputeOverdue, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	defer release()

	res, err := (&OverdueJob{DB: db, Clock: fixedAt(2025, time.July, 1), Locker: lk}).Run(context.Background())
	require.NoError(t, err)
	require.True(t, res.Locked)
	require.Equal(t, "2025-07-01", res.DateUsed)
}

// ---------- daily sequence, scheduler and trigger client ----------

func TestDaily_RecomputesBeforeReminding(t *testing.T) {
	db := newJobDB(t)
	monday := fixedAt(2025, time.June, 30)
	lease, _ := seedLease(t, db, tenantOpts{optIn: true, phone: "+34600"}, map[time.Time]domain.InvoiceStatus{
		d(2025, time.June, 2): domain.InvoicePending, // becomes OVERDUE first
	})
	wa := &fakeSender{channel: notify.ChannelWhatsApp}
	daily := &Daily{
		Overdue:   &OverdueJob{DB: db, Clock: monday, Locker: NoopLocker{}},
		Reminders: newReminderJob(db, monday, wa, nil),
	}

	ov, rem, err := daily.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), ov.Updated)
	require.Equal(t, 1, rem.Sent)
	require.Len(t, logsFor(t, db, domain.LeaseSubject(lease.ID)), 1)
}

func TestScheduler(t *testing.T) {
	_, err := NewScheduler("not a spec", time.UTC, &Daily{})
	require.Error(t, err)

	s, err := NewScheduler("0 8 * * *", time.UTC, &Daily{})
	require.NoError(t, err)
	next := s.Next()
	require.False(t, next.IsZero())
	require.Equal(t, 8, next.In(time.UTC).Hour())
}

func TestClient(t *testing.T) {
	_, err := NewClient("http://x", " ", time.Second)
	require.ErrorIs(t, err, ErrNoSecret)

	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(SecretHeader) != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
			return
		}
		calls = append(calls, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/worker/recompute-overdue":
			_, _ = w.Write([]byte(`{"success":true,"updated":4,"dateUsed":"2025-07-01"}`))
		default:
			_, _ = w.Write([]byte(`{"success":true,"processed":true,"sent":2}`))
		}
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", "s3cret", time.Second)
	require.NoError(t, err)
	ov, err := c.RecomputeOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(4), ov.Updated)
	rem, err := c.SendReminders(context.Background())
	require.NoError(t, err)
	require.True(t, rem.Processed)
	require.Equal(t, []string{"/worker/recompute-overdue", "/worker/send-whatsapp-reminders"}, calls)

	bad, _ := NewClient(srv.URL, "wrong", time.Second)
	_, err = bad.RecomputeOverdue(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "401")
}
