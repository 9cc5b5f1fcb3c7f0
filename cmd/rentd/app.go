package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/config"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/notify"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/observability"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/sysutil"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

// app bundles what serve and schedule share: the database, the business
// clock and both daily jobs.
type app struct {
	cfg       config.Config
	db        *gorm.DB
	clock     *calendar.BusinessClock
	overdue   *worker.OverdueJob
	reminders *worker.ReminderJob

	closers []func(context.Context) error
}

// loadConfig reads the environment and installs the process logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, nil)
	return cfg, nil
}

// openDB connects to the configured store and migrates the schema.
func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.Open(cfg.DB.Driver, cfg.DB.Path, cfg.DB.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DB.Driver, err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	a := &app{cfg: cfg}

	shutdown, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		return nil, fmt.Errorf("otel: %w", err)
	}
	a.closers = append(a.closers, shutdown)

	clock, err := calendar.NewBusinessClock(cfg.Billing.Timezone)
	if err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("timezone: %w", err)
	}
	a.clock = clock

	db, err := openDB(cfg)
	if err != nil {
		_ = a.close(ctx)
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	locker, closeLocker := newLocker(cfg.Redis)
	a.closers = append(a.closers, closeLocker)

	a.overdue = &worker.OverdueJob{DB: db, Clock: clock, Locker: locker, LockTTL: cfg.Worker.LockTTL}
	a.reminders = &worker.ReminderJob{
		DB:        db,
		Clock:     clock,
		Router:    newNotifyRouter(cfg),
		Templates: notify.NewTemplates(cfg.Billing.Locale, cfg.Billing.CurrencySymbol),
		Locker:    locker,
		LockTTL:   cfg.Worker.LockTTL,
	}
	return a, nil
}

// close runs the closers in reverse order and joins their errors.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// newNotifyRouter enables WhatsApp and email only when configured; anything
// else is written to the log.
func newNotifyRouter(cfg config.Config) *notify.Router {
	rt := &notify.Router{Fallback: notify.LogSender{}}
	if cfg.WhatsApp.Enabled {
		rt.WhatsApp = notify.NewWhatsAppSender(cfg.WhatsApp.APIURL, cfg.WhatsApp.Token, cfg.WhatsApp.PhoneID,
			cfg.WhatsApp.Retries, cfg.WhatsApp.Timeout)
	}
	if cfg.SMTP.Host != "" {
		rt.Email = &notify.EmailSender{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		}
	}
	log.Info().
		Bool("whatsapp", rt.WhatsApp != nil).
		Bool("email", rt.Email != nil).
		Msg("notification channels")
	return rt
}

// newLocker returns a Redis lock when REDIS_ADDR is set so that concurrent
// instances never run the same job twice.
func newLocker(cfg config.RedisConfig) (worker.Locker, func(context.Context) error) {
	if cfg.Addr == "" {
		return worker.NoopLocker{}, func(context.Context) error { return nil }
	}
	l := worker.NewRedisLocker(cfg.Addr, cfg.Password, cfg.DB)
	return l, func(context.Context) error { return l.Close() }
}
