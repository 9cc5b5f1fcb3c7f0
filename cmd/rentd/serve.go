package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapi "github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/sysutil"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

func serveCmd() *cobra.Command {
	var (
		drain         time.Duration
		withScheduler bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), drain)
				defer cancel()
				if err := a.close(sctx); err != nil {
					log.Warn().Err(err).Msg("shutdown")
				}
			}()

			gin.SetMode(cfg.GinMode)
			r := gin.New()
			httpapi.RegisterRoutes(r, httpapi.Deps{
				DB:        a.db,
				Clock:     a.clock,
				Overdue:   a.overdue,
				Reminders: a.reminders,
			}, cfg)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadTimeout:       cfg.ReadTimeout,
				ReadHeaderTimeout: cfg.ReadHeaderTimeout,
				WriteTimeout:      cfg.WriteTimeout,
				IdleTimeout:       cfg.IdleTimeout,
				MaxHeaderBytes:    cfg.MaxHeaderBytes,
			}
			if withScheduler {
				s, err := worker.NewScheduler(cfg.Worker.DailyCron, a.clock.Loc, &worker.Daily{Overdue: a.overdue, Reminders: a.reminders})
				if err != nil {
					return err
				}
				s.Start()
				defer func() { <-s.Stop().Done() }()
				log.Info().Str("cron", cfg.Worker.DailyCron).Time("next", s.Next()).Msg("in-process scheduler started")
			}
			if cfg.Worker.Secret == "" {
				log.Warn().Msg("WORKER_SECRET is empty; /worker endpoints will reject every call")
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Msg("listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			log.Info().Msg("shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), drain)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
	cmd.Flags().DurationVar(&drain, "shutdown-timeout", 15*time.Second, "grace period for in-flight requests")
	cmd.Flags().BoolVar(&withScheduler, "with-scheduler", sysutil.IsTruthy(os.Getenv("SERVE_WITH_SCHEDULER")),
		"also run the daily jobs on DAILY_CRON (default SERVE_WITH_SCHEDULER)")
	return cmd
}
