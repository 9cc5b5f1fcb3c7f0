package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

func scheduleCmd() *cobra.Command {
	var (
		spec string
		once bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily jobs in-process on a cron spec",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if spec == "" {
				spec = cfg.Worker.DailyCron
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(context.Background()) }()

			daily := &worker.Daily{Overdue: a.overdue, Reminders: a.reminders}
			if once {
				ov, rem, err := daily.Run(log.Logger.WithContext(ctx))
				log.Info().
					Int64("overdue_updated", ov.Updated).
					Int("reminders_sent", rem.Sent).
					Int("reminders_failed", rem.Failed).
					Msg("single run finished")
				return err
			}

			s, err := worker.NewScheduler(spec, a.clock.Loc, daily)
			if err != nil {
				return err
			}
			s.Start()
			log.Info().Str("cron", spec).Time("next", s.Next()).Msg("scheduler started")

			<-ctx.Done()
			log.Info().Msg("stopping scheduler")
			<-s.Stop().Done()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", "", "cron spec (default DAILY_CRON)")
	cmd.Flags().BoolVar(&once, "once", false, "run both jobs once and exit")
	return cmd
}
