package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/sysutil"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

func triggerCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
		only    string
	)
	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Run the daily jobs on a running instance via /worker",
		Long: "Calls /worker/recompute-overdue and then /worker/send-whatsapp-reminders.\n" +
			"Exits non-zero when either call fails or reports success=false.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := worker.NewClient(sysutil.FirstNonEmpty(baseURL, cfg.Worker.BaseURL), cfg.Worker.Secret, timeout)
			if err != nil {
				return err
			}
			return runTrigger(cmd.Context(), client, only, func(format string, a ...any) {
				fmt.Fprintf(cmd.OutOrStdout(), format, a...)
			})
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "", "instance base URL (default WORKER_BASE_URL)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "per-request timeout")
	cmd.Flags().StringVar(&only, "only", "", "run a single job: overdue|reminders")
	return cmd
}

// jobClient is the subset of worker.Client used by trigger.
type jobClient interface {
	RecomputeOverdue(ctx context.Context) (*worker.RecomputeResponse, error)
	SendReminders(ctx context.Context) (*worker.RemindersResponse, error)
}

func runTrigger(ctx context.Context, c jobClient, only string, out func(string, ...any)) error {
	switch only {
	case "", "overdue", "reminders":
	default:
		return fmt.Errorf("--only must be overdue or reminders, got %q", only)
	}
	if only != "reminders" {
		res, err := c.RecomputeOverdue(ctx)
		if err != nil {
			return err
		}
		out("recompute-overdue: updated=%d date=%s\n", res.Updated, res.DateUsed)
	}
	if only != "overdue" {
		res, err := c.SendReminders(ctx)
		if err != nil {
			return err
		}
		out("send-reminders: processed=%t locked=%t sent=%d failed=%d skipped=%d\n", res.Processed, res.Locked, res.Sent, res.Failed, res.Skipped)
	}
	return nil
}
