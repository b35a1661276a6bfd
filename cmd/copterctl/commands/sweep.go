package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/copter/internal/notify"
)

func remindCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a reminder for every unpaid share on active bills",
		RunE: func(cmd *cobra.Command, args []string) error {
			wire, err := openWire()
			if err != nil {
				return err
			}
			defer wire.Close()
			if dryRun {
				wire.Notifier = notify.NewLogNotifier(logger)
			}

			result, err := wire.Scheduler(cfg, logger).SendReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reminders sent: %d, failed: %d\n", result.Sent, result.Failed)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "log reminders instead of delivering them")
	return cmd
}

func cleanupCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete attachments of bills closed longer than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			wire, err := openWire()
			if err != nil {
				return err
			}
			defer wire.Close()
			if days > 0 {
				cfg.FileRetentionDays = days
			}

			result, err := wire.Scheduler(cfg, logger).CleanupFiles(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "files deleted: %d, skipped: %d, failed: %d\n",
				result.Deleted, result.Skipped, result.Failed)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "retention in days (default $FILE_RETENTION_DAYS)")
	return cmd
}
