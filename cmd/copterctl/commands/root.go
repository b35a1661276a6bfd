package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/copter/internal/app"
	"github.com/mmynk/copter/internal/config"
	"github.com/mmynk/copter/pkg/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	dbPath string
)

func Execute() error {
	root := &cobra.Command{
		Use:          "copterctl",
		Short:        "Operate a Copter bill settlement ledger",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}
			logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "ledger database path (default $DB_PATH)")

	root.AddCommand(migrateCmd(), remindCmd(), cleanupCmd(), tokenCmd(), hashKeyCmd(), genSealKeyCmd())
	return root.Execute()
}

// openWire opens the ledger for commands that need it. The caller closes it.
func openWire() (*app.Wire, error) {
	return app.NewWire(cfg, logger)
}
