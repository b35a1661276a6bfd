package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and print the schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			wire, err := openWire()
			if err != nil {
				return err
			}
			defer wire.Close()

			version, dirty, err := wire.Store.SchemaVersion()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
			return nil
		},
	}
}
