package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mickamy/sqltrail"
)

func newMigrateCommand() *cobra.Command {
	var index bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the metadata table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := getConfig(cmd.Context())
			logger := getLogger(cmd.Context())
			hcfg := cfg.HandlerConfig()
			hcfg.Logger = logger

			db, err := openDB(cfg, sqltrail.New(hcfg))
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqltrail.Migrate(cmd.Context(), db, sqltrail.SchemaConfig{
				Table:           cfg.Table,
				Dialect:         hcfg.Dialect,
				CreateTimeIndex: index,
			}); err != nil {
				return err
			}
			logger.Info("metadata table ready", zap.String("table", cfg.Table))
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "metadata table %s is ready\n", cfg.Table)
			return nil
		},
	}
	cmd.Flags().BoolVar(&index, "index", true, "index the operated_at column")
	return cmd
}
