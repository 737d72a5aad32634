package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mickamy/sqltrail"
)

func newExecCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute a statement and persist its audit records",
		Long: `Execute a statement through a wrapped connection. The records of the statement are
written to the metadata table and logged. Statements that read rows print them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := statementArg(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg := getConfig(ctx)
			logger := getLogger(ctx)
			hcfg := cfg.HandlerConfig()
			hcfg.Logger = logger

			raw, err := openDB(cfg, sqltrail.New(hcfg))
			if err != nil {
				return err
			}
			defer func() { _ = raw.Close() }()

			store, err := sqltrail.NewSQLSink(raw, sqltrail.SQLSinkConfig{Table: cfg.Table, Dialect: hcfg.Dialect})
			if err != nil {
				return err
			}
			hcfg.Sink = sqltrail.MultiSink(store, sqltrail.LogSink(logger))
			h := sqltrail.New(hcfg)
			db := h.WrapDB(raw)

			if readsRows(h, stmt) {
				rows, err := db.QueryContext(ctx, stmt)
				if err != nil {
					return err
				}
				defer func() { _ = rows.Close() }()
				return renderRows(cmd.OutOrStdout(), rows, cfg.Output)
			}

			res, err := db.ExecContext(ctx, stmt)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				n = 0
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d row(s) affected\n", n)
			return nil
		},
	}
}

// readsRows reports whether the outermost part of stmt is a query.
func readsRows(h *sqltrail.Handler, stmt string) bool {
	records, err := h.Inspect(stmt, sqltrail.Operator{}, time.Time{})
	if err != nil || len(records) == 0 {
		return false
	}
	return records[0].Operation() == sqltrail.OperationSelect
}
