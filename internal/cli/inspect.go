package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mickamy/sqltrail"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [SQL]",
		Short: "Print the audit records of a statement",
		Long: `Interpret a statement without a database and print one record for the statement
and one for each subquery it contains. The statement is read from stdin when no
argument is given.`,
		Example: `  sqltrail inspect "SELECT * FROM users WHERE id IN (SELECT user_id FROM admins)"
  echo "DELETE FROM sessions" | sqltrail inspect -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := statementArg(cmd, args)
			if err != nil {
				return err
			}
			cfg := getConfig(cmd.Context())
			hcfg := cfg.HandlerConfig()
			hcfg.Logger = getLogger(cmd.Context())

			records, err := sqltrail.New(hcfg).Inspect(stmt, hcfg.Operator, time.Time{})
			if err != nil {
				return err
			}
			return renderRecords(cmd.OutOrStdout(), records, cfg.Output)
		},
	}
}

func statementArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read statement: %w", err)
	}
	stmt := strings.TrimSpace(string(b))
	if stmt == "" {
		return "", errors.New("no statement given")
	}
	return stmt, nil
}
