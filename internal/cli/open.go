package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mickamy/sqltrail"
	"github.com/mickamy/sqltrail/internal/cli/config"
)

// openDB opens an unwrapped pool whose connections run the handler's session
// statements when they are established.
func openDB(cfg *config.Config, h *sqltrail.Handler) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("a dsn is required")
	}
	switch cfg.Driver {
	case config.DriverPgx:
		pc, err := pgx.ParseConfig(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("invalid dsn: %w", err)
		}
		return sql.OpenDB(h.Connector(stdlib.GetConnector(*pc))), nil
	case config.DriverSQLite:
		probe, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return nil, err
		}
		d := probe.Driver()
		_ = probe.Close()
		c, err := sqltrail.DriverConnector(d, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return sql.OpenDB(h.Connector(c)), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}
