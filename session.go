package sqltrail

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var errNoExecer = errors.New("sqltrail: driver connection cannot execute statements directly")

// Connector wraps c so that every new physical connection runs the configured
// InitCommand and time zone statement before it is handed to database/sql.
// Use it with sql.OpenDB.
func (h *Handler) Connector(c driver.Connector) driver.Connector {
	stmts := h.sessionStatements()
	if len(stmts) == 0 {
		return c
	}
	return &sessionConnector{Connector: c, stmts: stmts}
}

func (h *Handler) sessionStatements() []string {
	var stmts []string
	if h.cfg.TimeZone != "" {
		stmt, err := h.cfg.Dialect.TimeZoneStatement(h.cfg.TimeZone)
		if err != nil {
			h.cfg.Logger.Warn("sqltrail: ignoring time zone",
				zap.String("time_zone", h.cfg.TimeZone),
				zap.String("dialect", string(h.cfg.Dialect)),
				zap.Error(err),
			)
		} else {
			stmts = append(stmts, stmt)
		}
	}
	if h.cfg.InitCommand != "" {
		stmts = append(stmts, h.cfg.InitCommand)
	}
	return stmts
}

type sessionConnector struct {
	driver.Connector
	stmts []string
}

func (c *sessionConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.Connector.Connect(ctx)
	if err != nil {
		return nil, err
	}
	ex, ok := conn.(driver.ExecerContext)
	if !ok {
		_ = conn.Close()
		return nil, errNoExecer
	}
	for _, stmt := range c.stmts {
		if _, err := ex.ExecContext(ctx, stmt, nil); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("sqltrail: failed to run session statement %q: %w", stmt, err)
		}
	}
	return conn, nil
}

// DriverConnector returns a connector opening dsn with d, for drivers that are not
// exposed as a driver.Connector.
func DriverConnector(d driver.Driver, dsn string) (driver.Connector, error) {
	if dc, ok := d.(driver.DriverContext); ok {
		return dc.OpenConnector(dsn)
	}
	return dsnConnector{d: d, dsn: dsn}, nil
}

type dsnConnector struct {
	d   driver.Driver
	dsn string
}

func (c dsnConnector) Connect(context.Context) (driver.Conn, error) { return c.d.Open(c.dsn) }
func (c dsnConnector) Driver() driver.Driver                        { return c.d }
