package sqltrail

import (
	"context"
	"database/sql"

	"github.com/mickamy/sqltrail/internal/buffer"
)

// DB wraps a *sql.DB instance and records metadata for every statement it runs.
type DB struct {
	*sql.DB
	h *Handler
}

// WrapDB attaches sqltrail to a *sql.DB connection.
func (h *Handler) WrapDB(db *sql.DB) *DB {
	return &DB{DB: db, h: h}
}

func (db *DB) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	db.h.record(ctx, q)
	return db.DB.ExecContext(ctx, q, args...)
}

func (db *DB) Exec(q string, args ...any) (sql.Result, error) {
	return db.ExecContext(context.Background(), q, args...)
}

func (db *DB) QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	db.h.record(ctx, q)
	return db.DB.QueryContext(ctx, q, args...)
}

func (db *DB) Query(q string, args ...any) (*sql.Rows, error) {
	return db.QueryContext(context.Background(), q, args...)
}

func (db *DB) QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row {
	db.h.record(ctx, q)
	return db.DB.QueryRowContext(ctx, q, args...)
}

func (db *DB) QueryRow(q string, args ...any) *sql.Row {
	return db.QueryRowContext(context.Background(), q, args...)
}

// PrepareContext prepares q; metadata is recorded on each execution of the statement.
func (db *DB) PrepareContext(ctx context.Context, q string) (*Stmt, error) {
	s, err := db.DB.PrepareContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: s, query: q, record: db.h.record}, nil
}

func (db *DB) Prepare(q string) (*Stmt, error) {
	return db.PrepareContext(context.Background(), q)
}

// BeginTx starts a wrapped transaction that buffers metadata until it ends.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	t, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: t, h: db.h, buf: buffer.NewBuffer[*Metadata](), ctx: ctx}, nil
}

func (db *DB) Begin() (*Tx, error) {
	return db.BeginTx(context.Background(), nil)
}

// Conn returns a single wrapped connection from the pool.
func (db *DB) Conn(ctx context.Context) (*Conn, error) {
	c, err := db.DB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: c, h: db.h}, nil
}

// Conn wraps a *sql.Conn and records metadata for every statement it runs.
type Conn struct {
	*sql.Conn
	h *Handler
}

func (c *Conn) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	c.h.record(ctx, q)
	return c.Conn.ExecContext(ctx, q, args...)
}

func (c *Conn) QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	c.h.record(ctx, q)
	return c.Conn.QueryContext(ctx, q, args...)
}

func (c *Conn) QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row {
	c.h.record(ctx, q)
	return c.Conn.QueryRowContext(ctx, q, args...)
}

func (c *Conn) PrepareContext(ctx context.Context, q string) (*Stmt, error) {
	s, err := c.Conn.PrepareContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: s, query: q, record: c.h.record}, nil
}

func (c *Conn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	t, err := c.Conn.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: t, h: c.h, buf: buffer.NewBuffer[*Metadata](), ctx: ctx}, nil
}

// Stmt wraps a prepared statement.
type Stmt struct {
	*sql.Stmt
	query  string
	record func(ctx context.Context, q string)
}

func (s *Stmt) ExecContext(ctx context.Context, args ...any) (sql.Result, error) {
	s.record(ctx, s.query)
	return s.Stmt.ExecContext(ctx, args...)
}

func (s *Stmt) Exec(args ...any) (sql.Result, error) {
	return s.ExecContext(context.Background(), args...)
}

func (s *Stmt) QueryContext(ctx context.Context, args ...any) (*sql.Rows, error) {
	s.record(ctx, s.query)
	return s.Stmt.QueryContext(ctx, args...)
}

func (s *Stmt) Query(args ...any) (*sql.Rows, error) {
	return s.QueryContext(context.Background(), args...)
}

func (s *Stmt) QueryRowContext(ctx context.Context, args ...any) *sql.Row {
	s.record(ctx, s.query)
	return s.Stmt.QueryRowContext(ctx, args...)
}

func (s *Stmt) QueryRow(args ...any) *sql.Row {
	return s.QueryRowContext(context.Background(), args...)
}
