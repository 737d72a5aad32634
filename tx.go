package sqltrail

import (
	"context"
	"database/sql"

	"github.com/mickamy/sqltrail/internal/buffer"
)

// Tx wraps a *sql.Tx and buffers metadata within the transaction. Buffered records
// are handed to the sink once the transaction has been committed or rolled back.
type Tx struct {
	*sql.Tx
	h   *Handler
	buf *buffer.Buffer[*Metadata]
	ctx context.Context
}

func (t *Tx) add(ctx context.Context, q string) {
	t.buf.Add(t.h.capture(ctx, q)...)
}

func (t *Tx) ExecContext(ctx context.Context, q string, args ...any) (sql.Result, error) {
	t.add(ctx, q)
	return t.Tx.ExecContext(ctx, q, args...)
}

func (t *Tx) Exec(q string, args ...any) (sql.Result, error) {
	return t.ExecContext(t.ctx, q, args...)
}

func (t *Tx) QueryContext(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	t.add(ctx, q)
	return t.Tx.QueryContext(ctx, q, args...)
}

func (t *Tx) Query(q string, args ...any) (*sql.Rows, error) {
	return t.QueryContext(t.ctx, q, args...)
}

func (t *Tx) QueryRowContext(ctx context.Context, q string, args ...any) *sql.Row {
	t.add(ctx, q)
	return t.Tx.QueryRowContext(ctx, q, args...)
}

func (t *Tx) QueryRow(q string, args ...any) *sql.Row {
	return t.QueryRowContext(t.ctx, q, args...)
}

func (t *Tx) PrepareContext(ctx context.Context, q string) (*Stmt, error) {
	s, err := t.Tx.PrepareContext(ctx, q)
	if err != nil {
		return nil, err
	}
	return &Stmt{Stmt: s, query: q, record: t.add}, nil
}

func (t *Tx) Prepare(q string) (*Stmt, error) {
	return t.PrepareContext(t.ctx, q)
}

// Commit commits the transaction, then flushes buffered metadata.
func (t *Tx) Commit() error {
	err := t.Tx.Commit()
	t.flush()
	return err
}

// Rollback rolls back the transaction, then flushes buffered metadata. Statements
// that ran inside a rolled back transaction were still executed and are recorded.
func (t *Tx) Rollback() error {
	err := t.Tx.Rollback()
	t.flush()
	return err
}

func (t *Tx) flush() {
	t.h.deliver(context.WithoutCancel(t.ctx), t.buf.Drain())
}
