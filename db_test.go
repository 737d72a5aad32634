package sqltrail_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mickamy/sqltrail"
)

type collector struct {
	mu     sync.Mutex
	writes [][]*sqltrail.Metadata
	err    error
}

func (c *collector) Write(_ context.Context, records []*sqltrail.Metadata) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes = append(c.writes, records)
	return c.err
}

func (c *collector) summary() [][]result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]result, len(c.writes))
	for i, w := range c.writes {
		out[i] = results(w)
	}
	return out
}

func newMockDB(t *testing.T, cfg sqltrail.Config) (*sqltrail.DB, sqlmock.Sqlmock, *collector) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := &collector{}
	if cfg.Sink == nil {
		cfg.Sink = c
	}
	return sqltrail.New(cfg).WrapDB(db), mock, c
}

func TestDB_Exec(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	const q = "UPDATE users SET name = ? WHERE id IN (SELECT user_id FROM banned)"
	mock.ExpectExec(q).WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 3))

	res, err := db.ExecContext(context.Background(), q, "x")
	require.NoError(t, err)
	n, _ := res.RowsAffected()
	assert.EqualValues(t, 3, n)

	assert.Equal(t, [][]result{{
		{op: sqltrail.OperationUpdate, tables: []string{"users"}},
		{op: sqltrail.OperationSelect, tables: []string{"banned"}},
	}}, c.summary())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_QueryAndOperator(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{Operator: sqltrail.Operator{Name: "batch", Address: "127.0.0.1"}})
	const q = "SELECT id FROM users"
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	ctx := sqltrail.WithOperator(context.Background(), "alice")
	rows, err := db.QueryContext(ctx, q)
	require.NoError(t, err)
	require.NoError(t, rows.Close())

	require.Len(t, c.writes, 1)
	require.Len(t, c.writes[0], 1)
	assert.Equal(t, sqltrail.Operator{Name: "alice", Address: "127.0.0.1"}, c.writes[0][0].Operator())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Prepare(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	const q = "DELETE FROM sessions WHERE id = ?"
	prep := mock.ExpectPrepare(q)
	prep.ExpectExec().WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))

	stmt, err := db.Prepare(q)
	require.NoError(t, err)
	assert.Empty(t, c.summary(), "preparing alone records nothing")

	_, err = stmt.Exec(1)
	require.NoError(t, err)
	_, err = stmt.Exec(2)
	require.NoError(t, err)

	want := []result{{op: sqltrail.OperationDelete, tables: []string{"sessions"}}}
	assert.Equal(t, [][]result{want, want}, c.summary())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_UnparsableStatementStillRuns(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	const q = "VACUUM ANALYZE; -- maintenance"
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := db.Exec(q)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	for _, w := range c.summary() {
		for _, r := range w {
			assert.Equal(t, sqltrail.OperationNone, r.op)
		}
	}
}

func TestDB_SinkErrorDoesNotFailStatement(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	c.err = errors.New("sink down")
	const q = "INSERT INTO logs (msg) VALUES (?)"
	mock.ExpectExec(q).WithArgs("hi").WillReturnResult(sqlmock.NewResult(1, 1))

	_, err := db.Exec(q, "hi")
	require.NoError(t, err)
	assert.Len(t, c.summary(), 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_SkipAndDisabled(t *testing.T) {
	t.Parallel()

	const q = "SELECT 1 FROM users"

	db, mock, c := newMockDB(t, sqltrail.Config{})
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	_, err := db.ExecContext(sqltrail.WithSkip(context.Background()), q)
	require.NoError(t, err)
	assert.Empty(t, c.summary())
	require.NoError(t, mock.ExpectationsWereMet())

	db, mock, c = newMockDB(t, sqltrail.Config{Disabled: true})
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = db.Exec(q)
	require.NoError(t, err)
	assert.Empty(t, c.summary())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_CommitFlushes(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders (id) VALUES (?)").WithArgs(1).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE stock SET qty = qty - 1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = tx.Exec("INSERT INTO orders (id) VALUES (?)", 1)
	require.NoError(t, err)
	_, err = tx.Exec("UPDATE stock SET qty = qty - 1")
	require.NoError(t, err)
	assert.Empty(t, c.summary(), "records are buffered until the transaction ends")

	require.NoError(t, tx.Commit())
	assert.Equal(t, [][]result{{
		{op: sqltrail.OperationInsert, tables: []string{"orders"}},
		{op: sqltrail.OperationUpdate, tables: []string{"stock"}},
	}}, c.summary())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_RollbackFlushes(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM carts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	_, err = tx.Exec("DELETE FROM carts")
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	assert.Equal(t, [][]result{{{op: sqltrail.OperationDelete, tables: []string{"carts"}}}}, c.summary())

	// A second end of the transaction has nothing left to flush.
	assert.Error(t, tx.Rollback())
	assert.Len(t, c.summary(), 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTx_CommitErrorIsReturned(t *testing.T) {
	t.Parallel()

	db, mock, c := newMockDB(t, sqltrail.Config{})
	errCommit := errors.New("serialization failure")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE accounts SET balance = 0").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errCommit)

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = tx.Exec("UPDATE accounts SET balance = 0")
	require.NoError(t, err)

	assert.ErrorIs(t, tx.Commit(), errCommit)
	assert.Len(t, c.summary(), 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
