package sqltrail

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// SQLSinkConfig configures SQLSink.
type SQLSinkConfig struct {
	Table   any     // table name or model, see TableNamer (default: DefaultTable)
	Dialect Dialect // placeholder and quoting style (default: postgres)
}

// SQLSink persists records into a metadata table created by Migrate. It should be
// given an unwrapped handle so its own inserts are not recorded.
type SQLSink struct {
	db      execer
	table   string
	dialect Dialect
	newID   func() string
}

func NewSQLSink(db execer, cfg SQLSinkConfig) (*SQLSink, error) {
	if cfg.Dialect == "" {
		cfg.Dialect = DialectPostgres
	}
	name, err := resolveTableName(cfg.Table)
	if err != nil {
		return nil, err
	}
	table := cfg.Dialect.quoter().Table(name)
	if table == "" {
		return nil, fmt.Errorf("sqltrail: invalid table identifier %q", name)
	}
	return &SQLSink{db: db, table: table, dialect: cfg.Dialect, newID: uuid.NewString}, nil
}

// Write inserts all records with a single statement, assigning a UUID to records
// that have no identity yet.
func (s *SQLSink) Write(ctx context.Context, records []*Metadata) error {
	if len(records) == 0 {
		return nil
	}
	qb := sq.Insert(s.table).
		Columns("id", "operation", "table_names", "operated_at", "operator_name", "operator_address").
		PlaceholderFormat(s.dialect.placeholder())
	for _, m := range records {
		if err := m.AssignID(s.newID()); err != nil && !errors.Is(err, ErrIDAssigned) {
			return err
		}
		tables, err := json.Marshal(m.tables)
		if err != nil {
			return fmt.Errorf("sqltrail: failed to marshal tables: %w", err)
		}
		op := m.Operator()
		qb = qb.Values(
			m.ID(),
			string(m.Operation()),
			string(tables),
			m.Time().UTC(),
			nullString(op.Name),
			nullString(op.Address),
		)
	}

	stmt, args, err := qb.ToSql()
	if err != nil {
		return fmt.Errorf("sqltrail: failed to build insert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("sqltrail: failed to insert metadata: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
