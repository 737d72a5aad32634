package sqltrail

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"

	"github.com/mickamy/sqltrail/internal/ident"
)

// DefaultTable is the metadata table used when no table is configured.
const DefaultTable = "audit_metadata"

// SchemaConfig controls metadata table generation.
type SchemaConfig struct {
	Table           any     // table name or model, see TableNamer (default: DefaultTable)
	Dialect         Dialect // column types and quoting (default: postgres)
	CreateTimeIndex bool    // index the operated_at column
}

// TableNamer provides a custom table name for a model.
type TableNamer interface {
	TableName() string
}

// execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Migrate creates the metadata table if it does not exist yet.
func Migrate(ctx context.Context, db execer, cfg SchemaConfig) error {
	if cfg.Dialect == "" {
		cfg.Dialect = DialectPostgres
	}
	name, err := resolveTableName(cfg.Table)
	if err != nil {
		return err
	}
	q := cfg.Dialect.quoter()
	table := q.Table(name)
	if table == "" {
		return fmt.Errorf("sqltrail: invalid table identifier %q", name)
	}

	columns := []string{
		"id VARCHAR(36) PRIMARY KEY",
		"operation VARCHAR(16) NOT NULL",
		"table_names TEXT NOT NULL",
		"operated_at " + timestampType(cfg.Dialect) + " NOT NULL",
		"operator_name TEXT",
		"operator_address TEXT",
	}
	indexName := fmt.Sprintf("idx_%s_operated_at", ident.BaseTableName(name))
	if cfg.CreateTimeIndex && cfg.Dialect == DialectMySQL {
		// MySQL has no CREATE INDEX IF NOT EXISTS.
		columns = append(columns, fmt.Sprintf("INDEX %s (operated_at)", q.Quote(indexName)))
	}

	ddl := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        %s
    );
    `, table, strings.Join(columns, ",\n\t"))

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("sqltrail: failed to create metadata table: %w", err)
	}
	if cfg.CreateTimeIndex && cfg.Dialect != DialectMySQL {
		stmt := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (operated_at);`, q.Quote(indexName), table)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqltrail: failed to create metadata index: %w", err)
		}
	}
	return nil
}

func timestampType(d Dialect) string {
	switch d {
	case DialectPostgres:
		return "TIMESTAMPTZ"
	case DialectMySQL:
		return "DATETIME(6)"
	default:
		return "TIMESTAMP"
	}
}

var tableNamerType = reflect.TypeOf((*TableNamer)(nil)).Elem()

// resolveTableName derives a table name from a string, a TableNamer, or a struct
// whose snake_cased, pluralized type name is used. nil yields DefaultTable.
func resolveTableName(target any) (string, error) {
	switch v := target.(type) {
	case nil:
		return DefaultTable, nil
	case string:
		name := strings.TrimSpace(v)
		if name == "" {
			return "", errors.New("sqltrail: empty table name")
		}
		return name, nil
	}

	val := reflect.ValueOf(target)
	typ := val.Type()

	if typ.Kind() == reflect.Pointer {
		if val.IsNil() {
			return "", fmt.Errorf("sqltrail: nil pointer target %T", target)
		}
		typ = typ.Elem()
	}

	if namer, ok := target.(TableNamer); ok {
		return namerTableName(namer, target)
	}
	if typ.Kind() == reflect.Struct {
		if reflect.PointerTo(typ).Implements(tableNamerType) {
			if namer, ok := reflect.New(typ).Interface().(TableNamer); ok {
				return namerTableName(namer, target)
			}
		}
		if typ.Name() == "" {
			return "", fmt.Errorf("sqltrail: cannot derive table name for anonymous struct of type %v", typ)
		}
		return inflection.Plural(toSnakeCase(typ.Name())), nil
	}

	return "", fmt.Errorf("sqltrail: unsupported table target %T", target)
}

func namerTableName(namer TableNamer, target any) (string, error) {
	name := strings.TrimSpace(namer.TableName())
	if name == "" {
		return "", fmt.Errorf("sqltrail: TableName returned empty string. %T", target)
	}
	return name, nil
}

func toSnakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
