package sqltrail

import (
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/mickamy/sqltrail/internal/ident"
)

// Dialect names the database flavour behind a handle.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
)

var ErrTimeZoneUnsupported = errors.New("sqltrail: setting the time zone is not supported for this dialect")

// TimeZoneStatement returns the statement that sets the session time zone.
func (d Dialect) TimeZoneStatement(tz string) (string, error) {
	switch d {
	case DialectPostgres:
		return "SET TIME ZONE " + ident.Literal(tz), nil
	case DialectMySQL:
		return "SET time_zone = " + ident.Literal(tz), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrTimeZoneUnsupported, d)
	}
}

func (d Dialect) placeholder() sq.PlaceholderFormat {
	if d == DialectPostgres {
		return sq.Dollar
	}
	return sq.Question
}

func (d Dialect) quoter() ident.Quoter {
	if d == DialectMySQL {
		return ident.Backtick
	}
	return ident.DoubleQuote
}
