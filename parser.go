package sqltrail

import (
	"errors"

	"github.com/mickamy/sqltrail/internal/query"
	"github.com/mickamy/sqltrail/internal/sqlparse"
	"github.com/mickamy/sqltrail/tree"
)

// ErrParse wraps every error returned by Handler.Inspect for statements the parser rejects.
var ErrParse = errors.New("sqltrail: failed to parse statement")

// Parser turns statement text into a clause tree.
type Parser interface {
	Parse(stmt string) (*tree.Tree, error)
}

// ParserFunc adapts an ordinary function to Parser.
type ParserFunc func(stmt string) (*tree.Tree, error)

func (f ParserFunc) Parse(stmt string) (*tree.Tree, error) { return f(stmt) }

// SQLParser parses statements with a full MySQL-flavoured SQL grammar, including
// joins and nested subqueries.
func SQLParser() Parser {
	return ParserFunc(sqlparse.Parse)
}

// DMLParser recognizes the target table of a top-level INSERT, UPDATE, DELETE or
// SELECT by pattern. It accepts syntax a grammar may not, such as $n placeholders
// and RETURNING, but never sees subqueries.
func DMLParser() Parser {
	return ParserFunc(query.ParseDML)
}

// FallbackParser tries each parser in order and returns the first success.
func FallbackParser(parsers ...Parser) Parser {
	return ParserFunc(func(stmt string) (*tree.Tree, error) {
		err := errors.New("sqltrail: no parser configured")
		for _, p := range parsers {
			var t *tree.Tree
			if t, err = p.Parse(stmt); err == nil {
				return t, nil
			}
		}
		return nil, err
	})
}
