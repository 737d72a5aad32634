package query

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mickamy/sqltrail/internal/ident"
	"github.com/mickamy/sqltrail/tree"
)

// ErrUnrecognized is returned by ParseDML for statements it has no pattern for.
var ErrUnrecognized = errors.New("query: unrecognized statement")

var (
	reInsert = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?(?:insert|replace)\s+(?:ignore\s+)?into\s+([^\s(]+)`)
	reUpdate = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?update\s+([^\s]+(?:\s+(?:as\s+)?[^\s]+)?)\s+set\b`)
	reDelete = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?delete\s+from\s+([^\s]+(?:\s+(?:as\s+)?[^\s]+)?)`)
	reSelect = regexp.MustCompile(`(?is)^\s*(?:with\b.*?\)\s*)?select\b.*?\bfrom\s+([^\s,;()]+)`)
)

// ParseDML recognizes a single top-level statement and returns a one-level tree with
// its operation clause and target table. It knows nothing about subqueries or joins;
// it exists for statements a full SQL grammar rejects, such as ones using $n
// placeholders or RETURNING.
func ParseDML(q string) (*tree.Tree, error) {
	qs := strings.TrimSpace(q)
	if m := reInsert.FindStringSubmatch(qs); len(m) == 2 {
		return tree.New().Add(tree.Insert, table(m[1])), nil
	}
	if m := reUpdate.FindStringSubmatch(qs); len(m) == 2 {
		return tree.New().Add(tree.Update, table(m[1])), nil
	}
	if m := reDelete.FindStringSubmatch(qs); len(m) == 2 {
		return tree.New().Add(tree.Delete).Add(tree.From, table(m[1])), nil
	}
	if m := reSelect.FindStringSubmatch(qs); len(m) == 2 {
		return tree.New().Add(tree.Select, tree.Other{Type: "expression"}).Add(tree.From, table(m[1])), nil
	}
	return nil, ErrUnrecognized
}

func table(raw string) tree.Table {
	name := ident.StripAlias(raw)
	t := tree.Table{Name: name}
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), name))
	if rest != "" {
		fields := strings.Fields(rest)
		if alias := fields[len(fields)-1]; !clauseKeywords[strings.ToLower(alias)] {
			t.Alias = alias
		}
	}
	return t
}

// clauseKeywords may follow a table name directly and are never aliases.
var clauseKeywords = map[string]bool{
	"where": true, "using": true, "returning": true, "order": true, "limit": true, "set": true,
	"join": true, "inner": true, "left": true, "right": true, "on": true, "group": true,
	"having": true, "values": true, "for": true,
}
