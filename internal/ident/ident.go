package ident

import (
	"strings"
	"unicode"
)

// Quoter renders identifiers using one quote character.
type Quoter rune

const (
	DoubleQuote Quoter = '"'
	Backtick    Quoter = '`'
)

// SplitQualified splits a potentially schema-qualified identifier into its parts.
// Both "double quoted" and `backtick quoted` parts are understood.
func SplitQualified(ident string) []string {
	ident = strings.TrimSpace(ident)
	if ident == "" {
		return nil
	}
	var parts []string
	var buf strings.Builder
	var quote rune
	runes := []rune(ident)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == 0 && (r == '"' || r == '`'):
			quote = r
		case quote != 0 && r == quote:
			if i+1 < len(runes) && runes[i+1] == quote {
				buf.WriteRune(r)
				i++
				continue
			}
			quote = 0
		case quote == 0 && r == '.':
			parts = append(parts, strings.TrimSpace(buf.String()))
			buf.Reset()
		default:
			buf.WriteRune(r)
		}
	}
	parts = append(parts, strings.TrimSpace(buf.String()))
	return parts
}

// StripAlias removes trailing alias tokens from an identifier while preserving quotes.
func StripAlias(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",")
	runes := []rune(s)
	var quote rune
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote == 0 && (r == '"' || r == '`'):
			quote = r
		case r == quote:
			quote = 0
		case quote == 0 && unicode.IsSpace(r):
			return strings.TrimSpace(string(runes[:i]))
		}
	}
	return s
}

// Quote safely quotes a single identifier part.
func (q Quoter) Quote(part string) string {
	c := string(q)
	return c + strings.ReplaceAll(part, c, c+c) + c
}

// QuoteQualified renders qualified identifier parts as a SQL identifier.
func (q Quoter) QuoteQualified(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = q.Quote(p)
	}
	return strings.Join(quoted, ".")
}

// Table renders a possibly qualified table name, quoting every part.
func (q Quoter) Table(name string) string {
	return q.QuoteQualified(SplitQualified(name))
}

// Literal renders s as a single-quoted SQL string literal.
func Literal(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// BaseTableName returns the last segment of a qualified identifier.
func BaseTableName(ident string) string {
	parts := SplitQualified(ident)
	if len(parts) == 0 {
		return strings.TrimSpace(ident)
	}
	return parts[len(parts)-1]
}
