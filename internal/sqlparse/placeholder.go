package sqlparse

import (
	"strings"
)

// NormalizePlaceholders replaces Postgres positional placeholders ($1, $2, ...) with
// ?. Quoted strings, quoted identifiers, comments and dollar-quoted bodies are
// copied unchanged.
func NormalizePlaceholders(stmt string) string {
	if !strings.Contains(stmt, "$") {
		return stmt
	}

	var b strings.Builder
	b.Grow(len(stmt))
	for i := 0; i < len(stmt); {
		c := stmt[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			end := quoted(stmt, i, c)
			b.WriteString(stmt[i:end])
			i = end
		case c == '-' && strings.HasPrefix(stmt[i:], "--"):
			end := strings.IndexByte(stmt[i:], '\n')
			if end < 0 {
				end = len(stmt) - i
			}
			b.WriteString(stmt[i : i+end])
			i += end
		case c == '/' && strings.HasPrefix(stmt[i:], "/*"):
			end := strings.Index(stmt[i+2:], "*/")
			if end < 0 {
				end = len(stmt)
			} else {
				end = i + 2 + end + 2
			}
			b.WriteString(stmt[i:end])
			i = end
		case c == '$' && i+1 < len(stmt) && isDigit(stmt[i+1]) && !identByte(stmt, i-1):
			j := i + 1
			for j < len(stmt) && isDigit(stmt[j]) {
				j++
			}
			b.WriteByte('?')
			i = j
		case c == '$' && !identByte(stmt, i-1):
			if tag, ok := dollarTag(stmt[i:]); ok {
				end := strings.Index(stmt[i+len(tag):], tag)
				if end < 0 {
					end = len(stmt)
				} else {
					end = i + len(tag) + end + len(tag)
				}
				b.WriteString(stmt[i:end])
				i = end
				continue
			}
			b.WriteByte(c)
			i++
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String()
}

// quoted returns the index just past the literal starting at start. A doubled
// quote character is an escaped quote.
func quoted(s string, start int, q byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

// dollarTag reports the opening $tag$ of a dollar-quoted string at the start of s.
func dollarTag(s string) (string, bool) {
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '$' {
			return s[:i+1], true
		}
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || i > 1 && isDigit(c)) {
			return "", false
		}
	}
	return "", false
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// identByte reports whether s[i] continues an identifier, as in col$1.
func identByte(s string, i int) bool {
	if i < 0 {
		return false
	}
	c := s[i]
	return c == '_' || c == '$' || isDigit(c) || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
