package sqlparse_test

import (
	"testing"

	"github.com/mickamy/sqltrail/internal/sqlparse"
)

func TestNormalizePlaceholders(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "no placeholders",
			in:   "SELECT id FROM users WHERE id = ?",
			want: "SELECT id FROM users WHERE id = ?",
		},
		{
			name: "positional placeholders",
			in:   "SELECT * FROM t WHERE a = $1 AND b = $12",
			want: "SELECT * FROM t WHERE a = ? AND b = ?",
		},
		{
			name: "quoted text is kept",
			in:   `SELECT '$1', "$2" FROM t WHERE x = $3`,
			want: `SELECT '$1', "$2" FROM t WHERE x = ?`,
		},
		{
			name: "escaped quote inside literal",
			in:   "SELECT 'it''s $1' FROM t WHERE x = $2",
			want: "SELECT 'it''s $1' FROM t WHERE x = ?",
		},
		{
			name: "comments are kept",
			in:   "SELECT /* $1 */ a -- $2\nFROM t WHERE a = $3",
			want: "SELECT /* $1 */ a -- $2\nFROM t WHERE a = ?",
		},
		{
			name: "dollar quoted bodies are kept",
			in:   "SELECT $$ $1 $$, $tag$ $2 $tag$ FROM t WHERE a = $3",
			want: "SELECT $$ $1 $$, $tag$ $2 $tag$ FROM t WHERE a = ?",
		},
		{
			name: "dollar inside identifier",
			in:   "SELECT price$1 FROM t",
			want: "SELECT price$1 FROM t",
		},
		{
			name: "unterminated literal",
			in:   "SELECT 'abc $1",
			want: "SELECT 'abc $1",
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := sqlparse.NormalizePlaceholders(tc.in); got != tc.want {
				t.Fatalf("NormalizePlaceholders(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
