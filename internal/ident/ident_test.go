package ident_test

import (
	"slices"
	"testing"

	"github.com/mickamy/sqltrail/internal/ident"
)

func TestSplitQualified(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "  ", want: nil},
		{name: "simple", in: "audit_metadata", want: []string{"audit_metadata"}},
		{name: "schema qualified", in: "audit.metadata", want: []string{"audit", "metadata"}},
		{name: "quoted schema and space", in: `"Audit"."Statement Log"`, want: []string{"Audit", "Statement Log"}},
		{name: "dot inside quotes", in: `"Audit"."log.v2"`, want: []string{"Audit", "log.v2"}},
		{name: "escaped quote", in: `"Audit""Trail"."Log"`, want: []string{`Audit"Trail`, "Log"}},
		{name: "backticks", in: "`shop`.`order.items`", want: []string{"shop", "order.items"}},
		{name: "double quote inside backticks", in: "`a\"b`", want: []string{`a"b`}},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ident.SplitQualified(tc.in)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("SplitQualified(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestStripAlias(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{name: "no alias", in: "orders", want: "orders"},
		{name: "alias", in: "orders o", want: "orders"},
		{name: "as alias", in: "public.orders AS o", want: "public.orders"},
		{name: "quoted with space", in: `"Order Items" oi`, want: `"Order Items"`},
		{name: "backticks with space", in: "`order items` oi", want: "`order items`"},
		{name: "trailing comma", in: "orders,", want: "orders"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ident.StripAlias(tc.in); got != tc.want {
				t.Fatalf("StripAlias(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestQuoter_Table(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		q    ident.Quoter
		in   string
		want string
	}{
		{name: "simple", q: ident.DoubleQuote, in: "audit_metadata", want: `"audit_metadata"`},
		{name: "schema qualified", q: ident.DoubleQuote, in: "audit.metadata", want: `"audit"."metadata"`},
		{name: "needs escaping", q: ident.DoubleQuote, in: `"Audit""Log"`, want: `"Audit""Log"`},
		{name: "backtick", q: ident.Backtick, in: "shop.audit", want: "`shop`.`audit`"},
		{name: "backtick escaping", q: ident.Backtick, in: "`a``b`", want: "`a``b`"},
		{name: "empty", q: ident.DoubleQuote, in: "", want: ""},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.q.Table(tc.in); got != tc.want {
				t.Fatalf("Table(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		in   string
		want string
	}{
		{in: "UTC", want: `'UTC'`},
		{in: "Europe/Amsterdam", want: `'Europe/Amsterdam'`},
		{in: "it's", want: `'it''s'`},
		{in: "", want: `''`},
	}
	for _, tc := range tcs {
		if got := ident.Literal(tc.in); got != tc.want {
			t.Fatalf("Literal(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBaseTableName(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "audit_metadata", want: "audit_metadata"},
		{name: "schema qualified", in: "audit.metadata", want: "metadata"},
		{name: "quoted", in: `"Audit"."Metadata"`, want: "Metadata"},
		{name: "dot in quotes", in: `"Audit"."log.v2"`, want: "log.v2"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := ident.BaseTableName(tc.in); got != tc.want {
				t.Fatalf("BaseTableName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
