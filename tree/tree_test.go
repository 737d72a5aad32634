package tree_test

import (
	"reflect"
	"testing"

	"github.com/mickamy/sqltrail/tree"
)

func TestTree_Add(t *testing.T) {
	t.Parallel()

	tr := tree.New().
		Add(tree.Select, tree.ColumnRef{Expr: "a"}).
		Add(tree.From, tree.Table{Name: "users"}).
		Add(tree.Select, tree.ColumnRef{Expr: "b"}).
		Add(tree.Delete)

	if got, want := tr.Clauses(), []tree.Clause{tree.Select, tree.From, tree.Delete}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Clauses() = %#v, want %#v", got, want)
	}
	nodes, ok := tr.Get(tree.Select)
	if !ok {
		t.Fatalf("Get(SELECT) ok = false, want true")
	}
	if want := []tree.Node{tree.ColumnRef{Expr: "a"}, tree.ColumnRef{Expr: "b"}}; !reflect.DeepEqual(nodes, want) {
		t.Fatalf("Get(SELECT) = %#v, want %#v", nodes, want)
	}
	if !tr.Has(tree.Delete) {
		t.Fatalf("Has(DELETE) = false, want true")
	}
	if tr.Has(tree.Where) {
		t.Fatalf("Has(WHERE) = true, want false")
	}
}

func TestTree_Empty(t *testing.T) {
	t.Parallel()

	var nilTree *tree.Tree
	if !nilTree.Empty() {
		t.Fatalf("nil tree Empty() = false, want true")
	}
	if _, ok := nilTree.Get(tree.Select); ok {
		t.Fatalf("nil tree Get ok = true, want false")
	}
	if !tree.New().Empty() {
		t.Fatalf("New().Empty() = false, want true")
	}
	if tree.New().Add(tree.Delete).Empty() {
		t.Fatalf("tree with a clause Empty() = true, want false")
	}
}

func TestTree_Clone(t *testing.T) {
	t.Parallel()

	inner := tree.New().Add(tree.From, tree.Table{Name: "a"})
	orig := tree.New().Add(tree.Where, tree.Subquery{Tree: inner})
	cp := orig.Clone()

	inner.Add(tree.From, tree.Table{Name: "b"})

	nodes, _ := cp.Get(tree.Where)
	got := nodes[0].(tree.Subquery).Tree
	if want := tree.New().Add(tree.From, tree.Table{Name: "a"}); !reflect.DeepEqual(got, want) {
		t.Fatalf("Clone() nested tree = %#v, want %#v", got, want)
	}
}

func TestKind(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		node tree.Node
		want tree.Kind
	}{
		{node: tree.Table{Name: "t"}, want: tree.KindTable},
		{node: tree.ColumnRef{Expr: "c"}, want: tree.KindColumnRef},
		{node: tree.Subquery{}, want: tree.KindSubquery},
		{node: tree.Other{Type: "const", Expr: "1"}, want: tree.KindOther},
	}
	for _, tc := range tcs {
		if got := tc.node.Kind(); got != tc.want {
			t.Fatalf("%#v.Kind() = %v, want %v", tc.node, got, tc.want)
		}
	}
}
