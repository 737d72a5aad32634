// Package sqlparse turns statements parsed by github.com/xwb1989/sqlparser into
// clause trees.
package sqlparse

import (
	"fmt"

	"github.com/xwb1989/sqlparser"

	"github.com/mickamy/sqltrail/tree"
)

// Parse parses stmt with the MySQL grammar of sqlparser and converts the result.
// Postgres $n placeholders are accepted and read as ?.
func Parse(stmt string) (*tree.Tree, error) {
	s, err := sqlparser.Parse(NormalizePlaceholders(stmt))
	if err != nil {
		return nil, fmt.Errorf("sqlparse: %w", err)
	}
	return Convert(s), nil
}

// Convert builds a tree from a parsed statement. Statements without a data
// manipulation shape (DDL, SET, SHOW, ...) yield an empty tree.
func Convert(stmt sqlparser.Statement) *tree.Tree {
	switch s := stmt.(type) {
	case sqlparser.SelectStatement:
		return selectStatement(s)
	case *sqlparser.Insert:
		return insertTree(s)
	case *sqlparser.Update:
		return updateTree(s)
	case *sqlparser.Delete:
		return deleteTree(s)
	default:
		return tree.New()
	}
}

func selectStatement(s sqlparser.SelectStatement) *tree.Tree {
	switch s := s.(type) {
	case *sqlparser.Select:
		return selectTree(s)
	case *sqlparser.ParenSelect:
		return selectStatement(s.Select)
	case *sqlparser.Union:
		t := tree.New().Add(tree.Union,
			tree.Subquery{Tree: selectStatement(s.Left), Expr: sqlparser.String(s.Left)},
			tree.Subquery{Tree: selectStatement(s.Right), Expr: sqlparser.String(s.Right)},
		)
		addOrderBy(t, s.OrderBy)
		return t
	default:
		return tree.New()
	}
}

func selectTree(s *sqlparser.Select) *tree.Tree {
	t := tree.New().Add(tree.Select)
	for _, e := range s.SelectExprs {
		t.Add(tree.Select, selectExpr(e)...)
	}
	if len(s.From) > 0 {
		t.Add(tree.From, tableExprs(s.From)...)
	}
	addWhere(t, tree.Where, s.Where)
	if len(s.GroupBy) > 0 {
		t.Add(tree.GroupBy)
		for _, e := range s.GroupBy {
			t.Add(tree.GroupBy, expr(e)...)
		}
	}
	addWhere(t, tree.Having, s.Having)
	addOrderBy(t, s.OrderBy)
	return t
}

func insertTree(s *sqlparser.Insert) *tree.Tree {
	t := tree.New().Add(tree.Insert, tableName(s.Table, sqlparser.TableIdent{}))
	for _, c := range s.Columns {
		t.Add(tree.Insert, tree.ColumnRef{Expr: c.String()})
	}
	switch rows := s.Rows.(type) {
	case sqlparser.Values:
		t.Add(tree.Values)
		for _, tuple := range rows {
			t.Add(tree.Values, expr(tuple)...)
		}
	case sqlparser.SelectStatement:
		t.Add(tree.Values, tree.Subquery{Tree: selectStatement(rows), Expr: sqlparser.String(rows)})
	}
	if len(s.OnDup) > 0 {
		t.Add(tree.OnDuplicate, updateExprs(sqlparser.UpdateExprs(s.OnDup))...)
	}
	return t
}

func updateTree(s *sqlparser.Update) *tree.Tree {
	t := tree.New().Add(tree.Update, tableExprs(s.TableExprs)...)
	t.Add(tree.Set, updateExprs(s.Exprs)...)
	addWhere(t, tree.Where, s.Where)
	addOrderBy(t, s.OrderBy)
	return t
}

func deleteTree(s *sqlparser.Delete) *tree.Tree {
	t := tree.New().Add(tree.Delete)
	for _, target := range s.Targets {
		t.Add(tree.Delete, tableName(target, sqlparser.TableIdent{}))
	}
	t.Add(tree.From, tableExprs(s.TableExprs)...)
	addWhere(t, tree.Where, s.Where)
	addOrderBy(t, s.OrderBy)
	return t
}

func addWhere(t *tree.Tree, c tree.Clause, w *sqlparser.Where) {
	if w == nil || w.Expr == nil {
		return
	}
	t.Add(c, expr(w.Expr)...)
}

func addOrderBy(t *tree.Tree, ob sqlparser.OrderBy) {
	if len(ob) == 0 {
		return
	}
	t.Add(tree.OrderBy)
	for _, o := range ob {
		t.Add(tree.OrderBy, expr(o.Expr)...)
	}
}

func selectExpr(e sqlparser.SelectExpr) []tree.Node {
	switch e := e.(type) {
	case *sqlparser.AliasedExpr:
		nodes := expr(e.Expr)
		if !e.As.IsEmpty() {
			if sq, ok := nodes[0].(tree.Subquery); ok {
				sq.Alias = e.As.String()
				nodes[0] = sq
			}
		}
		return nodes
	case *sqlparser.StarExpr:
		return []tree.Node{tree.ColumnRef{Expr: sqlparser.String(e)}}
	default:
		return []tree.Node{tree.Other{Type: "expression", Expr: sqlparser.String(e)}}
	}
}

func tableExprs(exprs sqlparser.TableExprs) []tree.Node {
	var nodes []tree.Node
	for _, te := range exprs {
		nodes = append(nodes, tableExpr(te)...)
	}
	return nodes
}

func tableExpr(te sqlparser.TableExpr) []tree.Node {
	switch te := te.(type) {
	case *sqlparser.AliasedTableExpr:
		switch e := te.Expr.(type) {
		case sqlparser.TableName:
			return []tree.Node{tableName(e, te.As)}
		case *sqlparser.Subquery:
			return []tree.Node{tree.Subquery{
				Tree:  selectStatement(e.Select),
				Alias: te.As.String(),
				Expr:  sqlparser.String(e),
			}}
		}
		return []tree.Node{tree.Other{Type: "table", Expr: sqlparser.String(te)}}
	case *sqlparser.ParenTableExpr:
		return tableExprs(te.Exprs)
	case *sqlparser.JoinTableExpr:
		nodes := tableExpr(te.LeftExpr)
		nodes = append(nodes, tree.Other{Type: "join", Expr: te.Join})
		nodes = append(nodes, tableExpr(te.RightExpr)...)
		if te.Condition.On != nil {
			nodes = append(nodes, expr(te.Condition.On)...)
		}
		return nodes
	default:
		return []tree.Node{tree.Other{Type: "table", Expr: sqlparser.String(te)}}
	}
}

func tableName(n sqlparser.TableName, as sqlparser.TableIdent) tree.Table {
	name := n.Name.String()
	if !n.Qualifier.IsEmpty() {
		name = n.Qualifier.String() + "." + name
	}
	return tree.Table{Name: name, Alias: as.String()}
}

func updateExprs(exprs sqlparser.UpdateExprs) []tree.Node {
	var nodes []tree.Node
	for _, ue := range exprs {
		nodes = append(nodes, tree.ColumnRef{Expr: sqlparser.String(ue.Name)})
		nodes = append(nodes, expr(ue.Expr)...)
	}
	return nodes
}

// expr converts e into a node, followed by one Subquery node for every subquery
// found inside e. A bare subquery converts to that Subquery node alone.
func expr(e sqlparser.Expr) []tree.Node {
	switch e := e.(type) {
	case *sqlparser.Subquery:
		return []tree.Node{tree.Subquery{Tree: selectStatement(e.Select), Expr: sqlparser.String(e)}}
	case *sqlparser.ColName:
		return []tree.Node{tree.ColumnRef{Expr: sqlparser.String(e)}}
	}

	nodes := []tree.Node{tree.Other{Type: "expression", Expr: sqlparser.String(e)}}
	// The visitor never returns an error, so neither does Walk.
	_ = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		sq, ok := node.(*sqlparser.Subquery)
		if !ok {
			return true, nil
		}
		nodes = append(nodes, tree.Subquery{Tree: selectStatement(sq.Select), Expr: sqlparser.String(sq)})
		return false, nil
	}, e)
	return nodes
}
