package query

import (
	"github.com/mickamy/sqltrail/tree"
)

// Operation is the CRUD category of a statement.
type Operation string

const (
	OperationNone   Operation = ""
	OperationInsert Operation = "insert"
	OperationSelect Operation = "select"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether o is one of the known operations, OperationNone included.
func (o Operation) Valid() bool {
	switch o {
	case OperationNone, OperationInsert, OperationSelect, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// operations is consulted in order; the first clause present decides.
var operations = []struct {
	clause tree.Clause
	op     Operation
}{
	{clause: tree.Insert, op: OperationInsert},
	{clause: tree.Select, op: OperationSelect},
	{clause: tree.Update, op: OperationUpdate},
	{clause: tree.Delete, op: OperationDelete},
}

// tableClauses lists operations whose tables live outside their own clause.
var tableClauses = []struct {
	op     Operation
	clause tree.Clause
}{
	{op: OperationSelect, clause: tree.From},
	{op: OperationDelete, clause: tree.From},
}

// Classify returns the operation of a single, non-nested tree. A tree holding clauses
// of several operations gets the first one in INSERT, SELECT, UPDATE, DELETE order.
func Classify(t *tree.Tree) Operation {
	for _, o := range operations {
		if t.Has(o.clause) {
			return o.op
		}
	}
	return OperationNone
}

// TableClause returns the clause holding the tables of op.
func TableClause(op Operation) (tree.Clause, bool) {
	for _, tc := range tableClauses {
		if tc.op == op {
			return tc.clause, true
		}
	}
	for _, o := range operations {
		if o.op == op {
			return o.clause, true
		}
	}
	return "", false
}

// Tables returns the table names referenced by op in t, in order and as written.
// The result is never nil.
func Tables(t *tree.Tree, op Operation) []string {
	tables := []string{}
	if op == OperationNone {
		return tables
	}
	clause, ok := TableClause(op)
	if !ok {
		return tables
	}
	nodes, ok := t.Get(clause)
	if !ok {
		return tables
	}
	for _, n := range nodes {
		if tbl, ok := n.(tree.Table); ok {
			tables = append(tables, tbl.Name)
		}
	}
	return tables
}
