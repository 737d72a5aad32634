package tree

// Kind tags the variant of a Node.
type Kind int

const (
	KindOther Kind = iota
	KindTable
	KindColumnRef
	KindSubquery
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "table"
	case KindColumnRef:
		return "colref"
	case KindSubquery:
		return "subquery"
	default:
		return "other"
	}
}

// Node is a single expression within a clause. The set of implementations is closed:
// Table, ColumnRef, Subquery and Other.
type Node interface {
	Kind() Kind
	node()
}

// Table references a table by name, exactly as written in the statement.
type Table struct {
	Name  string
	Alias string
}

// ColumnRef references a column.
type ColumnRef struct {
	Expr string
}

// Subquery embeds a nested statement. A nil or empty Tree marks a subquery whose
// content has been extracted by Flatten.
type Subquery struct {
	Tree  *Tree
	Alias string
	Expr  string
}

// Other is any expression the interpreter does not look into.
type Other struct {
	Type string
	Expr string
}

func (Table) Kind() Kind     { return KindTable }
func (ColumnRef) Kind() Kind { return KindColumnRef }
func (Subquery) Kind() Kind  { return KindSubquery }
func (Other) Kind() Kind     { return KindOther }

func (Table) node()     {}
func (ColumnRef) node() {}
func (Subquery) node()  {}
func (Other) node()     {}

// Cleared returns the subquery with its nested tree removed.
func (s Subquery) Cleared() Subquery {
	s.Tree = nil
	return s
}
