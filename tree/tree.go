// Package tree models a parsed SQL statement as an ordered set of clauses, each
// holding a list of typed expression nodes.
package tree

// Clause names a section of a statement.
type Clause string

const (
	Select      Clause = "SELECT"
	From        Clause = "FROM"
	Where       Clause = "WHERE"
	Insert      Clause = "INSERT"
	Update      Clause = "UPDATE"
	Delete      Clause = "DELETE"
	Set         Clause = "SET"
	Values      Clause = "VALUES"
	GroupBy     Clause = "GROUP BY"
	Having      Clause = "HAVING"
	OrderBy     Clause = "ORDER BY"
	OnDuplicate Clause = "ON DUPLICATE KEY UPDATE"
	Union       Clause = "UNION"
)

// Section is one clause and its expression nodes.
type Section struct {
	Clause Clause
	Nodes  []Node
}

// Tree is a parsed statement. Sections keep the order in which they were added and
// a clause appears at most once.
type Tree struct {
	Sections []Section
}

func New() *Tree {
	return &Tree{}
}

// Add appends nodes to the section for c, creating the section when missing.
// Calling Add without nodes still marks the clause as present.
func (t *Tree) Add(c Clause, nodes ...Node) *Tree {
	for i := range t.Sections {
		if t.Sections[i].Clause == c {
			t.Sections[i].Nodes = append(t.Sections[i].Nodes, nodes...)
			return t
		}
	}
	t.Sections = append(t.Sections, Section{Clause: c, Nodes: append([]Node(nil), nodes...)})
	return t
}

// Get returns the nodes of clause c and whether the clause is present.
func (t *Tree) Get(c Clause) ([]Node, bool) {
	if t == nil {
		return nil, false
	}
	for _, s := range t.Sections {
		if s.Clause == c {
			return s.Nodes, true
		}
	}
	return nil, false
}

func (t *Tree) Has(c Clause) bool {
	_, ok := t.Get(c)
	return ok
}

func (t *Tree) Clauses() []Clause {
	if t == nil {
		return nil
	}
	out := make([]Clause, len(t.Sections))
	for i, s := range t.Sections {
		out[i] = s.Clause
	}
	return out
}

// Empty reports whether the tree has no clauses. A nil tree is empty.
func (t *Tree) Empty() bool {
	return t == nil || len(t.Sections) == 0
}

// Clone returns a deep copy of t, including nested subquery trees.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{}
	if t.Sections != nil {
		out.Sections = make([]Section, len(t.Sections))
	}
	for i, s := range t.Sections {
		var nodes []Node
		if s.Nodes != nil {
			nodes = make([]Node, len(s.Nodes))
		}
		for j, n := range s.Nodes {
			if sq, ok := n.(Subquery); ok {
				sq.Tree = sq.Tree.Clone()
				n = sq
			}
			nodes[j] = n
		}
		out.Sections[i] = Section{Clause: s.Clause, Nodes: nodes}
	}
	return out
}
