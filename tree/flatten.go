package tree

// Flatten splits t into self-contained trees: t itself with every direct subquery
// cleared, followed by the flattened form of each of those subqueries in the order
// they appear. Nested subqueries are expanded depth-first. t is not modified.
func Flatten(t *Tree) []*Tree {
	if t == nil {
		t = New()
	}

	outer := &Tree{}
	if t.Sections != nil {
		outer.Sections = make([]Section, len(t.Sections))
	}
	var nested []*Tree
	for i, s := range t.Sections {
		var nodes []Node
		if s.Nodes != nil {
			nodes = make([]Node, len(s.Nodes))
		}
		for j, n := range s.Nodes {
			if sq, ok := n.(Subquery); ok && !sq.Tree.Empty() {
				nested = append(nested, sq.Tree)
				n = sq.Cleared()
			}
			nodes[j] = n
		}
		outer.Sections[i] = Section{Clause: s.Clause, Nodes: nodes}
	}

	out := []*Tree{outer}
	for _, sub := range nested {
		out = append(out, Flatten(sub)...)
	}
	return out
}
