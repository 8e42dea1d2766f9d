package ast

// Tree owns one parsed (and possibly since-rewritten) program together
// with its indices. It is the `ast` argument threaded through every
// rule's match/transform pair and the sole object the Arborist mutates.
type Tree struct {
	Root    *Program
	Source  string
	TypeMap map[Kind][]Node

	nextID NodeID
}

// NewTree builds a Tree from a freshly parsed Program and runs the
// initial indexing pass (§4.A requires all metadata populated on
// construction).
func NewTree(root *Program, source string) *Tree {
	t := &Tree{Root: root, Source: source}
	t.Reindex()
	return t
}

// Nodes returns every node of the given Kind, in source order. Rules
// iterate this instead of walking the whole tree.
func (t *Tree) Nodes(k Kind) []Node {
	return t.TypeMap[k]
}

// AllocID mints a fresh NodeID following the highest one the last
// Reindex assigned. Reindex numbers nodes itself and does not call it.
func (t *Tree) AllocID() NodeID {
	t.nextID++
	return t.nextID
}

// Reindex rebuilds the type-index, scope tree, and identifier reference
// graph from the current Root. Called once at construction and again
// by the Arborist after every commit; rule code never calls it
// directly. See internal/ast/index.go for the implementation.
func (t *Tree) Reindex() {
	reindex(t)
}
