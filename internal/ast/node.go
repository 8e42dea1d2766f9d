// Package ast defines the annotated AST model consumed by the
// deobfuscation engine: a closed set of JS node kinds plus the shared
// per-node metadata (range, parent links, scope, reference graph) the
// rest of the engine relies on. The package only ever reads or builds
// trees; all mutation is the Arborist's job (see internal/arborist).
//
// The type hierarchy follows the teacher's own ast.go: a narrow Node
// interface plus Statement/Expression/Declaration marker interfaces,
// with a visitor for generic traversal.
package ast

import (
	"fmt"

	"github.com/nocturnelabs/restringer/internal/position"
)

// NodeID is a dense integer unique within one Tree, minted by the
// Arborist on commit. Replacement nodes are fresh values until the next
// commit assigns them a real id.
type NodeID uint64

// ParentKey names the field of Parent that holds this node: either a
// bare struct field name ("Init", "Callee", ...) or, for array-valued
// fields, the field name plus the slice index.
type ParentKey struct {
	Field string
	Index int // -1 when Field is not array-valued
}

func (k ParentKey) String() string {
	if k.Index < 0 {
		return k.Field
	}
	return fmt.Sprintf("%s[%d]", k.Field, k.Index)
}

// Node is implemented by every AST node. Equality is identity (pointer
// equality on the concrete type), never structural, exactly as the
// spec requires.
type Node interface {
	Kind() Kind
	Range() position.Range
	Src() string
	NodeID() NodeID
	Parent() Node
	ParentKey() ParentKey
	Scope() *Scope
	Lineage() []Node
	String() string
	Accept(Visitor) interface{}

	setRange(position.Range)
	setSrc(string)
	setNodeID(NodeID)
	setParent(Node)
	setParentKey(ParentKey)
	setScope(*Scope)
	setLineage([]Node)
}

// Statement marks statement-position nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression marks expression-position nodes.
type Expression interface {
	Node
	expressionNode()
}

// Declaration marks top-level/declaration-position nodes (a subset of
// Statement that also binds a name).
type Declaration interface {
	Statement
	declarationNode()
}

// base carries the metadata shared by every node kind (§3): range into
// the original source, the verbatim source slice, parent/parentKey back
// links, the enclosing scope, and the lineage chain. Every concrete node
// type embeds base by value and is always handled through a pointer, so
// these pointer-receiver methods satisfy Node's metadata accessors.
type base struct {
	id        NodeID
	rng       position.Range
	src       string
	parent    Node
	parentKey ParentKey
	scope     *Scope
	lineage   []Node
}

func (b *base) Range() position.Range       { return b.rng }
func (b *base) Src() string                 { return b.src }
func (b *base) NodeID() NodeID              { return b.id }
func (b *base) Parent() Node                { return b.parent }
func (b *base) ParentKey() ParentKey        { return b.parentKey }
func (b *base) Scope() *Scope               { return b.scope }
func (b *base) Lineage() []Node             { return b.lineage }
func (b *base) setRange(r position.Range)   { b.rng = r }
func (b *base) setSrc(s string)             { b.src = s }
func (b *base) setNodeID(id NodeID)         { b.id = id }
func (b *base) setParent(p Node)            { b.parent = p }
func (b *base) setParentKey(k ParentKey)    { b.parentKey = k }
func (b *base) setScope(s *Scope)           { b.scope = s }
func (b *base) setLineage(l []Node)         { b.lineage = l }

// SetRange is exported for the parser adapter and the Arborist's
// re-indexing pass; ordinary rule code never calls it directly.
func SetRange(n Node, r position.Range) { n.setRange(r) }

// SetSrc is exported for the same reasons as SetRange.
func SetSrc(n Node, s string) { n.setSrc(s) }

// SetNodeID is exported for the Arborist's commit/re-index step.
func SetNodeID(n Node, id NodeID) { n.setNodeID(id) }

// SetParent is exported for the Arborist's commit/re-index step.
func SetParent(n Node, p Node) { n.setParent(p) }

// SetParentKey is exported for the Arborist's commit/re-index step.
func SetParentKey(n Node, k ParentKey) { n.setParentKey(k) }

// SetScope is exported for the Arborist's commit/re-index step.
func SetScope(n Node, s *Scope) { n.setScope(s) }

// SetLineage is exported for the Arborist's commit/re-index step.
func SetLineage(n Node, l []Node) { n.setLineage(l) }

// SameLineage reports whether a and b sit in the same chain of
// enclosing scopes - used by rules that must not hoist a replacement
// across a scope boundary (e.g. fixed-value-after-declare).
func SameLineage(a, b Node) bool {
	return a.Scope() != nil && a.Scope() == b.Scope()
}
