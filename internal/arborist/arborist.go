// Package arborist is the staging layer over an *ast.Tree: it records
// pending replace/delete edits against the tree the rule library
// produced by matching, and commits them in a single bottom-up pass,
// after which the tree's scope and reference indices are fully rebuilt.
// Rules never mutate ast.Node fields directly; every edit goes through
// MarkNode or MarkSpliceStatements.
package arborist

import (
	"fmt"

	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/errors"
)

// Arborist owns one Tree's pending edit buffer. It is created fresh for
// every candidate a rule transforms (see internal/driver) and discarded
// after Commit.
type Arborist struct {
	tree    *ast.Tree
	pending map[ast.Node]ast.Node      // target -> replacement; replacement == nil means delete
	multi   map[ast.Node][]ast.Statement // target -> zero-or-more statements replacing its one array slot
	order   []ast.Node                 // insertion order, for deterministic iteration only
}

// New returns an Arborist staging edits against tree.
func New(tree *ast.Tree) *Arborist {
	return &Arborist{tree: tree, pending: make(map[ast.Node]ast.Node), multi: make(map[ast.Node][]ast.Statement)}
}

// MarkNode stages structural replacement of target with replacement.
// replacement is a freshly constructed node value; its parent/scope/
// node-id metadata is filled in by Commit's re-index, not by the
// caller. Pass a nil replacement to stage a deletion. Marking the same
// target twice resolves to the last call, matching §4.B's conflict
// rule.
func (a *Arborist) MarkNode(target ast.Node, replacement ast.Node) {
	if _, seen := a.pending[target]; !seen {
		a.order = append(a.order, target)
	}
	a.pending[target] = replacement
}

// MarkReplace is an alias for MarkNode kept for call sites that read
// more naturally as "replace" than "mark".
func (a *Arborist) MarkReplace(target, replacement ast.Node) {
	a.MarkNode(target, replacement)
}

// MarkSpliceStatements stages target - a statement sitting in an
// array-valued field (Program.Body, BlockStatement.Body, or
// SwitchCase.Consequent) - for replacement by zero or more statements in
// its one slot. Used by rules that flatten one statement into several
// (redundant-block removal, sequence-expression splitting) or drop it
// entirely (an empty replacements slice behaves like MarkNode(target,
// nil) but without the splice/demote table, since the caller already
// knows the field is array-valued).
func (a *Arborist) MarkSpliceStatements(target ast.Node, replacements []ast.Statement) {
	if _, seen := a.multi[target]; !seen {
		a.order = append(a.order, target)
	}
	a.multi[target] = replacements
}

// Pending reports whether any edits are staged. The driver uses this to
// detect idempotence ("no edits staged" for a pass).
func (a *Arborist) Pending() bool {
	return len(a.pending) > 0 || len(a.multi) > 0
}

// Commit applies every staged edit in one batch, deepest targets first
// so a parent replacement staged in the same pass as one of its
// children's never clobbers the child write, then rebuilds the tree's
// type-index, scope tree and reference graph. The buffer is cleared on
// return, success or failure.
//
// An edit that cannot be applied makes Commit return that error at
// once: edits applied before it stay in the tree and the indices are
// not rebuilt. The driver then re-parses the source the pass started
// from.
func (a *Arborist) Commit() error {
	defer func() {
		a.pending = make(map[ast.Node]ast.Node)
		a.multi = make(map[ast.Node][]ast.Statement)
		a.order = nil
	}()
	if len(a.pending) == 0 && len(a.multi) == 0 {
		return nil
	}

	targets := make([]ast.Node, len(a.order))
	copy(targets, a.order)
	sortByDepthDesc(targets)

	// Every ancestor of an edited node no longer matches the source it
	// was parsed from, so its cached Src becomes stale text the printer
	// must not reuse; the node's own subtree below the edit is
	// untouched and stays diff-minimal. Cleared before any edit is
	// applied so Parent() still walks the pre-commit chain.
	for _, target := range targets {
		clearAncestorSrc(target)
	}

	for _, target := range targets {
		if replacements, ok := a.multi[target]; ok {
			if err := a.applyMulti(target, replacements); err != nil {
				return err
			}
			continue
		}
		replacement, ok := a.pending[target]
		if !ok {
			continue // superseded by a later edit to an ancestor already applied
		}
		if err := a.apply(target, replacement); err != nil {
			return err
		}
	}

	a.tree.Reindex()
	return nil
}

// applyMulti replaces target's one array slot with replacements, in
// place, via spliceMany.
func (a *Arborist) applyMulti(target ast.Node, replacements []ast.Statement) error {
	parent := target.Parent()
	if parent == nil {
		return errors.CommitInvariant("cannot splice-replace the Program root")
	}
	return spliceMany(parent, target.ParentKey(), replacements)
}

// apply performs one staged edit: replacement (non-nil) becomes the new
// value at target's parent/parentKey slot; nil demotes per the §4.B
// deletion rules in demote.go.
func (a *Arborist) apply(target ast.Node, replacement ast.Node) error {
	parent := target.Parent()
	if parent == nil {
		if replacement == nil {
			return errors.CommitInvariant("cannot delete the Program root")
		}
		if prog, ok := replacement.(*ast.Program); ok {
			*a.tree.Root = *prog
			return nil
		}
		return errors.CommitInvariant("root replacement must be a Program")
	}
	key := target.ParentKey()

	if replacement != nil {
		return setChild(parent, key, replacement)
	}
	return a.demote(parent, key)
}

// demote implements the deletion-demotion decision table.
func (a *Arborist) demote(parent ast.Node, key ast.ParentKey) error {
	switch DemotionFor(parent, key) {
	case ActionSplice:
		return spliceChild(parent, key)
	case ActionReplaceEmpty:
		return setChild(parent, key, &ast.EmptyStatement{})
	case ActionDeleteParent:
		grandparent := parent.Parent()
		if grandparent == nil {
			return errors.CommitInvariant("cannot cascade-delete the Program root")
		}
		return a.demoteOrDelete(parent, parent.ParentKey())
	default:
		return fmt.Errorf("arborist: unknown demotion action for %s.%s", parent.Kind(), key)
	}
}

// demoteOrDelete cascades a parent deletion through the same splice/
// replace/delete table the original deletion used.
func (a *Arborist) demoteOrDelete(node ast.Node, key ast.ParentKey) error {
	gp := node.Parent()
	if gp == nil {
		return errors.CommitInvariant("cannot cascade-delete the Program root")
	}
	switch DemotionFor(gp, key) {
	case ActionSplice:
		return spliceChild(gp, key)
	case ActionReplaceEmpty:
		return setChild(gp, key, &ast.EmptyStatement{})
	default:
		return a.demoteOrDelete(gp, gp.ParentKey())
	}
}

// clearAncestorSrc walks n up to the root, blanking each node's cached
// Src so the printer regenerates it from (possibly Src-reusing)
// children instead of the pre-edit text.
func clearAncestorSrc(n ast.Node) {
	for p := n; p != nil; p = p.Parent() {
		ast.SetSrc(p, "")
	}
}

func sortByDepthDesc(nodes []ast.Node) {
	depth := func(n ast.Node) int { return len(n.Lineage()) }
	for i := 1; i < len(nodes); i++ {
		for j := i; j > 0 && depth(nodes[j]) > depth(nodes[j-1]); j-- {
			nodes[j], nodes[j-1] = nodes[j-1], nodes[j]
		}
	}
}
