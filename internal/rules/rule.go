// Package rules defines the uniform shape every rewrite rule
// implements (§4.E), grounded on the teacher's OptimizationPass
// (Name/Apply/ShouldApply) renamed to the spec's match/transform
// vocabulary. Concrete rules live in rules/safe and rules/unsafe;
// rules/guards.go holds the shared skip/deny-list predicates both
// sub-registries draw on.
package rules

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
)

// Filter narrows which candidates Match considers on a given pass; the
// zero value matches everything. The driver always passes the zero
// value, and no rule reads OnlyRange.
type Filter struct {
	// OnlyRange, when non-nil, restricts candidates to those whose
	// Range lies within it.
	OnlyRange *ast.Node
}

// Rule is the uniform interface every safe or unsafe rewrite
// implements.
type Rule interface {
	// Name identifies the rule for logging and the CLI's -v output.
	Name() string
	// Match returns candidate nodes, in source order, without staging
	// any edit.
	Match(tree *ast.Tree, filter Filter) []ast.Node
	// Transform stages exactly one rewrite for n on arb. A non-nil
	// error makes the driver skip this candidate without committing
	// and go on with the next one.
	Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error
}
