package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ConditionalEval resolves a ternary's Test through the sandbox against
// its declaration context and replaces the whole expression with
// whichever branch that picks, mirroring safe.DeterministicIf but for
// tests that need context resolution rather than being a bare literal.
type ConditionalEval struct{}

func (ConditionalEval) Name() string { return "conditional-eval" }

func (ConditionalEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindConditionalExpression) {
		c := n.(*ast.ConditionalExpression)
		if _, ok := c.Test.(*ast.Literal); ok {
			continue
		}
		if _, ok := evalInContext(n, c.Test); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ConditionalEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	c := n.(*ast.ConditionalExpression)
	v, ok := evalInContext(n, c.Test)
	if !ok {
		return nil
	}
	if v.Truthy() {
		arb.MarkNode(n, c.Consequent)
	} else {
		arb.MarkNode(n, c.Alternate)
	}
	return nil
}
