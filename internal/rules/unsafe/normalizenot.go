package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// NormalizeNot resolves `!expr` through the sandbox against its
// declaration context and replaces it with the resulting boolean
// literal, when expr is not already a plain Literal (the literal case
// is plain truth-table folding and belongs to safe.DeterministicIf's
// reasoning, not the evaluator). For chained negation, `!!expr`, the
// outer negation is resolved directly, since its argument is not a
// Literal; a `!` applied to a plain Literal is never matched.
type NormalizeNot struct{}

func (NormalizeNot) Name() string { return "normalize-not" }

func (NormalizeNot) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindUnaryExpression) {
		u := n.(*ast.UnaryExpression)
		if u.Operator != "!" {
			continue
		}
		if _, ok := u.Argument.(*ast.Literal); ok {
			continue
		}
		if _, ok := evalInContext(n, u.Argument); ok {
			out = append(out, n)
		}
	}
	return out
}

func (NormalizeNot) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	u := n.(*ast.UnaryExpression)
	if u.Operator != "!" {
		return nil
	}
	v, ok := evalInContext(n, u.Argument)
	if !ok {
		return nil
	}
	arb.MarkNode(n, ast.BoolLiteral(!v.Truthy()))
	return nil
}
