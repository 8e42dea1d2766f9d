package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ShortCircuitStmt rewrites a statement-level short-circuit guard,
// `a && b();` or `a || b();`, into the if-statement it stands in for:
// `if (a) b();` / `if (!a) b();`.
type ShortCircuitStmt struct{}

func (ShortCircuitStmt) Name() string { return "short-circuit-stmt" }

func (ShortCircuitStmt) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindExpressionStatement) {
		es := n.(*ast.ExpressionStatement)
		if _, ok := es.Expression.(*ast.LogicalExpression); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ShortCircuitStmt) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	es := n.(*ast.ExpressionStatement)
	logical, ok := es.Expression.(*ast.LogicalExpression)
	if !ok {
		return nil
	}
	var test ast.Expression
	switch logical.Operator {
	case "&&":
		test = logical.Left
	case "||":
		test = &ast.UnaryExpression{Operator: "!", Prefix: true, Argument: logical.Left}
	default:
		return nil
	}
	arb.MarkNode(n, &ast.IfStatement{
		Test:       test,
		Consequent: &ast.ExpressionStatement{Expression: logical.Right},
	})
	return nil
}
