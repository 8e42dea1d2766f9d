package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// EvalLiteral resolves `eval("literal")` by parsing the literal and
// splicing the result in, exactly like NewFunction. It also special-
// cases `eval("Expr")(args)`, where eval is itself used as a callee:
// that form becomes `Expr(args)` instead of invoking the parsed result
// a second time.
type EvalLiteral struct{}

func (EvalLiteral) Name() string { return "eval-literal" }

func (EvalLiteral) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		if inner, ok := call.Callee.(*ast.CallExpression); ok {
			if _, ok := evalCallLiteral(inner); ok {
				out = append(out, n)
				continue
			}
		}
		if _, ok := evalCallLiteral(call); ok {
			if outerCall, ok := call.Parent().(*ast.CallExpression); ok && outerCall.Callee == ast.Expression(call) {
				continue // handled as the outer call above
			}
			out = append(out, n)
		}
	}
	return out
}

func (EvalLiteral) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	if inner, ok := call.Callee.(*ast.CallExpression); ok {
		if lit, ok := evalCallLiteral(inner); ok {
			expr, ok := parseSingleExpression(lit.Str)
			if !ok {
				return nil
			}
			arb.MarkNode(n, &ast.CallExpression{Callee: expr, Arguments: call.Arguments, Optional: call.Optional})
			return nil
		}
	}
	lit, ok := evalCallLiteral(call)
	if !ok {
		return nil
	}
	fragment, err := jsparse.Parse(lit.Str)
	if err != nil {
		return nil
	}
	if len(fragment.Root.Body) == 1 {
		if es, ok := fragment.Root.Body[0].(*ast.ExpressionStatement); ok {
			arb.MarkNode(n, es.Expression)
			return nil
		}
	}
	if parentStmt, ok := n.Parent().(*ast.ExpressionStatement); ok {
		arb.MarkNode(parentStmt, &ast.BlockStatement{Body: fragment.Root.Body})
	}
	return nil
}

func evalCallLiteral(call *ast.CallExpression) (*ast.Literal, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.Name != "eval" || id.DeclNode != nil {
		return nil, false
	}
	if len(call.Arguments) != 1 {
		return nil, false
	}
	lit, ok := call.Arguments[0].(*ast.Literal)
	if !ok || lit.LitKind != ast.LitString {
		return nil, false
	}
	return lit, true
}

func parseSingleExpression(src string) (ast.Expression, bool) {
	fragment, err := jsparse.Parse(src)
	if err != nil || len(fragment.Root.Body) != 1 {
		return nil, false
	}
	es, ok := fragment.Root.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	return es.Expression, true
}
