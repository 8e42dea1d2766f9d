package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// NewFunction resolves `new Function("…")()` - a literal string body,
// constructed then immediately invoked - by parsing the literal and
// splicing the result in: a single parsed expression statement replaces
// the call directly, anything else (multiple statements) replaces the
// enclosing ExpressionStatement with the parsed statements as a block.
type NewFunction struct{}

func (NewFunction) Name() string { return "new-function" }

func (NewFunction) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := newFunctionLiteral(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (NewFunction) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	lit, ok := newFunctionLiteral(call)
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

func newFunctionLiteral(call *ast.CallExpression) (*ast.Literal, bool) {
	if len(call.Arguments) != 0 {
		return nil, false
	}
	ne, ok := call.Callee.(*ast.NewExpression)
	if !ok || len(ne.Arguments) != 1 {
		return nil, false
	}
	id, ok := ne.Callee.(*ast.Identifier)
	if !ok || id.Name != "Function" || id.DeclNode != nil {
		return nil, false
	}
	lit, ok := ne.Arguments[0].(*ast.Literal)
	if !ok || lit.LitKind != ast.LitString {
		return nil, false
	}
	return lit, true
}
