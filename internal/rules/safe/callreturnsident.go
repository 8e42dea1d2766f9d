package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// CallReturnsIdent matches `f()(args)` where f's declaration returns a
// bare identifier `g` (either `function f(){ return g; }` or `const f =
// () => g`) and rewrites the outer call to `g(args)`.
type CallReturnsIdent struct{}

func (CallReturnsIdent) Name() string { return "call-returns-ident" }

func (CallReturnsIdent) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := callReturnsIdentTarget(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (CallReturnsIdent) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	target, ok := callReturnsIdentTarget(call)
	if !ok {
		return nil
	}
	arb.MarkNode(call.Callee, ast.Clone(target))
	return nil
}

// callReturnsIdentTarget recognizes the outer call `f()(args)`: callee
// is itself a zero-argument CallExpression whose own callee resolves to
// a declaration returning a bare identifier.
func callReturnsIdentTarget(outer *ast.CallExpression) (*ast.Identifier, bool) {
	inner, ok := outer.Callee.(*ast.CallExpression)
	if !ok || len(inner.Arguments) != 0 {
		return nil, false
	}
	id, ok := inner.Callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	switch decl := id.DeclNode.Parent().(type) {
	case *ast.FunctionDeclaration:
		if len(decl.Params) != 0 {
			return nil, false
		}
		if v, ok := shellReturnValue(decl.Body); ok {
			if g, ok := v.(*ast.Identifier); ok {
				return g, true
			}
		}
	case *ast.VariableDeclarator:
		arrow, ok := decl.Init.(*ast.ArrowFunctionExpression)
		if !ok || len(arrow.Params) != 0 {
			return nil, false
		}
		if arrow.ExpressionBody {
			if g, ok := arrow.Body.(*ast.Identifier); ok {
				return g, true
			}
			return nil, false
		}
		block, ok := arrow.Body.(*ast.BlockStatement)
		if !ok {
			return nil, false
		}
		if v, ok := shellReturnValue(block); ok {
			if g, ok := v.(*ast.Identifier); ok {
				return g, true
			}
		}
	}
	return nil, false
}
