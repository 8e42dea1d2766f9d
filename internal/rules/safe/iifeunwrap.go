package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// IIFEUnwrap matches `const v = (function(){ return X; })();` (function
// or arrow, zero arguments) and replaces the declarator's initializer
// with X directly.
//
// An IIFE whose body has more than the single return statement is not
// matched; its leading statements are not flattened into the enclosing
// block.
type IIFEUnwrap struct{}

func (IIFEUnwrap) Name() string { return "iife-unwrap" }

func (IIFEUnwrap) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindVariableDeclarator) {
		if _, ok := iifeUnwrapValue(n.(*ast.VariableDeclarator)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (IIFEUnwrap) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	vd := n.(*ast.VariableDeclarator)
	val, ok := iifeUnwrapValue(vd)
	if !ok {
		return nil
	}
	arb.MarkNode(vd.Init, ast.Clone(val))
	return nil
}

func iifeUnwrapValue(vd *ast.VariableDeclarator) (ast.Expression, bool) {
	call, ok := vd.Init.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 0 {
		return nil, false
	}
	switch fn := call.Callee.(type) {
	case *ast.FunctionExpression:
		if len(fn.Params) != 0 {
			return nil, false
		}
		return shellReturnBody(fn.Body)
	case *ast.ArrowFunctionExpression:
		if len(fn.Params) != 0 {
			return nil, false
		}
		if fn.ExpressionBody {
			return fn.Body.(ast.Expression), true
		}
		block, ok := fn.Body.(*ast.BlockStatement)
		if !ok {
			return nil, false
		}
		return shellReturnBody(block)
	}
	return nil, false
}

// shellReturnBody recognizes a block whose only statement is `return
// X;` for any expression X (not just Literal/Identifier).
func shellReturnBody(body *ast.BlockStatement) (ast.Expression, bool) {
	stmt, ok := rules.SingleStatement(body)
	if !ok {
		return nil, false
	}
	ret, ok := stmt.(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	return ret.Argument, true
}
