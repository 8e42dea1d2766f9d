package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ProxyCall matches `function outer(a,b){ return inner(a,b); }` - a
// function whose body is a single return forwarding all of its
// parameters, in order, to another callee - and replaces every
// reference to outer with inner.
type ProxyCall struct{}

func (ProxyCall) Name() string { return "proxy-call" }

func (ProxyCall) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindFunctionDeclaration) {
		if _, ok := proxyCallTarget(n.(*ast.FunctionDeclaration)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ProxyCall) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	fn := n.(*ast.FunctionDeclaration)
	target, ok := proxyCallTarget(fn)
	if !ok || fn.Id == nil {
		return nil
	}
	for _, ref := range fn.Id.References {
		arb.MarkNode(ref, ast.Clone(target))
	}
	arb.MarkNode(n, nil)
	return nil
}

func proxyCallTarget(fn *ast.FunctionDeclaration) (ast.Expression, bool) {
	stmt, ok := rules.SingleStatement(fn.Body)
	if !ok {
		return nil, false
	}
	ret, ok := stmt.(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	call, ok := ret.Argument.(*ast.CallExpression)
	if !ok || len(call.Arguments) != len(fn.Params) {
		return nil, false
	}
	for i, arg := range call.Arguments {
		argID, ok := arg.(*ast.Identifier)
		paramID, ok2 := fn.Params[i].(*ast.Identifier)
		if !ok || !ok2 || argID.Name != paramID.Name {
			return nil, false
		}
	}
	if calleeID, ok := call.Callee.(*ast.Identifier); ok && fn.Id != nil && calleeID.Name == fn.Id.Name {
		return nil, false
	}
	return call.Callee, true
}
