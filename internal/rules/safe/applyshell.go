package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ApplyShell matches `function outer(p){ return (function inner(){…})
// .apply(this, arguments); }` - a shell that forwards its entire
// invocation, including `this` and arguments, to an inner function
// expression - and collapses outer down to inner's body, keeping
// outer's name (so existing call sites still resolve) and inner's own
// parameter list when inner declares one, falling back to outer's.
type ApplyShell struct{}

func (ApplyShell) Name() string { return "apply-shell" }

func (ApplyShell) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindFunctionDeclaration) {
		if _, ok := applyShellInner(n.(*ast.FunctionDeclaration)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ApplyShell) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	outer := n.(*ast.FunctionDeclaration)
	inner, ok := applyShellInner(outer)
	if !ok {
		return nil
	}
	params := inner.Params
	if len(params) == 0 {
		params = outer.Params
	}
	arb.MarkNode(n, &ast.FunctionDeclaration{
		Id:        outer.Id,
		Params:    cloneParams(params),
		Body:      ast.Clone(inner.Body).(*ast.BlockStatement),
		Async:     inner.Async,
		Generator: inner.Generator,
	})
	return nil
}

func applyShellInner(outer *ast.FunctionDeclaration) (*ast.FunctionExpression, bool) {
	stmt, ok := rules.SingleStatement(outer.Body)
	if !ok {
		return nil, false
	}
	ret, ok := stmt.(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	call, ok := ret.Argument.(*ast.CallExpression)
	if !ok || len(call.Arguments) != 2 {
		return nil, false
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil, false
	}
	name, ok := member.PropertyName()
	if !ok || name != "apply" {
		return nil, false
	}
	inner, ok := member.Object.(*ast.FunctionExpression)
	if !ok {
		return nil, false
	}
	if _, ok := call.Arguments[0].(*ast.ThisExpression); !ok {
		return nil, false
	}
	argsID, ok := call.Arguments[1].(*ast.Identifier)
	if !ok || argsID.Name != "arguments" {
		return nil, false
	}
	return inner, true
}

func cloneParams(params []ast.Expression) []ast.Expression {
	out := make([]ast.Expression, len(params))
	for i, p := range params {
		out[i] = ast.Clone(p).(ast.Expression)
	}
	return out
}
