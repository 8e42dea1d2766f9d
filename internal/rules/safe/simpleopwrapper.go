package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// SimpleOpWrapper matches a function whose entire body is `return a <op>
// b;` (binary) or `return <op>a;` (unary) over its own parameters, in
// order, and rewrites every call to it into the bare operator
// expression over the call's arguments.
type SimpleOpWrapper struct{}

func (SimpleOpWrapper) Name() string { return "simple-op-wrapper" }

func (SimpleOpWrapper) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := simpleOpReplacement(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (SimpleOpWrapper) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	repl, ok := simpleOpReplacement(call)
	if !ok {
		return nil
	}
	arb.MarkNode(n, repl)
	return nil
}

func simpleOpReplacement(call *ast.CallExpression) (ast.Expression, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	fn, ok := id.DeclNode.Parent().(*ast.FunctionDeclaration)
	if !ok || len(fn.Params) != len(call.Arguments) {
		return nil, false
	}
	stmt, ok := rules.SingleStatement(fn.Body)
	if !ok {
		return nil, false
	}
	ret, ok := stmt.(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	paramArg := func(p ast.Expression) (int, bool) {
		pid, ok := p.(*ast.Identifier)
		if !ok {
			return 0, false
		}
		for i, fp := range fn.Params {
			if fpID, ok := fp.(*ast.Identifier); ok && fpID.Name == pid.Name {
				return i, true
			}
		}
		return 0, false
	}
	switch op := ret.Argument.(type) {
	case *ast.BinaryExpression:
		if len(fn.Params) != 2 {
			return nil, false
		}
		li, lok := paramArg(op.Left)
		ri, rok := paramArg(op.Right)
		if !lok || !rok || li == ri {
			return nil, false
		}
		return &ast.BinaryExpression{Operator: op.Operator, Left: ast.Clone(call.Arguments[li]).(ast.Expression), Right: ast.Clone(call.Arguments[ri]).(ast.Expression)}, true
	case *ast.UnaryExpression:
		if len(fn.Params) != 1 {
			return nil, false
		}
		ai, aok := paramArg(op.Argument)
		if !aok {
			return nil, false
		}
		return &ast.UnaryExpression{Operator: op.Operator, Prefix: op.Prefix, Argument: ast.Clone(call.Arguments[ai]).(ast.Expression)}, true
	}
	return nil, false
}
