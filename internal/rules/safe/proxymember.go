package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ProxyMember resolves a method defined purely as a forwarding shell -
// `{ name(...args) { return other(...args); } }`-shaped function
// expressions assigned as an object property - by rewriting every call
// through the property to call other directly. Structural only: it
// never inspects what other resolves to at runtime.
type ProxyMember struct{}

func (ProxyMember) Name() string { return "proxy-member" }

func (ProxyMember) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindMemberExpression) {
		m := n.(*ast.MemberExpression)
		call, ok := m.Parent().(*ast.CallExpression)
		if !ok || call.Callee != ast.Expression(m) {
			continue
		}
		if _, ok := forwardingTarget(m); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ProxyMember) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	m := n.(*ast.MemberExpression)
	target, ok := forwardingTarget(m)
	if !ok {
		return nil
	}
	arb.MarkNode(m, ast.Clone(target))
	return nil
}

// forwardingTarget looks through member.Object's declaration for a
// direct object-literal property whose value is a pure forwarding
// function, returning the Callee it forwards to.
func forwardingTarget(m *ast.MemberExpression) (ast.Expression, bool) {
	name, ok := m.PropertyName()
	if !ok {
		return nil, false
	}
	objId, ok := m.Object.(*ast.Identifier)
	if !ok || objId.DeclNode == nil {
		return nil, false
	}
	declarator, ok := objId.DeclNode.Parent().(*ast.VariableDeclarator)
	if !ok {
		return nil, false
	}
	obj, ok := declarator.Init.(*ast.ObjectExpression)
	if !ok {
		return nil, false
	}
	for _, p := range obj.Properties {
		key, ok := p.Key.(*ast.Identifier)
		if !ok || key.Name != name {
			continue
		}
		fn, ok := p.Value.(*ast.FunctionExpression)
		if !ok {
			return nil, false
		}
		return forwardingCallee(fn)
	}
	return nil, false
}

func forwardingCallee(fn *ast.FunctionExpression) (ast.Expression, bool) {
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
		argId, ok := arg.(*ast.Identifier)
		paramId, ok2 := fn.Params[i].(*ast.Identifier)
		if !ok || !ok2 || argId.Name != paramId.Name {
			return nil, false
		}
	}
	return call.Callee, true
}
