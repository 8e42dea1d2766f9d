package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// MemberAccessEval resolves `arr[0]` / `obj.prop` through the sandbox
// against its declaration context and replaces the access with the
// resolved value. It skips a member used as a call's callee (that's a
// method reference, not a value read - inlining it would drop the
// receiver `this` binding) and a member that is the target of an
// UpdateExpression (`obj.prop++`, an lvalue, not a read).
type MemberAccessEval struct{}

func (MemberAccessEval) Name() string { return "member-access-eval" }

func (MemberAccessEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindMemberExpression) {
		m := n.(*ast.MemberExpression)
		if memberAccessSkip(m) {
			continue
		}
		if _, ok := evalInContext(n, m); ok {
			out = append(out, n)
		}
	}
	return out
}

func (MemberAccessEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	m := n.(*ast.MemberExpression)
	if memberAccessSkip(m) {
		return nil
	}
	v, ok := evalInContext(n, m)
	if !ok {
		return nil
	}
	expr, ok := valueToExpression(v)
	if !ok {
		return nil
	}
	arb.MarkNode(n, expr)
	return nil
}

func memberAccessSkip(m *ast.MemberExpression) bool {
	switch p := m.Parent().(type) {
	case *ast.CallExpression:
		if p.Callee == ast.Expression(m) {
			return true
		}
	case *ast.UpdateExpression:
		if p.Argument == ast.Expression(m) {
			return true
		}
	case *ast.AssignmentExpression:
		if p.Left == ast.Expression(m) {
			return true
		}
	}
	return false
}
