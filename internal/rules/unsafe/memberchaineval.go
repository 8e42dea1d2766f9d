package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// MemberChainEval resolves a multi-level member chain,
// `a.b.c[0].d`, that memberAccessEval's single-level rule can't reach
// because an intermediate link isn't itself a context-resolvable
// name (it only exists as part of the chain). It walks the whole
// chain through the sandbox in one shot and rejects the result
// whenever it's empty/null/undefined - a resolved-but-vacuous member
// chain is far more often a sign the sandbox's model diverged from
// the real object shape than a genuine `undefined` in the source.
type MemberChainEval struct{}

func (MemberChainEval) Name() string { return "member-chain-eval" }

func (MemberChainEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindMemberExpression) {
		m := n.(*ast.MemberExpression)
		if !isChainHead(m) || memberAccessSkip(m) {
			continue
		}
		if _, ok := resolveMemberChain(n, m); ok {
			out = append(out, n)
		}
	}
	return out
}

func (MemberChainEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	m := n.(*ast.MemberExpression)
	if !isChainHead(m) || memberAccessSkip(m) {
		return nil
	}
	v, ok := resolveMemberChain(n, m)
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

// isChainHead reports whether m is the outermost link of a member
// chain at least two levels deep - its Object is itself a
// MemberExpression, and its own parent isn't.
func isChainHead(m *ast.MemberExpression) bool {
	if _, ok := m.Object.(*ast.MemberExpression); !ok {
		return false
	}
	_, parentIsMember := m.Parent().(*ast.MemberExpression)
	return !parentIsMember
}

func resolveMemberChain(anchor ast.Node, m *ast.MemberExpression) (sandbox.Value, bool) {
	v, ok := evalInContext(anchor, m)
	if !ok {
		return sandbox.BadValue, false
	}
	if v.Kind == sandbox.KindUndefined || v.Kind == sandbox.KindNull {
		return sandbox.BadValue, false
	}
	if v.Kind == sandbox.KindString && v.Str == "" {
		return sandbox.BadValue, false
	}
	return v, true
}
