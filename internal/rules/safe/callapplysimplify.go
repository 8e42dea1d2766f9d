package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// CallApplySimplify rewrites `f.call(this, a, b)` and
// `f.apply(this, [a, b])` into the direct call `f(a, b)`, when the
// thisArg is exactly the surrounding `this` (so the rewrite doesn't
// change what `this` is bound to inside f). It skips the case where f
// is the `Function` identifier or a FunctionExpression, since indirect
// calls through those are frequently deliberate sandboxing/binding
// tricks rather than an obfuscator's proxy wrapper.
type CallApplySimplify struct{}

func (CallApplySimplify) Name() string { return "call-apply-simplify" }

func (CallApplySimplify) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := callApplyRewrite(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (CallApplySimplify) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	repl, ok := callApplyRewrite(n.(*ast.CallExpression))
	if !ok {
		return nil
	}
	arb.MarkNode(n, repl)
	return nil
}

func callApplyRewrite(call *ast.CallExpression) (*ast.CallExpression, bool) {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || member.Computed {
		return nil, false
	}
	name, ok := member.PropertyName()
	if !ok {
		return nil, false
	}
	if callApplyTargetExcluded(member.Object) {
		return nil, false
	}
	switch name {
	case "call":
		if len(call.Arguments) == 0 {
			return nil, false
		}
		if _, ok := call.Arguments[0].(*ast.ThisExpression); !ok {
			return nil, false
		}
		return &ast.CallExpression{Callee: member.Object, Arguments: call.Arguments[1:]}, true
	case "apply":
		if len(call.Arguments) != 2 {
			return nil, false
		}
		if _, ok := call.Arguments[0].(*ast.ThisExpression); !ok {
			return nil, false
		}
		args, ok := call.Arguments[1].(*ast.ArrayExpression)
		if !ok {
			return nil, false
		}
		return &ast.CallExpression{Callee: member.Object, Arguments: args.Elements}, true
	}
	return nil, false
}

func callApplyTargetExcluded(obj ast.Expression) bool {
	switch v := obj.(type) {
	case *ast.Identifier:
		return v.Name == "Function"
	case *ast.FunctionExpression:
		return true
	}
	return false
}
