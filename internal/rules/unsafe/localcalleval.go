package unsafe

import (
	"context"
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	restringercontext "github.com/nocturnelabs/restringer/internal/context"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// localCallDeniedNames are callee identifiers local-call-eval must
// never resolve even if they happened to shadow a local declaration -
// reassigning their behavior through the sandbox would silently hide
// what is almost always host/runtime interaction.
var localCallDeniedNames = map[string]bool{
	"window": true, "this": true, "self": true, "document": true,
	"module": true, "$": true, "jQuery": true, "navigator": true,
	"typeof": true, "new": true, "Date": true, "Math": true,
	"Promise": true, "Error": true, "fetch": true, "XMLHttpRequest": true,
	"performance": true, "globalThis": true,
}

// localCallDeniedProperties are property names that, if the function
// body's return expression touches them, mark the function as doing
// more than pure value computation.
var localCallDeniedProperties = map[string]bool{
	"test": true, "exec": true, "match": true, "length": true,
	"freeze": true, "call": true, "apply": true, "create": true,
	"getTime": true, "now": true, "getMilliseconds": true,
}

// LocalCallEval resolves a call to a module-local function whose body
// is a single `return <expr>;` by binding its parameters to the
// sandbox-evaluated call arguments (plus the surrounding declaration
// context for any free consts the body reads) and evaluating the
// return expression. It refuses to touch a callee name or any
// property name on the skip-lists above, any function whose body
// mutates something (MutatorMethodNames), and any function whose
// source carries the classic anti-debugging `.toString` comparison
// trap (detouring analysis tools that stringify a function to "prove"
// it hasn't been tampered with).
type LocalCallEval struct{}

func (LocalCallEval) Name() string { return "local-call-eval" }

func (LocalCallEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	// Candidates are resolved most-referenced function first so a
	// heavily-called helper's first resolution primes the per-decl
	// context cache used by every other call site of the same
	// function.
	cache := map[ast.Node]*sandbox.Env{}
	calls := tree.Nodes(ast.KindCallExpression)
	order := sortCallsByCalleeFrequency(calls)

	var out []ast.Node
	for _, n := range order {
		call := n.(*ast.CallExpression)
		fn, ok := localCallTarget(call)
		if !ok {
			continue
		}
		if _, ok := evalLocalCall(call, fn, cache); ok {
			out = append(out, n)
		}
	}
	return out
}

func (LocalCallEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	fn, ok := localCallTarget(call)
	if !ok {
		return nil
	}
	v, ok := evalLocalCall(call, fn, map[ast.Node]*sandbox.Env{})
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

func sortCallsByCalleeFrequency(calls []ast.Node) []ast.Node {
	freq := map[*ast.Identifier]int{}
	for _, n := range calls {
		call := n.(*ast.CallExpression)
		if id, ok := call.Callee.(*ast.Identifier); ok && id.DeclNode != nil {
			freq[id.DeclNode]++
		}
	}
	out := append([]ast.Node(nil), calls...)
	// A simple stable partition: calls to a declaration referenced more
	// often sort first, preserving source order within equal frequency.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			a, aok := out[j].(*ast.CallExpression).Callee.(*ast.Identifier)
			b, bok := out[j-1].(*ast.CallExpression).Callee.(*ast.Identifier)
			if !aok || !bok || freq[a.DeclNode] <= freq[b.DeclNode] {
				break
			}
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func localCallTarget(call *ast.CallExpression) (*ast.FunctionDeclaration, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	if localCallDeniedNames[id.Name] {
		return nil, false
	}
	fn, ok := id.DeclNode.Parent().(*ast.FunctionDeclaration)
	if !ok || fn.Id != id.DeclNode || len(call.Arguments) != len(fn.Params) {
		return nil, false
	}
	ret, ok := rules.SingleStatement(fn.Body)
	if !ok {
		return nil, false
	}
	rs, ok := ret.(*ast.ReturnStatement)
	if !ok || rs.Argument == nil {
		return nil, false
	}
	if isMutatorCallTree(rs.Argument) || containsDeniedProperty(rs.Argument) || hasAntiDebugTrap(fn) {
		return nil, false
	}
	for _, p := range fn.Params {
		if _, ok := p.(*ast.Identifier); !ok {
			return nil, false
		}
	}
	return fn, true
}

func evalLocalCall(call *ast.CallExpression, fn *ast.FunctionDeclaration, cache map[ast.Node]*sandbox.Env) (sandbox.Value, bool) {
	sb := sandbox.New()
	base, ok := cache[fn]
	if !ok {
		base = bindContext(sb, restringercontext.DeclarationWithContext(fn, false))
		cache[fn] = base
	}
	callEnv := sandbox.NewEnv(base)
	for i, p := range fn.Params {
		id := p.(*ast.Identifier)
		av := sb.Run(context.Background(), call.Arguments[i], base)
		if av.IsBad() {
			return sandbox.BadValue, false
		}
		callEnv.Set(id.Name, av)
	}
	ret, _ := rules.SingleStatement(fn.Body)
	rs := ret.(*ast.ReturnStatement)
	v := sb.Run(context.Background(), rs.Argument, callEnv)
	return v, !v.IsBad()
}

func hasAntiDebugTrap(fn *ast.FunctionDeclaration) bool {
	src := fn.Src()
	return strings.Contains(src, "debugger") || strings.Contains(src, "toString")
}

func containsDeniedProperty(e ast.Expression) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if m, ok := n.(*ast.MemberExpression); ok {
			if name, ok := m.PropertyName(); ok && localCallDeniedProperties[name] {
				found = true
			}
		}
		return true
	})
	return found
}

// isMutatorCallTree reports whether any call reachable from e invokes
// a known mutator method (rules.IsMutatorCall), disqualifying the
// enclosing function from being treated as a pure value computation.
func isMutatorCallTree(e ast.Expression) bool {
	found := false
	ast.Walk(e, func(n ast.Node) bool {
		if call, ok := n.(*ast.CallExpression); ok && rules.IsMutatorCall(call) {
			found = true
		}
		return true
	})
	return found
}
