package rules

import "github.com/nocturnelabs/restringer/internal/ast"

// DeniedGlobalCallees are identifier names a rule must never resolve,
// inline, or otherwise pretend to understand the semantics of, even
// when they appear in a position this rule family would otherwise
// rewrite - calling them can affect the surrounding runtime in ways the
// pure-AST model or the sandbox cannot observe.
var DeniedGlobalCallees = map[string]bool{
	"Function": true,
	"eval":     true,
	"window":   true,
	"global":   true,
	"globalThis": true,
	"require":  true,
	"import":   true,
}

// MutatorMethodNames are property names whose call implies observable
// side effects on their receiver - a proxy-member/proxy-call rule must
// not treat a call through one of these as a pure read.
var MutatorMethodNames = map[string]bool{
	"push": true, "pop": true, "shift": true, "unshift": true,
	"splice": true, "sort": true, "reverse": true,
	"set": true, "delete": true, "add": true, "clear": true,
	"fill": true, "copyWithin": true,
}

// IsDeniedCallee reports whether callee resolves to (or is) one of
// DeniedGlobalCallees by plain identifier name.
func IsDeniedCallee(callee ast.Expression) bool {
	id, ok := callee.(*ast.Identifier)
	return ok && DeniedGlobalCallees[id.Name]
}

// IsMutatorCall reports whether call invokes a known mutator method on
// some receiver (`x.push(...)`), regardless of what x resolves to.
func IsMutatorCall(call *ast.CallExpression) bool {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return false
	}
	name, ok := member.PropertyName()
	return ok && MutatorMethodNames[name]
}

// IsStale reports whether n's range falls inside a region already
// rewritten earlier in the same pass, per §4.E's "made stale by an
// earlier transform" rule. touched holds the ranges committed so far
// this pass.
func IsStale(n ast.Node, touched []ast.Node) bool {
	r := n.Range()
	for _, t := range touched {
		if t == n {
			continue
		}
		if t.Range().Contains(r) {
			return true
		}
	}
	return false
}

// SingleStatement unwraps a BlockStatement with exactly one statement,
// the shape several unwrapping rules key off (an IIFE shell, a single-
// statement function body, ...).
func SingleStatement(b *ast.BlockStatement) (ast.Statement, bool) {
	if b == nil || len(b.Body) != 1 {
		return nil, false
	}
	return b.Body[0], true
}
