// Package unsafe holds the evaluator-backed rewrite rules (§4.C/§4.D):
// unlike rules/safe, which only ever restates something already
// syntactically present, every rule here resolves an expression's
// runtime value through internal/sandbox and can therefore be wrong if
// the sandboxed subset diverges from the real engine - each rule
// checks BadValue before committing, and the call-resolving rules also
// consult deny-lists.
package unsafe

import (
	"context"

	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/cache"
	restringercontext "github.com/nocturnelabs/restringer/internal/context"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// scriptCache holds the package's per-script memo (§3): parsed
// fragments that rules in this package re-derive from identical
// sandbox-resolved source text across Match/Transform calls and across
// driver passes. Owned by this package rather than threaded through
// every rule signature, since every unsafe rule already runs against
// exactly one script at a time.
var scriptCache = cache.New()

// ResetCache fingerprints source and clears scriptCache if it differs
// from whatever script is currently cached. restringer.New calls this
// once per parse so a previous script's cached fragments never leak
// into a new one.
func ResetCache(source string) {
	scriptCache.Load(source)
}

// evalInContext resolves expr's value using the "declaration with
// context" statement set gathered around anchor (§4.D): every
// VariableDeclarator in that set with a sandbox-evaluable initializer
// is bound in a fresh Env, and expr is then evaluated against it. It
// reports ok=false whenever the sandbox can't fully resolve the value,
// never a partial or best-guess result.
func evalInContext(anchor ast.Node, expr ast.Expression) (sandbox.Value, bool) {
	sb, env := newContextSandbox(anchor)
	v := sb.Run(context.Background(), expr, env)
	return v, !v.IsBad()
}

// newContextSandbox builds the Sandbox/Env pair evalInContext uses,
// exposed separately so a rule that needs an extra prepared-context
// builtin installed (§4.D) can call Sandbox.Install before running.
func newContextSandbox(anchor ast.Node) (*sandbox.Sandbox, *sandbox.Env) {
	sb := sandbox.New()
	env := bindContext(sb, restringercontext.DeclarationWithContext(anchor, false))
	return sb, env
}

// bindContext executes the subset of stmts the sandbox understands -
// var/let/const declarations and plain assignments to already-bound
// names - into a fresh Env, in source order, skipping anything that
// doesn't resolve rather than aborting the whole binding pass.
func bindContext(sb *sandbox.Sandbox, stmts []ast.Node) *sandbox.Env {
	env := sandbox.NewEnv(nil)
	for _, n := range stmts {
		switch s := n.(type) {
		case *ast.VariableDeclaration:
			for _, d := range s.Declarations {
				id, ok := d.Id.(*ast.Identifier)
				if !ok || d.Init == nil {
					continue
				}
				v := sb.Run(context.Background(), d.Init, env)
				if !v.IsBad() {
					env.Set(id.Name, v)
				}
			}
		case *ast.ExpressionStatement:
			assign, ok := s.Expression.(*ast.AssignmentExpression)
			if !ok || assign.Operator != "=" {
				continue
			}
			id, ok := assign.Left.(*ast.Identifier)
			if !ok {
				continue
			}
			v := sb.Run(context.Background(), assign.Right, env)
			if !v.IsBad() {
				env.Set(id.Name, v)
			}
		}
	}
	return env
}

// valueToLiteral converts a resolved sandbox.Value back into an AST
// Literal, when it has a literal-representable shape. Arrays/objects
// resolve through valueToExpression instead.
func valueToLiteral(v sandbox.Value) (*ast.Literal, bool) {
	switch v.Kind {
	case sandbox.KindString:
		return ast.StringLiteral(v.Str), true
	case sandbox.KindNumber:
		return ast.NumberLiteral(v.Num), true
	case sandbox.KindBool:
		return ast.BoolLiteral(v.Bool), true
	case sandbox.KindNull:
		return ast.NullLiteral(), true
	case sandbox.KindUndefined:
		return &ast.Literal{LitKind: ast.LitUndefined, Raw: "undefined"}, true
	}
	return nil, false
}

// valueToExpression converts any resolved, non-bad sandbox.Value to an
// AST expression, building ArrayExpression/ObjectExpression nodes for
// the composite kinds.
func valueToExpression(v sandbox.Value) (ast.Expression, bool) {
	if lit, ok := valueToLiteral(v); ok {
		return lit, true
	}
	switch v.Kind {
	case sandbox.KindArray:
		elems := make([]ast.Expression, len(v.Arr))
		for i, e := range v.Arr {
			el, ok := valueToExpression(e)
			if !ok {
				return nil, false
			}
			elems[i] = el
		}
		return &ast.ArrayExpression{Elements: elems}, true
	case sandbox.KindObject:
		props := make([]*ast.Property, 0, len(v.Obj))
		for k, e := range v.Obj {
			el, ok := valueToExpression(e)
			if !ok {
				return nil, false
			}
			props = append(props, &ast.Property{Key: ast.StringLiteral(k), Value: el, PKind: "init"})
		}
		return &ast.ObjectExpression{Properties: props}, true
	}
	return nil, false
}
