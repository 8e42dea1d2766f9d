package unsafe

import (
	"context"
	"net/url"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// builtinCallAllowList are the free-standing global functions this
// rule will resolve a call to, on top of the sandbox's own atob/btoa/
// String/Number table - every one of them is a pure, deterministic
// string transform with no observable side effect.
var builtinCallAllowList = map[string]bool{
	"atob": true, "btoa": true, "String": true, "Number": true,
	"decodeURIComponent": true, "encodeURIComponent": true,
	"unescape": true, "escape": true, "parseInt": true, "parseFloat": true,
}

// builtinCallDenyList is checked even though every name here would
// already fail the allow-list; it exists so the rule can never be
// widened to include one of these by mistake.
var builtinCallDenyList = map[string]bool{
	"Function": true, "eval": true, "Array": true, "Object": true,
	"fetch": true, "XMLHttpRequest": true, "Promise": true,
	"console": true, "performance": true,
}

// BuiltinCallEval resolves a call to one of a small allow-listed set
// of pure global functions - atob/btoa/String/Number plus the URI and
// numeric-parse primitives - against its declaration context, and
// replaces the call with the resulting literal.
type BuiltinCallEval struct{}

func (BuiltinCallEval) Name() string { return "builtin-call-eval" }

func (BuiltinCallEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		if !builtinCallCandidate(call) {
			continue
		}
		if _, ok := evalBuiltinCall(n, call); ok {
			out = append(out, n)
		}
	}
	return out
}

func (BuiltinCallEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	if !builtinCallCandidate(call) {
		return nil
	}
	v, ok := evalBuiltinCall(n, call)
	if !ok {
		return nil
	}
	lit, ok := valueToLiteral(v)
	if !ok {
		return nil
	}
	arb.MarkNode(n, lit)
	return nil
}

func builtinCallCandidate(call *ast.CallExpression) bool {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || !id.IsFree() {
		return false
	}
	return builtinCallAllowList[id.Name] && !builtinCallDenyList[id.Name]
}

func evalBuiltinCall(anchor ast.Node, call *ast.CallExpression) (sandbox.Value, bool) {
	sb, env := newContextSandbox(anchor)
	installExtraBuiltins(sb)
	v := sb.Run(context.Background(), call, env)
	return v, !v.IsBad()
}

func installExtraBuiltins(sb *sandbox.Sandbox) {
	sb.Install("decodeURIComponent", func(args []sandbox.Value) sandbox.Value {
		if len(args) != 1 || args[0].Kind != sandbox.KindString {
			return sandbox.BadValue
		}
		s, err := url.QueryUnescape(args[0].Str)
		if err != nil {
			return sandbox.BadValue
		}
		return sandbox.Str(s)
	})
	sb.Install("encodeURIComponent", func(args []sandbox.Value) sandbox.Value {
		if len(args) != 1 || args[0].Kind != sandbox.KindString {
			return sandbox.BadValue
		}
		return sandbox.Str(url.QueryEscape(args[0].Str))
	})
	sb.Install("unescape", func(args []sandbox.Value) sandbox.Value {
		if len(args) != 1 || args[0].Kind != sandbox.KindString {
			return sandbox.BadValue
		}
		s, err := url.QueryUnescape(args[0].Str)
		if err != nil {
			return sandbox.BadValue
		}
		return sandbox.Str(s)
	})
	sb.Install("escape", func(args []sandbox.Value) sandbox.Value {
		if len(args) != 1 || args[0].Kind != sandbox.KindString {
			return sandbox.BadValue
		}
		return sandbox.Str(url.QueryEscape(args[0].Str))
	})
	sb.Install("parseInt", func(args []sandbox.Value) sandbox.Value {
		if len(args) == 0 {
			return sandbox.BadValue
		}
		n, ok := args[0].ToNumber()
		if !ok {
			return sandbox.BadValue
		}
		return sandbox.Num(float64(int64(n)))
	})
	sb.Install("parseFloat", func(args []sandbox.Value) sandbox.Value {
		if len(args) == 0 {
			return sandbox.BadValue
		}
		n, ok := args[0].ToNumber()
		if !ok {
			return sandbox.BadValue
		}
		return sandbox.Num(n)
	})
}
