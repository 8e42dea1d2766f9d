package safe

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// FunctionCtor resolves `Function.constructor("a","b","body")` calls -
// obfuscators reach `Function`'s constructor this way to dodge a plain
// `new Function(...)` signature check - into a literal FunctionExpression
// built from the parameter names and body text, provided every argument
// is a string Literal.
//
// The synthesized source is parsed as `(function(a,b){body})`, a
// parenthesized function expression, so the single top-level
// ExpressionStatement's Expression is directly the FunctionExpression to
// extract - no offset-counting into the generated tree.
type FunctionCtor struct{}

func (FunctionCtor) Name() string { return "function-ctor" }

func (FunctionCtor) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if functionCtorLiteralArgs(n.(*ast.CallExpression)) != nil {
			out = append(out, n)
		}
	}
	return out
}

func (FunctionCtor) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	args := functionCtorLiteralArgs(call)
	if args == nil {
		return nil
	}
	fn, ok := parseFunctionExpression(args)
	if !ok {
		return nil
	}
	arb.MarkNode(n, fn)
	return nil
}

func functionCtorLiteralArgs(call *ast.CallExpression) []string {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil
	}
	name, ok := member.PropertyName()
	if !ok || name != "constructor" {
		return nil
	}
	if len(call.Arguments) == 0 {
		return nil
	}
	out := make([]string, len(call.Arguments))
	for i, a := range call.Arguments {
		lit, ok := a.(*ast.Literal)
		if !ok || lit.LitKind != ast.LitString {
			return nil
		}
		out[i] = lit.Str
	}
	return out
}

// parseFunctionExpression builds `(function(p0,p1,...){body})` from
// args (all but the last are parameter names, the last is the body) and
// extracts the resulting FunctionExpression.
func parseFunctionExpression(args []string) (*ast.FunctionExpression, bool) {
	params := args[:len(args)-1]
	body := args[len(args)-1]
	src := "(function(" + strings.Join(params, ",") + "){" + body + "})"
	fragment, err := jsparse.Parse(src)
	if err != nil || len(fragment.Root.Body) != 1 {
		return nil, false
	}
	stmt, ok := fragment.Root.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	fn, ok := stmt.Expression.(*ast.FunctionExpression)
	return fn, ok
}
