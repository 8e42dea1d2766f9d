package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// IIFEShell matches `(function(){ return L_or_Id; })()` called with
// zero arguments and replaces the entire call with the returned value.
type IIFEShell struct{}

func (IIFEShell) Name() string { return "iife-shell" }

func (IIFEShell) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := iifeShellValue(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (IIFEShell) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	val, ok := iifeShellValue(call)
	if !ok {
		return nil
	}
	arb.MarkNode(n, ast.Clone(val))
	return nil
}

func iifeShellValue(call *ast.CallExpression) (ast.Expression, bool) {
	if len(call.Arguments) != 0 {
		return nil, false
	}
	fn, ok := call.Callee.(*ast.FunctionExpression)
	if !ok || len(fn.Params) != 0 {
		return nil, false
	}
	return shellReturnValue(fn.Body)
}
