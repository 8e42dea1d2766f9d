package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// FuncShell matches `function f(){ return L_or_Id; }` and replaces
// every *call* to f with a clone of the returned value, leaving
// non-call references (f passed as a value, for instance) untouched.
type FuncShell struct{}

func (FuncShell) Name() string { return "func-shell" }

func (FuncShell) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		if _, ok := funcShellValue(call); ok {
			out = append(out, n)
		}
	}
	return out
}

func (FuncShell) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	val, ok := funcShellValue(call)
	if !ok {
		return nil
	}
	arb.MarkNode(n, ast.Clone(val))
	return nil
}

func funcShellValue(call *ast.CallExpression) (ast.Expression, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	fn, ok := id.DeclNode.Parent().(*ast.FunctionDeclaration)
	if !ok || len(fn.Params) != 0 {
		return nil, false
	}
	return shellReturnValue(fn.Body)
}

// shellReturnValue recognizes a function body whose only statement is
// `return L_or_Id;`.
func shellReturnValue(body *ast.BlockStatement) (ast.Expression, bool) {
	stmt, ok := rules.SingleStatement(body)
	if !ok {
		return nil, false
	}
	ret, ok := stmt.(*ast.ReturnStatement)
	if !ok || ret.Argument == nil {
		return nil, false
	}
	switch v := ret.Argument.(type) {
	case *ast.Literal:
		return v, true
	case *ast.Identifier:
		return v, true
	}
	return nil, false
}
