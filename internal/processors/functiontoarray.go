package processors

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// FunctionToArray targets obfuscators that hide a string-table literal
// behind a zero-argument accessor function instead of exposing the
// array directly - `function f(){ return [...]; }`, called as `f()`
// everywhere the array would otherwise appear. Its preprocessor
// inlines every such call with a clone of the array literal.
var FunctionToArray = Bundle{
	Name: "function-to-array",
	Pre:  []rules.Rule{functionReturnsArray{}},
}

func detectFunctionToArray(source string) (Bundle, bool) {
	if strings.Contains(source, "return [") {
		return FunctionToArray, true
	}
	return Bundle{}, false
}

// functionReturnsArray matches `f()` where f resolves to a function or
// arrow declaration whose entire body is `return <ArrayExpression>;`,
// and replaces the call with a clone of that array literal.
type functionReturnsArray struct{}

func (functionReturnsArray) Name() string { return "function-to-array" }

func (functionReturnsArray) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, ok := arrayReturningTarget(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (functionReturnsArray) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	arr, ok := arrayReturningTarget(call)
	if !ok {
		return nil
	}
	arb.MarkNode(call, ast.Clone(arr))
	return nil
}

// arrayReturningTarget resolves a zero-argument call to the array
// literal its callee's declaration unconditionally returns.
func arrayReturningTarget(call *ast.CallExpression) (*ast.ArrayExpression, bool) {
	if len(call.Arguments) != 0 {
		return nil, false
	}
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}

	var body *ast.BlockStatement
	switch decl := id.DeclNode.Parent().(type) {
	case *ast.FunctionDeclaration:
		if len(decl.Params) != 0 {
			return nil, false
		}
		body = decl.Body
	case *ast.VariableDeclarator:
		switch fn := decl.Init.(type) {
		case *ast.FunctionExpression:
			if len(fn.Params) != 0 {
				return nil, false
			}
			body = fn.Body
		case *ast.ArrowFunctionExpression:
			if len(fn.Params) != 0 {
				return nil, false
			}
			if fn.ExpressionBody {
				arr, ok := fn.Body.(*ast.ArrayExpression)
				return arr, ok
			}
			body, _ = fn.Body.(*ast.BlockStatement)
		}
	default:
		return nil, false
	}
	if body == nil {
		return nil, false
	}
	stmt, ok := rules.SingleStatement(body)
	if !ok {
		return nil, false
	}
	rs, ok := stmt.(*ast.ReturnStatement)
	if !ok || rs.Argument == nil {
		return nil, false
	}
	arr, ok := rs.Argument.(*ast.ArrayExpression)
	return arr, ok
}
