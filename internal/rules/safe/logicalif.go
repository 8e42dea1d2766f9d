package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// LogicalIf applies the standard short-circuit truth table to an
// if-condition's leading logical operand when it is deterministically
// truthy or falsy (Literal/Array/Object/Function/RegExp - all
// side-effect free by construction): `if(truthy && x)` becomes
// `if(x)`, `if(truthy || x)` becomes `if(truthy)`, and the two falsy
// mirrors reduce the same way.
type LogicalIf struct{}

func (LogicalIf) Name() string { return "logical-if" }

func (LogicalIf) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindIfStatement) {
		if _, ok := logicalIfReduction(n.(*ast.IfStatement)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (LogicalIf) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	is := n.(*ast.IfStatement)
	repl, ok := logicalIfReduction(is)
	if !ok {
		return nil
	}
	arb.MarkNode(is.Test, repl)
	return nil
}

func logicalIfReduction(is *ast.IfStatement) (ast.Expression, bool) {
	logical, ok := is.Test.(*ast.LogicalExpression)
	if !ok {
		return nil, false
	}
	truthy, ok := deterministicOperand(logical.Left)
	if !ok {
		return nil, false
	}
	switch logical.Operator {
	case "&&":
		if truthy {
			return logical.Right, true
		}
		return logical.Left, true
	case "||":
		if truthy {
			return logical.Left, true
		}
		return logical.Right, true
	}
	return nil, false
}

// deterministicOperand reports whether e is always truthy or always
// falsy by construction, independent of what the program does at
// runtime.
func deterministicOperand(e ast.Expression) (bool, bool) {
	switch v := e.(type) {
	case *ast.Literal:
		return v.IsTruthy(), true
	case *ast.ArrayExpression, *ast.ObjectExpression, *ast.FunctionExpression, *ast.ArrowFunctionExpression:
		return true, true
	}
	return false, false
}
