package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// FixedValue inlines a declared identifier's single use when that use
// sits in the same lineage as the declaration (no hoisting across a
// scope boundary) and the declaration's initializer is any pure
// expression with no free side effects - a generalization of ConstProp
// that reaches expressions beyond bare literals, as long as there is
// exactly one reader to replace.
type FixedValue struct{}

func (FixedValue) Name() string { return "fixed-value" }

func (FixedValue) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindVariableDeclarator) {
		vd := n.(*ast.VariableDeclarator)
		id, ok := vd.Id.(*ast.Identifier)
		if !ok || vd.Init == nil || len(id.References) != 1 {
			continue
		}
		if !isPureExpression(vd.Init) {
			continue
		}
		use := id.References[0]
		if isAssignmentTarget(use) || isUpdateTarget(use) {
			continue
		}
		if !ast.SameLineage(id, use) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (FixedValue) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	vd := n.(*ast.VariableDeclarator)
	id := vd.Id.(*ast.Identifier)
	use := id.References[0]
	arb.MarkNode(use, ast.Clone(vd.Init))
	arb.MarkNode(n, nil)
	return nil
}

// isPureExpression reports whether e can be evaluated with no
// observable side effects and no dependency on later mutable state -
// literals and references to other identifiers, recursively through
// arrays/objects/operators.
func isPureExpression(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.Literal, *ast.Identifier, *ast.ThisExpression:
		return true
	case *ast.ArrayExpression:
		for _, el := range v.Elements {
			if el != nil && !isPureExpression(el) {
				return false
			}
		}
		return true
	case *ast.ObjectExpression:
		for _, p := range v.Properties {
			if !isPureExpression(p.Value) {
				return false
			}
		}
		return true
	case *ast.BinaryExpression:
		return isPureExpression(v.Left) && isPureExpression(v.Right)
	case *ast.LogicalExpression:
		return isPureExpression(v.Left) && isPureExpression(v.Right)
	case *ast.UnaryExpression:
		return v.Operator != "delete" && isPureExpression(v.Argument)
	case *ast.ConditionalExpression:
		return isPureExpression(v.Test) && isPureExpression(v.Consequent) && isPureExpression(v.Alternate)
	case *ast.TemplateLiteral:
		for _, ex := range v.Expressions {
			if !isPureExpression(ex) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
