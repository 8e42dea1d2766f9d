package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ArrayIndex resolves `[lit0, lit1, ...][N]` - a computed numeric index
// into an array literal, whether written inline or through a
// never-reassigned identifier bound to one - into the literal element
// at that index.
type ArrayIndex struct{}

func (ArrayIndex) Name() string { return "array-index" }

func (ArrayIndex) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindMemberExpression) {
		if _, ok := resolveArrayIndex(n.(*ast.MemberExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ArrayIndex) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	m := n.(*ast.MemberExpression)
	elem, ok := resolveArrayIndex(m)
	if !ok {
		return nil
	}
	arb.MarkNode(n, ast.Clone(elem))
	return nil
}

func resolveArrayIndex(m *ast.MemberExpression) (*ast.Literal, bool) {
	if !m.Computed {
		return nil, false
	}
	idxLit, ok := m.Property.(*ast.Literal)
	if !ok || idxLit.LitKind != ast.LitNumber {
		return nil, false
	}
	idx := int(idxLit.Num)
	if float64(idx) != idxLit.Num || idx < 0 {
		return nil, false
	}
	arr := arrayLiteralFor(m.Object)
	if arr == nil || idx >= len(arr.Elements) {
		return nil, false
	}
	elem, ok := arr.Elements[idx].(*ast.Literal)
	if !ok {
		return nil, false
	}
	return elem, true
}

func arrayLiteralFor(obj ast.Expression) *ast.ArrayExpression {
	if arr, ok := obj.(*ast.ArrayExpression); ok {
		return arr
	}
	id, ok := obj.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil
	}
	declarator, ok := id.DeclNode.Parent().(*ast.VariableDeclarator)
	if !ok {
		return nil
	}
	for _, ref := range id.DeclNode.References {
		if isAssignmentTarget(ref) || isUpdateTarget(ref) {
			return nil
		}
	}
	arr, _ := declarator.Init.(*ast.ArrayExpression)
	return arr
}
