package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ConstProp replaces a read of a `const`/never-reassigned `var`/`let`
// bound to a Literal with a clone of that literal. Per §9's stricter
// documented policy, this only ever fires through a plain Identifier
// read - never through a MemberExpression - since a getter could be
// observing the access; that path belongs exclusively to the named
// unsafe member-access rules.
type ConstProp struct{}

func (ConstProp) Name() string { return "const-prop" }

func (ConstProp) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindIdentifier) {
		id := n.(*ast.Identifier)
		if id.IsDeclaration() || id.DeclNode == nil {
			continue
		}
		if _, ok := constantLiteralFor(id.DeclNode); ok {
			if !isAssignmentTarget(id) {
				out = append(out, n)
			}
		}
	}
	return out
}

func (ConstProp) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	id := n.(*ast.Identifier)
	lit, ok := constantLiteralFor(id.DeclNode)
	if !ok {
		return nil
	}
	arb.MarkNode(n, ast.Clone(lit))
	return nil
}

// constantLiteralFor reports the Literal value decl is permanently
// bound to, if decl is a VariableDeclarator whose declaration is a
// const (or a var/let never written again after initialization) and
// whose initializer is itself a Literal.
func constantLiteralFor(decl *ast.Identifier) (*ast.Literal, bool) {
	declarator, ok := decl.Parent().(*ast.VariableDeclarator)
	if !ok || declarator.Id != ast.Expression(decl) {
		return nil, false
	}
	varDecl, ok := declarator.Parent().(*ast.VariableDeclaration)
	if !ok {
		return nil, false
	}
	lit, ok := declarator.Init.(*ast.Literal)
	if !ok {
		return nil, false
	}
	if varDecl.VKind != "const" {
		for _, ref := range decl.References {
			if isAssignmentTarget(ref) || isUpdateTarget(ref) {
				return nil, false
			}
		}
	}
	return lit, true
}

func isAssignmentTarget(id *ast.Identifier) bool {
	assign, ok := id.Parent().(*ast.AssignmentExpression)
	return ok && assign.Left == ast.Expression(id)
}

func isUpdateTarget(id *ast.Identifier) bool {
	upd, ok := id.Parent().(*ast.UpdateExpression)
	return ok && upd.Argument == ast.Expression(id)
}
