package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// DirectAssign looks for `x = <pure expr>;` whose declaration has
// exactly one reference, lying in the very next statement of the same
// block; Transform inlines the right-hand side there and drops the
// assignment statement. Identifier.References includes the
// assignment's own target, so a lone reference is always that target
// and never in the next statement: Match returns no candidates.
type DirectAssign struct{}

func (DirectAssign) Name() string { return "direct-assign" }

func (DirectAssign) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindExpressionStatement) {
		stmt := n.(*ast.ExpressionStatement)
		if _, _, ok := directAssignTarget(stmt); ok {
			out = append(out, n)
		}
	}
	return out
}

func (DirectAssign) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	stmt := n.(*ast.ExpressionStatement)
	use, rhs, ok := directAssignTarget(stmt)
	if !ok {
		return nil
	}
	arb.MarkNode(use, ast.Clone(rhs))
	arb.MarkNode(n, nil)
	return nil
}

func directAssignTarget(stmt *ast.ExpressionStatement) (*ast.Identifier, ast.Expression, bool) {
	assign, ok := stmt.Expression.(*ast.AssignmentExpression)
	if !ok || assign.Operator != "=" {
		return nil, nil, false
	}
	id, ok := assign.Left.(*ast.Identifier)
	if !ok || id.DeclNode == nil || len(id.DeclNode.References) != 1 {
		return nil, nil, false
	}
	if !isPureExpression(assign.Right) {
		return nil, nil, false
	}
	use := id.DeclNode.References[0]
	siblingBody, selfIndex, ok := siblingStatements(stmt)
	if !ok || selfIndex+1 >= len(siblingBody) {
		return nil, nil, false
	}
	next := siblingBody[selfIndex+1]
	if !nodeContains(next, use) {
		return nil, nil, false
	}
	return use, assign.Right, true
}

func siblingStatements(stmt ast.Statement) ([]ast.Statement, int, bool) {
	key := stmt.ParentKey()
	if key.Index < 0 {
		return nil, 0, false
	}
	switch p := stmt.Parent().(type) {
	case *ast.Program:
		return p.Body, key.Index, true
	case *ast.BlockStatement:
		return p.Body, key.Index, true
	}
	return nil, 0, false
}

func nodeContains(container ast.Node, target ast.Node) bool {
	found := false
	ast.Walk(container, func(n ast.Node) bool {
		if n == target {
			found = true
		}
		return !found
	})
	return found
}
