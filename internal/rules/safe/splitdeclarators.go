package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// SplitDeclarators separates a chained declaration, `let a = 1, b =
// 2;`, into one declaration per declarator, `let a = 1; let b = 2;`.
// It only fires on a declaration sitting in a statement list - never
// inside a for-loop head, where VariableDeclaration occupies a single
// non-array field and splitting it would be a syntax error.
type SplitDeclarators struct{}

func (SplitDeclarators) Name() string { return "split-declarators" }

func (SplitDeclarators) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindVariableDeclaration) {
		vd := n.(*ast.VariableDeclaration)
		if len(vd.Declarations) > 1 && vd.ParentKey().Index >= 0 {
			out = append(out, n)
		}
	}
	return out
}

func (SplitDeclarators) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	vd := n.(*ast.VariableDeclaration)
	if len(vd.Declarations) <= 1 || vd.ParentKey().Index < 0 {
		return nil
	}
	stmts := make([]ast.Statement, len(vd.Declarations))
	for i, d := range vd.Declarations {
		stmts[i] = &ast.VariableDeclaration{VKind: vd.VKind, Declarations: []*ast.VariableDeclarator{d}}
	}
	arb.MarkSpliceStatements(n, stmts)
	return nil
}
