package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// RedundantBlock removes a BlockStatement nested directly inside
// Program or another BlockStatement (not a control-flow body, which
// must stay distinct for loop/if semantics) and flattens its contents
// into the enclosing list. Skipped when the block declares a
// block-scoped binding (`let`/`const`/`class`/`function`), since merging
// scopes could collide with an identically-named binding already in the
// enclosing block.
type RedundantBlock struct{}

func (RedundantBlock) Name() string { return "redundant-block" }

func (RedundantBlock) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindBlockStatement) {
		if isRedundantBlock(n.(*ast.BlockStatement)) {
			out = append(out, n)
		}
	}
	return out
}

func (RedundantBlock) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	block := n.(*ast.BlockStatement)
	if !isRedundantBlock(block) {
		return nil
	}
	arb.MarkSpliceStatements(n, block.Body)
	return nil
}

func isRedundantBlock(block *ast.BlockStatement) bool {
	if block.ParentKey().Index < 0 {
		return false
	}
	switch block.Parent().(type) {
	case *ast.Program, *ast.BlockStatement:
	default:
		return false
	}
	for _, s := range block.Body {
		switch decl := s.(type) {
		case *ast.VariableDeclaration:
			if decl.VKind != "var" {
				return false
			}
		case *ast.FunctionDeclaration, *ast.ClassDeclaration:
			return false
		}
	}
	return true
}
