package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ExtractSequence pulls the leading side-effecting expressions out of a
// SequenceExpression used as `return (a, b, c);` or `if ((a, b, c)) …`,
// turning them into their own statements ahead of a narrowed
// return/if that keeps only the sequence's final value: `a; b; return
// c;` / `a; b; if (c) …`.
type ExtractSequence struct{}

func (ExtractSequence) Name() string { return "extract-sequence" }

func (ExtractSequence) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindReturnStatement) {
		rs := n.(*ast.ReturnStatement)
		if _, ok := rs.Argument.(*ast.SequenceExpression); ok && rs.ParentKey().Index >= 0 {
			out = append(out, n)
		}
	}
	for _, n := range tree.Nodes(ast.KindIfStatement) {
		is := n.(*ast.IfStatement)
		if _, ok := is.Test.(*ast.SequenceExpression); ok && is.ParentKey().Index >= 0 {
			out = append(out, n)
		}
	}
	return out
}

func (ExtractSequence) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	switch s := n.(type) {
	case *ast.ReturnStatement:
		seq, ok := s.Argument.(*ast.SequenceExpression)
		if !ok || s.ParentKey().Index < 0 {
			return nil
		}
		leading, last := splitSequence(seq)
		stmts := append(leading, ast.Statement(&ast.ReturnStatement{Argument: last}))
		arb.MarkSpliceStatements(n, stmts)
	case *ast.IfStatement:
		seq, ok := s.Test.(*ast.SequenceExpression)
		if !ok || s.ParentKey().Index < 0 {
			return nil
		}
		leading, last := splitSequence(seq)
		stmts := append(leading, ast.Statement(&ast.IfStatement{Test: last, Consequent: s.Consequent, Alternate: s.Alternate}))
		arb.MarkSpliceStatements(n, stmts)
	}
	return nil
}

func splitSequence(seq *ast.SequenceExpression) ([]ast.Statement, ast.Expression) {
	leading := make([]ast.Statement, 0, len(seq.Expressions)-1)
	for _, e := range seq.Expressions[:len(seq.Expressions)-1] {
		leading = append(leading, &ast.ExpressionStatement{Expression: e})
	}
	return leading, seq.Expressions[len(seq.Expressions)-1]
}
