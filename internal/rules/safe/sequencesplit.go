package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// SequenceSplit rewrites `a, b, c;` (an ExpressionStatement wrapping a
// SequenceExpression) into `a; b; c;` - individual ExpressionStatements
// in the enclosing statement list, in the same evaluation order.
type SequenceSplit struct{}

func (SequenceSplit) Name() string { return "sequence-split" }

func (SequenceSplit) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindExpressionStatement) {
		es := n.(*ast.ExpressionStatement)
		if _, ok := es.Expression.(*ast.SequenceExpression); ok && es.ParentKey().Index >= 0 {
			out = append(out, n)
		}
	}
	return out
}

func (SequenceSplit) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	es := n.(*ast.ExpressionStatement)
	seq, ok := es.Expression.(*ast.SequenceExpression)
	if !ok || es.ParentKey().Index < 0 {
		return nil
	}
	stmts := make([]ast.Statement, len(seq.Expressions))
	for i, e := range seq.Expressions {
		stmts[i] = &ast.ExpressionStatement{Expression: e}
	}
	arb.MarkSpliceStatements(n, stmts)
	return nil
}
