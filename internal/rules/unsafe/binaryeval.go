package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// BinaryEval folds a BinaryExpression whose operands aren't both plain
// Literals - safe.FoldBinary already owns that case - by resolving the
// whole expression through the sandbox against its declaration
// context. This is what picks up `-5 + x` where x is a const bound
// elsewhere, or a literal wrapped in a unary minus/plus/bitwise-not,
// since the sandbox's generic unary handling collapses those the same
// way a real engine would before the binary op ever runs.
type BinaryEval struct{}

func (BinaryEval) Name() string { return "binary-eval" }

func (BinaryEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindBinaryExpression) {
		b := n.(*ast.BinaryExpression)
		if bothLiteral(b) {
			continue
		}
		if _, ok := evalInContext(n, b); ok {
			out = append(out, n)
		}
	}
	return out
}

func (BinaryEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	b := n.(*ast.BinaryExpression)
	v, ok := evalInContext(n, b)
	if !ok {
		return nil
	}
	lit, ok := valueToLiteral(v)
	if !ok {
		return nil
	}
	arb.MarkNode(n, lit)
	return nil
}

func bothLiteral(b *ast.BinaryExpression) bool {
	_, lok := b.Left.(*ast.Literal)
	_, rok := b.Right.(*ast.Literal)
	return lok && rok
}
