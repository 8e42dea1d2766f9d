// Package safe holds rewrite rules that only ever read and combine
// literal/structural AST shape - never the sandboxed evaluator - so
// every rule here is safe to run unconditionally.
package safe

import (
	"math"
	"strconv"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// FoldBinary folds a BinaryExpression whose Left and Right are both
// number or string Literals into a single Literal, pure constant
// folding with no evaluator involved.
type FoldBinary struct{}

func (FoldBinary) Name() string { return "fold-binary" }

func (FoldBinary) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindBinaryExpression) {
		b := n.(*ast.BinaryExpression)
		if _, ok := foldableOperands(b); ok {
			out = append(out, n)
		}
	}
	return out
}

func (FoldBinary) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	b := n.(*ast.BinaryExpression)
	folded, ok := foldableOperands(b)
	if !ok {
		return nil
	}
	arb.MarkNode(n, folded)
	return nil
}

func foldableOperands(b *ast.BinaryExpression) (*ast.Literal, bool) {
	l, lok := b.Left.(*ast.Literal)
	r, rok := b.Right.(*ast.Literal)
	if !lok || !rok {
		return nil, false
	}
	if l.LitKind == ast.LitString || r.LitKind == ast.LitString {
		if b.Operator != "+" {
			return nil, false
		}
		ls, lok2 := literalToStr(l)
		rs, rok2 := literalToStr(r)
		if !lok2 || !rok2 {
			return nil, false
		}
		return ast.StringLiteral(ls + rs), true
	}
	if l.LitKind != ast.LitNumber || r.LitKind != ast.LitNumber {
		return nil, false
	}
	switch b.Operator {
	case "+":
		return ast.NumberLiteral(l.Num + r.Num), true
	case "-":
		return ast.NumberLiteral(l.Num - r.Num), true
	case "*":
		return ast.NumberLiteral(l.Num * r.Num), true
	case "/":
		return ast.NumberLiteral(l.Num / r.Num), true
	case "%":
		return ast.NumberLiteral(math.Mod(l.Num, r.Num)), true
	case "**":
		return ast.NumberLiteral(math.Pow(l.Num, r.Num)), true
	case "&":
		return ast.NumberLiteral(float64(int32(l.Num) & int32(r.Num))), true
	case "|":
		return ast.NumberLiteral(float64(int32(l.Num) | int32(r.Num))), true
	case "^":
		return ast.NumberLiteral(float64(int32(l.Num) ^ int32(r.Num))), true
	case "<<":
		return ast.NumberLiteral(float64(int32(l.Num) << uint32(int32(r.Num)&31))), true
	case ">>":
		return ast.NumberLiteral(float64(int32(l.Num) >> uint32(int32(r.Num)&31))), true
	case "==", "===":
		return ast.BoolLiteral(l.Num == r.Num), true
	case "!=", "!==":
		return ast.BoolLiteral(l.Num != r.Num), true
	case "<":
		return ast.BoolLiteral(l.Num < r.Num), true
	case "<=":
		return ast.BoolLiteral(l.Num <= r.Num), true
	case ">":
		return ast.BoolLiteral(l.Num > r.Num), true
	case ">=":
		return ast.BoolLiteral(l.Num >= r.Num), true
	}
	return nil, false
}

func literalToStr(l *ast.Literal) (string, bool) {
	switch l.LitKind {
	case ast.LitString:
		return l.Str, true
	case ast.LitNumber:
		return strconv.FormatFloat(l.Num, 'g', -1, 64), true
	case ast.LitBool:
		return strconv.FormatBool(l.Bool), true
	case ast.LitNull:
		return "null", true
	default:
		return "", false
	}
}
