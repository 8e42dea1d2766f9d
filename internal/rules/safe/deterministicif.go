package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// DeterministicIf resolves `if(LiteralOrUnaryOfLiteral) A else B` by
// picking whichever branch the statically-known value selects under JS
// truthiness rules; when the losing branch doesn't exist the whole
// statement is deleted instead of replaced.
type DeterministicIf struct{}

func (DeterministicIf) Name() string { return "deterministic-if" }

func (DeterministicIf) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindIfStatement) {
		if _, ok := staticTruthy(n.(*ast.IfStatement).Test); ok {
			out = append(out, n)
		}
	}
	return out
}

func (DeterministicIf) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	is := n.(*ast.IfStatement)
	truthy, ok := staticTruthy(is.Test)
	if !ok {
		return nil
	}
	var chosen ast.Statement
	if truthy {
		chosen = is.Consequent
	} else {
		chosen = is.Alternate
	}
	arb.MarkNode(n, chosen)
	return nil
}

// staticTruthy evaluates a Literal, or a unary operator applied directly
// to one, under JS truthiness rules, without a sandbox.
func staticTruthy(e ast.Expression) (bool, bool) {
	switch v := e.(type) {
	case *ast.Literal:
		return v.IsTruthy(), true
	case *ast.UnaryExpression:
		lit, ok := v.Argument.(*ast.Literal)
		if !ok {
			return false, false
		}
		switch v.Operator {
		case "!":
			return !lit.IsTruthy(), true
		case "typeof":
			return true, true // typeof always yields a non-empty string
		case "-", "+":
			if lit.LitKind != ast.LitNumber {
				return false, false
			}
			return lit.Num != 0, true
		case "~":
			if lit.LitKind != ast.LitNumber {
				return false, false
			}
			return ^int32(int64(lit.Num)) != 0, true
		}
	}
	return false, false
}
