package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// maxSwitchLinearizeSteps bounds the case-to-case simulation below in
// case a generated dispatcher's state assignments form a cycle.
const maxSwitchLinearizeSteps = 50

// SwitchLinearize resolves a switch statement whose discriminant is an
// identifier bound to a Literal initializer: it statically walks the
// case chain, following any literal reassignment of the discriminant
// made inside a case body to find the next case to run, and replaces
// the whole switch with the flattened sequence of statements actually
// executed. The walk stops at a bare `break`, at a case value with no
// matching branch, or after maxSwitchLinearizeSteps hops.
type SwitchLinearize struct{}

func (SwitchLinearize) Name() string { return "switch-linearize" }

func (SwitchLinearize) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindSwitchStatement) {
		if _, ok := linearizeSwitch(n.(*ast.SwitchStatement)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (SwitchLinearize) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	sw := n.(*ast.SwitchStatement)
	stmts, ok := linearizeSwitch(sw)
	if !ok {
		return nil
	}
	if sw.ParentKey().Index >= 0 {
		arb.MarkSpliceStatements(sw, stmts)
		return nil
	}
	if len(stmts) == 1 {
		arb.MarkNode(sw, stmts[0])
		return nil
	}
	arb.MarkNode(sw, &ast.BlockStatement{Body: stmts})
	return nil
}

func linearizeSwitch(sw *ast.SwitchStatement) ([]ast.Statement, bool) {
	id, ok := sw.Discriminant.(*ast.Identifier)
	if !ok || id.DeclNode == nil {
		return nil, false
	}
	value, ok := switchDiscriminantLiteral(id.DeclNode)
	if !ok {
		return nil, false
	}

	var out []ast.Statement
	for step := 0; step < maxSwitchLinearizeSteps; step++ {
		c := findSwitchCase(sw, value)
		if c == nil {
			return out, true
		}
		next, jumped := appendCaseBody(&out, id.DeclNode, c.Consequent)
		if !jumped {
			return out, true
		}
		value = next
	}
	return out, true
}

// switchDiscriminantLiteral reports the Literal a declared identifier
// was initialized with, regardless of whether it is later reassigned
// (unlike constantLiteralFor, reassignment is exactly what this rule
// traces).
func switchDiscriminantLiteral(decl *ast.Identifier) (*ast.Literal, bool) {
	declarator, ok := decl.Parent().(*ast.VariableDeclarator)
	if !ok || declarator.Id != ast.Expression(decl) {
		return nil, false
	}
	lit, ok := declarator.Init.(*ast.Literal)
	if !ok {
		return nil, false
	}
	return lit, true
}

func findSwitchCase(sw *ast.SwitchStatement, value *ast.Literal) *ast.SwitchCase {
	var def *ast.SwitchCase
	for _, c := range sw.Cases {
		if c.Test == nil {
			def = c
			continue
		}
		lit, ok := c.Test.(*ast.Literal)
		if !ok {
			continue
		}
		if literalEqual(lit, value) {
			return c
		}
	}
	return def
}

func literalEqual(a, b *ast.Literal) bool {
	if a.LitKind != b.LitKind {
		return false
	}
	switch a.LitKind {
	case ast.LitString:
		return a.Str == b.Str
	case ast.LitNumber:
		return a.Num == b.Num
	case ast.LitBool:
		return a.Bool == b.Bool
	case ast.LitNull, ast.LitUndefined:
		return true
	}
	return false
}

// appendCaseBody copies body's statements into out until a break (stop,
// jumped=false), or a literal reassignment of discriminant (stop this
// case, jumped=true, returning the new target value - the reassignment
// itself is dropped, since it only ever drove the switch's own dispatch
// and was never part of the case's externally visible behavior), or the
// body is exhausted without either (stop, jumped=false - fallthrough
// isn't traced further).
func appendCaseBody(out *[]ast.Statement, discriminant *ast.Identifier, body []ast.Statement) (*ast.Literal, bool) {
	for _, s := range body {
		if _, ok := s.(*ast.BreakStatement); ok {
			return nil, false
		}
		if lit, ok := discriminantReassignment(discriminant, s); ok {
			return lit, true // dispatcher-state update, not part of the executed behavior
		}
		*out = append(*out, s)
	}
	return nil, false
}

// discriminantReassignment reports whether s is `id = Literal;` for the
// given discriminant binding.
func discriminantReassignment(discriminant *ast.Identifier, s ast.Statement) (*ast.Literal, bool) {
	es, ok := s.(*ast.ExpressionStatement)
	if !ok {
		return nil, false
	}
	assign, ok := es.Expression.(*ast.AssignmentExpression)
	if !ok || assign.Operator != "=" {
		return nil, false
	}
	lhs, ok := assign.Left.(*ast.Identifier)
	if !ok || lhs.DeclNode != discriminant {
		return nil, false
	}
	lit, ok := assign.Right.(*ast.Literal)
	if !ok {
		return nil, false
	}
	return lit, true
}
