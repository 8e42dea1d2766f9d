package arborist

import (
	"testing"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func program(body ...ast.Statement) *ast.Program {
	return &ast.Program{Body: body}
}

func TestMarkNodeReplaceLiteral(t *testing.T) {
	lit := ast.NumberLiteral(2)
	expr := &ast.BinaryExpression{Operator: "+", Left: ast.NumberLiteral(1), Right: lit}
	tree := ast.NewTree(program(&ast.ExpressionStatement{Expression: expr}), "")

	arb := New(tree)
	replacement := ast.NumberLiteral(4)
	arb.MarkNode(lit, replacement)
	if !arb.Pending() {
		t.Fatal("expected a pending edit")
	}
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if arb.Pending() {
		t.Fatal("buffer must be empty after commit")
	}
	if expr.Right != ast.Expression(replacement) {
		t.Fatalf("expected right operand replaced, got %v", expr.Right)
	}
}

func TestDeleteStatementSplicesArray(t *testing.T) {
	s1 := &ast.ExpressionStatement{Expression: ast.Ident("a")}
	s2 := &ast.ExpressionStatement{Expression: ast.Ident("b")}
	prog := program(s1, s2)
	tree := ast.NewTree(prog, "")

	arb := New(tree)
	arb.MarkNode(s1, nil)
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if len(tree.Root.Body) != 1 {
		t.Fatalf("expected splice to leave one statement, got %d", len(tree.Root.Body))
	}
	if tree.Root.Body[0] != ast.Statement(s2) {
		t.Fatal("remaining statement must be s2")
	}
}

func TestDeleteLoopBodyBecomesEmptyStatement(t *testing.T) {
	body := &ast.ExpressionStatement{Expression: ast.Ident("x")}
	loop := &ast.WhileStatement{Test: ast.BoolLiteral(true), Body: body}
	tree := ast.NewTree(program(loop), "")

	arb := New(tree)
	arb.MarkNode(body, nil)
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if _, ok := loop.Body.(*ast.EmptyStatement); !ok {
		t.Fatalf("loop body must demote to EmptyStatement, got %T", loop.Body)
	}
}

func TestCommitReindexesAfterEdit(t *testing.T) {
	decl := ast.Ident("x")
	use := ast.Ident("x")
	vd := &ast.VariableDeclaration{VKind: "var", Declarations: []*ast.VariableDeclarator{{Id: decl, Init: ast.NumberLiteral(1)}}}
	stmt := &ast.ExpressionStatement{Expression: use}
	tree := ast.NewTree(program(vd, stmt), "")

	if use.DeclNode == nil {
		t.Fatal("expected x use to resolve before any edit")
	}

	arb := New(tree)
	newLit := ast.NumberLiteral(99)
	arb.MarkNode(use, newLit)
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	idents := tree.Nodes(ast.KindIdentifier)
	for _, n := range idents {
		if n == ast.Node(use) {
			t.Fatal("replaced identifier must not remain in the rebuilt type index")
		}
	}
}
