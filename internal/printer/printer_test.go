package printer

import (
	"testing"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/jsparse"
)

func TestPrint_UnchangedTree_ReusesSourceVerbatim(t *testing.T) {
	src := "function f(a,b) {\n  return a+b;\n}\n"
	tree, err := jsparse.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got := Print(tree)
	if got != src {
		t.Fatalf("expected byte-identical reuse, got=%q want=%q", got, src)
	}
}

func TestPrint_EditedLeaf_OnlyRewritesTouchedStatement(t *testing.T) {
	src := "function f() {\n  var x = 1;\n  var y = 2;\n}\n"
	tree, err := jsparse.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	fn := tree.Nodes(ast.KindFunctionDeclaration)[0].(*ast.FunctionDeclaration)
	target := fn.Body.Body[0]

	arb := arborist.New(tree)
	arb.MarkNode(target, &ast.ExpressionStatement{Expression: ast.NumberLiteral(99)})
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := Print(tree)
	if got != "function f() {\n  99;\n  var y = 2;\n}\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPrint_ArrayLiteral_JoinsElementsWithCommaSpace(t *testing.T) {
	tree, err := jsparse.Parse("var a = [1, 2, 3];\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	vd := tree.Nodes(ast.KindVariableDeclaration)[0].(*ast.VariableDeclaration)
	init := vd.Declarations[0].Init.(*ast.ArrayExpression)

	arb := arborist.New(tree)
	arb.MarkNode(init, &ast.ArrayExpression{Elements: []ast.Expression{ast.NumberLiteral(4), ast.NumberLiteral(5)}})
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := Print(tree)
	if got != "var a = [4, 5];\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestPrint_IfWithBlockElse_PutsElseOnSameLine(t *testing.T) {
	tree, err := jsparse.Parse("if (a) {\n  b();\n}\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ifs := tree.Nodes(ast.KindIfStatement)[0].(*ast.IfStatement)

	arb := arborist.New(tree)
	arb.MarkNode(ifs, &ast.IfStatement{
		Test:       ast.Ident("a"),
		Consequent: &ast.BlockStatement{Body: []ast.Statement{&ast.ExpressionStatement{Expression: ast.Ident("b")}}},
		Alternate:  &ast.BlockStatement{Body: []ast.Statement{&ast.ExpressionStatement{Expression: ast.Ident("c")}}},
	})
	if err := arb.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := Print(tree)
	want := "if (a) {\n  b;\n} else {\n  c;\n}\n"
	if got != want {
		t.Fatalf("unexpected output: got=%q want=%q", got, want)
	}
}
