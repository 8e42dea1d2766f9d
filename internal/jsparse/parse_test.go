package jsparse

import (
	"testing"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func TestParse_BuildsIndexedProgram(t *testing.T) {
	src := "var a = 1;\nfunction f(x) {\n  return x + a;\n}\nf(2);\n"
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Root == nil || len(tree.Root.Body) != 3 {
		t.Fatalf("expected three top-level statements, got %+v", tree.Root)
	}
	if len(tree.Nodes(ast.KindFunctionDeclaration)) != 1 {
		t.Fatalf("expected one indexed function declaration")
	}
	if len(tree.Nodes(ast.KindCallExpression)) != 1 {
		t.Fatalf("expected one indexed call expression")
	}
}

func TestParse_ResolvesIdentifierReferences(t *testing.T) {
	src := "var a = 1;\nvar b = a + a;\n"
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var decl *ast.Identifier
	for _, n := range tree.Nodes(ast.KindIdentifier) {
		id := n.(*ast.Identifier)
		if id.Name == "a" && id.IsDeclaration() {
			decl = id
		}
	}
	if decl == nil {
		t.Fatalf("expected to find a's declaring identifier")
	}
	if len(decl.References) != 2 {
		t.Fatalf("expected two reads of a, got %d", len(decl.References))
	}
}

func TestParse_RejectsSyntaxErrors(t *testing.T) {
	if _, err := Parse("var a = ;"); err == nil {
		t.Fatalf("expected a syntax error")
	}
}

func TestParse_FallsBackUnsupportedStatementsToEmpty(t *testing.T) {
	src := "try {\n  a();\n} catch (e) {\n  b();\n}\n"
	tree, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tree.Root.Body) != 1 {
		t.Fatalf("expected the try statement to convert to a single fallback statement, got %+v", tree.Root.Body)
	}
	if _, ok := tree.Root.Body[0].(*ast.EmptyStatement); !ok {
		t.Fatalf("expected an EmptyStatement fallback, got %T", tree.Root.Body[0])
	}
}

func TestParseExpression_ParsesStandaloneFragment(t *testing.T) {
	tree, err := ParseExpression("a + b;")
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	if len(tree.Root.Body) != 1 {
		t.Fatalf("expected a single statement, got %+v", tree.Root.Body)
	}
	es, ok := tree.Root.Body[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an ExpressionStatement, got %T", tree.Root.Body[0])
	}
	if _, ok := es.Expression.(*ast.BinaryExpression); !ok {
		t.Fatalf("expected a BinaryExpression, got %T", es.Expression)
	}
}
