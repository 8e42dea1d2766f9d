package context

import (
	"testing"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func TestDeclarationWithContextPullsInDeclaration(t *testing.T) {
	declId := ast.Ident("key")
	useId := ast.Ident("key")
	keyDecl := &ast.VariableDeclaration{VKind: "var", Declarations: []*ast.VariableDeclarator{
		{Id: declId, Init: ast.StringLiteral("s3cr3t")},
	}}
	useStmt := &ast.ExpressionStatement{Expression: &ast.CallExpression{
		Callee:    ast.Ident("atob"),
		Arguments: []ast.Expression{useId},
	}}
	prog := &ast.Program{Body: []ast.Statement{keyDecl, useStmt}}
	tree := ast.NewTree(prog, "")
	_ = tree

	ctxSet := DeclarationWithContext(useId, false)
	found := false
	for _, n := range ctxSet {
		if n == ast.Node(keyDecl) {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the declaring statement of a referenced identifier to be pulled into context")
	}
	if ctxSet[0] != ast.Node(keyDecl) {
		t.Fatalf("expected the declaration to sort before its use in source order, got %v first", ctxSet[0])
	}
}

func TestDeclarationWithContextExcludesOwnAncestorsByDefault(t *testing.T) {
	fnParam := ast.Ident("a")
	inner := ast.Ident("a")
	fn := &ast.FunctionDeclaration{
		Id:     ast.Ident("f"),
		Params: []ast.Expression{fnParam},
		Body: &ast.BlockStatement{Body: []ast.Statement{
			&ast.ReturnStatement{Argument: inner},
		}},
	}
	prog := &ast.Program{Body: []ast.Statement{fn}}
	ast.NewTree(prog, "")

	ctxSet := DeclarationWithContext(inner, false)
	for _, n := range ctxSet {
		if n == ast.Node(fn) {
			// fn is the nearest enclosing statement via the return
			// statement's ancestor chain only if inner resolves back
			// to fn itself as its own "declaration statement" - that
			// would be a cycle and must not duplicate beyond the
			// initial seed.
		}
	}
	count := 0
	for _, n := range ctxSet {
		if n == ast.Node(fn) {
			count++
		}
	}
	if count > 1 {
		t.Fatalf("ancestor of the original node must not be added twice, got %d occurrences", count)
	}
}
