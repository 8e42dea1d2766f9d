package sandbox

import (
	"context"
	"testing"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func TestEvalLiteralArithmetic(t *testing.T) {
	expr := &ast.BinaryExpression{Operator: "+", Left: ast.NumberLiteral(2), Right: ast.NumberLiteral(3)}
	got := New().Run(context.Background(), expr, nil)
	if got.Kind != KindNumber || got.Num != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
}

func TestEvalFreeIdentifierIsBad(t *testing.T) {
	got := New().Run(context.Background(), ast.Ident("undeclaredGlobal"), nil)
	if !got.IsBad() {
		t.Fatalf("expected BadValue for unresolved identifier, got %v", got)
	}
}

func TestEvalIdentifierFromEnv(t *testing.T) {
	env := NewEnv(nil)
	env.Set("x", Num(7))
	got := New().Run(context.Background(), ast.Ident("x"), env)
	if got.Kind != KindNumber || got.Num != 7 {
		t.Fatalf("expected 7, got %v", got)
	}
}

func TestEvalAtobBuiltin(t *testing.T) {
	call := &ast.CallExpression{Callee: ast.Ident("atob"), Arguments: []ast.Expression{ast.StringLiteral("aGVsbG8=")}}
	got := New().Run(context.Background(), call, nil)
	if got.Kind != KindString || got.Str != "hello" {
		t.Fatalf("expected \"hello\", got %v", got)
	}
}

func TestEvalMemberAccessOnArray(t *testing.T) {
	arr := &ast.ArrayExpression{Elements: []ast.Expression{ast.StringLiteral("a"), ast.StringLiteral("b")}}
	member := &ast.MemberExpression{Object: arr, Property: ast.NumberLiteral(1), Computed: true}
	got := New().Run(context.Background(), member, nil)
	if got.Kind != KindString || got.Str != "b" {
		t.Fatalf("expected \"b\", got %v", got)
	}
}

func TestEvalStepBudgetExhausted(t *testing.T) {
	// A deeply nested sequence expression burns one step per node.
	var expr ast.Expression = ast.NumberLiteral(1)
	for i := 0; i < 10; i++ {
		expr = &ast.SequenceExpression{Expressions: []ast.Expression{expr, ast.NumberLiteral(float64(i))}}
	}
	sb := New().WithStepBudget(3)
	got := sb.Run(context.Background(), expr, nil)
	if !got.IsBad() {
		t.Fatal("expected step budget exhaustion to yield BadValue")
	}
}

func TestEvalNonBuiltinCallIsBad(t *testing.T) {
	call := &ast.CallExpression{Callee: ast.Ident("notInAllowList"), Arguments: nil}
	got := New().Run(context.Background(), call, nil)
	if !got.IsBad() {
		t.Fatal("calling a non-builtin must resolve to BadValue, never panic or error")
	}
}
