package unsafe

import (
	"strings"
	"testing"

	"github.com/nocturnelabs/restringer/internal/driver"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
)

func run(t *testing.T, src string, rs ...rules.Rule) driver.Outcome {
	t.Helper()
	tree, err := jsparse.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return driver.ApplyIteratively(tree, rs, 10)
}

func TestBinaryEval_ResolvesConstOperandThroughContext(t *testing.T) {
	src := "const x = -5;\nvar y = x + 3;\n"
	out := run(t, src, BinaryEval{})
	if !strings.Contains(out.Source, "var y = -2;") {
		t.Fatalf("expected the binary expression folded via context, got %q", out.Source)
	}
}

func TestConditionalEval_ResolvesTestThroughContext(t *testing.T) {
	src := "const x = 1;\nvar y = x ? 10 : 20;\n"
	out := run(t, src, ConditionalEval{})
	if !strings.Contains(out.Source, "var y = 10;") {
		t.Fatalf("expected the truthy branch picked via context, got %q", out.Source)
	}
}

func TestNormalizeNot_ResolvesArgumentThroughContext(t *testing.T) {
	src := "const x = 0;\nvar y = !x;\n"
	out := run(t, src, NormalizeNot{})
	if !strings.Contains(out.Source, "var y = true;") {
		t.Fatalf("expected the negation resolved via context, got %q", out.Source)
	}
}

func TestMemberAccessEval_ResolvesArrayIndexThroughContext(t *testing.T) {
	src := "var A = [1, 2, 3];\nvar y = A[1];\n"
	out := run(t, src, MemberAccessEval{})
	if !strings.Contains(out.Source, "var y = 2;") {
		t.Fatalf("expected the element resolved via context, got %q", out.Source)
	}
}

func TestMemberAccessEval_ResolvesStringCharacterIndexThroughContext(t *testing.T) {
	src := "var s = \"abc\";\nvar y = s[0];\n"
	out := run(t, src, MemberAccessEval{})
	if !strings.Contains(out.Source, `var y = "a";`) {
		t.Fatalf("expected the character resolved via context, got %q", out.Source)
	}
}

func TestMemberChainEval_ResolvesNestedChain(t *testing.T) {
	src := "var obj = {a: {b: 5}};\nvar y = obj.a.b;\n"
	out := run(t, src, MemberChainEval{})
	if !strings.Contains(out.Source, "var y = 5;") {
		t.Fatalf("expected the whole chain resolved, got %q", out.Source)
	}
}

func TestAugmentedArray_RotatesArrayAndDropsShuffleCall(t *testing.T) {
	src := "var arr = [\"a\", \"b\", \"c\", \"d\"];\n" +
		"(function (arr, count) {\n" +
		"  while (--count) {\n" +
		"    arr.push(arr.shift());\n" +
		"  }\n" +
		"})(arr, 2);\n"
	out := run(t, src, AugmentedArray{})
	if !strings.Contains(out.Source, `"b", "c", "d", "a"`) {
		t.Fatalf("expected a one-step rotation, got %q", out.Source)
	}
	if strings.Contains(out.Source, "push") {
		t.Fatalf("expected the shuffle call removed, got %q", out.Source)
	}
}

func TestBuiltinCallEval_ResolvesAllowListedCall(t *testing.T) {
	src := `var x = decodeURIComponent("a%20b");` + "\n"
	out := run(t, src, BuiltinCallEval{})
	if !strings.Contains(out.Source, `"a b"`) {
		t.Fatalf("expected the decoded string, got %q", out.Source)
	}
}

func TestJSFuckEval_ResolvesMinimalAlphabetExpression(t *testing.T) {
	src := "var x = !![];\n"
	out := run(t, src, JSFuckEval{})
	if !strings.Contains(out.Source, "var x = true;") {
		t.Fatalf("expected the jsfuck-shaped expression resolved to true, got %q", out.Source)
	}
}

func TestEvalNonLiteral_ResolvesDynamicArgument(t *testing.T) {
	src := "var code = \"1 + 2;\";\neval(code);\n"
	out := run(t, src, EvalNonLiteral{})
	if !strings.Contains(out.Source, "1 + 2;") {
		t.Fatalf("expected the resolved fragment spliced in, got %q", out.Source)
	}
	if strings.Contains(out.Source, "eval") {
		t.Fatalf("expected the eval call gone, got %q", out.Source)
	}
}

func TestPrototypeMethod_ResolvesInjectedMethodCall(t *testing.T) {
	src := "String.prototype.foo = function (a) {\n  return this + a;\n};\nvar x = \"ab\".foo(1);\n"
	out := run(t, src, PrototypeMethod{})
	if !strings.Contains(out.Source, `"ab1"`) {
		t.Fatalf("expected the injected method resolved, got %q", out.Source)
	}
}

func TestEvalNonLiteral_CachedFragmentDoesNotAliasAcrossCallSites(t *testing.T) {
	ResetCache("")
	src := "var a = \"1 + 2;\";\nvar b = \"1 + 2;\";\neval(a);\neval(b);\n"
	out := run(t, src, EvalNonLiteral{})
	// Two occurrences sit in the string declarations, two at the
	// resolved call sites.
	if strings.Count(out.Source, "1 + 2;") != 4 {
		t.Fatalf("expected both call sites resolved independently, got %q", out.Source)
	}
	if strings.Contains(out.Source, "eval") {
		t.Fatalf("expected both eval calls gone, got %q", out.Source)
	}
}

func TestLocalCallEval_ResolvesSingleReturnFunctionCall(t *testing.T) {
	src := "function add(a, b) {\n  return a + b;\n}\nvar x = add(2, 3);\n"
	out := run(t, src, LocalCallEval{})
	if !strings.Contains(out.Source, "var x = 5;") {
		t.Fatalf("expected the call resolved to its computed return value, got %q", out.Source)
	}
}
