package safe

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

func TestApplyShell_CollapsesForwardingWrapper(t *testing.T) {
	src := "function outer(p) {\n  return (function inner(q) {\n    return q + 1;\n  }).apply(this, arguments);\n}\n"
	out := run(t, src, ApplyShell{})
	if !out.Changed {
		t.Fatalf("expected a change")
	}
	if !strings.Contains(out.Source, "function outer(q)") {
		t.Fatalf("expected inner's params to survive, got %q", out.Source)
	}
	if strings.Contains(out.Source, "apply") {
		t.Fatalf("expected the apply-shell wrapper gone, got %q", out.Source)
	}
}

func TestArrayIndex_ResolvesLiteralElement(t *testing.T) {
	src := "var A = [10, 20, 30];\nvar x = A[1];\n"
	out := run(t, src, ArrayIndex{})
	if !strings.Contains(out.Source, "var x = 20;") {
		t.Fatalf("expected the literal element inlined, got %q", out.Source)
	}
}

func TestCallApplySimplify_RewritesCallWithThis(t *testing.T) {
	src := "foo.call(this, 1, 2);\n"
	out := run(t, src, CallApplySimplify{})
	if !strings.Contains(out.Source, "foo(1, 2)") {
		t.Fatalf("expected a direct call, got %q", out.Source)
	}
	if strings.Contains(out.Source, ".call") {
		t.Fatalf("expected .call gone, got %q", out.Source)
	}
}

func TestCallReturnsIdent_RewritesDoubleCall(t *testing.T) {
	src := "function f() {\n  return g;\n}\nvar y = f()(1, 2);\n"
	out := run(t, src, CallReturnsIdent{})
	if !strings.Contains(out.Source, "g(1, 2)") {
		t.Fatalf("expected the outer call rewritten to g(1, 2), got %q", out.Source)
	}
}

func TestConstProp_InlinesConstLiteral(t *testing.T) {
	src := "const a = 5;\nvar b = a + 1;\n"
	out := run(t, src, ConstProp{})
	if !strings.Contains(out.Source, "5 + 1") {
		t.Fatalf("expected a inlined as 5, got %q", out.Source)
	}
}

func TestDeadCode_RemovesUnreferencedDeclaration(t *testing.T) {
	src := "var unused = 1;\nfunction used() {\n  return 1;\n}\nused();\n"
	out := run(t, src, DeadCode{})
	if strings.Contains(out.Source, "unused") {
		t.Fatalf("expected the unreferenced declaration removed, got %q", out.Source)
	}
}

func TestDeadCode_RemovesUnreachableStatement(t *testing.T) {
	src := "function f() {\n  return 1;\n  var x = 2;\n}\nf();\n"
	out := run(t, src, DeadCode{})
	if strings.Contains(out.Source, "var x = 2") {
		t.Fatalf("expected the unreachable statement removed, got %q", out.Source)
	}
}

func TestDecodeBase64_DecodesLiteralArgument(t *testing.T) {
	src := "var x = atob(\"aGVsbG8=\");\n"
	out := run(t, src, DecodeBase64{})
	if !strings.Contains(out.Source, `"hello"`) {
		t.Fatalf("expected the decoded string, got %q", out.Source)
	}
}

func TestDeterministicIf_PicksTruthyBranch(t *testing.T) {
	src := "if (1) {\n  a();\n} else {\n  b();\n}\n"
	out := run(t, src, DeterministicIf{})
	if !strings.Contains(out.Source, "a()") || strings.Contains(out.Source, "b()") {
		t.Fatalf("expected only the truthy branch to survive, got %q", out.Source)
	}
	if strings.Contains(out.Source, "if (") {
		t.Fatalf("expected the if statement gone, got %q", out.Source)
	}
}

func TestDeterministicIf_DeletesWhenLosingBranchAbsent(t *testing.T) {
	src := "if (0) {\n  a();\n}\nb();\n"
	out := run(t, src, DeterministicIf{})
	if strings.Contains(out.Source, "a()") {
		t.Fatalf("expected the falsy-only if statement removed, got %q", out.Source)
	}
	if !strings.Contains(out.Source, "b()") {
		t.Fatalf("expected the trailing statement to survive, got %q", out.Source)
	}
}

func TestDirectAssign_MultipleReferencesLeavesAssignmentInPlace(t *testing.T) {
	// x has two occurrences beyond its declaration (the write here, and
	// the read in the following statement), so it never qualifies as
	// the rule's required single remaining reference.
	src := "function f() {\n  var x = 1;\n  x = 2;\n  return x;\n}\nf();\n"
	out := run(t, src, DirectAssign{})
	if out.Changed {
		t.Fatalf("expected no rewrite when the assignment target has more than one reference, got %q", out.Source)
	}
}

func TestEmptyBranches_CollapsesBothEmpty(t *testing.T) {
	src := "if (a) {} else {}\n"
	out := run(t, src, EmptyBranches{})
	if !strings.Contains(out.Source, "a;") {
		t.Fatalf("expected the test kept as a bare statement, got %q", out.Source)
	}
	if strings.Contains(out.Source, "if") {
		t.Fatalf("expected the if statement gone, got %q", out.Source)
	}
}

func TestEmptyBranches_NegatesWhenConsequentEmpty(t *testing.T) {
	src := "if (a) {} else { b(); }\n"
	out := run(t, src, EmptyBranches{})
	if !strings.Contains(out.Source, "!a") {
		t.Fatalf("expected the test negated, got %q", out.Source)
	}
	if strings.Contains(out.Source, "else") {
		t.Fatalf("expected the else branch gone, got %q", out.Source)
	}
}

func TestEmptyStmt_DropsStrayStatement(t *testing.T) {
	src := "a();\n;\nb();\n"
	out := run(t, src, EmptyStmt{})
	if !out.Changed {
		t.Fatalf("expected the stray semicolon removed")
	}
}

func TestEvalLiteral_ParsesAndSplicesLiteralBody(t *testing.T) {
	src := "eval(\"a + b\");\n"
	out := run(t, src, EvalLiteral{})
	if !strings.Contains(out.Source, "a + b") || strings.Contains(out.Source, "eval") {
		t.Fatalf("expected eval replaced by its parsed body, got %q", out.Source)
	}
}

func TestExtractSequence_SplitsReturnSequence(t *testing.T) {
	src := "function f() {\n  return (a(), b(), c());\n}\n"
	out := run(t, src, ExtractSequence{})
	if !strings.Contains(out.Source, "a();") || !strings.Contains(out.Source, "b();") {
		t.Fatalf("expected the leading side effects hoisted out, got %q", out.Source)
	}
	if !strings.Contains(out.Source, "return c();") {
		t.Fatalf("expected the narrowed return kept, got %q", out.Source)
	}
}

func TestFixedValue_InlinesSingleReadOfPureInitializer(t *testing.T) {
	src := "function f() {\n  var x = 1 + 2;\n  return x;\n}\n"
	out := run(t, src, FixedValue{})
	if !strings.Contains(out.Source, "return 1 + 2;") {
		t.Fatalf("expected x inlined at its one read, got %q", out.Source)
	}
}

func TestFoldBinary_FoldsNumericLiterals(t *testing.T) {
	src := "var x = 2 + 3;\n"
	out := run(t, src, FoldBinary{})
	if !strings.Contains(out.Source, "var x = 5;") {
		t.Fatalf("expected the fold to 5, got %q", out.Source)
	}
}

func TestFoldBinary_ConcatenatesStringLiterals(t *testing.T) {
	src := "var x = \"a\" + \"b\";\n"
	out := run(t, src, FoldBinary{})
	if !strings.Contains(out.Source, `"ab"`) {
		t.Fatalf("expected the concatenated string, got %q", out.Source)
	}
}

func TestFuncShell_InlinesCallsToConstantReturn(t *testing.T) {
	src := "function f() {\n  return 42;\n}\nvar x = f();\n"
	out := run(t, src, FuncShell{})
	if !strings.Contains(out.Source, "var x = 42;") {
		t.Fatalf("expected the call replaced by the returned literal, got %q", out.Source)
	}
}

func TestFunctionCtor_BuildsFunctionExpressionFromLiteralArgs(t *testing.T) {
	src := "var f = Function.constructor(\"a\", \"b\", \"return a + b;\");\n"
	out := run(t, src, FunctionCtor{})
	if !strings.Contains(out.Source, "function(a,b)") {
		t.Fatalf("expected a synthesized function expression, got %q", out.Source)
	}
	if strings.Contains(out.Source, "constructor") {
		t.Fatalf("expected the constructor call gone, got %q", out.Source)
	}
}

func TestIIFEShell_InlinesZeroArgIIFE(t *testing.T) {
	src := "var x = (function () {\n  return 5;\n})();\n"
	out := run(t, src, IIFEShell{})
	if !strings.Contains(out.Source, "var x = 5;") {
		t.Fatalf("expected the IIFE replaced by its returned literal, got %q", out.Source)
	}
}

func TestIIFEUnwrap_ReplacesInitializerWithReturnedExpression(t *testing.T) {
	src := "var v = (function () {\n  return 1 + 2;\n})();\n"
	out := run(t, src, IIFEUnwrap{})
	if !strings.Contains(out.Source, "var v = 1 + 2;") {
		t.Fatalf("expected the initializer replaced by the returned expression, got %q", out.Source)
	}
}

func TestLogicalIf_ReducesTruthyLeftAnd(t *testing.T) {
	src := "if (1 && x) {\n  a();\n}\n"
	out := run(t, src, LogicalIf{})
	if !strings.Contains(out.Source, "if (x)") {
		t.Fatalf("expected the truthy left operand dropped, got %q", out.Source)
	}
}

func TestNewFunction_ResolvesLiteralBodyCall(t *testing.T) {
	src := "new Function(\"return 1 + 1;\")();\n"
	out := run(t, src, NewFunction{})
	if !strings.Contains(out.Source, "1 + 1") || strings.Contains(out.Source, "Function") {
		t.Fatalf("expected the constructed function's body spliced in, got %q", out.Source)
	}
}

func TestNormalizeAccess_RewritesComputedIdentifierKey(t *testing.T) {
	src := "var y = obj[\"name\"];\n"
	out := run(t, src, NormalizeAccess{})
	if !strings.Contains(out.Source, "obj.name") {
		t.Fatalf("expected dot access, got %q", out.Source)
	}
}

func TestNormalizeAccess_LeavesReservedWordKeyComputed(t *testing.T) {
	src := "var y = obj[\"if\"];\n"
	out := run(t, src, NormalizeAccess{})
	if out.Changed {
		t.Fatalf("expected a reserved word key to stay computed, got %q", out.Source)
	}
}

func TestProxyCall_ReplacesReferencesWithForwardingTarget(t *testing.T) {
	src := "function outer(a, b) {\n  return inner(a, b);\n}\nouter(1, 2);\n"
	out := run(t, src, ProxyCall{})
	if !strings.Contains(out.Source, "inner(1, 2)") {
		t.Fatalf("expected the call site rewritten to inner, got %q", out.Source)
	}
	if strings.Contains(out.Source, "outer") {
		t.Fatalf("expected outer removed entirely, got %q", out.Source)
	}
}

func TestProxyMember_RewritesForwardingMethodCall(t *testing.T) {
	src := "var handlers = {\n  run: function (x) {\n    return other(x);\n  }\n};\nhandlers.run(1);\n"
	out := run(t, src, ProxyMember{})
	if !strings.Contains(out.Source, "other(1)") {
		t.Fatalf("expected the call rewritten through to other, got %q", out.Source)
	}
}

func TestProxyVar_RenamesReadsAndDropsDeclaration(t *testing.T) {
	src := "var b = 1;\nvar a = b;\nvar c = a + 1;\n"
	out := run(t, src, ProxyVar{})
	if !strings.Contains(out.Source, "var c = b + 1;") {
		t.Fatalf("expected reads of a renamed to b, got %q", out.Source)
	}
	if strings.Contains(out.Source, "var a") {
		t.Fatalf("expected the proxy declaration removed, got %q", out.Source)
	}
}

func TestRedundantBlock_FlattensNestedBlock(t *testing.T) {
	src := "{\n  a();\n  b();\n}\nc();\n"
	out := run(t, src, RedundantBlock{})
	if strings.Count(out.Source, "{") != 0 {
		t.Fatalf("expected the nested block flattened away, got %q", out.Source)
	}
	if !strings.Contains(out.Source, "a();") || !strings.Contains(out.Source, "c();") {
		t.Fatalf("expected all statements to survive in order, got %q", out.Source)
	}
}

func TestRedundantBlock_SkipsBlockDeclaringLet(t *testing.T) {
	src := "{\n  let x = 1;\n  use(x);\n}\n"
	out := run(t, src, RedundantBlock{})
	if out.Changed {
		t.Fatalf("expected a block-scoped binding to prevent flattening, got %q", out.Source)
	}
}

func TestSequenceSplit_SplitsCommaExpression(t *testing.T) {
	src := "a(), b(), c();\n"
	out := run(t, src, SequenceSplit{})
	if !strings.Contains(out.Source, "a();") || !strings.Contains(out.Source, "b();") || !strings.Contains(out.Source, "c();") {
		t.Fatalf("expected three separate statements, got %q", out.Source)
	}
}

func TestShortCircuitStmt_RewritesLogicalAndGuard(t *testing.T) {
	src := "a && b();\n"
	out := run(t, src, ShortCircuitStmt{})
	if !strings.Contains(out.Source, "if (a)") || !strings.Contains(out.Source, "b();") {
		t.Fatalf("expected an equivalent if statement, got %q", out.Source)
	}
}

func TestShortCircuitStmt_RewritesLogicalOrGuard(t *testing.T) {
	src := "a || b();\n"
	out := run(t, src, ShortCircuitStmt{})
	if !strings.Contains(out.Source, "if (!a)") {
		t.Fatalf("expected the negated guard, got %q", out.Source)
	}
}

func TestSimpleOpWrapper_InlinesBinaryOperatorWrapper(t *testing.T) {
	src := "function add(a, b) {\n  return a + b;\n}\nvar x = add(1, 2);\n"
	out := run(t, src, SimpleOpWrapper{})
	if !strings.Contains(out.Source, "var x = 1 + 2;") {
		t.Fatalf("expected the wrapper call replaced by the bare operator, got %q", out.Source)
	}
}

func TestSplitDeclarators_SeparatesChainedDeclaration(t *testing.T) {
	src := "let a = 1, b = 2;\n"
	out := run(t, src, SplitDeclarators{})
	if !strings.Contains(out.Source, "let a = 1;") || !strings.Contains(out.Source, "let b = 2;") {
		t.Fatalf("expected two separate declarations, got %q", out.Source)
	}
}

func TestSwitchLinearize_FollowsDiscriminantReassignment(t *testing.T) {
	src := "var s = 0;\nswitch (s) {\n  case 0:\n    a();\n    break;\n  case 1:\n    b();\n    break;\n}\n"
	out := run(t, src, SwitchLinearize{})
	if !strings.Contains(out.Source, "a();") {
		t.Fatalf("expected case 0's body to survive, got %q", out.Source)
	}
	if strings.Contains(out.Source, "switch") {
		t.Fatalf("expected the switch statement gone, got %q", out.Source)
	}
	if strings.Contains(out.Source, "b();") {
		t.Fatalf("expected case 1 unreached from a break in case 0, got %q", out.Source)
	}
}

func TestSwitchLinearize_DropsDispatcherStateAssignment(t *testing.T) {
	src := "var s = 0;\nswitch (s) {\n  case 0:\n    a();\n    s = 1;\n    break;\n  case 1:\n    b();\n    break;\n}\n"
	out := run(t, src, SwitchLinearize{})
	if !strings.Contains(out.Source, "a();") || !strings.Contains(out.Source, "b();") {
		t.Fatalf("expected both case bodies in source order, got %q", out.Source)
	}
	if strings.Contains(out.Source, "s = 1") {
		t.Fatalf("expected the dispatcher-state reassignment dropped, got %q", out.Source)
	}
	if strings.Contains(out.Source, "switch") {
		t.Fatalf("expected the switch statement gone, got %q", out.Source)
	}
}

func TestTemplateToString_CollapsesLiteralHoles(t *testing.T) {
	src := "var x = `a${1}b${2}c`;\n"
	out := run(t, src, TemplateToString{})
	if !strings.Contains(out.Source, `"a1b2c"`) {
		t.Fatalf("expected a single string literal, got %q", out.Source)
	}
}
