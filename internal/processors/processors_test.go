package processors

import (
	"strings"
	"testing"

	"github.com/nocturnelabs/restringer/internal/driver"
	"github.com/nocturnelabs/restringer/internal/jsparse"
)

func TestDetect_ObfuscatorIO_SniffsDebugTrapMarker(t *testing.T) {
	b, ok := Detect(`var _0x1 = { "removeCookie": function () { while (true) {} } };`)
	if !ok || b.Name != "obfuscator.io" {
		t.Fatalf("expected obfuscator.io bundle, got %+v ok=%v", b, ok)
	}
}

func TestDetect_FunctionToArray_SniffsReturnArrayShape(t *testing.T) {
	b, ok := Detect(`function words() { return ["a", "b", "c"]; }`)
	if !ok || b.Name != "function-to-array" {
		t.Fatalf("expected function-to-array bundle, got %+v ok=%v", b, ok)
	}
}

func TestDetect_PlainSource_NoBundle(t *testing.T) {
	if _, ok := Detect(`var x = 1 + 2;`); ok {
		t.Fatalf("expected no bundle match on a plain arithmetic source")
	}
}

func TestObfuscatorIOBundle_BypassesRemoveCookieTrap(t *testing.T) {
	src := `var handlers = { "removeCookie": function () { debuggerLoop(); } };` + "\n"
	tree, err := jsparse.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := driver.ApplyIteratively(tree, ObfuscatorIO.Pre, 10)
	if !out.Changed {
		t.Fatalf("expected the debug trap to be bypassed")
	}
	if !strings.Contains(out.Source, `"bypassed!"`) {
		t.Fatalf("expected the bypass stub in output, got %q", out.Source)
	}
	if strings.Contains(out.Source, "debuggerLoop") {
		t.Fatalf("expected the original trap body to be gone, got %q", out.Source)
	}
}

func TestFunctionToArrayBundle_InlinesAccessorCalls(t *testing.T) {
	src := "function words() {\n  return [\"a\", \"b\", \"c\"];\n}\nvar x = words();\n"
	tree, err := jsparse.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := driver.ApplyIteratively(tree, FunctionToArray.Pre, 10)
	if !out.Changed {
		t.Fatalf("expected the accessor call to be inlined")
	}
	if !strings.Contains(out.Source, `var x = ["a", "b", "c"];`) {
		t.Fatalf("expected the array literal inlined at the call site, got %q", out.Source)
	}
}
