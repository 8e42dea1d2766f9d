package restringer

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/safe"
)

// TestDeobfuscate_RepresentativeScenarios drives Deobfuscate end to end
// through the shipped parser and printer over one representative
// sample per rule family: base64 literal decoding, string constant
// folding, literal-array indexing, IIFE-shell unwrapping, switch
// linearization, deterministic-if resolution, and eval-literal
// resolution.
func TestDeobfuscate_RepresentativeScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []string // substrings the deobfuscated output must contain
		absent []string // substrings it must no longer contain
	}{
		{
			name:   "base64-decode",
			source: `const encoded = atob('cGFzc3dvcmQ9aGFja01lOTQh');` + "\n",
			want:   []string{`"password=hackMe94!"`},
			absent: []string{"atob"},
		},
		{
			name:   "string-constant-fold",
			source: `var x = 'a' + 'b' + 'c';` + "\n",
			want:   []string{`"abc"`},
			absent: []string{"+"},
		},
		{
			name:   "literal-array-index",
			source: arraySample() + "log(A[3]);\n",
			want:   []string{"log(40)"},
			absent: []string{"A[3]"},
		},
		{
			name:   "iife-shell",
			source: `(function(){ return 42; })();` + "\n",
			want:   []string{"42"},
			absent: []string{"function"},
		},
		{
			name:   "switch-linearize",
			source: `var s = 0; switch (s) { case 0: a(); s = 1; break; case 1: b(); break; }` + "\n",
			want:   []string{"a()", "b()"},
			absent: []string{"switch", "s = 1"},
		},
		{
			name:   "deterministic-if",
			source: `if (true) do_a(); else do_b();` + "\n",
			want:   []string{"do_a()"},
			absent: []string{"do_b()", "else"},
		},
		{
			name:   "eval-literal",
			source: `eval('console.log("hi")');` + "\n",
			want:   []string{`console.log("hi")`},
			absent: []string{"eval("},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(tc.source)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			changed, limitReached, err := r.Deobfuscate(context.Background())
			if err != nil {
				t.Fatalf("Deobfuscate: %v", err)
			}
			if limitReached {
				t.Fatalf("did not expect the iteration budget to be exhausted for %q", tc.source)
			}
			if !changed {
				t.Fatalf("expected source to change, got unchanged %q", r.Script())
			}
			got := r.Script()
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Fatalf("expected output to contain %q, got %q", w, got)
				}
			}
			for _, a := range tc.absent {
				if strings.Contains(got, a) {
					t.Fatalf("expected output to no longer contain %q, got %q", a, got)
				}
			}
		})
	}
}

func TestDeobfuscate_PlainSource_ReportsNoChange(t *testing.T) {
	r, err := New("f(g(h()));\n")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	changed, limitReached, err := r.Deobfuscate(context.Background())
	if err != nil {
		t.Fatalf("Deobfuscate: %v", err)
	}
	if changed || limitReached {
		t.Fatalf("expected no change and no limit hit, got changed=%v limitReached=%v", changed, limitReached)
	}
}

func TestDeobfuscate_TinyIterationBudget_ReportsLimitReached(t *testing.T) {
	r, err := New(
		"var x = 1+1+1+1+1+1+1+1;\n",
		WithMaxIterations(1),
		WithSafeRules([]rules.Rule{safe.FoldBinary{}}),
		WithUnsafeRules(nil),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, limitReached, err := r.Deobfuscate(context.Background())
	if err != nil {
		t.Fatalf("Deobfuscate: %v", err)
	}
	if !limitReached {
		t.Fatalf("expected the tight iteration budget to be exhausted")
	}
}

func arraySample() string {
	var sb strings.Builder
	sb.WriteString("var A = [")
	for i := 0; i < 21; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa((i + 1) * 10))
	}
	sb.WriteString("];\n")
	return sb.String()
}
