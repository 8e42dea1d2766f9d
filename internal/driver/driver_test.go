package driver

import (
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/safe"
)

func TestApplyIteratively_FoldsNestedBinariesOverMultiplePasses(t *testing.T) {
	tree, err := jsparse.Parse("var x = 1 + 2 + 3;\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := ApplyIteratively(tree, []rules.Rule{safe.FoldBinary{}}, 10)
	if !out.Changed {
		t.Fatalf("expected a change, got unchanged source %q", out.Source)
	}
	if out.LimitReached {
		t.Fatalf("fixpoint should have been reached well under the budget")
	}
	if out.Iterations < 2 {
		t.Fatalf("folding (1+2)+3 needs at least two passes, got %d", out.Iterations)
	}
	if !strings.Contains(out.Source, "6") {
		t.Fatalf("expected fully folded constant 6 in output, got %q", out.Source)
	}
}

func TestApplyIteratively_NoCandidates_IsNoop(t *testing.T) {
	tree, err := jsparse.Parse("var x = f();\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := ApplyIteratively(tree, []rules.Rule{safe.FoldBinary{}, safe.EmptyStmt{}}, 10)
	if out.Changed {
		t.Fatalf("expected no change, got %q", out.Source)
	}
	if out.Iterations != 1 {
		t.Fatalf("expected exactly one pass to discover the fixpoint immediately, got %d", out.Iterations)
	}
}

func TestApplyIteratively_BudgetExhausted_ReportsLimitReached(t *testing.T) {
	// Each pass only folds one level of the left-leaning chain, so a
	// long chain with a tight budget must stop mid-way.
	tree, err := jsparse.Parse("var x = 1+1+1+1+1+1+1+1;\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := ApplyIteratively(tree, []rules.Rule{safe.FoldBinary{}}, 2)
	if !out.LimitReached {
		t.Fatalf("expected the 2-pass budget to be exhausted before reaching fixpoint")
	}
	if out.Iterations != 2 {
		t.Fatalf("expected exactly 2 passes to run, got %d", out.Iterations)
	}
}

func TestApplyIteratively_RetiresRuleOnCommitInvariantViolation(t *testing.T) {
	tree, err := jsparse.Parse("f();\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ctrl := gomock.NewController(t)
	mock := NewMockRule(ctrl)
	mock.EXPECT().Name().Return("root-deleter").AnyTimes()
	mock.EXPECT().Match(gomock.Any(), gomock.Any()).Return([]ast.Node{tree.Root}).AnyTimes()
	mock.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
			arb.MarkNode(n, nil) // staging the Program root's own deletion always violates the commit invariant
			return nil
		},
	).AnyTimes()

	out := ApplyIteratively(tree, []rules.Rule{mock}, 10)
	if len(out.Retired) != 1 || out.Retired[0] != "root-deleter" {
		t.Fatalf("expected root-deleter retired after its first commit, got %v", out.Retired)
	}
	if len(out.Diagnostics) != 1 {
		t.Fatalf("expected exactly one retirement diagnostic, got %d", len(out.Diagnostics))
	}
	if out.Iterations != 1 {
		t.Fatalf("expected the retired rule to stop the loop after its one offending pass, got %d", out.Iterations)
	}
}

func TestApplyIteratively_TransformThatNeverStagesAnEdit_CountsAsNoChange(t *testing.T) {
	tree, err := jsparse.Parse("f();\ng();\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	calls := tree.Nodes(ast.KindCallExpression)
	if len(calls) != 2 {
		t.Fatalf("expected two call expressions, got %d", len(calls))
	}

	ctrl := gomock.NewController(t)
	mock := NewMockRule(ctrl)
	mock.EXPECT().Name().Return("noop").AnyTimes()
	mock.EXPECT().Match(gomock.Any(), gomock.Any()).Return(calls).Times(1)
	mock.EXPECT().Transform(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	out := ApplyIteratively(tree, []rules.Rule{mock}, 10)
	if out.Changed {
		t.Fatalf("expected no change from a rule that never stages an edit, got %q", out.Source)
	}
}

func TestApplyIteratively_DropsStrayEmptyStatement(t *testing.T) {
	tree, err := jsparse.Parse("f();\n;\ng();\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := ApplyIteratively(tree, []rules.Rule{safe.EmptyStmt{}}, 5)
	if strings.Contains(out.Source, ";\n;\n") {
		t.Fatalf("expected the stray empty statement to be dropped, got %q", out.Source)
	}
}
