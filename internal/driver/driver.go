// Package driver runs a rule list over an *ast.Tree to a fixpoint: each
// pass matches every rule in order, stages and commits its edits, and
// the pass loop stops either when two successive emissions are
// byte-identical (the tree stopped changing) or the iteration budget
// runs out. Grounded on the teacher's ast.TransformationPipeline
// bottom-up apply loop (internal/ast/transform.go), generalized from a
// fixed transformation list to an ordered, budget-capped rule list and
// reworked to detect the fixpoint by re-emitted text rather than a
// single boolean "did anything change" flag, since a rule can stage an
// edit that reproduces its input (a canonicalizing rewrite already at
// its fixed point).
package driver

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/format"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/printer"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// Outcome reports what a call to ApplyIteratively did.
type Outcome struct {
	Source       string   // the final emission
	Changed      bool     // Source differs from the tree's emission before this call
	LimitReached bool     // the pass loop stopped because maxIterations ran out, not fixpoint
	Iterations   int      // full passes actually run
	Retired      []string // rule names retired after a failed commit
	Diagnostics  []error  // one entry per retirement, typically an *errors.StandardError
}

// ApplyIteratively runs rs over tree until two successive full passes
// produce identical source or maxIterations passes have run, whichever
// comes first. Edits are committed through a fresh Arborist for every
// candidate, so one rule's commit is visible to the next rule in the
// same pass. A rule whose Commit fails is retired for the remainder of
// this call, and the tree is re-parsed from the source the pass started
// with, discarding that pass's earlier edits.
func ApplyIteratively(tree *ast.Tree, rs []rules.Rule, maxIterations int) Outcome {
	out := Outcome{Source: printer.Print(tree)}
	before := out.Source

	retired := map[string]bool{}
	diff := format.NewDiffFormatter(format.DefaultDiffOptions())

	for maxIterations > 0 {
		prev := out.Source
		anyEdit := false

		for _, r := range rs {
			if retired[r.Name()] {
				continue
			}
			edited, err := applyRule(tree, r)
			if err != nil {
				retired[r.Name()] = true
				out.Retired = append(out.Retired, r.Name())
				out.Diagnostics = append(out.Diagnostics, err)
				if rolled, perr := jsparse.Parse(prev); perr == nil {
					*tree = *rolled
				}
				continue
			}
			anyEdit = anyEdit || edited
		}

		out.Source = printer.Print(tree)
		out.Iterations++
		maxIterations--

		progressed := diff.GenerateDiff("", prev, out.Source).HasChanges
		if !anyEdit || !progressed {
			break
		}
		if maxIterations == 0 {
			out.LimitReached = true
		}
	}

	out.Changed = out.Source != before
	return out
}

// applyRule runs one pass of r: Match once, skip stale candidates
// against earlier commits in the same pass, Transform and commit each
// survivor individually so a later candidate sees an up-to-date tree.
// Reports whether anything was actually staged.
func applyRule(tree *ast.Tree, r rules.Rule) (bool, error) {
	candidates := r.Match(tree, rules.Filter{})
	if len(candidates) == 0 {
		return false, nil
	}

	var touched []ast.Node
	edited := false

	for _, n := range candidates {
		if rules.IsStale(n, touched) {
			continue
		}
		arb := arborist.New(tree)
		if err := r.Transform(tree, arb, n); err != nil {
			continue
		}
		if !arb.Pending() {
			continue
		}
		if err := arb.Commit(); err != nil {
			return edited, err
		}
		touched = append(touched, n)
		edited = true
	}

	return edited, nil
}
