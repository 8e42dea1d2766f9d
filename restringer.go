// Package restringer is the deobfuscation engine's orchestrator: it
// parses a JavaScript source once, then drives the rule-pass schedule
// (detect an obfuscator family, run its preprocessors, fold the safe
// and unsafe rule sets to a joint fixpoint, run the family's
// postprocessors, optionally sweep dead code) over the parsed tree and
// re-emits it through internal/printer. Grounded on the teacher's
// functional-options constructor convention (see
// viant-linager/analyzer's Option type) generalized from an analyzer's
// plugin hooks to the engine's rule lists and detector hook.
package restringer

import (
	"context"
	"slices"

	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/driver"
	"github.com/nocturnelabs/restringer/internal/errors"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/printer"
	"github.com/nocturnelabs/restringer/internal/processors"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/safe"
	"github.com/nocturnelabs/restringer/internal/rules/unsafe"
)

// DefaultMaxIterations is the total number of full rule-list passes a
// single Deobfuscate call may spend before giving up on reaching a
// fixpoint, shared across every stage of the schedule (preprocessors,
// every safe-to-fixpoint fold, every unsafe pass, postprocessors, the
// optional clean pass).
const DefaultMaxIterations = 500

// Detector picks the processor bundle to use for source, or reports
// that no family was recognized.
type Detector func(source string) (processors.Bundle, bool)

// Restringer holds one parsed script and the rule configuration that
// will run against it. Use New to construct one, then Deobfuscate to
// run the schedule.
type Restringer struct {
	tree     *ast.Tree
	source   string
	detector Detector
	maxIter  int
	clean    bool
	safe     []rules.Rule
	unsafe   []rules.Rule

	diagnostics []error
	retired     []string
}

// Option configures a Restringer at construction time.
type Option func(*Restringer)

// WithDetector overrides the processor-family detector, bypassing
// processors.Detect's built-in sniffing.
func WithDetector(d Detector) Option {
	return func(r *Restringer) { r.detector = d }
}

// WithMaxIterations overrides DefaultMaxIterations. Values <= 0 are
// ignored.
func WithMaxIterations(n int) Option {
	return func(r *Restringer) {
		if n > 0 {
			r.maxIter = n
		}
	}
}

// WithClean enables the optional final dead-code elimination pass.
func WithClean(enabled bool) Option {
	return func(r *Restringer) { r.clean = enabled }
}

// WithSafeRules overrides the default safe rule list.
func WithSafeRules(rs []rules.Rule) Option {
	return func(r *Restringer) { r.safe = rs }
}

// WithUnsafeRules overrides the default unsafe rule list.
func WithUnsafeRules(rs []rules.Rule) Option {
	return func(r *Restringer) { r.unsafe = rs }
}

// New parses source and builds a Restringer ready to deobfuscate it.
func New(source string, opts ...Option) (*Restringer, error) {
	tree, err := jsparse.Parse(source)
	if err != nil {
		return nil, errors.ParseError(source, err)
	}
	unsafe.ResetCache(source)

	r := &Restringer{
		tree:     tree,
		source:   source,
		detector: processors.Detect,
		maxIter:  DefaultMaxIterations,
		safe:     defaultSafeRules(),
		unsafe:   defaultUnsafeRules(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Deobfuscate runs the full schedule against the parsed tree:
//
//  1. detect an obfuscator family from the original source; if one
//     matches, run its preprocessors to a fixpoint.
//  2. run the safe rule set to a fixpoint.
//  3. run the unsafe set to a fixpoint, then the safe set to a fixpoint again,
//     repeating that pair until neither stage makes further progress
//     or the iteration budget runs out.
//  4. if a family was detected, run its postprocessors to a fixpoint.
//  5. if WithClean(true) was set, sweep dead code.
//
// It returns whether the final source differs from the one New parsed,
// and whether the budget (DefaultMaxIterations, or WithMaxIterations'
// override) was exhausted before every stage reached its own fixpoint -
// in that case the tree reflects the best progress made so far, not a
// failure. ctx is checked between stages only; a single rule pass never
// blocks on anything but the sandboxed evaluator's own timeout.
func (r *Restringer) Deobfuscate(ctx context.Context) (changed bool, limitReached bool, err error) {
	before := r.source
	remaining := r.maxIter
	r.diagnostics, r.retired = nil, nil

	bundle, detected := Bundle{}, false
	if r.detector != nil {
		bundle, detected = r.detector(r.source)
	}

	run := func(rs []rules.Rule) driver.Outcome {
		if remaining <= 0 {
			limitReached = true
			return driver.Outcome{Source: printer.Print(r.tree)}
		}
		active := make([]rules.Rule, 0, len(rs))
		for _, rule := range rs {
			if !slices.Contains(r.retired, rule.Name()) {
				active = append(active, rule)
			}
		}
		out := driver.ApplyIteratively(r.tree, active, remaining)
		remaining -= out.Iterations
		if out.LimitReached {
			limitReached = true
		}
		r.diagnostics = append(r.diagnostics, out.Diagnostics...)
		r.retired = append(r.retired, out.Retired...)
		return out
	}

	if detected && len(bundle.Pre) > 0 {
		run(bundle.Pre)
	}

	run(r.safe)

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			return false, limitReached, err
		}
		unsafeOut := run(r.unsafe)
		safeOut := run(r.safe)
		if !unsafeOut.Changed && !safeOut.Changed {
			break
		}
	}
	if remaining <= 0 {
		limitReached = true
	}

	if detected && len(bundle.Post) > 0 {
		run(bundle.Post)
	}

	if r.clean {
		run([]rules.Rule{safe.DeadCode{}})
	}

	r.source = printer.Print(r.tree)
	return r.source != before, limitReached, nil
}

// Script returns the current source text - the original until
// Deobfuscate has run, the deobfuscated output afterward.
func (r *Restringer) Script() string { return r.source }

// SafeMethods returns the ordered safe rule list currently in effect.
func (r *Restringer) SafeMethods() []rules.Rule {
	return append([]rules.Rule(nil), r.safe...)
}

// UnsafeMethods returns the ordered unsafe rule list currently in
// effect.
func (r *Restringer) UnsafeMethods() []rules.Rule {
	return append([]rules.Rule(nil), r.unsafe...)
}

// SetSafeMethods replaces the safe rule list a later Deobfuscate call
// will use.
func (r *Restringer) SetSafeMethods(rs []rules.Rule) { r.safe = rs }

// SetUnsafeMethods replaces the unsafe rule list a later Deobfuscate
// call will use.
func (r *Restringer) SetUnsafeMethods(rs []rules.Rule) { r.unsafe = rs }

// Diagnostics reports one error per rule retired during the most
// recent Deobfuscate call, in retirement order.
func (r *Restringer) Diagnostics() []error {
	return append([]error(nil), r.diagnostics...)
}

// Bundle re-exports processors.Bundle so callers configuring
// WithDetector don't need a second import.
type Bundle = processors.Bundle

func defaultSafeRules() []rules.Rule {
	return []rules.Rule{
		safe.IIFEShell{},
		safe.IIFEUnwrap{},
		safe.FuncShell{},
		safe.ApplyShell{},
		safe.CallApplySimplify{},
		safe.CallReturnsIdent{},
		safe.SimpleOpWrapper{},
		safe.ProxyVar{},
		safe.ProxyMember{},
		safe.ProxyCall{},
		safe.DirectAssign{},
		safe.ConstProp{},
		safe.FixedValue{},
		safe.ArrayIndex{},
		safe.NormalizeAccess{},
		safe.TemplateToString{},
		safe.FoldBinary{},
		safe.EvalLiteral{},
		safe.DecodeBase64{},
		safe.FunctionCtor{},
		safe.NewFunction{},
		safe.DeterministicIf{},
		safe.LogicalIf{},
		safe.EmptyBranches{},
		safe.ShortCircuitStmt{},
		safe.SwitchLinearize{},
		safe.RedundantBlock{},
		safe.SequenceSplit{},
		safe.ExtractSequence{},
		safe.SplitDeclarators{},
		safe.EmptyStmt{},
	}
}

func defaultUnsafeRules() []rules.Rule {
	return []rules.Rule{
		unsafe.AugmentedArray{},
		unsafe.NormalizeNot{},
		unsafe.BinaryEval{},
		unsafe.ConditionalEval{},
		unsafe.MemberAccessEval{},
		unsafe.MemberChainEval{},
		unsafe.PrototypeMethod{},
		unsafe.BuiltinCallEval{},
		unsafe.LocalCallEval{},
		unsafe.EvalNonLiteral{},
		unsafe.JSFuckEval{},
	}
}
