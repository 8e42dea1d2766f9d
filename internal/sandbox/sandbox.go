package sandbox

import (
	"context"
	"time"

	"github.com/nocturnelabs/restringer/internal/ast"
)

// Default budgets; see §5's "mandatory caps" requirement. A Sandbox is
// single-use per Run call but may be reused across many Run calls - it
// holds no per-evaluation state between them.
const (
	DefaultStepBudget = 20000
	DefaultTimeout    = 50 * time.Millisecond
)

// Sandbox evaluates the pure, deterministic subset of JS that unsafe
// rules need, tree-walking the shared ast.Node model directly rather
// than compiling to a separate bytecode - there is exactly one
// AST representation in this codebase and the evaluator reads it the
// same way every rule does.
type Sandbox struct {
	stepBudget int
	timeout    time.Duration
	builtins   map[string]Builtin
	steps      int
}

// New returns a Sandbox with the default step/time budgets and builtin
// table.
func New() *Sandbox {
	return &Sandbox{
		stepBudget: DefaultStepBudget,
		timeout:    DefaultTimeout,
		builtins:   defaultBuiltins(),
	}
}

// WithStepBudget overrides the per-Run step budget.
func (s *Sandbox) WithStepBudget(n int) *Sandbox { s.stepBudget = n; return s }

// WithTimeout overrides the per-Run wall-clock budget.
func (s *Sandbox) WithTimeout(d time.Duration) *Sandbox { s.timeout = d; return s }

// Install adds or overrides one builtin for this Sandbox instance,
// used by rules that need a prepared-context helper (§4.D) in scope.
func (s *Sandbox) Install(name string, fn Builtin) {
	s.builtins[name] = fn
}

// Run evaluates expr under env, enforcing the step-count and wall-clock
// budgets. It returns BadValue - never an error - for anything it
// cannot resolve, exactly as §4.C specifies.
func (s *Sandbox) Run(parent context.Context, expr ast.Expression, env *Env) Value {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()
	s.steps = 0
	if env == nil {
		env = NewEnv(nil)
	}
	return s.eval(ctx, expr, env)
}
