package arborist

import "github.com/nocturnelabs/restringer/internal/ast"

// Action names what a staged deletion actually does to the tree once
// its target's parent/parentKey are known.
type Action uint8

const (
	// ActionSplice removes one element from an array-valued field
	// (statements, arguments, elements, ...); the parent's shape is
	// otherwise untouched.
	ActionSplice Action = iota
	// ActionReplaceEmpty swaps a single statement-shaped field for an
	// EmptyStatement, used for control-flow bodies that must remain
	// syntactically present.
	ActionReplaceEmpty
	// ActionDeleteParent means the field holds the parent's only
	// meaningful content; the deletion cascades to the parent itself.
	ActionDeleteParent
)

// controlFlowBodyFields names the single-statement fields of
// control-flow nodes that must become an EmptyStatement rather than be
// deleted outright, so the branch/loop body stays syntactically valid.
var controlFlowBodyFields = map[string]bool{
	"Body":       true,
	"Consequent": true,
	"Alternate":  true,
}

// DemotionFor decides what deleting the child at key of parent must do
// to keep the tree well-formed, per §4.B's deletion rules: array
// children splice out, a control-flow statement body becomes an
// EmptyStatement, and anything else cascades to deleting the parent.
func DemotionFor(parent ast.Node, key ast.ParentKey) Action {
	if key.Index >= 0 {
		return ActionSplice
	}
	switch parent.(type) {
	case *ast.IfStatement, *ast.ForStatement, *ast.ForInStatement, *ast.ForOfStatement,
		*ast.WhileStatement, *ast.DoWhileStatement:
		if controlFlowBodyFields[key.Field] {
			return ActionReplaceEmpty
		}
	}
	return ActionDeleteParent
}
