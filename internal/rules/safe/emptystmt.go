package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// EmptyStmt drops a stray `;` sitting in a statement list (Program,
// BlockStatement, or a switch case's body). It never touches an
// EmptyStatement that IS a control-flow body - For/While/DoWhile loop
// bodies with no statements are left alone, matching the Arborist's own
// deletion-demotion table (§4.B), which exists precisely because that
// position must stay syntactically non-empty.
type EmptyStmt struct{}

func (EmptyStmt) Name() string { return "empty-stmt" }

func (EmptyStmt) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindEmptyStatement) {
		if n.ParentKey().Index >= 0 {
			out = append(out, n)
		}
	}
	return out
}

func (EmptyStmt) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	arb.MarkNode(n, nil)
	return nil
}
