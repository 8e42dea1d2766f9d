package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// EmptyBranches simplifies an if-statement that has one or both empty
// branches: `if(t){}else{}` becomes `t;`, `if(t){}else A` becomes
// `if(!t) A`, and `if(t) A else {}` becomes `if(t) A`.
type EmptyBranches struct{}

func (EmptyBranches) Name() string { return "empty-branches" }

func (EmptyBranches) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindIfStatement) {
		if _, ok := emptyBranchRewrite(n.(*ast.IfStatement)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (EmptyBranches) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	repl, ok := emptyBranchRewrite(n.(*ast.IfStatement))
	if !ok {
		return nil
	}
	arb.MarkNode(n, repl)
	return nil
}

func isEmptyBranch(s ast.Statement) bool {
	if s == nil {
		return true
	}
	switch v := s.(type) {
	case *ast.EmptyStatement:
		return true
	case *ast.BlockStatement:
		return len(v.Body) == 0
	}
	return false
}

func emptyBranchRewrite(is *ast.IfStatement) (ast.Statement, bool) {
	consEmpty := isEmptyBranch(is.Consequent)
	altEmpty := isEmptyBranch(is.Alternate)
	switch {
	case consEmpty && altEmpty:
		return &ast.ExpressionStatement{Expression: is.Test}, true
	case consEmpty:
		return &ast.IfStatement{Test: &ast.UnaryExpression{Operator: "!", Prefix: true, Argument: is.Test}, Consequent: is.Alternate}, true
	case altEmpty && is.Alternate != nil:
		return &ast.IfStatement{Test: is.Test, Consequent: is.Consequent}, true
	}
	return nil, false
}
