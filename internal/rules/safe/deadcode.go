package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// DeadCode removes two shapes of code that can never execute or never
// be observed: declarations with zero remaining references whose
// initializer has no side effects, and statements that follow an
// unconditional Return/Break/Continue within the same block.
type DeadCode struct{}

func (DeadCode) Name() string { return "dead-code" }

func (DeadCode) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindVariableDeclarator) {
		vd := n.(*ast.VariableDeclarator)
		id, ok := vd.Id.(*ast.Identifier)
		if ok && len(id.References) == 0 && (vd.Init == nil || isPureExpression(vd.Init)) {
			out = append(out, n)
		}
	}
	for _, n := range tree.Nodes(ast.KindFunctionDeclaration) {
		fn := n.(*ast.FunctionDeclaration)
		if fn.Id != nil && len(fn.Id.References) == 0 {
			out = append(out, n)
		}
	}
	out = append(out, unreachableStatements(tree)...)
	return out
}

func (DeadCode) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	arb.MarkNode(n, nil)
	return nil
}

func unreachableStatements(tree *ast.Tree) []ast.Node {
	var out []ast.Node
	scan := func(body []ast.Statement) {
		terminated := false
		for _, s := range body {
			if terminated {
				out = append(out, s)
				continue
			}
			switch s.(type) {
			case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
				terminated = true
			}
		}
	}
	for _, n := range tree.Nodes(ast.KindBlockStatement) {
		scan(n.(*ast.BlockStatement).Body)
	}
	for _, n := range tree.Nodes(ast.KindProgram) {
		scan(n.(*ast.Program).Body)
	}
	return out
}
