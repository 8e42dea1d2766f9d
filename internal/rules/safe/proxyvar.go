package safe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// ProxyVar resolves `var a = b;` where b is itself a plain identifier
// read (a rename-only proxy introduced by the obfuscator), replacing
// every read of a with a clone of the Identifier b and dropping the
// now-redundant declaration.
type ProxyVar struct{}

func (ProxyVar) Name() string { return "proxy-var" }

func (ProxyVar) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindVariableDeclarator) {
		vd := n.(*ast.VariableDeclarator)
		if _, ok := proxyTarget(vd); ok {
			out = append(out, n)
		}
	}
	return out
}

func (ProxyVar) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	vd := n.(*ast.VariableDeclarator)
	target, ok := proxyTarget(vd)
	if !ok {
		return nil
	}
	id := vd.Id.(*ast.Identifier)
	for _, ref := range id.References {
		arb.MarkNode(ref, ast.Ident(target.Name))
	}
	arb.MarkNode(n, nil)
	return nil
}

func proxyTarget(vd *ast.VariableDeclarator) (*ast.Identifier, bool) {
	id, ok := vd.Id.(*ast.Identifier)
	if !ok || vd.Init == nil {
		return nil, false
	}
	target, ok := vd.Init.(*ast.Identifier)
	if !ok || target.Name == id.Name {
		return nil, false
	}
	for _, ref := range id.References {
		if isAssignmentTarget(ref) || isUpdateTarget(ref) {
			return nil, false
		}
	}
	return target, true
}
