package safe

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// TemplateToString collapses a TemplateLiteral whose holes are all
// Literals into a single string Literal.
type TemplateToString struct{}

func (TemplateToString) Name() string { return "template-to-string" }

func (TemplateToString) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindTemplateLiteral) {
		if n.(*ast.TemplateLiteral).AllLiteralHoles() {
			out = append(out, n)
		}
	}
	return out
}

func (TemplateToString) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	tmpl := n.(*ast.TemplateLiteral)
	var b strings.Builder
	for i, q := range tmpl.Quasis {
		b.WriteString(q.Cooked)
		if i < len(tmpl.Expressions) {
			s, ok := literalToStr(tmpl.Expressions[i].(*ast.Literal))
			if !ok {
				return nil
			}
			b.WriteString(s)
		}
	}
	arb.MarkNode(n, ast.StringLiteral(b.String()))
	return nil
}
