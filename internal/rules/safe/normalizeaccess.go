package safe

import (
	"unicode"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// NormalizeAccess rewrites `obj["name"]` to `obj.name` whenever the
// string key is a valid JS identifier, undoing the obfuscator's
// computed-access-everywhere transform without changing the value
// read.
type NormalizeAccess struct{}

func (NormalizeAccess) Name() string { return "normalize-access" }

func (NormalizeAccess) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindMemberExpression) {
		m := n.(*ast.MemberExpression)
		if !m.Computed {
			continue
		}
		lit, ok := m.Property.(*ast.Literal)
		if ok && lit.LitKind == ast.LitString && isIdentifierName(lit.Str) {
			out = append(out, n)
		}
	}
	return out
}

func (NormalizeAccess) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	m := n.(*ast.MemberExpression)
	lit := m.Property.(*ast.Literal)
	replacement := &ast.MemberExpression{
		Object:   m.Object,
		Property: ast.Ident(lit.Str),
		Computed: false,
		Optional: m.Optional,
	}
	arb.MarkNode(n, replacement)
	return nil
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' && r != '$' {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return !jsReservedWords[s]
}

var jsReservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "static": true,
	"null": true, "true": true, "false": true,
}
