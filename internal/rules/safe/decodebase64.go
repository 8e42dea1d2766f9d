package safe

import (
	"encoding/base64"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// DecodeBase64 replaces `atob("...")` with its decoded string literal
// when the argument is itself a literal, a pure string-algebra rewrite
// that needs no sandbox frame since atob has no free variables to
// resolve.
type DecodeBase64 struct{}

func (DecodeBase64) Name() string { return "decode-base64" }

func (DecodeBase64) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		id, ok := call.Callee.(*ast.Identifier)
		if !ok || id.Name != "atob" || len(call.Arguments) != 1 {
			continue
		}
		lit, ok := call.Arguments[0].(*ast.Literal)
		if !ok || lit.LitKind != ast.LitString {
			continue
		}
		if _, err := base64.StdEncoding.DecodeString(lit.Str); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func (DecodeBase64) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	lit := call.Arguments[0].(*ast.Literal)
	decoded, err := base64.StdEncoding.DecodeString(lit.Str)
	if err != nil {
		return nil
	}
	arb.MarkNode(n, ast.StringLiteral(string(decoded)))
	return nil
}
