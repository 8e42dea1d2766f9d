package unsafe

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/cache"
	"github.com/nocturnelabs/restringer/internal/jsparse"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// EvalNonLiteral resolves `eval(expr)` where expr is not already a
// plain string literal (safe.EvalLiteral owns that case) by evaluating
// expr through the sandbox against its declaration context. When the
// resulting source fails to parse outright - common when an
// obfuscator concatenates statements without separators - it retries
// once with a light-touch ASI repair: a newline inserted after every
// `)`/`}` not immediately followed by `/` (which would otherwise read
// as the start of a division or regex literal).
type EvalNonLiteral struct{}

func (EvalNonLiteral) Name() string { return "eval-non-literal" }

func (EvalNonLiteral) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		if _, ok := evalNonLiteralFragment(n, call); ok {
			out = append(out, n)
		}
	}
	return out
}

func (EvalNonLiteral) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	fragment, ok := evalNonLiteralFragment(n, call)
	if !ok {
		return nil
	}
	// fragment may be shared with another call site through scriptCache
	// when both resolved to identical source text, so every node pulled
	// out of it must be cloned before insertion (§4.E: "never aliases").
	if len(fragment.Root.Body) == 1 {
		if es, ok := fragment.Root.Body[0].(*ast.ExpressionStatement); ok {
			arb.MarkNode(n, ast.Clone(es.Expression).(ast.Expression))
			return nil
		}
	}
	if parentStmt, ok := n.Parent().(*ast.ExpressionStatement); ok && parentStmt.ParentKey().Index >= 0 {
		body := make([]ast.Statement, len(fragment.Root.Body))
		for i, s := range fragment.Root.Body {
			body[i] = ast.Clone(s).(ast.Statement)
		}
		arb.MarkSpliceStatements(parentStmt, body)
		return nil
	}
	return nil
}

func evalNonLiteralFragment(anchor ast.Node, call *ast.CallExpression) (*ast.Tree, bool) {
	id, ok := call.Callee.(*ast.Identifier)
	if !ok || id.Name != "eval" || id.DeclNode != nil {
		return nil, false
	}
	if len(call.Arguments) != 1 {
		return nil, false
	}
	if _, ok := call.Arguments[0].(*ast.Literal); ok {
		return nil, false // safe.EvalLiteral's case
	}
	v, ok := evalInContext(anchor, call.Arguments[0])
	if !ok || v.Kind != sandbox.KindString {
		return nil, false
	}
	src := v.Str
	if e, ok := scriptCache.Get("eval-non-literal", src); ok {
		return e.Fragment, true
	}
	if fragment, err := jsparse.Parse(src); err == nil {
		scriptCache.Put("eval-non-literal", src, cache.Entry{Fragment: fragment})
		return fragment, true
	}
	if fragment, err := jsparse.Parse(asiRepair(src)); err == nil {
		scriptCache.Put("eval-non-literal", src, cache.Entry{Fragment: fragment})
		return fragment, true
	}
	return nil, false
}

// asiRepair inserts a newline after every `)` or `}` not immediately
// followed by `/`, a minimal automatic-semicolon-insertion nudge for
// source that otherwise parses as one long ambiguous expression.
func asiRepair(src string) string {
	var b strings.Builder
	for i := 0; i < len(src); i++ {
		c := src[i]
		b.WriteByte(c)
		if c == ')' || c == '}' {
			if i+1 >= len(src) || src[i+1] != '/' {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
