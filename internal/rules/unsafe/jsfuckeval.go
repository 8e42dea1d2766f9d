package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// JSFuckEval resolves a "minimal alphabet" expression - one built
// purely from empty/array literals, `!`, unary `+`/`-`, and `+`
// concatenation, the `![]+[]` / `+!![]` fragments a JSFuck-class
// obfuscator produces (property access such as `(![]+[])[+[]]` is not
// in the matched set) - by running it through the sandbox, which
// already implements the exact coercions (array-to-number through
// array-to-string, `!` truthiness) the encoding depends on. It never
// matches a subtree containing `this`: JSFuck's advanced forms use
// `this` to reach the global object, which this evaluator must not
// pretend to resolve.
type JSFuckEval struct{}

func (JSFuckEval) Name() string { return "jsfuck-eval" }

func (JSFuckEval) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindArrayExpression) {
		if root := jsfuckRoot(n); root == n {
			if _, ok := evalInContext(n, root.(ast.Expression)); ok {
				out = append(out, root)
			}
		}
	}
	for _, k := range []ast.Kind{ast.KindUnaryExpression, ast.KindBinaryExpression} {
		for _, n := range tree.Nodes(k) {
			if root := jsfuckRoot(n); root == n && containsArrayLiteral(n) {
				if _, ok := evalInContext(n, root.(ast.Expression)); ok {
					out = append(out, root)
				}
			}
		}
	}
	return out
}

func (JSFuckEval) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	if jsfuckRoot(n) != n {
		return nil
	}
	v, ok := evalInContext(n, n.(ast.Expression))
	if !ok {
		return nil
	}
	lit, ok := valueToLiteral(v)
	if !ok {
		return nil
	}
	arb.MarkNode(n, lit)
	return nil
}

// jsfuckRoot walks up from n through enclosing Unary/Binary/Array
// nodes that are themselves jsfuck-shaped, returning the outermost
// such ancestor - Match and Transform only ever act on the root, so a
// nested sub-expression never double-commits.
func jsfuckRoot(n ast.Node) ast.Node {
	if !isJSFuckShaped(n) {
		return nil
	}
	root := n
	for p := n.Parent(); p != nil && isJSFuckShaped(p); p = p.Parent() {
		root = p
	}
	return root
}

func isJSFuckShaped(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Literal:
		return true
	case *ast.ArrayExpression:
		for _, e := range v.Elements {
			if e != nil && !isJSFuckShaped(e) {
				return false
			}
		}
		return true
	case *ast.UnaryExpression:
		if v.Operator != "!" && v.Operator != "+" && v.Operator != "-" {
			return false
		}
		return isJSFuckShaped(v.Argument)
	case *ast.BinaryExpression:
		if v.Operator != "+" {
			return false
		}
		return isJSFuckShaped(v.Left) && isJSFuckShaped(v.Right)
	}
	return false
}

func containsArrayLiteral(n ast.Node) bool {
	found := false
	ast.Walk(n, func(v ast.Node) bool {
		if _, ok := v.(*ast.ArrayExpression); ok {
			found = true
		}
		return true
	})
	return found
}
