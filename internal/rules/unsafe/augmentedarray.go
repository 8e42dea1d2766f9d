package unsafe

import (
	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
)

// AugmentedArray statically executes the obfuscator.io "string array
// shuffle" idiom:
//
//	(function(arr, count) {
//	    while (--count) { arr.push(arr.shift()); }
//	})(arrayProvider, N);
//
// against the array arrayProvider resolves to - either a directly
// initialized ArrayExpression, or one hidden one level down inside a
// function-wrapped getter (`var f = function(){ var a = [...]; f =
// function(){ return a; }; return a; }`, the self-rewriting-getter
// pattern obfuscator.io generates). It rewrites the underlying array
// literal into its final, rotated order and deletes the shuffle call,
// so every later index into the array reads the same values without
// the array ever being shuffled at runtime.
type AugmentedArray struct{}

func (AugmentedArray) Name() string { return "augmented-array" }

func (AugmentedArray) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		if _, _, ok := shuffleRotation(n.(*ast.CallExpression)); ok {
			out = append(out, n)
		}
	}
	return out
}

func (AugmentedArray) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	arr, rotations, ok := shuffleRotation(call)
	if !ok {
		return nil
	}
	arb.MarkNode(arr, &ast.ArrayExpression{Elements: rotateLeft(arr.Elements, rotations)})
	if es, ok := n.Parent().(*ast.ExpressionStatement); ok {
		arb.MarkNode(es, nil)
	}
	return nil
}

// shuffleRotation recognizes the shuffle-IIFE call and reports the
// array it targets and how many `arr.push(arr.shift())` rotations it
// performs.
func shuffleRotation(call *ast.CallExpression) (*ast.ArrayExpression, int, bool) {
	fn, ok := call.Callee.(*ast.FunctionExpression)
	if !ok || len(fn.Params) != 2 || len(call.Arguments) != 2 {
		return nil, 0, false
	}
	arrParam, ok := fn.Params[0].(*ast.Identifier)
	if !ok {
		return nil, 0, false
	}
	countParam, ok := fn.Params[1].(*ast.Identifier)
	if !ok {
		return nil, 0, false
	}
	stmt, ok := rules.SingleStatement(fn.Body)
	if !ok {
		return nil, 0, false
	}
	ws, ok := stmt.(*ast.WhileStatement)
	if !ok || !isCountDownTest(ws.Test, countParam) {
		return nil, 0, false
	}
	if !isShuffleBody(ws.Body, arrParam) {
		return nil, 0, false
	}
	countArg, ok := call.Arguments[1].(*ast.Literal)
	if !ok || countArg.LitKind != ast.LitNumber {
		return nil, 0, false
	}
	arrArgID, ok := call.Arguments[0].(*ast.Identifier)
	if !ok || arrArgID.DeclNode == nil {
		return nil, 0, false
	}
	arr, ok := resolveArrayProvider(arrArgID.DeclNode)
	if !ok {
		return nil, 0, false
	}
	rotations := int(countArg.Num) - 1
	if rotations <= 0 || len(arr.Elements) == 0 {
		return nil, 0, false
	}
	return arr, rotations % len(arr.Elements), true
}

// isCountDownTest reports whether test is `--count`.
func isCountDownTest(test ast.Expression, count *ast.Identifier) bool {
	upd, ok := test.(*ast.UpdateExpression)
	if !ok || upd.Operator != "--" || !upd.Prefix {
		return false
	}
	id, ok := upd.Argument.(*ast.Identifier)
	return ok && id.DeclNode == count.DeclNode
}

// isShuffleBody reports whether body is exactly `arr.push(arr.shift());`,
// possibly wrapped in a block.
func isShuffleBody(body ast.Statement, arr *ast.Identifier) bool {
	stmt := body
	if block, ok := body.(*ast.BlockStatement); ok {
		s, ok := rules.SingleStatement(block)
		if !ok {
			return false
		}
		stmt = s
	}
	es, ok := stmt.(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	push, ok := es.Expression.(*ast.CallExpression)
	if !ok || len(push.Arguments) != 1 {
		return false
	}
	if !isMethodCallOn(push.Callee, arr, "push") {
		return false
	}
	shift, ok := push.Arguments[0].(*ast.CallExpression)
	if !ok || len(shift.Arguments) != 0 {
		return false
	}
	return isMethodCallOn(shift.Callee, arr, "shift")
}

func isMethodCallOn(callee ast.Expression, id *ast.Identifier, method string) bool {
	member, ok := callee.(*ast.MemberExpression)
	if !ok {
		return false
	}
	name, ok := member.PropertyName()
	if !ok || name != method {
		return false
	}
	recv, ok := member.Object.(*ast.Identifier)
	return ok && recv.DeclNode == id.DeclNode
}

// resolveArrayProvider finds the ArrayExpression a declared identifier
// ultimately holds, either directly or one level inside a function
// whose body declares and returns it.
func resolveArrayProvider(decl *ast.Identifier) (*ast.ArrayExpression, bool) {
	declarator, ok := decl.Parent().(*ast.VariableDeclarator)
	if !ok {
		return nil, false
	}
	if arr, ok := declarator.Init.(*ast.ArrayExpression); ok {
		return arr, true
	}
	fn, ok := declarator.Init.(*ast.FunctionExpression)
	if !ok {
		return nil, false
	}
	for _, s := range fn.Body.Body {
		vd, ok := s.(*ast.VariableDeclaration)
		if !ok {
			continue
		}
		for _, d := range vd.Declarations {
			if arr, ok := d.Init.(*ast.ArrayExpression); ok {
				return arr, true
			}
		}
	}
	return nil, false
}

// rotateLeft returns a new slice equivalent to n repetitions of
// `elems.push(elems.shift())`.
func rotateLeft(elems []ast.Expression, n int) []ast.Expression {
	if len(elems) == 0 {
		return elems
	}
	n %= len(elems)
	out := make([]ast.Expression, len(elems))
	copy(out, elems[n:])
	copy(out[len(elems)-n:], elems[:n])
	return out
}
