package unsafe

import (
	"context"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/sandbox"
)

// PrototypeMethod resolves a call through a method an obfuscator
// injected onto a prototype, `Type.prototype.name = function(...) {
// return <expr>; };`, followed by a call through it,
// `receiver.name(args)`. It binds the call's parameters and a
// synthetic `this` name to the sandbox-evaluated receiver and
// arguments, rewrites the method body's ThisExpression references to
// that synthetic name (the sandbox has no native `this` support), and
// evaluates the single return expression.
type PrototypeMethod struct{}

func (PrototypeMethod) Name() string { return "prototype-method" }

func (PrototypeMethod) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindCallExpression) {
		call := n.(*ast.CallExpression)
		fn, ok := prototypeMethodTarget(tree, call)
		if !ok {
			continue
		}
		if _, ok := evalPrototypeMethod(call, fn); ok {
			out = append(out, n)
		}
	}
	return out
}

func (PrototypeMethod) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	call := n.(*ast.CallExpression)
	fn, ok := prototypeMethodTarget(tree, call)
	if !ok {
		return nil
	}
	v, ok := evalPrototypeMethod(call, fn)
	if !ok {
		return nil
	}
	expr, ok := valueToExpression(v)
	if !ok {
		return nil
	}
	arb.MarkNode(n, expr)
	return nil
}

// prototypeMethodTarget finds the single-return FunctionExpression
// assigned to `X.prototype.name` matching call's method name and
// argument count.
func prototypeMethodTarget(tree *ast.Tree, call *ast.CallExpression) (*ast.FunctionExpression, bool) {
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok {
		return nil, false
	}
	name, ok := member.PropertyName()
	if !ok {
		return nil, false
	}
	for _, n := range tree.Nodes(ast.KindAssignmentExpression) {
		assign := n.(*ast.AssignmentExpression)
		if assign.Operator != "=" {
			continue
		}
		target, ok := assign.Left.(*ast.MemberExpression)
		if !ok {
			continue
		}
		propName, ok := target.PropertyName()
		if !ok || propName != name {
			continue
		}
		proto, ok := target.Object.(*ast.MemberExpression)
		if !ok {
			continue
		}
		if protoName, ok := proto.PropertyName(); !ok || protoName != "prototype" {
			continue
		}
		fn, ok := assign.Right.(*ast.FunctionExpression)
		if !ok || len(fn.Params) != len(call.Arguments) {
			continue
		}
		if _, ok := singleReturnExpr(fn.Body); ok {
			return fn, true
		}
	}
	return nil, false
}

func singleReturnExpr(body *ast.BlockStatement) (ast.Expression, bool) {
	stmt, ok := rules.SingleStatement(body)
	if !ok {
		return nil, false
	}
	rs, ok := stmt.(*ast.ReturnStatement)
	if !ok || rs.Argument == nil {
		return nil, false
	}
	return rs.Argument, true
}

func evalPrototypeMethod(call *ast.CallExpression, fn *ast.FunctionExpression) (sandbox.Value, bool) {
	member := call.Callee.(*ast.MemberExpression)
	sb, base := newContextSandbox(call)
	env := sandbox.NewEnv(base)

	thisName := "__proto_this__"
	thisVal := sb.Run(context.Background(), member.Object, base)
	if thisVal.IsBad() {
		return sandbox.BadValue, false
	}
	env.Set(thisName, thisVal)

	for i, p := range fn.Params {
		id, ok := p.(*ast.Identifier)
		if !ok {
			return sandbox.BadValue, false
		}
		av := sb.Run(context.Background(), call.Arguments[i], base)
		if av.IsBad() {
			return sandbox.BadValue, false
		}
		env.Set(id.Name, av)
	}

	ret, ok := singleReturnExpr(fn.Body)
	if !ok {
		return sandbox.BadValue, false
	}
	substituted := substituteThis(ret, thisName)
	v := sb.Run(context.Background(), substituted, env)
	return v, !v.IsBad()
}

// substituteThis rebuilds e, replacing every ThisExpression with a
// fresh Identifier bound to thisName, across exactly the expression
// shapes the sandbox evaluator understands; anything else is left as-
// is, which simply resolves to BadValue later if actually reached.
func substituteThis(e ast.Expression, thisName string) ast.Expression {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.ThisExpression:
		return ast.Ident(thisName)
	case *ast.BinaryExpression:
		return &ast.BinaryExpression{Operator: v.Operator, Left: substituteThis(v.Left, thisName), Right: substituteThis(v.Right, thisName)}
	case *ast.LogicalExpression:
		return &ast.LogicalExpression{Operator: v.Operator, Left: substituteThis(v.Left, thisName), Right: substituteThis(v.Right, thisName)}
	case *ast.UnaryExpression:
		return &ast.UnaryExpression{Operator: v.Operator, Prefix: v.Prefix, Argument: substituteThis(v.Argument, thisName)}
	case *ast.ConditionalExpression:
		return &ast.ConditionalExpression{Test: substituteThis(v.Test, thisName), Consequent: substituteThis(v.Consequent, thisName), Alternate: substituteThis(v.Alternate, thisName)}
	case *ast.SequenceExpression:
		exprs := make([]ast.Expression, len(v.Expressions))
		for i, x := range v.Expressions {
			exprs[i] = substituteThis(x, thisName)
		}
		return &ast.SequenceExpression{Expressions: exprs}
	case *ast.ArrayExpression:
		elems := make([]ast.Expression, len(v.Elements))
		for i, x := range v.Elements {
			elems[i] = substituteThis(x, thisName)
		}
		return &ast.ArrayExpression{Elements: elems}
	case *ast.MemberExpression:
		return &ast.MemberExpression{Object: substituteThis(v.Object, thisName), Property: v.Property, Computed: v.Computed, Optional: v.Optional}
	default:
		return e
	}
}
