package sandbox

import (
	"context"
	"math"

	"github.com/nocturnelabs/restringer/internal/ast"
)

// eval dispatches on expr's concrete type. Every branch either returns a
// concrete Value or BadValue; there is no error path, matching the
// sentinel-only contract callers rely on.
func (s *Sandbox) eval(ctx context.Context, expr ast.Expression, env *Env) Value {
	if expr == nil {
		return Undefined
	}
	s.steps++
	if s.steps > s.stepBudget {
		return BadValue
	}
	select {
	case <-ctx.Done():
		return BadValue
	default:
	}

	switch n := expr.(type) {
	case *ast.Literal:
		return s.evalLiteral(n)
	case *ast.Identifier:
		if v, ok := env.Get(n.Name); ok {
			return v
		}
		return BadValue
	case *ast.BinaryExpression:
		return s.evalBinary(ctx, n, env)
	case *ast.LogicalExpression:
		return s.evalLogical(ctx, n, env)
	case *ast.UnaryExpression:
		return s.evalUnary(ctx, n, env)
	case *ast.ConditionalExpression:
		test := s.eval(ctx, n.Test, env)
		if test.IsBad() {
			return BadValue
		}
		if test.Truthy() {
			return s.eval(ctx, n.Consequent, env)
		}
		return s.eval(ctx, n.Alternate, env)
	case *ast.SequenceExpression:
		var last Value = Undefined
		for _, e := range n.Expressions {
			last = s.eval(ctx, e, env)
			if last.IsBad() {
				return BadValue
			}
		}
		return last
	case *ast.TemplateLiteral:
		return s.evalTemplate(ctx, n, env)
	case *ast.ArrayExpression:
		return s.evalArray(ctx, n, env)
	case *ast.ObjectExpression:
		return s.evalObject(ctx, n, env)
	case *ast.MemberExpression:
		return s.evalMember(ctx, n, env)
	case *ast.CallExpression:
		return s.evalCall(ctx, n, env)
	default:
		return BadValue
	}
}

func (s *Sandbox) evalLiteral(n *ast.Literal) Value {
	switch n.LitKind {
	case ast.LitString:
		return Str(n.Str)
	case ast.LitNumber:
		return Num(n.Num)
	case ast.LitBool:
		return Bool(n.Bool)
	case ast.LitNull:
		return Null
	case ast.LitUndefined:
		return Undefined
	default:
		return BadValue
	}
}

func (s *Sandbox) evalBinary(ctx context.Context, n *ast.BinaryExpression, env *Env) Value {
	l := s.eval(ctx, n.Left, env)
	r := s.eval(ctx, n.Right, env)
	if l.IsBad() || r.IsBad() {
		return BadValue
	}
	switch n.Operator {
	case "+":
		if l.Kind == KindString || r.Kind == KindString || l.Kind == KindArray || r.Kind == KindArray {
			ls, ok1 := l.ToStr()
			rs, ok2 := r.ToStr()
			if !ok1 || !ok2 {
				return BadValue
			}
			return Str(ls + rs)
		}
		ln, ok1 := l.ToNumber()
		rn, ok2 := r.ToNumber()
		if !ok1 || !ok2 {
			return BadValue
		}
		return Num(ln + rn)
	case "-", "*", "/", "%", "**":
		ln, ok1 := l.ToNumber()
		rn, ok2 := r.ToNumber()
		if !ok1 || !ok2 {
			return BadValue
		}
		switch n.Operator {
		case "-":
			return Num(ln - rn)
		case "*":
			return Num(ln * rn)
		case "/":
			return Num(ln / rn)
		case "%":
			return Num(math.Mod(ln, rn))
		case "**":
			return Num(math.Pow(ln, rn))
		}
	case "==", "===":
		return Bool(valuesEqual(l, r, n.Operator == "==="))
	case "!=", "!==":
		return Bool(!valuesEqual(l, r, n.Operator == "!=="))
	case "<", "<=", ">", ">=":
		return compareValues(l, r, n.Operator)
	case "&", "|", "^", "<<", ">>", ">>>":
		ln, ok1 := l.ToNumber()
		rn, ok2 := r.ToNumber()
		if !ok1 || !ok2 {
			return BadValue
		}
		li, ri := int32(ln), int32(rn)
		switch n.Operator {
		case "&":
			return Num(float64(li & ri))
		case "|":
			return Num(float64(li | ri))
		case "^":
			return Num(float64(li ^ ri))
		case "<<":
			return Num(float64(li << uint32(ri&31)))
		case ">>":
			return Num(float64(li >> uint32(ri&31)))
		case ">>>":
			return Num(float64(uint32(li) >> uint32(ri&31)))
		}
	}
	return BadValue
}

func valuesEqual(l, r Value, strict bool) bool {
	if strict && l.Kind != r.Kind {
		return false
	}
	ln, lok := l.ToNumber()
	rn, rok := r.ToNumber()
	if lok && rok {
		return ln == rn
	}
	ls, lsok := l.ToStr()
	rs, rsok := r.ToStr()
	return lsok && rsok && ls == rs
}

func compareValues(l, r Value, op string) Value {
	ln, ok1 := l.ToNumber()
	rn, ok2 := r.ToNumber()
	if !ok1 || !ok2 {
		return BadValue
	}
	switch op {
	case "<":
		return Bool(ln < rn)
	case "<=":
		return Bool(ln <= rn)
	case ">":
		return Bool(ln > rn)
	case ">=":
		return Bool(ln >= rn)
	}
	return BadValue
}

func (s *Sandbox) evalLogical(ctx context.Context, n *ast.LogicalExpression, env *Env) Value {
	l := s.eval(ctx, n.Left, env)
	if l.IsBad() {
		return BadValue
	}
	switch n.Operator {
	case "&&":
		if !l.Truthy() {
			return l
		}
		return s.eval(ctx, n.Right, env)
	case "||":
		if l.Truthy() {
			return l
		}
		return s.eval(ctx, n.Right, env)
	case "??":
		if l.Kind != KindUndefined && l.Kind != KindNull {
			return l
		}
		return s.eval(ctx, n.Right, env)
	default:
		return BadValue
	}
}

func (s *Sandbox) evalUnary(ctx context.Context, n *ast.UnaryExpression, env *Env) Value {
	v := s.eval(ctx, n.Argument, env)
	switch n.Operator {
	case "typeof":
		if v.IsBad() {
			return BadValue
		}
		return Str(typeofValue(v))
	case "!":
		if v.IsBad() {
			return BadValue
		}
		return Bool(!v.Truthy())
	case "-":
		if num, ok := v.ToNumber(); ok {
			return Num(-num)
		}
		return BadValue
	case "+":
		if num, ok := v.ToNumber(); ok {
			return Num(num)
		}
		return BadValue
	case "~":
		if num, ok := v.ToNumber(); ok {
			return Num(float64(^int32(num)))
		}
		return BadValue
	case "void":
		return Undefined
	default:
		return BadValue
	}
}

func typeofValue(v Value) string {
	switch v.Kind {
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray, KindObject, KindNull:
		return "object"
	default:
		return "undefined"
	}
}

func (s *Sandbox) evalTemplate(ctx context.Context, n *ast.TemplateLiteral, env *Env) Value {
	var out string
	for i, q := range n.Quasis {
		out += q.Cooked
		if i < len(n.Expressions) {
			v := s.eval(ctx, n.Expressions[i], env)
			str, ok := v.ToStr()
			if !ok {
				return BadValue
			}
			out += str
		}
	}
	return Str(out)
}

func (s *Sandbox) evalArray(ctx context.Context, n *ast.ArrayExpression, env *Env) Value {
	out := make([]Value, len(n.Elements))
	for i, e := range n.Elements {
		if e == nil {
			out[i] = Undefined
			continue
		}
		v := s.eval(ctx, e, env)
		if v.IsBad() {
			return BadValue
		}
		out[i] = v
	}
	return Arr(out)
}

func (s *Sandbox) evalObject(ctx context.Context, n *ast.ObjectExpression, env *Env) Value {
	out := make(map[string]Value, len(n.Properties))
	for _, p := range n.Properties {
		var key string
		if !p.Computed {
			switch k := p.Key.(type) {
			case *ast.Identifier:
				key = k.Name
			case *ast.Literal:
				if k.LitKind != ast.LitString {
					return BadValue
				}
				key = k.Str
			default:
				return BadValue
			}
		} else {
			kv := s.eval(ctx, p.Key, env)
			str, ok := kv.ToStr()
			if !ok {
				return BadValue
			}
			key = str
		}
		v := s.eval(ctx, p.Value, env)
		if v.IsBad() {
			return BadValue
		}
		out[key] = v
	}
	return Obj(out)
}

func (s *Sandbox) evalMember(ctx context.Context, n *ast.MemberExpression, env *Env) Value {
	obj := s.eval(ctx, n.Object, env)
	if obj.IsBad() {
		return BadValue
	}
	var key string
	if !n.Computed {
		id, ok := n.Property.(*ast.Identifier)
		if !ok {
			return BadValue
		}
		key = id.Name
	} else {
		kv := s.eval(ctx, n.Property, env)
		switch {
		case kv.Kind == KindString:
			key = kv.Str
		case kv.Kind == KindNumber:
			idx := int(kv.Num)
			switch obj.Kind {
			case KindArray:
				if idx < 0 || idx >= len(obj.Arr) {
					return Undefined
				}
				return obj.Arr[idx]
			case KindString:
				runes := []rune(obj.Str)
				if idx < 0 || idx >= len(runes) {
					return Undefined
				}
				return Str(string(runes[idx]))
			}
			return BadValue
		default:
			return BadValue
		}
	}
	switch obj.Kind {
	case KindObject:
		if v, ok := obj.Obj[key]; ok {
			return v
		}
		return Undefined
	case KindArray:
		if key == "length" {
			return Num(float64(len(obj.Arr)))
		}
		return BadValue
	case KindString:
		if key == "length" {
			return Num(float64(len([]rune(obj.Str))))
		}
		return BadValue
	default:
		return BadValue
	}
}

func (s *Sandbox) evalCall(ctx context.Context, n *ast.CallExpression, env *Env) Value {
	id, ok := n.Callee.(*ast.Identifier)
	if !ok {
		return BadValue
	}
	fn, ok := s.builtins[id.Name]
	if !ok {
		return BadValue
	}
	args := make([]Value, len(n.Arguments))
	for i, a := range n.Arguments {
		v := s.eval(ctx, a, env)
		if v.IsBad() {
			return BadValue
		}
		args[i] = v
	}
	return fn(args)
}
