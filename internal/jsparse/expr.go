package jsparse

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func (c *converter) ident(n *sitter.Node) *ast.Identifier {
	id := &ast.Identifier{Name: c.text(n)}
	c.tag(id, n)
	return id
}

// expr converts a single expression-position CST node. Constructs the
// ast package has no shape for (destructuring patterns, spread/rest,
// tagged templates, class expressions, yield/await operators) fall back
// to a raw Identifier carrying the source text verbatim, so a rule that
// merely passes the node through (prints it unchanged) still round-
// trips; only rules that pattern-match its internal structure will fail
// to fire on it, which is the same outcome as not recognizing the
// pattern at all.
func (c *converter) expr(n *sitter.Node) ast.Expression {
	switch n.Type() {
	case "identifier", "property_identifier", "shorthand_property_identifier":
		return c.ident(n)
	case "number":
		v, _ := strconv.ParseFloat(strings.ReplaceAll(c.text(n), "_", ""), 64)
		lit := &ast.Literal{LitKind: ast.LitNumber, Num: v, Raw: c.text(n)}
		c.tag(lit, n)
		return lit
	case "string":
		raw := c.text(n)
		lit := &ast.Literal{LitKind: ast.LitString, Str: stringContent(n, c.src), Raw: raw}
		c.tag(lit, n)
		return lit
	case "template_string":
		return c.templateLiteral(n)
	case "true", "false":
		lit := &ast.Literal{LitKind: ast.LitBool, Bool: n.Type() == "true", Raw: c.text(n)}
		c.tag(lit, n)
		return lit
	case "null":
		lit := &ast.Literal{LitKind: ast.LitNull, Raw: "null"}
		c.tag(lit, n)
		return lit
	case "undefined":
		lit := &ast.Literal{LitKind: ast.LitUndefined, Raw: "undefined"}
		c.tag(lit, n)
		return lit
	case "regex":
		lit := &ast.Literal{LitKind: ast.LitRegExp, Raw: c.text(n)}
		c.tag(lit, n)
		return lit
	case "this":
		this := &ast.ThisExpression{}
		c.tag(this, n)
		return this
	case "parenthesized_expression":
		if child := n.NamedChild(0); child != nil {
			return c.expr(child)
		}
	case "array":
		return c.arrayExpr(n)
	case "object":
		return c.objectExpr(n)
	case "function", "function_expression", "generator_function":
		return c.funcExpr(n)
	case "arrow_function":
		return c.arrowFunc(n)
	case "call_expression":
		return c.callExpr(n)
	case "new_expression":
		return c.newExpr(n)
	case "member_expression":
		return c.memberExpr(n, false)
	case "subscript_expression":
		return c.memberExpr(n, true)
	case "assignment_expression":
		return c.assignExpr(n, "=")
	case "augmented_assignment_expression":
		return c.augmentedAssignExpr(n)
	case "binary_expression":
		return c.binaryOrLogical(n)
	case "unary_expression":
		return c.unaryExpr(n)
	case "update_expression":
		return c.updateExpr(n)
	case "ternary_expression":
		return c.conditionalExpr(n)
	case "sequence_expression":
		return c.sequenceExpr(n)
	}
	// Unsupported shape: keep the verbatim source as an opaque
	// identifier-like placeholder rather than failing the whole parse.
	return c.ident(n)
}

func stringContent(n *sitter.Node, src []byte) string {
	raw := n.Content(src)
	if len(raw) >= 2 {
		return raw[1 : len(raw)-1]
	}
	return raw
}

func (c *converter) templateLiteral(n *sitter.Node) *ast.TemplateLiteral {
	tl := &ast.TemplateLiteral{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "string_fragment":
			tl.Quasis = append(tl.Quasis, ast.TemplateElement{Raw: c.text(child), Cooked: c.text(child)})
		case "template_substitution":
			if inner := child.NamedChild(0); inner != nil {
				tl.Expressions = append(tl.Expressions, c.expr(inner))
			}
		}
	}
	// A template always has one more quasi than substitution; tree-sitter
	// elides an empty leading/trailing string_fragment, so pad to match.
	for len(tl.Quasis) <= len(tl.Expressions) {
		tl.Quasis = append(tl.Quasis, ast.TemplateElement{})
	}
	c.tag(tl, n)
	return tl
}

func (c *converter) arrayExpr(n *sitter.Node) *ast.ArrayExpression {
	ae := &ast.ArrayExpression{}
	for _, el := range namedChildren(n) {
		ae.Elements = append(ae.Elements, c.expr(el))
	}
	c.tag(ae, n)
	return ae
}

func (c *converter) objectExpr(n *sitter.Node) *ast.ObjectExpression {
	oe := &ast.ObjectExpression{}
	for _, p := range namedChildren(n) {
		switch p.Type() {
		case "pair":
			prop := &ast.Property{PKind: "init"}
			if key := p.ChildByFieldName("key"); key != nil {
				prop.Key = c.propKey(key)
			}
			if value := p.ChildByFieldName("value"); value != nil {
				prop.Value = c.expr(value)
			}
			c.tag(prop, p)
			oe.Properties = append(oe.Properties, prop)
		case "shorthand_property_identifier":
			id := c.ident(p)
			prop := &ast.Property{Key: id, Value: id, Shorthand: true, PKind: "init"}
			c.tag(prop, p)
			oe.Properties = append(oe.Properties, prop)
		case "method_definition":
			prop := c.methodAsProperty(p)
			oe.Properties = append(oe.Properties, prop)
		}
	}
	c.tag(oe, n)
	return oe
}

func (c *converter) propKey(n *sitter.Node) ast.Expression {
	if n.Type() == "string" {
		return c.expr(n)
	}
	if n.Type() == "number" {
		return c.expr(n)
	}
	if n.Type() == "computed_property_name" {
		if inner := n.NamedChild(0); inner != nil {
			return c.expr(inner)
		}
	}
	return c.ident(n)
}

func (c *converter) methodAsProperty(n *sitter.Node) *ast.Property {
	prop := &ast.Property{PKind: "init"}
	if key := n.ChildByFieldName("name"); key != nil {
		prop.Key = c.propKey(key)
	}
	fn := &ast.FunctionExpression{Params: c.params(n.ChildByFieldName("parameters"))}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = c.block(body)
	} else {
		fn.Body = &ast.BlockStatement{}
	}
	c.tag(fn, n)
	prop.Value = fn
	c.tag(prop, n)
	return prop
}

func (c *converter) funcExpr(n *sitter.Node) *ast.FunctionExpression {
	fe := &ast.FunctionExpression{
		Async: strings.HasPrefix(strings.TrimSpace(c.text(n)), "async"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		fe.Id = c.ident(name)
	}
	fe.Params = c.params(n.ChildByFieldName("parameters"))
	if body := n.ChildByFieldName("body"); body != nil {
		fe.Body = c.block(body)
	} else {
		fe.Body = &ast.BlockStatement{}
	}
	c.tag(fe, n)
	return fe
}

func (c *converter) arrowFunc(n *sitter.Node) *ast.ArrowFunctionExpression {
	af := &ast.ArrowFunctionExpression{
		Async: strings.HasPrefix(strings.TrimSpace(c.text(n)), "async"),
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		af.Params = c.params(params)
	} else if p := n.ChildByFieldName("parameter"); p != nil {
		af.Params = []ast.Expression{c.ident(p)}
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		af.Body = &ast.BlockStatement{}
	} else if body.Type() == "statement_block" {
		af.Body = c.block(body)
	} else {
		af.ExpressionBody = true
		af.Body = c.expr(body)
	}
	c.tag(af, n)
	return af
}

func (c *converter) callArgs(n *sitter.Node) []ast.Expression {
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var out []ast.Expression
	for _, a := range namedChildren(args) {
		out = append(out, c.expr(a))
	}
	return out
}

func (c *converter) callExpr(n *sitter.Node) *ast.CallExpression {
	ce := &ast.CallExpression{Arguments: c.callArgs(n)}
	if fn := n.ChildByFieldName("function"); fn != nil {
		ce.Callee = c.expr(fn)
	}
	c.tag(ce, n)
	return ce
}

func (c *converter) newExpr(n *sitter.Node) *ast.NewExpression {
	ne := &ast.NewExpression{Arguments: c.callArgs(n)}
	if ctor := n.ChildByFieldName("constructor"); ctor != nil {
		ne.Callee = c.expr(ctor)
	}
	c.tag(ne, n)
	return ne
}

func (c *converter) memberExpr(n *sitter.Node, computed bool) *ast.MemberExpression {
	me := &ast.MemberExpression{Computed: computed}
	if obj := n.ChildByFieldName("object"); obj != nil {
		me.Object = c.expr(obj)
	}
	if computed {
		if idx := n.ChildByFieldName("index"); idx != nil {
			me.Property = c.expr(idx)
		}
	} else if prop := n.ChildByFieldName("property"); prop != nil {
		me.Property = c.ident(prop)
	}
	c.tag(me, n)
	return me
}

func (c *converter) assignExpr(n *sitter.Node, op string) *ast.AssignmentExpression {
	ae := &ast.AssignmentExpression{Operator: op}
	if left := n.ChildByFieldName("left"); left != nil {
		ae.Left = c.expr(left)
	}
	if right := n.ChildByFieldName("right"); right != nil {
		ae.Right = c.expr(right)
	}
	c.tag(ae, n)
	return ae
}

func (c *converter) augmentedAssignExpr(n *sitter.Node) *ast.AssignmentExpression {
	op := "="
	for i := 0; i < int(n.ChildCount()); i++ {
		t := n.Child(i).Type()
		if strings.HasSuffix(t, "=") && t != "=" {
			op = t
		}
	}
	return c.assignExpr(n, op)
}

func (c *converter) binaryOrLogical(n *sitter.Node) ast.Expression {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	op := binaryOperator(n)
	var l, r ast.Expression
	if left != nil {
		l = c.expr(left)
	}
	if right != nil {
		r = c.expr(right)
	}
	switch op {
	case "&&", "||", "??":
		le := &ast.LogicalExpression{Operator: op, Left: l, Right: r}
		c.tag(le, n)
		return le
	default:
		be := &ast.BinaryExpression{Operator: op, Left: l, Right: r}
		c.tag(be, n)
		return be
	}
}

func binaryOperator(n *sitter.Node) string {
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == left || child == right {
			continue
		}
		if !child.IsNamed() {
			return child.Type()
		}
	}
	return ""
}

func (c *converter) unaryExpr(n *sitter.Node) *ast.UnaryExpression {
	ue := &ast.UnaryExpression{Prefix: true}
	if n.ChildCount() > 0 {
		ue.Operator = n.Child(0).Type()
	}
	if arg := n.ChildByFieldName("argument"); arg != nil {
		ue.Argument = c.expr(arg)
	}
	c.tag(ue, n)
	return ue
}

func (c *converter) updateExpr(n *sitter.Node) *ast.UpdateExpression {
	ue := &ast.UpdateExpression{}
	arg := n.ChildByFieldName("argument")
	if arg != nil {
		ue.Argument = c.expr(arg)
	}
	// Prefix forms (`++x`) have the operator as the first child; postfix
	// forms (`x++`) have it as the last.
	if n.ChildCount() > 0 {
		first := n.Child(0)
		if first.Type() == "++" || first.Type() == "--" {
			ue.Prefix = true
			ue.Operator = first.Type()
		} else {
			last := n.Child(int(n.ChildCount()) - 1)
			ue.Operator = last.Type()
		}
	}
	c.tag(ue, n)
	return ue
}

func (c *converter) conditionalExpr(n *sitter.Node) *ast.ConditionalExpression {
	ce := &ast.ConditionalExpression{}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		ce.Test = c.expr(cond)
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		ce.Consequent = c.expr(cons)
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		ce.Alternate = c.expr(alt)
	}
	c.tag(ce, n)
	return ce
}

func (c *converter) sequenceExpr(n *sitter.Node) *ast.SequenceExpression {
	se := &ast.SequenceExpression{}
	for _, e := range namedChildren(n) {
		se.Expressions = append(se.Expressions, c.expr(e))
	}
	c.tag(se, n)
	return se
}
