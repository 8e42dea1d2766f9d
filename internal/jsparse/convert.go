package jsparse

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nocturnelabs/restringer/internal/ast"
)

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func (c *converter) program(n *sitter.Node) *ast.Program {
	p := &ast.Program{Body: c.stmts(namedChildren(n))}
	c.tag(p, n)
	return p
}

func (c *converter) stmts(nodes []*sitter.Node) []ast.Statement {
	out := make([]ast.Statement, 0, len(nodes))
	for _, cn := range nodes {
		if s := c.stmt(cn); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// stmt converts a single statement-position CST node. Constructs the
// ast package has no Kind for (throw/try/labeled statements,
// import/export declarations) are dropped to an EmptyStatement so the
// rest of the program still parses; a rule pass never sees them as
// meaningful code either way.
func (c *converter) stmt(n *sitter.Node) ast.Statement {
	switch n.Type() {
	case "expression_statement":
		child := n.NamedChild(0)
		if child == nil {
			return c.empty(n)
		}
		es := &ast.ExpressionStatement{Expression: c.expr(child)}
		c.tag(es, n)
		return es
	case "variable_declaration", "lexical_declaration":
		return c.varDecl(n)
	case "function_declaration":
		return c.funcDecl(n)
	case "class_declaration":
		return c.classDecl(n)
	case "if_statement":
		return c.ifStmt(n)
	case "for_statement":
		return c.forStmt(n)
	case "for_in_statement":
		return c.forInOf(n)
	case "while_statement":
		return c.whileStmt(n)
	case "do_statement":
		return c.doWhileStmt(n)
	case "switch_statement":
		return c.switchStmt(n)
	case "return_statement":
		rs := &ast.ReturnStatement{}
		if child := n.NamedChild(0); child != nil {
			rs.Argument = c.expr(child)
		}
		c.tag(rs, n)
		return rs
	case "break_statement":
		bs := &ast.BreakStatement{}
		if child := n.NamedChild(0); child != nil && child.Type() == "statement_identifier" {
			bs.Label = c.ident(child)
		}
		c.tag(bs, n)
		return bs
	case "continue_statement":
		cs := &ast.ContinueStatement{}
		if child := n.NamedChild(0); child != nil && child.Type() == "statement_identifier" {
			cs.Label = c.ident(child)
		}
		c.tag(cs, n)
		return cs
	case "statement_block":
		return c.block(n)
	case "empty_statement":
		return c.empty(n)
	default:
		return c.empty(n)
	}
}

func (c *converter) empty(n *sitter.Node) *ast.EmptyStatement {
	es := &ast.EmptyStatement{}
	c.tag(es, n)
	return es
}

func (c *converter) block(n *sitter.Node) *ast.BlockStatement {
	b := &ast.BlockStatement{Body: c.stmts(namedChildren(n))}
	c.tag(b, n)
	return b
}

func declKeyword(n *sitter.Node) string {
	if n.ChildCount() > 0 {
		t := n.Child(0).Type()
		if t == "var" || t == "let" || t == "const" {
			return t
		}
	}
	return "var"
}

func (c *converter) varDecl(n *sitter.Node) *ast.VariableDeclaration {
	vd := &ast.VariableDeclaration{VKind: declKeyword(n)}
	for _, child := range namedChildren(n) {
		if child.Type() != "variable_declarator" {
			continue
		}
		d := &ast.VariableDeclarator{}
		if name := child.ChildByFieldName("name"); name != nil {
			d.Id = c.expr(name)
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = c.expr(value)
		}
		c.tag(d, child)
		vd.Declarations = append(vd.Declarations, d)
	}
	c.tag(vd, n)
	return vd
}

func (c *converter) params(n *sitter.Node) []ast.Expression {
	if n == nil {
		return nil
	}
	var out []ast.Expression
	for _, p := range namedChildren(n) {
		if p.Type() == "assignment_pattern" {
			left := p.ChildByFieldName("left")
			right := p.ChildByFieldName("right")
			if left == nil || right == nil {
				continue
			}
			ae := &ast.AssignmentExpression{Operator: "=", Left: c.expr(left), Right: c.expr(right)}
			c.tag(ae, p)
			out = append(out, ae)
			continue
		}
		// Destructuring/rest parameters have no ast.Expression shape in
		// this model; fall back to the raw identifier-like text so
		// arity still lines up for the wrapper-unwrapping rules.
		out = append(out, c.expr(p))
	}
	return out
}

func (c *converter) funcDecl(n *sitter.Node) *ast.FunctionDeclaration {
	fd := &ast.FunctionDeclaration{
		Generator: strings.Contains(c.text(n), "function*") || strings.Contains(c.text(n), "function *"),
		Async:     strings.HasPrefix(strings.TrimSpace(c.text(n)), "async"),
	}
	if name := n.ChildByFieldName("name"); name != nil {
		fd.Id = c.ident(name)
	}
	fd.Params = c.params(n.ChildByFieldName("parameters"))
	if body := n.ChildByFieldName("body"); body != nil {
		fd.Body = c.block(body)
	} else {
		fd.Body = &ast.BlockStatement{}
	}
	c.tag(fd, n)
	return fd
}

func (c *converter) classDecl(n *sitter.Node) *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{}
	if name := n.ChildByFieldName("name"); name != nil {
		cd.Id = c.ident(name)
	}
	if super := n.ChildByFieldName("superclass"); super != nil {
		cd.SuperClass = c.expr(super)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for _, m := range namedChildren(body) {
			if m.Type() != "method_definition" {
				continue
			}
			md := &ast.MethodDefinition{MKind: "method"}
			if key := m.ChildByFieldName("name"); key != nil {
				md.Key = c.ident(key)
			}
			fn := &ast.FunctionExpression{Params: c.params(m.ChildByFieldName("parameters"))}
			if b := m.ChildByFieldName("body"); b != nil {
				fn.Body = c.block(b)
			} else {
				fn.Body = &ast.BlockStatement{}
			}
			c.tag(fn, m)
			md.Value = fn
			c.tag(md, m)
			cd.Body = append(cd.Body, md)
		}
	}
	c.tag(cd, n)
	return cd
}

func (c *converter) ifStmt(n *sitter.Node) *ast.IfStatement {
	is := &ast.IfStatement{}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		is.Test = c.expr(cond)
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		is.Consequent = c.stmt(cons)
	} else {
		is.Consequent = &ast.EmptyStatement{}
	}
	if alt := n.ChildByFieldName("alternative"); alt != nil {
		if alt.Type() == "else_clause" && alt.NamedChild(0) != nil {
			alt = alt.NamedChild(0)
		}
		is.Alternate = c.stmt(alt)
	}
	c.tag(is, n)
	return is
}

func (c *converter) forStmt(n *sitter.Node) *ast.ForStatement {
	fs := &ast.ForStatement{}
	if init := n.ChildByFieldName("initializer"); init != nil {
		if init.Type() == "variable_declaration" || init.Type() == "lexical_declaration" {
			fs.Init = c.varDecl(init)
		} else {
			fs.Init = c.expr(init)
		}
	}
	if test := n.ChildByFieldName("condition"); test != nil {
		fs.Test = c.expr(test)
	}
	if upd := n.ChildByFieldName("increment"); upd != nil {
		fs.Update = c.expr(upd)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fs.Body = c.stmt(body)
	} else {
		fs.Body = &ast.EmptyStatement{}
	}
	c.tag(fs, n)
	return fs
}

func (c *converter) forInOf(n *sitter.Node) ast.Statement {
	isOf := false
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == "of" {
			isOf = true
		}
	}
	left := n.ChildByFieldName("left")
	right := n.ChildByFieldName("right")
	var body ast.Statement = &ast.EmptyStatement{}
	if b := n.ChildByFieldName("body"); b != nil {
		body = c.stmt(b)
	}
	var leftExpr ast.Node
	if left != nil {
		if left.Type() == "variable_declaration" || left.Type() == "lexical_declaration" {
			leftExpr = c.varDecl(left)
		} else {
			leftExpr = c.expr(left)
		}
	}
	var rightExpr ast.Expression
	if right != nil {
		rightExpr = c.expr(right)
	}
	if isOf {
		fo := &ast.ForOfStatement{Left: leftExpr, Right: rightExpr, Body: body}
		c.tag(fo, n)
		return fo
	}
	fi := &ast.ForInStatement{Left: leftExpr, Right: rightExpr, Body: body}
	c.tag(fi, n)
	return fi
}

func (c *converter) whileStmt(n *sitter.Node) *ast.WhileStatement {
	ws := &ast.WhileStatement{}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		ws.Test = c.expr(cond)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		ws.Body = c.stmt(body)
	} else {
		ws.Body = &ast.EmptyStatement{}
	}
	c.tag(ws, n)
	return ws
}

func (c *converter) doWhileStmt(n *sitter.Node) *ast.DoWhileStatement {
	ds := &ast.DoWhileStatement{}
	if body := n.ChildByFieldName("body"); body != nil {
		ds.Body = c.stmt(body)
	} else {
		ds.Body = &ast.EmptyStatement{}
	}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		ds.Test = c.expr(cond)
	}
	c.tag(ds, n)
	return ds
}

func (c *converter) switchStmt(n *sitter.Node) *ast.SwitchStatement {
	ss := &ast.SwitchStatement{}
	if disc := n.ChildByFieldName("value"); disc != nil {
		ss.Discriminant = c.expr(disc)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for _, caseNode := range namedChildren(body) {
			sc := &ast.SwitchCase{}
			if caseNode.Type() == "switch_case" {
				if v := caseNode.ChildByFieldName("value"); v != nil {
					sc.Test = c.expr(v)
				}
			}
			var consequent []*sitter.Node
			for i := 0; i < int(caseNode.NamedChildCount()); i++ {
				child := caseNode.NamedChild(i)
				if child == caseNode.ChildByFieldName("value") {
					continue
				}
				consequent = append(consequent, child)
			}
			sc.Consequent = c.stmts(consequent)
			c.tag(sc, caseNode)
			ss.Cases = append(ss.Cases, sc)
		}
	}
	c.tag(ss, n)
	return ss
}
