// Package printer re-emits an *ast.Tree as JavaScript source. Every
// node caches the exact source slice it was parsed from (ast.Node.Src);
// the printer reuses that text verbatim wherever the arborist hasn't
// cleared it, so a pass that only touches a handful of nodes produces a
// diff against the original limited to those nodes, not a full
// reformat. Ancestors of an edit have their Src cleared by
// internal/arborist on commit and are rebuilt structurally here, one
// level at a time, so reuse extends as deep into the tree as the edit
// allows.
package printer

import (
	"strconv"
	"strings"

	"github.com/nocturnelabs/restringer/internal/ast"
)

// Options controls indentation, mirroring the knobs internal/format
// already exposes for the teacher's own language.
type Options struct {
	IndentSize int
	PreferTabs bool
}

// DefaultOptions returns the engine's house style: two-space indent.
func DefaultOptions() Options {
	return Options{IndentSize: 2}
}

// Print renders tree's current Program as JavaScript source using the
// default options.
func Print(tree *ast.Tree) string {
	return New(DefaultOptions()).PrintProgram(tree.Root)
}

// New returns a Printer using opts.
func New(opts Options) *Printer { return &Printer{opts: opts} }

// Printer holds indentation state across one Print call. It is not
// safe for concurrent use; construct one per emission.
type Printer struct {
	opts  Options
	depth int
}

// PrintProgram renders p, one top-level statement per line.
func (pr *Printer) PrintProgram(p *ast.Program) string {
	var b strings.Builder
	for i, s := range p.Body {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(pr.indent())
		b.WriteString(pr.stmt(s))
	}
	b.WriteByte('\n')
	return b.String()
}

func (pr *Printer) indent() string {
	if pr.depth == 0 {
		return ""
	}
	if pr.opts.PreferTabs {
		return strings.Repeat("\t", pr.depth)
	}
	return strings.Repeat(" ", pr.depth*pr.opts.IndentSize)
}

// expr renders e, reusing its cached Src when the arborist hasn't
// invalidated it.
func (pr *Printer) expr(e ast.Expression) string {
	if e == nil {
		return ""
	}
	if src := e.Src(); src != "" {
		return src
	}
	return pr.exprStructural(e)
}

func (pr *Printer) exprStructural(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.Literal:
		return literalText(n)
	case *ast.Identifier:
		return n.Name
	case *ast.ThisExpression:
		return "this"
	case *ast.MemberExpression:
		obj := pr.exprParen(n.Object, memberNeedsParen(n.Object))
		op := "."
		if n.Optional {
			op = "?."
		}
		if n.Computed {
			return obj + strings.TrimSuffix(op, ".") + "[" + pr.expr(n.Property) + "]"
		}
		return obj + op + pr.expr(n.Property)
	case *ast.CallExpression:
		callee := pr.exprParen(n.Callee, calleeNeedsParen(n.Callee))
		op := ""
		if n.Optional {
			op = "?."
		}
		return callee + op + "(" + pr.exprList(n.Arguments) + ")"
	case *ast.NewExpression:
		return "new " + pr.exprParen(n.Callee, calleeNeedsParen(n.Callee)) + "(" + pr.exprList(n.Arguments) + ")"
	case *ast.FunctionExpression:
		return pr.functionText("function", n.Id, n.Params, n.Body, n.Async, n.Generator)
	case *ast.ArrowFunctionExpression:
		return pr.arrowText(n)
	case *ast.AssignmentExpression:
		return pr.expr(n.Left) + " " + n.Operator + " " + pr.expr(n.Right)
	case *ast.BinaryExpression:
		return pr.exprParen(n.Left, needsParenIn(n.Left)) + " " + n.Operator + " " + pr.exprParen(n.Right, needsParenIn(n.Right))
	case *ast.LogicalExpression:
		return pr.exprParen(n.Left, needsParenIn(n.Left)) + " " + n.Operator + " " + pr.exprParen(n.Right, needsParenIn(n.Right))
	case *ast.UnaryExpression:
		arg := pr.exprParen(n.Argument, needsParenIn(n.Argument))
		if isWordOperator(n.Operator) {
			return n.Operator + " " + arg
		}
		return n.Operator + arg
	case *ast.UpdateExpression:
		if n.Prefix {
			return n.Operator + pr.expr(n.Argument)
		}
		return pr.expr(n.Argument) + n.Operator
	case *ast.ConditionalExpression:
		return pr.exprParen(n.Test, needsParenIn(n.Test)) + " ? " + pr.expr(n.Consequent) + " : " + pr.expr(n.Alternate)
	case *ast.SequenceExpression:
		return pr.exprList(n.Expressions)
	case *ast.TemplateLiteral:
		return pr.templateText(n)
	case *ast.ArrayExpression:
		parts := make([]string, len(n.Elements))
		for i, el := range n.Elements {
			if el == nil {
				parts[i] = ""
				continue
			}
			parts[i] = pr.expr(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.ObjectExpression:
		if len(n.Properties) == 0 {
			return "{}"
		}
		parts := make([]string, len(n.Properties))
		for i, p := range n.Properties {
			parts[i] = pr.propertyText(p)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	default:
		return e.String()
	}
}

func (pr *Printer) exprParen(e ast.Expression, paren bool) string {
	s := pr.expr(e)
	if paren {
		return "(" + s + ")"
	}
	return s
}

func (pr *Printer) exprList(es []ast.Expression) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = pr.expr(e)
	}
	return strings.Join(parts, ", ")
}

func (pr *Printer) propertyText(p *ast.Property) string {
	if p.Shorthand {
		return pr.expr(p.Key)
	}
	prefix := ""
	if p.PKind == "get" || p.PKind == "set" {
		prefix = p.PKind + " "
	}
	key := pr.expr(p.Key)
	if p.Computed {
		key = "[" + key + "]"
	}
	if prefix != "" {
		return prefix + key + "() " + pr.expr(p.Value)
	}
	return key + ": " + pr.expr(p.Value)
}

func (pr *Printer) templateText(n *ast.TemplateLiteral) string {
	var b strings.Builder
	b.WriteByte('`')
	for i, q := range n.Quasis {
		b.WriteString(q.Raw)
		if i < len(n.Expressions) {
			b.WriteString("${")
			b.WriteString(pr.expr(n.Expressions[i]))
			b.WriteByte('}')
		}
	}
	b.WriteByte('`')
	return b.String()
}

func (pr *Printer) functionText(keyword string, id *ast.Identifier, params []ast.Expression, body *ast.BlockStatement, async, generator bool) string {
	var b strings.Builder
	if async {
		b.WriteString("async ")
	}
	b.WriteString(keyword)
	if generator {
		b.WriteByte('*')
	}
	if id != nil {
		b.WriteByte(' ')
		b.WriteString(id.Name)
	}
	b.WriteByte('(')
	b.WriteString(pr.exprList(params))
	b.WriteString(") ")
	b.WriteString(pr.block(body))
	return b.String()
}

func (pr *Printer) arrowText(n *ast.ArrowFunctionExpression) string {
	var b strings.Builder
	if n.Async {
		b.WriteString("async ")
	}
	b.WriteByte('(')
	b.WriteString(pr.exprList(n.Params))
	b.WriteString(") => ")
	if n.ExpressionBody {
		b.WriteString(pr.expr(n.Body.(ast.Expression)))
	} else {
		b.WriteString(pr.block(n.Body.(*ast.BlockStatement)))
	}
	return b.String()
}

// stmt renders s, reusing its cached Src when present.
func (pr *Printer) stmt(s ast.Statement) string {
	if s == nil {
		return ""
	}
	if src := s.Src(); src != "" {
		return src
	}
	return pr.stmtStructural(s)
}

func (pr *Printer) stmtStructural(s ast.Statement) string {
	switch n := s.(type) {
	case *ast.EmptyStatement:
		return ";"
	case *ast.ExpressionStatement:
		return pr.expr(n.Expression) + ";"
	case *ast.VariableDeclaration:
		return pr.variableDeclText(n) + ";"
	case *ast.FunctionDeclaration:
		return pr.functionText("function", n.Id, n.Params, n.Body, n.Async, n.Generator)
	case *ast.ClassDeclaration:
		return pr.classText(n)
	case *ast.BlockStatement:
		return pr.block(n)
	case *ast.IfStatement:
		return pr.ifText(n)
	case *ast.ForStatement:
		return pr.forText(n)
	case *ast.ForInStatement:
		return "for (" + pr.forHead(n.Left) + " in " + pr.expr(n.Right) + ") " + pr.bodyStmt(n.Body)
	case *ast.ForOfStatement:
		await := ""
		if n.Await {
			await = "await "
		}
		return "for " + await + "(" + pr.forHead(n.Left) + " of " + pr.expr(n.Right) + ") " + pr.bodyStmt(n.Body)
	case *ast.WhileStatement:
		return "while (" + pr.expr(n.Test) + ") " + pr.bodyStmt(n.Body)
	case *ast.DoWhileStatement:
		return "do " + pr.bodyStmt(n.Body) + " while (" + pr.expr(n.Test) + ");"
	case *ast.SwitchStatement:
		return pr.switchText(n)
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return "return;"
		}
		return "return " + pr.expr(n.Argument) + ";"
	case *ast.BreakStatement:
		if n.Label == nil {
			return "break;"
		}
		return "break " + n.Label.Name + ";"
	case *ast.ContinueStatement:
		if n.Label == nil {
			return "continue;"
		}
		return "continue " + n.Label.Name + ";"
	default:
		return s.String()
	}
}

func (pr *Printer) forHead(n ast.Node) string {
	if vd, ok := n.(*ast.VariableDeclaration); ok {
		return pr.variableDeclText(vd)
	}
	if e, ok := n.(ast.Expression); ok {
		return pr.expr(e)
	}
	return n.String()
}

func (pr *Printer) variableDeclText(n *ast.VariableDeclaration) string {
	parts := make([]string, len(n.Declarations))
	for i, d := range n.Declarations {
		if d.Init == nil {
			parts[i] = pr.expr(d.Id)
		} else {
			parts[i] = pr.expr(d.Id) + " = " + pr.expr(d.Init)
		}
	}
	return n.VKind + " " + strings.Join(parts, ", ")
}

func (pr *Printer) classText(n *ast.ClassDeclaration) string {
	var b strings.Builder
	b.WriteString("class ")
	if n.Id != nil {
		b.WriteString(n.Id.Name)
		b.WriteByte(' ')
	}
	if n.SuperClass != nil {
		b.WriteString("extends ")
		b.WriteString(pr.expr(n.SuperClass))
		b.WriteByte(' ')
	}
	b.WriteString("{\n")
	pr.depth++
	for _, m := range n.Body {
		b.WriteString(pr.indent())
		b.WriteString(pr.methodText(m))
		b.WriteByte('\n')
	}
	pr.depth--
	b.WriteString(pr.indent())
	b.WriteByte('}')
	return b.String()
}

func (pr *Printer) methodText(n *ast.MethodDefinition) string {
	var b strings.Builder
	if n.Static {
		b.WriteString("static ")
	}
	if n.MKind == "get" || n.MKind == "set" {
		b.WriteString(n.MKind)
		b.WriteByte(' ')
	}
	key := pr.expr(n.Key)
	if n.Computed {
		key = "[" + key + "]"
	}
	b.WriteString(key)
	b.WriteByte('(')
	b.WriteString(pr.exprList(n.Value.Params))
	b.WriteString(") ")
	b.WriteString(pr.block(n.Value.Body))
	return b.String()
}

func (pr *Printer) ifText(n *ast.IfStatement) string {
	s := "if (" + pr.expr(n.Test) + ") " + pr.bodyStmt(n.Consequent)
	if n.Alternate == nil {
		return s
	}
	if _, ok := n.Consequent.(*ast.BlockStatement); ok {
		s += " else "
	} else {
		s += "\n" + pr.indent() + "else "
	}
	if elseIf, ok := n.Alternate.(*ast.IfStatement); ok {
		s += pr.stmt(elseIf)
	} else {
		s += pr.bodyStmt(n.Alternate)
	}
	return s
}

func (pr *Printer) forText(n *ast.ForStatement) string {
	init, test, update := "", "", ""
	if n.Init != nil {
		init = pr.forHead(n.Init)
	}
	if n.Test != nil {
		test = pr.expr(n.Test)
	}
	if n.Update != nil {
		update = pr.expr(n.Update)
	}
	return "for (" + init + "; " + test + "; " + update + ") " + pr.bodyStmt(n.Body)
}

func (pr *Printer) switchText(n *ast.SwitchStatement) string {
	var b strings.Builder
	b.WriteString("switch (")
	b.WriteString(pr.expr(n.Discriminant))
	b.WriteString(") {\n")
	pr.depth++
	for _, c := range n.Cases {
		b.WriteString(pr.indent())
		if c.Test == nil {
			b.WriteString("default:\n")
		} else {
			b.WriteString("case ")
			b.WriteString(pr.expr(c.Test))
			b.WriteString(":\n")
		}
		pr.depth++
		for _, cs := range c.Consequent {
			b.WriteString(pr.indent())
			b.WriteString(pr.stmt(cs))
			b.WriteByte('\n')
		}
		pr.depth--
	}
	pr.depth--
	b.WriteString(pr.indent())
	b.WriteByte('}')
	return b.String()
}

// block renders a BlockStatement with its own indentation level. A
// block whose Src survived (nothing inside it was touched) is returned
// verbatim by stmt/expr before this is ever reached.
func (pr *Printer) block(n *ast.BlockStatement) string {
	if len(n.Body) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	pr.depth++
	for _, s := range n.Body {
		b.WriteString(pr.indent())
		b.WriteString(pr.stmt(s))
		b.WriteByte('\n')
	}
	pr.depth--
	b.WriteString(pr.indent())
	b.WriteByte('}')
	return b.String()
}

// bodyStmt renders a single-statement loop/if body, expanding a bare
// (non-block) statement onto its own indented line so replacing a block
// with a lone statement never runs on into the following line.
func (pr *Printer) bodyStmt(s ast.Statement) string {
	if block, ok := s.(*ast.BlockStatement); ok {
		return pr.block(block)
	}
	return pr.stmt(s)
}

func literalText(n *ast.Literal) string {
	switch n.LitKind {
	case ast.LitString:
		return strconv.Quote(n.Str)
	case ast.LitNumber:
		return strconv.FormatFloat(n.Num, 'g', -1, 64)
	case ast.LitBool:
		return strconv.FormatBool(n.Bool)
	case ast.LitNull:
		return "null"
	case ast.LitUndefined:
		return "undefined"
	case ast.LitRegExp:
		return "/" + n.Str + "/" + n.RegExpFlags
	default:
		return n.Raw
	}
}

func isWordOperator(op string) bool {
	return op == "typeof" || op == "void" || op == "delete"
}

// needsParenIn reports whether e needs parens when nested as an operand
// of another binary/logical/conditional/unary expression: binary,
// logical, conditional, assignment, sequence, arrow-function and
// function expressions get parens; every other kind is printed bare.
func needsParenIn(e ast.Expression) bool {
	switch e.(type) {
	case *ast.BinaryExpression, *ast.LogicalExpression, *ast.ConditionalExpression,
		*ast.AssignmentExpression, *ast.SequenceExpression, *ast.ArrowFunctionExpression,
		*ast.FunctionExpression:
		return true
	default:
		return false
	}
}

func memberNeedsParen(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.CallExpression, *ast.Literal, *ast.ThisExpression, *ast.ArrayExpression:
		return false
	default:
		return true
	}
}

func calleeNeedsParen(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.MemberExpression, *ast.CallExpression, *ast.ThisExpression, *ast.NewExpression:
		return false
	default:
		return true
	}
}
