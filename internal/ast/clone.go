package ast

// Clone produces a structural copy of n with a fresh identity: every
// descendant is a distinct node value, none sharing a pointer with the
// original or with any other clone. Parent/parentKey/scope/lineage/id
// are left zero-valued; the next Tree.Reindex call (triggered by the
// Arborist on commit) assigns them. Rules must call Clone before
// inserting the same source construct at more than one location (§4.A:
// "never aliases").
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *Program:
		c := &Program{base: base{rng: t.rng, src: t.src}, Body: cloneStmts(t.Body)}
		return c
	case *Literal:
		c := *t
		c.base = base{rng: t.rng, src: t.src}
		return &c
	case *Identifier:
		c := &Identifier{base: base{rng: t.rng, src: t.src}, Name: t.Name}
		return c
	case *ThisExpression:
		return &ThisExpression{base: base{rng: t.rng, src: t.src}}
	case *MemberExpression:
		return &MemberExpression{
			base:     base{rng: t.rng, src: t.src},
			Object:   cloneExpr(t.Object),
			Property: cloneExpr(t.Property),
			Computed: t.Computed,
			Optional: t.Optional,
		}
	case *CallExpression:
		return &CallExpression{
			base:      base{rng: t.rng, src: t.src},
			Callee:    cloneExpr(t.Callee),
			Arguments: cloneExprs(t.Arguments),
			Optional:  t.Optional,
		}
	case *NewExpression:
		return &NewExpression{
			base:      base{rng: t.rng, src: t.src},
			Callee:    cloneExpr(t.Callee),
			Arguments: cloneExprs(t.Arguments),
		}
	case *FunctionDeclaration:
		return &FunctionDeclaration{
			base:      base{rng: t.rng, src: t.src},
			Id:        cloneIdentPtr(t.Id),
			Params:    cloneExprs(t.Params),
			Body:      cloneBlock(t.Body),
			Async:     t.Async,
			Generator: t.Generator,
		}
	case *FunctionExpression:
		return &FunctionExpression{
			base:      base{rng: t.rng, src: t.src},
			Id:        cloneIdentPtr(t.Id),
			Params:    cloneExprs(t.Params),
			Body:      cloneBlock(t.Body),
			Async:     t.Async,
			Generator: t.Generator,
		}
	case *ArrowFunctionExpression:
		return &ArrowFunctionExpression{
			base:           base{rng: t.rng, src: t.src},
			Params:         cloneExprs(t.Params),
			Body:           Clone(t.Body),
			ExpressionBody: t.ExpressionBody,
			Async:          t.Async,
		}
	case *ClassDeclaration:
		body := make([]*MethodDefinition, len(t.Body))
		for i, m := range t.Body {
			body[i] = Clone(m).(*MethodDefinition)
		}
		return &ClassDeclaration{
			base:       base{rng: t.rng, src: t.src},
			Id:         cloneIdentPtr(t.Id),
			SuperClass: cloneExpr(t.SuperClass),
			Body:       body,
		}
	case *MethodDefinition:
		return &MethodDefinition{
			base:     base{rng: t.rng, src: t.src},
			Key:      cloneExpr(t.Key),
			Computed: t.Computed,
			MKind:    t.MKind,
			Value:    Clone(t.Value).(*FunctionExpression),
			Static:   t.Static,
		}
	case *VariableDeclaration:
		decls := make([]*VariableDeclarator, len(t.Declarations))
		for i, d := range t.Declarations {
			decls[i] = Clone(d).(*VariableDeclarator)
		}
		return &VariableDeclaration{
			base:         base{rng: t.rng, src: t.src},
			VKind:        t.VKind,
			Declarations: decls,
		}
	case *VariableDeclarator:
		return &VariableDeclarator{
			base: base{rng: t.rng, src: t.src},
			Id:   cloneExpr(t.Id),
			Init: cloneExpr(t.Init),
		}
	case *AssignmentExpression:
		return &AssignmentExpression{
			base:     base{rng: t.rng, src: t.src},
			Operator: t.Operator,
			Left:     cloneExpr(t.Left),
			Right:    cloneExpr(t.Right),
		}
	case *BinaryExpression:
		return &BinaryExpression{
			base:     base{rng: t.rng, src: t.src},
			Operator: t.Operator,
			Left:     cloneExpr(t.Left),
			Right:    cloneExpr(t.Right),
		}
	case *LogicalExpression:
		return &LogicalExpression{
			base:     base{rng: t.rng, src: t.src},
			Operator: t.Operator,
			Left:     cloneExpr(t.Left),
			Right:    cloneExpr(t.Right),
		}
	case *UnaryExpression:
		return &UnaryExpression{
			base:     base{rng: t.rng, src: t.src},
			Operator: t.Operator,
			Argument: cloneExpr(t.Argument),
			Prefix:   t.Prefix,
		}
	case *UpdateExpression:
		return &UpdateExpression{
			base:     base{rng: t.rng, src: t.src},
			Operator: t.Operator,
			Argument: cloneExpr(t.Argument),
			Prefix:   t.Prefix,
		}
	case *ConditionalExpression:
		return &ConditionalExpression{
			base:       base{rng: t.rng, src: t.src},
			Test:       cloneExpr(t.Test),
			Consequent: cloneExpr(t.Consequent),
			Alternate:  cloneExpr(t.Alternate),
		}
	case *SequenceExpression:
		return &SequenceExpression{base: base{rng: t.rng, src: t.src}, Expressions: cloneExprs(t.Expressions)}
	case *TemplateLiteral:
		quasis := make([]TemplateElement, len(t.Quasis))
		copy(quasis, t.Quasis)
		return &TemplateLiteral{base: base{rng: t.rng, src: t.src}, Quasis: quasis, Expressions: cloneExprs(t.Expressions)}
	case *ArrayExpression:
		return &ArrayExpression{base: base{rng: t.rng, src: t.src}, Elements: cloneExprs(t.Elements)}
	case *ObjectExpression:
		props := make([]*Property, len(t.Properties))
		for i, p := range t.Properties {
			props[i] = Clone(p).(*Property)
		}
		return &ObjectExpression{base: base{rng: t.rng, src: t.src}, Properties: props}
	case *Property:
		return &Property{
			base:      base{rng: t.rng, src: t.src},
			Key:       cloneExpr(t.Key),
			Value:     cloneExpr(t.Value),
			Computed:  t.Computed,
			Shorthand: t.Shorthand,
			PKind:     t.PKind,
		}
	case *BlockStatement:
		return &BlockStatement{base: base{rng: t.rng, src: t.src}, Body: cloneStmts(t.Body)}
	case *ExpressionStatement:
		return &ExpressionStatement{base: base{rng: t.rng, src: t.src}, Expression: cloneExpr(t.Expression)}
	case *IfStatement:
		return &IfStatement{
			base:       base{rng: t.rng, src: t.src},
			Test:       cloneExpr(t.Test),
			Consequent: cloneStmt(t.Consequent),
			Alternate:  cloneStmt(t.Alternate),
		}
	case *ForStatement:
		return &ForStatement{
			base:   base{rng: t.rng, src: t.src},
			Init:   Clone(t.Init),
			Test:   cloneExpr(t.Test),
			Update: cloneExpr(t.Update),
			Body:   cloneStmt(t.Body),
		}
	case *ForInStatement:
		return &ForInStatement{base: base{rng: t.rng, src: t.src}, Left: Clone(t.Left), Right: cloneExpr(t.Right), Body: cloneStmt(t.Body)}
	case *ForOfStatement:
		return &ForOfStatement{base: base{rng: t.rng, src: t.src}, Left: Clone(t.Left), Right: cloneExpr(t.Right), Body: cloneStmt(t.Body), Await: t.Await}
	case *WhileStatement:
		return &WhileStatement{base: base{rng: t.rng, src: t.src}, Test: cloneExpr(t.Test), Body: cloneStmt(t.Body)}
	case *DoWhileStatement:
		return &DoWhileStatement{base: base{rng: t.rng, src: t.src}, Body: cloneStmt(t.Body), Test: cloneExpr(t.Test)}
	case *SwitchStatement:
		cases := make([]*SwitchCase, len(t.Cases))
		for i, c := range t.Cases {
			cases[i] = Clone(c).(*SwitchCase)
		}
		return &SwitchStatement{base: base{rng: t.rng, src: t.src}, Discriminant: cloneExpr(t.Discriminant), Cases: cases}
	case *SwitchCase:
		return &SwitchCase{base: base{rng: t.rng, src: t.src}, Test: cloneExpr(t.Test), Consequent: cloneStmts(t.Consequent)}
	case *ReturnStatement:
		return &ReturnStatement{base: base{rng: t.rng, src: t.src}, Argument: cloneExpr(t.Argument)}
	case *BreakStatement:
		return &BreakStatement{base: base{rng: t.rng, src: t.src}, Label: cloneIdentPtr(t.Label)}
	case *ContinueStatement:
		return &ContinueStatement{base: base{rng: t.rng, src: t.src}, Label: cloneIdentPtr(t.Label)}
	case *EmptyStatement:
		return &EmptyStatement{base: base{rng: t.rng, src: t.src}}
	default:
		return nil
	}
}

func cloneExpr(e Expression) Expression {
	if e == nil {
		return nil
	}
	return Clone(e).(Expression)
}

func cloneStmt(s Statement) Statement {
	if s == nil {
		return nil
	}
	return Clone(s).(Statement)
}

func cloneIdentPtr(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	return Clone(id).(*Identifier)
}

func cloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	return Clone(b).(Node).(*BlockStatement)
}

func cloneExprs(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneStmts(ss []Statement) []Statement {
	if ss == nil {
		return nil
	}
	out := make([]Statement, len(ss))
	for i, s := range ss {
		out[i] = cloneStmt(s)
	}
	return out
}
