package ast

// Visitor implements one method per node Kind, following the open/closed
// visitor pattern: traversal and transformation code depends only on
// this interface, never on a type switch over every node type. Every
// node's Accept dispatches to it; the printer, the context extractor
// and the rules do not use it, and walk the tree with type switches and
// Walk instead.
type Visitor interface {
	VisitProgram(n *Program) interface{}
	VisitLiteral(n *Literal) interface{}
	VisitIdentifier(n *Identifier) interface{}
	VisitThisExpression(n *ThisExpression) interface{}
	VisitMemberExpression(n *MemberExpression) interface{}
	VisitCallExpression(n *CallExpression) interface{}
	VisitNewExpression(n *NewExpression) interface{}
	VisitFunctionDeclaration(n *FunctionDeclaration) interface{}
	VisitFunctionExpression(n *FunctionExpression) interface{}
	VisitArrowFunctionExpression(n *ArrowFunctionExpression) interface{}
	VisitClassDeclaration(n *ClassDeclaration) interface{}
	VisitMethodDefinition(n *MethodDefinition) interface{}
	VisitVariableDeclaration(n *VariableDeclaration) interface{}
	VisitVariableDeclarator(n *VariableDeclarator) interface{}
	VisitAssignmentExpression(n *AssignmentExpression) interface{}
	VisitBinaryExpression(n *BinaryExpression) interface{}
	VisitLogicalExpression(n *LogicalExpression) interface{}
	VisitUnaryExpression(n *UnaryExpression) interface{}
	VisitUpdateExpression(n *UpdateExpression) interface{}
	VisitConditionalExpression(n *ConditionalExpression) interface{}
	VisitSequenceExpression(n *SequenceExpression) interface{}
	VisitTemplateLiteral(n *TemplateLiteral) interface{}
	VisitArrayExpression(n *ArrayExpression) interface{}
	VisitObjectExpression(n *ObjectExpression) interface{}
	VisitProperty(n *Property) interface{}
	VisitBlockStatement(n *BlockStatement) interface{}
	VisitExpressionStatement(n *ExpressionStatement) interface{}
	VisitIfStatement(n *IfStatement) interface{}
	VisitForStatement(n *ForStatement) interface{}
	VisitForInStatement(n *ForInStatement) interface{}
	VisitForOfStatement(n *ForOfStatement) interface{}
	VisitWhileStatement(n *WhileStatement) interface{}
	VisitDoWhileStatement(n *DoWhileStatement) interface{}
	VisitSwitchStatement(n *SwitchStatement) interface{}
	VisitSwitchCase(n *SwitchCase) interface{}
	VisitReturnStatement(n *ReturnStatement) interface{}
	VisitBreakStatement(n *BreakStatement) interface{}
	VisitContinueStatement(n *ContinueStatement) interface{}
	VisitEmptyStatement(n *EmptyStatement) interface{}
}

// BaseVisitor implements Visitor with a no-op at every method, so a
// concrete visitor need only override the handful of kinds it cares
// about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(n *Program) interface{}                                 { return nil }
func (BaseVisitor) VisitLiteral(n *Literal) interface{}                                 { return nil }
func (BaseVisitor) VisitIdentifier(n *Identifier) interface{}                           { return nil }
func (BaseVisitor) VisitThisExpression(n *ThisExpression) interface{}                   { return nil }
func (BaseVisitor) VisitMemberExpression(n *MemberExpression) interface{}               { return nil }
func (BaseVisitor) VisitCallExpression(n *CallExpression) interface{}                   { return nil }
func (BaseVisitor) VisitNewExpression(n *NewExpression) interface{}                     { return nil }
func (BaseVisitor) VisitFunctionDeclaration(n *FunctionDeclaration) interface{}         { return nil }
func (BaseVisitor) VisitFunctionExpression(n *FunctionExpression) interface{}           { return nil }
func (BaseVisitor) VisitArrowFunctionExpression(n *ArrowFunctionExpression) interface{} { return nil }
func (BaseVisitor) VisitClassDeclaration(n *ClassDeclaration) interface{}               { return nil }
func (BaseVisitor) VisitMethodDefinition(n *MethodDefinition) interface{}               { return nil }
func (BaseVisitor) VisitVariableDeclaration(n *VariableDeclaration) interface{}         { return nil }
func (BaseVisitor) VisitVariableDeclarator(n *VariableDeclarator) interface{}           { return nil }
func (BaseVisitor) VisitAssignmentExpression(n *AssignmentExpression) interface{}       { return nil }
func (BaseVisitor) VisitBinaryExpression(n *BinaryExpression) interface{}               { return nil }
func (BaseVisitor) VisitLogicalExpression(n *LogicalExpression) interface{}             { return nil }
func (BaseVisitor) VisitUnaryExpression(n *UnaryExpression) interface{}                 { return nil }
func (BaseVisitor) VisitUpdateExpression(n *UpdateExpression) interface{}               { return nil }
func (BaseVisitor) VisitConditionalExpression(n *ConditionalExpression) interface{}     { return nil }
func (BaseVisitor) VisitSequenceExpression(n *SequenceExpression) interface{}           { return nil }
func (BaseVisitor) VisitTemplateLiteral(n *TemplateLiteral) interface{}                 { return nil }
func (BaseVisitor) VisitArrayExpression(n *ArrayExpression) interface{}                 { return nil }
func (BaseVisitor) VisitObjectExpression(n *ObjectExpression) interface{}               { return nil }
func (BaseVisitor) VisitProperty(n *Property) interface{}                               { return nil }
func (BaseVisitor) VisitBlockStatement(n *BlockStatement) interface{}                   { return nil }
func (BaseVisitor) VisitExpressionStatement(n *ExpressionStatement) interface{}         { return nil }
func (BaseVisitor) VisitIfStatement(n *IfStatement) interface{}                         { return nil }
func (BaseVisitor) VisitForStatement(n *ForStatement) interface{}                       { return nil }
func (BaseVisitor) VisitForInStatement(n *ForInStatement) interface{}                   { return nil }
func (BaseVisitor) VisitForOfStatement(n *ForOfStatement) interface{}                   { return nil }
func (BaseVisitor) VisitWhileStatement(n *WhileStatement) interface{}                   { return nil }
func (BaseVisitor) VisitDoWhileStatement(n *DoWhileStatement) interface{}               { return nil }
func (BaseVisitor) VisitSwitchStatement(n *SwitchStatement) interface{}                 { return nil }
func (BaseVisitor) VisitSwitchCase(n *SwitchCase) interface{}                           { return nil }
func (BaseVisitor) VisitReturnStatement(n *ReturnStatement) interface{}                 { return nil }
func (BaseVisitor) VisitBreakStatement(n *BreakStatement) interface{}                   { return nil }
func (BaseVisitor) VisitContinueStatement(n *ContinueStatement) interface{}             { return nil }
func (BaseVisitor) VisitEmptyStatement(n *EmptyStatement) interface{}                   { return nil }

// Children returns the direct child nodes of n in source order, skipping
// nils (holes, missing optional fields). Walk builds on this instead of
// a Visitor so it doesn't need one method per kind; the indexer has its
// own type switch.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		switch v := c.(type) {
		case nil:
			return
		case *Identifier:
			if v == nil {
				return
			}
		case *BlockStatement:
			if v == nil {
				return
			}
		case *FunctionExpression:
			if v == nil {
				return
			}
		}
		out = append(out, c)
	}
	addExprs := func(es []Expression) {
		for _, e := range es {
			add(e)
		}
	}
	addStmts := func(ss []Statement) {
		for _, s := range ss {
			add(s)
		}
	}

	switch t := n.(type) {
	case *Program:
		addStmts(t.Body)
	case *MemberExpression:
		add(t.Object)
		add(t.Property)
	case *CallExpression:
		add(t.Callee)
		addExprs(t.Arguments)
	case *NewExpression:
		add(t.Callee)
		addExprs(t.Arguments)
	case *FunctionDeclaration:
		add(t.Id)
		addExprs(t.Params)
		add(t.Body)
	case *FunctionExpression:
		add(t.Id)
		addExprs(t.Params)
		add(t.Body)
	case *ArrowFunctionExpression:
		addExprs(t.Params)
		add(t.Body)
	case *ClassDeclaration:
		add(t.Id)
		add(t.SuperClass)
		for _, m := range t.Body {
			add(m)
		}
	case *MethodDefinition:
		add(t.Key)
		add(t.Value)
	case *VariableDeclaration:
		for _, d := range t.Declarations {
			add(d)
		}
	case *VariableDeclarator:
		add(t.Id)
		add(t.Init)
	case *AssignmentExpression:
		add(t.Left)
		add(t.Right)
	case *BinaryExpression:
		add(t.Left)
		add(t.Right)
	case *LogicalExpression:
		add(t.Left)
		add(t.Right)
	case *UnaryExpression:
		add(t.Argument)
	case *UpdateExpression:
		add(t.Argument)
	case *ConditionalExpression:
		add(t.Test)
		add(t.Consequent)
		add(t.Alternate)
	case *SequenceExpression:
		addExprs(t.Expressions)
	case *TemplateLiteral:
		addExprs(t.Expressions)
	case *ArrayExpression:
		addExprs(t.Elements)
	case *ObjectExpression:
		for _, p := range t.Properties {
			add(p)
		}
	case *Property:
		add(t.Key)
		add(t.Value)
	case *BlockStatement:
		addStmts(t.Body)
	case *ExpressionStatement:
		add(t.Expression)
	case *IfStatement:
		add(t.Test)
		add(t.Consequent)
		add(t.Alternate)
	case *ForStatement:
		add(t.Init)
		add(t.Test)
		add(t.Update)
		add(t.Body)
	case *ForInStatement:
		add(t.Left)
		add(t.Right)
		add(t.Body)
	case *ForOfStatement:
		add(t.Left)
		add(t.Right)
		add(t.Body)
	case *WhileStatement:
		add(t.Test)
		add(t.Body)
	case *DoWhileStatement:
		add(t.Body)
		add(t.Test)
	case *SwitchStatement:
		add(t.Discriminant)
		for _, c := range t.Cases {
			add(c)
		}
	case *SwitchCase:
		add(t.Test)
		addStmts(t.Consequent)
	case *ReturnStatement:
		add(t.Argument)
	case *BreakStatement:
		add(t.Label)
	case *ContinueStatement:
		add(t.Label)
	case *Literal, *Identifier, *ThisExpression, *EmptyStatement:
		// leaves
	}
	return out
}

// Walk visits n and every descendant, depth-first pre-order, calling fn
// on each node. fn returning false stops descent into that node's
// children (but sibling traversal continues).
func Walk(n Node, fn func(Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}
