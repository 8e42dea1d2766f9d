package ast

// reindex performs the structural pass (parent/parentKey/scope/lineage,
// type-index, scope-tree construction and binding declaration) followed
// by the reference-resolution pass (§3's reference graph invariants).
// It is the only place in the package that mutates node metadata.
func reindex(t *Tree) {
	ix := &indexer{tree: t, typeMap: make(map[Kind][]Node)}
	programScope := NewScope(ScopeProgram, nil, t.Root)
	ix.visit(t.Root, nil, ParentKey{}, programScope, nil)
	t.TypeMap = ix.typeMap

	for _, n := range t.TypeMap[KindIdentifier] {
		id := n.(*Identifier)
		if id.IsDeclaration() || ix.skipResolve[id] {
			continue
		}
		if decl, ok := id.Scope().Lookup(id.Name); ok {
			id.DeclNode = decl
			decl.References = append(decl.References, id)
		}
	}

	// Assign fresh dense ids to every node in a stable (type-index)
	// order. Every Reindex, including the one arborist.Commit runs,
	// renumbers the whole tree, so ids do not survive a commit.
	var id NodeID
	for _, k := range AllKinds() {
		for _, n := range t.TypeMap[k] {
			id++
			SetNodeID(n, id)
		}
	}
	t.nextID = id
}

type indexer struct {
	tree        *Tree
	typeMap     map[Kind][]Node
	skipResolve map[*Identifier]bool
}

func (ix *indexer) record(n Node) {
	ix.typeMap[n.Kind()] = append(ix.typeMap[n.Kind()], n)
}

func (ix *indexer) markSkip(id *Identifier) {
	if ix.skipResolve == nil {
		ix.skipResolve = make(map[*Identifier]bool)
	}
	ix.skipResolve[id] = true
}

// declare binds name -> decl in scope, and self-resolves decl's own
// DeclNode as the declaration site.
func declare(scope *Scope, decl *Identifier) {
	decl.DeclNode = decl
	scope.Declare(decl.Name, decl)
}

func nearestVarScope(scope *Scope) *Scope {
	for s := scope; s != nil; s = s.Parent {
		if s.Kind == ScopeFunction || s.Kind == ScopeProgram {
			return s
		}
	}
	return scope
}

func extend(ancestors []Node, n Node) []Node {
	out := make([]Node, len(ancestors)+1)
	copy(out, ancestors)
	out[len(ancestors)] = n
	return out
}

// visit wires n's metadata and recurses into its children, tracking the
// lexical scope and ancestor chain as it descends.
func (ix *indexer) visit(n Node, parent Node, key ParentKey, scope *Scope, ancestors []Node) {
	if n == nil {
		return
	}
	SetParent(n, parent)
	SetParentKey(n, key)
	SetScope(n, scope)
	SetLineage(n, ancestors)
	ix.record(n)

	childAncestors := extend(ancestors, n)

	switch t := n.(type) {
	case *Program:
		ix.hoistBlockBindings(t.Body, scope)
		ix.visitStmts(t.Body, t, "Body", scope, childAncestors)

	case *Literal, *ThisExpression, *EmptyStatement:
		// leaves

	case *Identifier:
		// Declarations/uses are wired by the caller via ParentKey
		// context; nothing further to do structurally.

	case *MemberExpression:
		ix.visit(t.Object, t, ParentKey{Field: "Object", Index: -1}, scope, childAncestors)
		if !t.Computed {
			if id, ok := t.Property.(*Identifier); ok {
				ix.markSkip(id)
			}
		}
		ix.visit(t.Property, t, ParentKey{Field: "Property", Index: -1}, scope, childAncestors)

	case *CallExpression:
		ix.visit(t.Callee, t, ParentKey{Field: "Callee", Index: -1}, scope, childAncestors)
		ix.visitExprs(t.Arguments, t, "Arguments", scope, childAncestors)

	case *NewExpression:
		ix.visit(t.Callee, t, ParentKey{Field: "Callee", Index: -1}, scope, childAncestors)
		ix.visitExprs(t.Arguments, t, "Arguments", scope, childAncestors)

	case *FunctionDeclaration:
		if t.Id != nil {
			declare(scope, t.Id)
			SetParent(t.Id, t)
			SetParentKey(t.Id, ParentKey{Field: "Id", Index: -1})
			SetScope(t.Id, scope)
			SetLineage(t.Id, ancestors)
			ix.record(t.Id)
		}
		fnScope := NewScope(ScopeFunction, scope, t)
		ix.visitParams(t.Params, t, fnScope, childAncestors)
		ix.visitFunctionBody(t.Body, t, fnScope, childAncestors)

	case *FunctionExpression:
		fnScope := NewScope(ScopeFunction, scope, t)
		if t.Id != nil {
			declare(fnScope, t.Id)
			SetParent(t.Id, t)
			SetParentKey(t.Id, ParentKey{Field: "Id", Index: -1})
			SetScope(t.Id, fnScope)
			SetLineage(t.Id, childAncestors)
			ix.record(t.Id)
		}
		ix.visitParams(t.Params, t, fnScope, childAncestors)
		ix.visitFunctionBody(t.Body, t, fnScope, childAncestors)

	case *ArrowFunctionExpression:
		fnScope := NewScope(ScopeFunction, scope, t)
		ix.visitParams(t.Params, t, fnScope, childAncestors)
		if block, ok := t.Body.(*BlockStatement); ok {
			ix.visitFunctionBody(block, t, fnScope, childAncestors)
		} else {
			ix.visit(t.Body, t, ParentKey{Field: "Body", Index: -1}, fnScope, childAncestors)
		}

	case *ClassDeclaration:
		if t.Id != nil {
			declare(scope, t.Id)
			SetParent(t.Id, t)
			SetParentKey(t.Id, ParentKey{Field: "Id", Index: -1})
			SetScope(t.Id, scope)
			SetLineage(t.Id, childAncestors)
			ix.record(t.Id)
		}
		ix.visit(t.SuperClass, t, ParentKey{Field: "SuperClass", Index: -1}, scope, childAncestors)
		for i, m := range t.Body {
			ix.visit(m, t, ParentKey{Field: "Body", Index: i}, scope, childAncestors)
		}

	case *MethodDefinition:
		if !t.Computed {
			if id, ok := t.Key.(*Identifier); ok {
				ix.markSkip(id)
			}
		}
		ix.visit(t.Key, t, ParentKey{Field: "Key", Index: -1}, scope, childAncestors)
		ix.visit(t.Value, t, ParentKey{Field: "Value", Index: -1}, scope, childAncestors)

	case *VariableDeclaration:
		for i, d := range t.Declarations {
			targetScope := scope
			if t.VKind == "var" {
				targetScope = nearestVarScope(scope)
			}
			if id, ok := d.Id.(*Identifier); ok {
				declare(targetScope, id)
			}
			ix.visit(d, t, ParentKey{Field: "Declarations", Index: i}, scope, childAncestors)
		}

	case *VariableDeclarator:
		ix.visit(t.Id, t, ParentKey{Field: "Id", Index: -1}, scope, childAncestors)
		ix.visit(t.Init, t, ParentKey{Field: "Init", Index: -1}, scope, childAncestors)

	case *AssignmentExpression:
		ix.visit(t.Left, t, ParentKey{Field: "Left", Index: -1}, scope, childAncestors)
		ix.visit(t.Right, t, ParentKey{Field: "Right", Index: -1}, scope, childAncestors)

	case *BinaryExpression:
		ix.visit(t.Left, t, ParentKey{Field: "Left", Index: -1}, scope, childAncestors)
		ix.visit(t.Right, t, ParentKey{Field: "Right", Index: -1}, scope, childAncestors)

	case *LogicalExpression:
		ix.visit(t.Left, t, ParentKey{Field: "Left", Index: -1}, scope, childAncestors)
		ix.visit(t.Right, t, ParentKey{Field: "Right", Index: -1}, scope, childAncestors)

	case *UnaryExpression:
		ix.visit(t.Argument, t, ParentKey{Field: "Argument", Index: -1}, scope, childAncestors)

	case *UpdateExpression:
		ix.visit(t.Argument, t, ParentKey{Field: "Argument", Index: -1}, scope, childAncestors)

	case *ConditionalExpression:
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, scope, childAncestors)
		ix.visit(t.Consequent, t, ParentKey{Field: "Consequent", Index: -1}, scope, childAncestors)
		ix.visit(t.Alternate, t, ParentKey{Field: "Alternate", Index: -1}, scope, childAncestors)

	case *SequenceExpression:
		ix.visitExprs(t.Expressions, t, "Expressions", scope, childAncestors)

	case *TemplateLiteral:
		ix.visitExprs(t.Expressions, t, "Expressions", scope, childAncestors)

	case *ArrayExpression:
		ix.visitExprs(t.Elements, t, "Elements", scope, childAncestors)

	case *ObjectExpression:
		for i, p := range t.Properties {
			ix.visit(p, t, ParentKey{Field: "Properties", Index: i}, scope, childAncestors)
		}

	case *Property:
		if !t.Computed {
			if id, ok := t.Key.(*Identifier); ok {
				ix.markSkip(id)
			}
		}
		ix.visit(t.Key, t, ParentKey{Field: "Key", Index: -1}, scope, childAncestors)
		ix.visit(t.Value, t, ParentKey{Field: "Value", Index: -1}, scope, childAncestors)

	case *BlockStatement:
		blockScope := NewScope(ScopeBlock, scope, t)
		SetScope(n, blockScope)
		ix.hoistBlockBindings(t.Body, blockScope)
		ix.visitStmts(t.Body, t, "Body", blockScope, childAncestors)

	case *ExpressionStatement:
		ix.visit(t.Expression, t, ParentKey{Field: "Expression", Index: -1}, scope, childAncestors)

	case *IfStatement:
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, scope, childAncestors)
		ix.visit(t.Consequent, t, ParentKey{Field: "Consequent", Index: -1}, scope, childAncestors)
		ix.visit(t.Alternate, t, ParentKey{Field: "Alternate", Index: -1}, scope, childAncestors)

	case *ForStatement:
		loopScope := NewScope(ScopeBlock, scope, t)
		SetScope(n, loopScope)
		if vd, ok := t.Init.(*VariableDeclaration); ok {
			for _, d := range vd.Declarations {
				if id, ok := d.Id.(*Identifier); ok {
					declare(loopScope, id)
				}
			}
		}
		ix.visit(t.Init, t, ParentKey{Field: "Init", Index: -1}, loopScope, childAncestors)
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, loopScope, childAncestors)
		ix.visit(t.Update, t, ParentKey{Field: "Update", Index: -1}, loopScope, childAncestors)
		ix.visit(t.Body, t, ParentKey{Field: "Body", Index: -1}, loopScope, childAncestors)

	case *ForInStatement:
		ix.visitForEach(t.Left, t.Right, t.Body, t, scope, childAncestors)

	case *ForOfStatement:
		ix.visitForEach(t.Left, t.Right, t.Body, t, scope, childAncestors)

	case *WhileStatement:
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, scope, childAncestors)
		ix.visit(t.Body, t, ParentKey{Field: "Body", Index: -1}, scope, childAncestors)

	case *DoWhileStatement:
		ix.visit(t.Body, t, ParentKey{Field: "Body", Index: -1}, scope, childAncestors)
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, scope, childAncestors)

	case *SwitchStatement:
		ix.visit(t.Discriminant, t, ParentKey{Field: "Discriminant", Index: -1}, scope, childAncestors)
		switchScope := NewScope(ScopeBlock, scope, t)
		for i, c := range t.Cases {
			ix.visit(c, t, ParentKey{Field: "Cases", Index: i}, switchScope, childAncestors)
		}

	case *SwitchCase:
		ix.visit(t.Test, t, ParentKey{Field: "Test", Index: -1}, scope, childAncestors)
		ix.hoistBlockBindings(t.Consequent, scope)
		ix.visitStmts(t.Consequent, t, "Consequent", scope, childAncestors)

	case *ReturnStatement:
		ix.visit(t.Argument, t, ParentKey{Field: "Argument", Index: -1}, scope, childAncestors)

	case *BreakStatement:
		if t.Label != nil {
			ix.markSkip(t.Label)
			ix.visit(t.Label, t, ParentKey{Field: "Label", Index: -1}, scope, childAncestors)
		}

	case *ContinueStatement:
		if t.Label != nil {
			ix.markSkip(t.Label)
			ix.visit(t.Label, t, ParentKey{Field: "Label", Index: -1}, scope, childAncestors)
		}
	}
}

func (ix *indexer) visitForEach(left Node, right Expression, body Statement, parent Node, scope *Scope, ancestors []Node) {
	loopScope := NewScope(ScopeBlock, scope, parent)
	if vd, ok := left.(*VariableDeclaration); ok {
		for _, d := range vd.Declarations {
			if id, ok := d.Id.(*Identifier); ok {
				declare(loopScope, id)
			}
		}
	}
	ix.visit(left, parent, ParentKey{Field: "Left", Index: -1}, loopScope, ancestors)
	ix.visit(right, parent, ParentKey{Field: "Right", Index: -1}, loopScope, ancestors)
	ix.visit(body, parent, ParentKey{Field: "Body", Index: -1}, loopScope, ancestors)
}

// hoistBlockBindings pre-declares function declarations so forward
// references within the same scope resolve (JS hoisting), without
// attempting full var-hoisting to the top of the function (those are
// declared as their VariableDeclaration nodes are reached, which is
// sufficient for §3's invariants since resolution is a second pass over
// the whole tree regardless).
func (ix *indexer) hoistBlockBindings(stmts []Statement, scope *Scope) {
	for _, s := range stmts {
		if fd, ok := s.(*FunctionDeclaration); ok && fd.Id != nil {
			declare(scope, fd.Id)
		}
	}
}

func (ix *indexer) visitStmts(stmts []Statement, parent Node, field string, scope *Scope, ancestors []Node) {
	for i, s := range stmts {
		ix.visit(s, parent, ParentKey{Field: field, Index: i}, scope, ancestors)
	}
}

func (ix *indexer) visitExprs(exprs []Expression, parent Node, field string, scope *Scope, ancestors []Node) {
	for i, e := range exprs {
		ix.visit(e, parent, ParentKey{Field: field, Index: i}, scope, ancestors)
	}
}

func (ix *indexer) visitParams(params []Expression, parent Node, fnScope *Scope, ancestors []Node) {
	for i, p := range params {
		switch pt := p.(type) {
		case *Identifier:
			declare(fnScope, pt)
		case *AssignmentExpression:
			if id, ok := pt.Left.(*Identifier); ok {
				declare(fnScope, id)
			}
		}
		ix.visit(p, parent, ParentKey{Field: "Params", Index: i}, fnScope, ancestors)
	}
}

func (ix *indexer) visitFunctionBody(body *BlockStatement, parent Node, fnScope *Scope, ancestors []Node) {
	if body == nil {
		return
	}
	SetParent(body, parent)
	SetParentKey(body, ParentKey{Field: "Body", Index: -1})
	SetScope(body, fnScope)
	SetLineage(body, ancestors)
	ix.record(body)
	bodyAncestors := extend(ancestors, Node(body))
	ix.hoistBlockBindings(body.Body, fnScope)
	ix.visitStmts(body.Body, body, "Body", fnScope, bodyAncestors)
}
