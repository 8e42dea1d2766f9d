// Package context implements the 5-step "declaration with context"
// algorithm (§4.D): given a node, it gathers the minimal transitive set
// of top-level statements needed to evaluate expressions involving that
// node, for handing to the sandboxed evaluator.
package context

import (
	"sort"

	"github.com/nocturnelabs/restringer/internal/ast"
)

// DeclarationWithContext returns, in source order, the minimal set of
// top-level statements needed to evaluate expressions referring to
// node: its own enclosing statement, the enclosing statement of every
// transitively-referenced declaration, and of every assignment that
// mutates an identifier already pulled in. When includeCallSiblings is
// false (the default a rule should use), closure never re-adds an
// ancestor of node itself - that would just restate the call site, not
// add new context.
func DeclarationWithContext(node ast.Node, includeCallSiblings bool) []ast.Node {
	start := nearestEnclosingStatement(node)
	if start == nil {
		return nil
	}

	set := map[ast.Node]bool{start: true}
	order := []ast.Node{start}
	add := func(n ast.Node) bool {
		if n == nil || set[n] {
			return false
		}
		set[n] = true
		order = append(order, n)
		return true
	}

	ancestors := map[ast.Node]bool{node: true}
	for _, a := range node.Lineage() {
		ancestors[a] = true
	}

	for {
		changed := false

		// Step 2: close under identifiers referenced in the current
		// set whose declaration lives elsewhere.
		snapshot := append([]ast.Node(nil), order...)
		for _, stmt := range snapshot {
			ast.Walk(stmt, func(n ast.Node) bool {
				id, ok := n.(*ast.Identifier)
				if !ok || id.IsDeclaration() || id.DeclNode == nil {
					return true
				}
				declStmt := topLevelStatementFor(id.DeclNode)
				if declStmt == nil || set[declStmt] {
					return true
				}
				if !includeCallSiblings && ancestors[declStmt] {
					return true
				}
				if add(declStmt) {
					changed = true
				}
				return true
			})
		}

		// Step 3: close under assignments that mutate any identifier
		// whose declaration is already in the set.
		var declaredInSet []*ast.Identifier
		for _, stmt := range order {
			ast.Walk(stmt, func(n ast.Node) bool {
				if id, ok := n.(*ast.Identifier); ok && id.IsDeclaration() {
					declaredInSet = append(declaredInSet, id)
				}
				return true
			})
		}
		for _, decl := range declaredInSet {
			for _, ref := range decl.References {
				assign, ok := ref.Parent().(*ast.AssignmentExpression)
				if !ok || assign.Left != ast.Expression(ref) {
					continue
				}
				declStmt := topLevelStatementFor(assign)
				if declStmt == nil || set[declStmt] {
					continue
				}
				if !includeCallSiblings && ancestors[declStmt] {
					continue
				}
				if add(declStmt) {
					changed = true
				}
			}
		}

		if !changed {
			break
		}
	}

	root := ast.Node(start)
	for root.Parent() != nil {
		root = root.Parent()
	}
	pos := map[ast.Node]int{}
	ast.Walk(root, func(n ast.Node) bool {
		pos[n] = len(pos)
		return true
	})
	sort.SliceStable(order, func(i, j int) bool {
		return pos[order[i]] < pos[order[j]]
	})
	return order
}

// nearestEnclosingStatement returns n itself if it is already a
// Statement, or the nearest ancestor Statement otherwise.
func nearestEnclosingStatement(n ast.Node) ast.Statement {
	for cur := n; cur != nil; cur = cur.Parent() {
		if st, ok := cur.(ast.Statement); ok {
			return st
		}
	}
	return nil
}

// topLevelStatementFor returns the ancestor of n (or n itself) whose
// Parent is the Program, i.e. the statement the declaration actually
// sits at "top level" relative to - a module-level statement for a
// module-level declaration, or the enclosing function declaration
// itself for a declaration nested inside a function body.
func topLevelStatementFor(n ast.Node) ast.Statement {
	for cur := n; cur != nil; cur = cur.Parent() {
		if _, atProgram := cur.Parent().(*ast.Program); atProgram {
			if st, ok := cur.(ast.Statement); ok {
				return st
			}
			return nearestEnclosingStatement(cur)
		}
	}
	return nil
}
