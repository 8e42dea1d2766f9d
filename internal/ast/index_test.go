package ast

import (
	"testing"

	"github.com/nocturnelabs/restringer/internal/position"
)

// buildProgram constructs: function f(a) { var b = a; return b + g; }
// where g is a free/global reference. Ranges are left zero since this
// test only exercises the reference graph and type index, not source
// slicing.
func buildProgram() *Program {
	a := Ident("a")
	b := Ident("b")
	bUse := Ident("b")
	g := Ident("g")
	fname := Ident("f")

	fn := &FunctionDeclaration{
		Id:     fname,
		Params: []Expression{a},
		Body: &BlockStatement{Body: []Statement{
			&VariableDeclaration{VKind: "var", Declarations: []*VariableDeclarator{
				{Id: b, Init: Ident("a")},
			}},
			&ReturnStatement{Argument: &BinaryExpression{Operator: "+", Left: bUse, Right: g}},
		}},
	}
	return &Program{Body: []Statement{fn}}
}

func TestReindexBuildsTypeIndex(t *testing.T) {
	tree := NewTree(buildProgram(), "")

	idents := tree.Nodes(KindIdentifier)
	if len(idents) == 0 {
		t.Fatal("expected identifiers in type index")
	}
	fns := tree.Nodes(KindFunctionDeclaration)
	if len(fns) != 1 {
		t.Fatalf("expected exactly one FunctionDeclaration, got %d", len(fns))
	}
	if tree.Nodes(KindProgram)[0] != Node(tree.Root) {
		t.Fatal("Program must appear in its own type bucket")
	}
}

func TestReindexResolvesDeclarations(t *testing.T) {
	tree := NewTree(buildProgram(), "")

	var bDecl, bUse, gUse *Identifier
	for _, n := range tree.Nodes(KindIdentifier) {
		id := n.(*Identifier)
		switch {
		case id.Name == "b" && id.IsDeclaration():
			bDecl = id
		case id.Name == "b" && !id.IsDeclaration():
			bUse = id
		case id.Name == "g":
			gUse = id
		}
	}
	if bDecl == nil || bUse == nil || gUse == nil {
		t.Fatalf("missing expected identifiers: bDecl=%v bUse=%v gUse=%v", bDecl, bUse, gUse)
	}
	if bUse.DeclNode != bDecl {
		t.Fatalf("b use should resolve to its declaration, got %v", bUse.DeclNode)
	}
	found := false
	for _, ref := range bDecl.References {
		if ref == bUse {
			found = true
		}
	}
	if !found {
		t.Fatal("declaration's References must include every reader exactly once")
	}
	if !gUse.IsFree() {
		t.Fatal("g has no enclosing declaration and must resolve as free")
	}
}

func TestReindexSkipsPropertyNames(t *testing.T) {
	obj := &ObjectExpression{Properties: []*Property{
		{Key: Ident("length"), Value: NumberLiteral(1), PKind: "init"},
	}}
	member := &MemberExpression{Object: Ident("arr"), Property: Ident("length")}
	prog := &Program{Body: []Statement{
		&ExpressionStatement{Expression: obj},
		&ExpressionStatement{Expression: member},
	}}
	tree := NewTree(prog, "")

	for _, n := range tree.Nodes(KindIdentifier) {
		id := n.(*Identifier)
		if id.Name == "length" && !id.IsDeclaration() {
			if id.DeclNode != nil {
				t.Fatalf("non-computed property/member names must never resolve as variable references, got %v", id.DeclNode)
			}
		}
	}
}

func TestReindexLineageAndParent(t *testing.T) {
	prog := buildProgram()
	tree := NewTree(prog, "")

	fn := tree.Nodes(KindFunctionDeclaration)[0]
	if fn.Parent() != Node(tree.Root) {
		t.Fatal("function declaration's parent must be the Program")
	}
	if len(fn.Lineage()) != 1 || fn.Lineage()[0] != Node(tree.Root) {
		t.Fatalf("function's lineage must be exactly [Program], got %v", fn.Lineage())
	}

	rets := tree.Nodes(KindReturnStatement)
	if len(rets) != 1 {
		t.Fatalf("expected one return statement, got %d", len(rets))
	}
	if len(rets[0].Lineage()) < 2 {
		t.Fatal("return statement must be nested under function and block")
	}
}

func TestCloneProducesDistinctIdentities(t *testing.T) {
	lit := NumberLiteral(42)
	clone := Clone(lit).(*Literal)
	if clone == lit {
		t.Fatal("Clone must allocate a new node, not alias the original")
	}
	if clone.Num != lit.Num {
		t.Fatalf("clone must preserve value: got %v want %v", clone.Num, lit.Num)
	}

	block := &BlockStatement{Body: []Statement{&ExpressionStatement{Expression: Ident("x")}}}
	cloneBlk := Clone(block).(*BlockStatement)
	if cloneBlk == block {
		t.Fatal("cloned block must be a distinct node")
	}
	if cloneBlk.Body[0] == block.Body[0] {
		t.Fatal("clone must be structural: every descendant gets a fresh identity")
	}
}

func TestRangeAndSrcRoundTrip(t *testing.T) {
	src := "x + 1"
	n := &Identifier{Name: "x"}
	SetRange(n, position.Range{Start: 0, End: 1})
	SetSrc(n, src[0:1])
	if n.Range().Len() != 1 {
		t.Fatalf("range length mismatch: %d", n.Range().Len())
	}
	if n.Src() != "x" {
		t.Fatalf("src mismatch: %q", n.Src())
	}
}
