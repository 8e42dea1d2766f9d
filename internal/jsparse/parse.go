// Package jsparse adapts the tree-sitter-javascript CST into this
// module's closed ast.Node model, grounded on viant-linager's
// inspector/jsx.Inspector (same sitter.Parser/javascript.GetLanguage
// setup, same ChildByFieldName/NamedChild walking style).
//
// Coverage is scoped to the ast package's closed Kind set: the handful
// of ES constructs it has no node for (classes-as-expressions, try/
// throw/labeled statements, destructuring patterns, spread/rest,
// generators/async bodies beyond the flag, tagged templates) parse to
// the nearest lossless approximation rather than failing the whole
// parse - see the fallback comments on stmt in convert.go and expr in
// expr.go for the exact list.
package jsparse

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/position"
)

func position_(n *sitter.Node) position.Range {
	return position.Range{Start: int(n.StartByte()), End: int(n.EndByte())}
}

// Parse parses source as a full JS program and returns an indexed Tree.
func Parse(source string) (*ast.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	src := []byte(source)
	cst, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsparse: parse source: %w", err)
	}
	root := cst.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("jsparse: source contains syntax errors")
	}

	c := &converter{src: src}
	program := c.program(root)
	return ast.NewTree(program, source), nil
}

// ParseExpression parses a single standalone expression, used by the
// function-constructor/new-Function/eval rules when splicing a parsed
// fragment back into a larger tree. The fragment is parsed as its own
// program and the caller extracts whatever statement/expression it
// needs from the result.
func ParseExpression(source string) (*ast.Tree, error) {
	return Parse(source)
}

type converter struct {
	src []byte
}

func (c *converter) text(n *sitter.Node) string { return n.Content(c.src) }

func (c *converter) tag(n ast.Node, cst *sitter.Node) {
	ast.SetRange(n, position_(cst))
	ast.SetSrc(n, c.text(cst))
}
