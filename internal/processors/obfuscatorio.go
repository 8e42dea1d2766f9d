package processors

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/arborist"
	"github.com/nocturnelabs/restringer/internal/ast"
	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/unsafe"
)

// ObfuscatorIO targets the obfuscator.io (npm javascript-obfuscator)
// output shape: a string-array shuffle IIFE feeding a dispatcher, plus
// an optional self-defending debug trap that detects devtools and
// rewrites itself into an infinite loop. The trap is neutralized before
// anything else runs, since it would otherwise survive the safe/unsafe
// loop untouched (nothing in that loop understands "this literal is
// scaffolding, not data") and keep tripping in the deobfuscated output.
var ObfuscatorIO = Bundle{
	Name: "obfuscator.io",
	Pre: []rules.Rule{
		bypassDebugTrap{},
		unsafe.AugmentedArray{},
	},
}

func detectObfuscatorIO(source string) (Bundle, bool) {
	if strings.Contains(source, `"newState"`) || strings.Contains(source, `'newState'`) ||
		strings.Contains(source, `"removeCookie"`) || strings.Contains(source, `'removeCookie'`) {
		return ObfuscatorIO, true
	}
	return Bundle{}, false
}

// bypassDebugTrap finds the two string markers obfuscator.io's
// self-defending debug-trap scaffolding is built around and replaces
// the construct they mark with a harmless stub, `function () { return
// "bypassed!" }`. "newState" names the enclosing function that
// reassigns the trap's state machine; "removeCookie" names an object
// property whose value is the trap handler itself.
type bypassDebugTrap struct{}

func (bypassDebugTrap) Name() string { return "obfuscatorio-bypass-debug-trap" }

func (bypassDebugTrap) Match(tree *ast.Tree, _ rules.Filter) []ast.Node {
	var out []ast.Node
	for _, n := range tree.Nodes(ast.KindLiteral) {
		lit := n.(*ast.Literal)
		if lit.LitKind != ast.LitString {
			continue
		}
		if lit.Str != "newState" && lit.Str != "removeCookie" {
			continue
		}
		if _, ok := debugTrapTarget(lit); ok {
			out = append(out, n)
		}
	}
	return out
}

func (bypassDebugTrap) Transform(tree *ast.Tree, arb *arborist.Arborist, n ast.Node) error {
	lit := n.(*ast.Literal)
	target, ok := debugTrapTarget(lit)
	if !ok {
		return nil
	}
	arb.MarkNode(target, bypassStub())
	return nil
}

// debugTrapTarget climbs from the marker literal to the node that
// should be replaced: the nearest enclosing FunctionExpression for a
// "newState" marker, or the nearest enclosing Property's value for a
// "removeCookie" marker.
func debugTrapTarget(lit *ast.Literal) (ast.Node, bool) {
	switch lit.Str {
	case "newState":
		for p := ast.Node(lit); p != nil; p = p.Parent() {
			if fn, ok := p.(*ast.FunctionExpression); ok {
				return fn, true
			}
		}
	case "removeCookie":
		for p := ast.Node(lit); p != nil; p = p.Parent() {
			if prop, ok := p.(*ast.Property); ok {
				return prop.Value, true
			}
		}
	}
	return nil, false
}

func bypassStub() *ast.FunctionExpression {
	return &ast.FunctionExpression{
		Body: &ast.BlockStatement{
			Body: []ast.Statement{&ast.ReturnStatement{Argument: ast.StringLiteral("bypassed!")}},
		},
	}
}
