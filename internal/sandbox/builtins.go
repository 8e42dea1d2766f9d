package sandbox

import "encoding/base64"

// Builtin is a deterministic, side-effect-free function the sandbox may
// call by name. Installing a builtin is the only way sandbox code can
// reach outside the pure-value subset; the allow-list below is closed
// by design.
type Builtin func(args []Value) Value

// defaultBuiltins is the fixed table every Sandbox starts with: `atob`/
// `btoa`, the two primitives obfuscator.io-style decoders depend on most
// heavily, plus the `String` and `Number` conversions. Rules may install additional deterministic builtins via
// Sandbox.Install for a single Run (e.g. a prepared context's helper
// functions), never by mutating this table.
func defaultBuiltins() map[string]Builtin {
	return map[string]Builtin{
		"atob": func(args []Value) Value {
			if len(args) != 1 || args[0].Kind != KindString {
				return BadValue
			}
			decoded, err := base64.StdEncoding.DecodeString(args[0].Str)
			if err != nil {
				return BadValue
			}
			return Str(string(decoded))
		},
		"btoa": func(args []Value) Value {
			if len(args) != 1 || args[0].Kind != KindString {
				return BadValue
			}
			return Str(base64.StdEncoding.EncodeToString([]byte(args[0].Str)))
		},
		"String": func(args []Value) Value {
			if len(args) != 1 {
				return BadValue
			}
			s, ok := args[0].ToStr()
			if !ok {
				return BadValue
			}
			return Str(s)
		},
		"Number": func(args []Value) Value {
			if len(args) != 1 {
				return BadValue
			}
			n, ok := args[0].ToNumber()
			if !ok {
				return BadValue
			}
			return Num(n)
		},
	}
}
