// Package processors holds the per-obfuscator-family pre/postprocessor
// bundles (§4.G): short, fixed rule lists that run outside the main
// safe/unsafe fixpoint loop, once before and once after it, to handle
// idioms specific to a single popular obfuscator rather than JS in
// general. Detect sniffs the source for a family's fingerprint; a
// caller may bypass it entirely and pick a Bundle directly.
package processors

import "github.com/nocturnelabs/restringer/internal/rules"

// Bundle is an obfuscator family's fixed pre/postprocessor lists. Pre
// runs once, to fixpoint, before the main safe-rule loop; Post runs
// once, to fixpoint, after the unsafe loop and its interleaved safe
// cleanup passes finish. Either list may be empty.
type Bundle struct {
	Name string
	Pre  []rules.Rule
	Post []rules.Rule
}

// Detect inspects source for a recognizable obfuscator-family
// fingerprint and returns the matching Bundle. It checks the most
// specific markers first (obfuscator.io's debug-trap strings) before
// falling back to shape-based sniffing, so a source carrying more than
// one idiom still resolves to the family that actually produced it.
func Detect(source string) (Bundle, bool) {
	for _, detect := range []func(string) (Bundle, bool){
		detectObfuscatorIO,
		detectAugmentedArray,
		detectFunctionToArray,
		detectCaesarPlus,
	} {
		if b, ok := detect(source); ok {
			return b, true
		}
	}
	return Bundle{}, false
}
