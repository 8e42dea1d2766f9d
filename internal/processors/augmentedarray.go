package processors

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/unsafe"
)

// AugmentedArray targets sources that only carry the string-array
// shuffle idiom, without the rest of obfuscator.io's debug-trap
// scaffolding - the shuffle rule itself already does the full job
// (locate the array, evaluate the rotation, rewrite the literal), so
// the bundle is a thin wrapper rather than a second implementation.
var AugmentedArray = Bundle{
	Name: "augmented-array",
	Pre:  []rules.Rule{unsafe.AugmentedArray{}},
}

func detectAugmentedArray(source string) (Bundle, bool) {
	if strings.Contains(source, "push(") && strings.Contains(source, ".shift()") &&
		strings.Contains(source, "while") {
		return AugmentedArray, true
	}
	return Bundle{}, false
}
