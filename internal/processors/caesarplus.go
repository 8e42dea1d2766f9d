package processors

import (
	"strings"

	"github.com/nocturnelabs/restringer/internal/rules"
	"github.com/nocturnelabs/restringer/internal/rules/safe"
)

// CaesarPlus targets the "Caesar+" family, which wraps its whole
// payload in one extra IIFE layer on top of whatever the underlying
// obfuscation does, and tends to leave unreachable cleanup statements
// behind once that outer layer and the main loop have resolved its
// string table. The preprocessor peels the outer IIFE; the
// postprocessor sweeps the dead code the rest of the run exposed.
var CaesarPlus = Bundle{
	Name: "caesar-plus",
	Pre:  []rules.Rule{safe.IIFEShell{}, safe.IIFEUnwrap{}},
	Post: []rules.Rule{safe.DeadCode{}},
}

func detectCaesarPlus(source string) (Bundle, bool) {
	if strings.HasPrefix(strings.TrimSpace(source), "(function(") &&
		strings.Contains(source, "})()") {
		return CaesarPlus, true
	}
	return Bundle{}, false
}
