package ast

// ScopeKind distinguishes the lexical contexts a Scope can represent.
type ScopeKind uint8

const (
	ScopeProgram ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeProgram:
		return "program"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Scope is one node of the lexical scope tree mirroring the AST's
// block/function nesting. DeclaredNames maps a binding name to the
// Identifier node that declares it in this scope.
type Scope struct {
	Kind            ScopeKind
	Parent          *Scope
	DeclaredNames   map[string]*Identifier
	ContainingBlock Node
}

// NewScope allocates an empty scope chained to parent.
func NewScope(kind ScopeKind, parent *Scope, containing Node) *Scope {
	return &Scope{
		Kind:            kind,
		Parent:          parent,
		DeclaredNames:   make(map[string]*Identifier),
		ContainingBlock: containing,
	}
}

// Lookup walks up the scope chain looking for name, returning the
// declaring Identifier and true on success.
func (s *Scope) Lookup(name string) (*Identifier, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if id, ok := sc.DeclaredNames[name]; ok {
			return id, true
		}
	}
	return nil, false
}

// Declare records name as bound to decl in this scope.
func (s *Scope) Declare(name string, decl *Identifier) {
	s.DeclaredNames[name] = decl
}

// IsDescendantOf reports whether s is other or nested within other.
func (s *Scope) IsDescendantOf(other *Scope) bool {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc == other {
			return true
		}
	}
	return false
}
