// Package errors provides the standardized, rule-granular error
// representation used throughout the deobfuscation engine. It is not a
// substitute for Go's error interface - StandardError implements it -
// but gives callers a stable (category, code) pair to branch on instead
// of parsing message strings.
package errors

import "fmt"

// Category buckets the recoverable error taxonomy from the engine's
// error-handling design: every one of these degrades a single rule
// pass to a no-op rather than aborting the run.
type Category string

const (
	CategoryParse            Category = "PARSE"
	CategoryEval             Category = "EVAL"
	CategoryStaleNode        Category = "STALE_NODE"
	CategoryUnsupportedOp    Category = "UNSUPPORTED_OP"
	CategoryDecode           Category = "DECODE"
	CategoryCommitInvariant  Category = "COMMIT_INVARIANT"
)

// StandardError is a recoverable, rule-scoped error carrying enough
// context for -v diagnostics without ever being fatal to the run.
type StandardError struct {
	Category Category
	Code     string
	Message  string
	Context  map[string]interface{}
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// New builds a StandardError. Context may be nil.
func New(category Category, code, message string, context map[string]interface{}) *StandardError {
	return &StandardError{Category: category, Code: code, Message: message, Context: context}
}

// ParseError reports that source, or a sandbox-returned string, could
// not be parsed.
func ParseError(fragment string, cause error) *StandardError {
	return New(CategoryParse, "PARSE_FAILED", fmt.Sprintf("could not parse fragment: %v", cause),
		map[string]interface{}{"fragment": fragment})
}

// EvalFailure reports that the sandbox raised, timed out, or exceeded
// its resource budget.
func EvalFailure(fragment, reason string) *StandardError {
	return New(CategoryEval, "EVAL_FAILED", reason, map[string]interface{}{"fragment": fragment})
}

// StaleNode reports that a matched candidate's range fell inside a
// region an earlier transform in the same pass already rewrote.
func StaleNode(ruleName string) *StandardError {
	return New(CategoryStaleNode, "STALE_NODE", "candidate range overlaps an already-modified region",
		map[string]interface{}{"rule": ruleName})
}

// UnsupportedOperator reports that a constant folder met an operator it
// does not implement.
func UnsupportedOperator(op string) *StandardError {
	return New(CategoryUnsupportedOp, "UNSUPPORTED_OPERATOR", fmt.Sprintf("operator %q is not supported", op),
		nil)
}

// DecodeError reports malformed input to atob/btoa.
func DecodeError(cause error) *StandardError {
	return New(CategoryDecode, "DECODE_FAILED", cause.Error(), nil)
}

// CommitInvariant reports an edit the Arborist could not apply (a
// replacement of the wrong type for its slot, an index out of range, a
// deletion with no splice rule, or deleting or replacing the Program
// root); the driver re-parses the source its pass started from and
// retires the owning rule, and Restringer keeps it retired for the rest
// of the Deobfuscate run.
func CommitInvariant(detail string) *StandardError {
	return New(CategoryCommitInvariant, "COMMIT_INVARIANT_VIOLATED", detail, nil)
}
