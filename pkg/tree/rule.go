package tree

// RuleFunc is the predicate signature evaluated against the routing subject.
// Predicates are expected to be total and free of side effects.
type RuleFunc[S any] func(subject S) bool

// Rule is a named boolean predicate gating acceptance of a node.
// The zero value rejects everything; use NewRule.
type Rule[S any] struct {
	name string
	fn   RuleFunc[S]
}

// NewRule wraps a predicate under a descriptive name.
func NewRule[S any](name string, fn RuleFunc[S]) Rule[S] {
	return Rule[S]{name: name, fn: fn}
}

// Name returns the rule's descriptive name.
func (r Rule[S]) Name() string { return r.name }

// Check evaluates the wrapped predicate and returns its result verbatim.
func (r Rule[S]) Check(subject S) bool {
	if r.fn == nil {
		return false
	}
	return r.fn(subject)
}
