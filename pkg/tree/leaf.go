package tree

import (
	"fmt"
	"io"
)

// Leaf is the terminal node shape, holding one immutable outcome value.
type Leaf[S, V any] struct {
	base[S, V]
	value V
}

// NewLeaf creates a leaf yielding value when its rules pass.
func NewLeaf[S, V any](name string, value V) *Leaf[S, V] {
	return &Leaf[S, V]{base: base[S, V]{name: name}, value: value}
}

// IsLeaf reports true.
func (l *Leaf[S, V]) IsLeaf() bool { return true }

// Value returns the held outcome value unconditionally.
func (l *Leaf[S, V]) Value() V { return l.value }

// Get returns the held outcome if the leaf's rules pass, ending the
// traversal; otherwise it reports no result.
func (l *Leaf[S, V]) Get(subject S) (V, bool) {
	var zero V
	if !l.allRulesPassed(subject) {
		return zero, false
	}
	return l.value, true
}

// NodeByName returns the leaf itself on a name match.
func (l *Leaf[S, V]) NodeByName(name string) (Node[S, V], bool) {
	if l.name == name {
		return l, true
	}
	return nil, false
}

// DumpTree renders only the leaf's name at its depth.
func (l *Leaf[S, V]) DumpTree(w io.Writer, level int) {
	indent(w, level)
	fmt.Fprintln(w, l.name)
}
