package tree

import (
	"io"
)

// SlotCount is the allocation granularity: whole percentages summing to 100.
const SlotCount = 100

// DefaultMaxTries bounds the rejection-sampling loop of Branch.Get.
const DefaultMaxTries = 100000

// Node is the contract shared by the two concrete shapes, Branch and Leaf.
// The set of shapes is closed; external packages cannot implement Node.
type Node[S, V any] interface {
	// Name returns the node's configured name. Names are used for lookup
	// and diagnostics; uniqueness is not enforced.
	Name() string

	// AddRule appends a rule to the node's ordered rule list.
	AddRule(rule Rule[S])

	// SetParent records the owning branch. Called by Branch.AddNode; the
	// link is navigational only and never used for lifetime management.
	SetParent(parent *Branch[S, V])

	// Parent returns the owning branch, or nil for the root.
	Parent() *Branch[S, V]

	// Get routes the subject through this node. The second return value
	// reports whether an outcome was produced; false is the ordinary
	// "no applicable result" answer, not an error.
	Get(subject S) (V, bool)

	// NodeByName searches the subtree rooted here, self first, then
	// children in depth-first pre-order, returning the first match.
	NodeByName(name string) (Node[S, V], bool)

	// IsLeaf discriminates the two shapes.
	IsLeaf() bool

	// DumpTree writes an indented textual rendering of the subtree,
	// one tab per depth level.
	DumpTree(w io.Writer, level int)

	sealed()
}

// base carries the state common to both shapes.
type base[S, V any] struct {
	name   string
	rules  []Rule[S]
	parent *Branch[S, V]
}

func (b *base[S, V]) Name() string { return b.name }

func (b *base[S, V]) AddRule(rule Rule[S]) { b.rules = append(b.rules, rule) }

func (b *base[S, V]) SetParent(parent *Branch[S, V]) { b.parent = parent }

func (b *base[S, V]) Parent() *Branch[S, V] { return b.parent }

// Rules returns the names of the attached rules, in evaluation order.
func (b *base[S, V]) Rules() []string {
	names := make([]string, len(b.rules))
	for i, r := range b.rules {
		names[i] = r.Name()
	}
	return names
}

// allRulesPassed is the AND over all attached rules, short-circuiting on the
// first failure. A node with zero rules trivially passes.
func (b *base[S, V]) allRulesPassed(subject S) bool {
	for _, rule := range b.rules {
		if !rule.Check(subject) {
			return false
		}
	}
	return true
}

func (b *base[S, V]) sealed() {}

func indent(w io.Writer, level int) {
	for i := 0; i < level; i++ {
		io.WriteString(w, "\t")
	}
}
