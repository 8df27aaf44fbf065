package tree

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// Branch is the composite node shape. It exclusively owns its children,
// keeps the percentage-to-child allocation table, and performs weighted
// random selection with bounded retry at routing time.
type Branch[S, V any] struct {
	base[S, V]
	nodes     []Node[S, V]
	slots     [SlotCount]Node[S, V]
	percents  map[Node[S, V]]int
	allocated int
	maxTries  int
	rng       *rand.Rand
}

// NewBranch creates an empty branch with no allocations.
func NewBranch[S, V any](name string) *Branch[S, V] {
	return &Branch[S, V]{
		base:     base[S, V]{name: name},
		percents: make(map[Node[S, V]]int),
		maxTries: DefaultMaxTries,
	}
}

// IsLeaf reports false.
func (b *Branch[S, V]) IsLeaf() bool { return false }

// AddNode appends a child and sets its parent link to this branch.
// Allocation is a separate step.
func (b *Branch[S, V]) AddNode(node Node[S, V]) {
	b.nodes = append(b.nodes, node)
	node.SetParent(b)
}

// Children returns the child list in insertion order.
func (b *Branch[S, V]) Children() []Node[S, V] {
	out := make([]Node[S, V], len(b.nodes))
	copy(out, b.nodes)
	return out
}

// PercentageOf returns the cumulative percentage allocated to a direct child.
func (b *Branch[S, V]) PercentageOf(node Node[S, V]) int { return b.percents[node] }

// Allocated returns the branch's running allocation total.
func (b *Branch[S, V]) Allocated() int { return b.allocated }

// SetRand replaces the branch's random source. A nil source falls back to
// the process-wide generator, which is safe for concurrent use; a non-nil
// *rand.Rand is not and must not be shared across concurrent routing calls.
func (b *Branch[S, V]) SetRand(rng *rand.Rand) { b.rng = rng }

// SetMaxTries tunes the retry bound for this branch.
func (b *Branch[S, V]) SetMaxTries(n int) {
	if n > 0 {
		b.maxTries = n
	}
}

// AllocatePercentage assigns percentage contiguous slots, starting at the
// current running total, to a direct child. Validation happens strictly
// before any mutation: a failed call leaves the slot table, the per-child
// percentages and the running total untouched.
func (b *Branch[S, V]) AllocatePercentage(percentage int, node Node[S, V]) error {
	if percentage < 0 {
		return fmt.Errorf("%s: %w (%d)", b.name, ErrNegativePercentage, percentage)
	}
	if b.allocated+percentage > SlotCount {
		return fmt.Errorf("%s: %w (%d)", b.name, ErrOverAllocation, b.allocated+percentage)
	}
	if !b.contains(node) {
		return fmt.Errorf("%s: %w (%s)", b.name, ErrNotChild, node.Name())
	}

	for i := b.allocated; i < b.allocated+percentage; i++ {
		b.slots[i] = node
	}
	b.percents[node] += percentage
	b.allocated += percentage
	return nil
}

// SpreadPercentage divides 100 evenly among the children by integer
// division, then hands the remainder out one unit at a time in insertion
// order until the total reaches exactly 100. It only applies to a branch
// with no prior allocation.
func (b *Branch[S, V]) SpreadPercentage() error {
	if len(b.nodes) == 0 {
		return fmt.Errorf("%s: %w", b.name, ErrNoChildren)
	}
	if b.allocated != 0 {
		return fmt.Errorf("%s: %w (%d)", b.name, ErrAlreadyAllocated, b.allocated)
	}

	perNode := SlotCount / len(b.nodes)
	for _, node := range b.nodes {
		if err := b.AllocatePercentage(perNode, node); err != nil {
			return err
		}
	}

	diff := SlotCount - b.allocated
	for _, node := range b.nodes {
		if diff <= 0 {
			break
		}
		if err := b.AllocatePercentage(1, node); err != nil {
			return err
		}
		diff--
	}
	return nil
}

// SpreadPercentageOnAllNotSetNodes applies SpreadPercentage to this branch
// if it is still unset, and recursively to every descendant branch still at
// zero. Branches with an explicit allocation, partial or full, are left
// untouched, so a configuration can override selectively and default the
// rest to uniform spread.
func (b *Branch[S, V]) SpreadPercentageOnAllNotSetNodes() error {
	if b.allocated == 0 {
		if err := b.SpreadPercentage(); err != nil {
			return err
		}
	}
	for _, node := range b.nodes {
		child, ok := node.(*Branch[S, V])
		if !ok {
			continue
		}
		if err := child.SpreadPercentageOnAllNotSetNodes(); err != nil {
			return err
		}
	}
	return nil
}

// ResetAllocations clears this branch's and every descendant branch's slot
// table, per-child percentages and running total back to the unset state.
// Leaves hold no allocation state and are unaffected.
func (b *Branch[S, V]) ResetAllocations() {
	b.allocated = 0
	for i := range b.slots {
		b.slots[i] = nil
	}
	for _, node := range b.nodes {
		b.percents[node] = 0
		if child, ok := node.(*Branch[S, V]); ok {
			child.ResetAllocations()
		}
	}
}

// Validate checks that every branch in the subtree has children and an
// allocation total of exactly 100. Routing must not begin until Validate
// reports nil for the root.
func (b *Branch[S, V]) Validate() error {
	if len(b.nodes) == 0 {
		return fmt.Errorf("%s: %w", b.name, ErrNoChildren)
	}
	if b.allocated != SlotCount {
		return fmt.Errorf("%s: %w (allocated %d)", b.name, ErrIncompleteAllocation, b.allocated)
	}
	for _, node := range b.nodes {
		if child, ok := node.(*Branch[S, V]); ok {
			if err := child.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Get routes the subject through this branch. If the branch's own rules
// reject the subject no draw is consumed. Otherwise it repeatedly picks a
// child by weighted random draw and delegates; a child that yields no
// result wastes the draw and the branch re-rolls, up to the retry bound.
//
// Get panics if the branch's allocation total is not exactly 100; builders
// are expected to call Validate before exposing the tree to routing.
func (b *Branch[S, V]) Get(subject S) (V, bool) {
	var zero V
	if !b.allRulesPassed(subject) {
		return zero, false
	}

	for i := 0; i < b.maxTries; i++ {
		node := b.randomNode()
		if result, ok := node.Get(subject); ok {
			return result, true
		}
	}
	return zero, false
}

// NodeByName returns this branch if the name matches, otherwise the first
// match among the children in depth-first pre-order.
func (b *Branch[S, V]) NodeByName(name string) (Node[S, V], bool) {
	if b.name == name {
		return b, true
	}
	for _, node := range b.nodes {
		if found, ok := node.NodeByName(name); ok {
			return found, true
		}
	}
	return nil, false
}

// DumpTree renders the branch name at the given depth, then each child's
// subtree at depth+1, prefixed with the child's allocated percentage.
func (b *Branch[S, V]) DumpTree(w io.Writer, level int) {
	indent(w, level)
	fmt.Fprintln(w, b.name)
	for _, node := range b.nodes {
		indent(w, level)
		fmt.Fprintf(w, "%d : ", b.percents[node])
		node.DumpTree(w, level+1)
	}
}

func (b *Branch[S, V]) randomNode() Node[S, V] {
	if b.allocated != SlotCount {
		panic(fmt.Sprintf("tree: branch %q: weighted pick with allocation total %d, want %d", b.name, b.allocated, SlotCount))
	}
	if b.rng != nil {
		return b.slots[b.rng.IntN(SlotCount)]
	}
	return b.slots[rand.IntN(SlotCount)]
}

func (b *Branch[S, V]) contains(node Node[S, V]) bool {
	for _, n := range b.nodes {
		if n == node {
			return true
		}
	}
	return false
}
