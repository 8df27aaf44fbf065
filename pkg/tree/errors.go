package tree

import "errors"

// Configuration errors. All are surfaced at configuration time; a tree that
// produced any of them must not be routed until corrected.
var (
	// ErrOverAllocation is returned when an allocation would push a
	// branch's running total past 100.
	ErrOverAllocation = errors.New("allocation exceeds 100 percent")

	// ErrNegativePercentage is returned for a negative allocation request.
	ErrNegativePercentage = errors.New("negative percentage")

	// ErrNotChild is returned when allocating to a node that is not a
	// registered direct child of the branch.
	ErrNotChild = errors.New("node is not a child of this branch")

	// ErrNoChildren is returned when spreading or validating a branch
	// without children.
	ErrNoChildren = errors.New("branch has no children")

	// ErrAlreadyAllocated is returned by SpreadPercentage on a branch
	// that already holds an explicit allocation.
	ErrAlreadyAllocated = errors.New("branch already has allocations")

	// ErrIncompleteAllocation is returned by Validate for a branch whose
	// running total is not exactly 100.
	ErrIncompleteAllocation = errors.New("allocation does not sum to 100 percent")
)
