package tree_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/aretw0/espalier/pkg/tree"
)

type order struct {
	qty int
}

func accept() tree.Rule[order] {
	return tree.NewRule("accept", func(order) bool { return true })
}

func reject() tree.Rule[order] {
	return tree.NewRule("reject", func(order) bool { return false })
}

func seeded(a, b uint64) *rand.Rand {
	return rand.New(rand.NewPCG(a, b))
}

func TestAllocatePercentage(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	b := tree.NewLeaf[order, string]("b", "B")
	root.AddNode(a)
	root.AddNode(b)

	if err := root.AllocatePercentage(60, a); err != nil {
		t.Fatalf("allocate 60: %v", err)
	}
	if err := root.AllocatePercentage(40, b); err != nil {
		t.Fatalf("allocate 40: %v", err)
	}

	if got := root.Allocated(); got != 100 {
		t.Errorf("allocated = %d, want 100", got)
	}
	if got := root.PercentageOf(a); got != 60 {
		t.Errorf("percentage of a = %d, want 60", got)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestAllocatePercentageOverBudget(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	b := tree.NewLeaf[order, string]("b", "B")
	root.AddNode(a)
	root.AddNode(b)

	if err := root.AllocatePercentage(60, a); err != nil {
		t.Fatalf("allocate 60: %v", err)
	}

	err := root.AllocatePercentage(50, b)
	if !errors.Is(err, tree.ErrOverAllocation) {
		t.Fatalf("err = %v, want ErrOverAllocation", err)
	}

	// A failed call must not partially mutate the bookkeeping.
	if got := root.Allocated(); got != 60 {
		t.Errorf("allocated after failure = %d, want 60", got)
	}
	if got := root.PercentageOf(b); got != 0 {
		t.Errorf("percentage of b after failure = %d, want 0", got)
	}
}

func TestAllocatePercentageForeignNode(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	root.AddNode(tree.NewLeaf[order, string]("a", "A"))

	stranger := tree.NewLeaf[order, string]("x", "X")
	err := root.AllocatePercentage(10, stranger)
	if !errors.Is(err, tree.ErrNotChild) {
		t.Fatalf("err = %v, want ErrNotChild", err)
	}
	if got := root.Allocated(); got != 0 {
		t.Errorf("allocated after failure = %d, want 0", got)
	}
}

func TestSpreadPercentage(t *testing.T) {
	cases := []struct {
		children int
		want     []int
	}{
		{2, []int{50, 50}},
		{3, []int{34, 33, 33}},
		{4, []int{25, 25, 25, 25}},
		{7, []int{15, 15, 14, 14, 14, 14, 14}},
	}

	for _, tc := range cases {
		root := tree.NewBranch[order, string]("root")
		leaves := make([]*tree.Leaf[order, string], tc.children)
		for i := range leaves {
			leaves[i] = tree.NewLeaf[order, string]("leaf", "v")
			root.AddNode(leaves[i])
		}

		if err := root.SpreadPercentage(); err != nil {
			t.Fatalf("spread over %d children: %v", tc.children, err)
		}
		if got := root.Allocated(); got != 100 {
			t.Errorf("%d children: allocated = %d, want 100", tc.children, got)
		}
		for i, leaf := range leaves {
			if got := root.PercentageOf(leaf); got != tc.want[i] {
				t.Errorf("%d children: child %d got %d, want %d", tc.children, i, got, tc.want[i])
			}
		}
	}
}

func TestSpreadPercentageRequiresUnsetBranch(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	root.AddNode(a)
	root.AddNode(tree.NewLeaf[order, string]("b", "B"))

	if err := root.AllocatePercentage(10, a); err != nil {
		t.Fatal(err)
	}
	if err := root.SpreadPercentage(); !errors.Is(err, tree.ErrAlreadyAllocated) {
		t.Fatalf("err = %v, want ErrAlreadyAllocated", err)
	}

	empty := tree.NewBranch[order, string]("empty")
	if err := empty.SpreadPercentage(); !errors.Is(err, tree.ErrNoChildren) {
		t.Fatalf("err = %v, want ErrNoChildren", err)
	}
}

func TestSpreadOnAllNotSetNodesKeepsExplicitAllocations(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	sub := tree.NewBranch[order, string]("sub")
	a := tree.NewLeaf[order, string]("a", "A")
	root.AddNode(sub)
	root.AddNode(a)
	sub.AddNode(tree.NewLeaf[order, string]("x", "X"))
	sub.AddNode(tree.NewLeaf[order, string]("y", "Y"))
	sub.AddNode(tree.NewLeaf[order, string]("z", "Z"))

	// Explicit 70/30 at the root; the sub-branch stays unset.
	if err := root.AllocatePercentage(70, sub); err != nil {
		t.Fatal(err)
	}
	if err := root.AllocatePercentage(30, a); err != nil {
		t.Fatal(err)
	}

	if err := root.SpreadPercentageOnAllNotSetNodes(); err != nil {
		t.Fatalf("spread on all not set: %v", err)
	}

	if got := root.PercentageOf(sub); got != 70 {
		t.Errorf("root kept %d for sub, want 70", got)
	}
	if got := sub.Allocated(); got != 100 {
		t.Errorf("sub allocated = %d, want 100", got)
	}
	if err := root.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestResetAllocationsThenRespread(t *testing.T) {
	build := func() (*tree.Branch[order, string], []*tree.Leaf[order, string]) {
		root := tree.NewBranch[order, string]("root")
		leaves := make([]*tree.Leaf[order, string], 3)
		for i := range leaves {
			leaves[i] = tree.NewLeaf[order, string]("leaf", "v")
			root.AddNode(leaves[i])
		}
		return root, leaves
	}

	fresh, freshLeaves := build()
	if err := fresh.SpreadPercentageOnAllNotSetNodes(); err != nil {
		t.Fatal(err)
	}

	reused, reusedLeaves := build()
	if err := reused.AllocatePercentage(90, reusedLeaves[0]); err != nil {
		t.Fatal(err)
	}
	if err := reused.AllocatePercentage(10, reusedLeaves[1]); err != nil {
		t.Fatal(err)
	}
	reused.ResetAllocations()
	if got := reused.Allocated(); got != 0 {
		t.Fatalf("allocated after reset = %d, want 0", got)
	}
	if err := reused.SpreadPercentageOnAllNotSetNodes(); err != nil {
		t.Fatal(err)
	}

	for i := range freshLeaves {
		want := fresh.PercentageOf(freshLeaves[i])
		got := reused.PercentageOf(reusedLeaves[i])
		if got != want {
			t.Errorf("child %d: reset+respread gave %d, fresh spread gave %d", i, got, want)
		}
	}
}

func TestGetRejectsOnOwnRules(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	root.AddNode(tree.NewLeaf[order, string]("a", "A"))
	if err := root.SpreadPercentage(); err != nil {
		t.Fatal(err)
	}
	root.AddRule(reject())

	if _, ok := root.Get(order{}); ok {
		t.Error("branch with a failing rule must yield no result")
	}
}

func TestGetWeightedDistribution(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	b := tree.NewLeaf[order, string]("b", "B")
	root.AddNode(a)
	root.AddNode(b)
	if err := root.AllocatePercentage(50, a); err != nil {
		t.Fatal(err)
	}
	if err := root.AllocatePercentage(50, b); err != nil {
		t.Fatal(err)
	}
	root.SetRand(seeded(42, 7))

	const draws = 100000
	counts := map[string]int{}
	for i := 0; i < draws; i++ {
		result, ok := root.Get(order{})
		if !ok {
			t.Fatal("unexpected no result")
		}
		counts[result]++
	}

	// 50/50 within 1.5% of 100k draws; ~9.5 sigma for a fair coin.
	const tolerance = 1500
	for _, outcome := range []string{"A", "B"} {
		if diff := counts[outcome] - draws/2; diff > tolerance || diff < -tolerance {
			t.Errorf("outcome %s drawn %d times, want %d±%d", outcome, counts[outcome], draws/2, tolerance)
		}
	}
}

func TestGetRetriesPastRejectingChild(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	b := tree.NewLeaf[order, string]("b", "B")
	a.AddRule(reject())
	root.AddNode(a)
	root.AddNode(b)

	// Nearly all probability mass on the rejecting child: retries must
	// still land on b, not redistribute or give up early.
	if err := root.AllocatePercentage(99, a); err != nil {
		t.Fatal(err)
	}
	if err := root.AllocatePercentage(1, b); err != nil {
		t.Fatal(err)
	}
	root.SetRand(seeded(1, 2))

	for i := 0; i < 100; i++ {
		result, ok := root.Get(order{})
		if !ok {
			t.Fatal("expected the accepting child to be found within the retry bound")
		}
		if result != "B" {
			t.Fatalf("result = %q, want B", result)
		}
	}
}

func TestGetExhaustsRetryBound(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	a.AddRule(reject())
	root.AddNode(a)
	if err := root.SpreadPercentage(); err != nil {
		t.Fatal(err)
	}
	root.SetMaxTries(500)

	if _, ok := root.Get(order{}); ok {
		t.Error("all children rejecting must yield no result")
	}
}

func TestGetPanicsOnIncompleteAllocation(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	a := tree.NewLeaf[order, string]("a", "A")
	root.AddNode(a)
	if err := root.AllocatePercentage(60, a); err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Error("routing a partially allocated branch must panic")
		}
	}()
	root.Get(order{})
}

func TestNodeByName(t *testing.T) {
	root := tree.NewBranch[order, string]("root")
	sub := tree.NewBranch[order, string]("sub")
	deep := tree.NewLeaf[order, string]("deep", "D")
	root.AddNode(sub)
	sub.AddNode(deep)

	if found, ok := root.NodeByName("root"); !ok || found != tree.Node[order, string](root) {
		t.Error("lookup of own name must return the node itself")
	}
	if found, ok := root.NodeByName("deep"); !ok || found.Name() != "deep" {
		t.Error("lookup must find descendants at any depth")
	}
	if _, ok := root.NodeByName("missing"); ok {
		t.Error("unknown name must report not found")
	}
	if !deep.IsLeaf() || sub.IsLeaf() {
		t.Error("IsLeaf must discriminate the two shapes")
	}
}
