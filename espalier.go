package espalier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/espalier/internal/compiler"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/observability"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/rules"
	"github.com/aretw0/espalier/pkg/tree"
)

// Convenience aliases for the routing tree instantiated over orders.
type (
	// Tree is a routing tree branch over orders.
	Tree = tree.Branch[*domain.Order, string]
	// Node is any node of a routing tree over orders.
	Node = tree.Node[*domain.Order, string]
	// Rule is an eligibility predicate over orders.
	Rule = tree.Rule[*domain.Order]
)

// DecisionJournal records routing decisions for audit and inspection.
// Implementations must be safe for concurrent use.
type DecisionJournal interface {
	Record(ctx context.Context, decision domain.Decision) error
}

// Engine is the high-level entry point for the espalier library.
// It compiles a routing tree from configuration and answers routing calls.
type Engine struct {
	root     *Tree
	registry *rules.Registry
	logger   *slog.Logger
	rng      *rand.Rand
	maxTries int
	journal  DecisionJournal
	metrics  *observability.Metrics
	Name     string
}

// New compiles the routing tree described by the YAML file at path.
func New(path string, opts ...Option) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	eng, err := NewFromConfig(data, opts...)
	if err != nil {
		return nil, err
	}
	if eng.Name == "" {
		base := filepath.Base(path)
		eng.Name = strings.TrimSuffix(base, filepath.Ext(base))
		eng.logger = eng.logger.With("router", eng.Name)
	}
	return eng, nil
}

// NewFromConfig compiles the routing tree from an in-memory YAML document.
func NewFromConfig(data []byte, opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.registry == nil {
		eng.registry = rules.NewRegistry()
	}

	c := compiler.NewCompiler(eng.registry)
	if eng.rng != nil {
		c.SetRand(eng.rng)
	}
	if eng.maxTries > 0 {
		c.SetMaxTries(eng.maxTries)
	}

	root, cfg, err := c.Compile(data)
	if err != nil {
		return nil, err
	}
	eng.root = root

	if cfg.Name != "" {
		eng.Name = cfg.Name
		eng.logger = eng.logger.With("router", eng.Name)
	}
	return eng, nil
}

// Route assigns a venue to the order, or reports that no venue applies.
// A decision with Routed set to false is a first-class outcome; the caller
// owns any fallback policy. Journal failures are logged, never propagated
// into the routing result.
func (e *Engine) Route(ctx context.Context, order *domain.Order) (domain.Decision, error) {
	if order == nil {
		return domain.Decision{}, domain.ErrNilOrder
	}

	start := time.Now()
	venue, routed := e.root.Get(order)
	elapsed := time.Since(start)

	decision := domain.Decision{
		OrderID:   order.ID,
		Venue:     venue,
		Routed:    routed,
		DecidedAt: time.Now().UTC(),
	}

	e.metrics.ObserveDecision(venue, routed, elapsed)
	if routed {
		e.logger.Debug("order routed", "order_id", order.ID, "venue", venue)
	} else {
		e.logger.Info("no applicable venue", "order_id", order.ID)
	}

	if e.journal != nil {
		if err := e.journal.Record(ctx, decision); err != nil {
			e.logger.Warn("journal record failed", "order_id", order.ID, "error", err)
		}
	}
	return decision, nil
}

// Inspect returns a serializable snapshot of the whole tree.
func (e *Engine) Inspect() domain.NodeInfo {
	return snapshot(e.root, 0)
}

// NodeByName looks a node up anywhere in the tree, first match wins.
func (e *Engine) NodeByName(name string) (Node, bool) {
	return e.root.NodeByName(name)
}

// WriteDump renders the indented diagnostic view of the tree.
func (e *Engine) WriteDump(w io.Writer) {
	e.root.DumpTree(w, 0)
}

// Root exposes the underlying tree for advanced embedding, such as manual
// reallocation. Reconfiguration must never overlap with Route calls.
func (e *Engine) Root() *Tree { return e.root }

func snapshot(node Node, percent int) domain.NodeInfo {
	switch n := node.(type) {
	case *Tree:
		info := domain.NodeInfo{
			Name:    n.Name(),
			Kind:    domain.NodeKindBranch,
			Percent: percent,
			Rules:   n.Rules(),
		}
		for _, child := range n.Children() {
			info.Children = append(info.Children, snapshot(child, n.PercentageOf(child)))
		}
		return info
	case *tree.Leaf[*domain.Order, string]:
		return domain.NodeInfo{
			Name:    n.Name(),
			Kind:    domain.NodeKindLeaf,
			Venue:   n.Value(),
			Percent: percent,
			Rules:   n.Rules(),
		}
	}
	return domain.NodeInfo{}
}
