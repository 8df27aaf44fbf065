package espalier

import (
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/espalier/internal/observability"
	"github.com/aretw0/espalier/pkg/rules"
	"github.com/prometheus/client_golang/prometheus"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRand injects a seeded random source for deterministic routing, used
// by every branch of the compiled tree. A dedicated *rand.Rand is not safe
// for concurrent Route calls; leave it unset for concurrent serving.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithMaxTries tunes the bounded retry count of weighted selection.
func WithMaxTries(n int) Option {
	return func(e *Engine) {
		e.maxTries = n
	}
}

// WithRegistry replaces the rule registry used to compile the tree,
// allowing embedders to add custom rule kinds.
func WithRegistry(registry *rules.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// WithJournal records every routing decision to the given journal.
func WithJournal(journal DecisionJournal) Option {
	return func(e *Engine) {
		e.journal = journal
	}
}

// WithMetrics registers routing collectors on reg and reports into them.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.metrics = observability.New(reg)
	}
}
