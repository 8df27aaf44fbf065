// Package redis implements the decision journal on Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/espalier/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// defaultCap bounds the ring of retained decisions.
const defaultCap = 1000

// Journal records routing decisions in a capped Redis list and keeps
// per-venue counters. It implements espalier.DecisionJournal.
type Journal struct {
	client *backend.Client
	prefix string
	cap    int64
}

type Option func(*Journal)

// WithPrefix sets the key prefix for journal entries.
func WithPrefix(prefix string) Option {
	return func(j *Journal) {
		j.prefix = prefix
	}
}

// WithCap sets how many recent decisions are retained.
func WithCap(n int64) Option {
	return func(j *Journal) {
		if n > 0 {
			j.cap = n
		}
	}
}

// New creates a journal with its own Redis client.
func New(address, password string, db int, opts ...Option) *Journal {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		prefix: "espalier:journal:",
		cap:    defaultCap,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Journal) ringKey() string   { return j.prefix + "recent" }
func (j *Journal) countsKey() string { return j.prefix + "counts" }

// noRouteField is the counter field for decisions without a venue.
const noRouteField = "-"

// Record appends the decision to the ring and bumps the venue counter.
func (j *Journal) Record(ctx context.Context, decision domain.Decision) error {
	data, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	field := decision.Venue
	if !decision.Routed {
		field = noRouteField
	}

	pipe := j.client.Pipeline()
	pipe.LPush(ctx, j.ringKey(), data)
	pipe.LTrim(ctx, j.ringKey(), 0, j.cap-1)
	pipe.HIncrBy(ctx, j.countsKey(), field, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// Recent returns up to n decisions, newest first.
func (j *Journal) Recent(ctx context.Context, n int64) ([]domain.Decision, error) {
	if n <= 0 {
		n = j.cap
	}
	raw, err := j.client.LRange(ctx, j.ringKey(), 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}

	decisions := make([]domain.Decision, 0, len(raw))
	for _, entry := range raw {
		var d domain.Decision
		if err := json.Unmarshal([]byte(entry), &d); err != nil {
			return nil, fmt.Errorf("failed to unmarshal decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, nil
}

// Find returns the most recent decision recorded for the order, or
// domain.ErrDecisionNotFound when the ring holds none.
func (j *Journal) Find(ctx context.Context, orderID string) (domain.Decision, error) {
	raw, err := j.client.LRange(ctx, j.ringKey(), 0, j.cap-1).Result()
	if err != nil {
		return domain.Decision{}, fmt.Errorf("failed to read journal: %w", err)
	}

	for _, entry := range raw {
		var d domain.Decision
		if err := json.Unmarshal([]byte(entry), &d); err != nil {
			return domain.Decision{}, fmt.Errorf("failed to unmarshal decision: %w", err)
		}
		if d.OrderID == orderID {
			return d, nil
		}
	}
	return domain.Decision{}, fmt.Errorf("%w: %s", domain.ErrDecisionNotFound, orderID)
}

// Counts returns the number of recorded decisions per venue. Decisions
// without a venue are reported under the "-" key.
func (j *Journal) Counts(ctx context.Context) (map[string]int64, error) {
	raw, err := j.client.HGetAll(ctx, j.countsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read counters: %w", err)
	}

	counts := make(map[string]int64, len(raw))
	for venue, v := range raw {
		var n int64
		if _, err := fmt.Sscan(v, &n); err != nil {
			return nil, fmt.Errorf("bad counter for %s: %w", venue, err)
		}
		counts[venue] = n
	}
	return counts, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}
