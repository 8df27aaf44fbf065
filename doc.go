/*
Package espalier routes pending orders through a rule-gated, weighted-random
decision tree to exactly one configured venue.

An espalier is a tree trained along a trellis: the routing tree is assembled
once from a YAML configuration, each branching point carries a percentage
split over its children, and any node can carry eligibility rules that gate
descent. Routing an order walks the tree with weighted random selection and
bounded retry; a rule-rejected path simply wastes the draw and the branch
re-rolls, so configured percentages describe the distribution of attempts,
not of accepted outcomes.

# Key Features

  - Deterministic replay: inject a seeded random source to reproduce any
    routing sequence exactly.
  - Strict configuration: every branch must allocate exactly 100 percent,
    explicitly per child or via uniform spread; defects surface as errors
    before routing begins.
  - First-class "no route": an order no venue accepts yields a non-error
    decision, leaving fallback policy to the caller.
  - Pluggable rules: builtin predicates (symbol, side, quantity, price,
    time window, tags) plus embedder-registered kinds.

# Usage

	package main

	import (
		"context"
		"log"
		"time"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/domain"
	)

	func main() {
		eng, err := espalier.New("router.yaml")
		if err != nil {
			log.Fatal(err)
		}

		decision, err := eng.Route(context.Background(), &domain.Order{
			ID:        "ord-1",
			Symbol:    "AAPL",
			Side:      domain.SideBuy,
			Type:      domain.OrderTypeMarket,
			Quantity:  500,
			CreatedAt: time.Now(),
		})
		if err != nil {
			log.Fatal(err)
		}
		if decision.Routed {
			log.Println("venue:", decision.Venue)
		} else {
			log.Println("no applicable venue, applying fallback")
		}
	}

The cmd/espalier CLI wraps the same engine with route, validate, graph and
serve commands; see the package documentation of pkg/tree for the selection
algorithm's exact semantics.
*/
package espalier
