/*
Package tree implements a rule-gated, weighted-random decision tree.

A tree is assembled once at configuration time from two node shapes: a Branch
owns an ordered list of children and a percentage allocation over them, and a
Leaf holds a single outcome value. Every node carries an ordered list of
Rules, boolean predicates over the routing subject, combined with AND
semantics and short-circuit evaluation.

Routing a subject calls Get on the root. A Branch whose own rules pass draws
a uniform integer in [0,100), resolves it through a precomputed 100-entry
slot table to one child, and delegates to that child. A child that rejects
the subject simply wastes the draw; the branch re-rolls, up to a bounded
number of tries, before giving up. Allocated percentages therefore describe
the distribution of attempts, not of accepted outcomes: probability mass of
a rejecting child is never redistributed to its siblings.

Allocation is configured either explicitly per child with AllocatePercentage
or uniformly with SpreadPercentage and its recursive variant. Every branch
must reach a running total of exactly 100 before routing begins; Validate
checks the whole subtree. Misconfiguration surfaces as errors from the
configuration calls, never as a routing-time condition.

The package is generic over the subject type S and the outcome type V. The
structure is immutable during routing and safe for concurrent Get calls; the
random source defaults to the process-wide math/rand/v2 generator and can be
replaced per branch with a seeded one for reproducible tests.
*/
package tree
