// Package rules provides the eligibility predicates attached to routing
// tree nodes, and the Registry that builds them from configuration.
//
// A rule is referenced in the tree configuration by kind plus a parameter
// map; the Registry looks up the factory for the kind, decodes the
// parameters, and returns a named tree.Rule over *domain.Order. Embedders
// can register their own factories next to the builtins.
package rules
