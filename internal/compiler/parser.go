package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/rules"
	"github.com/aretw0/espalier/pkg/tree"
	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML document describing a routing tree.
type Config struct {
	Name string   `yaml:"name"`
	Root NodeSpec `yaml:"root"`
}

// NodeSpec describes one node. A spec with a venue is a leaf; a spec with
// children is a branch. Percent is only meaningful on the children of a
// branch and must be set on either all of a branch's children (explicit
// allocation, applied in insertion order) or none (uniform spread).
type NodeSpec struct {
	Name     string     `yaml:"name"`
	Venue    string     `yaml:"venue,omitempty"`
	Percent  *int       `yaml:"percent,omitempty"`
	Rules    []RuleSpec `yaml:"rules,omitempty"`
	Children []NodeSpec `yaml:"children,omitempty"`
}

// RuleSpec references a rule factory by kind plus its parameters.
type RuleSpec struct {
	Kind   string         `yaml:"kind"`
	Params map[string]any `yaml:"params,omitempty"`
}

var (
	// ErrNoRoot is returned for a document without a root node.
	ErrNoRoot = errors.New("config has no root node")

	// ErrMissingName is returned for a node without a name.
	ErrMissingName = errors.New("node missing name")

	// ErrAmbiguousShape is returned when a node declares both a venue and
	// children, or neither.
	ErrAmbiguousShape = errors.New("node must have either a venue or children")

	// ErrMixedAllocation is returned when only some children of a branch
	// carry an explicit percent.
	ErrMixedAllocation = errors.New("branch mixes explicit and unset percentages")
)

// Compiler converts a YAML document into an assembled, validated routing
// tree, wiring the configured random source and retry bound into every
// branch it builds.
type Compiler struct {
	registry *rules.Registry
	rng      *rand.Rand
	maxTries int
}

// NewCompiler creates a compiler using the given rule registry.
// A nil registry falls back to the builtin rule kinds.
func NewCompiler(registry *rules.Registry) *Compiler {
	if registry == nil {
		registry = rules.NewRegistry()
	}
	return &Compiler{registry: registry}
}

// SetRand threads a seeded random source into every compiled branch.
func (c *Compiler) SetRand(rng *rand.Rand) { c.rng = rng }

// SetMaxTries tunes the retry bound of every compiled branch.
func (c *Compiler) SetMaxTries(n int) { c.maxTries = n }

// Compile parses the document, assembles the tree, spreads unset
// allocations and validates. The returned tree is routing-ready.
func (c *Compiler) Compile(data []byte) (*tree.Branch[*domain.Order, string], *Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.Root.Name == "" && cfg.Root.Venue == "" && len(cfg.Root.Children) == 0 {
		return nil, nil, ErrNoRoot
	}
	if len(cfg.Root.Children) == 0 {
		return nil, nil, fmt.Errorf("root %q: %w: the root must be a branch", cfg.Root.Name, ErrAmbiguousShape)
	}
	if cfg.Root.Percent != nil {
		return nil, nil, fmt.Errorf("root %q: percent is only valid on children", cfg.Root.Name)
	}

	node, err := c.build(cfg.Root)
	if err != nil {
		return nil, nil, err
	}
	root := node.(*tree.Branch[*domain.Order, string])

	if err := root.SpreadPercentageOnAllNotSetNodes(); err != nil {
		return nil, nil, err
	}
	if err := root.Validate(); err != nil {
		return nil, nil, err
	}
	return root, &cfg, nil
}

func (c *Compiler) build(spec NodeSpec) (tree.Node[*domain.Order, string], error) {
	if spec.Name == "" {
		return nil, ErrMissingName
	}

	isLeaf := spec.Venue != ""
	isBranch := len(spec.Children) > 0
	if isLeaf == isBranch {
		return nil, fmt.Errorf("node %q: %w", spec.Name, ErrAmbiguousShape)
	}

	var node tree.Node[*domain.Order, string]
	if isLeaf {
		node = tree.NewLeaf[*domain.Order](spec.Name, spec.Venue)
	} else {
		branch := tree.NewBranch[*domain.Order, string](spec.Name)
		if c.rng != nil {
			branch.SetRand(c.rng)
		}
		if c.maxTries > 0 {
			branch.SetMaxTries(c.maxTries)
		}

		explicit := 0
		for _, child := range spec.Children {
			if child.Percent != nil {
				explicit++
			}
		}
		if explicit != 0 && explicit != len(spec.Children) {
			return nil, fmt.Errorf("branch %q: %w", spec.Name, ErrMixedAllocation)
		}

		for _, childSpec := range spec.Children {
			child, err := c.build(childSpec)
			if err != nil {
				return nil, err
			}
			branch.AddNode(child)
			if childSpec.Percent != nil {
				if err := branch.AllocatePercentage(*childSpec.Percent, child); err != nil {
					return nil, err
				}
			}
		}
		node = branch
	}

	for _, rs := range spec.Rules {
		rule, err := c.registry.Build(rs.Kind, rs.Params)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", spec.Name, err)
		}
		node.AddRule(rule)
	}
	return node, nil
}
