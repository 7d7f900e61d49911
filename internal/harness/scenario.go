package harness

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/memptr/internal/memptr"
)

// Scenario defines one conformance scenario: an expression graph, the
// accesses whose addresses live in it, and the checks to run against the
// analysis. Nodes are declared leaf-first; operands must be declared before
// the node that uses them, which keeps the graph acyclic by construction.
type Scenario struct {
	// Name uniquely identifies this scenario. Golden files are keyed by it.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// AddressBits optionally overrides the policy's address width for
	// this scenario. Zero means "use the policy as given".
	AddressBits int `yaml:"address_bits,omitempty"`

	// Nodes declares the expression graph in creation order.
	Nodes []NodeSpec `yaml:"nodes"`

	// Accesses binds addresses in the graph to load/store shapes.
	Accesses []AccessSpec `yaml:"accesses"`

	// Checks is the list of analysis invocations and their expectations.
	Checks []CheckSpec `yaml:"checks"`
}

// EffectivePolicy returns pol with the scenario's address_bits override
// applied.
func (s *Scenario) EffectivePolicy(pol memptr.Policy) memptr.Policy {
	switch s.AddressBits {
	case 32:
		pol.AddressWidth = memptr.Width32
	case 64:
		pol.AddressWidth = memptr.Width64
	}
	return pol
}

// NodeSpec declares one expression node.
type NodeSpec struct {
	// Name is the handle other nodes and accesses refer to.
	Name string `yaml:"name"`

	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Bits is the value width, required for opaque and literal nodes and
	// derived from operands for everything else.
	Bits int `yaml:"bits,omitempty"`

	// Value is the constant of a literal node.
	Value *int64 `yaml:"value,omitempty"`

	// Args names the operands, in order, all declared earlier.
	Args []string `yaml:"args,omitempty"`
}

// AccessSpec declares one memory access against a node's address.
type AccessSpec struct {
	// Name is the handle checks refer to.
	Name string `yaml:"name"`

	// Address names the node producing the access address.
	Address string `yaml:"address"`

	// Size is the access width in bytes.
	Size int32 `yaml:"size"`

	// ElemSize is the static array element size in bytes; zero means the
	// access is not a statically typed array access.
	ElemSize int32 `yaml:"elem_size,omitempty"`

	// RangeChecked marks the index arithmetic as host-guaranteed in
	// bounds.
	RangeChecked bool `yaml:"range_checked,omitempty"`
}

// CheckSpec declares one analysis invocation.
type CheckSpec struct {
	// Kind is one of the Check* constants.
	Kind string `yaml:"kind"`

	// Access names the access to decompose (kind: decompose).
	Access string `yaml:"access,omitempty"`

	// First and Second name the accesses to compare (kind: aliasing).
	First  string `yaml:"first,omitempty"`
	Second string `yaml:"second,omitempty"`

	// Before and After name the accesses for the adjacency predicate
	// (kind: adjacent): does Before end exactly where After begins.
	Before string `yaml:"before,omitempty"`
	After  string `yaml:"after,omitempty"`

	// Expect is the expected rendering of the check outcome: a form for
	// decompose, a verdict for aliasing, true/false for adjacent.
	Expect string `yaml:"expect"`
}

// Node operator names accepted in scenario files.
const (
	OpOpaque  = "opaque"
	OpLiteral = "literal"
	OpAdd     = "add"
	OpSub     = "sub"
	OpMul     = "mul"
	OpShiftL  = "shiftl"
	OpWiden   = "widen"
)

// Check kind constants.
const (
	CheckDecompose = "decompose"
	CheckAliasing  = "aliasing"
	CheckAdjacent  = "adjacent"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks required fields, reference integrity, and operand
// widths, so that building the graph later cannot fail. Names are folded to
// NFC first: scenario files written in editors that emit decomposed Unicode
// should still have references compare by meaning.
func validateScenario(s *Scenario) error {
	normalizeScenario(s)

	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	switch s.AddressBits {
	case 0, 32, 64:
	default:
		return fmt.Errorf("address_bits must be 32 or 64, got %d", s.AddressBits)
	}
	if len(s.Nodes) == 0 {
		return fmt.Errorf("nodes list is required and must be non-empty")
	}
	if len(s.Accesses) == 0 {
		return fmt.Errorf("accesses list is required and must be non-empty")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	widths, err := validateNodes(s.Nodes)
	if err != nil {
		return err
	}

	accesses := make(map[string]bool, len(s.Accesses))
	for i, a := range s.Accesses {
		if a.Name == "" {
			return fmt.Errorf("accesses[%d]: name is required", i)
		}
		if accesses[a.Name] {
			return fmt.Errorf("accesses[%d]: duplicate access name %q", i, a.Name)
		}
		accesses[a.Name] = true
		if a.Address == "" {
			return fmt.Errorf("accesses[%d]: address is required", i)
		}
		if _, ok := widths[a.Address]; !ok {
			return fmt.Errorf("accesses[%d]: unknown address node %q", i, a.Address)
		}
		if a.Size <= 0 {
			return fmt.Errorf("accesses[%d]: size must be positive, got %d", i, a.Size)
		}
		if a.ElemSize < 0 {
			return fmt.Errorf("accesses[%d]: elem_size must not be negative, got %d", i, a.ElemSize)
		}
	}

	for i, c := range s.Checks {
		if err := validateCheck(i, &c, accesses); err != nil {
			return err
		}
	}

	return nil
}

// validateNodes checks each node declaration and returns the inferred value
// width per node name.
func validateNodes(nodes []NodeSpec) (map[string]int, error) {
	widths := make(map[string]int, len(nodes))

	for i, n := range nodes {
		if n.Name == "" {
			return nil, fmt.Errorf("nodes[%d]: name is required", i)
		}
		if _, dup := widths[n.Name]; dup {
			return nil, fmt.Errorf("nodes[%d]: duplicate node name %q", i, n.Name)
		}

		argWidths := make([]int, len(n.Args))
		for j, arg := range n.Args {
			w, ok := widths[arg]
			if !ok {
				return nil, fmt.Errorf("nodes[%d] (%s): unknown operand %q (operands must be declared earlier)", i, n.Name, arg)
			}
			argWidths[j] = w
		}

		switch n.Op {
		case OpOpaque, OpLiteral:
			if n.Bits != 32 && n.Bits != 64 {
				return nil, fmt.Errorf("nodes[%d] (%s): bits must be 32 or 64, got %d", i, n.Name, n.Bits)
			}
			if len(n.Args) != 0 {
				return nil, fmt.Errorf("nodes[%d] (%s): %s takes no operands", i, n.Name, n.Op)
			}
			if n.Op == OpLiteral && n.Value == nil {
				return nil, fmt.Errorf("nodes[%d] (%s): literal requires a value", i, n.Name)
			}
			if n.Op == OpOpaque && n.Value != nil {
				return nil, fmt.Errorf("nodes[%d] (%s): value is only valid for literal nodes", i, n.Name)
			}
			widths[n.Name] = n.Bits

		case OpAdd, OpSub, OpMul, OpShiftL:
			if n.Bits != 0 {
				return nil, fmt.Errorf("nodes[%d] (%s): bits is derived for operator nodes", i, n.Name)
			}
			if n.Value != nil {
				return nil, fmt.Errorf("nodes[%d] (%s): value is only valid for literal nodes", i, n.Name)
			}
			if len(n.Args) != 2 {
				return nil, fmt.Errorf("nodes[%d] (%s): %s takes exactly 2 operands", i, n.Name, n.Op)
			}
			if n.Op == OpShiftL {
				if argWidths[1] != 32 {
					return nil, fmt.Errorf("nodes[%d] (%s): shift count must be 32-bit", i, n.Name)
				}
			} else if argWidths[0] != argWidths[1] {
				return nil, fmt.Errorf("nodes[%d] (%s): operand widths differ (%d vs %d)", i, n.Name, argWidths[0], argWidths[1])
			}
			widths[n.Name] = argWidths[0]

		case OpWiden:
			if n.Bits != 0 {
				return nil, fmt.Errorf("nodes[%d] (%s): bits is derived for operator nodes", i, n.Name)
			}
			if n.Value != nil {
				return nil, fmt.Errorf("nodes[%d] (%s): value is only valid for literal nodes", i, n.Name)
			}
			if len(n.Args) != 1 {
				return nil, fmt.Errorf("nodes[%d] (%s): widen takes exactly 1 operand", i, n.Name)
			}
			if argWidths[0] != 32 {
				return nil, fmt.Errorf("nodes[%d] (%s): widen takes a 32-bit operand", i, n.Name)
			}
			widths[n.Name] = 64

		default:
			return nil, fmt.Errorf("nodes[%d] (%s): unknown op %q", i, n.Name, n.Op)
		}
	}

	return widths, nil
}

// validateCheck validates a single check based on its kind.
func validateCheck(index int, c *CheckSpec, accesses map[string]bool) error {
	if c.Kind == "" {
		return fmt.Errorf("checks[%d]: kind is required", index)
	}
	if c.Expect == "" {
		return fmt.Errorf("checks[%d]: expect is required", index)
	}

	ref := func(field, name string) error {
		if name == "" {
			return fmt.Errorf("checks[%d]: %s is required for %s", index, field, c.Kind)
		}
		if !accesses[name] {
			return fmt.Errorf("checks[%d]: unknown access %q", index, name)
		}
		return nil
	}

	switch c.Kind {
	case CheckDecompose:
		return ref("access", c.Access)
	case CheckAliasing:
		if err := ref("first", c.First); err != nil {
			return err
		}
		return ref("second", c.Second)
	case CheckAdjacent:
		if err := ref("before", c.Before); err != nil {
			return err
		}
		return ref("after", c.After)
	default:
		return fmt.Errorf("checks[%d]: unknown check kind %q", index, c.Kind)
	}
}

// normalizeScenario folds every name and name reference to NFC.
func normalizeScenario(s *Scenario) {
	s.Name = norm.NFC.String(s.Name)
	for i := range s.Nodes {
		s.Nodes[i].Name = norm.NFC.String(s.Nodes[i].Name)
		for j := range s.Nodes[i].Args {
			s.Nodes[i].Args[j] = norm.NFC.String(s.Nodes[i].Args[j])
		}
	}
	for i := range s.Accesses {
		s.Accesses[i].Name = norm.NFC.String(s.Accesses[i].Name)
		s.Accesses[i].Address = norm.NFC.String(s.Accesses[i].Address)
	}
	for i := range s.Checks {
		c := &s.Checks[i]
		c.Access = norm.NFC.String(c.Access)
		c.First = norm.NFC.String(c.First)
		c.Second = norm.NFC.String(c.Second)
		c.Before = norm.NFC.String(c.Before)
		c.After = norm.NFC.String(c.After)
	}
}
