package harness

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/memptr/internal/graph"
	"github.com/roach88/memptr/internal/memptr"
	"github.com/roach88/memptr/internal/policy"
)

// runner holds the state of one scenario execution.
type runner struct {
	policy memptr.Policy
	logger *slog.Logger
	accs   map[string]graph.Access
}

// Run executes a scenario under the default decomposition policy.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithPolicy(scenario, policy.Default())
}

// RunWithPolicy executes a scenario under pol. The scenario's address_bits
// field, when set, overrides the policy's address width. Scenarios are
// re-validated on entry, so callers constructing them in code get the same
// guarantees as LoadScenario callers.
func RunWithPolicy(scenario *Scenario, pol memptr.Policy) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario must not be nil")
	}
	accs, err := BuildAccesses(scenario)
	if err != nil {
		return nil, err
	}

	h := &runner{
		policy: scenario.EffectivePolicy(pol),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
		accs:   accs,
	}
	return h.run(scenario)
}

// BuildAccesses validates s, constructs its expression graph, and returns
// the declared accesses by name. The graph itself stays internal: everything
// the analysis needs is reachable through the accesses.
func BuildAccesses(s *Scenario) (map[string]graph.Access, error) {
	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	g := graph.New()
	nodes := make(map[string]*graph.Node, len(s.Nodes))
	for _, ns := range s.Nodes {
		nodes[ns.Name] = buildNode(g, nodes, ns)
	}

	accs := make(map[string]graph.Access, len(s.Accesses))
	for _, as := range s.Accesses {
		accs[as.Name] = graph.Access{
			Addr:     nodes[as.Address],
			Bytes:    as.Size,
			ElemSize: as.ElemSize,
			Guarded:  as.RangeChecked,
		}
	}
	return accs, nil
}

func (h *runner) run(s *Scenario) (*Result, error) {
	result := NewResult()
	result.Report = append(result.Report, "scenario: "+s.Name)

	for i, c := range s.Checks {
		h.logger.Debug("executing check", "scenario", s.Name, "index", i, "kind", c.Kind)
		switch c.Kind {
		case CheckDecompose:
			form := memptr.Decompose(h.accs[c.Access], h.policy)
			got := form.String()
			h.record(result, i, fmt.Sprintf("decompose %s = %s", c.Access, got), got, c.Expect)
		case CheckAliasing:
			first := memptr.Decompose(h.accs[c.First], h.policy)
			second := memptr.Decompose(h.accs[c.Second], h.policy)
			got := first.AliasingWith(second).String()
			h.record(result, i, fmt.Sprintf("aliasing %s %s = %s", c.First, c.Second, got), got, c.Expect)
		case CheckAdjacent:
			before := memptr.NewPointer(h.accs[c.Before], h.policy, nil)
			after := memptr.NewPointer(h.accs[c.After], h.policy, nil)
			got := strconv.FormatBool(before.IsAdjacentToAndBefore(after))
			h.record(result, i, fmt.Sprintf("adjacent %s %s = %s", c.Before, c.After, got), got, c.Expect)
		}
	}

	if result.Pass {
		result.Report = append(result.Report, "result: pass")
	} else {
		result.Report = append(result.Report, "result: fail")
	}
	h.logger.Debug("scenario complete", "scenario", s.Name, "pass", result.Pass)
	return result, nil
}

// buildNode constructs one graph node from its validated spec.
func buildNode(g *graph.Graph, nodes map[string]*graph.Node, ns NodeSpec) *graph.Node {
	switch ns.Op {
	case OpOpaque:
		return g.Opaque(ns.Name, widthOf(ns.Bits))
	case OpLiteral:
		return g.Literal(*ns.Value, widthOf(ns.Bits))
	case OpAdd:
		return g.Add(nodes[ns.Args[0]], nodes[ns.Args[1]])
	case OpSub:
		return g.Sub(nodes[ns.Args[0]], nodes[ns.Args[1]])
	case OpMul:
		return g.Mul(nodes[ns.Args[0]], nodes[ns.Args[1]])
	case OpShiftL:
		return g.ShiftL(nodes[ns.Args[0]], nodes[ns.Args[1]])
	case OpWiden:
		return g.Widen(nodes[ns.Args[0]])
	default:
		// validateScenario rejects unknown ops before we get here.
		panic(fmt.Sprintf("harness: unreachable op %q", ns.Op))
	}
}

func (h *runner) record(result *Result, idx int, line, got, want string) {
	if got == want {
		result.Report = append(result.Report, line+" [expect: "+want+"] ok")
		return
	}
	result.Report = append(result.Report, line+" [expect: "+want+"] FAIL")
	result.AddError(fmt.Sprintf("checks[%d]: got %s, want %s", idx, got, want))
}

func widthOf(bits int) memptr.Width {
	if bits == 32 {
		return memptr.Width32
	}
	return memptr.Width64
}
