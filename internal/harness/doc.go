// Package harness executes conformance scenarios against the pointer
// analysis.
//
// A scenario declares an expression graph, the memory accesses whose
// addresses live in that graph, and a list of checks with expected
// outcomes. Scenarios are the executable form of the analysis contract:
// each check both asserts its expectation inline and contributes a line to
// a report that golden files snapshot, so behavior and rendering drift are
// caught together.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario-name
//	description: "What this scenario validates"
//	address_bits: 64            # optional policy override (32 or 64)
//	nodes:
//	  - {name: base, op: opaque, bits: 64}
//	  - {name: i, op: opaque, bits: 32}
//	  - {name: two, op: literal, bits: 32, value: 2}
//	  - {name: idx, op: widen, args: [i]}
//	  - {name: offset, op: shiftl, args: [idx, two]}
//	  - {name: p, op: add, args: [base, offset]}
//	accesses:
//	  - {name: s1, address: p, size: 4, elem_size: 4, range_checked: true}
//	checks:
//	  - {kind: decompose, access: s1, expect: "(0 + 1 * base + 4 * i)"}
//	  - {kind: aliasing, first: s1, second: s2, expect: "Always(4)"}
//	  - {kind: adjacent, before: s1, after: s2, expect: "true"}
//
// Nodes are declared leaf-first: operands must appear before the node that
// uses them, which keeps the declared graph acyclic by construction. Widths
// are given on opaque and literal nodes and derived for operators.
//
// # Check Kinds
//
// The following check kinds are supported:
//
//   - decompose: decompose one access and compare the rendered form
//   - aliasing: compare two decomposed accesses and match the verdict
//   - adjacent: ask whether "before" ends exactly where "after" begins
//
// # Deterministic Execution
//
// A fresh graph is built per run and node IDs are assigned in declaration
// order, so decomposed forms render identically across runs and golden
// files stay stable. There is no persistent state anywhere in a run.
//
// # Usage
//
// Load and run a scenario:
//
//	scenario, err := harness.LoadScenario("testdata/byte-adjacent.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
