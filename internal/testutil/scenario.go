package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteScenario writes one scenario file into dir and returns its path.
//
// dir is typically t.TempDir(), so the file disappears with the test.
func WriteScenario(t *testing.T, dir, filename, content string) string {
	t.Helper()
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing scenario %s: %v", filename, err)
	}
	return path
}

// AdjacentPair returns a scenario named name with two 4-byte accesses at
// base+16 and base+20. Its decompose, aliasing, and adjacency checks all
// pass under the canonical policy.
func AdjacentPair(name string) string {
	return fmt.Sprintf(`name: %s
description: two accesses four bytes apart off a shared base
nodes:
  - {name: base, op: opaque, bits: 64}
  - {name: off16, op: literal, bits: 64, value: 16}
  - {name: off20, op: literal, bits: 64, value: 20}
  - {name: p1, op: add, args: [base, off16]}
  - {name: p2, op: add, args: [base, off20]}
accesses:
  - {name: a1, address: p1, size: 4}
  - {name: a2, address: p2, size: 4}
checks:
  - {kind: decompose, access: a1, expect: "(16 + 1 * base)"}
  - {kind: aliasing, first: a1, second: a2, expect: "Always(4)"}
  - {kind: adjacent, before: a1, after: a2, expect: "true"}
`, name)
}

// UnrelatedPair returns a scenario named name with accesses off two distinct
// opaque bases, so the analysis cannot relate them. All checks pass.
func UnrelatedPair(name string) string {
	return fmt.Sprintf(`name: %s
description: accesses off unrelated bases stay unknown
nodes:
  - {name: left, op: opaque, bits: 64}
  - {name: right, op: opaque, bits: 64}
  - {name: off8, op: literal, bits: 64, value: 8}
  - {name: off12, op: literal, bits: 64, value: 12}
  - {name: p1, op: add, args: [left, off8]}
  - {name: p2, op: add, args: [right, off12]}
accesses:
  - {name: a1, address: p1, size: 4}
  - {name: a2, address: p2, size: 4}
checks:
  - {kind: aliasing, first: a1, second: a2, expect: "Unknown"}
  - {kind: adjacent, before: a1, after: a2, expect: "false"}
`, name)
}

// MismatchedAdjacency returns a scenario named name whose final check
// expects the wrong adjacency answer. Running it fails exactly one check:
// the accesses are adjacent, the expectation says they are not.
func MismatchedAdjacency(name string) string {
	return fmt.Sprintf(`name: %s
description: deliberately wrong adjacency expectation
nodes:
  - {name: base, op: opaque, bits: 64}
  - {name: off16, op: literal, bits: 64, value: 16}
  - {name: off20, op: literal, bits: 64, value: 20}
  - {name: p1, op: add, args: [base, off16]}
  - {name: p2, op: add, args: [base, off20]}
accesses:
  - {name: a1, address: p1, size: 4}
  - {name: a2, address: p2, size: 4}
checks:
  - {kind: adjacent, before: a1, after: a2, expect: "false"}
`, name)
}
