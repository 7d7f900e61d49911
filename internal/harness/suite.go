package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/memptr/internal/memptr"
)

// SuiteResult summarizes running every scenario in a directory.
type SuiteResult struct {
	TotalScenarios int            `json:"total_scenarios"`
	Passed         int            `json:"passed"`
	Failed         int            `json:"failed"`
	Failures       []SuiteFailure `json:"failures,omitempty"`
}

// SuiteFailure records one scenario that could not be loaded, could not
// run, or ran with failed checks.
type SuiteFailure struct {
	Scenario string `json:"scenario"`
	Path     string `json:"path"`
	Error    string `json:"error"`
}

// RunDir loads and runs every scenario file (*.yaml or *.yml) in dir under
// pol. Files run in name order for deterministic reporting.
func RunDir(dir string, pol memptr.Policy) (*SuiteResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		return nil, fmt.Errorf("no scenario files found in %s", dir)
	}

	return RunFiles(paths, pol), nil
}

// RunFiles loads and runs the given scenario files under pol, continuing
// past failures so one broken scenario cannot hide the rest. Scenario names
// must be unique across the run.
func RunFiles(paths []string, pol memptr.Policy) *SuiteResult {
	suite := &SuiteResult{}
	seen := make(map[string]string)
	for _, path := range paths {
		suite.TotalScenarios++

		scenario, err := LoadScenario(path)
		if err != nil {
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			suite.fail(name, path, err.Error())
			continue
		}
		if prev, dup := seen[scenario.Name]; dup {
			suite.fail(scenario.Name, path, fmt.Sprintf("duplicate scenario name (also defined in %s)", prev))
			continue
		}
		seen[scenario.Name] = path

		result, err := RunWithPolicy(scenario, pol)
		if err != nil {
			suite.fail(scenario.Name, path, fmt.Sprintf("scenario execution failed: %v", err))
			continue
		}
		if !result.Pass {
			suite.fail(scenario.Name, path, strings.Join(result.Errors, "; "))
			continue
		}
		suite.Passed++
	}

	return suite
}

func (s *SuiteResult) fail(scenario, path, msg string) {
	s.Failed++
	s.Failures = append(s.Failures, SuiteFailure{Scenario: scenario, Path: path, Error: msg})
}
