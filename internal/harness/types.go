package harness

// Result is the outcome of one scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	// True if every check matched its expectation.
	Pass bool `json:"pass"`

	// Report is the line-oriented execution transcript: a scenario header,
	// one line per check, and a pass/fail footer. Golden files snapshot
	// exactly these lines.
	Report []string `json:"report"`

	// Errors describes each failed check. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Report: []string{},
		Errors: []string{},
	}
}

// AddError records a failed check and marks the result as failed.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Pass = false
}
