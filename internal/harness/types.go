package harness

import "github.com/pipedev/pipedev/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every assertion held and both
	// built-in checks passed.
	Pass bool `json:"pass"`

	// Decision is the pass over the records in scenario order.
	Decision *ir.Decision `json:"decision"`

	// Report is Decision's canonical report, the golden file content.
	Report []byte `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
