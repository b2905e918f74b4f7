package harness

import (
	"github.com/richarc/qx-sub001/internal/engine"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Circuit is the name of the circuit that was run.
	Circuit string `json:"circuit"`

	// Run is the engine result the assertions were evaluated against.
	Run *engine.Result `json:"run"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(circuitName string, run *engine.Result) *Result {
	return &Result{
		Pass:    true,
		Circuit: circuitName,
		Run:     run,
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
