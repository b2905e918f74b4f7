package harness

import (
	"fmt"
	"math"
	"strings"

	"github.com/richarc/qx-sub001/internal/engine"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Counts   engine.Counts // Full histogram for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Counts) > 0 {
		fmt.Fprintf(&buf, "\nCounts:\n")
		for _, k := range e.Counts.Keys() {
			fmt.Fprintf(&buf, "  %s: %d\n", k, e.Counts[k])
		}
	}

	return buf.String()
}

// assertCountsEqual checks the histogram matches exactly. Outcomes with an
// expected count of zero must be absent.
func assertCountsEqual(res *engine.Result, assertion Assertion) error {
	expected := make(engine.Counts)
	for k, n := range assertion.Counts {
		if n > 0 {
			expected[k] = n
		}
	}

	mismatch := len(expected) != len(res.Counts)
	for k, n := range expected {
		if res.Counts.Get(k) != n {
			mismatch = true
			break
		}
	}
	if !mismatch {
		return nil
	}

	return &AssertionError{
		Type:     AssertCountsEqual,
		Expected: formatCounts(expected),
		Actual:   formatCounts(res.Counts),
		Counts:   res.Counts,
	}
}

// assertProbabilities compares basis-state probabilities elementwise.
func assertProbabilities(res *engine.Result, assertion Assertion) error {
	tol := assertion.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}

	if len(res.Probabilities) != len(assertion.Probabilities) {
		return &AssertionError{
			Type:     AssertProbabilities,
			Expected: fmt.Sprintf("%d probabilities", len(assertion.Probabilities)),
			Actual:   fmt.Sprintf("%d probabilities", len(res.Probabilities)),
		}
	}

	for i, want := range assertion.Probabilities {
		got := res.Probabilities[i]
		if math.Abs(got-want) > tol {
			return &AssertionError{
				Type:     AssertProbabilities,
				Expected: fmt.Sprintf("P(%d) = %g ± %g", i, want, tol),
				Actual:   fmt.Sprintf("P(%d) = %g", i, got),
			}
		}
	}

	return nil
}

// assertCountBand checks one outcome's count lies in [expected-band, expected+band].
func assertCountBand(res *engine.Result, assertion Assertion) error {
	got := res.Counts.Get(assertion.Bits)
	if abs(got-assertion.Expected) <= assertion.Band {
		return nil
	}

	return &AssertionError{
		Type:     AssertCountBand,
		Expected: fmt.Sprintf("count(%s) = %d ± %d", assertion.Bits, assertion.Expected, assertion.Band),
		Actual:   fmt.Sprintf("count(%s) = %d", assertion.Bits, got),
		Counts:   res.Counts,
	}
}

// assertMarginal counts shots whose clbit equals value, across all outcomes.
func assertMarginal(res *engine.Result, assertion Assertion) error {
	want := byte('0' + assertion.Value)
	got := 0
	for bits, n := range res.Counts {
		if assertion.Clbit >= len(bits) {
			return &AssertionError{
				Type:     AssertMarginal,
				Expected: fmt.Sprintf("clbit %d in outcome", assertion.Clbit),
				Actual:   fmt.Sprintf("outcome %q has %d clbits", bits, len(bits)),
				Counts:   res.Counts,
			}
		}
		if bits[assertion.Clbit] == want {
			got += n
		}
	}

	if abs(got-assertion.Expected) <= assertion.Band {
		return nil
	}

	return &AssertionError{
		Type:     AssertMarginal,
		Expected: fmt.Sprintf("shots with c[%d]=%d: %d ± %d", assertion.Clbit, assertion.Value, assertion.Expected, assertion.Band),
		Actual:   fmt.Sprintf("shots with c[%d]=%d: %d", assertion.Clbit, assertion.Value, got),
		Counts:   res.Counts,
	}
}

// assertCountsTotal checks that counts sum to the expected shot total.
func assertCountsTotal(res *engine.Result, assertion Assertion) error {
	if got := res.Counts.Total(); got != assertion.Total {
		return &AssertionError{
			Type:     AssertCountsTotal,
			Expected: fmt.Sprintf("%d shots", assertion.Total),
			Actual:   fmt.Sprintf("%d shots", got),
			Counts:   res.Counts,
		}
	}
	return nil
}

// assertPath checks which execution strategy the run took.
func assertPath(res *engine.Result, assertion Assertion) error {
	if string(res.Path) != assertion.Path {
		return &AssertionError{
			Type:     AssertPath,
			Expected: assertion.Path,
			Actual:   string(res.Path),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the run.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(res *engine.Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCountsEqual:
			err = assertCountsEqual(res, assertion)
		case AssertProbabilities:
			err = assertProbabilities(res, assertion)
		case AssertCountBand:
			err = assertCountBand(res, assertion)
		case AssertMarginal:
			err = assertMarginal(res, assertion)
		case AssertCountsTotal:
			err = assertCountsTotal(res, assertion)
		case AssertPath:
			err = assertPath(res, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

// formatCounts renders a histogram with sorted keys.
func formatCounts(c engine.Counts) string {
	if len(c) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(c))
	for _, k := range c.Keys() {
		parts = append(parts, fmt.Sprintf("%s:%d", k, c[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
