package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pipedev/pipedev/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome

	// Runs and Rejections summarize the decision for context.
	Runs       []string
	Rejections []string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nDecision:\n")
	for _, r := range e.Runs {
		fmt.Fprintf(&buf, "  run %s\n", r)
	}
	for _, r := range e.Rejections {
		fmt.Fprintf(&buf, "  rejected %s\n", r)
	}

	return buf.String()
}

// EvaluateAssertions checks every assertion against d and returns one
// error per failed assertion, in assertion order.
func EvaluateAssertions(d *ir.Decision, assertions []Assertion) []error {
	var errs []error
	for _, a := range assertions {
		if err := evaluate(d, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func evaluate(d *ir.Decision, a Assertion) error {
	switch a.Type {
	case AssertRunCount:
		if len(d.Runs) != a.Count {
			return failure(d, a.Type, fmt.Sprintf("%d run(s)", a.Count), fmt.Sprintf("%d run(s)", len(d.Runs)))
		}
	case AssertFailureCount:
		if len(d.Failures) != a.Count {
			return failure(d, a.Type, fmt.Sprintf("%d failure(s)", a.Count), fmt.Sprintf("%d failure(s)", len(d.Failures)))
		}
	case AssertRun:
		return assertRun(d, a)
	case AssertRejected:
		return assertRejected(d, a)
	case AssertWarning:
		return assertWarning(d, a)
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
	return nil
}

func findRun(d *ir.Decision, name string) (ir.ValidatedRun, bool) {
	for _, r := range d.Runs {
		if r.Name == name {
			return r, true
		}
	}
	return ir.ValidatedRun{}, false
}

// assertRun checks a named run exists. Files compare in launch order,
// Accessions as a sorted set and Parameters as a subset.
func assertRun(d *ir.Decision, a Assertion) error {
	run, ok := findRun(d, a.Name)
	if !ok {
		return failure(d, a.Type, fmt.Sprintf("run %q", a.Name), "not found")
	}
	if a.Files != nil && !slices.Equal(run.Paths(), a.Files) {
		return failure(d, a.Type,
			fmt.Sprintf("run %q files %v", a.Name, a.Files),
			fmt.Sprintf("files %v", run.Paths()))
	}
	if a.Group != "" && run.GroupKey != a.Group {
		return failure(d, a.Type,
			fmt.Sprintf("run %q group %q", a.Name, a.Group),
			fmt.Sprintf("group %q", run.GroupKey))
	}
	if a.Accessions != nil && !slices.Equal(run.InputAccessions, ir.SortedSet(a.Accessions...)) {
		return failure(d, a.Type,
			fmt.Sprintf("run %q accessions %v", a.Name, a.Accessions),
			fmt.Sprintf("accessions %v", run.InputAccessions))
	}
	for k, want := range a.Parameters {
		got, ok := run.Parameters[k]
		if !ok || got != want {
			return failure(d, a.Type,
				fmt.Sprintf("run %q parameter %s=%q", a.Name, k, want),
				fmt.Sprintf("%s=%q (present=%v)", k, got, ok))
		}
	}
	return nil
}

// assertRejected checks a rejection with the given reason exists, optionally
// covering Path and in group Group.
func assertRejected(d *ir.Decision, a Assertion) error {
	for _, rj := range d.Rejections {
		if string(rj.Reason) != a.Reason {
			continue
		}
		if a.Path != "" && !slices.Contains(rj.Paths, a.Path) {
			continue
		}
		if a.Group != "" && rj.GroupKey != a.Group {
			continue
		}
		return nil
	}
	want := "reason " + a.Reason
	if a.Path != "" {
		want += " for " + a.Path
	}
	if a.Group != "" {
		want += " in group " + a.Group
	}
	return failure(d, a.Type, want, "not found")
}

func assertWarning(d *ir.Decision, a Assertion) error {
	run, ok := findRun(d, a.Name)
	if !ok {
		return failure(d, a.Type, fmt.Sprintf("run %q", a.Name), "not found")
	}
	for _, w := range run.Warnings {
		if strings.Contains(w, a.Contains) {
			return nil
		}
	}
	return failure(d, a.Type,
		fmt.Sprintf("run %q warning containing %q", a.Name, a.Contains),
		fmt.Sprintf("warnings %v", run.Warnings))
}

func failure(d *ir.Decision, typ, expected, actual string) *AssertionError {
	e := &AssertionError{Type: typ, Expected: expected, Actual: actual}
	for _, r := range d.Runs {
		e.Runs = append(e.Runs, fmt.Sprintf("%s %v", r.Name, r.Paths()))
	}
	for _, rj := range d.Rejections {
		e.Rejections = append(e.Rejections, fmt.Sprintf("%s %s %v", rj.Scope, rj.Reason, rj.Paths))
	}
	return e
}
