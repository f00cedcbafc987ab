package engine

import (
	"fmt"

	"github.com/timzifer/ecunet/validation"
)

// State is the lifecycle state of a validation unit.
type State int

const (
	StatePending State = iota
	StateValidating
	StateValid
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidating:
		return "validating"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Unit is one step of a validation run. Run records findings on the
// collector it is given; minor and major findings never stop it.
type Unit[T any] struct {
	Name string
	Path validation.Path
	Run  func(c *validation.Collector) (T, error)

	state State
}

// State returns the state reached by the last execution.
func (u *Unit[T]) State() State {
	return u.state
}

// Execute runs the unit. The findings are deduplicated. When any of them is
// fatal the zero value is returned together with the findings as error. A
// panic or an error that carries no findings is turned into a fatal
// finding appended to the ones collected so far.
func (u *Unit[T]) Execute() (value T, findings validation.Findings, err error) {
	u.state = StateValidating
	c := validation.NewCollector(u.Path)
	defer func() {
		if r := recover(); r != nil {
			c.Add(Unhandled(r))
			var zero T
			value, findings, err = zero, c.Findings(), c.Findings()
			u.state = StateInvalid
		}
	}()

	v, runErr := u.Run(c)
	if runErr != nil {
		if carried, ok := validation.AsFindings(runErr); ok {
			c.AddAll(carried)
		} else {
			c.Add(Unhandled(runErr))
		}
	}
	findings = c.Findings()
	if findings.HasFatal() {
		u.state = StateInvalid
		var zero T
		return zero, findings, findings
	}
	u.state = StateValid
	return v, findings, nil
}

// Execute runs fn as an anonymous unit located at path.
func Execute[T any](path validation.Path, fn func(c *validation.Collector) (T, error)) (T, validation.Findings, error) {
	u := &Unit[T]{Path: path, Run: fn}
	return u.Execute()
}

// Unhandled wraps an unexpected failure into a fatal finding.
func Unhandled(ex any) *validation.Finding {
	return validation.Fatal(validation.CodeUnhandled, "unhandled exception caught: {ex}", validation.Context{"ex": ex})
}
