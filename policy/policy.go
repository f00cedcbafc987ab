// Package policy decides whether a set of findings fails a validation run.
package policy

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/timzifer/ecunet/validation"
)

// DefaultExpression fails a run on any major finding. Fatal findings always
// fail a run regardless of the expression.
const DefaultExpression = "major > 0"

// Policy is a compiled fail-when expression. The expression sees the
// variables fatal, major, minor and total as finding counts and codes as a
// map from finding code to count.
type Policy struct {
	expression string
	program    *vm.Program
}

// New compiles expression. An empty expression selects DefaultExpression.
func New(expression string) (*Policy, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		expression = DefaultExpression
	}
	program, err := expr.Compile(expression, expr.Env(environment(nil)), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("policy %q: compile: %w", expression, err)
	}
	return &Policy{expression: expression, program: program}, nil
}

// MustNew is like New but panics on an invalid expression.
func MustNew(expression string) *Policy {
	p, err := New(expression)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source expression.
func (p *Policy) String() string {
	return p.expression
}

// Fails reports whether fs violate the policy.
func (p *Policy) Fails(fs validation.Findings) (bool, error) {
	if fs.HasFatal() {
		return true, nil
	}
	out, err := vm.Run(p.program, environment(fs))
	if err != nil {
		return false, fmt.Errorf("policy %q: %w", p.expression, err)
	}
	failed, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("policy %q: result %T is not a boolean", p.expression, out)
	}
	return failed, nil
}

func environment(fs validation.Findings) map[string]any {
	codes := make(map[string]int)
	for _, f := range fs {
		codes[string(f.Code)]++
	}
	return map[string]any{
		"fatal": fs.Count(validation.SeverityFatal),
		"major": fs.Count(validation.SeverityMajor),
		"minor": fs.Count(validation.SeverityMinor),
		"total": len(fs),
		"codes": codes,
	}
}
