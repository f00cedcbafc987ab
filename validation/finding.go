package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Severity classifies how a finding affects the usability of a configuration.
type Severity string

const (
	// SeverityMinor marks cosmetic or redundant configuration; the model stays usable.
	SeverityMinor Severity = "minor"
	// SeverityMajor marks semantic inconsistencies between entities.
	SeverityMajor Severity = "major"
	// SeverityFatal marks structural violations that abort the validation unit.
	SeverityFatal Severity = "fatal"
)

// Code identifies the kind of a finding.
type Code string

const (
	// CodeMinor is the generic code for minor findings.
	CodeMinor Code = "minor"
	// CodeMajor is the generic code for major findings.
	CodeMajor Code = "major"
	// CodeFatal is the generic code for fatal findings.
	CodeFatal Code = "fatal"
	// CodeMissing reports an absent required field.
	CodeMissing Code = "missing"
	// CodeExtraForbidden reports an unknown field.
	CodeExtraForbidden Code = "extra_forbidden"
	// CodeInvalidType reports a value that cannot be decoded into the expected type.
	CodeInvalidType Code = "invalid_type"
	// CodeUnknownTag reports an unknown discriminator value of a tagged variant.
	CodeUnknownTag Code = "union_tag_invalid"
	// CodeUnhandled reports an unexpected failure during validation.
	CodeUnhandled Code = "unhandled"
	// CodeDuplicateName reports an entity name that is already taken in its scope.
	CodeDuplicateName Code = "duplicate_name"
	// CodeUnresolvedReference reports a connection endpoint that does not exist.
	CodeUnresolvedReference Code = "unresolved_reference"
	// CodeOutOfRange reports a numeric field outside its allowed range.
	CodeOutOfRange Code = "out_of_range"
	// CodeIncompatible reports two connected entities with conflicting parameters.
	CodeIncompatible Code = "incompatible"
	// CodeBudgetExceeded reports a bandwidth budget violation.
	CodeBudgetExceeded Code = "budget_exceeded"
	// CodeDuplicateValue reports repeated values that must be unique.
	CodeDuplicateValue Code = "duplicate_value"
	// CodeInconsistent reports a self-contradicting entity configuration.
	CodeInconsistent Code = "inconsistent"
)

// Context carries the values substituted into a finding template.
type Context map[string]any

// Finding is a single structured validation error.
type Finding struct {
	Severity Severity
	Code     Code
	Template string
	Context  Context
	Path     Path
}

// New builds a finding. Templates reference context values as {key}.
func New(severity Severity, code Code, template string, ctx Context) *Finding {
	return &Finding{Severity: severity, Code: code, Template: template, Context: ctx}
}

// Minor builds a minor finding.
func Minor(code Code, template string, ctx Context) *Finding {
	return New(SeverityMinor, code, template, ctx)
}

// Major builds a major finding.
func Major(code Code, template string, ctx Context) *Finding {
	return New(SeverityMajor, code, template, ctx)
}

// Fatal builds a fatal finding.
func Fatal(code Code, template string, ctx Context) *Finding {
	return New(SeverityFatal, code, template, ctx)
}

// Missing reports an absent required field.
func Missing() *Finding {
	return Fatal(CodeMissing, "Field required", nil)
}

// ExtraForbidden reports a field that is not part of the entity.
func ExtraForbidden() *Finding {
	return Fatal(CodeExtraForbidden, "Extra inputs are not permitted", nil)
}

// Duplicate reports a name that is already held by another entity of the
// same kind.
func Duplicate(kind, name string) *Finding {
	return Major(CodeDuplicateName, "Duplicate {kind} name: {name}", Context{"kind": kind, "name": name})
}

// At returns a copy of the finding located at path.
func (f *Finding) At(path Path) *Finding {
	if f == nil {
		return nil
	}
	clone := *f
	clone.Path = path.Clone()
	return &clone
}

// Message renders the template with the finding context.
func (f *Finding) Message() string {
	if f == nil {
		return ""
	}
	return render(f.Template, f.Context)
}

// IsFatal reports whether the finding aborts its validation unit.
func (f *Finding) IsFatal() bool {
	if f == nil {
		return false
	}
	switch f.Code {
	case CodeMissing, CodeExtraForbidden:
		return true
	}
	return f.Severity == SeverityFatal
}

// Error formats the finding as "[severity/code] message at path".
func (f *Finding) Error() string {
	if f == nil {
		return "finding <nil>"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s/%s] %s", f.Severity, f.Code, f.Message()))
	if len(f.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(f.Path.String())
	}
	return b.String()
}

type signature struct {
	path    string
	message string
	code    Code
}

func (f *Finding) signature() signature {
	return signature{path: f.Path.String(), message: f.Message(), code: f.Code}
}

func render(template string, ctx Context) string {
	if len(ctx) == 0 || !strings.Contains(template, "{") {
		return template
	}
	keys := make([]string, 0, len(ctx))
	for key := range ctx {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		pairs = append(pairs, "{"+key+"}", fmt.Sprint(ctx[key]))
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Findings is an ordered list of findings. It doubles as the error returned
// when a validation unit is aborted.
type Findings []Finding

// Error returns a compact summary of the findings.
func (fs Findings) Error() string {
	switch len(fs) {
	case 0:
		return "no validation findings"
	case 1:
		return fs[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", fs[0].Error(), len(fs)-1)
	}
}

// HasFatal reports whether any finding is fatal.
func (fs Findings) HasFatal() bool {
	for i := range fs {
		if fs[i].IsFatal() {
			return true
		}
	}
	return false
}

// Count returns the number of findings with the given severity.
func (fs Findings) Count(severity Severity) int {
	n := 0
	for i := range fs {
		if fs[i].Severity == severity {
			n++
		}
	}
	return n
}

// Fatal returns only the fatal findings.
func (fs Findings) Fatal() Findings {
	var out Findings
	for i := range fs {
		if fs[i].IsFatal() {
			out = append(out, fs[i])
		}
	}
	return out
}

// Dedupe removes findings repeating an earlier (path, message, code) triple.
func Dedupe(fs Findings) Findings {
	if len(fs) == 0 {
		return nil
	}
	seen := make(map[signature]struct{}, len(fs))
	out := make(Findings, 0, len(fs))
	for i := range fs {
		sig := fs[i].signature()
		if _, ok := seen[sig]; ok {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, fs[i])
	}
	return out
}

// AsFindings extracts the findings carried by err.
func AsFindings(err error) (Findings, bool) {
	if err == nil {
		return nil, false
	}
	var list Findings
	if errors.As(err, &list) {
		return list, true
	}
	var single *Finding
	if errors.As(err, &single) && single != nil {
		return Findings{*single}, true
	}
	return nil, false
}
