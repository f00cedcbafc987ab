package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timzifer/ecunet/validation"
)

func findings(fs ...*validation.Finding) validation.Findings {
	out := make(validation.Findings, 0, len(fs))
	for _, f := range fs {
		out = append(out, *f)
	}
	return out
}

func TestDefaultPolicy(t *testing.T) {
	p, err := New("  ")
	require.NoError(t, err)
	require.Equal(t, DefaultExpression, p.String())

	failed, err := p.Fails(findings(validation.Minor(validation.CodeMinor, "m", nil)))
	require.NoError(t, err)
	require.False(t, failed)

	failed, err = p.Fails(findings(validation.Major(validation.CodeOutOfRange, "M", nil)))
	require.NoError(t, err)
	require.True(t, failed)
}

func TestFatalAlwaysFails(t *testing.T) {
	p := MustNew("false")
	failed, err := p.Fails(findings(validation.Missing()))
	require.NoError(t, err)
	require.True(t, failed)
}

func TestCodeCounts(t *testing.T) {
	p := MustNew(`codes["budget_exceeded"] > 0 || minor > 2`)
	fs := findings(
		validation.Major(validation.CodeOutOfRange, "a", nil),
		validation.Minor(validation.CodeMinor, "b", nil),
	)
	failed, err := p.Fails(fs)
	require.NoError(t, err)
	require.False(t, failed)

	fs = append(fs, *validation.Major(validation.CodeBudgetExceeded, "c", nil))
	failed, err = p.Fails(fs)
	require.NoError(t, err)
	require.True(t, failed)
}

func TestInvalidExpression(t *testing.T) {
	_, err := New("major +")
	require.Error(t, err)

	_, err = New("major")
	require.Error(t, err)
	require.Panics(t, func() { MustNew("total ==") })
}
