package model

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseTextRoundTrip(t *testing.T) {
	src := `c a toy model
p model 3 2
v 0 5
v -3 3
v 0 1
lin 4 4 3 0 1 1 2 2 -1
bool or 0 1 2 e 2
obj 1.5 2 0 100 1 0 3
`
	m, err := ParseText(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Variables, 3)
	require.Len(t, m.Constraints, 2)
	require.NotNil(t, m.Objective)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, m))

	m2, err := ParseText(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(m, m2); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTextSkipsCommentsAndBlankLines(t *testing.T) {
	src := "c comment\n\np model 1 0\nv 0 1\n"
	m, err := ParseText(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, m.Variables, 1)
}

func TestParseTextAccumulatesMultipleErrors(t *testing.T) {
	src := `p model 2 0
v 0 1
v not-a-number 1
bogus-kind 1 2 3
`
	_, err := ParseText(strings.NewReader(src))
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "variable domain")
	require.Contains(t, msg, "unrecognized line kind")
}

func TestParseTextCountMismatch(t *testing.T) {
	src := `p model 2 0
v 0 1
`
	_, err := ParseText(strings.NewReader(src))
	require.Error(t, err)
	require.Contains(t, err.Error(), "declares 2 vars, found 1")
}

func TestParseTextDuplicateProblemLine(t *testing.T) {
	src := `p model 0 0
p model 0 0
`
	_, err := ParseText(strings.NewReader(src))
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate problem line")
}

func TestParseTextEnforcementLiterals(t *testing.T) {
	src := "p model 2 1\nv 0 1\nv 0 1\nlin 0 0 2 0 1 1 -1 e 0 1\n"
	m, err := ParseText(strings.NewReader(src))
	require.NoError(t, err)
	lc := m.Constraints[0].Linear
	require.Equal(t, []int32{0, 1}, lc.EnforcementLiterals)
}

func TestWriteTextEmptyObjectiveDomain(t *testing.T) {
	m := &Model{
		Variables: []Variable{{Domain: []Interval{{0, 1}}}},
		Objective: &Objective{Vars: []int32{0}, Coeffs: []int64{1}, ScalingFactor: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, m))

	m2, err := ParseText(&buf)
	require.NoError(t, err)
	require.Empty(t, m2.Objective.Domain)
}
