package presolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreAffineRelationSkipsFixedVariables(t *testing.T) {
	c := newTestContext(t, [2]int64{5, 5}, [2]int64{0, 10})
	x, y := Var(0), Var(1)
	merged := c.StoreAffineRelation(0, RefOf(x), RefOf(y), 1, 0)
	require.False(t, merged, "a relation touching a fixed variable carries no new information")
}

func TestStoreAffineRelationAndGetAffineRelation(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 10}, [2]int64{0, 10})
	x, y := Var(0), Var(1)
	// x = 2*y + 3
	ok := c.StoreAffineRelation(1, RefOf(x), RefOf(y), 2, 3)
	require.True(t, ok)

	rep, coeff, offset := c.GetAffineRelation(RefOf(x))
	require.Equal(t, RefOf(y), rep)
	require.Equal(t, int64(2), coeff)
	require.Equal(t, int64(3), offset)

	// Negated(x) = -x = -2*y - 3
	nrep, ncoeff, noffset := c.GetAffineRelation(Negated(RefOf(x)))
	require.Equal(t, RefOf(y), nrep)
	require.Equal(t, int64(-2), ncoeff)
	require.Equal(t, int64(-3), noffset)
}

func TestStoreAffineRelationUnitCoeffFeedsEquivRepo(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 1}, [2]int64{0, 1})
	x, y := Var(0), Var(1)
	ok := c.StoreAffineRelation(0, RefOf(x), RefOf(y), -1, 0) // x = -y
	require.True(t, ok)

	repX := c.GetVariableRepresentative(RefOf(x))
	repY := c.GetVariableRepresentative(RefOf(y))
	// Whichever variable is the equivalence-class root, the other's
	// representative must be its negation.
	require.Equal(t, Positive(repX), Positive(repY))
	require.NotEqual(t, repX, repY)
}

func TestGetLiteralRepresentative(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 1}, [2]int64{0, 1})
	x, y := Var(0), Var(1)
	c.StoreAffineRelation(0, RefOf(x), RefOf(y), 1, 0) // x = y

	got := c.GetLiteralRepresentative(RefOf(x))
	require.True(t, got == RefOf(x) || got == RefOf(y))

	gotNeg := c.GetLiteralRepresentative(Negated(RefOf(x)))
	require.Equal(t, Negated(got), gotNeg)
}

func TestGetLiteralRepresentativeNonLiteralPanics(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 5})
	defer func() {
		require.NotNil(t, recover(), "expected panic for a non-literal reference")
	}()
	c.GetLiteralRepresentative(RefOf(Var(0)))
}

