package presolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetOrCreateLiteralForEqualityValueNotInDomain(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 5})
	lit := c.GetOrCreateLiteralForEquality(RefOf(Var(0)), 100)
	require.True(t, c.LiteralIsFalse(lit))
}

func TestGetOrCreateLiteralForEqualityFixedDomain(t *testing.T) {
	c := newTestContext(t, [2]int64{3, 3})
	lit := c.GetOrCreateLiteralForEquality(RefOf(Var(0)), 3)
	require.True(t, c.LiteralIsTrue(lit))
}

func TestGetOrCreateLiteralForEqualityBooleanIsOwnLiteral(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 1})
	v := Var(0)
	litTrue := c.GetOrCreateLiteralForEquality(RefOf(v), 1)
	litFalse := c.GetOrCreateLiteralForEquality(RefOf(v), 0)
	require.Equal(t, RefOf(v), litTrue)
	require.Equal(t, Negated(RefOf(v)), litFalse)
}

func TestGetOrCreateLiteralForEqualityTwoValueDomain(t *testing.T) {
	c := newTestContext(t, [2]int64{2, 7})
	c.IntersectDomain(RefOf(Var(0)), NewDomain(Interval{2, 2}, Interval{7, 7}))
	v := Var(0)

	litA := c.GetOrCreateLiteralForEquality(RefOf(v), 2)
	litB := c.GetOrCreateLiteralForEquality(RefOf(v), 7)
	require.Equal(t, Negated(litA), litB)

	// Caching: asking again returns the same (representative-rewritten) literal.
	litAAgain := c.GetOrCreateLiteralForEquality(RefOf(v), 2)
	require.Equal(t, litA, litAAgain)
}

func TestGetOrCreateLiteralForEqualityLargeDomainCreatesFreshBoolean(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 10})
	before := c.NumVariables()
	lit := c.GetOrCreateLiteralForEquality(RefOf(Var(0)), 5)
	require.Greater(t, c.NumVariables(), before)
	require.True(t, c.CanBeLiteral(lit))

	// The same query again must reuse the cached encoding, not allocate again.
	countAfterFirst := c.NumVariables()
	again := c.GetOrCreateLiteralForEquality(RefOf(Var(0)), 5)
	lit2 := c.GetOrCreateLiteralForEquality(RefOf(Var(0)), 5)
	require.Equal(t, countAfterFirst, c.NumVariables())
	require.Equal(t, again, lit2)
}

func TestStoreBooleanEqualityNoOpAndConflict(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 1})
	lit := RefOf(Var(0))
	c.StoreBooleanEquality(lit, lit)
	require.False(t, c.IsUnsat())

	c.StoreBooleanEquality(lit, Negated(lit))
	require.True(t, c.IsUnsat())
}

func TestStoreBooleanEqualityAppendsConstraint(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 1}, [2]int64{0, 1})
	a, b := RefOf(Var(0)), RefOf(Var(1))
	before := len(c.model.Constraints)
	c.StoreBooleanEquality(a, b)
	require.Greater(t, len(c.model.Constraints), before)

	rep, coeff, offset := c.GetAffineRelation(a)
	require.Equal(t, int64(0), offset)
	require.Equal(t, int64(1), coeff*coeff) // |coeff| == 1
	_ = rep
}

func TestStoreAbsRelation(t *testing.T) {
	c := newTestContext(t, [2]int64{-5, 5}, [2]int64{0, 5})
	target, r := Var(1), RefOf(Var(0))
	require.True(t, c.StoreAbsRelation(target, r))
	require.True(t, c.StoreAbsRelation(target, Negated(r)), "|r| and |-r| are the same fact")
	require.False(t, c.StoreAbsRelation(target, RefOf(Var(1))), "conflicting abs relation")
}
