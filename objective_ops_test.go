package presolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cespare/presolve/model"
)

func newObjectiveTestContext(t *testing.T, obj *model.Objective, domains ...[2]int64) *Context {
	t.Helper()
	vars := make([]model.Variable, len(domains))
	for i, d := range domains {
		vars[i] = model.Variable{Domain: []model.Interval{{Lo: d[0], Hi: d[1]}}}
	}
	return NewContext(&model.Model{Variables: vars, Objective: obj})
}

func TestReadObjectiveFromProtoFoldsSignsAndRegistersUsage(t *testing.T) {
	// minimize -x + 2y, i.e. vars=[x,y] refs=[Negated(x), RefOf(y)].
	obj := &model.Objective{
		Vars:          []int32{NegatedRefInt32(0), 1},
		Coeffs:        []int64{1, 2},
		ScalingFactor: 1,
	}
	c := newObjectiveTestContext(t, obj, [2]int64{0, 5}, [2]int64{0, 5})
	require.True(t, c.HasObjective())
	require.Equal(t, int64(-1), c.Objective().Coefficient(Var(0)))
	require.Equal(t, int64(2), c.Objective().Coefficient(Var(1)))

	uses0 := c.graph.VarToConstraints(Var(0))
	_, hasObjUsage := uses0[ObjectiveSentinel]
	require.True(t, hasObjUsage)
}

func TestReadObjectiveFromProtoEmptyDomainMeansUnconstrained(t *testing.T) {
	obj := &model.Objective{Vars: []int32{0}, Coeffs: []int64{1}, ScalingFactor: 1}
	c := newObjectiveTestContext(t, obj, [2]int64{0, 5})
	require.False(t, c.Objective().DomainIsConstraining())
}

func TestRemoveFixedVariablesFromObjectiveAbsorbsFixedVar(t *testing.T) {
	obj := &model.Objective{
		Vars:          []int32{0, 1},
		Coeffs:        []int64{3, 5},
		ScalingFactor: 1,
	}
	c := newObjectiveTestContext(t, obj, [2]int64{7, 7}, [2]int64{0, 10})
	changed := c.RemoveFixedVariablesFromObjective()
	require.True(t, changed)
	require.False(t, c.Objective().HasVar(Var(0)))
	require.Equal(t, float64(21), c.Objective().Offset())
}

func TestRemoveFixedVariablesFromObjectiveDropsUnusedNonConstraining(t *testing.T) {
	obj := &model.Objective{
		Vars:          []int32{0, 1},
		Coeffs:        []int64{1, 1},
		ScalingFactor: 1,
	}
	c := newObjectiveTestContext(t, obj, [2]int64{0, 10}, [2]int64{0, 10})
	// var0 has no other usage and the objective domain is unconstrained:
	// it should be fixed to its minimizing endpoint (0, since coeff>0) and dropped.
	changed := c.RemoveFixedVariablesFromObjective()
	require.True(t, changed)
	require.False(t, c.Objective().HasVar(Var(0)))
	require.True(t, c.DomainOf(RefOf(Var(0))).Equal(FromValue(0)))
}

func TestCanonicalizeObjectiveFactorsOutGCD(t *testing.T) {
	// minimize 3x + 6y - 9z over (-inf, +inf), x,y,z each used elsewhere so
	// they aren't fixed away.
	obj := &model.Objective{
		Vars:          []int32{0, 1, 2},
		Coeffs:        []int64{3, 6, -9},
		ScalingFactor: 1,
	}
	c := newObjectiveTestContext(t, obj, [2]int64{-100, 100}, [2]int64{-100, 100}, [2]int64{-100, 100})
	c.model.Constraints = append(c.model.Constraints,
		linearConstraint([]int32{0, 1, 2}, []int64{1, 1, 1}))
	c.UpdateNewConstraintsVariableUsage()

	ok := c.CanonicalizeObjective()
	require.True(t, ok)
	require.Equal(t, int64(1), c.Objective().Coefficient(Var(0)))
	require.Equal(t, int64(2), c.Objective().Coefficient(Var(1)))
	require.Equal(t, int64(-3), c.Objective().Coefficient(Var(2)))
	require.Equal(t, float64(3), c.Objective().ScalingFactor())
}

func TestCanonicalizeObjectiveDetectsUnsat(t *testing.T) {
	obj := &model.Objective{
		Vars:          []int32{0, 1},
		Coeffs:        []int64{1, 1},
		Domain:        []model.Interval{{Lo: 1000, Hi: 1000}},
		ScalingFactor: 1,
	}
	c := newObjectiveTestContext(t, obj, [2]int64{0, 1}, [2]int64{0, 1})
	c.model.Constraints = append(c.model.Constraints,
		linearConstraint([]int32{0, 1}, []int64{1, 1}))
	c.UpdateNewConstraintsVariableUsage()

	ok := c.CanonicalizeObjective()
	require.False(t, ok)
	require.True(t, c.IsUnsat())
}

func TestSubstituteVariableInObjective(t *testing.T) {
	// minimize 5x, with x + 2y - z == 4 recorded as constraint 0.
	obj := &model.Objective{Vars: []int32{0}, Coeffs: []int64{5}, ScalingFactor: 1}
	c := newObjectiveTestContext(t, obj, [2]int64{-100, 100}, [2]int64{-100, 100}, [2]int64{-100, 100})
	c.model.Constraints = append(c.model.Constraints, model.Constraint{
		Linear: &model.LinearConstraint{
			Vars:   []int32{0, 1, 2},
			Coeffs: []int64{1, 2, -1},
			Domain: []model.Interval{{Lo: 4, Hi: 4}},
		},
	})
	c.UpdateNewConstraintsVariableUsage()

	c.SubstituteVariableInObjective(Var(0), 1, ConstraintID(0))
	require.False(t, c.Objective().HasVar(Var(0)))
	require.Equal(t, int64(-10), c.Objective().Coefficient(Var(1)))
	require.Equal(t, int64(5), c.Objective().Coefficient(Var(2)))
	require.Equal(t, float64(20), c.Objective().Offset())
}

func TestWriteObjectiveToProtoCheckedNoObjective(t *testing.T) {
	c := newTestContext(t, [2]int64{0, 5})
	require.ErrorIs(t, c.WriteObjectiveToProtoChecked(), ErrNoObjective)
}

func TestWriteObjectiveToProtoRoundTrips(t *testing.T) {
	obj := &model.Objective{Vars: []int32{0}, Coeffs: []int64{2}, ScalingFactor: 1}
	c := newObjectiveTestContext(t, obj, [2]int64{0, 5})
	c.WriteObjectiveToProto()
	require.NotNil(t, c.model.Objective)
	require.Equal(t, []int32{0}, c.model.Objective.Vars)
	require.Equal(t, []int64{2}, c.model.Objective.Coeffs)
}

// NegatedRefInt32 builds the raw proto-style ref for Negated(RefOf(Var(v))),
// matching the model package's sign convention (~v = -v-1).
func NegatedRefInt32(v int32) int32 {
	return -v - 1
}
