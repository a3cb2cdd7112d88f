package presolve

import "sort"

// ConstraintID indexes a constraint in the working model. ObjectiveSentinel
// is the reserved value meaning "the objective" wherever a variable's usage
// set is reported, per spec §3/§4.5.
type ConstraintID int

// ObjectiveSentinel denotes the objective's pseudo-constraint in
// var-to-constraint usage sets.
const ObjectiveSentinel ConstraintID = -1

// ConstraintGraph is the bipartite constraint<->variable usage index of
// spec §4.5: for each constraint, the sorted set of variables (and interval
// indices) it touches; inversely, for each variable, the set of constraints
// touching it.
type ConstraintGraph struct {
	constraintToVars      [][]Var
	constraintToIntervals [][]int
	varToConstraints      []map[ConstraintID]struct{}
	intervalUsage         []int
	varToNumLinear1       []int
}

func newConstraintGraph() *ConstraintGraph {
	return &ConstraintGraph{}
}

func (g *ConstraintGraph) growVarsTo(n int) {
	for len(g.varToConstraints) < n {
		g.varToConstraints = append(g.varToConstraints, make(map[ConstraintID]struct{}))
		g.varToNumLinear1 = append(g.varToNumLinear1, 0)
	}
}

func (g *ConstraintGraph) growConstraintsTo(n int) {
	for len(g.constraintToVars) < n {
		g.constraintToVars = append(g.constraintToVars, nil)
		g.constraintToIntervals = append(g.constraintToIntervals, nil)
	}
}

func sortedUniqueVars(vars []Var) []Var {
	if len(vars) == 0 {
		return nil
	}
	out := append([]Var(nil), vars...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:1]
	for _, v := range out[1:] {
		if v != dedup[len(dedup)-1] {
			dedup = append(dedup, v)
		}
	}
	return dedup
}

func sortedUniqueInts(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	out := append([]int(nil), xs...)
	sort.Ints(out)
	dedup := out[:1]
	for _, x := range out[1:] {
		if x != dedup[len(dedup)-1] {
			dedup = append(dedup, x)
		}
	}
	return dedup
}

// AddVariableUsage registers usedVars/usedIntervals as constraint c's usage,
// assuming c has no prior usage recorded (spec's add_variable_usage). Each
// variable in usedVars gets c added to its inverse set.
func (g *ConstraintGraph) AddVariableUsage(c ConstraintID, usedVars []Var, usedIntervals []int) {
	vars := sortedUniqueVars(usedVars)
	intervals := sortedUniqueInts(usedIntervals)
	g.growConstraintsTo(int(c) + 1)
	g.constraintToVars[c] = vars
	g.constraintToIntervals[c] = intervals
	for _, v := range vars {
		g.growVarsTo(int(v) + 1)
		g.varToConstraints[v][c] = struct{}{}
	}
	for _, i := range intervals {
		for len(g.intervalUsage) <= i {
			g.intervalUsage = append(g.intervalUsage, 0)
		}
		g.intervalUsage[i]++
	}
}

// UpdateConstraintVariableUsage recomputes constraint c's usage from
// newVars/newIntervals and merge-diffs against the previously stored vector
// so only the changed entries touch the hashed inverse sets (spec's
// update_constraint_variable_usage).
func (g *ConstraintGraph) UpdateConstraintVariableUsage(c ConstraintID, newVars []Var, newIntervals []int) {
	g.growConstraintsTo(int(c) + 1)
	oldVars := g.constraintToVars[c]
	newVars = sortedUniqueVars(newVars)

	i, j := 0, 0
	for i < len(oldVars) || j < len(newVars) {
		switch {
		case j >= len(newVars) || (i < len(oldVars) && oldVars[i] < newVars[j]):
			g.growVarsTo(int(oldVars[i]) + 1)
			delete(g.varToConstraints[oldVars[i]], c)
			i++
		case i >= len(oldVars) || (j < len(newVars) && newVars[j] < oldVars[i]):
			g.growVarsTo(int(newVars[j]) + 1)
			g.varToConstraints[newVars[j]][c] = struct{}{}
			j++
		default:
			i++
			j++
		}
	}
	g.constraintToVars[c] = newVars
	g.constraintToIntervals[c] = sortedUniqueInts(newIntervals)
}

// UpdateLinear1Usage updates the "appears in a single-variable linear
// constraint" counters used by VariableIsOnlyUsedInEncoding. wasLinear1/oldVar
// describe the constraint's status before this call; isLinear1/newVar
// describe it now; either flag is false if the constraint isn't a
// one-variable linear constraint in that state.
func (g *ConstraintGraph) UpdateLinear1Usage(wasLinear1 bool, oldVar Var, isLinear1 bool, newVar Var) {
	if wasLinear1 {
		g.growVarsTo(int(oldVar) + 1)
		g.varToNumLinear1[oldVar]--
	}
	if isLinear1 {
		g.growVarsTo(int(newVar) + 1)
		g.varToNumLinear1[newVar]++
	}
}

// AddObjectiveUsage records ObjectiveSentinel membership for every variable
// in vars, without touching constraintToVars (the objective has no entry
// there; it is identified purely by the sentinel key in each variable's
// inverse set).
func (g *ConstraintGraph) AddObjectiveUsage(vars []Var) {
	for _, v := range vars {
		g.growVarsTo(int(v) + 1)
		g.varToConstraints[v][ObjectiveSentinel] = struct{}{}
	}
}

// RemoveObjectiveUsage erases ObjectiveSentinel membership for v.
func (g *ConstraintGraph) RemoveObjectiveUsage(v Var) {
	g.growVarsTo(int(v) + 1)
	delete(g.varToConstraints[v], ObjectiveSentinel)
}

// VarToConstraints returns the set of constraints touching v (ObjectiveSentinel
// included if v appears in the objective).
func (g *ConstraintGraph) VarToConstraints(v Var) map[ConstraintID]struct{} {
	g.growVarsTo(int(v) + 1)
	return g.varToConstraints[v]
}

// NumLinear1Uses returns how many single-variable linear constraints touch v.
func (g *ConstraintGraph) NumLinear1Uses(v Var) int {
	g.growVarsTo(int(v) + 1)
	return g.varToNumLinear1[v]
}

// ConstraintVars returns the recorded sorted usage vector for constraint c.
func (g *ConstraintGraph) ConstraintVars(c ConstraintID) []Var {
	g.growConstraintsTo(int(c) + 1)
	return g.constraintToVars[c]
}

// IsConsistentWith reports whether the stored usage vector for every
// constraint up to numConstraints matches recompute(c), per spec's
// constraint_variable_usage_is_consistent debug invariant.
func (g *ConstraintGraph) IsConsistentWith(numConstraints int, recompute func(ConstraintID) []Var) bool {
	for c := 0; c < numConstraints; c++ {
		want := sortedUniqueVars(recompute(ConstraintID(c)))
		got := g.ConstraintVars(ConstraintID(c))
		if len(want) != len(got) {
			return false
		}
		for i := range want {
			if want[i] != got[i] {
				return false
			}
		}
	}
	return true
}
