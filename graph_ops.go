package presolve

import "github.com/cespare/presolve/model"

// This file implements spec §4.5's façade over ConstraintGraph: computing
// each constraint's variable usage from the working model and exposing the
// derived removability predicates that rewrite rules query before dropping
// a variable.

func (c *Context) usedVarsOf(ct model.Constraint) []Var {
	refs := ct.Vars()
	out := make([]Var, 0, len(refs))
	for _, r := range refs {
		out = append(out, VarOf(Positive(Ref(r))))
	}
	return out
}

func isLinear1(ct model.Constraint) (Var, bool) {
	if ct.Linear == nil || len(ct.Linear.Vars) != 1 || len(ct.Linear.EnforcementLiterals) != 0 {
		return 0, false
	}
	return VarOf(Positive(Ref(ct.Linear.Vars[0]))), true
}

func (c *Context) trackLinear1(id ConstraintID, newVar Var, isNew bool) {
	oldVar, wasLinear1 := c.linear1[id]
	c.graph.UpdateLinear1Usage(wasLinear1, oldVar, isNew, newVar)
	if isNew {
		c.linear1[id] = newVar
	} else {
		delete(c.linear1, id)
	}
}

// AddVariableUsage computes constraint c's usage from the current model and
// registers it, assuming c has no prior recorded usage.
func (c *Context) AddVariableUsage(id ConstraintID) {
	ct := c.model.Constraints[id]
	vars := c.usedVarsOf(ct)
	c.graph.AddVariableUsage(id, vars, nil)
	v, ok := isLinear1(ct)
	c.trackLinear1(id, v, ok)
}

// UpdateConstraintVariableUsage recomputes constraint c's usage from its
// current form in the model and reconciles the graph.
func (c *Context) UpdateConstraintVariableUsage(id ConstraintID) {
	ct := c.model.Constraints[id]
	vars := c.usedVarsOf(ct)
	c.graph.UpdateConstraintVariableUsage(id, vars, nil)
	v, ok := isLinear1(ct)
	c.trackLinear1(id, v, ok)
}

// UpdateNewConstraintsVariableUsage registers usage for every constraint
// appended to the model since the last call, per spec §4.5.
func (c *Context) UpdateNewConstraintsVariableUsage() {
	c.graph.growConstraintsTo(len(c.model.Constraints))
	for id := c.lastProcessedConstraint; id < len(c.model.Constraints); id++ {
		c.AddVariableUsage(ConstraintID(id))
	}
	c.lastProcessedConstraint = len(c.model.Constraints)
}

// ConstraintVariableUsageIsConsistent is the debug invariant of spec §8
// property 8: the stored usage vector for every constraint matches a fresh
// recomputation.
func (c *Context) ConstraintVariableUsageIsConsistent() bool {
	return c.graph.IsConsistentWith(len(c.model.Constraints), func(id ConstraintID) []Var {
		return c.usedVarsOf(c.model.Constraints[id])
	})
}

// VariableIsUniqueAndRemovable reports whether v appears in exactly one
// constraint, is not the representative of a non-trivial equivalence class,
// and keep_all_feasible_solutions is not set.
func (c *Context) VariableIsUniqueAndRemovable(r Ref) bool {
	if c.keepAllFeasibleSolutions {
		return false
	}
	v := VarOf(Positive(r))
	if len(c.graph.VarToConstraints(v)) != 1 {
		return false
	}
	return !c.affine.IsRepresentativeOfNontrivialClass(v)
}

// VariableWithCostIsUniqueAndRemovable is VariableIsUniqueAndRemovable's
// variant for a variable that also costs something in the objective: exactly
// two usages, one of them the objective sentinel.
func (c *Context) VariableWithCostIsUniqueAndRemovable(r Ref) bool {
	if c.keepAllFeasibleSolutions {
		return false
	}
	v := VarOf(Positive(r))
	uses := c.graph.VarToConstraints(v)
	if len(uses) != 2 {
		return false
	}
	if _, ok := uses[ObjectiveSentinel]; !ok {
		return false
	}
	return !c.affine.IsRepresentativeOfNontrivialClass(v)
}

// VariableIsNotUsedAnymore reports whether v appears in no constraint
// (including the objective).
func (c *Context) VariableIsNotUsedAnymore(r Ref) bool {
	v := VarOf(Positive(r))
	return len(c.graph.VarToConstraints(v)) == 0
}

// VariableIsOnlyUsedInEncoding reports whether every constraint touching v
// is a single-variable linear constraint (a domain-restriction
// half-reification installed by the encoding table).
func (c *Context) VariableIsOnlyUsedInEncoding(r Ref) bool {
	v := VarOf(Positive(r))
	uses := c.graph.VarToConstraints(v)
	if len(uses) == 0 {
		return false
	}
	return c.graph.NumLinear1Uses(v) == len(uses)
}
