package presolve

import (
	"math"

	"github.com/cespare/presolve/model"
)

// This file implements spec §4.6's objective operations against
// ObjectiveState/ConstraintGraph, plus the §11 supplemented
// RemoveFixedVariablesFromObjective entry point.

func domainToModel(d Domain) []model.Interval {
	ivs := d.Intervals()
	out := make([]model.Interval, len(ivs))
	for i, iv := range ivs {
		out[i] = model.Interval{Lo: iv.Lo, Hi: iv.Hi}
	}
	return out
}

// unconstrainedObjectiveDomain is the "all values" domain a proto's empty
// domain list means, per spec §4.6's read_objective_from_proto.
func unconstrainedObjectiveDomain() Domain {
	return FromInterval(math.MinInt64, math.MaxInt64)
}

// setObjectiveCoeff sets v's objective coefficient (0 to erase it) and keeps
// ObjectiveSentinel membership in the usage graph in sync.
func (c *Context) setObjectiveCoeff(v Var, coeff int64) {
	had := c.objective.HasVar(v)
	c.objective.set(v, coeff)
	has := c.objective.HasVar(v)
	switch {
	case has && !had:
		c.graph.AddObjectiveUsage([]Var{v})
	case had && !has:
		c.graph.RemoveObjectiveUsage(v)
	}
}

// HasObjective reports whether the model carries a linear objective.
func (c *Context) HasObjective() bool { return c.hasObjective }

// Objective returns the objective in its current canonical form.
func (c *Context) Objective() ObjectiveState { return c.objective }

// ReadObjectiveFromProto populates the objective state from the working
// model's Objective, folding reference signs into coefficients and
// registering every non-zero variable's usage under ObjectiveSentinel.
func (c *Context) ReadObjectiveFromProto() {
	obj := c.model.Objective
	c.hasObjective = true
	c.objective = newObjectiveState()
	for i, ref := range obj.Vars {
		r := Ref(ref)
		v := VarOf(Positive(r))
		coeff := obj.Coeffs[i]
		if !IsPositive(r) {
			coeff = -coeff
		}
		c.setObjectiveCoeff(v, c.objective.Coefficient(v)+coeff)
	}
	dom := domainFromModel(obj.Domain)
	if dom.IsEmpty() {
		dom = unconstrainedObjectiveDomain()
	}
	c.objective.domain = dom
	c.objective.offset = obj.Offset
	c.objective.scalingFactor = obj.ScalingFactor
	if c.objective.scalingFactor == 0 {
		c.objective.scalingFactor = 1
	}
	c.objective.domainIsConstraining = !dom.Equal(unconstrainedObjectiveDomain())
}

// objectiveVarIsFixable reports whether v, with objective coefficient coeff,
// should be fixed to the endpoint that minimizes its contribution: either it
// is already fixed, or it is unused outside the objective and the objective
// domain is not constraining (spec §4.6 step 1 / §11). When it fixes v here
// it also intersects v's domain down to that endpoint.
func (c *Context) objectiveVarIsFixable(v Var, coeff int64) (val int64, ok bool) {
	if val, ok := c.FixedValueOf(RefOf(v)); ok {
		return val, true
	}
	uses := c.graph.VarToConstraints(v)
	if len(uses) != 1 {
		return 0, false
	}
	if _, onlyObjective := uses[ObjectiveSentinel]; !onlyObjective {
		return 0, false
	}
	if c.objective.domainIsConstraining {
		return 0, false
	}
	val = c.MinOf(RefOf(v))
	if coeff < 0 {
		val = c.MaxOf(RefOf(v))
	}
	c.IntersectDomain(RefOf(v), FromValue(val))
	return val, true
}

// RemoveFixedVariablesFromObjective drops every objective variable that is
// fixed (already, or because it is unused outside the objective and the
// objective domain is not constraining), absorbing its contribution into the
// floating offset and shifting the objective domain to match. It is spec
// §4.6 step 1, also exported standalone per §11.
func (c *Context) RemoveFixedVariablesFromObjective() bool {
	var offsetChange int64
	changed := false
	for _, v := range c.objective.Vars() {
		coeff := c.objective.Coefficient(v)
		if coeff == 0 {
			continue
		}
		val, ok := c.objectiveVarIsFixable(v, coeff)
		if !ok {
			continue
		}
		offsetChange += coeff * val
		c.setObjectiveCoeff(v, 0)
		changed = true
	}
	if changed {
		c.objective.offset += float64(offsetChange)
		c.objective.domain = c.objective.domain.AdditiveOffset(-offsetChange)
		c.UpdateRuleStats("remove_fixed_variables_from_objective")
	}
	return changed
}

// rewriteObjectiveThroughAffine is the non-fixed half of spec §4.6 step 1:
// for every remaining non-zero coefficient whose variable is not its own
// affine representative, erase it and fold its contribution into the
// representative's entry. It returns the accumulated integer offset change.
func (c *Context) rewriteObjectiveThroughAffine() int64 {
	var offsetChange int64
	for _, v := range c.objective.Vars() {
		coeff := c.objective.Coefficient(v)
		if coeff == 0 {
			continue
		}
		rep, coeffRel, offsetRel := c.GetAffineRelation(RefOf(v))
		repVar := VarOf(Positive(rep))
		foldedCoeff := coeffRel * int64(sign(rep))
		if repVar == v && foldedCoeff == 1 && offsetRel == 0 {
			continue
		}
		c.setObjectiveCoeff(v, 0)
		c.setObjectiveCoeff(repVar, c.objective.Coefficient(repVar)+coeff*foldedCoeff)
		offsetChange += coeff * offsetRel
	}
	return offsetChange
}

// objectiveImpliedDomainAndGCD computes implied_domain = sum(DomainOf(v) *
// coeff(v)) via domain arithmetic (hull fallback built into Domain.Add) and
// the gcd of the non-zero coefficients' absolute values, per spec §4.6 step
// 2.
func (c *Context) objectiveImpliedDomainAndGCD() (Domain, int64) {
	implied := FromValue(0)
	var gcd int64
	for _, v := range c.objective.Vars() {
		coeff := c.objective.Coefficient(v)
		if coeff == 0 {
			continue
		}
		gcd = gcdI64(gcd, coeff)
		implied = implied.Add(c.domains[v].MulConstant(coeff))
	}
	return implied, gcd
}

// CanonicalizeObjective implements spec §4.6's canonicalize_objective in
// full: fixing/rewriting every term through RemoveFixedVariablesFromObjective
// and the affine representative, recomputing the implied domain and gcd,
// intersecting and simplifying the objective domain, factoring out the gcd,
// and finally reporting infeasibility or recomputing domain_is_constraining.
func (c *Context) CanonicalizeObjective() bool {
	c.RemoveFixedVariablesFromObjective()
	offsetChange := c.rewriteObjectiveThroughAffine()

	implied, gcd := c.objectiveImpliedDomainAndGCD()
	newDomain := c.objective.domain.AdditiveOffset(-offsetChange).Intersect(implied)
	newDomain = newDomain.SimplifyUsingImpliedDomain(implied)
	c.objective.offset += float64(offsetChange)

	if gcd > 1 {
		for _, v := range c.objective.Vars() {
			c.objective.set(v, c.objective.Coefficient(v)/gcd)
		}
		newDomain = newDomain.DivideByConstant(gcd)
		implied = implied.DivideByConstant(gcd)
		c.objective.scalingFactor *= float64(gcd)
		c.objective.offset /= float64(gcd)
	}
	c.objective.domain = newDomain
	c.UpdateRuleStats("canonicalize_objective")

	if newDomain.IsEmpty() {
		c.SetUnsat()
		return false
	}
	boundedAbove := FromInterval(math.MinInt64, newDomain.Max())
	c.objective.domainIsConstraining = !implied.Intersect(boundedAbove).IsSubsetOf(newDomain)
	return true
}

// SubstituteVariableInObjective eliminates v from the objective using the
// equality constraint eqConstraint, in which v's coefficient is coeffInEq.
// It panics if the objective's coefficient for v is not an exact multiple of
// coeffInEq (spec §4.6's precondition). It returns the variables whose
// objective entry newly became non-zero, for the caller to re-examine.
func (c *Context) SubstituteVariableInObjective(v Var, coeffInEq int64, eqConstraint ConstraintID) []Var {
	if coeffInEq == 0 {
		panic("presolve: SubstituteVariableInObjective called with zero coeff_in_eq")
	}
	coeffInObj := c.objective.Coefficient(v)
	if coeffInObj%coeffInEq != 0 {
		panic("presolve: objective coefficient is not an exact multiple of coeff_in_eq")
	}
	multiplier := coeffInObj / coeffInEq
	lin := c.model.Constraints[eqConstraint].Linear
	if lin == nil {
		panic("presolve: SubstituteVariableInObjective requires a linear equality constraint")
	}

	var newVars []Var
	for i, ref := range lin.Vars {
		vi := VarOf(Positive(Ref(ref)))
		if vi == v {
			continue
		}
		ci := lin.Coeffs[i]
		if !IsPositive(Ref(ref)) {
			ci = -ci
		}
		before := c.objective.Coefficient(vi)
		after := before - ci*multiplier
		if before == 0 && after != 0 {
			newVars = append(newVars, vi)
		}
		c.setObjectiveCoeff(vi, after)
	}
	c.setObjectiveCoeff(v, 0)

	k, _ := domainFromModel(lin.Domain).IsFixed()
	c.objective.offset += float64(k) * float64(multiplier)
	c.objective.domain = c.objective.domain.AdditiveOffset(-k * multiplier)
	c.objective.domainIsConstraining = true
	c.UpdateRuleStats("substitute_variable_in_objective")
	return newVars
}

// WriteObjectiveToProtoChecked is WriteObjectiveToProto for boundary callers
// that want an ordinary error instead of a silent no-op when the model
// carries no objective to write.
func (c *Context) WriteObjectiveToProtoChecked() error {
	if !c.hasObjective {
		return ErrNoObjective
	}
	c.WriteObjectiveToProto()
	return nil
}

// WriteObjectiveToProto writes the canonical objective back into the working
// model, marking the model unsat if the objective domain is empty, and
// emitting entries in sorted key order for determinism. It does nothing when
// the context has no objective.
func (c *Context) WriteObjectiveToProto() {
	if !c.hasObjective {
		return
	}
	if c.objective.domain.IsEmpty() {
		c.SetUnsat()
		return
	}
	vars := c.objective.Vars()
	outVars := make([]int32, len(vars))
	outCoeffs := make([]int64, len(vars))
	for i, v := range vars {
		outVars[i] = int32(v)
		outCoeffs[i] = c.objective.Coefficient(v)
	}
	c.model.Objective = &model.Objective{
		Vars:          outVars,
		Coeffs:        outCoeffs,
		Domain:        domainToModel(c.objective.domain),
		Offset:        c.objective.offset,
		ScalingFactor: c.objective.scalingFactor,
	}
}
