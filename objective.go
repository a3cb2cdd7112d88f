package presolve

// ObjectiveState holds the linear objective in canonical form, per spec §3/§4.6:
// a sparse variable->coefficient map, an integer domain constraining the
// objective value, and the floating offset/scaling-factor pair that maps the
// raw integer value to the user-visible one:
// user_value = scaling_factor * (raw + offset).
type ObjectiveState struct {
	coeffs               map[Var]int64
	domain               Domain
	offset               float64
	scalingFactor        float64
	domainIsConstraining bool
}

func newObjectiveState() ObjectiveState {
	return ObjectiveState{
		coeffs:        make(map[Var]int64),
		domain:        EmptyDomain(),
		scalingFactor: 1,
	}
}

// Coefficient returns the objective's coefficient for v (0 if absent).
func (o ObjectiveState) Coefficient(v Var) int64 { return o.coeffs[v] }

// HasVar reports whether v has a non-zero entry in the objective.
func (o ObjectiveState) HasVar(v Var) bool {
	_, ok := o.coeffs[v]
	return ok
}

// Vars returns the variables with a non-zero objective coefficient, in
// ascending order (spec §4.6/§4.9's determinism requirement).
func (o ObjectiveState) Vars() []Var {
	vars := make([]Var, 0, len(o.coeffs))
	for v := range o.coeffs {
		vars = append(vars, v)
	}
	sortVars(vars)
	return vars
}

func sortVars(vars []Var) {
	for i := 1; i < len(vars); i++ {
		for j := i; j > 0 && vars[j-1] > vars[j]; j-- {
			vars[j-1], vars[j] = vars[j], vars[j-1]
		}
	}
}

// Domain returns the objective's value domain.
func (o ObjectiveState) Domain() Domain { return o.domain }

// Offset returns the floating additive offset.
func (o ObjectiveState) Offset() float64 { return o.offset }

// ScalingFactor returns the floating multiplicative scale.
func (o ObjectiveState) ScalingFactor() float64 { return o.scalingFactor }

// DomainIsConstraining reports whether the objective domain actually
// excludes values the implied domain would otherwise allow.
func (o ObjectiveState) DomainIsConstraining() bool { return o.domainIsConstraining }

func (o *ObjectiveState) set(v Var, coeff int64) {
	if coeff == 0 {
		delete(o.coeffs, v)
		return
	}
	o.coeffs[v] = coeff
}

func (o *ObjectiveState) add(v Var, delta int64) {
	o.set(v, o.coeffs[v]+delta)
}
