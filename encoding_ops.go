package presolve

import "github.com/cespare/presolve/model"

// EncodingSyntheticConstraint marks an affine relation or linear constraint
// that the encoding machinery itself introduced (e.g. the arithmetic
// identity tying a fresh Boolean to a two-valued domain), as opposed to one
// that came from the input model.
const EncodingSyntheticConstraint ConstraintID = -2

// constantLiteral returns a literal whose domain is fixed to {1} (want=true)
// or {0} (want=false), via the constant cache.
func (c *Context) constantLiteral(want bool) Ref {
	if want {
		return RefOf(c.GetOrCreateConstant(1))
	}
	return RefOf(c.GetOrCreateConstant(0))
}

// domainTwoValues reports whether d contains exactly two values, in order.
func domainTwoValues(d Domain) (a, b int64, ok bool) {
	var vals []int64
	for _, iv := range d.Intervals() {
		n := iv.Hi - iv.Lo + 1
		if int64(len(vals))+n > 2 {
			return 0, 0, false
		}
		for x := iv.Lo; x <= iv.Hi; x++ {
			vals = append(vals, x)
		}
	}
	if len(vals) != 2 {
		return 0, 0, false
	}
	return vals[0], vals[1], true
}

// GetOrCreateLiteralForEquality returns a literal equivalent to "r == v",
// allocating a fresh Boolean variable and caching the encoding if needed, per
// spec §4.4.
func (c *Context) GetOrCreateLiteralForEquality(r Ref, v int64) Ref {
	pv := VarOf(Positive(r))
	xVal := v
	if !IsPositive(r) {
		xVal = -v
	}
	dom := c.domains[pv]
	if !dom.Contains(xVal) {
		return c.constantLiteral(false)
	}
	if lit, ok := c.encoding.Get(pv, xVal); ok {
		return c.GetLiteralRepresentative(lit)
	}
	if _, ok := dom.IsFixed(); ok {
		lit := c.constantLiteral(true)
		c.encoding.Set(pv, xVal, lit)
		return lit
	}
	if a, b, ok := domainTwoValues(dom); ok {
		other := a
		if xVal == a {
			other = b
		}
		if otherLit, ok := c.encoding.Get(pv, other); ok {
			lit := Negated(otherLit)
			c.encoding.Set(pv, xVal, lit)
			return lit
		}
		if a == 0 && b == 1 {
			c.encoding.Set(pv, 1, RefOf(pv))
			c.encoding.Set(pv, 0, Negated(RefOf(pv)))
			lit, _ := c.encoding.Get(pv, xVal)
			return lit
		}
		freshVar := c.NewVariable(FromInterval(0, 1))
		c.InsertVarValueEncoding(RefOf(freshVar), pv, b)
		lit, _ := c.encoding.Get(pv, xVal)
		return lit
	}
	freshVar := c.NewVariable(FromInterval(0, 1))
	freshLit := RefOf(freshVar)
	c.InsertVarValueEncoding(freshLit, pv, xVal)
	return freshLit
}

// InsertVarValueEncoding records (v, val) -> lit. If the key already held a
// different literal, the two are merged via StoreBooleanEquality. For a
// two-value domain it also derives the encoding of the other value and the
// arithmetic identity tying v to lit; for larger domains it installs both
// half-reifications instead.
func (c *Context) InsertVarValueEncoding(lit Ref, v Var, val int64) {
	if existing, ok := c.encoding.Get(v, val); ok && existing != lit {
		c.StoreBooleanEquality(existing, lit)
	}
	c.encoding.Set(v, val, lit)

	dom := c.domains[v]
	if a, b, ok := domainTwoValues(dom); ok {
		other := a
		if val == a {
			other = b
		}
		if _, ok2 := c.encoding.Get(v, other); !ok2 {
			c.encoding.Set(v, other, Negated(lit))
		}
		// v = other - (other-val)*lit : when lit=1, v=val; when lit=0, v=other.
		if IsPositive(lit) {
			coeff := -(other - val)
			c.StoreAffineRelation(EncodingSyntheticConstraint, RefOf(v), lit, coeff, other)
		} else {
			// lit = 1-p for p = Positive(lit), so v = val + (other-val)*p.
			c.StoreAffineRelation(EncodingSyntheticConstraint, RefOf(v), Positive(lit), other-val, val)
		}
		return
	}
	c.encoding.AddEqHalf(v, val, lit)
	c.encoding.AddNeqHalf(v, val, Negated(lit))
}

// InsertHalfEncoding records that lit implies v==val (implyEq) or v!=val
// (!implyEq). If the opposite half-encoding map already holds Negated(lit)
// for the same key, the two halves are promoted to a full encoding.
func (c *Context) InsertHalfEncoding(lit Ref, v Var, val int64, implyEq bool) {
	if implyEq {
		c.encoding.AddEqHalf(v, val, lit)
	} else {
		c.encoding.AddNeqHalf(v, val, lit)
	}
	var opposite []Ref
	if implyEq {
		opposite = c.encoding.NeqHalf(v, val)
	} else {
		opposite = c.encoding.EqHalf(v, val)
	}
	for _, other := range opposite {
		if other != Negated(lit) {
			continue
		}
		full := lit
		if !implyEq {
			full = Negated(lit)
		}
		if existing, ok := c.encoding.Get(v, val); ok && existing != full {
			c.StoreBooleanEquality(existing, full)
		}
		c.encoding.Set(v, val, full)
		return
	}
}

// StoreBooleanEquality records that a and b are the same literal. It is a
// no-op if they already are, marks the model unsat if they are exact
// opposites, and otherwise appends a two-variable linear equality constraint
// to the working model and records the corresponding affine relation.
func (c *Context) StoreBooleanEquality(a, b Ref) {
	if a == b {
		return
	}
	if a == Negated(b) {
		c.SetUnsat()
		return
	}
	va, sa := VarOf(Positive(a)), sign(a)
	vb, sb := VarOf(Positive(b)), sign(b)
	relSign := sa * sb // va = vb when relSign is 1, va = 1-vb when it is -1
	ct := c.appendBooleanEqualityConstraint(va, vb, relSign)
	if relSign > 0 {
		c.StoreAffineRelation(ct, RefOf(va), RefOf(vb), 1, 0)
	} else {
		c.StoreAffineRelation(ct, RefOf(va), RefOf(vb), -1, 1)
	}
}

// appendBooleanEqualityConstraint appends "va - vb == 0" (relSign 1) or
// "va + vb == 1" (relSign -1) to the working model and registers its usage,
// returning its new ConstraintID.
func (c *Context) appendBooleanEqualityConstraint(va, vb Var, relSign int8) ConstraintID {
	ctIdx := len(c.model.Constraints)
	var rhs int64
	if relSign < 0 {
		rhs = 1
	}
	c.model.Constraints = append(c.model.Constraints, model.Constraint{
		Linear: &model.LinearConstraint{
			Vars:   []int32{int32(va), int32(vb)},
			Coeffs: []int64{1, -int64(relSign)},
			Domain: []model.Interval{{Lo: rhs, Hi: rhs}},
		},
	})
	id := ConstraintID(ctIdx)
	c.AddVariableUsage(id)
	return id
}

// StoreAbsRelation records target = |r|. It returns false if target already
// has a conflicting abs relation recorded against a different underlying
// variable (|r| and |-r| are the same fact, so only the variable matters).
func (c *Context) StoreAbsRelation(target Var, r Ref) bool {
	if existing, ok := c.absRelations[target]; ok {
		return Positive(existing) == Positive(r)
	}
	c.absRelations[target] = r
	return true
}
