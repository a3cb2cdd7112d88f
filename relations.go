package presolve

// This file implements spec §4.3's façade operations over the two
// union-find repositories declared in affine.go.

func (c *Context) preferAsRepresentative(a, b Var) bool {
	return c.CanBeLiteral(RefOf(a)) && !c.CanBeLiteral(RefOf(b))
}

// addGeneralRelation records x = coeff*y + offset in the general affine
// repository. It is the "plain try_add" spec §4.3 describes for |coeff|!=1,
// and is also called for |coeff|==1 so the general repo always has every
// fact the equivalence repo has.
func (c *Context) addGeneralRelation(x, y Var, coeff, offset int64) bool {
	return c.affine.AddRelation(x, y, coeff, offset, c.preferAsRepresentative)
}

// addEquivRelation records x = sign*y (sign in {-1,+1}) in the restricted
// equivalence repository.
func (c *Context) addEquivRelation(x, y Var, sign int8) bool {
	return c.varEquiv.AddRelation(x, y, sign, c.preferAsRepresentative)
}

// StoreAffineRelation records ct's defining fact rx = coeff*ry + offset
// (refs are normalized to positive variables, absorbing sign into coeff and
// offset). It is a no-op if either side is already fixed (the relation would
// carry no information beyond what the domain already states). When
// |coeff|==1 and offset==0 it is additionally recorded in the var-equivalence
// repository. Whenever the merge changes either variable's representative,
// both are marked modified so every constraint touching them is revisited.
func (c *Context) StoreAffineRelation(ct ConstraintID, rx, ry Ref, coeff, offset int64) bool {
	if coeff == 0 {
		panic("presolve: StoreAffineRelation called with zero coefficient")
	}
	x, signX := VarOf(Positive(rx)), sign(rx)
	y, signY := VarOf(Positive(ry)), sign(ry)
	// signX*x = coeff*(signY*y) + offset  =>  x = (signX*coeff*signY)*y + signX*offset
	c_ := int64(signX) * coeff * int64(signY)
	o_ := int64(signX) * offset

	if c.IsFixed(RefOf(x)) || c.IsFixed(RefOf(y)) {
		return false
	}

	beforeRepX, _, _ := c.affine.Find(x)
	beforeRepY, _, _ := c.affine.Find(y)

	merged := c.addGeneralRelation(x, y, c_, o_)
	if !merged {
		return false
	}
	if absI64(c_) == 1 && o_ == 0 {
		c.addEquivRelation(x, y, int8(c_))
	}
	afterRepX, _, _ := c.affine.Find(x)
	afterRepY, _, _ := c.affine.Find(y)
	if afterRepX != beforeRepX || afterRepY != beforeRepY {
		c.markModified(x)
		c.markModified(y)
	}
	c.affineConstraints[x] = ct
	c.affineConstraints[y] = ct
	return true
}

func sign(r Ref) int8 {
	if IsPositive(r) {
		return 1
	}
	return -1
}

// GetAffineRelation returns (rep, coeff, offset) such that r = coeff*rep +
// offset, with rep rewritten through the equivalence repository so the
// public representative is always an equivalence-class canonical (spec
// §4.3).
func (c *Context) GetAffineRelation(r Ref) (rep Ref, coeff, offset int64) {
	v := VarOf(Positive(r))
	genRoot, gc, go_ := c.affine.Find(v)
	// v = gc*genRoot + go_; rewrite genRoot through the equivalence repo.
	equivRoot, es := c.varEquiv.Find(genRoot)
	// genRoot = es*equivRoot  =>  v = gc*es*equivRoot + go_
	finalCoeff := gc * int64(es)
	finalOffset := go_
	repRef := RefOf(equivRoot)
	if !IsPositive(r) {
		// Negated(v) names -v (consistent with DomainOf's sign handling), so
		// -v = -finalCoeff*rep - finalOffset.
		finalCoeff = -finalCoeff
		finalOffset = -finalOffset
	}
	return repRef, finalCoeff, finalOffset
}

// GetVariableRepresentative returns the equivalence-class representative of
// r using only the restricted repository (|coeff|==1, offset==0 by
// construction).
func (c *Context) GetVariableRepresentative(r Ref) Ref {
	v := VarOf(Positive(r))
	root, s := c.varEquiv.Find(v)
	rep := RefOf(root)
	if (s < 0) != !IsPositive(r) {
		// Net sign is negative: either the equivalence flips sign and r is
		// positive, or it doesn't and r is negative, but not both/neither.
		return Negated(rep)
	}
	return rep
}

// GetLiteralRepresentative returns the literal equivalent to lit, rewritten
// through its affine representative. lit must satisfy CanBeLiteral. If the
// representative is no longer itself usable as a literal (the relation was
// recorded before the representative was narrowed to [0,1]), lit is returned
// unchanged.
func (c *Context) GetLiteralRepresentative(lit Ref) Ref {
	if !c.CanBeLiteral(lit) {
		panic("presolve: GetLiteralRepresentative called on a non-literal reference")
	}
	rep, coeff, offset := c.GetAffineRelation(Positive(lit))
	if !c.CanBeLiteral(rep) {
		return lit
	}
	positivePossible := offset == 0 || coeff+offset == 1
	negativePossible := offset == 1 || coeff+offset == 0
	var out Ref
	switch {
	case positivePossible && !negativePossible:
		out = rep
	case negativePossible && !positivePossible:
		out = Negated(rep)
	default:
		panic("presolve: literal affine relation is inconsistent at both boolean values")
	}
	if !IsPositive(lit) {
		out = Negated(out)
	}
	return out
}
