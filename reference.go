package presolve

import "fmt"

// Var identifies a variable by its non-negative, append-only index into the
// context's domain vector.
type Var int32

// Ref is a signed reference to a variable, optionally negated. Ref(v) names v
// directly. Negated(Ref(v)) has two readings, depending on the operation:
// the integer operations (DomainOf, IntersectDomain, GetAffineRelation, ...)
// read it as -v, while the literal operations (LiteralIsTrue, SetLiteralTrue,
// GetLiteralRepresentative, the encoding table, ...) read it as "not v",
// i.e. 1-v for a variable in [0,1]. The same signed encoding is used for
// every variable so union-find and encoding tables never special-case the
// two polarities.
//
// A non-negative Ref names its own variable directly (Positive). A negative
// Ref r names variable Positive(r) negated: Ref(-1) is "not variable 0",
// Ref(-2) is "not variable 1", and so on. This is the same scheme CP-SAT
// uses for literal references: the positive and negative forms of the same
// variable are bitwise complements of each other, with no separate sign flag.
type Ref int32

// RefOf returns the (positive) reference naming v directly.
func RefOf(v Var) Ref { return Ref(v) }

// Positive returns the non-negated reference naming the same variable as r.
func Positive(r Ref) Ref {
	if r >= 0 {
		return r
	}
	return Negated(r)
}

// Negated returns the reference naming the same variable as r but with the
// opposite polarity. Negated is its own inverse: Negated(Negated(r)) == r.
func Negated(r Ref) Ref {
	return -r - 1
}

// IsPositive reports whether r is the non-negated form of its variable.
func IsPositive(r Ref) bool { return r >= 0 }

// VarOf returns the variable that a positive reference names. It panics if r
// is negative: callers must normalize with Positive first, panicking on
// internal invariant violations rather than threading an error through every
// lookup.
func VarOf(r Ref) Var {
	if r < 0 {
		panic(fmt.Sprintf("presolve: VarOf called with negative reference %d; call Positive first", r))
	}
	return Var(r)
}

func (r Ref) String() string {
	if IsPositive(r) {
		return fmt.Sprintf("x%d", r)
	}
	return fmt.Sprintf("¬x%d", Positive(r))
}
