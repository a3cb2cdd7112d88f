// Package presolve implements the shared mutable state and
// invariant-maintaining substrate of a CP-SAT-style presolver: variable
// domains, the affine-relation union-find, the literal-value encoding table,
// the constraint-variable usage graph, and the canonical linear objective.
// Concrete rewrite rules, the search engine, and model I/O beyond the small
// text format in the model package are external collaborators; this package
// owns exactly the state every rewrite rule reads and mutates.
//
// A Context is not safe for concurrent use: it is built for a single
// presolve driver goroutine that calls its methods in sequence, per spec §5.
package presolve

import (
	"github.com/hashicorp/go-hclog"

	"github.com/cespare/presolve/internal/trace"
	"github.com/cespare/presolve/model"
)

// Context is the presolve substrate described in package doc: it owns every
// variable's domain, the two affine union-finds, the encoding table, the
// constraint-variable usage graph, and the objective in canonical form.
type Context struct {
	domains []Domain

	modifiedDomains map[Var]struct{}

	constantToRef map[int64]Var

	affine   *AffineRelations
	varEquiv *VarEquivRelations
	encoding *EncodingTable
	graph    *ConstraintGraph

	objective         ObjectiveState
	hasObjective      bool
	affineConstraints map[Var]ConstraintID // var -> the equality constraint that defined its affine relation
	absRelations      map[Var]Ref           // target -> r where target = |r|

	linear1                 map[ConstraintID]Var // constraint -> its single var, for constraints currently counted as linear-1
	lastProcessedConstraint int

	model *model.Model

	isUnsat                  bool
	keepAllFeasibleSolutions bool
	enableStats              bool
	numPresolveOperations    int64
	statsByRuleName          map[string]int64

	logger       hclog.Logger
	traceEnabled bool
	tracer       *trace.Tracer
}

// NewContext builds a Context from m, allocating a variable for every entry
// in m.Variables (in order, so model variable i becomes presolve.Var(i)) and
// reading the objective via ReadObjectiveFromProto if m.Objective is set.
func NewContext(m *model.Model, opts ...ContextOption) *Context {
	c := &Context{
		modifiedDomains:   make(map[Var]struct{}),
		constantToRef:     make(map[int64]Var),
		affine:            newAffineRelations(),
		varEquiv:          newVarEquivRelations(),
		encoding:          newEncodingTable(),
		graph:             newConstraintGraph(),
		objective:         newObjectiveState(),
		affineConstraints: make(map[Var]ConstraintID),
		absRelations:      make(map[Var]Ref),
		linear1:           make(map[ConstraintID]Var),
		model:             m,
		statsByRuleName:   make(map[string]int64),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracer = trace.New(c.traceEnabled, c.logger)

	for _, v := range m.Variables {
		c.NewVariable(domainFromModel(v.Domain))
	}
	if m.Objective != nil {
		c.ReadObjectiveFromProto()
	}
	c.UpdateNewConstraintsVariableUsage()
	return c
}

func domainFromModel(intervals []model.Interval) Domain {
	out := make([]Interval, len(intervals))
	for i, iv := range intervals {
		out[i] = Interval{iv.Lo, iv.Hi}
	}
	return NewDomain(out...)
}

// DumpState pretty-prints the affine and encoding tables through the
// tracer, for a driver to call on request while debugging a stuck presolve
// pass. It is a no-op unless WithTracing(true) was passed to NewContext.
func (c *Context) DumpState() {
	c.tracer.TraceValue("affine relations", c.affine)
	c.tracer.TraceValue("encoding table", c.encoding)
}

// IsUnsat reports whether infeasibility has been proven. Once true it is
// sticky: nothing resets it.
func (c *Context) IsUnsat() bool { return c.isUnsat }

// SetUnsat marks the model infeasible. It is idempotent.
func (c *Context) SetUnsat() {
	if !c.isUnsat {
		c.tracer.Tracef("model proven infeasible")
	}
	c.isUnsat = true
}

// NumVariables returns the number of variables created so far.
func (c *Context) NumVariables() int { return len(c.domains) }

// NewVariable appends a new variable with domain d and returns its index.
// If d is empty, the context is marked unsat (the variable is still
// created, with an empty domain, so indices stay append-only and stable).
func (c *Context) NewVariable(d Domain) Var {
	v := Var(len(c.domains))
	c.domains = append(c.domains, d)
	c.affine.growTo(len(c.domains))
	c.varEquiv.growTo(len(c.domains))
	c.graph.growVarsTo(len(c.domains))
	if d.IsEmpty() {
		c.SetUnsat()
	}
	return v
}

// GetOrCreateConstant returns the canonical variable whose domain is {k},
// allocating it on first use and caching it in constant_to_ref thereafter.
func (c *Context) GetOrCreateConstant(k int64) Var {
	if v, ok := c.constantToRef[k]; ok {
		return v
	}
	v := c.NewVariable(FromValue(k))
	c.constantToRef[k] = v
	return v
}

// markModified sets v's bit in modified_domains.
func (c *Context) markModified(v Var) {
	c.modifiedDomains[v] = struct{}{}
}

// ModifiedDomains returns the variables currently marked as modified. The
// returned slice is a snapshot; it does not clear the bit-set (see
// DrainModifiedDomains for that).
func (c *Context) ModifiedDomains() []Var {
	out := make([]Var, 0, len(c.modifiedDomains))
	for v := range c.modifiedDomains {
		out = append(out, v)
	}
	sortVars(out)
	return out
}

// DrainModifiedDomains returns the variables currently marked as modified
// and clears the bit-set, for a driver's periodic reconciliation sweep.
func (c *Context) DrainModifiedDomains() []Var {
	out := c.ModifiedDomains()
	c.modifiedDomains = make(map[Var]struct{})
	return out
}

// DomainOf returns the signed view of r's domain: domain_of(positive(r)),
// negated if r is negative.
func (c *Context) DomainOf(r Ref) Domain {
	d := c.domains[VarOf(Positive(r))]
	if IsPositive(r) {
		return d
	}
	return d.Negation()
}

// MinOf returns the minimum value r can take.
func (c *Context) MinOf(r Ref) int64 { return c.DomainOf(r).Min() }

// MaxOf returns the maximum value r can take.
func (c *Context) MaxOf(r Ref) int64 { return c.DomainOf(r).Max() }

// DomainContains reports whether v is achievable by r.
func (c *Context) DomainContains(r Ref, v int64) bool { return c.DomainOf(r).Contains(v) }

// IsFixed reports whether r's domain is a single value.
func (c *Context) IsFixed(r Ref) bool {
	_, ok := c.DomainOf(r).IsFixed()
	return ok
}

// FixedValueOf returns the value r is fixed to and true, or (0, false) if
// r is not fixed.
func (c *Context) FixedValueOf(r Ref) (int64, bool) {
	return c.DomainOf(r).IsFixed()
}

// CanBeLiteral reports whether r's underlying variable's domain is a subset
// of {0,1}.
func (c *Context) CanBeLiteral(r Ref) bool {
	d := c.domains[VarOf(Positive(r))]
	return d.IsSubsetOf(FromInterval(0, 1))
}

// LiteralIsTrue reports whether lit is fixed to true: its variable is fixed
// to 1 when lit is positive, or to 0 when lit is negated.
func (c *Context) LiteralIsTrue(lit Ref) bool {
	v, ok := c.domains[VarOf(Positive(lit))].IsFixed()
	if !IsPositive(lit) {
		return ok && v == 0
	}
	return ok && v == 1
}

// LiteralIsFalse reports whether lit is fixed to false: its variable is fixed
// to 0 when lit is positive, or to 1 when lit is negated.
func (c *Context) LiteralIsFalse(lit Ref) bool {
	v, ok := c.domains[VarOf(Positive(lit))].IsFixed()
	if !IsPositive(lit) {
		return ok && v == 1
	}
	return ok && v == 0
}

// IntersectDomain replaces domain(positive(r)) with its intersection with d
// (d is negated first if r is negative), returning false and marking the
// model unsat if the result is empty. A no-op intersection (d is already a
// superset) still returns true without marking the variable modified.
func (c *Context) IntersectDomain(r Ref, d Domain) bool {
	pv := VarOf(Positive(r))
	signedD := d
	if !IsPositive(r) {
		signedD = d.Negation()
	}
	old := c.domains[pv]
	if old.IsSubsetOf(signedD) {
		return true
	}
	newDomain := old.Intersect(signedD)
	c.domains[pv] = newDomain
	c.markModified(pv)
	if newDomain.IsEmpty() {
		c.SetUnsat()
		return false
	}
	return true
}

// SetLiteralTrue fixes lit to true: its variable is intersected with {1}
// when lit is positive, or with {0} when lit is negated.
func (c *Context) SetLiteralTrue(lit Ref) bool {
	if !IsPositive(lit) {
		return c.IntersectDomain(Positive(lit), FromValue(0))
	}
	return c.IntersectDomain(lit, FromValue(1))
}

// SetLiteralFalse fixes lit to false: its variable is intersected with {0}
// when lit is positive, or with {1} when lit is negated.
func (c *Context) SetLiteralFalse(lit Ref) bool {
	if !IsPositive(lit) {
		return c.IntersectDomain(Positive(lit), FromValue(1))
	}
	return c.IntersectDomain(lit, FromValue(0))
}

// MinOfLinearExpr returns the minimum of offset + sum(coeffs[i]*refs[i])
// using pure interval arithmetic, without allocating an intermediate Domain
// per spec §4.2.
func (c *Context) MinOfLinearExpr(coeffs []int64, refs []Ref, offset int64) int64 {
	total := offset
	for i, coeff := range coeffs {
		lo, hi := c.MinOf(refs[i]), c.MaxOf(refs[i])
		if coeff >= 0 {
			total += coeff * lo
		} else {
			total += coeff * hi
		}
	}
	return total
}

// MaxOfLinearExpr returns the maximum of offset + sum(coeffs[i]*refs[i]).
func (c *Context) MaxOfLinearExpr(coeffs []int64, refs []Ref, offset int64) int64 {
	total := offset
	for i, coeff := range coeffs {
		lo, hi := c.MinOf(refs[i]), c.MaxOf(refs[i])
		if coeff >= 0 {
			total += coeff * hi
		} else {
			total += coeff * lo
		}
	}
	return total
}
