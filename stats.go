package presolve

// This file implements spec §4.7: a named counter per rewrite rule, plus the
// monotonic operation counter a driver uses to decide when to re-run cheap
// passes versus expensive ones.

// UpdateRuleStats increments the invocation counter for name and traces it
// when stats/tracing are enabled. Every mutation site that performs a
// presolve rewrite is expected to call this with a short, descriptive name.
func (c *Context) UpdateRuleStats(name string) {
	c.numPresolveOperations++
	if !c.enableStats {
		return
	}
	c.statsByRuleName[name]++
	c.tracer.Tracef("rule %q fired (%d total)", name, c.statsByRuleName[name])
}

// NumPresolveOperations returns the monotonic count of all UpdateRuleStats
// calls made so far, regardless of whether stats are enabled.
func (c *Context) NumPresolveOperations() int64 { return c.numPresolveOperations }

// RuleStats returns a snapshot of the per-rule invocation counts. It is empty
// unless WithStats(true) was passed to NewContext.
func (c *Context) RuleStats() map[string]int64 {
	out := make(map[string]int64, len(c.statsByRuleName))
	for k, v := range c.statsByRuleName {
		out[k] = v
	}
	return out
}
