package presolve

import "github.com/hashicorp/go-hclog"

// ContextOption configures a Context at construction time, in the style of
// lvlath/core's GraphOption and lvlath/builder's BuilderOption: small
// functional options resolved once, not a mutable config object passed
// around afterward.
type ContextOption func(*Context)

// WithKeepAllFeasibleSolutions sets the keep_all_feasible_solutions flag
// from spec §3: when true, rewrite rules that would otherwise drop
// dominated-but-feasible solutions (e.g. removing a variable unique to one
// constraint) must not do so.
func WithKeepAllFeasibleSolutions(keep bool) ContextOption {
	return func(c *Context) { c.keepAllFeasibleSolutions = keep }
}

// WithStats enables per-rule invocation counting (spec §4.7).
func WithStats(enabled bool) ContextOption {
	return func(c *Context) { c.enableStats = enabled }
}

// WithLogger attaches a structured logger used by the context's tracer. The
// context's own invariant-preserving methods never
// log on their own critical path unless tracing is enabled (see
// internal/trace); this only wires the logger through.
func WithLogger(logger hclog.Logger) ContextOption {
	return func(c *Context) { c.logger = logger }
}

// WithTracing enables verbose per-operation tracing through the attached
// logger, gated the same way a `verbose` flag gates debug printing.
func WithTracing(enabled bool) ContextOption {
	return func(c *Context) { c.traceEnabled = enabled }
}
