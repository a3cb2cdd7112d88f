// Package trace provides a zero-cost-when-disabled tracer for the presolve
// context's hot paths: a disabled Tracer never allocates or formats, so
// instrumented call sites carry no runtime cost in the common case.
package trace

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"github.com/kr/pretty"
)

// Tracer gates debug output behind an Enabled flag. A zero-value Tracer is
// disabled.
type Tracer struct {
	Enabled bool
	Logger  hclog.Logger
}

// New returns a Tracer that logs through logger when enabled is true. A nil
// logger is replaced with hclog's null logger.
func New(enabled bool, logger hclog.Logger) *Tracer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Tracer{Enabled: enabled, Logger: logger}
}

// Tracef logs a formatted trace message if the tracer is enabled. The
// message is never formatted when disabled.
func (t *Tracer) Tracef(format string, args ...interface{}) {
	if t == nil || !t.Enabled {
		return
	}
	t.Logger.Debug(fmt.Sprintf(format, args...))
}

// TraceValue pretty-prints v under name when the tracer is enabled, for
// dumping a map or struct too large for a Tracef format string. It is
// deliberately gated and never fires on the hot path by default.
func (t *Tracer) TraceValue(name string, v interface{}) {
	if t == nil || !t.Enabled {
		return
	}
	t.Logger.Debug(fmt.Sprintf("%s: %s", name, pretty.Sprint(v)))
}
