package presolve

import "errors"

// ErrInfeasible is a sentinel for boundary code that reports a model proven
// infeasible. Context's own methods report infeasibility via the sticky
// IsUnsat flag instead; no function in this module returns ErrInfeasible.
var ErrInfeasible = errors.New("presolve: model proven infeasible")

// ErrNoObjective is returned by WriteObjectiveToProto-style helpers when the
// context has no objective to write.
var ErrNoObjective = errors.New("presolve: context has no objective")
