/*
NAME
  errors.go

DESCRIPTION
  errors.go defines EvalError, the EvaluationError of spec §7: a
  comparison references a parameter not yet in context, a literal is not
  coercible to the referenced parameter's type, or a calibrator branch is
  unreachable.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evaluator

import "fmt"

// EvalError reports a failure evaluating a Comparison, calibrator or
// dynamic value against a Context. The packet parser converts an
// EvalError into a packet.UnrecognizedError for the current packet,
// preserving the partial context, per spec §7's propagation rules.
type EvalError struct {
	Op     string
	Detail string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluator: %s: %s", e.Op, e.Detail)
}

func newEvalError(op, format string, args ...interface{}) *EvalError {
	return &EvalError{Op: op, Detail: fmt.Sprintf(format, args...)}
}
