/*
NAME
  errors.go

DESCRIPTION
  errors.go defines UnrecognizedError, the UnrecognizedPacketError of
  spec §7: container resolution produced zero concrete or more than one
  matching children. It carries the partial parse context and the name
  of the last container reached, so a caller can inspect what was
  decoded before recognition failed.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package packet

import (
	"fmt"

	"github.com/ausocean/xtceparse/evaluator"
)

// UnrecognizedError reports that a packet's container walk could not
// reach a concrete terminal container. Cause is set when the underlying
// reason was a BitReadError or an evaluator.EvalError, per spec §7's
// rule that both convert into an UnrecognizedPacketError for the current
// packet rather than aborting the stream.
type UnrecognizedError struct {
	LastContainer string
	Context       *evaluator.Context
	Ambiguous     bool // true: >1 matching child; false: 0 matching children at an abstract container
	Cause         error
}

func (e *UnrecognizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("packet: unrecognized at container %q: %v", e.LastContainer, e.Cause)
	}
	if e.Ambiguous {
		return fmt.Sprintf("packet: unrecognized at container %q: ambiguous, more than one restriction matched", e.LastContainer)
	}
	return fmt.Sprintf("packet: unrecognized at container %q: abstract container has no matching child", e.LastContainer)
}

func (e *UnrecognizedError) Unwrap() error { return e.Cause }
