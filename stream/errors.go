/*
NAME
  errors.go

DESCRIPTION
  errors.go defines SourceError, the SourceReadError of spec §7: the
  underlying byte source failed (EOF mid-packet, socket timeout, I/O
  error). Unlike UnrecognizedPacketError, a SourceError is terminal — it
  surfaces to the consumer and ends iteration.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package stream

import "fmt"

// SourceError reports a failure reading from the underlying byte
// source.
type SourceError struct {
	Op   string // "read_header" or "read_user_data"
	Want int    // bytes requested
	Got  int    // bytes actually read before the failure
	Err  error  // the underlying io error, e.g. io.ErrUnexpectedEOF
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("stream: %s: wanted %d bytes, got %d: %v", e.Op, e.Want, e.Got, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
