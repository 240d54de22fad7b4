/*
NAME
  packet.go

DESCRIPTION
  packet.go defines ParsedPacket, the output surface of spec §6.2: a
  header view, a user-data view, and the full ordered parse context.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package packet implements the per-packet container-walk state machine
// of spec §4.4: given a definition and one packet's framed byte buffer,
// it produces a ParsedPacket or an UnrecognizedError.
package packet

import (
	"github.com/ausocean/xtceparse/ccsds"
	"github.com/ausocean/xtceparse/evaluator"
)

// ParsedPacket is one successfully decoded CCSDS packet.
type ParsedPacket struct {
	Header ccsds.Header

	// Context holds every decoded parameter, header fields first, in
	// declaration order.
	Context *evaluator.Context

	// HeaderNames is the name each header field was inserted into
	// Context under, in wire order.
	HeaderNames [ccsds.FieldCount]string

	// LastContainer is the concrete container the walk terminated at.
	LastContainer string

	// TrailingBytes is the number of buffer bytes left unconsumed past
	// the last decoded bit, per spec §4.4 step 3's length-mismatch
	// warning. Negative if the walk overran (cannot happen without a
	// BitReadError first, kept signed for symmetry with the invariant's
	// wording).
	TrailingBytes int
}

// HeaderValue returns the decoded header field by its (possibly
// remapped) name.
func (p *ParsedPacket) HeaderValue(name string) (evaluator.Value, bool) {
	return p.Context.Get(name)
}

// UserData returns every parameter decoded after the primary header, in
// declaration order.
func (p *ParsedPacket) UserData() []evaluator.Value {
	names := p.Context.Names()
	headerSet := make(map[string]bool, ccsds.FieldCount)
	for _, n := range p.HeaderNames {
		headerSet[n] = true
	}
	var out []evaluator.Value
	for _, n := range names {
		if headerSet[n] {
			continue
		}
		v, _ := p.Context.Get(n)
		out = append(out, v)
	}
	return out
}
