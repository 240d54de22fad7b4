/*
NAME
  parser.go

DESCRIPTION
  parser.go implements the packet-parser state machine of spec §4.4:
  per packet, walk the container inheritance DAG, decoding entries and
  resolving restriction criteria against the accumulating parse context
  until a concrete container or an unrecognized dead end is reached.

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

	"github.com/ausocean/xtceparse/bitstream"
	"github.com/ausocean/xtceparse/ccsds"
	"github.com/ausocean/xtceparse/evaluator"
	"github.com/ausocean/xtceparse/xtce"
)

// Parse decodes one packet's framed byte buffer against def, per spec
// §4.4. buf must hold exactly one packet: the 6-byte primary header
// followed by PKT_LEN+1 bytes of user data, as framed by the stream
// generator (or a caller driving Parse directly over a fixed-length
// test buffer).
func Parse(def *xtce.Definition, buf []byte, opts Options) (*ParsedPacket, error) {
	c := bitstream.New(buf)

	header, err := ccsds.Decode(c)
	if err != nil {
		return nil, err
	}

	ctx := evaluator.NewContext()
	hnames := opts.headerNames()
	values := header.Values()
	for i, name := range hnames {
		ctx.Set(name, evaluator.Value{Raw: values[i]})
	}

	if opts.SkipSecondaryHeaderBytes > 0 {
		if err := c.Skip(opts.SkipSecondaryHeaderBytes * 8); err != nil {
			return nil, &UnrecognizedError{Context: ctx, Cause: err}
		}
	}

	pp := &ParsedPacket{Header: header, Context: ctx, HeaderNames: hnames}

	if opts.ParseHeadersOnly {
		pp.TrailingBytes = (c.Len() - c.Position()) / 8
		return pp, nil
	}

	current := opts.RootContainer
	if current == "" {
		current = def.RootContainer()
	}

	for {
		entries, err := def.OwnEntries(current)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			if e.Kind != xtce.EntryParameter {
				// Container refs are inlined into OwnEntries at build time;
				// a surviving EntryContainer here indicates a build-time bug.
				return nil, fmt.Errorf("packet: unexpanded container reference %q in %q", e.Name, current)
			}
			if err := decodeParameter(def, ctx, c, e.Name); err != nil {
				return nil, &UnrecognizedError{LastContainer: current, Context: ctx, Cause: err}
			}
		}

		container, ok := def.Container(current)
		if !ok {
			return nil, fmt.Errorf("packet: unknown container %q", current)
		}

		var matched []*xtce.SequenceContainer
		for _, child := range def.Children(current) {
			ok, err := evaluator.EvaluateMatch(def, ctx, child.RestrictionCriteria)
			if err != nil {
				return nil, &UnrecognizedError{LastContainer: current, Context: ctx, Cause: err}
			}
			if ok {
				matched = append(matched, child)
			}
		}

		switch {
		case len(matched) == 0 && !container.Abstract:
			pp.LastContainer = current
			pp.TrailingBytes = (c.Len() - c.Position()) / 8
			return pp, nil
		case len(matched) == 0 && container.Abstract:
			return nil, &UnrecognizedError{LastContainer: current, Context: ctx}
		case len(matched) == 1:
			current = matched[0].Name
		default:
			return nil, &UnrecognizedError{LastContainer: current, Context: ctx, Ambiguous: true}
		}
	}
}
