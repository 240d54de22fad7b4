/*
NAME
  generator.go

DESCRIPTION
  generator.go drives the packet parser over a byte stream, per spec
  §4.5: read the 6-byte primary header, determine the packet length,
  read the remainder, parse, and yield.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stream drives repeated calls to the packet parser over an
// io.Reader of concatenated CCSDS packets, yielding parsed packets (or
// recognition errors) in a cooperative, pull-based loop. The consumer
// calls Next; no background goroutine is spawned.
package stream

import (
	"errors"
	"io"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/xtceparse/ccsds"
	"github.com/ausocean/xtceparse/packet"
	"github.com/ausocean/xtceparse/xtce"
)

// ProgressFunc is invoked after every packet read (recognized or not),
// reporting cumulative progress.
type ProgressFunc func(packetsRead, bytesRead int64)

// Generator pulls packets from r, one at a time, against def.
type Generator struct {
	r   io.Reader
	def *xtce.Definition
	log logging.Logger

	opts packet.Options

	yieldUnrecognized bool
	wordSizeBytes     int
	onProgress        ProgressFunc

	packetsRead int64
	bytesRead   int64
	done        bool
}

// Option configures a Generator at construction time.
type Option func(g *Generator) error

// WithRootContainer overrides the definition's default root container.
func WithRootContainer(name string) Option {
	return func(g *Generator) error {
		g.opts.RootContainer = name
		return nil
	}
}

// WithYieldUnrecognizedErrors controls whether Next returns a
// *packet.UnrecognizedError for an unrecognized packet (true) or skips
// it silently and continues (false, the default).
func WithYieldUnrecognizedErrors(yield bool) Option {
	return func(g *Generator) error {
		g.yieldUnrecognized = yield
		return nil
	}
}

// WithSkipSecondaryHeaderBytes skips this many bytes after the primary
// header before the container walk begins.
func WithSkipSecondaryHeaderBytes(n int) Option {
	return func(g *Generator) error {
		if n < 0 {
			return errors.New("stream: SkipSecondaryHeaderBytes must be non-negative")
		}
		g.opts.SkipSecondaryHeaderBytes = n
		return nil
	}
}

// WithHeaderNameMap overrides the default names the seven primary-header
// fields are inserted into a packet's context under, in wire order
// (VERSION, TYPE, SEC_HDR_FLG, PKT_APID, SEQ_FLGS, SRC_SEQ_CTR, PKT_LEN).
// A zero-value entry leaves that field's default name in place.
func WithHeaderNameMap(names [ccsds.FieldCount]string) Option {
	return func(g *Generator) error {
		g.opts.HeaderNames = names
		return nil
	}
}

// WithParseHeadersOnly skips user-data parsing; Next returns packets
// carrying only the seven header fields.
func WithParseHeadersOnly(headersOnly bool) Option {
	return func(g *Generator) error {
		g.opts.ParseHeadersOnly = headersOnly
		return nil
	}
}

// WithProgress registers a callback invoked after each packet is read.
func WithProgress(f ProgressFunc) Option {
	return func(g *Generator) error {
		g.onProgress = f
		return nil
	}
}

// WithWordSizeBytes extends each packet's user-data read so that the
// whole packet (6-byte header plus user data) ends on the next multiple
// of n bytes, for sources that frame packets to a fixed word boundary.
// Padding bytes are read and discarded; they are never passed to the
// packet parser.
func WithWordSizeBytes(n int) Option {
	return func(g *Generator) error {
		if n < 0 {
			return errors.New("stream: WordSizeBytes must be non-negative")
		}
		g.wordSizeBytes = n
		return nil
	}
}

// New returns a Generator reading packets from r against def. log may be
// nil to discard diagnostic logging.
func New(r io.Reader, def *xtce.Definition, log logging.Logger, opts ...Option) (*Generator, error) {
	g := &Generator{r: r, def: def, log: log}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Next reads and parses the next packet. It returns io.EOF once the
// source is exhausted on a packet boundary. A *packet.UnrecognizedError
// is returned only when WithYieldUnrecognizedErrors(true) was set;
// otherwise unrecognized packets are skipped and the next packet (if
// any) is returned instead. Any other error is terminal: a *SourceError
// for a failure of the byte source, or the error Parse returned for a
// fault in the definition or options (such as an unknown root
// container). The Generator must not be used again after either.
func (g *Generator) Next() (*packet.ParsedPacket, error) {
	if g.done {
		return nil, io.EOF
	}
	for {
		pp, err := g.readOne()
		if err != nil {
			if err == io.EOF {
				g.done = true
			}
			return nil, err
		}
		if pp == nil {
			// Unrecognized and configured to skip silently; try the next one.
			continue
		}
		return pp, nil
	}
}

// readOne reads and parses a single packet. It returns (nil, nil) for
// an unrecognized packet that should be skipped per configuration.
func (g *Generator) readOne() (*packet.ParsedPacket, error) {
	header := make([]byte, ccsds.HeaderSize)
	n, err := io.ReadFull(g.r, header)
	if err != nil {
		if err == io.EOF && n == 0 {
			return nil, io.EOF
		}
		return nil, &SourceError{Op: "read_header", Want: ccsds.HeaderSize, Got: n, Err: err}
	}

	// PKT_LEN occupies the final two bytes of the 6-byte header.
	pktLen := int(header[4])<<8 | int(header[5])
	userDataLen := pktLen + 1

	padded := userDataLen
	if g.wordSizeBytes > 1 {
		if rem := (ccsds.HeaderSize + userDataLen) % g.wordSizeBytes; rem != 0 {
			padded += g.wordSizeBytes - rem
		}
	}

	rest := make([]byte, padded)
	n, err = io.ReadFull(g.r, rest)
	if err != nil {
		return nil, &SourceError{Op: "read_user_data", Want: padded, Got: n, Err: err}
	}

	buf := append(header, rest[:userDataLen]...)
	g.packetsRead++
	g.bytesRead += int64(len(buf)) + int64(padded-userDataLen)
	if g.onProgress != nil {
		g.onProgress(g.packetsRead, g.bytesRead)
	}

	pp, err := packet.Parse(g.def, buf, g.opts)
	if err != nil {
		uerr, ok := err.(*packet.UnrecognizedError)
		if !ok {
			// A malformed buffer should have surfaced as an
			// UnrecognizedError already (Parse converts BitReadError and
			// EvalError itself); anything else is a programming error in
			// the definition or parser, not a stream condition.
			return nil, err
		}
		if g.log != nil {
			g.log.Debug("unrecognized packet", "container", uerr.LastContainer)
		}
		if !g.yieldUnrecognized {
			return nil, nil
		}
		return nil, uerr
	}
	return pp, nil
}
