/*
NAME
  options.go

DESCRIPTION
  options.go defines the per-parse configuration of spec §4.5's options
  table that bears on a single packet's decode, as distinct from the
  stream-level options (read chunking, progress) owned by package
  stream.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package packet

import "github.com/ausocean/xtceparse/ccsds"

// Options configures how Parse walks a single packet's buffer.
type Options struct {
	// RootContainer overrides the definition's default root container.
	RootContainer string

	// HeaderNames overrides the default primary-header field names, in
	// wire order. Zero value uses ccsds.FieldNames.
	HeaderNames [ccsds.FieldCount]string

	// SkipSecondaryHeaderBytes skips this many bytes after the primary
	// header before the container walk begins, for packets whose
	// secondary header is not itself described in the definition.
	SkipSecondaryHeaderBytes int

	// ParseHeadersOnly stops after the primary header, skipping the
	// container walk entirely.
	ParseHeadersOnly bool
}

// headerNames returns o.HeaderNames if any entry was overridden, else
// ccsds.FieldNames.
func (o Options) headerNames() [ccsds.FieldCount]string {
	if o.HeaderNames == ([ccsds.FieldCount]string{}) {
		return ccsds.FieldNames
	}
	for i, n := range o.HeaderNames {
		if n == "" {
			o.HeaderNames[i] = ccsds.FieldNames[i]
		}
	}
	return o.HeaderNames
}
