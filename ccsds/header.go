/*
NAME
  header.go

DESCRIPTION
  header.go decodes the 6-byte CCSDS Space Packet primary header.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ccsds decodes the CCSDS Space Packet primary header shared by
// the packet parser and the stream generator.
package ccsds

import (
	"github.com/ausocean/xtceparse/bitstream"
)

// HeaderSize is the fixed size, in bytes, of the CCSDS primary header.
const HeaderSize = 6

// FieldCount is the number of named fields the primary header carries.
const FieldCount = 7

// Field identifies one of the seven primary-header fields, in their
// on-wire order.
type Field int

const (
	FieldVersion Field = iota
	FieldType
	FieldSecHdrFlag
	FieldAPID
	FieldSeqFlags
	FieldSeqCount
	FieldPacketLength
	fieldCount
)

// FieldNames gives the canonical (default) name of each header field, in
// wire order. A caller supplying header_name_map overrides these.
var FieldNames = [FieldCount]string{
	FieldVersion:      "VERSION",
	FieldType:         "TYPE",
	FieldSecHdrFlag:   "SEC_HDR_FLG",
	FieldAPID:         "PKT_APID",
	FieldSeqFlags:     "SEQ_FLGS",
	FieldSeqCount:     "SRC_SEQ_CTR",
	FieldPacketLength: "PKT_LEN",
}

// widths, in bits, of the seven fields, in wire order. Sums to 48 (6 bytes).
var fieldWidths = [FieldCount]int{3, 1, 1, 11, 2, 14, 16}

// Header is the decoded CCSDS primary header.
type Header struct {
	Version     uint8
	Type        uint8
	SecHdrFlag  uint8
	APID        uint16
	SeqFlags    uint8
	SeqCount    uint16
	PacketLen   uint16 // user-data length in bytes minus 1
}

// TotalBytes returns the total packet size, 7 + PacketLen, per spec.
func (h Header) TotalBytes() int { return HeaderSize + 1 + int(h.PacketLen) }

// Decode reads the primary header out of the first HeaderSize bytes of
// buf's cursor, returning the decoded fields. The cursor must be
// positioned at the start of the header.
func Decode(c *bitstream.Cursor) (Header, error) {
	var h Header
	v, err := c.ReadUint(fieldWidths[FieldVersion])
	if err != nil {
		return h, err
	}
	h.Version = uint8(v)

	v, err = c.ReadUint(fieldWidths[FieldType])
	if err != nil {
		return h, err
	}
	h.Type = uint8(v)

	v, err = c.ReadUint(fieldWidths[FieldSecHdrFlag])
	if err != nil {
		return h, err
	}
	h.SecHdrFlag = uint8(v)

	v, err = c.ReadUint(fieldWidths[FieldAPID])
	if err != nil {
		return h, err
	}
	h.APID = uint16(v)

	v, err = c.ReadUint(fieldWidths[FieldSeqFlags])
	if err != nil {
		return h, err
	}
	h.SeqFlags = uint8(v)

	v, err = c.ReadUint(fieldWidths[FieldSeqCount])
	if err != nil {
		return h, err
	}
	h.SeqCount = uint16(v)

	v, err = c.ReadUint(fieldWidths[FieldPacketLength])
	if err != nil {
		return h, err
	}
	h.PacketLen = uint16(v)

	return h, nil
}

// Values returns the seven header fields as raw uint64 values, in wire
// order, suitable for insertion into a parse context under either the
// default or a caller-remapped set of names.
func (h Header) Values() [FieldCount]uint64 {
	return [FieldCount]uint64{
		uint64(h.Version),
		uint64(h.Type),
		uint64(h.SecHdrFlag),
		uint64(h.APID),
		uint64(h.SeqFlags),
		uint64(h.SeqCount),
		uint64(h.PacketLen),
	}
}

// Widths returns the bit width of each header field, in wire order.
func Widths() [FieldCount]int { return fieldWidths }
