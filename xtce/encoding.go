/*
NAME
  encoding.go

DESCRIPTION
  encoding.go defines the raw bit-level layout descriptions (data
  encodings) owned by parameter types, per spec §3.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

import "github.com/ausocean/xtceparse/bitstream"

// IntegerEncoding is IntegerDataEncoding, spec §3.3.
type IntegerEncoding struct {
	Width      int
	Signedness bitstream.Signedness
	ByteOrder  bitstream.ByteOrder
}

// FloatEncoding is FloatDataEncoding, spec §3.3. Width is 16, 32 or 64.
type FloatEncoding struct {
	Width     int
	ByteOrder bitstream.ByteOrder
}

// StringLengthKind selects the string length policy of spec §4.2.
type StringLengthKind int

const (
	LengthFixed StringLengthKind = iota
	LengthTermination
	LengthPrefix
	LengthDynamic
)

// StringLength describes how many bits a string field occupies.
//
//   - LengthFixed: FixedBits is the constant length.
//   - LengthTermination: Terminator is the terminator byte sequence of
//     the charset (e.g. a single 0x00 for utf-8, two zero bytes for
//     utf-16); consumed but not included in the decoded value.
//   - LengthPrefix: the length, in bytes, is read from the PrefixBits
//     immediately preceding the string, or — if PrefixBits is zero —
//     from the already-parsed parameter named PrefixRef.
//   - LengthDynamic: length in bits = Intercept + Slope * value of the
//     parameter named DynamicRef, already parsed earlier in the packet.
type StringLength struct {
	Kind       StringLengthKind
	FixedBits  int
	Terminator []byte
	PrefixBits int
	PrefixRef  string
	DynamicRef string
	Intercept  float64
	Slope      float64
}

// StringEncoding is StringDataEncoding, spec §3.3/§4.2.
type StringEncoding struct {
	Charset bitstream.Charset
	Length  StringLength
}

// DynamicValue is a reference to another, earlier-parsed parameter in
// the same packet plus a linear adjustment: adjusted = Intercept + Slope
// * raw_or_calibrated_value_of(ParameterRef). Spec §3.3.
type DynamicValue struct {
	ParameterRef  string
	Intercept     float64
	Slope         float64
	UseCalibrated bool
}

// BinarySize is SizeInBits for a BinaryDataEncoding: either a fixed
// integer width, or a DynamicValue computed from an earlier parameter.
type BinarySize struct {
	Fixed   *int
	Dynamic *DynamicValue
}

// BinaryEncoding is BinaryDataEncoding, spec §3.3.
type BinaryEncoding struct {
	Size BinarySize
}
