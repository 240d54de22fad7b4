/*
NAME
  types.go

DESCRIPTION
  types.go defines the immutable in-memory representation of XTCE
  parameter types: a tagged variant over the seven kinds of spec §3.2,
  each owning exactly one data encoding (encoding.go) and, for the
  numeric/enumerated kinds, an optional calibrator (calibrate.go).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package xtce is the in-memory model of an XTCE packet-structure
// description: parameter types, data encodings, calibrators, match
// criteria and the sequence-container inheritance forest. A Definition
// is immutable once built by a loader (xmlload or csvload) and safe to
// share across goroutines.
package xtce

// Kind tags the variant a ParameterType holds. Dispatch on Kind (rather
// than a type switch over an interface) keeps the parser's hot decode
// path a flat switch instead of a dynamic-dispatch chain.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindEnumerated
	KindString
	KindBinary
	KindBoolean
	KindAbsoluteTime
	KindRelativeTime
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindEnumerated:
		return "enumerated"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindBoolean:
		return "boolean"
	case KindAbsoluteTime:
		return "absolute_time"
	case KindRelativeTime:
		return "relative_time"
	default:
		return "unknown"
	}
}

// EnumLabel maps one raw integer value to its engineering-units label.
type EnumLabel struct {
	Value int64
	Label string
}

// TimeEncoding describes the composite integer/float encoding backing
// AbsoluteTimeParameterType and RelativeTimeParameterType: an underlying
// numeric encoding plus an epoch (only meaningful for absolute time) and
// a linear scale applied to the decoded raw value to produce seconds.
type TimeEncoding struct {
	Integer   *IntegerEncoding // non-nil if the underlying encoding is integer
	Float     *FloatEncoding   // non-nil if the underlying encoding is float
	Epoch     string           // e.g. "1958-01-01T00:00:00Z"; "" for relative time
	ScaleUnit float64          // multiplier applied to the raw numeric value to yield seconds
}

// ParameterType is one named, immutable XTCE parameter type.
type ParameterType struct {
	Name string
	Kind Kind
	Unit string // "" if no UnitSet/Unit was declared

	Integer       *IntegerEncoding // KindInteger
	Float         *FloatEncoding   // KindFloat
	Enumerated    *EnumeratedType  // KindEnumerated
	String        *StringEncoding  // KindString
	Binary        *BinaryEncoding  // KindBinary
	Boolean       *BooleanType     // KindBoolean
	Time          *TimeEncoding    // KindAbsoluteTime, KindRelativeTime

	Calibrator Calibrator // nil if uncalibrated; not valid for KindString/KindBinary/KindBoolean
}

// EnumeratedType is an integer encoding plus an ordered raw-value-to-label
// mapping. A raw value with no matching label surfaces the raw integer
// with no label and Unrecognized set, per invariant 8.7.
type EnumeratedType struct {
	Integer *IntegerEncoding
	Labels  []EnumLabel
}

// Lookup returns the label for v, if any.
func (e *EnumeratedType) Lookup(v int64) (string, bool) {
	for _, l := range e.Labels {
		if l.Value == v {
			return l.Label, true
		}
	}
	return "", false
}

// BooleanType maps the single raw bit {0,1} to {false,true}.
type BooleanType struct{}

// Parameter is a named reference to a ParameterType, as it appears in a
// ParameterSet.
type Parameter struct {
	Name     string
	TypeName string
}
