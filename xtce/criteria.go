/*
NAME
  criteria.go

DESCRIPTION
  criteria.go defines the match-criteria variants of spec §3.5: the
  building blocks for restriction criteria on containers and for the
  conditions inside a ContextCalibrator or DiscreteLookupList. Like
  calibrate.go, this is data only; evaluation lives in the evaluator
  package.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

// CompareOp is a Comparison's operator.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
)

func (op CompareOp) String() string {
	switch op {
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	default:
		return "?"
	}
}

// MatchCriteria is implemented by Comparison, ComparisonList and
// BooleanExpression.
type MatchCriteria interface {
	isMatchCriteria()
}

// Comparison is (parameter_ref, operator, literal, use_calibrated),
// spec §3.5.
type Comparison struct {
	ParameterRef  string
	Op            CompareOp
	Literal       string // coerced to the referenced parameter's type at evaluation time
	UseCalibrated bool
}

func (Comparison) isMatchCriteria() {}

// ComparisonList ANDs a list of Comparisons.
type ComparisonList struct {
	Comparisons []Comparison
}

func (ComparisonList) isMatchCriteria() {}

// BoolOp combines Comparisons inside a BooleanExpression.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

// BooleanExpression is a single level of ANDed or ORed Comparisons. Per
// spec's Non-goals ("full XTCE BooleanExpression ... known partial
// support"), nested expression groups are not modelled. The XML loader
// reads only the Comparison children of a BooleanExpression element; a
// BooleanExpression nested inside another is ignored, not rejected.
type BooleanExpression struct {
	Op          BoolOp
	Comparisons []Comparison
}

func (BooleanExpression) isMatchCriteria() {}

// DiscreteLookupCase pairs a match criteria with the value produced when
// it matches.
type DiscreteLookupCase struct {
	Match MatchCriteria
	Value float64
}

// DiscreteLookupList is a first-match-wins ordered list, spec §3.5.
type DiscreteLookupList struct {
	Cases []DiscreteLookupCase
}
