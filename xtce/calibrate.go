/*
NAME
  calibrate.go

DESCRIPTION
  calibrate.go defines the calibrator variants of spec §3.4. These are
  pure data; evaluating a calibrator against a raw value (and, for a
  ContextCalibrator, a parse context) is the evaluator package's job —
  keeping the model immutable and the math out of the data layer.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package xtce

// Calibrator is implemented by PolynomialCalibrator, SplineCalibrator
// and ContextCalibrator.
type Calibrator interface {
	isCalibrator()
}

// PolynomialCalibrator computes y = sum(Coefficients[i] * x^i).
// Coefficients[0] is the constant term.
type PolynomialCalibrator struct {
	Coefficients []float64
}

func (*PolynomialCalibrator) isCalibrator() {}

// SplineExtrapolation selects the behaviour of a SplineCalibrator for x
// outside the declared knot range.
type SplineExtrapolation int

const (
	ExtrapolateClamp SplineExtrapolation = iota
	ExtrapolateLinear
)

// SplineOrder selects the interpolation order used between consecutive
// knots of a SplineCalibrator.
type SplineOrder int

const (
	SplineLinear SplineOrder = iota
	SplineQuadratic
)

// SplinePoint is one (x,y) knot of a SplineCalibrator.
type SplinePoint struct {
	X, Y float64
}

// SplineCalibrator is SplinePolynomialCalibrator, spec §3.4: a piecewise
// function over ordered (x,y) points.
type SplineCalibrator struct {
	Points        []SplinePoint // ordered by ascending X
	Extrapolation SplineExtrapolation
	Order         SplineOrder
}

func (*SplineCalibrator) isCalibrator() {}

// ContextCase pairs a match criteria with the calibrator to use when it
// matches.
type ContextCase struct {
	Match      MatchCriteria
	Calibrator Calibrator
}

// ContextCalibrator is a first-match-wins sequence of (criteria,
// calibrator) pairs. If no case matches, the parameter's calibrated
// value is absent and the raw value is reported, per spec §3.4.
type ContextCalibrator struct {
	Cases []ContextCase
}

func (*ContextCalibrator) isCalibrator() {}
