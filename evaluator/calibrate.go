/*
NAME
  calibrate.go

DESCRIPTION
  calibrate.go evaluates a Calibrator against a raw numeric value, per
  spec §3.4/§4.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evaluator

import (
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/ausocean/xtceparse/xtce"
)

// Calibrate applies cal to raw and returns the calibrated value. The
// second return is false only when cal is a ContextCalibrator and no
// case matched, per spec's "calibrated value is absent" rule — it is
// never false for Polynomial or Spline calibrators.
func Calibrate(def *xtce.Definition, ctx *Context, cal xtce.Calibrator, raw float64) (float64, bool, error) {
	switch c := cal.(type) {
	case *xtce.PolynomialCalibrator:
		return calibratePolynomial(c, raw), true, nil
	case *xtce.SplineCalibrator:
		v, err := calibrateSpline(c, raw)
		return v, true, err
	case *xtce.ContextCalibrator:
		return calibrateContext(def, ctx, c, raw)
	default:
		return 0, false, newEvalError("calibrate", "unsupported calibrator type %T", cal)
	}
}

// calibratePolynomial evaluates sum(Coefficients[i] * x^i) by Horner's
// method, high-order coefficient first.
func calibratePolynomial(c *xtce.PolynomialCalibrator, x float64) float64 {
	if len(c.Coefficients) == 0 {
		return 0
	}
	result := c.Coefficients[len(c.Coefficients)-1]
	for i := len(c.Coefficients) - 2; i >= 0; i-- {
		result = result*x + c.Coefficients[i]
	}
	return result
}

func calibrateSpline(c *xtce.SplineCalibrator, x float64) (float64, error) {
	n := len(c.Points)
	switch {
	case n == 0:
		return 0, newEvalError("calibrate_spline", "spline calibrator has no points")
	case n == 1:
		return c.Points[0].Y, nil
	}

	lo, hi := c.Points[0], c.Points[n-1]
	switch {
	case x < lo.X:
		return extrapolate(c, x, lo, c.Points[1], c.Extrapolation), nil
	case x > hi.X:
		return extrapolate(c, x, c.Points[n-2], hi, c.Extrapolation), nil
	}

	switch c.Order {
	case xtce.SplineLinear:
		return splineLinear(c.Points, x), nil
	case xtce.SplineQuadratic:
		return splineQuadratic(c.Points, x), nil
	default:
		return 0, newEvalError("calibrate_spline", "unknown spline order %d", c.Order)
	}
}

// extrapolate handles x outside [Points[0].X, Points[n-1].X]. edgeA and
// edgeB are the two knots nearest the edge x fell past, in ascending X
// order, used to compute the linear extrapolation slope.
func extrapolate(c *xtce.SplineCalibrator, x float64, edgeA, edgeB xtce.SplinePoint, mode xtce.SplineExtrapolation) float64 {
	if mode == xtce.ExtrapolateClamp {
		if x < c.Points[0].X {
			return c.Points[0].Y
		}
		return c.Points[len(c.Points)-1].Y
	}
	slope := (edgeB.Y - edgeA.Y) / (edgeB.X - edgeA.X)
	return edgeA.Y + slope*(x-edgeA.X)
}

// splineLinear interpolates x within the interior domain using gonum's
// piecewise-linear fit.
func splineLinear(points []xtce.SplinePoint, x float64) float64 {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		// Fit fails when xs is not strictly ascending; loaders keep knots
		// in the order the document lists them and do not sort them.
		// Fall back to direct linear math over the same knots.
		i := sort.SearchFloat64s(xs, x)
		if i == 0 {
			i = 1
		}
		return ys[i-1] + (ys[i]-ys[i-1])/(xs[i]-xs[i-1])*(x-xs[i-1])
	}
	return pl.Predict(x)
}

// splineQuadratic fits a 3-point Lagrange quadratic over the window
// nearest x. XTCE's quadratic spline order has no direct gonum
// equivalent, so the interpolation itself is hand-rolled; only the
// window search reuses sort.Search.
func splineQuadratic(points []xtce.SplinePoint, x float64) float64 {
	n := len(points)
	if n < 3 {
		return splineLinear(points, x)
	}
	i := sort.Search(n, func(i int) bool { return points[i].X >= x })
	if i == 0 {
		i = 1
	}
	if i >= n {
		i = n - 1
	}
	// Window is the three points centred as closely as possible on
	// [i-1, i]: prefer one point either side, clamped to the slice.
	lo := i - 1
	if lo < 1 {
		lo = 1
	}
	if lo+1 >= n {
		lo = n - 2
	}
	p0, p1, p2 := points[lo-1], points[lo], points[lo+1]

	l0 := (x - p1.X) * (x - p2.X) / ((p0.X - p1.X) * (p0.X - p2.X))
	l1 := (x - p0.X) * (x - p2.X) / ((p1.X - p0.X) * (p1.X - p2.X))
	l2 := (x - p0.X) * (x - p1.X) / ((p2.X - p0.X) * (p2.X - p1.X))
	return p0.Y*l0 + p1.Y*l1 + p2.Y*l2
}

func calibrateContext(def *xtce.Definition, ctx *Context, c *xtce.ContextCalibrator, raw float64) (float64, bool, error) {
	for _, cs := range c.Cases {
		ok, err := EvaluateMatch(def, ctx, cs.Match)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return Calibrate(def, ctx, cs.Calibrator, raw)
		}
	}
	return 0, false, nil
}
