/*
NAME
  evaluator.go

DESCRIPTION
  evaluator.go evaluates Comparison, ComparisonList, BooleanExpression,
  DiscreteLookupList and DynamicValue against a Context, per spec §4.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package evaluator

import (
	"strconv"

	"github.com/ausocean/xtceparse/xtce"
)

// EvaluateMatch evaluates any MatchCriteria against ctx.
func EvaluateMatch(def *xtce.Definition, ctx *Context, m xtce.MatchCriteria) (bool, error) {
	switch c := m.(type) {
	case nil:
		return true, nil // an absent RestrictionCriteria always matches
	case xtce.Comparison:
		return evaluateComparison(def, ctx, c)
	case xtce.ComparisonList:
		for _, cmp := range c.Comparisons {
			ok, err := evaluateComparison(def, ctx, cmp)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case xtce.BooleanExpression:
		return evaluateBooleanExpression(def, ctx, c)
	default:
		return false, newEvalError("evaluate_match", "unsupported match criteria type %T", m)
	}
}

func evaluateBooleanExpression(def *xtce.Definition, ctx *Context, be xtce.BooleanExpression) (bool, error) {
	if len(be.Comparisons) == 0 {
		return false, newEvalError("evaluate_boolean_expression", "empty BooleanExpression")
	}
	switch be.Op {
	case xtce.BoolAnd:
		for _, cmp := range be.Comparisons {
			ok, err := evaluateComparison(def, ctx, cmp)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case xtce.BoolOr:
		for _, cmp := range be.Comparisons {
			ok, err := evaluateComparison(def, ctx, cmp)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, newEvalError("evaluate_boolean_expression", "unknown boolean operator %d", be.Op)
	}
}

func evaluateComparison(def *xtce.Definition, ctx *Context, cmp xtce.Comparison) (bool, error) {
	val, ok := ctx.Get(cmp.ParameterRef)
	if !ok {
		return false, newEvalError("evaluate_comparison", "parameter %q not yet parsed", cmp.ParameterRef)
	}

	p, ok := def.Parameter(cmp.ParameterRef)
	if !ok {
		return false, newEvalError("evaluate_comparison", "parameter %q has no definition", cmp.ParameterRef)
	}
	pt, ok := def.ParameterType(p.TypeName)
	if !ok {
		return false, newEvalError("evaluate_comparison", "parameter %q has unknown type %q", cmp.ParameterRef, p.TypeName)
	}

	if pt.Kind == xtce.KindString {
		lhs, ok := val.Raw.(string)
		if !ok {
			return false, newEvalError("evaluate_comparison", "parameter %q is not a string value", cmp.ParameterRef)
		}
		return compareStrings(cmp.Op, lhs, cmp.Literal), nil
	}

	lhs, err := numericValue(val, cmp.UseCalibrated, cmp.ParameterRef)
	if err != nil {
		return false, err
	}
	rhs, err := strconv.ParseFloat(cmp.Literal, 64)
	if err != nil {
		return false, newEvalError("evaluate_comparison", "literal %q is not coercible to a number: %v", cmp.Literal, err)
	}
	return compareNumeric(cmp.Op, lhs, rhs), nil
}

func numericValue(val Value, useCalibrated bool, ref string) (float64, error) {
	if useCalibrated {
		if val.Calibrated == nil {
			return 0, newEvalError("numeric_value", "parameter %q has no calibrated value", ref)
		}
		return *val.Calibrated, nil
	}
	return toFloat(val.Raw, ref)
}

// ToFloat coerces a decoded raw value (int64, uint64, float64 or bool)
// to float64. Callers outside this package use it to feed a Context
// value's raw representation into further arithmetic — e.g. the packet
// parser resolving a string length-prefix reference.
func ToFloat(raw interface{}) (float64, error) {
	return toFloat(raw, "value")
}

func toFloat(raw interface{}, ref string) (float64, error) {
	switch v := raw.(type) {
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, newEvalError("to_float", "parameter %q's raw value is not numeric (%T)", ref, raw)
	}
}

func compareNumeric(op xtce.CompareOp, a, b float64) bool {
	switch op {
	case xtce.OpEQ:
		return a == b
	case xtce.OpNE:
		return a != b
	case xtce.OpLT:
		return a < b
	case xtce.OpLE:
		return a <= b
	case xtce.OpGT:
		return a > b
	case xtce.OpGE:
		return a >= b
	default:
		return false
	}
}

func compareStrings(op xtce.CompareOp, a, b string) bool {
	switch op {
	case xtce.OpEQ:
		return a == b
	case xtce.OpNE:
		return a != b
	case xtce.OpLT:
		return a < b
	case xtce.OpLE:
		return a <= b
	case xtce.OpGT:
		return a > b
	case xtce.OpGE:
		return a >= b
	default:
		return false
	}
}

// EvaluateDynamicValue resolves dv's referenced parameter in ctx and
// applies its linear adjustment, per spec §3.3.
func EvaluateDynamicValue(ctx *Context, dv *xtce.DynamicValue) (float64, error) {
	val, ok := ctx.Get(dv.ParameterRef)
	if !ok {
		return 0, newEvalError("evaluate_dynamic_value", "parameter %q not yet parsed", dv.ParameterRef)
	}
	x, err := numericValue(val, dv.UseCalibrated, dv.ParameterRef)
	if err != nil {
		return 0, err
	}
	return dv.Intercept + dv.Slope*x, nil
}

// EvaluateDiscreteLookup returns the value of the first matching case in
// dl, and false if none match.
func EvaluateDiscreteLookup(def *xtce.Definition, ctx *Context, dl *xtce.DiscreteLookupList) (float64, bool, error) {
	for _, c := range dl.Cases {
		ok, err := EvaluateMatch(def, ctx, c.Match)
		if err != nil {
			return 0, false, err
		}
		if ok {
			return c.Value, true, nil
		}
	}
	return 0, false, nil
}
