package evaluator

import (
	"testing"

	"github.com/ausocean/xtceparse/xtce"
)

func buildOneParamDef(t *testing.T, name, typeName string, pt *xtce.ParameterType) *xtce.Definition {
	t.Helper()
	b := xtce.NewBuilder()
	if pt != nil {
		if err := b.AddParameterType(pt); err != nil {
			t.Fatalf("AddParameterType: %v", err)
		}
	}
	if err := b.AddParameter(&xtce.Parameter{Name: name, TypeName: typeName}); err != nil {
		t.Fatalf("AddParameter: %v", err)
	}
	if err := b.AddContainer(&xtce.SequenceContainer{
		Name:    "Root",
		Entries: []xtce.Entry{xtce.NewParameterEntry(name)},
	}); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	b.SetRoot("Root")
	def, err := b.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return def
}

func TestEvaluateComparisonNotYetParsedIsError(t *testing.T) {
	def := buildOneParamDef(t, "TEMP", "u16", &xtce.ParameterType{
		Name: "u16", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 16},
	})
	ctx := NewContext()
	_, err := EvaluateMatch(def, ctx, xtce.Comparison{ParameterRef: "TEMP", Op: xtce.OpEQ, Literal: "5"})
	if err == nil {
		t.Fatal("expected an EvalError for a comparison against a not-yet-parsed parameter")
	}
	if _, ok := err.(*EvalError); !ok {
		t.Fatalf("got error of type %T, want *EvalError", err)
	}
}

func TestEvaluateComparisonNumeric(t *testing.T) {
	def := buildOneParamDef(t, "MODE", "u8", &xtce.ParameterType{
		Name: "u8", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 8},
	})
	ctx := NewContext()
	ctx.Set("MODE", Value{Raw: uint64(3)})

	ok, err := EvaluateMatch(def, ctx, xtce.Comparison{ParameterRef: "MODE", Op: xtce.OpEQ, Literal: "3"})
	if err != nil || !ok {
		t.Fatalf("got (%v, %v), want (true, nil)", ok, err)
	}
	ok, err = EvaluateMatch(def, ctx, xtce.Comparison{ParameterRef: "MODE", Op: xtce.OpGT, Literal: "10"})
	if err != nil || ok {
		t.Fatalf("got (%v, %v), want (false, nil)", ok, err)
	}
}

func TestEvaluateComparisonString(t *testing.T) {
	def := buildOneParamDef(t, "TAG", "str", &xtce.ParameterType{
		Name: "str", Kind: xtce.KindString,
		String: &xtce.StringEncoding{Length: xtce.StringLength{Kind: xtce.LengthFixed, FixedBits: 32}},
	})
	ctx := NewContext()
	ctx.Set("TAG", Value{Raw: "ABCD"})

	ok, err := EvaluateMatch(def, ctx, xtce.Comparison{ParameterRef: "TAG", Op: xtce.OpEQ, Literal: "ABCD"})
	if err != nil || !ok {
		t.Fatalf("got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestEvaluateComparisonList(t *testing.T) {
	def := buildOneParamDef(t, "A", "u8", &xtce.ParameterType{
		Name: "u8", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 8},
	})
	ctx := NewContext()
	ctx.Set("A", Value{Raw: uint64(5)})

	cl := xtce.ComparisonList{Comparisons: []xtce.Comparison{
		{ParameterRef: "A", Op: xtce.OpGE, Literal: "1"},
		{ParameterRef: "A", Op: xtce.OpLE, Literal: "10"},
	}}
	ok, err := EvaluateMatch(def, ctx, cl)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v), want (true, nil)", ok, err)
	}
}

func TestEvaluateDiscreteLookup(t *testing.T) {
	def := buildOneParamDef(t, "A", "u8", &xtce.ParameterType{
		Name: "u8", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 8},
	})
	ctx := NewContext()
	ctx.Set("A", Value{Raw: uint64(2)})

	dl := &xtce.DiscreteLookupList{Cases: []xtce.DiscreteLookupCase{
		{Match: xtce.Comparison{ParameterRef: "A", Op: xtce.OpEQ, Literal: "1"}, Value: 10},
		{Match: xtce.Comparison{ParameterRef: "A", Op: xtce.OpEQ, Literal: "2"}, Value: 20},
	}}
	v, ok, err := EvaluateDiscreteLookup(def, ctx, dl)
	if err != nil || !ok || v != 20 {
		t.Fatalf("got (%v, %v, %v), want (20, true, nil)", v, ok, err)
	}
}

func TestEvaluateDynamicValue(t *testing.T) {
	ctx := NewContext()
	ctx.Set("LEN_FIELD", Value{Raw: uint64(4)})
	dv := &xtce.DynamicValue{ParameterRef: "LEN_FIELD", Intercept: 8, Slope: 2}
	v, err := EvaluateDynamicValue(ctx, dv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 16 {
		t.Errorf("got %v, want 16", v)
	}
}

// TestCalibratePolynomialScenarioS6 reproduces spec scenario S6:
// calibrated = 1.0 + 2.0*10 + 0.5*100 = 71.0.
func TestCalibratePolynomialScenarioS6(t *testing.T) {
	cal := &xtce.PolynomialCalibrator{Coefficients: []float64{1.0, 2.0, 0.5}}
	v, ok, err := Calibrate(nil, nil, cal, 10)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v, %v)", v, ok, err)
	}
	if v != 71.0 {
		t.Errorf("got %v, want 71.0", v)
	}
}

// TestCalibratePolynomialConstant covers invariant 8.6: a constant
// polynomial (single coefficient) returns that constant regardless of x.
func TestCalibratePolynomialConstant(t *testing.T) {
	cal := &xtce.PolynomialCalibrator{Coefficients: []float64{42}}
	for _, x := range []float64{-100, 0, 100} {
		v, ok, err := Calibrate(nil, nil, cal, x)
		if err != nil || !ok || v != 42 {
			t.Errorf("x=%v: got (%v, %v, %v), want (42, true, nil)", x, v, ok, err)
		}
	}
}

func TestCalibrateSplineLinearInterior(t *testing.T) {
	cal := &xtce.SplineCalibrator{
		Points: []xtce.SplinePoint{{X: 0, Y: 0}, {X: 10, Y: 100}},
		Order:  xtce.SplineLinear,
	}
	v, ok, err := Calibrate(nil, nil, cal, 5)
	if err != nil || !ok {
		t.Fatalf("got (%v, %v, %v)", v, ok, err)
	}
	if v != 50 {
		t.Errorf("got %v, want 50", v)
	}
}

func TestCalibrateSplineClampExtrapolation(t *testing.T) {
	cal := &xtce.SplineCalibrator{
		Points:        []xtce.SplinePoint{{X: 0, Y: 0}, {X: 10, Y: 100}},
		Extrapolation: xtce.ExtrapolateClamp,
	}
	v, _, err := Calibrate(nil, nil, cal, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 100 {
		t.Errorf("got %v, want 100 (clamped)", v)
	}
}

func TestCalibrateSplineLinearExtrapolation(t *testing.T) {
	cal := &xtce.SplineCalibrator{
		Points:        []xtce.SplinePoint{{X: 0, Y: 0}, {X: 10, Y: 100}},
		Extrapolation: xtce.ExtrapolateLinear,
	}
	v, _, err := Calibrate(nil, nil, cal, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 200 {
		t.Errorf("got %v, want 200", v)
	}
}

func TestCalibrateContextFirstMatchWins(t *testing.T) {
	def := buildOneParamDef(t, "MODE", "u8", &xtce.ParameterType{
		Name: "u8", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 8},
	})
	ctx := NewContext()
	ctx.Set("MODE", Value{Raw: uint64(1)})

	cal := &xtce.ContextCalibrator{Cases: []xtce.ContextCase{
		{
			Match:      xtce.Comparison{ParameterRef: "MODE", Op: xtce.OpEQ, Literal: "1"},
			Calibrator: &xtce.PolynomialCalibrator{Coefficients: []float64{0, 1}},
		},
		{
			Match:      xtce.Comparison{ParameterRef: "MODE", Op: xtce.OpEQ, Literal: "2"},
			Calibrator: &xtce.PolynomialCalibrator{Coefficients: []float64{0, 2}},
		},
	}}
	v, ok, err := Calibrate(def, ctx, cal, 10)
	if err != nil || !ok || v != 10 {
		t.Fatalf("got (%v, %v, %v), want (10, true, nil)", v, ok, err)
	}
}

// TestCalibrateContextNoMatch covers invariant 8.7's sibling rule for
// calibrators: no matching case leaves the value uncalibrated, not an
// error.
func TestCalibrateContextNoMatch(t *testing.T) {
	def := buildOneParamDef(t, "MODE", "u8", &xtce.ParameterType{
		Name: "u8", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 8},
	})
	ctx := NewContext()
	ctx.Set("MODE", Value{Raw: uint64(9)})

	cal := &xtce.ContextCalibrator{Cases: []xtce.ContextCase{
		{Match: xtce.Comparison{ParameterRef: "MODE", Op: xtce.OpEQ, Literal: "1"},
			Calibrator: &xtce.PolynomialCalibrator{Coefficients: []float64{0, 1}}},
	}}
	_, ok, err := Calibrate(def, ctx, cal, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("got ok=true, want false when no ContextCalibrator case matches")
	}
}

// TestEnumeratedUnrecognizedValue covers invariant 8.7: a raw value with
// no matching label surfaces unrecognized, not an error.
func TestEnumeratedUnrecognizedValue(t *testing.T) {
	et := &xtce.EnumeratedType{
		Integer: &xtce.IntegerEncoding{Width: 8},
		Labels:  []xtce.EnumLabel{{Value: 0, Label: "OFF"}, {Value: 1, Label: "ON"}},
	}
	label, ok := et.Lookup(2)
	if ok {
		t.Errorf("got label %q, ok=true for unrecognized raw value 2", label)
	}
}
