/*
NAME
  decode.go

DESCRIPTION
  decode.go decodes one parameter's raw bits off a bitstream.Cursor and
  applies its calibrator, per spec §4.1–§4.3.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package packet

import (
	"bytes"
	"fmt"

	"github.com/ausocean/xtceparse/bitstream"
	"github.com/ausocean/xtceparse/evaluator"
	"github.com/ausocean/xtceparse/xtce"
)

// decodeParameter reads name's value off c, applies its calibrator (if
// any), and inserts the result into ctx.
func decodeParameter(def *xtce.Definition, ctx *evaluator.Context, c *bitstream.Cursor, name string) error {
	p, ok := def.Parameter(name)
	if !ok {
		return fmt.Errorf("packet: entry references undefined parameter %q", name)
	}
	pt, ok := def.ParameterType(p.TypeName)
	if !ok {
		return fmt.Errorf("packet: parameter %q references undefined type %q", name, p.TypeName)
	}

	val := evaluator.Value{Unit: pt.Unit}

	switch pt.Kind {
	case xtce.KindInteger:
		raw, err := readInteger(c, pt.Integer)
		if err != nil {
			return err
		}
		val.Raw = raw
		if err := applyCalibrator(def, ctx, pt, raw, &val); err != nil {
			return err
		}

	case xtce.KindFloat:
		raw, err := c.ReadFloatOrder(pt.Float.Width, pt.Float.ByteOrder)
		if err != nil {
			return err
		}
		val.Raw = raw
		if err := applyCalibrator(def, ctx, pt, raw, &val); err != nil {
			return err
		}

	case xtce.KindEnumerated:
		raw, err := readInteger(c, pt.Enumerated.Integer)
		if err != nil {
			return err
		}
		val.Raw = raw
		rawI, err := evaluator.ToFloat(raw)
		if err != nil {
			return err
		}
		label, found := pt.Enumerated.Lookup(int64(rawI))
		val.Label = label
		val.Unrecognized = !found

	case xtce.KindString:
		s, err := decodeString(c, ctx, pt.String)
		if err != nil {
			return err
		}
		val.Raw = s

	case xtce.KindBinary:
		b, err := decodeBinary(c, ctx, pt.Binary)
		if err != nil {
			return err
		}
		val.Raw = b

	case xtce.KindBoolean:
		bit, err := c.ReadUint(1)
		if err != nil {
			return err
		}
		val.Raw = bit != 0

	case xtce.KindAbsoluteTime, xtce.KindRelativeTime:
		raw, err := readTime(c, pt.Time)
		if err != nil {
			return err
		}
		val.Raw = raw
		scale := pt.Time.ScaleUnit
		if scale == 0 {
			scale = 1
		}
		calibrated := raw * scale
		if pt.Calibrator != nil {
			var ok bool
			calibrated, ok, err = evaluator.Calibrate(def, ctx, pt.Calibrator, calibrated)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
		}
		val.Calibrated = &calibrated

	default:
		return fmt.Errorf("packet: parameter type %q has unknown kind %v", pt.Name, pt.Kind)
	}

	ctx.Set(name, val)
	return nil
}

// readInteger reads enc's bit width and returns uint64 for unsigned
// encodings or int64 otherwise, matching the representations documented
// on evaluator.Value.Raw.
func readInteger(c *bitstream.Cursor, enc *xtce.IntegerEncoding) (interface{}, error) {
	if enc.Signedness == bitstream.Unsigned {
		return c.ReadUintOrder(enc.Width, enc.ByteOrder)
	}
	return c.ReadIntOrder(enc.Width, enc.Signedness, enc.ByteOrder)
}

func readTime(c *bitstream.Cursor, enc *xtce.TimeEncoding) (float64, error) {
	switch {
	case enc.Integer != nil:
		raw, err := readInteger(c, enc.Integer)
		if err != nil {
			return 0, err
		}
		return evaluator.ToFloat(raw)
	case enc.Float != nil:
		return c.ReadFloatOrder(enc.Float.Width, enc.Float.ByteOrder)
	default:
		return 0, fmt.Errorf("packet: time encoding has no underlying numeric encoding")
	}
}

// applyCalibrator calibrates raw (coerced to float64) through pt's
// calibrator, if any, recording the result on val.
func applyCalibrator(def *xtce.Definition, ctx *evaluator.Context, pt *xtce.ParameterType, raw interface{}, val *evaluator.Value) error {
	if pt.Calibrator == nil {
		return nil
	}
	rawF, err := evaluator.ToFloat(raw)
	if err != nil {
		return err
	}
	calibrated, ok, err := evaluator.Calibrate(def, ctx, pt.Calibrator, rawF)
	if err != nil {
		return err
	}
	if ok {
		val.Calibrated = &calibrated
	}
	return nil
}

// decodeString resolves enc's length policy and decodes the resulting
// bytes as a string.
func decodeString(c *bitstream.Cursor, ctx *evaluator.Context, enc *xtce.StringEncoding) (string, error) {
	switch enc.Length.Kind {
	case xtce.LengthFixed:
		return c.ReadString(enc.Length.FixedBits, enc.Charset)

	case xtce.LengthTermination:
		remaining, err := c.RemainingBytes()
		if err != nil {
			return "", err
		}
		term := enc.Length.Terminator
		step := len(term)
		if step == 0 {
			step = 1
		}
		idx := -1
		for i := 0; i+len(term) <= len(remaining); i += step {
			if bytes.Equal(remaining[i:i+len(term)], term) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return "", &bitstream.ReadError{Op: "read_string_termination", Pos: c.Position(), Requested: len(remaining) * 8, BufferBits: c.Len()}
		}
		s, err := c.ReadString(idx*8, enc.Charset)
		if err != nil {
			return "", err
		}
		if err := c.Skip(len(term) * 8); err != nil {
			return "", err
		}
		return s, nil

	case xtce.LengthPrefix:
		var lengthBytes float64
		var err error
		if enc.Length.PrefixBits > 0 {
			v, rerr := c.ReadUint(enc.Length.PrefixBits)
			if rerr != nil {
				return "", rerr
			}
			lengthBytes = float64(v)
		} else {
			lengthBytes, err = evaluator.EvaluateDynamicValue(ctx, &xtce.DynamicValue{ParameterRef: enc.Length.PrefixRef, Slope: 1})
			if err != nil {
				return "", err
			}
		}
		return c.ReadString(int(lengthBytes)*8, enc.Charset)

	case xtce.LengthDynamic:
		bits, err := evaluator.EvaluateDynamicValue(ctx, &xtce.DynamicValue{
			ParameterRef: enc.Length.DynamicRef,
			Intercept:    enc.Length.Intercept,
			Slope:        enc.Length.Slope,
		})
		if err != nil {
			return "", err
		}
		return c.ReadString(int(bits), enc.Charset)

	default:
		return "", fmt.Errorf("packet: unknown string length policy %d", enc.Length.Kind)
	}
}

// decodeBinary resolves enc's size and reads the resulting raw bytes.
func decodeBinary(c *bitstream.Cursor, ctx *evaluator.Context, enc *xtce.BinaryEncoding) ([]byte, error) {
	var nbits int
	switch {
	case enc.Size.Fixed != nil:
		nbits = *enc.Size.Fixed
	case enc.Size.Dynamic != nil:
		bits, err := evaluator.EvaluateDynamicValue(ctx, enc.Size.Dynamic)
		if err != nil {
			return nil, err
		}
		nbits = int(bits)
	default:
		return nil, fmt.Errorf("packet: binary encoding declares neither a fixed nor a dynamic size")
	}
	return c.ReadBytes(nbits)
}
