/*
NAME
  output.go

DESCRIPTION
  output.go renders each ParsedPacket (or UnrecognizedError) as one
  JSON object per line, matching spec §6.2's output surface: a header
  view, a user_data view, and iteration order equal to declaration
  order in the definition.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"encoding/json"
	"io"

	"github.com/ausocean/xtceparse/ccsds"
	"github.com/ausocean/xtceparse/evaluator"
	"github.com/ausocean/xtceparse/packet"
)

type jsonValue struct {
	Raw          interface{} `json:"raw"`
	Calibrated   *float64    `json:"calibrated,omitempty"`
	Label        string      `json:"label,omitempty"`
	Unrecognized bool        `json:"unrecognized_enum,omitempty"`
	Unit         string      `json:"unit,omitempty"`
}

// namedJSONValue pairs a parameter name with its value. header/user_data
// are encoded as arrays of these, not maps, so that declaration order
// (encoding/json sorts map keys) survives onto the output surface.
type namedJSONValue struct {
	Name string `json:"name"`
	jsonValue
}

type jsonPacket struct {
	Header        []namedJSONValue `json:"header"`
	UserData      []namedJSONValue `json:"user_data"`
	LastContainer string           `json:"last_container"`
	TrailingBytes int              `json:"trailing_bytes"`
}

type jsonUnrecognized struct {
	Error         string           `json:"error"`
	LastContainer string           `json:"last_container"`
	Ambiguous     bool             `json:"ambiguous"`
	Partial       []namedJSONValue `json:"partial_context"`
}

type jsonWriter struct {
	enc *json.Encoder
}

func newJSONWriter(w io.Writer) *jsonWriter {
	return &jsonWriter{enc: json.NewEncoder(w)}
}

func (w *jsonWriter) writePacket(pp *packet.ParsedPacket) error {
	jp := jsonPacket{
		Header:        make([]namedJSONValue, 0, ccsds.FieldCount),
		UserData:      make([]namedJSONValue, 0, pp.Context.Len()),
		LastContainer: pp.LastContainer,
		TrailingBytes: pp.TrailingBytes,
	}
	headerSet := make(map[string]bool, ccsds.FieldCount)
	for _, name := range pp.HeaderNames {
		headerSet[name] = true
		if v, ok := pp.HeaderValue(name); ok {
			jp.Header = append(jp.Header, namedJSONValue{Name: name, jsonValue: toJSONValue(v)})
		}
	}
	for _, name := range pp.Context.Names() {
		if headerSet[name] {
			continue
		}
		v, _ := pp.Context.Get(name)
		jp.UserData = append(jp.UserData, namedJSONValue{Name: name, jsonValue: toJSONValue(v)})
	}
	return w.enc.Encode(jp)
}

func (w *jsonWriter) writeUnrecognized(uerr *packet.UnrecognizedError) error {
	ju := jsonUnrecognized{
		Error:         uerr.Error(),
		LastContainer: uerr.LastContainer,
		Ambiguous:     uerr.Ambiguous,
	}
	if uerr.Context != nil {
		ju.Partial = make([]namedJSONValue, 0, uerr.Context.Len())
		for _, name := range uerr.Context.Names() {
			v, _ := uerr.Context.Get(name)
			ju.Partial = append(ju.Partial, namedJSONValue{Name: name, jsonValue: toJSONValue(v)})
		}
	}
	return w.enc.Encode(ju)
}

func toJSONValue(v evaluator.Value) jsonValue {
	return jsonValue{
		Raw:          v.Raw,
		Calibrated:   v.Calibrated,
		Label:        v.Label,
		Unrecognized: v.Unrecognized,
		Unit:         v.Unit,
	}
}

func asUnrecognized(err error) (*packet.UnrecognizedError, bool) {
	uerr, ok := err.(*packet.UnrecognizedError)
	return uerr, ok
}
