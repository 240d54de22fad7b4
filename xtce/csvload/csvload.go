/*
NAME
  csvload.go

DESCRIPTION
  csvload.go builds an xtce.Definition from a flat CSV document, per
  spec §6.1's CSV adapter: one row per field, no inheritance, no
  dynamic length. Each distinct packet_name in the file becomes one
  concrete SequenceContainer; rows are consumed in file order as that
  container's entry list.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package csvload loads an xtce.Definition from a flat CSV field list:
// the CSV adapter of spec §6.1, component G. It trades the XML loader's
// inheritance, restriction criteria and dynamic lengths for a format a
// spreadsheet can produce directly — one row per field.
package csvload

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/xtceparse/bitstream"
	"github.com/ausocean/xtceparse/xtce"
)

// Header column names, in any order; extra columns are ignored.
const (
	colPacket    = "packet_name"
	colField     = "field_name"
	colWidth     = "width_bits"
	colType      = "type"
	colSigned    = "signed"     // optional; "true"/"false", default "true" for type=int
	colByteOrder = "byte_order" // optional; "msb"/"lsb", default "msb"
	colUnit      = "unit"       // optional
	colRoot      = "root"       // optional; "true" marks this row's packet as the Definition root
)

// Aliases maps a CSV header name a source tool actually produced to the
// canonical column name csvload expects, per SPEC_FULL's "CSV field
// aliasing" supplement. A nil or empty Aliases leaves headers as-is.
type Aliases map[string]string

// LoadAliases reads a sibling YAML file of {csv_header: column_name}
// pairs, where column_name is one of the column names Load expects
// (packet_name, field_name, width_bits, ...). An empty document is not
// an error; it is equivalent to no aliasing.
func LoadAliases(r io.Reader) (Aliases, error) {
	var a Aliases
	if err := yaml.NewDecoder(r).Decode(&a); err != nil {
		if err == io.EOF {
			return Aliases{}, nil
		}
		return nil, errors.Wrap(err, "csvload: decode aliases file")
	}
	return a, nil
}

// Load parses a CSV document from r and builds the resulting
// xtce.Definition. aliases may be nil. log may be nil to discard
// definition-time warnings.
func Load(r io.Reader, aliases Aliases, log logging.Logger) (*xtce.Definition, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "csvload: read header row")
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if canon, ok := aliases[h]; ok {
			h = canon
		}
		col[h] = i
	}
	for _, want := range []string{colPacket, colField, colWidth, colType} {
		if _, ok := col[want]; !ok {
			return nil, errors.Errorf("csvload: missing required column %q", want)
		}
	}

	b := xtce.NewBuilder()

	var packetOrder []string
	entries := make(map[string][]xtce.Entry)
	root := ""

	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "csvload: row %d", rowNum)
		}
		rowNum++

		packet := get(row, col, colPacket)
		field := get(row, col, colField)
		if packet == "" || field == "" {
			return nil, errors.Errorf("csvload: row %d: packet_name and field_name are required", rowNum)
		}

		pt, err := parameterTypeFromRow(row, col, packet, field)
		if err != nil {
			return nil, errors.Wrapf(err, "csvload: row %d", rowNum)
		}
		if err := b.AddParameterType(pt); err != nil {
			return nil, errors.Wrapf(err, "csvload: row %d", rowNum)
		}
		paramName := packet + "." + field
		if err := b.AddParameter(&xtce.Parameter{Name: paramName, TypeName: pt.Name}); err != nil {
			return nil, errors.Wrapf(err, "csvload: row %d", rowNum)
		}

		if _, seen := entries[packet]; !seen {
			packetOrder = append(packetOrder, packet)
		}
		entries[packet] = append(entries[packet], xtce.NewParameterEntry(paramName))

		if strings.EqualFold(get(row, col, colRoot), "true") {
			root = packet
		}
	}

	if len(packetOrder) == 0 {
		return nil, errors.New("csvload: no data rows")
	}
	if root == "" {
		root = packetOrder[0]
		if len(packetOrder) > 1 && log != nil {
			log.Warning("csvload: no row marked root=true, defaulting to first packet", "packet", root)
		}
	}

	for _, name := range packetOrder {
		if err := b.AddContainer(&xtce.SequenceContainer{Name: name, Entries: entries[name]}); err != nil {
			return nil, errors.Wrapf(err, "csvload: container %q", name)
		}
	}
	b.SetRoot(root)

	return b.Build(log)
}

func get(row []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parameterTypeFromRow(row []string, col map[string]int, packet, field string) (*xtce.ParameterType, error) {
	width, err := strconv.Atoi(get(row, col, colWidth))
	if err != nil {
		return nil, errors.Wrapf(err, "width_bits %q", get(row, col, colWidth))
	}

	order := bitstream.MSBFirst
	if strings.EqualFold(get(row, col, colByteOrder), "lsb") {
		order = bitstream.LSBFirst
	}

	typeName := packet + "." + field + ".type"
	kind := strings.ToLower(get(row, col, colType))
	unit := get(row, col, colUnit)

	switch kind {
	case "uint", "":
		return &xtce.ParameterType{
			Name: typeName, Kind: xtce.KindInteger, Unit: unit,
			Integer: &xtce.IntegerEncoding{Width: width, Signedness: bitstream.Unsigned, ByteOrder: order},
		}, nil
	case "int":
		signed := bitstream.TwosComplement
		if strings.EqualFold(get(row, col, colSigned), "false") {
			signed = bitstream.Unsigned
		}
		return &xtce.ParameterType{
			Name: typeName, Kind: xtce.KindInteger, Unit: unit,
			Integer: &xtce.IntegerEncoding{Width: width, Signedness: signed, ByteOrder: order},
		}, nil
	case "float":
		return &xtce.ParameterType{
			Name: typeName, Kind: xtce.KindFloat, Unit: unit,
			Float: &xtce.FloatEncoding{Width: width, ByteOrder: order},
		}, nil
	case "bool", "boolean":
		return &xtce.ParameterType{Name: typeName, Kind: xtce.KindBoolean, Boolean: &xtce.BooleanType{}}, nil
	case "string":
		return &xtce.ParameterType{
			Name: typeName, Kind: xtce.KindString,
			String: &xtce.StringEncoding{Charset: bitstream.UTF8, Length: xtce.StringLength{Kind: xtce.LengthFixed, FixedBits: width}},
		}, nil
	case "binary":
		fixed := width
		return &xtce.ParameterType{
			Name: typeName, Kind: xtce.KindBinary,
			Binary: &xtce.BinaryEncoding{Size: xtce.BinarySize{Fixed: &fixed}},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported type %q", kind)
	}
}
