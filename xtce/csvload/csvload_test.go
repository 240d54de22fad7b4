package csvload

import (
	"strings"
	"testing"
)

func TestLoadSinglePacket(t *testing.T) {
	csv := "packet_name,field_name,width_bits,type,signed,unit\n" +
		"Telemetry,VOLTAGE,16,uint,,volts\n" +
		"Telemetry,TEMP,8,int,true,celsius\n"

	def, err := Load(strings.NewReader(csv), nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if def.RootContainer() != "Telemetry" {
		t.Fatalf("RootContainer = %q, want Telemetry", def.RootContainer())
	}
	entries, err := def.OwnEntries("Telemetry")
	if err != nil {
		t.Fatalf("OwnEntries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "Telemetry.VOLTAGE" || entries[1].Name != "Telemetry.TEMP" {
		t.Errorf("entries = %+v, want VOLTAGE then TEMP in file order", entries)
	}

	pt, ok := def.ParameterType("Telemetry.TEMP.type")
	if !ok {
		t.Fatal("Telemetry.TEMP.type not found")
	}
	if pt.Integer.Width != 8 {
		t.Errorf("TEMP width = %d, want 8", pt.Integer.Width)
	}
	if pt.Unit != "celsius" {
		t.Errorf("TEMP unit = %q, want celsius", pt.Unit)
	}
}

func TestLoadRootColumnSelectsRoot(t *testing.T) {
	csv := "packet_name,field_name,width_bits,type,root\n" +
		"A,X,8,uint,false\n" +
		"B,Y,8,uint,true\n"

	def, err := Load(strings.NewReader(csv), nil, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if def.RootContainer() != "B" {
		t.Errorf("RootContainer = %q, want B", def.RootContainer())
	}
}

func TestLoadAliasRemapsHeader(t *testing.T) {
	csv := "pkt,fld,bits,kind\n" +
		"A,X,8,uint\n"
	aliases := Aliases{"pkt": colPacket, "fld": colField, "bits": colWidth, "kind": colType}

	def, err := Load(strings.NewReader(csv), aliases, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := def.Parameter("A.X"); !ok {
		t.Fatal("A.X not found")
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	csv := "packet_name,field_name,width_bits\n" +
		"A,X,8\n"
	if _, err := Load(strings.NewReader(csv), nil, nil); err == nil {
		t.Fatal("expected an error for missing type column")
	}
}

func TestLoadUnsupportedType(t *testing.T) {
	csv := "packet_name,field_name,width_bits,type\n" +
		"A,X,8,nibble\n"
	if _, err := Load(strings.NewReader(csv), nil, nil); err == nil {
		t.Fatal("expected an error for unsupported type")
	}
}
