package packet

import (
	"testing"

	"github.com/ausocean/xtceparse/xtce"
)

// encodeHeader packs the seven CCSDS primary-header fields into their
// canonical 6-byte, big-endian, bit-packed wire form.
func encodeHeader(version, typ, secHdr, apid, seqFlags, seqCount, pktLen uint64) []byte {
	var v uint64
	v |= (version & 0x7) << 45
	v |= (typ & 0x1) << 44
	v |= (secHdr & 0x1) << 43
	v |= (apid & 0x7ff) << 32
	v |= (seqFlags & 0x3) << 30
	v |= (seqCount & 0x3fff) << 16
	v |= pktLen & 0xffff
	out := make([]byte, 6)
	for i := 5; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}

func u16Type(name string) *xtce.ParameterType {
	return &xtce.ParameterType{Name: name, Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 11}}
}

// TestParseScenarioS1 reproduces spec scenario S1: a single fixed
// packet with an 8-byte payload following the primary header.
func TestParseScenarioS1(t *testing.T) {
	b := xtce.NewBuilder()
	mustAdd(t, b.AddParameterType(&xtce.ParameterType{
		Name: "u64", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 64},
	}))
	mustAdd(t, b.AddParameter(&xtce.Parameter{Name: "PAYLOAD", TypeName: "u64"}))
	mustAdd(t, b.AddContainer(&xtce.SequenceContainer{
		Name:    "Packet",
		Entries: []xtce.Entry{xtce.NewParameterEntry("PAYLOAD")},
	}))
	b.SetRoot("Packet")
	def, err := b.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	buf := []byte{0x08, 0x64, 0xC0, 0x00, 0x00, 0x07, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	pp, err := Parse(def, buf, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if pp.Header.APID != 100 {
		t.Errorf("APID = %d, want 100", pp.Header.APID)
	}
	if pp.Header.PacketLen != 7 {
		t.Errorf("PacketLen = %d, want 7", pp.Header.PacketLen)
	}
	if pp.Header.TotalBytes() != 14 {
		t.Errorf("TotalBytes = %d, want 14", pp.Header.TotalBytes())
	}
	payload, ok := pp.Context.Get("PAYLOAD")
	if !ok {
		t.Fatal("PAYLOAD missing from context")
	}
	if payload.Raw.(uint64) != 0x0102030405060708 {
		t.Errorf("PAYLOAD = %#x, want 0x0102030405060708", payload.Raw)
	}
	if pp.TrailingBytes != 0 {
		t.Errorf("TrailingBytes = %d, want 0", pp.TrailingBytes)
	}
}

func buildPolymorphicDef(t *testing.T) *xtce.Definition {
	t.Helper()
	b := xtce.NewBuilder()
	mustAdd(t, b.AddParameterType(u16Type("u16")))
	mustAdd(t, b.AddParameter(&xtce.Parameter{Name: "PKT_APID", TypeName: "u16"}))
	mustAdd(t, b.AddContainer(&xtce.SequenceContainer{Name: "Root", Abstract: true}))
	mustAdd(t, b.AddContainer(&xtce.SequenceContainer{
		Name:                "ChildA",
		BaseContainer:       "Root",
		RestrictionCriteria: xtce.Comparison{ParameterRef: "PKT_APID", Op: xtce.OpEQ, Literal: "1424"},
	}))
	mustAdd(t, b.AddContainer(&xtce.SequenceContainer{
		Name:                "ChildB",
		BaseContainer:       "Root",
		RestrictionCriteria: xtce.Comparison{ParameterRef: "PKT_APID", Op: xtce.OpEQ, Literal: "1425"},
	}))
	b.SetRoot("Root")
	def, err := b.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return def
}

// TestParseScenarioS4 reproduces spec scenario S4: an abstract root with
// two restriction-criteria-selected children.
func TestParseScenarioS4(t *testing.T) {
	def := buildPolymorphicDef(t)

	bufA := encodeHeader(0, 0, 0, 1424, 0, 0, 0)
	ppA, err := Parse(def, bufA, Options{})
	if err != nil {
		t.Fatalf("Parse(apid=1424): %v", err)
	}
	if ppA.LastContainer != "ChildA" {
		t.Errorf("LastContainer = %q, want ChildA", ppA.LastContainer)
	}

	bufB := encodeHeader(0, 0, 0, 1425, 0, 0, 0)
	ppB, err := Parse(def, bufB, Options{})
	if err != nil {
		t.Fatalf("Parse(apid=1425): %v", err)
	}
	if ppB.LastContainer != "ChildB" {
		t.Errorf("LastContainer = %q, want ChildB", ppB.LastContainer)
	}
}

// TestParseScenarioS5 reproduces spec scenario S5: an APID matching no
// child's restriction criteria yields an UnrecognizedError whose partial
// context carries all seven header fields.
func TestParseScenarioS5(t *testing.T) {
	def := buildPolymorphicDef(t)

	buf := encodeHeader(0, 0, 0, 9999&0x7ff, 0, 0, 0)
	_, err := Parse(def, buf, Options{})
	if err == nil {
		t.Fatal("expected an UnrecognizedError")
	}
	uerr, ok := err.(*UnrecognizedError)
	if !ok {
		t.Fatalf("got error of type %T, want *UnrecognizedError", err)
	}
	if uerr.Ambiguous {
		t.Error("Ambiguous = true, want false (zero matches, not multiple)")
	}
	if uerr.Context.Len() != 7 {
		t.Errorf("partial context has %d entries, want 7 (header fields only)", uerr.Context.Len())
	}
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
