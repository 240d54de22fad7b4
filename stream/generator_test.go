package stream

import (
	"bytes"
	"io"
	"testing"

	"github.com/ausocean/xtceparse/xtce"
)

func buildSingleFieldDef(t *testing.T) *xtce.Definition {
	t.Helper()
	b := xtce.NewBuilder()
	if err := b.AddParameterType(&xtce.ParameterType{
		Name: "u32", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 32},
	}); err != nil {
		t.Fatalf("AddParameterType: %v", err)
	}
	if err := b.AddParameter(&xtce.Parameter{Name: "PAYLOAD", TypeName: "u32"}); err != nil {
		t.Fatalf("AddParameter: %v", err)
	}
	if err := b.AddContainer(&xtce.SequenceContainer{
		Name:    "Packet",
		Entries: []xtce.Entry{xtce.NewParameterEntry("PAYLOAD")},
	}); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	b.SetRoot("Packet")
	def, err := b.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return def
}

// packetBytes builds a single valid CCSDS packet: 6-byte header (APID
// and PKT_LEN set, everything else zero) plus a 4-byte PAYLOAD.
func packetBytes(apid uint16, payload uint32) []byte {
	pktLen := uint16(3) // 4-byte payload - 1
	h := []byte{
		byte(apid >> 8 & 0x07), byte(apid),
		0, 0,
		byte(pktLen >> 8), byte(pktLen),
	}
	p := []byte{byte(payload >> 24), byte(payload >> 16), byte(payload >> 8), byte(payload)}
	return append(h, p...)
}

func TestGeneratorReadsMultiplePackets(t *testing.T) {
	def := buildSingleFieldDef(t)
	var buf bytes.Buffer
	buf.Write(packetBytes(1, 0xAABBCCDD))
	buf.Write(packetBytes(2, 0x11223344))

	g, err := New(&buf, def, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	pp1, err := g.Next()
	if err != nil {
		t.Fatalf("Next (1): %v", err)
	}
	if pp1.Header.APID != 1 {
		t.Errorf("pp1.APID = %d, want 1", pp1.Header.APID)
	}

	pp2, err := g.Next()
	if err != nil {
		t.Fatalf("Next (2): %v", err)
	}
	if pp2.Header.APID != 2 {
		t.Errorf("pp2.APID = %d, want 2", pp2.Header.APID)
	}

	if _, err := g.Next(); err != io.EOF {
		t.Fatalf("Next (3) = %v, want io.EOF", err)
	}
}

// oneByteReader forces Next to drive io.ReadFull across many short
// underlying reads, covering invariant 4: output is invariant under
// arbitrary read chunking.
type oneByteReader struct {
	r io.Reader
}

func (o *oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestGeneratorInvariantUnderChunking(t *testing.T) {
	def := buildSingleFieldDef(t)
	raw := packetBytes(5, 0xDEADBEEF)

	g, err := New(&oneByteReader{r: bytes.NewReader(raw)}, def, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pp, err := g.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if pp.Header.APID != 5 {
		t.Errorf("APID = %d, want 5", pp.Header.APID)
	}
	payload, _ := pp.Context.Get("PAYLOAD")
	if payload.Raw.(uint64) != 0xDEADBEEF {
		t.Errorf("PAYLOAD = %#x, want 0xdeadbeef", payload.Raw)
	}
}

func buildAbstractDef(t *testing.T) *xtce.Definition {
	t.Helper()
	b := xtce.NewBuilder()
	if err := b.AddParameterType(&xtce.ParameterType{
		Name: "u16", Kind: xtce.KindInteger, Integer: &xtce.IntegerEncoding{Width: 11},
	}); err != nil {
		t.Fatalf("AddParameterType: %v", err)
	}
	if err := b.AddParameter(&xtce.Parameter{Name: "PKT_APID", TypeName: "u16"}); err != nil {
		t.Fatalf("AddParameter: %v", err)
	}
	if err := b.AddContainer(&xtce.SequenceContainer{Name: "Root", Abstract: true}); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	if err := b.AddContainer(&xtce.SequenceContainer{
		Name:                "ChildA",
		BaseContainer:       "Root",
		RestrictionCriteria: xtce.Comparison{ParameterRef: "PKT_APID", Op: xtce.OpEQ, Literal: "1424"},
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

// TestGeneratorSkipsUnrecognizedByDefault covers scenario S5's
// errors-disabled branch.
func TestGeneratorSkipsUnrecognizedByDefault(t *testing.T) {
	def := buildAbstractDef(t)
	raw := packetBytes(9999&0x7ff, 0)

	g, err := New(bytes.NewReader(raw), def, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := g.Next(); err != io.EOF {
		t.Fatalf("Next = %v, want io.EOF (unrecognized packet skipped silently)", err)
	}
}

// TestGeneratorYieldsUnrecognizedWhenConfigured covers scenario S5's
// errors-enabled branch.
func TestGeneratorYieldsUnrecognizedWhenConfigured(t *testing.T) {
	def := buildAbstractDef(t)
	raw := packetBytes(9999&0x7ff, 0)

	g, err := New(bytes.NewReader(raw), def, nil, WithYieldUnrecognizedErrors(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = g.Next()
	if err == nil {
		t.Fatal("expected an UnrecognizedError")
	}
}
