package bitstream

import (
	"testing"
)

func TestReadUintAligned(t *testing.T) {
	c := New([]byte{0x08, 0x64})
	v, err := c.ReadUint(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x0864 {
		t.Errorf("got %#x, want %#x", v, 0x0864)
	}
	if c.Position() != 16 {
		t.Errorf("got position %d, want 16", c.Position())
	}
}

func TestReadUintUnaligned(t *testing.T) {
	// 1000 1111, 1110 0011
	c := New([]byte{0x8f, 0xe3})
	cases := []struct {
		n    int
		want uint64
	}{
		{4, 0x8},
		{2, 0x3},
		{4, 0xf},
		{6, 0x23},
	}
	for i, tc := range cases {
		got, err := c.ReadUint(tc.n)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if got != tc.want {
			t.Errorf("case %d: got %#x, want %#x", i, got, tc.want)
		}
	}
}

func TestReadUintPastEnd(t *testing.T) {
	c := New([]byte{0x00})
	if _, err := c.ReadUint(9); err == nil {
		t.Fatal("expected error reading past end of buffer")
	}
}

func TestReadIntSignedness(t *testing.T) {
	tests := []struct {
		name       string
		raw        byte
		signedness Signedness
		want       int64
	}{
		{"unsigned", 0xff, Unsigned, 255},
		{"twos-complement-negative", 0xff, TwosComplement, -1},
		{"twos-complement-positive", 0x7f, TwosComplement, 127},
		{"ones-complement-negative", 0xff, OnesComplement, 0},
		{"ones-complement-negative2", 0xfe, OnesComplement, -1},
		{"sign-magnitude-negative", 0x81, SignMagnitude, -1},
		{"sign-magnitude-positive", 0x01, SignMagnitude, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := New([]byte{tc.raw})
			got, err := c.ReadInt(8, tc.signedness)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestReadBytesFastPath(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04}
	c := New(buf)
	got, err := c.ReadBytes(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 || got[0] != 1 || got[3] != 4 {
		t.Errorf("got %v, want %v", got, buf)
	}
	// Mutating the returned slice must not alter the cursor's buffer.
	got[0] = 0xff
	if buf[0] != 0x01 {
		t.Error("ReadBytes fast path did not copy the backing buffer")
	}
}

func TestReadBytesUnalignedPadding(t *testing.T) {
	// 0b1010_1111, 0b0000_0000 -> read 4 bits (0b1010) then 5 bits
	// (0b1111 0) padded.
	c := New([]byte{0xaf, 0x00})
	if _, err := c.ReadUint(4); err != nil {
		t.Fatal(err)
	}
	got, err := c.ReadBytes(5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d bytes, want 1", len(got))
	}
	if got[0] != 0xf0 {
		t.Errorf("got %#x, want %#x (0b1111 left-shifted into the byte)", got[0], 0xf0)
	}
}

func TestReadUintLSBFirst(t *testing.T) {
	c := New([]byte{0x01, 0x02})
	v, err := c.ReadUintOrder(16, LSBFirst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x0201 {
		t.Errorf("got %#x, want %#x", v, 0x0201)
	}
}

func TestReadFloat32(t *testing.T) {
	// 1.5 in IEEE-754 binary32 is 0x3FC00000.
	c := New([]byte{0x3f, 0xc0, 0x00, 0x00})
	v, err := c.ReadFloat(32)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1.5 {
		t.Errorf("got %v, want 1.5", v)
	}
}

func TestReadFloat16(t *testing.T) {
	// 1.5 in IEEE-754 binary16 is 0x3E00.
	c := New([]byte{0x3e, 0x00})
	v, err := c.ReadFloat(16)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1.5 {
		t.Errorf("got %v, want 1.5", v)
	}
}

func TestReadStringUTF8(t *testing.T) {
	c := New([]byte("hi"))
	s, err := c.ReadString(16, UTF8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "hi" {
		t.Errorf("got %q, want %q", s, "hi")
	}
}

func TestReadStringUTF16BE(t *testing.T) {
	// "A" = U+0041
	c := New([]byte{0x00, 0x41})
	s, err := c.ReadString(16, UTF16BE)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "A" {
		t.Errorf("got %q, want %q", s, "A")
	}
}

func TestSkipAndRemaining(t *testing.T) {
	c := New([]byte{0x00, 0x00})
	if c.Remaining() != 16 {
		t.Fatalf("got %d, want 16", c.Remaining())
	}
	if err := c.Skip(4); err != nil {
		t.Fatal(err)
	}
	if c.Remaining() != 12 {
		t.Errorf("got %d, want 12", c.Remaining())
	}
	if err := c.Skip(100); err == nil {
		t.Error("expected error skipping past end of buffer")
	}
}

func TestRemainingBytesRequiresAlignment(t *testing.T) {
	c := New([]byte{0xff, 0xff})
	if err := c.Skip(3); err != nil {
		t.Fatal(err)
	}
	if _, err := c.RemainingBytes(); err == nil {
		t.Error("expected error calling RemainingBytes at an unaligned position")
	}
}
