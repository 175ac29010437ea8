package bits

import (
	"testing"
)

func TestRoundTrip(t *testing.T) {
	// Prepending b0..bn-1 then reading NthBit(i) must return b(n-1-i).
	in := []byte{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0}

	v := &Vector{}
	for _, b := range in {
		v.AddBit(b)
	}

	if v.NbBits() != len(in) {
		t.Fatalf("NbBits: got %d, want %d", v.NbBits(), len(in))
	}
	for i := 0; i < len(in); i++ {
		want := in[len(in)-1-i]
		if got := v.NthBit(i); got != want {
			t.Fatalf("NthBit(%d): got %d, want %d", i, got, want)
		}
	}
}

func TestBytesAndString(t *testing.T) {
	// 0xA5C fed most-significant bit first.
	in := []byte{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0}

	v := &Vector{}
	for _, b := range in {
		v.AddBit(b)
	}

	if v.NbBytes() != 2 {
		t.Fatalf("NbBytes: got %d, want 2", v.NbBytes())
	}
	if b0, b1 := v.NthByte(0), v.NthByte(1); b0 != 0x5c || b1 != 0x0a {
		t.Fatalf("bytes: got %02x %02x, want 5c 0a", b0, b1)
	}
	if got := v.String(); got != "0a 5c" {
		t.Fatalf("String: got %q, want %q", got, "0a 5c")
	}

	raw := v.Bytes()
	if len(raw) != 2 || raw[0] != 0x5c || raw[1] != 0x0a {
		t.Fatalf("Bytes: got %x", raw)
	}
}

func TestEmpty(t *testing.T) {
	v := &Vector{}
	if v.NbBits() != 0 || v.NbBytes() != 0 {
		t.Fatalf("empty vector reports %d bits, %d bytes", v.NbBits(), v.NbBytes())
	}
	if v.String() != "" {
		t.Fatalf("empty vector renders %q", v.String())
	}
}

func TestNormalization(t *testing.T) {
	v := &Vector{}
	v.AddBit(42)
	if v.NthBit(0) != 1 {
		t.Fatal("non-zero bit value not normalized to 1")
	}
}

func TestGrowth(t *testing.T) {
	v := &Vector{}
	for i := 0; i < 200; i++ {
		v.AddBit(byte(i & 1))
	}
	if v.NbBits() != 200 {
		t.Fatalf("NbBits: got %d, want 200", v.NbBits())
	}
	// The oldest bit (first added, i=0 -> 0) sits at the top.
	if v.NthBit(199) != 0 {
		t.Fatal("oldest bit lost during growth")
	}
	if v.NthBit(0) != 1 {
		t.Fatal("newest bit wrong after growth")
	}
}

func fromBits(in []byte) *Vector {
	v := &Vector{}
	for _, b := range in {
		v.AddBit(b)
	}
	return v
}

func TestCmp(t *testing.T) {
	for _, tc := range []struct {
		a, b []byte
		want int
	}{
		{[]byte{1, 0, 1}, []byte{1, 0, 1}, 0},
		{[]byte{1, 0, 1, 0}, []byte{1, 0, 1}, 1},
		{[]byte{1, 0}, []byte{1, 0, 1}, -1},
		{[]byte{1, 1, 0}, []byte{1, 0, 1}, 1},
		{[]byte{0, 1, 1}, []byte{1, 0, 0}, -1},
	} {
		got := fromBits(tc.a).Cmp(fromBits(tc.b))
		if got != tc.want {
			t.Errorf("Cmp(%v, %v): got %d, want %d", tc.a, tc.b, got, tc.want)
		}
		back := fromBits(tc.b).Cmp(fromBits(tc.a))
		if back != -tc.want {
			t.Errorf("Cmp(%v, %v): got %d, want %d (antisymmetry)", tc.b, tc.a, back, -tc.want)
		}
	}
}
