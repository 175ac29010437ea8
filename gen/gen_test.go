package gen

import "testing"

func TestBits(t *testing.T) {
	got := Bits(0xA5C, 12)
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTribitShape(t *testing.T) {
	durs := Tribit(9000, []byte{1, 0}, 620, 1240, 11000)
	want := []uint16{9000, 1240, 620, 620, 1240, 620, 11000}
	if len(durs) != len(want) {
		t.Fatalf("got %v, want %v", durs, want)
	}
	for i := range want {
		if durs[i] != want[i] {
			t.Fatalf("got %v, want %v", durs, want)
		}
	}
}

func TestManchesterMergesRuns(t *testing.T) {
	// lead (0,1) then bit 1 (1,0): the two adjacent high halves merge,
	// and the trailing low half keeps the separator on its own edge.
	durs := Manchester(5000, []byte{1}, 400, 6000)
	want := []uint16{5000, 400, 800, 400, 6000}
	if len(durs) != len(want) {
		t.Fatalf("got %v, want %v", durs, want)
	}
	for i := range want {
		if durs[i] != want[i] {
			t.Fatalf("got %v, want %v", durs, want)
		}
	}
}

func TestManchesterTrailingHighMergesIntoSep(t *testing.T) {
	// lead (0,1) then bit 0 (0,1): the final high half is absorbed by
	// the separator.
	durs := Manchester(5000, []byte{0}, 400, 6000)
	want := []uint16{5000, 400, 400, 400, 400 + 6000}
	if len(durs) != len(want) {
		t.Fatalf("got %v, want %v", durs, want)
	}
	for i := range want {
		if durs[i] != want[i] {
			t.Fatalf("got %v, want %v", durs, want)
		}
	}
}
