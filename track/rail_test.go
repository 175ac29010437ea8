package track

import "testing"

func newTestRail(mood Mood) *rail {
	r := &rail{mood: mood}
	r.reset()
	return r
}

func TestRailLearnsBothBands(t *testing.T) {
	r := newTestRail(MoodLaxist)

	if !r.eat(620) {
		t.Fatal("first duration closed the rail")
	}
	if r.bandCount() != 1 {
		t.Fatalf("band count after one sample: %d", r.bandCount())
	}

	if !r.eat(1240) {
		t.Fatal("second duration closed the rail")
	}
	if r.bandCount() != 2 {
		t.Fatalf("band count after split: %d", r.bandCount())
	}

	// Boundaries after the split: short floor at 5/8 of mid, laxist
	// interior boundary at the midpoint, long ceiling at 13/8 of mid.
	if r.bShort.Inf != 387 {
		t.Fatalf("short inf: got %d, want 387", r.bShort.Inf)
	}
	if r.bShort.Sup != 930 || r.bLong.Inf != 931 {
		t.Fatalf("interior boundary: got %d/%d, want 930/931", r.bShort.Sup, r.bLong.Inf)
	}
	if r.bLong.Sup != 2015 {
		t.Fatalf("long sup: got %d, want 2015", r.bLong.Sup)
	}

	// 620 then 1240: bits 0 then 1.
	if r.rec != 0x1 || r.index != 2 {
		t.Fatalf("rec=%04x index=%d, want rec=0001 index=2", r.rec, r.index)
	}
}

func TestRailStrictKeepsWindows(t *testing.T) {
	r := newTestRail(MoodStrict)

	r.eat(620)
	r.eat(1240)

	// Strict mood: no interior widening, only the short floor and long
	// ceiling move.
	if r.bShort.Sup != 775 {
		t.Fatalf("short sup: got %d, want 775", r.bShort.Sup)
	}
	if r.bLong.Inf != 930 {
		t.Fatalf("long inf: got %d, want 930", r.bLong.Inf)
	}
}

func TestRailRetroactiveFlip(t *testing.T) {
	// Three long durations arrive before the short band is discovered:
	// the tentative zeros must flip to ones.
	r := newTestRail(MoodLaxist)

	for i := 0; i < 3; i++ {
		if !r.eat(1240) {
			t.Fatal("rail closed early")
		}
	}
	if r.rec != 0 || r.index != 3 {
		t.Fatalf("rec=%04x index=%d before flip", r.rec, r.index)
	}

	if !r.eat(620) {
		t.Fatal("rail closed on split")
	}
	// Three flipped ones, then the short itself as zero.
	if r.rec != 0xe || r.index != 4 {
		t.Fatalf("rec=%04x index=%d, want rec=000e index=4", r.rec, r.index)
	}
}

func TestRailRejectsDistortedSplit(t *testing.T) {
	r := newTestRail(MoodLaxist)

	r.eat(620)
	// 3000 is more than four times 620: not a credible long. It is
	// however big enough to read as a separator.
	if r.eat(3000) {
		t.Fatal("rail stayed open")
	}
	if r.status != railStopRcvd {
		t.Fatalf("status: got %d, want stop received", r.status)
	}
	if r.bandCount() != 1 {
		t.Fatalf("band count: got %d, want 1", r.bandCount())
	}
}

func TestRailSeparator(t *testing.T) {
	r := newTestRail(MoodLaxist)

	r.eat(620)
	r.eat(1240)
	if r.eat(11000) {
		t.Fatal("separator left the rail open")
	}
	if r.status != railStopRcvd {
		t.Fatalf("status: got %d, want stop received", r.status)
	}
	if r.bSep.Mid != 11000 {
		t.Fatalf("separator band mid: got %d", r.bSep.Mid)
	}
}

func TestRailError(t *testing.T) {
	r := newTestRail(MoodLaxist)

	r.eat(620)
	r.eat(1240)
	// 2100 escapes both bands but is not twice the long band: neither a
	// bit nor a separator.
	if r.eat(2100) {
		t.Fatal("unclassifiable duration left the rail open")
	}
	if r.status != railError {
		t.Fatalf("status: got %d, want error", r.status)
	}
}

func TestRailOutOfRangeFirst(t *testing.T) {
	r := newTestRail(MoodLaxist)
	if r.eat(BandMinD - 1) {
		t.Fatal("rail stayed open")
	}
	if r.status != railError {
		t.Fatalf("status: got %d, want error", r.status)
	}
}

func TestRailFull(t *testing.T) {
	r := newTestRail(MoodLaxist)

	for i := 0; i < BitsPerRecord; i++ {
		d := uint16(620)
		if i&1 == 1 {
			d = 1240
		}
		open := r.eat(d)
		if i < BitsPerRecord-1 && !open {
			t.Fatalf("rail closed at bit %d", i)
		}
		if i == BitsPerRecord-1 && open {
			t.Fatal("rail still open after filling its record")
		}
	}
	if r.status != railFull {
		t.Fatalf("status: got %d, want full", r.status)
	}
	if r.index != BitsPerRecord {
		t.Fatalf("index: got %d, want %d", r.index, BitsPerRecord)
	}
	if r.rec != 0x5555 {
		t.Fatalf("rec: got %04x, want 5555", r.rec)
	}

	if r.eat(620) {
		t.Fatal("full rail accepted a duration")
	}
}

func TestRailResets(t *testing.T) {
	r := newTestRail(MoodLaxist)
	r.eat(620)
	r.eat(1240)

	r.resetSoft()
	if r.status != railOpen || r.index != 0 || r.rec != 0 {
		t.Fatal("soft reset incomplete")
	}
	if r.bandCount() != 2 {
		t.Fatal("soft reset lost the learned bands")
	}
	// Bands kept: a long is recognized immediately.
	r.eat(1240)
	if r.rec != 1 || r.index != 1 {
		t.Fatalf("rec=%04x index=%d after soft reset", r.rec, r.index)
	}

	r.reset()
	if r.bandCount() != 0 {
		t.Fatal("hard reset kept the bands")
	}
}
