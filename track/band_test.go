package track

import "testing"

func TestBandInit(t *testing.T) {
	for _, tc := range []struct {
		d      uint16
		accept bool
		inf    uint16
		sup    uint16
	}{
		{620, true, 465, 775},
		{BandMinD, true, 48, 80},
		{BandMaxD, true, 22500, 37500},
		{BandMinD - 1, false, 0, 0},
		{BandMaxD + 1, false, 0, 0},
	} {
		var b Band
		if got := b.Init(tc.d); got != tc.accept {
			t.Fatalf("Init(%d): got %v, want %v", tc.d, got, tc.accept)
		}
		if !tc.accept {
			if b.Mid != 0 {
				t.Fatalf("Init(%d): rejected duration learned mid=%d", tc.d, b.Mid)
			}
			continue
		}
		if b.Inf != tc.inf || b.Mid != tc.d || b.Sup != tc.sup {
			t.Fatalf("Init(%d): got [%d, %d, %d], want [%d, %d, %d]",
				tc.d, b.Inf, b.Mid, b.Sup, tc.inf, tc.d, tc.sup)
		}
		if !(b.Inf <= b.Mid && b.Mid <= b.Sup) {
			t.Fatalf("Init(%d): window out of order", tc.d)
		}
	}
}

func TestBandInitSep(t *testing.T) {
	var b Band
	b.InitSep(11000)

	// 5/8 of the learned separator up to the maximum duration.
	if b.Inf != 6875 || b.Mid != 11000 || b.Sup != 65535 {
		t.Fatalf("got [%d, %d, %d]", b.Inf, b.Mid, b.Sup)
	}
	if !b.TestValue(65535) || b.TestValue(6874) {
		t.Fatal("separator window misplaced")
	}
}

func TestBandTestValue(t *testing.T) {
	var b Band
	if b.TestValue(620) {
		t.Fatal("uninitialized band accepted a value")
	}

	b.Init(620)
	for _, tc := range []struct {
		d    uint16
		want bool
	}{
		{620, true}, {465, true}, {775, true}, {464, false}, {776, false},
	} {
		if got := b.TestValue(tc.d); got != tc.want {
			t.Fatalf("TestValue(%d): got %v, want %v", tc.d, got, tc.want)
		}
	}
}

func TestBandBootstrap(t *testing.T) {
	// The first acceptable duration initializes instead of testing; this
	// asymmetry is what lets a rail accept its very first sample.
	var b Band
	if !b.TestValueInitIfNeeded(620) {
		t.Fatal("first sample rejected")
	}
	if b.Mid != 620 {
		t.Fatalf("first sample not learned, mid=%d", b.Mid)
	}
	if b.TestValueInitIfNeeded(2000) {
		t.Fatal("out-of-window sample accepted after learning")
	}

	var tooShort Band
	if tooShort.TestValueInitIfNeeded(BandMinD - 1) {
		t.Fatal("out-of-range first sample accepted")
	}
	if tooShort.Mid != 0 {
		t.Fatal("out-of-range first sample learned")
	}
}

func TestBandReset(t *testing.T) {
	var b Band
	b.Init(620)
	b.Reset()
	if b.Inf != 0 || b.Mid != 0 || b.Sup != 0 {
		t.Fatal("reset left window values behind")
	}
}
