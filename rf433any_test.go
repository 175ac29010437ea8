package rf433any

import (
	"testing"

	"github.com/sebmillet/rf433any/decoder"
	"github.com/sebmillet/rf433any/edge"
	"github.com/sebmillet/rf433any/track"
)

// Full pipeline through the facade: simulated edge source, ring,
// recording activation, drain, decode, filter.
func TestEndToEnd(t *testing.T) {
	// 0xA5C as tri-bit: one (low, high) pair per bit, then a short low
	// and the separator.
	data := []byte{1, 0, 1, 0, 0, 1, 0, 1, 1, 1, 0, 0}
	durs := []uint16{9000}
	for _, b := range data {
		if b == 0 {
			durs = append(durs, 620, 1240)
		} else {
			durs = append(durs, 1240, 620)
		}
	}
	durs = append(durs, 620, 11000)

	src := edge.NewSimSource(durs)
	trk := NewTrack(track.Config{
		Pin:      11,
		Source:   src,
		RingSize: len(durs),
	})

	if err := trk.ActivateRecording(); err != nil {
		t.Fatalf("%+v\n", err)
	}
	if err := src.Run(); err != nil {
		t.Fatalf("%+v\n", err)
	}

	done, err := trk.DoEvents()
	if err != nil {
		t.Fatalf("%+v\n", err)
	}
	if done {
		t.Fatal("a single frame should leave the track still receiving")
	}
	trk.ForceStopRecv()
	if !trk.Done() {
		t.Fatal("frame not terminated")
	}

	head := trk.GetData(decoder.FilterDecoded|decoder.FilterNoError, decoder.Conv0)
	if head == nil {
		t.Fatal("no decoder survived")
	}
	if head.Kind() != decoder.KindTribit {
		t.Fatalf("kind: got %v", head.Kind())
	}
	if head.NbBits() != 12 || head.Data().String() != "0a 5c" {
		t.Fatalf("got %d bits, data %q", head.NbBits(), head.Data().String())
	}

	if err := trk.DeactivateRecording(); err != nil {
		t.Fatalf("%+v\n", err)
	}
}

// Two tracks on one pin must not both record.
func TestPinExclusion(t *testing.T) {
	srcA := edge.NewSimSource(nil)
	srcB := edge.NewSimSource(nil)

	a := NewTrack(track.Config{Pin: 12, Source: srcA})
	b := NewTrack(track.Config{Pin: 12, Source: srcB})

	if err := a.ActivateRecording(); err != nil {
		t.Fatalf("%+v\n", err)
	}
	defer a.DeactivateRecording()

	if err := b.ActivateRecording(); err == nil {
		t.Fatal("second track claimed a busy pin")
	}
}
