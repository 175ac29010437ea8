// RF433ANY - A generic decoder for 433MHz OOK remote controls.
// Copyright (C) 2021 Sebastien Millet
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package decoder converts recognized code sections into data bits under
// the line codings used by commodity 433MHz remotes, and filters the
// resulting candidates.
package decoder

import (
	"github.com/sebmillet/rf433any/bits"
	"github.com/sebmillet/rf433any/track"
)

// Signal is a classified duration: within the short band, within the long
// band, or neither.
type Signal byte

const (
	SignalShort Signal = iota
	SignalLong
	SignalOther
)

// Convention swaps the bit polarity of the symmetric codings. The
// constant values are not arbitrary: a decoded bit value is ultimately
// one of them.
type Convention byte

const (
	Conv0 Convention = 0
	Conv1 Convention = 1
)

// Kind identifies a coding. The declaration order is the order candidate
// decoders are attempted in; RawUnknown comes last and always succeeds.
type Kind byte

const (
	KindRawInconsistent Kind = iota
	KindRawSync
	KindTribit
	KindTribitInv
	KindManchester
	KindRawUnknown
)

var kindNames = []string{"INC", "SYN", "TRI", "TRN", "MAN", "UNK"}
var kindLetters = []byte{'I', 'S', 'T', 'N', 'M', 'U'}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Letter is the one-character code used in decoded frame listings.
func (k Kind) Letter() byte {
	if int(k) < len(kindLetters) {
		return kindLetters[k]
	}
	return '?'
}

// TimingsExt extends a section's timings with the frame-level durations
// reported back to the caller.
type TimingsExt struct {
	track.Timings
	Initseq         uint16
	FirstLow        uint16
	FirstHigh       uint16
	FirstLowIgnored uint16
	LastLow         uint16
}

// Decoder is one decoded section candidate (or a run of joined
// continuation sections), chained to the next candidate of the frame.
// The per-coding state lives alongside the shared fields and a single
// step dispatch switches on kind.
type Decoder struct {
	kind       Kind
	convention Convention
	nbErrors   int
	data       *bits.Vector
	tsext      TimingsExt
	next       *Decoder
	repeats    int

	// RawSync: counts identically-shaped low/high pairs.
	nbLowHigh    int
	syncShape    Signal
	syncShapeSet bool

	// RawUnknown: remembers a final low left unpaired by a separator.
	unusedFinalLow    Signal
	terminatesWithSep bool

	// TribitInv: data bits pair the previous high with the current low,
	// so the first low is remembered and skipped.
	firstStep        bool
	unusedInitialLow Signal
	lastHi           Signal

	// Manchester: small FIFO of half-bit symbols awaiting pairing.
	manBuf        [3]byte
	manPos        int
	leadingPassed bool
}

func newDecoder(kind Kind, convention Convention) *Decoder {
	d := &Decoder{
		kind: kind,
		data: &bits.Vector{},
	}

	switch kind {
	case KindTribit, KindTribitInv, KindManchester:
		d.convention = convention
	default:
		// Raw kinds carry no polarity.
		d.convention = Conv0
	}

	switch kind {
	case KindTribitInv:
		d.firstStep = true
		d.unusedInitialLow = SignalOther
	case KindRawUnknown:
		d.unusedFinalLow = SignalOther
	}

	return d
}

// Kind returns the coding this decoder recognized.
func (d *Decoder) Kind() Kind { return d.kind }

// Convention returns the polarity the data bits were decoded under.
func (d *Decoder) Convention() Convention { return d.convention }

// NbErrors returns the number of per-coding rule violations encountered.
func (d *Decoder) NbErrors() int { return d.nbErrors }

// NbBits returns the number of decoded bits; for a sync preamble it is
// the number of recognized low/high pairs.
func (d *Decoder) NbBits() int {
	if d.kind == KindRawSync {
		return d.nbLowHigh
	}
	if d.data == nil {
		return 0
	}
	return d.data.NbBits()
}

// Data exposes the decoded bits. May be empty for raw kinds.
func (d *Decoder) Data() *bits.Vector { return d.data }

// TakeData hands the decoded bits over to the caller, leaving the decoder
// empty.
func (d *Decoder) TakeData() *bits.Vector {
	ret := d.data
	d.data = nil
	return ret
}

// Next returns the following candidate of the frame, nil at the end of
// the chain.
func (d *Decoder) Next() *Decoder { return d.next }

// Repeats returns how many identical successors were folded into this
// node by the dedup filter.
func (d *Decoder) Repeats() int { return d.repeats }

// DataDecoded reports whether the section was successfully decoded under
// an actual coding (as opposed to recorded raw).
func (d *Decoder) DataDecoded() bool {
	switch d.kind {
	case KindTribit, KindTribitInv, KindManchester:
		return d.data != nil && d.data.NbBits() > 0
	}
	return false
}

// Tsext returns the extended timings of the decoded section.
func (d *Decoder) Tsext() TimingsExt {
	ts := d.tsext
	ts.FirstLowIgnored = d.firstLoIgnored()
	return ts
}

func (d *Decoder) addDataBit(valbit byte) {
	d.data.AddBit(valbit)
}

func (d *Decoder) setTs(initseq uint16, ts track.Timings) {
	d.tsext.Timings = ts
	d.tsext.Initseq = initseq
}

// firstLoIgnored reports the duration of the skipped initial low of an
// inverted tri-bit section, zero elsewhere.
func (d *Decoder) firstLoIgnored() uint16 {
	if d.kind != KindTribitInv {
		return 0
	}
	switch d.unusedInitialLow {
	case SignalShort:
		return d.tsext.LowShort
	case SignalLong:
		return d.tsext.LowLong
	}
	return 0
}

// addSync merges n additional low/high pairs of a follow-up sync section.
func (d *Decoder) addSync(n int) {
	if d.kind == KindRawSync {
		d.nbLowHigh += n
	}
}

// addSignalStep consumes the next classified (low, high) pair under the
// decoder's coding.
func (d *Decoder) addSignalStep(lo, hi Signal) {
	switch d.kind {
	case KindRawInconsistent:
		// Nothing to decode, nothing to get wrong.

	case KindRawSync:
		if !d.syncShapeSet {
			d.syncShape = lo
			d.syncShapeSet = true
		}
		switch {
		case lo != d.syncShape:
			d.nbErrors++
		case hi == SignalOther:
			// Trailing unpaired low, ignored.
		case lo != hi:
			d.nbErrors++
		default:
			d.nbLowHigh++
		}

	case KindRawUnknown:
		if hi == SignalOther {
			d.unusedFinalLow = lo
			d.terminatesWithSep = true
			return
		}
		for i := 0; i < 2; i++ {
			x := lo
			if i == 1 {
				x = hi
			}
			if x == SignalShort {
				d.addDataBit(0)
			} else {
				d.addDataBit(1)
			}
		}

	case KindTribit:
		if hi == SignalOther {
			return
		}
		var valbit byte
		switch {
		case lo == SignalShort && hi == SignalLong:
			valbit = byte(d.convention)
		case lo == SignalLong && hi == SignalShort:
			valbit = byte(d.convention) ^ 1
		default:
			d.nbErrors++
			return
		}
		d.addDataBit(valbit)

	case KindTribitInv:
		if d.firstStep {
			d.firstStep = false
			d.unusedInitialLow = lo
			d.lastHi = hi
			return
		}
		addIt := true
		var valbit byte
		switch {
		case lo == SignalShort && d.lastHi == SignalLong:
			valbit = byte(d.convention) ^ 1
		case lo == SignalLong && d.lastHi == SignalShort:
			valbit = byte(d.convention)
		default:
			d.nbErrors++
			addIt = false
		}
		if addIt {
			d.addDataBit(valbit)
		}
		d.lastHi = hi

	case KindManchester:
		if lo == SignalOther {
			d.nbErrors++
			return
		}
		for i := byte(0); i < 2; i++ {
			sgn := lo
			if i == 1 {
				sgn = hi
			}
			d.manAdd(i)
			if sgn == SignalLong {
				d.manAdd(i)
			}
			d.manConsume()
		}
	}
}

func (d *Decoder) manAdd(half byte) {
	if d.manPos >= len(d.manBuf) {
		panic("decoder: manchester buffer overrun")
	}
	d.manBuf[d.manPos] = half
	d.manPos++
}

func (d *Decoder) manConsume() {
	if d.manPos < 2 {
		return
	}
	if d.leadingPassed {
		switch {
		case d.manBuf[0] == 0 && d.manBuf[1] == 1:
			d.addDataBit(byte(d.convention))
		case d.manBuf[0] == 1 && d.manBuf[1] == 0:
			d.addDataBit(byte(d.convention) ^ 1)
		default:
			d.nbErrors++
		}
	} else {
		// Manchester comes with a mandatory leading short-low/short-high
		// pair, otherwise it could not be told apart from the end of the
		// initialization sequence. It carries no data.
		if d.manBuf[0] != 0 || d.manBuf[1] != 1 {
			d.nbErrors++
		}
		d.leadingPassed = true
	}
	// Not always needed, harmless when not.
	d.manBuf[0] = d.manBuf[2]
	d.manPos -= 2
}

// takeFirstLowHigh classifies the two section-leading durations that the
// rails never counted, and replays them as one synthetic step when both
// classify. Sections continuing a previous one have no such leaders.
func (d *Decoder) takeFirstLowHigh(sec *track.Section, isCont bool) {
	if isCont {
		return
	}
	d.tsext.FirstLow = sec.FirstLow
	d.tsext.FirstHigh = sec.FirstHigh
	d.tsext.LastLow = sec.LastLow

	var e [2]Signal
	for i := 0; i < 2; i++ {
		dur := d.tsext.FirstLow
		shortD, longD := sec.Ts.LowShort, sec.Ts.LowLong
		if i == 1 {
			dur = d.tsext.FirstHigh
			if sec.Ts.HighShort != 0 || sec.Ts.HighLong != 0 {
				shortD, longD = sec.Ts.HighShort, sec.Ts.HighLong
			}
			// Zeroed high timings mean the rails share the low pair.
		}

		var bShort, bLong track.Band
		bShort.Init(shortD)
		bLong.Init(longD)

		isShort := bShort.TestValue(dur)
		isLong := bLong.TestValue(dur)

		switch {
		case isShort && !isLong:
			e[i] = SignalShort
		case !isShort && isLong:
			e[i] = SignalLong
		case isShort && isLong && shortD == longD:
			e[i] = SignalShort
		default:
			e[i] = SignalOther
		}
	}

	if e[0] != SignalOther && e[1] != SignalOther {
		d.addSignalStep(e[0], e[1])
		d.tsext.FirstLow = 0
		d.tsext.FirstHigh = 0
	}
}

// decodeSection walks the section's low and high records MSB to LSB in
// lock-step and feeds the steps to the coding.
func (d *Decoder) decodeSection(sec *track.Section, isCont bool) {
	d.takeFirstLowHigh(sec, isCont)

	posLow := int(sec.LowBits)
	posHigh := int(sec.HighBits)

	for posLow >= 1 || posHigh >= 1 {
		sdLow := SignalOther
		sdHigh := SignalOther
		if posLow >= 1 {
			posLow--
			if sec.LowRec&(1<<uint(posLow)) != 0 {
				sdLow = SignalLong
			} else {
				sdLow = SignalShort
			}
		}
		if posHigh >= 1 {
			posHigh--
			if sec.HighRec&(1<<uint(posHigh)) != 0 {
				sdHigh = SignalLong
			} else {
				sdHigh = SignalShort
			}
		}
		d.addSignalStep(sdLow, sdHigh)
	}
}
