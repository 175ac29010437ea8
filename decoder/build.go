package decoder

import (
	"github.com/sebmillet/rf433any/track"
)

// Build converts a recognized RawCode into a chain of decoded sections,
// one node per non-continued section. For each section the candidate
// codings are attempted in Kind order and the first one decoding without
// error is kept; RawUnknown closes the enumeration and never errors.
func Build(rc *track.RawCode, convention Convention) *Decoder {
	var head, tail, cur *Decoder

	for i := 0; i < rc.NbSections; i++ {
		sec := &rc.Sections[i]

		switch {
		case absInt(int(sec.LowBits)-int(sec.HighBits)) >= 2:
			// Desynchronized rails; should have been caught upstream.
			if cur == nil {
				cur = newDecoder(KindRawInconsistent, Conv0)
			}

		case sec.LowBands == 1 && sec.HighBands == 1:
			// Both rails collapsed to a single population: a
			// synchronization preamble.
			n := int(sec.LowBits)
			if int(sec.HighBits) < n {
				n = int(sec.HighBits)
			}
			if cur != nil {
				cur.addSync(n)
			} else {
				cur = newDecoder(KindRawSync, Conv0)
				cur.nbLowHigh = n
				cur.takeFirstLowHigh(sec, false)
			}

		case sec.LowBands == 1 || sec.HighBands == 1:
			// One rail saw data, the other did not: unusable.
			if cur == nil {
				cur = newDecoder(KindRawInconsistent, Conv0)
			}

		default:
			isCont := cur != nil
			for kind := KindRawSync; ; kind++ {
				if cur == nil {
					cur = newDecoder(kind, convention)
				}
				cur.decodeSection(sec, isCont)
				if !isCont && cur.nbErrors > 0 && kind != KindRawUnknown {
					cur = nil
					continue
				}
				break
			}
		}

		if head == nil {
			cur.setTs(rc.Initseq, sec.Ts)
		} else {
			cur.setTs(0, sec.Ts)
		}

		if sec.Sts != track.StsContinued || i == rc.NbSections-1 {
			if head == nil {
				head, tail = cur, cur
			} else {
				tail.next = cur
				tail = cur
			}
			cur = nil
		}
	}

	return head
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
