package decoder

import (
	"fmt"
	"strconv"
)

// String renders one node the way the frame listings print it: kind,
// error count, bit count, data, then the extended timings.
func (d *Decoder) String() string {
	ts := d.Tsext()

	data := "-"
	if d.data != nil && d.data.NbBits() > 0 {
		data = d.data.String()
	}

	if ts.HighShort == 0 && ts.HighLong == 0 {
		return fmt.Sprintf("{T=%s E=%d N=%d D=[%s] I=%d S=%d L=%d P=%d Y=%d Z=%d R=%d}",
			d.kind, d.nbErrors, d.NbBits(), data, ts.Initseq,
			ts.LowShort, ts.LowLong, ts.Sep,
			ts.FirstLowIgnored, ts.LastLow, d.repeats,
		)
	}
	return fmt.Sprintf("{T=%s E=%d N=%d D=[%s] I=%d S(lo)=%d L(lo)=%d S(hi)=%d L(hi)=%d P=%d Y=%d Z=%d R=%d}",
		d.kind, d.nbErrors, d.NbBits(), data, ts.Initseq,
		ts.LowShort, ts.LowLong, ts.HighShort, ts.HighLong, ts.Sep,
		ts.FirstLowIgnored, ts.LastLow, d.repeats,
	)
}

// RecordFields names the columns produced by Record, in order.
var RecordFields = []string{
	"kind", "bits", "errors", "data",
	"initseq", "low_short", "low_long", "high_short", "high_long", "sep",
	"first_low", "first_high", "first_low_ignored", "last_low", "repeats",
}

// Record satisfies csv.Recorder.
func (d *Decoder) Record() (r []string) {
	ts := d.Tsext()

	r = append(r, string(d.kind.Letter()))
	r = append(r, strconv.Itoa(d.NbBits()))
	r = append(r, strconv.Itoa(d.nbErrors))
	if d.data != nil {
		r = append(r, d.data.String())
	} else {
		r = append(r, "")
	}

	for _, v := range []uint16{
		ts.Initseq, ts.LowShort, ts.LowLong, ts.HighShort, ts.HighLong,
		ts.Sep, ts.FirstLow, ts.FirstHigh, ts.FirstLowIgnored, ts.LastLow,
	} {
		r = append(r, strconv.FormatUint(uint64(v), 10))
	}

	r = append(r, strconv.Itoa(d.repeats))

	return r
}
