// Package gen synthesizes the on-air duration vectors of known codings,
// for tests and simulation fixtures.
package gen

// Bits expands the n low-order bits of v into a byte-per-bit slice,
// most significant first, which is transmission order.
func Bits(v uint32, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v >> uint(n-1-i) & 1)
	}
	return out
}

// Tribit builds a tri-bit frame: the initialization pulse, one
// (low, high) pair per bit with (short, long) encoding 0 and
// (long, short) encoding 1, then a short low and the separator.
func Tribit(initseq uint16, data []byte, short, long, sep uint16) []uint16 {
	durs := []uint16{initseq}
	for _, b := range data {
		if b == 0 {
			durs = append(durs, short, long)
		} else {
			durs = append(durs, long, short)
		}
	}
	return append(durs, short, sep)
}

// TribitInv builds an inverted tri-bit frame: a leading low, then one
// (high, low) pair per bit; each data bit pairs a high with the low that
// follows it. The separator directly follows the last low.
func TribitInv(initseq uint16, data []byte, short, long, sep uint16) []uint16 {
	durs := []uint16{initseq, short}
	for _, b := range data {
		if b == 0 {
			durs = append(durs, short, long)
		} else {
			durs = append(durs, long, short)
		}
	}
	return append(durs, sep)
}

// Manchester builds a Manchester frame: each bit is a half-bit pair,
// low-then-high for 0 and high-then-low for 1, preceded by the mandatory
// leading low/high pair. Adjacent equal half-bits merge into doubled
// durations, and a trailing high half merges into the separator.
func Manchester(initseq uint16, data []byte, half, sep uint16) []uint16 {
	halves := []byte{0, 1}
	for _, b := range data {
		if b == 0 {
			halves = append(halves, 0, 1)
		} else {
			halves = append(halves, 1, 0)
		}
	}

	durs := []uint16{initseq}
	i := 0
	for i < len(halves) {
		j := i
		for j < len(halves) && halves[j] == halves[i] {
			j++
		}
		durs = append(durs, uint16(j-i)*half)
		i = j
	}

	if halves[len(halves)-1] == 1 {
		durs[len(durs)-1] += sep
	} else {
		durs = append(durs, sep)
	}
	return durs
}
