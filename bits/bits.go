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

// Package bits implements a variable-length bit buffer with prepend
// semantics, as needed to accumulate data bits received wire-first.
package bits

import (
	"fmt"
	"strings"
)

// Vector holds an ordered sequence of bits. AddBit prepends: the newest
// bit becomes bit 0 and all existing bits shift up one position. Storage
// is little-endian by byte index, LSB-first within each byte, so byte 0
// always holds bits 0 through 7.
type Vector struct {
	array  []byte
	nbBits int
}

// AddBit prepends v (any non-zero value counts as 1) as the new bit 0.
func (p *Vector) AddBit(v byte) {
	if p.nbBits >= len(p.array)<<3 {
		grown := make([]byte, max(1, len(p.array)<<1))
		copy(grown, p.array)
		p.array = grown
	}

	if v != 0 {
		v = 1
	}

	p.nbBits++
	for i := len(p.array) - 1; i >= 0; i-- {
		var b byte
		if i > 0 {
			b = (p.array[i-1] & 0x80) >> 7
		} else {
			b = v
		}
		p.array[i] = p.array[i]<<1 | b
	}
}

// NbBits returns the number of bits held.
func (p *Vector) NbBits() int {
	return p.nbBits
}

// NbBytes returns the number of bytes needed to hold the bits.
func (p *Vector) NbBytes() int {
	return (p.nbBits + 7) >> 3
}

// NthBit returns bit n. Bit numbering starts at 0.
func (p *Vector) NthBit(n int) byte {
	if n < 0 || n >= p.nbBits {
		panic(fmt.Sprintf("bits: bit index %d out of range [0, %d)", n, p.nbBits))
	}
	return (p.array[n>>3] >> (uint(n) & 7)) & 1
}

// NthByte returns byte n. Byte numbering starts at 0; byte 0 holds the
// lowest-numbered bits.
func (p *Vector) NthByte(n int) byte {
	if n < 0 || n >= p.NbBytes() {
		panic(fmt.Sprintf("bits: byte index %d out of range [0, %d)", n, p.NbBytes()))
	}
	return p.array[n]
}

// Bytes returns a copy of the packed bytes, byte 0 first.
func (p *Vector) Bytes() []byte {
	out := make([]byte, p.NbBytes())
	copy(out, p.array)
	return out
}

// String renders the vector as space-separated hex bytes, highest byte
// first, which reads as the code big-endian. Empty vector renders as "".
func (p *Vector) String() string {
	if p.nbBits == 0 {
		return ""
	}

	var sb strings.Builder
	for i := p.NbBytes() - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%02x", p.array[i])
		if i > 0 {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Cmp imposes a total order on vectors: first by bit count, then by
// MSB-first bit comparison. Returns -1, 0 or 1.
func (p *Vector) Cmp(q *Vector) int {
	if p.nbBits > q.nbBits {
		return 1
	}
	if p.nbBits < q.nbBits {
		return -1
	}

	for i := p.nbBits - 1; i >= 0; i-- {
		v1 := p.NthBit(i)
		v2 := q.NthBit(i)
		if v1 > v2 {
			return 1
		}
		if v1 < v2 {
			return -1
		}
	}

	return 0
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
