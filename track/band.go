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

package track

// Acceptance range of Band.Init, in microseconds. BandMaxD must stay below
// 32768 so that doubling a learned mid cannot overflow a uint16.
const (
	BandMinD = 64
	BandMaxD = 30000
)

// A Band is one adaptive tolerance window around a learned central
// duration: it categorizes durations as belonging (or not) to the short,
// long or separator population of one signal level.
type Band struct {
	Inf uint16
	Mid uint16
	Sup uint16

	// GotIt is the outcome of the last test, a transient.
	GotIt bool
}

// Reset forgets the learned window.
func (b *Band) Reset() {
	b.Inf = 0
	b.Mid = 0
	b.Sup = 0
}

// Init learns d as the band center with a ±25% acceptance window.
// Durations outside [BandMinD, BandMaxD] are rejected and leave the band
// untouched.
func (b *Band) Init(d uint16) bool {
	if d >= BandMinD && d <= BandMaxD {
		b.Mid = d
		quarter := d >> 2
		b.Inf = d - quarter
		b.Sup = d + quarter
		b.GotIt = true
	} else {
		b.GotIt = false
	}

	return b.GotIt
}

// InitSep learns d as a separator: anything from 5/8 of d up to the
// maximum representable duration is accepted, since separators only have
// a meaningful lower bound.
func (b *Band) InitSep(d uint16) bool {
	b.Sup = 65535
	inf := d >> 1
	inf += inf >> 2
	b.Inf = inf
	b.Mid = d

	b.GotIt = true
	return b.GotIt
}

// TestValue tests d against the window. An uninitialized band accepts
// nothing.
func (b *Band) TestValue(d uint16) bool {
	if b.Mid == 0 {
		b.GotIt = false
	} else {
		b.GotIt = d >= b.Inf && d <= b.Sup
	}
	return b.GotIt
}

// TestValueInitIfNeeded tests d against the window, except on an
// uninitialized band where it learns d instead. The first acceptable
// duration therefore always passes; this asymmetry bootstraps the rail
// classifier.
func (b *Band) TestValueInitIfNeeded(d uint16) bool {
	if b.Mid == 0 {
		return b.Init(d)
	}
	b.GotIt = d >= b.Inf && d <= b.Sup
	return b.GotIt
}
