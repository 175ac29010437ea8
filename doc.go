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

/*
Package rf433any decodes the OOK signal of commodity 433MHz remote
controls without knowing their protocol in advance.

The signal, as the receiver module renders it, is a succession of low and
high periods: low when no carrier is received, high when the carrier is
present. The coding relies on durations being either short or long, and
sometimes much longer: a separator between code sections, and an
initialization pulse that opens every frame, at least as long as the
separator.

A frame is therefore:

 1. Initialization (very long high)
 2. A succession of low and high periods, each short or long
 3. Separator (long high)
 4. Possibly, repetitions of steps 2 and 3

The succession of shorts and longs encodes the data, either under a
tri-bit scheme (inverted or not) or under Manchester.

Decoding is organized in layers:

  - A Band (package track) categorizes one duration population: it learns
    a central value from the first samples and accepts anything within an
    adaptive window around it.
  - A Rail (package track) manages the duration succession of one signal
    level. The values below LOW form one rail, the values below HIGH the
    other; each rail owns a short band, a long band and a separator band.
  - A Track (package track) makes the two rails work in conjunction:
    start and stop together, stay synchronized, and deliver the raw
    recognized sections.
  - Package decoder converts raw sections into data bits, trying each
    known coding and keeping the first that fits, and filters the
    resulting candidates (decoded-only, error-free, deduplicated).

Edges reach the track through the single-producer ring of package edge,
fed by a GPIO interrupt handler, by the rtl_tcp front end of package
rtlsrc, or by a replayed duration vector in simulation.

This package ties the layers together behind the public recording
interface; see cmd/rf433dump for a complete consumer.
*/
package rf433any
