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

// Package track recognizes code sections in a stream of OOK edges: it
// learns the characteristic short and long pulse widths of each signal
// level, detects the initialization pulse and the separators framing each
// section, and assembles the recognized sections into a RawCode.
package track

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/sebmillet/rf433any/edge"
)

// A frame starts with a high pulse at least this long, in microseconds.
const TrackMinInitseqDuration = 4000

// Sections carrying fewer bits than this on either rail are noise unless
// they continue a previous section.
const TrackMinBits = 7

type trkState byte

const (
	trkWait trkState = iota
	trkRecv
	trkData
)

// Config parameterizes a Track. The zero value listens on pin 0 with the
// laxist mood, a default-size ring and no logging.
type Config struct {
	// Pin identifies the interrupt source; it keys the process-wide
	// recording registry.
	Pin int

	Mood Mood

	// Source provides edges when recording is activated. Optional: a
	// Track fed manually through Eat or Drain needs none.
	Source edge.Source

	// RingSize overrides edge.DefaultRingSize when non-zero.
	RingSize int

	// Logger receives classification traces at debug level.
	Logger logrus.FieldLogger
}

// Track merges the two per-level rails into a section recognizer and
// carries the public recording interface.
type Track struct {
	cfg Config
	log logrus.FieldLogger

	trk   trkState
	count int

	rLow  rail
	rHigh rail
	prevR edge.Level

	firstLow  uint16
	firstHigh uint16
	lastLow   uint16

	rawcode RawCode

	ring *edge.Ring
	rcvr *edge.Receiver
}

// New returns a Track in the waiting state. Recording does not start
// until ActivateRecording or DoEvents is called.
func New(cfg Config) *Track {
	log := cfg.Logger
	if log == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		log = silent
	}

	t := &Track{
		cfg:   cfg,
		log:   log,
		rLow:  rail{mood: cfg.Mood},
		rHigh: rail{mood: cfg.Mood},
		ring:  edge.NewRing(cfg.RingSize),
	}
	if cfg.Source != nil {
		t.rcvr = edge.NewReceiver(cfg.Source, t.ring)
	}
	t.Reset()
	return t
}

// Reset returns the Track to the waiting state, discarding any recognized
// sections.
func (t *Track) Reset() {
	t.trk = trkWait
	t.rawcode.NbSections = 0
}

// Done reports whether a full frame has been recognized and is waiting to
// be read.
func (t *Track) Done() bool {
	return t.trk == trkData
}

// RawCode exposes the recognized sections. Only meaningful once Done
// reports true (or after ForceStopRecv).
func (t *Track) RawCode() *RawCode {
	return &t.rawcode
}

// Ring returns the edge queue feeding this track.
func (t *Track) Ring() *edge.Ring {
	return t.ring
}

// MaxPending returns the edge queue high-water mark.
func (t *Track) MaxPending() int {
	return t.ring.MaxPending()
}

func (t *Track) resetBorders() {
	t.count = 0
	t.firstLow = 0
	t.firstHigh = 0
	t.lastLow = 0
}

// Eat consumes one edge: the line stayed at level r for d microseconds.
func (t *Track) Eat(r edge.Level, d uint16) {
	if t.trk == trkWait {
		if r == edge.High && d >= TrackMinInitseqDuration {
			t.rLow.reset()
			t.rHigh.reset()
			t.prevR = r
			t.rawcode.Initseq = d
			t.rawcode.MaxCodeD = d - d>>2
			t.resetBorders()
			t.trk = trkRecv
			t.log.WithField("initseq", d).Debug("track: init sequence")
		}
		return
	} else if t.trk != trkRecv {
		return
	}

	// Two edges at the same level mean a missed interrupt: discard the
	// signal being recorded.
	enforceClose := r == t.prevR
	t.prevR = r

	t.count++

	if t.count == 1 || t.count == 2 {
		if (d < BandMinD || d >= t.rawcode.MaxCodeD) && t.rawcode.NbSections == 0 {
			t.Reset()
			t.Eat(r, d) // re-feed as a fresh init candidate
		} else if t.count == 1 {
			t.firstLow = d
		} else {
			t.firstHigh = d
		}
		return
	}

	prail := &t.rLow
	if r == edge.High {
		prail = &t.rHigh
	}
	if prail.status != railOpen {
		return
	}

	if r == edge.Low {
		t.lastLow = d
	}

	var open bool
	if (d < BandMinD || d >= t.rawcode.MaxCodeD) && t.count < TrackMinBits {
		enforceClose = true
	} else if absInt(int(t.rLow.index)-int(t.rHigh.index)) >= 2 {
		// The rails desynchronized; their records cannot be paired.
		enforceClose = true
	} else if !enforceClose {
		open = prail.eat(d)
	}

	if enforceClose {
		r = edge.High
		open = false
	}

	if r == edge.High && (!open || t.rLow.status != railOpen) {
		t.closeSection(d)
	}
}

// closeSection terminates the current section and decides whether to
// record it, move to the data state, or restart from scratch.
func (t *Track) closeSection(d uint16) {
	if t.rLow.status == railOpen {
		t.rLow.status = railClosed
	}
	if t.rHigh.status == railOpen {
		t.rHigh.status = railClosed
	}

	var sts TermStatus
	switch {
	case t.rLow.status == railFull && t.rHigh.status == railFull:
		sts = StsContinued
	case t.rHigh.status == railStopRcvd:
		switch t.rLow.status {
		case railClosed, railFull, railError:
			if t.rLow.lastBit != 0 {
				sts = StsLongSep
			} else {
				sts = StsShortSep
			}
		case railStopRcvd:
			sts = StsSepSep
		default:
			sts = StsError
		}
	default:
		sts = StsError
	}

	// A tiny section (either rail below TrackMinBits) is recorded only
	// when it extends a continued one; a full-size section is recorded
	// unless it ended in error. Discarding with no section on file
	// restarts the whole track, discarding with sections on file keeps
	// them and ends the frame.
	var record bool
	if t.rLow.index < TrackMinBits || t.rHigh.index < TrackMinBits {
		record = sts != StsError &&
			t.rawcode.NbSections > 0 &&
			t.rawcode.Sections[t.rawcode.NbSections-1].Sts == StsContinued
	} else {
		record = sts != StsError
	}

	t.log.WithFields(logrus.Fields{
		"sts":    sts,
		"record": record,
		"low": fmt.Sprintf("n=%d v=%04x %s", t.rLow.index, t.rLow.rec,
			railStatusNames[t.rLow.status]),
		"high": fmt.Sprintf("n=%d v=%04x %s", t.rHigh.index, t.rHigh.rec,
			railStatusNames[t.rHigh.status]),
	}).Debug("track: section closed")

	if !record {
		if t.rawcode.NbSections > 0 {
			t.trk = trkData
		} else {
			t.Reset()
			t.Eat(edge.High, d)
		}
		return
	}

	sec := &t.rawcode.Sections[t.rawcode.NbSections]
	t.rawcode.NbSections++
	sec.Sts = sts

	if sts == StsShortSep || sts == StsLongSep || sts == StsSepSep {
		sec.Ts.Sep = d
	} else {
		sec.Ts.Sep = 0
	}

	// When each low band accepts its high counterpart and rejects the
	// other, the two rails share one short/long pair: store the averaged
	// timings on the low side.
	if t.rLow.bShort.TestValue(t.rHigh.bShort.Mid) &&
		!t.rLow.bShort.TestValue(t.rHigh.bLong.Mid) &&
		!t.rLow.bLong.TestValue(t.rHigh.bShort.Mid) &&
		t.rLow.bLong.TestValue(t.rHigh.bLong.Mid) {
		sec.Ts.LowShort = (t.rLow.bShort.Mid + t.rHigh.bShort.Mid) >> 1
		sec.Ts.LowLong = (t.rLow.bLong.Mid + t.rHigh.bLong.Mid) >> 1
		sec.Ts.HighShort = 0
		sec.Ts.HighLong = 0
	} else {
		sec.Ts.LowShort = t.rLow.bShort.Mid
		sec.Ts.LowLong = t.rLow.bLong.Mid
		sec.Ts.HighShort = t.rHigh.bShort.Mid
		sec.Ts.HighLong = t.rHigh.bLong.Mid
	}

	sec.LowRec = t.rLow.rec
	sec.LowBits = t.rLow.index
	sec.LowBands = byte(t.rLow.bandCount())
	sec.HighRec = t.rHigh.rec
	sec.HighBits = t.rHigh.index
	sec.HighBands = byte(t.rHigh.bandCount())

	sec.FirstLow = t.firstLow
	sec.FirstHigh = t.firstHigh
	sec.LastLow = t.lastLow

	if t.rawcode.NbSections == MaxSections {
		t.trk = trkData
		return
	}

	t.rLow.resetSoft()
	t.rHigh.resetSoft()
	if sts != StsContinued {
		t.resetBorders()
	}
}

// ForceStopRecv closes any in-progress section by feeding synthetic
// null-duration edges, then drains the queue. Safe to call from the
// consumer at any time.
func (t *Track) ForceStopRecv() {
	if t.trk != trkRecv {
		return
	}
	t.Eat(edge.Low, 0)
	t.Eat(edge.High, 0)
	if t.trk == trkRecv {
		// The first pair landed on a section boundary; a second pair
		// always errors the rails out.
		t.Eat(edge.Low, 0)
		t.Eat(edge.High, 0)
	}
	t.Drain()
}

// Drain pumps queued edges into the track until the queue empties or a
// full frame is recognized. Returns whether a frame is ready.
func (t *Track) Drain() bool {
	for !t.Done() {
		e, ok := t.ring.Pop()
		if !ok {
			break
		}
		t.Eat(e.Level, e.D)
	}
	return t.Done()
}

// ActivateRecording claims the pin and attaches the edge source. It is a
// no-op when already recording.
func (t *Track) ActivateRecording() error {
	if t.rcvr == nil {
		return nil
	}
	if t.rcvr.Attached() {
		return nil
	}
	if err := edge.Claim(t.cfg.Pin, "track"); err != nil {
		return err
	}
	if err := t.rcvr.Attach(); err != nil {
		edge.Release(t.cfg.Pin)
		return err
	}
	return nil
}

// DeactivateRecording detaches the edge source and releases the pin.
func (t *Track) DeactivateRecording() error {
	if t.rcvr == nil || !t.rcvr.Attached() {
		return nil
	}
	err := t.rcvr.Detach()
	edge.Release(t.cfg.Pin)
	return err
}

// DoEvents activates recording, drains pending edges and reports whether
// a full frame is ready. When it is, recording is deactivated; the next
// DoEvents call activates it again, whether or not the track was reset.
func (t *Track) DoEvents() (bool, error) {
	if err := t.ActivateRecording(); err != nil {
		return false, err
	}
	if t.Drain() {
		if err := t.DeactivateRecording(); err != nil {
			return true, err
		}
		return true, nil
	}
	return false, nil
}

// WaitFree433 blocks until the monitored channel looks idle, to be called
// before transmitting. Recording must be inactive.
func (t *Track) WaitFree433() error {
	if t.rcvr == nil {
		return nil
	}
	if t.rcvr.Attached() {
		return nil
	}
	return edge.WaitFree(t.cfg.Source)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
