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

package main

import (
	"encoding/json"
	"encoding/xml"
	"flag"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sebmillet/rf433any/csv"
	"github.com/sebmillet/rf433any/decoder"
	"github.com/sebmillet/rf433any/track"
)

var (
	configFile = flag.String("config", "", "yaml configuration file; flags given on the command line win")

	durationsFile = flag.String("durations", "", "decode a recorded duration file instead of listening")
	server        = flag.String("server", "", "rtl_tcp server address, ex. 127.0.0.1:1234")
	centerFreq    = flag.Uint("centerfreq", 0, "rtl_tcp center frequency in Hz, 0 for 433.92MHz")
	sampleRate    = flag.Uint("samplerate", 0, "rtl_tcp sample rate in Hz, 0 for default")

	pin        = flag.Int("pin", 2, "logical pin number identifying the recording slot")
	moodFlag   = flag.String("mood", "laxist", "band widening discipline: laxist or strict")
	convention = flag.Int("convention", 0, "bit polarity for symmetric codings: 0 or 1")

	showAll    = flag.Bool("all", false, "keep every candidate, raw and failed included")
	withErrors = flag.Bool("witherrors", false, "keep candidates that decoded with errors")
	noDedup    = flag.Bool("nodedup", false, "do not fold repeated identical codes")
	triOnly    = flag.Bool("tri", false, "keep only tri-bit codes")
	trnOnly    = flag.Bool("trn", false, "keep only inverted tri-bit codes")
	manOnly    = flag.Bool("man", false, "keep only Manchester codes")

	format    = flag.String("format", "plain", "decoded frame output format: plain, csv, json, or xml")
	single    = flag.Bool("single", false, "one shot execution, exit after the first decoded frame")
	timeLimit = flag.Duration("duration", 0, "time to run for, 0 for infinite, ex. 1h5m10s")

	logLevel = flag.String("loglevel", "info", "log verbosity: debug, info, warn, error")
	logFile  = flag.String("logfile", "", "log destination with rotation; empty for stderr")
)

// Encoder is satisfied by the JSON, XML and CSV encoders alike, so output
// formatting stays one interface.
type Encoder interface {
	Encode(interface{}) error
}

var encoder Encoder

// PlainEncoder prints each decoded frame on one line.
type PlainEncoder struct{}

func (pe PlainEncoder) Encode(msg interface{}) error {
	if m, ok := msg.(FrameMessage); ok {
		_, err := os.Stdout.WriteString(m.String() + "\n")
		return err
	}
	_, err := os.Stdout.WriteString("(?)\n")
	return err
}

type csvEncoder struct {
	enc         *csv.Encoder
	wroteHeader bool
}

func (ce *csvEncoder) Encode(msg interface{}) error {
	if !ce.wroteHeader {
		ce.wroteHeader = true
		if err := ce.enc.EncodeHeader(decoder.RecordFields); err != nil {
			return err
		}
	}
	if m, ok := msg.(FrameMessage); ok {
		return ce.enc.Encode(m.node)
	}
	return ce.enc.Encode(msg)
}

// EnvOverride lets RF433DUMP_<FLAG> environment variables override flag
// defaults, without shadowing explicit command-line values.
func EnvOverride() {
	flag.VisitAll(func(f *flag.Flag) {
		envName := "RF433DUMP_" + strings.ToUpper(f.Name)
		flagValue := os.Getenv(envName)
		if flagValue == "" {
			return
		}
		if err := flag.Set(f.Name, flagValue); err != nil {
			logrus.WithError(err).Warnf("environment variable %q failed to override flag %q", envName, f.Name)
		}
	})
}

// HandleFlags finalizes flag-derived state once parsing is done.
func HandleFlags() {
	*format = strings.ToLower(*format)
	switch *format {
	case "plain":
		encoder = PlainEncoder{}
	case "csv":
		encoder = &csvEncoder{enc: csv.NewEncoder(os.Stdout)}
	case "json":
		encoder = json.NewEncoder(os.Stdout)
	case "xml":
		encoder = xml.NewEncoder(os.Stdout)
	default:
		logrus.Fatalf("unknown output format %q", *format)
	}
}

func filterFromFlags() decoder.Filter {
	if *showAll {
		return decoder.FilterAll
	}

	filter := decoder.FilterDecoded
	if !*withErrors {
		filter |= decoder.FilterNoError
	}
	if !*noDedup {
		filter |= decoder.FilterDedup
	}
	if *triOnly {
		filter |= decoder.FilterTri
	}
	if *trnOnly {
		filter |= decoder.FilterTrn
	}
	if *manOnly {
		filter |= decoder.FilterMan
	}
	return filter
}

func moodFromFlags() track.Mood {
	switch strings.ToLower(*moodFlag) {
	case "strict":
		return track.MoodStrict
	case "laxist":
		return track.MoodLaxist
	default:
		logrus.Fatalf("unknown mood %q", *moodFlag)
		return track.MoodLaxist
	}
}

func conventionFromFlags() decoder.Convention {
	switch *convention {
	case 0:
		return decoder.Conv0
	case 1:
		return decoder.Conv1
	default:
		logrus.Fatalf("convention must be 0 or 1, got %d", *convention)
		return decoder.Conv0
	}
}

// FrameMessage associates one decoded frame with its reception time, for
// structured output formats.
type FrameMessage struct {
	Time    time.Time `xml:",attr"`
	Kind    string    `xml:",attr"`
	Bits    int       `xml:",attr"`
	Errors  int       `xml:",attr"`
	Data    string    `xml:",attr"`
	Repeats int       `xml:",attr"`
	Timings decoder.TimingsExt

	node *decoder.Decoder
}

func NewFrameMessage(node *decoder.Decoder) FrameMessage {
	data := ""
	if v := node.Data(); v != nil {
		data = v.String()
	}
	return FrameMessage{
		Time:    time.Now(),
		Kind:    string(node.Kind().Letter()),
		Bits:    node.NbBits(),
		Errors:  node.NbErrors(),
		Data:    data,
		Repeats: node.Repeats(),
		Timings: node.Tsext(),
		node:    node,
	}
}

func (m FrameMessage) String() string {
	return m.Time.Format("2006-01-02T15:04:05.000") + " " + m.node.String()
}
