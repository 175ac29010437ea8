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

// rf433dump decodes 433MHz OOK remote control frames, either replayed
// from a recorded duration file or received live through an rtl_tcp
// server, and prints one line (or record) per decoded candidate.
package main

import (
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sebmillet/rf433any"
	"github.com/sebmillet/rf433any/decoder"
	"github.com/sebmillet/rf433any/edge"
	"github.com/sebmillet/rf433any/rtlsrc"
	"github.com/sebmillet/rf433any/track"
)

func setupLogging() *logrus.Logger {
	log := logrus.StandardLogger()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("bad -loglevel")
	}
	log.SetLevel(level)

	if *logFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}

	return log
}

func main() {
	EnvOverride()
	flag.Parse()

	if *configFile != "" {
		cfg, err := LoadConfig(*configFile)
		if err != nil {
			logrus.WithError(err).Fatal("cannot load configuration")
		}
		ApplyConfig(cfg)
	}

	HandleFlags()
	log := setupLogging()

	filter := filterFromFlags()
	conv := conventionFromFlags()

	if *durationsFile != "" {
		runSim(log, filter, conv)
		return
	}

	runLive(log, filter, conv)
}

// runSim decodes a recorded duration file in one pass.
func runSim(log *logrus.Logger, filter decoder.Filter, conv decoder.Convention) {
	f, err := os.Open(*durationsFile)
	if err != nil {
		log.WithError(err).Fatal("cannot open duration file")
	}
	durs, err := edge.ReadDurations(f)
	f.Close()
	if err != nil {
		log.WithError(err).Fatal("cannot parse duration file")
	}
	log.WithField("count", len(durs)).Info("replaying durations")

	src := edge.NewSimSource(durs)
	trk := rf433any.NewTrack(track.Config{
		Pin:      *pin,
		Mood:     moodFromFlags(),
		Source:   src,
		RingSize: len(durs) + 1,
		Logger:   log,
	})

	if err := trk.ActivateRecording(); err != nil {
		log.WithError(err).Fatal("cannot activate recording")
	}
	if err := src.Run(); err != nil {
		log.WithError(err).Fatal("replay failed")
	}

	done, err := trk.DoEvents()
	if err != nil {
		log.WithError(err).Fatal("decode failed")
	}
	if !done {
		trk.ForceStopRecv()
	}

	printed := printChain(log, trk, filter, conv)
	if printed == 0 {
		log.Info("no code decoded")
	}
}

// runLive decodes frames from an rtl_tcp server until interrupted.
func runLive(log *logrus.Logger, filter decoder.Filter, conv decoder.Convention) {
	src, err := rtlsrc.New(rtlsrc.Config{
		Addr:       *server,
		CenterFreq: uint32(*centerFreq),
		SampleRate: uint32(*sampleRate),
		Logger:     log,
	})
	if err != nil {
		log.WithError(err).Fatal("cannot reach rtl_tcp server")
	}
	defer src.Close()

	trk := rf433any.NewTrack(track.Config{
		Pin:      *pin,
		Mood:     moodFromFlags(),
		Source:   src,
		RingSize: 1 << 12,
		Logger:   log,
	})

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)

	tLimit := make(<-chan time.Time, 1)
	if *timeLimit != 0 {
		tLimit = time.After(*timeLimit)
	}
	start := time.Now()

	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-sigint:
			trk.DeactivateRecording()
			return
		case <-tLimit:
			log.Info("time limit reached: ", time.Since(start))
			trk.DeactivateRecording()
			return
		case <-tick.C:
			done, err := trk.DoEvents()
			if err != nil {
				log.WithError(err).Fatal("decode failed")
			}
			if !done {
				continue
			}

			printed := printChain(log, trk, filter, conv)
			log.WithField("max_pending", trk.MaxPending()).
				Debug("frame processed")
			trk.Reset()

			if printed > 0 && *single {
				return
			}
		}
	}
}

func printChain(log *logrus.Logger, trk *rf433any.Track, filter decoder.Filter, conv decoder.Convention) int {
	printed := 0
	for node := trk.GetData(filter, conv); node != nil; node = node.Next() {
		if err := encoder.Encode(NewFrameMessage(node)); err != nil {
			log.WithError(err).Fatal("cannot encode frame")
		}
		printed++
	}
	return printed
}
