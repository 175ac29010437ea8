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

// Package rtlsrc provides an edge source backed by an rtl_tcp server: it
// demodulates the OOK envelope from the IQ stream and reports line
// transitions as if a receiver module were wired to a pin. Timing comes
// from the sample counter, so the source is suitable for bench decoding,
// not for real-time work.
package rtlsrc

import (
	"io"
	"net"
	"sync"

	"github.com/bemasher/rtltcp"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sebmillet/rf433any/edge"
)

// Defaults for the 433.92MHz ISM band.
const (
	DefaultCenterFreq = 433920000
	DefaultSampleRate = 1024000
	DefaultBlockSize  = 16384
)

// Hysteresis thresholds on the normalized magnitude (0..2): the envelope
// switches high above On and back low below Off.
const (
	DefaultThresholdOn  = 0.10
	DefaultThresholdOff = 0.05
)

// Config parameterizes a Source. Zero fields take the defaults above.
type Config struct {
	// Addr is the rtl_tcp server address, host:port. Empty means
	// 127.0.0.1:1234.
	Addr string

	CenterFreq uint32
	SampleRate uint32
	BlockSize  int

	ThresholdOn  float64
	ThresholdOff float64

	Logger logrus.FieldLogger
}

// Source is an edge.Source demodulating an rtl_tcp IQ stream.
type Source struct {
	rtltcp.SDR

	cfg Config
	log logrus.FieldLogger
	lut magLUT

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New connects to the rtl_tcp server and tunes it. The connection stays
// open until Close.
func New(cfg Config) (*Source, error) {
	if cfg.CenterFreq == 0 {
		cfg.CenterFreq = DefaultCenterFreq
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	if cfg.ThresholdOn == 0 {
		cfg.ThresholdOn = DefaultThresholdOn
	}
	if cfg.ThresholdOff == 0 {
		cfg.ThresholdOff = DefaultThresholdOff
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Source{cfg: cfg, log: log, lut: newMagLUT()}

	var addr *net.TCPAddr
	if cfg.Addr != "" {
		var err error
		addr, err = net.ResolveTCPAddr("tcp", cfg.Addr)
		if err != nil {
			return nil, errors.Wrapf(err, "rtlsrc: resolve %q", cfg.Addr)
		}
	}

	if err := s.Connect(addr); err != nil {
		return nil, errors.Wrap(err, "rtlsrc: connect")
	}

	if err := s.SetCenterFreq(cfg.CenterFreq); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "rtlsrc: set center frequency")
	}
	if err := s.SetSampleRate(cfg.SampleRate); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "rtlsrc: set sample rate")
	}
	if err := s.SetGainMode(true); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "rtlsrc: set gain mode")
	}

	log.WithFields(logrus.Fields{
		"centerfreq": cfg.CenterFreq,
		"samplerate": cfg.SampleRate,
	}).Info("rtlsrc: connected")

	return s, nil
}

// Attach starts the demodulation loop feeding h.
func (s *Source) Attach(h edge.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		return errors.New("rtlsrc: handler already attached")
	}
	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.run(h, s.stop)
	return nil
}

// Detach stops the demodulation loop. The server connection stays open
// for a later Attach.
func (s *Source) Detach() error {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return nil
	}
	close(s.stop)
	s.stop = nil
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

func (s *Source) run(h edge.Handler, stop chan struct{}) {
	defer s.wg.Done()

	block := make([]byte, s.cfg.BlockSize<<1)

	// Microseconds per sample, fixed-point with 2^16 fractional bits so
	// sample counts convert to the handler's microsecond clock without
	// float drift.
	usPerSample := (uint64(1000000) << 16) / uint64(s.cfg.SampleRate)

	level := edge.Low
	var nSamples uint64

	for {
		select {
		case <-stop:
			return
		default:
		}

		if _, err := io.ReadFull(s, block); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				s.log.WithError(err).Warn("rtlsrc: stream ended")
				return
			}
			if opErr, ok := err.(*net.OpError); ok && opErr.Temporary() {
				s.log.WithError(opErr).Warn("rtlsrc: temporary read error")
				continue
			}
			s.log.WithError(err).Error("rtlsrc: read")
			return
		}

		for i := 0; i+1 < len(block); i += 2 {
			nSamples++
			mag := s.lut[block[i]] + s.lut[block[i+1]]

			next := level
			if level == edge.Low && mag >= s.cfg.ThresholdOn {
				next = edge.High
			} else if level == edge.High && mag < s.cfg.ThresholdOff {
				next = edge.Low
			}
			if next == level {
				continue
			}

			now := uint32((nSamples * usPerSample) >> 16)
			h(level, now)
			level = next
		}
	}
}

// A magLUT pre-computes normalized squares of the 8-bit IQ samples with
// the most common DC offset for rtl-sdr dongles.
type magLUT []float64

func newMagLUT() (lut magLUT) {
	lut = make([]float64, 0x100)
	for idx := range lut {
		lut[idx] = (127.5 - float64(idx)) / 127.5
		lut[idx] *= lut[idx]
	}
	return
}
