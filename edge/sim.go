package edge

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SimSource replays a vector of recorded durations instead of listening
// to a pin, inventing alternating levels. It is the host-side test and
// bench front end.
type SimSource struct {
	durations []uint16

	// FirstLevel is the level the first duration is attributed to.
	// Recorded remote frames start with the long initialization pulse,
	// hence the default High.
	FirstLevel Level

	handler Handler
}

// NewSimSource returns a source replaying durations, first one High.
func NewSimSource(durations []uint16) *SimSource {
	return &SimSource{durations: durations, FirstLevel: High}
}

// Attach stores the handler. Nothing fires until Run is called.
func (s *SimSource) Attach(h Handler) error {
	if s.handler != nil {
		return errors.New("sim: handler already attached")
	}
	s.handler = h
	return nil
}

// Detach removes the handler.
func (s *SimSource) Detach() error {
	s.handler = nil
	return nil
}

// Run replays the whole vector through the attached handler, one callback
// per transition, with a synthetic clock advancing by each duration. The
// callback carries the level that lasted the duration, like a real pin.
func (s *SimSource) Run() error {
	if s.handler == nil {
		return errors.New("sim: no handler attached")
	}
	var now uint32
	l := s.FirstLevel
	for _, d := range s.durations {
		now += uint32(d)
		s.handler(l, now)
		l ^= 1
	}
	return nil
}

// ReadDurations parses a recorded duration file: one or more base-10
// microsecond values per line, separated by spaces or commas, '#' starting
// a comment. Values above MaxDuration saturate.
func ReadDurations(r io.Reader) ([]uint16, error) {
	var out []uint16

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		for _, field := range strings.FieldsFunc(text, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		}) {
			v, err := strconv.ParseUint(field, 10, 32)
			if err != nil {
				return nil, errors.Wrapf(err, "durations: line %d", line)
			}
			if v > MaxDuration {
				v = MaxDuration
			}
			out = append(out, uint16(v))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "durations: read")
	}

	return out, nil
}
