package rf433any

import (
	"github.com/sebmillet/rf433any/decoder"
	"github.com/sebmillet/rf433any/track"
)

// Track is the public facade: a section recognizer plus decoded-data
// retrieval.
type Track struct {
	*track.Track
}

// NewTrack returns a facade over a freshly constructed track.
func NewTrack(cfg track.Config) *Track {
	return &Track{Track: track.New(cfg)}
}

// GetData builds the decoder chain for the recognized frame, applies
// filter and returns the head. Call after DoEvents reported a full frame
// (or after ForceStopRecv); the caller owns the chain.
func (t *Track) GetData(filter decoder.Filter, convention decoder.Convention) *decoder.Decoder {
	return decoder.Apply(decoder.Build(t.RawCode(), convention), filter)
}
