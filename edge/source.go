package edge

// A Handler receives one callback per line transition: the level the line
// held since the previous transition, and a monotonic microsecond
// timestamp of the transition itself.
type Handler func(l Level, now uint32)

// A Source is an edge-triggered interrupt capability: a GPIO pin, an SDR
// envelope detector, or a simulation.
type Source interface {
	Attach(Handler) error
	Detach() error
}

// Receiver binds a Source to a Ring: it turns timestamped callbacks into
// saturated (level, duration) edges. lastT is touched only from the
// producer context.
type Receiver struct {
	src      Source
	ring     *Ring
	lastT    uint32
	attached bool
}

// NewReceiver returns a receiver queueing into ring. The ring may be
// shared with the consumer but not with another receiver.
func NewReceiver(src Source, ring *Ring) *Receiver {
	return &Receiver{src: src, ring: ring}
}

// Attach resets the duration reference and starts feeding the ring. The
// first edge after Attach measures time since the reset; its duration is
// meaningless on live sources and saturates quickly.
func (rc *Receiver) Attach() error {
	if rc.attached {
		return nil
	}
	rc.lastT = 0
	if err := rc.src.Attach(rc.handle); err != nil {
		return err
	}
	rc.attached = true
	return nil
}

// Detach stops feeding the ring. Pending edges stay readable.
func (rc *Receiver) Detach() error {
	if !rc.attached {
		return nil
	}
	rc.attached = false
	return rc.src.Detach()
}

// Attached reports whether the receiver is currently feeding the ring.
func (rc *Receiver) Attached() bool {
	return rc.attached
}

// Ring returns the ring the receiver feeds.
func (rc *Receiver) Ring() *Ring {
	return rc.ring
}

func (rc *Receiver) handle(l Level, now uint32) {
	d := now - rc.lastT // wraps correctly on uint32 overflow
	rc.lastT = now
	if d > MaxDuration {
		d = MaxDuration
	}
	rc.ring.Push(Edge{Level: l, D: uint16(d)})
}
