package edge

import (
	"sync"

	"github.com/pkg/errors"
)

// One recording owner per pin at a time: the interrupt handler is
// process-wide state, two tracks listening to the same pin would corrupt
// each other's duration references.
var (
	registryMu sync.Mutex
	registry   = make(map[int]string)
)

// Claim registers owner as the sole user of pin. It fails if the pin is
// already claimed.
func Claim(pin int, owner string) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if holder, busy := registry[pin]; busy {
		return errors.Errorf("edge: pin %d already claimed by %s", pin, holder)
	}
	registry[pin] = owner
	return nil
}

// Release frees pin for another owner. Releasing an unclaimed pin is a
// no-op.
func Release(pin int) {
	registryMu.Lock()
	defer registryMu.Unlock()

	delete(registry, pin)
}
