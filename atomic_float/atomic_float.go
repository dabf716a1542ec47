package atomic_float

import (
	"math"
	"sync/atomic"
)

// AtomicFloat64 is a float64 for lock-free reads and compare-and-swap updates.
// The bits are held in an atomic.Uint64, so the zero value is 0.0 and ready to use.
type AtomicFloat64 struct {
	bits atomic.Uint64
}

// NewAtomicFloat64 returns a cell holding val.
func NewAtomicFloat64(val float64) *AtomicFloat64 {
	af := &AtomicFloat64{}
	af.bits.Store(math.Float64bits(val))
	return af
}

// AtomicRead loads the current value.
func (af *AtomicFloat64) AtomicRead() float64 {
	return math.Float64frombits(af.bits.Load())
}

// AtomicAdd attempts a single compare-and-swap of value+addend.
// If another writer changed the value in between, nothing is written and succeeded is false,
// leaving the caller to retry, recompute or drop the update.
func (af *AtomicFloat64) AtomicAdd(addend float64) (newVal float64, succeeded bool) {
	old := af.bits.Load()
	newVal = math.Float64frombits(old) + addend
	succeeded = af.bits.CompareAndSwap(old, math.Float64bits(newVal))
	return
}

// AtomicSet stores newVal unconditionally.
func (af *AtomicFloat64) AtomicSet(newVal float64) {
	af.bits.Store(math.Float64bits(newVal))
}

// Add retries AtomicAdd until it lands.
func (af *AtomicFloat64) Add(addend float64) (newVal float64) {
	for {
		var ok bool
		if newVal, ok = af.AtomicAdd(addend); ok {
			return
		}
	}
}
