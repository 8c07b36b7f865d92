package loop

import (
	"math"
	"sync/atomic"
)

var noPointer = math.Float64bits(math.NaN())

// pointerCell holds the most recent pointer x written by the host.
// The update step consumes it; a newer write always replaces an unread one.
type pointerCell struct {
	bits atomic.Uint64
}

func newPointerCell() *pointerCell {
	p := &pointerCell{}
	p.bits.Store(noPointer)
	return p
}

// Store records a pointer position. NaN and infinities are ignored.
func (p *pointerCell) Store(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	p.bits.Store(math.Float64bits(x))
}

// Take returns the latest unread position.
func (p *pointerCell) Take() (float64, bool) {
	x := math.Float64frombits(p.bits.Swap(noPointer))
	if math.IsNaN(x) {
		return 0, false
	}
	return x, true
}
