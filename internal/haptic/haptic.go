// Package haptic delivers the short feedback pulse played on a near miss.
package haptic

import (
	"sync"
	"time"
)

// Haptic plays a feedback pulse. Implementations must not block the caller.
type Haptic interface {
	Pulse(d time.Duration)
}

// Nop ignores every pulse.
type Nop struct{}

func (Nop) Pulse(time.Duration) {}

// Func adapts a function to Haptic.
type Func func(d time.Duration)

func (f Func) Pulse(d time.Duration) {
	f(d)
}

// Multi fans a pulse out to several devices.
type Multi []Haptic

func (m Multi) Pulse(d time.Duration) {
	for _, h := range m {
		h.Pulse(d)
	}
}

// Recorder keeps every pulse; useful in tests.
type Recorder struct {
	mu     sync.Mutex
	pulses []time.Duration
}

func (r *Recorder) Pulse(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pulses = append(r.pulses, d)
}

// Pulses returns a copy of the recorded durations.
func (r *Recorder) Pulses() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.pulses...)
}
