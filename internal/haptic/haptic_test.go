package haptic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMultiFansOut(t *testing.T) {
	var a, b Recorder
	var calls int
	h := Multi{&a, &b, Func(func(time.Duration) { calls++ }), Nop{}}

	h.Pulse(100 * time.Millisecond)
	h.Pulse(50 * time.Millisecond)

	want := []time.Duration{100 * time.Millisecond, 50 * time.Millisecond}
	assert.Equal(t, want, a.Pulses())
	assert.Equal(t, want, b.Pulses())
	assert.Equal(t, 2, calls)
}

func TestBeepDropsPulsesUntilInitialized(t *testing.T) {
	b := NewBeep(nil)
	assert.NotPanics(t, func() {
		b.Pulse(100 * time.Millisecond)
		b.Close()
	})
}
