package haptic

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	pulseTone  = 180 // Hz; low enough to read as a thump
)

// Beep turns pulses into a short tone on the default audio device,
// standing in for vibration on hosts without a motor.
type Beep struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	logger      *log.Logger
}

// NewBeep creates an uninitialized tone player.
func NewBeep(logger *log.Logger) *Beep {
	if logger == nil {
		logger = log.Default()
	}
	return &Beep{
		mixer:  &beep.Mixer{},
		logger: logger,
	}
}

// Initialize opens the speaker. Failing to open it is not fatal: pulses are dropped.
func (b *Beep) Initialize() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	speaker.Play(b.mixer)
	b.initialized = true
	return nil
}

// Pulse queues a tone of length d on the mixer.
func (b *Beep) Pulse(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized || d <= 0 {
		return
	}

	tone, err := generators.SineTone(sampleRate, pulseTone)
	if err != nil {
		b.logger.Debug("tone generator failed", "err", err)
		return
	}

	speaker.Lock()
	b.mixer.Add(beep.Take(sampleRate.N(d), tone))
	speaker.Unlock()
}

// Close silences the mixer.
func (b *Beep) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}

	speaker.Lock()
	b.mixer.Clear()
	speaker.Unlock()
	b.initialized = false
}
