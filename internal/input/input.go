// Package input turns raw terminal bytes into steering for the ship.
package input

import (
	"bufio"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals repeat held keys; gaps between repeats stay below this.
const keyHoldDuration = 60 * time.Millisecond

// Input is the key state for one frame.
type Input struct {
	Quit    bool
	Left    bool
	Right   bool
	Start   bool // Space or Enter
	Escape  bool
	Pressed []byte
}

type keyState struct {
	quit   time.Time
	left   time.Time
	right  time.Time
	start  time.Time
	escape time.Time
}

// Stream delivers input bytes via a channel and tracks key state across frames.
type Stream struct {
	ch     chan byte
	closed bool
	state  keyState
	now    func() time.Time
}

// StartStream spawns a goroutine that reads from r until it fails.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 128),
		now: time.Now,
	}
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes without blocking and returns the keys
// seen within the hold window. A closed stream reports Quit.
func ReadInput(s *Stream) Input {
	now := s.now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI arrow keys: ESC [ C / ESC [ D
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'C':
				s.state.right = now
				i += 2
				continue
			case 'D':
				s.state.left = now
				i += 2
				continue
			case 'A', 'B':
				i += 2
				continue
			}
		}

		applyByteToState(&s.state, b, now)
	}

	held := func(t time.Time) bool { return now.Sub(t) < keyHoldDuration }

	return Input{
		Quit:    s.closed || held(s.state.quit),
		Left:    held(s.state.left),
		Right:   held(s.state.right),
		Start:   held(s.state.start),
		Escape:  held(s.state.escape),
		Pressed: buf,
	}
}

func applyByteToState(state *keyState, b byte, now time.Time) {
	switch b {
	case 'q', 'Q', '\x03': // Ctrl+C
		state.quit = now
	case 'a', 'A', 'h', 'H', 'j', 'J':
		state.left = now
	case 'd', 'D', 'l', 'L':
		state.right = now
	case ' ', '\n', '\r':
		state.start = now
	case '\x1b':
		state.escape = now
	}
}

// Steering converts held left/right keys into a pointer x, the way a finger
// would drag the ship on a touch screen.
type Steering struct {
	X     float64
	Speed float64 // Logical units per frame
}

// NewSteering starts the pointer at x.
func NewSteering(x, speed float64) *Steering {
	return &Steering{X: x, Speed: speed}
}

// Apply moves the pointer and clamps it to [0, width]. It reports whether the
// pointer moved.
func (s *Steering) Apply(in Input, width float64) bool {
	dx := 0.0
	if in.Left {
		dx -= s.Speed
	}
	if in.Right {
		dx += s.Speed
	}
	if dx == 0 {
		return false
	}
	s.X = min(max(s.X+dx, 0), width)
	return true
}
