package input

import (
	"bufio"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamWith(now *time.Time, data string) *Stream {
	s := newStream()
	s.now = func() time.Time { return *now }
	for i := 0; i < len(data); i++ {
		s.ch <- data[i]
	}
	return s
}

func TestReadInputKeys(t *testing.T) {
	now := time.Unix(100, 0)

	tests := []struct {
		name string
		data string
		want Input
	}{
		{"left letter", "a", Input{Left: true}},
		{"right vim", "l", Input{Right: true}},
		{"left arrow", "\x1b[D", Input{Left: true}},
		{"right arrow", "\x1b[C", Input{Right: true}},
		{"up arrow ignored", "\x1b[A", Input{}},
		{"start space", " ", Input{Start: true}},
		{"start enter", "\r", Input{Start: true}},
		{"quit", "q", Input{Quit: true}},
		{"ctrl c", "\x03", Input{Quit: true}},
		{"lone escape", "\x1b", Input{Escape: true}},
		{"both directions", "ad", Input{Left: true, Right: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReadInput(streamWith(&now, tt.data))
			tt.want.Pressed = []byte(tt.data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadInputHoldWindow(t *testing.T) {
	now := time.Unix(100, 0)
	s := streamWith(&now, "d")

	assert.True(t, ReadInput(s).Right)

	now = now.Add(keyHoldDuration / 2)
	assert.True(t, ReadInput(s).Right, "key stays held between repeats")

	now = now.Add(keyHoldDuration)
	assert.False(t, ReadInput(s).Right)
}

func TestStartStreamReportsQuitOnEOF(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("a")))

	require.Eventually(t, func() bool {
		return ReadInput(s).Quit
	}, time.Second, time.Millisecond)
	assert.True(t, s.Closed())
}

func TestSteeringClamps(t *testing.T) {
	st := NewSteering(50, 30)

	assert.True(t, st.Apply(Input{Left: true}, 100))
	assert.Equal(t, 20.0, st.X)

	st.Apply(Input{Left: true}, 100)
	assert.Equal(t, 0.0, st.X)

	st.Apply(Input{Right: true}, 100)
	st.Apply(Input{Right: true}, 100)
	st.Apply(Input{Right: true}, 100)
	st.Apply(Input{Right: true}, 100)
	assert.Equal(t, 100.0, st.X)

	assert.False(t, st.Apply(Input{Left: true, Right: true}, 100))
	assert.False(t, st.Apply(Input{}, 100))
}
