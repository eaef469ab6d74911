package reveal

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestStaticMotion(t *testing.T) {
	assert.True(t, StaticMotion(true).ReducedMotion())
	assert.False(t, StaticMotion(false).ReducedMotion())
}

func TestTerminalMotion(t *testing.T) {
	tests := []struct {
		name    string
		forced  bool
		profile termenv.Profile
		want    bool
	}{
		{"forced", true, termenv.TrueColor, true},
		{"ascii terminal", false, termenv.Ascii, true},
		{"ansi terminal", false, termenv.ANSI, false},
		{"truecolor terminal", false, termenv.TrueColor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := tt.profile
			m := &TerminalMotion{Forced: tt.forced, profile: func() termenv.Profile { return profile }}
			assert.Equal(t, tt.want, m.ReducedMotion())
		})
	}
}

func TestTerminalMotionChecksOncePerStart(t *testing.T) {
	checks := 0
	m := &TerminalMotion{profile: func() termenv.Profile {
		checks++
		return termenv.TrueColor
	}}

	a := NewAnimation("m1", "abc", Options{Motion: m, Jitter: zeroJitter}, nil, nil)
	tick, ok := a.Start()
	for ok {
		tick, ok = a.Advance(tick.Gen)
	}
	assert.Equal(t, 1, checks)
}
