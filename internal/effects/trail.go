package effects

import (
	"time"

	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

const (
	// trailDecayPeriod is how often the whole frame dims a step.
	trailDecayPeriod = 10 * time.Millisecond

	// trailAdvancePeriod is how often the head moves one pixel.
	trailAdvancePeriod = 100 * time.Millisecond

	// trailDecayScale keeps roughly 92 percent of each channel per
	// decay step, leaving a tail a handful of pixels long at the
	// advance rate.
	trailDecayScale = 235
)

// trailState runs a single bright head along the strip, leaving a
// dimming tail in the frame buffer behind it.
type trailState struct {
	decay   cadence
	advance cadence
	pos     int
}

func (s *trailState) render(now time.Time, visible light.DeviceColor, buf strip.Buffer, reset bool, leds int) {
	if reset {
		s.pos = 0
		s.decay = cadence{period: trailDecayPeriod}
		s.advance = cadence{period: trailAdvancePeriod}
		s.decay.reset(now)
		s.advance.reset(now)
		buf.Clear()
	}

	if s.decay.due(now) {
		buf.Dim(trailDecayScale)
	}

	if s.advance.due(now) {
		s.pos = (s.pos + 1) % leds
		red, green, blue := visible.RGB()
		buf[s.pos] = strip.Pixel{R: red, G: green, B: blue}
	}
}
