package effects

import (
	"time"

	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

// colorLoopPeriod is the hue accumulator step rate: one full cycle
// round the wheel takes 256 steps, roughly 2.5 seconds.
const colorLoopPeriod = 10 * time.Millisecond

// colorloopState cycles the whole strip's hue. The accumulator is a
// uint8 so it wraps round the device hue wheel for free.
type colorloopState struct {
	tick   cadence
	offset uint8
}

func (s *colorloopState) render(now time.Time, visible light.DeviceColor, buf strip.Buffer, reset bool) {
	if reset {
		s.offset = 0
		s.tick = cadence{period: colorLoopPeriod}
		s.tick.reset(now)
	}

	if s.tick.due(now) {
		s.offset++
	}

	shifted := light.DeviceColor{
		H: s.offset + visible.H,
		S: visible.S,
		V: visible.V,
	}
	red, green, blue := shifted.RGB()
	buf.Fill(strip.Pixel{R: red, G: green, B: blue})
}
