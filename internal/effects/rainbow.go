package effects

import (
	"time"

	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

// rainbowPeriod is the hue offset step rate; the whole spectrum drifts
// along the strip as the offset climbs.
const rainbowPeriod = 10 * time.Millisecond

// rainbowState spreads the full hue spectrum evenly across the strip
// and slides it along on a fixed cadence. Saturation and brightness
// follow the visible colour.
type rainbowState struct {
	tick   cadence
	offset uint8
}

func (s *rainbowState) render(now time.Time, visible light.DeviceColor, buf strip.Buffer, reset bool) {
	if reset {
		s.offset = 0
		s.tick = cadence{period: rainbowPeriod}
		s.tick.reset(now)
	}

	if s.tick.due(now) {
		s.offset++
	}

	n := len(buf)
	for i := range buf {
		pixel := light.DeviceColor{
			H: s.offset + uint8(i*256/n),
			S: visible.S,
			V: visible.V,
		}
		red, green, blue := pixel.RGB()
		buf[i] = strip.Pixel{R: red, G: green, B: blue}
	}
}
