package effects

import (
	"math/rand"
	"time"

	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

const (
	// firePeriod targets 60 simulation frames per second.
	firePeriod = 16667 * time.Microsecond

	// fireCooling sets how fast cells shed heat. The per-cell random
	// cooling range scales inversely with strip length so flame height
	// stays proportional.
	fireCooling = 55

	// fireSparking is the per-frame spark probability out of 256.
	fireSparking = 120

	// fireSparkZone bounds how far from the base a spark can ignite.
	fireSparkZone = 7

	// fireSparkMinHeat is the smallest heat a new spark injects.
	fireSparkMinHeat = 160
)

// fireState is a cellular heat simulation. Each frame every cell cools
// by a random amount, heat diffuses from the base toward the far end,
// and a spark may ignite near the base. Heat maps to colour through a
// three-stop gradient derived from the visible colour.
type fireState struct {
	tick cadence
	heat []uint8
}

func newFireState(leds int) fireState {
	return fireState{heat: make([]uint8, leds)}
}

func (s *fireState) render(now time.Time, visible light.DeviceColor, buf strip.Buffer, reset bool, rng *rand.Rand) {
	if reset {
		for i := range s.heat {
			s.heat[i] = 0
		}
		s.tick = cadence{period: firePeriod}
		s.tick.reset(now)
		buf.Clear()
	}

	if !s.tick.due(now) {
		return
	}

	n := len(s.heat)
	if n == 0 {
		return
	}

	maxCool := fireCooling*10/n + 2
	if maxCool > 255 {
		maxCool = 255
	}
	for i := range s.heat {
		s.heat[i] = subClamp(s.heat[i], uint8(rng.Intn(maxCool)))
	}

	for k := n - 1; k >= 2; k-- {
		s.heat[k] = uint8((int(s.heat[k-1]) + 2*int(s.heat[k-2])) / 3)
	}

	if rng.Intn(256) < fireSparking {
		zone := fireSparkZone
		if zone > n-1 {
			zone = n - 1
		}
		idx := rng.Intn(zone + 1)
		spark := uint8(fireSparkMinHeat + rng.Intn(256-fireSparkMinHeat))
		s.heat[idx] = addClamp(s.heat[idx], spark)
	}

	mid, top := fireGradient(visible)
	for i, h := range s.heat {
		buf[i] = gradientColour(h, mid, top)
	}
}

// fireGradient derives the two lit gradient stops from the visible
// colour: a three-quarter-brightness flame body and a half-desaturated
// full-brightness tip.
func fireGradient(visible light.DeviceColor) (mid, top strip.Pixel) {
	r, g, b := (light.DeviceColor{H: visible.H, S: visible.S, V: 192}).RGB()
	mid = strip.Pixel{R: r, G: g, B: b}

	r, g, b = (light.DeviceColor{H: visible.H, S: visible.S / 2, V: 255}).RGB()
	top = strip.Pixel{R: r, G: g, B: b}
	return mid, top
}

// gradientColour maps a heat value through black, mid, top. The lower
// half of the heat range blends black to mid, the upper half mid to
// top.
func gradientColour(heat uint8, mid, top strip.Pixel) strip.Pixel {
	if heat < 128 {
		frac := int(heat) * 255 / 127
		return strip.Pixel{
			R: lerp8(0, mid.R, frac),
			G: lerp8(0, mid.G, frac),
			B: lerp8(0, mid.B, frac),
		}
	}

	frac := (int(heat) - 128) * 255 / 127
	return strip.Pixel{
		R: lerp8(mid.R, top.R, frac),
		G: lerp8(mid.G, top.G, frac),
		B: lerp8(mid.B, top.B, frac),
	}
}

// lerp8 blends two channel values by frac/255.
func lerp8(from, to uint8, frac int) uint8 {
	return uint8(int(from) + (int(to)-int(from))*frac/255)
}

// subClamp subtracts with a floor of zero.
func subClamp(v, d uint8) uint8 {
	if d > v {
		return 0
	}
	return v - d
}

// addClamp adds with a ceiling of 255.
func addClamp(v, d uint8) uint8 {
	if int(v)+int(d) > 255 {
		return 255
	}
	return v + d
}
