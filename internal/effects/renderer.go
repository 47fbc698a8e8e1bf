package effects

import (
	"math/rand"
	"time"

	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

// Renderer paints the active effect into the frame buffer. It is owned
// by the engine loop and is not safe for concurrent use.
type Renderer struct {
	leds   int
	effect light.EffectKind
	reset  bool
	rng    *rand.Rand

	colorloop colorloopState
	trail     trailState
	rainbow   rainbowState
	fire      fireState
}

// NewRenderer creates a renderer for a strip of the given length,
// starting on the solid-colour effect.
func NewRenderer(leds int) *Renderer {
	return &Renderer{
		leds: leds,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
		fire: newFireState(leds),
	}
}

// Effect returns the active effect kind.
func (r *Renderer) Effect() light.EffectKind {
	return r.effect
}

// SetEffect switches the active effect. The change marks the next
// render pass to rebuild that effect's runtime state from scratch;
// selecting the already-active effect does nothing.
func (r *Renderer) SetEffect(kind light.EffectKind) {
	if kind == r.effect {
		return
	}
	r.effect = kind
	r.reset = true
}

// Render paints one frame into buf using the colour currently visible
// on the fade. The buffer must be the same one on every call; Trail and
// Fire build on the previous frame.
//
// Parameters:
//   - now: the current time, drives all cadence gating
//   - visible: the fade's current device-scale colour
//   - buf: the persistent frame buffer, mutated in place
func (r *Renderer) Render(now time.Time, visible light.DeviceColor, buf strip.Buffer) {
	reset := r.reset
	r.reset = false

	switch r.effect {
	case light.EffectNone:
		renderSolid(visible, buf)
	case light.EffectColorLoop:
		r.colorloop.render(now, visible, buf, reset)
	case light.EffectTrail:
		r.trail.render(now, visible, buf, reset, r.leds)
	case light.EffectRainbow:
		r.rainbow.render(now, visible, buf, reset)
	case light.EffectFire:
		r.fire.render(now, visible, buf, reset, r.rng)
	default:
		renderSolid(visible, buf)
	}
}

// renderSolid paints every pixel with the visible colour. No cadence;
// the solid frame tracks the fade directly.
func renderSolid(visible light.DeviceColor, buf strip.Buffer) {
	red, green, blue := visible.RGB()
	buf.Fill(strip.Pixel{R: red, G: green, B: blue})
}
