package light

import (
	"math"
	"time"
)

// Fade interpolates the visible colour between two device-scale colours
// over a fixed duration. Progress is a function of wall-clock time, not
// tick count, so the fade completes on schedule regardless of render
// cadence.
//
// Fade is owned by the engine loop and is not safe for concurrent use.
type Fade struct {
	from     DeviceColor
	to       DeviceColor
	start    time.Time
	duration time.Duration
	done     bool
}

// NewFade creates a fade already settled on the given colour. The first
// Retarget starts the first animated transition.
func NewFade(settled DeviceColor, duration time.Duration) *Fade {
	return &Fade{
		from:     settled,
		to:       settled,
		duration: duration,
		done:     true,
	}
}

// Tick returns the colour visible at now.
//
// Each channel blends linearly and independently; hue travels the
// numeric path between the two values rather than the shortest way
// round the wheel.
func (f *Fade) Tick(now time.Time) DeviceColor {
	if f.done {
		return f.to
	}

	elapsed := now.Sub(f.start)
	if elapsed < 0 {
		return f.from
	}
	if f.duration <= 0 || elapsed >= f.duration {
		f.done = true
		return f.to
	}

	ratio := float64(elapsed) / float64(f.duration)
	return DeviceColor{
		H: lerpChannel(f.from.H, f.to.H, ratio),
		S: lerpChannel(f.from.S, f.to.S, ratio),
		V: lerpChannel(f.from.V, f.to.V, ratio),
	}
}

// Retarget points the fade at a new colour, anchored at whatever colour
// is visible right now. A retarget mid-fade therefore never snaps; the
// transition continues smoothly from the current blend.
//
// Parameters:
//   - now: the current time, used to sample the visible colour
//   - to: the new target colour
func (f *Fade) Retarget(now time.Time, to DeviceColor) {
	f.from = f.Tick(now)
	f.to = to
	f.start = now
	f.done = false
}

// Snap completes the fade immediately on the given colour.
func (f *Fade) Snap(to DeviceColor) {
	f.from = to
	f.to = to
	f.done = true
}

// Done reports whether the fade has settled on its target.
func (f *Fade) Done() bool {
	return f.done
}

// Target returns the colour the fade is heading toward.
func (f *Fade) Target() DeviceColor {
	return f.to
}

// lerpChannel blends a single channel, rounding to the nearest step.
func lerpChannel(from, to uint8, ratio float64) uint8 {
	return uint8(math.Round(float64(from) + (float64(to)-float64(from))*ratio))
}
