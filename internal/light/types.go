package light

import "fmt"

// Logical colour bounds. Hue is degrees on the colour wheel; saturation
// and brightness are percentages.
const (
	HueMax = 359
	SatMax = 100
	ValMax = 100
)

// ColorHSV is a colour in the logical hue/saturation/value space used on
// the wire and in persistence. Value doubles as overall brightness.
type ColorHSV struct {
	Hue int `json:"h"` // 0-359 degrees, wraps
	Sat int `json:"s"` // 0-100 percent, clamps
	Val int `json:"v"` // 0-100 percent, clamps
}

// NormalizeHue wraps an arbitrary hue onto the 0-359 wheel.
// Negative inputs wrap backwards: -10 becomes 350.
func NormalizeHue(h int) int {
	h %= HueMax + 1
	if h < 0 {
		h += HueMax + 1
	}
	return h
}

// ClampPercent bounds a percentage to 0-100.
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Normalized returns a copy with hue wrapped and sat/val clamped.
func (c ColorHSV) Normalized() ColorHSV {
	return ColorHSV{
		Hue: NormalizeHue(c.Hue),
		Sat: ClampPercent(c.Sat),
		Val: ClampPercent(c.Val),
	}
}

// Device maps the logical colour onto the 0-255 scale the renderer and
// fade operate in. 359 degrees maps to 255, 100 percent maps to 255.
func (c ColorHSV) Device() DeviceColor {
	n := c.Normalized()
	return DeviceColor{
		H: uint8(n.Hue * 255 / HueMax),
		S: uint8(n.Sat * 255 / SatMax),
		V: uint8(n.Val * 255 / ValMax),
	}
}

// DeviceColor is a colour on the 0-255 device scale. All rendering and
// fading happens in this space; the logical space exists only at the
// edges (wire, persistence).
type DeviceColor struct {
	H uint8
	S uint8
	V uint8
}

// RGB converts the device-scale HSV colour to RGB channels using integer
// arithmetic. The hue wheel is divided into six 43-step regions.
//
// Returns:
//   - r, g, b: channel intensities 0-255
func (d DeviceColor) RGB() (r, g, b uint8) {
	if d.S == 0 {
		return d.V, d.V, d.V
	}

	region := d.H / 43
	remainder := uint16(d.H-region*43) * 6

	v := uint16(d.V)
	s := uint16(d.S)
	p := uint8((v * (255 - s)) >> 8)
	q := uint8((v * (255 - ((s * remainder) >> 8))) >> 8)
	t := uint8((v * (255 - ((s * (255 - remainder)) >> 8))) >> 8)

	switch region {
	case 0:
		return d.V, t, p
	case 1:
		return q, d.V, p
	case 2:
		return p, d.V, t
	case 3:
		return p, q, d.V
	case 4:
		return t, p, d.V
	default:
		return d.V, p, q
	}
}

// EffectKind identifies one of the built-in procedural effects.
type EffectKind int

// The closed set of effects. EffectNone renders the solid fade colour.
const (
	EffectNone EffectKind = iota
	EffectColorLoop
	EffectTrail
	EffectRainbow
	EffectFire
)

// effectNames holds the wire names in kind order.
var effectNames = [...]string{
	EffectNone:      "none",
	EffectColorLoop: "colorloop",
	EffectTrail:     "trail",
	EffectRainbow:   "rainbow",
	EffectFire:      "fire",
}

// String returns the effect's wire name.
func (e EffectKind) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return fmt.Sprintf("effect(%d)", int(e))
	}
	return effectNames[e]
}

// ParseEffect maps a wire name to its EffectKind.
//
// Returns:
//   - EffectKind: the matching kind
//   - error: ErrUnknownEffect when the name is not in the known set
func ParseEffect(name string) (EffectKind, error) {
	for kind, n := range effectNames {
		if n == name {
			return EffectKind(kind), nil
		}
	}
	return EffectNone, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}

// EffectNames returns the wire names of all effects in a stable order.
// Used by the HTTP effects listing.
func EffectNames() []string {
	names := make([]string, len(effectNames))
	copy(names, effectNames[:])
	return names
}

// State is the canonical lighting state. Exactly one value is live at
// runtime, owned by the engine loop.
type State struct {
	Power  bool       `json:"power"`
	Color  ColorHSV   `json:"color"`
	Effect EffectKind `json:"effect"`
}
