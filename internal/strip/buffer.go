package strip

// Pixel is a single LED value in RGB channel order.
type Pixel struct {
	R uint8
	G uint8
	B uint8
}

// Buffer is the working frame, one Pixel per LED. Effects mutate it in
// place; drivers only ever read it.
type Buffer []Pixel

// NewBuffer allocates a black frame for n LEDs.
func NewBuffer(n int) Buffer {
	return make(Buffer, n)
}

// Fill sets every pixel to the same colour.
func (b Buffer) Fill(p Pixel) {
	for i := range b {
		b[i] = p
	}
}

// Clear blacks out the frame.
func (b Buffer) Clear() {
	b.Fill(Pixel{})
}

// Dim scales every channel by scale/256. Repeated application decays
// the frame toward black; a scale of 235 keeps roughly 92 percent per
// pass.
func (b Buffer) Dim(scale uint8) {
	s := uint16(scale)
	for i := range b {
		b[i].R = uint8(uint16(b[i].R) * s >> 8)
		b[i].G = uint8(uint16(b[i].G) * s >> 8)
		b[i].B = uint8(uint16(b[i].B) * s >> 8)
	}
}

// Clone returns an independent copy of the frame.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	copy(out, b)
	return out
}
