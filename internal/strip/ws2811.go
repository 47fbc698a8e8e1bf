//go:build ws2811

package strip

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
)

// WS2811 drives GPIO-attached WS281x strips through the rpi_ws281x C
// library. Requires root for DMA access.
type WS2811 struct {
	dev *ws2811.WS2811
}

// newWS2811 initialises channel 0 on the given GPIO pin.
func newWS2811(gpioPin, brightness, leds int) (Device, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = gpioPin
	opt.Channels[0].Brightness = brightness
	opt.Channels[0].LedCount = leds

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("creating ws2811 device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("initialising ws2811 device: %w", err)
	}
	return &WS2811{dev: dev}, nil
}

// Render copies the frame into the driver's DMA buffer and latches it.
func (w *WS2811) Render(buf Buffer) error {
	leds := w.dev.Leds(0)
	n := len(buf)
	if n > len(leds) {
		n = len(leds)
	}
	for i := 0; i < n; i++ {
		p := buf[i]
		leds[i] = uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
	}

	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("rendering ws2811 frame: %w", err)
	}
	return nil
}

// Close blacks out the strip and releases the DMA channel.
func (w *WS2811) Close() error {
	for i := range w.dev.Leds(0) {
		w.dev.Leds(0)[i] = 0
	}
	//nolint:errcheck // final blackout is best-effort during shutdown
	w.dev.Render()
	w.dev.Fini()
	return nil
}
