//go:build !ws2811

package strip

// newWS2811 reports the driver as unavailable. The real implementation
// lives behind the ws2811 build tag because it links against the
// rpi_ws281x C library.
func newWS2811(gpioPin, brightness, leds int) (Device, error) {
	return nil, ErrWS2811Unavailable
}
