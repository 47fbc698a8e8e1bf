package strip

import "errors"

// Sentinel errors for device construction.
var (
	// ErrUnknownDriver indicates a driver name outside the known set.
	ErrUnknownDriver = errors.New("unknown strip driver")

	// ErrUnsupportedBaud indicates a serial rate with no termios flag.
	ErrUnsupportedBaud = errors.New("unsupported baud rate")

	// ErrWS2811Unavailable indicates the binary was built without the
	// ws2811 tag and cannot drive GPIO strips.
	ErrWS2811Unavailable = errors.New("ws2811 driver not built in")
)
