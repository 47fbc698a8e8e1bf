package strip

import (
	"fmt"
	"os"

	"github.com/leoclee/wifilight/internal/infrastructure/config"
)

// Driver names accepted in the strip configuration.
const (
	DriverConsole  = "console"
	DriverNull     = "null"
	DriverAdalight = "adalight"
	DriverWS2811   = "ws2811"
)

// Device is the hardware boundary. Render pushes one complete frame;
// implementations must not retain the buffer after returning.
type Device interface {
	Render(buf Buffer) error
	Close() error
}

// NewDevice builds the configured driver, wrapped for reversed strips.
//
// Parameters:
//   - cfg: the strip section of the configuration
//
// Returns:
//   - Device: the ready-to-render device
//   - error: ErrUnknownDriver, ErrWS2811Unavailable, or a driver error
//     such as a serial device that cannot be opened
func NewDevice(cfg config.StripConfig) (Device, error) {
	var (
		dev Device
		err error
	)

	switch cfg.Driver {
	case DriverConsole:
		dev = NewConsole(os.Stdout)
	case DriverNull:
		dev = NewNull()
	case DriverAdalight:
		dev, err = NewAdalight(cfg.Adalight.Device, cfg.Adalight.Baud, cfg.Leds)
	case DriverWS2811:
		dev, err = newWS2811(cfg.WS2811.GPIOPin, cfg.WS2811.Brightness, cfg.Leds)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Reversed {
		dev = &reversed{inner: dev}
	}
	return dev, nil
}

// reversed flips pixel order before delegating, so effects that travel
// along the strip run the other way.
type reversed struct {
	inner   Device
	scratch Buffer
}

func (r *reversed) Render(buf Buffer) error {
	if len(r.scratch) != len(buf) {
		r.scratch = make(Buffer, len(buf))
	}
	last := len(buf) - 1
	for i, p := range buf {
		r.scratch[last-i] = p
	}
	return r.inner.Render(r.scratch)
}

func (r *reversed) Close() error {
	return r.inner.Close()
}
