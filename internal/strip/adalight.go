package strip

import (
	"fmt"
	"io"
	"syscall"

	"github.com/schleibinger/sio"
)

// adalightHeaderLen is the fixed frame prefix: the magic word, a 16-bit
// LED count and a checksum byte.
const adalightHeaderLen = 6

// Adalight streams frames over a serial port using the Adalight
// protocol: "Ada", the LED count minus one (high byte first), a
// checksum of the count bytes, then raw RGB triplets. The receiving
// sketch resynchronises on the magic word if bytes are lost.
type Adalight struct {
	port  io.WriteCloser
	frame []byte
}

// NewAdalight opens the serial device at the given rate.
//
// Parameters:
//   - device: the serial device path, e.g. "/dev/ttyUSB0"
//   - baud: the line rate; must map to a termios constant
//   - leds: the LED count, used to presize the frame buffer
func NewAdalight(device string, baud, leds int) (*Adalight, error) {
	rate, err := baudFlag(baud)
	if err != nil {
		return nil, err
	}

	port, err := sio.Open(device, rate)
	if err != nil {
		return nil, fmt.Errorf("opening serial device %s: %w", device, err)
	}

	return &Adalight{
		port:  port,
		frame: make([]byte, 0, adalightHeaderLen+leds*3),
	}, nil
}

// Render encodes and writes one frame. The serial write is synchronous;
// at 115200 baud an 8-LED frame takes well under a millisecond.
func (a *Adalight) Render(buf Buffer) error {
	if len(buf) == 0 {
		return nil
	}

	a.frame = appendAdalightFrame(a.frame[:0], buf)
	if _, err := a.port.Write(a.frame); err != nil {
		return fmt.Errorf("writing adalight frame: %w", err)
	}
	return nil
}

// Close releases the serial port.
func (a *Adalight) Close() error {
	if err := a.port.Close(); err != nil {
		return fmt.Errorf("closing serial port: %w", err)
	}
	return nil
}

// appendAdalightFrame encodes one protocol frame after dst.
func appendAdalightFrame(dst []byte, buf Buffer) []byte {
	count := len(buf) - 1
	hi := byte(count >> 8)
	lo := byte(count & 0xff)

	dst = append(dst, 'A', 'd', 'a', hi, lo, hi^lo^0x55)
	for _, p := range buf {
		dst = append(dst, p.R, p.G, p.B)
	}
	return dst
}

// baudFlag maps a numeric rate onto the termios constant sio expects.
func baudFlag(baud int) (uint32, error) {
	switch baud {
	case 9600:
		return syscall.B9600, nil
	case 19200:
		return syscall.B19200, nil
	case 38400:
		return syscall.B38400, nil
	case 57600:
		return syscall.B57600, nil
	case 115200:
		return syscall.B115200, nil
	case 230400:
		return syscall.B230400, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBaud, baud)
	}
}
