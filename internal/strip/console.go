package strip

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// consoleFrameGap throttles terminal repaints. Effect cadences run far
// faster than a terminal can usefully redraw.
const consoleFrameGap = 100 * time.Millisecond

// Console renders frames as a carriage-returned row of ANSI true-colour
// cells. Intended for development on machines without LED hardware.
type Console struct {
	w    io.Writer
	gap  time.Duration
	last time.Time
}

// NewConsole creates a console device writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w, gap: consoleFrameGap}
}

// Render repaints the row in place. Frames arriving inside the repaint
// gap are dropped silently; the next frame carries the current state
// anyway.
func (c *Console) Render(buf Buffer) error {
	now := time.Now()
	if now.Sub(c.last) < c.gap {
		return nil
	}
	c.last = now

	var sb strings.Builder
	sb.WriteByte('\r')
	for _, p := range buf {
		fmt.Fprintf(&sb, "\x1b[48;2;%d;%d;%dm  ", p.R, p.G, p.B)
	}
	sb.WriteString("\x1b[0m")

	if _, err := io.WriteString(c.w, sb.String()); err != nil {
		return fmt.Errorf("writing console frame: %w", err)
	}
	return nil
}

// Close resets terminal colours and moves past the painted row.
func (c *Console) Close() error {
	if _, err := io.WriteString(c.w, "\x1b[0m\n"); err != nil {
		return fmt.Errorf("resetting console: %w", err)
	}
	return nil
}
