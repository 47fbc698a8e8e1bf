package engine

import (
	"context"
	"time"

	"github.com/leoclee/wifilight/internal/light"
)

// persistGate bounds snapshot write frequency. Colour changes are
// debounced behind a quiet period; power and effect changes bypass the
// gate through saveNow. With no repository configured every save is a
// no-op and the light runs purely in memory.
type persistGate struct {
	repo  light.Repository
	quiet time.Duration

	lastPersisted    light.ColorHSV
	lastColourChange time.Time
	colourDirty      bool
}

// seed records the colour already on disk so a restart does not count
// as a pending change.
func (g *persistGate) seed(c light.ColorHSV) {
	g.lastPersisted = c
	g.colourDirty = false
}

// markColourChange restarts the quiet period.
func (g *persistGate) markColourChange(now time.Time) {
	g.lastColourChange = now
	g.colourDirty = true
}

// maybeSave persists the state if the colour differs from the last
// persisted colour and has been quiet long enough. At most one write
// happens per call.
//
// Returns:
//   - bool: whether a save occurred
//   - error: the storage failure, if any; the gate stays dirty so a
//     later call retries
func (g *persistGate) maybeSave(ctx context.Context, now time.Time, s light.State) (bool, error) {
	if !g.colourDirty {
		return false, nil
	}
	if now.Sub(g.lastColourChange) <= g.quiet {
		return false, nil
	}
	if s.Color == g.lastPersisted {
		g.colourDirty = false
		return false, nil
	}
	if err := g.saveNow(ctx, s); err != nil {
		return false, err
	}
	return true, nil
}

// saveNow persists the state immediately and settles the gate.
func (g *persistGate) saveNow(ctx context.Context, s light.State) error {
	if g.repo == nil {
		g.lastPersisted = s.Color
		g.colourDirty = false
		return nil
	}
	if err := g.repo.SaveSnapshot(ctx, s); err != nil {
		return err
	}
	g.lastPersisted = s.Color
	g.colourDirty = false
	return nil
}

// pending reports whether a debounced colour change is still waiting.
func (g *persistGate) pending() bool {
	return g.colourDirty
}
