// Package effects renders the procedural animations onto the frame
// buffer.
//
// The Renderer dispatches exhaustively on the active effect kind and
// owns each effect's private runtime state (hue accumulators, trail
// position, heat cells). That state is rebuilt from scratch whenever
// the active effect changes, so no effect ever observes another's
// leftovers.
//
// # Timing
//
// Effect speed is a function of wall-clock time, never of call count.
// Each animation advances its accumulators behind a cadence: a
// monotonic next-due timestamp moved forward by a fixed period. Calling
// Render ten times inside one period advances the animation exactly
// once; calling it late advances it once and re-anchors, so a stalled
// loop never triggers a catch-up burst.
//
// # Frame Buffer
//
// Render mutates the caller's buffer in place and relies on it holding
// the previous frame: Trail decays prior pixels and Fire repaints only
// on its own cadence. Callers must pass the same buffer every tick.
package effects
