// Package engine runs the lighting core: one goroutine that owns the
// canonical state, advances the colour fade, renders the active effect
// every frame, debounces persistence and fans out change notifications.
//
// # Loop Model
//
// All state lives behind a single run loop. Transports never touch it
// directly; they submit decoded updates through Apply or ApplyWait and
// the loop merges them between frames. A command's full consequence
// (state merge, fade retarget, effect reset, notification, persistence
// decision) completes before the next frame renders, so a half-applied
// state is never visible on the strip or the wire.
//
// Reads take a different path: the loop maintains a copy of the state
// behind a read-write mutex, refreshed on every change, so HTTP reads
// and snapshot-on-connect never wait for the loop.
//
// # Persistence Policy
//
// Power and effect changes save immediately. Colour changes are
// debounced: the snapshot is written only once the colour has been
// quiet for the configured delay, which bounds flash wear while a
// client drags a colour slider. Storage failures are logged and the
// engine keeps running in memory.
package engine
