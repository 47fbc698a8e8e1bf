// Package broker bridges the lighting engine to an MQTT broker.
//
// It handles:
//   - Receiving command payloads on the command topic and handing them
//     to the engine as partial updates
//   - Publishing the retained state snapshot on every accepted change
//
// Availability (online/offline with a Last Will) is handled by the
// infrastructure MQTT client; the bridge only deals in commands and
// state.
//
// The bridge never blocks the engine loop: accepted changes are queued
// to a single publisher goroutine, and only the newest snapshot is kept
// when publishing falls behind. The retained state topic always
// converges on the latest state.
package broker
