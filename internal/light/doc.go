// Package light defines the canonical lighting state and its lifecycle.
//
// This package owns:
//   - The logical colour model (hue 0-359, saturation/brightness 0-100)
//     and its mapping onto the 0-255 device scale used for rendering
//   - The closed set of effect kinds
//   - Partial state updates decoded from transport payloads
//   - The state store that merges updates and reports what changed
//   - The timed colour fade between the previous and new target colour
//   - The snapshot wire format shared by all transports and persistence
//   - The SQLite repository for snapshots and the device identity
//
// # State Model
//
// Exactly one State value is canonical at runtime. It is owned by the
// engine loop; transports never mutate it directly. They decode payloads
// into Update values and hand them to the engine, which merges them via
// Store.ApplyUpdate and reacts to the returned ChangeSet.
//
// # Error Handling
//
// A payload that is not valid JSON fails DecodeUpdate and the command is
// dropped whole. A payload that is valid JSON but carries a wrong-typed
// or unknown field loses only that field; the remaining fields still
// apply. Out-of-range numbers are normalised, not rejected: hue wraps
// modulo 360, percentages clamp to 0-100.
package light
