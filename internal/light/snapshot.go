package light

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the single wire representation of lighting state. The
// same shape is broadcast to WebSocket clients, published retained to
// MQTT, returned from HTTP reads and persisted to SQLite.
//
// ID is populated only on HTTP live reads; everywhere else it stays
// empty and is omitted from the JSON.
type Snapshot struct {
	ID         string        `json:"id,omitempty"`
	Brightness int           `json:"brightness"`
	State      string        `json:"state"`
	Effect     string        `json:"effect"`
	Color      SnapshotColor `json:"color"`
}

// SnapshotColor carries the logical hue and saturation. Brightness
// travels in the top-level field, never here.
type SnapshotColor struct {
	H int `json:"h"`
	S int `json:"s"`
}

// NewSnapshot builds the wire form of a state.
func NewSnapshot(s State) Snapshot {
	power := PowerOff
	if s.Power {
		power = PowerOn
	}
	return Snapshot{
		Brightness: s.Color.Val,
		State:      power,
		Effect:     s.Effect.String(),
		Color: SnapshotColor{
			H: s.Color.Hue,
			S: s.Color.Sat,
		},
	}
}

// EncodeSnapshot marshals a state into its wire form without an ID.
// This is the payload notified to transports and written to SQLite.
func EncodeSnapshot(s State) ([]byte, error) {
	data, err := json.Marshal(NewSnapshot(s))
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// ToState converts the snapshot back into canonical state, normalising
// out-of-range numbers on the way in.
//
// Returns:
//   - State: the decoded state
//   - error: ErrInvalidSnapshot for an unknown power value, or
//     ErrUnknownEffect for an effect name outside the known set
func (s Snapshot) ToState() (State, error) {
	var power bool
	switch s.State {
	case PowerOn:
		power = true
	case PowerOff:
		power = false
	default:
		return State{}, fmt.Errorf("%w: power state %q", ErrInvalidSnapshot, s.State)
	}

	effect, err := ParseEffect(s.Effect)
	if err != nil {
		return State{}, err
	}

	return State{
		Power: power,
		Color: ColorHSV{
			Hue: NormalizeHue(s.Color.H),
			Sat: ClampPercent(s.Color.S),
			Val: ClampPercent(s.Brightness),
		},
		Effect: effect,
	}, nil
}
