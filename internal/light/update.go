package light

import (
	"encoding/json"
	"fmt"
)

// Power wire values. Matching is exact; anything else is treated as an
// invalid field and skipped.
const (
	PowerOn  = "ON"
	PowerOff = "OFF"
)

// Update is a partial state change decoded from a transport payload.
// Nil fields were absent or invalid and must leave the current state
// untouched. Numeric fields are raw wire values; normalisation happens
// in Store.ApplyUpdate.
type Update struct {
	Power      *bool
	Hue        *int
	Saturation *int
	Brightness *int
	Effect     *string
}

// IsZero reports whether the update carries no fields at all.
func (u Update) IsZero() bool {
	return u.Power == nil && u.Hue == nil && u.Saturation == nil &&
		u.Brightness == nil && u.Effect == nil
}

// updateEnvelope defers field decoding so one bad field cannot poison
// the rest of the payload.
type updateEnvelope struct {
	State      json.RawMessage `json:"state"`
	Brightness json.RawMessage `json:"brightness"`
	Color      json.RawMessage `json:"color"`
	Effect     json.RawMessage `json:"effect"`
}

type colorEnvelope struct {
	H json.RawMessage `json:"h"`
	S json.RawMessage `json:"s"`
}

// DecodeUpdate parses a transport payload into an Update.
//
// Tolerance is per field: a payload that is not a JSON object fails
// outright, but within a valid object each wrong-typed or unrecognised
// field is dropped individually. {"state":"ON","brightness":"loud"}
// still switches the light on.
//
// Parameters:
//   - raw: the payload bytes as received from HTTP, WebSocket or MQTT
//
// Returns:
//   - Update: the decoded fields, possibly all nil
//   - error: ErrMalformedPayload when raw is not a JSON object
func DecodeUpdate(raw []byte) (Update, error) {
	var env updateEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Update{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}

	var u Update

	if env.State != nil {
		var s string
		if err := json.Unmarshal(env.State, &s); err == nil {
			switch s {
			case PowerOn:
				on := true
				u.Power = &on
			case PowerOff:
				off := false
				u.Power = &off
			}
		}
	}

	if env.Brightness != nil {
		u.Brightness = decodeInt(env.Brightness)
	}

	if env.Color != nil {
		var c colorEnvelope
		if err := json.Unmarshal(env.Color, &c); err == nil {
			if c.H != nil {
				u.Hue = decodeInt(c.H)
			}
			if c.S != nil {
				u.Saturation = decodeInt(c.S)
			}
		}
	}

	if env.Effect != nil {
		var e string
		if err := json.Unmarshal(env.Effect, &e); err == nil {
			u.Effect = &e
		}
	}

	return u, nil
}

// decodeInt parses a raw JSON value as an integer, returning nil when
// the value is not a whole number.
func decodeInt(raw json.RawMessage) *int {
	var v int
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}
