package light

// ChangeSet reports which parts of the state an update actually changed.
// Re-sending the current state yields a zero ChangeSet, which suppresses
// fades, renderer resets, notifications and persistence alike.
type ChangeSet struct {
	Power  bool
	Color  bool
	Effect bool
}

// Any reports whether anything changed at all.
func (c ChangeSet) Any() bool {
	return c.Power || c.Color || c.Effect
}

// Store holds the canonical lighting state and merges partial updates
// into it. It is not safe for concurrent use; the engine loop is the
// sole owner and serialises all access.
type Store struct {
	state State
}

// NewStore creates a store seeded with an initial state. The colour is
// normalised so persisted or configured out-of-range values cannot leak
// into the live state.
func NewStore(initial State) *Store {
	initial.Color = initial.Color.Normalized()
	return &Store{state: initial}
}

// Current returns the canonical state.
func (s *Store) Current() State {
	return s.state
}

// ApplyUpdate merges an update into the state field by field.
//
// Each field follows the same rule: normalise the incoming value, then
// write it only when it differs from the current value. Unknown effect
// names are dropped without touching the current effect.
//
// Parameters:
//   - u: the decoded partial update
//
// Returns:
//   - ChangeSet: which fields now hold a different value
func (s *Store) ApplyUpdate(u Update) ChangeSet {
	var ch ChangeSet

	if u.Power != nil && *u.Power != s.state.Power {
		s.state.Power = *u.Power
		ch.Power = true
	}

	if u.Hue != nil {
		if h := NormalizeHue(*u.Hue); h != s.state.Color.Hue {
			s.state.Color.Hue = h
			ch.Color = true
		}
	}

	if u.Saturation != nil {
		if v := ClampPercent(*u.Saturation); v != s.state.Color.Sat {
			s.state.Color.Sat = v
			ch.Color = true
		}
	}

	if u.Brightness != nil {
		if v := ClampPercent(*u.Brightness); v != s.state.Color.Val {
			s.state.Color.Val = v
			ch.Color = true
		}
	}

	if u.Effect != nil {
		if kind, err := ParseEffect(*u.Effect); err == nil && kind != s.state.Effect {
			s.state.Effect = kind
			ch.Effect = true
		}
	}

	return ch
}
