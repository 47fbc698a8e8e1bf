package strip

// Null discards every frame. Used for headless deployments and tests.
type Null struct{}

// NewNull creates a device that renders nowhere.
func NewNull() *Null {
	return &Null{}
}

func (*Null) Render(Buffer) error { return nil }

func (*Null) Close() error { return nil }
