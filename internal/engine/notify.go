package engine

import "github.com/leoclee/wifilight/internal/light"

// Notifier receives state change notifications from the engine loop.
//
// NotifyState is called from the loop goroutine and must return
// promptly: implementations queue the payload for their own transport
// and never perform blocking I/O inline. The payload is the encoded
// wire snapshot, shared across notifiers; it must not be mutated.
type Notifier interface {
	NotifyState(s light.State, payload []byte)
}

// notify fans a state change out to every registered notifier. A
// panicking notifier is isolated and logged so one broken transport
// cannot stop the loop or starve the others.
func (e *Engine) notify(s light.State, payload []byte) {
	for _, n := range e.notifiers {
		e.notifyOne(n, s, payload)
	}
}

func (e *Engine) notifyOne(n Notifier, s light.State, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("notifier panicked", "panic", r)
		}
	}()
	n.NotifyState(s, payload)
}
