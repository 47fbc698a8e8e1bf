package mqtt

import "github.com/leoclee/wifilight/internal/infrastructure/config"

// Availability payloads published on the availability topic.
//
// Plain strings rather than JSON: consumers such as Home Assistant expect
// bare "online"/"offline" for availability tracking.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Topics holds the resolved topic names the light communicates on.
//
// The defaults (light, light-set, light/availability) suit a single-device
// deployment. Multi-device brokers override them in config.yaml so each
// light gets its own namespace.
type Topics struct {
	// State carries retained canonical state snapshots.
	State string

	// Command receives partial state updates from controllers.
	Command string

	// Availability carries online/offline status, retained. The offline
	// message is also registered as the connection's Last Will so the
	// broker announces an unexpected disconnect.
	Availability string
}

// TopicsFromConfig builds Topics from the configured names.
func TopicsFromConfig(cfg config.MQTTTopicsConfig) Topics {
	return Topics{
		State:        cfg.State,
		Command:      cfg.Command,
		Availability: cfg.Availability,
	}
}
