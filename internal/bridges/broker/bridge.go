package broker

import (
	"fmt"
	"sync"

	"github.com/leoclee/wifilight/internal/engine"
	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
	"github.com/leoclee/wifilight/internal/light"
)

// CommandSink receives decoded partial updates.
// Satisfied by *engine.Engine; mocked in tests.
type CommandSink interface {
	// Apply queues an update without blocking.
	Apply(u light.Update)
}

// MQTTClient is the interface for MQTT operations.
// This allows mocking in tests and flexibility in implementation.
type MQTTClient interface {
	// Publish sends a message to a topic.
	Publish(topic string, payload []byte, qos byte, retained bool) error

	// Subscribe registers a handler for a topic.
	Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error

	// IsConnected returns true if connected to the broker.
	IsConnected() bool
}

// Options holds configuration for creating a bridge.
type Options struct {
	// Config is the MQTT configuration (topics and QoS).
	Config config.MQTTConfig

	// MQTTClient is the MQTT client implementation.
	MQTTClient MQTTClient

	// Sink receives decoded command updates.
	Sink CommandSink

	// Logger is the structured logger.
	Logger *logging.Logger
}

// Bridge translates between MQTT and the lighting engine. Commands
// arrive on the command topic; state snapshots go out retained on the
// state topic. It implements engine.Notifier so accepted changes are
// published as they happen; register it with Engine.AddNotifier.
//
// Thread Safety: All methods are safe for concurrent use.
type Bridge struct {
	cfg  config.MQTTConfig
	mqtt MQTTClient
	sink CommandSink
	log  *logging.Logger

	// statePub holds at most the newest snapshot awaiting publish.
	statePub chan []byte

	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ engine.Notifier = (*Bridge)(nil)

// NewBridge creates a new bridge instance.
// Call Start() to begin operation.
func NewBridge(opts Options) (*Bridge, error) {
	if opts.MQTTClient == nil {
		return nil, fmt.Errorf("MQTT client is required")
	}
	if opts.Sink == nil {
		return nil, fmt.Errorf("command sink is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &Bridge{
		cfg:      opts.Config,
		mqtt:     opts.MQTTClient,
		sink:     opts.Sink,
		log:      opts.Logger,
		statePub: make(chan []byte, 1),
		done:     make(chan struct{}),
	}, nil
}

// Start subscribes to the command topic and launches the state
// publisher.
func (b *Bridge) Start() error {
	if err := b.mqtt.Subscribe(b.cfg.Topics.Command, byte(b.cfg.QoS), b.handleCommand); err != nil {
		return fmt.Errorf("subscribe to commands: %w", err)
	}
	b.log.Info("subscribed to commands", "topic", b.cfg.Topics.Command)

	b.wg.Add(1)
	go b.publishLoop()

	return nil
}

// Stop shuts down the bridge. Any queued snapshot is flushed so the
// retained state topic matches the final state.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
		b.wg.Wait()
		b.log.Info("broker bridge stopped")
	})
}

// NotifyState queues an accepted state change for retained publish.
// The payload is the already-encoded snapshot, shared across transports.
// Never blocks: when publishing falls behind, older queued snapshots are
// discarded in favour of the newest.
func (b *Bridge) NotifyState(_ light.State, payload []byte) {
	select {
	case <-b.done:
		return
	default:
	}

	for {
		select {
		case b.statePub <- payload:
			return
		default:
			// Discard the stale queued snapshot and retry with this one.
			select {
			case <-b.statePub:
			default:
			}
		}
	}
}

// PublishState encodes and queues a snapshot of the given state.
// Used for the initial publish after connect and for republishing on
// reconnect.
func (b *Bridge) PublishState(s light.State) {
	payload, err := light.EncodeSnapshot(s)
	if err != nil {
		b.log.Error("encoding snapshot", "error", err)
		return
	}
	b.NotifyState(s, payload)
}

// handleCommand decodes a command payload and hands it to the engine.
// Malformed payloads are dropped; within a valid payload, invalid
// fields are dropped individually by the decoder.
func (b *Bridge) handleCommand(_ string, payload []byte) {
	update, err := light.DecodeUpdate(payload)
	if err != nil {
		b.log.Debug("ignoring malformed command", "error", err)
		return
	}
	b.sink.Apply(update)
}

// publishLoop publishes queued snapshots until Stop. Exactly one
// goroutine publishes, so retained snapshots cannot interleave out of
// order.
func (b *Bridge) publishLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			// Flush the final snapshot if one is still queued.
			select {
			case payload := <-b.statePub:
				b.publishState(payload)
			default:
			}
			return
		case payload := <-b.statePub:
			b.publishState(payload)
		}
	}
}

// publishState publishes one snapshot retained on the state topic.
// Failures are logged and dropped; the next accepted change supersedes
// the lost one.
func (b *Bridge) publishState(payload []byte) {
	if err := b.mqtt.Publish(b.cfg.Topics.State, payload, byte(b.cfg.QoS), true); err != nil {
		b.log.Warn("publishing state", "topic", b.cfg.Topics.State, "error", err)
	}
}
