// WiFiLight - Addressable LED Strip Controller
//
// This is the main entry point for the wifilight daemon. It drives a
// single addressable LED strip and exposes the light over three
// transports:
//   - HTTP REST (read state, send commands, list effects)
//   - WebSocket (commands in, live snapshots out)
//   - MQTT (commands in, retained state out, availability via Last Will)
//
// State survives restarts through a debounced SQLite snapshot, and the
// light announces itself on the LAN via mDNS.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/leoclee/wifilight/migrations"

	"github.com/leoclee/wifilight/internal/api"
	"github.com/leoclee/wifilight/internal/bridges/broker"
	"github.com/leoclee/wifilight/internal/discovery"
	"github.com/leoclee/wifilight/internal/engine"
	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/database"
	"github.com/leoclee/wifilight/internal/infrastructure/influxdb"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
	"github.com/leoclee/wifilight/internal/infrastructure/mqtt"
	"github.com/leoclee/wifilight/internal/light"
	"github.com/leoclee/wifilight/internal/strip"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting wifilight",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Device identity and persisted state
	repo := light.NewSQLiteRepository(db.DB)
	deviceID, err := repo.DeviceID(ctx, cfg.Device.IDPrefix)
	if err != nil {
		return fmt.Errorf("loading device identity: %w", err)
	}
	log.Info("device identity ready", "device_id", deviceID)

	initial := loadInitialState(ctx, cfg, repo, log)

	// Open strip output
	device, err := strip.NewDevice(cfg.Strip)
	if err != nil {
		return fmt.Errorf("opening strip device: %w", err)
	}
	defer func() {
		log.Info("closing strip device")
		if closeErr := device.Close(); closeErr != nil {
			log.Error("error closing strip device", "error", closeErr)
		}
	}()
	log.Info("strip device ready",
		"driver", cfg.Strip.Driver,
		"leds", cfg.Strip.Leds,
	)

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Create the lighting engine
	eng, err := engine.New(engine.Options{
		Config:     cfg,
		Initial:    initial,
		Device:     device,
		Logger:     log,
		DeviceID:   deviceID,
		Repository: repo,
		Telemetry:  influxClient,
	})
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	// Start HTTP and WebSocket server
	srv, err := api.New(api.Deps{
		Config:   cfg.API,
		WS:       cfg.WebSocket,
		Logger:   log,
		Engine:   eng,
		DeviceID: deviceID,
		Version:  version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	eng.AddNotifier(srv)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error stopping API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"addr", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"websocket_path", cfg.WebSocket.Path,
	)

	// Connect to MQTT broker and start the bridge (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		// The device identity doubles as the MQTT client ID unless one
		// is configured explicitly.
		if cfg.MQTT.Broker.ClientID == "" {
			cfg.MQTT.Broker.ClientID = deviceID
		}

		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		bridge, err := startBroker(cfg, eng, mqttClient, log)
		if err != nil {
			return fmt.Errorf("starting MQTT bridge: %w", err)
		}
		defer func() {
			log.Info("stopping MQTT bridge")
			bridge.Stop()
		}()
	} else {
		log.Info("MQTT disabled")
	}

	// Announce the light on the LAN (best effort)
	advertiser, err := discovery.New(discovery.Options{
		Config:   cfg.Discovery,
		Port:     cfg.API.Port,
		DeviceID: deviceID,
		Version:  version,
		Logger:   log,
	})
	if err != nil {
		return fmt.Errorf("creating discovery advertiser: %w", err)
	}
	if err := advertiser.Start(); err != nil {
		log.Warn("mDNS discovery failed to start", "error", err)
	} else {
		defer advertiser.Stop()
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete", "device_id", deviceID)

	// Run the engine loop until the shutdown signal. Run flushes any
	// pending state save before returning, while the database is still
	// open; the deferred Close calls then run in reverse order.
	if err := eng.Run(ctx); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	log.Info("wifilight stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WIFILIGHT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WIFILIGHT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// loadInitialState returns the persisted snapshot, or the configured
// defaults when nothing usable is stored. A corrupt snapshot is logged
// and skipped rather than blocking startup.
func loadInitialState(ctx context.Context, cfg *config.Config, repo light.Repository, log *logging.Logger) light.State {
	state, err := repo.LoadSnapshot(ctx)
	switch {
	case err == nil:
		log.Info("restored persisted state",
			"power", state.Power,
			"effect", state.Effect.String(),
		)
		return state
	case errors.Is(err, light.ErrNoSnapshot):
		log.Info("no persisted state, using defaults")
	default:
		log.Warn("persisted state unreadable, using defaults", "error", err)
	}

	return defaultState(cfg, log)
}

// defaultState builds the startup state from configuration.
func defaultState(cfg *config.Config, log *logging.Logger) light.State {
	effect, err := light.ParseEffect(cfg.Light.Defaults.Effect)
	if err != nil {
		log.Warn("unknown default effect, using none",
			"effect", cfg.Light.Defaults.Effect,
		)
		effect = light.EffectNone
	}

	return light.State{
		Power: cfg.Light.Defaults.Power,
		Color: light.ColorHSV{
			Hue: cfg.Light.Defaults.Hue,
			Sat: cfg.Light.Defaults.Saturation,
			Val: cfg.Light.Defaults.Brightness,
		}.Normalized(),
		Effect: effect,
	}
}

// startBroker wires the MQTT bridge to the engine: inbound commands go
// to the engine, accepted changes go out retained, and the current
// snapshot is republished after every (re)connect so late subscribers
// and restarted brokers see the live state.
//
// Parameters:
//   - cfg: Application configuration
//   - eng: The lighting engine
//   - mqttClient: Connected MQTT client
//   - log: Logger instance
//
// Returns:
//   - *broker.Bridge: Running bridge
//   - error: If bridge creation or subscription fails
func startBroker(cfg *config.Config, eng *engine.Engine, mqttClient *mqtt.Client, log *logging.Logger) (*broker.Bridge, error) {
	adapter := &mqttBridgeAdapter{client: mqttClient}

	bridge, err := broker.NewBridge(broker.Options{
		Config:     cfg.MQTT,
		MQTTClient: adapter,
		Sink:       eng,
		Logger:     log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating bridge: %w", err)
	}

	eng.AddNotifier(bridge)

	if err := bridge.Start(); err != nil {
		return nil, fmt.Errorf("starting bridge: %w", err)
	}

	// Publish the startup state retained, and again on every reconnect.
	bridge.PublishState(eng.Snapshot())
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
		bridge.PublishState(eng.Snapshot())
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	log.Info("MQTT bridge started",
		"command_topic", cfg.MQTT.Topics.Command,
		"state_topic", cfg.MQTT.Topics.State,
	)
	return bridge, nil
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// mqttBridgeAdapter adapts the infrastructure MQTT client to the broker
// bridge's MQTTClient interface. The difference is the Subscribe handler
// signature:
//   - Infrastructure mqtt: func(topic string, payload []byte) error
//   - Bridge expects: func(topic string, payload []byte)
type mqttBridgeAdapter struct {
	client *mqtt.Client
}

// Publish implements broker.MQTTClient.
func (a *mqttBridgeAdapter) Publish(topic string, payload []byte, qos byte, retained bool) error {
	return a.client.Publish(topic, payload, qos, retained)
}

// Subscribe implements broker.MQTTClient.
func (a *mqttBridgeAdapter) Subscribe(topic string, qos byte, handler func(topic string, payload []byte)) error {
	// Wrap the void handler to return nil (bridge handlers don't return errors)
	return a.client.Subscribe(topic, qos, func(t string, p []byte) error {
		handler(t, p)
		return nil
	})
}

// IsConnected implements broker.MQTTClient.
func (a *mqttBridgeAdapter) IsConnected() bool {
	return a.client.IsConnected()
}
