package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for wifilight.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	Light     LightConfig     `yaml:"light"`
	Strip     StripConfig     `yaml:"strip"`
	Engine    EngineConfig    `yaml:"engine"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	API       APIConfig       `yaml:"api"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DeviceConfig contains device identity settings.
//
// The full device ID is minted once on first start (prefix plus a short
// random suffix) and persisted, so restarts keep the same identity.
type DeviceConfig struct {
	IDPrefix string `yaml:"id_prefix"`
	Name     string `yaml:"name"`
}

// LightConfig contains the lighting state defaults and timing policy.
type LightConfig struct {
	Defaults    LightDefaultsConfig `yaml:"defaults"`
	FadeMS      int                 `yaml:"fade_ms"`
	SaveDelayMS int                 `yaml:"save_delay_ms"`
}

// LightDefaultsConfig is the state used when no persisted snapshot exists.
type LightDefaultsConfig struct {
	Hue        int    `yaml:"hue"`
	Saturation int    `yaml:"saturation"`
	Brightness int    `yaml:"brightness"`
	Power      bool   `yaml:"power"`
	Effect     string `yaml:"effect"`
}

// StripConfig contains LED strip output settings.
type StripConfig struct {
	Driver   string         `yaml:"driver"` // console, null, adalight, ws2811
	Leds     int            `yaml:"leds"`
	Reversed bool           `yaml:"reversed"`
	Adalight AdalightConfig `yaml:"adalight"`
	WS2811   WS2811Config   `yaml:"ws2811"`
}

// AdalightConfig contains serial settings for the Adalight driver.
type AdalightConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// WS2811Config contains GPIO settings for the ws2811 driver.
type WS2811Config struct {
	GPIOPin    int `yaml:"gpio_pin"`
	Brightness int `yaml:"brightness"`
}

// EngineConfig contains run-loop timing settings.
type EngineConfig struct {
	FrameIntervalMS int `yaml:"frame_interval_ms"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTTopicsConfig contains the topics the light listens and reports on.
type MQTTTopicsConfig struct {
	State        string `yaml:"state"`
	Command      string `yaml:"command"`
	Availability string `yaml:"availability"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// DiscoveryConfig contains mDNS advertisement settings.
type DiscoveryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: WIFILIGHT_SECTION_KEY
// For example: WIFILIGHT_DATABASE_PATH, WIFILIGHT_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			IDPrefix: "LIGHT-",
			Name:     "WiFiLight",
		},
		Light: LightConfig{
			Defaults: LightDefaultsConfig{
				Hue:        180,
				Saturation: 100,
				Brightness: 50,
				Power:      true,
				Effect:     "none",
			},
			FadeMS:      1000,
			SaveDelayMS: 15000,
		},
		Strip: StripConfig{
			Driver: "console",
			Leds:   8,
			Adalight: AdalightConfig{
				Device: "/dev/ttyUSB0",
				Baud:   115200,
			},
			WS2811: WS2811Config{
				GPIOPin:    18,
				Brightness: 255,
			},
		},
		Engine: EngineConfig{
			FrameIntervalMS: 5,
		},
		Database: DatabaseConfig{
			Path:        "./data/wifilight.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Enabled: true,
			Broker: MQTTBrokerConfig{
				Host: "localhost",
				Port: 1883,
			},
			QoS: 1,
			Topics: MQTTTopicsConfig{
				State:        "light",
				Command:      "light-set",
				Availability: "light/availability",
			},
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Discovery: DiscoveryConfig{
			Service: "_wifilight._tcp",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: WIFILIGHT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("WIFILIGHT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("WIFILIGHT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("WIFILIGHT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("WIFILIGHT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("WIFILIGHT_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// Strip
	if v := os.Getenv("WIFILIGHT_STRIP_DRIVER"); v != "" {
		cfg.Strip.Driver = v
	}

	// InfluxDB
	if v := os.Getenv("WIFILIGHT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.IDPrefix == "" {
		errs = append(errs, "device.id_prefix is required")
	}

	// Light validation
	if c.Light.Defaults.Hue < 0 || c.Light.Defaults.Hue > 359 {
		errs = append(errs, "light.defaults.hue must be between 0 and 359")
	}
	if c.Light.Defaults.Saturation < 0 || c.Light.Defaults.Saturation > 100 {
		errs = append(errs, "light.defaults.saturation must be between 0 and 100")
	}
	if c.Light.Defaults.Brightness < 0 || c.Light.Defaults.Brightness > 100 {
		errs = append(errs, "light.defaults.brightness must be between 0 and 100")
	}
	if c.Light.FadeMS < 0 {
		errs = append(errs, "light.fade_ms must not be negative")
	}
	if c.Light.SaveDelayMS < 0 {
		errs = append(errs, "light.save_delay_ms must not be negative")
	}

	// Strip validation
	switch c.Strip.Driver {
	case "console", "null", "adalight", "ws2811":
	default:
		errs = append(errs, "strip.driver must be one of: console, null, adalight, ws2811")
	}
	if c.Strip.Leds < 1 {
		errs = append(errs, "strip.leds must be at least 1")
	}

	// Engine validation
	if c.Engine.FrameIntervalMS < 1 {
		errs = append(errs, "engine.frame_interval_ms must be at least 1")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Enabled {
		if c.MQTT.Topics.State == "" {
			errs = append(errs, "mqtt.topics.state is required")
		}
		if c.MQTT.Topics.Command == "" {
			errs = append(errs, "mqtt.topics.command is required")
		}
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// FadeDuration returns the colour fade duration as a Duration.
func (c *Config) FadeDuration() time.Duration {
	return time.Duration(c.Light.FadeMS) * time.Millisecond
}

// SaveDelay returns the persistence debounce window as a Duration.
func (c *Config) SaveDelay() time.Duration {
	return time.Duration(c.Light.SaveDelayMS) * time.Millisecond
}

// FrameInterval returns the engine frame interval as a Duration.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Engine.FrameIntervalMS) * time.Millisecond
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}
