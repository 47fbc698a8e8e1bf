package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	// Create a temporary config file
	content := `
device:
  id_prefix: "LIGHT-"
  name: "test-light"
light:
  defaults:
    hue: 200
    saturation: 80
    brightness: 40
strip:
  driver: "null"
  leds: 16
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Device.Name != "test-light" {
		t.Errorf("Device.Name = %q, want %q", cfg.Device.Name, "test-light")
	}

	if cfg.Light.Defaults.Hue != 200 {
		t.Errorf("Light.Defaults.Hue = %d, want 200", cfg.Light.Defaults.Hue)
	}

	if cfg.Strip.Leds != 16 {
		t.Errorf("Strip.Leds = %d, want 16", cfg.Strip.Leds)
	}

	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}

	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}

	// Values absent from the file keep their defaults.
	if cfg.Light.FadeMS != 1000 {
		t.Errorf("Light.FadeMS = %d, want default 1000", cfg.Light.FadeMS)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	content := `
strip:
  driver: "plasma"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for unknown strip driver, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing device prefix",
			mutate:  func(c *Config) { c.Device.IDPrefix = "" },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid port low",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port high",
			mutate:  func(c *Config) { c.API.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown strip driver",
			mutate:  func(c *Config) { c.Strip.Driver = "plasma" },
			wantErr: true,
		},
		{
			name:    "zero leds",
			mutate:  func(c *Config) { c.Strip.Leds = 0 },
			wantErr: true,
		},
		{
			name:    "hue out of range",
			mutate:  func(c *Config) { c.Light.Defaults.Hue = 360 },
			wantErr: true,
		},
		{
			name:    "brightness out of range",
			mutate:  func(c *Config) { c.Light.Defaults.Brightness = 101 },
			wantErr: true,
		},
		{
			name:    "negative save delay",
			mutate:  func(c *Config) { c.Light.SaveDelayMS = -1 },
			wantErr: true,
		},
		{
			name:    "zero frame interval",
			mutate:  func(c *Config) { c.Engine.FrameIntervalMS = 0 },
			wantErr: true,
		},
		{
			name:    "mqtt enabled without command topic",
			mutate:  func(c *Config) { c.MQTT.Topics.Command = "" },
			wantErr: true,
		},
		{
			name: "mqtt disabled ignores topics",
			mutate: func(c *Config) {
				c.MQTT.Enabled = false
				c.MQTT.Topics.Command = ""
				c.MQTT.Topics.State = ""
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetTimeouts(t *testing.T) {
	cfg := &Config{
		API: APIConfig{
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 45,
				Idle:  60,
			},
		},
	}

	if got := cfg.GetReadTimeout().Seconds(); got != 30 {
		t.Errorf("GetReadTimeout() = %v, want 30", got)
	}

	if got := cfg.GetWriteTimeout().Seconds(); got != 45 {
		t.Errorf("GetWriteTimeout() = %v, want 45", got)
	}

	if got := cfg.GetIdleTimeout().Seconds(); got != 60 {
		t.Errorf("GetIdleTimeout() = %v, want 60", got)
	}
}

func TestConfig_Durations(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.FadeDuration().Milliseconds(); got != 1000 {
		t.Errorf("FadeDuration() = %dms, want 1000ms", got)
	}

	if got := cfg.SaveDelay().Milliseconds(); got != 15000 {
		t.Errorf("SaveDelay() = %dms, want 15000ms", got)
	}

	if got := cfg.FrameInterval().Milliseconds(); got != 5 {
		t.Errorf("FrameInterval() = %dms, want 5ms", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	// Set environment variables
	t.Setenv("WIFILIGHT_DATABASE_PATH", "/custom/path.db")
	t.Setenv("WIFILIGHT_MQTT_HOST", "mqtt.example.com")
	t.Setenv("WIFILIGHT_MQTT_USERNAME", "testuser")
	t.Setenv("WIFILIGHT_MQTT_PASSWORD", "testpass")
	t.Setenv("WIFILIGHT_API_HOST", "192.168.1.1")
	t.Setenv("WIFILIGHT_STRIP_DRIVER", "null")
	t.Setenv("WIFILIGHT_INFLUXDB_TOKEN", "secret-token")

	applyEnvOverrides(cfg)

	if cfg.Database.Path != "/custom/path.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/custom/path.db")
	}

	if cfg.MQTT.Broker.Host != "mqtt.example.com" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "mqtt.example.com")
	}

	if cfg.MQTT.Auth.Username != "testuser" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "testuser")
	}

	if cfg.MQTT.Auth.Password != "testpass" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "testpass")
	}

	if cfg.API.Host != "192.168.1.1" {
		t.Errorf("API.Host = %q, want %q", cfg.API.Host, "192.168.1.1")
	}

	if cfg.Strip.Driver != "null" {
		t.Errorf("Strip.Driver = %q, want %q", cfg.Strip.Driver, "null")
	}

	if cfg.InfluxDB.Token != "secret-token" {
		t.Errorf("InfluxDB.Token = %q, want %q", cfg.InfluxDB.Token, "secret-token")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Device.IDPrefix != "LIGHT-" {
		t.Errorf("defaultConfig Device.IDPrefix = %q, want %q", cfg.Device.IDPrefix, "LIGHT-")
	}

	if cfg.Light.Defaults.Hue != 180 {
		t.Errorf("defaultConfig Light.Defaults.Hue = %d, want 180", cfg.Light.Defaults.Hue)
	}

	if cfg.Light.Defaults.Brightness != 50 {
		t.Errorf("defaultConfig Light.Defaults.Brightness = %d, want 50", cfg.Light.Defaults.Brightness)
	}

	if !cfg.Light.Defaults.Power {
		t.Error("defaultConfig Light.Defaults.Power should be true")
	}

	if cfg.Strip.Leds != 8 {
		t.Errorf("defaultConfig Strip.Leds = %d, want 8", cfg.Strip.Leds)
	}

	if cfg.Database.Path == "" {
		t.Error("defaultConfig should have non-empty Database.Path")
	}

	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}

	if cfg.MQTT.Topics.State != "light" || cfg.MQTT.Topics.Command != "light-set" {
		t.Errorf("defaultConfig MQTT.Topics = %q/%q, want light/light-set",
			cfg.MQTT.Topics.State, cfg.MQTT.Topics.Command)
	}

	if cfg.API.Port != 8080 {
		t.Errorf("defaultConfig API.Port = %d, want 8080", cfg.API.Port)
	}
}
