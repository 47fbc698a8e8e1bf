package discovery

import (
	"testing"

	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
)

func testOptions() Options {
	return Options{
		Config: config.DiscoveryConfig{
			Enabled: false,
			Service: "_wifilight._tcp",
		},
		Port:     8080,
		DeviceID: "LIGHT-ab12cd34",
		Version:  "1.2.3",
		Logger:   logging.Default(),
	}
}

func TestNew(t *testing.T) {
	a, err := New(testOptions())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if a == nil {
		t.Fatal("New() returned nil")
	}
}

func TestNewMissingLogger(t *testing.T) {
	opts := testOptions()
	opts.Logger = nil

	if _, err := New(opts); err == nil {
		t.Error("New() expected error for nil logger")
	}
}

func TestNewMissingDeviceID(t *testing.T) {
	opts := testOptions()
	opts.DeviceID = ""

	if _, err := New(opts); err == nil {
		t.Error("New() expected error for empty device ID")
	}
}

func TestStartDisabled(t *testing.T) {
	a, err := New(testOptions())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if err := a.Start(); err != nil {
		t.Errorf("Start() with discovery disabled should be a no-op, got %v", err)
	}
	if a.server != nil {
		t.Error("Start() with discovery disabled should not create a server")
	}

	// Stop without a running server must be safe.
	a.Stop()
	a.Stop()
}

func TestTXTRecords(t *testing.T) {
	records := txtRecords("LIGHT-ab12cd34", "1.2.3")
	want := []string{"id=LIGHT-ab12cd34", "version=1.2.3"}
	if len(records) != len(want) {
		t.Fatalf("txtRecords() = %v, want %v", records, want)
	}
	for i := range want {
		if records[i] != want[i] {
			t.Errorf("txtRecords()[%d] = %q, want %q", i, records[i], want[i])
		}
	}
}

func TestTXTRecordsNoVersion(t *testing.T) {
	records := txtRecords("LIGHT-ab12cd34", "")
	if len(records) != 1 {
		t.Fatalf("txtRecords() = %v, want id only", records)
	}
	if records[0] != "id=LIGHT-ab12cd34" {
		t.Errorf("txtRecords()[0] = %q, want id record", records[0])
	}
}
