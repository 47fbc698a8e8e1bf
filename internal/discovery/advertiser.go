package discovery

import (
	"fmt"
	"net"
	"os"

	"github.com/hashicorp/mdns"

	"github.com/leoclee/wifilight/internal/infrastructure/config"
	"github.com/leoclee/wifilight/internal/infrastructure/logging"
)

// Options holds configuration for creating an advertiser.
type Options struct {
	// Config is the discovery configuration.
	Config config.DiscoveryConfig

	// Port is the HTTP API port the service record points at.
	Port int

	// DeviceID is the stable device identifier carried in TXT records.
	DeviceID string

	// Version is the build version carried in TXT records.
	Version string

	// Logger is the structured logger.
	Logger *logging.Logger
}

// Advertiser announces the light as an mDNS service.
type Advertiser struct {
	cfg      config.DiscoveryConfig
	port     int
	deviceID string
	version  string
	log      *logging.Logger

	server *mdns.Server
}

// New creates a new advertiser.
// Call Start() to begin announcing.
func New(opts Options) (*Advertiser, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.DeviceID == "" {
		return nil, fmt.Errorf("device ID is required")
	}

	return &Advertiser{
		cfg:      opts.Config,
		port:     opts.Port,
		deviceID: opts.DeviceID,
		version:  opts.Version,
		log:      opts.Logger,
	}, nil
}

// Start registers the service record. When discovery is disabled it
// logs and returns nil so callers need no separate enabled check.
func (a *Advertiser) Start() error {
	if !a.cfg.Enabled {
		a.log.Debug("mDNS discovery disabled")
		return nil
	}

	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("resolving hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		a.deviceID,
		a.cfg.Service,
		"",
		fmt.Sprintf("%s.", hostname),
		a.port,
		advertiseIPs(),
		txtRecords(a.deviceID, a.version),
	)
	if err != nil {
		return fmt.Errorf("building service record: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("starting mDNS server: %w", err)
	}
	a.server = server

	a.log.Info("mDNS discovery started",
		"service", a.cfg.Service,
		"instance", a.deviceID,
		"port", a.port)
	return nil
}

// Stop withdraws the service record. Safe to call when Start was never
// called or discovery is disabled.
func (a *Advertiser) Stop() {
	if a.server == nil {
		return
	}
	if err := a.server.Shutdown(); err != nil {
		a.log.Warn("shutting down mDNS server", "error", err)
	}
	a.server = nil
	a.log.Info("mDNS discovery stopped")
}

// txtRecords builds the TXT key=value pairs for the service record.
func txtRecords(deviceID, version string) []string {
	records := []string{fmt.Sprintf("id=%s", deviceID)}
	if version != "" {
		records = append(records, fmt.Sprintf("version=%s", version))
	}
	return records
}

// advertiseIPs collects the IPv4 addresses of the up, non-loopback
// interfaces. Passing explicit addresses avoids a hostname lookup that
// fails on hosts without a resolvable name.
func advertiseIPs() []net.IP {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil {
				continue
			}
			ips = append(ips, ip)
		}
	}
	return ips
}
