// Package discovery advertises the light on the local network via mDNS.
//
// The light registers a `_wifilight._tcp` service on the HTTP API port
// so dashboards and provisioning tools can find it without knowing its
// address. TXT records carry the device ID and firmware version.
//
// # Graceful Degradation
//
// Advertisement is best effort. A light that cannot announce itself is
// still fully controllable over HTTP, WebSocket and MQTT; callers treat
// a failed Start as a warning, not a fatal error.
package discovery
