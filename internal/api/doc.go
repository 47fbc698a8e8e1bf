// Package api implements the HTTP REST API and WebSocket server for
// wifilight.
//
// This package provides:
//   - REST endpoints for reading and commanding the light
//   - WebSocket hub for real-time snapshot broadcasts
//   - Middleware stack (request ID, logging, recovery, body limit)
//
// # Architecture
//
// The server sits between clients (dashboards, scripts, home hubs) and
// the lighting engine. Commands are decoded into partial updates and
// handed to the engine; accepted changes come back through the engine's
// notifier fan-out and are broadcast to every connected WebSocket
// client. HTTP reads never touch the engine loop.
//
// # Graceful Degradation
//
// The server has no hard dependency on storage or MQTT. A light running
// purely in memory still serves reads, commands and WebSocket pushes.
package api
