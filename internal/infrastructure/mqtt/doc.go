// Package mqtt provides MQTT client connectivity for wifilight.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is one of the three control transports for the light. Controllers
// (home automation hubs, scripts, wall panels) publish partial state
// updates to the command topic; the light publishes its canonical state,
// retained, to the state topic so late subscribers see the current state
// immediately.
//
//	Controllers -> broker -> light (command topic)
//	light -> broker -> controllers (state topic, retained)
//
// # Security Considerations
//
//   - TLS is recommended for off-LAN deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Performance Characteristics
//
//   - Connection: <1 second to local broker
//   - Publish latency: <10ms for QoS 1 to local broker
//   - Reconnect: Exponential backoff 1s-60s
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Receive commands
//	err = client.Subscribe(client.Topics().Command, 1,
//	    func(topic string, payload []byte) error {
//	        return apply(payload)
//	    })
//
//	// Publish state, retained
//	client.Publish(client.Topics().State, snapshot, 1, true)
package mqtt
