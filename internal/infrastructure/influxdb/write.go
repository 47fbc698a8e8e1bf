package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteStateMetric records an accepted state change.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: The light's stable identifier (e.g., "LIGHT-3f2a9c1b")
//   - power: Whether the light is on
//   - hue: Logical hue, 0-359
//   - saturation: Logical saturation, 0-100
//   - brightness: Logical brightness, 0-100
//   - effect: The active effect name (e.g., "rainbow")
func (c *Client) WriteStateMetric(deviceID string, power bool, hue, saturation, brightness int, effect string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"light_state",
		map[string]string{
			"device_id": deviceID,
			"effect":    effect,
		},
		map[string]interface{}{
			"power":      power,
			"hue":        hue,
			"saturation": saturation,
			"brightness": brightness,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRenderMetric records the engine's render throughput.
//
// Parameters:
//   - deviceID: The light's stable identifier
//   - fps: Frames rendered per second over the last sample window
func (c *Client) WriteRenderMetric(deviceID string, fps float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"render",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"fps": fps,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for custom measurements that don't fit the helper methods.
//
// Parameters:
//   - measurement: The measurement name (table)
//   - tags: Key-value pairs for indexing (low cardinality)
//   - fields: Key-value pairs for the actual data
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "light-01"},
//	    map[string]interface{}{"cpu_percent": 45.2, "memory_mb": 512})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed data).
//
// Parameters:
//   - measurement: The measurement name
//   - tags: Key-value pairs for indexing
//   - fields: Key-value pairs for the data
//   - timestamp: The exact time for this data point
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
