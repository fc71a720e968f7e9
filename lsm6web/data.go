// Package lsm6web streams raw LSM6 samples to websocket clients. A Hub
// fans JSON-encoded samples out to everyone connected; a Listener polls
// the driver and feeds the hub.
package lsm6web

// DefaultPort is where cmd/lsm6web serves the hub.
const DefaultPort = 8000

// Sample is one raw accelerometer/gyro reading as sent to clients.
type Sample struct {
	T float64 // Unix time of the read, seconds

	AX, AY, AZ int16 // raw accelerometer counts
	GX, GY, GZ int16 // raw gyro counts

	// Stale marks a sample whose read timed out: the values repeat the
	// previous reading.
	Stale bool
}
