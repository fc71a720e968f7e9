package lsm6

import "time"

// Bus is the two-wire transport the driver talks through. It mirrors the
// transaction shape of a Wire-style I2C master: writes are queued between
// BeginTransmission and EndTransmission and sent as one transaction,
// RequestFrom schedules a read whose bytes are consumed through
// Available/Read. Implementations for real hardware live in the i2cbus
// package; tests inject scripted fakes.
//
// The driver never locks the bus. If several devices share one physical
// bus across goroutines, synchronization is the caller's job.
type Bus interface {
	BeginTransmission(addr byte)
	Write(value byte)
	EndTransmission() byte
	RequestFrom(addr byte, count int)
	Available() int
	Read() byte
}

// Transaction status codes returned by EndTransmission, matching the
// usual two-wire master conventions.
const (
	StatusOK          = 0
	StatusDataTooLong = 1
	StatusAddressNACK = 2
	StatusDataNACK    = 3
	StatusError       = 4
)

// Millis is the default clock: wall time in milliseconds truncated to 16
// bits. The counter wraps about every 65.5 s; the driver's deadline math
// uses wrapping subtraction, so that is harmless.
func Millis() uint16 {
	return uint16(time.Now().UnixNano() / int64(time.Millisecond))
}
