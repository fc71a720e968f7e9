// Package i2cbus provides lsm6.Bus transports backed by real I2C stacks:
// kidoman/embd and d2r2/go-i2c.
package i2cbus

import (
	"github.com/NavAHRS/lsm6-arduino/lsm6"
)

// RegBus is the register-addressed subset of embd.I2CBus the Embd
// transport needs. embd.NewI2CBus satisfies it.
type RegBus interface {
	WriteToReg(addr, reg byte, value []byte) error
	ReadFromReg(addr, reg byte, value []byte) error
	Close() error
}

// Embd adapts an embd-style register bus to the lsm6.Bus transaction
// model. Bytes written between BeginTransmission and EndTransmission go
// out as a single transaction: the first byte is the register pointer,
// the rest its payload. RequestFrom reads from the last written pointer.
type Embd struct {
	bus RegBus

	addr    byte
	wbuf    []byte
	pointer byte
	rbuf    []byte
}

// NewEmbd returns a transport on the given bus, e.g. embd.NewI2CBus(1).
func NewEmbd(bus RegBus) *Embd {
	return &Embd{bus: bus}
}

func (b *Embd) BeginTransmission(addr byte) {
	b.addr = addr
	b.wbuf = b.wbuf[:0]
}

func (b *Embd) Write(value byte) {
	b.wbuf = append(b.wbuf, value)
}

func (b *Embd) EndTransmission() byte {
	if len(b.wbuf) == 0 {
		return lsm6.StatusOK
	}
	b.pointer = b.wbuf[0]
	// WriteToReg with an empty payload is a bare pointer write, the
	// transaction shape a Wire master uses before a block read.
	if err := b.bus.WriteToReg(b.addr, b.pointer, b.wbuf[1:]); err != nil {
		// embd reports failures as plain errors; an unacknowledged
		// address is the common case on a probe, so map everything
		// to that status.
		return lsm6.StatusAddressNACK
	}
	return lsm6.StatusOK
}

func (b *Embd) RequestFrom(addr byte, count int) {
	buf := make([]byte, count)
	if err := b.bus.ReadFromReg(addr, b.pointer, buf); err != nil {
		b.rbuf = b.rbuf[:0]
		return
	}
	b.rbuf = append(b.rbuf[:0], buf...)
}

func (b *Embd) Available() int {
	return len(b.rbuf)
}

func (b *Embd) Read() byte {
	if len(b.rbuf) == 0 {
		return 0
	}
	v := b.rbuf[0]
	b.rbuf = b.rbuf[1:]
	return v
}

// Close releases the underlying bus.
func (b *Embd) Close() error {
	return b.bus.Close()
}
