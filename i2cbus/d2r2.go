package i2cbus

import (
	"fmt"

	i2c "github.com/d2r2/go-i2c"
	"github.com/d2r2/go-logger"

	"github.com/NavAHRS/lsm6-arduino/lsm6"
)

func init() {
	// go-i2c logs every transfer at debug level through go-logger;
	// probing two addresses would flood the output.
	logger.ChangePackageLogLevel("i2c", logger.InfoLevel)
}

// D2R2 adapts d2r2/go-i2c to the lsm6.Bus transaction model. go-i2c
// binds a handle to one device address, so the transport keeps a handle
// per address it is asked to talk to, opened lazily; address probing
// during Init touches two of them.
type D2R2 struct {
	line  int
	conns map[byte]*i2c.I2C

	addr byte
	wbuf []byte
	rbuf []byte
}

// NewD2R2 returns a transport on the given I2C bus line, e.g. 1 for
// /dev/i2c-1.
func NewD2R2(line int) *D2R2 {
	return &D2R2{line: line, conns: make(map[byte]*i2c.I2C)}
}

func (b *D2R2) conn(addr byte) (*i2c.I2C, error) {
	if c, ok := b.conns[addr]; ok {
		return c, nil
	}
	c, err := i2c.NewI2C(addr, b.line)
	if err != nil {
		return nil, fmt.Errorf("i2cbus: open /dev/i2c-%d address %#x: %w", b.line, addr, err)
	}
	b.conns[addr] = c
	return c, nil
}

func (b *D2R2) BeginTransmission(addr byte) {
	b.addr = addr
	b.wbuf = b.wbuf[:0]
}

func (b *D2R2) Write(value byte) {
	b.wbuf = append(b.wbuf, value)
}

func (b *D2R2) EndTransmission() byte {
	if len(b.wbuf) == 0 {
		return lsm6.StatusOK
	}
	c, err := b.conn(b.addr)
	if err != nil {
		return lsm6.StatusError
	}
	if _, err := c.WriteBytes(b.wbuf); err != nil {
		return lsm6.StatusAddressNACK
	}
	return lsm6.StatusOK
}

func (b *D2R2) RequestFrom(addr byte, count int) {
	b.rbuf = b.rbuf[:0]
	c, err := b.conn(addr)
	if err != nil {
		return
	}
	buf := make([]byte, count)
	// Plain read: the register pointer was set by the preceding write
	// transaction and the chip auto-increments from there.
	n, err := c.ReadBytes(buf)
	if err != nil {
		return
	}
	b.rbuf = append(b.rbuf, buf[:n]...)
}

func (b *D2R2) Available() int {
	return len(b.rbuf)
}

func (b *D2R2) Read() byte {
	if len(b.rbuf) == 0 {
		return 0
	}
	v := b.rbuf[0]
	b.rbuf = b.rbuf[1:]
	return v
}

// Close releases every device handle the transport opened.
func (b *D2R2) Close() error {
	var firstErr error
	for addr, c := range b.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("i2cbus: close address %#x: %w", addr, err)
		}
		delete(b.conns, addr)
	}
	return firstErr
}
