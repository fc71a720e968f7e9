// Package lsm6 drives the ST LSM6DS33 accelerometer/gyro over a two-wire
// bus supplied by the caller.
package lsm6

// Register-level behavior follows the ST LSM6DS33 datasheet and app note
// AN4682.

// testRegError is returned by testReg in place of a register value when
// the device does not respond; it sits outside the 0-255 byte range so it
// can never collide with real data.
const testRegError = -1

// LSM6 represents one LSM6DS33 on a bus. It is not safe for concurrent
// use; all calls are expected from a single goroutine.
type LSM6 struct {
	// Device is the variant resolved by Init, and Address the 7-bit bus
	// address that goes with it. Both are fixed after a successful Init.
	Device  DeviceType
	Address byte

	// A and G hold the most recent raw accelerometer and gyro samples.
	// After a timed-out read they keep their previous values.
	A Vector[int16]
	G Vector[int16]

	// LastStatus is the status code of the most recent register write
	// transaction. WriteReg and ReadReg never fail synchronously; callers
	// that care inspect this field.
	LastStatus byte

	bus    Bus
	millis func() uint16

	ioTimeout  uint16
	didTimeout bool
}

// New returns a driver on the given bus. Call Init before anything else.
func New(bus Bus) *LSM6 {
	return &LSM6{bus: bus, millis: Millis}
}

/*
Init resolves which chip variant to talk to and on which address, then
fixes the bus address for all later operations.

With device and sa0 both pinned no probing happens and the given
combination is accepted as-is. Otherwise the unresolved dimensions are
probed by reading WHO_AM_I, high address before low, skipping a candidate
the caller pinned away. Init returns false if either dimension is still
unresolved after probing; the address is left unset in that case.
*/
func (d *LSM6) Init(device DeviceType, sa0 SA0State) bool {
	if device == DeviceAuto || sa0 == SA0Auto {
		if device == DeviceAuto || device == DeviceDS33 {
			if sa0 != SA0Low && d.testReg(DS33SA0HighAddress, WHO_AM_I) == DS33WhoID {
				sa0 = SA0High
				if device == DeviceAuto {
					device = DeviceDS33
				}
			} else if sa0 != SA0High && d.testReg(DS33SA0LowAddress, WHO_AM_I) == DS33WhoID {
				sa0 = SA0Low
				if device == DeviceAuto {
					device = DeviceDS33
				}
			}
		}

		if device == DeviceAuto || sa0 == SA0Auto {
			return false
		}
	}

	d.Device = device

	switch device {
	case DeviceDS33:
		if sa0 == SA0High {
			d.Address = DS33SA0HighAddress
		} else {
			d.Address = DS33SA0LowAddress
		}
	}

	return true
}

/*
EnableDefault turns on the accelerometer and gyro with the power-on full
scales (+/-2 g, 245 dps), a 1.66 kHz high-performance ODR for both, and
automatic register address increment for multi-byte reads.

The three control registers are overwritten wholesale, so any prior
configuration in them is lost.
*/
func (d *LSM6) EnableDefault() {
	if d.Device != DeviceDS33 {
		return
	}

	// ODR = 1000 (1.66 kHz), FS_XL = 00 (+/-2 g)
	d.WriteReg(CTRL1_XL, 0x80)
	// ODR = 1000 (1.66 kHz), FS_G = 00 (245 dps)
	d.WriteReg(CTRL2_G, 0x80)
	// IF_INC = 1 (auto-increment register address)
	d.WriteReg(CTRL3_C, 0x04)
}

// WriteReg writes value to a register. The transaction status lands in
// LastStatus; nothing is returned.
func (d *LSM6) WriteReg(reg, value byte) {
	d.bus.BeginTransmission(d.Address)
	d.bus.Write(reg)
	d.bus.Write(value)
	d.LastStatus = d.bus.EndTransmission()
}

// ReadReg reads one register. The pointer write's status lands in
// LastStatus but the read proceeds regardless of it.
func (d *LSM6) ReadReg(reg byte) byte {
	d.bus.BeginTransmission(d.Address)
	d.bus.Write(reg)
	d.LastStatus = d.bus.EndTransmission()
	d.bus.RequestFrom(d.Address, 1)
	return d.bus.Read()
}

// ReadAcc reads the three accelerometer channels into A.
func (d *LSM6) ReadAcc() {
	// OUTX_L_XL through OUTZ_H_XL, via IF_INC auto-increment
	d.readVector(OUTX_L_XL, &d.A)
}

// ReadGyro reads the three gyro channels into G.
func (d *LSM6) ReadGyro() {
	// OUTX_L_G through OUTZ_H_G, via IF_INC auto-increment
	d.readVector(OUTX_L_G, &d.G)
}

// Read reads both sensors. ReadGyro runs even if ReadAcc timed out.
func (d *LSM6) Read() {
	d.ReadAcc()
	d.ReadGyro()
}

// SetTimeout sets the read poll timeout in milliseconds. 0 waits forever.
func (d *LSM6) SetTimeout(timeout uint16) {
	d.ioTimeout = timeout
}

// GetTimeout returns the read poll timeout in milliseconds.
func (d *LSM6) GetTimeout() uint16 {
	return d.ioTimeout
}

// TimeoutOccurred reports whether a read timed out since the last call,
// and clears the flag. It is a read-and-reset accessor, not idempotent:
// a second immediate call returns false.
func (d *LSM6) TimeoutOccurred() bool {
	tmp := d.didTimeout
	d.didTimeout = false
	return tmp
}

// readVector requests the 6-byte output block starting at reg and unpacks
// it into v. On timeout the flag is set and v keeps its old values.
func (d *LSM6) readVector(reg byte, v *Vector[int16]) {
	d.bus.BeginTransmission(d.Address)
	d.bus.Write(reg)
	d.bus.EndTransmission()
	d.bus.RequestFrom(d.Address, 6)

	start := d.millis()
	for d.bus.Available() < 6 {
		// uint16 subtraction wraps, so the deadline survives the
		// counter overflowing between start and now.
		if d.ioTimeout > 0 && d.millis()-start > d.ioTimeout {
			d.didTimeout = true
			return
		}
	}

	xl := d.bus.Read()
	xh := d.bus.Read()
	yl := d.bus.Read()
	yh := d.bus.Read()
	zl := d.bus.Read()
	zh := d.bus.Read()

	v.X = combine(xl, xh)
	v.Y = combine(yl, yh)
	v.Z = combine(zl, zh)
}

// combine joins a low/high register pair into a signed 16-bit sample.
func combine(lo, hi byte) int16 {
	return int16(uint16(hi)<<8 | uint16(lo))
}

// testReg reads one register at an arbitrary address during probing.
// It returns testRegError when the pointer write is not acknowledged or
// no data comes back, which distinguishes an absent device from one whose
// register reads zero. A failed write skips the read entirely.
func (d *LSM6) testReg(address, reg byte) int16 {
	d.bus.BeginTransmission(address)
	d.bus.Write(reg)
	if d.bus.EndTransmission() != StatusOK {
		return testRegError
	}

	d.bus.RequestFrom(address, 1)
	if d.bus.Available() > 0 {
		return int16(d.bus.Read())
	}
	return testRegError
}
