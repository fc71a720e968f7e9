package lsm6

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBus simulates Wire-style devices on a two-wire bus. Devices are
// register files keyed by 7-bit address; transactions to other addresses
// are not acknowledged. Reads honor register auto-increment.
type fakeBus struct {
	devices map[byte]map[byte]byte

	addr    byte
	wbuf    []byte
	pointer byte

	pending []byte // scheduled by RequestFrom
	queue   []byte // visible through Available/Read

	// starve holds back pending bytes for this many Available calls,
	// simulating a slow device. neverRespond keeps the queue empty
	// forever.
	starve       int
	neverRespond bool

	transactions int // completed write transactions
	requests     int
	polls        int // Available calls

	onPoll func() // hook for advancing a fake clock
}

func newFakeBus() *fakeBus {
	return &fakeBus{devices: make(map[byte]map[byte]byte)}
}

func (b *fakeBus) addDevice(addr byte, regs map[byte]byte) {
	b.devices[addr] = regs
}

func (b *fakeBus) BeginTransmission(addr byte) {
	b.addr = addr
	b.wbuf = b.wbuf[:0]
}

func (b *fakeBus) Write(value byte) {
	b.wbuf = append(b.wbuf, value)
}

func (b *fakeBus) EndTransmission() byte {
	b.transactions++
	regs, ok := b.devices[b.addr]
	if !ok {
		return StatusAddressNACK
	}
	if len(b.wbuf) > 0 {
		b.pointer = b.wbuf[0]
	}
	for i, v := range b.wbuf[1:] {
		regs[b.pointer+byte(i)] = v
	}
	return StatusOK
}

func (b *fakeBus) RequestFrom(addr byte, count int) {
	b.requests++
	b.pending = b.pending[:0]
	b.queue = b.queue[:0]
	regs, ok := b.devices[addr]
	if !ok || b.neverRespond {
		return
	}
	for i := 0; i < count; i++ {
		b.pending = append(b.pending, regs[b.pointer+byte(i)])
	}
}

func (b *fakeBus) Available() int {
	b.polls++
	if b.onPoll != nil {
		b.onPoll()
	}
	if b.starve > 0 {
		b.starve--
		return len(b.queue)
	}
	b.queue = append(b.queue, b.pending...)
	b.pending = b.pending[:0]
	return len(b.queue)
}

func (b *fakeBus) Read() byte {
	if len(b.queue) == 0 {
		return 0
	}
	v := b.queue[0]
	b.queue = b.queue[1:]
	return v
}

// ds33Regs builds a register file holding the identity byte plus the two
// 6-byte output blocks.
func ds33Regs(acc, gyro Vector[int16]) map[byte]byte {
	regs := map[byte]byte{WHO_AM_I: DS33WhoID}
	store := func(base byte, v Vector[int16]) {
		for i, s := range []int16{v.X, v.Y, v.Z} {
			regs[base+byte(2*i)] = byte(s)
			regs[base+byte(2*i)+1] = byte(uint16(s) >> 8)
		}
	}
	store(OUTX_L_XL, acc)
	store(OUTX_L_G, gyro)
	return regs
}

func TestInitAutoDetectsHighAddress(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0HighAddress, ds33Regs(Vector[int16]{}, Vector[int16]{}))
	d := New(bus)

	require.True(t, d.Init(DeviceAuto, SA0Auto))
	assert.Equal(t, DeviceDS33, d.Device)
	assert.Equal(t, byte(DS33SA0HighAddress), d.Address)
}

func TestInitAutoDetectsLowAddress(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, ds33Regs(Vector[int16]{}, Vector[int16]{}))
	d := New(bus)

	require.True(t, d.Init(DeviceAuto, SA0Auto))
	assert.Equal(t, DeviceDS33, d.Device)
	assert.Equal(t, byte(DS33SA0LowAddress), d.Address)
}

func TestInitFailsWithNoDevice(t *testing.T) {
	d := New(newFakeBus())

	assert.False(t, d.Init(DeviceAuto, SA0Auto))
	assert.Equal(t, byte(0), d.Address)
}

func TestInitPinnedSkipsProbing(t *testing.T) {
	for _, tc := range []struct {
		name string
		sa0  SA0State
		addr byte
	}{
		{name: "low", sa0: SA0Low, addr: DS33SA0LowAddress},
		{name: "high", sa0: SA0High, addr: DS33SA0HighAddress},
	} {
		t.Run(tc.name, func(t *testing.T) {
			// Nothing on the bus at all: a fully pinned Init must not
			// touch it and must still succeed.
			bus := newFakeBus()
			d := New(bus)

			require.True(t, d.Init(DeviceDS33, tc.sa0))
			assert.Equal(t, 0, bus.transactions)
			assert.Equal(t, 0, bus.requests)
			assert.Equal(t, tc.addr, d.Address)
		})
	}
}

func TestInitPartialPinProbesOnlyUnpinnedAddress(t *testing.T) {
	// Device answers on the low address; caller pinned SA0 low, so the
	// high candidate must not be probed.
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, ds33Regs(Vector[int16]{}, Vector[int16]{}))
	d := New(bus)

	require.True(t, d.Init(DeviceAuto, SA0Low))
	assert.Equal(t, DeviceDS33, d.Device)
	assert.Equal(t, byte(DS33SA0LowAddress), d.Address)
	assert.Equal(t, 1, bus.transactions)
}

func TestTestRegSkipsReadAfterFailedWrite(t *testing.T) {
	bus := newFakeBus()
	// Data sitting in the queue from some earlier transaction must not
	// be consumed when the pointer write fails.
	bus.queue = []byte{0x42}
	d := New(bus)

	got := d.testReg(DS33SA0HighAddress, WHO_AM_I)

	assert.Equal(t, int16(testRegError), got)
	assert.Equal(t, 0, bus.requests)
	assert.Len(t, bus.queue, 1)
}

func TestTestRegDistinguishesZeroFromAbsent(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, map[byte]byte{WHO_AM_I: 0})
	d := New(bus)

	assert.Equal(t, int16(0), d.testReg(DS33SA0LowAddress, WHO_AM_I))
	assert.Equal(t, int16(testRegError), d.testReg(DS33SA0HighAddress, WHO_AM_I))
}

func TestEnableDefaultWritesControlRegisters(t *testing.T) {
	bus := newFakeBus()
	regs := ds33Regs(Vector[int16]{}, Vector[int16]{})
	bus.addDevice(DS33SA0LowAddress, regs)
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))

	d.EnableDefault()

	assert.Equal(t, byte(0x80), regs[CTRL1_XL])
	assert.Equal(t, byte(0x80), regs[CTRL2_G])
	assert.Equal(t, byte(0x04), regs[CTRL3_C])
	assert.Equal(t, byte(StatusOK), d.LastStatus)
}

func TestEnableDefaultNoopForUnresolvedDevice(t *testing.T) {
	bus := newFakeBus()
	d := New(bus)

	d.EnableDefault()

	assert.Equal(t, 0, bus.transactions)
}

func TestWriteRegRecordsStatus(t *testing.T) {
	bus := newFakeBus()
	d := New(bus)
	d.Device = DeviceDS33
	d.Address = DS33SA0LowAddress

	// No device on the bus: the failure is visible only in LastStatus.
	d.WriteReg(CTRL1_XL, 0x80)
	assert.Equal(t, byte(StatusAddressNACK), d.LastStatus)

	bus.addDevice(DS33SA0LowAddress, map[byte]byte{})
	d.WriteReg(CTRL1_XL, 0x80)
	assert.Equal(t, byte(StatusOK), d.LastStatus)
}

func TestReadRegProceedsAfterFailedPointerWrite(t *testing.T) {
	bus := newFakeBus()
	d := New(bus)
	d.Device = DeviceDS33
	d.Address = DS33SA0LowAddress

	// Fire-and-continue: the read is issued even though the pointer
	// write was not acknowledged.
	got := d.ReadReg(WHO_AM_I)

	assert.Equal(t, byte(0), got)
	assert.Equal(t, byte(StatusAddressNACK), d.LastStatus)
	assert.Equal(t, 1, bus.requests)
}

func TestReadRegReturnsRegisterValue(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, map[byte]byte{WHO_AM_I: DS33WhoID})
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Low))

	assert.Equal(t, byte(DS33WhoID), d.ReadReg(WHO_AM_I))
}

func TestReadUnpacksBothVectors(t *testing.T) {
	acc := Vector[int16]{X: 100, Y: -200, Z: 16384}
	gyro := Vector[int16]{X: -1, Y: 32767, Z: -32768}
	bus := newFakeBus()
	bus.addDevice(DS33SA0HighAddress, ds33Regs(acc, gyro))
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))

	d.Read()

	assert.Equal(t, acc, d.A)
	assert.Equal(t, gyro, d.G)
	assert.False(t, d.TimeoutOccurred())
}

func TestCombineMatchesTwosComplement(t *testing.T) {
	for hi := 0; hi < 256; hi++ {
		for lo := 0; lo < 256; lo++ {
			want := hi*256 + lo
			if want >= 1<<15 {
				want -= 1 << 16
			}
			if got := combine(byte(lo), byte(hi)); int(got) != want {
				t.Fatalf("combine(%#x, %#x) = %d, want %d", lo, hi, got, want)
			}
		}
	}
}

func TestReadTimeoutLeavesPreviousSample(t *testing.T) {
	acc := Vector[int16]{X: 1, Y: 2, Z: 3}
	gyro := Vector[int16]{X: 4, Y: 5, Z: 6}
	bus := newFakeBus()
	bus.addDevice(DS33SA0HighAddress, ds33Regs(acc, gyro))
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))
	d.Read()
	require.Equal(t, acc, d.A)

	// Device stops answering; every poll advances the fake clock 1 ms.
	var now uint16
	d.millis = func() uint16 { return now }
	bus.onPoll = func() { now++ }
	bus.neverRespond = true
	bus.polls = 0
	d.SetTimeout(25)

	d.ReadAcc()

	assert.True(t, d.TimeoutOccurred())
	assert.Equal(t, acc, d.A, "timed-out read must not disturb the previous sample")
	// One poll per elapsed millisecond, plus the final one past the
	// deadline.
	assert.InDelta(t, 26, bus.polls, 2)
}

func TestReadTimeoutSurvivesClockWraparound(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, ds33Regs(Vector[int16]{}, Vector[int16]{}))
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))

	// Start 5 ms before the 16-bit counter wraps. The deadline lies on
	// the far side of the wrap and must still be honored exactly.
	now := uint16(65530)
	d.millis = func() uint16 { return now }
	bus.onPoll = func() { now++ }
	bus.neverRespond = true
	bus.polls = 0
	d.SetTimeout(20)

	d.ReadGyro()

	assert.True(t, d.TimeoutOccurred())
	assert.InDelta(t, 21, bus.polls, 2)
}

func TestZeroTimeoutWaitsForSlowDevice(t *testing.T) {
	acc := Vector[int16]{X: 7, Y: 8, Z: 9}
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, ds33Regs(acc, Vector[int16]{}))
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))

	// Bytes show up only after 1000 polls; with timeout disabled the
	// driver must keep waiting and never set the flag.
	bus.starve = 1000
	d.SetTimeout(0)

	d.ReadAcc()

	assert.Equal(t, acc, d.A)
	assert.False(t, d.TimeoutOccurred())
	assert.Greater(t, bus.polls, 1000)
}

func TestTimeoutOccurredReadsAndResets(t *testing.T) {
	bus := newFakeBus()
	bus.addDevice(DS33SA0LowAddress, ds33Regs(Vector[int16]{}, Vector[int16]{}))
	d := New(bus)
	require.True(t, d.Init(DeviceAuto, SA0Auto))

	var now uint16
	d.millis = func() uint16 { return now }
	bus.onPoll = func() { now++ }
	bus.neverRespond = true
	d.SetTimeout(5)
	d.ReadAcc()

	assert.True(t, d.TimeoutOccurred())
	assert.False(t, d.TimeoutOccurred(), "flag must clear on read")
}

func TestSetGetTimeout(t *testing.T) {
	d := New(newFakeBus())

	assert.Equal(t, uint16(0), d.GetTimeout())
	d.SetTimeout(150)
	assert.Equal(t, uint16(150), d.GetTimeout())
}
