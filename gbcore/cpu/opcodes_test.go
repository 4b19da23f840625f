package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmora/sm83core/gbcore/scheduler"
)

// fakeBus is a flat 64KiB byte array standing in for gbcore.Bus in tests.
type fakeBus struct {
	mem [0x10000]byte
}

func (b *fakeBus) Read(address uint16) byte        { return b.mem[address] }
func (b *fakeBus) Write(address uint16, value byte) { b.mem[address] = value }

func (b *fakeBus) loadAt(addr uint16, bytes ...byte) {
	for i, v := range bytes {
		b.mem[int(addr)+i] = v
	}
}

func newTestCPU() (*CPU, *fakeBus, *scheduler.Scheduler) {
	bus := &fakeBus{}
	sched := scheduler.New(nil)
	c := New(bus, sched, nil)
	c.Reset()
	c.pc.SetValue(0x0100)
	return c, bus, sched
}

func TestIncOverflowSetsZeroKeepsCarry(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlags(flagCarry)
	bus.loadAt(0x0100, 0x3C) // INC A
	c.af.hi = 0xFF

	cycles := c.Step()

	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint8(0x00), c.af.hi)
	assert.True(t, c.flags()&flagZero != 0)
	assert.True(t, c.flags()&flagCarry != 0)
}

func TestDecToZeroSetsZero(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.loadAt(0x0100, 0x3D) // DEC A
	c.af.hi = 0x01

	c.Step()

	assert.Equal(t, uint8(0x00), c.af.hi)
	assert.True(t, c.flags()&flagZero != 0)
}

func TestAddWithCarryInProducesZeroAndCarryOut(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlags(flagCarry)
	c.af.hi = 0xFF
	bus.loadAt(0x0100, 0xCE, 0x00) // ADC A,0x00

	c.Step()

	assert.Equal(t, uint8(0x00), c.af.hi)
	assert.True(t, c.flags()&flagZero != 0)
	assert.True(t, c.flags()&flagCarry != 0)
}

func TestSubEqualOperandsIsZeroNoCarry(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.af.hi = 0x42
	c.bc.hi = 0x42
	bus.loadAt(0x0100, 0x90) // SUB B

	c.Step()

	assert.Equal(t, uint8(0x00), c.af.hi)
	assert.True(t, c.flags()&flagZero != 0)
	assert.False(t, c.flags()&flagCarry != 0)
}

func TestSRLShiftsOutLastBitSetsZeroAndCarry(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.bc.hi = 0x01
	bus.loadAt(0x0100, 0xCB, 0x38) // SRL B

	cycles := c.Step()

	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint8(0x00), c.bc.hi)
	assert.True(t, c.flags()&flagZero != 0)
	assert.True(t, c.flags()&flagCarry != 0)
}

func TestRRWithCarryInRotatesIntoBit7(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlags(flagCarry)
	c.bc.lo = 0x00
	bus.loadAt(0x0100, 0xCB, 0x19) // RR C

	c.Step()

	assert.Equal(t, uint8(0x80), c.bc.lo)
	assert.False(t, c.flags()&flagZero != 0)
	assert.False(t, c.flags()&flagCarry != 0)
}

func TestPushPopRoundTripMasksLowNibbleOfF(t *testing.T) {
	c, _, _ := newTestCPU()
	c.af.SetValue(0x1234) // low nibble of F set, must be masked away on POP AF
	c.pushStack(c.af.Value())
	c.af.SetValue(0)

	c.af.SetValue(c.popStack())
	c.af.lo &= 0xF0 // mirrors opPopAF's masking, exercised directly here

	assert.Equal(t, uint8(0x30), c.af.lo)
	assert.Equal(t, uint8(0x12), c.af.hi)
}

func TestStackPushSPAccounting(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.sp.SetValue(0xFFFE)
	c.af.hi = 0x42
	bus.loadAt(0x0100,
		0xF5, // PUSH AF
	)
	c.Step()

	assert.Equal(t, uint16(0xFFFC), c.sp.Value())
	assert.Equal(t, byte(0x42), bus.mem[0xFFFD])
}

func TestLDIAndLDDRoundTripLeavesHLAtExpectedOffset(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.hl.SetValue(0xC000)
	c.af.hi = 0x11
	bus.loadAt(0x0100, 0x22) // LD (HL+),A
	c.Step()
	assert.Equal(t, uint16(0xC001), c.hl.Value())
	assert.Equal(t, byte(0x11), bus.mem[0xC000])

	c.pc.SetValue(0x0101)
	c.af.hi = 0x22
	bus.loadAt(0x0101, 0x32) // LD (HL-),A
	c.Step()
	assert.Equal(t, uint16(0xC000), c.hl.Value())
	assert.Equal(t, byte(0x22), bus.mem[0xC001])
}

func TestDoubleResetIsIdempotent(t *testing.T) {
	c, _, _ := newTestCPU()
	c.Reset()
	first := c.GetState()
	c.Reset()
	second := c.GetState()
	assert.Equal(t, first, second)
}

func TestEightNOPsConsumeThirtyTwoCycles(t *testing.T) {
	c, bus, sched := newTestCPU()
	for i := 0; i < 8; i++ {
		bus.mem[0x0100+i] = 0x00
	}
	for i := 0; i < 8; i++ {
		c.Step()
	}
	assert.Equal(t, uint64(32), sched.Now())
}

func TestORZeroResultSetsOnlyZeroFlag(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlags(flagZero | flagCarry)
	c.af.hi = 0
	bus.loadAt(0x0100, 0xB7) // OR A

	c.Step()

	assert.Equal(t, uint8(0x80), c.flags())
}

func TestIncBWrapsToZeroAfterDelayLoop(t *testing.T) {
	c, bus, _ := newTestCPU()
	bus.loadAt(0x0100, 0x06, 0xFF, 0x04) // LD B,0xFF ; INC B
	c.Step()
	require.Equal(t, uint8(0xFF), c.bc.hi)
	c.Step()
	assert.Equal(t, uint8(0x00), c.bc.hi)
	assert.True(t, c.flags()&flagZero != 0)
}

func TestUnmappedOpcodeStillGrantsNonZeroCycles(t *testing.T) {
	c, bus, sched := newTestCPU()
	bus.mem[0x0100] = 0xFD // not in the implemented subset
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint64(4), sched.Now())
}

func TestCBUnmappedOpcodeStillGrantsNonZeroCycles(t *testing.T) {
	c, bus, sched := newTestCPU()
	bus.loadAt(0x0100, 0xCB, 0xFF)
	cycles := c.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint64(8), sched.Now())
}

func TestConditionalJumpsRespectFlags(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.setFlags(flagZero)
	bus.loadAt(0x0100, 0x28, 0x05) // JR Z,+5
	cycles := c.Step()
	assert.Equal(t, 12, cycles)
	assert.Equal(t, uint16(0x0107), c.pc.Value())

	c, bus, _ = newTestCPU()
	c.setFlags(0) // post-boot AF has Z set by default; clear it for the not-taken case
	bus.loadAt(0x0100, 0x28, 0x05) // JR Z,+5 but Z clear
	cycles = c.Step()
	assert.Equal(t, 8, cycles)
	assert.Equal(t, uint16(0x0102), c.pc.Value())
}

func TestCallAndReturnRoundTrip(t *testing.T) {
	c, bus, _ := newTestCPU()
	c.sp.SetValue(0xFFFE)
	bus.loadAt(0x0100, 0xCD, 0x00, 0x02) // CALL 0x0200
	bus.mem[0x0200] = 0xC9               // RET

	cycles := c.Step()
	assert.Equal(t, 24, cycles)
	assert.Equal(t, uint16(0x0200), c.pc.Value())
	assert.Equal(t, uint16(0xFFFC), c.sp.Value())

	cycles = c.Step()
	assert.Equal(t, 16, cycles)
	assert.Equal(t, uint16(0x0103), c.pc.Value())
	assert.Equal(t, uint16(0xFFFE), c.sp.Value())
}
