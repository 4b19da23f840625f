// Package cpu implements the SM83 fetch-decode-execute loop: register
// state, the subset of the opcode table needed to run simple test ROMs,
// and the two tracked flag bits (zero, carry).
package cpu

import (
	"github.com/lucasmora/sm83core/gbcore/logger"
	"github.com/lucasmora/sm83core/gbcore/scheduler"
)

const (
	flagZero  uint8 = 0x80
	flagCarry uint8 = 0x10
)

// Bus is the memory-mapped interface the CPU reads and writes through.
// Defined here (rather than imported from the bus package) so cpu has no
// dependency on bus — bus depends on cpu's Bus interface being satisfied,
// not the other way around.
type Bus interface {
	Read(address uint16) byte
	Write(address uint16, value byte)
}

// CPU holds SM83 register state and executes one instruction per Step.
type CPU struct {
	af, bc, de, hl, sp, pc RegisterPair
	opcode                 uint8

	bus   Bus
	sched *scheduler.Scheduler
	log   *logger.Logger
}

// New returns a CPU wired to bus and sched. A nil log is replaced with a
// default logger.
func New(bus Bus, sched *scheduler.Scheduler, log *logger.Logger) *CPU {
	if log == nil {
		log = logger.New()
	}
	return &CPU{bus: bus, sched: sched, log: log}
}

// Reset loads the post-boot-ROM register state.
func (c *CPU) Reset() {
	c.af.SetValue(0x01B0)
	c.bc.SetValue(0x0013)
	c.de.SetValue(0x00D8)
	c.hl.SetValue(0x014D)
	c.sp.SetValue(0xFFFE)
	c.pc.SetValue(0x0100)
	c.opcode = 0
}

// State is a read-only snapshot of CPU registers, exposed for external
// tools (tracers, the terminal monitor) without granting mutation access.
type State struct {
	AF, BC, DE, HL, SP, PC uint16
}

// GetState returns the current register window.
func (c *CPU) GetState() State {
	return State{
		AF: c.af.Value(),
		BC: c.bc.Value(),
		DE: c.de.Value(),
		HL: c.hl.Value(),
		SP: c.sp.Value(),
		PC: c.pc.Value(),
	}
}

// PC returns the current program counter, used by the driver to detect
// the termination sentinel.
func (c *CPU) PC() uint16 {
	return c.pc.Value()
}

// Step fetches the instruction at PC, decodes and executes it, then
// reports its cycle cost to the scheduler. Every path reports a non-zero
// cycle count — a zero grant is a defect the opcode table must not
// produce.
func (c *CPU) Step() int {
	pc := c.pc.Value()
	c.opcode = c.bus.Read(pc)
	c.pc.SetValue(pc + 1)

	var cycles int
	if c.opcode == 0xCB {
		cbOpcode := c.fetch8()
		fn, ok := opcodeCBTable[cbOpcode]
		if !ok {
			c.log.Log(logger.Critical, "invalid CB opcode %02X at PC=%04X", cbOpcode, pc)
			cycles = 8
		} else {
			cycles = fn(c)
		}
	} else {
		fn, ok := opcodeTable[c.opcode]
		if !ok {
			c.log.Log(logger.Critical, "invalid opcode %02X at PC=%04X", c.opcode, pc)
			cycles = 4
		} else {
			cycles = fn(c)
		}
	}

	c.sched.AddCycles(uint64(cycles))
	return cycles
}

func (c *CPU) setFlags(value uint8) {
	c.af.SetLo(value)
}

func (c *CPU) flags() uint8 {
	return c.af.Lo()
}

func (c *CPU) isCarrySet() bool {
	return c.af.Lo()&flagCarry != 0
}

func (c *CPU) carryBit() uint8 {
	if c.isCarrySet() {
		return 1
	}
	return 0
}

// setZC sets exactly the zero and carry bits from the given booleans,
// clearing everything else (setZC never sets subtract or half-carry).
func (c *CPU) setZC(zero, carry bool) {
	var f uint8
	if zero {
		f |= flagZero
	}
	if carry {
		f |= flagCarry
	}
	c.setFlags(f)
}

// setZKeepCarry sets the zero bit from the result and leaves the carry
// bit untouched; used by INC/DEC, which this core does not compute
// carry for.
func (c *CPU) setZKeepCarry(zero bool) {
	f := c.flags() & flagCarry
	if zero {
		f |= flagZero
	}
	c.setFlags(f)
}

// setCKeepZero updates only the carry bit, leaving zero untouched; used
// by 16-bit ADD HL,rr which affects no other flag in this core.
func (c *CPU) setCKeepZero(carry bool) {
	f := c.flags() & flagZero
	if carry {
		f |= flagCarry
	}
	c.setFlags(f)
}

func (c *CPU) fetch8() uint8 {
	pc := c.pc.Value()
	v := c.bus.Read(pc)
	c.pc.SetValue(pc + 1)
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) fetchSigned8() int8 {
	return int8(c.fetch8())
}
