// Package gbcore wires the scheduler, timer, and bus into a runnable SM83
// core, and defines the Bus the cpu package's local interface is satisfied
// against.
package gbcore

import (
	"fmt"

	"github.com/lucasmora/sm83core/gbcore/logger"
	"github.com/lucasmora/sm83core/gbcore/scheduler"
	"github.com/lucasmora/sm83core/gbcore/timer"
)

const (
	wramBank0Start = 0xC000
	wramBank1Start = 0xD000
	wramBank1End   = 0xDFFF
	hramStart      = 0xFF80
	hramEnd        = 0xFFFE
	addrIF         = 0xFF0F
	addrIE         = 0xFFFF
	addrSB         = 0xFF01
	addrSC         = 0xFF02
	addrLY         = 0xFF44
)

// Bus is the memory-mapped address space: ROM (borrowed), WRAM, HRAM, the
// timer's I/O registers, the interrupt-flag/enable bytes, and stubbed
// VRAM/audio/PPU register pages.
type Bus struct {
	cart []byte

	wram [0x2000]byte
	hram [0x7F]byte

	interruptFlag   byte
	interruptEnable byte

	timer *timer.Timer
	log   *logger.Logger

	serialOut func(byte)
}

// NewBus returns a Bus with its own timer, wired so timer overflow sets the
// interrupt-flag's timer bit (bit 2).
func NewBus(sched *scheduler.Scheduler, log *logger.Logger) *Bus {
	if log == nil {
		log = logger.New()
	}
	b := &Bus{log: log}
	b.timer = timer.New(sched, func() { b.SetInterrupt(2) }, log)
	return b
}

// Reset zeroes WRAM, HRAM, and the interrupt bytes, and resets the timer.
// The cartridge pointer is left untouched — it is borrowed once at startup
// and never reassigned.
func (b *Bus) Reset() {
	b.wram = [0x2000]byte{}
	b.hram = [0x7F]byte{}
	b.interruptFlag = 0
	b.interruptEnable = 0
	b.timer.Reset()
}

// SetCartData registers an externally-owned byte slice as cartridge ROM.
// No copy is made and no length is tracked beyond the slice itself.
func (b *Bus) SetCartData(data []byte) {
	b.cart = data
}

// SetSerialOutput installs the sink that receives bytes written to SB
// (0xFF01), the Blargg-style test-ROM text channel.
func (b *Bus) SetSerialOutput(fn func(byte)) {
	b.serialOut = fn
}

// SetInterrupt ORs the given bit index into the interrupt-flag byte.
func (b *Bus) SetInterrupt(bitIdx uint8) {
	b.interruptFlag |= 1 << bitIdx
}

// State is a read-only snapshot for external tools.
type State struct {
	InterruptFlag   byte
	InterruptEnable byte
	TIMA, TMA, TAC  byte
}

// GetState exposes the bus for inspection by external tools.
func (b *Bus) GetState() State {
	return State{
		InterruptFlag:   b.interruptFlag,
		InterruptEnable: b.interruptEnable,
		TIMA:            b.timer.TIMA,
		TMA:             b.timer.TMA,
		TAC:             b.timer.TAC,
	}
}

// Read decodes addr and returns the byte it maps to. Unclaimed addresses
// are a diagnostic channel, not an error: they log a warning and return
// 0xFF.
func (b *Bus) Read(addr uint16) byte {
	n3 := addr >> 12

	switch {
	case n3 <= 0x7:
		return b.readCart(addr)
	case n3 == 0x8 || n3 == 0x9:
		// VRAM stub: writes discarded, reads fall through.
	case n3 == 0xC:
		return b.wram[addr-wramBank0Start]
	case n3 == 0xD:
		return b.wram[0x1000+(addr-wramBank1Start)]
	case n3 == 0xF:
		if v, ok := b.readIO(addr); ok {
			return v
		}
	}

	b.log.Log(logger.Warning, "Unhandled memory read: 0x%04X", addr)
	return 0xFF
}

// Write decodes addr and stores value, or discards it for stubbed regions.
func (b *Bus) Write(addr uint16, value byte) {
	n3 := addr >> 12

	switch {
	case n3 <= 0x7:
		// ROM is read-only in this core; writes are silently discarded.
		return
	case n3 == 0x8 || n3 == 0x9:
		// VRAM stub: accepted, discarded.
		return
	case n3 == 0xC:
		b.wram[addr-wramBank0Start] = value
		return
	case n3 == 0xD:
		b.wram[0x1000+(addr-wramBank1Start)] = value
		return
	case n3 == 0xF:
		if b.writeIO(addr, value) {
			return
		}
	}

	b.log.Log(logger.Warning, "Unhandled memory write: 0x%04X [<- 0x%02X]", addr, value)
}

// readCart treats the whole 0x0000-0x7FFF range as cartridge-mapped,
// matching the stated intent rather than the source's partial nibble
// switch (see the design notes for the distinction).
func (b *Bus) readCart(addr uint16) byte {
	if int(addr) >= len(b.cart) {
		b.log.Log(logger.Warning, "Unhandled memory read: 0x%04X", addr)
		return 0xFF
	}
	return b.cart[addr]
}

// readIO handles the 0xFF00-0xFFFF page. ok is false for addresses that
// fall through to the unhandled-access warning.
func (b *Bus) readIO(addr uint16) (byte, bool) {
	n1 := (addr >> 4) & 0xF
	n0 := addr & 0xF

	switch {
	case addr == addrIE:
		return b.interruptEnable, true
	case n1 == 0x0 && n0 == 0xF:
		return b.interruptFlag, true
	case n1 == 0x0 && n0 == 0x1:
		return 0, true // SB readback is not modeled; writes are the channel.
	case n1 == 0x0 && n0 == 0x2:
		return 0, true
	case n1 == 0x0 && (n0 == 0x5 || n0 == 0x6 || n0 == 0x7):
		return b.readTimer(addr), true
	case n1 == 0x2:
		return 0, true // NR50/NR51/NR52 stub.
	case n1 == 0x4:
		if addr == addrLY {
			return 0xFF, true // silent sentinel, no warning log
		}
		return 0, true
	case addr >= hramStart && addr <= hramEnd:
		return b.hram[addr-hramStart], true
	}
	return 0, false
}

func (b *Bus) writeIO(addr uint16, value byte) bool {
	n1 := (addr >> 4) & 0xF
	n0 := addr & 0xF

	switch {
	case addr == addrIE:
		b.interruptEnable = value
		return true
	case n1 == 0x0 && n0 == 0xF:
		b.interruptFlag = value
		return true
	case addr == addrSB:
		if b.serialOut != nil {
			b.serialOut(value)
		}
		return true
	case addr == addrSC:
		return true // accepted, ignored
	case n1 == 0x0 && (n0 == 0x5 || n0 == 0x6 || n0 == 0x7):
		b.writeTimer(addr, value)
		return true
	case n1 == 0x2:
		return true // audio control stub: ignored
	case n1 == 0x4:
		return true // PPU control stub: ignored
	case addr >= hramStart && addr <= hramEnd:
		b.hram[addr-hramStart] = value
		return true
	}
	return false
}

func (b *Bus) readTimer(addr uint16) byte {
	switch addr & 0xF {
	case 0x5:
		return b.timer.TIMA
	case 0x6:
		return b.timer.TMA
	case 0x7:
		return b.timer.TAC
	default:
		panic(fmt.Sprintf("readTimer called with non-timer address: 0x%04X", addr))
	}
}

func (b *Bus) writeTimer(addr uint16, value byte) {
	switch addr & 0xF {
	case 0x5:
		b.timer.WriteTIMA(value)
	case 0x6:
		b.timer.WriteTMA(value)
	case 0x7:
		b.timer.WriteTAC(value)
	}
}
