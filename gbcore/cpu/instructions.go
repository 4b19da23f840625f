package cpu

import "github.com/lucasmora/sm83core/gbcore/bit"

// condition predicates for JR/JP/CALL/RET.
type condition func(*CPU) bool

func condNZ(c *CPU) bool { return c.flags()&flagZero == 0 }
func condZ(c *CPU) bool  { return c.flags()&flagZero != 0 }
func condNC(c *CPU) bool { return c.flags()&flagCarry == 0 }
func condC(c *CPU) bool  { return c.flags()&flagCarry != 0 }

func (c *CPU) inc8(r *uint8) {
	*r++
	c.setZKeepCarry(*r == 0)
}

func (c *CPU) dec8(r *uint8) {
	*r--
	c.setZKeepCarry(*r == 0)
}

// addToA adds value to A, setting Z from the result and C when the sum
// overflows 8 bits.
func (c *CPU) addToA(value uint8) {
	sum := uint16(c.af.hi) + uint16(value)
	c.af.hi = uint8(sum)
	c.setZC(c.af.hi == 0, sum > 0xFF)
}

// adcToA adds value plus the carry bit to A, with the same Z/C behavior as
// addToA computed over the full carry-included sum.
func (c *CPU) adcToA(value uint8) {
	sum := uint16(c.af.hi) + uint16(value) + uint16(c.carryBit())
	c.af.hi = uint8(sum)
	c.setZC(c.af.hi == 0, sum > 0xFF)
}

// subFromA computes A-value, setting Z/C, and returns the result without
// writing it back — SUB stores it, CP discards it.
func (c *CPU) subFromA(value uint8) uint8 {
	diff := int16(c.af.hi) - int16(value)
	result := uint8(diff)
	c.setZC(result == 0, diff < 0)
	return result
}

func (c *CPU) addToHL(value uint16) {
	sum := uint32(c.hl.Value()) + uint32(value)
	c.hl.SetValue(uint16(sum))
	c.setCKeepZero(sum > 0xFFFF)
}

// rotateRight rotates a register right through the carry flag. RRA
// clears Z unconditionally; the CB-prefixed RR r/r' variants set it from
// the result.
func (c *CPU) rotateRight(r *uint8, alwaysClearZero bool) {
	oldCarry := c.carryBit()
	newCarry := *r & 0x01
	*r = (*r >> 1) | (oldCarry << 7)
	if alwaysClearZero {
		c.setZC(false, newCarry == 1)
	} else {
		c.setZC(*r == 0, newCarry == 1)
	}
}

func (c *CPU) shiftRightLogical(r *uint8) {
	newCarry := *r & 0x01
	*r = *r >> 1
	c.setZC(*r == 0, newCarry == 1)
}

// pushStack writes high then low, each at a pre-decremented SP, so the
// low byte ends up at the lower address.
func (c *CPU) pushStack(v uint16) {
	c.sp.Decr()
	c.bus.Write(c.sp.Value(), bit.High(v))
	c.sp.Decr()
	c.bus.Write(c.sp.Value(), bit.Low(v))
}

// popStack reads low then high, each at a post-incremented SP.
func (c *CPU) popStack() uint16 {
	lo := c.bus.Read(c.sp.Value())
	c.sp.Incr()
	hi := c.bus.Read(c.sp.Value())
	c.sp.Incr()
	return bit.Combine(hi, lo)
}

func (c *CPU) jr(cond condition) int {
	offset := c.fetchSigned8()
	if cond == nil || cond(c) {
		c.pc.SetValue(uint16(int32(c.pc.Value()) + int32(offset)))
		return 12
	}
	return 8
}

func (c *CPU) jp(cond condition) int {
	addr := c.fetch16()
	if cond == nil || cond(c) {
		c.pc.SetValue(addr)
		return 16
	}
	return 12
}

func (c *CPU) call(cond condition) int {
	addr := c.fetch16()
	if cond == nil || cond(c) {
		c.pushStack(c.pc.Value())
		c.pc.SetValue(addr)
		return 24
	}
	return 12
}

func (c *CPU) ret(cond condition) int {
	if cond == nil {
		c.pc.SetValue(c.popStack())
		return 16
	}
	if cond(c) {
		c.pc.SetValue(c.popStack())
		return 20
	}
	return 8
}
