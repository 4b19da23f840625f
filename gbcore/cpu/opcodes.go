package cpu

// Opcode executes one instruction body and returns its cycle cost.
type Opcode func(*CPU) int

// NOP
// 0x00
func opNOP(c *CPU) int { return 4 }

// LD BC,nn
// 0x01
func opLDBCnn(c *CPU) int { c.bc.SetValue(c.fetch16()); return 12 }

// LD DE,nn
// 0x11
func opLDDEnn(c *CPU) int { c.de.SetValue(c.fetch16()); return 12 }

// LD HL,nn
// 0x21
func opLDHLnn(c *CPU) int { c.hl.SetValue(c.fetch16()); return 12 }

// LD SP,nn
// 0x31
func opLDSPnn(c *CPU) int { c.sp.SetValue(c.fetch16()); return 12 }

// INC BC / DE / HL
// 0x03 / 0x13 / 0x23
func opIncBC(c *CPU) int { c.bc.Incr(); return 8 }
func opIncDE(c *CPU) int { c.de.Incr(); return 8 }
func opIncHL(c *CPU) int { c.hl.Incr(); return 8 }

// INC r8
// 0x04 0x0C 0x14 0x1C 0x24 0x2C 0x3C
func opIncB(c *CPU) int { c.inc8(&c.bc.hi); return 4 }
func opIncC(c *CPU) int { c.inc8(&c.bc.lo); return 4 }
func opIncD(c *CPU) int { c.inc8(&c.de.hi); return 4 }
func opIncE(c *CPU) int { c.inc8(&c.de.lo); return 4 }
func opIncH(c *CPU) int { c.inc8(&c.hl.hi); return 4 }
func opIncL(c *CPU) int { c.inc8(&c.hl.lo); return 4 }
func opIncA(c *CPU) int { c.inc8(&c.af.hi); return 4 }

// DEC r8
// 0x05 0x0D 0x15 0x1D 0x25 0x2D 0x3D
func opDecB(c *CPU) int { c.dec8(&c.bc.hi); return 4 }
func opDecC(c *CPU) int { c.dec8(&c.bc.lo); return 4 }
func opDecD(c *CPU) int { c.dec8(&c.de.hi); return 4 }
func opDecE(c *CPU) int { c.dec8(&c.de.lo); return 4 }
func opDecH(c *CPU) int { c.dec8(&c.hl.hi); return 4 }
func opDecL(c *CPU) int { c.dec8(&c.hl.lo); return 4 }
func opDecA(c *CPU) int { c.dec8(&c.af.hi); return 4 }

// INC (HL) / DEC (HL)
// 0x34 / 0x35
func opIncHLmem(c *CPU) int {
	addr := c.hl.Value()
	v := c.bus.Read(addr)
	v++
	c.bus.Write(addr, v)
	c.setZKeepCarry(v == 0)
	return 12
}

func opDecHLmem(c *CPU) int {
	addr := c.hl.Value()
	v := c.bus.Read(addr)
	v--
	c.bus.Write(addr, v)
	c.setZKeepCarry(v == 0)
	return 12
}

// LD r,n (8-bit immediate)
// 0x06 0x0E 0x16 0x1E 0x26 0x2E 0x3E
func opLDBn(c *CPU) int { c.bc.hi = c.fetch8(); return 8 }
func opLDCn(c *CPU) int { c.bc.lo = c.fetch8(); return 8 }
func opLDDn(c *CPU) int { c.de.hi = c.fetch8(); return 8 }
func opLDEn(c *CPU) int { c.de.lo = c.fetch8(); return 8 }
func opLDHn(c *CPU) int { c.hl.hi = c.fetch8(); return 8 }
func opLDLn(c *CPU) int { c.hl.lo = c.fetch8(); return 8 }
func opLDAn(c *CPU) int { c.af.hi = c.fetch8(); return 8 }

// LD (HL),n
// 0x36
func opLDHLmemN(c *CPU) int {
	v := c.fetch8()
	c.bus.Write(c.hl.Value(), v)
	return 12
}

// LD (HL+),A / LD A,(HL+) / LD (HL-),A / LD A,(HL-)
// 0x22 / 0x2A / 0x32 / 0x3A
func opLDIHLmemA(c *CPU) int {
	c.bus.Write(c.hl.Value(), c.af.hi)
	c.hl.Incr()
	return 8
}

func opLDIAHLmem(c *CPU) int {
	c.af.hi = c.bus.Read(c.hl.Value())
	c.hl.Incr()
	return 8
}

func opLDDHLmemA(c *CPU) int {
	c.bus.Write(c.hl.Value(), c.af.hi)
	c.hl.Decr()
	return 8
}

func opLDDAHLmem(c *CPU) int {
	c.af.hi = c.bus.Read(c.hl.Value())
	c.hl.Decr()
	return 8
}

// LD A,r / LD r,A (inter-register)
// 0x78-0x7D, 0x47 0x4F 0x57 0x5F 0x67 0x6F
func opLDAB(c *CPU) int { c.af.hi = c.bc.hi; return 4 }
func opLDAC(c *CPU) int { c.af.hi = c.bc.lo; return 4 }
func opLDAD(c *CPU) int { c.af.hi = c.de.hi; return 4 }
func opLDAE(c *CPU) int { c.af.hi = c.de.lo; return 4 }
func opLDAH(c *CPU) int { c.af.hi = c.hl.hi; return 4 }
func opLDAL(c *CPU) int { c.af.hi = c.hl.lo; return 4 }
func opLDBA(c *CPU) int { c.bc.hi = c.af.hi; return 4 }
func opLDCA(c *CPU) int { c.bc.lo = c.af.hi; return 4 }
func opLDDA(c *CPU) int { c.de.hi = c.af.hi; return 4 }
func opLDEA(c *CPU) int { c.de.lo = c.af.hi; return 4 }
func opLDHA(c *CPU) int { c.hl.hi = c.af.hi; return 4 }
func opLDLA(c *CPU) int { c.hl.lo = c.af.hi; return 4 }

// LD A,(HL) / LD (HL),A
// 0x7E / 0x77
func opLDAHLmem(c *CPU) int { c.af.hi = c.bus.Read(c.hl.Value()); return 8 }
func opLDHLmemA(c *CPU) int { c.bus.Write(c.hl.Value(), c.af.hi); return 8 }

// LD A,(DE) / LD (DE),A
// 0x1A / 0x12
func opLDADEmem(c *CPU) int { c.af.hi = c.bus.Read(c.de.Value()); return 8 }
func opLDDEmemA(c *CPU) int { c.bus.Write(c.de.Value(), c.af.hi); return 8 }

// LDH (n),A / LDH A,(n)
// 0xE0 / 0xF0
func opLDHnA(c *CPU) int {
	offset := c.fetch8()
	c.bus.Write(0xFF00+uint16(offset), c.af.hi)
	return 12
}

func opLDHAn(c *CPU) int {
	offset := c.fetch8()
	c.af.hi = c.bus.Read(0xFF00 + uint16(offset))
	return 12
}

// LD (nn),A / LD A,(nn)
// 0xEA / 0xFA
func opLDnnA(c *CPU) int {
	addr := c.fetch16()
	c.bus.Write(addr, c.af.hi)
	return 16
}

func opLDAnn(c *CPU) int {
	addr := c.fetch16()
	c.af.hi = c.bus.Read(addr)
	return 16
}

// ADD HL,HL
// 0x29
func opAddHLHL(c *CPU) int { c.addToHL(c.hl.Value()); return 8 }

// ADD A,B / ADD A,(HL) / ADD A,n
// 0x80 / 0x86 / 0xC6
func opAddAB(c *CPU) int  { c.addToA(c.bc.hi); return 4 }
func opAddAHL(c *CPU) int { c.addToA(c.bus.Read(c.hl.Value())); return 8 }
func opAddAn(c *CPU) int  { c.addToA(c.fetch8()); return 8 }

// ADC A,B / ADC A,n
// 0x88 / 0xCE
func opAdcAB(c *CPU) int { c.adcToA(c.bc.hi); return 4 }
func opAdcAn(c *CPU) int { c.adcToA(c.fetch8()); return 8 }

// SUB B / SUB n
// 0x90 / 0xD6
func opSubB(c *CPU) int { c.af.hi = c.subFromA(c.bc.hi); return 4 }
func opSubN(c *CPU) int { c.af.hi = c.subFromA(c.fetch8()); return 8 }

// CP B / CP n
// 0xB8 / 0xFE
func opCpB(c *CPU) int { c.subFromA(c.bc.hi); return 4 }
func opCpN(c *CPU) int { c.subFromA(c.fetch8()); return 8 }

// XOR A / OR A / OR B
// 0xAF / 0xB7 / 0xB0
func opXorA(c *CPU) int {
	c.af.hi ^= c.af.hi
	c.setZeroOnlyFlags(c.af.hi == 0)
	return 4
}

func opOrA(c *CPU) int {
	c.setZeroOnlyFlags(c.af.hi == 0)
	return 4
}

func opOrB(c *CPU) int {
	c.af.hi |= c.bc.hi
	c.setZeroOnlyFlags(c.af.hi == 0)
	return 4
}

// AND n
// 0xE6
func opAndN(c *CPU) int {
	c.af.hi &= c.fetch8()
	if c.af.hi == 0 {
		c.setFlags(0xA0)
	} else {
		c.setFlags(0x20)
	}
	return 8
}

func (c *CPU) setZeroOnlyFlags(zero bool) {
	if zero {
		c.setFlags(flagZero)
	} else {
		c.setFlags(0)
	}
}

// JR / JR cc
// 0x18 0x20 0x28 0x30 0x38
func opJR(c *CPU) int    { return c.jr(nil) }
func opJRNZ(c *CPU) int  { return c.jr(condNZ) }
func opJRZ(c *CPU) int   { return c.jr(condZ) }
func opJRNC(c *CPU) int  { return c.jr(condNC) }
func opJRCC(c *CPU) int  { return c.jr(condC) }

// JP nn / JP cc,nn / JP HL
// 0xC3 0xC2 0xCA 0xD2 0xDA 0xE9
func opJPnn(c *CPU) int   { return c.jp(nil) }
func opJPNZnn(c *CPU) int { return c.jp(condNZ) }
func opJPZnn(c *CPU) int  { return c.jp(condZ) }
func opJPNCnn(c *CPU) int { return c.jp(condNC) }
func opJPCnn(c *CPU) int  { return c.jp(condC) }
func opJPHL(c *CPU) int   { c.pc.SetValue(c.hl.Value()); return 4 }

// CALL nn / CALL cc,nn
// 0xCD 0xC4 0xCC 0xD4 0xDC
func opCALLnn(c *CPU) int   { return c.call(nil) }
func opCALLNZnn(c *CPU) int { return c.call(condNZ) }
func opCALLZnn(c *CPU) int  { return c.call(condZ) }
func opCALLNCnn(c *CPU) int { return c.call(condNC) }
func opCALLCnn(c *CPU) int  { return c.call(condC) }

// RET / RET cc
// 0xC9 0xC0 0xC8 0xD0 0xD8
func opRET(c *CPU) int   { return c.ret(nil) }
func opRETNZ(c *CPU) int { return c.ret(condNZ) }
func opRETZ(c *CPU) int  { return c.ret(condZ) }
func opRETNC(c *CPU) int { return c.ret(condNC) }
func opRETC(c *CPU) int  { return c.ret(condC) }

// PUSH BC/DE/HL/AF
// 0xC5 0xD5 0xE5 0xF5
func opPushBC(c *CPU) int { c.pushStack(c.bc.Value()); return 16 }
func opPushDE(c *CPU) int { c.pushStack(c.de.Value()); return 16 }
func opPushHL(c *CPU) int { c.pushStack(c.hl.Value()); return 16 }
func opPushAF(c *CPU) int { c.pushStack(c.af.Value()); return 16 }

// POP BC/DE/HL/AF
// 0xC1 0xD1 0xE1 0xF1
func opPopBC(c *CPU) int { c.bc.SetValue(c.popStack()); return 12 }
func opPopDE(c *CPU) int { c.de.SetValue(c.popStack()); return 12 }
func opPopHL(c *CPU) int { c.hl.SetValue(c.popStack()); return 12 }

// POP AF masks the low nibble of F to zero after the pop, preserving the
// invariant that those bits are always clear.
func opPopAF(c *CPU) int {
	c.af.SetValue(c.popStack())
	c.af.lo &= 0xF0
	return 12
}

// RRA
// 0x1F
func opRRA(c *CPU) int { c.rotateRight(&c.af.hi, true); return 4 }

// DI — no interrupt controller exists in this core, so this is a no-op.
// 0xF3
func opDI(c *CPU) int { return 4 }

var opcodeTable = map[uint8]Opcode{
	0x00: opNOP,
	0x01: opLDBCnn,
	0x03: opIncBC,
	0x04: opIncB,
	0x05: opDecB,
	0x06: opLDBn,
	0x0C: opIncC,
	0x0D: opDecC,
	0x0E: opLDCn,
	0x11: opLDDEnn,
	0x12: opLDDEmemA,
	0x13: opIncDE,
	0x14: opIncD,
	0x15: opDecD,
	0x16: opLDDn,
	0x18: opJR,
	0x1A: opLDADEmem,
	0x1C: opIncE,
	0x1D: opDecE,
	0x1E: opLDEn,
	0x1F: opRRA,
	0x20: opJRNZ,
	0x21: opLDHLnn,
	0x22: opLDIHLmemA,
	0x23: opIncHL,
	0x24: opIncH,
	0x25: opDecH,
	0x26: opLDHn,
	0x28: opJRZ,
	0x29: opAddHLHL,
	0x2A: opLDIAHLmem,
	0x2C: opIncL,
	0x2D: opDecL,
	0x2E: opLDLn,
	0x30: opJRNC,
	0x31: opLDSPnn,
	0x32: opLDDHLmemA,
	0x34: opIncHLmem,
	0x35: opDecHLmem,
	0x36: opLDHLmemN,
	0x38: opJRCC,
	0x3A: opLDDAHLmem,
	0x3C: opIncA,
	0x3D: opDecA,
	0x3E: opLDAn,
	0x47: opLDBA,
	0x4F: opLDCA,
	0x57: opLDDA,
	0x5F: opLDEA,
	0x67: opLDHA,
	0x6F: opLDLA,
	0x77: opLDHLmemA,
	0x78: opLDAB,
	0x79: opLDAC,
	0x7A: opLDAD,
	0x7B: opLDAE,
	0x7C: opLDAH,
	0x7D: opLDAL,
	0x7E: opLDAHLmem,
	0x80: opAddAB,
	0x86: opAddAHL,
	0x88: opAdcAB,
	0x90: opSubB,
	0xB0: opOrB,
	0xB7: opOrA,
	0xB8: opCpB,
	0xAF: opXorA,
	0xC0: opRETNZ,
	0xC1: opPopBC,
	0xC2: opJPNZnn,
	0xC3: opJPnn,
	0xC4: opCALLNZnn,
	0xC5: opPushBC,
	0xC6: opAddAn,
	0xC8: opRETZ,
	0xC9: opRET,
	0xCA: opJPZnn,
	0xCC: opCALLZnn,
	0xCD: opCALLnn,
	0xCE: opAdcAn,
	0xD0: opRETNC,
	0xD1: opPopDE,
	0xD2: opJPNCnn,
	0xD4: opCALLNCnn,
	0xD5: opPushDE,
	0xD6: opSubN,
	0xD8: opRETC,
	0xDA: opJPCnn,
	0xDC: opCALLCnn,
	0xE0: opLDHnA,
	0xE1: opPopHL,
	0xE5: opPushHL,
	0xE6: opAndN,
	0xE9: opJPHL,
	0xEA: opLDnnA,
	0xF0: opLDHAn,
	0xF1: opPopAF,
	0xF3: opDI,
	0xF5: opPushAF,
	0xFA: opLDAnn,
	0xFE: opCpN,
}
