package cpu

// RR C / RR D — rotate right through carry, setting Z from the result.
// 0xCB19 / 0xCB1A
func opCBRRC(c *CPU) int { c.rotateRight(&c.bc.lo, false); return 8 }
func opCBRRD(c *CPU) int { c.rotateRight(&c.de.hi, false); return 8 }

// SRL B — shift right logical, bit 0 into carry, Z from the result.
// 0xCB38
func opCBSRLB(c *CPU) int { c.shiftRightLogical(&c.bc.hi); return 8 }

var opcodeCBTable = map[uint8]Opcode{
	0x19: opCBRRC,
	0x1A: opCBRRD,
	0x38: opCBSRLB,
}
