package cpu

import "github.com/lucasmora/sm83core/gbcore/bit"

// RegisterPair is a 16-bit value with byte-addressable high and low
// halves. Writing Hi then reading Value must return (hi<<8)|lo, and
// writing Value then reading Lo must return the low byte — the two
// views always alias the same storage.
type RegisterPair struct {
	hi, lo uint8
}

// Value returns the combined 16-bit value.
func (r RegisterPair) Value() uint16 {
	return bit.Combine(r.hi, r.lo)
}

// SetValue replaces both halves from a 16-bit value.
func (r *RegisterPair) SetValue(v uint16) {
	r.hi = bit.High(v)
	r.lo = bit.Low(v)
}

// Hi returns the high (most significant) byte.
func (r RegisterPair) Hi() uint8 {
	return r.hi
}

// Lo returns the low (least significant) byte.
func (r RegisterPair) Lo() uint8 {
	return r.lo
}

// SetHi replaces the high byte, leaving the low byte untouched.
func (r *RegisterPair) SetHi(v uint8) {
	r.hi = v
}

// SetLo replaces the low byte, leaving the high byte untouched.
func (r *RegisterPair) SetLo(v uint8) {
	r.lo = v
}

// Incr adds 1 to the pair's value, wrapping from 0xFFFF to 0x0000.
func (r *RegisterPair) Incr() {
	r.SetValue(r.Value() + 1)
}

// Decr subtracts 1 from the pair's value, wrapping from 0x0000 to 0xFFFF.
func (r *RegisterPair) Decr() {
	r.SetValue(r.Value() - 1)
}
