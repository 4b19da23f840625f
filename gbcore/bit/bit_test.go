package bit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCombine(t *testing.T) {
	assert.Equal(t, uint16(0xABCD), Combine(0xAB, 0xCD))
}

func TestLowHigh(t *testing.T) {
	assert.Equal(t, uint8(0xCD), Low(0xABCD))
	assert.Equal(t, uint8(0xAB), High(0xABCD))
}

func TestSetClearIsSet(t *testing.T) {
	var v uint8 = 0x00

	v = Set(4, v)
	assert.True(t, IsSet(4, v))
	assert.Equal(t, uint8(0x10), v)

	v = Clear(4, v)
	assert.False(t, IsSet(4, v))
	assert.Equal(t, uint8(0x00), v)
}

func TestSwap(t *testing.T) {
	assert.Equal(t, uint8(0xBA), Swap(0xAB))
	assert.Equal(t, uint8(0x00), Swap(0x00))
}
