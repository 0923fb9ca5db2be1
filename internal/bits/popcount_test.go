package bits

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPopcount64MatchesStdlib(t *testing.T) {
	cases := []uint64{0, 1, 0xFFFFFFFFFFFFFFFF, 0x5555555555555555, 0xDEADBEEFCAFEBABE, 0x8000000000000001}
	for _, c := range cases {
		assert.Equal(t, bits.OnesCount64(c), Popcount64(c), "value %#x", c)
	}
}

func TestHamming15Zero(t *testing.T) {
	assert.Equal(t, 0, Hamming15(0x123456789ABCDEF, 0x123456789ABCDEF))
}

func TestHamming15CountsNibbleDiffsNotBitDiffs(t *testing.T) {
	// Nibble 0 differs: 0x1 vs 0xF (3 of its 4 bits differ), still counts as 1
	// mismatched nibble, not 3 mismatched bits.
	assert.Equal(t, 1, Hamming15(0x1, 0xF))
	// Nibble 0 and nibble 1 both differ: two mismatched nibbles.
	assert.Equal(t, 2, Hamming15(0x21, 0x92))
}

func TestHamming15AllFifteenNibblesDiffer(t *testing.T) {
	var a, b uint64
	for i := 0; i < 15; i++ {
		a |= uint64(i%10) << (4 * i)
		b |= uint64((i+1)%10) << (4 * i)
	}
	assert.Equal(t, 15, Hamming15(a, b))
}

func TestHamming14SharesHamming15Mask(t *testing.T) {
	// Both operands have nibble 15 == 0 (valid 14-nibble codes), so Hamming14
	// must agree with a direct Hamming15 call.
	a := uint64(0x0123456789ABCD)
	b := uint64(0x0123456789AB0D)
	assert.Equal(t, Hamming15(a, b), Hamming14(a, b))
}
