package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask(t *testing.T) {
	assert.Equal(t, uint64(0b1110), Mask[uint64](1, 4))
	assert.Equal(t, uint8(0xFF), Mask[uint8](0, 8))
	assert.Equal(t, uint64(0xF0), Mask[uint64](4, 8))
	assert.Equal(t, ^uint64(0), Mask[uint64](0, 64))
	assert.Equal(t, uint64(1)<<63, Mask[uint64](63, 64))

	// The full 64 bit range must stay instantiable at every unsigned width.
	assert.Equal(t, uint8(0xFF), Mask[uint8](0, 64))
	assert.Equal(t, uint16(0xFFFF), Mask[uint16](0, 64))

	assert.Panics(t, func() { Mask[uint64](4, 4) })
	assert.Panics(t, func() { Mask[uint64](0, 65) })
}

func TestExtractMerge(t *testing.T) {
	// Two nibbles in one byte.
	store := uint64(0xA5)
	assert.Equal(t, uint64(0x5), Extract(store, 0, 4))
	assert.Equal(t, uint64(0xA), Extract(store, 4, 4))

	// Merging one nibble leaves the other untouched.
	store = Merge(store, 0xC, 4, 4)
	assert.Equal(t, uint64(0xC5), store)
	store = Merge(store, 0x3, 0, 4)
	assert.Equal(t, uint64(0xC3), store)

	// Oversized values are truncated to the window.
	store = Merge(0, 0x1FF, 0, 8)
	assert.Equal(t, uint64(0xFF), store)
}

func TestSignExtend(t *testing.T) {
	assert.Equal(t, int64(-1), SignExtend(0xF, 4))
	assert.Equal(t, int64(7), SignExtend(0x7, 4))
	assert.Equal(t, int64(-8), SignExtend(0x8, 4))
	assert.Equal(t, int64(-1), SignExtend(^uint64(0), 64))
	assert.Equal(t, int64(127), SignExtend(127, 8))
	assert.Equal(t, int64(-128), SignExtend(128, 8))

	assert.Panics(t, func() { SignExtend(0, 0) })
}

func TestRoundup(t *testing.T) {
	assert.Equal(t, 8, Roundup(5, 4))
	assert.Equal(t, 4, Roundup(4, 4))
	assert.Equal(t, 0, Roundup(0, 8))
	assert.Equal(t, int64(64), Roundup[int64](33, 32))
}

func TestGroupUint(t *testing.T) {
	b := []byte{0x00, 0x00, 0x40, 0x00}
	assert.Equal(t, uint64(0x00004000), GroupUint(b, true))
	assert.Equal(t, uint64(0x00400000), GroupUint(b, false))

	// Odd group sizes have no encoding/binary equivalent.
	assert.Equal(t, uint64(0x010203), GroupUint([]byte{1, 2, 3}, true))
	assert.Equal(t, uint64(0x030201), GroupUint([]byte{1, 2, 3}, false))

	assert.Panics(t, func() { GroupUint(make([]byte, 9), true) })
}

func TestPutGroupUint(t *testing.T) {
	for _, big := range []bool{true, false} {
		b := make([]byte, 3)
		PutGroupUint(b, 0x010203, big)
		require.Equal(t, uint64(0x010203), GroupUint(b, big))
	}

	b := make([]byte, 4)
	PutGroupUint(b, 0x00004000, true)
	assert.Equal(t, []byte{0x00, 0x00, 0x40, 0x00}, b)
}
