package txd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMortonEncodeDecodeRoundTrip(t *testing.T) {
	for x := uint32(0); x < 16; x++ {
		for y := uint32(0); y < 16; y++ {
			m := MortonEncode(x, y)
			gotX, gotY := MortonDecode(m)
			assert.Equal(t, x, gotX, "x round-trip for (%d,%d)", x, y)
			assert.Equal(t, y, gotY, "y round-trip for (%d,%d)", x, y)
		}
	}
}

func TestMortonEncodeInterleavesBitsLowestFirst(t *testing.T) {
	assert.Equal(t, uint32(0), MortonEncode(0, 0))
	assert.Equal(t, uint32(1), MortonEncode(1, 0))
	assert.Equal(t, uint32(2), MortonEncode(0, 1))
	assert.Equal(t, uint32(3), MortonEncode(1, 1))
}

func TestUnswizzleMortonCopiesKnownPixel(t *testing.T) {
	const w, h, bpp = 2, 2, 4
	src := make([]byte, w*h*bpp)
	// place a marker pixel at the Morton-encoded source offset for (1,1)
	srcOffset := int(MortonEncode(1, 1)) * bpp
	copy(src[srcOffset:srcOffset+bpp], []byte{0xAA, 0xBB, 0xCC, 0xDD})

	dst := UnswizzleMorton(src, w, h, bpp)

	dstOffset := (1*w + 1) * bpp
	assert.Equal(t, []byte{0xAA, 0xBB, 0xCC, 0xDD}, dst[dstOffset:dstOffset+bpp])
}

func TestUnswizzleMortonSkipsOutOfRangeSourceIndices(t *testing.T) {
	const w, h, bpp = 4, 4, 4
	src := make([]byte, 2) // far too short for any real pixel
	dst := UnswizzleMorton(src, w, h, bpp)
	assert.Len(t, dst, w*h*bpp)
	for _, b := range dst {
		assert.Equal(t, byte(0), b)
	}
}
