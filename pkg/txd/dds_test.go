package txd

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertDXT1PassesPixelsThroughWithDXTHeader(t *testing.T) {
	tex := Texture{Name: "wall", Width: 64, Height: 32, MipCount: 1, FormatCode: FormatDXT1, PixelBytes: []byte{1, 2, 3, 4}}
	header, pixels, err := Convert(tex)
	require.NoError(t, err)
	assert.Equal(t, tex.PixelBytes, pixels)
	assert.Equal(t, "DDS ", string(header[0:4]))
	assert.Equal(t, uint32(ddsSize), binary.LittleEndian.Uint32(header[4:8]))
	assert.Equal(t, uint32(32), binary.LittleEndian.Uint32(header[12:16])) // height
	assert.Equal(t, uint32(64), binary.LittleEndian.Uint32(header[16:20])) // width
}

func TestConvertSwizzledBGRARejectsWrongDataSize(t *testing.T) {
	tex := Texture{Name: "bad", Width: 4, Height: 4, FormatCode: FormatSwizzledBGRA, PixelBytes: []byte{1, 2, 3}}
	_, _, err := Convert(tex)
	require.Error(t, err)
	_, isFatal := err.(*FatalError)
	assert.True(t, isFatal)
}

func TestConvertSwizzledBGRAProducesRGBA8888Header(t *testing.T) {
	w, h := 2, 2
	tex := Texture{Name: "ok", Width: w, Height: h, FormatCode: FormatSwizzledBGRA, PixelBytes: make([]byte, w*h*4)}
	header, pixels, err := Convert(tex)
	require.NoError(t, err)
	assert.Len(t, pixels, w*h*4)
	flags := binary.LittleEndian.Uint32(header[8:12])
	assert.NotZero(t, flags&ddsFlagPitch)
}

func TestConvertSwizzledA8SelectsByDataSize(t *testing.T) {
	w, h := 2, 2
	a8 := Texture{Name: "a8", Width: w, Height: h, FormatCode: FormatSwizzledA8OrPA, PixelBytes: make([]byte, w*h)}
	_, pixelsA8, err := Convert(a8)
	require.NoError(t, err)
	assert.Len(t, pixelsA8, w*h*4)

	pa8 := Texture{Name: "pa8", Width: w, Height: h, FormatCode: FormatSwizzledA8OrPA, PixelBytes: make([]byte, w*h*2)}
	_, pixelsPA8, err := Convert(pa8)
	require.NoError(t, err)
	assert.Len(t, pixelsPA8, w*h*4)
}

func TestConvertSwizzledA8RejectsUnmatchedDataSize(t *testing.T) {
	tex := Texture{Name: "weird", Width: 4, Height: 4, FormatCode: FormatSwizzledA8OrPA, PixelBytes: []byte{1, 2, 3}}
	_, _, err := Convert(tex)
	assert.Error(t, err)
}

func TestConvertUnknownFormatIsFatal(t *testing.T) {
	tex := Texture{Name: "mystery", FormatCode: 0xAB}
	_, _, err := Convert(tex)
	require.Error(t, err)
	_, isFatal := err.(*FatalError)
	assert.True(t, isFatal)
}

func TestExpandA8BroadcastsAlphaOnly(t *testing.T) {
	out := expandA8([]byte{0x80})
	assert.Equal(t, []byte{0, 0, 0, 0x80}, out)
}

func TestExpandPA8SplitsGrayAndAlpha(t *testing.T) {
	out := expandPA8([]byte{0x10, 0x20})
	assert.Equal(t, []byte{0x10, 0x10, 0x10, 0x20}, out)
}

func TestSanitizeNameReplacesDisallowedCharacters(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitizeName("a:b/c", 0))
}

func TestSanitizeNameFallsBackWhenBlankAfterCleaning(t *testing.T) {
	assert.Equal(t, "texture_at_0x00000010", sanitizeName("   ", 0x10))
}

func TestCeilDiv4RoundsUpAndFloorsAtOne(t *testing.T) {
	assert.Equal(t, 1, ceilDiv4(0))
	assert.Equal(t, 1, ceilDiv4(1))
	assert.Equal(t, 1, ceilDiv4(4))
	assert.Equal(t, 2, ceilDiv4(5))
}
