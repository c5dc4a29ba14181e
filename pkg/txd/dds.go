package txd

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	ddsMagic = "DDS "
	ddsSize  = 124

	ddsFlagCaps        = 0x1
	ddsFlagHeight      = 0x2
	ddsFlagWidth       = 0x4
	ddsFlagPitch       = 0x8
	ddsFlagPixelFormat = 0x1000
	ddsFlagMipMapCount = 0x20000
	ddsFlagLinearSize  = 0x80000

	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40
	ddpfAlphaPixels = 0x1

	ddscapsTexture  = 0x1000
	ddscapsMipMap   = 0x400000
	ddscapsComplex  = 0x8
)

func ceilDiv4(n int) int {
	if n <= 0 {
		return 1
	}
	v := (n + 3) / 4
	if v < 1 {
		return 1
	}
	return v
}

// buildHeader assembles the 128-byte DDS header (4-byte magic + 124-byte
// header struct) common to both flavors (spec §4.8 "DDS header
// synthesis").
func buildHeader(flags uint32, height, width, pitchOrLinearSize uint32, mipMapCount uint32, pixelFormat []byte, caps uint32) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(ddsMagic)
	write32(buf, ddsSize)
	write32(buf, flags)
	write32(buf, height)
	write32(buf, width)
	write32(buf, pitchOrLinearSize)
	write32(buf, 0) // depth
	write32(buf, mipMapCount)
	for i := 0; i < 11; i++ {
		write32(buf, 0) // reserved1
	}
	buf.Write(pixelFormat) // 32 bytes
	write32(buf, caps)
	write32(buf, 0) // caps2
	write32(buf, 0) // caps3
	write32(buf, 0) // caps4
	write32(buf, 0) // reserved2
	return buf.Bytes()
}

func write32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func fourCCPixelFormat(fourCC string) []byte {
	buf := new(bytes.Buffer)
	write32(buf, 32) // size
	write32(buf, ddpfFourCC)
	fcc := [4]byte{}
	copy(fcc[:], fourCC)
	buf.Write(fcc[:])
	write32(buf, 0) // RGBBitCount
	write32(buf, 0) // Rmask
	write32(buf, 0) // Gmask
	write32(buf, 0) // Bmask
	write32(buf, 0) // Amask
	return buf.Bytes()
}

func rgbaPixelFormat() []byte {
	buf := new(bytes.Buffer)
	write32(buf, 32) // size
	write32(buf, ddpfRGB|ddpfAlphaPixels)
	write32(buf, 0) // fourCC
	write32(buf, 32) // RGBBitCount
	write32(buf, 0x000000FF) // R
	write32(buf, 0x0000FF00) // G
	write32(buf, 0x00FF0000) // B
	write32(buf, 0xFF000000) // A
	return buf.Bytes()
}

// buildDXTHeader builds the header for a compressed DXT1/3/5 texture.
func buildDXTHeader(w, h, mipCount int, fourCC string, bytesPerBlock int) []byte {
	flags := uint32(ddsFlagCaps | ddsFlagHeight | ddsFlagWidth | ddsFlagPixelFormat | ddsFlagLinearSize)
	caps := uint32(ddscapsTexture)
	if mipCount > 0 {
		flags |= ddsFlagMipMapCount
	}
	if mipCount > 1 {
		caps |= ddscapsMipMap | ddscapsComplex
	}
	blocksWide := ceilDiv4(w)
	blocksHigh := ceilDiv4(h)
	linearSize := uint32(blocksWide * blocksHigh * bytesPerBlock)
	return buildHeader(flags, uint32(h), uint32(w), linearSize, uint32(mipCount), fourCCPixelFormat(fourCC), caps)
}

// buildRGBA8888Header builds the header for an uncompressed RGBA8888
// texture with mipMapCount fixed at 1 (spec §4.8).
func buildRGBA8888Header(w, h int) []byte {
	flags := uint32(ddsFlagCaps | ddsFlagHeight | ddsFlagWidth | ddsFlagPixelFormat | ddsFlagPitch)
	pitch := uint32(w * 4)
	return buildHeader(flags, uint32(h), uint32(w), pitch, 1, rgbaPixelFormat(), uint32(ddscapsTexture))
}

// Convert produces (header, pixels) for tex, per spec §4.8's format
// conversion table. Errors are fatal per the TXD error taxonomy.
func Convert(tex Texture) (header []byte, pixels []byte, err error) {
	switch tex.FormatCode {
	case FormatDXT1:
		return buildDXTHeader(tex.Width, tex.Height, tex.MipCount, "DXT1", 8), tex.PixelBytes, nil
	case FormatDXT3:
		return buildDXTHeader(tex.Width, tex.Height, tex.MipCount, "DXT3", 16), tex.PixelBytes, nil
	case FormatDXT5:
		return buildDXTHeader(tex.Width, tex.Height, tex.MipCount, "DXT5", 16), tex.PixelBytes, nil

	case FormatSwizzledBGRA:
		want := tex.Width * tex.Height * 4
		if len(tex.PixelBytes) != want {
			return nil, nil, fatalf("txd: swizzled BGRA texture %q dataSize mismatch: got %d want %d", tex.Name, len(tex.PixelBytes), want)
		}
		unswizzled := UnswizzleMorton(tex.PixelBytes, tex.Width, tex.Height, 4)
		swapBR(unswizzled)
		return buildRGBA8888Header(tex.Width, tex.Height), unswizzled, nil

	case FormatSwizzledA8OrPA:
		n := tex.Width * tex.Height
		switch len(tex.PixelBytes) {
		case n:
			unswizzled := UnswizzleMorton(tex.PixelBytes, tex.Width, tex.Height, 1)
			return buildRGBA8888Header(tex.Width, tex.Height), expandA8(unswizzled), nil
		case n * 2:
			unswizzled := UnswizzleMorton(tex.PixelBytes, tex.Width, tex.Height, 2)
			return buildRGBA8888Header(tex.Width, tex.Height), expandPA8(unswizzled), nil
		default:
			return nil, nil, fatalf("txd: 0x02 texture %q dataSize %d matches neither w*h nor w*h*2", tex.Name, len(tex.PixelBytes))
		}

	default:
		return nil, nil, fatalf("txd: unknown format code 0x%02X for texture %q", tex.FormatCode, tex.Name)
	}
}

func swapBR(pixels []byte) {
	for i := 0; i+3 < len(pixels); i += 4 {
		pixels[i], pixels[i+2] = pixels[i+2], pixels[i]
	}
}

func expandA8(a8 []byte) []byte {
	out := make([]byte, len(a8)*4)
	for i, a := range a8 {
		out[i*4+0] = 0
		out[i*4+1] = 0
		out[i*4+2] = 0
		out[i*4+3] = a
	}
	return out
}

func expandPA8(pa8 []byte) []byte {
	n := len(pa8) / 2
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		p := pa8[i*2]
		a := pa8[i*2+1]
		out[i*4+0] = p
		out[i*4+1] = p
		out[i*4+2] = p
		out[i*4+3] = a
	}
	return out
}

// sanitizeName implements spec §4.8's output-naming rule.
func sanitizeName(name string, fileOffset int) string {
	var b bytes.Buffer
	for _, r := range name {
		if r < 0x20 || r == 0x7F || isDisallowed(r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}
	clean := trimSpace(b.String())
	if clean == "" {
		return fmt.Sprintf("texture_at_0x%08X", fileOffset)
	}
	return clean
}

func isDisallowed(r rune) bool {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return true
	default:
		return false
	}
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
