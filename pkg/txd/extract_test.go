package txd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFileWritesOneDDSPerTexture(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	texBytes := buildTextureBytes("wall_diffuse", 4, 4, 1, FormatDXT1, pixels)

	var data []byte
	data = append(data, SigFileStart...)
	data = append(data, texBytes...)
	data = append(data, eofPattern(make([]byte, 8))...)

	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.txd")
	require.NoError(t, os.WriteFile(inPath, data, 0o644))

	outDir := filepath.Join(dir, "out")
	count, err := ExtractFile(inPath, outDir)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "wall_diffuse.dds", entries[0].Name())

	written, err := os.ReadFile(filepath.Join(outDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "DDS ", string(written[0:4]))
	assert.Contains(t, string(written), string(pixels))
}

func TestExtractFileFailsOnUnparsableData(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "bad.txd")
	require.NoError(t, os.WriteFile(inPath, []byte{0x00, 0x01, 0x02}, 0o644))

	_, err := ExtractFile(inPath, filepath.Join(dir, "out"))
	assert.Error(t, err)
}

func TestExtractFileFailsWhenSourceMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := ExtractFile(filepath.Join(dir, "nope.txd"), filepath.Join(dir, "out"))
	assert.Error(t, err)
}
