package txd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func eofPattern(variable []byte) []byte {
	out := append([]byte{}, eofPrefix...)
	out = append(out, variable...)
	out = append(out, eofSuffix...)
	return out
}

func TestFindEofPatternsMatchesRegardlessOfVariableBytes(t *testing.T) {
	pattern := eofPattern([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	data := append([]byte{0xDE, 0xAD, 0xBE, 0xEF}, pattern...)
	data = append(data, 0x00, 0x00)

	matches := findEofPatterns(data)
	assert.Equal(t, []int{4}, matches)
}

func TestFindEofPatternsFindsMultipleOccurrences(t *testing.T) {
	p1 := eofPattern(bytes.Repeat([]byte{0xAA}, 8))
	p2 := eofPattern(bytes.Repeat([]byte{0xBB}, 8))
	data := append(append([]byte{}, p1...), p2...)

	matches := findEofPatterns(data)
	assert.Equal(t, []int{0, len(p1)}, matches)
}

func TestFindEofPatternsNoMatchOnPlainData(t *testing.T) {
	data := bytes.Repeat([]byte{0x01, 0x02, 0x03}, 20)
	assert.Empty(t, findEofPatterns(data))
}

func TestIndexAllFindsAllSignatureOccurrences(t *testing.T) {
	sig := []byte{0xCA, 0xFE}
	data := []byte{0xCA, 0xFE, 0x00, 0xCA, 0xFE, 0xCA, 0xFE}
	assert.Equal(t, []int{0, 3, 5}, indexAll(data, sig))
}

func TestIndexAllEmptySignatureReturnsNoMatches(t *testing.T) {
	assert.Empty(t, indexAll([]byte{1, 2, 3}, nil))
}

func TestHasPrefixChecksLeadingBytes(t *testing.T) {
	assert.True(t, hasPrefix(SigFileStart, SigFileStart))
	assert.True(t, hasPrefix(append(SigFileStart, 0x99), SigFileStart))
	assert.False(t, hasPrefix([]byte{0x01}, SigFileStart))
}
