package txd

import "fmt"

// Segment is a contiguous byte range between recognized markers (spec §3
// TxdSegment).
type Segment struct {
	StartOffset int
	Data        []byte
}

// Scan segments a .txd file's bytes per spec §4.8's segmentation
// algorithm. It fails fast if the EOF pattern does not appear exactly
// once, or if no segments can be produced by any rule.
func Scan(data []byte) ([]Segment, error) {
	eofOffsets := findEofPatterns(data)
	if len(eofOffsets) != 1 {
		return nil, fmt.Errorf("txd: expected exactly one EOF pattern, found %d", len(eofOffsets))
	}
	eofOffset := eofOffsets[0]

	blockStarts := indexAll(data, SigBlockStart)

	var segments []Segment

	if hasPrefix(data, SigFileStart) {
		start := 4
		end := eofOffset
		for _, b := range blockStarts {
			if b >= start && b < end {
				end = b
				break
			}
		}
		if end > start {
			segments = append(segments, Segment{StartOffset: start, Data: data[start:end]})
		}
	}

	for idx, b := range blockStarts {
		if b == eofOffset {
			break
		}
		segStart := b + len(SigBlockStart)
		end := eofOffset
		for _, b2 := range blockStarts[idx+1:] {
			if b2 > segStart {
				end = min(end, b2)
				break
			}
		}
		if end > segStart {
			segments = append(segments, Segment{StartOffset: segStart, Data: data[segStart:end]})
		}
	}

	if len(segments) == 0 && hasPrefix(data, SigFileStart) && len(data) > 0x28 {
		// "Noesis-style" fallback (spec §9: provenance undocumented,
		// behavior preserved as specified).
		start := 0x28
		if start < eofOffset {
			segments = append(segments, Segment{StartOffset: start, Data: data[start:eofOffset]})
		}
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("txd: no segments could be produced")
	}
	return segments, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
