package gpos

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// coverage maps a covered glyph id to its coverage index, as used by
// both PairPos formats to relate a first-glyph list to per-glyph data.
type coverage map[uint16]int

// readCoverageTable decodes a Coverage table (format 1: explicit glyph
// list; format 2: ranges of consecutive glyph ids with a starting
// coverage index per range).
func readCoverageTable(data []byte, offset uint32) (coverage, error) {
	if int(offset) >= len(data) {
		return nil, fmt.Errorf("gpos: coverage offset out of range")
	}
	r := bytereader.New(data)
	if err := r.SeekPos(int(offset)); err != nil {
		return nil, err
	}

	format, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	cov := make(coverage)
	switch format {
	case 1:
		count, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(count); i++ {
			gid, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			cov[gid] = i
		}

	case 2:
		rangeCount, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(rangeCount); i++ {
			start, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			end, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			startIdx, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("gpos: coverage range end before start")
			}
			for gid := uint32(start); gid <= uint32(end); gid++ {
				cov[uint16(gid)] = int(startIdx) + int(gid-uint32(start))
			}
		}

	default:
		return nil, fmt.Errorf("gpos: unsupported coverage format %d", format)
	}

	return cov, nil
}
