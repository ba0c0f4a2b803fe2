// Package kern decodes the legacy "kern" table, as a fallback kerning
// source when a font carries no usable "GPOS" Pair Adjustment data.
// Only format-0 subtables (ordered glyph-pair lists) are honored;
// Apple's newer format-2 class-table subtables are skipped.
package kern

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Pair identifies a left/right glyph-id kerning pair.
type Pair struct {
	Left, Right uint16
}

// coverageHorizontal is the horizontal-text bit of a subtable's 8-bit
// coverage flags byte, and coverageFormatMask covers that byte's bits
// 4-7, which must be clear. Together with a separate format byte of 0
// they select the only subtables honored here.
const (
	coverageHorizontal = 0x01
	coverageFormatMask = 0xf0
)

// ExtractKerning decodes the "kern" table's raw bytes and returns the
// nonzero adjustment for every glyph pair found in its format-0
// subtables. Multiple subtables accumulate by addition, matching the
// table's defined combination rule. A subtable this package cannot
// decode is skipped rather than treated as fatal.
func ExtractKerning(data []byte) (map[Pair]int16, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("kern: table too short")
	}
	r := bytereader.New(data)

	version, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, fmt.Errorf("kern: unsupported table version %d", version)
	}
	numTables, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	result := make(map[Pair]int16)

	pos := r.Pos()
	for i := 0; i < int(numTables); i++ {
		if pos+6 > len(data) {
			break
		}
		sr := bytereader.New(data)
		if err := sr.SeekPos(pos); err != nil {
			break
		}
		if _, err := sr.Uint16(); err != nil { // subtable version
			break
		}
		length, err := sr.Uint16()
		if err != nil {
			break
		}
		format, err := sr.Uint8()
		if err != nil {
			break
		}
		coverage, err := sr.Uint8()
		if err != nil {
			break
		}
		if length < 6 {
			break
		}
		next := pos + int(length)

		if format == 0 && coverage&coverageHorizontal != 0 && coverage&coverageFormatMask == 0 {
			readFormat0(sr, result)
		}

		pos = next
	}

	return result, nil
}

func readFormat0(r *bytereader.Reader, result map[Pair]int16) {
	nPairs, err := r.Uint16()
	if err != nil {
		return
	}
	if err := r.Skip(6); err != nil { // searchRange, entrySelector, rangeShift
		return
	}
	for i := 0; i < int(nPairs); i++ {
		left, err := r.Uint16()
		if err != nil {
			return
		}
		right, err := r.Uint16()
		if err != nil {
			return
		}
		value, err := r.Int16()
		if err != nil {
			return
		}
		if value == 0 {
			continue
		}
		result[Pair{Left: left, Right: right}] += value
	}
}
