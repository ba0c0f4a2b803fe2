// Package cmap decodes the "cmap" table, selecting the best available
// subtable by platform/encoding priority and decoding formats 0, 4, 6,
// and 12 into a single rune-to-glyph mapping.
package cmap

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// tier ranks a (platformID, encodingID) pair into one of the priority
// tiers (3,10) > (0,4) > (3,1) > (0,{0,1,3}), with a final tier for the
// vintage Apple Mac Roman pair this module also decodes. Lower is
// higher priority; -1 means this module has no decoder for the pair.
// Within a tier, ties break on the subtable's position in the font's
// own subtable list, not on anything encoded here.
func tier(platformID, encodingID uint16) int {
	switch {
	case platformID == 3 && encodingID == 10: // Windows, full Unicode (format 12 typically)
		return 0
	case platformID == 0 && encodingID == 4: // Unicode 2.0+, full repertoire
		return 1
	case platformID == 3 && encodingID == 1: // Windows, BMP
		return 2
	case platformID == 0 && (encodingID == 0 || encodingID == 1 || encodingID == 3):
		return 3
	case platformID == 1 && encodingID == 0:
		return 4
	default:
		return -1
	}
}

type subtableRef struct {
	platformID, encodingID uint16
	data                   []byte
}

// Decode parses the "cmap" table and returns the mapping contributed
// by the highest-priority subtable it can decode. Ties within a
// priority tier are broken by declaration order in the font's own
// subtable list, scanned once in that order.
func Decode(data []byte) (map[rune]uint16, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cmap: table too short")
	}
	r := bytereader.New(data)

	if _, err := r.Uint16(); err != nil { // version
		return nil, err
	}
	numTables, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	var best subtableRef
	bestTier := -1
	found := false
	for i := 0; i < int(numTables); i++ {
		platformID, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		encodingID, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		offset, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		if int(offset) >= len(data) {
			continue
		}
		t := tier(platformID, encodingID)
		if t < 0 || (found && t >= bestTier) {
			continue
		}
		best = subtableRef{platformID, encodingID, data[offset:]}
		bestTier = t
		found = true
	}
	if !found {
		return nil, fmt.Errorf("cmap: no supported subtable found")
	}
	return decodeSubtable(best.data)
}

func decodeSubtable(data []byte) (map[rune]uint16, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("cmap: subtable too short")
	}
	format := uint16(data[0])<<8 | uint16(data[1])
	switch format {
	case 0:
		return decodeFormat0(data)
	case 4:
		return decodeFormat4(data)
	case 6:
		return decodeFormat6(data)
	case 12:
		return decodeFormat12(data)
	default:
		return nil, fmt.Errorf("cmap: unsupported subtable format %d", format)
	}
}

func decodeFormat0(data []byte) (map[rune]uint16, error) {
	if len(data) < 6+256 {
		return nil, fmt.Errorf("cmap: format 0 table too short")
	}
	glyphs := data[6 : 6+256]
	m := make(map[rune]uint16)
	for code, g := range glyphs {
		if g != 0 {
			m[rune(code)] = uint16(g)
		}
	}
	return m, nil
}

func decodeFormat4(data []byte) (map[rune]uint16, error) {
	if len(data) < 14 {
		return nil, fmt.Errorf("cmap: format 4 table too short")
	}
	segCountX2 := int(data[6])<<8 | int(data[7])
	if segCountX2%2 != 0 {
		return nil, fmt.Errorf("cmap: format 4 odd segCountX2")
	}
	segCount := segCountX2 / 2

	need := 14 + segCountX2 // endCode
	need += 2               // reservedPad
	need += 3 * segCountX2  // startCode, idDelta, idRangeOffset
	if len(data) < need {
		return nil, fmt.Errorf("cmap: format 4 table too short for segments")
	}

	r := bytereader.New(data)
	if err := r.Skip(14); err != nil {
		return nil, err
	}
	endCode := make([]uint16, segCount)
	for i := range endCode {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		endCode[i] = v
	}
	if err := r.Skip(2); err != nil { // reservedPad
		return nil, err
	}
	startCode := make([]uint16, segCount)
	for i := range startCode {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		startCode[i] = v
	}
	idDelta := make([]int16, segCount)
	for i := range idDelta {
		v, err := r.Int16()
		if err != nil {
			return nil, err
		}
		idDelta[i] = v
	}
	idRangeOffset := make([]uint16, segCount)
	for i := range idRangeOffset {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		idRangeOffset[i] = v
	}
	glyphIDArrayStart := r.Pos()
	glyphIDArray := data[glyphIDArrayStart:]

	m := make(map[rune]uint16)
	for k := 0; k < segCount; k++ {
		start := uint32(startCode[k])
		end := uint32(endCode[k])
		if start > end {
			continue
		}
		if idRangeOffset[k] == 0 {
			for code := start; code <= end && code != 0xFFFF; code++ {
				g := uint16(int32(code) + int32(idDelta[k]))
				if g != 0 {
					m[rune(code)] = g
				}
			}
		} else {
			for code := start; code <= end && code != 0xFFFF; code++ {
				idx := int(idRangeOffset[k])/2 - (segCount - k) + int(code-start)
				if idx < 0 || 2*idx+1 >= len(glyphIDArray) {
					continue
				}
				g := uint16(glyphIDArray[2*idx])<<8 | uint16(glyphIDArray[2*idx+1])
				if g != 0 {
					g = uint16(int32(g) + int32(idDelta[k]))
					m[rune(code)] = g
				}
			}
		}
	}
	return m, nil
}

func decodeFormat6(data []byte) (map[rune]uint16, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("cmap: format 6 table too short")
	}
	firstCode := uint16(data[6])<<8 | uint16(data[7])
	count := int(data[8])<<8 | int(data[9])
	if len(data) < 10+2*count {
		return nil, fmt.Errorf("cmap: format 6 table too short for glyph array")
	}
	m := make(map[rune]uint16)
	for i := 0; i < count; i++ {
		g := uint16(data[10+2*i])<<8 | uint16(data[10+2*i+1])
		if g != 0 {
			m[rune(int(firstCode)+i)] = g
		}
	}
	return m, nil
}

func decodeFormat12(data []byte) (map[rune]uint16, error) {
	if len(data) < 16 {
		return nil, fmt.Errorf("cmap: format 12 table too short")
	}
	nGroups := uint32(data[12])<<24 | uint32(data[13])<<16 | uint32(data[14])<<8 | uint32(data[15])
	if nGroups > 1_000_000 || len(data) < 16+int(nGroups)*12 {
		return nil, fmt.Errorf("cmap: format 12 group count implausible")
	}
	m := make(map[rune]uint16)
	for i := uint32(0); i < nGroups; i++ {
		base := 16 + i*12
		startChar := uint32(data[base])<<24 | uint32(data[base+1])<<16 | uint32(data[base+2])<<8 | uint32(data[base+3])
		endChar := uint32(data[base+4])<<24 | uint32(data[base+5])<<16 | uint32(data[base+6])<<8 | uint32(data[base+7])
		startGlyph := uint32(data[base+8])<<24 | uint32(data[base+9])<<16 | uint32(data[base+10])<<8 | uint32(data[base+11])
		if endChar < startChar {
			continue
		}
		for c := startChar; c <= endChar; c++ {
			g := startGlyph + (c - startChar)
			if g != 0 && g <= 0xFFFF {
				m[rune(c)] = uint16(g)
			}
		}
	}
	return m, nil
}
