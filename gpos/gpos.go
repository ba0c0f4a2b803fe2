// Package gpos extracts kerning pairs from the "GPOS" table's Lookup
// Type 2 (Pair Adjustment) subtables. Only the information needed to
// build a glyph-pair x-advance adjustment map is decoded; mark
// attachment, contextual, and extension lookups are skipped.
package gpos

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Pair identifies a left/right glyph-id kerning pair.
type Pair struct {
	Left, Right uint16
}

// ExtractKerning decodes the "GPOS" table's raw bytes and returns the
// nonzero x-advance adjustment for every Pair Adjustment (lookup type
// 2) pair it finds, across every lookup in the LookupList. Subtables
// this package cannot decode are skipped rather than treated as
// fatal; a font with no usable PairPos data yields an empty, non-nil
// map.
func ExtractKerning(data []byte) (map[Pair]int16, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("gpos: table too short")
	}
	r := bytereader.New(data)

	if _, err := r.Uint16(); err != nil { // majorVersion
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // minorVersion
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // scriptListOffset, unused
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // featureListOffset, unused
		return nil, err
	}
	lookupListOffset, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	result := make(map[Pair]int16)

	if int(lookupListOffset) >= len(data) {
		return result, nil
	}
	if err := r.SeekPos(int(lookupListOffset)); err != nil {
		return result, nil
	}
	lookupCount, err := r.Uint16()
	if err != nil {
		return result, nil
	}
	lookupOffsets := make([]uint16, lookupCount)
	for i := range lookupOffsets {
		v, err := r.Uint16()
		if err != nil {
			return result, nil
		}
		lookupOffsets[i] = v
	}

	for _, lo := range lookupOffsets {
		lookupBase := int(lookupListOffset) + int(lo)
		pairs, err := readLookup(data, lookupBase)
		if err != nil {
			continue // broken lookups are skipped, not fatal
		}
		for pair, xAdvance := range pairs {
			if xAdvance != 0 {
				result[pair] = xAdvance
			}
		}
	}

	return result, nil
}

func readLookup(data []byte, lookupBase int) (map[Pair]int16, error) {
	if lookupBase < 0 || lookupBase+6 > len(data) {
		return nil, fmt.Errorf("gpos: lookup offset out of range")
	}
	r := bytereader.New(data)
	if err := r.SeekPos(lookupBase); err != nil {
		return nil, err
	}
	lookupType, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // lookupFlag, ignored
		return nil, err
	}
	subtableCount, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	subtableOffsets := make([]uint16, subtableCount)
	for i := range subtableOffsets {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		subtableOffsets[i] = v
	}

	if lookupType != 2 {
		return nil, nil
	}

	result := make(map[Pair]int16)
	for _, so := range subtableOffsets {
		subtablePos := lookupBase + int(so)
		pairs, err := readPairPosSubtable(data, subtablePos)
		if err != nil {
			continue
		}
		for k, v := range pairs {
			result[k] = v
		}
	}
	return result, nil
}

func readPairPosSubtable(data []byte, subtablePos int) (map[Pair]int16, error) {
	if subtablePos < 0 || subtablePos+2 > len(data) {
		return nil, fmt.Errorf("gpos: subtable offset out of range")
	}
	r := bytereader.New(data)
	if err := r.SeekPos(subtablePos); err != nil {
		return nil, err
	}
	format, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	switch format {
	case 1:
		return readPairPosFormat1(data, subtablePos)
	case 2:
		return readPairPosFormat2(data, subtablePos)
	default:
		return nil, fmt.Errorf("gpos: unsupported PairPos format %d", format)
	}
}

// readPairPosFormat1 decodes "Pair Adjustment Positioning Format 1":
// a Coverage table gives the first glyph for each PairSet, and each
// PairSet is a list of (secondGlyph, ValueRecord1, ValueRecord2)
// triples. Only ValueRecord1.xAdvance is kept.
func readPairPosFormat1(data []byte, subtablePos int) (map[Pair]int16, error) {
	r := bytereader.New(data)
	if err := r.SeekPos(subtablePos + 2); err != nil { // past format
		return nil, err
	}
	coverageOffset, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	valueFormat1, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	valueFormat2, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pairSetCount, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	pairSetOffsets := make([]uint16, pairSetCount)
	for i := range pairSetOffsets {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		pairSetOffsets[i] = v
	}

	cov, err := readCoverageTable(data, uint32(subtablePos)+uint32(coverageOffset))
	if err != nil {
		return nil, err
	}

	firstGlyphs := make([]uint16, len(pairSetOffsets))
	for gid, idx := range cov {
		if idx < 0 || idx >= len(firstGlyphs) {
			return nil, fmt.Errorf("gpos: coverage index out of range for PairPos format 1")
		}
		firstGlyphs[idx] = gid
	}

	result := make(map[Pair]int16)
	for i, pso := range pairSetOffsets {
		pr := bytereader.New(data)
		if err := pr.SeekPos(subtablePos + int(pso)); err != nil {
			return nil, err
		}
		pairValueCount, err := pr.Uint16()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(pairValueCount); j++ {
			secondGlyph, err := pr.Uint16()
			if err != nil {
				return nil, err
			}
			xAdvance, err := readXAdvance(pr, valueFormat1)
			if err != nil {
				return nil, err
			}
			if _, err := readXAdvance(pr, valueFormat2); err != nil {
				return nil, err
			}
			if xAdvance != 0 {
				result[Pair{Left: firstGlyphs[i], Right: secondGlyph}] = xAdvance
			}
		}
	}
	return result, nil
}

// readPairPosFormat2 decodes "Pair Adjustment Positioning Format 2":
// a Coverage table of first glyphs, two ClassDef tables, and a flat
// class1Count x class2Count matrix of (ValueRecord1, ValueRecord2)
// pairs. Only ValueRecord1.xAdvance is kept, and only for glyph pairs
// actually present in Coverage x ClassDef2.
func readPairPosFormat2(data []byte, subtablePos int) (map[Pair]int16, error) {
	r := bytereader.New(data)
	if err := r.SeekPos(subtablePos + 2); err != nil { // past format
		return nil, err
	}
	coverageOffset, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	valueFormat1, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	valueFormat2, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	classDef1Offset, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	classDef2Offset, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	class1Count, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	class2Count, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	type adjust struct{ xAdvance int16 }
	matrix := make([]adjust, int(class1Count)*int(class2Count))
	for i := range matrix {
		xAdvance, err := readXAdvance(r, valueFormat1)
		if err != nil {
			return nil, err
		}
		if _, err := readXAdvance(r, valueFormat2); err != nil {
			return nil, err
		}
		matrix[i].xAdvance = xAdvance
	}

	cov, err := readCoverageTable(data, uint32(subtablePos)+uint32(coverageOffset))
	if err != nil {
		return nil, err
	}
	cd1, err := readClassDefTable(data, uint32(subtablePos)+uint32(classDef1Offset))
	if err != nil {
		return nil, err
	}
	cd2, err := readClassDefTable(data, uint32(subtablePos)+uint32(classDef2Offset))
	if err != nil {
		return nil, err
	}

	result := make(map[Pair]int16)
	for g1 := range cov {
		c1 := cd1.classOf(g1)
		if c1 >= int(class1Count) {
			continue
		}
		for g2, c2 := range cd2 {
			if c2 >= int(class2Count) {
				continue
			}
			xAdvance := matrix[c1*int(class2Count)+c2].xAdvance
			if xAdvance != 0 {
				result[Pair{Left: g1, Right: g2}] = xAdvance
			}
		}
	}
	return result, nil
}
