// Package hmtx decodes the "hhea" and "hmtx" tables: per-glyph
// advance widths (with the trailing-width replication rule for
// glyphs beyond numberOfHMetrics) plus the font-wide ascent/descent/
// lineGap used for the typeface record's global metrics.
package hmtx

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Info holds the decoded horizontal metrics.
type Info struct {
	Widths  []uint16 // indexed by glyph id
	LSB     []int16  // left side bearing, indexed by glyph id
	Ascent  int16
	Descent int16 // negative
	LineGap int16
}

// Decode parses the "hhea" and "hmtx" tables together, since hmtx's
// layout (how many long metric records precede the trailing lsb-only
// records) is only known from hhea.NumOfLongHorMetrics.
func Decode(hhea, hmtxData []byte, numGlyphs int) (*Info, error) {
	if len(hhea) < 36 {
		return nil, fmt.Errorf("hmtx: hhea table too short")
	}
	r := bytereader.New(hhea)

	version, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if version != 0x00010000 {
		return nil, fmt.Errorf("hmtx: unsupported hhea version 0x%08x", version)
	}
	ascent, err := r.Int16()
	if err != nil {
		return nil, err
	}
	descent, err := r.Int16()
	if err != nil {
		return nil, err
	}
	lineGap, err := r.Int16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2 + 2 + 2 + 2 + 2 + 2 + 2 + 2*4); err != nil {
		// advanceWidthMax, minLSB, minRSB, xMaxExtent, caretSlopeRise,
		// caretSlopeRun, caretOffset, 4 reserved int16
		return nil, err
	}
	metricDataFormat, err := r.Int16()
	if err != nil {
		return nil, err
	}
	if metricDataFormat != 0 {
		return nil, fmt.Errorf("hmtx: unsupported metricDataFormat %d", metricDataFormat)
	}
	numOfLongHorMetrics, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	numLong := int(numOfLongHorMetrics)
	if numLong == 0 || numLong > numGlyphs {
		return nil, fmt.Errorf("hmtx: invalid numberOfHMetrics %d for %d glyphs", numLong, numGlyphs)
	}

	mr := bytereader.New(hmtxData)
	widths := make([]uint16, numGlyphs)
	lsbs := make([]int16, numGlyphs)
	var lastWidth uint16
	for i := 0; i < numGlyphs; i++ {
		if i < numLong {
			w, err := mr.Uint16()
			if err != nil {
				return nil, fmt.Errorf("hmtx: %w", err)
			}
			lastWidth = w
			lsb, err := mr.Int16()
			if err != nil {
				return nil, fmt.Errorf("hmtx: %w", err)
			}
			widths[i] = w
			lsbs[i] = lsb
		} else {
			lsb, err := mr.Int16()
			if err != nil {
				return nil, fmt.Errorf("hmtx: %w", err)
			}
			widths[i] = lastWidth
			lsbs[i] = lsb
		}
	}

	return &Info{
		Widths:  widths,
		LSB:     lsbs,
		Ascent:  ascent,
		Descent: descent,
		LineGap: lineGap,
	}, nil
}
