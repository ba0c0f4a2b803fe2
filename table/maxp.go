// Package table also carries the minimal "maxp" reader: this module
// only needs the glyph count, not the TrueType-specific profile
// fields (maxPoints, maxContours, ...) that follow it in version
// 0x00010000 tables.
package table

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// ReadMaxp returns the glyph count from a "maxp" table.
func ReadMaxp(data []byte) (int, error) {
	if len(data) < 6 {
		return 0, fmt.Errorf("table: maxp too short")
	}
	r := bytereader.New(data)
	version, err := r.Uint32()
	if err != nil {
		return 0, err
	}
	if version != 0x00005000 && version != 0x00010000 {
		return 0, fmt.Errorf("table: maxp unknown version 0x%08x", version)
	}
	numGlyphs, err := r.Uint16()
	if err != nil {
		return 0, err
	}
	return int(numGlyphs), nil
}
