// Package table parses the SFNT table directory into a tag to
// (offset, length) map, and checks the header's scaler type against
// the TrueType, CFF and Apple values it accepts. The orchestrator picks
// an outline reader by which outline tables are present, not by the
// scaler type.
package table

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Scaler type tag values from the sfnt header.
const (
	ScalerTypeTrueType = 0x00010000
	ScalerTypeCFF      = 0x4F54544F
	ScalerTypeApple    = 0x74727565
)

// Record locates one table within the font buffer.
type Record struct {
	Offset uint32
	Length uint32
}

// Directory is the parsed table directory: a tag to Record mapping,
// immutable once returned from Parse.
type Directory struct {
	ScalerType uint32
	Tables     map[string]Record
	data       []byte
}

// Bytes returns the raw bytes of the named table, or nil if absent.
func (d *Directory) Bytes(tag string) []byte {
	rec, ok := d.Tables[tag]
	if !ok {
		return nil
	}
	end := uint64(rec.Offset) + uint64(rec.Length)
	if end > uint64(len(d.data)) {
		return nil
	}
	return d.data[rec.Offset:end]
}

// Has reports whether the named table is present.
func (d *Directory) Has(tag string) bool {
	_, ok := d.Tables[tag]
	return ok
}

// Parse reads the 12-byte sfnt header and the table directory
// records that follow it.
func Parse(data []byte) (*Directory, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("table: input too small for sfnt header")
	}
	r := bytereader.New(data)

	scalerType, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	numTables, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(6); err != nil { // searchRange, entrySelector, rangeShift
		return nil, err
	}

	switch scalerType {
	case ScalerTypeTrueType, ScalerTypeCFF, ScalerTypeApple:
	default:
		return nil, fmt.Errorf("table: unsupported scaler type 0x%08x", scalerType)
	}

	if int(numTables) > 512 {
		return nil, fmt.Errorf("table: implausible table count %d", numTables)
	}

	d := &Directory{
		ScalerType: scalerType,
		Tables:     make(map[string]Record, numTables),
		data:       data,
	}
	for i := 0; i < int(numTables); i++ {
		tag, err := r.Tag()
		if err != nil {
			return nil, err
		}
		if _, err := r.Uint32(); err != nil { // checksum
			return nil, err
		}
		offset, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		length, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		if uint64(offset)+uint64(length) > uint64(len(data)) {
			return nil, fmt.Errorf("table: table %q extends past end of input", tag)
		}
		d.Tables[tag] = Record{Offset: offset, Length: length}
	}

	return d, nil
}
