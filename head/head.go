// Package head reads the "head" table: units-per-em, the font
// bounding box, the loca offset format, and the style flags carried
// in macStyle.
package head

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Info holds the fields of the "head" table needed downstream.
type Info struct {
	UnitsPerEm     uint16
	XMin, YMin     int16
	XMax, YMax     int16
	MacStyle       uint16
	LowestRecPPEM  uint16
	IndexToLocLong bool // loca table uses 32-bit offsets
}

// Read decodes a "head" table.
func Read(data []byte) (*Info, error) {
	if len(data) < 54 {
		return nil, fmt.Errorf("head: table too short")
	}
	r := bytereader.New(data)

	version, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if version != 0x00010000 {
		return nil, fmt.Errorf("head: unsupported version 0x%08x", version)
	}
	if err := r.Skip(4); err != nil { // fontRevision
		return nil, err
	}
	if err := r.Skip(4); err != nil { // checkSumAdjustment
		return nil, err
	}
	magic, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if magic != 0x5F0F3CF5 {
		return nil, fmt.Errorf("head: bad magic number 0x%08x", magic)
	}
	if err := r.Skip(2); err != nil { // flags
		return nil, err
	}
	unitsPerEm, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(8 + 8); err != nil { // created, modified
		return nil, err
	}
	xMin, err := r.Int16()
	if err != nil {
		return nil, err
	}
	yMin, err := r.Int16()
	if err != nil {
		return nil, err
	}
	xMax, err := r.Int16()
	if err != nil {
		return nil, err
	}
	yMax, err := r.Int16()
	if err != nil {
		return nil, err
	}
	macStyle, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	lowestRecPPEM, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil { // fontDirectionHint
		return nil, err
	}
	indexToLocFormat, err := r.Int16()
	if err != nil {
		return nil, err
	}

	return &Info{
		UnitsPerEm:     unitsPerEm,
		XMin:           xMin,
		YMin:           yMin,
		XMax:           xMax,
		YMax:           yMax,
		MacStyle:       macStyle,
		LowestRecPPEM:  lowestRecPPEM,
		IndexToLocLong: indexToLocFormat != 0,
	}, nil
}
