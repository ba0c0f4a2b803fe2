// Package post decodes the fixed-size header of the "post" table:
// the italic angle and underline metrics used for style metadata.
// Version 2.0's trailing glyph-name index is not decoded; this module
// does not need PostScript glyph names.
package post

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// Info contains the fields of the "post" table needed downstream.
type Info struct {
	ItalicAngle        float64 // degrees, counter-clockwise from vertical
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool
}

// Read decodes the 32-byte "post" table header, common to all
// versions (1.0, 2.0, 2.5, 3.0).
func Read(data []byte) (*Info, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("post: table too short")
	}
	r := bytereader.New(data)

	version, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	switch version {
	case 0x00010000, 0x00020000, 0x00025000, 0x00030000:
	default:
		return nil, fmt.Errorf("post: unsupported version 0x%08x", version)
	}

	italicAngle, err := r.Fixed16Dot16()
	if err != nil {
		return nil, err
	}
	underlinePosition, err := r.Int16()
	if err != nil {
		return nil, err
	}
	underlineThickness, err := r.Int16()
	if err != nil {
		return nil, err
	}
	isFixedPitch, err := r.Uint32()
	if err != nil {
		return nil, err
	}

	return &Info{
		ItalicAngle:        italicAngle,
		UnderlinePosition:  underlinePosition,
		UnderlineThickness: underlineThickness,
		IsFixedPitch:       isFixedPitch != 0,
	}, nil
}
