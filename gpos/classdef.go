package gpos

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// classDef maps a glyph id to its class. Glyphs absent from the map
// belong to class 0.
type classDef map[uint16]int

func (c classDef) classOf(gid uint16) int {
	return c[gid]
}

// readClassDefTable decodes a ClassDef table (format 1: a contiguous
// glyph range with one class value per glyph; format 2: explicit
// ranges each tagged with a single class). Class-0 entries are never
// stored, since that is the lookup default.
func readClassDefTable(data []byte, offset uint32) (classDef, error) {
	if int(offset) >= len(data) {
		return nil, fmt.Errorf("gpos: classdef offset out of range")
	}
	r := bytereader.New(data)
	if err := r.SeekPos(int(offset)); err != nil {
		return nil, err
	}

	format, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	cd := make(classDef)
	switch format {
	case 1:
		startGlyph, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		glyphCount, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		for i := 0; i < int(glyphCount); i++ {
			class, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			if class != 0 {
				cd[startGlyph+uint16(i)] = int(class)
			}
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
			class, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			if end < start {
				return nil, fmt.Errorf("gpos: classdef range end before start")
			}
			if class == 0 {
				continue
			}
			for gid := uint32(start); gid <= uint32(end); gid++ {
				cd[uint16(gid)] = int(class)
			}
		}

	default:
		return nil, fmt.Errorf("gpos: unsupported classdef format %d", format)
	}

	return cd, nil
}
