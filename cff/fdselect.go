package cff

import (
	"fmt"
	"sort"

	"seehuhn.de/go/typeface/bytereader"
)

// readFDSelect decodes an FDSelect table (formats 0 and 3) into a
// function mapping glyph id to font dict index, validated against the
// number of font dicts actually present.
func readFDSelect(r *bytereader.Reader, numGlyphs, numFDs int) (func(gid uint16) int, error) {
	format, err := r.Uint8()
	if err != nil {
		return nil, err
	}

	switch format {
	case 0:
		fds := make([]int, numGlyphs)
		for i := range fds {
			v, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			if int(v) >= numFDs {
				return nil, fmt.Errorf("cff: fdselect format 0 references FD %d, have %d", v, numFDs)
			}
			fds[i] = int(v)
		}
		return func(gid uint16) int {
			if int(gid) >= len(fds) {
				return 0
			}
			return fds[gid]
		}, nil

	case 3:
		nRanges, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		firsts := make([]uint16, nRanges)
		fds := make([]int, nRanges)
		prev := -1
		for i := 0; i < int(nRanges); i++ {
			first, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			fd, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			if int(first) <= prev {
				return nil, fmt.Errorf("cff: fdselect format 3 ranges not increasing")
			}
			if int(fd) >= numFDs {
				return nil, fmt.Errorf("cff: fdselect format 3 references FD %d, have %d", fd, numFDs)
			}
			firsts[i] = first
			fds[i] = int(fd)
			prev = int(first)
		}
		sentinel, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		if int(sentinel) != numGlyphs {
			return nil, fmt.Errorf("cff: fdselect format 3 sentinel %d does not match glyph count %d", sentinel, numGlyphs)
		}

		return func(gid uint16) int {
			i := sort.Search(len(firsts), func(i int) bool { return firsts[i] > gid }) - 1
			if i < 0 {
				return 0
			}
			return fds[i]
		}, nil

	default:
		return nil, fmt.Errorf("cff: unsupported fdselect format %d", format)
	}
}
