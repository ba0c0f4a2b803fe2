package cff

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
)

// readIndex decodes a CFF1 INDEX structure (a 16-bit count) at the
// reader's current position.
func readIndex(r *bytereader.Reader) ([][]byte, error) {
	return readIndexCount(r, false)
}

// readIndex2 decodes a CFF2 INDEX structure, whose count field is
// 32-bit rather than 16-bit.
func readIndex2(r *bytereader.Reader) ([][]byte, error) {
	return readIndexCount(r, true)
}

// readIndexCount decodes an INDEX: a count, an offset size, count+1
// offsets of that size, and a payload. Offsets are 1-based and
// relative to the byte just before the payload, so payloadBase =
// (position right after the offset array) - 1. An empty INDEX
// (count == 0) has no offset array at all.
func readIndexCount(r *bytereader.Reader, wideCount bool) ([][]byte, error) {
	var count uint32
	if wideCount {
		v, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		count = v
	} else {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		count = uint32(v)
	}
	if count == 0 {
		return nil, nil
	}

	offSize, err := r.Uint8()
	if err != nil {
		return nil, err
	}
	if offSize < 1 || offSize > 4 {
		return nil, fmt.Errorf("cff: index offSize %d out of range", offSize)
	}

	offsets := make([]uint32, int(count)+1)
	for i := range offsets {
		v, err := readOffset(r, int(offSize))
		if err != nil {
			return nil, err
		}
		offsets[i] = v
	}

	payloadBase := r.Pos() - 1
	items := make([][]byte, count)
	for i := 0; i < int(count); i++ {
		start := payloadBase + int(offsets[i])
		end := payloadBase + int(offsets[i+1])
		if start < 0 || end < start {
			return nil, fmt.Errorf("cff: index item %d has invalid offsets", i)
		}
		item, err := sliceAt(r, start, end)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}

	if err := r.SeekPos(payloadBase + int(offsets[count])); err != nil {
		return nil, err
	}
	return items, nil
}

func readOffset(r *bytereader.Reader, size int) (uint32, error) {
	switch size {
	case 1:
		v, err := r.Uint8()
		return uint32(v), err
	case 2:
		v, err := r.Uint16()
		return uint32(v), err
	case 3:
		return r.Uint24()
	default:
		return r.Uint32()
	}
}

// sliceAt returns data[start:end] without disturbing the reader's
// current position.
func sliceAt(r *bytereader.Reader, start, end int) ([]byte, error) {
	saved := r.Pos()
	defer r.SeekPos(saved)
	if err := r.SeekPos(start); err != nil {
		return nil, err
	}
	return r.Bytes(end - start)
}
