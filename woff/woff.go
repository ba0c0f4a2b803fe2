// Package woff detects and unwraps the WOFF font container, and
// rejects WOFF2.
package woff

import (
	"fmt"

	"seehuhn.de/go/typeface/bytereader"
	"seehuhn.de/go/typeface/inflate"
)

const (
	tagWOFF  = 0x774F4646
	tagWOFF2 = 0x774F4632
)

// ErrUnsupportedWOFF2 is returned for WOFF2 input; Brotli
// decompression is out of scope for this module.
var ErrUnsupportedWOFF2 = fmt.Errorf("woff: WOFF2 requires Brotli, which is unsupported")

type tableEntry struct {
	tag          string
	offset       uint32
	compLength   uint32
	origLength   uint32
	origChecksum uint32
}

// Sniff reports whether data begins with a WOFF or WOFF2 signature.
// It returns "woff", "woff2", or "" for plain SFNT data.
func Sniff(data []byte) string {
	if len(data) < 4 {
		return ""
	}
	switch uint32(data[0])<<24 | uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3]) {
	case tagWOFF:
		return "woff"
	case tagWOFF2:
		return "woff2"
	default:
		return ""
	}
}

// Unwrap decompresses a WOFF container into a freshly allocated SFNT
// buffer, reconstructing the sfnt table directory header
// (searchRange/entrySelector/rangeShift) from the table count, and
// inflating per-table payloads whose compressed length is smaller
// than their original length.
func Unwrap(data []byte) ([]byte, error) {
	r := bytereader.New(data)

	sig, err := r.Tag()
	if err == nil && sig == "wOF2" {
		return nil, ErrUnsupportedWOFF2
	}
	if err != nil || sig != "wOFF" {
		return nil, fmt.Errorf("woff: bad signature")
	}
	flavor, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if _, err := r.Uint32(); err != nil { // length
		return nil, err
	}
	numTables, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if _, err := r.Uint16(); err != nil { // reserved
		return nil, err
	}
	totalSfntSize, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2 + 2 + 4 + 4 + 4 + 4 + 4); err != nil { // version, meta*, priv*
		return nil, err
	}

	if numTables == 0 {
		return nil, fmt.Errorf("woff: no tables")
	}

	entries := make([]tableEntry, numTables)
	for i := range entries {
		tag, err := r.Tag()
		if err != nil {
			return nil, err
		}
		offset, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		compLength, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		origLength, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		origChecksum, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		if int64(offset)+int64(compLength) > int64(len(data)) {
			return nil, fmt.Errorf("woff: table %q extends past end of input", tag)
		}
		entries[i] = tableEntry{tag, offset, compLength, origLength, origChecksum}
	}

	var searchRangeUnits uint16 = 1
	var entrySelector uint16
	for searchRangeUnits*2 <= numTables {
		searchRangeUnits *= 2
		entrySelector++
	}
	searchRange := searchRangeUnits * 16
	rangeShift := numTables*16 - searchRange

	out := make([]byte, totalSfntSize)
	putU32(out[0:], flavor)
	putU16(out[4:], numTables)
	putU16(out[6:], searchRange)
	putU16(out[8:], entrySelector)
	putU16(out[10:], rangeShift)

	dirPos := 12
	dataPos := uint32(12 + 16*int(numTables))
	for _, e := range entries {
		payload, err := decodeTable(data, e)
		if err != nil {
			return nil, err
		}
		if uint32(len(payload)) != e.origLength {
			return nil, fmt.Errorf("woff: table %q decompressed to %d bytes, expected %d", e.tag, len(payload), e.origLength)
		}

		if int(dataPos)+len(payload) > len(out) {
			return nil, fmt.Errorf("woff: totalSfntSize too small for table %q", e.tag)
		}

		copy(out[dirPos:], e.tag)
		putU32(out[dirPos+4:], e.origChecksum)
		putU32(out[dirPos+8:], dataPos)
		putU32(out[dirPos+12:], e.origLength)
		dirPos += 16

		copy(out[dataPos:], payload)
		dataPos += (e.origLength + 3) &^ 3
	}

	return out, nil
}

// decodeTable returns the decompressed (or copied) payload for one
// WOFF table entry. If compLength < origLength the payload carries a
// 2-byte zlib header (RFC 1950) wrapping a raw RFC 1951 stream; the
// header is skipped and the stream inflated with package inflate.
func decodeTable(data []byte, e tableEntry) ([]byte, error) {
	raw := data[e.offset : e.offset+e.compLength]
	if e.compLength >= e.origLength {
		out := make([]byte, len(raw))
		copy(out, raw)
		return out, nil
	}
	if len(raw) < 2 {
		return nil, fmt.Errorf("woff: table %q: compressed payload too short for zlib header", e.tag)
	}
	// RFC 1950 zlib header: CMF, FLG. CM (compression method) must be 8
	// (deflate) for the payload that follows to be a raw DEFLATE stream.
	cmf := raw[0]
	if cmf&0x0f != 8 {
		return nil, fmt.Errorf("woff: table %q: unsupported zlib compression method", e.tag)
	}
	return inflate.Inflate(raw[2:], int(e.origLength))
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}
