// Package name decodes the "name" table and resolves the small set of
// nameIDs the typeface record needs (family, subfamily, full name,
// PostScript name, version, copyright, designer), preferring the
// Windows/Unicode UTF-16BE records and falling back to the first
// decodable record seen for each nameID.
package name

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"seehuhn.de/go/typeface/bytereader"
)

// nameID values used by the typeface record.
const (
	IDCopyright      = 0
	IDFamily         = 1
	IDSubfamily      = 2
	IDFullName       = 4
	IDVersion        = 5
	IDPostScriptName = 6
	IDDesigner       = 9
)

const (
	platformUnicode   = 0
	platformMacintosh = 1
	platformWindows   = 3

	encodingWindowsUTF16BE = 1
)

// Info holds the resolved name strings, indexed by nameID.
type Info struct {
	values map[uint16]string
}

// Get returns the string for a nameID, or "" if it was not present.
func (info *Info) Get(nameID uint16) string {
	return info.values[nameID]
}

type record struct {
	platformID uint16
	encodingID uint16
	nameID     uint16
	value      string
}

// Decode parses the "name" table and resolves one string per nameID.
func Decode(data []byte) (*Info, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("name: table too short")
	}
	r := bytereader.New(data)

	version, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if version > 1 {
		return nil, fmt.Errorf("name: unsupported version %d", version)
	}
	numRecords, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	storageOffset, err := r.Uint16()
	if err != nil {
		return nil, err
	}

	type rawRecord struct {
		platformID, encodingID, nameID uint16
		offset, length                uint16
	}
	raws := make([]rawRecord, numRecords)
	for i := range raws {
		platformID, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		encodingID, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		if err := r.Skip(2); err != nil { // languageID, unused here
			return nil, err
		}
		nameID, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		length, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		offset, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		raws[i] = rawRecord{platformID, encodingID, nameID, offset, length}
	}

	var records []record
	for _, raw := range raws {
		start := int(storageOffset) + int(raw.offset)
		end := start + int(raw.length)
		if start < 0 || end > len(data) || end < start {
			continue
		}
		raw2 := data[start:end]

		var val string
		switch raw.platformID {
		case platformWindows, platformUnicode:
			val = decodeUTF16BE(raw2)
		case platformMacintosh:
			val = decodeMacRoman(raw2)
		default:
			continue
		}
		if val == "" {
			continue
		}
		records = append(records, record{raw.platformID, raw.encodingID, raw.nameID, val})
	}

	values := make(map[uint16]string)
	// First pass: preferred Windows UTF-16BE records win outright.
	for _, rec := range records {
		if rec.platformID == platformWindows && rec.encodingID == encodingWindowsUTF16BE {
			if _, ok := values[rec.nameID]; !ok {
				values[rec.nameID] = rec.value
			}
		}
	}
	// Second pass: fill in anything still missing from any other record.
	for _, rec := range records {
		if _, ok := values[rec.nameID]; !ok {
			values[rec.nameID] = rec.value
		}
	}

	return &Info{values: values}, nil
}

func decodeUTF16BE(b []byte) string {
	if len(b)%2 != 0 {
		return ""
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// decodeMacRoman handles the 7-bit-ASCII-compatible subset of Mac
// Roman, which is all that name-table entries typically use; bytes
// outside ASCII are dropped rather than mistranslated.
func decodeMacRoman(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		if c < 0x80 {
			out = append(out, c)
		}
	}
	return string(out)
}
