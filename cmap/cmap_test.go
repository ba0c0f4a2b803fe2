package cmap

import "testing"

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func be32(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func buildFormat6Subtable(firstCode uint16, gids []uint16) []byte {
	var arr []byte
	for _, g := range gids {
		arr = append(arr, be16(g)...)
	}
	length := 10 + 2*len(gids)
	return concat(be16(6), be16(uint16(length)), be16(0), be16(firstCode), be16(uint16(len(gids))), arr)
}

func buildFormat0Subtable(glyphs [256]byte) []byte {
	return concat(be16(0), be16(6+256), be16(0), glyphs[:])
}

func buildCmapTable(entries []struct {
	platformID, encodingID uint16
	subtable               []byte
}) []byte {
	header := concat(be16(0), be16(uint16(len(entries))))
	offset := uint32(4 + 8*len(entries))

	var records, bodies []byte
	for _, e := range entries {
		records = append(records, be16(e.platformID)...)
		records = append(records, be16(e.encodingID)...)
		records = append(records, be32(offset)...)
		bodies = append(bodies, e.subtable...)
		offset += uint32(len(e.subtable))
	}
	return concat(header, records, bodies)
}

func TestDecodeFormat6Subtable(t *testing.T) {
	data := buildCmapTable([]struct {
		platformID, encodingID uint16
		subtable               []byte
	}{
		{platformID: 1, encodingID: 0, subtable: buildFormat6Subtable(65, []uint16{3, 4, 5})},
	})

	m, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if m['A'] != 3 || m['B'] != 4 || m['C'] != 5 {
		t.Errorf("mapping = %v, want A:3 B:4 C:5", m)
	}
}

func TestDecodePrefersHigherPriorityCandidate(t *testing.T) {
	var glyphs [256]byte
	glyphs['A'] = 9
	data := buildCmapTable([]struct {
		platformID, encodingID uint16
		subtable               []byte
	}{
		{platformID: 1, encodingID: 0, subtable: buildFormat0Subtable(glyphs)},
		{platformID: 3, encodingID: 1, subtable: buildFormat6Subtable(65, []uint16{7})},
	})

	m, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if m['A'] != 7 {
		t.Errorf("m['A'] = %d, want 7 (the Windows/BMP subtable should win)", m['A'])
	}
}

func TestDecodeSkipsZeroGlyphEntries(t *testing.T) {
	data := buildCmapTable([]struct {
		platformID, encodingID uint16
		subtable               []byte
	}{
		{platformID: 1, encodingID: 0, subtable: buildFormat6Subtable(65, []uint16{0, 4})},
	})

	m, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m['A']; ok {
		t.Error("codepoint mapped to glyph 0 should be absent")
	}
	if m['B'] != 4 {
		t.Errorf("m['B'] = %d, want 4", m['B'])
	}
}

func TestDecodeBreaksTiedTierByDeclarationOrder(t *testing.T) {
	// (0,3) and (0,1) share a priority tier; (0,1) is declared first and
	// should win even though (0,3) would sort first in a fixed list.
	data := buildCmapTable([]struct {
		platformID, encodingID uint16
		subtable               []byte
	}{
		{platformID: 0, encodingID: 1, subtable: buildFormat6Subtable(65, []uint16{11})},
		{platformID: 0, encodingID: 3, subtable: buildFormat6Subtable(65, []uint16{22})},
	})

	m, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if m['A'] != 11 {
		t.Errorf("m['A'] = %d, want 11 (the first-declared same-tier subtable should win)", m['A'])
	}
}

func TestDecodeRejectsUnknownSubtables(t *testing.T) {
	data := buildCmapTable([]struct {
		platformID, encodingID uint16
		subtable               []byte
	}{
		{platformID: 99, encodingID: 99, subtable: buildFormat6Subtable(65, []uint16{1})},
	})
	if _, err := Decode(data); err == nil {
		t.Fatal("expected an error when no known candidate subtable is present")
	}
}
