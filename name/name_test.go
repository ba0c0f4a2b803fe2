package name

import "testing"

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func utf16be(s string) []byte {
	var out []byte
	for _, r := range s {
		out = append(out, byte(r>>8), byte(r))
	}
	return out
}

type rawEntry struct {
	platformID, encodingID, nameID uint16
	value                          []byte
}

func buildNameTable(entries []rawEntry) []byte {
	header := concat(be16(0), be16(uint16(len(entries))), be16(uint16(6+12*len(entries))))

	var records, storage []byte
	offset := uint16(0)
	for _, e := range entries {
		records = append(records,
			be16(e.platformID)...)
		records = append(records, be16(e.encodingID)...)
		records = append(records, be16(0)...) // languageID
		records = append(records, be16(e.nameID)...)
		records = append(records, be16(uint16(len(e.value)))...)
		records = append(records, be16(offset)...)
		storage = append(storage, e.value...)
		offset += uint16(len(e.value))
	}
	return concat(header, records, storage)
}

func TestDecodePrefersWindowsUTF16BE(t *testing.T) {
	data := buildNameTable([]rawEntry{
		{platformID: platformMacintosh, encodingID: 0, nameID: IDFamily, value: []byte("Mac Name")},
		{platformID: platformWindows, encodingID: encodingWindowsUTF16BE, nameID: IDFamily, value: utf16be("Win Name")},
	})

	info, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(IDFamily); got != "Win Name" {
		t.Errorf("Get(IDFamily) = %q, want %q", got, "Win Name")
	}
}

func TestDecodeFallsBackToMacintoshRecord(t *testing.T) {
	data := buildNameTable([]rawEntry{
		{platformID: platformMacintosh, encodingID: 0, nameID: IDDesigner, value: []byte("Designer Name")},
	})

	info, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(IDDesigner); got != "Designer Name" {
		t.Errorf("Get(IDDesigner) = %q, want %q", got, "Designer Name")
	}
}

func TestDecodeMissingNameIDReturnsEmptyString(t *testing.T) {
	info, err := Decode(buildNameTable(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Get(IDCopyright); got != "" {
		t.Errorf("Get(IDCopyright) = %q, want empty", got)
	}
}

func TestDecodeRejectsShortInput(t *testing.T) {
	if _, err := Decode([]byte{0, 0}); err == nil {
		t.Fatal("expected an error for a table shorter than 6 bytes")
	}
}
