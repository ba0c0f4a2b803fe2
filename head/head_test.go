package head

import "testing"

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func be16s(v int16) []byte { return be16(uint16(v)) }
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

func buildHead(unitsPerEm uint16, indexToLocFormat int16) []byte {
	return concat(
		be32(0x00010000), // version
		be32(0),          // fontRevision
		be32(0),          // checkSumAdjustment
		be32(0x5F0F3CF5), // magicNumber
		be16(0),          // flags
		be16(unitsPerEm),
		make([]byte, 16), // created, modified
		be16s(-10), be16s(-20), be16s(300), be16s(400), // xMin,yMin,xMax,yMax
		be16(1),                    // macStyle: bold
		be16(8),                    // lowestRecPPEM
		be16s(0),                   // fontDirectionHint
		be16s(indexToLocFormat),    // indexToLocFormat
		be16s(0),                   // glyphDataFormat
	)
}

func TestReadDecodesHeadTable(t *testing.T) {
	info, err := Read(buildHead(2048, 1))
	if err != nil {
		t.Fatal(err)
	}
	if info.UnitsPerEm != 2048 {
		t.Errorf("UnitsPerEm = %d, want 2048", info.UnitsPerEm)
	}
	if info.XMin != -10 || info.YMin != -20 || info.XMax != 300 || info.YMax != 400 {
		t.Errorf("bounding box = (%d,%d)-(%d,%d)", info.XMin, info.YMin, info.XMax, info.YMax)
	}
	if !info.IndexToLocLong {
		t.Error("indexToLocFormat=1 should select 32-bit loca offsets")
	}
	if info.MacStyle != 1 {
		t.Errorf("MacStyle = %d, want 1", info.MacStyle)
	}
}

func TestReadShortLocaFormat(t *testing.T) {
	info, err := Read(buildHead(1000, 0))
	if err != nil {
		t.Fatal(err)
	}
	if info.IndexToLocLong {
		t.Error("indexToLocFormat=0 should select 16-bit loca offsets")
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	data := buildHead(1000, 0)
	data[12] = 0 // corrupt the magic number's first byte
	if _, err := Read(data); err == nil {
		t.Fatal("expected an error for a bad magic number")
	}
}

func TestReadRejectsShortInput(t *testing.T) {
	if _, err := Read(make([]byte, 10)); err == nil {
		t.Fatal("expected an error for a table shorter than 54 bytes")
	}
}
