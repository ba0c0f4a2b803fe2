package typeface

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

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

// buildHead returns a minimal version-0x00010000 "head" table: unitsPerEm
// 1000, bounding box (0,0)-(100,100), short loca offsets.
func buildHead() []byte {
	return concat(
		be32(0x00010000), // version
		be32(0),          // fontRevision
		be32(0),          // checkSumAdjustment
		be32(0x5F0F3CF5), // magicNumber
		be16(0),          // flags
		be16(1000),       // unitsPerEm
		make([]byte, 16), // created, modified
		be16s(0), be16s(0), be16s(100), be16s(100), // xMin,yMin,xMax,yMax
		be16(0),   // macStyle
		be16(0),   // lowestRecPPEM
		be16s(0),  // fontDirectionHint
		be16s(0),  // indexToLocFormat: short
		be16s(0),  // glyphDataFormat
	)
}

// buildHhea returns a minimal "hhea" table for numGlyphs glyphs, all with
// long (width, lsb) metric records.
func buildHhea(numGlyphs int) []byte {
	return concat(
		be32(0x00010000), // version
		be16s(800),       // ascent
		be16s(-200),      // descent
		be16s(0),         // lineGap
		make([]byte, 22), // advanceWidthMax..reserved
		be16s(0),         // metricDataFormat
		be16(uint16(numGlyphs)),
	)
}

// buildHmtx returns (width, lsb) pairs for each glyph, one per entry.
func buildHmtx(widths []uint16) []byte {
	var out []byte
	for _, w := range widths {
		out = append(out, concat(be16(w), be16s(0))...)
	}
	return out
}

func buildMaxp(numGlyphs int) []byte {
	return concat(be32(0x00010000), be16(uint16(numGlyphs)))
}

// buildCmapFormat6 maps a contiguous run of codepoints starting at
// firstCode to consecutive entries in gids, under platform 1 / encoding 0.
func buildCmapFormat6(firstCode uint16, gids []uint16) []byte {
	var glyphIDArray []byte
	for _, g := range gids {
		glyphIDArray = append(glyphIDArray, be16(g)...)
	}
	subtable := concat(
		be16(6),                      // format
		be16(uint16(10+2*len(gids))), // length
		be16(0),                      // language
		be16(firstCode),
		be16(uint16(len(gids))),
		glyphIDArray,
	)
	header := concat(be16(0), be16(1)) // version, numTables
	record := concat(be16(1), be16(0), be32(uint32(len(header)+8)))
	return concat(header, record, subtable)
}

// buildLoca returns short-format loca offsets (word offsets, i.e. byte
// offset / 2) for the given glyph byte lengths (each must be even).
func buildLoca(glyphLengths []int) []byte {
	var out []byte
	offset := 0
	out = append(out, be16(0)...)
	for _, l := range glyphLengths {
		offset += l
		out = append(out, be16(uint16(offset/2))...)
	}
	return out
}

// buildTriangleGlyph returns a simple TrueType glyph: one contour of three
// on-curve points at (0,0), (100,0), (0,100), padded to an even length.
func buildTriangleGlyph() []byte {
	flags := []byte{0x01, 0x01, 0x01}
	xs := concat(be16s(0), be16s(100), be16s(-100))
	ys := concat(be16s(0), be16s(0), be16s(100))
	g := concat(
		be16s(1),                    // numberOfContours
		be16s(0), be16s(0), be16s(100), be16s(100), // bbox
		be16(2), // endPtsOfContours[0]
		be16(0), // instructionLength
		flags,
		xs,
		ys,
	)
	if len(g)%2 != 0 {
		g = append(g, 0)
	}
	return g
}

type tableEntry struct {
	tag  string
	data []byte
}

// buildSfnt assembles a minimal TrueType sfnt binary from named table
// payloads, computing directory offsets automatically.
func buildSfnt(tables []tableEntry) []byte {
	const headerSize = 12
	dirSize := 16 * len(tables)
	offset := uint32(headerSize + dirSize)

	header := concat(be32(0x00010000), be16(uint16(len(tables))), be16(0), be16(0), be16(0))
	var dir []byte
	var body []byte
	for _, te := range tables {
		dir = append(dir, concat([]byte(te.tag), be32(0), be32(offset), be32(uint32(len(te.data))))...)
		body = append(body, te.data...)
		offset += uint32(len(te.data))
	}
	return concat(header, dir, body)
}

func TestParseTrueType(t *testing.T) {
	glyph := buildTriangleGlyph()
	font := buildSfnt([]tableEntry{
		{"head", buildHead()},
		{"hhea", buildHhea(2)},
		{"hmtx", buildHmtx([]uint16{0, 100})},
		{"maxp", buildMaxp(2)},
		{"cmap", buildCmapFormat6(65, []uint16{1})},
		{"loca", buildLoca([]int{0, len(glyph)})},
		{"glyf", glyph},
	})

	rec, err := Parse(font, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := &Record{
		Glyphs: map[string]GlyphEntry{
			"A": {HA: 100, O: "m 0 0 l 100 0 l 0 100"},
		},
		Ascender:           800,
		Descender:          -200,
		UnderlinePosition:  -100, // post table absent: -0.1 * unitsPerEm
		UnderlineThickness: 50,   // post table absent: 0.05 * unitsPerEm
		BoundingBox: BoundingBox{
			XMin: 0, YMin: 0, XMax: 100, YMax: 100,
		},
		Resolution: 1000,
		OriginalFontInformation: FontInfo{
			Format: "TrueType",
		},
		Meta: Meta{
			ConvertedGlyphs: 1,
			ErrorGlyphs:     0,
			TotalMapped:     1,
			Type:            "TrueType",
		},
	}
	if d := cmp.Diff(want, rec); d != "" {
		t.Errorf("record mismatch (-want +got):\n%s", d)
	}
}

func TestParseRejectsTooSmallInput(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3}, Options{})
	if err == nil {
		t.Fatal("expected an error for truncated input")
	}
	if _, ok := err.(*InputTooSmallError); !ok {
		t.Fatalf("got %T, want *InputTooSmallError", err)
	}
}

func TestParseRejectsWOFF2(t *testing.T) {
	data := []byte("wOF2")
	data = append(data, make([]byte, 16)...)
	_, err := Parse(data, Options{})
	if err == nil {
		t.Fatal("expected an error for a WOFF2 container")
	}
	if _, ok := err.(*UnsupportedFormatError); !ok {
		t.Fatalf("got %T, want *UnsupportedFormatError", err)
	}
}
