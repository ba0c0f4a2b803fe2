package glyf

import (
	"errors"
	"testing"
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

// triangleGlyph builds a simple one-contour glyph with three on-curve
// points at (0,0), (10,0), (0,10).
func triangleGlyph() []byte {
	return concat(
		be16s(1),               // numContours
		be16s(0), be16s(0), be16s(10), be16s(10), // bbox
		be16(2),                // endPtsOfContours[0]
		be16(0),                // instructionLength
		[]byte{0x01, 0x01, 0x01}, // flags: on-curve, int16 deltas
		be16s(0), be16s(10), be16s(-10), // x deltas: 0,10,-10
		be16s(0), be16s(0), be16s(10), // y deltas: 0,0,10
	)
}

// compositeGlyph references componentGID with a byte offset (dx,dy) and
// no scale, stopping after its single component.
func compositeGlyph(componentGID uint16, dx, dy int8) []byte {
	return concat(
		be16s(-1), // numContours: composite marker
		be16s(0), be16s(0), be16s(10), be16s(10), // bbox
		be16(compArgsAreXY), // flags: args are xy offsets, byte-sized, no more components
		be16(componentGID),
		[]byte{byte(dx), byte(dy)},
	)
}

func buildLocaGlyf(glyphs [][]byte) (loca, glyf []byte) {
	offset := uint32(0)
	for _, g := range glyphs {
		loca = append(loca, be32(offset)...)
		glyf = append(glyf, g...)
		offset += uint32(len(g))
	}
	loca = append(loca, be32(offset)...)
	return loca, glyf
}

func TestDecodeSimpleTriangleOutline(t *testing.T) {
	loca, glyfData := buildLocaGlyf([][]byte{triangleGlyph()})
	tbl, err := Decode(loca, glyfData, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	o, err := tbl.Outline(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Contours) != 1 || len(o.Contours[0]) != 3 {
		t.Fatalf("got %d contours, want 1 with 3 points: %+v", len(o.Contours), o.Contours)
	}
	want := []Point{{X: 0, Y: 0, OnCurve: true}, {X: 10, Y: 0, OnCurve: true}, {X: 0, Y: 10, OnCurve: true}}
	for i, p := range want {
		if o.Contours[0][i] != p {
			t.Errorf("point %d = %+v, want %+v", i, o.Contours[0][i], p)
		}
	}
}

func TestLowerSimpleTriangle(t *testing.T) {
	loca, glyfData := buildLocaGlyf([][]byte{triangleGlyph()})
	tbl, _ := Decode(loca, glyfData, 1, true)
	o, _ := tbl.Outline(0)
	got := Lower(o)
	want := "m 0 0 l 10 0 l 0 10"
	if got != want {
		t.Errorf("Lower = %q, want %q", got, want)
	}
}

func TestResolveCompositeAppliesOffset(t *testing.T) {
	loca, glyfData := buildLocaGlyf([][]byte{triangleGlyph(), compositeGlyph(0, 5, 5)})
	tbl, err := Decode(loca, glyfData, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	o, err := tbl.Outline(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Contours) != 1 || len(o.Contours[0]) != 3 {
		t.Fatalf("got %d contours: %+v", len(o.Contours), o.Contours)
	}
	if o.Contours[0][1] != (Point{X: 15, Y: 5, OnCurve: true}) {
		t.Errorf("translated point = %+v, want (15,5)", o.Contours[0][1])
	}
}

func TestResolveDetectsCompositeCycle(t *testing.T) {
	loca, glyfData := buildLocaGlyf([][]byte{compositeGlyph(0, 0, 0)}) // glyph 0 references itself
	tbl, err := Decode(loca, glyfData, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.Outline(0); !errors.Is(err, ErrCompositeCycle) {
		t.Fatalf("Outline = %v, want ErrCompositeCycle", err)
	}
}

func TestDecodeTreatsEqualOffsetsAsEmptyGlyph(t *testing.T) {
	loca, glyfData := buildLocaGlyf([][]byte{nil, triangleGlyph()})
	tbl, err := Decode(loca, glyfData, 2, true)
	if err != nil {
		t.Fatal(err)
	}
	o, err := tbl.Outline(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(o.Contours) != 0 {
		t.Errorf("empty glyph should have no contours, got %+v", o.Contours)
	}
}
