package shape

import (
	"testing"

	"seehuhn.de/go/typeface/typeface"
)

func testRecord() *typeface.Record {
	return &typeface.Record{
		Glyphs: map[string]typeface.GlyphEntry{
			"O": {HA: 20, O: "m 0 0 l 10 0 l 10 10 l 0 10 m 3 3 l 3 7 l 7 7 l 7 3"},
			"A": {HA: 5, O: "m 0 0 l 1 0 l 0 1"},
		},
		Kerning: map[string]map[string]int{
			"O": {"A": 2},
		},
	}
}

func TestBuildClassifiesHoleInsideOuter(t *testing.T) {
	sets := Build(testRecord(), "O", Options{})
	if len(sets) != 1 {
		t.Fatalf("got %d contour sets, want 1: %+v", len(sets), sets)
	}
	if len(sets[0].Outer) != 4 {
		t.Fatalf("outer has %d points, want 4: %v", len(sets[0].Outer), sets[0].Outer)
	}
	if len(sets[0].Holes) != 1 || len(sets[0].Holes[0]) != 4 {
		t.Fatalf("holes = %+v, want one 4-point hole", sets[0].Holes)
	}
	if sets[0].Outer[2] != (Point{X: 10, Y: 10}) {
		t.Errorf("outer[2] = %v, want (10,10)", sets[0].Outer[2])
	}
}

func TestBuildReverseWindingSwapsOuterAndHole(t *testing.T) {
	sets := Build(testRecord(), "O", Options{ReverseWinding: true})
	if len(sets) != 1 {
		t.Fatalf("got %d contour sets, want 1: %+v", len(sets), sets)
	}
	if len(sets[0].Outer) != 4 || sets[0].Outer[0] != (Point{X: 3, Y: 3}) {
		t.Errorf("outer = %v, want the small square to become the outer", sets[0].Outer)
	}
	if len(sets[0].Holes) != 1 {
		t.Fatalf("holes = %+v, want one hole (the former outer square)", sets[0].Holes)
	}
}

func TestBuildAdvancesByHAPlusKerning(t *testing.T) {
	sets := Build(testRecord(), "OA", Options{})
	if len(sets) != 2 {
		t.Fatalf("got %d contour sets, want 2: %+v", len(sets), sets)
	}
	triangle := sets[1].Outer
	if len(triangle) != 3 {
		t.Fatalf("second glyph outer has %d points, want 3: %v", len(triangle), triangle)
	}
	want := Point{X: 22, Y: 0} // penX = HA(20) + kerning(2) after "O"
	if triangle[0] != want {
		t.Errorf("triangle[0] = %v, want %v", triangle[0], want)
	}
}

func TestBuildSkipsUnmappedCharacters(t *testing.T) {
	sets := Build(testRecord(), "OZ", Options{})
	if len(sets) != 1 {
		t.Fatalf("got %d contour sets, want 1 ('Z' has no glyph)", len(sets))
	}
}

func TestTessellateOutlineFlattensQuadratic(t *testing.T) {
	subpaths := tessellateOutline("m 0 0 q 10 10 20 0", 2)
	if len(subpaths) != 1 {
		t.Fatalf("got %d subpaths, want 1", len(subpaths))
	}
	pts := subpaths[0]
	if len(pts) != 3 { // start point + 2 segments
		t.Fatalf("got %d points, want 3: %v", len(pts), pts)
	}
	mid := pts[1]
	if mid.X != 10 || mid.Y != 5 {
		t.Errorf("midpoint = %v, want (10,5)", mid)
	}
}
