package gpos

import "testing"

// TestExtractKerningFormat1 hand-builds a GPOS table with a single
// lookup type 2 (PairPos) format 1 subtable: Coverage {5}, PairSet
// for glyph 5 giving (secondGlyph=8, xAdvance=-50).
func TestExtractKerningFormat1(t *testing.T) {
	data := []byte{
		// header
		0, 1, 0, 0, 0, 10, 0, 10, 0, 10,
		// LookupList @10
		0, 1, 0, 4,
		// Lookup @14
		0, 2, 0, 0, 0, 1, 0, 8,
		// PairPos format 1 subtable @22
		0, 1, // format
		0, 12, // coverageOffset (-> @34)
		0, 4, // valueFormat1: xAdvance
		0, 0, // valueFormat2
		0, 1, // pairSetCount
		0, 18, // pairSetOffsets[0] (-> @40)
		// Coverage @34
		0, 1, // format
		0, 1, // glyphCount
		0, 5, // glyph[0]
		// PairSet @40
		0, 1, // pairValueCount
		0, 8, // secondGlyph
		0xff, 0xce, // value1.xAdvance = -50
	}

	got, err := ExtractKerning(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d pairs, want 1: %v", len(got), got)
	}
	if v := got[Pair{Left: 5, Right: 8}]; v != -50 {
		t.Fatalf("pair(5,8) = %d, want -50", v)
	}
}

// TestExtractKerningFormat2 hand-builds a GPOS table with a single
// lookup type 2 (PairPos) format 2 subtable: Coverage {5},
// ClassDef1 {5->1}, ClassDef2 {8->1}, matrix [[0,0],[0,-80]].
func TestExtractKerningFormat2(t *testing.T) {
	data := []byte{
		// header
		0, 1, 0, 0, 0, 10, 0, 10, 0, 10,
		// LookupList @10
		0, 1, 0, 4,
		// Lookup @14
		0, 2, 0, 0, 0, 1, 0, 8,
		// PairPos format 2 subtable @22
		0, 2, // format
		0, 24, // coverageOffset (-> @46)
		0, 4, // valueFormat1: xAdvance
		0, 0, // valueFormat2
		0, 30, // classDef1Offset (-> @52)
		0, 38, // classDef2Offset (-> @60)
		0, 2, // class1Count
		0, 2, // class2Count
		// matrix, row-major by class1 then class2
		0, 0, // (0,0).xAdvance
		0, 0, // (0,1).xAdvance
		0, 0, // (1,0).xAdvance
		0xff, 0xb0, // (1,1).xAdvance = -80
		// Coverage @46
		0, 1, // format
		0, 1, // glyphCount
		0, 5, // glyph[0]
		// ClassDef1 @52
		0, 1, // format
		0, 5, // startGlyph
		0, 1, // glyphCount
		0, 1, // classValue[0]
		// ClassDef2 @60
		0, 1, // format
		0, 8, // startGlyph
		0, 1, // glyphCount
		0, 1, // classValue[0]
	}

	got, err := ExtractKerning(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d pairs, want 1: %v", len(got), got)
	}
	if v := got[Pair{Left: 5, Right: 8}]; v != -80 {
		t.Fatalf("pair(5,8) = %d, want -80", v)
	}
}
