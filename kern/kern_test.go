package kern

import "testing"

// buildFormat0Table builds a minimal "kern" table with one
// format-0, horizontal-coverage subtable containing the given pairs.
func buildFormat0Table(pairs []struct {
	left, right uint16
	value       int16
}) []byte {
	nPairs := len(pairs)
	subHeaderLen := 14
	subTableLen := subHeaderLen + 6*nPairs

	buf := []byte{
		0, 0, // version
		0, 1, // numTables

		0, 0, // subtable version
		byte(subTableLen >> 8), byte(subTableLen),
		0,    // format 0
		0x01, // coverage: horizontal, format 0

		byte(nPairs >> 8), byte(nPairs),
		0, 0, // searchRange
		0, 0, // entrySelector
		0, 0, // rangeShift
	}
	for _, p := range pairs {
		buf = append(buf,
			byte(p.left>>8), byte(p.left),
			byte(p.right>>8), byte(p.right),
			byte(uint16(p.value)>>8), byte(uint16(p.value)),
		)
	}
	return buf
}

func TestExtractKerningFormat0(t *testing.T) {
	data := buildFormat0Table([]struct {
		left, right uint16
		value       int16
	}{
		{left: 3, right: 9, value: -80},
		{left: 3, right: 10, value: 0}, // zero values are dropped
	})

	got, err := ExtractKerning(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d pairs, want 1: %v", len(got), got)
	}
	if v := got[Pair{Left: 3, Right: 9}]; v != -80 {
		t.Fatalf("pair(3,9) = %d, want -80", v)
	}
	if _, ok := got[Pair{Left: 3, Right: 10}]; ok {
		t.Fatalf("zero-valued pair should have been dropped")
	}
}

func TestExtractKerningRejectsUnsupportedVersion(t *testing.T) {
	_, err := ExtractKerning([]byte{0, 1, 0, 0})
	if err == nil {
		t.Fatal("expected an error for table version 1")
	}
}
