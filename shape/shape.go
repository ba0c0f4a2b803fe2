// Package shape consumes a typeface record and a text string and
// produces closed outer/hole contour sets suitable for polygon
// extrusion, tessellating each glyph's curve commands and classifying
// its subpaths by winding direction.
package shape

import (
	"math"
	"sort"

	"seehuhn.de/go/typeface/typeface"
)

// ContourSet is one glyph component: an outer boundary plus the holes
// cut out of it.
type ContourSet struct {
	Outer Polygon
	Holes []Polygon
}

// Options controls tessellation fidelity and winding interpretation.
type Options struct {
	// CurveSegments is the number of line segments each curve is
	// flattened into. Values below 1 select the default of 8.
	CurveSegments int

	// ReverseWinding inverts which winding direction is treated as
	// outer versus hole.
	ReverseWinding bool
}

const defaultCurveSegments = 8

// Build lays out text left to right using record's advance widths and
// kerning, and returns every character's tessellated contour sets,
// already translated into the string's shared coordinate space.
// Characters absent from record.Glyphs contribute no shapes and do
// not advance the pen.
func Build(record *typeface.Record, text string, opts Options) []ContourSet {
	segments := opts.CurveSegments
	if segments < 1 {
		segments = defaultCurveSegments
	}

	chars := []rune(text)
	var result []ContourSet
	var penX float64
	for i, c := range chars {
		entry, ok := record.Glyphs[string(c)]
		if !ok {
			continue
		}

		subpaths := tessellateOutline(entry.O, segments)
		result = append(result, classify(subpaths, penX, opts.ReverseWinding)...)

		advance := float64(entry.HA)
		if i+1 < len(chars) {
			if byChar, ok := record.Kerning[string(c)]; ok {
				advance += float64(byChar[string(chars[i+1])])
			}
		}
		penX += advance
	}
	return result
}

// classify translates subpaths by offsetX, determines the winding
// sign of the largest-area subpath, and assigns every other subpath
// as an outer (same sign) or a hole (opposite sign), nesting each
// hole under the smallest outer whose boundary contains the hole's
// first point.
func classify(subpaths []Polygon, offsetX float64, reverseWinding bool) []ContourSet {
	if len(subpaths) == 0 {
		return nil
	}

	translated := make([]Polygon, len(subpaths))
	areas := make([]float64, len(subpaths))
	maxAbs := -1.0
	outerPositive := true
	for i, sp := range subpaths {
		t := make(Polygon, len(sp))
		for j, p := range sp {
			t[j] = Point{X: p.X + offsetX, Y: p.Y}
		}
		translated[i] = t

		a := signedArea(t)
		areas[i] = a
		if abs := math.Abs(a); abs > maxAbs {
			maxAbs = abs
			outerPositive = a >= 0
		}
	}

	var outerIdx, holeIdx []int
	for i, a := range areas {
		isOuter := (a >= 0) == outerPositive
		if reverseWinding {
			isOuter = !isOuter
		}
		if isOuter {
			outerIdx = append(outerIdx, i)
		} else {
			holeIdx = append(holeIdx, i)
		}
	}

	sets := make([]ContourSet, len(outerIdx))
	slot := make(map[int]int, len(outerIdx))
	for k, oi := range outerIdx {
		sets[k] = ContourSet{Outer: translated[oi]}
		slot[oi] = k
	}
	if len(sets) == 0 {
		return nil
	}

	byAreaAsc := append([]int(nil), outerIdx...)
	sort.Slice(byAreaAsc, func(a, b int) bool {
		return math.Abs(areas[byAreaAsc[a]]) < math.Abs(areas[byAreaAsc[b]])
	})

	for _, hi := range holeIdx {
		if len(translated[hi]) == 0 {
			continue
		}
		probe := translated[hi][0]
		assigned := false
		for _, oi := range byAreaAsc {
			if contains(translated[oi], probe) {
				k := slot[oi]
				sets[k].Holes = append(sets[k].Holes, translated[hi])
				assigned = true
				break
			}
		}
		if !assigned {
			sets[0].Holes = append(sets[0].Holes, translated[hi])
		}
	}
	return sets
}
