// Package glyf decodes the "glyf" and "loca" tables into per-glyph
// point outlines, resolving composite glyphs recursively, and lowers
// a decoded outline's contours into the TrueType subset of the
// command-string grammar ("m"/"l"/"q").
package glyf

import (
	"fmt"
	"strconv"
	"strings"

	"seehuhn.de/go/typeface/bytereader"
)

// simple glyph flag bits (spec.md §4.5).
const (
	flagOnCurve        = 0x01
	flagXShort         = 0x02
	flagYShort         = 0x04
	flagRepeat         = 0x08
	flagXSameOrPos     = 0x10
	flagYSameOrPos     = 0x20
)

// composite glyph flag bits.
const (
	compArgsAreWords    = 0x0001
	compArgsAreXY       = 0x0002
	compHaveScale       = 0x0008
	compMoreComponents  = 0x0020
	compHaveXYScale     = 0x0040
	compHaveTwoByTwo    = 0x0080
)

// Point is one on/off-curve point of a glyph contour.
type Point struct {
	X, Y    float64
	OnCurve bool
}

// Contour is an ordered ring of points.
type Contour []Point

// Outline is a decoded, already-composite-resolved glyph shape.
type Outline struct {
	Contours               []Contour
	XMin, YMin, XMax, YMax int16
}

// Table holds the raw per-glyph "glyf" byte ranges, resolved lazily
// and cached by glyph id.
type Table struct {
	raw      [][]byte // raw glyf bytes per glyph id, nil for empty glyphs
	resolved map[uint16]*Outline
}

// ErrCompositeCycle is returned when a composite glyph's component
// graph contains a cycle.
var ErrCompositeCycle = fmt.Errorf("glyf: composite glyph cycle")

// Decode splits the "glyf" table into per-glyph byte ranges using the
// offsets in "loca". longLoca selects 32-bit offsets (indexToLocFormat
// != 0 in "head"); otherwise offsets are 16-bit and must be doubled.
func Decode(locaData, glyfData []byte, numGlyphs int, longLoca bool) (*Table, error) {
	offs := make([]int, numGlyphs+1)
	r := bytereader.New(locaData)
	for i := 0; i <= numGlyphs; i++ {
		if longLoca {
			v, err := r.Uint32()
			if err != nil {
				return nil, fmt.Errorf("glyf: loca: %w", err)
			}
			offs[i] = int(v)
		} else {
			v, err := r.Uint16()
			if err != nil {
				return nil, fmt.Errorf("glyf: loca: %w", err)
			}
			offs[i] = int(v) * 2
		}
	}

	raw := make([][]byte, numGlyphs)
	for i := 0; i < numGlyphs; i++ {
		start, end := offs[i], offs[i+1]
		if start == end {
			continue // empty glyph
		}
		if start < 0 || end > len(glyfData) || end < start {
			return nil, fmt.Errorf("glyf: glyph %d has invalid offset range", i)
		}
		raw[i] = glyfData[start:end]
	}

	return &Table{raw: raw, resolved: make(map[uint16]*Outline)}, nil
}

// NumGlyphs returns the number of glyphs addressable in this table.
func (t *Table) NumGlyphs() int {
	return len(t.raw)
}

// Outline resolves the outline for gid, recursively expanding
// composite components and caching the result.
func (t *Table) Outline(gid uint16) (*Outline, error) {
	if o, ok := t.resolved[gid]; ok {
		return o, nil
	}
	o, err := t.resolve(gid, make(map[uint16]bool))
	if err != nil {
		return nil, err
	}
	t.resolved[gid] = o
	return o, nil
}

func (t *Table) resolve(gid uint16, inProgress map[uint16]bool) (*Outline, error) {
	if int(gid) >= len(t.raw) {
		return nil, fmt.Errorf("glyf: glyph id %d out of range", gid)
	}
	data := t.raw[gid]
	if data == nil {
		return &Outline{}, nil
	}
	if inProgress[gid] {
		return nil, ErrCompositeCycle
	}
	inProgress[gid] = true
	defer delete(inProgress, gid)

	if len(data) < 10 {
		return nil, fmt.Errorf("glyf: glyph %d header too short", gid)
	}
	r := bytereader.New(data)
	numContours, err := r.Int16()
	if err != nil {
		return nil, err
	}
	xMin, _ := r.Int16()
	yMin, _ := r.Int16()
	xMax, _ := r.Int16()
	yMax, _ := r.Int16()

	if numContours >= 0 {
		contours, err := decodeSimple(r, int(numContours))
		if err != nil {
			return nil, fmt.Errorf("glyf: glyph %d: %w", gid, err)
		}
		return &Outline{Contours: contours, XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}, nil
	}

	contours, err := t.resolveComposite(r, inProgress)
	if err != nil {
		return nil, fmt.Errorf("glyf: glyph %d: %w", gid, err)
	}
	return &Outline{Contours: contours, XMin: xMin, YMin: yMin, XMax: xMax, YMax: yMax}, nil
}

func decodeSimple(r *bytereader.Reader, numContours int) ([]Contour, error) {
	endPts := make([]int, numContours)
	for i := range endPts {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		endPts[i] = int(v)
	}
	instrLen, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if err := r.Skip(int(instrLen)); err != nil {
		return nil, err
	}

	numPoints := 0
	if numContours > 0 {
		numPoints = endPts[numContours-1] + 1
	}

	flags := make([]byte, 0, numPoints)
	for len(flags) < numPoints {
		f, err := r.Uint8()
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
		if f&flagRepeat != 0 {
			count, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			for i := 0; i < int(count) && len(flags) < numPoints; i++ {
				flags = append(flags, f)
			}
		}
	}
	if len(flags) != numPoints {
		return nil, fmt.Errorf("flag decode produced %d flags, want %d", len(flags), numPoints)
	}

	xs := make([]float64, numPoints)
	var x int32
	for i, f := range flags {
		switch {
		case f&flagXShort != 0:
			v, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			if f&flagXSameOrPos != 0 {
				x += int32(v)
			} else {
				x -= int32(v)
			}
		case f&flagXSameOrPos == 0:
			v, err := r.Int16()
			if err != nil {
				return nil, err
			}
			x += int32(v)
		}
		xs[i] = float64(x)
	}

	ys := make([]float64, numPoints)
	var y int32
	for i, f := range flags {
		switch {
		case f&flagYShort != 0:
			v, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			if f&flagYSameOrPos != 0 {
				y += int32(v)
			} else {
				y -= int32(v)
			}
		case f&flagYSameOrPos == 0:
			v, err := r.Int16()
			if err != nil {
				return nil, err
			}
			y += int32(v)
		}
		ys[i] = float64(y)
	}

	contours := make([]Contour, numContours)
	start := 0
	for i, end := range endPts {
		c := make(Contour, 0, end-start+1)
		for p := start; p <= end; p++ {
			c = append(c, Point{X: xs[p], Y: ys[p], OnCurve: flags[p]&flagOnCurve != 0})
		}
		contours[i] = c
		start = end + 1
	}
	return contours, nil
}

func (t *Table) resolveComposite(r *bytereader.Reader, inProgress map[uint16]bool) ([]Contour, error) {
	var out []Contour
	for {
		flags, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		glyphIndex, err := r.Uint16()
		if err != nil {
			return nil, err
		}

		var dx, dy float64
		if flags&compArgsAreWords != 0 {
			a1, err := r.Int16()
			if err != nil {
				return nil, err
			}
			a2, err := r.Int16()
			if err != nil {
				return nil, err
			}
			if flags&compArgsAreXY != 0 {
				dx, dy = float64(a1), float64(a2)
			}
			// else: point-matching indices, approximated as (0,0) per spec §9.
		} else {
			a1, err := r.Int8()
			if err != nil {
				return nil, err
			}
			a2, err := r.Int8()
			if err != nil {
				return nil, err
			}
			if flags&compArgsAreXY != 0 {
				dx, dy = float64(a1), float64(a2)
			}
		}

		a, b, c, d := 1.0, 0.0, 0.0, 1.0
		switch {
		case flags&compHaveScale != 0:
			s, err := r.Fixed2Dot14()
			if err != nil {
				return nil, err
			}
			a, d = s, s
		case flags&compHaveXYScale != 0:
			sx, err := r.Fixed2Dot14()
			if err != nil {
				return nil, err
			}
			sy, err := r.Fixed2Dot14()
			if err != nil {
				return nil, err
			}
			a, d = sx, sy
		case flags&compHaveTwoByTwo != 0:
			var err error
			if a, err = r.Fixed2Dot14(); err != nil {
				return nil, err
			}
			if b, err = r.Fixed2Dot14(); err != nil {
				return nil, err
			}
			if c, err = r.Fixed2Dot14(); err != nil {
				return nil, err
			}
			if d, err = r.Fixed2Dot14(); err != nil {
				return nil, err
			}
		}

		sub, ok := t.resolved[glyphIndex]
		if !ok {
			sub, err = t.resolve(glyphIndex, inProgress)
			if err != nil {
				return nil, err
			}
			t.resolved[glyphIndex] = sub
		}
		for _, contour := range sub.Contours {
			tc := make(Contour, len(contour))
			for i, p := range contour {
				tc[i] = Point{
					X:       a*p.X + c*p.Y + dx,
					Y:       b*p.X + d*p.Y + dy,
					OnCurve: p.OnCurve,
				}
			}
			out = append(out, tc)
		}

		if flags&compMoreComponents == 0 {
			break
		}
	}
	return out, nil
}

// Lower converts a decoded outline into the "m"/"l"/"q" subset of the
// command-string grammar, one contour after another, space-separated.
func Lower(o *Outline) string {
	var tokens []string
	for _, c := range o.Contours {
		if len(c) == 0 {
			continue
		}
		tokens = append(tokens, lowerContour(c)...)
	}
	return strings.Join(tokens, " ")
}

func lowerContour(pts Contour) []string {
	n := len(pts)
	if n == 1 {
		return []string{"m", coord(pts[0].X), coord(pts[0].Y)}
	}

	f := -1
	for i, p := range pts {
		if p.OnCurve {
			f = i
			break
		}
	}

	var startX, startY float64
	var cur int
	if f == -1 {
		startX = roundHalfAwayFromZero((pts[0].X + pts[n-1].X) / 2)
		startY = roundHalfAwayFromZero((pts[0].Y + pts[n-1].Y) / 2)
		cur = 0
	} else {
		startX, startY = pts[f].X, pts[f].Y
		cur = (f + 1) % n
	}
	tokens := []string{"m", coord(startX), coord(startY)}

	visited := 0
	if f != -1 {
		visited = 1
	}
	for visited < n {
		p := pts[cur]
		if p.OnCurve {
			tokens = append(tokens, "l", coord(p.X), coord(p.Y))
			cur = (cur + 1) % n
			visited++
			continue
		}
		next := pts[(cur+1)%n]
		if next.OnCurve {
			tokens = append(tokens, "q", coord(p.X), coord(p.Y), coord(next.X), coord(next.Y))
			cur = (cur + 2) % n
			visited += 2
		} else {
			mx := roundHalfAwayFromZero((p.X + next.X) / 2)
			my := roundHalfAwayFromZero((p.Y + next.Y) / 2)
			tokens = append(tokens, "q", coord(p.X), coord(p.Y), coord(mx), coord(my))
			cur = (cur + 1) % n
			visited++
		}
	}
	return tokens
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func roundHalfAwayFromZero(v float64) float64 {
	if v >= 0 {
		return float64(int64(v + 0.5))
	}
	return float64(int64(v - 0.5))
}
