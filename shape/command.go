package shape

import "strconv"

// tessellateOutline parses an "m"/"l"/"q"/"b" command string (the
// grammar shared by the TrueType and CFF outline lowerers) and
// flattens every curve into a polygon via De Casteljau subdivision,
// one subpath per "m".
func tessellateOutline(cmds string, segments int) []Polygon {
	if segments < 1 {
		segments = 1
	}

	var subpaths []Polygon
	var current Polygon
	var pen Point

	flush := func() {
		if len(current) > 1 {
			subpaths = append(subpaths, current)
		}
		current = nil
	}

	toks := tokenize(cmds)
	i := 0
	nextPoint := func() Point {
		x, _ := strconv.ParseFloat(toks[i], 64)
		y, _ := strconv.ParseFloat(toks[i+1], 64)
		i += 2
		return Point{X: x, Y: y}
	}

	for i < len(toks) {
		op := toks[i]
		i++
		switch op {
		case "m":
			flush()
			pen = nextPoint()
			current = Polygon{pen}
		case "l":
			pen = nextPoint()
			current = append(current, pen)
		case "q":
			ctrl := nextPoint()
			end := nextPoint()
			current = append(current, quadPoints(pen, ctrl, end, segments)...)
			pen = end
		case "b":
			c1 := nextPoint()
			c2 := nextPoint()
			end := nextPoint()
			current = append(current, cubicPoints(pen, c1, c2, end, segments)...)
			pen = end
		default:
			// an unrecognized token in this module's own output would be
			// a lowering bug, not malformed external input; skip it
			// rather than letting one bad glyph wedge the whole build.
		}
	}
	flush()
	return subpaths
}

// tokenize splits an outline command string on single spaces, the
// separator the lowerers join with.
func tokenize(s string) []string {
	var toks []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if start >= 0 {
				toks = append(toks, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		toks = append(toks, s[start:])
	}
	return toks
}

// quadPoints returns segments points sampled along a quadratic Bezier
// from p0 (exclusive) to p2 (inclusive), via De Casteljau subdivision.
func quadPoints(p0, p1, p2 Point, segments int) Polygon {
	pts := make(Polygon, segments)
	for i := 1; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		pts[i-1] = Point{
			X: u*u*p0.X + 2*u*t*p1.X + t*t*p2.X,
			Y: u*u*p0.Y + 2*u*t*p1.Y + t*t*p2.Y,
		}
	}
	return pts
}

// cubicPoints returns segments points sampled along a cubic Bezier
// from p0 (exclusive) to p3 (inclusive), via De Casteljau subdivision.
func cubicPoints(p0, p1, p2, p3 Point, segments int) Polygon {
	pts := make(Polygon, segments)
	for i := 1; i <= segments; i++ {
		t := float64(i) / float64(segments)
		u := 1 - t
		uu, tt := u*u, t*t
		pts[i-1] = Point{
			X: uu*u*p0.X + 3*uu*t*p1.X + 3*u*tt*p2.X + tt*t*p3.X,
			Y: uu*u*p0.Y + 3*uu*t*p1.Y + 3*u*tt*p2.Y + tt*t*p3.Y,
		}
	}
	return pts
}
