package shape

// Point is a 2D coordinate in font design units, or in the shared
// coordinate space of a laid-out string once translated by Build.
type Point struct {
	X, Y float64
}

// Polygon is a closed ring of points; the edge from the last point
// back to the first is implicit.
type Polygon []Point

// signedArea computes the polygon's signed area via the shoelace
// formula. The sign encodes winding direction: positive for
// counter-clockwise, negative for clockwise, under the usual
// math-axis (y-up) convention font design units use.
func signedArea(poly Polygon) float64 {
	n := len(poly)
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += poly[i].X*poly[j].Y - poly[j].X*poly[i].Y
	}
	return a / 2
}

// contains reports whether pt lies inside poly, via the standard
// even-odd ray-casting test.
func contains(poly Polygon, pt Point) bool {
	inside := false
	n := len(poly)
	j := n - 1
	for i := 0; i < n; i++ {
		pi, pj := poly[i], poly[j]
		if (pi.Y < pt.Y) != (pj.Y < pt.Y) &&
			pt.X < (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
