package geo

import earcut "github.com/mmp/earcut-go"

// Triangulate runs earcut triangulation over a closed ring (grounded on
// pkg/aviation/airspace.go's UpdateTriangles, which triangulates a
// closed vertex loop the same way for rendering). We use the
// triangulation as a validity check rather than for rendering: earcut
// always returns a result, so IsSimple compares the triangulated area
// with the shoelace area to catch self-intersecting ("bowtie") rings.
func Triangulate(ring []LocalPoint) [][3]LocalPoint {
	open := ring
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		open = ring[:n-1]
	}
	if len(open) < 3 {
		return nil
	}

	vertices := make([]earcut.Vertex, len(open))
	for i, p := range open {
		vertices[i].P = [2]float64{p.X, p.Y}
	}

	var tris [][3]LocalPoint
	for _, tri := range earcut.Triangulate(earcut.Polygon{Rings: [][]earcut.Vertex{vertices}}) {
		var t [3]LocalPoint
		for i, v := range tri.Vertices {
			t[i] = LocalPoint{X: v.P[0], Y: v.P[1]}
		}
		tris = append(tris, t)
	}
	return tris
}

// TriangulatedArea sums the area of the ring's triangulation; it serves
// as a cross-check against SignedArea for detecting self-intersecting
// rings (spec.md 3 requires the input ring be simple).
func TriangulatedArea(ring []LocalPoint) float64 {
	var total float64
	for _, t := range Triangulate(ring) {
		total += triangleArea(t[0], t[1], t[2])
	}
	return total
}

func triangleArea(a, b, c LocalPoint) float64 {
	v := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
	if v < 0 {
		v = -v
	}
	return v / 2
}

// IsSimple reports whether the ring's triangulated area matches its
// shoelace area within a small relative tolerance, flagging
// self-intersecting rings that earcut silently "fixes" rather than
// rejects.
func IsSimple(ring []LocalPoint) bool {
	shoelace := Area(ring)
	if shoelace < 1e-9 {
		return false
	}
	tri := TriangulatedArea(ring)
	diff := tri - shoelace
	if diff < 0 {
		diff = -diff
	}
	return diff/shoelace < 0.02
}
