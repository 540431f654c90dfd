package geo

import "fmt"

// Ring is an ordered sequence of WGS84 coordinates. CloseRing
// canonicalises it the way spec.md 3 and 9 require: "polygons are
// canonicalised to explicitly closed rings on entry to each generator,
// and the extra closing vertex is skipped when iterating edges."
func CloseRing(ring []Coordinate) []Coordinate {
	if len(ring) == 0 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first.Lon == last.Lon && first.Lat == last.Lat {
		return ring
	}
	closed := make([]Coordinate, len(ring)+1)
	copy(closed, ring)
	closed[len(ring)] = first
	return closed
}

// OpenRing returns the ring with its closing vertex (if any) removed, so
// callers can iterate "real" vertices 0..n-1 without special-casing the
// duplicate last point.
func OpenRing(ring []Coordinate) []Coordinate {
	if len(ring) < 2 {
		return ring
	}
	first, last := ring[0], ring[len(ring)-1]
	if first.Lon == last.Lon && first.Lat == last.Lat {
		return ring[:len(ring)-1]
	}
	return ring
}

// CrossesAntimeridian reports whether consecutive vertices of the ring
// jump by more than 180 degrees of longitude, the heuristic spec.md 4.1
// uses to hard-reject antimeridian-crossing polygons.
func CrossesAntimeridian(ring []Coordinate) bool {
	open := OpenRing(ring)
	for i := range open {
		a := open[i]
		b := open[(i+1)%len(open)]
		d := a.Lon - b.Lon
		if d < 0 {
			d = -d
		}
		if d > 180 {
			return true
		}
	}
	return false
}

// BoundingBox is an axis-aligned box over LocalPoints.
type BoundingBox struct {
	Min, Max LocalPoint
}

func BoundingBoxOf(pts []LocalPoint) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	b := BoundingBox{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < b.Min.X {
			b.Min.X = p.X
		}
		if p.Y < b.Min.Y {
			b.Min.Y = p.Y
		}
		if p.X > b.Max.X {
			b.Max.X = p.X
		}
		if p.Y > b.Max.Y {
			b.Max.Y = p.Y
		}
	}
	return b
}

func (b BoundingBox) Width() float64  { return b.Max.X - b.Min.X }
func (b BoundingBox) Height() float64 { return b.Max.Y - b.Min.Y }

func (b BoundingBox) Center() LocalPoint {
	return LocalPoint{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Diagonal returns the length of the bounding box's diagonal.
func (b BoundingBox) Diagonal() float64 {
	return Distance(b.Min, b.Max)
}

// Centroid returns the arithmetic mean of the given points, per spec.md
// 4.2 ("centroid (arithmetic mean of vertices)").
func Centroid(pts []LocalPoint) LocalPoint {
	if len(pts) == 0 {
		return LocalPoint{}
	}
	var sum LocalPoint
	for _, p := range pts {
		sum = Add(sum, p)
	}
	return Scale(sum, 1/float64(len(pts)))
}

// SignedArea computes the shoelace-formula signed area of a closed ring
// (the closing vertex, if present, is not double counted). Positive
// indicates counterclockwise winding.
func SignedArea(ring []LocalPoint) float64 {
	open := ring
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		open = ring[:n-1]
	}
	var sum float64
	n := len(open)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += open[i].X*open[j].Y - open[j].X*open[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area of the ring.
func Area(ring []LocalPoint) float64 {
	a := SignedArea(ring)
	if a < 0 {
		return -a
	}
	return a
}

// Buffer offsets every vertex of a closed ring outward by distance,
// per spec.md 4.2: the outward normal at each vertex is the average of
// the unit normals of its two incident edges, and the outward direction
// is chosen from the sign of the ring's signed area (CCW rings negate
// the left-perpendicular). The result is re-closed.
func Buffer(ring []LocalPoint, distance float64) []LocalPoint {
	open := ring
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		open = ring[:n-1]
	}
	n := len(open)
	if n < 3 {
		return ring
	}

	ccw := SignedArea(open) > 0

	out := make([]LocalPoint, n)
	for i := 0; i < n; i++ {
		prev := open[(i-1+n)%n]
		cur := open[i]
		next := open[(i+1)%n]

		e0 := Sub(cur, prev)
		e1 := Sub(next, cur)

		n0 := leftPerp(e0)
		n1 := leftPerp(e1)
		if ccw {
			n0 = Scale(n0, -1)
			n1 = Scale(n1, -1)
		}
		n0 = normalize(n0)
		n1 = normalize(n1)

		avg := normalize(Add(n0, n1))
		out[i] = Add(cur, Scale(avg, distance))
	}
	return CloseLocalRing(out)
}

// OpenLocalRing returns ring with its closing vertex (if any) removed,
// the LocalPoint counterpart of OpenRing.
func OpenLocalRing(ring []LocalPoint) []LocalPoint {
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		return ring[:n-1]
	}
	return ring
}

// CloseLocalRing appends the first point as the last point if the ring
// is not already explicitly closed.
func CloseLocalRing(ring []LocalPoint) []LocalPoint {
	if len(ring) == 0 {
		return ring
	}
	if ring[0] == ring[len(ring)-1] {
		return ring
	}
	return append(append([]LocalPoint{}, ring...), ring[0])
}

func leftPerp(v LocalPoint) LocalPoint { return LocalPoint{-v.Y, v.X} }

func normalize(v LocalPoint) LocalPoint {
	l := Length(v)
	if l < 1e-12 {
		return LocalPoint{}
	}
	return Scale(v, 1/l)
}

// ProjectRing projects a closed WGS84 ring into the local frame of t.
func ProjectRing(t *Transformer, ring []Coordinate) ([]LocalPoint, error) {
	closed := CloseRing(ring)
	pts := make([]LocalPoint, len(closed))
	for i, c := range closed {
		p, err := t.ToLocal(c)
		if err != nil {
			return nil, fmt.Errorf("geo: projecting vertex %d: %w", i, err)
		}
		pts[i] = p
	}
	return pts, nil
}

// UnprojectPoints converts local points back to WGS84 coordinates.
func UnprojectPoints(t *Transformer, pts []LocalPoint) ([]Coordinate, error) {
	coords := make([]Coordinate, len(pts))
	for i, p := range pts {
		c, err := t.ToWGS84(p)
		if err != nil {
			return nil, fmt.Errorf("geo: unprojecting point %d: %w", i, err)
		}
		coords[i] = c
	}
	return coords, nil
}
