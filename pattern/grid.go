package pattern

import (
	"fmt"
	"math"

	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/solver"
)

// GridOptions configures Grid and DoubleGrid (spec.md 4.4.1-4.4.2).
type GridOptions struct {
	FlightAngleDeg float64
	GimbalPitch    float64
	// BufferPercent defaults to 15 when zero.
	BufferPercent float64
}

func (o GridOptions) bufferPercent() float64 {
	if o.BufferPercent == 0 {
		return 15
	}
	return o.BufferPercent
}

type clippedSegment struct {
	start, end geo.LocalPoint
}

// Grid implements spec.md 4.4.1.
func Grid(polygon []geo.Coordinate, params solver.Params, opts GridOptions) ([]Waypoint, error) {
	t, ring, err := localFrame(polygon)
	if err != nil {
		return nil, err
	}
	ring = geo.CloseLocalRing(ring)

	buffered := geo.Buffer(ring, params.LineSpacingM*opts.bufferPercent()/100*3)

	segments := gridSegments(buffered, geo.Centroid(geo.OpenLocalRing(ring)), opts.FlightAngleDeg, params.LineSpacingM)
	ordered := serpentine(segments)

	var pts []geo.LocalPoint
	var headings []float64
	for _, seg := range ordered {
		segPts, segHeadings := sampleSegment(seg, params.PhotoSpacingM)
		pts = append(pts, segPts...)
		headings = append(headings, segHeadings...)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("pattern: grid: %w", ErrNoWaypoints)
	}

	return toWaypoints(t, pts, headings, params.AltitudeM, params.SpeedMS, clampPitch(opts.GimbalPitch))
}

// DoubleGrid implements spec.md 4.4.2: Grid run at theta and theta+90,
// concatenated and re-indexed.
func DoubleGrid(polygon []geo.Coordinate, params solver.Params, opts GridOptions) ([]Waypoint, error) {
	first, err := Grid(polygon, params, opts)
	if err != nil {
		return nil, err
	}
	second, err := Grid(polygon, params, GridOptions{
		FlightAngleDeg: geo.NormalizeHeading(opts.FlightAngleDeg + 90),
		GimbalPitch:    opts.GimbalPitch,
		BufferPercent:  opts.BufferPercent,
	})
	if err != nil {
		return nil, err
	}
	return reindex(append(first, second...)), nil
}

// gridSegments generates and clips the candidate parallel lines of
// spec.md 4.4.1 steps 3-5.
func gridSegments(buffered []geo.LocalPoint, centroid geo.LocalPoint, flightAngleDeg, lineSpacing float64) []clippedSegment {
	theta := geo.Radians(flightAngleDeg)
	d := geo.LocalPoint{X: math.Sin(theta), Y: math.Cos(theta)}
	p := geo.LocalPoint{X: math.Cos(theta), Y: -math.Sin(theta)}

	box := geo.BoundingBoxOf(buffered)
	diag := box.Diagonal()
	if diag == 0 {
		diag = lineSpacing
	}

	numLines := int(math.Ceil(2*diag/lineSpacing)) + 1
	half := float64(numLines-1) / 2

	edges := openEdges(buffered)

	var out []clippedSegment
	for i := 0; i < numLines; i++ {
		offset := (float64(i) - half) * lineSpacing
		center := geo.Add(centroid, geo.Scale(p, offset))
		start := geo.Sub(center, geo.Scale(d, diag))
		end := geo.Add(center, geo.Scale(d, diag))

		if seg, ok := clipToPolygon(start, end, d, edges); ok {
			out = append(out, seg)
		}
	}
	return out
}

func openEdges(ring []geo.LocalPoint) [][2]geo.LocalPoint {
	open := ring
	if n := len(ring); n > 1 && ring[0] == ring[n-1] {
		open = ring[:n-1]
	}
	n := len(open)
	edges := make([][2]geo.LocalPoint, n)
	for i := 0; i < n; i++ {
		edges[i] = [2]geo.LocalPoint{open[i], open[(i+1)%n]}
	}
	return edges
}

// clipToPolygon collects the line's intersections with every polygon
// edge and, when there are at least two, returns the pair furthest
// apart along the line's own parametric direction d (spec.md 4.4.1 step 5).
func clipToPolygon(start, end, d geo.LocalPoint, edges [][2]geo.LocalPoint) (clippedSegment, bool) {
	var ts []float64
	var hits []geo.LocalPoint
	for _, e := range edges {
		if pt, ok := geo.SegmentIntersect(start, end, e[0], e[1]); ok {
			ts = append(ts, geo.Dot(geo.Sub(pt, start), d))
			hits = append(hits, pt)
		}
	}
	if len(hits) < 2 {
		return clippedSegment{}, false
	}
	minI, maxI := 0, 0
	for i, tv := range ts {
		if tv < ts[minI] {
			minI = i
		}
		if tv > ts[maxI] {
			maxI = i
		}
	}
	return clippedSegment{start: hits[minI], end: hits[maxI]}, true
}

// serpentine reverses every other segment so consecutive lines connect
// end-to-end (spec.md 4.4.1 steps 6-7). gridSegments already emits
// segments in ascending perpendicular-offset order, so no re-sort is
// needed here.
func serpentine(segments []clippedSegment) []clippedSegment {
	out := make([]clippedSegment, len(segments))
	copy(out, segments)
	for i := range out {
		if i%2 == 1 {
			out[i] = clippedSegment{start: out[i].end, end: out[i].start}
		}
	}
	return out
}

// sampleSegment walks a segment placing waypoints at photo_spacing
// intervals (spec.md 4.4.1 step 8).
func sampleSegment(seg clippedSegment, photoSpacing float64) ([]geo.LocalPoint, []float64) {
	length := geo.Distance(seg.start, seg.end)
	if length < photoSpacing/2 {
		return nil, nil
	}
	heading := geo.HeadingFromNorth(seg.start, seg.end)

	n := int(math.Floor(length / photoSpacing))
	if n < 1 {
		n = 1
	}
	dir := geo.Scale(geo.Sub(seg.end, seg.start), 1/length)

	pts := []geo.LocalPoint{seg.start}
	headings := []float64{heading}
	for i := 1; i <= n; i++ {
		dist := float64(i) * photoSpacing
		if dist >= length {
			break
		}
		pts = append(pts, geo.Add(seg.start, geo.Scale(dir, dist)))
		headings = append(headings, heading)
	}
	pts = append(pts, seg.end)
	headings = append(headings, heading)
	return pts, headings
}
