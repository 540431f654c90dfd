package pattern

import (
	"fmt"

	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/solver"
)

// CorridorOptions configures Corridor (spec.md 4.4.3).
type CorridorOptions struct {
	GimbalPitch float64
	// NumLines is clamped to [1, 5]; zero defaults to 1 (a single
	// centreline).
	NumLines int
}

func (o CorridorOptions) numLines() int {
	n := o.NumLines
	if n == 0 {
		n = 1
	}
	return int(geo.Clamp(float64(n), 1, 5))
}

// Corridor implements spec.md 4.4.3: the input polygon is interpreted
// as a corridor area, its centreline taken from the axis-aligned
// bounding box (not a true principal-component axis; see spec.md 9
// note 3, preserved verbatim), and num_lines parallel lines sampled
// along that axis in serpentine order.
func Corridor(polygon []geo.Coordinate, params solver.Params, opts CorridorOptions) ([]Waypoint, error) {
	t, ring, err := localFrame(polygon)
	if err != nil {
		return nil, err
	}
	open := geo.OpenLocalRing(ring)
	box := geo.BoundingBoxOf(open)
	if box.Width() < 1e-9 && box.Height() < 1e-9 {
		return nil, fmt.Errorf("pattern: corridor: %w", ErrCentrelineNotFound)
	}

	horizontal := box.Width() >= box.Height()

	var axis, perp geo.LocalPoint
	var halfWidth float64
	if horizontal {
		axis = geo.LocalPoint{X: 1, Y: 0}
		perp = geo.LocalPoint{X: 0, Y: 1}
		halfWidth = box.Height() / 2
	} else {
		axis = geo.LocalPoint{X: 0, Y: 1}
		perp = geo.LocalPoint{X: 1, Y: 0}
		halfWidth = box.Width() / 2
	}

	center := box.Center()
	extend := 2 * params.LineSpacingM
	var axisHalfLen float64
	if horizontal {
		axisHalfLen = box.Width()/2 + extend
	} else {
		axisHalfLen = box.Height()/2 + extend
	}

	n := opts.numLines()

	var lines []clippedSegment
	if n == 1 {
		start := geo.Sub(center, geo.Scale(axis, axisHalfLen))
		end := geo.Add(center, geo.Scale(axis, axisHalfLen))
		lines = append(lines, clippedSegment{start: start, end: end})
	} else {
		// n evenly-spaced offsets across [-halfWidth, halfWidth].
		step := 2 * halfWidth / float64(n-1)
		for i := 0; i < n; i++ {
			offset := -halfWidth + float64(i)*step
			c := geo.Add(center, geo.Scale(perp, offset))
			start := geo.Sub(c, geo.Scale(axis, axisHalfLen))
			end := geo.Add(c, geo.Scale(axis, axisHalfLen))
			lines = append(lines, clippedSegment{start: start, end: end})
		}
	}

	// Alternate directions for serpentine order (spec.md 4.4.3: "Alternate
	// line directions for serpentine order").
	for i := range lines {
		if i%2 == 1 {
			lines[i] = clippedSegment{start: lines[i].end, end: lines[i].start}
		}
	}

	var pts []geo.LocalPoint
	var headings []float64
	for _, line := range lines {
		segPts, segHeadings := sampleSegment(line, params.PhotoSpacingM)
		pts = append(pts, segPts...)
		headings = append(headings, segHeadings...)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("pattern: corridor: %w", ErrNoWaypoints)
	}

	return toWaypoints(t, pts, headings, params.AltitudeM, params.SpeedMS, clampPitch(opts.GimbalPitch))
}
