// Package pattern implements the four flight-pattern generators
// (spec.md 4.4): grid, double grid, corridor, and orbit. Every generator
// shares the contract (polygon, flight params, flight angle, gimbal
// pitch) -> ordered Waypoints, operating in a local planar frame
// anchored at the polygon's centroid and converting back to WGS84 as
// the final step.
//
// Grounded on the teacher's waypoint/route generation in
// pkg/aviation/route.go, which walks a similarly-shaped ordered list of
// navigation fixes and assigns headings between consecutive points the
// same way these generators assign headings between consecutive
// waypoints.
package pattern

import (
	"errors"
	"fmt"

	"github.com/geoflight/planner/geo"
)

// ErrNoWaypoints is returned by a generator when the polygon is too
// small for the configured spacings to produce any waypoints. Per
// spec.md 7 this is an EmptyResultError, not a hard failure: the
// orchestrator turns it into an empty mission plus a warning instead of
// aborting the request.
// ErrNoWaypoints covers every way a generator can come up empty: no
// candidate line intersected the polygon, or every clipped segment was
// shorter than half a photo_spacing. Spec.md 7 lists "no lines clipped"
// under GeometryError and "zero waypoints after pattern" under
// EmptyResultError separately, but spec.md 8's own worked boundary case
// (a polygon smaller than photo_spacing x line_spacing) is exactly the
// no-lines-clipped path and is specified to produce a warning, not an
// abort -- so both collapse to this one non-fatal sentinel here.
var ErrNoWaypoints = errors.New("pattern: produced no waypoints for the given polygon and spacing")

// ErrCentrelineNotFound is a GeometryError (spec.md 7): Corridor could
// not derive an axis because the polygon's bounding box is degenerate.
var ErrCentrelineNotFound = errors.New("pattern: corridor centreline could not be derived from a degenerate bounding box")

// Waypoint is a single point of a generated flight plan (spec.md 3).
type Waypoint struct {
	Index        int
	Lon          float64
	Lat          float64
	AltitudeM    float64
	HeadingDeg   float64
	GimbalPitch  float64
	SpeedMS      float64
	PhotoTrigger bool
}

// localFrame projects a WGS84 polygon into a planar frame anchored at
// the polygon's vertex-average, which approximates its centroid closely
// enough to serve purely as a projection anchor (spec.md 4.4: "a local
// planar frame anchored at the polygon centroid").
func localFrame(polygon []geo.Coordinate) (*geo.Transformer, []geo.LocalPoint, error) {
	if len(polygon) < 3 {
		return nil, nil, fmt.Errorf("pattern: polygon needs at least 3 vertices, got %d", len(polygon))
	}
	open := geo.OpenRing(geo.CloseRing(polygon))
	var sumLon, sumLat float64
	for _, c := range open {
		sumLon += c.Lon
		sumLat += c.Lat
	}
	anchor := geo.Coordinate{Lon: sumLon / float64(len(open)), Lat: sumLat / float64(len(open))}

	t, err := geo.NewTransformer(anchor)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern: building local frame: %w", err)
	}
	pts, err := geo.ProjectRing(t, polygon)
	if err != nil {
		return nil, nil, fmt.Errorf("pattern: projecting polygon: %w", err)
	}
	return t, pts, nil
}

// toWaypoints converts local points with precomputed headings into
// WGS84 waypoints, indexed 0..N-1.
func toWaypoints(t *geo.Transformer, pts []geo.LocalPoint, headings []float64, altitude, speed, gimbalPitch float64) ([]Waypoint, error) {
	coords, err := geo.UnprojectPoints(t, pts)
	if err != nil {
		return nil, fmt.Errorf("pattern: unprojecting waypoints: %w", err)
	}
	out := make([]Waypoint, len(coords))
	for i, c := range coords {
		out[i] = Waypoint{
			Index:        i,
			Lon:          c.Lon,
			Lat:          c.Lat,
			AltitudeM:    altitude,
			HeadingDeg:   geo.NormalizeHeading(headings[i]),
			GimbalPitch:  gimbalPitch,
			SpeedMS:      speed,
			PhotoTrigger: true,
		}
	}
	return out, nil
}

// reindex renumbers a concatenated waypoint slice 0..N-1 in place,
// leaving every other attribute untouched (used by DoubleGrid).
func reindex(wps []Waypoint) []Waypoint {
	for i := range wps {
		wps[i].Index = i
	}
	return wps
}

func clampPitch(p float64) float64 {
	return geo.Clamp(p, -90, 0)
}
