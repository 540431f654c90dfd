package pattern

import (
	"testing"

	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/solver"
)

// squareWGS84 builds an approximately square polygon, sideM on a side,
// centred on anchor.
func squareWGS84(t *testing.T, anchor geo.Coordinate, sideM float64) []geo.Coordinate {
	t.Helper()
	tr, err := geo.NewTransformer(anchor)
	if err != nil {
		t.Fatalf("NewTransformer: %v", err)
	}
	half := sideM / 2
	local := []geo.LocalPoint{
		{X: -half, Y: -half},
		{X: half, Y: -half},
		{X: half, Y: half},
		{X: -half, Y: half},
	}
	coords := make([]geo.Coordinate, len(local))
	for i, p := range local {
		c, err := tr.ToWGS84(p)
		if err != nil {
			t.Fatalf("ToWGS84: %v", err)
		}
		coords[i] = c
	}
	return coords
}

// TestCorridorNearSquareBBoxStaysWithinAxisExtent guards against using
// the bounding box's diagonal instead of its axis-aligned extent to
// size the centreline: for a near-square corridor the two differ by
// up to ~41%, and since Corridor never clips back to the input polygon
// the overshoot directly becomes waypoints far outside the surveyed
// area.
func TestCorridorNearSquareBBoxStaysWithinAxisExtent(t *testing.T) {
	anchor := geo.Coordinate{Lon: -74.0721, Lat: 4.7110}
	side := 100.0
	polygon := squareWGS84(t, anchor, side)

	params := solver.Params{LineSpacingM: 7, PhotoSpacingM: 4, AltitudeM: 14, SpeedMS: 3}
	wps, err := Corridor(polygon, params, CorridorOptions{GimbalPitch: -90, NumLines: 1})
	if err != nil {
		t.Fatalf("Corridor: %v", err)
	}
	if len(wps) == 0 {
		t.Fatal("expected waypoints")
	}

	// The correct axis-extent centreline reaches at most half the side
	// plus the 2x line_spacing extension from each end; the diagonal-
	// based bug would reach roughly half the diagonal instead, well
	// past this bound.
	wantMax := side/2 + 2*params.LineSpacingM
	const tolerance = 5.0

	for i, wp := range wps {
		d := geo.HaversineMeters(anchor, geo.Coordinate{Lon: wp.Lon, Lat: wp.Lat})
		if d > wantMax+tolerance {
			t.Errorf("waypoint %d is %.1fm from the corridor centre, want <= %.1fm (got bbox-diagonal overshoot?)", i, d, wantMax+tolerance)
		}
	}
}

func TestCorridorMultipleLinesAlternateDirection(t *testing.T) {
	anchor := geo.Coordinate{Lon: -74.0721, Lat: 4.7110}
	polygon := squareWGS84(t, anchor, 200)
	params := solver.Params{LineSpacingM: 10, PhotoSpacingM: 5, AltitudeM: 20, SpeedMS: 3}

	wps, err := Corridor(polygon, params, CorridorOptions{GimbalPitch: -90, NumLines: 3})
	if err != nil {
		t.Fatalf("Corridor: %v", err)
	}
	if len(wps) == 0 {
		t.Fatal("expected waypoints")
	}
	for i, wp := range wps {
		if wp.Index != i {
			t.Fatalf("waypoint %d has index %d, sequence broken", i, wp.Index)
		}
	}
}
