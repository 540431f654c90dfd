package mission

import (
	"testing"

	"github.com/geoflight/planner/geo"
)

func s1Polygon() []geo.Coordinate {
	return []geo.Coordinate{
		{Lon: -74.0721, Lat: 4.7110},
		{Lon: -74.0711, Lat: 4.7110},
		{Lon: -74.0711, Lat: 4.7120},
		{Lon: -74.0721, Lat: 4.7120},
	}
}

func s1Request(p PatternKind) Request {
	return Request{
		Polygon:        s1Polygon(),
		DroneModel:     "mini_4_pro",
		Pattern:        p,
		FlightAngleDeg: 0,
		GimbalPitch:    -90,
		TargetGSDCm:    2.0,
		FrontOverlapPc: 75,
		SideOverlapPc:  65,
	}
}

func near(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// TestRunScenarioS1 implements spec.md 8 scenario S1.
func TestRunScenarioS1(t *testing.T) {
	m, err := Run(s1Request(PatternGrid), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !near(m.Params.AltitudeM, 14.0, 0.1) {
		t.Errorf("altitude = %v, want ~14.0", m.Params.AltitudeM)
	}
	if !near(m.Params.FootprintWidthM, 20.0, 0.2) || !near(m.Params.FootprintHeightM, 15.0, 0.2) {
		t.Errorf("footprint = %v x %v, want ~20x15", m.Params.FootprintWidthM, m.Params.FootprintHeightM)
	}
	if !near(m.Params.LineSpacingM, 6.99, 0.05) {
		t.Errorf("line spacing = %v, want ~6.99", m.Params.LineSpacingM)
	}
	if !near(m.Params.PhotoSpacingM, 3.74, 0.05) {
		t.Errorf("photo spacing = %v, want ~3.74", m.Params.PhotoSpacingM)
	}
	if len(m.Waypoints) < 40 {
		t.Errorf("waypoint count = %d, want >= 40", len(m.Waypoints))
	}
	for i, wp := range m.Waypoints {
		if wp.Index != i {
			t.Fatalf("waypoint %d has index %d, sequence broken", i, wp.Index)
		}
		if !near(wp.AltitudeM, 14.0, 0.1) {
			t.Errorf("waypoint %d altitude = %v, want ~14.0", i, wp.AltitudeM)
		}
		if wp.HeadingDeg < 0 || wp.HeadingDeg >= 360 {
			t.Errorf("waypoint %d heading %v out of [0,360)", i, wp.HeadingDeg)
		}
		if wp.GimbalPitch < -90 || wp.GimbalPitch > 0 {
			t.Errorf("waypoint %d gimbal pitch %v out of [-90,0]", i, wp.GimbalPitch)
		}
	}
	first, last := m.Waypoints[0], m.Waypoints[len(m.Waypoints)-1]
	if !near(geo.HeadingDifference(first.HeadingDeg, last.HeadingDeg), 180, 5) {
		t.Errorf("first/last headings should be roughly opposite (serpentine), got %v and %v", first.HeadingDeg, last.HeadingDeg)
	}
}

// TestRunScenarioS2 implements spec.md 8 scenario S2.
func TestRunScenarioS2(t *testing.T) {
	gridM, err := Run(s1Request(PatternGrid), nil)
	if err != nil {
		t.Fatalf("Run(grid): %v", err)
	}
	dgM, err := Run(s1Request(PatternDoubleGrid), nil)
	if err != nil {
		t.Fatalf("Run(double_grid): %v", err)
	}
	if len(dgM.Waypoints) < int(1.5*float64(len(gridM.Waypoints))) {
		t.Errorf("double_grid count %d, want >= 1.5x grid count %d", len(dgM.Waypoints), len(gridM.Waypoints))
	}
	for i, wp := range dgM.Waypoints {
		if wp.Index != i {
			t.Fatalf("double_grid waypoint %d has index %d", i, wp.Index)
		}
	}
}

// TestRunScenarioS3 implements spec.md 8 scenario S3.
func TestRunScenarioS3(t *testing.T) {
	req := s1Request(PatternOrbit)
	req.NumOrbits = 2
	req.AltitudeStepM = 10
	m, err := Run(req, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(m.Waypoints) != 48 {
		t.Fatalf("waypoint count = %d, want 48", len(m.Waypoints))
	}

	altitudes := map[float64]int{}
	for _, wp := range m.Waypoints {
		altitudes[geo.Round(wp.AltitudeM, 1)]++
	}
	if len(altitudes) != 2 {
		t.Errorf("expected exactly 2 distinct altitude groups, got %d: %v", len(altitudes), altitudes)
	}
}

func TestRunRejectsTooFewVertices(t *testing.T) {
	req := s1Request(PatternGrid)
	req.Polygon = req.Polygon[:2]
	_, err := Run(req, nil)
	var ve *ValidationError
	if err == nil {
		t.Fatal("expected ValidationError")
	}
	if !asValidationError(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
}

func asValidationError(err error, target **ValidationError) bool {
	ve, ok := err.(*ValidationError)
	if ok {
		*target = ve
	}
	return ok
}

func TestRunEmptyResultIsWarningNotFailure(t *testing.T) {
	req := s1Request(PatternGrid)
	// A tiny sliver polygon, far smaller than photo_spacing x line_spacing.
	req.Polygon = []geo.Coordinate{
		{Lon: -74.07210, Lat: 4.71100},
		{Lon: -74.07209, Lat: 4.71100},
		{Lon: -74.07209, Lat: 4.71101},
		{Lon: -74.07210, Lat: 4.71101},
	}
	m, err := Run(req, nil)
	if err != nil {
		t.Fatalf("expected no error (empty-result is a warning), got %v", err)
	}
	if len(m.Waypoints) != 0 {
		t.Errorf("expected zero waypoints, got %d", len(m.Waypoints))
	}
	if len(m.Warnings) == 0 {
		t.Error("expected a warning for the empty result")
	}
}
