package solver

import (
	"testing"

	"github.com/geoflight/planner/camera"
	"github.com/geoflight/planner/geo"
)

func near(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// TestSolveScenarioS1 is scenario S1 from spec.md 8: target GSD 2.0cm,
// 75% front / 65% side overlap, low-res mode, expect altitude ~14.0m
// and footprint ~20x15m.
func TestSolveScenarioS1(t *testing.T) {
	cam := testCamera()
	p, err := Solve(Input{
		Camera:         cam,
		TargetGSDCm:    2.0,
		FrontOverlapPc: 75,
		SideOverlapPc:  65,
		HighRes:        false,
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !near(p.AltitudeM, 14.0, 0.05) {
		t.Errorf("altitude = %v, want ~14.0", p.AltitudeM)
	}
	if !near(p.FootprintWidthM, 20.0, 0.1) {
		t.Errorf("footprint width = %v, want ~20.0", p.FootprintWidthM)
	}
	if !near(p.FootprintHeightM, 15.0, 0.1) {
		t.Errorf("footprint height = %v, want ~15.0", p.FootprintHeightM)
	}
	if p.IntervalS != cam.MinIntervalLowResS {
		t.Errorf("interval = %v, want camera low-res minimum %v", p.IntervalS, cam.MinIntervalLowResS)
	}
	if p.SpeedMS != geo.Round(p.PhotoSpacingM/p.IntervalS, 2) {
		t.Errorf("speed %v inconsistent with spacing/interval", p.SpeedMS)
	}
}

func TestSolveRejectsBadGSD(t *testing.T) {
	cam := testCamera()
	for _, gsd := range []float64{0, -1, 25} {
		if _, err := Solve(Input{Camera: cam, TargetGSDCm: gsd, FrontOverlapPc: 70, SideOverlapPc: 60}); err == nil {
			t.Errorf("expected error for target GSD %v", gsd)
		}
	}
}

func TestSolveRejectsBadOverlap(t *testing.T) {
	cam := testCamera()
	if _, err := Solve(Input{Camera: cam, TargetGSDCm: 2, FrontOverlapPc: 100, SideOverlapPc: 60}); err == nil {
		t.Error("expected error for 100% front overlap")
	}
}

func TestSolveAltitudeOverride(t *testing.T) {
	cam := testCamera()
	override := 50.0
	p, err := Solve(Input{
		Camera:            cam,
		TargetGSDCm:       2.0,
		FrontOverlapPc:    75,
		SideOverlapPc:     65,
		AltitudeOverrideM: &override,
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if p.AltitudeM != 50.0 {
		t.Errorf("altitude = %v, want override 50.0", p.AltitudeM)
	}
	// effective GSD must be back-computed from the overridden altitude,
	// not equal to the requested target GSD.
	if near(p.EffectiveGSDCm, 2.0, 1e-6) {
		t.Error("effective GSD should diverge from target GSD under an altitude override")
	}
}

func TestSolveTimerModeShadowFields(t *testing.T) {
	cam := testCamera()
	speed := 3.0
	p, err := Solve(Input{
		Camera:          cam,
		TargetGSDCm:     2.0,
		FrontOverlapPc:  75,
		SideOverlapPc:   65,
		SpeedOverrideMS: &speed,
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if p.ActualSpeedMS == nil || *p.ActualSpeedMS != speed {
		t.Fatalf("ActualSpeedMS = %v, want %v", p.ActualSpeedMS, speed)
	}
	if p.ActualPhotoSpacingM == nil || p.ActualFrontOverlapPct == nil {
		t.Fatal("expected both shadow fields to be populated in timer mode")
	}
}

func TestSolveAreaEstimates(t *testing.T) {
	cam := testCamera()
	area := 1_000_000.0
	p, err := Solve(Input{
		Camera:         cam,
		TargetGSDCm:    2.0,
		FrontOverlapPc: 75,
		SideOverlapPc:  65,
		AreaM2:         &area,
	})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if p.EstimatedPhotos <= 0 {
		t.Error("expected positive estimated photo count")
	}
	if p.EstimatedTimeMin <= 0 {
		t.Error("expected positive estimated time")
	}
}

func testCamera() camera.Spec {
	return camera.Spec{
		SensorWidthMM:       9.7,
		SensorHeightMM:      7.28,
		FocalLengthMM:       6.79,
		ImageWidthPx:        1000,
		ImageHeightPx:       750,
		MinIntervalLowResS:  2.0,
		MinIntervalHighResS: 5.0,
	}
}
