// Package solver implements the photogrammetric parameter solver,
// spec.md 4.3: derives altitude, footprint, spacings, and speed/interval
// from a camera spec, target GSD, and overlap percentages.
package solver

import (
	"fmt"
	"math"

	"github.com/geoflight/planner/camera"
	"github.com/geoflight/planner/geo"
)

// Input carries the solver's request-time parameters (spec.md 4.3).
type Input struct {
	Camera camera.Spec

	TargetGSDCm    float64
	FrontOverlapPc float64
	SideOverlapPc  float64
	HighRes        bool

	AltitudeOverrideM *float64

	// Timer mode: when non-nil, IntervalOverideS replaces the
	// camera-minimum interval. SpeedOverrideMS leaves the recommended
	// SpeedMS unchanged; it fills the Actual* shadow fields and is the
	// speed used for the time estimate.
	SpeedOverrideMS  *float64
	IntervalOverideS *float64

	// AreaM2, when set, drives the photo-count/time estimates of
	// spec.md 4.3 step 8.
	AreaM2 *float64
}

// Params is the solver's immutable output (spec.md 3's FlightParams).
type Params struct {
	AltitudeM        float64
	EffectiveGSDCm   float64
	FootprintWidthM  float64
	FootprintHeightM float64
	LineSpacingM     float64
	PhotoSpacingM    float64
	SpeedMS          float64
	IntervalS        float64

	// Timer-mode shadow fields, set only when SpeedOverrideMS is given.
	ActualSpeedMS          *float64
	ActualPhotoSpacingM    *float64
	ActualFrontOverlapPct  *float64

	EstimatedPhotos int
	EstimatedTimeMin float64
}

// Solve runs the steps of spec.md 4.3 in order.
func Solve(in Input) (Params, error) {
	if in.TargetGSDCm <= 0 || in.TargetGSDCm > 20 {
		return Params{}, fmt.Errorf("solver: target GSD %v cm out of (0,20]", in.TargetGSDCm)
	}
	if in.FrontOverlapPc < 0 || in.FrontOverlapPc > 99 || in.SideOverlapPc < 0 || in.SideOverlapPc > 99 {
		return Params{}, fmt.Errorf("solver: overlaps must be in [0,99]")
	}
	c := in.Camera

	// Step 1: altitude.
	var altitude float64
	if in.AltitudeOverrideM != nil {
		altitude = *in.AltitudeOverrideM
	} else {
		altitude = (in.TargetGSDCm * c.FocalLengthMM * float64(c.ImageWidthPx)) / (c.SensorWidthMM * 100)
	}
	if altitude <= 0 {
		return Params{}, fmt.Errorf("solver: computed non-positive altitude %v", altitude)
	}

	// Step 2: effective GSD is always back-computed from the final altitude.
	effectiveGSD := (c.SensorWidthMM * altitude * 100) / (c.FocalLengthMM * float64(c.ImageWidthPx))

	// Step 3: footprint.
	footprintW := (c.SensorWidthMM / c.FocalLengthMM) * altitude
	footprintH := (c.SensorHeightMM / c.FocalLengthMM) * altitude

	// Step 4: spacings (invariant 4: rounded to 2 decimals).
	lineSpacing := geo.Round(footprintW*(1-in.SideOverlapPc/100), 2)
	photoSpacing := geo.Round(footprintH*(1-in.FrontOverlapPc/100), 2)

	// Step 5: interval.
	interval := c.MinInterval(in.HighRes)
	if in.IntervalOverideS != nil {
		interval = *in.IntervalOverideS
	}

	// Step 6: recommended speed.
	speed := photoSpacing / interval

	p := Params{
		AltitudeM:        geo.Round(altitude, 1),
		EffectiveGSDCm:   geo.Round(effectiveGSD, 3),
		FootprintWidthM:  geo.Round(footprintW, 2),
		FootprintHeightM: geo.Round(footprintH, 2),
		LineSpacingM:     lineSpacing,
		PhotoSpacingM:    photoSpacing,
		SpeedMS:          geo.Round(speed, 2),
		IntervalS:        interval,
	}

	// Step 7: timer-mode shadows.
	if in.SpeedOverrideMS != nil {
		actualSpeed := *in.SpeedOverrideMS
		actualSpacing := actualSpeed * interval
		actualOverlap := geo.Clamp(math.Round(100*(1-actualSpacing/footprintH)), 0, 99)

		p.ActualSpeedMS = ptr(geo.Round(actualSpeed, 2))
		p.ActualPhotoSpacingM = ptr(geo.Round(actualSpacing, 2))
		p.ActualFrontOverlapPct = ptr(actualOverlap)
	}

	// Step 8: estimates.
	if in.AreaM2 != nil {
		area := *in.AreaM2
		effectiveSpeed := p.SpeedMS
		if p.ActualSpeedMS != nil {
			effectiveSpeed = *p.ActualSpeedMS
		}
		p.EstimatedPhotos = int(math.Floor(1.2 * area / (photoSpacing * lineSpacing)))
		side := math.Sqrt(area)
		p.EstimatedTimeMin = geo.Round((side*side/lineSpacing*1.1)/effectiveSpeed/60, 1)
	}

	return p, nil
}

func ptr(v float64) *float64 { return &v }
