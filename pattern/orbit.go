package pattern

import (
	"fmt"
	"math"

	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/solver"
)

// OrbitOptions configures Orbit (spec.md 4.4.4).
type OrbitOptions struct {
	GimbalPitch float64

	// NumOrbits defaults to 1 when zero.
	NumOrbits int
	// PhotosPerOrbit defaults to 24 when zero.
	PhotosPerOrbit int
	// AltitudeStepM defaults to 10 when zero.
	AltitudeStepM float64

	// CenterOverride and RadiusOverrideM let a request's optional orbit
	// substructure (spec.md 6.1) pin the circle explicitly; when nil,
	// Orbit derives both from the polygon per spec.md 4.4.4.
	CenterOverride  *geo.Coordinate
	RadiusOverrideM *float64
}

func (o OrbitOptions) numOrbits() int {
	if o.NumOrbits <= 0 {
		return 1
	}
	return o.NumOrbits
}

func (o OrbitOptions) photosPerOrbit() int {
	if o.PhotosPerOrbit <= 0 {
		return 24
	}
	return o.PhotosPerOrbit
}

func (o OrbitOptions) altitudeStep() float64 {
	if o.AltitudeStepM == 0 {
		return 10
	}
	return o.AltitudeStepM
}

// Orbit implements spec.md 4.4.4: circles the polygon's centroid at
// 1.2x the farthest vertex's distance (a 20% safety margin), stacking
// num_orbits rings that step altitude and, after the first, walk the
// gimbal towards the horizon. The result is a single flat sequence
// across all rings, not per-generator.
func Orbit(polygon []geo.Coordinate, params solver.Params, opts OrbitOptions) ([]Waypoint, error) {
	t, ring, err := localFrame(polygon)
	if err != nil {
		return nil, err
	}
	open := geo.OpenLocalRing(ring)
	center := geo.Centroid(open)
	if opts.CenterOverride != nil {
		center, err = t.ToLocal(*opts.CenterOverride)
		if err != nil {
			return nil, fmt.Errorf("pattern: projecting orbit center override: %w", err)
		}
	}

	var radius float64
	if opts.RadiusOverrideM != nil {
		radius = *opts.RadiusOverrideM
	} else {
		maxDist := 0.0
		for _, v := range open {
			if d := geo.Distance(center, v); d > maxDist {
				maxDist = d
			}
		}
		radius = 1.2 * maxDist
	}

	rings := opts.numOrbits()
	perOrbit := opts.photosPerOrbit()
	step := opts.altitudeStep()
	basePitch := clampPitch(opts.GimbalPitch)

	var pts []geo.LocalPoint
	var headings []float64
	var altitudes []float64
	var pitches []float64

	for r := 0; r < rings; r++ {
		altitude := params.AltitudeM + float64(r)*step
		// Ring 0 flies the caller's own pitch as configured (already
		// bounded to [-90, 0] by clampPitch above); only the rings added
		// on top of it walk towards the horizon and get the [-90, -15]
		// clamp from spec.md 4.4.4.
		pitch := basePitch
		if r > 0 {
			pitch = geo.Clamp(basePitch+float64(r)*10, -90, -15)
		}

		for i := 0; i < perOrbit; i++ {
			angleDeg := float64(i) * 360 / float64(perOrbit)
			theta := geo.Radians(angleDeg)
			p := geo.Add(center, geo.LocalPoint{
				X: radius * math.Sin(theta),
				Y: radius * math.Cos(theta),
			})
			pts = append(pts, p)
			headings = append(headings, geo.NormalizeHeading(angleDeg+180))
			altitudes = append(altitudes, altitude)
			pitches = append(pitches, pitch)
		}
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("pattern: orbit: %w", ErrNoWaypoints)
	}

	coords, err := geo.UnprojectPoints(t, pts)
	if err != nil {
		return nil, fmt.Errorf("pattern: unprojecting orbit waypoints: %w", err)
	}
	out := make([]Waypoint, len(coords))
	for i, c := range coords {
		out[i] = Waypoint{
			Index:        i,
			Lon:          c.Lon,
			Lat:          c.Lat,
			AltitudeM:    altitudes[i],
			HeadingDeg:   geo.NormalizeHeading(headings[i]),
			GimbalPitch:  pitches[i],
			SpeedMS:      params.SpeedMS,
			PhotoTrigger: true,
		}
	}
	return out, nil
}
