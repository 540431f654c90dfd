// Package simplify implements the waypoint-simplification algorithm of
// spec.md 4.5: it reduces a long serpentine sequence to a bounded
// waypoint count by keeping only angular critical points, plus whatever
// intermediate points a max-time/max-distance constraint requires to
// keep the consumer's timer-mode photo triggering within tolerance.
//
// Grounded on the teacher's pkg/aviation route-simplification style
// (building an index set, then re-walking the original sequence to
// materialise it) rather than mutating the waypoint slice in place.
package simplify

import (
	"sort"

	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/pattern"
)

// DefaultSpeedMS is used to turn a max-time constraint into a distance
// when the waypoint carries no positive speed. Options has no speed
// field of its own.
const DefaultSpeedMS = 5.0

// Options configures Simplify, spec.md 6.1's `simplify` substructure.
type Options struct {
	Enabled bool

	// AngleThresholdDeg is the minimum heading delta (spec.md 4.5 step 2)
	// that marks a waypoint as a critical turning point.
	AngleThresholdDeg float64

	// MaxTimeBetweenS and MaxDistanceBetweenM bound how far a consumer
	// flying on a timer may travel between kept waypoints (spec.md 4.5
	// step 3). When both are set, time takes precedence (spec.md 4.5
	// "Edge semantics").
	MaxTimeBetweenS     *float64
	MaxDistanceBetweenM *float64
}

// Stats reports the effect of simplification (spec.md 3).
type Stats struct {
	OriginalCount   int
	SimplifiedCount int
	ReductionPct    float64
	Enabled         bool
}

// Simplify implements spec.md 4.5. It never removes index 0 or N-1, the
// output is always sequential 0..M-1, and running it again on its own
// output with the same options is a no-op (every surviving waypoint is
// already critical, and no distance gap can newly exceed the same
// threshold since no waypoints were removed in between).
func Simplify(wps []pattern.Waypoint, opts Options) ([]pattern.Waypoint, Stats) {
	n := len(wps)
	stats := Stats{OriginalCount: n, SimplifiedCount: n, Enabled: opts.Enabled}

	if !opts.Enabled || n <= 2 {
		return wps, stats
	}

	critical := map[int]bool{0: true, n - 1: true}
	for i := 1; i < n; i++ {
		delta := geo.HeadingDifference(wps[i].HeadingDeg, wps[i-1].HeadingDeg)
		if delta >= opts.AngleThresholdDeg {
			critical[i-1] = true
			critical[i] = true
		}
	}

	if opts.MaxTimeBetweenS != nil || opts.MaxDistanceBetweenM != nil {
		insertIntermediates(wps, critical, opts)
	}

	indices := make([]int, 0, len(critical))
	for i := range critical {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]pattern.Waypoint, len(indices))
	for m, i := range indices {
		wp := wps[i]
		wp.Index = m
		out[m] = wp
	}

	stats.SimplifiedCount = len(out)
	if n > 0 {
		stats.ReductionPct = geo.Round(100*(1-float64(len(out))/float64(n)), 1)
	}
	return out, stats
}

// insertIntermediates walks each pair of adjacent critical indices and,
// per spec.md 4.5 step 3, adds back the first dropped waypoint whose
// haversine distance from the last *kept* waypoint reaches max_dist,
// then resumes measuring from that newly-kept waypoint.
func insertIntermediates(wps []pattern.Waypoint, critical map[int]bool, opts Options) {
	sorted := make([]int, 0, len(critical))
	for i := range critical {
		sorted = append(sorted, i)
	}
	sort.Ints(sorted)

	for p := 0; p+1 < len(sorted); p++ {
		lo, hi := sorted[p], sorted[p+1]
		if hi-lo < 2 {
			continue
		}
		lastKept := lo
		for i := lo + 1; i < hi; i++ {
			maxDist := maxDistanceFor(wps[i], opts)
			d := geo.HaversineMeters(
				geo.Coordinate{Lon: wps[lastKept].Lon, Lat: wps[lastKept].Lat},
				geo.Coordinate{Lon: wps[i].Lon, Lat: wps[i].Lat},
			)
			if d >= maxDist {
				critical[i] = true
				lastKept = i
			}
		}
	}
}

// maxDistanceFor resolves the current max-distance threshold for a
// waypoint: time takes precedence over an explicit distance when both
// are set (spec.md 4.5 "Edge semantics").
func maxDistanceFor(wp pattern.Waypoint, opts Options) float64 {
	if opts.MaxTimeBetweenS != nil {
		speed := wp.SpeedMS
		if speed <= 0 {
			speed = DefaultSpeedMS
		}
		return *opts.MaxTimeBetweenS * speed
	}
	return *opts.MaxDistanceBetweenM
}
