// Package geo implements the planner's L0/L1 layers: bidirectional
// WGS84<->local transverse-Mercator projection and the polygon/line
// primitives the pattern generators build on.
//
// Grounded on the teacher's pkg/math (core.go, geom.go, heading.go):
// same generic Clamp/Sqr helpers and the same degrees/radians/heading
// conventions, but in float64 throughout since the projection's
// round-trip tolerance (spec: 1e-4 degrees / 1cm) is tighter than the
// teacher's float32 aviation math needs.
package geo

import (
	"math"

	"golang.org/x/exp/constraints"
)

const EarthRadiusM = 6371000.0

// Sqr returns v*v.
func Sqr[V constraints.Integer | constraints.Float](v V) V { return v * v }

// Clamp restricts x to the closed range [low, high].
func Clamp[T constraints.Ordered](x, low, high T) T {
	if x < low {
		return low
	} else if x > high {
		return high
	}
	return x
}

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
func Radians(deg float64) float64 { return deg / 180 * math.Pi }

// Round rounds v to the given number of decimal places.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func Sqrt(v float64) float64 { return math.Sqrt(v) }

