// Package mission holds the request/response data model, the
// orchestrator that sequences validate -> solve -> pattern -> simplify
// -> archive, and the sentinel error taxonomy shared by every stage.
package mission

import (
	"github.com/geoflight/planner/archive"
	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/pattern"
	"github.com/geoflight/planner/simplify"
	"github.com/geoflight/planner/solver"
)

// Waypoint is a single point of a generated flight plan (spec.md 3). The
// type lives in pattern, the layer that produces it; mission aliases it
// since every downstream stage (simplify, archive, orchestrator) needs
// the same identity.
type Waypoint = pattern.Waypoint

// SimplificationStats reports the effect of the simplifier (spec.md 3).
type SimplificationStats = simplify.Stats

// Mission is the orchestrator's atomic output (spec.md 3): a completed
// flight plan is always all-or-nothing, never surfaced partially.
type Mission struct {
	Params    solver.Params
	Waypoints []Waypoint
	Warnings  []string
	Simplify  *SimplificationStats
}

// PatternKind selects which of the four generators (spec.md 4.4) builds
// the waypoint sequence.
type PatternKind string

const (
	PatternGrid       PatternKind = "grid"
	PatternDoubleGrid PatternKind = "double_grid"
	PatternCorridor   PatternKind = "corridor"
	PatternOrbit      PatternKind = "orbit"
)

// Request is the orchestrator's input, spec.md 6.1.
type Request struct {
	Polygon []geo.Coordinate

	DroneModel string

	Pattern        PatternKind
	FlightAngleDeg float64
	GimbalPitch    float64

	TargetGSDCm    float64
	FrontOverlapPc float64
	SideOverlapPc  float64
	HighRes        bool

	AltitudeOverrideM *float64
	SpeedOverrideMS   *float64
	IntervalOverideS  *float64

	BufferPercent float64 // default 15, grid/double-grid only

	NumLines int // corridor, default clamped to [1,5]

	NumOrbits      int             // orbit, default 1
	PhotosPerOrbit int             // orbit, default 24
	AltitudeStepM  float64         // orbit, default 10
	OrbitCenter    *geo.Coordinate // orbit, optional override
	OrbitRadiusM   *float64        // orbit, optional override

	FinishAction     archive.FinishAction
	TakeoffAltitudeM float64 // defaults to 30m (spec.md 6.1)

	SimplifyEnabled     bool
	AngleThresholdDeg   float64
	MaxTimeBetweenS     *float64
	MaxDistanceBetweenM *float64
}

// Response is the orchestrator's output, spec.md 6.2.
type Response struct {
	Mission Mission
	Archive []byte
}
