package mission

import (
	"errors"
	"fmt"

	"github.com/geoflight/planner/archive"
	"github.com/geoflight/planner/camera"
	"github.com/geoflight/planner/geo"
	"github.com/geoflight/planner/log"
	"github.com/geoflight/planner/pattern"
	"github.com/geoflight/planner/simplify"
	"github.com/geoflight/planner/solver"
)

// maxWaypointsWarning is the consumer's per-mission limit (spec.md 6.4).
const maxWaypointsWarning = 99

// legalAltitudeWarningM is the common legal altitude limit (spec.md 6.4).
const legalAltitudeWarningM = 120.0

// oversizeAreaWarningM2 flags an oversized survey area (spec.md 6.4).
const oversizeAreaWarningM2 = 500_000.0

// Run sequences validate -> solve -> pattern -> simplify (spec.md 2, 7)
// and returns the resulting Mission. log may be nil. A ValidationError,
// ProjectionError, or GeometryError aborts the request; an
// EmptyResultError instead yields a zero-waypoint Mission with a
// warning, per spec.md 7.
func Run(req Request, l *log.Logger) (Mission, error) {
	if err := Validate(req); err != nil {
		return Mission{}, err
	}

	if geo.CrossesAntimeridian(req.Polygon) {
		return Mission{}, fmt.Errorf("%w", ErrAntimeridianCrossing)
	}

	cam, err := camera.Lookup(req.DroneModel)
	if err != nil {
		l.DroneLookupFailed(req.DroneModel, err)
		return Mission{}, fmt.Errorf("%w: %v", ErrUnknownDroneModel, err)
	}

	area, simple, areaErr := polygonAreaM2(req.Polygon)
	if areaErr != nil {
		return Mission{}, areaErr
	}
	if area < 1e-6 {
		return Mission{}, fmt.Errorf("%w", ErrDegeneratePolygon)
	}
	if !simple {
		return Mission{}, fmt.Errorf("%w", ErrSelfIntersectingPolygon)
	}

	l.Solving(string(req.Pattern), req.DroneModel)
	params, err := solver.Solve(solver.Input{
		Camera:            cam,
		TargetGSDCm:       req.TargetGSDCm,
		FrontOverlapPc:    req.FrontOverlapPc,
		SideOverlapPc:     req.SideOverlapPc,
		HighRes:           req.HighRes,
		AltitudeOverrideM: req.AltitudeOverrideM,
		SpeedOverrideMS:   req.SpeedOverrideMS,
		IntervalOverideS:  req.IntervalOverideS,
		AreaM2:            &area,
	})
	if err != nil {
		return Mission{}, fmt.Errorf("mission: solving flight params: %w", err)
	}

	l.PatternGenerated(string(req.Pattern))
	wps, err := generatePattern(req, params)
	if errors.Is(err, pattern.ErrNoWaypoints) {
		l.PatternEmpty(string(req.Pattern))
		return Mission{
			Params:   params,
			Warnings: []string{"polygon too small for configured spacings; no waypoints generated"},
		}, nil
	}
	if errors.Is(err, pattern.ErrCentrelineNotFound) {
		return Mission{}, fmt.Errorf("%w", ErrCentrelineNotFound)
	}
	if err != nil {
		return Mission{}, fmt.Errorf("mission: generating %s pattern: %w", req.Pattern, err)
	}

	var stats *SimplificationStats
	if req.SimplifyEnabled {
		l.Simplifying(len(wps))
		simplified, s := simplify.Simplify(wps, simplify.Options{
			Enabled:             true,
			AngleThresholdDeg:   req.AngleThresholdDeg,
			MaxTimeBetweenS:     req.MaxTimeBetweenS,
			MaxDistanceBetweenM: req.MaxDistanceBetweenM,
		})
		wps = simplified
		stats = &s
	}

	warnings := collectWarnings(wps, params, area)
	for _, w := range warnings {
		l.Warning(w)
	}

	return Mission{
		Params:    params,
		Waypoints: wps,
		Warnings:  warnings,
		Simplify:  stats,
	}, nil
}

// BuildArchive packages a completed Mission into the archive of spec.md
// 4.6. It is a separate step from Run (spec.md 5: "the only suspension
// is the archive step"), and is a hard error when the mission carries
// no waypoints (spec.md 4.6, 7: ArchiveError).
func BuildArchive(m Mission, cam camera.Spec, finish archive.FinishAction, nowMs int64) ([]byte, error) {
	if len(m.Waypoints) == 0 {
		return nil, fmt.Errorf("%w", ErrEmptyArchiveInput)
	}
	return archive.Build(m.Waypoints, cam, finish, nowMs)
}

// Orchestrate runs Run and, when it produced waypoints, BuildArchive,
// assembling the Response of spec.md 6.2.
func Orchestrate(req Request, nowMs int64, l *log.Logger) (Response, error) {
	m, err := Run(req, l)
	if err != nil {
		return Response{}, err
	}
	if len(m.Waypoints) == 0 {
		return Response{Mission: m}, nil
	}

	cam, err := camera.Lookup(req.DroneModel)
	if err != nil {
		l.DroneLookupFailed(req.DroneModel, err)
		return Response{}, fmt.Errorf("%w: %v", ErrUnknownDroneModel, err)
	}

	l.ArchiveBuilding(len(m.Waypoints))
	blob, err := BuildArchive(m, cam, req.FinishAction, nowMs)
	if err != nil {
		return Response{}, fmt.Errorf("mission: building archive: %w", err)
	}
	return Response{Mission: m, Archive: blob}, nil
}

func generatePattern(req Request, params solver.Params) ([]pattern.Waypoint, error) {
	switch req.Pattern {
	case PatternGrid:
		return pattern.Grid(req.Polygon, params, pattern.GridOptions{
			FlightAngleDeg: req.FlightAngleDeg,
			GimbalPitch:    req.GimbalPitch,
			BufferPercent:  req.BufferPercent,
		})
	case PatternDoubleGrid:
		return pattern.DoubleGrid(req.Polygon, params, pattern.GridOptions{
			FlightAngleDeg: req.FlightAngleDeg,
			GimbalPitch:    req.GimbalPitch,
			BufferPercent:  req.BufferPercent,
		})
	case PatternCorridor:
		return pattern.Corridor(req.Polygon, params, pattern.CorridorOptions{
			GimbalPitch: req.GimbalPitch,
			NumLines:    req.NumLines,
		})
	case PatternOrbit:
		return pattern.Orbit(req.Polygon, params, pattern.OrbitOptions{
			GimbalPitch:     req.GimbalPitch,
			NumOrbits:       req.NumOrbits,
			PhotosPerOrbit:  req.PhotosPerOrbit,
			AltitudeStepM:   req.AltitudeStepM,
			CenterOverride:  req.OrbitCenter,
			RadiusOverrideM: req.OrbitRadiusM,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, req.Pattern)
	}
}

// polygonAreaM2 projects the polygon into a local frame purely to
// measure its area (spec.md 4.3 step 8 wants an area in m^2; spec.md 7
// wants a near-zero-area check) and to validate it is simple via
// earcut triangulation (spec.md 3: "the ring may or may not be
// explicitly closed... a simple (non-self-intersecting) ring"),
// independent of whichever generator ultimately reprojects it with its
// own anchor.
func polygonAreaM2(polygon []geo.Coordinate) (area float64, simple bool, err error) {
	anchor := polygon[0]
	t, err := geo.NewTransformer(anchor)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrProjectionFailed, err)
	}
	pts, err := geo.ProjectRing(t, polygon)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %v", ErrProjectionFailed, err)
	}
	return geo.Area(pts), geo.IsSimple(pts), nil
}

// collectWarnings implements the out-of-band warnings of spec.md 6.4.
func collectWarnings(wps []pattern.Waypoint, params solver.Params, areaM2 float64) []string {
	var warnings []string
	if len(wps) > maxWaypointsWarning {
		warnings = append(warnings, fmt.Sprintf("waypoint count %d exceeds the consumer's %d-waypoint limit", len(wps), maxWaypointsWarning))
	}
	if params.AltitudeM > legalAltitudeWarningM {
		warnings = append(warnings, fmt.Sprintf("altitude %.1fm exceeds the common %vm legal limit", params.AltitudeM, legalAltitudeWarningM))
	}
	if params.ActualFrontOverlapPct != nil && *params.ActualFrontOverlapPct < 50 {
		warnings = append(warnings, fmt.Sprintf("timer-mode actual front overlap %.0f%% is below 50%%", *params.ActualFrontOverlapPct))
	}
	if areaM2 > oversizeAreaWarningM2 {
		warnings = append(warnings, fmt.Sprintf("survey area %.0fm^2 exceeds the %vm^2 oversize threshold", areaM2, oversizeAreaWarningM2))
	}
	return warnings
}
