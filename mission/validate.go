package mission

import (
	"github.com/geoflight/planner/camera"
)

// Validate enforces the request-boundary rules of spec.md 6.3, producing
// a single *ValidationError (or nil) rather than running the pipeline
// against a malformed request.
func Validate(req Request) error {
	var v Validator

	v.Check(len(req.Polygon) >= 3, ErrTooFewVertices)
	for _, c := range req.Polygon {
		v.Checkf(c.Lon >= -180 && c.Lon <= 180 && c.Lat >= -90 && c.Lat <= 90,
			ErrCoordinateOutOfBounds, "(%v, %v)", c.Lon, c.Lat)
	}

	v.Check(req.TargetGSDCm > 0 && req.TargetGSDCm <= 20, ErrTargetGSDOutOfRange)
	v.Check(req.FrontOverlapPc >= 0 && req.FrontOverlapPc <= 99, ErrOverlapOutOfRange)
	v.Check(req.SideOverlapPc >= 0 && req.SideOverlapPc <= 99, ErrOverlapOutOfRange)

	if _, err := camera.Lookup(req.DroneModel); err != nil {
		v.Check(false, ErrUnknownDroneModel)
	}

	switch req.Pattern {
	case PatternGrid, PatternDoubleGrid, PatternCorridor, PatternOrbit:
	default:
		v.Check(false, ErrUnknownPattern)
	}

	return v.Err()
}
