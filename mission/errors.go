package mission

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the taxonomy of spec.md 7, grounded on the
// teacher's pkg/aviation/errors.go (a flat var block of errors.New
// sentinels matched with errors.Is at call sites rather than typed
// error structs per kind).
var (
	// ValidationError-kind (spec.md 6.3): rejected before the pipeline runs.
	ErrTooFewVertices       = errors.New("mission: polygon must have at least 3 vertices")
	ErrCoordinateOutOfBounds = errors.New("mission: coordinate outside WGS84 bounds")
	ErrTargetGSDOutOfRange  = errors.New("mission: target GSD must be in (0,20] cm/px")
	ErrOverlapOutOfRange    = errors.New("mission: overlap percentages must be in [0,99]")
	ErrUnknownDroneModel    = errors.New("mission: unknown drone model")
	ErrUnknownPattern       = errors.New("mission: unknown pattern")

	// ProjectionError-kind (spec.md 4.1, 7).
	ErrProjectionFailed     = errors.New("mission: projection failed")
	ErrAntimeridianCrossing = errors.New("mission: polygon crosses the antimeridian")

	// GeometryError-kind (spec.md 7).
	ErrDegeneratePolygon      = errors.New("mission: degenerate polygon (near-zero area)")
	ErrSelfIntersectingPolygon = errors.New("mission: polygon is not simple")
	ErrNoLinesClipped        = errors.New("mission: no flight lines intersect the polygon")
	ErrCentrelineNotFound    = errors.New("mission: corridor centreline could not be derived")

	// ArchiveError-kind (spec.md 4.6, 7).
	ErrEmptyArchiveInput = errors.New("mission: cannot build archive from zero waypoints")
)

// ValidationError aggregates every request-boundary problem found by
// Validator before the pipeline runs, per spec.md 6.3 ("Violations
// produce ValidationError without running the pipeline"). Grounded on
// the teacher's pkg/util.ErrorLogger, which accumulates multiple
// problems instead of failing on the first one found.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "mission: validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error { return e.Errs }

// Validator accumulates validation problems across several checks
// before producing a single ValidationError, so a malformed request
// reports every problem at once rather than just the first.
type Validator struct {
	errs []error
}

// Check records err when cond is false.
func (v *Validator) Check(cond bool, err error) {
	if !cond {
		v.errs = append(v.errs, err)
	}
}

// Checkf records a formatted error wrapping base when cond is false.
func (v *Validator) Checkf(cond bool, base error, format string, args ...any) {
	if !cond {
		v.errs = append(v.errs, fmt.Errorf("%w: "+format, append([]any{base}, args...)...))
	}
}

// Err returns nil when no problems were recorded, else a *ValidationError.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: v.errs}
}
