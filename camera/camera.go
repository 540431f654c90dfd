// Package camera holds the closed, process-wide CameraSpec registry
// (spec.md 3), keyed by drone model identifier.
//
// Grounded on the shape of the teacher's AircraftPerformance database
// (pkg/aviation/db.go: a struct registry populated once and exposed
// read-only through a package-level table) but scaled down: the
// teacher's registry is megabytes of FAA data loaded concurrently from
// a zstd-compressed embedded resource, while this one is a handful of
// camera models fully known at compile time, so a single init()
// builds an immutable map literal instead.
package camera

import "fmt"

// Spec describes a drone/camera combination's photogrammetric
// properties, immutable once the registry is built.
type Spec struct {
	Model string

	SensorWidthMM  float64
	SensorHeightMM float64
	FocalLengthMM  float64
	ImageWidthPx   int
	ImageHeightPx  int

	// MinIntervalLowResS and MinIntervalHighResS are the camera's
	// minimum photo-trigger interval, in seconds, at each resolution
	// mode (spec.md 4.3 step 5).
	MinIntervalLowResS  float64
	MinIntervalHighResS float64

	// DroneEnumValue and PayloadEnumValue are opaque integers required
	// verbatim by the consumer's WPML schema (spec.md 3, 4.6).
	DroneEnumValue   int
	PayloadEnumValue int
}

// MinInterval returns the camera's minimum photo interval for the
// requested resolution mode.
func (s Spec) MinInterval(highRes bool) float64 {
	if highRes {
		return s.MinIntervalHighResS
	}
	return s.MinIntervalLowResS
}

var registry map[string]Spec

func init() {
	registry = map[string]Spec{
		"mini_4_pro": {
			Model:               "mini_4_pro",
			SensorWidthMM:       9.7,
			SensorHeightMM:      7.28,
			FocalLengthMM:       6.79,
			ImageWidthPx:        1000,
			ImageHeightPx:       750,
			MinIntervalLowResS:  2.0,
			MinIntervalHighResS: 5.0,
			DroneEnumValue:      68,
			PayloadEnumValue:    68,
		},
		"mavic_3e": {
			Model:               "mavic_3e",
			SensorWidthMM:       17.3,
			SensorHeightMM:      13.0,
			FocalLengthMM:       12.29,
			ImageWidthPx:        5280,
			ImageHeightPx:       3956,
			MinIntervalLowResS:  0.7,
			MinIntervalHighResS: 2.0,
			DroneEnumValue:      77,
			PayloadEnumValue:    66,
		},
		"phantom_4_rtk": {
			Model:               "phantom_4_rtk",
			SensorWidthMM:       13.2,
			SensorHeightMM:      8.8,
			FocalLengthMM:       8.8,
			ImageWidthPx:        5472,
			ImageHeightPx:       3648,
			MinIntervalLowResS:  1.0,
			MinIntervalHighResS: 2.0,
			DroneEnumValue:      60,
			PayloadEnumValue:    58,
		},
	}
}

// Lookup returns the Spec registered for a drone model id. The registry
// is read-only after init, per spec.md 3 ("loaded at program start and
// is read-only thereafter").
func Lookup(model string) (Spec, error) {
	s, ok := registry[model]
	if !ok {
		return Spec{}, fmt.Errorf("camera: unknown drone model %q", model)
	}
	return s, nil
}

// Known returns the registered model ids, in map iteration order (the
// order is not defined and may differ between calls).
func Known() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	return names
}
