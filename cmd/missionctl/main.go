// missionctl is a batch entrypoint for the mission-generation engine:
// it reads a MissionRequest as JSON from a file or stdin, runs the
// orchestrator, and writes the result as JSON to stdout (and optionally
// the archive blob to a file). Grounded on the teacher's flag-based
// cmd/dat2vice and cmd/vice/main.go entrypoints, neither of which reach
// for a CLI framework despite one (urfave/cli) appearing elsewhere in
// the retrieved pack.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apenwarr/fixconsole"
	"github.com/goforj/godump"

	"github.com/geoflight/planner/archive"
	"github.com/geoflight/planner/geo"
	glog "github.com/geoflight/planner/log"
	"github.com/geoflight/planner/mission"
)

// requestDoc mirrors mission.Request as the flat JSON schema accepted
// on stdin/-request, translating the optional substructures of spec.md
// 6.1 into plain fields a caller can omit.
type requestDoc struct {
	Polygon [][2]float64 `json:"polygon"` // [lon, lat] pairs

	DroneModel     string  `json:"drone_model"`
	Pattern        string  `json:"pattern"`
	FlightAngleDeg float64 `json:"flight_angle_deg"`
	GimbalPitchDeg float64 `json:"gimbal_pitch_deg"`

	TargetGSDCm    float64 `json:"target_gsd_cm"`
	FrontOverlapPc float64 `json:"front_overlap_pct"`
	SideOverlapPc  float64 `json:"side_overlap_pct"`
	Use48MP        bool    `json:"use_48mp"`

	AltitudeOverrideM *float64 `json:"altitude_override_m,omitempty"`
	SpeedMS           *float64 `json:"speed_ms,omitempty"`
	PhotoIntervalS    *float64 `json:"photo_interval_s,omitempty"`

	BufferPercent float64 `json:"buffer_percent,omitempty"`

	Corridor *struct {
		NumLines int `json:"num_lines"`
	} `json:"corridor,omitempty"`

	Orbit *struct {
		Center        *[2]float64 `json:"center,omitempty"`
		RadiusM       *float64    `json:"radius_m,omitempty"`
		NumOrbits     int         `json:"num_orbits"`
		AltitudeStepM float64     `json:"altitude_step_m"`
		PhotosPerOrbit int        `json:"photos_per_orbit"`
	} `json:"orbit,omitempty"`

	FinishAction     string  `json:"finish_action"`
	TakeoffAltitudeM float64 `json:"takeoff_altitude_m"`

	Simplify *struct {
		Enabled             bool     `json:"enabled"`
		AngleThresholdDeg   float64  `json:"angle_threshold_deg"`
		MaxTimeBetweenS     *float64 `json:"max_time_between_s,omitempty"`
		MaxDistanceBetweenM *float64 `json:"max_distance_between_m,omitempty"`
	} `json:"simplify,omitempty"`
}

// responseDoc mirrors mission.Response (spec.md 6.2).
type responseDoc struct {
	Success      bool                  `json:"success"`
	Message      string                `json:"message,omitempty"`
	Params       any                   `json:"flight_params,omitempty"`
	Waypoints    []mission.Waypoint    `json:"waypoints,omitempty"`
	Warnings     []string              `json:"warnings,omitempty"`
	Simplify     *mission.SimplificationStats `json:"simplification_stats,omitempty"`
}

func (d requestDoc) toRequest() mission.Request {
	polygon := make([]geo.Coordinate, len(d.Polygon))
	for i, p := range d.Polygon {
		polygon[i] = geo.Coordinate{Lon: p[0], Lat: p[1]}
	}

	req := mission.Request{
		Polygon:           polygon,
		DroneModel:        d.DroneModel,
		Pattern:           mission.PatternKind(d.Pattern),
		FlightAngleDeg:    d.FlightAngleDeg,
		GimbalPitch:       d.GimbalPitchDeg,
		TargetGSDCm:       d.TargetGSDCm,
		FrontOverlapPc:    d.FrontOverlapPc,
		SideOverlapPc:     d.SideOverlapPc,
		HighRes:           d.Use48MP,
		AltitudeOverrideM: d.AltitudeOverrideM,
		SpeedOverrideMS:   d.SpeedMS,
		IntervalOverideS:  d.PhotoIntervalS,
		BufferPercent:     d.BufferPercent,
		FinishAction:      archive.FinishAction(d.FinishAction),
		TakeoffAltitudeM:  d.TakeoffAltitudeM,
	}
	if req.TakeoffAltitudeM == 0 {
		req.TakeoffAltitudeM = 30
	}
	if req.FinishAction == "" {
		req.FinishAction = archive.FinishGoHome
	}

	if d.Corridor != nil {
		req.NumLines = d.Corridor.NumLines
	}
	if d.Orbit != nil {
		req.NumOrbits = d.Orbit.NumOrbits
		req.AltitudeStepM = d.Orbit.AltitudeStepM
		req.PhotosPerOrbit = d.Orbit.PhotosPerOrbit
		if d.Orbit.Center != nil {
			c := geo.Coordinate{Lon: d.Orbit.Center[0], Lat: d.Orbit.Center[1]}
			req.OrbitCenter = &c
		}
		req.OrbitRadiusM = d.Orbit.RadiusM
	}
	if d.Simplify != nil {
		req.SimplifyEnabled = d.Simplify.Enabled
		req.AngleThresholdDeg = d.Simplify.AngleThresholdDeg
		req.MaxTimeBetweenS = d.Simplify.MaxTimeBetweenS
		req.MaxDistanceBetweenM = d.Simplify.MaxDistanceBetweenM
	}
	return req
}

func main() {
	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Fprintf(os.Stderr, "FixConsoleIfNeeded: %v\n", err)
	}

	requestPath := flag.String("request", "", "path to a MissionRequest JSON file (default: stdin)")
	archivePath := flag.String("archive", "", "path to write the compressed mission archive, if any")
	inspect := flag.Bool("inspect", false, "pretty-dump the computed Mission instead of emitting JSON")
	logDir := flag.String("logdir", "", "directory for rotating missionctl logs")
	logLevel := flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	flag.Parse()

	l := glog.New(true, *logLevel, *logDir)

	raw, err := readRequest(*requestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "missionctl: %v\n", err)
		os.Exit(1)
	}

	var doc requestDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "missionctl: parsing request: %v\n", err)
		os.Exit(1)
	}

	req := doc.toRequest()
	resp, err := mission.Orchestrate(req, time.Now().UnixMilli(), l)
	if err != nil {
		printFailure(err)
		os.Exit(1)
	}

	if *inspect {
		godump.Dump(resp.Mission)
		return
	}

	if *archivePath != "" && len(resp.Archive) > 0 {
		if err := os.WriteFile(*archivePath, resp.Archive, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "missionctl: writing archive: %v\n", err)
			os.Exit(1)
		}
	}

	out := responseDoc{
		Success:   true,
		Params:    resp.Mission.Params,
		Waypoints: resp.Mission.Waypoints,
		Warnings:  resp.Mission.Warnings,
		Simplify:  resp.Mission.Simplify,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "missionctl: encoding response: %v\n", err)
		os.Exit(1)
	}
}

func readRequest(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printFailure(err error) {
	out := responseDoc{Success: false, Message: err.Error()}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
