package log

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger with call-stack attributes and a nil-safe
// zero value: a nil *Logger silently discards Debug/Info and still
// delivers Warn/Error to the default slog logger.
type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// New builds a Logger that writes JSON-formatted records to a rotating
// file under dir. When dir is empty, batch runs use ./geoflight-logs and
// interactive runs use a GeoFlight folder in the user config directory.
// batch selects the rotation policy used by an unattended missionctl
// run versus an interactive one.
func New(batch bool, level string, dir string) *Logger {
	if dir == "" {
		if batch {
			dir = "geoflight-logs"
		} else {
			var err error
			dir, err = os.UserConfigDir()
			if err != nil {
				fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v", err)
				dir = "."
			}
			dir = filepath.Join(dir, "GeoFlight")
		}
	}

	var w *lumberjack.Logger
	if batch {
		w = &lumberjack.Logger{
			Filename: filepath.Join(dir, "missionctl.slog"),
			MaxSize:  64, // MB
			MaxAge:   14,
			Compress: true,
		}
	} else {
		w = &lumberjack.Logger{
			Filename:   filepath.Join(dir, "geoflight.slog"),
			MaxSize:    32, // MB
			MaxBackups: 1,
		}
	}

	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return &Logger{
		Logger:  slog.New(h),
		LogFile: w.Filename,
		Start:   time.Now(),
	}
}

func (l *Logger) Debug(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
		l.Logger.Debug(msg, args...)
	}
}

func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
		l.Logger.Info(msg, args...)
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(nil, slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
	if l == nil {
		slog.Warn(msg, args...)
	} else {
		l.Logger.Warn(msg, args...)
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	} else {
		l.Logger.Warn(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	}
}

func (l *Logger) Error(msg string, args ...any) {
	args = append([]any{slog.Any("callstack", Callstack(nil))}, args...)
	slog.Error(msg, args...)
	if l != nil {
		l.Logger.Error(msg, args...)
	}
}

func (l *Logger) Errorf(msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	if l != nil {
		l.Logger.Error(fmt.Sprintf(msg, args...), slog.Any("callstack", Callstack(nil)))
	}
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:  l.Logger.With(args...),
		LogFile: l.LogFile,
		Start:   l.Start,
	}
}

// Mission-specific events logged by the orchestrator pipeline (spec.md
// 2, 5, 7). These wrap the generic Debug/Warn calls above with named,
// typed fields instead of stringly-typed key-value pairs at each call
// site, so every pipeline stage logs the same shape every time.

// Solving logs that the parameter solver (spec.md 4.3) is about to run
// for the given pattern and drone model.
func (l *Logger) Solving(pattern, droneModel string) {
	l.Debug("mission.solve", "pattern", pattern, "drone", droneModel)
}

// PatternGenerated logs that a flight-pattern generator (spec.md 4.4)
// has been invoked for the given pattern kind.
func (l *Logger) PatternGenerated(pattern string) {
	l.Debug("mission.pattern", "pattern", pattern)
}

// PatternEmpty logs the EmptyResultError warning path (spec.md 7): the
// generator ran but produced zero waypoints.
func (l *Logger) PatternEmpty(pattern string) {
	l.Warn("mission.pattern.empty", "pattern", pattern)
}

// Simplifying logs that the waypoint simplifier (spec.md 4.5) is about
// to run against waypointsBefore waypoints.
func (l *Logger) Simplifying(waypointsBefore int) {
	l.Debug("mission.simplify", "before", waypointsBefore)
}

// ArchiveBuilding logs that the archive builder (spec.md 4.6) is about
// to package waypointCount waypoints.
func (l *Logger) ArchiveBuilding(waypointCount int) {
	l.Debug("mission.archive", "waypoints", waypointCount)
}

// Warning logs one of the out-of-band warnings collected by spec.md 6.4
// (waypoint-count limit, altitude ceiling, overlap floor, area ceiling).
func (l *Logger) Warning(detail string) {
	l.Warn("mission.warning", "detail", detail)
}

// DroneLookupFailed logs a camera.Lookup miss for the given drone model
// id (spec.md 7: ErrUnknownDroneModel), before the caller turns it into
// a returned error.
func (l *Logger) DroneLookupFailed(droneModel string, err error) {
	l.Warn("mission.drone_lookup.failed", "drone", droneModel, "error", err)
}
