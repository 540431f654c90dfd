package log

import (
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
	// Package is the pipeline stage the frame belongs to (mission, solver,
	// pattern, simplify, archive, camera, geo), or "" outside the mission
	// pipeline.
	// Lets a log sink group or filter a callstack by pipeline stage
	// without re-parsing Function on every read.
	Package string `json:"package,omitempty"`
}

// pipelineStages lists the module's own domain packages. A match needs
// the full stage name followed by ".", so no stage can match another
// stage's prefix and the order of the list does not matter.
var pipelineStages = []string{"mission", "solver", "pattern", "simplify", "archive", "camera", "geo"}

// pipelinePackage returns which pipeline stage a trimmed function name
// belongs to, or "" when it's outside the mission pipeline (stdlib,
// cmd/missionctl, log itself).
func pipelinePackage(fn string) string {
	for _, stage := range pipelineStages {
		if strings.HasPrefix(fn, stage+".") {
			return stage
		}
	}
	return ""
}

func Callstack(fr []StackFrame) []StackFrame {
	var callers [16]uintptr
	n := runtime.Callers(3, callers[:]) // skip up to the function doing the logging
	frames := runtime.CallersFrames(callers[:n])

	fr = fr[:0]
	if cap(fr) < n {
		fr = make([]StackFrame, n)
	}

	for i := 0; i < n; i++ {
		frame, more := frames.Next()
		fn := strings.TrimPrefix(frame.Function, "github.com/geoflight/planner/")
		fn = strings.TrimPrefix(fn, "main.")

		fr[i] = StackFrame{
			File:     filepath.Base(frame.File),
			Line:     frame.Line,
			Function: fn,
			Package:  pipelinePackage(fn),
		}

		if !more || frame.Function == "main.main" {
			fr = fr[:i+1]
			break
		}
	}
	return fr
}

func (f StackFrame) String() string {
	if f.Package != "" {
		return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function + " [" + f.Package + "]"
	}
	return f.File + ":" + strconv.Itoa(f.Line) + ":" + f.Function
}
