package log

import "testing"

func TestPipelinePackage(t *testing.T) {
	tests := []struct {
		fn   string
		want string
	}{
		{"mission.Run", "mission"},
		{"solver.Solve", "solver"},
		{"pattern.Grid", "pattern"},
		{"simplify.Simplify", "simplify"},
		{"archive.Build", "archive"},
		{"camera.Lookup", "camera"},
		{"geo.NewTransformer", "geo"},
		{"log.New", ""},
		{"missionctl.main", ""},
	}
	for _, tt := range tests {
		if got := pipelinePackage(tt.fn); got != tt.want {
			t.Errorf("pipelinePackage(%q) = %q, want %q", tt.fn, got, tt.want)
		}
	}
}

func TestCallstackTagsPipelinePackage(t *testing.T) {
	frames := Callstack(nil)
	if len(frames) == 0 {
		t.Fatal("expected at least one frame")
	}
	// Callstack skips itself and its direct caller, so frame 0 is the
	// testing package's runner that called this test. It should be
	// untagged, since pipelinePackage only recognizes the mission
	// pipeline's own domain packages.
	if frames[0].Package != "" {
		t.Errorf("frame 0 Package = %q, want \"\" (testing isn't a pipeline stage)", frames[0].Package)
	}
	if frames[0].Function == "" {
		t.Error("frame 0 Function is empty")
	}
}
