package archive

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/geoflight/planner/camera"
	"github.com/geoflight/planner/pattern"
)

func testWaypoints(n int) []pattern.Waypoint {
	wps := make([]pattern.Waypoint, n)
	for i := range wps {
		wps[i] = pattern.Waypoint{
			Index:        i,
			Lon:          -74.0721 + float64(i)*0.0001,
			Lat:          4.7110,
			AltitudeM:    14.0,
			HeadingDeg:   0,
			GimbalPitch:  -90,
			SpeedMS:      3.74,
			PhotoTrigger: true,
		}
	}
	return wps
}

func testCamera() camera.Spec {
	return camera.Spec{DroneEnumValue: 68, PayloadEnumValue: 68}
}

// TestBuildScenarioS5 is spec.md 8 scenario S5.
func TestBuildScenarioS5(t *testing.T) {
	wps := testWaypoints(42)
	blob, err := Build(wps, testCamera(), FinishGoHome, 1700000000000)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}

	names := map[string]*zip.File{}
	for _, f := range zr.File {
		names[f.Name] = f
	}
	if _, ok := names["wpmz/template.kml"]; !ok {
		t.Error("missing wpmz/template.kml")
	}
	if _, ok := names["wpmz/waylines.wpml"]; !ok {
		t.Error("missing wpmz/waylines.wpml")
	}

	tmpl := readEntry(t, names["wpmz/template.kml"])
	for _, want := range []string{"GeoFlight Planner", "goHome", "<wpml:droneEnumValue>68</wpml:droneEnumValue>"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("template.kml missing %q", want)
		}
	}

	wpml := readEntry(t, names["wpmz/waylines.wpml"])
	if n := strings.Count(wpml, "<wpml:actionActuatorFunc>takePhoto</wpml:actionActuatorFunc>"); n != 1 {
		t.Errorf("takePhoto actions = %d, want 1", n)
	}
	if n := strings.Count(wpml, "<wpml:actionActuatorFunc>gimbalEvenlyRotate</wpml:actionActuatorFunc>"); n != len(wps)-1 {
		t.Errorf("gimbalEvenlyRotate actions = %d, want %d", n, len(wps)-1)
	}
	if n := strings.Count(wpml, "<Placemark>"); n != len(wps) {
		t.Errorf("Placemark count = %d, want %d", n, len(wps))
	}
	for i := range wps {
		want := "<wpml:index>" + strconv.Itoa(i) + "</wpml:index>"
		if !strings.Contains(wpml, want) {
			t.Errorf("waylines.wpml missing placemark index %d", i)
		}
	}
}

// waylinesDoc mirrors just enough of the waylines.wpml structure to
// count placemarks and their action groups by local element name,
// matching the teacher's db.go practice of round-tripping archive/zip
// output through encoding/xml rather than raw string scanning.
type waylinesDoc struct {
	XMLName  xml.Name `xml:"kml"`
	Document struct {
		Folder struct {
			Placemark []struct {
				Index        int `xml:"index"`
				ActionGroups []struct {
					ActionActuatorFunc []string `xml:"action>actionActuatorFunc"`
				} `xml:"actionGroup"`
			} `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

func TestBuildScenarioS5XMLStructure(t *testing.T) {
	wps := testWaypoints(42)
	blob, err := Build(wps, testCamera(), FinishGoHome, 1700000000000)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		t.Fatalf("zip.NewReader: %v", err)
	}
	var wpml string
	for _, f := range zr.File {
		if f.Name == "wpmz/waylines.wpml" {
			wpml = readEntry(t, f)
		}
	}
	if wpml == "" {
		t.Fatal("wpmz/waylines.wpml not found in archive")
	}

	var doc waylinesDoc
	if err := xml.Unmarshal([]byte(wpml), &doc); err != nil {
		t.Fatalf("xml.Unmarshal: %v", err)
	}
	if len(doc.Document.Folder.Placemark) != len(wps) {
		t.Fatalf("decoded placemark count = %d, want %d", len(doc.Document.Folder.Placemark), len(wps))
	}
	for i, pm := range doc.Document.Folder.Placemark {
		if pm.Index != i {
			t.Errorf("placemark %d decoded index = %d", i, pm.Index)
		}
	}

	var takePhotos, rotates int
	for _, pm := range doc.Document.Folder.Placemark {
		for _, g := range pm.ActionGroups {
			for _, fn := range g.ActionActuatorFunc {
				switch fn {
				case "takePhoto":
					takePhotos++
				case "gimbalEvenlyRotate":
					rotates++
				}
			}
		}
	}
	if takePhotos != 1 {
		t.Errorf("decoded takePhoto actions = %d, want 1", takePhotos)
	}
	if rotates != len(wps)-1 {
		t.Errorf("decoded gimbalEvenlyRotate actions = %d, want %d", rotates, len(wps)-1)
	}
}

func TestBuildRejectsEmptyWaypoints(t *testing.T) {
	if _, err := Build(nil, testCamera(), FinishGoHome, 0); err == nil {
		t.Error("expected error for empty waypoint list")
	}
}

func TestBuildLastWaypointHasNoActionGroup(t *testing.T) {
	wps := testWaypoints(3)
	blob, err := Build(wps, testCamera(), FinishGoHome, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	zr, _ := zip.NewReader(bytes.NewReader(blob), int64(len(blob)))
	var wpml string
	for _, f := range zr.File {
		if f.Name == "wpmz/waylines.wpml" {
			wpml = readEntry(t, f)
		}
	}
	placemarks := strings.Split(wpml, "<Placemark>")
	last := placemarks[len(placemarks)-1]
	if strings.Contains(last, "<wpml:actionGroup>") {
		t.Error("last waypoint's placemark should have no action groups")
	}
}

func readEntry(t *testing.T, f *zip.File) string {
	t.Helper()
	r, err := f.Open()
	if err != nil {
		t.Fatalf("opening %s: %v", f.Name, err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading %s: %v", f.Name, err)
	}
	return string(b)
}
