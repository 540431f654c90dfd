// Package archive builds the mission archive of spec.md 4.6: two XML
// documents (wpmz/template.kml, wpmz/waylines.wpml) packed into a
// DEFLATE-compressed zip, in the strict schema the consumer flight app
// expects.
//
// XML emission is straight string templating (spec.md 9: "no general
// XML builder is required, but every emitted value must be numerically
// formatted exactly as specified"), grounded on the teacher's own
// strings.Builder-based text emission in cli.go/commands.go rather than
// encoding/xml, since the schema's magic strings and exact attribute
// ordering matter more here than general-purpose marshalling.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/klauspost/compress/flate"

	"github.com/geoflight/planner/camera"
	"github.com/geoflight/planner/pattern"
)

const (
	kmlNS  = "http://www.opengis.net/kml/2.2"
	wpmlNS = "http://www.uav.com/wpmz/1.0.2"

	author = "GeoFlight Planner"
)

// FinishAction is the consumer's end-of-mission behaviour (spec.md 6.1).
type FinishAction string

const (
	FinishGoHome         FinishAction = "goHome"
	FinishAutoLand       FinishAction = "autoLand"
	FinishNoAction       FinishAction = "noAction"
	FinishGotoFirstPoint FinishAction = "gotoFirstWaypoint"
)

func init() {
	// Register klauspost/compress's flate as the zip writer's DEFLATE
	// implementation, grounded on the teacher's own preference for
	// klauspost/compress over the standard library's compressors
	// (pkg/aviation/db.go, pkg/util/resources.go use klauspost/compress
	// zstd the same way: registered once, used implicitly thereafter).
	zip.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
}

// Build packages wps into the mandated archive layout. An empty
// waypoint list is a hard error (spec.md 4.6: "Empty waypoint list is a
// hard error for the builder").
func Build(wps []pattern.Waypoint, cam camera.Spec, finish FinishAction, nowMs int64) ([]byte, error) {
	if len(wps) == 0 {
		return nil, fmt.Errorf("archive: cannot build archive from zero waypoints")
	}

	tmpl := buildTemplateKML(wps, cam, finish, nowMs)
	wpml := buildWaylinesWPML(wps, cam)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	if err := writeEntry(zw, "wpmz/template.kml", tmpl); err != nil {
		return nil, err
	}
	if err := writeEntry(zw, "wpmz/waylines.wpml", wpml); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("archive: closing zip: %w", err)
	}
	return buf.Bytes(), nil
}

func writeEntry(zw *zip.Writer, name, content string) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("archive: creating %s: %w", name, err)
	}
	if _, err := io.WriteString(w, content); err != nil {
		return fmt.Errorf("archive: writing %s: %w", name, err)
	}
	return nil
}

func xmlHeader(b *strings.Builder) {
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(b, `<kml xmlns="%s" xmlns:wpml="%s">`+"\n", kmlNS, wpmlNS)
}

// buildTemplateKML emits the metadata-only document of spec.md 4.6.
func buildTemplateKML(wps []pattern.Waypoint, cam camera.Spec, finish FinishAction, nowMs int64) string {
	var b strings.Builder
	xmlHeader(&b)
	b.WriteString("<Document>\n")
	fmt.Fprintf(&b, "<wpml:author>%s</wpml:author>\n", author)
	fmt.Fprintf(&b, "<wpml:createTime>%d</wpml:createTime>\n", nowMs)
	fmt.Fprintf(&b, "<wpml:updateTime>%d</wpml:updateTime>\n", nowMs)

	b.WriteString("<wpml:missionConfig>\n")
	b.WriteString(`<wpml:flyToWaylineMode>safely</wpml:flyToWaylineMode>` + "\n")
	fmt.Fprintf(&b, "<wpml:finishAction>%s</wpml:finishAction>\n", finish)
	b.WriteString(`<wpml:exitOnRCLost>executeLostAction</wpml:exitOnRCLost>` + "\n")
	b.WriteString(`<wpml:executeRCLostAction>goBack</wpml:executeRCLostAction>` + "\n")
	fmt.Fprintf(&b, "<wpml:globalTransitionalSpeed>%s</wpml:globalTransitionalSpeed>\n", formatFloat(wps[0].SpeedMS))
	writeDroneInfo(&b, cam)
	b.WriteString("</wpml:missionConfig>\n")

	b.WriteString("</Document>\n")
	b.WriteString("</kml>\n")
	return b.String()
}

// buildWaylinesWPML emits the executable plan document of spec.md 4.6.
func buildWaylinesWPML(wps []pattern.Waypoint, cam camera.Spec) string {
	var b strings.Builder
	xmlHeader(&b)
	b.WriteString("<Document>\n")

	// The waylines copy of missionConfig always fixes finishAction to
	// goHome regardless of the request (spec.md 4.6, 9 open question 1:
	// "preserved verbatim because the consumer appears to read only the
	// template").
	b.WriteString("<wpml:missionConfig>\n")
	b.WriteString(`<wpml:flyToWaylineMode>safely</wpml:flyToWaylineMode>` + "\n")
	b.WriteString(`<wpml:finishAction>goHome</wpml:finishAction>` + "\n")
	b.WriteString(`<wpml:exitOnRCLost>executeLostAction</wpml:exitOnRCLost>` + "\n")
	b.WriteString(`<wpml:executeRCLostAction>goBack</wpml:executeRCLostAction>` + "\n")
	fmt.Fprintf(&b, "<wpml:globalTransitionalSpeed>%s</wpml:globalTransitionalSpeed>\n", formatFloat(wps[0].SpeedMS))
	writeDroneInfo(&b, cam)
	b.WriteString("</wpml:missionConfig>\n")

	b.WriteString("<Folder>\n")
	b.WriteString(`<wpml:templateId>0</wpml:templateId>` + "\n")
	b.WriteString(`<wpml:executeHeightMode>relativeToStartPoint</wpml:executeHeightMode>` + "\n")
	b.WriteString(`<wpml:waylineId>0</wpml:waylineId>` + "\n")
	b.WriteString(`<wpml:distance>0</wpml:distance>` + "\n")
	b.WriteString(`<wpml:duration>0</wpml:duration>` + "\n")
	fmt.Fprintf(&b, "<wpml:autoFlightSpeed>%s</wpml:autoFlightSpeed>\n", formatFloat(wps[0].SpeedMS))

	actionID := 1
	for i, wp := range wps {
		writePlacemark(&b, wps, i, wp, cam, &actionID)
	}

	b.WriteString("</Folder>\n")
	b.WriteString("</Document>\n")
	b.WriteString("</kml>\n")
	return b.String()
}

func writePlacemark(b *strings.Builder, wps []pattern.Waypoint, i int, wp pattern.Waypoint, cam camera.Spec, actionID *int) {
	n := len(wps)
	first := i == 0
	last := i == n-1

	b.WriteString("<Placemark>\n")
	b.WriteString("<Point>\n")
	fmt.Fprintf(b, "<coordinates>%s,%s</coordinates>\n", formatFloat(wp.Lon), formatFloat(wp.Lat))
	b.WriteString("</Point>\n")
	fmt.Fprintf(b, "<wpml:index>%d</wpml:index>\n", i)
	fmt.Fprintf(b, "<wpml:executeHeight>%d</wpml:executeHeight>\n", int(math.Floor(wp.AltitudeM)))
	fmt.Fprintf(b, "<wpml:waypointSpeed>%s</wpml:waypointSpeed>\n", formatFloat(wp.SpeedMS))

	headingAngleEnable := 0
	if first || last {
		headingAngleEnable = 1
	}
	b.WriteString("<wpml:waypointHeadingParam>\n")
	b.WriteString(`<wpml:waypointHeadingMode>followWayline</wpml:waypointHeadingMode>` + "\n")
	b.WriteString(`<wpml:waypointHeadingAngle>0</wpml:waypointHeadingAngle>` + "\n")
	b.WriteString(`<wpml:waypointPoiPoint>0.000000,0.000000,0.000000</wpml:waypointPoiPoint>` + "\n")
	fmt.Fprintf(b, "<wpml:waypointHeadingAngleEnable>%d</wpml:waypointHeadingAngleEnable>\n", headingAngleEnable)
	b.WriteString(`<wpml:waypointHeadingPathMode>followBadArc</wpml:waypointHeadingPathMode>` + "\n")
	b.WriteString(`<wpml:waypointHeadingPoiIndex>0</wpml:waypointHeadingPoiIndex>` + "\n")
	b.WriteString("</wpml:waypointHeadingParam>\n")

	turnMode := "toPointAndPassWithContinuityCurvature"
	if first || last {
		turnMode = "toPointAndStopWithContinuityCurvature"
	}
	b.WriteString("<wpml:waypointTurnParam>\n")
	fmt.Fprintf(b, "<wpml:waypointTurnMode>%s</wpml:waypointTurnMode>\n", turnMode)
	b.WriteString(`<wpml:waypointTurnDampingDist>0</wpml:waypointTurnDampingDist>` + "\n")
	b.WriteString("</wpml:waypointTurnParam>\n")

	b.WriteString(`<wpml:useStraightLine>0</wpml:useStraightLine>` + "\n")

	writeActionGroups(b, wps, i, cam, actionID)

	b.WriteString("<wpml:waypointGimbalHeadingParam>\n")
	b.WriteString(`<wpml:waypointGimbalPitchAngle>0</wpml:waypointGimbalPitchAngle>` + "\n")
	b.WriteString(`<wpml:waypointGimbalYawAngle>0</wpml:waypointGimbalYawAngle>` + "\n")
	b.WriteString("</wpml:waypointGimbalHeadingParam>\n")

	b.WriteString("</Placemark>\n")
}

// writeActionGroups emits the action groups of spec.md 4.6 ("critical
// -- do not add or remove"): takePhoto+gimbalRotate on the first
// waypoint, gimbalEvenlyRotate groups bridging every subsequent pair up
// to the last, and nothing at all on the last waypoint.
func writeActionGroups(b *strings.Builder, wps []pattern.Waypoint, i int, cam camera.Spec, actionID *int) {
	n := len(wps)
	if i == n-1 {
		return
	}

	if i == 0 {
		b.WriteString("<wpml:actionGroup>\n")
		fmt.Fprintf(b, "<wpml:actionGroupId>%d</wpml:actionGroupId>\n", 0)
		fmt.Fprintf(b, "<wpml:actionGroupStartIndex>%d</wpml:actionGroupStartIndex>\n", 0)
		fmt.Fprintf(b, "<wpml:actionGroupEndIndex>%d</wpml:actionGroupEndIndex>\n", 0)
		b.WriteString(`<wpml:actionGroupMode>parallel</wpml:actionGroupMode>` + "\n")
		b.WriteString("<wpml:actionTrigger>\n")
		b.WriteString(`<wpml:actionTriggerType>reachPoint</wpml:actionTriggerType>` + "\n")
		b.WriteString("</wpml:actionTrigger>\n")

		writeTakePhotoAction(b, cam, actionID)
		writeGimbalRotateAction(b, wps[0].GimbalPitch, actionID)

		b.WriteString("</wpml:actionGroup>\n")

		if n > 1 {
			writeGimbalEvenlyRotateGroup(b, 0, 1, wps[1].GimbalPitch, actionID)
		}
		return
	}

	writeGimbalEvenlyRotateGroup(b, i, i+1, wps[i+1].GimbalPitch, actionID)
}

func writeGimbalEvenlyRotateGroup(b *strings.Builder, start, end int, nextPitch float64, actionID *int) {
	b.WriteString("<wpml:actionGroup>\n")
	fmt.Fprintf(b, "<wpml:actionGroupId>%d</wpml:actionGroupId>\n", start)
	fmt.Fprintf(b, "<wpml:actionGroupStartIndex>%d</wpml:actionGroupStartIndex>\n", start)
	fmt.Fprintf(b, "<wpml:actionGroupEndIndex>%d</wpml:actionGroupEndIndex>\n", end)
	b.WriteString(`<wpml:actionGroupMode>parallel</wpml:actionGroupMode>` + "\n")
	b.WriteString("<wpml:actionTrigger>\n")
	b.WriteString(`<wpml:actionTriggerType>reachPoint</wpml:actionTriggerType>` + "\n")
	b.WriteString("</wpml:actionTrigger>\n")

	b.WriteString("<wpml:action>\n")
	fmt.Fprintf(b, "<wpml:actionId>%d</wpml:actionId>\n", *actionID)
	*actionID++
	b.WriteString(`<wpml:actionActuatorFunc>gimbalEvenlyRotate</wpml:actionActuatorFunc>` + "\n")
	b.WriteString("<wpml:actionActuatorFuncParam>\n")
	fmt.Fprintf(b, "<wpml:gimbalPitchRotateAngle>%d</wpml:gimbalPitchRotateAngle>\n", int(math.Floor(nextPitch)))
	b.WriteString("</wpml:actionActuatorFuncParam>\n")
	b.WriteString("</wpml:action>\n")

	b.WriteString("</wpml:actionGroup>\n")
}

func writeTakePhotoAction(b *strings.Builder, cam camera.Spec, actionID *int) {
	b.WriteString("<wpml:action>\n")
	fmt.Fprintf(b, "<wpml:actionId>%d</wpml:actionId>\n", *actionID)
	*actionID++
	b.WriteString(`<wpml:actionActuatorFunc>takePhoto</wpml:actionActuatorFunc>` + "\n")
	b.WriteString("<wpml:actionActuatorFuncParam>\n")
	fmt.Fprintf(b, "<wpml:payloadPositionIndex>%d</wpml:payloadPositionIndex>\n", 0)
	b.WriteString("</wpml:actionActuatorFuncParam>\n")
	b.WriteString("</wpml:action>\n")
}

func writeGimbalRotateAction(b *strings.Builder, pitch float64, actionID *int) {
	b.WriteString("<wpml:action>\n")
	fmt.Fprintf(b, "<wpml:actionId>%d</wpml:actionId>\n", *actionID)
	*actionID++
	b.WriteString(`<wpml:actionActuatorFunc>gimbalRotate</wpml:actionActuatorFunc>` + "\n")
	b.WriteString("<wpml:actionActuatorFuncParam>\n")
	b.WriteString(`<wpml:gimbalRotateModeEnable>1</wpml:gimbalRotateModeEnable>` + "\n")
	fmt.Fprintf(b, "<wpml:gimbalPitchRotateAngle>%d</wpml:gimbalPitchRotateAngle>\n", int(math.Floor(pitch)))
	b.WriteString(`<wpml:gimbalRollRotateEnable>1</wpml:gimbalRollRotateEnable>` + "\n")
	b.WriteString(`<wpml:gimbalRollRotateAngle>0</wpml:gimbalRollRotateAngle>` + "\n")
	b.WriteString(`<wpml:gimbalYawRotateEnable>0</wpml:gimbalYawRotateEnable>` + "\n")
	b.WriteString(`<wpml:gimbalYawRotateAngle>0</wpml:gimbalYawRotateAngle>` + "\n")
	b.WriteString("</wpml:actionActuatorFuncParam>\n")
	b.WriteString("</wpml:action>\n")
}

// writeDroneInfo emits the droneInfo block shared by both documents'
// missionConfig, including the nested payloadInfo block that carries
// the camera spec's payloadEnumValue (spec.md 3 requires both
// droneEnumValue and payloadEnumValue "verbatim in the output schema";
// spec.md 4.6 only spells out the droneInfo/droneEnumValue half, so
// payloadInfo is supplemented here following the consumer's documented
// WPML droneInfo/payloadInfo pairing).
func writeDroneInfo(b *strings.Builder, cam camera.Spec) {
	b.WriteString("<wpml:droneInfo>\n")
	fmt.Fprintf(b, "<wpml:droneEnumValue>%d</wpml:droneEnumValue>\n", cam.DroneEnumValue)
	b.WriteString(`<wpml:droneSubEnumValue>0</wpml:droneSubEnumValue>` + "\n")
	b.WriteString("<wpml:payloadInfo>\n")
	fmt.Fprintf(b, "<wpml:payloadEnumValue>%d</wpml:payloadEnumValue>\n", cam.PayloadEnumValue)
	b.WriteString(`<wpml:payloadPositionIndex>0</wpml:payloadPositionIndex>` + "\n")
	b.WriteString("</wpml:payloadInfo>\n")
	b.WriteString("</wpml:droneInfo>\n")
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6f", v)
}
