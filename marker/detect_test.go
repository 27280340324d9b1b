/*
DESCRIPTION
  detect_test.go provides end-to-end testing of the detection pipeline
  on synthesised VGA frames: detection, decode, pose, rotation and
  bearing, plus the rejection scenarios.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package marker

import (
	"math"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/grid"
)

// VGA test camera, matching the reference scenarios.
const (
	testFocal = 571
	testSide  = 0.11
	// Edge bleed applied to rendered markers; see renderMarker.
	testBleed = 0.5
)

func testCam() geom.CameraParams {
	return geom.NewCameraParams(640, 480, testFocal, testFocal)
}

func TestDetectCentredMarker(t *testing.T) {
	cam := testCam()
	frame := whiteFrame(640, 480)

	corners := frontalCorners(cam, geom.Point3DF{Z: 1}, testSide, testTilt)
	renderMarker(t, frame, corners, rawFor(t, 17), 0, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkers(frame, testSide, cam)
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("got %d detections, want 1", len(markers))
	}

	m := markers[0]
	if m.Code != 17 {
		t.Errorf("code = %d, want 17", m.Code)
	}
	if math.Abs(float64(m.Centre.World.Z)-1) > 0.01 {
		t.Errorf("centre z = %v, want within 0.01 of 1", m.Centre.World.Z)
	}
	if math.Abs(float64(m.Centre.World.X)) > 0.01 || math.Abs(float64(m.Centre.World.Y)) > 0.01 {
		t.Errorf("centre x/y = %v, %v, want within 0.01 of 0", m.Centre.World.X, m.Centre.World.Y)
	}
	if math.Abs(float64(m.Rotation.X)) > 2 || math.Abs(float64(m.Rotation.Y)) > 2 {
		t.Errorf("rotation x/y = %v, %v, want within 2 degrees of 0", m.Rotation.X, m.Rotation.Y)
	}
	if math.Abs(float64(m.Distance)-1) > 0.01 {
		t.Errorf("distance = %v, want within 0.01 of 1", m.Distance)
	}
}

func TestDetectEmptyFrame(t *testing.T) {
	d := New((*logging.TestLogger)(t))

	markers, err := d.FindMarkers(uniformFrame(640, 480, 128), testSide, testCam())
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("got %d detections on a uniform frame, want 0", len(markers))
	}
}

func TestDetectRejectsBorderOverlap(t *testing.T) {
	cam := testCam()
	frame := whiteFrame(640, 480)

	// Shift the marker so it overlaps the left frame edge by about
	// 5% of its width; the region filter must reject it.
	sidePx := testFocal * testSide / 1.0
	cx := (sidePx/2 - 0.05*sidePx - float64(cam.PrincipalPoint.X)) / testFocal
	corners := frontalCorners(cam, geom.Point3DF{X: float32(cx), Z: 1}, testSide, testTilt)
	renderMarker(t, frame, corners, rawFor(t, 17), 0, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkers(frame, testSide, cam)
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("got %d detections for an out-of-frame marker, want 0", len(markers))
	}
}

func TestDetectTwoMarkers(t *testing.T) {
	cam := testCam()
	frame := whiteFrame(640, 480)

	left := frontalCorners(cam, geom.Point3DF{X: -0.25, Z: 1}, testSide, testTilt)
	renderMarker(t, frame, left, rawFor(t, 3), 0, testBleed)

	right := frontalCorners(cam, geom.Point3DF{X: 0.25, Y: 0.05, Z: 1}, testSide, testTilt)
	renderMarker(t, frame, right, rawFor(t, 42), 0, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkers(frame, testSide, cam)
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 2 {
		t.Fatalf("got %d detections, want 2", len(markers))
	}

	byCode := map[int16]*Marker{}
	for _, m := range markers {
		if _, dup := byCode[m.Code]; dup {
			t.Fatalf("code %d detected twice", m.Code)
		}
		byCode[m.Code] = m
	}
	if byCode[3] == nil || byCode[42] == nil {
		t.Fatalf("codes detected: %v, want 3 and 42", byCode)
	}

	// Bearing signs follow Cartesian quadrants: the marker to the
	// right of the optical axis has positive y bearing.
	if b := byCode[42].Bearing.Y; b <= 0 {
		t.Errorf("bearing.Y of right-hand marker = %v, want positive", b)
	}
	if b := byCode[3].Bearing.Y; b >= 0 {
		t.Errorf("bearing.Y of left-hand marker = %v, want negative", b)
	}
	if b := byCode[42].Bearing.X; b <= 0 {
		t.Errorf("bearing.X of raised marker = %v, want positive", b)
	}
}

func TestDetectRotatedMarker(t *testing.T) {
	cam := testCam()
	frame := whiteFrame(640, 480)

	corners := frontalCorners(cam, geom.Point3DF{Z: 1}, testSide, testTilt)
	renderMarker(t, frame, corners, rawFor(t, 9), 1, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkers(frame, testSide, cam)
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("got %d detections, want 1", len(markers))
	}

	m := markers[0]
	if m.Code != 9 {
		t.Errorf("code = %d, want 9", m.Code)
	}
	if m.RotationOffset != 90 {
		t.Errorf("rotation offset = %v, want 90", m.RotationOffset)
	}
	if math.Abs(math.Abs(float64(m.Rotation.Z))-90) > 5 {
		t.Errorf("rotation.Z = %v, want near +/-90", m.Rotation.Z)
	}
}

func TestDetectRejectsReservedCode(t *testing.T) {
	// Raw number 2 has no user code assigned; its CRC is valid but
	// the translation step must reject it.
	if grid.Assigned(2) {
		t.Fatal("fixture error: raw 2 should be reserved")
	}

	cam := testCam()
	frame := whiteFrame(640, 480)

	corners := frontalCorners(cam, geom.Point3DF{Z: 1}, testSide, testTilt)
	renderMarker(t, frame, corners, 2, 0, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkers(frame, testSide, cam)
	if err != nil {
		t.Fatalf("FindMarkers failed: %v", err)
	}
	if len(markers) != 0 {
		t.Errorf("got %d detections for a reserved code, want 0", len(markers))
	}
}

func TestDetectWidthFunc(t *testing.T) {
	cam := testCam()
	frame := whiteFrame(640, 480)

	corners := frontalCorners(cam, geom.Point3DF{Z: 1}, testSide, testTilt)
	renderMarker(t, frame, corners, rawFor(t, 17), 0, testBleed)

	d := New((*logging.TestLogger)(t))
	markers, err := d.FindMarkersWidthFunc(frame, func(code int16) float32 {
		if code == 17 {
			return testSide
		}
		return 1
	}, cam)
	if err != nil {
		t.Fatalf("FindMarkersWidthFunc failed: %v", err)
	}
	if len(markers) != 1 {
		t.Fatalf("got %d detections, want 1", len(markers))
	}
	if d := math.Abs(float64(markers[0].Distance) - 1); d > 0.01 {
		t.Errorf("distance off by %v with per-code width", d)
	}
}

func TestDetectInvalidCamera(t *testing.T) {
	d := New((*logging.TestLogger)(t))

	bad := geom.CameraParams{FrameWidth: 0, FrameHeight: 480}
	if _, err := d.FindMarkers(whiteFrame(64, 64), testSide, bad); err == nil {
		t.Error("FindMarkers accepted invalid camera parameters")
	}
}

func TestDetectNilFramePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FindMarkers accepted a nil frame")
		}
	}()
	d := New((*logging.TestLogger)(t))
	d.FindMarkers(nil, testSide, testCam())
}

func TestDetectBadWidthPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("FindMarkers accepted a non-positive marker width")
		}
	}()
	d := New((*logging.TestLogger)(t))
	d.FindMarkers(whiteFrame(64, 64), 0, testCam())
}
