/*
DESCRIPTION
  geom.go provides the point and camera parameter types shared by the
  marker detection pipeline.

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

// Package geom provides small geometric value types and pinhole camera
// parameters used throughout the fiducial marker pipeline.
package geom

import "errors"

// Point2DI is an integer pixel position.
type Point2DI struct {
	X, Y uint16
}

// Point2DF is a sub-pixel image position.
type Point2DF struct {
	X, Y float32
}

// Point3DF is a position in camera space, in metres.
type Point3DF struct {
	X, Y, Z float32
}

// CameraParams describes a pinhole camera at a particular resolution.
// The principal point is usually the image centre, and the focal
// lengths are in pixels.
type CameraParams struct {
	FrameWidth     int
	FrameHeight    int
	PrincipalPoint Point2DF
	FocalLength    Point2DF
}

// NewCameraParams returns camera parameters for a frame of the given size
// with the principal point at the image centre.
func NewCameraParams(w, h int, fx, fy float32) CameraParams {
	return CameraParams{
		FrameWidth:     w,
		FrameHeight:    h,
		PrincipalPoint: Point2DF{X: float32(w) / 2, Y: float32(h) / 2},
		FocalLength:    Point2DF{X: fx, Y: fy},
	}
}

// Focal returns the single focal length used where one value is needed,
// the average of the X and Y focal lengths.
func (c CameraParams) Focal() float32 {
	return (c.FocalLength.X + c.FocalLength.Y) / 2
}

// Validate checks the invariants on the camera parameters; the frame size
// must be positive and the principal point must lie inside the frame.
func (c CameraParams) Validate() error {
	if c.FrameWidth <= 0 || c.FrameHeight <= 0 {
		return errors.New("frame size must be positive")
	}
	if c.PrincipalPoint.X < 0 || c.PrincipalPoint.X >= float32(c.FrameWidth) ||
		c.PrincipalPoint.Y < 0 || c.PrincipalPoint.Y >= float32(c.FrameHeight) {
		return errors.New("principal point outside frame")
	}
	return nil
}
