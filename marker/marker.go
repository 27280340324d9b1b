/*
DESCRIPTION
  marker.go defines the marker record built up by the detection
  pipeline: image vertices from the quad stage, the decoded code, then
  world-space pose, rotation and bearing.

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

// Package marker detects square fiducial markers in grayscale frames
// and reports their codes and three dimensional poses.
package marker

import (
	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/pose"
	"github.com/ausocean/fiducial/quad"
)

// VertexPoint pairs a position in the image with its reconstructed
// position in camera space.
type VertexPoint struct {
	Image geom.Point2DF
	World geom.Point3DF
}

// Marker is one detected marker. Image fields are populated at
// detection, world fields once the pose has been estimated.
type Marker struct {
	// Code is the user-visible code, after translation through the
	// assignment table. RawCode is the 8-bit number as decoded from
	// the grid.
	Code    int16
	RawCode uint8

	Centre   VertexPoint
	Vertices [4]VertexPoint

	// RotationOffset is the multiple of 90 degrees the code grid was
	// rotated by to decode.
	RotationOffset float32

	Rotation pose.Rotation
	Bearing  pose.Bearing

	// Distance is the straight-line distance to the marker centre in
	// metres.
	Distance float32
}

// newMarker builds a base marker from a refined quad: image vertices,
// image centre, and the vertex order fixed up so index 0 is the
// top-left. The contour seed is the topmost boundary pixel, which for a
// tilted marker may be the top-right corner; in that case the vertex
// array is rotated one step.
func newMarker(q *quad.Quad) *Marker {
	m := &Marker{}

	var sumX, sumY float32
	for i, v := range q.Vertices {
		m.Vertices[i].Image = v
		sumX += v.X
		sumY += v.Y
	}
	m.Centre.Image = geom.Point2DF{X: sumX / 4, Y: sumY / 4}

	if m.Vertices[0].Image.Y > m.Vertices[1].Image.Y {
		tmp := m.Vertices[0].Image
		m.Vertices[0].Image = m.Vertices[1].Image
		m.Vertices[1].Image = m.Vertices[2].Image
		m.Vertices[2].Image = m.Vertices[3].Image
		m.Vertices[3].Image = tmp
	}

	return m
}

// estimatePose reconstructs the marker's world vertices, centre and
// distance from its image vertices, the physical side length and the
// camera parameters.
func (m *Marker) estimatePose(side float32, cam geom.CameraParams) error {
	// Shift to principal-point-relative coordinates with +y up.
	var img [4]geom.Point2DF
	for i, v := range m.Vertices {
		img[i] = geom.Point2DF{
			X: v.Image.X - cam.PrincipalPoint.X,
			Y: cam.PrincipalPoint.Y - v.Image.Y,
		}
	}

	world, err := pose.EstimateVertices(img, side, cam.Focal())
	if err != nil {
		return err
	}

	for i := range world {
		m.Vertices[i].World = world[i]
	}
	m.Centre.World = pose.Centre(world)
	m.Distance = pose.Distance(m.Centre.World)
	return nil
}

// estimateRotation derives the rotation about the three camera axes
// from the world vertices, folds in the grid's discrete rotation
// offset, and normalises to (-180, 180]. The z rotation is negated so
// positive means anticlockwise about +z.
func (m *Marker) estimateRotation() {
	var centred [4]geom.Point3DF
	for i, v := range m.Vertices {
		centred[i] = geom.Point3DF{
			X: v.World.X - m.Centre.World.X,
			Y: v.World.Y - m.Centre.World.Y,
			Z: v.World.Z - m.Centre.World.Z,
		}
	}

	r := pose.EstimateRotation(centred)

	m.Rotation.X += r.X
	if m.Rotation.X >= 360 {
		m.Rotation.X -= 360
	}
	m.Rotation.Y += r.Y
	if m.Rotation.Y >= 360 {
		m.Rotation.Y -= 360
	}

	m.Rotation.Z += r.Z + m.RotationOffset
	if m.Rotation.Z >= 360 {
		m.Rotation.Z -= 360
	}
	if m.Rotation.Z > 180 {
		m.Rotation.Z = -(360 - m.Rotation.Z)
	}
	m.Rotation.Z = -m.Rotation.Z
}

// estimateBearing derives the bearing from the world centre.
func (m *Marker) estimateBearing() {
	m.Bearing = pose.EstimateBearing(m.Centre.World)
}
