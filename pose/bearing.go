/*
DESCRIPTION
  bearing.go computes the angular offset of a marker's centre from the
  camera's optical axis.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pose

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/ausocean/fiducial/geom"
)

// Bearing is the deflection of a point from the optical axis, in
// degrees, with Cartesian-quadrant signs: positive Y for a point right
// of the axis, positive X for a point above it. Z is reserved.
type Bearing struct {
	X, Y, Z float32
}

// EstimateBearing computes the bearing to a camera-space point.
func EstimateBearing(p geom.Point3DF) Bearing {
	v := r3.Vec{X: float64(p.X), Y: float64(p.Y), Z: float64(p.Z)}

	y := math.Atan2(v.X, v.Z)
	x := math.Asin(v.Y / r3.Norm(v))

	return Bearing{
		X: float32(x * 180 / math.Pi),
		Y: float32(y * 180 / math.Pi),
	}
}
