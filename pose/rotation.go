/*
DESCRIPTION
  rotation.go estimates a marker's rotation about the three camera axes
  from its centred world vertices: the plane normal gives the x and y
  rotations, then the top edge midpoint is un-rotated to expose the
  in-plane z rotation.

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

// Rotation is a marker's rotation about the camera axes, in degrees,
// each normalised to (-180, 180].
type Rotation struct {
	X, Y, Z float32
}

// EstimateRotation computes the rotation of four coplanar points whose
// mean has been translated to the origin. The returned Z rotation does
// not include the grid's discrete rotation offset; callers accumulate
// that separately.
func EstimateRotation(points [4]geom.Point3DF) Rotation {
	a := r3.Vec{X: float64(points[0].X), Y: float64(points[0].Y), Z: float64(points[0].Z)}
	b := r3.Vec{X: float64(points[1].X), Y: float64(points[1].Y), Z: float64(points[1].Z)}

	// With the centre at the origin the plane normal is just the cross
	// product of two vertex vectors.
	n := r3.Unit(r3.Cross(a, b))

	rotY := math.Atan2(n.X, n.Z)
	rotX := math.Asin(n.Y)

	rotY = math.Pi - rotY
	if rotX >= math.Pi {
		rotX -= 2 * math.Pi
	}
	if rotY >= math.Pi {
		rotY -= 2 * math.Pi
	}

	// Positive rotation about y is anticlockwise looking from the
	// origin toward +y.
	rotY = -rotY

	// Un-rotate the top edge midpoint by the x and y rotations; what
	// remains of its direction is the z rotation.
	sinX, cosX := math.Sincos(-rotX)
	sinY, cosY := math.Sincos(-rotY)

	r := [3][3]float64{
		{cosY, 0, sinY},
		{-sinX * -sinY, cosX, -sinX * cosY},
		{-sinY * cosX, sinX, cosX * cosY},
	}

	mid := r3.Vec{
		X: (a.X + b.X) / 2,
		Y: (a.Y + b.Y) / 2,
		Z: (a.Z + b.Z) / 2,
	}
	un := r3.Vec{
		X: r[0][0]*mid.X + r[0][1]*mid.Y + r[0][2]*mid.Z,
		Y: r[1][0]*mid.X + r[1][1]*mid.Y + r[1][2]*mid.Z,
		Z: r[2][0]*mid.X + r[2][1]*mid.Y + r[2][2]*mid.Z,
	}

	rotZ := math.Atan2(un.X, un.Y)

	return Rotation{
		X: float32(rotX * 180 / math.Pi),
		Y: float32(rotY * 180 / math.Pi),
		Z: float32(rotZ * 180 / math.Pi),
	}
}
