/*
DESCRIPTION
  pose.go recovers the camera-space positions of a marker's four
  vertices from their image positions, the marker's physical side
  length and the focal length, using the planar ranging method of
  Hung et al. (1985).

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

// Package pose estimates marker position, orientation and bearing in
// camera space from detected image vertices.
package pose

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/fiducial/geom"
)

// ErrDegenerate indicates vertex geometry from which no pose can be
// solved.
var ErrDegenerate = errors.New("pose: degenerate vertex geometry")

// EstimateVertices computes the camera-space positions of four coplanar
// square vertices. img holds the vertex positions relative to the
// principal point with +y up, in pixels; side is the physical side
// length of the square in metres; focal the focal length in pixels.
//
// Each vertex is the point k_i * (x_i, y_i, f) along the ray through
// its image position. Three scale ratios are solved linearly, then the
// known side length between vertices 0 and 3 fixes the absolute scale.
func EstimateVertices(img [4]geom.Point2DF, side, focal float32) ([4]geom.Point3DF, error) {
	if side <= 0 {
		panic("pose: marker side must be positive")
	}
	f := float64(focal)

	a := mat.NewDense(3, 3, []float64{
		-float64(img[0].X), float64(img[1].X), float64(img[2].X),
		-float64(img[0].Y), float64(img[1].Y), float64(img[2].Y),
		-f, f, f,
	})
	b := mat.NewVecDense(3, []float64{
		float64(img[3].X), float64(img[3].Y), f,
	})

	var ratios mat.VecDense
	if err := ratios.SolveVec(a, b); err != nil {
		return [4]geom.Point3DF{}, ErrDegenerate
	}

	// k3 from the known physical distance between vertices 0 and 3.
	k0OverK3 := ratios.AtVec(0)
	d := math.Sqrt(
		math.Pow(-k0OverK3*float64(img[0].X)-float64(img[3].X), 2) +
			math.Pow(-k0OverK3*float64(img[0].Y)-float64(img[3].Y), 2) +
			math.Pow(-k0OverK3*f-f, 2))
	if d == 0 {
		return [4]geom.Point3DF{}, ErrDegenerate
	}

	var k [4]float64
	k[3] = math.Abs(float64(side) / d)
	for i := 0; i < 3; i++ {
		k[i] = math.Abs(ratios.AtVec(i)) * k[3]
	}

	var world [4]geom.Point3DF
	for i := 0; i < 4; i++ {
		world[i] = geom.Point3DF{
			X: float32(float64(img[i].X) * k[i]),
			Y: float32(float64(img[i].Y) * k[i]),
			Z: float32(f * k[i]),
		}
	}
	return world, nil
}

// Centre returns the mean of the four world vertices.
func Centre(world [4]geom.Point3DF) geom.Point3DF {
	var c geom.Point3DF
	for _, p := range world {
		c.X += p.X
		c.Y += p.Y
		c.Z += p.Z
	}
	c.X /= 4
	c.Y /= 4
	c.Z /= 4
	return c
}

// Distance returns the straight-line distance from the camera to p.
func Distance(p geom.Point3DF) float32 {
	return float32(math.Sqrt(
		float64(p.X)*float64(p.X) +
			float64(p.Y)*float64(p.Y) +
			float64(p.Z)*float64(p.Z)))
}
