/*
DESCRIPTION
  warp.go maps the interior of a detected quad onto a canonical square
  image. A projective transform is solved from the four vertex
  correspondences, then the square is filled by sampling the source
  frame through the inverse mapping with bilinear interpolation.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package warp performs perspective unwarping of marker interiors.
package warp

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/ausocean/fiducial/geom"
)

// Unwarp errors. Both indicate a region that should be skipped, not a
// caller mistake.
var (
	ErrOutOfFrame = errors.New("warp: vertex outside frame")
	ErrDegenerate = errors.New("warp: degenerate quad")
)

// Homography is a 3x3 projective transform in row-major order with the
// bottom-right element fixed at 1.
type Homography [9]float64

// Apply maps (x, y) through the transform.
func (h *Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// Solve computes the homography taking each src[i] to dst[i]. The four
// correspondences produce an 8x8 linear system in the transform's free
// coefficients.
func Solve(src, dst [4]geom.Point2DF) (Homography, error) {
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		sx, sy := float64(src[i].X), float64(src[i].Y)
		dx, dy := float64(dst[i].X), float64(dst[i].Y)

		a.SetRow(2*i, []float64{sx, sy, 1, 0, 0, 0, -sx * dx, -sy * dx})
		a.SetRow(2*i+1, []float64{0, 0, 0, sx, sy, 1, -sx * dy, -sy * dy})
		b.SetVec(2*i, dx)
		b.SetVec(2*i+1, dy)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Homography{}, errors.Wrap(ErrDegenerate, err.Error())
	}

	var h Homography
	copy(h[:8], x.RawVector().Data)
	h[8] = 1
	return h, nil
}

// bilinear samples img at the fractional frame position (x, y),
// treating pixels outside the given clip rectangle as 0.
func bilinear(img *image.Gray, clip image.Rectangle, x, y float64) uint8 {
	px := func(ix, iy int) float64 {
		if ix < clip.Min.X || iy < clip.Min.Y || ix >= clip.Max.X || iy >= clip.Max.Y {
			return 0
		}
		return float64(img.Pix[img.PixOffset(ix, iy)])
	}

	x0, y0 := int(x), int(y)
	if x < 0 {
		x0--
	}
	if y < 0 {
		y0--
	}
	fx, fy := x-float64(x0), y-float64(y0)

	top := px(x0, y0)*(1-fx) + px(x0+1, y0)*fx
	bot := px(x0, y0+1)*(1-fx) + px(x0+1, y0+1)*fx
	v := top*(1-fy) + bot*fy

	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

// Unwarp maps the quad described by vertices (clockwise from top-left)
// onto a size-by-size square image of the marker interior sampled from
// frame. size must be a positive multiple of 10 so the result grids
// evenly. Vertices that have been refined out of the frame, or a quad
// whose bounding box has no area, reject the region.
func Unwarp(frame *image.Gray, vertices [4]geom.Point2DF, size int) (*image.Gray, error) {
	if size <= 0 || size%10 != 0 {
		panic("warp: unwarped size must be a positive multiple of 10")
	}

	fb := frame.Bounds()
	for _, v := range vertices {
		if v.X < 0 || v.Y < 0 ||
			int(v.X) >= fb.Dx() || int(v.Y) >= fb.Dy() {
			return nil, ErrOutOfFrame
		}
	}

	// Clip to the rectangle enclosing the four vertices; the transform
	// works in coordinates relative to its origin.
	minX, minY := int(vertices[0].X), int(vertices[0].Y)
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		if int(v.X) < minX {
			minX = int(v.X)
		}
		if int(v.X) > maxX {
			maxX = int(v.X)
		}
		if int(v.Y) < minY {
			minY = int(v.Y)
		}
		if int(v.Y) > maxY {
			maxY = int(v.Y)
		}
	}
	if maxX == minX || maxY == minY {
		return nil, ErrDegenerate
	}

	var src [4]geom.Point2DF
	for i, v := range vertices {
		src[i] = geom.Point2DF{X: v.X - float32(minX), Y: v.Y - float32(minY)}
	}
	dst := [4]geom.Point2DF{
		{X: 0, Y: 0},
		{X: float32(size), Y: 0},
		{X: float32(size), Y: float32(size)},
		{X: 0, Y: float32(size)},
	}

	// Solve the inverse mapping directly: canonical square back to
	// source pixels.
	h, err := Solve(dst, src)
	if err != nil {
		return nil, err
	}

	clip := image.Rect(fb.Min.X+minX, fb.Min.Y+minY, fb.Min.X+maxX+1, fb.Min.Y+maxY+1)
	out := image.NewGray(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sx, sy := h.Apply(float64(x), float64(y))
			out.Pix[y*out.Stride+x] = bilinear(frame, clip,
				float64(fb.Min.X+minX)+sx, float64(fb.Min.Y+minY)+sy)
		}
	}

	return out, nil
}
