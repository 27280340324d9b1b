/*
DESCRIPTION
  synth_test.go provides frame synthesis helpers for the end-to-end
  detection tests: markers are rendered into frames by supersampled
  sampling of the code grid through a projective transform, so edges
  carry realistic partial coverage.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package marker

import (
	"image"
	"math"
	"testing"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/grid"
	"github.com/ausocean/fiducial/warp"
)

// testTilt is a small in-plane rotation applied to synthesised markers
// so the top edge is never exactly horizontal; a perfectly symmetric
// square leaves the top-left/top-right distinction to floating point
// noise.
const testTilt = 0.01 // radians

// whiteFrame returns a w by h frame filled white.
func whiteFrame(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	return img
}

// uniformFrame returns a w by h frame filled with the given value.
func uniformFrame(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

// frontalCorners projects a camera-facing square marker of the given
// side centred at c onto the image, returning its corners clockwise
// from the top-left, rotated in the image plane by tilt radians.
func frontalCorners(cam geom.CameraParams, c geom.Point3DF, side float32, tilt float64) [4]geom.Point2DF {
	u0 := float64(cam.PrincipalPoint.X) + float64(c.X)*float64(cam.Focal())/float64(c.Z)
	v0 := float64(cam.PrincipalPoint.Y) - float64(c.Y)*float64(cam.Focal())/float64(c.Z)
	h := float64(cam.Focal()) * float64(side) / (2 * float64(c.Z))

	rel := [4][2]float64{{-h, -h}, {h, -h}, {h, h}, {-h, h}}
	s, co := math.Sincos(tilt)

	var out [4]geom.Point2DF
	for i, p := range rel {
		out[i] = geom.Point2DF{
			X: float32(u0 + p[0]*co - p[1]*s),
			Y: float32(v0 + p[0]*s + p[1]*co),
		}
	}
	return out
}

// renderMarker draws the marker with raw number num into frame. The
// corners are its grid corners in the image, clockwise from the
// position where the pattern's top-left lands when rot is zero; rot
// quarter-turns the pattern clockwise in the image. bleed extends the
// black border outward by that many pixels, approximating the spread
// of a printed marker's edge under the detector's thresholding.
func renderMarker(t *testing.T, frame *image.Gray, corners [4]geom.Point2DF, num uint8, rot int, bleed float64) {
	t.Helper()

	g := grid.Encode(num)

	gw := float32(grid.MarkerGridWidth)
	base := [4]geom.Point2DF{{X: 0, Y: 0}, {X: gw, Y: 0}, {X: gw, Y: gw}, {X: 0, Y: gw}}
	var dst [4]geom.Point2DF
	for i := range dst {
		dst[i] = base[(i+4-rot)%4]
	}

	h, err := warp.Solve(corners, dst)
	if err != nil {
		t.Fatalf("could not solve render transform: %v", err)
	}

	// Bleed in grid units, from the mean edge length.
	var perim float64
	for i := range corners {
		n := corners[(i+1)%4]
		perim += math.Hypot(float64(n.X-corners[i].X), float64(n.Y-corners[i].Y))
	}
	bg := bleed * float64(grid.MarkerGridWidth) / (perim / 4)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		minX = math.Min(minX, float64(c.X))
		maxX = math.Max(maxX, float64(c.X))
		minY = math.Min(minY, float64(c.Y))
		maxY = math.Max(maxY, float64(c.Y))
	}

	b := frame.Bounds()
	const ss = 4 // supersamples per axis

	for y := int(minY) - 2; y <= int(maxY)+2; y++ {
		for x := int(minX) - 2; x <= int(maxX)+2; x++ {
			if x < b.Min.X || y < b.Min.Y || x >= b.Max.X || y >= b.Max.Y {
				continue
			}

			dark := 0
			for j := 0; j < ss; j++ {
				for i := 0; i < ss; i++ {
					sx := float64(x) + (float64(i)+0.5)/ss - 0.5
					sy := float64(y) + (float64(j)+0.5)/ss - 0.5
					u, v := h.Apply(sx, sy)

					if u < -bg || v < -bg || u > float64(gw)+bg || v > float64(gw)+bg {
						continue // background
					}
					if u < 0 || v < 0 || u >= float64(gw) || v >= float64(gw) {
						dark++ // bleed ring counts as border
						continue
					}
					if g.Cells[int(v)][int(u)].Val == 0 {
						dark++
					}
				}
			}

			if dark == 0 {
				continue
			}
			v := uint8(255 - 255*dark/(ss*ss))
			if cur := frame.Pix[frame.PixOffset(x, y)]; v < cur {
				frame.Pix[frame.PixOffset(x, y)] = v
			}
		}
	}
}

// rawFor returns a raw marker number translating to the given user
// code.
func rawFor(t *testing.T, code int16) uint8 {
	t.Helper()
	for n := 0; n < 256; n++ {
		if grid.Translate(uint8(n)) == code {
			return uint8(n)
		}
	}
	t.Fatalf("no raw number for user code %d", code)
	return 0
}
