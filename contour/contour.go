/*
DESCRIPTION
  contour.go implements boundary extraction for labelled regions: an
  8-connected clockwise walk starting from the most extreme pixel on the
  top row of the region's bounding box.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package contour traces the boundaries of labelled regions.
package contour

import (
	"image"
	"image/color"

	"github.com/ausocean/fiducial/geom"
	"github.com/ausocean/fiducial/labeling"
)

// Direction is one of the eight compass directions, ordered clockwise
// from north.
type Direction uint8

// Compass directions.
const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

// offsets indexed by Direction.
var offsets = [8]image.Point{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

func (d Direction) next() Direction     { return (d + 1) % 8 }
func (d Direction) opposite() Direction { return (d + 4) % 8 }

// isRegion reports whether pixel (x,y) belongs to the canonical region l.
func isRegion(li *labeling.Image, x, y int, l labeling.Label) bool {
	at := li.LabelAt(x, y)
	return at != 0 && li.Aliases[at-1] == l
}

// seed finds the most extreme labelled pixel on the top row of region
// l's clip box, scanning inward from both ends alternately so neither
// side is favoured.
func seed(li *labeling.Image, l labeling.Label) (geom.Point2DI, bool) {
	clip := li.Clips[l-1]
	width := clip.Max.X - clip.Min.X + 1
	if width%2 == 1 {
		width++
	}

	for i := 0; i < width/2; i++ {
		if x := clip.Min.X + i; isRegion(li, x, clip.Min.Y, l) {
			return geom.Point2DI{X: uint16(x), Y: uint16(clip.Min.Y)}, true
		}
		if x := clip.Max.X - i; isRegion(li, x, clip.Min.Y, l) {
			return geom.Point2DI{X: uint16(x), Y: uint16(clip.Min.Y)}, true
		}
	}
	return geom.Point2DI{}, false
}

// Find walks the boundary of region l clockwise and returns the ordered
// boundary pixels, ending back at the starting pixel. l must be a
// canonical label with a populated clip. The zero border around the
// label grid keeps the walk in bounds without explicit checks.
func Find(li *labeling.Image, l labeling.Label) []geom.Point2DI {
	first, ok := seed(li, l)
	if !ok {
		return nil
	}

	out := []geom.Point2DI{first}
	cur := first
	dir := N

	for {
		found := false
		var next geom.Point2DI
		for i := 0; i < 8; i++ {
			off := offsets[dir]
			x, y := int(cur.X)+off.X, int(cur.Y)+off.Y
			if isRegion(li, x, y, l) {
				next = geom.Point2DI{X: uint16(x), Y: uint16(y)}
				found = true
				break
			}
			dir = dir.next()
		}
		if !found {
			// Isolated pixel; the single-point contour is returned
			// as-is and rejected downstream.
			return out
		}

		out = append(out, next)
		if next == first {
			return out
		}

		cur = next

		// Bias the next search toward the inside of the boundary:
		// face back the way we came, then step one clockwise.
		dir = dir.opposite().next()
	}
}

// Draw overlays a contour on dst in magenta, for diagnostic snapshots.
func Draw(dst *image.RGBA, c []geom.Point2DI) {
	for _, p := range c {
		dst.SetRGBA(int(p.X), int(p.Y), color.RGBA{R: 0xFF, B: 0xFF, A: 0xFF})
	}
}
