/*
DESCRIPTION
  labeling.go implements thresholding fused with 8-connected component
  labelling. A single top-down sweep classifies each pixel against an
  adaptive local mean and assigns region labels using union-find on an
  alias vector, then a statistics pass collapses aliases and gathers
  per-region bounding boxes and masses.

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

// Package labeling provides adaptive thresholding and connected-component
// labelling of grayscale frames, the first stage of marker detection.
package labeling

import (
	"image"
	"image/color"

	"github.com/ausocean/fiducial/integral"
)

// Label identifies a connected dark region. Zero is background.
type Label uint16

// MaxLabels is the largest number of distinct regions one frame may
// produce before labelling fails.
const MaxLabels = 0xFFFF

// Region filter parameters.
const (
	// MinRegionMass is the minimum pixel count of a usable region.
	MinRegionMass = 64
	// MinBorderDist is the minimum distance, in pixels, between a usable
	// region's bounding box and any frame edge.
	MinBorderDist = 3
)

// ClipRegion is the bounding box and pixel mass of a labelled region.
// Only canonical labels carry populated clips.
type ClipRegion struct {
	Min, Max image.Point
	Mass     int
}

// Image is a labelled frame. The label grid carries a one pixel border
// of zeros so neighbour queries at the frame edge need no bounds checks;
// pixel (x,y) is stored at (x+1,y+1).
type Image struct {
	W, H int
	data []Label

	// Aliases maps each label (indexed label-1) to an equivalent label.
	// After finalise every entry is its own root's value.
	Aliases []Label

	// Clips holds bounding box and mass per label (indexed label-1),
	// populated for canonical labels only.
	Clips []ClipRegion
}

// NewImage returns a labelled image for a w by h frame with all labels
// zero.
func NewImage(w, h int) *Image {
	return &Image{
		W:    w,
		H:    h,
		data: make([]Label, (w+2)*(h+2)),
	}
}

// LabelAt returns the stored label of pixel (x,y). Coordinates one pixel
// outside the frame are valid and report background.
func (li *Image) LabelAt(x, y int) Label {
	return li.data[(y+1)*(li.W+2)+(x+1)]
}

func (li *Image) setLabel(x, y int, l Label) {
	if l != 0 {
		// Store one alias step so chains stay short during the sweep.
		l = li.Aliases[l-1]
	}
	li.data[(y+1)*(li.W+2)+(x+1)] = l
}

// Canonical resolves l to the lowest equivalent label.
func (li *Image) Canonical(l Label) Label {
	for {
		a := li.Aliases[l-1]
		if a == l {
			return a
		}
		l = a
	}
}

// alias records hi as an alias of lo, operating on the canonical
// representatives of both.
func (li *Image) alias(lo, hi Label) {
	hi = li.Canonical(hi)
	lo = li.Canonical(lo)
	li.Aliases[hi-1] = lo
}

// labelDark assigns a label to a dark pixel at (x,y) from its already
// swept neighbours, in priority order N, NE (with W/NW merge), NW, W,
// else a fresh label.
func (li *Image) labelDark(x, y int) {
	if l := li.LabelAt(x, y-1); l > 0 { // N
		li.setLabel(x, y, l)
		return
	}

	if ne := li.LabelAt(x+1, y-1); ne > 0 {
		w := li.LabelAt(x-1, y)
		nw := li.LabelAt(x-1, y-1)

		if w > 0 || nw > 0 {
			// Regions meet at this pixel; merge the higher label
			// into the lower.
			l1 := li.Aliases[ne-1]
			var l2 Label
			if nw > 0 {
				l2 = li.Aliases[nw-1]
			} else {
				l2 = li.Aliases[w-1]
			}

			lo, hi := l1, l2
			if hi < lo {
				lo, hi = hi, lo
			}
			li.setLabel(x, y, lo)
			li.alias(lo, hi)
		} else {
			li.setLabel(x, y, ne)
		}
		return
	}

	if l := li.LabelAt(x-1, y-1); l > 0 { // NW
		li.setLabel(x, y, l)
		return
	}

	if l := li.LabelAt(x-1, y); l > 0 { // W
		li.setLabel(x, y, l)
		return
	}

	if len(li.Aliases) == MaxLabels {
		panic("labeling: label count exceeds MaxLabels")
	}
	l := Label(len(li.Aliases) + 1)
	li.Aliases = append(li.Aliases, l)
	li.setLabel(x, y, l)
}

// finalise collapses every alias chain to its root and gathers clip
// statistics keyed by canonical label.
func (li *Image) finalise() {
	for i := 1; i <= len(li.Aliases); i++ {
		li.Aliases[i-1] = li.Canonical(Label(i))
	}

	li.Clips = make([]ClipRegion, len(li.Aliases))
	for i := range li.Clips {
		li.Clips[i].Min = image.Pt(0xFFFF, 0xFFFF)
	}

	for y := 0; y < li.H; y++ {
		for x := 0; x < li.W; x++ {
			l := li.LabelAt(x, y)
			if l == 0 {
				continue
			}
			c := &li.Clips[li.Aliases[l-1]-1]
			c.Mass++
			if x < c.Min.X {
				c.Min.X = x
			}
			if y < c.Min.Y {
				c.Min.Y = y
			}
			if x > c.Max.X {
				c.Max.X = x
			}
			if y > c.Max.Y {
				c.Max.Y = y
			}
		}
	}
}

// Usable reports whether region l is worth tracing; it must have at
// least MinRegionMass pixels and keep MinBorderDist clear of every frame
// edge. Non-canonical labels fail the mass test since their clips are
// never populated.
func (li *Image) Usable(l Label) bool {
	c := li.Clips[l-1]
	if c.Mass < MinRegionMass {
		return false
	}
	if c.Min.X < MinBorderDist || c.Min.Y < MinBorderDist ||
		c.Max.X > li.W-MinBorderDist || c.Max.Y > li.H-MinBorderDist {
		return false
	}
	return true
}

// LabelImage thresholds frame at the fixed value t and labels the dark
// pixels. This is the historical fixed-threshold path; detection uses
// LabelAdaptive.
func LabelImage(frame *image.Gray, t uint8) *Image {
	if frame == nil {
		panic("labeling: nil frame")
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	li := NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if frame.Pix[frame.PixOffset(b.Min.X+x, b.Min.Y+y)] > t {
				li.setLabel(x, y, 0)
			} else {
				li.labelDark(x, y)
			}
		}
	}
	li.finalise()
	return li
}

// LabelAdaptive thresholds frame against a windowed local mean and
// labels the dark pixels, in one fused sweep. The integral image backing
// the windowed sums is advanced a row of windows at a time, so both it
// and the frame are walked in a cache friendly order. window must be odd;
// margin is subtracted from the local mean before comparison.
//
// If thresh is non-nil it must match the frame size and receives the
// black and white thresholded frame, for diagnostics.
func LabelAdaptive(frame *image.Gray, window, margin int, thresh *image.Gray) *Image {
	if frame == nil {
		panic("labeling: nil frame")
	}
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	ii := integral.New(frame, false)
	li := NewImage(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			win := AdaptiveWindow(w, h, window, x, y)

			// The whole row shares one advance, to the south-east
			// corner of this row's window.
			if x == 0 {
				ii.Advance(w-1, win.Max.Y-1)
			}

			if aboveLocalMean(frame, ii, win, x, y, margin) {
				li.setLabel(x, y, 0)
				if thresh != nil {
					thresh.SetGray(x, y, color.Gray{Y: 0xFF})
				}
			} else {
				li.labelDark(x, y)
				if thresh != nil {
					thresh.SetGray(x, y, color.Gray{Y: 0})
				}
			}
		}
	}

	li.finalise()
	return li
}
