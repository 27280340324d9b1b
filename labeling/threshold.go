/*
DESCRIPTION
  threshold.go provides the thresholding primitives used by the fused
  labeller and as standalone operations: windowed adaptive mean
  thresholding against an integral image, and the historical global
  threshold search.

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

package labeling

import (
	"image"
	"image/color"

	"github.com/ausocean/fiducial/integral"
)

// Global threshold search bounds.
const (
	globalThresholdLower = 60
	globalThresholdUpper = 160
)

// AdaptiveWindow returns the window of side `window` centred on (x,y),
// clipped against a w by h frame. Near an edge the window is limited to
// window/2+1 pixels on the clipped axis. window must be odd.
func AdaptiveWindow(w, h, window, x, y int) image.Rectangle {
	if window%2 != 1 {
		panic("labeling: window size must be odd")
	}

	var win image.Rectangle
	half := window / 2

	if x >= half && x < (w-1)-half {
		win.Min.X = x - half
		win.Max.X = win.Min.X + window
	} else {
		if x < half {
			win.Min.X = 0
		} else {
			win.Min.X = (w - 1) - half
		}
		win.Max.X = win.Min.X + half + 1
	}

	if y >= half && y < (h-1)-half {
		win.Min.Y = y - half
		win.Max.Y = win.Min.Y + window
	} else {
		if y < half {
			win.Min.Y = 0
		} else {
			win.Min.Y = (h - 1) - half
		}
		win.Max.Y = win.Min.Y + half + 1
	}

	return win
}

// aboveLocalMean reports whether the pixel at (x,y) sits above the mean
// of the window less margin, i.e. is classified white. The comparison is
// rearranged as (src+margin)*n > sum to avoid the division.
func aboveLocalMean(frame *image.Gray, ii *integral.Image, win image.Rectangle, x, y, margin int) bool {
	b := frame.Bounds()
	sum := ii.Sum(win)
	cmp := uint32(frame.Pix[frame.PixOffset(b.Min.X+x, b.Min.Y+y)]) + uint32(margin)
	cmp *= uint32(win.Dx() * win.Dy())
	return cmp > sum
}

// ThresholdAdaptive thresholds the whole frame against windowed local
// means, returning a new black and white image. This is the standalone
// form of the classification performed by LabelAdaptive, and is applied
// a second time to unwarped markers before gridding.
func ThresholdAdaptive(frame *image.Gray, window, margin int) *image.Gray {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()

	ii := integral.New(frame, true)
	out := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			win := AdaptiveWindow(w, h, window, x, y)
			if aboveLocalMean(frame, ii, win, x, y, margin) {
				out.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return out
}

// Threshold applies a fixed global threshold to frame, returning a new
// black and white image with white where the source exceeds t.
func Threshold(frame *image.Gray, t uint8) *image.Gray {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if frame.Pix[frame.PixOffset(b.Min.X+x, b.Min.Y+y)] > t {
				out.SetGray(x, y, color.Gray{Y: 0xFF})
			}
		}
	}
	return out
}

// classifyAndAverage splits frame at t and returns the mean grayscale
// value of each class.
func classifyAndAverage(frame *image.Gray, t uint8) (avgWhite, avgBlack int) {
	var sumWhite, sumBlack, numWhite, numBlack int

	b := frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := int(frame.Pix[frame.PixOffset(x, y)])
			if v >= int(t) {
				sumWhite += v
				numWhite++
			} else {
				sumBlack += v
				numBlack++
			}
		}
	}

	avgWhite, avgBlack = 255, 0
	if numWhite != 0 {
		avgWhite = sumWhite / numWhite
	}
	if numBlack != 0 {
		avgBlack = sumBlack / numBlack
	}
	return
}

// GlobalThreshold searches for the threshold equidistant from the mean
// white level and mean black level it induces, sweeping upward from the
// lower bound. This is the historical whole-frame threshold; detection
// uses the adaptive path, but the search remains useful for calibration
// tooling.
func GlobalThreshold(frame *image.Gray) uint8 {
	avgWhite, avgBlack := 256, 256
	t := globalThresholdLower - 1

	for t < (avgWhite+avgBlack)/2 && t < globalThresholdUpper {
		t++
		avgWhite, avgBlack = classifyAndAverage(frame, uint8(t))
	}
	return uint8(t)
}
