/*
DESCRIPTION
  integral.go implements an incrementally completable integral image
  (2-D prefix sum) over a borrowed grayscale frame. The adaptive
  thresholder advances it only as far as its sliding window requires,
  so that source and accumulator stay cache resident.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package integral provides integral images over grayscale frames, with
// lazy row-by-row completion for windowed sum queries.
package integral

import "image"

// Image is an integral image over a borrowed grayscale source. Each
// completed entry holds the sum of all source pixels north-west of and
// including its position. Completion grows monotonically via Advance;
// Sum may only query rectangles inside the completed region.
type Image struct {
	src  *image.Gray
	w, h int
	data []uint32

	// cx, cy bound the completed prefix, exclusive. Every pixel with
	// x < cx and y < cy holds a valid sum.
	cx, cy int

	// colSum[x] accumulates the column sum of source pixels in
	// rows 0..cy-1 so extension costs O(new pixels).
	colSum []uint32
}

// New creates an integral image over src. If complete is true the whole
// image is materialised immediately, otherwise nothing is computed until
// Advance is called.
func New(src *image.Gray, complete bool) *Image {
	b := src.Bounds()
	ii := &Image{
		src:    src,
		w:      b.Dx(),
		h:      b.Dy(),
		colSum: make([]uint32, b.Dx()),
	}
	ii.data = make([]uint32, ii.w*ii.h)
	if complete {
		ii.Advance(ii.w-1, ii.h-1)
	}
	return ii
}

// CompletedTo returns the exclusive bounds of the completed region.
func (ii *Image) CompletedTo() (x, y int) { return ii.cx, ii.cy }

func (ii *Image) at(x, y int) uint32 { return ii.data[y*ii.w+x] }

func (ii *Image) update(x, y int) {
	b := ii.src.Bounds()
	ii.colSum[x] += uint32(ii.src.Pix[ii.src.PixOffset(b.Min.X+x, b.Min.Y+y)])
	v := ii.colSum[x]
	if x > 0 {
		v += ii.at(x-1, y)
	}
	ii.data[y*ii.w+x] = v
}

// Advance extends the completed region to include (tx, ty).
func (ii *Image) Advance(tx, ty int) {
	if tx >= ii.w || ty >= ii.h {
		panic("integral: advance target outside image")
	}

	// Advance in the x direction over the rows already complete.
	for x := ii.cx; x <= tx; x++ {
		for y := 0; y < ii.cy; y++ {
			ii.update(x, y)
		}
	}
	if tx+1 > ii.cx {
		ii.cx = tx + 1
	}

	// Now fill the new rows across the full completed width.
	for y := ii.cy; y <= ty; y++ {
		for x := 0; x < ii.cx; x++ {
			ii.update(x, y)
		}
	}
	if ty+1 > ii.cy {
		ii.cy = ty + 1
	}
}

// Sum returns the sum of the source pixels inside r, which uses the
// usual half-open image.Rectangle convention and must lie within the
// completed region.
func (ii *Image) Sum(r image.Rectangle) uint32 {
	seX, seY := r.Max.X-1, r.Max.Y-1
	if r.Min.X < 0 || r.Min.Y < 0 || seX >= ii.cx || seY >= ii.cy {
		panic("integral: sum region outside completed region")
	}

	v := ii.at(seX, seY)
	if r.Min.X > 0 && r.Min.Y > 0 {
		v += ii.at(r.Min.X-1, r.Min.Y-1)
	}
	if r.Min.X > 0 {
		v -= ii.at(r.Min.X-1, seY)
	}
	if r.Min.Y > 0 {
		v -= ii.at(seX, r.Min.Y-1)
	}
	return v
}
