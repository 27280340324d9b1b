/*
DESCRIPTION
  encode.go is the inverse of the decode path: it assembles a marker
  payload, Hamming encodes it and lays the bits out over the cell grid,
  and renders the result as a grayscale image. Used by marker generation
  tooling, the benchmark sweep and the round-trip tests.

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

package grid

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"
)

// Encode lays out the marker for raw number num as a cell grid: solid
// black border two rings deep, data cells black where the encoded
// payload carries a set bit, and the spare last cell left white.
func Encode(num uint8) *Grid {
	payload := uint32(num) | uint32(CRC12(num+1))<<8

	var blocks [5]uint8
	for j := 0; j < 5; j++ {
		blocks[j] = hammingEncode(uint8((payload >> (4 * j)) & 0xF))
	}

	g := &Grid{}

	// Everything white to start; Val is 1 for white.
	for row := range g.Cells {
		for col := range g.Cells[row] {
			g.Cells[row][col].Val = 1
		}
	}

	// Border rings.
	for row := 0; row < MarkerGridWidth; row++ {
		for col := 0; col < MarkerGridWidth; col++ {
			if row < borderWidth || row >= MarkerGridWidth-borderWidth ||
				col < borderWidth || col >= MarkerGridWidth-borderWidth {
				g.Cells[row][col].Val = 0
			}
		}
	}

	// Data cells: position p carries bit p/5 of block p%5.
	for pos := 0; pos < codeBits; pos++ {
		x := pos % CodeGridWidth
		y := pos / CodeGridWidth
		if (blocks[pos%5]>>(pos/5))&1 == 1 {
			g.Cells[borderWidth+y][borderWidth+x].Val = 0
		}
	}

	return g
}

// Image renders the grid at one pixel per cell, white for cell value 1.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, MarkerGridWidth, MarkerGridWidth))
	for row := range g.Cells {
		for col := range g.Cells[row] {
			if g.Cells[row][col].Val == 1 {
				img.SetGray(col, row, color.Gray{Y: 0xFF})
			}
		}
	}
	return img
}

// Render draws the marker for raw number num as a square grayscale
// image with the given side length in pixels, scaling the cell grid
// with nearest-neighbour sampling so cell edges stay sharp.
func Render(num uint8, side int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, side, side))
	xdraw.NearestNeighbor.Scale(out, out.Bounds(), Encode(num).Image(), image.Rect(0, 0, MarkerGridWidth, MarkerGridWidth), xdraw.Src, nil)
	return out
}
