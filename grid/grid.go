/*
DESCRIPTION
  grid.go converts an unwarped marker image into the 10x10 cell grid and
  recovers the marker number from it: the inner 6x6 cells are read in
  each of the four orientations, split into Hamming(7,4) blocks, decoded
  and validated against the embedded CRC.

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

// Package grid reads and writes the coded cell grid carried inside a
// marker's black border.
package grid

import (
	"fmt"
	"image"
)

// Grid geometry. A marker is MarkerGridWidth cells on a side; the outer
// two rings are the solid black border and the inner CodeGridWidth
// square carries the code.
const (
	MarkerGridWidth = 10
	CodeGridWidth   = 6
	borderWidth     = (MarkerGridWidth - CodeGridWidth) / 2
)

// codeBits is the number of cells actually read from the code area; the
// last cell of the 6x6 square is unused.
const codeBits = CodeGridWidth*CodeGridWidth - 1

// Cell is one grid cell: the accumulated pixel sum and count from the
// unwarped image, and the thresholded value, 1 for white.
type Cell struct {
	Sum   uint32
	Count uint16
	Val   uint8
}

// Grid is the full 10x10 cell grid of a candidate marker, indexed
// [row][column].
type Grid struct {
	Cells [MarkerGridWidth][MarkerGridWidth]Cell
}

// FromImage partitions a square unwarped marker image into the cell
// grid, averaging the pixels of each cell and thresholding the average
// at t. The image side must be a multiple of the grid width.
func FromImage(img *image.Gray, t uint8) (*Grid, error) {
	b := img.Bounds()
	if b.Dx() != b.Dy() {
		return nil, fmt.Errorf("grid: image not square: %dx%d", b.Dx(), b.Dy())
	}
	if b.Dx()%MarkerGridWidth != 0 {
		return nil, fmt.Errorf("grid: image side %d not a multiple of %d", b.Dx(), MarkerGridWidth)
	}

	cellPx := b.Dx() / MarkerGridWidth
	g := &Grid{}

	for row := 0; row < MarkerGridWidth; row++ {
		for col := 0; col < MarkerGridWidth; col++ {
			c := &g.Cells[row][col]
			for j := 0; j < cellPx; j++ {
				for i := 0; i < cellPx; i++ {
					x := b.Min.X + col*cellPx + i
					y := b.Min.Y + row*cellPx + j
					c.Sum += uint32(img.Pix[img.PixOffset(x, y)])
					c.Count++
				}
			}
			if uint8(c.Sum/uint32(c.Count)) > t {
				c.Val = 1
			}
		}
	}

	return g, nil
}

// cellAt reads code cell (x, y) under one of the four orientations,
// where orientation i undoes a marker that appears rotated 90i degrees
// clockwise in the image.
func (g *Grid) cellAt(rot, x, y int) uint8 {
	const bw, gw = borderWidth, CodeGridWidth
	switch rot {
	case 0:
		return g.Cells[bw+y][bw+x].Val
	case 1:
		return g.Cells[bw+x][bw+(gw-1)-y].Val
	case 2:
		return g.Cells[bw+(gw-1)-y][bw+(gw-1)-x].Val
	default:
		return g.Cells[bw+(gw-1)-x][bw+y].Val
	}
}

// codeRotations extracts the five 7-bit blocks for each of the four
// orientations. Cell p = y*6+x contributes bit p/5 of block p%5; the
// final cell is unused. Bits are inverted on the way out since a black
// cell carries a set bit.
func (g *Grid) codeRotations() [4][5]uint8 {
	var codes [4][5]uint8

	for y := 0; y < CodeGridWidth; y++ {
		for x := 0; x < CodeGridWidth; x++ {
			pos := y*CodeGridWidth + x
			if pos == codeBits {
				continue
			}
			block := pos % 5
			bit := pos / 5

			for rot := 0; rot < 4; rot++ {
				codes[rot][block] |= g.cellAt(rot, x, y) << bit
			}
		}
	}

	for rot := range codes {
		for i := range codes[rot] {
			codes[rot][i] = ^codes[rot][i] & 0x7F
		}
	}
	return codes
}

// RecoverCode attempts to decode the marker number from the grid. Each
// orientation's blocks are Hamming decoded into a 20-bit word, low 8
// bits the marker number and high 12 the CRC; the first orientation
// whose CRC validates wins. The rotation offset is the angle, in
// degrees, the grid had to be rotated to decode.
func (g *Grid) RecoverCode() (code uint8, rotationOffset float32, ok bool) {
	codes := g.codeRotations()

	for rot := 0; rot < 4; rot++ {
		var data uint32
		for j := 0; j < 5; j++ {
			data |= uint32(hammingDecode(codes[rot][j])) << (4 * j)
		}

		num := uint8(data & 0xFF)
		crc := uint16((data >> 8) & 0xFFF)

		// CRC of num+1; zero maps to a non-zero codeword so a
		// blank (all-white) code area cannot validate.
		if CRC12(num+1) == crc {
			return num, 90 * float32(rot), true
		}
	}

	return 0, 0, false
}
