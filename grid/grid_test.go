/*
DESCRIPTION
  grid_test.go provides testing for the code grid: CRC behaviour,
  Hamming round trips with single-bit corruption, encode/decode round
  trips for every assigned marker number, rotation invariance of the
  decode, and gridding of rendered marker images.

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
	"testing"
)

func TestCRC12(t *testing.T) {
	// Zero input maps to zero, which is why payloads carry CRC12(n+1)
	// rather than CRC12(n).
	if got := CRC12(0); got != 0 {
		t.Errorf("CRC12(0) = %#x, want 0", got)
	}
	for n := 1; n < 256; n++ {
		if CRC12(uint8(n)) == 0 {
			t.Errorf("CRC12(%d) = 0; only the zero input may map to zero", n)
		}
	}

	// 12-bit range.
	for n := 0; n < 256; n++ {
		if CRC12(uint8(n)) > 0xFFF {
			t.Errorf("CRC12(%d) exceeds 12 bits", n)
		}
	}
}

func TestHammingRoundTrip(t *testing.T) {
	for nibble := uint8(0); nibble < 16; nibble++ {
		block := hammingEncode(nibble)

		if s := hammingSyndrome(block); s != 0 {
			t.Errorf("syndrome of clean codeword for %d = %d, want 0", nibble, s)
		}
		if got := hammingDecode(block); got != nibble {
			t.Errorf("hammingDecode(hammingEncode(%d)) = %d", nibble, got)
		}

		// Any single flipped bit must be corrected.
		for bit := 0; bit < 7; bit++ {
			corrupt := block ^ (1 << bit)
			if got := hammingDecode(corrupt); got != nibble {
				t.Errorf("nibble %d with bit %d flipped decoded to %d", nibble, bit, got)
			}
		}
	}
}

func TestEncodeLayout(t *testing.T) {
	g := Encode(0)

	// Outer two rings are solid black.
	for row := 0; row < MarkerGridWidth; row++ {
		for col := 0; col < MarkerGridWidth; col++ {
			border := row < 2 || row >= 8 || col < 2 || col >= 8
			if border && g.Cells[row][col].Val != 0 {
				t.Errorf("border cell (%d, %d) not black", row, col)
			}
		}
	}

	// The spare inner cell is white.
	if g.Cells[7][7].Val != 1 {
		t.Error("unused cell (5,5) of the code area is not white")
	}
}

func TestRecoverCodeRoundTrip(t *testing.T) {
	for n := 0; n < 256; n++ {
		g := Encode(uint8(n))
		code, offset, ok := g.RecoverCode()
		if !ok {
			t.Fatalf("marker %d did not decode", n)
		}
		if code != uint8(n) {
			t.Fatalf("marker %d decoded as %d", n, code)
		}
		if offset != 0 {
			t.Errorf("marker %d decoded with offset %v, want 0", n, offset)
		}
	}
}

func TestRecoverCodeSingleCellError(t *testing.T) {
	// Flipping any single data cell corrupts one bit of one Hamming
	// block, which decodes regardless.
	for _, n := range []uint8{0, 17, 25, 100, 228, 255} {
		for pos := 0; pos < codeBits; pos++ {
			g := Encode(n)
			x, y := pos%CodeGridWidth, pos/CodeGridWidth
			g.Cells[borderWidth+y][borderWidth+x].Val ^= 1

			code, _, ok := g.RecoverCode()
			if !ok {
				t.Fatalf("marker %d with cell %d flipped did not decode", n, pos)
			}
			if code != n {
				t.Fatalf("marker %d with cell %d flipped decoded as %d", n, pos, code)
			}
		}
	}
}

// rotateCW returns img rotated 90 degrees clockwise.
func rotateCW(img *image.Gray) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.SetGray(b.Dy()-1-y, x, img.GrayAt(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out
}

func TestRecoverCodeRotations(t *testing.T) {
	for _, n := range []uint8{7, 25, 56, 130} {
		img := Render(n, 100)

		for rot := 0; rot < 4; rot++ {
			g, err := FromImage(img, 127)
			if err != nil {
				t.Fatalf("FromImage failed: %v", err)
			}

			code, offset, ok := g.RecoverCode()
			if !ok {
				t.Fatalf("marker %d rotated %d times did not decode", n, rot)
			}
			if code != n {
				t.Errorf("marker %d rotated %d times decoded as %d", n, rot, code)
			}
			if want := 90 * float32(rot); offset != want {
				t.Errorf("marker %d rotated %d times gave offset %v, want %v", n, rot, offset, want)
			}

			img = rotateCW(img)
		}
	}
}

func TestTranslate(t *testing.T) {
	// Spot values from the assignment table, including reserved
	// numbers.
	tests := []struct {
		raw  uint8
		want int16
	}{
		{raw: 0, want: 0},
		{raw: 2, want: Unassigned},
		{raw: 25, want: 17},
		{raw: 56, want: 42},
		{raw: 255, want: Unassigned},
		{raw: 254, want: 228},
	}
	for _, tt := range tests {
		if got := Translate(tt.raw); got != tt.want {
			t.Errorf("Translate(%d) = %d, want %d", tt.raw, got, tt.want)
		}
		if got := Assigned(tt.raw); got != (tt.want != Unassigned) {
			t.Errorf("Assigned(%d) = %v", tt.raw, got)
		}
	}
}

func TestFromImage(t *testing.T) {
	img := Render(25, 100)

	g, err := FromImage(img, 127)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	want := Encode(25)
	for row := 0; row < MarkerGridWidth; row++ {
		for col := 0; col < MarkerGridWidth; col++ {
			if g.Cells[row][col].Val != want.Cells[row][col].Val {
				t.Errorf("cell (%d, %d) = %d, want %d", row, col,
					g.Cells[row][col].Val, want.Cells[row][col].Val)
			}
			if g.Cells[row][col].Count != 100 {
				t.Errorf("cell (%d, %d) holds %d pixels, want 100", row, col,
					g.Cells[row][col].Count)
			}
		}
	}
}

func TestFromImageRejectsBadShapes(t *testing.T) {
	if _, err := FromImage(image.NewGray(image.Rect(0, 0, 100, 90)), 127); err == nil {
		t.Error("FromImage accepted a non-square image")
	}
	if _, err := FromImage(image.NewGray(image.Rect(0, 0, 96, 96)), 127); err == nil {
		t.Error("FromImage accepted a side that does not grid evenly")
	}
}
