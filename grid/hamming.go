/*
DESCRIPTION
  hamming.go implements the Hamming(7,4) code protecting each 7-bit
  block of the marker payload. The parity-check matrix is the standard
  one, so the syndrome is the 1-based position of a single flipped bit.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package grid

import "math/bits"

// Parity-check matrix rows as bit masks over the 7-bit codeword,
// bit i of a mask selecting codeword bit i:
//
//	H = | 1 0 1 0 1 0 1 |
//	    | 0 1 1 0 0 1 1 |
//	    | 0 0 0 1 1 1 1 |
var hammingH = [3]uint8{0x55, 0x66, 0x78}

// dataBitPositions are the codeword positions holding the four data
// bits, low data bit first.
var dataBitPositions = [4]uint8{2, 4, 5, 6}

// hammingSyndrome returns the syndrome of a received block: zero for a
// clean codeword, else the 1-based index of the single bit to flip.
func hammingSyndrome(block uint8) uint8 {
	var s uint8
	for i, row := range hammingH {
		s |= uint8(bits.OnesCount8(block&row)&1) << i
	}
	return s
}

// hammingDecode corrects a single bit error in the received block and
// extracts the data nibble. A block with more errors than the code can
// carry decodes to garbage, which the CRC catches.
func hammingDecode(block uint8) uint8 {
	if s := hammingSyndrome(block); s >= 1 && s <= 7 {
		block ^= 1 << (s - 1)
	}

	var data uint8
	for i, pos := range dataBitPositions {
		data |= ((block >> pos) & 1) << i
	}
	return data
}

// hammingEncode produces the 7-bit codeword for a data nibble, placing
// the data bits at their codeword positions and computing the three
// parity bits so the syndrome of the result is zero.
func hammingEncode(nibble uint8) uint8 {
	var block uint8
	for i, pos := range dataBitPositions {
		block |= ((nibble >> i) & 1) << pos
	}

	for i, row := range hammingH {
		// Parity bit i lives at position 2^i - 1.
		if bits.OnesCount8(block&row)&1 == 1 {
			block |= 1 << ((1 << i) - 1)
		}
	}
	return block
}
