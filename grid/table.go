/*
DESCRIPTION
  table.go holds the translation between raw 8-bit marker numbers and
  the codes users see. Raw numbers whose patterns sit too close, in
  Hamming distance, to other valid patterns are reserved and map to
  Unassigned.

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

// Unassigned marks a raw marker number with no user-visible code.
const Unassigned = -1

// fwdCodeTable maps raw marker numbers to user codes.
var fwdCodeTable = [256]int16{
	0, 1, -1, -1, 2, 3, 4, 5,
	-1, -1, 6, -1, 7, -1, 8, 9,
	10, -1, 11, -1, 12, 13, 14, 15,
	16, 17, 18, 19, 20, 21, 22, 23,
	24, 25, -1, 26, 27, 28, 29, 30,
	31, 32, -1, 33, 34, -1, -1, 35,
	-1, 36, 37, -1, 38, 39, 40, 41,
	42, 43, 44, 45, 46, 47, 48, 49,
	50, 51, 52, 53, 54, 55, 56, 57,
	58, 59, 60, 61, 62, 63, 64, -1,
	65, 66, 67, 68, 69, 70, 71, 72,
	73, 74, 75, 76, 77, 78, 79, -1,
	-1, 80, 81, 82, 83, 84, 85, 86,
	87, 88, 89, 90, 91, 92, 93, 94,
	95, 96, -1, 97, 98, 99, 100, 101,
	102, 103, 104, 105, 106, 107, -1, -1,
	108, 109, 110, 111, 112, 113, 114, 115,
	116, 117, 118, 119, 120, 121, 122, 123,
	124, 125, 126, 127, 128, 129, 130, 131,
	132, 133, 134, 135, 136, 137, 138, -1,
	-1, 139, 140, 141, 142, 143, 144, 145,
	146, 147, 148, 149, 150, 151, 152, 153,
	154, 155, -1, 156, 157, 158, 159, 160,
	161, 162, 163, 164, 165, 166, 167, 168,
	169, 170, 171, 172, 173, 174, -1, 175,
	-1, 176, 177, 178, 179, 180, 181, 182,
	-1, 183, 184, 185, 186, 187, 188, 189,
	190, 191, 192, 193, 194, 195, 196, 197,
	198, 199, 200, 201, 202, 203, 204, 205,
	206, 207, 208, 209, 210, 211, 212, 213,
	214, 215, 216, 217, 218, 219, 220, 221,
	222, 223, 224, 225, 226, 227, 228, -1,
}

// Translate maps a raw marker number to its user code, or Unassigned
// for reserved numbers.
func Translate(raw uint8) int16 {
	return fwdCodeTable[raw]
}

// Assigned reports whether a raw marker number has a user code.
func Assigned(raw uint8) bool {
	return fwdCodeTable[raw] != Unassigned
}
