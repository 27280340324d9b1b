/*
DESCRIPTION
  crc12.go computes the 12-bit CRC embedded in the marker payload,
  using the polynomial x^12 + x^11 + x^3 + x^2 + x + 1, processed
  LSB-first with zero seed and no output mask.

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

// crcPolyReflected is the polynomial's low 12 bits, bit-reversed for
// LSB-first processing.
const crcPolyReflected = 0xF01

// CRC12 computes the 12-bit CRC of a single byte. Marker payloads carry
// CRC12(n+1): shifting the input by one keeps the all-zero marker
// number from producing the all-zero CRC, which would let a blank
// (all-white) code area validate as marker zero.
func CRC12(input uint8) uint16 {
	var value uint16

	for i := 0; i < 8; i++ {
		bit := uint16(input>>i) & 1
		out := value & 1
		value >>= 1
		if out^bit != 0 {
			value ^= crcPolyReflected
		}
	}
	return value & 0xFFF
}
