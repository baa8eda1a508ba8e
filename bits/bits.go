// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package bits provides primitives for bitwise operations on the flash
// status byte and other single-byte register fields exchanged over SPI.
package bits

// Test reports whether any bit in mask is set in v.
func Test(v byte, mask byte) bool {
	return v&mask != 0
}

// Set returns v with every bit in mask forced to 1.
func Set(v byte, mask byte) byte {
	return v | mask
}

// Clear returns v with every bit in mask forced to 0.
func Clear(v byte, mask byte) byte {
	return v &^ mask
}
