// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import "github.com/andkae/SPI-Flash-Circular-Buffer/flash"

// putAddr writes addr into b in big-endian order over addrBytes bytes,
// the wire order every SPI NOR flash opcode expects its address in.
func putAddr(b []byte, addr uint32, addrBytes uint8) {
	for i := int(addrBytes) - 1; i >= 0; i-- {
		b[i] = byte(addr)
		addr >>= 8
	}
}

// dataOffset returns the byte offset of the response/request data
// region following a one-byte opcode and the flash address field.
func dataOffset(d *flash.Descriptor) int {
	return 1 + int(d.AddrBytes)
}

// responseData returns the n-byte data region of buf, populated by the
// host's full-duplex exchange of a previously assembled read request.
func responseData(buf []byte, d *flash.Descriptor, n int) []byte {
	off := dataOffset(d)
	return buf[off : off+n]
}

// assembleReadStatus stages a READ_STATUS request: [opcode, 0x00].
// The status byte lands in the response at offset 1.
func assembleReadStatus(buf []byte, d *flash.Descriptor) int {
	buf[0] = d.ReadStatus
	buf[1] = 0
	return 2
}

// assembleWriteEnable stages a WR_ENABLE request: [opcode].
func assembleWriteEnable(buf []byte, d *flash.Descriptor) int {
	buf[0] = d.WriteEnable
	return 1
}

// assembleEraseSector stages an ERASE_SECTOR request targeting the
// sector-aligned base address addr.
func assembleEraseSector(buf []byte, d *flash.Descriptor, addr uint32) int {
	buf[0] = d.EraseSector
	putAddr(buf[1:], addr, d.AddrBytes)
	return 1 + int(d.AddrBytes)
}

// assemblePageProgram stages a PAGE_PROGRAM request writing data at
// addr. Callers must ensure data does not cross a page boundary.
func assemblePageProgram(buf []byte, d *flash.Descriptor, addr uint32, data []byte) int {
	buf[0] = d.PageProgram
	putAddr(buf[1:], addr, d.AddrBytes)
	copy(buf[1+int(d.AddrBytes):], data)
	return 1 + int(d.AddrBytes) + len(data)
}

// assembleReadData stages a READ_DATA request of n bytes at addr,
// zero-filling the reserved response region. The host overwrites that
// region with the flash's response during the full-duplex exchange.
func assembleReadData(buf []byte, d *flash.Descriptor, addr uint32, n int) int {
	buf[0] = d.ReadData
	putAddr(buf[1:], addr, d.AddrBytes)
	off := dataOffset(d)
	for i := 0; i < n; i++ {
		buf[off+i] = 0
	}
	return off + n
}
