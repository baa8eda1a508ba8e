// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package flash describes the external NOR SPI flash device a circular
// buffer queue driver runs against: its instruction opcodes, its page/
// sector topology and its status register bit masks.
//
// The package owns no I/O. A Descriptor is a plain data table, built
// once (typically as a package-level variable in a board file) from
// either a compile-time constant or a runtime-probed value, and handed
// by pointer to the queue driver. This mirrors how tamago board
// packages build a hardware config struct (e.g. usdhc.USDHC{Base:
// ..., CCGR: ...}) before calling Init.
package flash

import "fmt"

// Descriptor names the instruction opcodes, topology and status bits of
// one NOR SPI flash part.
type Descriptor struct {
	// Name identifies the part, for diagnostics only.
	Name string

	// PageSize is the smallest write unit in bytes, a power of two.
	PageSize uint32
	// SectorSize is the smallest erase unit in bytes, an integer
	// multiple of PageSize.
	SectorSize uint32
	// AddrBytes is the width of the flash address field on the wire.
	AddrBytes uint8
	// TotalSize is the end of addressable flash, in bytes.
	TotalSize uint32

	// ReadID is the instruction opcode for Read Manufacturer/Device ID.
	ReadID byte
	// ReadIDDummyBytes is the number of dummy bytes following ReadID
	// before the identification response begins.
	ReadIDDummyBytes uint8
	// WriteEnable sets the write-enable latch.
	WriteEnable byte
	// WriteDisable clears the write-enable latch.
	WriteDisable byte
	// EraseBulk erases the whole device.
	EraseBulk byte
	// EraseSector erases one sector.
	EraseSector byte
	// ReadStatus reads the status register.
	ReadStatus byte
	// ReadData reads a byte range.
	ReadData byte
	// PageProgram writes up to one page.
	PageProgram byte

	// WIPMask is the write-in-progress bit of the status register.
	WIPMask byte
	// WELMask is the write-enable-latch bit of the status register.
	WELMask byte
}

// Validate checks that the topology fields describe a physically
// sane NOR flash part.
func (d *Descriptor) Validate() error {
	if d.PageSize == 0 || d.PageSize&(d.PageSize-1) != 0 {
		return fmt.Errorf("flash: page size %d is not a power of two", d.PageSize)
	}

	if d.SectorSize == 0 || d.SectorSize%d.PageSize != 0 {
		return fmt.Errorf("flash: sector size %d is not a multiple of page size %d", d.SectorSize, d.PageSize)
	}

	if d.AddrBytes == 0 || d.AddrBytes > 4 {
		return fmt.Errorf("flash: address width %d bytes is out of range", d.AddrBytes)
	}

	if d.TotalSize == 0 || d.TotalSize%d.SectorSize != 0 {
		return fmt.Errorf("flash: total size %d is not a multiple of sector size %d", d.TotalSize, d.SectorSize)
	}

	return nil
}

// PagesPerSector returns the number of pages in one erase sector.
func (d *Descriptor) PagesPerSector() uint32 {
	return d.SectorSize / d.PageSize
}

// Sectors returns the number of erase sectors in the whole device.
func (d *Descriptor) Sectors() uint32 {
	return d.TotalSize / d.SectorSize
}
