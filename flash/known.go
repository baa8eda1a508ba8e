// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package flash

// W25Q16JV describes the Winbond W25Q16JV, 2 MiB SPI NOR flash used by
// the reference implementation's test fixtures.
//
//   - W25Q16JV_Rev_H p.19  Manufacturer and Device Identification
//   - W25Q16JV_Rev_H p.22  Write Enable (06h)
//   - W25Q16JV_Rev_H p.23  Write Disable (04h), Read Status Register-1 (05h)
//   - W25Q16JV_Rev_H p.26  Read Data, Single SPI Mode (03h)
//   - W25Q16JV_Rev_H p.33  Page Program (02h)
//   - W25Q16JV_Rev_H p.35  Sector Erase (20h)
//   - W25Q16JV_Rev_H p.38  Chip Erase (C7h)
//   - W25Q16JV_Rev_H p.44  Read ID (90h)
var W25Q16JV = Descriptor{
	Name:             "W25Q16JV",
	PageSize:         256,
	SectorSize:       4096,
	AddrBytes:        3,
	TotalSize:        2097152,
	ReadID:           0x90,
	ReadIDDummyBytes: 3,
	WriteEnable:      0x06,
	WriteDisable:     0x04,
	EraseBulk:        0xc7,
	EraseSector:      0x20,
	ReadStatus:       0x05,
	ReadData:         0x03,
	PageProgram:      0x02,
	WIPMask:          0x01,
	WELMask:          0x02,
}

// Known is a lookup table of reference flash part descriptors, in the
// spirit of tamago's static per-card/per-chip info tables.
var Known = []Descriptor{
	W25Q16JV,
}
