// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import (
	"testing"

	"github.com/andkae/SPI-Flash-Circular-Buffer/flash"
)

// fakeFlash is an in-memory stand-in for a NOR SPI flash part: erase
// fills a sector with 0xFF, PAGE_PROGRAM can only clear bits, and
// READ_STATUS always reports idle. It plays the host side of the
// two-call Step/exchange contract in tests, the same role go-ublk's
// backend.Memory fake block device plays for its unit under test.
type fakeFlash struct {
	desc *flash.Descriptor
	mem  []byte
}

func newFakeFlash(d *flash.Descriptor) *fakeFlash {
	mem := make([]byte, d.TotalSize)
	for i := range mem {
		mem[i] = 0xff
	}
	return &fakeFlash{desc: d, mem: mem}
}

func (f *fakeFlash) addr(buf []byte) uint32 {
	var a uint32
	for i := 0; i < int(f.desc.AddrBytes); i++ {
		a = a<<8 | uint32(buf[1+i])
	}
	return a
}

// exchange performs the full-duplex SPI transaction a real host would:
// it reads opcode/address out of buf, applies the effect (or reads
// data back into the buffer's reserved response region) and mutates
// buf in place exactly as the wire contract describes.
func (f *fakeFlash) exchange(buf []byte) {
	op := buf[0]
	d := f.desc

	switch op {
	case d.ReadStatus:
		buf[1] = 0 // always idle

	case d.WriteEnable, d.WriteDisable:
		// latch bookkeeping not modeled; fake flash always accepts writes

	case d.EraseSector:
		base := f.addr(buf)
		for i := uint32(0); i < d.SectorSize; i++ {
			f.mem[base+i] = 0xff
		}

	case d.PageProgram:
		base := f.addr(buf)
		data := buf[1+int(d.AddrBytes):]
		for i, b := range data {
			f.mem[int(base)+i] &= b
		}

	case d.ReadData:
		base := f.addr(buf)
		off := 1 + int(d.AddrBytes)
		copy(buf[off:], f.mem[base:base+uint32(len(buf)-off)])

	default:
		panic("fakeFlash: unknown opcode")
	}
}

// runUntilIdle drives d to completion against ff, failing the test if
// it does not converge within a generous turn budget (a real bug here
// is an infinite loop, not a slow but eventually-successful one).
func runUntilIdle(t *testing.T, d *Driver, ff *fakeFlash) {
	t.Helper()
	for turns := 0; d.Busy(); turns++ {
		if turns > 100000 {
			t.Fatalf("runUntilIdle: did not converge after %d turns", turns)
		}
		d.Step()
		if n := d.SpiLen(); n > 0 {
			ff.exchange(d.Buffer()[:n])
		}
	}
}
