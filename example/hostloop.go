// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Command hostloop is a hardware-free walkthrough of the sfcb two-call
// host loop contract, run against an in-memory fake flash instead of a
// real SPI bus.
package main

import (
	"fmt"
	"log"

	"github.com/andkae/SPI-Flash-Circular-Buffer/flash"
	"github.com/andkae/SPI-Flash-Circular-Buffer/queue"
	"github.com/andkae/SPI-Flash-Circular-Buffer/sfcb"
)

// memFlash is a minimal in-memory stand-in for a NOR SPI flash part,
// just enough wire protocol to play the host side of a real exchange.
type memFlash struct {
	desc *flash.Descriptor
	mem  []byte
}

func newMemFlash(d *flash.Descriptor) *memFlash {
	mem := make([]byte, d.TotalSize)
	for i := range mem {
		mem[i] = 0xff
	}
	return &memFlash{desc: d, mem: mem}
}

func (f *memFlash) addr(buf []byte) uint32 {
	var a uint32
	for i := 0; i < int(f.desc.AddrBytes); i++ {
		a = a<<8 | uint32(buf[1+i])
	}
	return a
}

func (f *memFlash) exchange(buf []byte) {
	d := f.desc
	switch buf[0] {
	case d.ReadStatus:
		buf[1] = 0
	case d.WriteEnable, d.WriteDisable:
	case d.EraseSector:
		base := f.addr(buf)
		for i := uint32(0); i < d.SectorSize; i++ {
			f.mem[base+i] = 0xff
		}
	case d.PageProgram:
		base := f.addr(buf)
		for i, b := range buf[1+int(d.AddrBytes):] {
			f.mem[int(base)+i] &= b
		}
	case d.ReadData:
		base := f.addr(buf)
		off := 1 + int(d.AddrBytes)
		copy(buf[off:], f.mem[base:base+uint32(len(buf)-off)])
	default:
		panic("memFlash: unknown opcode")
	}
}

// run drives d to completion against ff: the two-call contract the
// sfcb package doc describes.
func run(d *sfcb.Driver, ff *memFlash) {
	for d.Busy() {
		d.Step()
		if n := d.SpiLen(); n > 0 {
			ff.exchange(d.Buffer()[:n])
		}
	}
}

func main() {
	desc := flash.W25Q16JV
	reg := queue.NewRegistry(&desc, 1)
	buf := make([]byte, int(desc.PageSize)+1+int(desc.AddrBytes))
	drv := sfcb.NewDriver(&desc, reg, buf)
	ff := newMemFlash(&desc)

	id, r, err := drv.Declare(0x47114711, 32, 16)
	if r != sfcb.ResultOk || err != nil {
		log.Fatalf("Declare: %v %v", r, err)
	}

	if r, _ := drv.Scan(); r != sfcb.ResultOk {
		log.Fatalf("Scan: %v", r)
	}
	run(drv, ff)

	payload := []byte("hello, circular flash queue")
	padded := make([]byte, 32)
	copy(padded, payload)

	if r, err := drv.Append(id, padded); r != sfcb.ResultOk {
		log.Fatalf("Append: %v %v", r, err)
	}
	run(drv, ff)

	if r, _ := drv.Scan(); r != sfcb.ResultOk {
		log.Fatalf("Scan: %v", r)
	}
	run(drv, ff)

	out := make([]byte, 32)
	if r, err := drv.GetLast(id, out); r != sfcb.ResultOk {
		log.Fatalf("GetLast: %v %v", r, err)
	}
	run(drv, ff)

	recordID, n := drv.LastGetResult()
	fmt.Printf("record %d: %q\n", recordID, out[:n])
}
