// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package sfcb implements a non-blocking worker that rebuilds and
// appends to one or more circular buffer queues held in an external
// NOR SPI flash. It owns no SPI transport and performs no blocking
// I/O: every flash transaction is a two-call contract between the
// driver and a host loop.
//
// A command entry point (Scan, Append, FinishAppend, GetLast, RawRead)
// validates its preconditions synchronously and arms the worker. The
// host then drives the command to completion with:
//
//	for d.Busy() {
//	    d.Step()
//	    if n := d.SpiLen(); n > 0 {
//	        exchange(d.Buffer()[:n]) // full-duplex SPI transaction
//	    }
//	}
//
// Step never blocks and absorbs its own bookkeeping turns internally:
// every call either stages exactly one new request in Buffer (SpiLen
// reports its length, and the host must exchange it before calling
// Step again) or completes the command outright (Busy becomes false,
// SpiLen reads 0). See example/hostloop.go for a complete,
// hardware-free walkthrough against a fake flash.
package sfcb
