// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

// Package queue implements the static queue registry: the per-queue
// sizing derived from a flash.Descriptor and a requested capacity, and
// the volatile metadata rebuilt by a scan.
//
// A Registry owns a fixed-capacity table, sized once at construction
// (mirroring the fixed job-ring tables tamago's soc/nxp/caam package
// allocates up front), rather than a growable slice: no queue is ever
// declared after the driver starts running in the embedded deployments
// this package targets.
package queue

import (
	"errors"
	"fmt"

	"github.com/andkae/SPI-Flash-Circular-Buffer/flash"
)

// ErrNoMemory is returned by Declare when the registry has no free
// slot left.
var ErrNoMemory = errors.New("queue: registry is full")

// ErrFlashFull is returned by Declare when the newly declared queue's
// sector range would run past the end of the flash device.
var ErrFlashFull = errors.New("queue: declaration exceeds flash capacity")

// Queue is one circular buffer queue's fixed, derived sizing. It is
// computed once by Declare and never changes afterwards.
type Queue struct {
	// Magic is the per-queue tag written into every header/footer.
	Magic uint32
	// PayloadSize is the fixed payload size in bytes.
	PayloadSize uint32
	// RequestedCapacity is the minimum element count asked for at
	// declaration time.
	RequestedCapacity uint32

	// PagesPerElem is the number of flash pages one record occupies.
	PagesPerElem uint32
	// NumSectors is the number of erase sectors owned by this queue.
	NumSectors uint32
	// CapacityMax is the maximum number of live records the queue can
	// hold at once.
	CapacityMax uint32

	// StartSector is the first erase sector owned by this queue.
	StartSector uint32
	// StopSector is the last erase sector owned by this queue
	// (inclusive).
	StopSector uint32
}

// RecordSize returns the size in bytes of one record slot, header and
// footer included.
func (q *Queue) RecordSize(d *flash.Descriptor) uint32 {
	return q.PagesPerElem * d.PageSize
}

// SlotAddress returns the byte address of slot i (0 <= i < CapacityMax)
// of this queue.
func (q *Queue) SlotAddress(d *flash.Descriptor, slot uint32) uint32 {
	return q.StartSector*d.SectorSize + slot*q.PagesPerElem*d.PageSize
}

// SectorAddress returns the byte address of the erase sector
// containing the given byte address.
func SectorAddress(d *flash.Descriptor, addr uint32) uint32 {
	return (addr / d.SectorSize) * d.SectorSize
}

// Registry is the fixed-capacity table of declared queues and their
// live metadata.
type Registry struct {
	desc   *flash.Descriptor
	queues []Queue
	meta   []Meta
	n      int
}

// NewRegistry allocates a registry able to hold up to maxQueues queue
// declarations against the given flash descriptor. The backing arrays
// are sized once and never grown.
func NewRegistry(desc *flash.Descriptor, maxQueues int) *Registry {
	return &Registry{
		desc:   desc,
		queues: make([]Queue, maxQueues),
		meta:   make([]Meta, maxQueues),
	}
}

// Len returns the number of queues declared so far.
func (r *Registry) Len() int {
	return r.n
}

// Queue returns the sizing of queue id. id must be < Len().
func (r *Registry) Queue(id int) *Queue {
	return &r.queues[id]
}

// Meta returns the live metadata of queue id. id must be < Len().
func (r *Registry) Meta(id int) *Meta {
	return &r.meta[id]
}

// ceilDiv divides dividend by divisor, rounding up.
func ceilDiv(dividend, divisor uint32) uint32 {
	if dividend == 0 {
		return 0
	}
	return 1 + (dividend-1)/divisor
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

// Declare registers a new queue of the given magic number, payload size
// and requested minimum capacity, deriving its sizing from the
// registry's flash descriptor. It returns the new queue's ordinal, or
// ErrNoMemory/ErrFlashFull.
func (r *Registry) Declare(magic uint32, payloadSize uint32, requestedCapacity uint32) (int, error) {
	if r.n >= len(r.queues) {
		return 0, ErrNoMemory
	}

	id := r.n

	var startSector uint32
	if id > 0 {
		startSector = r.queues[id-1].StopSector + 1
	}

	pagesPerSector := r.desc.PagesPerSector()
	pagesPerElem := ceilDiv(payloadSize+2*HeaderSize, r.desc.PageSize)
	numSectors := maxU32(2, ceilDiv(requestedCapacity*pagesPerElem, pagesPerSector))
	stopSector := startSector + numSectors - 1

	if stopSector >= r.desc.Sectors() {
		return 0, ErrFlashFull
	}

	r.queues[id] = Queue{
		Magic:             magic,
		PayloadSize:       payloadSize,
		RequestedCapacity: requestedCapacity,
		PagesPerElem:      pagesPerElem,
		NumSectors:        numSectors,
		CapacityMax:       (numSectors * pagesPerSector) / pagesPerElem,
		StartSector:       startSector,
		StopSector:        stopSector,
	}
	r.meta[id] = NewMeta()
	r.n++

	return id, nil
}

// IDMax returns the cached id_max of queue id, or 0 if id is out of
// range.
func (r *Registry) IDMax(id int) uint32 {
	if id < 0 || id >= r.n {
		return 0
	}
	return r.meta[id].IDMax
}

// Valid reports whether queue id exists.
func (r *Registry) Valid(id int) bool {
	return id >= 0 && id < r.n
}

// String renders a queue's sizing for diagnostics. It is never called
// by the driver itself.
func (q *Queue) String() string {
	return fmt.Sprintf("magic=%#x payload=%d capacity=%d sectors=[%d,%d]",
		q.Magic, q.PayloadSize, q.CapacityMax, q.StartSector, q.StopSector)
}
