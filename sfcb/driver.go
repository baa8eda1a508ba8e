// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import (
	"sync"

	"github.com/andkae/SPI-Flash-Circular-Buffer/bits"
	"github.com/andkae/SPI-Flash-Circular-Buffer/flash"
	"github.com/andkae/SPI-Flash-Circular-Buffer/queue"
)

// command tags which worker algorithm Step dispatches to.
type command uint8

const (
	cmdIdle command = iota
	cmdScan
	cmdAppend
	cmdGet
	cmdRaw
)

// stage is a command-specific sub-step. stage0 is reserved across all
// commands for the shared WIP poll; stage1..stage5 are reinterpreted
// by each command's step function. Most commands never reach stage5;
// scan's erase-and-restart sub-stages are the one path that needs it,
// to keep the "issue a write-class command" stage separate from the
// "that command was exchanged, clean up and re-arm the WIP poll"
// stage that must follow it.
type stage uint8

const (
	stageWIP stage = iota
	stage1
	stage2
	stage3
	stage4
	stage5
)

// appendAction tags which 8-byte tag stage2 of stepAppend is writing.
type appendAction uint8

const (
	appendHeader appendAction = iota
	appendFooter
)

// Driver is the worker and public command interface for one flash
// device's set of queues. It owns no SPI transport: Buffer is an
// external scratch region the host clocks out and back in between
// calls to Step.
type Driver struct {
	sync.Mutex

	desc *flash.Descriptor
	reg  *queue.Registry
	buf  []byte

	spiLen int
	busy   bool
	cmd    command
	stage  stage
	err    *Error

	// scan cursors
	scanQueue    int
	scanSlot     uint32
	scanTentAddr uint32
	scanTentID   uint32
	scanLastHdr  queue.Header

	// append cursors
	appendQueue  int
	appendBuf    []byte
	appendSent   int
	appendAction appendAction

	// get-last cursors
	getQueue    int
	payload     []byte
	payloadPos  int
	getRemain   int
	getAddr     uint32
	getChunk    int
	resultID    uint32
	resultLen   int

	// raw-read cursors
	rawAddr uint32
	rawLen  int
}

// NewDriver constructs a driver bound to desc and reg, using buf as its
// SPI scratch buffer. buf must hold at least
// desc.PageSize + 1 + uint32(desc.AddrBytes) bytes, the largest single
// request (a full-page PAGE_PROGRAM) the worker ever assembles.
func NewDriver(desc *flash.Descriptor, reg *queue.Registry, buf []byte) *Driver {
	if desc == nil || reg == nil {
		panic("sfcb: NewDriver requires a non-nil descriptor and registry")
	}
	need := int(desc.PageSize) + 1 + int(desc.AddrBytes)
	if len(buf) < need {
		panic("sfcb: scratch buffer too small for this flash's page size")
	}
	return &Driver{desc: desc, reg: reg, buf: buf}
}

// Busy reports whether a command is currently in flight.
func (d *Driver) Busy() bool {
	d.Lock()
	defer d.Unlock()
	return d.busy
}

// SpiLen returns the length of the pending request staged in Buffer.
// 0 means Buffer's contents are invalid and must not be clocked out.
func (d *Driver) SpiLen() int {
	d.Lock()
	defer d.Unlock()
	return d.spiLen
}

// Buffer returns the driver's SPI scratch buffer. The host exchanges
// exactly Buffer()[:SpiLen()] bytes full-duplex, in place, between
// calls to Step.
func (d *Driver) Buffer() []byte {
	return d.buf
}

// LastError returns the latched programmer-error state, if any. It is
// only ever non-nil after Step observes an invariant violation
// (UnknownState); ordinary command failures are returned synchronously
// by the entry point that rejected them and never reach here.
func (d *Driver) LastError() *Error {
	d.Lock()
	defer d.Unlock()
	return d.err
}

// Reset forces the driver back to idle, discarding any in-flight
// command. A host that wraps its Step loop with its own deadline calls
// Reset on expiry instead of trusting the part to recover on its own:
// cmd, stage and busy are cleared, but no flash command is issued, so
// whatever partial write was in flight (a dangling WRITE_ENABLE, a
// half-written page) is left exactly as it landed. The affected queue
// is left not-ready (Valid false survives Reset, since it was already
// cleared by the command that got interrupted) until a fresh Scan
// re-validates it.
func (d *Driver) Reset() {
	d.Lock()
	defer d.Unlock()
	d.busy = false
	d.cmd = cmdIdle
	d.stage = stageWIP
	d.spiLen = 0
	d.err = nil
}

// arm transitions the driver from idle into a running command. Callers
// must have validated preconditions and populated the command's cursor
// fields before calling arm.
func (d *Driver) arm(cmd command) {
	d.busy = true
	d.cmd = cmd
	d.stage = stageWIP
	d.spiLen = 0
	d.err = nil
}

// finish returns the driver to idle. r is recorded only when it is not
// Ok, as the latched LastError state (ordinary success carries no
// error).
func (d *Driver) finish(r Result, queueID int) {
	d.busy = false
	d.cmd = cmdIdle
	d.spiLen = 0
	if r != ResultOk {
		d.err = newError(r, queueID, d.stage)
	}
}

// pollWIP implements the shared WIP-poll stage: it reports true (and
// stages a new READ_STATUS request) when the caller must return to
// the host for another exchange, false once WIP has cleared and the
// command-specific stages may proceed.
func (d *Driver) pollWIP() bool {
	if d.spiLen == 0 {
		d.spiLen = assembleReadStatus(d.buf, d.desc)
		return true
	}
	// READ_STATUS stages only [opcode, 0x00] with no address field, so
	// its response byte sits at buf[1], not at responseData's
	// READ_DATA-shaped offset (1+AddrBytes).
	status := d.buf[1]
	if bits.Test(status, d.desc.WIPMask) {
		d.spiLen = assembleReadStatus(d.buf, d.desc)
		return true
	}
	d.spiLen = 0
	return false
}

// Step advances the worker by exactly one logical turn: it either
// stages a new SPI request (SpiLen > 0, requiring a host exchange
// before the next Step) or completes the in-flight command outright.
// See the package doc for the full host-loop contract.
func (d *Driver) Step() {
	d.Lock()
	defer d.Unlock()

	if !d.busy {
		d.spiLen = 0
		return
	}

	for d.busy {
		if d.stage == stageWIP {
			if d.pollWIP() {
				return
			}
			d.stage = stage1
		}

		var requestPending bool
		switch d.cmd {
		case cmdScan:
			requestPending = d.stepScan()
		case cmdAppend:
			requestPending = d.stepAppend()
		case cmdGet:
			requestPending = d.stepGet()
		case cmdRaw:
			requestPending = d.stepRaw()
		default:
			d.finish(ResultUnknownState, -1)
			return
		}
		if requestPending {
			return
		}
	}
}
