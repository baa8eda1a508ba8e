// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import "github.com/andkae/SPI-Flash-Circular-Buffer/queue"

// Append arms a write of as much of payload as fits in the current
// record. Appending is split-capable: a caller may
// invoke Append several times for one record, each call picking up
// where the last left off via the queue's PayloadFlashOffset. The
// target queue is marked not-ready immediately, forcing a Scan before
// GetLast or a new record may run against it; an Append that continues
// the unfinished record is still accepted while it is not ready.
func (d *Driver) Append(queueID int, payload []byte) (Result, error) {
	d.Lock()
	defer d.Unlock()

	if d.busy {
		return ResultWorkerBusy, newError(ResultWorkerBusy, queueID, d.stage)
	}
	if !d.reg.Valid(queueID) {
		return ResultNoSuchQueue, newError(ResultNoSuchQueue, queueID, d.stage)
	}
	m := d.reg.Meta(queueID)
	if !m.Valid && m.PayloadFlashOffset == 0 {
		return ResultQueueNotReady, newError(ResultQueueNotReady, queueID, d.stage)
	}

	if len(payload) == 0 {
		return ResultOk, nil
	}

	m.Valid = false

	d.appendQueue = queueID
	d.appendBuf = payload
	d.appendSent = 0
	d.appendAction = appendHeader
	d.arm(cmdAppend)
	return ResultOk, nil
}

// FinishAppend forces the in-progress record on queueID to be sealed
// with a FOOTER now, even if fewer than PayloadSize bytes have been
// written. It is a no-op when there is nothing in progress to finish
// (see DESIGN.md for the open-question decision this resolves).
func (d *Driver) FinishAppend(queueID int) (Result, error) {
	d.Lock()
	defer d.Unlock()

	if d.busy {
		return ResultWorkerBusy, newError(ResultWorkerBusy, queueID, d.stage)
	}
	if !d.reg.Valid(queueID) {
		return ResultNoSuchQueue, newError(ResultNoSuchQueue, queueID, d.stage)
	}

	q := d.reg.Queue(queueID)
	m := d.reg.Meta(queueID)
	threshold := q.PayloadSize + queue.HeaderSize

	if m.PayloadFlashOffset == 0 || m.PayloadFlashOffset >= threshold {
		return ResultOk, nil
	}

	// Fast-forward the offset to the footer threshold; the ordinary
	// STG1 classification below then writes the footer unmodified.
	m.PayloadFlashOffset = threshold
	m.Valid = false

	d.appendQueue = queueID
	d.appendBuf = nil
	d.appendSent = 0
	d.arm(cmdAppend)
	return ResultOk, nil
}

// stepAppend writes one WRITE_ENABLE/PAGE_PROGRAM pair per call,
// advancing the record's header, payload or footer in turn.
func (d *Driver) stepAppend() bool {
	q := d.reg.Queue(d.appendQueue)
	m := d.reg.Meta(d.appendQueue)
	threshold := q.PayloadSize + queue.HeaderSize

	switch d.stage {
	case stage1:
		switch {
		case d.appendAction == appendFooter && m.PayloadFlashOffset == 0:
			// footer written: the record is sealed
			d.finish(ResultOk, d.appendQueue)
			return true

		case m.PayloadFlashOffset == 0:
			d.appendAction = appendHeader
			d.spiLen = assembleWriteEnable(d.buf, d.desc)
			d.stage = stage2
			return true

		case m.PayloadFlashOffset == threshold:
			d.appendAction = appendFooter
			d.spiLen = assembleWriteEnable(d.buf, d.desc)
			d.stage = stage2
			return true

		case d.appendSent < len(d.appendBuf):
			d.spiLen = assembleWriteEnable(d.buf, d.desc)
			d.stage = stage3
			return true

		default:
			d.finish(ResultOk, d.appendQueue)
			return true
		}

	case stage2:
		rec := queue.Header{Magic: q.Magic, ID: m.IDMax + 1}
		var addr uint32
		if d.appendAction == appendHeader {
			addr = m.StartPageWrite
			m.PayloadFlashOffset = queue.HeaderSize
		} else {
			addr = m.StartPageWrite + q.RecordSize(d.desc) - queue.FooterSize
			m.PayloadFlashOffset = 0 // record sealed; ready for the next slot after a Scan
		}
		d.spiLen = assemblePageProgram(d.buf, d.desc, addr, rec.Bytes())
		d.stage = stage4
		return true

	case stage3:
		recordOffset := m.PayloadFlashOffset
		addr := m.StartPageWrite + recordOffset
		bytesLeftInPage := d.desc.PageSize - addr%d.desc.PageSize
		bytesLeftInCall := uint32(len(d.appendBuf) - d.appendSent)
		bytesLeftInPayload := threshold - recordOffset

		n := bytesLeftInPage
		if bytesLeftInCall < n {
			n = bytesLeftInCall
		}
		if bytesLeftInPayload < n {
			n = bytesLeftInPayload
		}

		data := d.appendBuf[d.appendSent : d.appendSent+int(n)]
		d.spiLen = assemblePageProgram(d.buf, d.desc, addr, data)
		m.PayloadFlashOffset += n
		d.appendSent += int(n)
		d.stage = stage4
		return true

	case stage4:
		d.spiLen = 0
		d.stage = stageWIP
		return false
	}

	return false
}
