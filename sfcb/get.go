// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import "github.com/andkae/SPI-Flash-Circular-Buffer/queue"

// GetLast arms a read of the newest complete record in queueID into
// buf. buf must be at least the queue's PayloadSize long. Once Busy
// returns false, LastGetResult reports the bytes actually copied and
// the record's id.
func (d *Driver) GetLast(queueID int, buf []byte) (Result, error) {
	d.Lock()
	defer d.Unlock()

	if d.busy {
		return ResultWorkerBusy, newError(ResultWorkerBusy, queueID, d.stage)
	}
	if !d.reg.Valid(queueID) {
		return ResultNoSuchQueue, newError(ResultNoSuchQueue, queueID, d.stage)
	}

	m := d.reg.Meta(queueID)
	if !m.Valid {
		return ResultQueueNotReady, newError(ResultQueueNotReady, queueID, d.stage)
	}
	if !m.HasComplete {
		return ResultQueueEmpty, newError(ResultQueueEmpty, queueID, d.stage)
	}

	q := d.reg.Queue(queueID)
	if uint32(len(buf)) < q.PayloadSize {
		return ResultBufferTooSmall, newError(ResultBufferTooSmall, queueID, d.stage)
	}

	d.getQueue = queueID
	d.payload = buf
	d.payloadPos = 0
	d.getRemain = int(q.PayloadSize)
	d.getAddr = m.StartPageIDMax + queue.HeaderSize
	d.resultID = m.LastCompleteID
	d.resultLen = 0

	d.arm(cmdGet)
	return ResultOk, nil
}

// LastGetResult reports the outcome of the most recently completed
// GetLast: the record id and the number of bytes copied into the
// caller's buffer. It is only meaningful once Busy returns false.
func (d *Driver) LastGetResult() (id uint32, n int) {
	d.Lock()
	defer d.Unlock()
	return d.resultID, d.resultLen
}

// stepGet streams the record payload out one READ_DATA chunk at a
// time, copying each response into the caller's buffer as it lands.
func (d *Driver) stepGet() bool {
	if d.spiLen != 0 {
		chunk := responseData(d.buf, d.desc, d.getChunk)
		copy(d.payload[d.payloadPos:], chunk)
		d.payloadPos += d.getChunk
		d.getAddr += uint32(d.getChunk)
		d.getRemain -= d.getChunk
		d.spiLen = 0
	}

	if d.getRemain == 0 {
		d.resultLen = d.payloadPos
		d.finish(ResultOk, d.getQueue)
		return true
	}

	n := int(d.desc.PageSize)
	if d.getRemain < n {
		n = d.getRemain
	}
	if avail := len(d.buf) - dataOffset(d.desc); n > avail {
		n = avail
	}

	d.getChunk = n
	d.spiLen = assembleReadData(d.buf, d.desc, d.getAddr, n)
	return true
}
