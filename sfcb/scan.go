// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import "github.com/andkae/SPI-Flash-Circular-Buffer/queue"

// Scan arms a full rebuild of every declared queue's live metadata. It
// fails synchronously only if the worker is already busy.
func (d *Driver) Scan() (Result, error) {
	d.Lock()
	defer d.Unlock()

	if d.busy {
		return ResultWorkerBusy, newError(ResultWorkerBusy, -1, d.stage)
	}

	for i := 0; i < d.reg.Len(); i++ {
		d.reg.Meta(i).Reset()
	}

	d.scanQueue = 0
	d.scanSlot = 0
	d.arm(cmdScan)
	return ResultOk, nil
}

// stepScan walks every queue slot by slot, classifying each as a
// candidate record, a clean free slot, or ignorable noise. It returns
// true when it has staged a new SPI request, false when it changed
// internal state without needing a host exchange this turn.
func (d *Driver) stepScan() bool {
	if d.scanQueue >= d.reg.Len() {
		d.finish(ResultOk, -1)
		return true
	}

	q := d.reg.Queue(d.scanQueue)
	m := d.reg.Meta(d.scanQueue)

	switch d.stage {
	case stage1:
		if d.spiLen == 0 {
			addr := q.SlotAddress(d.desc, d.scanSlot)
			d.spiLen = assembleReadData(d.buf, d.desc, addr, queue.HeaderSize)
			return true
		}

		hdr := queue.ParseHeader(responseData(d.buf, d.desc, queue.HeaderSize))
		slotAddr := q.SlotAddress(d.desc, d.scanSlot)

		switch {
		case hdr.Magic == q.Magic:
			m.NumEntries++
			if hdr.ID < m.IDMin {
				m.IDMin = hdr.ID
				m.StartPageIDMin = slotAddr
			}
			if hdr.ID > m.IDMax {
				m.IDMax = hdr.ID
				d.scanTentAddr = slotAddr
				d.scanTentID = hdr.ID
				d.scanLastHdr = hdr
			}
			footAddr := slotAddr + q.RecordSize(d.desc) - queue.FooterSize
			d.spiLen = assembleReadData(d.buf, d.desc, footAddr, queue.FooterSize)
			d.stage = stage2
			return true

		case queue.Clean(responseData(d.buf, d.desc, queue.HeaderSize)) && !m.Valid:
			m.StartPageWrite = slotAddr
			m.Valid = true
			d.advanceScanSlot(q, m)
			return false

		default:
			d.advanceScanSlot(q, m)
			return false
		}

	case stage2:
		foot := queue.ParseHeader(responseData(d.buf, d.desc, queue.FooterSize))
		if foot == d.scanLastHdr && foot.Magic == q.Magic {
			m.StartPageIDMax = d.scanTentAddr
			m.LastCompleteID = d.scanTentID
			m.HasComplete = true
		}
		d.advanceScanSlot(q, m)
		return false

	case stage3:
		d.spiLen = assembleWriteEnable(d.buf, d.desc)
		d.stage = stage4
		return true

	case stage4:
		sectorBase := queue.SectorAddress(d.desc, m.StartPageIDMin)
		m.Reset()
		d.scanSlot = 0
		d.spiLen = assembleEraseSector(d.buf, d.desc, sectorBase)
		d.stage = stage5
		return true

	case stage5:
		d.spiLen = 0
		d.stage = stageWIP
		return false
	}

	return false
}

// advanceScanSlot moves the scan cursor to the next slot, the next
// queue, or (if the current queue never found a free slot) into the
// erase-and-restart sub-stages.
func (d *Driver) advanceScanSlot(q *queue.Queue, m *queue.Meta) {
	d.spiLen = 0
	d.scanSlot++

	if d.scanSlot < q.CapacityMax {
		d.stage = stage1
		return
	}

	if m.Valid {
		d.scanQueue++
		d.scanSlot = 0
		d.stage = stage1
		return
	}

	// No free slot was found anywhere in this queue's allocation:
	// reclaim the oldest sector and restart the walk.
	d.stage = stage3
}
