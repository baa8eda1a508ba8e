// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

// RawRead arms an unchecked passthrough read of length bytes at addr
// into buf. It is not validated against any queue layout. It fails
// synchronously with BufferTooSmall if the request
// plus its opcode/address overhead would not fit the scratch buffer,
// or if buf is too small to receive it.
func (d *Driver) RawRead(addr uint32, length int, buf []byte) (Result, error) {
	d.Lock()
	defer d.Unlock()

	if d.busy {
		return ResultWorkerBusy, newError(ResultWorkerBusy, -1, d.stage)
	}

	overhead := dataOffset(d.desc)
	if overhead+length > len(d.buf) {
		return ResultBufferTooSmall, newError(ResultBufferTooSmall, -1, d.stage)
	}
	if length > len(buf) {
		return ResultBufferTooSmall, newError(ResultBufferTooSmall, -1, d.stage)
	}

	d.rawAddr = addr
	d.rawLen = length
	d.payload = buf
	d.resultLen = 0

	d.arm(cmdRaw)
	return ResultOk, nil
}

// LastRawReadLen reports the number of bytes copied by the most
// recently completed RawRead. It is only meaningful once Busy returns
// false.
func (d *Driver) LastRawReadLen() int {
	d.Lock()
	defer d.Unlock()
	return d.resultLen
}

// stepRaw is a single-shot READ_DATA: stage the request, then on the
// next call copy the response straight into the caller's buffer.
func (d *Driver) stepRaw() bool {
	if d.spiLen == 0 {
		d.spiLen = assembleReadData(d.buf, d.desc, d.rawAddr, d.rawLen)
		return true
	}

	copy(d.payload, responseData(d.buf, d.desc, d.rawLen))
	d.resultLen = d.rawLen
	d.finish(ResultOk, -1)
	return true
}
