// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import (
	"errors"

	"github.com/andkae/SPI-Flash-Circular-Buffer/queue"
)

// Declare registers a new queue against the driver's registry and maps
// the registry's sentinel errors onto the public Result taxonomy.
func (d *Driver) Declare(magic uint32, payloadSize, requestedCapacity uint32) (int, Result, error) {
	d.Lock()
	defer d.Unlock()

	id, err := d.reg.Declare(magic, payloadSize, requestedCapacity)
	switch {
	case err == nil:
		return id, ResultOk, nil
	case errors.Is(err, queue.ErrNoMemory):
		return 0, ResultNoMemory, newError(ResultNoMemory, -1, d.stage)
	case errors.Is(err, queue.ErrFlashFull):
		return 0, ResultFlashFull, newError(ResultFlashFull, -1, d.stage)
	default:
		return 0, ResultUnknownState, newError(ResultUnknownState, -1, d.stage)
	}
}

// IDMax returns the cached id_max of queueID, or 0 if it does not
// exist or has never been scanned.
func (d *Driver) IDMax(queueID int) uint32 {
	d.Lock()
	defer d.Unlock()
	return d.reg.IDMax(queueID)
}
