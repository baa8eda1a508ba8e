// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import (
	"testing"

	"github.com/andkae/SPI-Flash-Circular-Buffer/flash"
	"github.com/andkae/SPI-Flash-Circular-Buffer/queue"
)

func newTestDriver(t *testing.T, maxQueues int) (*Driver, *fakeFlash) {
	t.Helper()
	d := flash.W25Q16JV
	reg := queue.NewRegistry(&d, maxQueues)
	buf := make([]byte, int(d.PageSize)+1+int(d.AddrBytes))
	drv := NewDriver(&d, reg, buf)
	return drv, newFakeFlash(&d)
}

// TestDeclareSizing checks the derived page/sector/capacity math for a
// representative payload and requested capacity.
func TestDeclareSizing(t *testing.T) {
	drv, _ := newTestDriver(t, 1)

	id, r, err := drv.Declare(0x47114711, 244, 32)
	if err != nil || r != ResultOk {
		t.Fatalf("Declare() = (%v, %v), want (ResultOk, nil)", r, err)
	}

	q := drv.reg.Queue(id)
	if got, want := q.PagesPerElem, uint32(2); got != want {
		t.Errorf("PagesPerElem = %d, want %d", got, want)
	}
	if got, want := q.NumSectors, uint32(4); got != want {
		t.Errorf("NumSectors = %d, want %d", got, want)
	}
	if got, want := q.CapacityMax, uint32(32); got != want {
		t.Errorf("CapacityMax = %d, want %d", got, want)
	}
}

func TestDeclareNoMemory(t *testing.T) {
	drv, _ := newTestDriver(t, 1)

	if _, r, _ := drv.Declare(1, 32, 10); r != ResultOk {
		t.Fatalf("Declare(0) = %v, want ResultOk", r)
	}
	if _, r, _ := drv.Declare(2, 32, 10); r != ResultNoMemory {
		t.Errorf("Declare(1) = %v, want ResultNoMemory", r)
	}
}

func TestBusyRejectsConcurrentCommands(t *testing.T) {
	drv, _ := newTestDriver(t, 1)
	id, _, _ := drv.Declare(1, 32, 10)

	if r, _ := drv.Scan(); r != ResultOk {
		t.Fatalf("Scan() = %v, want ResultOk", r)
	}
	if r, _ := drv.Scan(); r != ResultWorkerBusy {
		t.Errorf("second Scan() = %v, want ResultWorkerBusy", r)
	}
	if r, _ := drv.Append(id, []byte{1}); r != ResultWorkerBusy {
		t.Errorf("Append() while busy = %v, want ResultWorkerBusy", r)
	}
}

func TestAppendNoSuchQueue(t *testing.T) {
	drv, _ := newTestDriver(t, 1)
	if r, _ := drv.Append(7, []byte{1}); r != ResultNoSuchQueue {
		t.Errorf("Append(7) = %v, want ResultNoSuchQueue", r)
	}
}

func TestAppendQueueNotReady(t *testing.T) {
	drv, _ := newTestDriver(t, 1)
	id, _, _ := drv.Declare(1, 32, 10)
	if r, _ := drv.Append(id, []byte{1}); r != ResultQueueNotReady {
		t.Errorf("Append() before Scan = %v, want ResultQueueNotReady", r)
	}
}

// TestResetRecoversFromStuckCommand covers the host-timeout recovery
// path: Reset must clear busy/cmd/stage without touching the flash,
// freeing the driver to accept a new command.
func TestResetRecoversFromStuckCommand(t *testing.T) {
	drv, _ := newTestDriver(t, 1)
	id, _, _ := drv.Declare(1, 32, 10)

	if r, _ := drv.Scan(); r != ResultOk {
		t.Fatalf("Scan() = %v, want ResultOk", r)
	}
	drv.Step() // stage a READ_STATUS request, then abandon it mid-flight

	drv.Reset()

	if drv.Busy() {
		t.Errorf("Busy() after Reset = true, want false")
	}
	if n := drv.SpiLen(); n != 0 {
		t.Errorf("SpiLen() after Reset = %d, want 0", n)
	}
	if r, _ := drv.Append(id, []byte{1}); r != ResultQueueNotReady {
		t.Errorf("Append() after Reset = %v, want ResultQueueNotReady (queue still not scanned)", r)
	}
	if r, _ := drv.Scan(); r != ResultOk {
		t.Errorf("Scan() after Reset = %v, want ResultOk", r)
	}
}
