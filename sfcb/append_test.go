// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import (
	"bytes"
	"math/rand"
	"testing"
)

// TestAppendThenGetLastRoundTrip checks a single append lands intact
// and is retrievable after a rescan.
func TestAppendThenGetLastRoundTrip(t *testing.T) {
	drv, ff := newTestDriver(t, 1)
	id, _, _ := drv.Declare(0x47114711, 244, 32)

	drv.Scan()
	runUntilIdle(t, drv, ff)

	payload := make([]byte, 244)
	rand.New(rand.NewSource(1)).Read(payload)

	if r, err := drv.Append(id, payload); r != ResultOk {
		t.Fatalf("Append() = (%v, %v)", r, err)
	}
	runUntilIdle(t, drv, ff)

	if r, _ := drv.Scan(); r != ResultOk {
		t.Fatalf("Scan() after append failed")
	}
	runUntilIdle(t, drv, ff)

	out := make([]byte, 244)
	if r, err := drv.GetLast(id, out); r != ResultOk {
		t.Fatalf("GetLast() = (%v, %v)", r, err)
	}
	runUntilIdle(t, drv, ff)

	gotID, n := drv.LastGetResult()
	if !bytes.Equal(out[:n], payload) {
		t.Errorf("GetLast bytes = %x, want %x", out[:n], payload)
	}
	if gotID != drv.IDMax(id) {
		t.Errorf("GetLast id = %d, want IDMax() = %d", gotID, drv.IDMax(id))
	}
}

// TestAppendByteAtATime appends a 244-byte payload one byte per call,
// then reads it back whole.
func TestAppendByteAtATime(t *testing.T) {
	drv, ff := newTestDriver(t, 1)
	id, _, _ := drv.Declare(0x47114711, 244, 32)

	drv.Scan()
	runUntilIdle(t, drv, ff)

	payload := make([]byte, 244)
	for i := range payload {
		payload[i] = byte(i)
	}

	for i := 0; i < len(payload); i++ {
		if r, err := drv.Append(id, payload[i:i+1]); r != ResultOk {
			t.Fatalf("Append() byte %d = (%v, %v)", i, r, err)
		}
		runUntilIdle(t, drv, ff)
	}

	drv.Scan()
	runUntilIdle(t, drv, ff)

	out := make([]byte, 244)
	drv.GetLast(id, out)
	runUntilIdle(t, drv, ff)

	_, n := drv.LastGetResult()
	if !bytes.Equal(out[:n], payload) {
		t.Errorf("GetLast bytes = %x, want %x", out[:n], payload)
	}
}

// TestFinishAppendSealsShortRecord covers forcing a footer onto a
// record that is short of its full payload size.
func TestFinishAppendSealsShortRecord(t *testing.T) {
	drv, ff := newTestDriver(t, 1)
	id, _, _ := drv.Declare(0x47114711, 16, 8)

	drv.Scan()
	runUntilIdle(t, drv, ff)

	drv.Append(id, []byte{1, 2, 3, 4})
	runUntilIdle(t, drv, ff)

	if r, err := drv.FinishAppend(id); r != ResultOk {
		t.Fatalf("FinishAppend() = (%v, %v)", r, err)
	}
	runUntilIdle(t, drv, ff)

	drv.Scan()
	runUntilIdle(t, drv, ff)

	m := drv.reg.Meta(id)
	if !m.HasComplete {
		t.Fatal("HasComplete = false after FinishAppend, want true")
	}

	out := make([]byte, 16)
	drv.GetLast(id, out)
	runUntilIdle(t, drv, ff)

	if !bytes.Equal(out[:4], []byte{1, 2, 3, 4}) {
		t.Errorf("payload prefix = %x, want 01020304", out[:4])
	}
	for _, b := range out[4:] {
		if b != 0xff {
			t.Errorf("unused payload byte = %#x, want 0xff", b)
		}
	}
}

// TestFinishAppendOnFreshRecordIsNoOp covers the case where nothing has
// been appended yet: FinishAppend must not fabricate an empty record.
func TestFinishAppendOnFreshRecordIsNoOp(t *testing.T) {
	drv, ff := newTestDriver(t, 1)
	id, _, _ := drv.Declare(1, 16, 8)

	drv.Scan()
	runUntilIdle(t, drv, ff)

	if r, err := drv.FinishAppend(id); r != ResultOk {
		t.Fatalf("FinishAppend() = (%v, %v)", r, err)
	}
	if drv.Busy() {
		t.Error("FinishAppend() on a fresh record armed the worker, want a no-op")
	}
}
