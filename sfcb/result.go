// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package sfcb

import "fmt"

// Result is the closed set of outcome codes a command entry point or
// a completed worker run can report.
type Result string

const (
	ResultOk             Result = "ok"
	ResultNoFlash        Result = "no_flash"
	ResultNoMemory       Result = "no_memory"
	ResultFlashFull      Result = "flash_full"
	ResultWorkerBusy     Result = "worker_busy"
	ResultNoSuchQueue    Result = "no_such_queue"
	ResultQueueNotReady  Result = "queue_not_ready"
	ResultBufferTooSmall Result = "buffer_too_small"
	ResultQueueEmpty     Result = "queue_empty"
	ResultUnknownState   Result = "unknown_state"
)

// Error wraps a Result with the queue ordinal and worker stage it was
// raised from. Queue is -1 when the error is not queue-specific.
type Error struct {
	Result Result
	Queue  int
	Stage  stage
}

func (e *Error) Error() string {
	if e.Queue < 0 {
		return fmt.Sprintf("sfcb: %s", e.Result)
	}
	return fmt.Sprintf("sfcb: %s (queue %d, stage %d)", e.Result, e.Queue, e.Stage)
}

func newError(r Result, queue int, s stage) *Error {
	return &Error{Result: r, Queue: queue, Stage: s}
}
