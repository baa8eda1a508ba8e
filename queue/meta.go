// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package queue

import "math"

// Meta is the volatile, rebuilt-from-flash metadata of one queue. It
// is zeroed except for the id sentinels at declaration time, and is
// only trustworthy (Valid true) after a successful scan.
type Meta struct {
	// Valid is true once a scan has located this queue's first free
	// slot. It is cleared the instant a write starts on the queue and
	// re-established by the next scan.
	Valid bool

	// IDMax is the highest id_number among candidate records found,
	// complete or torn.
	IDMax uint32
	// IDMin is the lowest id_number among candidate records found.
	IDMin uint32

	// StartPageIDMin is the byte address of the record holding IDMin.
	StartPageIDMin uint32
	// StartPageIDMax is the byte address of the newest COMPLETE record.
	StartPageIDMax uint32
	// LastCompleteID is the id_number of the record at StartPageIDMax.
	LastCompleteID uint32
	// HasComplete is true once a scan has confirmed at least one
	// complete record in this queue. GetLast reports QueueEmpty while
	// this is false, since StartPageIDMax/LastCompleteID are otherwise
	// indistinguishable from a queue that legitimately has a complete
	// record at address/id 0.
	HasComplete bool

	// StartPageWrite is the byte address of the next free slot.
	StartPageWrite uint32
	// NumEntries is the count of candidate records discovered by the
	// last scan.
	NumEntries uint32

	// PayloadFlashOffset is the number of bytes already committed to
	// flash for the record currently being written (0 between
	// records).
	PayloadFlashOffset uint32
}

// NewMeta returns the zero-value metadata of a freshly declared queue:
// every field zero except the id sentinels, so that the first record a
// scan finds always beats IDMin and IDMax on its first comparison.
func NewMeta() Meta {
	return Meta{
		IDMax: 0,
		IDMin: math.MaxUint32,
	}
}

// Reset restores m to exactly the sentinel state NewMeta returns,
// Valid included: the queue is not ready again until a scan re-finds
// its first free slot.
func (m *Meta) Reset() {
	*m = NewMeta()
}
