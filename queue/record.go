// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package queue

import "encoding/binary"

// HeaderSize is the on-flash size, in bytes, of a record header.
const HeaderSize = 8

// FooterSize is the on-flash size, in bytes, of a record footer. It is
// identical in shape to the header (see Header), named separately
// because the two occupy different ends of a record.
const FooterSize = 8

// Header is the 8-byte tag written at the start of a record (the
// Header) and, in identical shape, at the end of a record (the
// Footer). A record is complete when the two are bit-identical; a
// torn record (power loss mid-write) has a header but a footer that is
// still erased or mismatched.
//
// Fields are little-endian on the wire regardless of host byte order —
// deserialize explicitly rather than overlaying the struct on raw
// bytes, which would be a portability trap on a big-endian host.
type Header struct {
	Magic uint32
	ID    uint32
}

// Bytes encodes h in its 8-byte little-endian wire form.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint32(b[4:8], h.ID)
	return b
}

// PutBytes encodes h into b, which must be at least HeaderSize long.
func (h Header) PutBytes(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], h.Magic)
	binary.LittleEndian.PutUint32(b[4:8], h.ID)
}

// ParseHeader decodes an 8-byte little-endian wire form into a Header.
// b must be at least HeaderSize long.
func ParseHeader(b []byte) Header {
	return Header{
		Magic: binary.LittleEndian.Uint32(b[0:4]),
		ID:    binary.LittleEndian.Uint32(b[4:8]),
	}
}

// Clean reports whether b (a HeaderSize-long slice read from flash) is
// entirely erased (0xFF), i.e. the slot it was read from has never
// been written since its sector was last erased.
func Clean(b []byte) bool {
	for _, v := range b {
		if v != 0xFF {
			return false
		}
	}
	return true
}
