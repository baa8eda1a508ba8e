// SPI Flash Circular Buffer Queue driver
// https://github.com/andkae/SPI-Flash-Circular-Buffer
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package queue

import (
	"bytes"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Magic: 0xdeadbeef, ID: 42}

	got := ParseHeader(h.Bytes())
	if got != h {
		t.Errorf("ParseHeader(Bytes()) = %+v, want %+v", got, h)
	}
}

func TestHeaderBytesLittleEndian(t *testing.T) {
	h := Header{Magic: 0x01020304, ID: 0x05060708}

	want := []byte{0x04, 0x03, 0x02, 0x01, 0x08, 0x07, 0x06, 0x05}
	if got := h.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Bytes() = %x, want %x", got, want)
	}
}

func TestPutBytes(t *testing.T) {
	h := Header{Magic: 1, ID: 2}

	b := make([]byte, HeaderSize)
	h.PutBytes(b)

	if !bytes.Equal(b, h.Bytes()) {
		t.Errorf("PutBytes() = %x, want %x", b, h.Bytes())
	}
}

func TestClean(t *testing.T) {
	if !Clean(bytes.Repeat([]byte{0xff}, HeaderSize)) {
		t.Error("Clean() = false for all-0xFF slice, want true")
	}
	if Clean(Header{Magic: 1, ID: 1}.Bytes()) {
		t.Error("Clean() = true for a written header, want false")
	}
}
