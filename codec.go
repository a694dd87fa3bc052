package cuckoo

import "encoding/binary"

// codec packs fixed-width fingerprints into a bucket's bytes.
//
// Slot j occupies bits [j*bits, (j+1)*bits) of the bucket read as a
// little-endian word, so bit 0 is the least significant bit of byte 0.
// Both read and hasValue depend on this layout.
type codec interface {
	bits() uint
	entries() uint
	// read returns the fingerprint stored at slot.
	read(slot uint, b []byte) uint32
	// write stores fp, masked to bits(), at slot.
	write(slot uint, b []byte, fp uint32)
	// hasValue reports whether fp is stored in the bucket held by word.
	hasValue(word uint64, fp uint32) bool
}

// hasZero reports whether any lane of v selected by hi is zero. lo has the
// lowest bit of every lane set and hi the highest.
func hasZero(v, lo, hi uint64) bool {
	return (v-lo)&^v&hi != 0
}

type codec4 struct{}

func (codec4) bits() uint    { return 4 }
func (codec4) entries() uint { return 4 }

func (codec4) read(slot uint, b []byte) uint32 {
	off := slot * 4
	return uint32(b[off>>3]>>(off&7)) & 0xf
}

func (codec4) write(slot uint, b []byte, fp uint32) {
	off := slot * 4
	i, shift := off>>3, off&7
	b[i] = b[i]&^(0xf<<shift) | byte(fp&0xf)<<shift
}

func (codec4) hasValue(word uint64, fp uint32) bool {
	v := word&0xffff ^ 0x1111*uint64(fp&0xf)
	return hasZero(v, 0x1111, 0x8888)
}

type codec8 struct{}

func (codec8) bits() uint    { return 8 }
func (codec8) entries() uint { return 4 }

func (codec8) read(slot uint, b []byte) uint32 {
	return uint32(b[slot])
}

func (codec8) write(slot uint, b []byte, fp uint32) {
	b[slot] = byte(fp)
}

func (codec8) hasValue(word uint64, fp uint32) bool {
	v := word&0xffffffff ^ 0x01010101*uint64(fp&0xff)
	return hasZero(v, 0x01010101, 0x80808080)
}

// codec12 slots straddle byte boundaries: odd slots start on a high nibble.
type codec12 struct{}

func (codec12) bits() uint    { return 12 }
func (codec12) entries() uint { return 4 }

func (codec12) read(slot uint, b []byte) uint32 {
	off := slot * 12
	i, shift := off>>3, off&7
	w := uint16(b[i]) | uint16(b[i+1])<<8
	return uint32(w>>shift) & 0xfff
}

func (codec12) write(slot uint, b []byte, fp uint32) {
	off := slot * 12
	i, shift := off>>3, off&7
	w := uint16(b[i]) | uint16(b[i+1])<<8
	w = w&^(0xfff<<shift) | uint16(fp&0xfff)<<shift
	b[i] = byte(w)
	b[i+1] = byte(w >> 8)
}

func (codec12) hasValue(word uint64, fp uint32) bool {
	v := word&0xffffffffffff ^ 0x001001001001*uint64(fp&0xfff)
	return hasZero(v, 0x001001001001, 0x800800800800)
}

type codec16 struct{}

func (codec16) bits() uint    { return 16 }
func (codec16) entries() uint { return 4 }

func (codec16) read(slot uint, b []byte) uint32 {
	return uint32(binary.LittleEndian.Uint16(b[slot*2:]))
}

func (codec16) write(slot uint, b []byte, fp uint32) {
	binary.LittleEndian.PutUint16(b[slot*2:], uint16(fp))
}

func (codec16) hasValue(word uint64, fp uint32) bool {
	v := word ^ 0x0001000100010001*uint64(fp&0xffff)
	return hasZero(v, 0x0001000100010001, 0x8000800080008000)
}

type codec32 struct{}

func (codec32) bits() uint    { return 32 }
func (codec32) entries() uint { return 2 }

func (codec32) read(slot uint, b []byte) uint32 {
	return binary.LittleEndian.Uint32(b[slot*4:])
}

func (codec32) write(slot uint, b []byte, fp uint32) {
	binary.LittleEndian.PutUint32(b[slot*4:], fp)
}

func (codec32) hasValue(word uint64, fp uint32) bool {
	v := word ^ 0x0000000100000001*uint64(fp)
	return hasZero(v, 0x0000000100000001, 0x8000000080000000)
}

// bytesPerBucket is the packed size of one bucket for c.
func bytesPerBucket(c codec) uint {
	return (c.bits()*c.entries() + 7) / 8
}
