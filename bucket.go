package cuckoo

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const nullFp = 0

// bucket is a view of the packed bytes of a single bucket. Reading the
// bucket as a word requires 8 addressable bytes from the start of the view,
// which the owning table guarantees through padding.
type bucket[C codec] []byte

func (b bucket[C]) get(slot uint) uint32 {
	var c C
	return c.read(slot, b)
}

func (b bucket[C]) set(slot uint, fp uint32) {
	var c C
	c.write(slot, b, fp)
}

// insert a fingerprint into the first free slot. Returns true if there was
// enough space. Note it allows inserting the same fingerprint multiple times.
func (b bucket[C]) insert(fp uint32) bool {
	var c C
	for j := uint(0); j < c.entries(); j++ {
		if c.read(j, b) == nullFp {
			c.write(j, b, fp)
			return true
		}
	}
	return false
}

// delete the first slot holding fp.
// Returns true if the fingerprint was present and successfully removed.
func (b bucket[C]) delete(fp uint32) bool {
	var c C
	for j := uint(0); j < c.entries(); j++ {
		if c.read(j, b) == fp {
			c.write(j, b, nullFp)
			return true
		}
	}
	return false
}

// contains scans every slot. It is the reference for the word-level test.
func (b bucket[C]) contains(needle uint32) bool {
	var c C
	for j := uint(0); j < c.entries(); j++ {
		if c.read(j, b) == needle {
			return true
		}
	}
	return false
}

// swap stores fp at slot and returns the previous value.
func (b bucket[C]) swap(slot uint, fp uint32) uint32 {
	prev := b.get(slot)
	b.set(slot, fp)
	return prev
}

// count returns the number of occupied slots.
func (b bucket[C]) count() uint {
	var c C
	n := uint(0)
	for j := uint(0); j < c.entries(); j++ {
		if c.read(j, b) != nullFp {
			n++
		}
	}
	return n
}

// word loads the bucket as a little-endian uint64. Bits past the end of the
// bucket belong to its neighbour and are ignored by codec.hasValue.
func (b bucket[C]) word() uint64 {
	return binary.LittleEndian.Uint64(b[:8])
}

// reset deletes all fingerprints in the bucket.
func (b bucket[C]) reset() {
	var c C
	for j := uint(0); j < c.entries(); j++ {
		c.write(j, b, nullFp)
	}
}

func (b bucket[C]) String() string {
	var c C
	var buf bytes.Buffer
	for j := uint(0); j < c.entries(); j++ {
		buf.WriteString(fmt.Sprintf("%08x ", c.read(j, b)))
	}
	return buf.String()
}
