package cuckoo

import (
	"fmt"
	"io"
	"math/rand/v2"
)

// wordPadding lets the last bucket be loaded as a 64-bit word.
const wordPadding = 7

// table is a power-of-two sized array of packed buckets.
//
// All bucket and slot indices are trusted to be in range.
type table[C codec] struct {
	data           []byte
	numBuckets     uint
	bytesPerBucket uint
	fpMask         uint32
	rng            *rand.Rand
}

func newTable[C codec](numBuckets uint, rng *rand.Rand) *table[C] {
	var c C
	n := bytesPerBucket(c)
	return &table[C]{
		data:           make([]byte, numBuckets*n+wordPadding),
		numBuckets:     numBuckets,
		bytesPerBucket: n,
		fpMask:         uint32(uint64(1)<<c.bits() - 1),
		rng:            rng,
	}
}

func (t *table[C]) bucket(i uint) bucket[C] {
	off := i * t.bytesPerBucket
	return bucket[C](t.data[off : off+t.bytesPerBucket])
}

func (t *table[C]) size() uint {
	return t.numBuckets
}

func (t *table[C]) maxElements() uint {
	var c C
	return c.entries() * t.numBuckets
}

func (t *table[C]) getFingerprint(i, j uint) uint32 {
	return t.bucket(i).get(j) & t.fpMask
}

func (t *table[C]) fingerprintCount(i uint) uint {
	return t.bucket(i).count()
}

// insertFingerprint overwrites slot j of bucket i unconditionally.
func (t *table[C]) insertFingerprint(i, j uint, fp uint32) {
	t.bucket(i).set(j, fp&t.fpMask)
}

// replacingInsert stores fp in a free slot of bucket i and reports placed.
// If the bucket is full and eject is set, a random slot is overwritten with
// fp and its previous value is returned as evicted; placed is still false
// because the evicted fingerprint needs a new home.
func (t *table[C]) replacingInsert(i uint, fp uint32, eject bool) (placed bool, evicted uint32) {
	b := t.bucket(i)
	fp &= t.fpMask
	if b.insert(fp) {
		return true, nullFp
	}
	if !eject {
		return false, nullFp
	}
	var c C
	return false, b.swap(uint(t.rng.IntN(int(c.entries()))), fp)
}

func (t *table[C]) containsFingerprint(i uint, fp uint32) bool {
	var c C
	return c.hasValue(t.bucket(i).word(), fp&t.fpMask)
}

func (t *table[C]) containsEither(i1, i2 uint, fp uint32) bool {
	return t.containsFingerprint(i1, fp) || t.containsFingerprint(i2, fp)
}

// deleteFingerprint clears the first slot of bucket i holding fp.
func (t *table[C]) deleteFingerprint(fp uint32, i uint) bool {
	return t.bucket(i).delete(fp & t.fpMask)
}

func (t *table[C]) freeEntries() uint {
	var c C
	free := uint(0)
	for i := uint(0); i < t.numBuckets; i++ {
		free += c.entries() - t.bucket(i).count()
	}
	return free
}

func (t *table[C]) reset() {
	clear(t.data)
}

// print writes one line per bucket with every slot in hex.
func (t *table[C]) print(w io.Writer) error {
	for i := uint(0); i < t.numBuckets; i++ {
		if _, err := fmt.Fprintf(w, "%d | %s\n", i, t.bucket(i)); err != nil {
			return err
		}
	}
	return nil
}
