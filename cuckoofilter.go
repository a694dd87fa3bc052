package cuckoo

import (
	"io"
	"math/rand/v2"
)

// loadFactorCapacity is the share of slots a filter is considered able to
// fill before kick chains start to fail.
const loadFactorCapacity = 0.95

// Seeds for the default eviction source.
const (
	defaultRandSeed1 = 0x2545f4914f6cdd1d
	defaultRandSeed2 = 0x9e3779b97f4a7c15
)

// Filter is a probabilistic set with deletion.
//
// A Filter is not safe for concurrent use. A single Insert may move
// fingerprints across many buckets, so callers sharing a filter must
// serialize every call.
type Filter interface {
	// Lookup returns true if data is in the filter.
	Lookup(data []byte) bool
	// Insert data into the filter. Returns false if the kick budget ran out.
	// The displaced fingerprint is then kept as the victim, which is still
	// found by Lookup and Delete. A second failure while a victim is held
	// overwrites it and that element is lost.
	// To increase success rate of inserts, create a larger filter.
	Insert(data []byte) bool
	// Delete data from the filter. Returns true if the data was found and deleted.
	Delete(data []byte) bool
	// Count returns the number of items in the filter, including the victim.
	Count() uint
	// Capacity is 95% of the slot count.
	Capacity() uint
	IsFull() bool
	IsEmpty() bool
	// Availability returns the fraction of slots that are free.
	Availability() float64
	// LoadFactor returns the fraction of slots that are occupied.
	LoadFactor() float64
	// TableSize returns the number of buckets.
	TableSize() uint
	// Reset removes all items from the filter, setting count to 0.
	Reset()
	// Print dumps every bucket in hex, one line per bucket.
	Print(w io.Writer) error
}

// victim is a fingerprint that could not be placed. fp == nullFp means none.
type victim struct {
	index uint
	fp    uint32
}

type filter[C codec] struct {
	table  *table[C]
	hasher Hasher
	// Bit mask set to table size - 1. As the table size is always a power
	// of 2, applying this mask mimics the operation x % size.
	bucketIndexMask uint
	fpMask          uint32
	maxKicks        int

	victim   victim
	count    uint
	capacity uint
	isFull   bool
	isEmpty  bool
}

// NewFilter returns a filter with at least cfg.NumBuckets buckets.
// It fails if the fingerprint layout is not supported.
func NewFilter(cfg Config) (Filter, error) {
	bits, _, err := cfg.layout()
	if err != nil {
		return nil, err
	}
	size, err := cfg.tableSize()
	if err != nil {
		return nil, err
	}
	switch bits {
	case 4:
		return newFilter[codec4](cfg, size), nil
	case 8:
		return newFilter[codec8](cfg, size), nil
	case 12:
		return newFilter[codec12](cfg, size), nil
	case 32:
		return newFilter[codec32](cfg, size), nil
	default:
		return newFilter[codec16](cfg, size), nil
	}
}

func newFilter[C codec](cfg Config, size uint) *filter[C] {
	src := cfg.Rand
	if src == nil {
		src = rand.NewPCG(defaultRandSeed1, defaultRandSeed2)
	}
	h := cfg.Hasher
	if h == nil {
		h = DefaultHasher{}
	}
	maxKicks := cfg.MaxKicks
	if maxKicks <= 0 {
		maxKicks = DefaultMaxKicks
	}
	t := newTable[C](size, rand.New(src))
	return &filter[C]{
		table:           t,
		hasher:          h,
		bucketIndexMask: size - 1,
		fpMask:          t.fpMask,
		maxKicks:        maxKicks,
		capacity:        uint(loadFactorCapacity * float64(t.maxElements())),
		isEmpty:         true,
	}
}

func (cf *filter[C]) indexComplement(i uint, fp uint32) uint {
	return getAltIndex(fp, i, cf.bucketIndexMask)
}

// firstPass returns the primary bucket, its partner and the fingerprint.
func (cf *filter[C]) firstPass(data []byte) (i1, i2 uint, fp uint32) {
	i1, fp = getIndexAndFingerprint(cf.hasher, data, cf.bucketIndexMask, cf.fpMask)
	return i1, cf.indexComplement(i1, fp), fp
}

func (cf *filter[C]) victimMatches(fp uint32, i1, i2 uint) bool {
	return cf.victim.fp != nullFp && cf.victim.fp == fp && (cf.victim.index == i1 || cf.victim.index == i2)
}

func (cf *filter[C]) Lookup(data []byte) bool {
	i1, i2, fp := cf.firstPass(data)
	return cf.victimMatches(fp, i1, i2) || cf.table.containsEither(i1, i2, fp)
}

func (cf *filter[C]) Insert(data []byte) bool {
	i, _, fp := cf.firstPass(data)
	hadVictim := cf.victim.fp != nullFp
	if cf.insert(fp, i) {
		cf.refreshOnInsert()
		return true
	}
	// The element is still a member through the victim, unless it replaced
	// an earlier one.
	if !hadVictim {
		cf.refreshOnInsert()
	}
	return false
}

// insert places fp starting at bucket i. The first round only looks for a
// free slot; later rounds evict a random fingerprint and carry it to its
// alternate bucket. If no round succeeds the carried fingerprint becomes the
// victim, replacing any previous one. insert does not touch the count.
func (cf *filter[C]) insert(fp uint32, i uint) bool {
	for kicks := 0; kicks < cf.maxKicks; kicks++ {
		eject := kicks != 0
		placed, evicted := cf.table.replacingInsert(i, fp, eject)
		if placed {
			return true
		}
		if eject {
			fp = evicted
		}
		i = cf.indexComplement(i, fp)
	}
	cf.victim = victim{index: i, fp: fp}
	return false
}

func (cf *filter[C]) Delete(data []byte) bool {
	i1, i2, fp := cf.firstPass(data)
	if cf.table.deleteFingerprint(fp, i1) || cf.table.deleteFingerprint(fp, i2) {
		cf.refreshOnDelete()
		if cf.victim.fp != nullFp {
			// The freed slot may fit the victim. If it does not, insert
			// parks it again, so the count is unaffected either way.
			v := cf.victim
			cf.victim = victim{}
			cf.insert(v.fp, v.index)
		}
		return true
	}
	if cf.victimMatches(fp, i1, i2) {
		cf.victim = victim{}
		cf.refreshOnDelete()
		return true
	}
	return false
}

func (cf *filter[C]) refreshOnInsert() {
	cf.count++
	cf.isFull = cf.count >= cf.capacity
	cf.isEmpty = false
}

func (cf *filter[C]) refreshOnDelete() {
	cf.count--
	cf.isFull = cf.count >= cf.capacity
	cf.isEmpty = cf.count == 0
}

func (cf *filter[C]) Count() uint {
	return cf.count
}

func (cf *filter[C]) Capacity() uint {
	return cf.capacity
}

func (cf *filter[C]) IsFull() bool {
	return cf.isFull
}

func (cf *filter[C]) IsEmpty() bool {
	return cf.isEmpty
}

func (cf *filter[C]) Availability() float64 {
	return float64(cf.table.freeEntries()) / float64(cf.table.maxElements())
}

func (cf *filter[C]) LoadFactor() float64 {
	return float64(cf.count) / float64(cf.table.maxElements())
}

func (cf *filter[C]) TableSize() uint {
	return cf.table.size()
}

func (cf *filter[C]) Reset() {
	cf.table.reset()
	cf.victim = victim{}
	cf.count = 0
	cf.isFull = false
	cf.isEmpty = true
}

func (cf *filter[C]) Print(w io.Writer) error {
	return cf.table.print(w)
}
