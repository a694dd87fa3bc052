package cuckoo

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// FilterPrecision selects a fingerprint width when Config.BitsPerFingerprint
// is unset.
type FilterPrecision uint

const (
	Medium  FilterPrecision = iota // 16 bit fingerprints, 4 per bucket
	Low                            // 8 bit fingerprints, 4 per bucket
	High                           // 32 bit fingerprints, 2 per bucket
	Tiny                           // 4 bit fingerprints, 4 per bucket
	Compact                        // 12 bit fingerprints, 4 per bucket
)

// DefaultMaxKicks is the number of insertion rounds attempted before the
// displaced fingerprint is parked as the victim.
const DefaultMaxKicks = 500

// maxTableSize bounds the bucket count to what a 32 bit index seed can reach.
const maxTableSize = 1 << 32

var (
	ErrUnsupportedLayout = errors.New("cuckoo: unsupported fingerprint layout")
	ErrTableTooLarge     = errors.New("cuckoo: table size exceeds 2^32 buckets")
)

type Config struct {
	// NumBuckets is the minimum number of buckets, rounded up to a power of two.
	NumBuckets uint
	Precision  FilterPrecision
	// BitsPerFingerprint and EntriesPerBucket override Precision. Supported
	// pairs are 4/4, 8/4, 12/4, 16/4 and 32/2. A zero EntriesPerBucket picks
	// the pair matching BitsPerFingerprint.
	BitsPerFingerprint uint
	EntriesPerBucket   uint
	// Hasher defaults to DefaultHasher.
	Hasher Hasher
	// Rand drives eviction slot choice. Defaults to a PCG source with a fixed
	// seed so that runs are reproducible.
	Rand rand.Source
	// MaxKicks defaults to DefaultMaxKicks.
	MaxKicks int
}

func (p FilterPrecision) bits() uint {
	switch p {
	case Low:
		return 8
	case High:
		return 32
	case Tiny:
		return 4
	case Compact:
		return 12
	default:
		return 16
	}
}

func entriesFor(bits uint) uint {
	if bits == 32 {
		return 2
	}
	return 4
}

// layout resolves the fingerprint width and bucket size for cfg.
func (cfg Config) layout() (bits, entries uint, err error) {
	bits = cfg.BitsPerFingerprint
	if bits == 0 {
		bits = cfg.Precision.bits()
	}
	entries = cfg.EntriesPerBucket
	if entries == 0 {
		entries = entriesFor(bits)
	}
	switch {
	case entries == 4 && (bits == 4 || bits == 8 || bits == 12 || bits == 16):
	case entries == 2 && bits == 32:
	default:
		return 0, 0, fmt.Errorf("%w: %d bits per fingerprint with %d entries per bucket", ErrUnsupportedLayout, bits, entries)
	}
	return bits, entries, nil
}

func (cfg Config) tableSize() (uint, error) {
	if uint64(cfg.NumBuckets) > maxTableSize {
		return 0, fmt.Errorf("%w: %d", ErrTableTooLarge, cfg.NumBuckets)
	}
	n := getNextPow2(uint64(cfg.NumBuckets))
	if n == 0 {
		n = 1
	}
	return n, nil
}
