package cuckoo

import (
	"github.com/cespare/xxhash"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/wyhash"
	"github.com/zeebo/xxh3"
)

// Hasher derives the two per-element seeds used by a filter. Hash selects
// the primary bucket and Fingerprint the stored tag; the two must not be
// trivially correlated or alternate buckets cluster. Both must be
// deterministic.
type Hasher interface {
	Hash(data []byte) uint32
	Fingerprint(data []byte) uint32
}

const wyhashFingerprintSeed = 0x9e3779b97f4a7c15

// DefaultHasher takes the index seed from xxh3 and the fingerprint seed
// from wyhash.
type DefaultHasher struct{}

func (DefaultHasher) Hash(data []byte) uint32 {
	return uint32(xxh3.Hash(data))
}

func (DefaultHasher) Fingerprint(data []byte) uint32 {
	return uint32(wyhash.Hash(data, wyhashFingerprintSeed) >> 32)
}

// Murmur3Hasher runs 32 bit murmur3 twice with independent seeds.
type Murmur3Hasher struct {
	IndexSeed       uint32
	FingerprintSeed uint32
}

// NewMurmur3Hasher returns a Murmur3Hasher with distinct default seeds.
func NewMurmur3Hasher() Murmur3Hasher {
	return Murmur3Hasher{IndexSeed: 0, FingerprintSeed: 1337}
}

func (h Murmur3Hasher) Hash(data []byte) uint32 {
	return murmur3.Sum32WithSeed(data, h.IndexSeed)
}

func (h Murmur3Hasher) Fingerprint(data []byte) uint32 {
	return murmur3.Sum32WithSeed(data, h.FingerprintSeed)
}

// XXHashHasher splits one 64 bit xxhash into index (low half) and
// fingerprint (high half) seeds.
type XXHashHasher struct{}

func (XXHashHasher) Hash(data []byte) uint32 {
	return uint32(xxhash.Sum64(data))
}

func (XXHashHasher) Fingerprint(data []byte) uint32 {
	return uint32(xxhash.Sum64(data) >> 32)
}
