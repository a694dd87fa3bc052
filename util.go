package cuckoo

import (
	"encoding/binary"

	metro "github.com/dgryski/go-metro"
)

const altIndexSeed = 1337

// getAltIndex returns the partner bucket of i for fp. Because the hash
// depends on fp alone, getAltIndex(fp, getAltIndex(fp, i, m), m) == i.
func getAltIndex(fp uint32, i uint, bucketIndexMask uint) uint {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], fp)
	hash := uint(metro.Hash64(b[:], altIndexSeed))
	return (i ^ hash) & bucketIndexMask
}

// getFingerprint masks the seed to the fingerprint width. Zero is the empty
// slot marker, so it is mapped to 1.
func getFingerprint(seed, fpMask uint32) uint32 {
	fp := seed & fpMask
	if fp == nullFp {
		fp = 1
	}
	return fp
}

// getIndexAndFingerprint returns the primary bucket index and fingerprint to be used
func getIndexAndFingerprint(h Hasher, data []byte, bucketIndexMask uint, fpMask uint32) (uint, uint32) {
	i := uint(h.Hash(data)) & bucketIndexMask
	return i, getFingerprint(h.Fingerprint(data), fpMask)
}

func getNextPow2(n uint64) uint {
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return uint(n)
}
