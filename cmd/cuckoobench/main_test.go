package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	cuckoo "github.com/livekit/packedcuckoo"
)

func TestHasherByName(t *testing.T) {
	h, err := hasherByName("default")
	require.NoError(t, err)
	require.IsType(t, cuckoo.DefaultHasher{}, h)

	h, err = hasherByName("murmur3")
	require.NoError(t, err)
	require.IsType(t, cuckoo.Murmur3Hasher{}, h)

	h, err = hasherByName("xxhash")
	require.NoError(t, err)
	require.IsType(t, cuckoo.XXHashHasher{}, h)

	_, err = hasherByName("md5")
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	err := run(options{buckets: 64, bits: 8, iterations: 2, hasher: "murmur3", seed: 1})
	require.NoError(t, err)

	err = run(options{buckets: 64, bits: 9, iterations: 1, hasher: "default"})
	require.ErrorIs(t, err, cuckoo.ErrUnsupportedLayout)
}
