package cuckoo

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// newBucket allocates a standalone bucket with room for a word load.
func newBucket[C codec]() bucket[C] {
	var c C
	return bucket[C](make([]byte, bytesPerBucket(c), 8))
}

func testBucketReset[C codec](t *testing.T) {
	bkt := newBucket[C]()
	var c C
	for i := uint32(0); i < uint32(c.entries()); i++ {
		bkt.insert(i + 1)
	}

	bkt.reset()

	want := newBucket[C]()
	if diff := cmp.Diff([]byte(want), []byte(bkt)); diff != "" {
		t.Errorf("bucket.reset() mismatch (-want +got):\n%s", diff)
	}
}

func testBucketInsert[C codec](t *testing.T) {
	bkt := newBucket[C]()
	var c C
	for i := uint32(0); i < uint32(c.entries()); i++ {
		if !bkt.insert(i + 1) {
			t.Error("bucket insert failed")
		}
	}
	if bkt.insert(5) {
		t.Error("expected bucket insert to fail after overflow")
	}
	if got := bkt.count(); got != c.entries() {
		t.Errorf("bucket.count() got %d, want %d", got, c.entries())
	}
}

func testBucketDelete[C codec](t *testing.T) {
	bkt := newBucket[C]()
	var c C
	for i := uint32(0); i < uint32(c.entries()); i++ {
		bkt.insert(i + 1)
	}

	for i := uint32(0); i < uint32(c.entries()); i++ {
		if !bkt.delete(i + 1) {
			t.Error("bucket delete failed")
		}
		if !bkt.insert(i + 1) {
			t.Error("bucket insert after delete failed")
		}
	}
	if bkt.delete(9) {
		t.Error("deleted a fingerprint that was never inserted")
	}
}

func testBucketSwap[C codec](t *testing.T) {
	bkt := newBucket[C]()
	var c C
	last := c.entries() - 1
	bkt.insert(1)
	bkt.set(last, 3)
	if prev := bkt.swap(last, 7); prev != 3 {
		t.Errorf("swap returned unexpected value %d", prev)
	}
	if !bkt.contains(7) {
		t.Errorf("contains after swap failed")
	}
	if got := bkt.get(0); got != 1 {
		t.Errorf("swap clobbered slot 0, got %d", got)
	}
}

func testBucketContains[C codec](t *testing.T) {
	bkt := newBucket[C]()
	var c C
	for i := uint32(0); i < uint32(c.entries()); i++ {
		bkt.insert(i + 1)
	}

	for i := uint32(0); i < uint32(c.entries()); i++ {
		if !bkt.contains(i + 1) {
			t.Error("bucket contains failed")
		}
		if !c.hasValue(bkt.word(), i+1) {
			t.Error("word level contains failed")
		}
	}
	if bkt.contains(9) || c.hasValue(bkt.word(), 9) {
		t.Error("bucket contains reported a missing fingerprint")
	}
}

func forEachCodec(t *testing.T, name string, fns map[string]func(*testing.T)) {
	for codecName, fn := range fns {
		t.Run(name+"/"+codecName, fn)
	}
}

func TestBucket_Reset(t *testing.T) {
	forEachCodec(t, "reset", map[string]func(*testing.T){
		"4": testBucketReset[codec4], "8": testBucketReset[codec8], "12": testBucketReset[codec12],
		"16": testBucketReset[codec16], "32": testBucketReset[codec32],
	})
}

func TestBucket_Insert(t *testing.T) {
	forEachCodec(t, "insert", map[string]func(*testing.T){
		"4": testBucketInsert[codec4], "8": testBucketInsert[codec8], "12": testBucketInsert[codec12],
		"16": testBucketInsert[codec16], "32": testBucketInsert[codec32],
	})
}

func TestBucket_Delete(t *testing.T) {
	forEachCodec(t, "delete", map[string]func(*testing.T){
		"4": testBucketDelete[codec4], "8": testBucketDelete[codec8], "12": testBucketDelete[codec12],
		"16": testBucketDelete[codec16], "32": testBucketDelete[codec32],
	})
}

func TestBucket_Swap(t *testing.T) {
	forEachCodec(t, "swap", map[string]func(*testing.T){
		"4": testBucketSwap[codec4], "8": testBucketSwap[codec8], "12": testBucketSwap[codec12],
		"16": testBucketSwap[codec16], "32": testBucketSwap[codec32],
	})
}

func TestBucket_Contains(t *testing.T) {
	forEachCodec(t, "contains", map[string]func(*testing.T){
		"4": testBucketContains[codec4], "8": testBucketContains[codec8], "12": testBucketContains[codec12],
		"16": testBucketContains[codec16], "32": testBucketContains[codec32],
	})
}

func TestBucket_String(t *testing.T) {
	bkt := newBucket[codec12]()
	bkt.insert(0xabc)
	if got, want := bkt.String(), "00000abc 00000000 00000000 00000000 "; got != want {
		t.Errorf("bucket.String() got %q, want %q", got, want)
	}
}
