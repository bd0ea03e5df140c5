package ringalloc

import (
	"testing"
	"unsafe"
)

func TestHeaderSizeIsStable(t *testing.T) {
	// Pinned exactly so a future field reordering in blockHeader can't
	// silently change the wire layout without this test failing.
	if headerSize != 8 {
		t.Fatalf("headerSize = %d, want 8 (two uint32 fields)", headerSize)
	}
	if headerAlign != 4 {
		t.Fatalf("headerAlign = %d, want 4", headerAlign)
	}
}

func TestAlignUp(t *testing.T) {
	cases := []struct{ size, alignment, want uint32 }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{5, 0, 5}, // zero alignment means no rounding
		{17, 16, 32},
	}
	for _, c := range cases {
		if got := alignUp(c.size, c.alignment); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.size, c.alignment, got, c.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []uint32{1, 2, 4, 8, 16, 4096} {
		if !isPowerOfTwo(v) {
			t.Errorf("isPowerOfTwo(%d) = false, want true", v)
		}
	}
	for _, v := range []uint32{0, 3, 5, 6, 100} {
		if isPowerOfTwo(v) {
			t.Errorf("isPowerOfTwo(%d) = true, want false", v)
		}
	}
}

func TestOffsetToPtr(t *testing.T) {
	buf := make([]byte, 64)
	base := unsafe.Pointer(&buf[0])

	ptr, ok := offsetToPtr(base, 10, 64)
	if !ok {
		t.Fatal("expected in-bounds offset to succeed")
	}
	if ptr != unsafe.Add(base, 10) {
		t.Fatal("offsetToPtr returned unexpected address")
	}

	if _, ok := offsetToPtr(base, 65, 64); ok {
		t.Fatal("expected out-of-bounds offset to fail")
	}

	// An offset equal to totalSize is the valid "one past the end" pointer.
	if _, ok := offsetToPtr(base, 64, 64); !ok {
		t.Fatal("expected offset == totalSize to succeed")
	}
}

func TestHeaderAt(t *testing.T) {
	buf := make([]byte, 64)
	base := unsafe.Pointer(&buf[0])

	h, ok := headerAt(base, 0, 64)
	if !ok {
		t.Fatal("expected offset 0 to yield a valid header")
	}
	h.listEntryOffset = 7
	h.blockLength = 32

	h2, ok := headerAt(base, 0, 64)
	if !ok || h2.listEntryOffset != 7 || h2.blockLength != 32 {
		t.Fatal("expected to read back the same header bytes")
	}

	if _, ok := headerAt(base, 60, 64); ok {
		t.Fatal("expected a header that would overrun totalSize to fail")
	}

	if _, ok := headerAt(base, 1, 64); ok {
		t.Fatal("expected a misaligned header offset to fail")
	}
}
