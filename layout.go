package ringalloc

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// blockHeader is written in-band at the start of every reserved region,
// immediately before the bytes handed back to the caller.
type blockHeader struct {
	listEntryOffset uint32
	blockLength     uint32
}

// headerSize is sizeof(blockHeader), verified against this exact value in
// layout_test.go so a future field reordering cannot silently change the
// wire layout.
var headerSize = uint32(unsafe.Sizeof(blockHeader{}))

// headerAlign is alignof(blockHeader); used to validate that a candidate
// header address is safe to reinterpret.
var headerAlign = uint32(unsafe.Alignof(blockHeader{}))

// alignUp rounds size up to the next multiple of alignment. alignment must
// be a power of two; an alignment of 0 is treated as "no rounding".
func alignUp[T constraints.Unsigned](size, alignment T) T {
	if alignment == 0 {
		return size
	}
	return (size + alignment - 1) &^ (alignment - 1)
}

// isPowerOfTwo reports whether v is a power of two. Zero is not.
func isPowerOfTwo[T constraints.Unsigned](v T) bool {
	return v != 0 && v&(v-1) == 0
}

// offsetToPtr translates offset into a pointer within [base, base+totalSize],
// reporting false if the offset is out of bounds.
func offsetToPtr(base unsafe.Pointer, offset, totalSize uint32) (unsafe.Pointer, bool) {
	if offset > totalSize {
		return nil, false
	}
	return unsafe.Add(base, offset), true
}

// headerAt reinterprets the bytes at offset as a blockHeader, first
// validating both that the header's alignment requirement is met at that
// address and that the header fits before totalSize. A failure here is
// reported upstream as ErrCorruptedBufferBlock.
func headerAt(base unsafe.Pointer, offset, totalSize uint32) (*blockHeader, bool) {
	if offset > totalSize || totalSize-offset < headerSize {
		return nil, false
	}
	ptr, ok := offsetToPtr(base, offset, totalSize)
	if !ok {
		return nil, false
	}
	if uintptr(ptr)%uintptr(headerAlign) != 0 {
		return nil, false
	}
	return (*blockHeader)(ptr), true
}
