package ringalloc

// Region is an allocator handle: the Go-idiomatic replacement for the
// distilled specification's raw "pointer or null" return value. A nil
// *Region plays the role of null.
//
// Region intentionally does not expose the block header or its own list
// index publicly; both are implementation detail of the allocator that
// issued it.
type Region struct {
	a          *Allocator
	blockStart uint32 // offset of the in-band header, not the user bytes
	userSize   uint32 // the size originally requested, not the aligned block size
	listIndex  uint32
}

// Offset returns the offset (from the buffer base) of the first user byte,
// i.e. just past this region's header. It is exposed for diagnostics and
// tests; ordinary callers should prefer Bytes.
func (r *Region) Offset() uint32 {
	return r.blockStart + headerSize
}

// Len returns the number of user bytes available via Bytes. This is the
// size originally passed to Allocate, not the aligned, header-inclusive
// block size reserved internally.
func (r *Region) Len() uint32 {
	return r.userSize
}

// Bytes returns a byte slice over this region's user bytes. The slice is a
// window into the allocator's backing buffer: writes are visible to whatever
// eventually reads that buffer, and the allocator trusts the caller to stop
// touching it once Deallocate has been called.
func (r *Region) Bytes() []byte {
	start := r.blockStart + headerSize
	end := start + r.userSize
	return r.a.buf[start:end:end]
}
