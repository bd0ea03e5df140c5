package ringalloc

import "fmt"

// ErrorCode enumerates the five kinds of internal error the allocator can
// observe, matching the distilled specification's taxonomy exactly.
type ErrorCode int32

const (
	// ErrCodeNone is the cleared state; LastError reports it as a nil error,
	// not as a non-nil *Error, since in Go "no error" is idiomatically nil.
	ErrCodeNone ErrorCode = iota

	// ErrCodeBaseAddressVoid is a construction-time error: the caller
	// supplied a nil backing buffer. The allocator itself never raises it
	// after construction succeeds.
	ErrCodeBaseAddressVoid

	// ErrCodeCorruptedBufferBlock is raised when a header's address fails
	// its alignment check, its embedded list-entry index is out of range,
	// or the drain scan would walk past the end of the buffer.
	ErrCodeCorruptedBufferBlock

	// ErrCodeInvalidListEntryOffset is raised when a computed list-entry
	// index in the commit or drain path is out of range, distinct from the
	// header-observed variant above.
	ErrCodeInvalidListEntryOffset

	// ErrCodeSizeIsZero is a construction-time error: the caller supplied an
	// empty buffer, or one whose length does not fit in a uint32. The
	// allocator itself never raises it after construction succeeds.
	ErrCodeSizeIsZero
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNone:
		return "no error"
	case ErrCodeBaseAddressVoid:
		return "base address void"
	case ErrCodeCorruptedBufferBlock:
		return "corrupted buffer block"
	case ErrCodeInvalidListEntryOffset:
		return "invalid list entry offset"
	case ErrCodeSizeIsZero:
		return "size is zero"
	default:
		return fmt.Sprintf("unknown error code %d", int32(c))
	}
}

// Error is the error type returned by LastError. It satisfies errors.Is
// against the sentinel values below by comparing codes, so callers can write
// errors.Is(err, ringalloc.ErrCorruptedBufferBlock) without caring whether
// they hold the exact sentinel pointer or a copy.
type Error struct {
	Code ErrorCode
}

func (e *Error) Error() string {
	return "ringalloc: " + e.Code.String()
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel errors for the four codes the allocator can report at runtime or
// construction time. ErrCodeNone has no sentinel: LastError returns nil for
// it.
var (
	ErrBaseAddressVoid        = &Error{Code: ErrCodeBaseAddressVoid}
	ErrCorruptedBufferBlock   = &Error{Code: ErrCodeCorruptedBufferBlock}
	ErrInvalidListEntryOffset = &Error{Code: ErrCodeInvalidListEntryOffset}
	ErrSizeIsZero             = &Error{Code: ErrCodeSizeIsZero}
)

// errorForCode maps a runtime error code to its sentinel. Only the three
// codes the allocator can raise after construction are handled; the
// construction-only codes are returned directly by New.
func errorForCode(code ErrorCode) error {
	switch code {
	case ErrCodeNone:
		return nil
	case ErrCodeCorruptedBufferBlock:
		return ErrCorruptedBufferBlock
	case ErrCodeInvalidListEntryOffset:
		return ErrInvalidListEntryOffset
	default:
		return &Error{Code: code}
	}
}

// errorLogCategory names the catrate category a given error code's
// diagnostics are rate-limited under.
func errorLogCategory(code ErrorCode) string {
	switch code {
	case ErrCodeCorruptedBufferBlock:
		return "corrupted_block"
	case ErrCodeInvalidListEntryOffset:
		return "invalid_list_entry"
	default:
		return "error"
	}
}
