package konfoo

import (
	"errors"
	"fmt"
)

var (
	// ErrBitSize indicates a field was declared with a bit size outside the
	// supported 1..64 range, or a size that does not fit its field kind.
	ErrBitSize = errors.New("konfoo: bit size out of range")

	// ErrAlignment indicates an invalid align-to parameter: outside 1..8, or a
	// group too small to hold the declared bit size.
	ErrAlignment = errors.New("konfoo: invalid field alignment")

	// ErrGroupSize indicates that a field's bits do not fit into the remainder
	// of its byte-aligned packing group at the current bit offset.
	ErrGroupSize = errors.New("konfoo: field exceeds group size")

	// ErrGroupOffset indicates that a field's position in the traversal does
	// not match its declared fixed bit offset, or that a byte-sized member was
	// reached at an unaligned bit position.
	ErrGroupOffset = errors.New("konfoo: field group offset mismatch")

	// ErrByteOrder indicates an independent byte order conversion was
	// requested for a sub-byte-packed, non-byte-aligned field group.
	ErrByteOrder = errors.New("konfoo: independent byte order on packed group")

	// ErrMemberType indicates content of the wrong shape was supplied for a
	// container member, for example a list for a Structure.
	ErrMemberType = errors.New("konfoo: mismatched member type")

	// ErrValueType indicates a value of an unsupported type or encoding was
	// assigned to a field.
	ErrValueType = errors.New("konfoo: unsupported field value")

	// ErrEnumSymbol indicates an assigned symbol matches no enumeration entry
	// and is not a valid integer literal.
	ErrEnumSymbol = errors.New("konfoo: unknown enumeration symbol")

	// ErrIncomplete indicates a pointer's referenced data object does not end
	// on a byte boundary, or a container patch was requested for a container
	// with leftover bits.
	ErrIncomplete = errors.New("konfoo: incomplete object")

	// ErrNilProvider indicates a fetch or store was attempted without a
	// data source.
	ErrNilProvider = errors.New("konfoo: nil provider")

	// ErrProviderRange indicates a Provider access outside its address space,
	// or a read that returned fewer bytes than requested.
	ErrProviderRange = errors.New("konfoo: provider range exceeded")

	// ErrAddressSpace indicates an auto-sizing read ran past the end of the
	// pointer's addressable space without finding a terminator.
	ErrAddressSpace = errors.New("konfoo: pointer address space exhausted")

	// ErrTrailingData is returned by Unmarshal when non-zero bytes are found
	// after the expected end of the layout, indicating a schema mismatch or
	// malformed data.
	ErrTrailingData = errors.New("konfoo: non-zero trailing data found after decoding")
)

// FieldError wraps one of the sentinel error kinds with the offending field
// and the Index at the point of failure, so bit-layout inconsistencies can be
// diagnosed precisely. It matches its kind under errors.Is.
type FieldError struct {
	// Err is the sentinel error kind.
	Err error
	// Field is the type name of the offending field, empty for container
	// level failures.
	Field string
	// Index is the cursor position at the point of failure.
	Index Index
	// Detail describes the specific violation.
	Detail string
}

func (e *FieldError) Error() string {
	name := e.Field
	if name == "" {
		name = "container"
	}
	return fmt.Sprintf("%v: %s at byte %d bit %d: %s", e.Err, name, e.Index.Byte, e.Index.Bit, e.Detail)
}

func (e *FieldError) Unwrap() error { return e.Err }

// fieldError builds a FieldError for a field at the given cursor position.
func fieldError(kind error, name string, idx Index, format string, args ...any) error {
	return &FieldError{Err: kind, Field: name, Index: idx, Detail: fmt.Sprintf(format, args...)}
}
