package konfoo

// ByteOrder selects how the bytes of a field group are ordered on the wire.
//
// Fields are normally constructed with Auto and inherit the decoding order
// from the Options threaded through the traversal. A field constructed with an
// explicit BigEndian or LittleEndian order overrides the inherited order, which
// is only sound for a byte-aligned, standalone group (see Decimal.Unpack).
type ByteOrder uint8

const (
	// Auto defers to the byte order supplied by the caller's Options.
	Auto ByteOrder = iota
	// BigEndian stores the most significant byte first.
	BigEndian
	// LittleEndian stores the least significant byte first.
	LittleEndian
)

// DefaultByteOrder is the order an Auto field resolves to when the Options
// value itself carries Auto. Register maps in the wild are predominantly
// little endian, matching the zero value of Options.
const DefaultByteOrder = LittleEndian

func (b ByteOrder) String() string {
	switch b {
	case Auto:
		return "auto"
	case BigEndian:
		return "big"
	case LittleEndian:
		return "little"
	}
	return "invalid"
}

// Resolve returns the effective order: b itself when explicit, otherwise the
// fallback, and DefaultByteOrder when both are Auto.
func (b ByteOrder) Resolve(fallback ByteOrder) ByteOrder {
	if b != Auto {
		return b
	}
	if fallback != Auto {
		return fallback
	}
	return DefaultByteOrder
}

// big reports whether the resolved order is big endian.
func (b ByteOrder) big() bool { return b == BigEndian }
