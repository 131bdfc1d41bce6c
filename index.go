package konfoo

// Index is the immutable cursor threaded through every indexing, deserialize
// and serialize traversal. Each step consumes an Index and produces the next
// one; an Index is never mutated in place.
type Index struct {
	// Byte is the byte offset within the current buffer.
	Byte uint64 `json:"byte"`
	// Bit is the bit offset within the current byte-aligned group, 0..63.
	Bit uint `json:"bit"`
	// Address is the absolute location in the data source.
	Address uint64 `json:"address"`
	// BaseAddress is the address a pointer's indirect data begins at. A
	// relative pointer resolves to BaseAddress plus its own stored offset.
	BaseAddress uint64 `json:"base_address"`
	// Update signals that a variable-length field changed size during
	// deserialization and the owning pointer must re-fetch more bytes.
	Update bool `json:"update"`
}

// WithAddress returns a copy of the index relocated to an absolute address.
// Byte and bit offsets are reset: the relocated coordinate space is
// independent of the parent buffer's.
func (i Index) WithAddress(address uint64) Index {
	return Index{Address: address, BaseAddress: address}
}

// advanceBytes moves the cursor forward by a whole number of bytes. The
// Update flag is carried along: once raised it survives until the traversal
// that observes it starts over.
func (i Index) advanceBytes(n uint64) Index {
	next := i
	next.Byte += n
	next.Address += n
	next.Bit = 0
	return next
}

// advanceBits moves the cursor forward within a packing group described by a.
// A field that fills its group exactly completes the group and moves byte and
// address forward by the group size; a field that leaves the group open only
// advances the bit offset. A field that overruns the group is a group size
// error, reported by the caller with field context.
func (i Index) advanceBits(bitSize uint, a Alignment) (Index, bool) {
	pos := i.Bit + bitSize
	switch {
	case pos == a.ByteSize*8:
		return i.advanceBytes(uint64(a.ByteSize)), true
	case pos < a.ByteSize*8:
		next := i
		next.Bit = pos
		return next, true
	}
	return i, false
}
