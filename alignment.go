package konfoo

// Alignment describes how a field is packed within the smallest byte-aligned
// group containing its bits. Several sibling bit-fields may share one group;
// every field in a shared group must declare the same ByteSize.
type Alignment struct {
	// ByteSize is the number of bytes in the group, 1..8 for bit-packed
	// fields. Variable-size Stream and String fields use their byte length.
	ByteSize uint `json:"byte_size"`
	// BitOffset is where within the group, LSB-relative, the field's bits
	// start. Assigned by the indexing walk, except for Bit fields whose
	// offset is fixed at construction.
	BitOffset uint `json:"bit_offset"`
}

// autoAlign returns the smallest whole-byte group holding bitSize bits.
func autoAlign(bitSize uint) Alignment {
	return Alignment{ByteSize: (bitSize + 7) / 8}
}

// checkAlign validates a declared bit size and optional align-to parameter
// for a bit-packed field. alignTo of 0 auto-selects the group size. The
// returned alignment has a zero bit offset; the indexing walk assigns it.
// Violations panic: a field declaration is part of the program, not input.
func checkAlign(name string, bitSize, alignTo uint) Alignment {
	if bitSize < 1 || bitSize > 64 {
		panic(fieldError(ErrBitSize, name, Index{}, "bit size must be 1..64, got %d", bitSize))
	}
	if alignTo == 0 {
		return autoAlign(bitSize)
	}
	if alignTo > 8 {
		panic(fieldError(ErrAlignment, name, Index{}, "align to must be 1..8, got %d", alignTo))
	}
	if bitSize > alignTo*8 {
		panic(fieldError(ErrAlignment, name, Index{},
			"group of %d bytes cannot hold %d bits", alignTo, bitSize))
	}
	return Alignment{ByteSize: alignTo}
}
