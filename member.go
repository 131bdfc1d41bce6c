package konfoo

//go:generate stringer -type=Kind -linecomment

// Kind is the closed discriminant over the member shapes a layout tree can
// hold. Traversal code switches on Kind instead of probing for capabilities.
type Kind uint8

const (
	KindInvalid   Kind = iota // Invalid
	KindField                 // Field
	KindStructure             // Structure
	KindSequence              // Sequence
	KindArray                 // Array
	KindPointer               // Pointer
)

// Member is the capability shared by every node of a layout tree: it knows
// its accumulated bit size and how to thread an Index cursor through the
// indexing, deserialize and serialize walks.
//
// The member set is closed: Field and Container shapes plus Pointer, which
// implements both. Buffers are caller-owned; Serialize appends to buf and
// returns the grown slice, Deserialize only reads.
type Member interface {
	Kind() Kind

	// BitLength returns the total number of bits the member occupies,
	// recursively accumulated for containers.
	BitLength() uint64

	// IndexFields assigns an Index to every leaf field in declaration order
	// and returns the cursor past the member.
	IndexFields(idx Index, opt Options) (Index, error)

	// Deserialize decodes the member's value from buf at idx and returns the
	// cursor past the member.
	Deserialize(buf []byte, idx Index, opt Options) (Index, error)

	// Serialize appends the member's encoded bytes to buf, merging into
	// shared bit-field groups already present, and returns the grown buffer
	// and the cursor past the member.
	Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error)

	// Describe returns the member's metadata record under the given name.
	Describe(name string) Metadata

	// clone returns a deep, index-free copy; used by Array templates.
	clone() Member

	// collectFieldItems appends the member's leaf fields with their dotted
	// paths rooted at path.
	collectFieldItems(path string, items *[]FieldItem)
}

// Field is the atomic leaf capability: a typed, bit-sized, byte-order-aware
// unit of the layout.
type Field interface {
	Member

	// Name returns the field's type name, for example "Decimal16".
	Name() string
	// BitSize returns the field's declared size in bits.
	BitSize() uint
	// ByteOrder returns the field's declared byte order; Auto inherits the
	// traversal's decoding order.
	ByteOrder() ByteOrder
	// Alignment returns the field's packing group placement.
	Alignment() Alignment
	// Index returns the location assigned by the last indexing walk.
	Index() Index
	// Value returns the field's value in its view form, for example a symbol
	// for an Enum or a dotted quad for an IPv4Address.
	Value() any
	// SetValue assigns a value in view form. Numeric values clamp to the
	// field's range; malformed symbols and encodings are errors.
	SetValue(v any) error
}

// Container is the composite capability: an ordered collection of members
// with flattened views and bulk initialization.
type Container interface {
	Member

	// Len returns the number of direct members.
	Len() int
	// ContainerSize returns the accumulated size as whole bytes plus
	// leftover bits.
	ContainerSize() (bytes uint64, bits uint)
	// FirstField returns the first leaf field in declaration order, or nil
	// for an empty container.
	FirstField() Field
	// FieldItems returns every leaf field paired with its dotted path.
	FieldItems() []FieldItem
	// ViewFields returns a nested plain-data tree mirroring the container
	// shape, holding each field's value or the requested attributes.
	ViewFields(attrs ...string) any
	// Initialize bulk-assigns values from a matching plain-data structure:
	// a map for a Structure, a slice for a Sequence or Array.
	Initialize(content any) error
}

// FieldItem pairs a leaf field with its dotted path, for example
// "header.flags" or "points[2].y".
type FieldItem struct {
	Path  string
	Field Field
}

// joinPath appends a named segment to a dotted path.
func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// containerSize expresses an accumulated bit count as bytes plus leftover
// bits.
func containerSize(bitLength uint64) (uint64, uint) {
	return bitLength / 8, uint(bitLength % 8)
}
