package konfoo

import (
	"fmt"

	"github.com/JoeVirtual/konfoo/internal/bits"
)

// Pointer is a 32-bit address field that additionally owns a referenced data
// object fetched indirectly through a Provider. It is simultaneously a Field,
// as the scalar holding the address, and a Container, as the owner of the
// referenced sub-tree.
//
// The referenced object lives in its own coordinate space: indexing it starts
// at byte 0 with the pointer's effective address as both address and base
// address. The bytestream caches the raw bytes of the last fetch; the data
// object holds the values deserialized from it. Reassigning the pointer value
// leaves both stale until the next Fetch.
type Pointer struct {
	Decimal

	// relative makes the effective address BaseAddress plus the stored
	// offset, where the base is inherited from the pointer field's own
	// location in its data source.
	relative bool

	data          Member
	bytestream    []byte
	dataByteOrder ByteOrder
}

var (
	_ Field     = (*Pointer)(nil)
	_ Container = (*Pointer)(nil)
)

// NewPointer creates an absolute pointer referencing data, which may be nil
// for a typed placeholder. A new pointer is null: its value is zero and
// fetching through it is skipped unless Options.NullAllowed is set.
func NewPointer(data Member) *Pointer {
	return &Pointer{
		Decimal:       *newDecimal("Pointer", 32, 0, false),
		data:          data,
		dataByteOrder: DefaultByteOrder,
	}
}

// NewRelativePointer creates a pointer whose effective address is its stored
// value plus the base address inherited from its own Index.
func NewRelativePointer(data Member) *Pointer {
	p := NewPointer(data)
	p.name = "RelativePointer32"
	p.relative = true
	return p
}

// NewStreamPointer creates a pointer referencing a byte stream of the given
// capacity.
func NewStreamPointer(capacity uint) *Pointer {
	p := NewPointer(NewStream(capacity))
	p.name = "StreamPointer32"
	return p
}

// NewStringPointer creates a pointer referencing a zero-terminated string of
// the given capacity.
func NewStringPointer(capacity uint) *Pointer {
	p := NewPointer(NewString(capacity))
	p.name = "StringPointer32"
	return p
}

// NewAutoStringPointer creates a pointer referencing a string whose size is
// unknown up front. Fetch discovers the size incrementally: it reads 64-byte
// blocks, growing the string after each block, until a zero terminator
// appears or the pointer's address space is exhausted.
func NewAutoStringPointer() *Pointer {
	p := NewPointer(newAutoString())
	p.name = "AutoStringPointer32"
	return p
}

func (p *Pointer) Kind() Kind { return KindPointer }

// Address returns the effective address of the referenced data.
func (p *Pointer) Address() uint64 {
	if p.relative {
		return p.index.BaseAddress + p.value
	}
	return p.value
}

// IsNull reports whether the stored pointer value is zero.
func (p *Pointer) IsNull() bool { return p.value == 0 }

// Data returns the referenced data object, nil when unbound.
func (p *Pointer) Data() Member { return p.data }

// Bytestream returns the raw bytes cached by the last Fetch, shared with the
// pointer.
func (p *Pointer) Bytestream() []byte { return p.bytestream }

// DataByteOrder returns the byte order used for the referenced data,
// independent of the pointer field's own order.
func (p *Pointer) DataByteOrder() ByteOrder { return p.dataByteOrder }

// SetDataByteOrder declares the byte order for the referenced data.
func (p *Pointer) SetDataByteOrder(order ByteOrder) { p.dataByteOrder = order }

// DataSize returns the accumulated size of the referenced data as whole
// bytes plus leftover bits.
func (p *Pointer) DataSize() (uint64, uint) {
	if p.data == nil {
		return 0, 0
	}
	return containerSize(p.data.BitLength())
}

// dataSizeBytes returns the fetch size: the data bit length rounded up to
// whole bytes.
func (p *Pointer) dataSizeBytes() uint64 {
	if p.data == nil {
		return 0
	}
	return bits.Roundup(p.data.BitLength(), 8) / 8
}

// dataOptions derives the traversal options for the referenced data.
func (p *Pointer) dataOptions(opt Options) Options {
	return opt.WithByteOrder(p.dataByteOrder)
}

// Value views the stored address as a hexadecimal string.
func (p *Pointer) Value() any { return fmt.Sprintf("%#x", p.value) }

func (p *Pointer) SetValue(v any) error { return setLiteral(&p.Decimal, v) }

func (p *Pointer) IndexFields(idx Index, opt Options) (Index, error) {
	next, err := p.indexField(idx)
	if err != nil {
		return idx, err
	}
	if opt.Nested && p.data != nil {
		if _, err := p.IndexData(opt); err != nil {
			return idx, err
		}
	}
	return next, nil
}

// IndexData assigns locations to the referenced data in its own coordinate
// space, rooted at the pointer's effective address.
func (p *Pointer) IndexData(opt Options) (Index, error) {
	if p.data == nil {
		return Index{}, nil
	}
	return p.data.IndexFields(Index{}.WithAddress(p.Address()), p.dataOptions(opt))
}

// Deserialize decodes the pointer value from the parent buffer. With
// Options.Nested set, the referenced data is additionally deserialized from
// the pointer's cached bytestream.
func (p *Pointer) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	next, err := p.Decimal.Deserialize(buf, idx, opt)
	if err != nil {
		return idx, err
	}
	if opt.Nested && p.data != nil {
		if _, err := p.data.Deserialize(p.bytestream, Index{}.WithAddress(p.Address()), p.dataOptions(opt)); err != nil {
			return idx, err
		}
	}
	return next, nil
}

// Serialize encodes the pointer value into the parent buffer. With
// Options.Nested set, the referenced data is additionally serialized into a
// fresh bytestream cache.
func (p *Pointer) Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error) {
	buf, next, err := p.Decimal.Serialize(buf, idx, opt)
	if err != nil {
		return buf, idx, err
	}
	if opt.Nested && p.data != nil {
		stream, _, err := p.data.Serialize(nil, Index{}.WithAddress(p.Address()), p.dataOptions(opt))
		if err != nil {
			return buf, idx, err
		}
		p.bytestream = stream
	}
	return buf, next, nil
}

// Fetch reads the referenced data from the provider: it computes the data
// size, reads exactly that many bytes at the effective address, and
// deserializes them into the data object using the data byte order.
//
// A null pointer is skipped unless Options.NullAllowed is set. Variable-size
// data signals growth through the Update flag, and Fetch re-reads until the
// size converges. With Options.Nested set, pointers inside the fetched data
// chain their own fetches afterwards.
func (p *Pointer) Fetch(prov Provider, opt Options) error {
	if prov == nil {
		return fieldError(ErrNilProvider, p.name, p.index, "cannot fetch")
	}
	if p.data == nil {
		return nil
	}
	if p.IsNull() && !opt.NullAllowed {
		return nil
	}

	address := p.Address()
	previous := uint64(0)
	for {
		size := p.dataSizeBytes()
		if size == 0 {
			p.bytestream = nil
			break
		}
		if size <= previous {
			// An update without growth would never converge.
			return fieldError(ErrIncomplete, p.name, p.index,
				"data object signalled an update without growing past %d bytes", previous)
		}
		if address > p.Max() || size > p.Max()-address+1 {
			return fieldError(ErrAddressSpace, p.name, p.index,
				"%d bytes at address %#x exceed the pointer's address space", size, address)
		}

		stream, err := prov.Read(address, int(size))
		if err != nil {
			return err
		}
		if uint64(len(stream)) != size {
			return fieldError(ErrProviderRange, p.name, p.index,
				"provider returned %d bytes, need %d", len(stream), size)
		}
		opt.logger().Debug("konfoo: pointer fetch", "address", address, "size", size)
		p.bytestream = stream

		idx, err := p.data.Deserialize(stream, Index{}.WithAddress(address), p.dataOptions(opt))
		if err != nil {
			return err
		}
		if idx.Bit != 0 {
			return fieldError(ErrIncomplete, p.name, idx,
				"data object ends at bit %d, not on a byte boundary", idx.Bit)
		}
		if !idx.Update {
			break
		}
		previous = size
	}

	if opt.Nested {
		return fetchNested(p.data, prov, opt)
	}
	return nil
}

// fetchNested chains fetches through every pointer found in a fetched data
// object. A parent always finishes fetching its own bytes before its nested
// pointers fetch theirs.
func fetchNested(m Member, prov Provider, opt Options) error {
	switch m.Kind() {
	case KindStructure:
		st := m.(*Structure)
		for _, name := range st.names {
			if err := fetchNested(st.members[name], prov, opt); err != nil {
				return err
			}
		}
	case KindSequence, KindArray:
		for _, mm := range m.(memberList).Members() {
			if err := fetchNested(mm, prov, opt); err != nil {
				return err
			}
		}
	case KindPointer:
		return m.(*Pointer).Fetch(prov, opt)
	}
	return nil
}

// Len returns 1 when the pointer references a data object.
func (p *Pointer) Len() int {
	if p.data == nil {
		return 0
	}
	return 1
}

// ContainerSize returns the referenced data size as bytes plus leftover
// bits.
func (p *Pointer) ContainerSize() (uint64, uint) { return p.DataSize() }

// FirstField returns the first leaf field of the referenced data.
func (p *Pointer) FirstField() Field {
	if p.data == nil {
		return nil
	}
	return firstFieldOf(p.data)
}

// FieldItems returns the pointer field itself and every leaf field of the
// referenced data under the "data" path.
func (p *Pointer) FieldItems() []FieldItem {
	var items []FieldItem
	p.collectFieldItems("", &items)
	return items
}

func (p *Pointer) collectFieldItems(path string, items *[]FieldItem) {
	if path == "" {
		path = "pointer"
	}
	*items = append(*items, FieldItem{Path: path, Field: p})
	if p.data != nil {
		p.data.collectFieldItems(joinPath(path, "data"), items)
	}
}

// ViewFields returns the pointer value and the referenced data view.
func (p *Pointer) ViewFields(attrs ...string) any { return memberView(p, attrs) }

// Initialize assigns the pointer value and the referenced data from a
// mapping with the keys "value" and "data".
func (p *Pointer) Initialize(content any) error {
	values, ok := content.(map[string]any)
	if !ok {
		return fieldError(ErrMemberType, p.name, p.index,
			"pointer content must be map[string]any with value/data, got %T", content)
	}
	for key, v := range values {
		switch key {
		case "value":
			if err := p.SetValue(v); err != nil {
				return err
			}
		case "data":
			if p.data == nil {
				return fieldError(ErrMemberType, p.name, p.index, "pointer references no data object")
			}
			if err := initializeMember(p.data, v); err != nil {
				return err
			}
		default:
			return fieldError(ErrMemberType, p.name, p.index, "pointer content has no member %q", key)
		}
	}
	return nil
}

func (p *Pointer) Describe(name string) Metadata {
	m := fieldMetadata(p, name)
	m.Type = KindPointer.String()
	m.Max = p.Max()
	m.Min = p.Min()
	if p.data != nil {
		m.Members = append(m.Members, p.data.Describe("data"))
	}
	return m
}

func (p *Pointer) clone() Member {
	c := *p
	c.Decimal = p.cloneDecimal()
	if p.data != nil {
		c.data = p.data.clone()
	}
	c.bytestream = append([]byte(nil), p.bytestream...)
	return &c
}
