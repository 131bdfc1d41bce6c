package konfoo

import "github.com/JoeVirtual/konfoo/internal/bits"

// Patch is the minimal write-back for one member of a fetched data object:
// the serialized bytes, where they go, and how to merge them into the data
// source.
type Patch struct {
	// Buffer holds the serialized patch content.
	Buffer []byte
	// Address is the data source address of the first buffer byte.
	Address uint64
	// ByteOrder is the encoding order of the buffer.
	ByteOrder ByteOrder
	// BitSize is the number of payload bits carried by the patch.
	BitSize uint
	// BitOffset is the payload's bit position within the buffer.
	BitOffset uint
	// Inject marks a sub-byte patch: the payload must be merged into the
	// existing data source bytes instead of replacing them.
	Inject bool
}

// Patch computes the minimal write-back for item, a member of this pointer's
// referenced data. The item must carry a current Index from a prior Fetch,
// IndexData or Deserialize pass.
//
// A container patches as whole bytes starting at its first field and never
// needs injection. A field patches only the bytes of its packing group that
// it actually touches; a field not aligned to byte boundaries yields an
// injection patch whose payload must be merged bit-wise.
//
// A container without fields, or a zero container, yields a nil patch.
func (p *Pointer) Patch(item Member, order ByteOrder) (*Patch, error) {
	ord := order.Resolve(DefaultByteOrder)
	switch item.Kind() {
	case KindStructure, KindSequence, KindArray:
		return p.patchContainer(item.(Container), ord)
	}
	return p.patchField(item.(Field), ord)
}

func (p *Pointer) patchContainer(c Container, order ByteOrder) (*Patch, error) {
	size, leftover := c.ContainerSize()
	if leftover != 0 {
		return nil, fieldError(ErrIncomplete, p.name, p.index,
			"container of %d bytes carries %d leftover bits", size, leftover)
	}
	if size == 0 {
		return nil, nil
	}
	field := c.FirstField()
	if field == nil {
		return nil, nil
	}
	idx := field.Index()
	if idx.Bit != 0 {
		return nil, fieldError(ErrIncomplete, field.Name(), idx,
			"container starts at bit %d, not on a byte boundary", idx.Bit)
	}
	// Serializing from the container's own stored cursor re-assigns every
	// member the Index it already carries, so computing a patch leaves the
	// item's locations untouched. The scratch buffer grows a zero head up to
	// the container's byte offset, trimmed off here.
	buf, _, err := c.Serialize(nil, idx, Options{ByteOrder: order})
	if err != nil {
		return nil, err
	}
	return &Patch{
		Buffer:    buf[idx.Byte:],
		Address:   idx.Address,
		ByteOrder: order,
		BitSize:   uint(size) * 8,
	}, nil
}

func (p *Pointer) patchField(f Field, order ByteOrder) (*Patch, error) {
	idx := f.Index()
	align := f.Alignment()
	bit := idx.Bit
	size := f.BitSize()

	// Serializing from the field's own stored cursor re-assigns the Index it
	// already carries; the scratch buffer's zero head up to the group's byte
	// offset is skipped below.
	buf, _, err := f.Serialize(nil, idx, Options{ByteOrder: order})
	if err != nil {
		return nil, err
	}
	group := buf[idx.Byte:]

	// Trim the group to the bytes the field actually occupies. In logical
	// group coordinates the field covers bytes first..last; under big endian
	// the physical layout is reversed, so the window is mirrored.
	first := bit / 8
	last := (bit + size - 1) / 8
	var window []byte
	var offset uint64
	if order.big() {
		offset = uint64(align.ByteSize-1) - uint64(last)
		window = group[offset : uint64(align.ByteSize)-uint64(first)]
	} else {
		offset = uint64(first)
		window = group[first : last+1]
	}

	return &Patch{
		Buffer:    window,
		Address:   idx.Address + offset,
		ByteOrder: order,
		BitSize:   size,
		BitOffset: bit - first*8,
		Inject:    bit%8 != 0 || size%8 != 0,
	}, nil
}

// Store writes item's current value back into the data source with the
// smallest possible write. Byte-aligned patches overwrite directly; injection
// patches read the affected bytes, merge the payload bits while preserving
// the neighbouring bits, and write the result back.
func (p *Pointer) Store(prov Provider, item Member, order ByteOrder) error {
	if prov == nil {
		return fieldError(ErrNilProvider, p.name, p.index, "cannot store")
	}
	patch, err := p.Patch(item, order)
	if err != nil {
		return err
	}
	if patch == nil {
		return nil
	}
	if !patch.Inject {
		return prov.Write(patch.Address, patch.Buffer)
	}

	content, err := prov.Read(patch.Address, len(patch.Buffer))
	if err != nil {
		return err
	}
	if len(content) != len(patch.Buffer) {
		return fieldError(ErrProviderRange, p.name, p.index,
			"provider returned %d bytes, need %d", len(content), len(patch.Buffer))
	}

	big := patch.ByteOrder.big()
	value := bits.GroupUint(content, big)
	payload := bits.Extract(bits.GroupUint(patch.Buffer, big), patch.BitOffset, patch.BitSize)
	bits.PutGroupUint(content, bits.Merge(value, payload, patch.BitOffset, patch.BitSize), big)
	return prov.Write(patch.Address, content)
}
