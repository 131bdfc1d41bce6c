package konfoo

import (
	"fmt"
	"strconv"

	"github.com/JoeVirtual/konfoo/internal/bits"
)

// Decimal is the base of every fixed-size field: an integer of 1 to 64 bits
// packed at an arbitrary bit offset within a byte-aligned group, with optional
// two's complement sign semantics. All other scalar field kinds are views over
// this storage.
//
// The raw bit pattern is held masked to the declared bit size. Assignments
// clamp to the representable range instead of failing; decoding stores
// whatever the buffer holds.
type Decimal struct {
	name      string
	bitSize   uint
	signed    bool
	byteOrder ByteOrder
	align     Alignment
	fixedBit  bool
	index     Index
	value     uint64
}

var _ Field = (*Decimal)(nil)

// NewDecimal creates an unsigned decimal field of the given bit size with an
// auto-selected alignment of ceil(bitSize/8) bytes. Invalid sizes panic: the
// declaration is part of the program, not runtime input.
func NewDecimal(bitSize uint) *Decimal { return newDecimal("Decimal", bitSize, 0, false) }

// NewDecimalAligned creates an unsigned decimal field packed into a group of
// alignTo bytes, for sharing a group with sibling bit-fields.
func NewDecimalAligned(bitSize, alignTo uint) *Decimal {
	return newDecimal("Decimal", bitSize, alignTo, false)
}

// NewSigned creates a two's complement signed decimal field.
func NewSigned(bitSize uint) *Decimal { return newDecimal("Signed", bitSize, 0, true) }

// NewSignedAligned creates a signed decimal field packed into a group of
// alignTo bytes.
func NewSignedAligned(bitSize, alignTo uint) *Decimal {
	return newDecimal("Signed", bitSize, alignTo, true)
}

func newDecimal(base string, bitSize, alignTo uint, signed bool) *Decimal {
	name := fmt.Sprintf("%s%d", base, bitSize)
	return &Decimal{
		name:    name,
		bitSize: bitSize,
		signed:  signed,
		align:   checkAlign(name, bitSize, alignTo),
	}
}

func (d *Decimal) Kind() Kind           { return KindField }
func (d *Decimal) Name() string         { return d.name }
func (d *Decimal) BitSize() uint        { return d.bitSize }
func (d *Decimal) BitLength() uint64    { return uint64(d.bitSize) }
func (d *Decimal) ByteOrder() ByteOrder { return d.byteOrder }
func (d *Decimal) Alignment() Alignment { return d.align }
func (d *Decimal) Index() Index         { return d.index }
func (d *Decimal) Signed() bool         { return d.signed }

// SetByteOrder declares an explicit byte order for this field, overriding the
// decoding order threaded through the traversal.
func (d *Decimal) SetByteOrder(order ByteOrder) { d.byteOrder = order }

// Max returns the largest storable value as an unsigned magnitude.
func (d *Decimal) Max() uint64 {
	if d.signed {
		return bits.Mask[uint64](0, d.bitSize) >> 1
	}
	return bits.Mask[uint64](0, d.bitSize)
}

// Min returns the smallest storable value.
func (d *Decimal) Min() int64 {
	if !d.signed {
		return 0
	}
	if d.bitSize == 64 {
		return -1 << 63
	}
	return -(int64(1) << (d.bitSize - 1))
}

// Uint returns the raw stored bit pattern.
func (d *Decimal) Uint() uint64 { return d.value }

// Int returns the stored value, sign extended for signed fields.
func (d *Decimal) Int() int64 {
	if d.signed {
		return bits.SignExtend(d.value, d.bitSize)
	}
	return int64(d.value)
}

// SetUint assigns an unsigned value, clamping to the field's range.
func (d *Decimal) SetUint(v uint64) {
	if v > d.Max() {
		v = d.Max()
	}
	d.value = v
}

// SetInt assigns a signed value, clamping to the field's range. Negative
// inputs to an unsigned field clamp to zero.
func (d *Decimal) SetInt(v int64) {
	if v < d.Min() {
		v = d.Min()
	}
	if v >= 0 && uint64(v) > d.Max() {
		d.value = d.Max()
		return
	}
	d.value = uint64(v) & bits.Mask[uint64](0, d.bitSize)
}

func (d *Decimal) Value() any {
	if d.signed {
		return d.Int()
	}
	return d.Uint()
}

func (d *Decimal) SetValue(v any) error { return d.setNumber(v) }

// setNumber assigns any integer-typed value with clamping.
func (d *Decimal) setNumber(v any) error {
	switch n := v.(type) {
	case int:
		d.SetInt(int64(n))
	case int8:
		d.SetInt(int64(n))
	case int16:
		d.SetInt(int64(n))
	case int32:
		d.SetInt(int64(n))
	case int64:
		d.SetInt(n)
	case uint:
		d.SetUint(uint64(n))
	case uint8:
		d.SetUint(uint64(n))
	case uint16:
		d.SetUint(uint64(n))
	case uint32:
		d.SetUint(uint64(n))
	case uint64:
		d.SetUint(n)
	default:
		return fieldError(ErrValueType, d.name, d.index, "cannot assign %T to an integer field", v)
	}
	return nil
}

// indexField stores the cursor as this field's location, aligns the packing
// group bit offset, and returns the cursor past the field.
func (d *Decimal) indexField(idx Index) (Index, error) {
	if d.fixedBit {
		if idx.Bit != d.align.BitOffset {
			return idx, fieldError(ErrGroupOffset, d.name, idx,
				"declared bit offset %d, traversal arrived at bit %d", d.align.BitOffset, idx.Bit)
		}
	} else {
		d.align.BitOffset = idx.Bit
	}
	next, ok := idx.advanceBits(d.bitSize, d.align)
	if !ok {
		return idx, fieldError(ErrGroupSize, d.name, idx,
			"group of %d bytes cannot hold %d bits at bit %d", d.align.ByteSize, d.bitSize, idx.Bit)
	}
	d.index = idx
	return next, nil
}

// resolveOrder resolves the effective byte order for this field. An explicit
// field order that disagrees with the traversal order is only sound for a
// byte-aligned, standalone group: byte swapping cannot be confined to a bit
// window shared with siblings.
func (d *Decimal) resolveOrder(idx Index, opt Options) (ByteOrder, error) {
	caller := opt.ByteOrder.Resolve(Auto)
	if d.byteOrder != Auto && d.byteOrder != caller && idx.Bit != 0 && d.align.ByteSize > 1 {
		return Auto, fieldError(ErrByteOrder, d.name, idx,
			"%s order requested inside a %d byte group packed at bit %d",
			d.byteOrder, d.align.ByteSize, idx.Bit)
	}
	return d.byteOrder.Resolve(opt.ByteOrder), nil
}

// Unpack decodes the field's raw bits from the group at idx. A buffer shorter
// than the group zero-fills the missing tail; every fixed-size field kind
// shares this one tolerant underflow policy.
func (d *Decimal) Unpack(buf []byte, idx Index, opt Options) error {
	order, err := d.resolveOrder(idx, opt)
	if err != nil {
		return err
	}
	group := make([]byte, d.align.ByteSize)
	if idx.Byte < uint64(len(buf)) {
		copy(group, buf[idx.Byte:])
	}
	g := bits.GroupUint(group, order.big())
	d.value = bits.Extract(g, idx.Bit, d.bitSize)
	return nil
}

// Pack encodes the field's raw bits into buf at idx, growing buf as needed.
// A field sharing its group with siblings merges into the existing group
// content, preserving sibling bits; this read-modify-write is what makes
// bit-field packing correct across multiple calls.
func (d *Decimal) Pack(buf []byte, idx Index, opt Options) ([]byte, error) {
	order, err := d.resolveOrder(idx, opt)
	if err != nil {
		return nil, err
	}
	end := idx.Byte + uint64(d.align.ByteSize)
	if uint64(len(buf)) < end {
		buf = append(buf, make([]byte, end-uint64(len(buf)))...)
	}
	group := buf[idx.Byte:end]
	g := bits.GroupUint(group, order.big())
	g = bits.Merge(g, d.value, idx.Bit, d.bitSize)
	bits.PutGroupUint(group, g, order.big())
	return buf, nil
}

func (d *Decimal) IndexFields(idx Index, opt Options) (Index, error) {
	return d.indexField(idx)
}

func (d *Decimal) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	next, err := d.indexField(idx)
	if err != nil {
		return idx, err
	}
	if err := d.Unpack(buf, idx, opt); err != nil {
		return idx, err
	}
	return next, nil
}

func (d *Decimal) Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error) {
	next, err := d.indexField(idx)
	if err != nil {
		return buf, idx, err
	}
	buf, err = d.Pack(buf, idx, opt)
	if err != nil {
		return buf, idx, err
	}
	return buf, next, nil
}

func (d *Decimal) Describe(name string) Metadata {
	m := fieldMetadata(d, name)
	m.Max = d.Max()
	m.Min = d.Min()
	m.Signed = d.signed
	return m
}

func (d *Decimal) clone() Member { c := d.cloneDecimal(); return &c }

// cloneDecimal copies the declaration and value, dropping the assigned
// location so the copy can be indexed independently.
func (d *Decimal) cloneDecimal() Decimal {
	c := *d
	c.index = Index{}
	if !c.fixedBit {
		c.align.BitOffset = 0
	}
	return c
}

func (d *Decimal) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: d})
}

// Bit is a single bit with a fixed position within its packing group. Unlike
// other fields, its bit offset is declared, not assigned: the indexing walk
// must arrive exactly at the declared position or fail with a group offset
// error.
type Bit struct {
	Decimal
}

// NewBit creates a single-bit field at bit position pos (0..63) of its group.
func NewBit(pos uint) *Bit {
	if pos > 63 {
		panic(fieldError(ErrAlignment, "Bit", Index{}, "bit position must be 0..63, got %d", pos))
	}
	return &Bit{Decimal{
		name:     "Bit",
		bitSize:  1,
		align:    Alignment{ByteSize: pos/8 + 1, BitOffset: pos},
		fixedBit: true,
	}}
}

// AlignTo widens the bit's packing group to alignTo bytes, for groups whose
// sibling fields span more bytes than the bit's own position requires.
func (b *Bit) AlignTo(alignTo uint) *Bit {
	if alignTo < b.align.BitOffset/8+1 || alignTo > 8 {
		panic(fieldError(ErrAlignment, b.name, Index{},
			"group of %d bytes cannot hold a bit at position %d", alignTo, b.align.BitOffset))
	}
	b.align.ByteSize = alignTo
	return b
}

func (b *Bit) clone() Member { c := *b; c.Decimal = b.cloneDecimal(); return &c }
func (b *Bit) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: b})
}

// Bool views a decimal field as a boolean: any nonzero stored value is true.
type Bool struct {
	Decimal
}

// NewBool creates a boolean field of the given bit size, typically 1.
func NewBool(bitSize uint) *Bool {
	return &Bool{*newDecimal("Bool", bitSize, 0, false)}
}

func (b *Bool) Bool() bool { return b.value != 0 }

func (b *Bool) SetBool(v bool) {
	if v {
		b.value = 1
	} else {
		b.value = 0
	}
}

func (b *Bool) Value() any { return b.Bool() }

func (b *Bool) SetValue(v any) error {
	if t, ok := v.(bool); ok {
		b.SetBool(t)
		return nil
	}
	return b.setNumber(v)
}

func (b *Bool) Describe(name string) Metadata {
	m := b.Decimal.Describe(name)
	m.Value = b.Bool()
	return m
}

func (b *Bool) clone() Member { c := *b; c.Decimal = b.cloneDecimal(); return &c }
func (b *Bool) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: b})
}

// Unsigned views a decimal field as a hexadecimal string.
type Unsigned struct {
	Decimal
}

// NewUnsigned creates an unsigned field whose value view is hexadecimal.
func NewUnsigned(bitSize uint) *Unsigned {
	return &Unsigned{*newDecimal("Unsigned", bitSize, 0, false)}
}

// NewUnsignedAligned creates a hexadecimal-view field packed into a group of
// alignTo bytes.
func NewUnsignedAligned(bitSize, alignTo uint) *Unsigned {
	return &Unsigned{*newDecimal("Unsigned", bitSize, alignTo, false)}
}

func (u *Unsigned) Value() any { return fmt.Sprintf("%#x", u.value) }

func (u *Unsigned) SetValue(v any) error { return setLiteral(&u.Decimal, v) }

func (u *Unsigned) Describe(name string) Metadata {
	m := u.Decimal.Describe(name)
	m.Value = u.Value()
	return m
}

func (u *Unsigned) clone() Member { c := *u; c.Decimal = u.cloneDecimal(); return &c }
func (u *Unsigned) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: u})
}

// Byte is an 8-bit field with a hexadecimal value view.
type Byte struct {
	Decimal
}

// NewByte creates a single byte field.
func NewByte() *Byte { return &Byte{*newDecimal("Byte", 8, 0, false)} }

func (b *Byte) Value() any { return fmt.Sprintf("%#02x", b.value) }

func (b *Byte) SetValue(v any) error { return setLiteral(&b.Decimal, v) }

func (b *Byte) Describe(name string) Metadata {
	m := b.Decimal.Describe(name)
	m.Value = b.Value()
	return m
}

func (b *Byte) clone() Member { c := *b; c.Decimal = b.cloneDecimal(); return &c }
func (b *Byte) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: b})
}

// Bitset views a decimal field as a binary string, one digit per declared
// bit.
type Bitset struct {
	Decimal
}

// NewBitset creates a field whose value view is a binary string.
func NewBitset(bitSize uint) *Bitset {
	return &Bitset{*newDecimal("Bitset", bitSize, 0, false)}
}

// NewBitsetAligned creates a binary-view field packed into a group of alignTo
// bytes.
func NewBitsetAligned(bitSize, alignTo uint) *Bitset {
	return &Bitset{*newDecimal("Bitset", bitSize, alignTo, false)}
}

func (b *Bitset) Value() any { return fmt.Sprintf("0b%0*b", b.bitSize, b.value) }

func (b *Bitset) SetValue(v any) error { return setLiteral(&b.Decimal, v) }

func (b *Bitset) Describe(name string) Metadata {
	m := b.Decimal.Describe(name)
	m.Value = b.Value()
	return m
}

func (b *Bitset) clone() Member { c := *b; c.Decimal = b.cloneDecimal(); return &c }
func (b *Bitset) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: b})
}

// setLiteral assigns either an integer value or an integer literal string,
// accepting the 0x and 0b prefixes the hexadecimal and binary views produce.
func setLiteral(d *Decimal, v any) error {
	if s, ok := v.(string); ok {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return fieldError(ErrValueType, d.name, d.index, "invalid integer literal %q", s)
		}
		d.SetUint(n)
		return nil
	}
	return d.setNumber(v)
}
