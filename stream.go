package konfoo

import (
	"bytes"
	"encoding/hex"
)

// autoBlockSize is the block granularity for size-discovering reads through
// an AutoStringPointer.
const autoBlockSize = 64

// Stream is a variable-size byte buffer field. Unlike the bit-packed kinds
// its size may change after construction, but only through the explicit
// Resize operation, which also updates the bit size and alignment.
type Stream struct {
	name  string
	value []byte
	index Index
}

var _ Field = (*Stream)(nil)

// NewStream creates a zero-filled byte stream field of capacity bytes.
func NewStream(capacity uint) *Stream {
	return &Stream{name: "Stream", value: make([]byte, capacity)}
}

func (s *Stream) Kind() Kind        { return KindField }
func (s *Stream) Name() string      { return s.name }
func (s *Stream) Len() int          { return len(s.value) }
func (s *Stream) BitSize() uint     { return uint(len(s.value)) * 8 }
func (s *Stream) BitLength() uint64 { return uint64(len(s.value)) * 8 }
func (s *Stream) Index() Index      { return s.index }

// ByteOrder is always Auto: a stream is an ordered byte sequence with no
// integer interpretation to swap.
func (s *Stream) ByteOrder() ByteOrder { return Auto }

func (s *Stream) Alignment() Alignment {
	return Alignment{ByteSize: uint(len(s.value))}
}

// Resize grows or shrinks the stream to n bytes, zero-extending on growth.
func (s *Stream) Resize(n uint) {
	switch {
	case uint(len(s.value)) > n:
		s.value = s.value[:n]
	case uint(len(s.value)) < n:
		s.value = append(s.value, make([]byte, n-uint(len(s.value)))...)
	}
}

// Bytes returns the stream's backing bytes. The slice is shared with the
// field; callers must not hold it across a Resize.
func (s *Stream) Bytes() []byte { return s.value }

// SetBytes copies b into the stream without changing the declared size:
// longer input truncates, shorter input leaves a zero-filled tail.
func (s *Stream) SetBytes(b []byte) {
	n := copy(s.value, b)
	for i := n; i < len(s.value); i++ {
		s.value[i] = 0
	}
}

// Value returns the stream content as a hexadecimal string.
func (s *Stream) Value() any { return hex.EncodeToString(s.value) }

func (s *Stream) SetValue(v any) error {
	switch b := v.(type) {
	case []byte:
		s.SetBytes(b)
	case string:
		decoded, err := hex.DecodeString(b)
		if err != nil {
			return fieldError(ErrValueType, s.name, s.index, "invalid hex encoding %q", b)
		}
		s.SetBytes(decoded)
	default:
		return fieldError(ErrValueType, s.name, s.index, "cannot assign %T to a byte stream", v)
	}
	return nil
}

// indexField requires byte alignment: a stream cannot start inside an open
// bit-field group.
func (s *Stream) indexField(idx Index) (Index, error) {
	if idx.Bit != 0 {
		return idx, fieldError(ErrGroupOffset, s.name, idx, "byte stream cannot start at bit %d", idx.Bit)
	}
	s.index = idx
	return idx.advanceBytes(uint64(len(s.value))), nil
}

func (s *Stream) IndexFields(idx Index, opt Options) (Index, error) {
	return s.indexField(idx)
}

// Unpack copies the stream's span out of buf, zero-filling a missing tail.
func (s *Stream) Unpack(buf []byte, idx Index, opt Options) error {
	for i := range s.value {
		s.value[i] = 0
	}
	if idx.Byte < uint64(len(buf)) {
		copy(s.value, buf[idx.Byte:])
	}
	return nil
}

// Pack writes the stream's bytes into buf at idx, growing buf as needed.
func (s *Stream) Pack(buf []byte, idx Index, opt Options) ([]byte, error) {
	end := idx.Byte + uint64(len(s.value))
	if uint64(len(buf)) < end {
		buf = append(buf, make([]byte, end-uint64(len(buf)))...)
	}
	copy(buf[idx.Byte:end], s.value)
	return buf, nil
}

func (s *Stream) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	next, err := s.indexField(idx)
	if err != nil {
		return idx, err
	}
	if err := s.Unpack(buf, idx, opt); err != nil {
		return idx, err
	}
	return next, nil
}

func (s *Stream) Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error) {
	next, err := s.indexField(idx)
	if err != nil {
		return buf, idx, err
	}
	buf, err = s.Pack(buf, idx, opt)
	if err != nil {
		return buf, idx, err
	}
	return buf, next, nil
}

func (s *Stream) Describe(name string) Metadata { return fieldMetadata(s, name) }

func (s *Stream) clone() Member { c := s.cloneStream(); return &c }

func (s *Stream) cloneStream() Stream {
	c := *s
	c.index = Index{}
	c.value = append([]byte(nil), s.value...)
	return c
}

func (s *Stream) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: s})
}

// String is a byte stream holding a zero-terminated string. Its value view
// trims at the first zero byte; the declared size still serializes in full.
type String struct {
	Stream
	// auto marks a string whose true size is unknown before the first fetch;
	// deserializing an unterminated auto string grows it by one block and
	// raises the Update flag so the owning pointer re-fetches.
	auto bool
}

var _ Field = (*String)(nil)

// NewString creates a zero-filled string field of capacity bytes.
func NewString(capacity uint) *String {
	s := &String{Stream: Stream{name: "String", value: make([]byte, capacity)}}
	return s
}

// newAutoString creates the size-discovering string an AutoStringPointer
// references.
func newAutoString() *String {
	s := NewString(autoBlockSize)
	s.auto = true
	return s
}

// String returns the content up to the first zero byte.
func (s *String) String() string {
	if i := bytes.IndexByte(s.value, 0); i >= 0 {
		return string(s.value[:i])
	}
	return string(s.value)
}

// SetString copies v into the field without changing the declared size.
func (s *String) SetString(v string) { s.SetBytes([]byte(v)) }

// Terminated reports whether the content holds a zero terminator.
func (s *String) Terminated() bool { return bytes.IndexByte(s.value, 0) >= 0 }

func (s *String) Value() any { return s.String() }

func (s *String) SetValue(v any) error {
	switch t := v.(type) {
	case string:
		s.SetString(t)
	case []byte:
		s.SetBytes(t)
	default:
		return fieldError(ErrValueType, s.name, s.index, "cannot assign %T to a string field", v)
	}
	return nil
}

func (s *String) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	next, err := s.Stream.Deserialize(buf, idx, opt)
	if err != nil {
		return idx, err
	}
	if s.auto && !s.Terminated() {
		s.Resize(uint(len(s.value)) + autoBlockSize)
		next.Update = true
	}
	return next, nil
}

func (s *String) Describe(name string) Metadata { return fieldMetadata(s, name) }

func (s *String) clone() Member { c := *s; c.Stream = s.cloneStream(); return &c }
func (s *String) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: s})
}
