package konfoo

import "fmt"

// Sequence is the positional container: an ordered list of heterogeneous
// members serialized in list order.
type Sequence struct {
	members []Member
}

var _ Container = (*Sequence)(nil)

// NewSequence creates a sequence holding the given members.
func NewSequence(members ...Member) *Sequence {
	s := &Sequence{}
	for _, m := range members {
		s.Append(m)
	}
	return s
}

// Append adds a member to the end of the sequence. A nil member panics.
func (s *Sequence) Append(m Member) *Sequence {
	if m == nil {
		panic("konfoo: Sequence.Append called with a nil member")
	}
	s.members = append(s.members, m)
	return s
}

// At returns the member at position i.
func (s *Sequence) At(i int) Member { return s.members[i] }

// Members returns the backing member list, shared with the sequence.
func (s *Sequence) Members() []Member { return s.members }

func (s *Sequence) Kind() Kind { return KindSequence }
func (s *Sequence) Len() int   { return len(s.members) }

func (s *Sequence) BitLength() uint64 {
	var n uint64
	for _, m := range s.members {
		n += m.BitLength()
	}
	return n
}

// ContainerSize returns the accumulated member size as bytes plus leftover
// bits.
func (s *Sequence) ContainerSize() (uint64, uint) { return containerSize(s.BitLength()) }

func (s *Sequence) IndexFields(idx Index, opt Options) (Index, error) {
	var err error
	for _, m := range s.members {
		if idx, err = m.IndexFields(idx, opt); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (s *Sequence) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	var err error
	for _, m := range s.members {
		if idx, err = m.Deserialize(buf, idx, opt); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (s *Sequence) Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error) {
	var err error
	for _, m := range s.members {
		if buf, idx, err = m.Serialize(buf, idx, opt); err != nil {
			return buf, idx, err
		}
	}
	return buf, idx, nil
}

// FirstField returns the first leaf field in list order, or nil for an empty
// sequence.
func (s *Sequence) FirstField() Field { return firstFieldOf(s) }

// FieldItems returns every leaf field with its indexed path.
func (s *Sequence) FieldItems() []FieldItem {
	var items []FieldItem
	s.collectFieldItems("", &items)
	return items
}

func (s *Sequence) collectFieldItems(path string, items *[]FieldItem) {
	for i, m := range s.members {
		m.collectFieldItems(fmt.Sprintf("%s[%d]", path, i), items)
	}
}

// ViewFields returns a positional view list mirroring the sequence shape.
func (s *Sequence) ViewFields(attrs ...string) any {
	view := make([]any, len(s.members))
	for i, m := range s.members {
		view[i] = memberView(m, attrs)
	}
	return view
}

// Initialize bulk-assigns member values from a positional content list.
// Content longer than the sequence fails fast.
func (s *Sequence) Initialize(content any) error {
	values, ok := content.([]any)
	if !ok {
		return fieldError(ErrMemberType, "", Index{}, "sequence content must be []any, got %T", content)
	}
	if len(values) > len(s.members) {
		return fieldError(ErrMemberType, "", Index{},
			"content of %d values exceeds sequence of %d members", len(values), len(s.members))
	}
	for i, v := range values {
		if err := initializeMember(s.members[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequence) Describe(name string) Metadata {
	if name == "" {
		name = "Sequence"
	}
	return Metadata{
		Class:   "Sequence",
		Name:    name,
		Type:    KindSequence.String(),
		Size:    uint64(len(s.members)),
		Members: s.describeMembers(name),
	}
}

func (s *Sequence) describeMembers(name string) []Metadata {
	members := make([]Metadata, len(s.members))
	for i, m := range s.members {
		members[i] = m.Describe(fmt.Sprintf("%s[%d]", name, i))
	}
	return members
}

func (s *Sequence) clone() Member { return &Sequence{members: s.cloneMembers()} }

func (s *Sequence) cloneMembers() []Member {
	members := make([]Member, len(s.members))
	for i, m := range s.members {
		members[i] = m.clone()
	}
	return members
}

// MarshalBinary implements encoding.BinaryMarshaler with default options.
func (s *Sequence) MarshalBinary() ([]byte, error) { return Marshal(s, Options{}) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler with default options.
func (s *Sequence) UnmarshalBinary(data []byte) error { return Unmarshal(s, data, Options{}) }

// Array is a sequence constrained to one repeated element template. Elements
// are deep copies of the template, so no element ever aliases another.
type Array struct {
	Sequence
	template func() Member
}

var _ Container = (*Array)(nil)

// NewArray creates an array of capacity deep copies of the template element.
func NewArray(template Member, capacity int) *Array {
	if template == nil {
		panic("konfoo: NewArray called with a nil template")
	}
	return NewArrayFunc(template.clone, capacity)
}

// NewArrayFunc creates an array whose elements are produced by a factory,
// for templates that need per-element construction.
func NewArrayFunc(factory func() Member, capacity int) *Array {
	if factory == nil {
		panic("konfoo: NewArrayFunc called with a nil factory")
	}
	a := &Array{template: factory}
	a.Resize(capacity)
	return a
}

func (a *Array) Kind() Kind { return KindArray }

// Resize grows the array with fresh template copies or truncates it.
func (a *Array) Resize(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	if capacity <= len(a.members) {
		a.members = a.members[:capacity]
		return
	}
	for len(a.members) < capacity {
		a.members = append(a.members, a.template())
	}
}

// Initialize bulk-assigns element values, rotating through the content when
// it is shorter than the array.
func (a *Array) Initialize(content any) error {
	values, ok := content.([]any)
	if !ok {
		return fieldError(ErrMemberType, "", Index{}, "array content must be []any, got %T", content)
	}
	if len(values) == 0 {
		return nil
	}
	for i, m := range a.members {
		if err := initializeMember(m, values[i%len(values)]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Array) Describe(name string) Metadata {
	if name == "" {
		name = "Array"
	}
	return Metadata{
		Class:   "Array",
		Name:    name,
		Type:    KindArray.String(),
		Size:    uint64(len(a.members)),
		Members: a.describeMembers(name),
	}
}

func (a *Array) clone() Member {
	return &Array{Sequence: Sequence{members: a.cloneMembers()}, template: a.template}
}
