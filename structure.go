package konfoo

// Structure is the named-member container: an ordered mapping from member
// name to Field, Container or Pointer. Insertion order is serialization
// order.
type Structure struct {
	names   []string
	members map[string]Member
}

var _ Container = (*Structure)(nil)

// NewStructure creates an empty structure.
func NewStructure() *Structure {
	return &Structure{members: make(map[string]Member)}
}

// Add appends a named member and returns the structure for declarative
// chaining. An empty name, nil member or duplicate name panics: the layout
// declaration is part of the program.
func (s *Structure) Add(name string, m Member) *Structure {
	if name == "" {
		panic("konfoo: Structure.Add called with an empty member name")
	}
	if m == nil {
		panic("konfoo: Structure.Add called with a nil member")
	}
	if _, ok := s.members[name]; ok {
		panic("konfoo: Structure.Add called with duplicate member name " + name)
	}
	s.names = append(s.names, name)
	s.members[name] = m
	return s
}

// Get returns the member bound to name.
func (s *Structure) Get(name string) (Member, bool) {
	m, ok := s.members[name]
	return m, ok
}

// Field returns the member bound to name when it is a leaf field or pointer.
func (s *Structure) Field(name string) (Field, bool) {
	f, ok := s.members[name].(Field)
	return f, ok
}

// Names returns the member names in insertion order.
func (s *Structure) Names() []string { return append([]string(nil), s.names...) }

func (s *Structure) Kind() Kind { return KindStructure }
func (s *Structure) Len() int   { return len(s.names) }

func (s *Structure) BitLength() uint64 {
	var n uint64
	for _, name := range s.names {
		n += s.members[name].BitLength()
	}
	return n
}

// ContainerSize returns the accumulated member size as bytes plus leftover
// bits.
func (s *Structure) ContainerSize() (uint64, uint) { return containerSize(s.BitLength()) }

func (s *Structure) IndexFields(idx Index, opt Options) (Index, error) {
	var err error
	for _, name := range s.names {
		if idx, err = s.members[name].IndexFields(idx, opt); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (s *Structure) Deserialize(buf []byte, idx Index, opt Options) (Index, error) {
	var err error
	for _, name := range s.names {
		if idx, err = s.members[name].Deserialize(buf, idx, opt); err != nil {
			return idx, err
		}
	}
	return idx, nil
}

func (s *Structure) Serialize(buf []byte, idx Index, opt Options) ([]byte, Index, error) {
	var err error
	for _, name := range s.names {
		if buf, idx, err = s.members[name].Serialize(buf, idx, opt); err != nil {
			return buf, idx, err
		}
	}
	return buf, idx, nil
}

// FirstField returns the first leaf field in declaration order, or nil for
// an empty structure.
func (s *Structure) FirstField() Field { return firstFieldOf(s) }

// FieldItems returns every leaf field with its dotted path.
func (s *Structure) FieldItems() []FieldItem {
	var items []FieldItem
	s.collectFieldItems("", &items)
	return items
}

func (s *Structure) collectFieldItems(path string, items *[]FieldItem) {
	for _, name := range s.names {
		s.members[name].collectFieldItems(joinPath(path, name), items)
	}
}

// ViewFields returns a name-to-view mapping mirroring the structure shape.
func (s *Structure) ViewFields(attrs ...string) any {
	view := make(map[string]any, len(s.names))
	for _, name := range s.names {
		view[name] = memberView(s.members[name], attrs)
	}
	return view
}

// Initialize bulk-assigns member values from a name-to-content mapping.
// Unknown names fail fast: a mismatched initializer indicates a schema bug.
func (s *Structure) Initialize(content any) error {
	values, ok := content.(map[string]any)
	if !ok {
		return fieldError(ErrMemberType, "", Index{}, "structure content must be map[string]any, got %T", content)
	}
	for name := range values {
		if _, ok := s.members[name]; !ok {
			return fieldError(ErrMemberType, "", Index{}, "structure has no member %q", name)
		}
	}
	for _, name := range s.names {
		v, ok := values[name]
		if !ok {
			continue
		}
		if err := initializeMember(s.members[name], v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Structure) Describe(name string) Metadata {
	if name == "" {
		name = "Structure"
	}
	m := Metadata{
		Class: "Structure",
		Name:  name,
		Type:  KindStructure.String(),
		Size:  uint64(len(s.names)),
	}
	for _, n := range s.names {
		m.Members = append(m.Members, s.members[n].Describe(n))
	}
	return m
}

func (s *Structure) clone() Member {
	c := NewStructure()
	for _, name := range s.names {
		c.Add(name, s.members[name].clone())
	}
	return c
}

// MarshalBinary implements encoding.BinaryMarshaler with default options.
func (s *Structure) MarshalBinary() ([]byte, error) { return Marshal(s, Options{}) }

// UnmarshalBinary implements encoding.BinaryUnmarshaler with default options.
func (s *Structure) UnmarshalBinary(data []byte) error { return Unmarshal(s, data, Options{}) }
