package konfoo

// Metadata is the nested description record produced by Describe: one entry
// per member, mirroring the tree shape through Members. Export utilities
// render these records; the json tags define the rendered key names.
type Metadata struct {
	// Class is the concrete type name, for example "Decimal16" or
	// "Structure".
	Class string `json:"class"`
	// Name is the member's name within its parent, or the class name for an
	// unnamed root.
	Name string `json:"name"`
	// Order is the declared byte order of a field.
	Order string `json:"order,omitempty"`
	// Size is the bit size for fields and the member count for containers.
	Size uint64 `json:"size"`
	// Type is the member shape, the Kind name.
	Type string `json:"type"`
	// Value is the field's value view.
	Value any `json:"value,omitempty"`
	// Index is the field's assigned location.
	Index *Index `json:"index,omitempty"`
	// Alignment is the field's packing group placement.
	Alignment *Alignment `json:"alignment,omitempty"`

	Max    any     `json:"max,omitempty"`
	Min    any     `json:"min,omitempty"`
	Signed bool    `json:"signed,omitempty"`
	Scale  float64 `json:"scale,omitempty"`

	// Members describes nested members for containers and pointers.
	Members []Metadata `json:"member,omitempty"`
}

// fieldMetadata builds the common metadata record for a leaf field.
func fieldMetadata(f Field, name string) Metadata {
	if name == "" {
		name = f.Name()
	}
	idx := f.Index()
	align := f.Alignment()
	return Metadata{
		Class:     f.Name(),
		Name:      name,
		Order:     f.ByteOrder().String(),
		Size:      uint64(f.BitSize()),
		Type:      KindField.String(),
		Value:     f.Value(),
		Index:     &idx,
		Alignment: &align,
	}
}

// pointerField is the view traversal helpers take of any pointer variant.
type pointerField interface {
	Field
	// Address returns the effective address of the referenced data.
	Address() uint64
	// Data returns the referenced data object, nil when unbound.
	Data() Member
}

// memberList is implemented by the positional containers.
type memberList interface {
	Members() []Member
}

// firstFieldOf returns the first leaf field of a member in declaration
// order, or nil when the member holds no fields. The patch mechanism uses it
// to locate a container's starting byte offset.
func firstFieldOf(m Member) Field {
	switch m.Kind() {
	case KindStructure:
		st := m.(*Structure)
		for _, name := range st.names {
			if f := firstFieldOf(st.members[name]); f != nil {
				return f
			}
		}
		return nil
	case KindSequence, KindArray:
		for _, mm := range m.(memberList).Members() {
			if f := firstFieldOf(mm); f != nil {
				return f
			}
		}
		return nil
	}
	return m.(Field)
}

// memberView renders a member as plain data: containers recurse into their
// shape, pointers expose value and data, fields yield their value or the
// requested attributes.
func memberView(m Member, attrs []string) any {
	switch m.Kind() {
	case KindStructure, KindSequence, KindArray:
		return m.(Container).ViewFields(attrs...)
	case KindPointer:
		p := m.(pointerField)
		view := map[string]any{"value": fieldView(p, attrs)}
		if data := p.Data(); data != nil {
			view["data"] = memberView(data, attrs)
		}
		return view
	}
	return fieldView(m.(Field), attrs)
}

// fieldView yields a field's value, or a record of the requested attributes.
// Supported attributes: name, value, bit_size, index, alignment, byte_order.
func fieldView(f Field, attrs []string) any {
	if len(attrs) == 0 {
		return f.Value()
	}
	view := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		switch attr {
		case "name":
			view[attr] = f.Name()
		case "value":
			view[attr] = f.Value()
		case "bit_size":
			view[attr] = f.BitSize()
		case "index":
			view[attr] = f.Index()
		case "alignment":
			view[attr] = f.Alignment()
		case "byte_order":
			view[attr] = f.ByteOrder().String()
		}
	}
	return view
}

// initializeMember dispatches bulk initialization content to a member.
func initializeMember(m Member, content any) error {
	switch m.Kind() {
	case KindStructure, KindSequence, KindArray, KindPointer:
		return m.(Container).Initialize(content)
	}
	return m.(Field).SetValue(content)
}
