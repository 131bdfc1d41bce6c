package konfoo

// Marshal serializes a member into a fresh buffer, indexing its fields from
// byte zero as it goes.
func Marshal(m Member, opt Options) ([]byte, error) {
	buf, _, err := m.Serialize(nil, Index{}, opt)
	return buf, err
}

// Unmarshal decodes a member from data, indexing its fields from byte zero.
// Data shorter than the layout zero-fills the missing tail; data longer than
// the layout is accepted only when the excess bytes are all zero padding,
// otherwise ErrTrailingData is returned.
func Unmarshal(m Member, data []byte, opt Options) error {
	if _, err := m.Deserialize(data, Index{}, opt); err != nil {
		return err
	}
	consumed := (m.BitLength() + 7) / 8
	if consumed >= uint64(len(data)) {
		return nil
	}
	for i, b := range data[consumed:] {
		if b != 0 {
			return fieldError(ErrTrailingData, "", Index{Byte: consumed + uint64(i)},
				"unexpected byte %#02x", b)
		}
	}
	return nil
}
