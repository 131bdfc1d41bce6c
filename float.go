package konfoo

import "math"

// Float is a fixed 4-byte IEEE 754 single precision field. Assigned values
// clamp to the finite single precision range.
type Float struct {
	Decimal
}

var _ Field = (*Float)(nil)

// NewFloat creates a single precision float field.
func NewFloat() *Float {
	return &Float{*newDecimal("Float", 32, 0, false)}
}

// Float returns the IEEE 754 view of the stored bits.
func (f *Float) Float() float64 { return float64(math.Float32frombits(uint32(f.value))) }

// SetFloat assigns a value, clamping to the finite float32 range.
func (f *Float) SetFloat(v float64) {
	switch {
	case v > math.MaxFloat32:
		v = math.MaxFloat32
	case v < -math.MaxFloat32:
		v = -math.MaxFloat32
	}
	f.value = uint64(math.Float32bits(float32(v)))
}

func (f *Float) Value() any { return f.Float() }

func (f *Float) SetValue(v any) error { return setFloat(f.name, f.index, v, f.SetFloat) }

func (f *Float) Describe(name string) Metadata {
	m := fieldMetadata(f, name)
	m.Max = math.MaxFloat32
	m.Min = -math.MaxFloat32
	m.Signed = true
	return m
}

func (f *Float) clone() Member { c := *f; c.Decimal = f.cloneDecimal(); return &c }
func (f *Float) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: f})
}

// Double is a fixed 8-byte IEEE 754 double precision field.
type Double struct {
	Decimal
}

var _ Field = (*Double)(nil)

// NewDouble creates a double precision float field.
func NewDouble() *Double {
	return &Double{*newDecimal("Double", 64, 0, false)}
}

// Float returns the IEEE 754 view of the stored bits.
func (d *Double) Float() float64 { return math.Float64frombits(d.value) }

// SetFloat assigns a value, clamping non-finite inputs to the finite range.
func (d *Double) SetFloat(v float64) {
	switch {
	case math.IsInf(v, 1):
		v = math.MaxFloat64
	case math.IsInf(v, -1):
		v = -math.MaxFloat64
	}
	d.value = math.Float64bits(v)
}

func (d *Double) Value() any { return d.Float() }

func (d *Double) SetValue(v any) error { return setFloat(d.name, d.index, v, d.SetFloat) }

func (d *Double) Describe(name string) Metadata {
	m := fieldMetadata(d, name)
	m.Max = math.MaxFloat64
	m.Min = -math.MaxFloat64
	m.Signed = true
	return m
}

func (d *Double) clone() Member { c := *d; c.Decimal = d.cloneDecimal(); return &c }
func (d *Double) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: d})
}
