package konfoo

import (
	"fmt"
	"math"

	"github.com/JoeVirtual/konfoo/internal/bits"
)

// Scaled is a signed decimal field carrying a floating point view: the stored
// integer is a fixed-point sample scaled so that the declared scale maps to
// half the field's positive range.
//
// The float view is stored/ScalingBase*scale. Assignment is the exact
// inverse, rounded and clamped to the field's range, so values beyond the
// representable span quantize rather than fail.
type Scaled struct {
	Decimal
	scale float64
}

var _ Field = (*Scaled)(nil)

// NewScaled creates a scaled field. A zero or non-finite scale panics.
func NewScaled(scale float64, bitSize uint) *Scaled {
	if scale == 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		panic(fmt.Sprintf("konfoo: NewScaled called with an unusable scale %v", scale))
	}
	return &Scaled{Decimal: *newDecimal("Scaled", bitSize, 0, true), scale: scale}
}

// Scale returns the declared scale.
func (s *Scaled) Scale() float64 { return s.scale }

// ScalingBase returns the fixed-point divisor, 2^(bitSize-1)/2.
func (s *Scaled) ScalingBase() float64 {
	return float64(uint64(1)<<(s.bitSize-1)) / 2
}

// Float returns the scaled floating point view of the stored value.
func (s *Scaled) Float() float64 {
	return float64(s.Int()) / s.ScalingBase() * s.scale
}

// SetFloat assigns a floating point value, quantizing to the nearest stored
// sample and clamping to the field's range.
func (s *Scaled) SetFloat(v float64) {
	s.SetInt(int64(math.Round(v / s.scale * s.ScalingBase())))
}

func (s *Scaled) Value() any { return s.Float() }

func (s *Scaled) SetValue(v any) error { return setFloat(s.name, s.index, v, s.SetFloat) }

func (s *Scaled) Describe(name string) Metadata {
	m := s.Decimal.Describe(name)
	m.Value = s.Float()
	m.Scale = s.scale
	return m
}

func (s *Scaled) clone() Member { c := *s; c.Decimal = s.cloneDecimal(); return &c }
func (s *Scaled) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: s})
}

// Fraction splits its stored bits into an optional sign bit, an integer part
// and a fractional part, viewed as a percentage. The split point between
// integer and fraction bits is declared independently of the overall bit
// size.
type Fraction struct {
	Decimal
	bitsInteger uint
	bipolar     bool
}

var _ Field = (*Fraction)(nil)

// NewUnipolar creates an unsigned fraction field: all bits hold magnitude.
func NewUnipolar(bitsInteger, bitSize uint) *Fraction {
	return newFraction("Unipolar", bitsInteger, bitSize, false)
}

// NewBipolar creates a signed fraction field: the most significant bit holds
// the sign, the rest the magnitude.
func NewBipolar(bitsInteger, bitSize uint) *Fraction {
	return newFraction("Bipolar", bitsInteger, bitSize, true)
}

func newFraction(base string, bitsInteger, bitSize uint, bipolar bool) *Fraction {
	f := &Fraction{
		Decimal:     *newDecimal(base, bitSize, 0, false),
		bitsInteger: bitsInteger,
		bipolar:     bipolar,
	}
	if bitsInteger < 1 || bitsInteger > f.magnitudeBits() {
		panic(fieldError(ErrBitSize, f.name, Index{},
			"%d integer bits do not fit a %d bit %s field", bitsInteger, bitSize, base))
	}
	return f
}

// magnitudeBits returns the number of bits holding integer plus fraction.
func (f *Fraction) magnitudeBits() uint {
	if f.bipolar {
		return f.bitSize - 1
	}
	return f.bitSize
}

func (f *Fraction) fractionBits() uint { return f.magnitudeBits() - f.bitsInteger }

// Float returns the percentage view: (integer + fraction/2^fractionBits)
// times 100, negated when the sign bit of a bipolar field is set.
func (f *Fraction) Float() float64 {
	magnitude := bits.Extract(f.value, 0, f.magnitudeBits())
	v := float64(magnitude) / float64(uint64(1)<<f.fractionBits()) * 100
	if f.bipolar && f.value>>(f.bitSize-1) != 0 {
		return -v
	}
	return v
}

// SetFloat assigns a percentage, quantizing the magnitude and clamping to the
// representable span. Negative values on a unipolar field clamp to zero.
func (f *Fraction) SetFloat(v float64) {
	negative := v < 0
	if negative && !f.bipolar {
		f.value = 0
		return
	}
	magnitude := uint64(math.Round(math.Abs(v) / 100 * float64(uint64(1)<<f.fractionBits())))
	limit := bits.Mask[uint64](0, f.magnitudeBits())
	if magnitude > limit {
		magnitude = limit
	}
	if f.bipolar && negative {
		magnitude |= uint64(1) << (f.bitSize - 1)
	}
	f.value = magnitude
}

func (f *Fraction) Value() any { return f.Float() }

func (f *Fraction) SetValue(v any) error { return setFloat(f.name, f.index, v, f.SetFloat) }

func (f *Fraction) Describe(name string) Metadata {
	m := f.Decimal.Describe(name)
	m.Value = f.Float()
	return m
}

func (f *Fraction) clone() Member { c := *f; c.Decimal = f.cloneDecimal(); return &c }
func (f *Fraction) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: f})
}

// setFloat assigns any numeric value through a float setter.
func setFloat(name string, idx Index, v any, set func(float64)) error {
	switch n := v.(type) {
	case float64:
		set(n)
	case float32:
		set(float64(n))
	case int:
		set(float64(n))
	case int64:
		set(float64(n))
	case uint64:
		set(float64(n))
	default:
		return fieldError(ErrValueType, name, idx, "cannot assign %T to a float-valued field", v)
	}
	return nil
}
