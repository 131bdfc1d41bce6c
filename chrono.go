package konfoo

import (
	"net/netip"
	"time"
)

// datetimeLayout is the wall clock format of the Datetime value view.
const datetimeLayout = time.DateTime

// Datetime is a 32-bit decimal field holding seconds since the Unix epoch,
// viewed as a UTC wall clock string.
type Datetime struct {
	Decimal
}

var _ Field = (*Datetime)(nil)

// NewDatetime creates an epoch-seconds timestamp field.
func NewDatetime() *Datetime {
	d := &Datetime{*newDecimal("Datetime", 32, 0, false)}
	return d
}

// Time returns the stored timestamp in UTC.
func (d *Datetime) Time() time.Time { return time.Unix(int64(d.value), 0).UTC() }

// SetTime stores a timestamp, clamping pre-epoch and post-2106 instants to
// the 32-bit range.
func (d *Datetime) SetTime(t time.Time) { d.SetInt(t.Unix()) }

func (d *Datetime) Value() any { return d.Time().Format(datetimeLayout) }

// SetValue accepts a time.Time, an epoch-seconds integer, or a wall clock
// string in "2006-01-02 15:04:05" form, parsed as UTC.
func (d *Datetime) SetValue(v any) error {
	switch t := v.(type) {
	case time.Time:
		d.SetTime(t)
		return nil
	case string:
		parsed, err := time.ParseInLocation(datetimeLayout, t, time.UTC)
		if err != nil {
			return fieldError(ErrValueType, d.name, d.index, "invalid datetime %q", t)
		}
		d.SetTime(parsed)
		return nil
	}
	return d.setNumber(v)
}

func (d *Datetime) Describe(name string) Metadata {
	m := d.Decimal.Describe(name)
	m.Value = d.Value()
	return m
}

func (d *Datetime) clone() Member { c := *d; c.Decimal = d.cloneDecimal(); return &c }
func (d *Datetime) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: d})
}

// IPv4Address is a 32-bit decimal field viewed as a dotted quad. The stored
// integer is in host form under the field's byte order; the view places the
// most significant byte first.
type IPv4Address struct {
	Decimal
}

var _ Field = (*IPv4Address)(nil)

// NewIPv4Address creates an IPv4 address field.
func NewIPv4Address() *IPv4Address {
	return &IPv4Address{*newDecimal("Ipv4Address", 32, 0, false)}
}

// Addr returns the stored address.
func (i *IPv4Address) Addr() netip.Addr {
	v := uint32(i.value)
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

// SetAddr stores an IPv4 address. Non-IPv4 addresses are rejected.
func (i *IPv4Address) SetAddr(a netip.Addr) error {
	if !a.Is4() {
		return fieldError(ErrValueType, i.name, i.index, "address %s is not IPv4", a)
	}
	b := a.As4()
	i.value = uint64(b[0])<<24 | uint64(b[1])<<16 | uint64(b[2])<<8 | uint64(b[3])
	return nil
}

func (i *IPv4Address) Value() any { return i.Addr().String() }

// SetValue accepts a netip.Addr, a dotted quad string, or an integer.
func (i *IPv4Address) SetValue(v any) error {
	switch t := v.(type) {
	case netip.Addr:
		return i.SetAddr(t)
	case string:
		a, err := netip.ParseAddr(t)
		if err != nil {
			return fieldError(ErrValueType, i.name, i.index, "invalid IPv4 address %q", t)
		}
		return i.SetAddr(a)
	}
	return i.setNumber(v)
}

func (i *IPv4Address) Describe(name string) Metadata {
	m := i.Decimal.Describe(name)
	m.Value = i.Value()
	return m
}

func (i *IPv4Address) clone() Member { c := *i; c.Decimal = i.cloneDecimal(); return &c }
func (i *IPv4Address) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: i})
}
