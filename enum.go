package konfoo

import (
	"sort"
	"strconv"

	"github.com/puzpuzpuz/xsync/v4"
)

// Enumeration is an immutable symbol table mapping names to stored integer
// values, injected into Enum fields to give raw register values readable
// views.
type Enumeration struct {
	name    string
	byName  map[string]uint64
	byValue map[uint64]string
}

// enumerations is the process-wide registry of named tables. A concurrent map
// keeps registration safe from init functions running in parallel packages.
var enumerations = xsync.NewMap[string, *Enumeration]()

// NewEnumeration builds a symbol table from a name-to-value mapping. When two
// names share a value, the lexicographically smallest name wins the reverse
// lookup, keeping the view deterministic.
func NewEnumeration(name string, members map[string]uint64) *Enumeration {
	e := &Enumeration{
		name:    name,
		byName:  make(map[string]uint64, len(members)),
		byValue: make(map[uint64]string, len(members)),
	}
	names := make([]string, 0, len(members))
	for n := range members {
		names = append(names, n)
	}
	sort.Strings(names)
	for i := len(names) - 1; i >= 0; i-- {
		n := names[i]
		e.byName[n] = members[n]
		e.byValue[members[n]] = n
	}
	return e
}

// RegisterEnumeration publishes a table under its name for lookup by other
// packages. Re-registering a name replaces the previous table.
func RegisterEnumeration(e *Enumeration) { enumerations.Store(e.name, e) }

// LookupEnumeration returns a registered table by name.
func LookupEnumeration(name string) (*Enumeration, bool) { return enumerations.Load(name) }

// Name returns the table's name.
func (e *Enumeration) Name() string { return e.name }

// Symbol returns the name registered for a value.
func (e *Enumeration) Symbol(value uint64) (string, bool) {
	s, ok := e.byValue[value]
	return s, ok
}

// Value returns the value registered for a name.
func (e *Enumeration) Value(name string) (uint64, bool) {
	v, ok := e.byName[name]
	return v, ok
}

// Enum is a decimal field whose value view is a symbol from an injected
// Enumeration, falling back to the raw integer when no symbol matches.
type Enum struct {
	Decimal
	table *Enumeration
}

var _ Field = (*Enum)(nil)

// NewEnum creates an enum field of the given bit size over a symbol table.
// A nil table panics.
func NewEnum(bitSize uint, table *Enumeration) *Enum {
	if table == nil {
		panic("konfoo: NewEnum called with a nil enumeration")
	}
	return &Enum{Decimal: *newDecimal("Enum", bitSize, 0, false), table: table}
}

// Enumeration returns the injected symbol table.
func (e *Enum) Enumeration() *Enumeration { return e.table }

// Symbol returns the symbol for the stored value, or the empty string when
// the table has no matching entry.
func (e *Enum) Symbol() string {
	s, _ := e.table.Symbol(e.value)
	return s
}

// Value returns the symbol for the stored value, or the raw integer when no
// symbol matches.
func (e *Enum) Value() any {
	if s, ok := e.table.Symbol(e.value); ok {
		return s
	}
	return e.value
}

// SetValue assigns an integer, an integer literal, or a symbol. A string is
// tried as an integer literal first, then as a symbol lookup; anything else
// is an unknown symbol error.
func (e *Enum) SetValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return e.setNumber(v)
	}
	if n, err := strconv.ParseUint(s, 0, 64); err == nil {
		e.SetUint(n)
		return nil
	}
	n, ok := e.table.Value(s)
	if !ok {
		return fieldError(ErrEnumSymbol, e.name, e.index,
			"%q is not a member of enumeration %s", s, e.table.name)
	}
	e.SetUint(n)
	return nil
}

func (e *Enum) Describe(name string) Metadata {
	m := e.Decimal.Describe(name)
	m.Value = e.Value()
	return m
}

func (e *Enum) clone() Member { c := *e; c.Decimal = e.cloneDecimal(); return &c }
func (e *Enum) collectFieldItems(path string, items *[]FieldItem) {
	*items = append(*items, FieldItem{Path: path, Field: e})
}
