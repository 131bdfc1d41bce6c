// Package export renders layout trees as interchange formats: JSON value
// views, JSON and CBOR metadata descriptions, and flat CSV field listings.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	_cbor "github.com/fxamacker/cbor/v2"
	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/JoeVirtual/konfoo"
)

// marshalOptions provides options for rendering JSON output.
type marshalOptions struct {
	indent string
}

// MarshalOption configures JSON rendering.
type MarshalOption func(marshalOptions) (marshalOptions, error)

// WithIndent renders multi-line JSON indented with the given string.
func WithIndent(indent string) MarshalOption {
	return func(m marshalOptions) (marshalOptions, error) {
		m.indent = indent
		return m, nil
	}
}

func jsonOptions(options []MarshalOption) ([]jsonv2.Options, error) {
	opts := marshalOptions{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return nil, err
		}
	}
	jopts := []jsonv2.Options{jsonv2.Deterministic(true)}
	if opts.indent != "" {
		jopts = append(jopts, jsontext.WithIndent(opts.indent))
	}
	return jopts, nil
}

// JSON renders a container's value view as JSON, mirroring the container
// shape: objects for structures, arrays for sequences and arrays, value and
// data entries for pointers.
func JSON(c konfoo.Container, options ...MarshalOption) ([]byte, error) {
	jopts, err := jsonOptions(options)
	if err != nil {
		return nil, err
	}
	return jsonv2.Marshal(c.ViewFields(), jopts...)
}

// WriteJSON renders a container's value view as JSON to w.
func WriteJSON(w io.Writer, c konfoo.Container, options ...MarshalOption) error {
	jopts, err := jsonOptions(options)
	if err != nil {
		return err
	}
	return jsonv2.MarshalWrite(w, c.ViewFields(), jopts...)
}

// JSONMetadata renders a member's full metadata description as JSON: type
// names, sizes, byte orders, locations and values of the whole tree.
func JSONMetadata(m konfoo.Member, options ...MarshalOption) ([]byte, error) {
	jopts, err := jsonOptions(options)
	if err != nil {
		return nil, err
	}
	return jsonv2.Marshal(m.Describe(""), jopts...)
}

// CBORMetadata renders a member's metadata description as deterministic
// CBOR.
func CBORMetadata(m konfoo.Member) ([]byte, error) {
	em, err := _cbor.EncOptions{Sort: _cbor.SortCoreDeterministic}.EncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(m.Describe(""))
}

// WriteCSV writes one row per leaf field of the container to w, with the
// columns id, name and value. The id column holds the field's dotted path.
func WriteCSV(w io.Writer, c konfoo.Container) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "value"}); err != nil {
		return err
	}
	for _, item := range c.FieldItems() {
		row := []string{item.Path, item.Field.Name(), fmt.Sprint(item.Field.Value())}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
