package konfoo

import "log/slog"

// Options is the immutable per-traversal configuration, passed by value down
// the call chain. The zero value is ready to use: little endian decoding, no
// pointer recursion, null pointers skipped.
type Options struct {
	// ByteOrder is the decoding byte order applied to fields declared with
	// Auto. Auto here resolves to DefaultByteOrder.
	ByteOrder ByteOrder
	// Nested makes traversals recurse into the data objects referenced by
	// pointers: indexing assigns their coordinate spaces, serialization round
	// trips their bytestreams, and Fetch chains through nested pointers.
	Nested bool
	// NullAllowed permits a Fetch through a pointer whose value is zero.
	NullAllowed bool
	// Logger receives debug traces of provider I/O. Nil falls back to
	// slog.Default.
	Logger *slog.Logger
}

// WithByteOrder returns a copy of the options with the decoding order set.
func (o Options) WithByteOrder(order ByteOrder) Options {
	o.ByteOrder = order
	return o
}

// WithNested returns a copy of the options with pointer recursion enabled.
func (o Options) WithNested() Options {
	o.Nested = true
	return o
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
