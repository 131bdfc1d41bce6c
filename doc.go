// Package konfoo is a declarative byte stream mapper: it describes the layout
// of binary memory (firmware structs, register maps, wire records) as a tree
// of typed fields and translates mechanically between that tree and raw byte
// buffers sourced from an addressable Provider such as a file or a device
// memory window.
//
// A layout is built by composing three member shapes:
//
//   - Field: the atomic leaf, a bit-sized, byte-order-aware unit that unpacks
//     itself from a buffer slice and packs itself into one, including sub-byte
//     bit-field packing.
//   - Container: a Structure (named members), Sequence (positional members) or
//     Array (one repeated element template) that recursively indexes,
//     deserializes and serializes its members.
//   - Pointer: a 32-bit address field that additionally owns a referenced data
//     object fetched indirectly through a Provider, and that can compute
//     minimal patches to update single bit-fields in a live data source
//     without disturbing sibling bits.
//
// Every traversal threads an immutable Index cursor (byte offset, bit offset,
// absolute address) and an immutable Options value (decoding byte order,
// pointer recursion) down the tree. Buffers are always owned by the caller:
// Serialize appends to and returns the provided slice, Deserialize only reads.
//
// The tree is a single owner's working set. No internal locking exists; if
// concurrent access is required, callers must add their own synchronization.
package konfoo
