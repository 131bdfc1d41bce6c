// Package bits provides the low-level bit manipulation primitives used by the
// field pack/unpack machinery: masks over half-open bit ranges, extraction and
// merging of bit windows inside 64-bit groups, sign extension, and conversion
// between byte groups and their integer form in either byte order.
//
// All bit positions are LSB-relative. A "group" is at most 8 bytes, the
// largest unit a single field may occupy.
package bits

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Mask returns a mask with all bits set from start (inclusive) to end
// (exclusive). Index starts at 0, so Mask(1, 4) covers bits 1 to 3.
// If start >= end or end exceeds 64, this panics.
func Mask[U constraints.Unsigned](start, end uint) U {
	if start >= end {
		panic("bits: mask start cannot be >= end")
	}
	if end > 64 {
		panic(fmt.Sprintf("bits: mask end cannot be %d, 64 bits is the largest group", end))
	}
	if end == 64 && start == 0 {
		return ^U(0)
	}
	return U((uint64(1)<<(end-start) - 1) << start)
}

// Extract returns the size-bit window of store starting at bit start.
func Extract(store uint64, start, size uint) uint64 {
	return (store & Mask[uint64](start, start+size)) >> start
}

// Merge stores the low size bits of val into store at bit start, clearing the
// window first so that a merge over stale content is idempotent. Bits outside
// the window are preserved.
func Merge(store, val uint64, start, size uint) uint64 {
	m := Mask[uint64](start, start+size)
	return (store &^ m) | ((val << start) & m)
}

// SignExtend interprets the low size bits of v as a two's complement number
// and widens it to an int64.
func SignExtend(v uint64, size uint) int64 {
	if size == 0 || size > 64 {
		panic(fmt.Sprintf("bits: cannot sign extend a %d bit value", size))
	}
	if size == 64 {
		return int64(v)
	}
	sign := uint64(1) << (size - 1)
	v &= Mask[uint64](0, size)
	if v&sign != 0 {
		return int64(v | ^Mask[uint64](0, size))
	}
	return int64(v)
}

// Roundup rounds n up to the nearest multiple of align.
func Roundup[T constraints.Integer](n, align T) T { return (n + (align - 1)) &^ (align - 1) }

// GroupUint converts a byte group of up to 8 bytes into its unsigned integer
// form. With big set, b[0] is the most significant byte; otherwise the group
// is read little endian.
func GroupUint(b []byte, big bool) uint64 {
	if len(b) > 8 {
		panic(fmt.Sprintf("bits: group of %d bytes exceeds the 64 bit maximum", len(b)))
	}
	var v uint64
	if big {
		for _, c := range b {
			v = v<<8 | uint64(c)
		}
		return v
	}
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// PutGroupUint writes the low len(b) bytes of v into b, inverse of GroupUint.
func PutGroupUint(b []byte, v uint64, big bool) {
	if len(b) > 8 {
		panic(fmt.Sprintf("bits: group of %d bytes exceeds the 64 bit maximum", len(b)))
	}
	if big {
		for i := len(b) - 1; i >= 0; i-- {
			b[i] = byte(v)
			v >>= 8
		}
		return
	}
	for i := range b {
		b[i] = byte(v)
		v >>= 8
	}
}
