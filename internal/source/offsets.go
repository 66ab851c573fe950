package source

import (
	"math"
	"sort"
)

// offsetIndex is the sorted sequence of byte offsets of every '\n' in a
// buffer. The element width is picked once, at build time, as the smallest
// unsigned integer that can represent the buffer length, so a set holding
// many small buffers does not pay 8 bytes per newline. Callers only ever see
// the width-erased accessors.
type offsetIndex interface {
	// count returns the number of newlines in the buffer.
	count() int
	// offsetAt returns the byte offset of the i-th newline.
	offsetAt(i int) int
	// lowerBound returns the index of the first newline at or after off,
	// which is the newline that ends the line containing off. Returns
	// count() when no such newline exists.
	lowerBound(off int) int
}

type (
	offsets8  []uint8
	offsets16 []uint16
	offsets32 []uint32
	offsets64 []uint64
)

// buildOffsetIndex scans content once and stores every newline offset at the
// narrowest width that fits the buffer length.
func buildOffsetIndex(content []byte) offsetIndex {
	switch size := len(content); {
	case size <= math.MaxUint8:
		return offsets8(collectOffsets[uint8](content))
	case size <= math.MaxUint16:
		return offsets16(collectOffsets[uint16](content))
	case size <= math.MaxUint32:
		return offsets32(collectOffsets[uint32](content))
	default:
		return offsets64(collectOffsets[uint64](content))
	}
}

// collectOffsets assumes the caller picked T wide enough for len(content).
func collectOffsets[T uint8 | uint16 | uint32 | uint64](content []byte) []T {
	out := make([]T, 0)
	for i, b := range content {
		if b == '\n' {
			out = append(out, T(i))
		}
	}
	return out
}

func (o offsets8) count() int         { return len(o) }
func (o offsets8) offsetAt(i int) int { return int(o[i]) }
func (o offsets8) lowerBound(off int) int {
	return sort.Search(len(o), func(i int) bool { return int(o[i]) >= off })
}

func (o offsets16) count() int         { return len(o) }
func (o offsets16) offsetAt(i int) int { return int(o[i]) }
func (o offsets16) lowerBound(off int) int {
	return sort.Search(len(o), func(i int) bool { return int(o[i]) >= off })
}

func (o offsets32) count() int         { return len(o) }
func (o offsets32) offsetAt(i int) int { return int(o[i]) }
func (o offsets32) lowerBound(off int) int {
	return sort.Search(len(o), func(i int) bool { return int(o[i]) >= off })
}

func (o offsets64) count() int         { return len(o) }
func (o offsets64) offsetAt(i int) int { return int(o[i]) }
func (o offsets64) lowerBound(off int) int {
	return sort.Search(len(o), func(i int) bool { return int(o[i]) >= off })
}
