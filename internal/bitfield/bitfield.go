// Package bitfield reads and writes inclusive bit ranges of unsigned integers.
package bitfield

// Unsigned is the set of integer types the helpers operate on.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// Mask returns a value with bits lo..hi (inclusive) set. An inverted range
// yields 0.
func Mask[T Unsigned](lo, hi uint) T {
	if hi < lo {
		return 0
	}
	// Shifting by the full width yields 0 in Go, so hi = width-1 still works.
	return (T(1)<<(hi-lo+1) - 1) << lo
}

// Extract returns bits lo..hi of value, right-aligned.
func Extract[T Unsigned](value T, hi, lo uint) T {
	return (value & Mask[T](lo, hi)) >> lo
}

// Insert returns value with bits lo..hi replaced by the low bits of field.
// Bits of field that do not fit the range are dropped and every other bit
// of value is preserved.
func Insert[T Unsigned](value T, hi, lo uint, field T) T {
	m := Mask[T](lo, hi)
	return (value &^ m) | ((field << lo) & m)
}
