package bitfield

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMask tests mask construction for single and multi bit ranges
func TestMask(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   uint
		expected uint8
	}{
		{name: "bit 0", lo: 0, hi: 0, expected: 1},
		{name: "bits 0-1", lo: 0, hi: 1, expected: 3},
		{name: "bits 0-3", lo: 0, hi: 3, expected: 15},
		{name: "bits 0-7", lo: 0, hi: 7, expected: 255},
		{name: "bit 1", lo: 1, hi: 1, expected: 2},
		{name: "bit 5", lo: 5, hi: 5, expected: 32},
		{name: "bits 1-2", lo: 1, hi: 2, expected: 6},
		{name: "bits 4-5", lo: 4, hi: 5, expected: 48},
		{name: "bits 2-4", lo: 2, hi: 4, expected: 28},
		{name: "bits 4-6", lo: 4, hi: 6, expected: 112},
		{name: "high nibble", lo: 4, hi: 7, expected: 0xF0},
		{name: "inverted range", lo: 3, hi: 1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Mask[uint8](tt.lo, tt.hi))
		})
	}
}

// TestMask_FullWidth tests masks covering the top bit of each width
func TestMask_FullWidth(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), Mask[uint16](0, 15))
	assert.Equal(t, uint32(0xFFFFFFFF), Mask[uint32](0, 31))
	assert.Equal(t, ^uint64(0), Mask[uint64](0, 63))
	assert.Equal(t, uint64(1)<<63, Mask[uint64](63, 63))
}

// TestExtract tests right-aligned extraction
func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		value    uint8
		hi, lo   uint
		expected uint8
	}{
		{name: "zero value", value: 0b0000, hi: 3, lo: 0, expected: 0},
		{name: "all ones bit 0", value: 0b1111, hi: 0, lo: 0, expected: 1},
		{name: "all ones 0-2", value: 0b1111, hi: 2, lo: 0, expected: 7},
		{name: "all ones 1-3", value: 0b1111, hi: 3, lo: 1, expected: 7},
		{name: "all ones 2-3", value: 0b1111, hi: 3, lo: 2, expected: 3},
		{name: "middle field", value: 0b0001_1100, hi: 4, lo: 2, expected: 7},
		{name: "upper field", value: 34, hi: 7, lo: 3, expected: 4},
		{name: "high nibble", value: 0x12, hi: 7, lo: 4, expected: 1},
		{name: "low nibble", value: 0x12, hi: 3, lo: 0, expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Extract(tt.value, tt.hi, tt.lo))
		})
	}
}

// TestInsert tests that insertion writes the range and keeps other bits
func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		value    uint8
		hi, lo   uint
		field    uint8
		expected uint8
	}{
		{name: "into zero", value: 0, hi: 7, lo: 4, field: 0x1, expected: 0x10},
		{name: "replaces existing bits", value: 0xFF, hi: 5, lo: 3, field: 0b010, expected: 0b1101_0111},
		{name: "preserves outside bits", value: 0b1000_0001, hi: 4, lo: 2, field: 0b111, expected: 0b1001_1101},
		{name: "drops oversized field", value: 0, hi: 1, lo: 0, field: 0xFF, expected: 0b11},
		{name: "single bit clear", value: 0xFF, hi: 0, lo: 0, field: 0, expected: 0xFE},
		{name: "whole byte", value: 0xAA, hi: 7, lo: 0, field: 0x55, expected: 0x55},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Insert(tt.value, tt.hi, tt.lo, tt.field))
		})
	}
}

// TestInsertExtract tests that extracting an inserted field returns it
func TestInsertExtract(t *testing.T) {
	for lo := uint(0); lo < 16; lo++ {
		for hi := lo; hi < 16; hi++ {
			field := Mask[uint16](0, hi-lo) & 0xA5A5
			v := Insert(uint16(0x5A5A), hi, lo, field)
			assert.Equal(t, field, Extract(v, hi, lo), "range %d..%d", lo, hi)
			// Bits outside the range are untouched
			assert.Equal(t, uint16(0x5A5A)&^Mask[uint16](lo, hi), v&^Mask[uint16](lo, hi))
		}
	}
}
