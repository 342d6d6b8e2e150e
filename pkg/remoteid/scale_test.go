package remoteid

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEncodeSpeed tests both speed ranges and the sentinel
func TestEncodeSpeed(t *testing.T) {
	tests := []struct {
		name         string
		speed        float32
		expectedByte uint8
		expectedMult bool
	}{
		{name: "stopped", speed: 0, expectedByte: 0, expectedMult: false},
		{name: "negative clamps", speed: -3, expectedByte: 0, expectedMult: false},
		{name: "one step", speed: 0.25, expectedByte: 1, expectedMult: false},
		{name: "ten mps", speed: 10, expectedByte: 40, expectedMult: false},
		{name: "half step rounds up", speed: 0.125, expectedByte: 1, expectedMult: false},
		{name: "threshold", speed: 63.75, expectedByte: 255, expectedMult: false},
		{name: "just above threshold", speed: 63.8, expectedByte: 0, expectedMult: true},
		{name: "one coarse step", speed: 64.5, expectedByte: 1, expectedMult: true},
		{name: "fast", speed: 120.75, expectedByte: 76, expectedMult: true},
		{name: "largest representable", speed: 253.5, expectedByte: 253, expectedMult: true},
		{name: "limit", speed: 254.25, expectedByte: 254, expectedMult: true},
		{name: "too fast", speed: 400, expectedByte: 254, expectedMult: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, mult := encodeSpeed(tt.speed)
			assert.Equal(t, tt.expectedByte, b)
			assert.Equal(t, tt.expectedMult, mult)
		})
	}
}

// TestEncodeSpeed_Monotonic tests that the encoded speed never decreases
func TestEncodeSpeed_Monotonic(t *testing.T) {
	prevWire := -1
	prevDecoded := float32(-1)

	for s := float32(0); s <= 260; s += 0.05 {
		b, mult := encodeSpeed(s)

		// Order by (multiplier, byte): the step size changes at 63.75 m/s
		wire := int(b)
		if mult {
			wire += 256
		}
		assert.GreaterOrEqual(t, wire, prevWire, "speed %.2f", s)
		prevWire = wire

		decoded := decodeSpeed(b, mult)
		assert.GreaterOrEqual(t, decoded, prevDecoded, "speed %.2f", s)
		prevDecoded = decoded
	}
}

// TestDecodeSpeed tests that the multiplier flag selects the inverse
func TestDecodeSpeed(t *testing.T) {
	assert.Equal(t, float32(10), decodeSpeed(40, false))
	assert.Equal(t, float32(63.75), decodeSpeed(255, false))
	assert.Equal(t, float32(63.75), decodeSpeed(0, true))
	assert.Equal(t, float32(93.75), decodeSpeed(40, true))
	assert.Equal(t, float32(254.25), decodeSpeed(254, true))
}

// TestTrackDirection tests the east/west segment folding
func TestTrackDirection(t *testing.T) {
	tests := []struct {
		name       string
		direction  float32
		expectedB  uint8
		expectedEW bool
		decoded    float32
	}{
		{name: "north", direction: 0, expectedB: 0, expectedEW: false, decoded: 0},
		{name: "east", direction: 77, expectedB: 77, expectedEW: false, decoded: 77},
		{name: "south", direction: 180, expectedB: 180, expectedEW: false, decoded: 180},
		{name: "just west of south", direction: 181, expectedB: 1, expectedEW: true, decoded: 181},
		{name: "west", direction: 270, expectedB: 90, expectedEW: true, decoded: 270},
		{name: "rounds", direction: 359.4, expectedB: 179, expectedEW: true, decoded: 359},
		{name: "full circle wraps", direction: 360, expectedB: 0, expectedEW: false, decoded: 0},
		{name: "negative wraps", direction: -90, expectedB: 90, expectedEW: true, decoded: 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ew := encodeTrackDirection(tt.direction)
			assert.Equal(t, tt.expectedB, b)
			assert.Equal(t, tt.expectedEW, ew)
			assert.Equal(t, tt.decoded, decodeTrackDirection(b, ew))
		})
	}
}

// TestVerticalSpeed tests signed half meter steps
func TestVerticalSpeed(t *testing.T) {
	assert.Equal(t, int8(20), encodeVerticalSpeed(10))
	assert.Equal(t, int8(-25), encodeVerticalSpeed(-12.5))
	assert.Equal(t, int8(127), encodeVerticalSpeed(100))
	assert.Equal(t, int8(-128), encodeVerticalSpeed(-100))
	assert.Equal(t, float32(-12.5), decodeVerticalSpeed(-25))
}

// TestLatLon tests signed fixed point coordinates
func TestLatLon(t *testing.T) {
	tests := []struct {
		name     string
		degrees  float32
		expected int32
	}{
		{name: "Darmstadt latitude", degrees: 49.874855, expected: 498748550},
		{name: "Darmstadt longitude", degrees: 8.912173, expected: 89121733},
		{name: "southern hemisphere", degrees: -33.8688, expected: -338688011},
		{name: "north pole", degrees: 90, expected: 900000000},
		{name: "antimeridian west", degrees: -180, expected: -1800000000},
		{name: "zero", degrees: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := encodeLatLon(tt.degrees)
			assert.Equal(t, tt.expected, v)
			assert.Equal(t, tt.degrees, decodeLatLon(v))
		})
	}
}

// TestLatLon_RoundTrip tests that float32 coordinates survive the wire
// unchanged from one degree up, and within one step below that
func TestLatLon_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	check := func(deg float32) {
		got := decodeLatLon(encodeLatLon(deg))
		if math.Abs(float64(deg)) >= 1 {
			require.Equal(t, deg, got, "coordinate %v", deg)
			return
		}
		require.InDelta(t, deg, got, latLonTolerance, "coordinate %v", deg)
	}

	for i := 0; i < 100000; i++ {
		check(float32(rng.Float64()*180 - 90))
		check(float32(rng.Float64()*360 - 180))
	}
	for _, deg := range []float32{1, -1, 0.5, -0.0000001, 1e-7, 89.9999999, -179.9999999, 180} {
		check(deg)
	}
}

// TestAltitude tests the affine altitude transform
func TestAltitude(t *testing.T) {
	tests := []struct {
		name     string
		meters   float32
		expected uint16
	}{
		{name: "invalid marker", meters: -1000, expected: 0},
		{name: "below range clamps", meters: -2000, expected: 0},
		{name: "sea level", meters: 0, expected: 2000},
		{name: "pressure altitude", meters: 190.5, expected: 2381},
		{name: "geodetic altitude", meters: 210, expected: 2420},
		{name: "top of range", meters: 31767.5, expected: 65535},
		{name: "above range clamps", meters: 40000, expected: 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeAltitude(tt.meters))
		})
	}

	assert.Equal(t, float32(190.5), decodeAltitude(2381))
	assert.Equal(t, float32(-1000), decodeAltitude(0))
}

// TestTimestamp tests tenths of a second since the hour
func TestTimestamp(t *testing.T) {
	assert.Equal(t, uint16(3610), encodeTimestamp(361))
	assert.Equal(t, uint16(0), encodeTimestamp(-1))
	assert.Equal(t, uint16(65535), encodeTimestamp(6553.5))
	assert.Equal(t, uint16(65535), encodeTimestamp(7000))
	assert.InDelta(t, 361.0, decodeTimestamp(3610), 1e-4)
}

// TestTimestampAccuracy tests the optional accuracy byte
func TestTimestampAccuracy(t *testing.T) {
	tests := []struct {
		name     string
		accuracy time.Duration
		expected uint8
	}{
		{name: "not reported", accuracy: 0, expected: 0},
		{name: "below resolution", accuracy: 40 * time.Millisecond, expected: 0},
		{name: "one step", accuracy: 100 * time.Millisecond, expected: 1},
		{name: "rounds", accuracy: 260 * time.Millisecond, expected: 3},
		{name: "one and a half seconds", accuracy: 1500 * time.Millisecond, expected: 15},
		{name: "clamps", accuracy: time.Minute, expected: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, encodeTimestampAccuracy(tt.accuracy))
		})
	}

	assert.Equal(t, time.Duration(0), decodeTimestampAccuracy(0))
	assert.Equal(t, 1500*time.Millisecond, decodeTimestampAccuracy(15))
}

// TestEpochTime tests whole seconds since 2019-01-01
func TestEpochTime(t *testing.T) {
	ts := time.Date(2024, time.July, 4, 14, 5, 54, 0, time.UTC)
	assert.Equal(t, uint32(173801154), encodeEpochTime(ts))
	assert.True(t, ts.Equal(decodeEpochTime(173801154)))

	assert.Equal(t, uint32(0), encodeEpochTime(time.Time{}))
	assert.Equal(t, uint32(0), encodeEpochTime(epoch))
	assert.True(t, decodeEpochTime(0).IsZero())
	assert.True(t, epoch.Add(time.Second).Equal(decodeEpochTime(1)))

	// Sub-second parts are dropped
	assert.Equal(t, uint32(1), encodeEpochTime(epoch.Add(1500*time.Millisecond)))
}

// TestAreaRadius tests 10 m steps
func TestAreaRadius(t *testing.T) {
	assert.Equal(t, uint8(25), encodeAreaRadius(249))
	assert.Equal(t, uint8(255), encodeAreaRadius(5000))
	assert.Equal(t, float32(2550), decodeAreaRadius(255))
}
