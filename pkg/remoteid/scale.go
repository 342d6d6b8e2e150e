package remoteid

import (
	"math"
	"time"
)

// Scaled field constants. Every encoder rounds half away from zero
// (math.Round) and clamps to the width of its wire field.
const (
	speedStep           = 0.25
	speedMultStep       = 0.75
	speedMultThreshold  = 255 * speedStep // 63.75 m/s
	speedMax            = 254.25
	speedInvalid        = 254
	verticalSpeedStep   = 0.5
	latLonScale         = 1e7
	altitudeOffset      = 1000
	altitudeStep        = 0.5
	timestampStep       = 0.1 // seconds
	timestampAccuracyMs = 100
	areaRadiusStep      = 10 // meters
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// encodeSpeed returns the speed byte and the speed multiplier flag.
// Speeds up to 63.75 m/s use 0.25 m/s steps; above that the multiplier is
// set and the byte counts 0.75 m/s steps over 63.75. Speeds of 254.25 m/s
// and more become the 254 sentinel.
func encodeSpeed(speed float32) (uint8, bool) {
	s := float64(speed)
	switch {
	case s <= speedMultThreshold:
		return uint8(clamp(math.Round(s/speedStep), 0, 255)), false
	case s < speedMax:
		return uint8(clamp(math.Round((s-speedMultThreshold)/speedMultStep), 0, speedInvalid)), true
	default:
		return speedInvalid, true
	}
}

// decodeSpeed selects the inverse by the multiplier flag, not by the value.
func decodeSpeed(b uint8, mult bool) float32 {
	if mult {
		return float32(float64(b)*speedMultStep + speedMultThreshold)
	}
	return float32(float64(b) * speedStep)
}

func encodeVerticalSpeed(vs float32) int8 {
	return int8(clamp(math.Round(float64(vs)/verticalSpeedStep), math.MinInt8, math.MaxInt8))
}

func decodeVerticalSpeed(b int8) float32 {
	return float32(float64(b) * verticalSpeedStep)
}

// encodeTrackDirection folds the direction into a byte and the east/west
// segment flag, which is set for directions above 180 degrees.
func encodeTrackDirection(dir float32) (uint8, bool) {
	d := int(math.Round(float64(dir))) % 360
	if d < 0 {
		d += 360
	}
	if d > 180 {
		return uint8(d - 180), true
	}
	return uint8(d), false
}

func decodeTrackDirection(b uint8, ew bool) float32 {
	if ew {
		return float32(b) + 180
	}
	return float32(b)
}

// encodeLatLon converts degrees to signed 1e-7 degree units. The product is
// formed in float64 so a float32 coordinate of one degree or more decodes
// back to itself; smaller ones land within one step.
func encodeLatLon(deg float32) int32 {
	return int32(clamp(math.Round(float64(deg)*latLonScale), math.MinInt32, math.MaxInt32))
}

func decodeLatLon(v int32) float32 {
	return float32(float64(v) / latLonScale)
}

// encodeAltitude maps -1000..31767.5 m to 0.5 m steps.
func encodeAltitude(alt float32) uint16 {
	return uint16(clamp(math.Round((float64(alt)+altitudeOffset)/altitudeStep), 0, math.MaxUint16))
}

func decodeAltitude(v uint16) float32 {
	return float32(float64(v)*altitudeStep - altitudeOffset)
}

// encodeTimestamp converts seconds since the start of the hour to tenths.
func encodeTimestamp(sec float32) uint16 {
	return uint16(clamp(math.Round(float64(sec)/timestampStep), 0, math.MaxUint16))
}

func decodeTimestamp(v uint16) float32 {
	return float32(float64(v) * timestampStep)
}

// encodeTimestampAccuracy uses 0.1 s steps. 0 means not reported, which is
// also what accuracies under 0.05 s round to.
func encodeTimestampAccuracy(d time.Duration) uint8 {
	if d <= 0 {
		return 0
	}
	return uint8(clamp(math.Round(float64(d)/float64(timestampAccuracyMs*time.Millisecond)), 0, math.MaxUint8))
}

func decodeTimestampAccuracy(v uint8) time.Duration {
	return time.Duration(v) * timestampAccuracyMs * time.Millisecond
}

func encodeAreaRadius(m float32) uint8 {
	return uint8(clamp(math.Round(float64(m)/areaRadiusStep), 0, math.MaxUint8))
}

func decodeAreaRadius(v uint8) float32 {
	return float32(v) * areaRadiusStep
}

// encodeEpochTime returns whole seconds since 2019-01-01T00:00:00Z; times
// before the epoch (including the zero time.Time) encode as 0, which
// decodes to the zero time.Time.
func encodeEpochTime(t time.Time) uint32 {
	if t.Before(epoch) {
		return 0
	}
	return uint32(clamp(float64(t.Unix()-epoch.Unix()), 0, math.MaxUint32))
}

func decodeEpochTime(v uint32) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return epoch.Add(time.Duration(v) * time.Second)
}
