package remoteid

import (
	"encoding/binary"
	"time"

	"goremoteid/internal/bitfield"
)

// Location carries the aircraft position and velocity.
//
// Quantities are quantized on the wire: speed 0.25 m/s (0.75 m/s above
// 63.75 m/s), vertical speed 0.5 m/s, latitude/longitude 1e-7 degrees,
// altitudes and height 0.5 m from -1000 m, track direction 1 degree and
// timestamp 0.1 s.
type Location struct {
	Status     OperationalStatus `json:"status" yaml:"status"`
	HeightType HeightType        `json:"height_type" yaml:"height_type"`

	// TrackDirection is degrees clockwise from true north.
	TrackDirection float32 `json:"track_direction" yaml:"track_direction"`
	// Speed is ground speed in m/s.
	Speed float32 `json:"speed" yaml:"speed"`
	// VerticalSpeed is m/s, positive up.
	VerticalSpeed float32 `json:"vertical_speed" yaml:"vertical_speed"`

	Latitude         float32 `json:"latitude" yaml:"latitude"`
	Longitude        float32 `json:"longitude" yaml:"longitude"`
	PressureAltitude float32 `json:"pressure_altitude" yaml:"pressure_altitude"`
	GeodeticAltitude float32 `json:"geodetic_altitude" yaml:"geodetic_altitude"`
	Height           float32 `json:"height" yaml:"height"`

	HorizontalAccuracy   HorizontalAccuracy `json:"horizontal_accuracy" yaml:"horizontal_accuracy"`
	VerticalAccuracy     VerticalAccuracy   `json:"vertical_accuracy" yaml:"vertical_accuracy"`
	BaroAltitudeAccuracy VerticalAccuracy   `json:"baro_altitude_accuracy" yaml:"baro_altitude_accuracy"`
	SpeedAccuracy        SpeedAccuracy      `json:"speed_accuracy" yaml:"speed_accuracy"`

	// Timestamp is seconds since the start of the current hour.
	Timestamp float32 `json:"timestamp" yaml:"timestamp"`
	// TimestampAccuracy is zero when not reported.
	TimestampAccuracy time.Duration `json:"timestamp_accuracy,omitempty" yaml:"timestamp_accuracy,omitempty"`
}

func (*Location) Type() MessageType { return TypeLocation }
func (*Location) isMessage()        {}

// Status flags byte: bits 7-3 operational status, bit 2 height type,
// bit 1 east/west direction segment, bit 0 speed multiplier.
func (m *Location) encode(b []byte) {
	speed, mult := encodeSpeed(m.Speed)
	dir, ew := encodeTrackDirection(m.TrackDirection)

	var flags uint8
	flags = bitfield.Insert(flags, 7, 3, uint8(ParseOperationalStatus(uint8(m.Status))))
	flags = bitfield.Insert(flags, 2, 2, uint8(ParseHeightType(uint8(m.HeightType))))
	flags = bitfield.Insert(flags, 1, 1, flag(ew))
	flags = bitfield.Insert(flags, 0, 0, flag(mult))
	b[1] = flags

	b[2] = dir
	b[3] = speed
	b[4] = uint8(encodeVerticalSpeed(m.VerticalSpeed))

	binary.LittleEndian.PutUint32(b[5:9], uint32(encodeLatLon(m.Latitude)))
	binary.LittleEndian.PutUint32(b[9:13], uint32(encodeLatLon(m.Longitude)))
	binary.LittleEndian.PutUint16(b[13:15], encodeAltitude(m.PressureAltitude))
	binary.LittleEndian.PutUint16(b[15:17], encodeAltitude(m.GeodeticAltitude))
	binary.LittleEndian.PutUint16(b[17:19], encodeAltitude(m.Height))

	b[19] = packNibbles(
		uint8(ParseVerticalAccuracy(uint8(m.VerticalAccuracy))),
		uint8(ParseHorizontalAccuracy(uint8(m.HorizontalAccuracy))),
	)
	b[20] = packNibbles(
		uint8(ParseVerticalAccuracy(uint8(m.BaroAltitudeAccuracy))),
		uint8(ParseSpeedAccuracy(uint8(m.SpeedAccuracy))),
	)

	binary.LittleEndian.PutUint16(b[21:23], encodeTimestamp(m.Timestamp))
	b[23] = encodeTimestampAccuracy(m.TimestampAccuracy)
	b[24] = 0
}

func decodeLocation(b []byte) *Location {
	flags := b[1]
	ew := bitfield.Extract(flags, 1, 1) == 1
	mult := bitfield.Extract(flags, 0, 0) == 1

	vAcc, hAcc := unpackNibbles(b[19])
	baroAcc, speedAcc := unpackNibbles(b[20])

	return &Location{
		Status:     ParseOperationalStatus(bitfield.Extract(flags, 7, 3)),
		HeightType: ParseHeightType(bitfield.Extract(flags, 2, 2)),

		TrackDirection: decodeTrackDirection(b[2], ew),
		Speed:          decodeSpeed(b[3], mult),
		VerticalSpeed:  decodeVerticalSpeed(int8(b[4])),

		Latitude:         decodeLatLon(int32(binary.LittleEndian.Uint32(b[5:9]))),
		Longitude:        decodeLatLon(int32(binary.LittleEndian.Uint32(b[9:13]))),
		PressureAltitude: decodeAltitude(binary.LittleEndian.Uint16(b[13:15])),
		GeodeticAltitude: decodeAltitude(binary.LittleEndian.Uint16(b[15:17])),
		Height:           decodeAltitude(binary.LittleEndian.Uint16(b[17:19])),

		HorizontalAccuracy:   ParseHorizontalAccuracy(hAcc),
		VerticalAccuracy:     ParseVerticalAccuracy(vAcc),
		BaroAltitudeAccuracy: ParseVerticalAccuracy(baroAcc),
		SpeedAccuracy:        ParseSpeedAccuracy(speedAcc),

		Timestamp:         decodeTimestamp(binary.LittleEndian.Uint16(b[21:23])),
		TimestampAccuracy: decodeTimestampAccuracy(b[23]),
	}
}
