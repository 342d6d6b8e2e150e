package remoteid

import (
	"encoding/binary"
	"time"

	"goremoteid/internal/bitfield"
)

// UAClassification is the category and class of the aircraft under the
// EU classification.
type UAClassification struct {
	Category UACategory `json:"category" yaml:"category"`
	Class    UAClass    `json:"class" yaml:"class"`
}

// System carries the operator position, the operating area and the
// aircraft classification.
type System struct {
	ClassificationType   ClassificationType   `json:"classification_type" yaml:"classification_type"`
	OperatorLocationType OperatorLocationType `json:"operator_location_type" yaml:"operator_location_type"`

	OperatorLatitude  float32 `json:"operator_latitude" yaml:"operator_latitude"`
	OperatorLongitude float32 `json:"operator_longitude" yaml:"operator_longitude"`
	// OperatorAltitude is geodetic, in meters.
	OperatorAltitude float32 `json:"operator_altitude" yaml:"operator_altitude"`

	AreaCount uint16 `json:"area_count" yaml:"area_count"`
	// AreaRadius is meters, 10 m steps up to 2550 m.
	AreaRadius  float32 `json:"area_radius" yaml:"area_radius"`
	AreaCeiling float32 `json:"area_ceiling" yaml:"area_ceiling"`
	AreaFloor   float32 `json:"area_floor" yaml:"area_floor"`

	Classification UAClassification `json:"classification" yaml:"classification"`

	// Timestamp has one second resolution from 2019-01-01T00:00:00Z. The
	// zero time.Time, and any time up to the epoch itself, round trips as
	// the zero time.Time.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func (*System) Type() MessageType { return TypeSystem }
func (*System) isMessage()        {}

func (m *System) encode(b []byte) {
	var flags uint8
	flags = bitfield.Insert(flags, 4, 2, uint8(ParseClassificationType(uint8(m.ClassificationType))))
	flags = bitfield.Insert(flags, 1, 0, uint8(ParseOperatorLocationType(uint8(m.OperatorLocationType))))
	b[1] = flags

	binary.LittleEndian.PutUint32(b[2:6], uint32(encodeLatLon(m.OperatorLatitude)))
	binary.LittleEndian.PutUint32(b[6:10], uint32(encodeLatLon(m.OperatorLongitude)))
	binary.LittleEndian.PutUint16(b[10:12], m.AreaCount)
	b[12] = encodeAreaRadius(m.AreaRadius)
	binary.LittleEndian.PutUint16(b[13:15], encodeAltitude(m.AreaCeiling))
	binary.LittleEndian.PutUint16(b[15:17], encodeAltitude(m.AreaFloor))
	b[17] = packNibbles(
		uint8(ParseUACategory(uint8(m.Classification.Category))),
		uint8(ParseUAClass(uint8(m.Classification.Class))),
	)
	binary.LittleEndian.PutUint16(b[18:20], encodeAltitude(m.OperatorAltitude))
	binary.LittleEndian.PutUint32(b[20:24], encodeEpochTime(m.Timestamp))
	b[24] = 0
}

func decodeSystem(b []byte) *System {
	category, class := unpackNibbles(b[17])

	return &System{
		ClassificationType:   ParseClassificationType(bitfield.Extract(b[1], 4, 2)),
		OperatorLocationType: ParseOperatorLocationType(bitfield.Extract(b[1], 1, 0)),

		OperatorLatitude:  decodeLatLon(int32(binary.LittleEndian.Uint32(b[2:6]))),
		OperatorLongitude: decodeLatLon(int32(binary.LittleEndian.Uint32(b[6:10]))),
		OperatorAltitude:  decodeAltitude(binary.LittleEndian.Uint16(b[18:20])),

		AreaCount:   binary.LittleEndian.Uint16(b[10:12]),
		AreaRadius:  decodeAreaRadius(b[12]),
		AreaCeiling: decodeAltitude(binary.LittleEndian.Uint16(b[13:15])),
		AreaFloor:   decodeAltitude(binary.LittleEndian.Uint16(b[15:17])),

		Classification: UAClassification{
			Category: ParseUACategory(category),
			Class:    ParseUAClass(class),
		},

		Timestamp: decodeEpochTime(binary.LittleEndian.Uint32(b[20:24])),
	}
}
