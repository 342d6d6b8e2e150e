package remoteid

import (
	"fmt"
	"strconv"
	"strings"
)

// codeTable maps the defined codes of a field (by index) to their names.
type codeTable []string

func (t codeTable) name(code uint8) string {
	if int(code) < len(t) {
		return t[code]
	}
	return strconv.Itoa(int(code))
}

// parse accepts a table name (case insensitive) or a decimal code.
func (t codeTable) parse(kind string, text []byte) (uint8, error) {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, n := range t {
		if n == s {
			return uint8(i), nil
		}
	}
	if v, err := strconv.ParseUint(s, 10, 8); err == nil {
		return uint8(v), nil
	}
	return 0, fmt.Errorf("unknown %s %q", kind, string(text))
}

// IDType identifies the format of the UAS ID in a BasicID message.
type IDType uint8

// ID types
const (
	IDTypeNone IDType = iota
	IDTypeSerialNumber
	IDTypeCAARegistrationID
	IDTypeUTMAssignedUUID
	IDTypeSpecificSessionID
)

var idTypeNames = codeTable{"none", "serial_number", "caa_registration_id", "utm_assigned_uuid", "specific_session_id"}

// ParseIDType decodes a wire code; undefined codes fold to IDTypeNone.
func ParseIDType(code uint8) IDType {
	if int(code) >= len(idTypeNames) {
		return IDTypeNone
	}
	return IDType(code)
}

func (v IDType) String() string { return idTypeNames.name(uint8(v)) }

func (v IDType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *IDType) UnmarshalText(text []byte) error {
	c, err := idTypeNames.parse("id type", text)
	*v = ParseIDType(c)
	return err
}

// UAType is the unmanned aircraft type.
type UAType uint8

// UA types
const (
	UATypeNone UAType = iota
	UATypeAeroplane
	UATypeHelicopterOrMultirotor
	UATypeGyroplane
	UATypeHybridLift
	UATypeOrnithopter
	UATypeGlider
	UATypeKite
	UATypeFreeBalloon
	UATypeCaptiveBalloon
	UATypeAirship
	UATypeFreeFallParachute
	UATypeRocket
	UATypeTetheredPoweredAircraft
	UATypeGroundObstacle
	UATypeOther
)

var uaTypeNames = codeTable{
	"none", "aeroplane", "helicopter_or_multirotor", "gyroplane", "hybrid_lift",
	"ornithopter", "glider", "kite", "free_balloon", "captive_balloon", "airship",
	"free_fall_parachute", "rocket", "tethered_powered_aircraft", "ground_obstacle", "other",
}

// ParseUAType decodes a wire code; undefined codes fold to UATypeNone.
func ParseUAType(code uint8) UAType {
	if int(code) >= len(uaTypeNames) {
		return UATypeNone
	}
	return UAType(code)
}

func (v UAType) String() string { return uaTypeNames.name(uint8(v)) }

func (v UAType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *UAType) UnmarshalText(text []byte) error {
	c, err := uaTypeNames.parse("ua type", text)
	*v = ParseUAType(c)
	return err
}

// OperationalStatus of the aircraft.
type OperationalStatus uint8

// Operational statuses
const (
	StatusUndeclared OperationalStatus = iota
	StatusGround
	StatusAirborne
	StatusEmergency
	StatusRemoteIDSystemFailure
)

var statusNames = codeTable{"undeclared", "ground", "airborne", "emergency", "remote_id_system_failure"}

// ParseOperationalStatus decodes a wire code; undefined codes fold to
// StatusUndeclared.
func ParseOperationalStatus(code uint8) OperationalStatus {
	if int(code) >= len(statusNames) {
		return StatusUndeclared
	}
	return OperationalStatus(code)
}

func (v OperationalStatus) String() string { return statusNames.name(uint8(v)) }

func (v OperationalStatus) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *OperationalStatus) UnmarshalText(text []byte) error {
	c, err := statusNames.parse("operational status", text)
	*v = ParseOperationalStatus(c)
	return err
}

// HeightType is the reference the Location height is measured from.
type HeightType uint8

// Height types
const (
	HeightAboveTakeoff HeightType = iota
	HeightAboveGroundLevel
)

var heightTypeNames = codeTable{"above_takeoff", "above_ground_level"}

// ParseHeightType decodes a wire code; undefined codes fold to
// HeightAboveTakeoff.
func ParseHeightType(code uint8) HeightType {
	if int(code) >= len(heightTypeNames) {
		return HeightAboveTakeoff
	}
	return HeightType(code)
}

func (v HeightType) String() string { return heightTypeNames.name(uint8(v)) }

func (v HeightType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *HeightType) UnmarshalText(text []byte) error {
	c, err := heightTypeNames.parse("height type", text)
	*v = ParseHeightType(c)
	return err
}

// VerticalAccuracy is used for geodetic altitude and, in the baro altitude
// accuracy field, for pressure altitude.
type VerticalAccuracy uint8

// Vertical accuracy classes. Unknown also covers >= 150 m.
const (
	VerticalUnknown VerticalAccuracy = iota
	VerticalLessThan150m
	VerticalLessThan45m
	VerticalLessThan25m
	VerticalLessThan10m
	VerticalLessThan3m
	VerticalLessThan1m
)

var verticalNames = codeTable{
	"unknown", "less_than_150_m", "less_than_45_m", "less_than_25_m",
	"less_than_10_m", "less_than_3_m", "less_than_1_m",
}

// ParseVerticalAccuracy decodes a wire code; undefined codes fold to
// VerticalUnknown.
func ParseVerticalAccuracy(code uint8) VerticalAccuracy {
	if int(code) >= len(verticalNames) {
		return VerticalUnknown
	}
	return VerticalAccuracy(code)
}

func (v VerticalAccuracy) String() string { return verticalNames.name(uint8(v)) }

func (v VerticalAccuracy) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VerticalAccuracy) UnmarshalText(text []byte) error {
	c, err := verticalNames.parse("vertical accuracy", text)
	*v = ParseVerticalAccuracy(c)
	return err
}

// HorizontalAccuracy class. Unknown also covers >= 18.52 km (10 NM).
type HorizontalAccuracy uint8

// Horizontal accuracy classes
const (
	HorizontalUnknown             HorizontalAccuracy = iota
	HorizontalLessThan10NM                           // < 18.52 km
	HorizontalLessThan4NM                            // < 7.408 km
	HorizontalLessThan2NM                            // < 3.704 km
	HorizontalLessThan1NM                            // < 1852 m
	HorizontalLessThanHalfNM                         // < 926 m
	HorizontalLessThanThirdNM                        // < 555.6 m
	HorizontalLessThanTenthNM                        // < 185.2 m
	HorizontalLessThanTwentiethNM                    // < 92.6 m
	HorizontalLessThan30m
	HorizontalLessThan10m
	HorizontalLessThan3m
	HorizontalLessThan1m
)

var horizontalNames = codeTable{
	"unknown", "less_than_10_nm", "less_than_4_nm", "less_than_2_nm", "less_than_1_nm",
	"less_than_half_nm", "less_than_third_nm", "less_than_tenth_nm", "less_than_twentieth_nm",
	"less_than_30_m", "less_than_10_m", "less_than_3_m", "less_than_1_m",
}

// ParseHorizontalAccuracy decodes a wire code; undefined codes fold to
// HorizontalUnknown.
func ParseHorizontalAccuracy(code uint8) HorizontalAccuracy {
	if int(code) >= len(horizontalNames) {
		return HorizontalUnknown
	}
	return HorizontalAccuracy(code)
}

func (v HorizontalAccuracy) String() string { return horizontalNames.name(uint8(v)) }

func (v HorizontalAccuracy) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *HorizontalAccuracy) UnmarshalText(text []byte) error {
	c, err := horizontalNames.parse("horizontal accuracy", text)
	*v = ParseHorizontalAccuracy(c)
	return err
}

// SpeedAccuracy class. Unknown also covers >= 10 m/s.
type SpeedAccuracy uint8

// Speed accuracy classes
const (
	SpeedUnknown SpeedAccuracy = iota
	SpeedLessThan10mps
	SpeedLessThan3mps
	SpeedLessThan1mps
	SpeedLessThanThirdMps
)

var speedAccuracyNames = codeTable{"unknown", "less_than_10_mps", "less_than_3_mps", "less_than_1_mps", "less_than_third_mps"}

// ParseSpeedAccuracy decodes a wire code; undefined codes fold to
// SpeedUnknown.
func ParseSpeedAccuracy(code uint8) SpeedAccuracy {
	if int(code) >= len(speedAccuracyNames) {
		return SpeedUnknown
	}
	return SpeedAccuracy(code)
}

func (v SpeedAccuracy) String() string { return speedAccuracyNames.name(uint8(v)) }

func (v SpeedAccuracy) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *SpeedAccuracy) UnmarshalText(text []byte) error {
	c, err := speedAccuracyNames.parse("speed accuracy", text)
	*v = ParseSpeedAccuracy(c)
	return err
}

// AuthType of an Auth message. Codes 0xA-0xF are private use.
type AuthType uint8

// Authentication types
const (
	AuthNone AuthType = iota
	AuthUASIDSignature
	AuthOperatorIDSignature
	AuthMessageSetSignature
	AuthNetworkRemoteID
	AuthSpecificAuthentication
)

var authTypeNames = codeTable{
	"none", "uas_id_signature", "operator_id_signature", "message_set_signature",
	"network_remote_id", "specific_authentication",
}

// ParseAuthType decodes a wire code. Private use codes are kept, other
// undefined codes fold to AuthNone.
func ParseAuthType(code uint8) AuthType {
	if int(code) < len(authTypeNames) || (code >= 0xA && code <= 0xF) {
		return AuthType(code)
	}
	return AuthNone
}

func (v AuthType) String() string { return authTypeNames.name(uint8(v)) }

func (v AuthType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *AuthType) UnmarshalText(text []byte) error {
	c, err := authTypeNames.parse("auth type", text)
	*v = ParseAuthType(c)
	return err
}

// DescriptionType of a SelfID message. Codes 201-255 are private use.
type DescriptionType uint8

// Description types
const (
	DescriptionText DescriptionType = iota
	DescriptionEmergency
	DescriptionExtendedStatus
)

var descriptionNames = codeTable{"text", "emergency", "extended_status"}

// ParseDescriptionType decodes a wire code. Private use codes are kept,
// other undefined codes fold to DescriptionText.
func ParseDescriptionType(code uint8) DescriptionType {
	if int(code) < len(descriptionNames) || code >= 201 {
		return DescriptionType(code)
	}
	return DescriptionText
}

func (v DescriptionType) String() string { return descriptionNames.name(uint8(v)) }

func (v DescriptionType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *DescriptionType) UnmarshalText(text []byte) error {
	c, err := descriptionNames.parse("description type", text)
	*v = ParseDescriptionType(c)
	return err
}

// ClassificationType selects how the System UA classification is read.
type ClassificationType uint8

// Classification types
const (
	ClassificationUndeclared ClassificationType = iota
	ClassificationEuropeanUnion
)

var classificationNames = codeTable{"undeclared", "european_union"}

// ParseClassificationType decodes a wire code; undefined codes fold to
// ClassificationUndeclared.
func ParseClassificationType(code uint8) ClassificationType {
	if int(code) >= len(classificationNames) {
		return ClassificationUndeclared
	}
	return ClassificationType(code)
}

func (v ClassificationType) String() string { return classificationNames.name(uint8(v)) }

func (v ClassificationType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *ClassificationType) UnmarshalText(text []byte) error {
	c, err := classificationNames.parse("classification type", text)
	*v = ParseClassificationType(c)
	return err
}

// OperatorLocationType is the source of the System operator position.
type OperatorLocationType uint8

// Operator location types
const (
	OperatorLocationTakeOff OperatorLocationType = iota
	OperatorLocationLiveGNSS
	OperatorLocationFixed
)

var operatorLocationNames = codeTable{"take_off", "live_gnss", "fixed"}

// ParseOperatorLocationType decodes a wire code; undefined codes fold to
// OperatorLocationTakeOff.
func ParseOperatorLocationType(code uint8) OperatorLocationType {
	if int(code) >= len(operatorLocationNames) {
		return OperatorLocationTakeOff
	}
	return OperatorLocationType(code)
}

func (v OperatorLocationType) String() string { return operatorLocationNames.name(uint8(v)) }

func (v OperatorLocationType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *OperatorLocationType) UnmarshalText(text []byte) error {
	c, err := operatorLocationNames.parse("operator location type", text)
	*v = ParseOperatorLocationType(c)
	return err
}

// UACategory of the EU classification.
type UACategory uint8

// UA categories
const (
	CategoryUndefined UACategory = iota
	CategoryOpen
	CategorySpecific
	CategoryCertified
)

var categoryNames = codeTable{"undefined", "open", "specific", "certified"}

// ParseUACategory decodes a wire code; undefined codes fold to
// CategoryUndefined.
func ParseUACategory(code uint8) UACategory {
	if int(code) >= len(categoryNames) {
		return CategoryUndefined
	}
	return UACategory(code)
}

func (v UACategory) String() string { return categoryNames.name(uint8(v)) }

func (v UACategory) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *UACategory) UnmarshalText(text []byte) error {
	c, err := categoryNames.parse("ua category", text)
	*v = ParseUACategory(c)
	return err
}

// UAClass of the EU classification.
type UAClass uint8

// UA classes
const (
	ClassUndefined UAClass = iota
	Class0
	Class1
	Class2
	Class3
	Class4
	Class5
	Class6
)

var classNames = codeTable{"undefined", "class_0", "class_1", "class_2", "class_3", "class_4", "class_5", "class_6"}

// ParseUAClass decodes a wire code; undefined codes fold to ClassUndefined.
func ParseUAClass(code uint8) UAClass {
	if int(code) >= len(classNames) {
		return ClassUndefined
	}
	return UAClass(code)
}

func (v UAClass) String() string { return classNames.name(uint8(v)) }

func (v UAClass) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *UAClass) UnmarshalText(text []byte) error {
	c, err := classNames.parse("ua class", text)
	*v = ParseUAClass(c)
	return err
}

// OperatorIDType of an OperatorID message.
type OperatorIDType uint8

// OperatorIDTypeOperatorID is the only defined operator ID type.
const OperatorIDTypeOperatorID OperatorIDType = 0

var operatorIDTypeNames = codeTable{"operator_id"}

// ParseOperatorIDType decodes a wire code; undefined codes fold to
// OperatorIDTypeOperatorID.
func ParseOperatorIDType(code uint8) OperatorIDType {
	if int(code) >= len(operatorIDTypeNames) {
		return OperatorIDTypeOperatorID
	}
	return OperatorIDType(code)
}

func (v OperatorIDType) String() string { return operatorIDTypeNames.name(uint8(v)) }

func (v OperatorIDType) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *OperatorIDType) UnmarshalText(text []byte) error {
	c, err := operatorIDTypeNames.parse("operator id type", text)
	*v = ParseOperatorIDType(c)
	return err
}
