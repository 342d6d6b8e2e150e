// Package remoteid encodes and decodes ASTM F3411 Remote ID broadcast
// messages carried as Bluetooth Legacy Advertising service data.
//
// A frame is the service data value associated with ServiceUUID:
//
//	[app code][counter][type<<4 | version][25-byte message body ...]
//
// Every function in this package is a pure transform of its arguments and
// is safe for concurrent use.
package remoteid

import (
	"fmt"
	"time"
)

// Frame layout constants
const (
	AppCode         = 0x0D // Open Drone ID application code
	ProtocolVersion = 2    // protocol version nibble written by the encoder
	MessageSize     = 25   // size of a single message body, header byte included
	HeaderSize      = 2    // app code + counter
	FrameSize       = HeaderSize + MessageSize

	// ServiceUUID is the 128-bit UUID the frame is advertised under.
	ServiceUUID = "0000fffa-0000-1000-8000-00805f9b34fb"

	idSize = 20
)

// epoch is the reference for System and Auth timestamps.
var epoch = time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

// MessageType is the 4-bit code in the high nibble of the message header.
type MessageType uint8

// Message type codes
const (
	TypeBasicID     MessageType = 0x0
	TypeLocation    MessageType = 0x1
	TypeAuth        MessageType = 0x2
	TypeSelfID      MessageType = 0x3
	TypeSystem      MessageType = 0x4
	TypeOperatorID  MessageType = 0x5
	TypeMessagePack MessageType = 0xF
)

// Valid reports whether t is one of the defined message type codes.
func (t MessageType) Valid() bool {
	switch t {
	case TypeBasicID, TypeLocation, TypeAuth, TypeSelfID, TypeSystem, TypeOperatorID, TypeMessagePack:
		return true
	}
	return false
}

func (t MessageType) String() string {
	switch t {
	case TypeBasicID:
		return "BasicID"
	case TypeLocation:
		return "Location"
	case TypeAuth:
		return "Auth"
	case TypeSelfID:
		return "SelfID"
	case TypeSystem:
		return "System"
	case TypeOperatorID:
		return "OperatorID"
	case TypeMessagePack:
		return "MessagePack"
	}
	return fmt.Sprintf("MessageType(%d)", uint8(t))
}

// Message is one of *BasicID, *Location, *Auth, *SelfID, *System,
// *OperatorID or *MessagePack. The set is closed.
type Message interface {
	Type() MessageType
	isMessage()
}

// Frame is a decoded service data frame.
type Frame struct {
	Counter uint8
	Version uint8
	Message Message
}

// ID is the fixed 20-byte identifier field used for UAS and operator IDs.
type ID [idSize]byte

// IDFromBytes copies b into an ID. Shorter input is zero padded on the
// right, longer input is truncated to 20 bytes.
func IDFromBytes(b []byte) ID {
	var id ID
	copy(id[:], b)
	return id
}

// IDFromString is IDFromBytes for a string.
func IDFromString(s string) ID {
	return IDFromBytes([]byte(s))
}

// String returns the identifier without its zero padding.
func (id ID) String() string {
	n := len(id)
	for n > 0 && id[n-1] == 0 {
		n--
	}
	return string(id[:n])
}

func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ID) UnmarshalText(text []byte) error {
	*id = IDFromBytes(text)
	return nil
}
