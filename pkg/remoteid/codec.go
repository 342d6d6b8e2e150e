package remoteid

import (
	"fmt"

	"goremoteid/internal/bitfield"
)

// Encode returns the service data frame for msg. counter is written
// verbatim to byte 1; cycling it between advertisements is up to the
// caller. The frame is FrameSize bytes for every type except MessagePack,
// which is HeaderSize + 3 + 25 bytes per packed message.
func Encode(msg Message, counter uint8) ([]byte, error) {
	body, err := EncodeMessage(msg)
	if err != nil {
		return nil, err
	}

	frame := make([]byte, HeaderSize+len(body))
	frame[0] = AppCode
	frame[1] = counter
	copy(frame[HeaderSize:], body)
	return frame, nil
}

// EncodeMessage returns the message body without the advertising header:
// the type/version byte followed by the type-specific payload, zero padded
// to MessageSize.
func EncodeMessage(msg Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("%w: nil message", ErrUnsupportedMessageType)
	}
	if p, ok := msg.(*MessagePack); ok {
		if p == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrUnsupportedMessageType, msg)
		}
		return p.encode()
	}

	body := make([]byte, MessageSize)
	body[0] = header(msg.Type())

	var err error
	switch m := msg.(type) {
	case *BasicID:
		if m == nil {
			break
		}
		m.encode(body)
		return body, nil
	case *Location:
		if m == nil {
			break
		}
		m.encode(body)
		return body, nil
	case *Auth:
		if m == nil {
			break
		}
		if err = m.encode(body); err != nil {
			return nil, err
		}
		return body, nil
	case *SelfID:
		if m == nil {
			break
		}
		m.encode(body)
		return body, nil
	case *System:
		if m == nil {
			break
		}
		m.encode(body)
		return body, nil
	case *OperatorID:
		if m == nil {
			break
		}
		m.encode(body)
		return body, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedMessageType, msg)
}

// Decode returns the message carried by a service data frame.
func Decode(buf []byte) (Message, error) {
	f, err := DecodeFrame(buf)
	if err != nil {
		return nil, err
	}
	return f.Message, nil
}

// DecodeFrame decodes a service data frame including its counter and
// protocol version.
func DecodeFrame(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize+1 {
		return Frame{}, fmt.Errorf("%w: frame needs at least %d bytes, got %d", ErrTruncatedBuffer, HeaderSize+1, len(buf))
	}
	if buf[0] != AppCode {
		return Frame{}, fmt.Errorf("%w: 0x%02x", ErrInvalidAppCode, buf[0])
	}

	msg, err := DecodeMessage(buf[HeaderSize:])
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Counter: buf[1],
		Version: bitfield.Extract(buf[HeaderSize], 3, 0),
		Message: msg,
	}, nil
}

// DecodeMessage decodes a message body as produced by EncodeMessage.
func DecodeMessage(body []byte) (Message, error) {
	if len(body) < 1 {
		return nil, fmt.Errorf("%w: empty message", ErrTruncatedBuffer)
	}

	t := MessageType(bitfield.Extract(body[0], 7, 4))
	if !t.Valid() {
		return nil, fmt.Errorf("%w: 0x%x", ErrUnknownMessageType, uint8(t))
	}
	if t == TypeMessagePack {
		p, err := decodeMessagePack(body)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	if len(body) < MessageSize {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTruncatedBuffer, t, MessageSize, len(body))
	}

	switch t {
	case TypeBasicID:
		return decodeBasicID(body), nil
	case TypeLocation:
		return decodeLocation(body), nil
	case TypeAuth:
		return decodeAuth(body), nil
	case TypeSelfID:
		return decodeSelfID(body), nil
	case TypeSystem:
		return decodeSystem(body), nil
	default:
		return decodeOperatorID(body), nil
	}
}

func header(t MessageType) uint8 {
	return bitfield.Insert(uint8(ProtocolVersion), 7, 4, uint8(t))
}

func packNibbles(hi, lo uint8) uint8 {
	return bitfield.Insert(bitfield.Insert(uint8(0), 7, 4, hi), 3, 0, lo)
}

func unpackNibbles(b uint8) (hi, lo uint8) {
	return bitfield.Extract(b, 7, 4), bitfield.Extract(b, 3, 0)
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
