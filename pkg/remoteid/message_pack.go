package remoteid

import (
	"fmt"

	"goremoteid/internal/bitfield"
)

// MaxPackMessages is the largest number of messages a pack may carry.
const MaxPackMessages = 9

// MessagePack bundles up to MaxPackMessages messages of any type except
// MessagePack into one frame.
type MessagePack struct {
	Messages []Message `json:"messages" yaml:"messages"`
}

func (*MessagePack) Type() MessageType { return TypeMessagePack }
func (*MessagePack) isMessage()        {}

// Pack body: header, message size, message count, then the members.
func (p *MessagePack) encode() ([]byte, error) {
	n := len(p.Messages)
	if n == 0 || n > MaxPackMessages {
		return nil, fmt.Errorf("%w: %d messages, want 1..%d", ErrMalformedMessagePack, n, MaxPackMessages)
	}

	body := make([]byte, 3+n*MessageSize)
	body[0] = header(TypeMessagePack)
	body[1] = MessageSize
	body[2] = uint8(n)

	for i, msg := range p.Messages {
		if _, nested := msg.(*MessagePack); nested {
			return nil, fmt.Errorf("%w: message pack inside message pack", ErrUnsupportedMessageType)
		}
		sub, err := EncodeMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("pack member %d: %w", i, err)
		}
		copy(body[3+i*MessageSize:], sub)
	}

	return body, nil
}

func decodeMessagePack(b []byte) (*MessagePack, error) {
	if len(b) < 3 {
		return nil, fmt.Errorf("%w: message pack needs at least 3 bytes, got %d", ErrTruncatedBuffer, len(b))
	}
	if b[1] != MessageSize {
		return nil, fmt.Errorf("%w: message size %d", ErrMalformedMessagePack, b[1])
	}

	n := int(b[2])
	if n == 0 || n > MaxPackMessages {
		return nil, fmt.Errorf("%w: %d messages", ErrMalformedMessagePack, n)
	}
	if len(b) < 3+n*MessageSize {
		return nil, fmt.Errorf("%w: message pack of %d needs %d bytes, got %d", ErrTruncatedBuffer, n, 3+n*MessageSize, len(b))
	}

	p := &MessagePack{Messages: make([]Message, 0, n)}
	for i := 0; i < n; i++ {
		sub := b[3+i*MessageSize : 3+(i+1)*MessageSize]
		if MessageType(bitfield.Extract(sub[0], 7, 4)) == TypeMessagePack {
			return nil, fmt.Errorf("%w: nested message pack at %d", ErrMalformedMessagePack, i)
		}
		msg, err := DecodeMessage(sub)
		if err != nil {
			return nil, fmt.Errorf("pack member %d: %w", i, err)
		}
		p.Messages = append(p.Messages, msg)
	}

	return p, nil
}
