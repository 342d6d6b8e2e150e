package remoteid

import "errors"

var (
	ErrUnsupportedMessageType = errors.New("unsupported message type")
	ErrUnknownMessageType     = errors.New("unknown message type")
	ErrTruncatedBuffer        = errors.New("truncated buffer")
	ErrInvalidAppCode         = errors.New("invalid application code")
	ErrMalformedMessagePack   = errors.New("malformed message pack")
	ErrFieldOverflow          = errors.New("value does not fit its field")
)
