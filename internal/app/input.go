package app

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ParseLine splits an input line of the form "[source] hex". ok is false
// for blank lines and "#" comments. The hex may use ':' separators.
func ParseLine(line string) (source string, data []byte, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", nil, false, nil
	}

	fields := strings.Fields(line)
	var text string
	switch len(fields) {
	case 1:
		text = fields[0]
	case 2:
		source, text = fields[0], fields[1]
	default:
		return "", nil, true, fmt.Errorf("expected \"[source] hex\", got %d fields", len(fields))
	}

	data, err = DecodeHex(text)
	if err != nil {
		return source, nil, true, err
	}
	return source, data, true, nil
}

// DecodeHex accepts plain or ':' separated hex with an optional 0x prefix.
func DecodeHex(text string) ([]byte, error) {
	text = strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	text = strings.ReplaceAll(text, ":", "")

	data, err := hex.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hex frame: %w", err)
	}
	return data, nil
}
