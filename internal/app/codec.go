package app

import (
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"

	"goremoteid/pkg/remoteid"
)

// EncodePlan encodes count frames cycling through msgs. The counter of
// frame i is (startCounter + i) % 255. A count of zero encodes each
// message once.
func EncodePlan(msgs []remoteid.Message, count int, startCounter uint8) ([]string, error) {
	if len(msgs) == 0 {
		return nil, fmt.Errorf("plan has no messages")
	}
	if count < 0 {
		return nil, fmt.Errorf("count must not be negative, got %d", count)
	}
	if count == 0 {
		count = len(msgs)
	}

	frames := make([]string, 0, count)
	for i := 0; i < count; i++ {
		msg := msgs[i%len(msgs)]
		counter := uint8((int(startCounter) + i) % 255)

		frame, err := remoteid.Encode(msg, counter)
		if err != nil {
			return nil, fmt.Errorf("failed to encode message %d (%s): %w", i%len(msgs), msg.Type(), err)
		}
		frames = append(frames, hex.EncodeToString(frame))
	}
	return frames, nil
}

// decodedFrame is the YAML document printed by the decode command.
type decodedFrame struct {
	Counter  uint8            `yaml:"counter"`
	Version  uint8            `yaml:"version"`
	Type     string           `yaml:"type"`
	Message  remoteid.Message `yaml:"message,omitempty"`
	Messages []decodedMember  `yaml:"messages,omitempty"`
}

type decodedMember struct {
	Type    string           `yaml:"type"`
	Message remoteid.Message `yaml:"message"`
}

// DescribeFrame decodes a hex frame and renders it as YAML.
func DescribeFrame(text string) (string, error) {
	data, err := DecodeHex(text)
	if err != nil {
		return "", err
	}

	frame, err := remoteid.DecodeFrame(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode frame: %w", err)
	}

	doc := decodedFrame{
		Counter: frame.Counter,
		Version: frame.Version,
		Type:    frame.Message.Type().String(),
	}
	if pack, ok := frame.Message.(*remoteid.MessagePack); ok {
		for _, m := range pack.Messages {
			doc.Messages = append(doc.Messages, decodedMember{Type: m.Type().String(), Message: m})
		}
	} else {
		doc.Message = frame.Message
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render frame: %w", err)
	}
	return string(out), nil
}
