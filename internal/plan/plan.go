// Package plan reads transmit plans: YAML lists of Remote ID messages that
// a broadcaster cycles through.
package plan

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"goremoteid/pkg/remoteid"
)

// ErrEmptyEntry is returned for an entry that names no message.
var ErrEmptyEntry = errors.New("entry has no message")

// Plan is an ordered list of messages.
type Plan struct {
	Name    string  `yaml:"name"`
	Entries []Entry `yaml:"messages"`
}

// Entry holds exactly one message, keyed by its type.
type Entry struct {
	BasicID     *remoteid.BasicID    `yaml:"basic_id,omitempty"`
	Location    *remoteid.Location   `yaml:"location,omitempty"`
	Auth        *remoteid.Auth       `yaml:"auth,omitempty"`
	SelfID      *remoteid.SelfID     `yaml:"self_id,omitempty"`
	System      *remoteid.System     `yaml:"system,omitempty"`
	OperatorID  *remoteid.OperatorID `yaml:"operator_id,omitempty"`
	MessagePack []Entry              `yaml:"message_pack,omitempty"`
}

// Load reads a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a plan document.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Messages returns the plan's messages in order.
func (p *Plan) Messages() ([]remoteid.Message, error) {
	msgs := make([]remoteid.Message, 0, len(p.Entries))
	for i, e := range p.Entries {
		m, err := e.Message()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Message returns the entry's message. Entries naming more than one
// message are rejected.
func (e Entry) Message() (remoteid.Message, error) {
	var msgs []remoteid.Message
	if e.BasicID != nil {
		msgs = append(msgs, e.BasicID)
	}
	if e.Location != nil {
		msgs = append(msgs, e.Location)
	}
	if e.Auth != nil {
		msgs = append(msgs, e.Auth)
	}
	if e.SelfID != nil {
		msgs = append(msgs, e.SelfID)
	}
	if e.System != nil {
		msgs = append(msgs, e.System)
	}
	if e.OperatorID != nil {
		msgs = append(msgs, e.OperatorID)
	}
	if len(e.MessagePack) > 0 {
		pack := &remoteid.MessagePack{}
		for i, sub := range e.MessagePack {
			m, err := sub.Message()
			if err != nil {
				return nil, fmt.Errorf("pack member %d: %w", i, err)
			}
			pack.Messages = append(pack.Messages, m)
		}
		msgs = append(msgs, pack)
	}

	switch len(msgs) {
	case 0:
		return nil, ErrEmptyEntry
	case 1:
		return msgs[0], nil
	default:
		return nil, fmt.Errorf("entry has %d messages, want one", len(msgs))
	}
}
