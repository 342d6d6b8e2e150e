package remoteid

import (
	"strings"
	"unicode/utf8"
)

// DescriptionSize is the capacity of the SelfID description.
const DescriptionSize = 23

// SelfID is a free-text declaration of the flight's purpose.
// Descriptions longer than DescriptionSize bytes are truncated on encode
// at the last whole UTF-8 character.
type SelfID struct {
	DescriptionType DescriptionType `json:"description_type" yaml:"description_type"`
	Description     string          `json:"description" yaml:"description"`
}

func (*SelfID) Type() MessageType { return TypeSelfID }
func (*SelfID) isMessage()        {}

func (m *SelfID) encode(b []byte) {
	b[1] = uint8(ParseDescriptionType(uint8(m.DescriptionType)))
	copy(b[2:2+DescriptionSize], truncateUTF8(m.Description, DescriptionSize))
}

func decodeSelfID(b []byte) *SelfID {
	return &SelfID{
		DescriptionType: ParseDescriptionType(b[1]),
		Description:     strings.TrimRight(string(b[2:2+DescriptionSize]), "\x00"),
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a character.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
