package remoteid

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Auth data capacity per page
const (
	AuthFirstPageDataSize = 17
	AuthPageDataSize      = 23
	AuthMaxPage           = 15
)

// Auth is one page of authentication data. LastPageIndex, Length and
// Timestamp are only carried on page 0.
type Auth struct {
	AuthType AuthType `json:"auth_type" yaml:"auth_type"`
	Page     uint8    `json:"page" yaml:"page"`

	LastPageIndex uint8 `json:"last_page_index" yaml:"last_page_index"`
	// Length is the total auth data length across all pages.
	Length uint8 `json:"length" yaml:"length"`
	// Timestamp has one second resolution from 2019-01-01T00:00:00Z; the
	// zero time.Time round trips as itself.
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`

	// Data is this page's share of the auth data. Decoding returns the
	// full page capacity, zero padded.
	Data []byte `json:"data" yaml:"data"`
}

func (*Auth) Type() MessageType { return TypeAuth }
func (*Auth) isMessage()        {}

func (m *Auth) capacity() int {
	if m.Page == 0 {
		return AuthFirstPageDataSize
	}
	return AuthPageDataSize
}

func (m *Auth) encode(b []byte) error {
	if m.Page > AuthMaxPage {
		return fmt.Errorf("%w: auth page %d exceeds %d", ErrFieldOverflow, m.Page, AuthMaxPage)
	}
	if len(m.Data) > m.capacity() {
		return fmt.Errorf("%w: auth page %d holds %d bytes, got %d", ErrFieldOverflow, m.Page, m.capacity(), len(m.Data))
	}

	b[1] = packNibbles(uint8(ParseAuthType(uint8(m.AuthType))), m.Page)
	if m.Page == 0 {
		b[2] = m.LastPageIndex
		b[3] = m.Length
		binary.LittleEndian.PutUint32(b[4:8], encodeEpochTime(m.Timestamp))
		copy(b[8:], m.Data)
		return nil
	}
	copy(b[2:], m.Data)
	return nil
}

func decodeAuth(b []byte) *Auth {
	authType, page := unpackNibbles(b[1])
	m := &Auth{
		AuthType: ParseAuthType(authType),
		Page:     page,
	}

	if page == 0 {
		m.LastPageIndex = b[2]
		m.Length = b[3]
		m.Timestamp = decodeEpochTime(binary.LittleEndian.Uint32(b[4:8]))
		m.Data = append([]byte(nil), b[8:8+AuthFirstPageDataSize]...)
		return m
	}
	m.Data = append([]byte(nil), b[2:2+AuthPageDataSize]...)
	return m
}
