package remoteid

// BasicID carries the aircraft identity.
type BasicID struct {
	IDType IDType `json:"id_type" yaml:"id_type"`
	UAType UAType `json:"ua_type" yaml:"ua_type"`
	UASID  ID     `json:"uas_id" yaml:"uas_id"`
}

func (*BasicID) Type() MessageType { return TypeBasicID }
func (*BasicID) isMessage()        {}

func (m *BasicID) encode(b []byte) {
	b[1] = packNibbles(uint8(ParseIDType(uint8(m.IDType))), uint8(ParseUAType(uint8(m.UAType))))
	copy(b[2:2+idSize], m.UASID[:])
}

func decodeBasicID(b []byte) *BasicID {
	idType, uaType := unpackNibbles(b[1])
	return &BasicID{
		IDType: ParseIDType(idType),
		UAType: ParseUAType(uaType),
		UASID:  IDFromBytes(b[2 : 2+idSize]),
	}
}
