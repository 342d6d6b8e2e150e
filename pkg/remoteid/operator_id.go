package remoteid

// OperatorID carries the operator registration ID.
type OperatorID struct {
	IDType     OperatorIDType `json:"id_type" yaml:"id_type"`
	OperatorID ID             `json:"operator_id" yaml:"operator_id"`
}

func (*OperatorID) Type() MessageType { return TypeOperatorID }
func (*OperatorID) isMessage()        {}

func (m *OperatorID) encode(b []byte) {
	b[1] = uint8(ParseOperatorIDType(uint8(m.IDType)))
	copy(b[2:2+idSize], m.OperatorID[:])
}

func decodeOperatorID(b []byte) *OperatorID {
	return &OperatorID{
		IDType:     ParseOperatorIDType(b[1]),
		OperatorID: IDFromBytes(b[2 : 2+idSize]),
	}
}
