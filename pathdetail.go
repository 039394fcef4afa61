package vpack

// PathDetail describes one reconstructed level of a chain/tree walk, for
// callers that want to inspect the walk rather than just its final
// identity, spec §6 "verify ... per-level detail".
type PathDetail struct {
	Txid         string // display-form hex
	Vout         uint32
	Amount       uint64
	IsLeaf       bool
	IsAnchor     bool
	HasSignature bool
	HasFeeAnchor bool
	ExitWeightVB uint32

	Sequence  *uint32
	ExitDelta *uint16

	UnsignedTxHex string
	SignedTxHex   string
}
