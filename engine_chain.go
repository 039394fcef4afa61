package vpack

// reconstructChain walks Variant 0x03 ("Chain") top-down: the anchor
// outpoint is spent by the first GenesisItem's transaction, whose output at
// parent_index becomes the prevOut spent by the next item, and so on until
// the final item's child output is the leaf's own VtxoId (spec §4.5.1).
//
// A zero-length path is the boarding case: the vUTXO's identity is the
// anchor outpoint itself (SPEC_FULL.md Open Question 2), and the
// reconstructor is never invoked.
//
// Variant 0x03 requires sequence == 0 at every level (SPEC_FULL.md Open
// Question 3); any other value is a reconstruction failure, not silently
// accepted.
func reconstructChain(t VPackTree) (VtxoId, []PathDetail, error) {
	if len(t.Path) == 0 {
		return VtxoId{Kind: VtxoIdOutPoint, OutPoint: t.Anchor}, nil, nil
	}

	details := make([]PathDetail, 0, len(t.Path)+1)
	prevOut := t.Anchor

	for level, item := range t.Path {
		if item.Sequence != 0 {
			return VtxoId{}, nil, vperrf(ErrReconstructionFailure,
				"chain level %d: sequence must be 0, got %d", level, item.Sequence)
		}

		outputs, childIdx, err := assembleOutputs(item)
		if err != nil {
			return VtxoId{}, nil, err
		}

		txid := computeTxid(prevOut, item.Sequence, outputs)
		exitWeight := estimateExitWeightVB(prevOut, item.Sequence, outputs, item.Signature != nil)
		unsignedHex := signedTxHex(prevOut, item.Sequence, outputs, nil)
		signedHex := signedTxHex(prevOut, item.Sequence, outputs, item.Signature)

		isLastLevel := level == len(t.Path)-1
		for i, o := range outputs {
			details = append(details, PathDetail{
				Txid:          displayHex(txid),
				Vout:          uint32(i),
				Amount:        o.value,
				IsLeaf:        isLastLevel && i == childIdx,
				IsAnchor:      level == 0 && i == int(item.ParentIndex),
				HasSignature:  item.Signature != nil && i == childIdx,
				ExitWeightVB:  exitWeight,
				UnsignedTxHex: unsignedHex,
				SignedTxHex:   signedHex,
			})
		}

		prevOut = OutPoint{Hash: txid, Vout: uint32(childIdx)}
	}

	leafOut := prevOut
	if leafOut.Vout != t.Leaf.Vout {
		// The final level's child output index must match the declared
		// leaf vout; otherwise the path doesn't actually terminate at
		// the claimed leaf.
		return VtxoId{}, nil, vperrf(ErrIdentityMismatch,
			"final child vout %d does not match leaf vout %d", leafOut.Vout, t.Leaf.Vout)
	}

	return VtxoId{Kind: VtxoIdOutPoint, OutPoint: leafOut}, details, nil
}

// assembleOutputs builds the output set for one GenesisItem: the child
// output (amount/script carried on the item itself) spliced into the
// sibling set at ParentIndex.
func assembleOutputs(item GenesisItem) ([]txOutput, int, error) {
	n := len(item.Siblings) + 1
	outputs := make([]txOutput, 0, n)
	childIdx := int(item.ParentIndex)
	if childIdx > len(item.Siblings) {
		return nil, 0, vperrf(ErrReconstructionFailure,
			"parent_index %d out of range for %d siblings", childIdx, len(item.Siblings))
	}

	siblingPos := 0
	for i := 0; i < n; i++ {
		if i == childIdx {
			outputs = append(outputs, txOutput{value: item.ChildAmount, script: item.ChildScriptPubkey})
			continue
		}
		s := item.Siblings[siblingPos]
		outputs = append(outputs, txOutput{value: s.ReconstructedValue(), script: s.ReconstructedScript()})
		siblingPos++
	}
	return outputs, childIdx, nil
}
