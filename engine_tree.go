package vpack

// reconstructTree walks Variant 0x04 ("Tree") top-down from the anchor,
// same as reconstructChain, but: every level must carry the mandatory
// fee-anchor output, sequence must be one of the two RBF-signaling
// values (0xFFFFFFFE/0xFFFFFFFF), and the final identity is the hash of
// the last transaction rather than an OutPoint — vUTXOs in this topology
// are addressed by hash, not by outpoint, so they can be fanned out to
// many children from the same parent tx without colliding (spec §4.5.2).
func reconstructTree(t VPackTree) (VtxoId, []PathDetail, error) {
	if len(t.FeeAnchorScript) == 0 {
		return VtxoId{}, nil, vperr(ErrFeeAnchorMissing, "variant 0x04 requires a fee anchor on every level")
	}
	if len(t.Path) == 0 {
		// Leaf node: a V3 tx whose single input spends the anchor outpoint
		// directly, outputs [user, fee-anchor]. Its DSHA256(preimage) *is*
		// the identity; there is no extra hash layer on top of the txid
		// (original_source/src/consensus/ark_labs.rs's compute_leaf_vtxo_id,
		// gold-tested against round_leaf_v3.json).
		outputs := []txOutput{
			{value: t.Leaf.Amount, script: t.Leaf.ScriptPubkey},
			{value: 0, script: t.FeeAnchorScript},
		}
		h := computeTxid(t.Anchor, t.Leaf.Sequence, outputs)
		return VtxoId{Kind: VtxoIdHash, Hash: h}, nil, nil
	}

	details := make([]PathDetail, 0, len(t.Path)+1)
	prevOut := t.Anchor
	var lastTxid [32]byte

	for level, item := range t.Path {
		if item.Sequence != 0xFFFFFFFE && item.Sequence != 0xFFFFFFFF {
			return VtxoId{}, nil, vperrf(ErrReconstructionFailure,
				"tree level %d: sequence must signal RBF (0xfffffffe/0xffffffff), got %#x", level, item.Sequence)
		}

		if err := verifySiblingHashes(item.Siblings); err != nil {
			return VtxoId{}, nil, err
		}

		outputs, childIdx, err := assembleOutputs(item)
		if err != nil {
			return VtxoId{}, nil, err
		}
		outputs = append(outputs, txOutput{value: 0, script: t.FeeAnchorScript})

		txid := computeTxid(prevOut, item.Sequence, outputs)
		lastTxid = txid
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
				HasFeeAnchor:  i == len(outputs)-1,
				ExitWeightVB:  exitWeight,
				UnsignedTxHex: unsignedHex,
				SignedTxHex:   signedHex,
			})
		}

		prevOut = OutPoint{Hash: txid, Vout: uint32(childIdx)}
	}

	// lastTxid is already a DSHA256(preimage) hash; the identity is that
	// hash directly, matching the leaf-only (boarding) case above — there
	// is no second hash layer (spec §4.5.2 step 4's "Hash(H_0)" denotes
	// H_0 itself being a hash, not an additional hashing of it).
	return VtxoId{Kind: VtxoIdHash, Hash: lastTxid}, details, nil
}

// verifySiblingHashes re-hashes each compact sibling's declared
// (value, script) and checks it against the sibling's own Hash field,
// catching a tampered compact sibling without needing the hydrated form
// (SPEC_FULL.md "Supplemented Features": sibling-hash cross-check).
func verifySiblingHashes(siblings []SiblingNode) error {
	for i, s := range siblings {
		if s.Full {
			continue
		}
		want := s.Hash
		buf := appendU64LE(nil, s.Value)
		buf = appendLenPrefixed(buf, s.Script)
		got := doubleSHA256(buf)
		if got != want {
			return vperrf(ErrReconstructionFailure, "sibling %d hash mismatch", i)
		}
	}
	return nil
}
