package vpack

import "testing"

func TestReconstructTreeRequiresFeeAnchor(t *testing.T) {
	tree := VPackTree{
		Anchor: OutPoint{Hash: [32]byte{1}, Vout: 0},
		Path: []GenesisItem{{
			ParentIndex:       0,
			Sequence:          0xFFFFFFFF,
			ChildAmount:       1,
			ChildScriptPubkey: []byte{0x51},
		}},
	}
	_, _, err := reconstructTree(tree)
	if code, ok := CodeOf(err); !ok || code != ErrFeeAnchorMissing {
		t.Fatalf("want ErrFeeAnchorMissing, got %v", err)
	}
}

func TestReconstructTreeRejectsBadSequence(t *testing.T) {
	tree := VPackTree{
		Anchor:          OutPoint{Hash: [32]byte{1}, Vout: 0},
		FeeAnchorScript: []byte{0x6a},
		Path: []GenesisItem{{
			ParentIndex:       0,
			Sequence:          0, // neither RBF sentinel
			ChildAmount:       1,
			ChildScriptPubkey: []byte{0x51},
		}},
	}
	_, _, err := reconstructTree(tree)
	if code, ok := CodeOf(err); !ok || code != ErrReconstructionFailure {
		t.Fatalf("want ErrReconstructionFailure, got %v", err)
	}
}

func TestReconstructTreeSingleLevel(t *testing.T) {
	anchor := OutPoint{Hash: [32]byte{2, 2}, Vout: 1}
	feeAnchor := []byte{0x6a}

	item := GenesisItem{
		Siblings:          nil,
		ParentIndex:       0,
		Sequence:          0xFFFFFFFF,
		ChildAmount:       1000,
		ChildScriptPubkey: []byte{0x51, 0x01},
	}

	tree := VPackTree{
		Anchor:          anchor,
		FeeAnchorScript: feeAnchor,
		Path:            []GenesisItem{item},
	}

	id, details, err := reconstructTree(tree)
	if err != nil {
		t.Fatalf("reconstructTree: %v", err)
	}
	if id.Kind != VtxoIdHash {
		t.Errorf("tree identity should be a Hash kind, got %v", id.Kind)
	}
	foundFeeAnchor := false
	foundLeaf := false
	for _, d := range details {
		if d.HasFeeAnchor {
			foundFeeAnchor = true
		}
		if d.IsLeaf {
			foundLeaf = true
		}
	}
	if !foundFeeAnchor {
		t.Error("expected one path detail marked HasFeeAnchor")
	}
	if !foundLeaf {
		t.Error("expected the terminal level's child output marked IsLeaf")
	}
}

func TestReconstructTreeBoardingShortCircuit(t *testing.T) {
	anchor := OutPoint{Hash: [32]byte{4, 4}, Vout: 2}
	feeAnchor := []byte{0x51, 0x02, 0x4e, 0x73}
	leaf := VtxoLeaf{Amount: 1100, Sequence: 0xFFFFFFFF, ScriptPubkey: []byte{0x51, 0x20, 0xaa}}
	tree := VPackTree{Anchor: anchor, FeeAnchorScript: feeAnchor, Leaf: leaf}

	id, details, err := reconstructTree(tree)
	if err != nil {
		t.Fatalf("reconstructTree: %v", err)
	}
	if details != nil {
		t.Errorf("boarding case should produce no path details")
	}
	if id.Kind != VtxoIdHash {
		t.Errorf("boarding identity should be a Hash kind, got %v", id.Kind)
	}

	// The identity must be the DSHA256 of the leaf tx's own preimage, not a
	// second hash layer on top of it (spec §4.5.2, compute_leaf_vtxo_id).
	wantOutputs := []txOutput{
		{value: leaf.Amount, script: leaf.ScriptPubkey},
		{value: 0, script: feeAnchor},
	}
	want := computeTxid(anchor, leaf.Sequence, wantOutputs)
	if id.Hash != want {
		t.Errorf("boarding identity = %x, want %x", id.Hash, want)
	}

	doubleHashed := doubleSHA256(want[:])
	if id.Hash == doubleHashed {
		t.Fatal("identity must not be a second hash layer over the leaf txid")
	}
}

func TestVerifySiblingHashesDetectsTamper(t *testing.T) {
	good := SiblingNode{Full: false, Value: 100, Script: []byte{0x51}}
	buf := appendU64LE(nil, good.Value)
	buf = appendLenPrefixed(buf, good.Script)
	good.Hash = doubleSHA256(buf)

	if err := verifySiblingHashes([]SiblingNode{good}); err != nil {
		t.Fatalf("unexpected error on valid sibling: %v", err)
	}

	tampered := good
	tampered.Value = 999
	if err := verifySiblingHashes([]SiblingNode{tampered}); err == nil {
		t.Fatal("expected a hash mismatch error on tampered sibling")
	}
}
