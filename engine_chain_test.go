package vpack

import "testing"

func TestReconstructChainSingleLevel(t *testing.T) {
	anchor := OutPoint{Hash: [32]byte{1, 2, 3}, Vout: 0}
	sibling := SiblingNode{Full: true, Value: 50000, Script: []byte{0x51, 0xaa}}

	item := GenesisItem{
		Siblings:          []SiblingNode{sibling},
		ParentIndex:       1,
		Sequence:          0,
		ChildAmount:       25000,
		ChildScriptPubkey: []byte{0x51, 0xbb},
	}

	outputs, childIdx, err := assembleOutputs(item)
	if err != nil {
		t.Fatalf("assembleOutputs: %v", err)
	}
	wantTxid := computeTxid(anchor, 0, outputs)

	tree := VPackTree{
		Anchor: anchor,
		Leaf:   VtxoLeaf{Amount: 25000, Vout: uint32(childIdx), ScriptPubkey: item.ChildScriptPubkey},
		Path:   []GenesisItem{item},
	}

	id, details, err := reconstructChain(tree)
	if err != nil {
		t.Fatalf("reconstructChain: %v", err)
	}
	want := VtxoId{Kind: VtxoIdOutPoint, OutPoint: OutPoint{Hash: wantTxid, Vout: uint32(childIdx)}}
	if !id.Equal(want) {
		t.Errorf("identity = %s, want %s", id, want)
	}
	if len(details) != len(outputs) {
		t.Errorf("got %d path details, want %d", len(details), len(outputs))
	}
	if !details[childIdx].IsLeaf {
		t.Error("expected the terminal level's child output marked IsLeaf")
	}
}

func TestReconstructChainRejectsNonZeroSequence(t *testing.T) {
	tree := VPackTree{
		Anchor: OutPoint{Hash: [32]byte{1}, Vout: 0},
		Leaf:   VtxoLeaf{Amount: 1, Vout: 0, ScriptPubkey: []byte{0x51}},
		Path: []GenesisItem{{
			ParentIndex:       0,
			Sequence:          1,
			ChildAmount:       1,
			ChildScriptPubkey: []byte{0x51},
		}},
	}
	_, _, err := reconstructChain(tree)
	if code, ok := CodeOf(err); !ok || code != ErrReconstructionFailure {
		t.Fatalf("want ErrReconstructionFailure, got %v", err)
	}
}

func TestReconstructChainBoardingShortCircuit(t *testing.T) {
	anchor := OutPoint{Hash: [32]byte{7, 7, 7}, Vout: 3}
	tree := VPackTree{Anchor: anchor}
	id, details, err := reconstructChain(tree)
	if err != nil {
		t.Fatalf("reconstructChain: %v", err)
	}
	if details != nil {
		t.Errorf("boarding case should produce no path details, got %v", details)
	}
	want := VtxoId{Kind: VtxoIdOutPoint, OutPoint: anchor}
	if !id.Equal(want) {
		t.Errorf("identity = %s, want %s", id, want)
	}
}

func TestReconstructChainLeafVoutMismatch(t *testing.T) {
	tree := VPackTree{
		Anchor: OutPoint{Hash: [32]byte{1}, Vout: 0},
		Leaf:   VtxoLeaf{Amount: 1, Vout: 99, ScriptPubkey: []byte{0x51}},
		Path: []GenesisItem{{
			ParentIndex:       0,
			Sequence:          0,
			ChildAmount:       1,
			ChildScriptPubkey: []byte{0x51},
		}},
	}
	_, _, err := reconstructChain(tree)
	if code, ok := CodeOf(err); !ok || code != ErrIdentityMismatch {
		t.Fatalf("want ErrIdentityMismatch, got %v", err)
	}
}
