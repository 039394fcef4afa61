package vpack

import "testing"

func chainBoardingHeader(payloadLen int) Header {
	return Header{
		Flags:      flagCompact,
		Version:    currentVersion,
		TxVariant:  VariantChain,
		TreeArity:  minTreeArity,
		TreeDepth:  0,
		NodeCount:  0,
		AssetType:  AssetTypeBTC,
		PayloadLen: uint32(payloadLen),
	}
}

func TestContainerRoundTripBoarding(t *testing.T) {
	c := Container{
		Header: chainBoardingHeader(0),
		Tree: VPackTree{
			Anchor:          OutPoint{Hash: [32]byte{1, 2, 3}, Vout: 7},
			FeeAnchorScript: nil,
			Leaf: VtxoLeaf{
				Amount:       100000,
				Vout:         7,
				Sequence:     0,
				Expiry:       0,
				ExitDelta:    144,
				ScriptPubkey: []byte{0x51, 0x20},
			},
			Path: nil,
		},
	}

	encoded := EncodeContainer(c)
	decoded, err := DecodeContainer(encoded)
	if err != nil {
		t.Fatalf("DecodeContainer: %v", err)
	}

	if decoded.Anchor() != c.Tree.Anchor {
		t.Errorf("anchor mismatch: got %+v, want %+v", decoded.Anchor(), c.Tree.Anchor)
	}
	if decoded.Tree.Leaf.Amount != c.Tree.Leaf.Amount {
		t.Errorf("leaf amount mismatch: got %d, want %d", decoded.Tree.Leaf.Amount, c.Tree.Leaf.Amount)
	}

	id, _, err := ComputeID(decoded)
	if err != nil {
		t.Fatalf("ComputeID: %v", err)
	}
	want := VtxoId{Kind: VtxoIdOutPoint, OutPoint: c.Tree.Anchor}
	if !id.Equal(want) {
		t.Errorf("boarding identity = %s, want %s", id, want)
	}
}

func TestContainerChecksumMismatchRejected(t *testing.T) {
	c := Container{Header: chainBoardingHeader(0), Tree: VPackTree{
		Anchor: OutPoint{Hash: [32]byte{9}, Vout: 1},
		Leaf:   VtxoLeaf{Amount: 1, Vout: 1, ScriptPubkey: []byte{0x51}},
	}}
	encoded := EncodeContainer(c)
	encoded[len(encoded)-1] ^= 0xff // corrupt the last payload byte; the checksum field is left as is

	_, err := DecodeContainer(encoded)
	if code, ok := CodeOf(err); !ok || code != ErrChecksumMismatch {
		t.Fatalf("want ErrChecksumMismatch, got %v", err)
	}
}

func TestContainerTrailingBytesRejected(t *testing.T) {
	c := Container{Header: chainBoardingHeader(0), Tree: VPackTree{
		Anchor: OutPoint{Hash: [32]byte{9}, Vout: 1},
		Leaf:   VtxoLeaf{Amount: 1, Vout: 1, ScriptPubkey: []byte{0x51}},
	}}
	encoded := EncodeContainer(c)
	encoded = append(encoded, 0x00) // one byte the header doesn't account for

	_, err := DecodeContainer(encoded)
	if code, ok := CodeOf(err); !ok || code != ErrTrailingBytes {
		t.Fatalf("want ErrTrailingBytes, got %v", err)
	}
}

func TestContainerDepthExceededRejected(t *testing.T) {
	h := chainBoardingHeader(0)
	h.TreeDepth = 0 // declares no path allowed
	tree := VPackTree{
		Anchor: OutPoint{Hash: [32]byte{9}, Vout: 1},
		Leaf:   VtxoLeaf{Amount: 1, Vout: 0, ScriptPubkey: []byte{0x51}},
		Path: []GenesisItem{{
			ParentIndex:       0,
			Sequence:          0,
			ChildAmount:       1,
			ChildScriptPubkey: []byte{0x51},
		}},
	}
	c := Container{Header: h, Tree: tree}
	encoded := EncodeContainer(c)

	_, err := DecodeContainer(encoded)
	if code, ok := CodeOf(err); !ok || code != ErrDepthExceeded {
		t.Fatalf("want ErrDepthExceeded, got %v", err)
	}
}
