package vpack

import "testing"

func TestCheckConservationAccepts(t *testing.T) {
	tree := VPackTree{
		Path: []GenesisItem{
			{ChildAmount: 900, Siblings: []SiblingNode{{Full: true, Value: 100}}},
			{ChildAmount: 800, Siblings: []SiblingNode{{Full: true, Value: 100}}},
		},
	}
	if err := checkConservation(tree, 1000); err != nil {
		t.Fatalf("unexpected conservation error: %v", err)
	}
}

func TestCheckConservationRejectsImbalance(t *testing.T) {
	tree := VPackTree{
		Path: []GenesisItem{
			{ChildAmount: 900, Siblings: []SiblingNode{{Full: true, Value: 50}}}, // sums to 950, not 1000
		},
	}
	err := checkConservation(tree, 1000)
	if code, ok := CodeOf(err); !ok || code != ErrConservationError {
		t.Fatalf("want ErrConservationError, got %v", err)
	}
}

func TestCheckSignaturesSkipsAbsent(t *testing.T) {
	tree := VPackTree{
		Path: []GenesisItem{
			{ChildAmount: 1, ChildScriptPubkey: []byte{0x51}}, // no Signature
		},
	}
	if err := checkSignatures(tree, nil); err != nil {
		t.Fatalf("absent signature should never fail verification: %v", err)
	}
}

func TestCheckSignaturesRejectsForgedSignature(t *testing.T) {
	pubkeyScript := append([]byte{0x51, 0x20}, make([]byte, 32)...)
	var forged [64]byte
	tree := VPackTree{
		Path: []GenesisItem{
			{ChildAmount: 1, ChildScriptPubkey: pubkeyScript, Signature: &forged},
		},
	}
	err := checkSignatures(tree, nil)
	if code, ok := CodeOf(err); !ok || code != ErrSignatureInvalid {
		t.Fatalf("want ErrSignatureInvalid for a forged signature, got %v", err)
	}
}

func TestExtractXOnlyPubkey(t *testing.T) {
	key := make([]byte, 32)
	key[0] = 0xAB
	p2tr := append([]byte{0x51, 0x20}, key...)

	got, err := extractXOnlyPubkey(p2tr)
	if err != nil || string(got) != string(key) {
		t.Fatalf("extractXOnlyPubkey(p2tr) = %x, %v", got, err)
	}

	got, err = extractXOnlyPubkey(key)
	if err != nil || string(got) != string(key) {
		t.Fatalf("extractXOnlyPubkey(bare) = %x, %v", got, err)
	}

	if _, err := extractXOnlyPubkey([]byte{0x6a}); err == nil {
		t.Fatal("expected an error for a non-taproot script")
	}
}

func TestVerifyBoardingNoExpectation(t *testing.T) {
	c := Container{
		Header: chainBoardingHeader(0),
		Tree: VPackTree{
			Anchor: OutPoint{Hash: [32]byte{5}, Vout: 2},
		},
	}
	v, err := Verify(c, VerifyOpts{})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !v.Valid {
		t.Error("expected Valid verdict")
	}
}

func TestVerifyRejectsWrongExpectedID(t *testing.T) {
	c := Container{
		Header: chainBoardingHeader(0),
		Tree: VPackTree{
			Anchor: OutPoint{Hash: [32]byte{5}, Vout: 2},
		},
	}
	wrong := VtxoId{Kind: VtxoIdOutPoint, OutPoint: OutPoint{Hash: [32]byte{9}, Vout: 0}}
	_, err := Verify(c, VerifyOpts{ExpectedID: &wrong})
	if code, ok := CodeOf(err); !ok || code != ErrIdentityMismatch {
		t.Fatalf("want ErrIdentityMismatch, got %v", err)
	}
}
