package vpack

import "github.com/jgmcalpine/vpack/crypto"

// Verdict is the result of a full Verify call, spec §6 "verify".
type Verdict struct {
	Valid    bool
	Variant  byte
	Identity VtxoId
	Path     []PathDetail
}

// DefaultSchnorrVerifier is used by Verify when a caller does not supply
// its own crypto.Provider.
var DefaultSchnorrVerifier crypto.Provider = crypto.BTCECProvider{}

// ComputeID reconstructs the container's vUTXO identity without checking it
// against any expectation, spec §6 "compute_id".
func ComputeID(c Container) (VtxoId, []PathDetail, error) {
	switch c.Header.TxVariant {
	case VariantChain:
		return reconstructChain(c.Tree)
	case VariantTree:
		return reconstructTree(c.Tree)
	default:
		return VtxoId{}, nil, vperrf(ErrMalformedHeader, "unsupported tx variant %#x", c.Header.TxVariant)
	}
}

// VerifyOpts carries the optional checks Verify can additionally perform.
type VerifyOpts struct {
	ExpectedID  *VtxoId
	AnchorValue *uint64 // if set, enables the conservation check
	Verifier    crypto.Provider
}

// Verify fully validates a container: reconstructs its identity, optionally
// compares it against an expected identity, optionally runs the conservation
// check against a known anchor value, and verifies any per-level Schnorr
// signatures present (their absence is never an error), spec §6/§4.5/§4.6.
func Verify(c Container, opts VerifyOpts) (Verdict, error) {
	identity, path, err := ComputeID(c)
	if err != nil {
		return Verdict{}, err
	}

	if opts.ExpectedID != nil && !identity.Equal(*opts.ExpectedID) {
		return Verdict{}, vperrf(ErrIdentityMismatch, "reconstructed identity %s does not match expected %s",
			identity.String(), opts.ExpectedID.String())
	}

	if opts.AnchorValue != nil {
		if err := checkConservation(c.Tree, *opts.AnchorValue); err != nil {
			return Verdict{}, err
		}
	}

	if err := checkSignatures(c.Tree, opts.Verifier); err != nil {
		return Verdict{}, err
	}

	return Verdict{Valid: true, Variant: c.Header.TxVariant, Identity: identity, Path: path}, nil
}

// checkConservation verifies that at every level the sum of output values
// equals the value consumed from the prior level, starting from the known
// anchorValue, spec §4.6 "Conservation".
func checkConservation(t VPackTree, anchorValue uint64) error {
	consumed := anchorValue
	for level, item := range t.Path {
		sum := item.ChildAmount
		for _, s := range item.Siblings {
			sum += s.ReconstructedValue()
		}
		if sum != consumed {
			return vperrf(ErrConservationError,
				"level %d: outputs sum to %d, expected %d", level, sum, consumed)
		}
		consumed = item.ChildAmount
	}
	return nil
}

// checkSignatures verifies every present per-level signature against the
// x-only public key extracted from that level's own output script. A level
// with no signature is skipped, never an error, spec §4.5.2 "Signature
// check ... using the x-only public key extracted from the relevant
// taproot output script".
func checkSignatures(t VPackTree, verifier crypto.Provider) error {
	if verifier == nil {
		verifier = DefaultSchnorrVerifier
	}
	for level, item := range t.Path {
		if item.Signature == nil {
			continue
		}
		pubkey, err := extractXOnlyPubkey(item.ChildScriptPubkey)
		if err != nil {
			return vperrf(ErrSignatureInvalid, "level %d: %v", level, err)
		}
		sighash := levelSighash(item)
		ok, err := verifier.VerifySchnorr(pubkey, item.Signature[:], sighash[:])
		if err != nil {
			return vperrf(ErrSignatureInvalid, "level %d: %v", level, err)
		}
		if !ok {
			return vperrf(ErrSignatureInvalid, "level %d: signature does not verify", level)
		}
	}
	return nil
}

// extractXOnlyPubkey recovers the 32-byte x-only public key from a level's
// output scriptPubkey: a P2TR script (OP_1, push32, 32-byte key) or a bare
// 32-byte key, matching original_source/src/consensus/taproot_sighash.rs's
// extract_verify_key.
func extractXOnlyPubkey(script []byte) ([]byte, error) {
	if len(script) == 34 && script[0] == 0x51 && script[1] == 0x20 {
		return script[2:34], nil
	}
	if len(script) == 32 {
		return script, nil
	}
	return nil, vperr(ErrSignatureInvalid, "scriptPubkey is not a recognizable taproot key")
}

// levelSighash is the message a per-level signature is over: the
// double-SHA256 of the level's child amount and scriptPubkey.
func levelSighash(item GenesisItem) [32]byte {
	buf := appendU64LE(nil, item.ChildAmount)
	buf = appendLenPrefixed(buf, item.ChildScriptPubkey)
	return doubleSHA256(buf)
}
