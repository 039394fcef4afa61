package adapter

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/jgmcalpine/vpack"
)

// VerifyJSON parses raw ingredient JSON and verifies it, dispatching on
// reconstruction_ingredients.topology when present and otherwise attempting
// the Ark-Labs adapter before falling back to Second-Tech, spec §6
// "verify_json".
func VerifyJSON(raw []byte) (vpack.Verdict, error) {
	var ing Ingredients
	if err := json.Unmarshal(raw, &ing); err != nil {
		return vpack.Verdict{}, fmt.Errorf("adapter: invalid ingredient JSON: %w", err)
	}

	container, err := buildFromIngredients(ing)
	if err != nil {
		return vpack.Verdict{}, adapterMismatch(err)
	}

	opts := vpack.VerifyOpts{}
	if ing.RawEvidence.ExpectedVtxoID != "" {
		expected, err := parseExpectedID(ing.RawEvidence.ExpectedVtxoID, container.Header.TxVariant, container.Tree.Anchor.Vout)
		if err != nil {
			return vpack.Verdict{}, err
		}
		opts.ExpectedID = &expected
	}
	if ing.AnchorValue.Set {
		v := ing.AnchorValue.Value
		opts.AnchorValue = &v
	}

	return vpack.Verify(container, opts)
}

// ExportToVPack builds a Container from an ingredient document and
// serializes it to the canonical V-PACK byte form, setting the header's
// testnet flag bit from isTestnet, spec §6 "export_to_vpack(ingredient_json,
// is_testnet: bool)".
func ExportToVPack(ingredientJSON []byte, isTestnet bool) ([]byte, error) {
	var ing Ingredients
	if err := json.Unmarshal(ingredientJSON, &ing); err != nil {
		return nil, fmt.Errorf("adapter: invalid ingredient JSON: %w", err)
	}

	container, err := buildFromIngredients(ing)
	if err != nil {
		return nil, adapterMismatch(err)
	}

	if isTestnet {
		container.Header.Flags |= vpack.FlagTestnet
	}

	return vpack.EncodeContainer(container), nil
}

// adapterMismatch reports that neither the ark-labs nor the second-tech
// dialect accepted the document, as vpack's flat ErrAdapterMismatch kind.
func adapterMismatch(err error) error {
	return &vpack.Error{Code: vpack.ErrAdapterMismatch, Msg: err.Error()}
}

// parseExpectedID interprets the expected_vtxo_id field according to the
// variant's native identity kind: a bare hash for Variant 0x04, an
// "txid:vout" outpoint for Variant 0x03.
func parseExpectedID(s string, variant byte, fallbackVout uint32) (vpack.VtxoId, error) {
	if variant == vpack.VariantTree {
		raw, err := hex.DecodeString(s)
		if err != nil || len(raw) != 32 {
			return vpack.VtxoId{}, fmt.Errorf("adapter: expected_vtxo_id must be 32-byte hex for Tree variant")
		}
		var h [32]byte
		for i := range raw {
			h[31-i] = raw[i]
		}
		return vpack.VtxoId{Kind: vpack.VtxoIdHash, Hash: h}, nil
	}

	hashPart, vout, err := splitOutpoint(s)
	if err != nil {
		return vpack.VtxoId{}, err
	}
	raw, err := hex.DecodeString(hashPart)
	if err != nil || len(raw) != 32 {
		return vpack.VtxoId{}, fmt.Errorf("adapter: expected_vtxo_id must be a 32-byte txid")
	}
	var h [32]byte
	for i := range raw {
		h[31-i] = raw[i]
	}
	if vout < 0 {
		vout = int64(fallbackVout)
	}
	return vpack.VtxoId{Kind: vpack.VtxoIdOutPoint, OutPoint: vpack.OutPoint{Hash: h, Vout: uint32(vout)}}, nil
}

// splitOutpoint splits an "txid:vout" string. If there is no ":vout" suffix
// it returns vout -1 so the caller can fall back to the anchor's own vout.
func splitOutpoint(s string) (string, int64, error) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == ':' {
			var vout int64
			if _, err := fmt.Sscanf(s[i+1:], "%d", &vout); err != nil {
				return "", 0, fmt.Errorf("adapter: malformed outpoint %q", s)
			}
			return s[:i], vout, nil
		}
	}
	return s, -1, nil
}
