// Package adapter translates the two issuers' JSON "reconstruction
// ingredient" documents into vpack.Container values, spec §6 "JSON logic
// adapters".
package adapter

import (
	"encoding/json"
	"fmt"
)

// Ingredients is the issuer-published ingredient document, spec §6:
// meta.variant is a hint only, raw_evidence carries the published identity
// to check against, and the authoritative shape lives under
// reconstruction_ingredients — whose field set differs by issuer dialect.
type Ingredients struct {
	Meta struct {
		Variant string `json:"variant"`
	} `json:"meta"`

	RawEvidence struct {
		ExpectedVtxoID string `json:"expected_vtxo_id"`
	} `json:"raw_evidence"`

	ReconstructionIngredients ReconstructionIngredients `json:"reconstruction_ingredients"`

	AnchorValue flexUint64 `json:"anchor_value"`
}

// ReconstructionIngredients carries both issuer dialects' fields in one
// struct; each adapter reads only the subset its dialect populates
// (spec §6's field list: "topology, tx_version, nSequence,
// fee_anchor_script, id_type, outputs|child_output|siblings|path|amount|
// script_pubkey_hex|exit_delta|parent_outpoint|anchor_outpoint").
type ReconstructionIngredients struct {
	Topology        string `json:"topology"` // "Tree" | "Chain"
	TxVersion       uint32 `json:"tx_version"`
	NSequence       uint32 `json:"nSequence"`
	FeeAnchorScript string `json:"fee_anchor_script"`
	IDType          string `json:"id_type"`

	// Ark Labs (Variant 0x04): a leaf node ships a flat Outputs list; a
	// branch node ships Siblings plus ChildOutput instead.
	Outputs        []outputJSON  `json:"outputs"`
	ChildOutput    *outputJSON   `json:"child_output"`
	Siblings       []siblingJSON `json:"siblings"`
	ParentOutpoint string        `json:"parent_outpoint"`
	ParentIndex    *uint32       `json:"parent_index,omitempty"`

	// Second Tech (Variant 0x03): a single leaf plus an ordered Path of
	// genesis items.
	Amount          uint64     `json:"amount"`
	ScriptPubkeyHex string     `json:"script_pubkey_hex"`
	ExitDelta       uint16     `json:"exit_delta"`
	AnchorOutpoint  string     `json:"anchor_outpoint"`
	Path            []itemJSON `json:"path"`

	// RGB asset commitment, optional for either dialect (SPEC_FULL.md
	// "Domain stack": wires adapter/assetid.go into a container path).
	AssetGenesisContract string `json:"asset_genesis_contract,omitempty"`
}

type outputJSON struct {
	Value  uint64 `json:"value"`
	Script string `json:"script"`
}

type siblingJSON struct {
	Hash   string `json:"hash"`
	Value  uint64 `json:"value"`
	Script string `json:"script"`
}

type itemJSON struct {
	Siblings          []siblingJSON `json:"siblings"`
	ParentIndex       uint32        `json:"parent_index"`
	Sequence          uint32        `json:"sequence"`
	ChildAmount       uint64        `json:"child_amount"`
	ChildScriptPubkey string        `json:"child_script_pubkey"`
	Signature         string        `json:"signature,omitempty"`
}

// flexUint64 accepts anchor_value supplied as either a JSON string or a
// JSON number, spec §6 "optional top-level anchor_value (string or u64)".
type flexUint64 struct {
	Value uint64
	Set   bool
}

func (f *flexUint64) UnmarshalJSON(b []byte) error {
	var n uint64
	if err := json.Unmarshal(b, &n); err == nil {
		f.Value, f.Set = n, true
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("adapter: anchor_value must be a string or an integer")
	}
	if s == "" {
		return nil
	}
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fmt.Errorf("adapter: anchor_value %q is not a valid integer", s)
	}
	f.Value, f.Set = n, true
	return nil
}
