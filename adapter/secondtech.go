package adapter

import (
	"fmt"

	"github.com/jgmcalpine/vpack"
)

// FromSecondTech translates a Second-Tech-style ingredient document into a
// Container. Second Tech publishes Variant 0x03 ("Chain") ingredients: a
// leaf (amount, script_pubkey_hex, exit_delta) plus an ordered "path" of
// genesis items, identity by outpoint (original_source/src/ingredients.rs's
// SecondTechAdapter; spec §6, ADAPTER B). Unlike Ark Labs, a fee anchor
// script is optional and, when present, is carried but unused by the Chain
// reconstruction engine.
func FromSecondTech(ing Ingredients) (vpack.Container, error) {
	ri := ing.ReconstructionIngredients
	if ri.Topology != "" && ri.Topology != "Chain" {
		return vpack.Container{}, fmt.Errorf("adapter: second-tech ingredients must declare topology Chain, got %q", ri.Topology)
	}

	anchorStr := ri.AnchorOutpoint
	if anchorStr == "" {
		anchorStr = ri.ParentOutpoint
	}
	anchor, err := parseOutpoint(anchorStr)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: second-tech anchor_outpoint: %w", err)
	}

	leafScript, err := decodeHexBytes(ri.ScriptPubkeyHex)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: second-tech script_pubkey_hex: %w", err)
	}
	leaf := vpack.VtxoLeaf{
		Amount:       ri.Amount,
		Sequence:     ri.NSequence,
		ExitDelta:    ri.ExitDelta,
		ScriptPubkey: leafScript,
	}

	path, err := buildPath(ri.Path)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: second-tech path: %w", err)
	}
	if len(path) > 0 {
		// The final level's own declared parent_index is the terminal
		// child output index, which reconstructChain cross-checks against
		// the leaf's own vout.
		leaf.Vout = path[len(path)-1].ParentIndex
	}

	feeAnchorScript, err := decodeHexBytes(ri.FeeAnchorScript)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: second-tech fee_anchor_script: %w", err)
	}

	tree := vpack.VPackTree{
		Anchor:          anchor,
		FeeAnchorScript: feeAnchorScript,
		Leaf:            leaf,
		Path:            path,
	}

	header := buildHeader(tree, vpack.VariantChain)
	if err := applyAssetID(ri.AssetGenesisContract, &tree, &header); err != nil {
		return vpack.Container{}, err
	}

	return vpack.Container{Header: header, Tree: tree}, nil
}
