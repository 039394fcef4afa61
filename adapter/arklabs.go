package adapter

import (
	"fmt"

	"github.com/jgmcalpine/vpack"
)

// FromArkLabs translates an Ark-Labs-style ingredient document into a
// Container. Ark Labs publishes Variant 0x04 ("Tree") ingredients under two
// sub-shapes (original_source/src/ingredients.rs's ArkLabsAdapter): a
// leaf-only node ships a flat "outputs" array ([user output, fee-anchor
// output, ...]); a one-level branch ships "siblings" plus a "child_output"
// instead (spec §6, ADAPTER A).
func FromArkLabs(ing Ingredients) (vpack.Container, error) {
	ri := ing.ReconstructionIngredients
	if ri.Topology != "" && ri.Topology != "Tree" {
		return vpack.Container{}, fmt.Errorf("adapter: ark-labs ingredients must declare topology Tree, got %q", ri.Topology)
	}

	anchorStr := ri.ParentOutpoint
	if anchorStr == "" {
		anchorStr = ri.AnchorOutpoint
	}
	anchor, err := parseOutpoint(anchorStr)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: ark-labs parent_outpoint: %w", err)
	}

	feeAnchorHex := ri.FeeAnchorScript
	if feeAnchorHex == "" {
		feeAnchorHex = defaultArkLabsFeeAnchorScript
	}
	feeAnchorScript, err := decodeHexBytes(feeAnchorHex)
	if err != nil {
		return vpack.Container{}, fmt.Errorf("adapter: ark-labs fee_anchor_script: %w", err)
	}

	tree := vpack.VPackTree{Anchor: anchor, FeeAnchorScript: feeAnchorScript}

	switch {
	case len(ri.Outputs) > 0:
		userOut := ri.Outputs[0]
		script, err := decodeHexBytes(userOut.Script)
		if err != nil {
			return vpack.Container{}, fmt.Errorf("adapter: ark-labs outputs[0].script: %w", err)
		}
		tree.Leaf = vpack.VtxoLeaf{Amount: userOut.Value, Sequence: ri.NSequence, ExitDelta: ri.ExitDelta, ScriptPubkey: script}

	case ri.ChildOutput != nil:
		siblings, err := buildSiblings(ri.Siblings)
		if err != nil {
			return vpack.Container{}, fmt.Errorf("adapter: ark-labs siblings: %w", err)
		}
		childScript, err := decodeHexBytes(ri.ChildOutput.Script)
		if err != nil {
			return vpack.Container{}, fmt.Errorf("adapter: ark-labs child_output.script: %w", err)
		}
		parentIdx := uint32(0)
		if ri.ParentIndex != nil {
			parentIdx = *ri.ParentIndex
		}
		tree.Path = []vpack.GenesisItem{{
			Siblings:          siblings,
			ParentIndex:       parentIdx,
			Sequence:          ri.NSequence,
			ChildAmount:       ri.ChildOutput.Value,
			ChildScriptPubkey: childScript,
		}}

	default:
		return vpack.Container{}, fmt.Errorf("adapter: ark-labs ingredients require either \"outputs\" or \"child_output\"/\"siblings\"")
	}

	header := buildHeader(tree, vpack.VariantTree)
	if err := applyAssetID(ri.AssetGenesisContract, &tree, &header); err != nil {
		return vpack.Container{}, err
	}

	return vpack.Container{Header: header, Tree: tree}, nil
}
