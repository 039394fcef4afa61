package vpack

// DecodeContainer parses a full V-PACK blob: header, then prefix section
// (asset ID / anchor outpoint / fee anchor script), then tree section,
// spec §4.2 "decode".
func DecodeContainer(b []byte) (Container, error) {
	var c Container

	h, err := decodeHeader(b)
	if err != nil {
		return c, err
	}
	c.Header = h

	payload := b[HeaderSize : HeaderSize+int(h.PayloadLen)]
	cur := newCursor(payload)

	tree, err := decodeTree(cur, h)
	if err != nil {
		return c, err
	}
	c.Tree = tree

	if !cur.atEnd() {
		return c, vperrf(ErrTrailingBytes, "%d bytes left after parsing declared payload", cur.remaining())
	}
	return c, nil
}

// EncodeContainer serializes a Container to its canonical byte form,
// recomputing payload_len and checksum, spec §4.2 "encode".
func EncodeContainer(c Container) []byte {
	payload := encodeTree(c.Tree, c.Header)
	headerBytes := c.Header.Encode(payload)
	out := make([]byte, 0, len(headerBytes)+len(payload))
	out = append(out, headerBytes...)
	out = append(out, payload...)
	return out
}

// decodeTree parses the prefix section + tree section into a VPackTree.
func decodeTree(cur *cursor, h Header) (VPackTree, error) {
	var t VPackTree

	if h.HasAssetID() {
		raw, err := cur.readExact(32)
		if err != nil {
			return t, err
		}
		var id [32]byte
		copy(id[:], raw)
		t.AssetID = &id
	}

	anchorHashRaw, err := cur.readExact(32)
	if err != nil {
		return t, err
	}
	var anchorHash [32]byte
	copy(anchorHash[:], anchorHashRaw)
	anchorVout, err := cur.readU32LE()
	if err != nil {
		return t, err
	}
	t.Anchor = OutPoint{Hash: anchorHash, Vout: anchorVout}

	feeAnchorScript, err := cur.readLenPrefixed()
	if err != nil {
		return t, err
	}
	t.FeeAnchorScript = feeAnchorScript
	if h.TxVariant == VariantTree && len(feeAnchorScript) == 0 {
		return t, vperr(ErrFeeAnchorMissing, "variant 0x04 requires a non-empty fee_anchor_script")
	}

	leaf, err := decodeLeaf(cur)
	if err != nil {
		return t, err
	}
	t.Leaf = leaf

	pathLen, err := cur.readCompactSize()
	if err != nil {
		return t, err
	}
	if pathLen > uint64(h.TreeDepth) {
		return t, vperrf(ErrDepthExceeded, "path length %d exceeds header tree_depth %d", pathLen, h.TreeDepth)
	}
	path := make([]GenesisItem, 0, pathLen)
	for i := uint64(0); i < pathLen; i++ {
		item, err := decodeGenesisItem(cur, h)
		if err != nil {
			return t, err
		}
		path = append(path, item)
	}
	t.Path = path

	return t, nil
}

func decodeLeaf(cur *cursor) (VtxoLeaf, error) {
	var l VtxoLeaf
	amount, err := cur.readU64LE()
	if err != nil {
		return l, err
	}
	scriptPubkey, err := cur.readLenPrefixed()
	if err != nil {
		return l, err
	}
	vout, err := cur.readU32LE()
	if err != nil {
		return l, err
	}
	sequence, err := cur.readU32LE()
	if err != nil {
		return l, err
	}
	expiry, err := cur.readU32LE()
	if err != nil {
		return l, err
	}
	exitDelta, err := cur.readU16LE()
	if err != nil {
		return l, err
	}
	return VtxoLeaf{
		Amount:       amount,
		Vout:         vout,
		Sequence:     sequence,
		Expiry:       expiry,
		ExitDelta:    exitDelta,
		ScriptPubkey: scriptPubkey,
	}, nil
}

func decodeGenesisItem(cur *cursor, h Header) (GenesisItem, error) {
	var g GenesisItem

	siblingCount, err := cur.readCompactSize()
	if err != nil {
		return g, err
	}
	if siblingCount > uint64(h.TreeArity) {
		return g, vperrf(ErrArityViolation, "sibling count %d exceeds header tree_arity %d", siblingCount, h.TreeArity)
	}
	siblings := make([]SiblingNode, 0, siblingCount)
	for i := uint64(0); i < siblingCount; i++ {
		s, err := decodeSibling(cur, h)
		if err != nil {
			return g, err
		}
		siblings = append(siblings, s)
	}
	g.Siblings = siblings

	parentIndex, err := cur.readU32LE()
	if err != nil {
		return g, err
	}
	if parentIndex > uint32(len(siblings)) {
		return g, vperrf(ErrReconstructionFailure, "parent_index %d exceeds siblings length %d", parentIndex, len(siblings))
	}
	g.ParentIndex = parentIndex

	sequence, err := cur.readU32LE()
	if err != nil {
		return g, err
	}
	g.Sequence = sequence

	childAmount, err := cur.readU64LE()
	if err != nil {
		return g, err
	}
	g.ChildAmount = childAmount

	childScript, err := cur.readLenPrefixed()
	if err != nil {
		return g, err
	}
	g.ChildScriptPubkey = childScript

	sigTag, err := cur.readU8()
	if err != nil {
		return g, err
	}
	switch sigTag {
	case 0:
		// absent
	case 1:
		raw, err := cur.readExact(64)
		if err != nil {
			return g, err
		}
		var sig [64]byte
		copy(sig[:], raw)
		g.Signature = &sig
	default:
		return g, vperrf(ErrMalformedHeader, "invalid signature tag %#x", sigTag)
	}

	return g, nil
}

func decodeSibling(cur *cursor, h Header) (SiblingNode, error) {
	if h.IsCompact() {
		hashRaw, err := cur.readExact(32)
		if err != nil {
			return SiblingNode{}, err
		}
		var hash [32]byte
		copy(hash[:], hashRaw)
		value, err := cur.readU64LE()
		if err != nil {
			return SiblingNode{}, err
		}
		script, err := cur.readLenPrefixed()
		if err != nil {
			return SiblingNode{}, err
		}
		return SiblingNode{Full: false, Hash: hash, Value: value, Script: script}, nil
	}
	// Full (hydrated TxOut) form: value + script, no declared hash.
	value, err := cur.readU64LE()
	if err != nil {
		return SiblingNode{}, err
	}
	script, err := cur.readLenPrefixed()
	if err != nil {
		return SiblingNode{}, err
	}
	return SiblingNode{Full: true, Value: value, Script: script}, nil
}

// encodeTree serializes the prefix section + tree section in the exact
// field order decodeTree expects, spec §4.3.
func encodeTree(t VPackTree, h Header) []byte {
	var out []byte

	if h.HasAssetID() && t.AssetID != nil {
		out = append(out, t.AssetID[:]...)
	}

	out = append(out, t.Anchor.Hash[:]...)
	out = appendU32LE(out, t.Anchor.Vout)

	out = appendLenPrefixed(out, t.FeeAnchorScript)

	out = encodeLeaf(out, t.Leaf)

	out = append(out, CompactSize(len(t.Path)).Encode()...)
	for _, item := range t.Path {
		out = encodeGenesisItem(out, item, h)
	}

	return out
}

func encodeLeaf(out []byte, l VtxoLeaf) []byte {
	out = appendU64LE(out, l.Amount)
	out = appendLenPrefixed(out, l.ScriptPubkey)
	out = appendU32LE(out, l.Vout)
	out = appendU32LE(out, l.Sequence)
	out = appendU32LE(out, l.Expiry)
	out = appendU16LE(out, l.ExitDelta)
	return out
}

func encodeGenesisItem(out []byte, g GenesisItem, h Header) []byte {
	out = append(out, CompactSize(len(g.Siblings)).Encode()...)
	for _, s := range g.Siblings {
		out = encodeSibling(out, s, h)
	}
	out = appendU32LE(out, g.ParentIndex)
	out = appendU32LE(out, g.Sequence)
	out = appendU64LE(out, g.ChildAmount)
	out = appendLenPrefixed(out, g.ChildScriptPubkey)
	if g.Signature == nil {
		out = append(out, 0)
	} else {
		out = append(out, 1)
		out = append(out, g.Signature[:]...)
	}
	return out
}

func encodeSibling(out []byte, s SiblingNode, h Header) []byte {
	if h.IsCompact() {
		out = append(out, s.Hash[:]...)
		out = appendU64LE(out, s.Value)
		out = appendLenPrefixed(out, s.Script)
		return out
	}
	out = appendU64LE(out, s.Value)
	out = appendLenPrefixed(out, s.Script)
	return out
}
