package vpack

import "encoding/json"

// unpackedJSON is the shape UnpackToJSON emits: the container's variant and
// testnet flag, its anchor outpoint, the reconstructed identity and the
// per-level path details. It is not the adapter package's Ingredients
// shape: there is no reconstruction_ingredients object, meta.variant is a
// number rather than a string, and the output cannot be fed back into
// adapter.VerifyJSON.
type unpackedJSON struct {
	Meta struct {
		Variant byte `json:"variant"`
		Testnet bool `json:"testnet"`
	} `json:"meta"`
	Anchor struct {
		Txid string `json:"txid"`
		Vout uint32 `json:"vout"`
	} `json:"anchor"`
	Identity string       `json:"identity"`
	Path     []PathDetail `json:"path,omitempty"`
}

// UnpackToJSON decodes raw V-PACK bytes, reconstructs the identity, and
// renders both as JSON, spec §6 "unpack_to_json".
func UnpackToJSON(raw []byte) ([]byte, error) {
	c, err := DecodeContainer(raw)
	if err != nil {
		return nil, err
	}
	id, path, err := ComputeID(c)
	if err != nil {
		return nil, err
	}

	var out unpackedJSON
	out.Meta.Variant = c.Header.TxVariant
	out.Meta.Testnet = c.Header.IsTestnet()
	out.Anchor.Txid = displayHex(c.Anchor().Hash)
	out.Anchor.Vout = c.Anchor().Vout
	out.Identity = id.String()
	out.Path = path

	return json.Marshal(out)
}
