package adapter

import "golang.org/x/crypto/sha3"

// RGBAssetID computes the commitment-style asset identifier used for
// AssetTypeRGB containers: SHA3-256 over the genesis contract bytes. This
// reuses the teacher's sha3 backend (its crypto/devstd.go CryptoProvider),
// repurposed here for RGB asset commitments rather than block/tx hashing.
func RGBAssetID(genesisContract []byte) [32]byte {
	return sha3.Sum256(genesisContract)
}
