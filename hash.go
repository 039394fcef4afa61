package vpack

import (
	"encoding/hex"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// doubleSHA256 computes SHA-256(SHA-256(b)) in internal (wire) byte order,
// per spec §4.1. chainhash.DoubleHashH is the same Bitcoin-domain helper
// lightninglabs-taproot-assets uses for txid/block-hash computation, wired
// in here in place of a hand-rolled crypto/sha256 pair.
func doubleSHA256(b []byte) [32]byte {
	return [32]byte(chainhash.DoubleHashH(b))
}

// reverseBytes returns a reversed copy of b, used to convert between
// internal (wire) byte order and Bitcoin's big-endian display convention
// (spec §4.1, §6 "Canonical hex display").
func reverseBytes(b [32]byte) [32]byte {
	var out [32]byte
	for i := range b {
		out[i] = b[31-i]
	}
	return out
}

// displayHex renders a 32-byte internal-order hash in Bitcoin's
// byte-reversed display convention.
func displayHex(h [32]byte) string {
	r := reverseBytes(h)
	return hex.EncodeToString(r[:])
}

// parseDisplayHex parses a byte-reversed display-form hex string back into
// internal (wire) byte order.
func parseDisplayHex(s string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 32 {
		return out, vperr(ErrMalformedHeader, "invalid 32-byte hex string")
	}
	for i := range raw {
		out[31-i] = raw[i]
	}
	return out, nil
}
