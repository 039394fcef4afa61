package vpack

import (
	"encoding/binary"
	"encoding/hex"
)

// BIP-431/TRUC version 3 is the only transaction version V-PACK
// reconstructs, spec §4.4.
const txVersion3 = 3

// txOutput is an internal (Bitcoin-order) output used while building the
// non-witness preimage for hashing.
type txOutput struct {
	value  uint64
	script []byte
}

// buildV3Preimage serializes a single-input, N-output version-3 transaction
// in Bitcoin's non-witness wire form: version, input count (1), one input
// referencing prevOut with an empty scriptSig, output count, outputs in
// order, locktime 0. This is the preimage whose double-SHA256 is the
// reconstructed txid (spec §4.4 "Preimage construction").
func buildV3Preimage(prevOut OutPoint, sequence uint32, outputs []txOutput) []byte {
	var buf []byte

	var ver [4]byte
	binary.LittleEndian.PutUint32(ver[:], txVersion3)
	buf = append(buf, ver[:]...)

	buf = append(buf, CompactSize(1).Encode()...)
	buf = append(buf, prevOut.Hash[:]...)
	buf = appendU32LE(buf, prevOut.Vout)
	buf = append(buf, CompactSize(0).Encode()...) // empty scriptSig
	buf = appendU32LE(buf, sequence)

	buf = append(buf, CompactSize(uint64(len(outputs))).Encode()...)
	for _, o := range outputs {
		buf = appendU64LE(buf, o.value)
		buf = appendLenPrefixed(buf, o.script)
	}

	buf = appendU32LE(buf, 0) // locktime

	return buf
}

// computeTxid returns the reconstructed txid (internal byte order) for a
// single-input, N-output V3 transaction, spec §4.4.
func computeTxid(prevOut OutPoint, sequence uint32, outputs []txOutput) [32]byte {
	return doubleSHA256(buildV3Preimage(prevOut, sequence, outputs))
}

// estimateExitWeightVB estimates the vbytes of the equivalent broadcastable
// transaction for PathDetail.ExitWeightVB: base-size weight (non-witness
// bytes times 4) plus a witness contribution (a 64-byte Schnorr signature
// stack item when the level carries one, else an empty witness), divided by
// 4 per BIP-141's weight-to-vsize conversion. This is an estimate — the
// actual broadcast transaction's exact witness encoding is the issuer's,
// not something a proof alone determines.
func estimateExitWeightVB(prevOut OutPoint, sequence uint32, outputs []txOutput, hasSignature bool) uint32 {
	base := len(buildV3Preimage(prevOut, sequence, outputs))
	witness := 2 // segwit marker + flag
	if hasSignature {
		witness += 1 + 64 // witness stack count + one 64-byte signature
	} else {
		witness += 1 // empty witness stack count
	}
	weight := base*4 + witness
	return uint32((weight + 3) / 4)
}

// signedTxHex builds the BIP-141 witness-carrying serialization of the same
// transaction (marker 0x00, flag 0x01, per-input witness stack) and renders
// it as hex, for the "signed_tx_hex" export named in
// SPEC_FULL.md "Supplemented Features". When sig is nil the single input's
// witness stack is empty, matching an unsigned reconstruction.
func signedTxHex(prevOut OutPoint, sequence uint32, outputs []txOutput, sig *[64]byte) string {
	var buf []byte

	var ver [4]byte
	binary.LittleEndian.PutUint32(ver[:], txVersion3)
	buf = append(buf, ver[:]...)

	buf = append(buf, 0x00, 0x01) // segwit marker + flag

	buf = append(buf, CompactSize(1).Encode()...)
	buf = append(buf, prevOut.Hash[:]...)
	buf = appendU32LE(buf, prevOut.Vout)
	buf = append(buf, CompactSize(0).Encode()...)
	buf = appendU32LE(buf, sequence)

	buf = append(buf, CompactSize(uint64(len(outputs))).Encode()...)
	for _, o := range outputs {
		buf = appendU64LE(buf, o.value)
		buf = appendLenPrefixed(buf, o.script)
	}

	if sig == nil {
		buf = append(buf, CompactSize(0).Encode()...)
	} else {
		buf = append(buf, CompactSize(1).Encode()...)
		buf = appendLenPrefixed(buf, sig[:])
	}

	buf = appendU32LE(buf, 0)

	return hex.EncodeToString(buf)
}
