package crypto

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// BTCECProvider implements Provider using btcec's BIP-340 Schnorr support,
// the same library lightninglabs-taproot-assets uses for Taproot asset
// witness verification.
type BTCECProvider struct{}

// VerifySchnorr reports whether sig is a valid BIP-340 signature over msg
// for the 32-byte x-only pubkey.
func (BTCECProvider) VerifySchnorr(pubkey, sig, msg []byte) (bool, error) {
	if len(pubkey) != 32 {
		return false, fmt.Errorf("crypto: x-only pubkey must be 32 bytes, got %d", len(pubkey))
	}
	if len(sig) != 64 {
		return false, fmt.Errorf("crypto: schnorr signature must be 64 bytes, got %d", len(sig))
	}
	pk, err := schnorr.ParsePubKey(pubkey)
	if err != nil {
		return false, fmt.Errorf("crypto: parse pubkey: %w", err)
	}
	parsed, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, fmt.Errorf("crypto: parse signature: %w", err)
	}
	return parsed.Verify(msg, pk), nil
}

var _ Provider = BTCECProvider{}
