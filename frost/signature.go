package frost

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Signature is a BIP-340-compatible Schnorr signature: an x-only nonce
// commitment R paired with the response scalar Z.
type Signature struct {
	R *Point
	Z *big.Int
}

// Bytes encodes the signature in the standard 64-byte BIP-340 wire format:
// the x-only encoding of R followed by the 32-byte big-endian Z.
func (s *Signature) Bytes() [64]byte {
	var out [64]byte
	rx := EncodeXOnly(s.R)
	copy(out[:32], rx[:])
	s.Z.FillBytes(out[32:])
	return out
}

// VerifySignature checks sig against an x-only group public key and a
// 32-byte message digest using the standard BIP-340 verification
// algorithm, via the same library real Bitcoin software uses rather than
// a hand-rolled lift_x/verify (spec C7 step 3).
func VerifySignature(sig *Signature, groupKey *Point, digest []byte) error {
	xOnly := EncodeXOnly(groupKey)
	pubKey, err := schnorr.ParsePubKey(xOnly[:])
	if err != nil {
		return fmt.Errorf("invalid group public key: %w", err)
	}

	sigBytes := sig.Bytes()
	parsed, err := schnorr.ParseSignature(sigBytes[:])
	if err != nil {
		return fmt.Errorf("malformed signature encoding: %w", err)
	}

	if !parsed.Verify(digest, pubKey) {
		return fmt.Errorf("aggregated signature does not verify against the committee's group key")
	}
	return nil
}
