package dkg

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"

	"github.com/resolvr-net/frostsigner/frost"
)

// PoP is a proof of possession: an ordinary single-party BIP-340 Schnorr
// signature a peer produces, with the secret constant term of its DKG
// polynomial, over the keygen transcript id -- proving it knows that
// secret without revealing it (spec §4.2 step 3, resolvr-server's
// create_shares_and_pop / pop_message).
type PoP [64]byte

// CreatePoP signs digest (the keygen transcript id) with secret. This is a
// different, simpler operation than the multi-party FROST signing the
// signer package performs after bootstrap, so it goes straight through
// btcec/v2/schnorr's single-party BIP-340 signer rather than frost.Signer.
func CreatePoP(secret *big.Int, digest []byte) (PoP, error) {
	priv, _ := btcec.PrivKeyFromBytes(padScalar(secret))
	sig, err := schnorr.Sign(priv, digest)
	if err != nil {
		return PoP{}, fmt.Errorf("signing proof of possession: %w", err)
	}
	var out PoP
	copy(out[:], sig.Serialize())
	return out, nil
}

// VerifyPoP checks a PoP against a peer's public constant-term commitment
// point and the keygen transcript id.
func VerifyPoP(constantTerm *frost.Point, digest []byte, pop PoP) error {
	xOnly := frost.EncodeXOnly(constantTerm)
	pubKey, err := schnorr.ParsePubKey(xOnly[:])
	if err != nil {
		return fmt.Errorf("invalid constant-term commitment: %w", err)
	}
	sig, err := schnorr.ParseSignature(pop[:])
	if err != nil {
		return fmt.Errorf("malformed proof of possession: %w", err)
	}
	if !sig.Verify(digest, pubKey) {
		return fmt.Errorf("proof of possession does not verify")
	}
	return nil
}

func padScalar(s *big.Int) []byte {
	var out [32]byte
	s.FillBytes(out[:])
	return out[:]
}
