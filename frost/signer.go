package frost

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Signer is a single committee member executing the two FROST signing
// rounds described in spec §4.6/§4.7.
type Signer struct {
	Participant
	PeerScalar     uint64
	SecretKeyShare *big.Int
}

// NewSigner constructs a Signer. groupKey and secretShare must already be
// the even-Y-normalized values a DKG run produced (frost.NormalizeGroupKey,
// frost.ApplyKeySign); Signer applies no further correction to them.
func NewSigner(cs Ciphersuite, groupKey *Point, peerScalar uint64, secretShare *big.Int) *Signer {
	return &Signer{Participant{cs, groupKey}, peerScalar, secretShare}
}

// Round1 samples this signer's nonce pair and returns both the nonce
// (which the caller must keep secret and pass back into Round2) and the
// public commitment to broadcast. Both nonce scalars are normalized via
// NormalizeScalarPoint so their commitments always have an even Y
// coordinate, which is what lets the wire format carry them as plain
// 32-byte x-only points (consensus.NonceProposal) instead of full,
// parity-bearing point encodings.
func (s *Signer) Round1() (*Nonce, *NonceCommitment, error) {
	rawHiding, err := s.generateNonce()
	if err != nil {
		return nil, nil, fmt.Errorf("hiding nonce generation failed: %w", err)
	}
	rawBinding, err := s.generateNonce()
	if err != nil {
		return nil, nil, fmt.Errorf("binding nonce generation failed: %w", err)
	}

	hiding, hidingPoint := NormalizeScalarPoint(rawHiding)
	binding, bindingPoint := NormalizeScalarPoint(rawBinding)

	nonce := &Nonce{Hiding: hiding, Binding: binding}
	commitment := &NonceCommitment{
		PeerScalar: s.PeerScalar,
		Hiding:     hidingPoint,
		Binding:    bindingPoint,
	}
	return nonce, commitment, nil
}

// generateNonce samples a fresh random scalar and runs it through H3 along
// with the secret key share, so that even a weak system RNG is mixed with
// secret material before it ever becomes a nonce (FROST draft §4.1).
func (s *Signer) generateNonce() (*big.Int, error) {
	rnd := make([]byte, 32)
	if _, err := rand.Read(rnd); err != nil {
		return nil, err
	}
	return s.Ciphersuite.H3(rnd, s.SecretKeyShare.Bytes()), nil
}

// Round2 computes this signer's signature share given the nonce sampled in
// Round1 and the full, deterministically ordered list of commitments that
// make up the signing session (spec §4.6 BuildSession).
func (s *Signer) Round2(message []byte, nonce *Nonce, commitments []*NonceCommitment) (*big.Int, error) {
	participants, err := s.validateCommitments(commitments, s.PeerScalar, true)
	if err != nil {
		return nil, fmt.Errorf("invalid commitment set: %w", err)
	}

	factors := s.computeBindingFactors(message, commitments)
	bindingFactor := factors[s.PeerScalar]
	groupCommitment := s.computeGroupCommitment(commitments, factors)
	lambda := deriveInterpolatingValue(s.PeerScalar, participants)
	challenge := s.computeChallenge(message, effectiveGroupCommitment(groupCommitment))
	sign := groupCommitmentSign(groupCommitment)

	nonceTerm := new(big.Int).Mul(nonce.Binding, bindingFactor)
	nonceTerm.Add(nonceTerm, nonce.Hiding)
	nonceTerm.Mul(nonceTerm, sign)

	keyTerm := new(big.Int).Mul(lambda, s.SecretKeyShare)
	keyTerm.Mul(keyTerm, challenge)

	share := new(big.Int).Add(nonceTerm, keyTerm)
	return share.Mod(share, Order()), nil
}
