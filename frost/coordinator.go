package frost

import (
	"errors"
	"fmt"
	"math/big"
)

// Coordinator combines signature shares into a single BIP-340 signature and
// verifies individual shares and the final aggregate (spec C7).
type Coordinator struct {
	Participant
}

// NewCoordinator constructs a Coordinator over an already even-Y-normalized
// group key.
func NewCoordinator(cs Ciphersuite, groupKey *Point) *Coordinator {
	return &Coordinator{Participant{cs, groupKey}}
}

// VerifyShare checks a single signer's signature share against that
// signer's public verification share, without needing any other signer's
// secret material. This is the per-share check spec C5 performs before
// accepting a ShareProposal into the in-flight signature.
func (c *Coordinator) VerifyShare(
	message []byte,
	commitments []*NonceCommitment,
	peerScalar uint64,
	share *big.Int,
	verificationShare *Point,
) error {
	participants, err := c.validateCommitments(commitments, peerScalar, true)
	if err != nil {
		return fmt.Errorf("invalid commitment set: %w", err)
	}

	var mine *NonceCommitment
	for _, cm := range commitments {
		if cm.PeerScalar == peerScalar {
			mine = cm
			break
		}
	}

	factors := c.computeBindingFactors(message, commitments)
	groupCommitment := c.computeGroupCommitment(commitments, factors)
	lambda := deriveInterpolatingValue(peerScalar, participants)
	challenge := c.computeChallenge(message, effectiveGroupCommitment(groupCommitment))
	sign := groupCommitmentSign(groupCommitment)

	lhs := BaseMul(share)

	bound := Mul(mine.Binding, factors[peerScalar])
	commitSum := Mul(Add(mine.Hiding, bound), sign)
	expected := Add(commitSum, Mul(verificationShare, new(big.Int).Mul(lambda, challenge)))

	if lhs.X.Cmp(expected.X) != 0 || lhs.Y.Cmp(expected.Y) != 0 {
		return fmt.Errorf("signature share from signer [%d] does not match its verification share", peerScalar)
	}
	return nil
}

// Aggregate combines signature shares, already individually verified via
// VerifyShare, into the final signature. Aggregate alone does not prove the
// result is a valid BIP-340 signature; callers must still run
// VerifySignature before treating the result as final (spec C7 step 3).
func (c *Coordinator) Aggregate(message []byte, commitments []*NonceCommitment, shares []*big.Int) (*Signature, error) {
	if len(commitments) == 0 {
		return nil, errors.New("no commitments to aggregate over")
	}
	if len(shares) != len(commitments) {
		return nil, fmt.Errorf("expected %d signature shares, got %d", len(commitments), len(shares))
	}
	if _, err := c.validateCommitments(commitments, 0, false); err != nil {
		return nil, fmt.Errorf("invalid commitment set: %w", err)
	}

	factors := c.computeBindingFactors(message, commitments)
	groupCommitment := c.computeGroupCommitment(commitments, factors)

	z := big.NewInt(0)
	for _, share := range shares {
		z.Add(z, share)
		z.Mod(z, Order())
	}

	return &Signature{R: effectiveGroupCommitment(groupCommitment), Z: z}, nil
}
