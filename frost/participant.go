package frost

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

// Nonce is the pair of secret scalars a signer samples in round one and
// must retain, unpublished, until round two (spec §3 NonceRecord).
type Nonce struct {
	Hiding  *big.Int
	Binding *big.Int
}

// NonceCommitment is the public counterpart of a Nonce, broadcast in round
// one so every participant can later compute the same group commitment.
type NonceCommitment struct {
	PeerScalar uint64
	Hiding     *Point
	Binding    *Point
}

type bindingFactors map[uint64]*big.Int

// Participant holds the state every FROST role (Signer, Coordinator) needs
// to run the list operations round two depends on: binding factor
// derivation, group commitment, Lagrange interpolation, and the challenge.
// Keeping it as embedded shared state is how the teacher's coordinator
// already avoided duplicating this logic; Signer is restructured here to
// embed it the same way instead of reimplementing it.
type Participant struct {
	Ciphersuite Ciphersuite
	GroupKey    *Point
}

// validateCommitments checks that commitments are sorted by ascending peer
// scalar with no duplicates, that every point lies on the curve, and
// (when requireSelf is set) that self appears in the list. It returns the
// ordered list of participant scalars for use in Lagrange interpolation.
func (p *Participant) validateCommitments(commitments []*NonceCommitment, self uint64, requireSelf bool) ([]uint64, error) {
	participants := make([]uint64, len(commitments))
	var errs []error
	found := false
	var last uint64

	for i, c := range commitments {
		if c == nil {
			errs = append(errs, fmt.Errorf("commitment at position [%d] is nil", i))
			continue
		}
		if i > 0 && c.PeerScalar <= last {
			errs = append(errs, fmt.Errorf(
				"commitments not sorted in strictly ascending order at position [%d]", i))
		}
		last = c.PeerScalar
		participants[i] = c.PeerScalar
		if c.PeerScalar == self {
			found = true
		}
		if !IsOnCurve(c.Hiding) {
			errs = append(errs, fmt.Errorf("hiding nonce commitment from signer [%d] is not on the curve", c.PeerScalar))
		}
		if !IsOnCurve(c.Binding) {
			errs = append(errs, fmt.Errorf("binding nonce commitment from signer [%d] is not on the curve", c.PeerScalar))
		}
	}
	if requireSelf && !found {
		errs = append(errs, errors.New("this signer's own commitment is missing from the session's commitment list"))
	}
	if len(errs) != 0 {
		return nil, errors.Join(errs...)
	}
	return participants, nil
}

func (p *Participant) encodeCommitmentList(commitments []*NonceCommitment) []byte {
	out := make([]byte, 0, len(commitments)*(8+2*SerializedPointLength))
	for _, c := range commitments {
		out = binary.BigEndian.AppendUint64(out, c.PeerScalar)
		out = append(out, Serialize(c.Hiding)...)
		out = append(out, Serialize(c.Binding)...)
	}
	return out
}

func (p *Participant) computeBindingFactors(message []byte, commitments []*NonceCommitment) bindingFactors {
	groupKeyEnc := p.Ciphersuite.EncodePoint(p.GroupKey)
	msgHash := p.Ciphersuite.H4(message)
	commitHash := p.Ciphersuite.H5(p.encodeCommitmentList(commitments))
	prefix := concat(groupKeyEnc, msgHash, commitHash)

	factors := make(bindingFactors, len(commitments))
	for _, c := range commitments {
		input := binary.BigEndian.AppendUint64(concat(prefix), c.PeerScalar)
		factors[c.PeerScalar] = p.Ciphersuite.H1(input)
	}
	return factors
}

func (p *Participant) computeGroupCommitment(commitments []*NonceCommitment, factors bindingFactors) *Point {
	r := Identity()
	for _, c := range commitments {
		bound := Mul(c.Binding, factors[c.PeerScalar])
		r = Add(r, Add(c.Hiding, bound))
	}
	return r
}

// deriveInterpolatingValue computes the Lagrange coefficient lambda_xi for
// reconstructing a secret at x=0 from the given participant set.
func deriveInterpolatingValue(xi uint64, participants []uint64) *big.Int {
	order := Order()
	num := big.NewInt(1)
	den := big.NewInt(1)
	xiScalar := int64(xi)
	for _, xj := range participants {
		if xj == xi {
			continue
		}
		num.Mul(num, big.NewInt(int64(xj)))
		num.Mod(num, order)
		den.Mul(den, big.NewInt(int64(xj)-xiScalar))
		den.Mod(den, order)
	}
	den.ModInverse(den, order)
	return num.Mul(num, den).Mod(num, order)
}

func (p *Participant) computeChallenge(message []byte, groupCommitment *Point) *big.Int {
	return p.Ciphersuite.H2(
		p.Ciphersuite.EncodePoint(groupCommitment),
		p.Ciphersuite.EncodePoint(p.GroupKey),
		message,
	)
}

// groupCommitmentSign returns +1 if r already has the even-Y coordinate
// BIP-340 requires of a usable commitment, and -1 (mod the curve order) if
// every signer must flip the sign of its nonce contribution so the
// effective commitment does. Every participant computing over the same
// commitment list derives the same r and therefore the same sign, which is
// what keeps the two-round protocol's final signature BIP-340-valid
// without a dedicated negotiation round.
func groupCommitmentSign(r *Point) *big.Int {
	if HasEvenY(r) {
		return big.NewInt(1)
	}
	return new(big.Int).Sub(Order(), big.NewInt(1))
}

// effectiveGroupCommitment returns the even-Y representative of r: the
// point that ends up encoded as R in the final signature.
func effectiveGroupCommitment(r *Point) *Point {
	if HasEvenY(r) {
		return r
	}
	return Negate(r)
}
