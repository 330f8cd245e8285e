package frost

import (
	"fmt"
	"math/big"
)

// PolynomialCommitment is the public Pedersen commitment to a secret
// sharing polynomial: one curve point per coefficient, lowest degree
// first. Commitment[0] is that peer's contribution to the group key.
type PolynomialCommitment []*Point

// Evaluate returns the point corresponding to evaluating the committed
// polynomial at x, i.e. sum_k Commitment[k] * x^k, by Horner's method over
// curve points.
func (c PolynomialCommitment) Evaluate(x uint64) *Point {
	xScalar := new(big.Int).Mod(new(big.Int).SetUint64(x), Order())

	result := Identity()
	for i := len(c) - 1; i >= 0; i-- {
		result = Mul(result, xScalar)
		result = Add(result, c[i])
	}
	return result
}

// VerifyShareAgainstCommitment checks that share is the evaluation at x of
// the polynomial committed to by commitment: share*G == commitment(x).
// Every DKG participant runs this against every other participant's
// contribution (spec §4.2 step 7); a mismatch means that peer's DKG
// contribution is invalid and the round fails for the committee.
func VerifyShareAgainstCommitment(commitment PolynomialCommitment, x uint64, share *big.Int) error {
	expected := commitment.Evaluate(x)
	actual := BaseMul(share)
	if actual.X.Cmp(expected.X) != 0 || actual.Y.Cmp(expected.Y) != 0 {
		return fmt.Errorf("share does not evaluate to the committed polynomial at x=%d", x)
	}
	return nil
}

// CombineGroupKey sums every participant's constant-term commitment into
// the committee's raw public key. The result may have an odd Y coordinate;
// NormalizeGroupKey must run before the key is used anywhere BIP-340
// x-only encoding applies.
func CombineGroupKey(commitments map[uint64]PolynomialCommitment) *Point {
	sum := Identity()
	for _, c := range commitments {
		sum = Add(sum, c[0])
	}
	return sum
}

// CombineVerificationShare computes the public verification share for peer
// x: the point any other peer can compute without secret material, kept in
// signer.KeyMaterial.VerificationShares and used by Coordinator.VerifyShare.
func CombineVerificationShare(commitments map[uint64]PolynomialCommitment, x uint64) *Point {
	sum := Identity()
	for _, c := range commitments {
		sum = Add(sum, c.Evaluate(x))
	}
	return sum
}

// CombineSecretShare sums the per-peer secret share contributions a
// participant received during DKG, producing its final FROST secret key
// share.
func CombineSecretShare(receivedShares map[uint64]*big.Int) *big.Int {
	order := Order()
	sum := big.NewInt(0)
	for _, s := range receivedShares {
		sum.Add(sum, s)
		sum.Mod(sum, order)
	}
	return sum
}

// NormalizeGroupKey enforces BIP-340's even-Y convention on a raw combined
// group key. It returns the usable (possibly negated) key together with
// the sign correction that must be applied, via ApplyKeySign and
// ApplyKeySignPoint, to every participant's secret share and every
// published verification share so the whole keyset stays internally
// consistent (spec §4.2 step 8, §8 P2).
func NormalizeGroupKey(groupKey *Point) (key *Point, sign *big.Int) {
	if HasEvenY(groupKey) {
		return groupKey, big.NewInt(1)
	}
	return Negate(groupKey), new(big.Int).Sub(Order(), big.NewInt(1))
}

// ApplyKeySign applies a NormalizeGroupKey sign correction to a secret
// scalar share.
func ApplyKeySign(share *big.Int, sign *big.Int) *big.Int {
	s := new(big.Int).Mul(share, sign)
	return s.Mod(s, Order())
}

// ApplyKeySignPoint applies a NormalizeGroupKey sign correction to a
// public verification share point.
func ApplyKeySignPoint(p *Point, sign *big.Int) *Point {
	return Mul(p, sign)
}
