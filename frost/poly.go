package frost

import (
	"crypto/rand"
	"math/big"
)

// GeneratePolynomial samples a random scalar polynomial of degree
// threshold-1 whose constant term is secret, the shape Pedersen/Shamir
// secret sharing needs to split secret into a t-of-n sharing (spec §4.2
// step 2).
func GeneratePolynomial(secret *big.Int, threshold int) ([]*big.Int, error) {
	coefficients := make([]*big.Int, threshold)
	coefficients[0] = new(big.Int).Mod(secret, Order())
	for i := 1; i < threshold; i++ {
		c, err := rand.Int(rand.Reader, Order())
		if err != nil {
			return nil, err
		}
		coefficients[i] = c
	}
	return coefficients, nil
}

// EvaluatePolynomial evaluates a scalar polynomial at x modulo the curve
// order, using Horner's method.
func EvaluatePolynomial(coefficients []*big.Int, x uint64) *big.Int {
	order := Order()
	xScalar := new(big.Int).Mod(new(big.Int).SetUint64(x), order)

	result := big.NewInt(0)
	for i := len(coefficients) - 1; i >= 0; i-- {
		result.Mul(result, xScalar)
		result.Add(result, coefficients[i])
		result.Mod(result, order)
	}
	return result
}

// CommitPolynomial derives the public Pedersen commitment to a scalar
// polynomial: one curve point per coefficient, lowest degree first.
func CommitPolynomial(coefficients []*big.Int) PolynomialCommitment {
	commitment := make(PolynomialCommitment, len(coefficients))
	for i, c := range coefficients {
		commitment[i] = BaseMul(c)
	}
	return commitment
}
