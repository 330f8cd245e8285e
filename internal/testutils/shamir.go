package testutils

import (
	"crypto/rand"
	"math/big"
)

// GenerateKeyShares builds a degree-(threshold-1) Shamir sharing of
// secretKey over order and evaluates it at x = 1..groupSize, independent of
// this module's own frost.GeneratePolynomial/EvaluatePolynomial -- useful
// for exercising share-verification and combination logic against fixtures
// the production polynomial code had no part in building.
func GenerateKeyShares(secretKey *big.Int, groupSize int, threshold int, order *big.Int) []*big.Int {
	coefficients := generatePolynomial(secretKey, threshold, order)

	shares := make([]*big.Int, groupSize)
	for i := 0; i < groupSize; i++ {
		shares[i] = evaluatePolynomial(coefficients, i+1, order)
	}
	return shares
}

func generatePolynomial(secretKey *big.Int, threshold int, order *big.Int) []*big.Int {
	coefficients := make([]*big.Int, threshold)
	coefficients[0] = secretKey
	for i := 1; i < threshold; i++ {
		random, err := rand.Int(rand.Reader, order)
		if err != nil {
			panic(err)
		}
		coefficients[i] = random
	}
	return coefficients
}

func evaluatePolynomial(coefficients []*big.Int, x int, order *big.Int) *big.Int {
	result := new(big.Int)
	bigX := big.NewInt(int64(x))
	for i, c := range coefficients {
		term := new(big.Int).Exp(bigX, big.NewInt(int64(i)), order)
		term.Mul(term, c)
		result.Add(result, term)
	}
	return result.Mod(result, order)
}
