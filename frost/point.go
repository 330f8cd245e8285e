// Package frost implements the cryptographic core of the [FROST] signing
// protocol specialized for the [BIP340] ciphersuite (secp256k1 with
// BIP-340-compatible tagged hashing and x-only public keys), plus the
// Pedersen-style distributed key generation finalizer this module's signer
// needs during committee bootstrap.
//
// [FROST]
//
//	Connolly, D., Komlo, C., Goldberg, I., and C. A. Wood, "Two-Round
//	Threshold Schnorr Signatures with FROST", Internet-Draft,
//	draft-irtf-cfrg-frost-15.
//
// [BIP340]
//
//	Wuille, P., Nick, J., and Ruffing, T., "Schnorr Signatures for secp256k1",
//	<https://github.com/bitcoin/bips/blob/master/bip-0340.mediawiki>.
package frost

import (
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// curve is the secp256k1 curve instance shared by every Point operation in
// this package.
var curve = btcec.S256()

// Point represents a point on the secp256k1 curve.
type Point struct {
	X *big.Int
	Y *big.Int
}

// String renders the point for debugging and error messages.
func (p *Point) String() string {
	if p == nil {
		return "Point[nil]"
	}
	return fmt.Sprintf("Point[X=0x%x, Y=0x%x]", p.X, p.Y)
}

// Order returns the order of the secp256k1 base point's subgroup.
func Order() *big.Int {
	return new(big.Int).Set(curve.N)
}

// Identity returns the elliptic curve identity element. secp256k1's identity
// (point at infinity) has no affine coordinates; (0, 0) is used as a
// conventional stand-in because it never lies on the curve.
func Identity() *Point {
	return &Point{big.NewInt(0), big.NewInt(0)}
}

// IsIdentity reports whether p is the conventional identity representation.
func IsIdentity(p *Point) bool {
	return p.X.Sign() == 0 && p.Y.Sign() == 0
}

// BaseMul returns k*G, where G is the secp256k1 base point.
func BaseMul(k *big.Int) *Point {
	kMod := new(big.Int).Mod(k, curve.N)
	x, y := curve.ScalarBaseMult(kMod.Bytes())
	return &Point{x, y}
}

// Mul returns k*P.
func Mul(p *Point, k *big.Int) *Point {
	if IsIdentity(p) {
		return Identity()
	}
	kMod := new(big.Int).Mod(k, curve.N)
	x, y := curve.ScalarMult(p.X, p.Y, kMod.Bytes())
	return &Point{x, y}
}

// Add returns a + b.
func Add(a, b *Point) *Point {
	if IsIdentity(a) {
		return &Point{new(big.Int).Set(b.X), new(big.Int).Set(b.Y)}
	}
	if IsIdentity(b) {
		return &Point{new(big.Int).Set(a.X), new(big.Int).Set(a.Y)}
	}
	x, y := curve.Add(a.X, a.Y, b.X, b.Y)
	return &Point{x, y}
}

// Negate returns -p.
func Negate(p *Point) *Point {
	if IsIdentity(p) {
		return Identity()
	}
	return &Point{new(big.Int).Set(p.X), new(big.Int).Sub(curve.P, p.Y)}
}

// Sub returns a - b.
func Sub(a, b *Point) *Point {
	return Add(a, Negate(b))
}

// IsOnCurve reports whether p is a valid non-identity point lying on the
// secp256k1 curve.
func IsOnCurve(p *Point) bool {
	if p == nil || IsIdentity(p) {
		return false
	}
	return curve.IsOnCurve(p.X, p.Y)
}

// HasEvenY reports whether p's Y coordinate is even, as required by BIP-340
// for x-only public keys.
func HasEvenY(p *Point) bool {
	return p.Y.Bit(0) == 0
}

// SerializedPointLength is the length, in bytes, of an uncompressed
// (0x04 || X || Y) point serialization.
const SerializedPointLength = 65

// Serialize encodes p as an uncompressed SEC1 point.
func Serialize(p *Point) []byte {
	return elliptic.Marshal(curve, p.X, p.Y)
}

// Deserialize decodes an uncompressed SEC1 point. It returns nil if the
// encoding is malformed or the point does not lie on the curve.
func Deserialize(b []byte) *Point {
	x, y := elliptic.Unmarshal(curve, b)
	if x == nil {
		return nil
	}
	p := &Point{x, y}
	if !IsOnCurve(p) {
		return nil
	}
	return p
}

// EncodeXOnly returns the 32-byte x-only encoding of p's X coordinate, as
// used by BIP-340 for public keys and nonce commitments.
func EncodeXOnly(p *Point) [32]byte {
	var out [32]byte
	new(big.Int).Mod(p.X, curve.P).FillBytes(out[:])
	return out
}

// LiftX implements BIP-340's lift_x: given the x-only encoding of a point,
// it returns the unique point with that X coordinate and an even Y, or nil
// if x does not correspond to any point on the curve.
func LiftX(x [32]byte) *Point {
	xBig := new(big.Int).SetBytes(x[:])
	if xBig.Cmp(curve.P) >= 0 {
		return nil
	}

	ySq := new(big.Int).Exp(xBig, big.NewInt(3), curve.P)
	ySq.Add(ySq, big.NewInt(7))
	ySq.Mod(ySq, curve.P)

	// secp256k1's prime is 3 mod 4, so modular square roots are a single
	// exponentiation: sqrt(a) = a^((p+1)/4) mod p.
	exp := new(big.Int).Add(curve.P, big.NewInt(1))
	exp.Rsh(exp, 2)
	y := new(big.Int).Exp(ySq, exp, curve.P)

	check := new(big.Int).Exp(y, big.NewInt(2), curve.P)
	if check.Cmp(ySq) != 0 {
		return nil
	}
	if y.Bit(0) != 0 {
		y.Sub(curve.P, y)
	}
	return &Point{X: xBig, Y: y}
}

// NormalizeScalarPoint returns k (or, if needed, its negation mod the
// curve order) together with k*G, chosen so the returned point always has
// an even Y coordinate. Every value this module sends over the wire as an
// x-only encoding -- nonce commitments, the group key -- is produced this
// way so that x-only encode/decode round-trips without a lost sign bit.
func NormalizeScalarPoint(k *big.Int) (*big.Int, *Point) {
	kMod := new(big.Int).Mod(k, Order())
	p := BaseMul(kMod)
	if HasEvenY(p) {
		return kMod, p
	}
	return new(big.Int).Sub(Order(), kMod), Negate(p)
}
