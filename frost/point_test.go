package frost

import (
	"math/big"
	"testing"

	"github.com/resolvr-net/frostsigner/internal/testutils"
)

func TestBaseMulIdentityAtZero(t *testing.T) {
	p := BaseMul(big.NewInt(0))
	testutils.AssertEqual(t, "0*G is the identity", true, IsIdentity(p))
}

func TestAddIdentityIsNoOp(t *testing.T) {
	p := BaseMul(big.NewInt(7))
	sum := Add(p, Identity())
	testutils.AssertBigIntsEqual(t, "X after adding identity", p.X, sum.X)
	testutils.AssertBigIntsEqual(t, "Y after adding identity", p.Y, sum.Y)
}

func TestSubSelfIsIdentity(t *testing.T) {
	p := BaseMul(big.NewInt(42))
	diff := Sub(p, p)
	testutils.AssertEqual(t, "p - p is the identity", true, IsIdentity(diff))
}

func TestMulMatchesBaseMulOfProduct(t *testing.T) {
	k := big.NewInt(9)
	p := BaseMul(big.NewInt(3))
	lhs := Mul(p, k)
	rhs := BaseMul(new(big.Int).Mul(big.NewInt(3), k))
	testutils.AssertBigIntsEqual(t, "(3*G)*k X", rhs.X, lhs.X)
	testutils.AssertBigIntsEqual(t, "(3*G)*k Y", rhs.Y, lhs.Y)
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	p := BaseMul(big.NewInt(123456789))
	encoded := Serialize(p)
	decoded := Deserialize(encoded)
	if decoded == nil {
		t.Fatal("Deserialize returned nil for a valid point")
	}
	testutils.AssertBigIntsEqual(t, "round-tripped X", p.X, decoded.X)
	testutils.AssertBigIntsEqual(t, "round-tripped Y", p.Y, decoded.Y)
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	garbage := make([]byte, SerializedPointLength)
	garbage[0] = 4 // uncompressed SEC1 tag, followed by zero coordinates
	if p := Deserialize(garbage); p != nil {
		t.Fatalf("expected Deserialize to reject (0,0), got %v", p)
	}
}

func TestNormalizeScalarPointAlwaysEvenY(t *testing.T) {
	for k := int64(1); k < 40; k++ {
		scalar, point := NormalizeScalarPoint(big.NewInt(k))
		if !HasEvenY(point) {
			t.Fatalf("NormalizeScalarPoint(%d) returned an odd-Y point", k)
		}
		check := BaseMul(scalar)
		testutils.AssertBigIntsEqual(t, "normalized scalar's point X", point.X, check.X)
		testutils.AssertBigIntsEqual(t, "normalized scalar's point Y", point.Y, check.Y)
	}
}

func TestEncodeXOnlyLiftXRoundTrip(t *testing.T) {
	_, p := NormalizeScalarPoint(big.NewInt(777))
	x := EncodeXOnly(p)
	lifted := LiftX(x)
	if lifted == nil {
		t.Fatal("LiftX rejected an x-only encoding of a valid even-Y point")
	}
	testutils.AssertBigIntsEqual(t, "lifted X", p.X, lifted.X)
	testutils.AssertBigIntsEqual(t, "lifted Y", p.Y, lifted.Y)
}

func TestLiftXAlwaysReturnsEvenY(t *testing.T) {
	// Negating a normalized (even-Y) point gives the same X with odd Y;
	// lift_x must still hand back the even-Y point at that X, per BIP-340.
	_, p := NormalizeScalarPoint(big.NewInt(55))
	odd := Negate(p)
	if HasEvenY(odd) {
		t.Fatal("test fixture is broken: Negate did not flip parity")
	}
	x := EncodeXOnly(odd)
	lifted := LiftX(x)
	if lifted == nil {
		t.Fatal("LiftX returned nil for a valid x coordinate")
	}
	testutils.AssertEqual(t, "lift_x always returns even Y", true, HasEvenY(lifted))
}

func TestLiftXRejectsNonResidue(t *testing.T) {
	// x=5 on secp256k1 does not correspond to a point on the curve
	// (5^3 + 7 is not a quadratic residue mod p), so lift_x must fail.
	var x [32]byte
	x[31] = 5
	if p := LiftX(x); p != nil {
		t.Fatalf("expected LiftX to reject x=5, got %v", p)
	}
}
