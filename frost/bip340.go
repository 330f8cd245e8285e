package frost

import (
	"crypto/sha256"
	"math/big"
)

// contextString domain-separates this ciphersuite's hashes from any other
// FROST ciphersuite that might someday share the same curve.
const contextString = "FROST-secp256k1-BIP340-v1"

// Bip340Ciphersuite implements FROST(secp256k1, BIP-340): tagged SHA-256
// hashing constructed so that the signatures Coordinator.Aggregate produces
// verify as ordinary BIP-340 Schnorr signatures (spec §2, "BIP-340-style
// Schnorr signature").
type Bip340Ciphersuite struct{}

// NewBip340Ciphersuite constructs the sole ciphersuite this module ships.
func NewBip340Ciphersuite() *Bip340Ciphersuite {
	return &Bip340Ciphersuite{}
}

func (Bip340Ciphersuite) EncodePoint(p *Point) []byte {
	b := EncodeXOnly(p)
	return b[:]
}

// H1 is the binding-factor hash ("rho" in the FROST draft).
func (Bip340Ciphersuite) H1(m []byte) *big.Int {
	return hashToScalar([]byte(contextString+"rho"), m)
}

// H2 is the Schnorr challenge hash. Its tag is fixed to BIP-340's own
// "BIP0340/challenge" rather than this ciphersuite's context string, which
// is exactly what makes the aggregate signature a valid, ordinary BIP-340
// signature rather than merely FROST-internal.
func (Bip340Ciphersuite) H2(m []byte, extra ...[]byte) *big.Int {
	return hashToScalar([]byte("BIP0340/challenge"), concat(m, extra...))
}

// H3 is the per-signer nonce-generation hash.
func (Bip340Ciphersuite) H3(m []byte, extra ...[]byte) *big.Int {
	return hashToScalar([]byte(contextString+"nonce"), concat(m, extra...))
}

// H4 hashes the message into the binding-factor input.
func (Bip340Ciphersuite) H4(m []byte) []byte {
	h := taggedHash([]byte(contextString+"msg"), m)
	return h[:]
}

// H5 hashes the encoded commitment list into the binding-factor input.
func (Bip340Ciphersuite) H5(m []byte) []byte {
	h := taggedHash([]byte(contextString+"com"), m)
	return h[:]
}

func hashToScalar(tag, msg []byte) *big.Int {
	h := taggedHash(tag, msg)
	e := new(big.Int).SetBytes(h[:])
	return e.Mod(e, Order())
}

func taggedHash(tag, msg []byte) [32]byte {
	t := sha256.Sum256(tag)
	return sha256.Sum256(concat(t[:], t[:], msg))
}

func concat(a []byte, bs ...[]byte) []byte {
	out := make([]byte, len(a))
	copy(out, a)
	for _, b := range bs {
		out = append(out, b...)
	}
	return out
}
