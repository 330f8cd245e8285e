package frost

import "math/big"

// Hashing groups the five domain-separated hash functions [FROST] requires
// (H1 through H5). Their exact tagging is ciphersuite-specific.
type Hashing interface {
	H1(m []byte) *big.Int
	H2(m []byte, extra ...[]byte) *big.Int
	H3(m []byte, extra ...[]byte) *big.Int
	H4(m []byte) []byte
	H5(m []byte) []byte
}

// Ciphersuite abstracts the group and hash functions FROST runs over. This
// module ships only the BIP-340/secp256k1 ciphersuite (Bip340Ciphersuite),
// but keeping the abstraction apart from the Participant/Signer/Coordinator
// protocol logic documents exactly where a different curve would plug in.
type Ciphersuite interface {
	Hashing
	// EncodePoint returns the canonical byte encoding of p used when mixing
	// a point into a hash input (challenge computation, binding factors).
	EncodePoint(p *Point) []byte
}
