package signer

import (
	"crypto/sha256"
	"fmt"
)

// UnsignedMessage is a request to sign a Nostr event: the event's
// canonical serialization is what this module actually feeds to FROST as
// the BIP-340 message (spec §2, "the digest over M's canonical bytes").
type UnsignedMessage struct {
	// Canonical is the canonical byte serialization of the Nostr event
	// whose id/signature this committee is producing. Canonicalization
	// itself (NIP-01 JSON array serialization) is the federation runtime's
	// job; this module only ever sees the resulting bytes.
	Canonical []byte
}

// Fingerprint identifies a signing request throughout this module: the
// sha256 digest of the message's canonical bytes. It doubles as the
// 32-byte digest FROST's BIP-340 ciphersuite treats as "the message" --
// computing it once and reusing it everywhere is what property P7
// (fingerprint round trip) tests.
type Fingerprint [32]byte

// ComputeFingerprint derives a Fingerprint from a message's canonical
// bytes.
func ComputeFingerprint(msg UnsignedMessage) Fingerprint {
	return Fingerprint(sha256.Sum256(msg.Canonical))
}

// Bytes returns f's 32 bytes as a slice, the form frost's Sign/Verify/
// Aggregate calls want for "message".
func (f Fingerprint) Bytes() []byte {
	return f[:]
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%x", f[:])
}
