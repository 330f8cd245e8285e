// Package ephemeral seals secret nonce halves before they touch the store.
// The spec's shared-resource policy requires NonceEntry's secret half
// never be persisted unencrypted (spec §5); since this core has no peer
// transport of its own to protect (the consensus substrate contract
// already assumes an authenticated channel, spec §1 Non-goals), the key
// this package uses is derived locally from the signer's own secret share
// rather than negotiated with a peer, unlike the teacher's peer-to-peer
// ECDH box.
package ephemeral

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"golang.org/x/crypto/hkdf"
)

// sealingKeyInfo domain-separates the sealing key from any other key this
// module might someday derive from the same secret share.
const sealingKeyInfo = "frostsigner/ephemeral-nonce-seal"

// DeriveSealingKey derives this peer's local nonce-sealing key from its
// FROST secret key share via HKDF-SHA256. The secret share never leaves
// the process; this key exists purely so nonce halves written to disk are
// not plaintext if the store is copied or inspected at rest.
func DeriveSealingKey(secretShare *big.Int) ([32]byte, error) {
	if secretShare == nil || secretShare.Sign() == 0 {
		return [32]byte{}, fmt.Errorf("cannot derive a sealing key from an empty secret share")
	}

	reader := hkdf.New(sha256.New, secretShare.Bytes(), nil, []byte(sealingKeyInfo))
	var key [32]byte
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return [32]byte{}, fmt.Errorf("deriving sealing key: %w", err)
	}
	return key, nil
}
