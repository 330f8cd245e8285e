package signer

import (
	"math/big"

	"github.com/resolvr-net/frostsigner/frost"
)

// PendingRequest is round one's single-slot holder: a signing request this
// peer has accepted and already proposed a nonce commitment for, waiting
// for the committee to assemble a canonical signing set (spec C3/C4). Its
// Nonce field is the secret half that must never be broadcast.
type PendingRequest struct {
	Fingerprint Fingerprint
	Message     UnsignedMessage
	Nonce       *frost.Nonce
}

// InFlightSignature is round two's single-slot holder: a signing session
// whose canonical nonce set has been built (spec C6) and which is
// collecting signature shares toward the committee's threshold (spec C5).
type InFlightSignature struct {
	Fingerprint Fingerprint
	Message     UnsignedMessage
	Commitments []*frost.NonceCommitment // sorted ascending by PeerScalar
	Shares      map[PeerID]*big.Int
}

// newInFlightSignature retires a PendingRequest into an InFlightSignature
// once its canonical signing session has been built.
func newInFlightSignature(pending *PendingRequest, session []*frost.NonceCommitment) *InFlightSignature {
	return &InFlightSignature{
		Fingerprint: pending.Fingerprint,
		Message:     pending.Message,
		Commitments: session,
		Shares:      make(map[PeerID]*big.Int),
	}
}
