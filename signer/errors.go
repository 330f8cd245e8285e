// Error taxonomy (spec §7): sentinel values and small wrapping types, not
// a bespoke error framework, following the teacher's own plain-error-value
// style (frost/participant.go's errors.Join usage).
package signer

import (
	"errors"
	"fmt"
)

// ErrBusySigner is returned by Sign when a PendingRequest or
// InFlightSignature already occupies this signer's single slot (spec §5:
// no more than one in flight at a time per signer process).
var ErrBusySigner = errors.New("signer: a signing request is already pending or in flight")

// ErrUnauthorized is returned by Sign when the caller's credential fails
// the Authenticator check (spec §4.3).
var ErrUnauthorized = errors.New("signer: caller is not authorized to request a signature")

// ErrAlreadyBootstrapped is returned by Bootstrap when the store it was
// given already has a KeyMaterial row: KeyMaterial is write-once for a
// committee's lifetime (spec I3, property P6), so a second Bootstrap
// against the same store is rejected instead of silently overwriting it.
// A resumed process should call OpenCore instead.
var ErrAlreadyBootstrapped = errors.New("signer: store already has key material persisted; use OpenCore to resume")

// ErrDuplicateNonce reports that peer has already submitted a
// NonceProposal for fingerprint; the second submission is dropped, not
// merged (spec C5 edge case).
type ErrDuplicateNonce struct {
	Peer        PeerID
	Fingerprint Fingerprint
}

func (e *ErrDuplicateNonce) Error() string {
	return fmt.Sprintf("signer: peer %d already submitted a nonce for %s", e.Peer, e.Fingerprint)
}

// ErrDuplicateShare is the Round 2 analogue of ErrDuplicateNonce.
type ErrDuplicateShare struct {
	Peer        PeerID
	Fingerprint Fingerprint
}

func (e *ErrDuplicateShare) Error() string {
	return fmt.Sprintf("signer: peer %d already submitted a share for %s", e.Peer, e.Fingerprint)
}

// ErrInvalidShare reports that peer's signature share failed verification
// against its own public verification share (spec §7; a strong signal of
// Byzantine behavior, logged rather than treated as fatal).
type ErrInvalidShare struct {
	Peer   PeerID
	Reason string
}

func (e *ErrInvalidShare) Error() string {
	return fmt.Sprintf("signer: signature share from peer %d is invalid: %s", e.Peer, e.Reason)
}

// ErrAggregationMismatch reports that aggregation over a full set of
// individually-verified shares nonetheless produced a signature that
// fails BIP-340 verification -- per spec §4.7 this means a cryptographic
// library or session-construction bug, not ordinary Byzantine behavior.
type ErrAggregationMismatch struct {
	Fingerprint Fingerprint
}

func (e *ErrAggregationMismatch) Error() string {
	return fmt.Sprintf("signer: aggregated signature for %s failed verification despite every share verifying individually", e.Fingerprint)
}

// ErrPublishFailed wraps a relay.Publisher failure. Per spec §7 this is
// logged and non-fatal; the signature itself is already final once
// aggregation succeeds.
type ErrPublishFailed struct {
	Cause error
}

func (e *ErrPublishFailed) Error() string {
	return fmt.Sprintf("signer: publishing the signed artifact failed: %v", e.Cause)
}

func (e *ErrPublishFailed) Unwrap() error { return e.Cause }
