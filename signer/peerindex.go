// Package signer implements the per-message signing state machine and
// top-level wiring of this federated threshold Schnorr signer: request
// intake (C3), proposal generation (C4), consensus item processing (C5),
// signing session construction (C6), and aggregation/publication (C7).
// Distributed key generation (C2) lives in the dkg package; the
// cryptographic core both build on lives in frost.
package signer

import (
	"fmt"

	"github.com/resolvr-net/frostsigner/consensus"
)

// PeerID re-exports consensus.PeerID, the identifier every collaborator
// this package talks to already uses.
type PeerID = consensus.PeerID

// CommitteeConfig is the immutable description of one signing committee:
// its size, threshold, this process's own identity, and the canonical,
// ordered peer list every scalar mapping is derived from (spec I1-I2).
type CommitteeConfig struct {
	Size      int
	Threshold int
	Self      PeerID
	Peers     []PeerID
}

// Scalar maps a committee member to its nonzero FROST scalar:
// ordinal(peer) + 1, where ordinal is the peer's position in Peers (spec
// C1, "Unchanged rule: scalar(peer) = ordinal(peer) + 1").
func (c CommitteeConfig) Scalar(peer PeerID) (uint64, error) {
	for i, p := range c.Peers {
		if p == peer {
			return uint64(i) + 1, nil
		}
	}
	return 0, fmt.Errorf("peer %d is not a member of this committee", peer)
}

// SelfScalar is a convenience wrapper around Scalar(c.Self); it panics if
// Self is not actually a member of Peers, which would mean the
// CommitteeConfig was constructed incorrectly.
func (c CommitteeConfig) SelfScalar() uint64 {
	s, err := c.Scalar(c.Self)
	if err != nil {
		panic(fmt.Sprintf("signer: %v", err))
	}
	return s
}

// PeerByScalar reverses Scalar: given a FROST peer scalar, returns the
// PeerID at that position.
func (c CommitteeConfig) PeerByScalar(scalar uint64) (PeerID, error) {
	if scalar == 0 || int(scalar) > len(c.Peers) {
		return 0, fmt.Errorf("scalar %d is out of range for a committee of size %d", scalar, len(c.Peers))
	}
	return c.Peers[scalar-1], nil
}
