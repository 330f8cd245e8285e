package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
	"github.com/resolvr-net/frostsigner/store"
)

// ProcessConsensusItem is this signer's single entry point for consensus
// deliveries (spec C5), mirroring resolvr-server's
// ServerModule::process_consensus_item. It must be called, in the
// substrate's total order, for every Delivery it emits -- including this
// peer's own proposals, which the substrate echoes back like anyone
// else's. Every store write this call makes (Nonce/Share rows and the
// PendingRequest/InFlightSignature singleton transition) commits in a
// single store.Update per item, per spec §6's "All writes within
// processing one consensus item commit atomically."
func (c *Core) ProcessConsensusItem(ctx context.Context, d consensus.Delivery) error {
	switch d.Item.Kind {
	case consensus.ItemNonce:
		return c.processNonce(ctx, d.Origin, d.Item.Nonce)
	case consensus.ItemShare:
		return c.processShare(ctx, d.Origin, d.Item.Share)
	default:
		return fmt.Errorf("signer: consensus item from peer %d has unknown kind %d", d.Origin, d.Item.Kind)
	}
}

// processNonce accumulates nonce proposals for whichever fingerprint this
// peer currently has pending. Proposals for any other fingerprint -- a
// round this peer never started locally, or one it already finished -- are
// silently dropped rather than tracked, since a signer only ever holds one
// outstanding request at a time (spec §5).
func (c *Core) processNonce(ctx context.Context, origin PeerID, p *consensus.NonceProposal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fp := Fingerprint(p.Fingerprint)
	if c.pending == nil || c.pending.Fingerprint != fp {
		return nil
	}

	if _, ok := c.nonceVotes[origin]; ok {
		c.log.Warn("msg", "signer: duplicate nonce proposal", "peer", origin, "fingerprint", fp)
		return &ErrDuplicateNonce{Peer: origin, Fingerprint: fp}
	}

	scalar, err := c.cfg.Scalar(origin)
	if err != nil {
		return fmt.Errorf("nonce proposal from non-member peer %d: %w", origin, err)
	}
	commitment, err := decodeNonceCommitment(scalar, *p)
	if err != nil {
		return fmt.Errorf("decoding nonce proposal from peer %d: %w", origin, err)
	}

	crossedThreshold := len(c.nonceOrder)+1 >= c.cfg.Threshold
	pending := c.pending

	var session []*frost.NonceCommitment
	var inFlight *InFlightSignature
	err = c.store.Update(func(tx store.Tx) error {
		key := store.NonceShareKey([32]byte(fp), uint64(origin))
		if existing, err := tx.Get(store.BucketNonce, key); err != nil {
			return err
		} else if existing != nil {
			return &ErrDuplicateNonce{Peer: origin, Fingerprint: fp}
		}
		if err := tx.Put(store.BucketNonce, key, encodeNonceRecord(commitment)); err != nil {
			return err
		}

		if crossedThreshold {
			commitments := make([]*frost.NonceCommitment, 0, len(c.nonceOrder)+1)
			for _, o := range c.nonceOrder {
				commitments = append(commitments, c.nonceVotes[o])
			}
			commitments = append(commitments, commitment)
			session = BuildSession(commitments)
			inFlight = newInFlightSignature(pending, session)

			if err := c.clearPending(tx); err != nil {
				return err
			}
			if err := c.persistInFlight(tx, inFlight); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if c.nonceVotes == nil {
		c.nonceVotes = make(map[PeerID]*frost.NonceCommitment)
	}
	c.nonceVotes[origin] = commitment
	c.nonceOrder = append(c.nonceOrder, origin)

	if !crossedThreshold {
		return nil
	}
	return c.retireToInFlightLocked(ctx, pending, session, inFlight)
}

// retireToInFlightLocked applies, in memory, the pending-to-in-flight
// transition the enclosing store.Update already committed, and -- if this
// peer's own nonce made the canonical cut -- computes and broadcasts its
// signature share. c.mu must already be held.
func (c *Core) retireToInFlightLocked(ctx context.Context, pending *PendingRequest, session []*frost.NonceCommitment, inFlight *InFlightSignature) error {
	c.inFlight = inFlight
	c.pending = nil
	c.nonceOrder = nil
	c.nonceVotes = nil

	selfScalar := c.cfg.SelfScalar()
	var participating bool
	for _, cm := range session {
		if cm.PeerScalar == selfScalar {
			participating = true
			break
		}
	}
	if !participating {
		c.log.Info("msg", "signer: sitting this round out, not part of canonical signing set", "fingerprint", pending.Fingerprint)
		return nil
	}

	share, err := c.proposer.computeShare(pending.Fingerprint, pending.Nonce, session)
	if err != nil {
		return fmt.Errorf("computing signature share: %w", err)
	}
	if err := c.proposer.broadcastShare(ctx, pending.Fingerprint, share); err != nil {
		return fmt.Errorf("proposing signature share: %w", err)
	}
	return nil
}

// processShare accumulates and individually verifies signature shares for
// whichever round is currently in flight, then aggregates once threshold
// many have arrived (spec C5, C7).
func (c *Core) processShare(ctx context.Context, origin PeerID, p *consensus.ShareProposal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fp := Fingerprint(p.Fingerprint)
	if c.inFlight == nil || c.inFlight.Fingerprint != fp {
		return nil
	}

	if _, ok := c.inFlight.Shares[origin]; ok {
		c.log.Warn("msg", "signer: duplicate signature share", "peer", origin, "fingerprint", fp)
		return &ErrDuplicateShare{Peer: origin, Fingerprint: fp}
	}

	scalar, err := c.cfg.Scalar(origin)
	if err != nil {
		return fmt.Errorf("signature share from non-member peer %d: %w", origin, err)
	}

	var inSession bool
	for _, cm := range c.inFlight.Commitments {
		if cm.PeerScalar == scalar {
			inSession = true
			break
		}
	}
	if !inSession {
		return fmt.Errorf("signature share from peer %d, who is not part of this round's signing set", origin)
	}

	verificationShare, ok := c.key.VerificationShares[origin]
	if !ok {
		return fmt.Errorf("no verification share on file for peer %d", origin)
	}

	share := decodeShare(*p)
	if err := c.coordinator.VerifyShare(c.inFlight.Fingerprint.Bytes(), c.inFlight.Commitments, scalar, share, verificationShare); err != nil {
		c.log.Warn("msg", "signer: rejecting invalid signature share", "peer", origin, "fingerprint", fp, "err", err)
		return &ErrInvalidShare{Peer: origin, Reason: err.Error()}
	}

	crossedThreshold := len(c.inFlight.Shares)+1 >= c.cfg.Threshold

	err = c.store.Update(func(tx store.Tx) error {
		key := store.NonceShareKey([32]byte(fp), uint64(origin))
		if existing, err := tx.Get(store.BucketShare, key); err != nil {
			return err
		} else if existing != nil {
			return &ErrDuplicateShare{Peer: origin, Fingerprint: fp}
		}
		if err := tx.Put(store.BucketShare, key, encodeShareRecord(share)); err != nil {
			return err
		}

		if crossedThreshold {
			return c.clearInFlight(tx)
		}

		updated := &InFlightSignature{
			Fingerprint: c.inFlight.Fingerprint,
			Message:     c.inFlight.Message,
			Commitments: c.inFlight.Commitments,
			Shares:      mergeShares(c.inFlight.Shares, origin, share),
		}
		return c.persistInFlight(tx, updated)
	})
	if err != nil {
		return err
	}

	c.inFlight.Shares[origin] = share
	if !crossedThreshold {
		return nil
	}
	return c.finishSignatureLocked(ctx)
}

func mergeShares(existing map[PeerID]*big.Int, origin PeerID, share *big.Int) map[PeerID]*big.Int {
	out := make(map[PeerID]*big.Int, len(existing)+1)
	for k, v := range existing {
		out[k] = v
	}
	out[origin] = share
	return out
}
