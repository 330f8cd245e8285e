package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
	"github.com/resolvr-net/frostsigner/relay"
)

// finishSignatureLocked aggregates every verified share collected for the
// in-flight round, checks the result is a genuine BIP-340 signature, and
// hands it to the relay publisher (spec C7). c.mu must already be held.
func (c *Core) finishSignatureLocked(ctx context.Context) error {
	inFlight := c.inFlight

	shares := make([]*big.Int, 0, len(inFlight.Shares))
	for _, share := range inFlight.Shares {
		shares = append(shares, share)
	}

	sig, err := c.coordinator.Aggregate(inFlight.Fingerprint.Bytes(), inFlight.Commitments, shares)
	if err != nil {
		c.inFlight = nil
		return fmt.Errorf("aggregating signature shares: %w", err)
	}

	if err := frost.VerifySignature(sig, c.key.GroupKey, inFlight.Fingerprint.Bytes()); err != nil {
		c.inFlight = nil
		return &ErrAggregationMismatch{Fingerprint: inFlight.Fingerprint}
	}
	c.inFlight = nil

	artifact := relay.Artifact{
		Digest:    [32]byte(inFlight.Fingerprint),
		GroupKey:  c.key.XOnlyGroupKey,
		Signature: sig.Bytes(),
	}
	if err := c.publisher.Publish(ctx, artifact); err != nil {
		c.log.Warn("msg", "signer: publishing signed artifact failed", "fingerprint", inFlight.Fingerprint, "err", err)
		return &ErrPublishFailed{Cause: err}
	}

	c.log.Info("msg", "signer: published signed artifact", "fingerprint", inFlight.Fingerprint)
	return nil
}

// ConsensusProposal mirrors resolvr-server's ServerModule::consensus_proposal
// for API-shape parity with the runtime this module plugs into. This signer
// proposes eagerly -- Sign and retireToInFlightLocked broadcast directly,
// through the proposer's Broadcaster (broadcastNonce, broadcastShare), as
// soon as a request is accepted or a session is built -- so there is never
// anything queued for a poller to pick up; it always returns nil.
func (c *Core) ConsensusProposal(_ context.Context) []consensus.Item {
	return nil
}
