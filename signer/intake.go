package signer

import (
	"context"
	"fmt"

	"github.com/resolvr-net/frostsigner/store"
)

// Sign accepts a request to produce a threshold signature over msg,
// authenticates the caller, and -- if this signer's single slot is free --
// records it as pending and proposes this peer's nonce commitment (spec
// C3/C4). It returns the request's Fingerprint, which callers use to poll
// ListPending. The finished signature is handed to the relay.Publisher; it
// is not kept in the store.
func (c *Core) Sign(ctx context.Context, credential []byte, msg UnsignedMessage) (Fingerprint, error) {
	if err := c.auth.Authenticate(ctx, credential); err != nil {
		return Fingerprint{}, ErrUnauthorized
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil || c.inFlight != nil {
		return Fingerprint{}, ErrBusySigner
	}

	fp := ComputeFingerprint(msg)
	nonce, commitment, err := c.proposer.generateNonce()
	if err != nil {
		return Fingerprint{}, err
	}

	pending := &PendingRequest{
		Fingerprint: fp,
		Message:     msg,
		Nonce:       nonce,
	}
	if err := c.store.Update(func(tx store.Tx) error {
		return c.persistPending(tx, pending)
	}); err != nil {
		return Fingerprint{}, fmt.Errorf("persisting pending request: %w", err)
	}

	if err := c.proposer.broadcastNonce(ctx, fp, commitment); err != nil {
		// The secret nonce half never left this process, so there is
		// nothing unsafe about retrying from scratch; undo the tentative
		// persisted row so the slot is free again.
		if clearErr := c.store.Update(func(tx store.Tx) error { return c.clearPending(tx) }); clearErr != nil {
			c.log.Error("msg", "signer: failed to roll back pending request after broadcast failure", "err", clearErr)
		}
		return Fingerprint{}, err
	}

	c.pending = pending
	c.log.Info("msg", "signer: accepted signing request", "fingerprint", fp)
	return fp, nil
}
