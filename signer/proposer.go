package signer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
)

// proposer generates this peer's own consensus proposals: a nonce
// commitment when a request first becomes pending, and a signature share
// once a session has a canonical commitment set. Grounded on the teacher's
// root member.go, whose MemberState.RespondC/RespondS answered a
// coordinator's request for exactly these two things; here there is no
// coordinator polling this peer, so proposing happens proactively instead
// of in response to a request (spec C4).
type proposer struct {
	cfg       CommitteeConfig
	signer    *frost.Signer
	broadcast consensus.Broadcaster
}

func newProposer(cfg CommitteeConfig, fs *frost.Signer, broadcast consensus.Broadcaster) *proposer {
	return &proposer{cfg: cfg, signer: fs, broadcast: broadcast}
}

// generateNonce runs FROST round one, returning both the secret nonce the
// caller must hold onto for round two and its public commitment. Split
// out from broadcastNonce so the caller can persist the secret half (spec
// §6 PendingRequest) before it is ever handed to Propose.
func (p *proposer) generateNonce() (*frost.Nonce, *frost.NonceCommitment, error) {
	nonce, commitment, err := p.signer.Round1()
	if err != nil {
		return nil, nil, fmt.Errorf("generating nonce commitment: %w", err)
	}
	return nonce, commitment, nil
}

// broadcastNonce publishes a previously generated commitment for fp.
func (p *proposer) broadcastNonce(ctx context.Context, fp Fingerprint, commitment *frost.NonceCommitment) error {
	item := consensus.Item{
		Kind:  consensus.ItemNonce,
		Nonce: ptr(encodeNonceProposal(fp, commitment)),
	}
	if err := p.broadcast.Propose(ctx, item); err != nil {
		return fmt.Errorf("proposing nonce commitment: %w", err)
	}
	return nil
}

// proposeNonce runs FROST round one and broadcasts the resulting
// commitment in one step, for callers that do not need to persist the
// secret nonce half in between (e.g. tests driving a proposer directly).
func (p *proposer) proposeNonce(ctx context.Context, fp Fingerprint) (*frost.Nonce, error) {
	nonce, commitment, err := p.generateNonce()
	if err != nil {
		return nil, err
	}
	if err := p.broadcastNonce(ctx, fp, commitment); err != nil {
		return nil, err
	}
	return nonce, nil
}

// computeShare runs FROST round two over session, without broadcasting it.
func (p *proposer) computeShare(fp Fingerprint, nonce *frost.Nonce, session []*frost.NonceCommitment) (*big.Int, error) {
	share, err := p.signer.Round2(fp.Bytes(), nonce, session)
	if err != nil {
		return nil, fmt.Errorf("computing signature share: %w", err)
	}
	return share, nil
}

// broadcastShare publishes a previously computed signature share for fp.
func (p *proposer) broadcastShare(ctx context.Context, fp Fingerprint, share *big.Int) error {
	item := consensus.Item{
		Kind:  consensus.ItemShare,
		Share: ptr(encodeShareProposal(fp, share)),
	}
	if err := p.broadcast.Propose(ctx, item); err != nil {
		return fmt.Errorf("proposing signature share: %w", err)
	}
	return nil
}

// proposeShare runs FROST round two over session and broadcasts the
// resulting signature share in one step.
func (p *proposer) proposeShare(ctx context.Context, fp Fingerprint, nonce *frost.Nonce, session []*frost.NonceCommitment) (*big.Int, error) {
	share, err := p.computeShare(fp, nonce, session)
	if err != nil {
		return nil, err
	}
	if err := p.broadcastShare(ctx, fp, share); err != nil {
		return nil, err
	}
	return share, nil
}

func ptr[T any](v T) *T { return &v }
