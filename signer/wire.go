package signer

import (
	"fmt"
	"math/big"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
)

// encodeNonceProposal converts a locally-built commitment into the 64-byte
// wire form (spec §6 wire format: 64-byte nonce commitment + fingerprint).
func encodeNonceProposal(fp Fingerprint, c *frost.NonceCommitment) consensus.NonceProposal {
	return consensus.NonceProposal{
		Fingerprint: consensus.Fingerprint(fp),
		Hiding:      frost.EncodeXOnly(c.Hiding),
		Binding:     frost.EncodeXOnly(c.Binding),
	}
}

// decodeNonceCommitment reconstructs a frost.NonceCommitment from a peer's
// wire proposal. Both halves were normalized to even-Y at the source
// (frost.Signer.Round1 via NormalizeScalarPoint), so lift_x recovers the
// exact point that was committed to.
func decodeNonceCommitment(peerScalar uint64, p consensus.NonceProposal) (*frost.NonceCommitment, error) {
	hiding := frost.LiftX(p.Hiding)
	if hiding == nil {
		return nil, fmt.Errorf("hiding nonce commitment does not decode to a valid curve point")
	}
	binding := frost.LiftX(p.Binding)
	if binding == nil {
		return nil, fmt.Errorf("binding nonce commitment does not decode to a valid curve point")
	}
	return &frost.NonceCommitment{PeerScalar: peerScalar, Hiding: hiding, Binding: binding}, nil
}

// encodeShareProposal converts a signature share scalar into its 32-byte
// wire form.
func encodeShareProposal(fp Fingerprint, share *big.Int) consensus.ShareProposal {
	var out consensus.ShareProposal
	out.Fingerprint = consensus.Fingerprint(fp)
	share.FillBytes(out.Share[:])
	return out
}

func decodeShare(p consensus.ShareProposal) *big.Int {
	return new(big.Int).SetBytes(p.Share[:])
}
