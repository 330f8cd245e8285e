package signer

import (
	"math/big"

	"github.com/resolvr-net/frostsigner/frost"
)

// KeyMaterial is the immutable result of a completed DKG round (spec §3):
// the committee's group public key, this peer's secret share, and the
// public verification shares needed to check every peer's signature
// shares during C5 without needing their secrets.
type KeyMaterial struct {
	GroupKey           *frost.Point
	XOnlyGroupKey      [32]byte
	SecretShare        *big.Int
	VerificationShares map[PeerID]*frost.Point
}
