// Package dkg drives the Pedersen distributed key generation round with
// proof-of-possession this module's committee runs once at bootstrap
// (spec §4.2), grounded end to end on the original fedimint module's
// distributed_gen in resolvr-server/src/lib.rs: generate a polynomial,
// exchange public commitments, create and exchange per-peer shares with
// proofs of possession, then verify everything and finish keygen.
package dkg

import (
	"math/big"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
)

// PeerID re-exports consensus.PeerID so dkg's public surface does not
// force callers to import consensus just to name a peer.
type PeerID = consensus.PeerID

// PolynomialExchange is the first one-shot exchange DKG needs: every peer
// submits its public Pedersen polynomial commitment and, once every peer
// has, every peer receives the full set keyed by sender. This corresponds
// to resolvr-server's exchange_polynomials.
type PolynomialExchange = consensus.Exchange[frost.PolynomialCommitment]

// ShareAndPoP bundles a single secret share contribution together with
// its proof of possession, the unit resolvr-server's
// exchange_shares_and_pop moves between peers.
type ShareAndPoP struct {
	Share *big.Int
	PoP   PoP
}

// ShareExchange is the second one-shot exchange. Real Pedersen sharing is
// peer-to-peer (peer i sends a different share to each peer j), which
// does not fit a single broadcast value; instead each peer submits the
// map of per-recipient shares it computed for everyone else, and reads its
// own entry back out of every other peer's submitted map. This keeps the
// exchange primitive uniform (consensus.Exchange[T]) while still modeling
// the private, pairwise nature of share distribution for test purposes.
type ShareExchange = consensus.Exchange[map[PeerID]ShareAndPoP]
