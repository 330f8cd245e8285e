// Package consensus declares the contract this signer expects from the
// external BFT consensus substrate it plugs into (spec §1, §6): a
// totally-ordered, exactly-once, origin-attributed broadcast of consensus
// items, plus two one-shot typed exchanges the DKG driver needs during
// committee bootstrap. The substrate itself -- leader election, view
// changes, Byzantine agreement -- is explicitly out of scope; this package
// only describes what this module consumes from it.
package consensus

import (
	"context"
	"fmt"
)

// PeerID identifies a committee member by its consensus-assigned ordinal.
// Every other package that needs to name a peer (dkg, signer) uses this
// type rather than declaring its own, so the substrate's notion of "who
// sent this" and the signer's notion of "whose share is this" are always
// the same identifier.
type PeerID uint64

// Fingerprint is the sha256 digest of a message's canonical bytes, used
// throughout the consensus items below to tie a NonceProposal or
// ShareProposal to the signing request it belongs to.
type Fingerprint [32]byte

// ItemKind distinguishes the two consensus item variants this module ever
// proposes, mirroring the `ResolvrConsensusItem` enum of the original
// fedimint module this spec distills.
type ItemKind uint8

const (
	// ItemNonce carries a 64-byte nonce commitment (spec §6 wire format).
	ItemNonce ItemKind = iota + 1
	// ItemShare carries a 32-byte signature share scalar.
	ItemShare
)

// NonceProposal is the first-round consensus item: a peer's public nonce
// commitment for a given fingerprint, encoded as two 32-byte x-only points
// (64 bytes total, spec §6 wire format).
type NonceProposal struct {
	Fingerprint Fingerprint
	Hiding      [32]byte
	Binding     [32]byte
}

// ShareProposal is the second-round consensus item: a peer's signature
// share scalar for a given fingerprint (spec C5).
type ShareProposal struct {
	Fingerprint Fingerprint
	Share       [32]byte
}

// Item is a consensus item as delivered by the substrate: exactly one of
// Nonce or Share is non-nil, discriminated by Kind.
type Item struct {
	Kind  ItemKind
	Nonce *NonceProposal
	Share *ShareProposal
}

// String renders an Item for logging without dumping raw key material.
func (it Item) String() string {
	switch it.Kind {
	case ItemNonce:
		return fmt.Sprintf("NonceProposal{fingerprint=%x}", it.Nonce.Fingerprint)
	case ItemShare:
		return fmt.Sprintf("ShareProposal{fingerprint=%x}", it.Share.Fingerprint)
	default:
		return "Item{unknown}"
	}
}

// Delivery is a consensus item together with the peer that proposed it,
// exactly as the substrate is required to attribute it (spec §6:
// "origin-attributed").
type Delivery struct {
	Origin PeerID
	Item   Item
}

// Broadcaster is the consensus substrate contract this module consumes:
// propose an item for eventual inclusion, and receive every peer's items,
// including your own, in the same total order every other honest peer
// sees them in.
type Broadcaster interface {
	Propose(ctx context.Context, item Item) error
	Items() <-chan Delivery
}

// Exchange is a one-shot typed exchange: every committee member submits
// mine and, once every peer has submitted, every member receives the full
// map keyed by peer. The DKG driver uses two instances of this contract --
// once for polynomial commitments, once for shares-and-proofs-of-possession
// -- corresponding to `exchange_polynomials`/`exchange_shares_and_pop` in
// the original fedimint module.
type Exchange[T any] interface {
	Exchange(ctx context.Context, label string, mine T) (map[PeerID]T, error)
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%x", f[:])
}
