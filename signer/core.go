package signer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/ephemeral"
	"github.com/resolvr-net/frostsigner/frost"
	"github.com/resolvr-net/frostsigner/log"
	"github.com/resolvr-net/frostsigner/relay"
	"github.com/resolvr-net/frostsigner/store"
)

// Authenticator abstracts the federation admin credential gate (spec C3
// precondition). The core only requires some credential check; wiring a
// concrete HTTP/mTLS/admin-token checker is the federation runtime's job,
// same as the rest of the runtime this module plugs into (spec §1).
type Authenticator interface {
	Authenticate(ctx context.Context, credential []byte) error
}

// SignedArtifact is a finished, verified signature ready to hand to a
// relay.Publisher.
type SignedArtifact struct {
	Message   UnsignedMessage
	Signature *frost.Signature
}

// Core wires request intake (C3), proposal generation (C4), consensus item
// processing (C5), session building (C6), and aggregation/publication (C7)
// into the single sequential entry point a federation runtime drives.
// Method names mirror resolvr-server's ServerModule trait
// (consensus_proposal / process_consensus_item) intentionally.
type Core struct {
	cfg   CommitteeConfig
	key   KeyMaterial
	store store.Store
	log   log.Logger

	auth      Authenticator
	broadcast consensus.Broadcaster
	publisher relay.Publisher

	proposer    *proposer
	coordinator *frost.Coordinator
	sealer      *ephemeral.Sealer

	mu       sync.Mutex
	pending  *PendingRequest
	inFlight *InFlightSignature

	// nonceOrder/nonceVotes track round-one consensus arrival order for
	// whichever fingerprint is currently pending, so the "first t nonces
	// in consensus order" rule (spec §4.5) can be applied once enough
	// have arrived.
	nonceOrder []PeerID
	nonceVotes map[PeerID]*frost.NonceCommitment
}

// NewCore constructs a Core for a committee that has already completed
// DKG (see dkg.Driver) and is ready to sign. It does not itself touch st
// beyond what ProcessConsensusItem/Sign do going forward; use Bootstrap
// for first-time committee setup and OpenCore to resume an already
// bootstrapped signer, both of which call NewCore internally.
func NewCore(
	cfg CommitteeConfig,
	key KeyMaterial,
	st store.Store,
	broadcast consensus.Broadcaster,
	publisher relay.Publisher,
	auth Authenticator,
	logger log.Logger,
) *Core {
	cs := frost.NewBip340Ciphersuite()
	fs := frost.NewSigner(cs, key.GroupKey, cfg.SelfScalar(), key.SecretShare)
	coordinator := frost.NewCoordinator(cs, key.GroupKey)

	// ephemeral.NewSealer fails only for a nil or zero secret share, which
	// no completed DKG produces; NewSigner above does not check the share,
	// so such a share makes NewCore panic here.
	sealer, err := ephemeral.NewSealer(key.SecretShare)
	if err != nil {
		panic(fmt.Sprintf("signer: deriving nonce sealing key: %v", err))
	}

	return &Core{
		cfg:         cfg,
		key:         key,
		store:       st,
		log:         logger,
		auth:        auth,
		broadcast:   broadcast,
		publisher:   publisher,
		proposer:    newProposer(cfg, fs, broadcast),
		coordinator: coordinator,
		sealer:      sealer,
	}
}

// Bootstrap persists cfg and key -- the two write-once records a committee
// produces exactly once at DKG completion (spec I3/I5, property P6) -- and
// returns a Core ready to sign. Callers build key from a completed
// dkg.Driver.Run() result; Bootstrap itself stays decoupled from the dkg
// package, the same way signer/keymaterial.go does.
//
// A store that already has a KeyMaterial row fails the call with
// ErrAlreadyBootstrapped rather than overwriting it: KeyMaterial is
// write-once for the lifetime of a committee (spec I3, property P6), and a
// resumed process should come back through OpenCore instead.
func Bootstrap(
	cfg CommitteeConfig,
	key KeyMaterial,
	st store.Store,
	broadcast consensus.Broadcaster,
	publisher relay.Publisher,
	auth Authenticator,
	logger log.Logger,
) (*Core, error) {
	err := st.Update(func(tx store.Tx) error {
		existing, err := store.GetSingleton(tx, store.BucketKeyMaterial)
		if err != nil {
			return fmt.Errorf("checking for existing key material: %w", err)
		}
		if existing != nil {
			return ErrAlreadyBootstrapped
		}
		if err := persistCommitteeConfig(tx, cfg); err != nil {
			return err
		}
		return persistKeyMaterial(tx, key)
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyBootstrapped) {
			return nil, err
		}
		return nil, fmt.Errorf("persisting bootstrap state: %w", err)
	}
	return NewCore(cfg, key, st, broadcast, publisher, auth, logger), nil
}

// OpenCore rebuilds a Core from a store a prior Bootstrap already wrote
// to, restoring whatever PendingRequest/InFlightSignature/NonceEntry rows
// survived the last process lifetime. Restoring nonceOrder -- this
// signer's record of which t nonces arrived first (spec §4.5) -- from a
// store snapshot necessarily uses the store's key order rather than true
// historical arrival order, since that ordering is only fully
// reconstructible by replaying the consensus log from genesis (spec P5);
// OpenCore is a best-effort resume path for a single restarted process,
// not a substitute for replay.
func OpenCore(
	st store.Store,
	broadcast consensus.Broadcaster,
	publisher relay.Publisher,
	auth Authenticator,
	logger log.Logger,
) (*Core, error) {
	var (
		cfg CommitteeConfig
		key KeyMaterial
	)
	err := st.View(func(tx store.Tx) error {
		cfgBytes, err := store.GetSingleton(tx, store.BucketCommittee)
		if err != nil {
			return fmt.Errorf("reading committee config: %w", err)
		}
		if cfgBytes == nil {
			return fmt.Errorf("no committee config persisted; run Bootstrap first")
		}
		cfg, err = decodeCommitteeConfig(cfgBytes)
		if err != nil {
			return err
		}

		keyBytes, err := store.GetSingleton(tx, store.BucketKeyMaterial)
		if err != nil {
			return fmt.Errorf("reading key material: %w", err)
		}
		if keyBytes == nil {
			return fmt.Errorf("no key material persisted; run Bootstrap first")
		}
		key, err = decodeKeyMaterial(keyBytes)
		return err
	})
	if err != nil {
		return nil, err
	}

	c := NewCore(cfg, key, st, broadcast, publisher, auth, logger)
	if err := c.restoreSigningState(); err != nil {
		return nil, fmt.Errorf("restoring signing state: %w", err)
	}
	return c, nil
}

// restoreSigningState reads back whatever PendingRequest/InFlightSignature
// singleton and Nonce rows were left behind, so a resumed process does not
// silently forget a round in progress.
func (c *Core) restoreSigningState() error {
	return c.store.View(func(tx store.Tx) error {
		pendingBytes, err := store.GetSingleton(tx, store.BucketPending)
		if err != nil {
			return err
		}
		if pendingBytes != nil {
			pending, err := decodePendingRequest(c.sealer, pendingBytes)
			if err != nil {
				return fmt.Errorf("decoding persisted pending request: %w", err)
			}
			c.pending = pending

			nonceVotes := make(map[PeerID]*frost.NonceCommitment)
			var nonceOrder []PeerID
			fpArr := [32]byte(pending.Fingerprint)
			err = tx.Iterate(store.BucketNonce, store.FingerprintPrefix(fpArr), func(key, value []byte) error {
				peer := peerFromNonceShareKey(key)
				scalar, err := c.cfg.Scalar(peer)
				if err != nil {
					return fmt.Errorf("nonce row for non-member peer %d: %w", peer, err)
				}
				commitment, err := decodeNonceRecord(scalar, value)
				if err != nil {
					return err
				}
				nonceVotes[peer] = commitment
				nonceOrder = append(nonceOrder, peer)
				return nil
			})
			if err != nil {
				return err
			}
			c.nonceVotes = nonceVotes
			c.nonceOrder = nonceOrder
		}

		inFlightBytes, err := store.GetSingleton(tx, store.BucketInFlight)
		if err != nil {
			return err
		}
		if inFlightBytes != nil {
			inFlight, err := decodeInFlightSignature(inFlightBytes)
			if err != nil {
				return fmt.Errorf("decoding persisted in-flight signature: %w", err)
			}
			c.inFlight = inFlight
		}
		return nil
	})
}

// GroupPubKey returns the committee's x-only group public key (spec C3).
func (c *Core) GroupPubKey() [32]byte {
	return c.key.XOnlyGroupKey
}

// ListPending reports the fingerprint of the request currently occupying
// this signer's single slot, if any (spec C3).
func (c *Core) ListPending() []Fingerprint {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight != nil {
		return []Fingerprint{c.inFlight.Fingerprint}
	}
	if c.pending != nil {
		return []Fingerprint{c.pending.Fingerprint}
	}
	return nil
}

// persistKeyMaterial is called once, by Bootstrap, never again afterward --
// KeyMaterial is immutable for the lifetime of a committee (spec I3,
// property P6).
func persistKeyMaterial(tx store.Tx, key KeyMaterial) error {
	encoded, err := encodeKeyMaterial(key)
	if err != nil {
		return fmt.Errorf("encoding key material: %w", err)
	}
	return store.PutSingleton(tx, store.BucketKeyMaterial, encoded)
}

// persistCommitteeConfig is Bootstrap's other write-once record.
func persistCommitteeConfig(tx store.Tx, cfg CommitteeConfig) error {
	encoded, err := encodeCommitteeConfig(cfg)
	if err != nil {
		return fmt.Errorf("encoding committee config: %w", err)
	}
	return store.PutSingleton(tx, store.BucketCommittee, encoded)
}

// persistPending writes p to the single-row PendingRequest bucket.
func (c *Core) persistPending(tx store.Tx, p *PendingRequest) error {
	encoded, err := encodePendingRequest(c.sealer, p)
	if err != nil {
		return fmt.Errorf("encoding pending request: %w", err)
	}
	return store.PutSingleton(tx, store.BucketPending, encoded)
}

// clearPending deletes the PendingRequest row, e.g. because it was
// promoted to an InFlightSignature or its generation failed after being
// tentatively written.
func (c *Core) clearPending(tx store.Tx) error {
	return store.DeleteSingleton(tx, store.BucketPending)
}

// persistInFlight writes s to the single-row InFlightSignature bucket.
func (c *Core) persistInFlight(tx store.Tx, s *InFlightSignature) error {
	encoded, err := encodeInFlightSignature(s)
	if err != nil {
		return fmt.Errorf("encoding in-flight signature: %w", err)
	}
	return store.PutSingleton(tx, store.BucketInFlight, encoded)
}

// clearInFlight deletes the InFlightSignature row once its job is
// finished, successfully or not (spec §9: post-publication Nonce/Share row
// cleanup is left unspecified, but the singleton slot itself must clear so
// this signer can accept its next request).
func (c *Core) clearInFlight(tx store.Tx) error {
	return store.DeleteSingleton(tx, store.BucketInFlight)
}

// peerFromNonceShareKey extracts the big-endian uint64 peer id suffix a
// store.NonceShareKey encodes, the inverse of that function's key
// construction. Nonce/Share rows are keyed by the consensus-level PeerID
// (spec §3: "(message fingerprint, contributing peer id)"), not the FROST
// scalar, so that the store key scheme does not need to know about
// committee scalar assignment at all.
func peerFromNonceShareKey(key []byte) PeerID {
	return PeerID(binary.BigEndian.Uint64(key[32:40]))
}
