package signer

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math/big"

	"github.com/resolvr-net/frostsigner/ephemeral"
	"github.com/resolvr-net/frostsigner/frost"
)

// This module persists its own internal structs (KeyMaterial,
// CommitteeConfig, the pending/in-flight singletons) with encoding/gob.
// The only serialization precedent in the retrieval pack is drand's
// generated-protobuf DKG state (drand-drand/internal/dkg/store.go), which
// this module cannot reproduce without running protoc; gob needs no code
// generation. frost.Point and *big.Int fields are carried as their
// big-endian byte slices (pointWire, SecretShare) and rebuilt with
// big.Int.SetBytes on decode.

type keyMaterialWire struct {
	GroupKey           pointWire
	XOnlyGroupKey      [32]byte
	SecretShare        []byte
	VerificationShares map[PeerID]pointWire
}

type pointWire struct {
	X []byte
	Y []byte
}

func toPointWire(p *frost.Point) pointWire {
	return pointWire{X: p.X.Bytes(), Y: p.Y.Bytes()}
}

func fromPointWire(w pointWire) *frost.Point {
	return &frost.Point{X: bigFromBytes(w.X), Y: bigFromBytes(w.Y)}
}

func encodeKeyMaterial(key KeyMaterial) ([]byte, error) {
	wire := keyMaterialWire{
		GroupKey:           toPointWire(key.GroupKey),
		XOnlyGroupKey:      key.XOnlyGroupKey,
		SecretShare:        key.SecretShare.Bytes(),
		VerificationShares: make(map[PeerID]pointWire, len(key.VerificationShares)),
	}
	for peer, p := range key.VerificationShares {
		wire.VerificationShares[peer] = toPointWire(p)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("gob-encoding key material: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeKeyMaterial(data []byte) (KeyMaterial, error) {
	var wire keyMaterialWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return KeyMaterial{}, fmt.Errorf("gob-decoding key material: %w", err)
	}

	shares := make(map[PeerID]*frost.Point, len(wire.VerificationShares))
	for peer, w := range wire.VerificationShares {
		shares[peer] = fromPointWire(w)
	}

	return KeyMaterial{
		GroupKey:           fromPointWire(wire.GroupKey),
		XOnlyGroupKey:      wire.XOnlyGroupKey,
		SecretShare:        bigFromBytes(wire.SecretShare),
		VerificationShares: shares,
	}, nil
}

func bigFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// committeeWire/pending/inFlight below round-trip the remaining singleton
// rows the persistence contract names (spec §6): CommitteeConfig once at
// bootstrap, PendingRequest and InFlightSignature every time this signer's
// single slot changes hands.

type committeeWire struct {
	Size      int
	Threshold int
	Self      PeerID
	Peers     []PeerID
}

func encodeCommitteeConfig(cfg CommitteeConfig) ([]byte, error) {
	wire := committeeWire{Size: cfg.Size, Threshold: cfg.Threshold, Self: cfg.Self, Peers: cfg.Peers}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("gob-encoding committee config: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeCommitteeConfig(data []byte) (CommitteeConfig, error) {
	var wire committeeWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return CommitteeConfig{}, fmt.Errorf("gob-decoding committee config: %w", err)
	}
	return CommitteeConfig{Size: wire.Size, Threshold: wire.Threshold, Self: wire.Self, Peers: wire.Peers}, nil
}

// pendingWire's nonce halves are sealed, never plaintext: spec §5 forbids
// persisting a peer's secret nonce unencrypted, since a leaked nonce half
// together with that round's published share lets an attacker recover
// this peer's secret key share. encodePendingRequest/decodePendingRequest
// take an ephemeral.Sealer for exactly this reason.
type pendingWire struct {
	Fingerprint   [32]byte
	Canonical     []byte
	SealedHiding  []byte
	SealedBinding []byte
}

func encodePendingRequest(sealer *ephemeral.Sealer, p *PendingRequest) ([]byte, error) {
	sealedHiding, err := sealer.Seal(p.Nonce.Hiding)
	if err != nil {
		return nil, fmt.Errorf("sealing nonce hiding half: %w", err)
	}
	sealedBinding, err := sealer.Seal(p.Nonce.Binding)
	if err != nil {
		return nil, fmt.Errorf("sealing nonce binding half: %w", err)
	}

	wire := pendingWire{
		Fingerprint:   p.Fingerprint,
		Canonical:     p.Message.Canonical,
		SealedHiding:  sealedHiding,
		SealedBinding: sealedBinding,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("gob-encoding pending request: %w", err)
	}
	return buf.Bytes(), nil
}

func decodePendingRequest(sealer *ephemeral.Sealer, data []byte) (*PendingRequest, error) {
	var wire pendingWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("gob-decoding pending request: %w", err)
	}

	hiding, err := sealer.Open(wire.SealedHiding)
	if err != nil {
		return nil, fmt.Errorf("opening sealed nonce hiding half: %w", err)
	}
	binding, err := sealer.Open(wire.SealedBinding)
	if err != nil {
		return nil, fmt.Errorf("opening sealed nonce binding half: %w", err)
	}

	return &PendingRequest{
		Fingerprint: wire.Fingerprint,
		Message:     UnsignedMessage{Canonical: wire.Canonical},
		Nonce:       &frost.Nonce{Hiding: hiding, Binding: binding},
	}, nil
}

type commitmentWire struct {
	PeerScalar uint64
	Hiding     pointWire
	Binding    pointWire
}

type inFlightWire struct {
	Fingerprint [32]byte
	Canonical   []byte
	Commitments []commitmentWire
	Shares      map[PeerID][]byte
}

func encodeInFlightSignature(s *InFlightSignature) ([]byte, error) {
	wire := inFlightWire{
		Fingerprint: s.Fingerprint,
		Canonical:   s.Message.Canonical,
		Commitments: make([]commitmentWire, len(s.Commitments)),
		Shares:      make(map[PeerID][]byte, len(s.Shares)),
	}
	for i, c := range s.Commitments {
		wire.Commitments[i] = commitmentWire{
			PeerScalar: c.PeerScalar,
			Hiding:     toPointWire(c.Hiding),
			Binding:    toPointWire(c.Binding),
		}
	}
	for peer, share := range s.Shares {
		wire.Shares[peer] = share.Bytes()
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, fmt.Errorf("gob-encoding in-flight signature: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeInFlightSignature(data []byte) (*InFlightSignature, error) {
	var wire inFlightWire
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return nil, fmt.Errorf("gob-decoding in-flight signature: %w", err)
	}

	commitments := make([]*frost.NonceCommitment, len(wire.Commitments))
	for i, c := range wire.Commitments {
		commitments[i] = &frost.NonceCommitment{
			PeerScalar: c.PeerScalar,
			Hiding:     fromPointWire(c.Hiding),
			Binding:    fromPointWire(c.Binding),
		}
	}
	shares := make(map[PeerID]*big.Int, len(wire.Shares))
	for peer, b := range wire.Shares {
		shares[peer] = bigFromBytes(b)
	}

	return &InFlightSignature{
		Fingerprint: wire.Fingerprint,
		Message:     UnsignedMessage{Canonical: wire.Canonical},
		Commitments: commitments,
		Shares:      shares,
	}, nil
}

// encodeNonceRecord/decodeNonceRecord round-trip a single peer's nonce
// commitment under store.BucketNonce, reusing the same 64-byte x-only
// encoding as the consensus wire format (spec §6) since a persisted row
// and a wire proposal carry the same information.
func encodeNonceRecord(c *frost.NonceCommitment) []byte {
	h := frost.EncodeXOnly(c.Hiding)
	b := frost.EncodeXOnly(c.Binding)
	out := make([]byte, 64)
	copy(out[:32], h[:])
	copy(out[32:], b[:])
	return out
}

func decodeNonceRecord(peerScalar uint64, data []byte) (*frost.NonceCommitment, error) {
	if len(data) != 64 {
		return nil, fmt.Errorf("nonce record has %d bytes, want 64", len(data))
	}
	var hxo, bxo [32]byte
	copy(hxo[:], data[:32])
	copy(bxo[:], data[32:])
	hiding := frost.LiftX(hxo)
	if hiding == nil {
		return nil, fmt.Errorf("hiding nonce commitment does not decode to a valid curve point")
	}
	binding := frost.LiftX(bxo)
	if binding == nil {
		return nil, fmt.Errorf("binding nonce commitment does not decode to a valid curve point")
	}
	return &frost.NonceCommitment{PeerScalar: peerScalar, Hiding: hiding, Binding: binding}, nil
}

// encodeShareRecord/decodeShareRecord round-trip a single peer's signature
// share scalar under store.BucketShare, as the same 32-byte big-endian
// encoding consensus.ShareProposal uses on the wire.
func encodeShareRecord(share *big.Int) []byte {
	var out [32]byte
	share.FillBytes(out[:])
	return out[:]
}

func decodeShareRecord(data []byte) *big.Int {
	return new(big.Int).SetBytes(data)
}
