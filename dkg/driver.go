package dkg

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/resolvr-net/frostsigner/frost"
	"github.com/resolvr-net/frostsigner/log"
)

// ErrKeygenFailed reports which peer's contribution broke the DKG round
// and why. DKG is not resumable (spec §7 DKGFailure): a Driver that
// returns this error must be re-run from scratch with a fresh polynomial.
type ErrKeygenFailed struct {
	Peer   PeerID
	Reason string
}

func (e *ErrKeygenFailed) Error() string {
	return fmt.Sprintf("dkg failed because of peer %d: %s", e.Peer, e.Reason)
}

// Result is everything a successful DKG round produces: the material
// signer.KeyMaterial is built from.
type Result struct {
	GroupKey           *frost.Point
	XOnlyGroupKey      [32]byte
	SecretShare        *big.Int
	VerificationShares map[PeerID]*frost.Point
}

// Driver runs one Pedersen DKG round with proof-of-possession for a single
// committee member. One Driver instance drives exactly one round; running
// DKG again means constructing a new Driver.
type Driver struct {
	Self      PeerID
	Peers     []PeerID // the full committee, in canonical order; ordinal+1 is each peer's FROST scalar
	Threshold int
	Polys     PolynomialExchange
	Shares    ShareExchange
	Logger    log.Logger
}

// NewDriver constructs a Driver for one committee member.
func NewDriver(self PeerID, peers []PeerID, threshold int, polys PolynomialExchange, shares ShareExchange, logger log.Logger) *Driver {
	return &Driver{
		Self:      self,
		Peers:     peers,
		Threshold: threshold,
		Polys:     polys,
		Shares:    shares,
		Logger:    logger,
	}
}

func (d *Driver) scalarOf(peer PeerID) uint64 {
	for i, p := range d.Peers {
		if p == peer {
			return uint64(i) + 1
		}
	}
	return 0
}

// byScalar re-keys a per-peer map by each peer's FROST scalar (d.scalarOf),
// the key space frost's combine functions operate over.
func byScalar[V any](d *Driver, m map[PeerID]V) map[uint64]V {
	out := make(map[uint64]V, len(m))
	for peer, v := range m {
		out[d.scalarOf(peer)] = v
	}
	return out
}

// Run executes every step of spec §4.2's 8-step DKG: sample a polynomial,
// exchange public commitments, create and exchange shares with proofs of
// possession, verify every peer's contribution, and combine the result.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	secret, err := rand.Int(rand.Reader, frost.Order())
	if err != nil {
		return nil, fmt.Errorf("sampling this peer's secret: %w", err)
	}
	coefficients, err := frost.GeneratePolynomial(secret, d.Threshold)
	if err != nil {
		return nil, fmt.Errorf("generating polynomial: %w", err)
	}
	myCommitment := frost.CommitPolynomial(coefficients)

	d.Logger.Debug("msg", "dkg: exchanging polynomial commitments", "self", d.Self)
	commitments, err := d.Polys.Exchange(ctx, "dkg-polynomials", myCommitment)
	if err != nil {
		return nil, fmt.Errorf("exchanging polynomial commitments: %w", err)
	}
	for peer, c := range commitments {
		if len(c) != d.Threshold {
			return nil, &ErrKeygenFailed{peer, fmt.Sprintf("polynomial commitment has degree %d, want %d", len(c)-1, d.Threshold-1)}
		}
	}

	transcriptID := commitmentTranscriptID(commitments)

	pop, err := CreatePoP(coefficients[0], transcriptID)
	if err != nil {
		return nil, fmt.Errorf("creating this peer's proof of possession: %w", err)
	}

	mine := make(map[PeerID]ShareAndPoP, len(d.Peers))
	for _, peer := range d.Peers {
		x := d.scalarOf(peer)
		mine[peer] = ShareAndPoP{
			Share: frost.EvaluatePolynomial(coefficients, x),
			PoP:   pop,
		}
	}

	d.Logger.Debug("msg", "dkg: exchanging shares and proofs of possession", "self", d.Self)
	allShares, err := d.Shares.Exchange(ctx, "dkg-shares", mine)
	if err != nil {
		return nil, fmt.Errorf("exchanging shares and proofs of possession: %w", err)
	}

	received, err := d.verifyAndCollectShares(commitments, allShares, transcriptID)
	if err != nil {
		return nil, err
	}

	commitmentsByScalar := byScalar(d, commitments)

	secretShare := frost.CombineSecretShare(byScalar(d, received))
	rawGroupKey := frost.CombineGroupKey(commitmentsByScalar)
	groupKey, sign := frost.NormalizeGroupKey(rawGroupKey)
	secretShare = frost.ApplyKeySign(secretShare, sign)

	verificationShares := make(map[PeerID]*frost.Point, len(d.Peers))
	for _, peer := range d.Peers {
		x := d.scalarOf(peer)
		vs := frost.CombineVerificationShare(commitmentsByScalar, x)
		verificationShares[peer] = frost.ApplyKeySignPoint(vs, sign)
	}

	d.Logger.Info("msg", "dkg: completed", "self", d.Self, "group_key", fmt.Sprintf("%x", frost.EncodeXOnly(groupKey)))

	return &Result{
		GroupKey:           groupKey,
		XOnlyGroupKey:      frost.EncodeXOnly(groupKey),
		SecretShare:        secretShare,
		VerificationShares: verificationShares,
	}, nil
}

// verifyAndCollectShares checks every sender's share-and-PoP contribution
// to this peer concurrently -- a small bounded worker pool re-entered
// sequentially through the result it returns, per spec §5 -- and reduces
// the results into the per-sender share map CombineSecretShare needs.
func (d *Driver) verifyAndCollectShares(
	commitments map[PeerID]frost.PolynomialCommitment,
	allShares map[PeerID]map[PeerID]ShareAndPoP,
	transcriptID []byte,
) (map[PeerID]*big.Int, error) {
	selfScalar := d.scalarOf(d.Self)

	type outcome struct {
		peer  PeerID
		share *big.Int
		err   *ErrKeygenFailed
	}
	results := make(chan outcome, len(d.Peers))

	var wg sync.WaitGroup
	for _, sender := range d.Peers {
		sender := sender
		wg.Add(1)
		go func() {
			defer wg.Done()

			byRecipient, ok := allShares[sender]
			if !ok {
				results <- outcome{sender, nil, &ErrKeygenFailed{sender, "submitted no shares during the exchange"}}
				return
			}
			contribution, ok := byRecipient[d.Self]
			if !ok {
				results <- outcome{sender, nil, &ErrKeygenFailed{sender, "sent no share addressed to this peer"}}
				return
			}

			senderCommitment := commitments[sender]
			if err := frost.VerifyShareAgainstCommitment(senderCommitment, selfScalar, contribution.Share); err != nil {
				results <- outcome{sender, nil, &ErrKeygenFailed{sender, fmt.Sprintf("share failed commitment verification: %v", err)}}
				return
			}
			if err := VerifyPoP(senderCommitment[0], transcriptID, contribution.PoP); err != nil {
				results <- outcome{sender, nil, &ErrKeygenFailed{sender, fmt.Sprintf("proof of possession invalid: %v", err)}}
				return
			}
			results <- outcome{sender, contribution.Share, nil}
		}()
	}

	wg.Wait()
	close(results)

	received := make(map[PeerID]*big.Int, len(d.Peers))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		received[r.peer] = r.share
	}
	return received, nil
}

// commitmentTranscriptID derives a deterministic id for this keygen round
// from every peer's public polynomial commitment, used as the message
// every proof of possession signs over (resolvr-server's
// `pop_message = Message::raw(&keygen_id)`).
func commitmentTranscriptID(commitments map[PeerID]frost.PolynomialCommitment) []byte {
	peers := make([]PeerID, 0, len(commitments))
	for p := range commitments {
		peers = append(peers, p)
	}
	sort.Slice(peers, func(i, j int) bool { return peers[i] < peers[j] })

	h := sha256.New()
	for _, p := range peers {
		var peerBytes [8]byte
		binary.BigEndian.PutUint64(peerBytes[:], uint64(p))
		h.Write(peerBytes[:])
		for _, point := range commitments[p] {
			h.Write(frost.Serialize(point))
		}
	}
	digest := h.Sum(nil)
	return digest
}
