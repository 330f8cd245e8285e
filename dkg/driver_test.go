package dkg

import (
	"context"
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/resolvr-net/frostsigner/consensus"
	"github.com/resolvr-net/frostsigner/frost"
	"github.com/resolvr-net/frostsigner/log"
)

func runCommittee(t *testing.T, n, threshold int) []*Result {
	t.Helper()

	results, errs := runCommitteeWith(t, n, threshold, nil)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("peer %d: dkg failed: %v", i, err)
		}
	}
	return results
}

// runCommitteeWith is runCommittee's more general form: corrupt, if
// non-nil, wraps peer index 2's (the 3rd committee member, PeerID 3)
// ShareExchange the same way signer/e2e_test.go's corruptShareBroadcaster
// wraps a Broadcaster -- to simulate a Byzantine or miscompiled peer at
// the consensus.Exchange boundary without reaching into Driver's private
// fields. Every other peer runs Driver.Run unmodified, so errs reports
// what the honest majority actually observes.
func runCommitteeWith(
	t *testing.T, n, threshold int,
	corrupt func(ShareExchange) ShareExchange,
) ([]*Result, []error) {
	t.Helper()

	peers := make([]PeerID, n)
	for i := range peers {
		peers[i] = PeerID(i + 1)
	}

	polyExchange := consensus.NewMemoryExchange[frost.PolynomialCommitment](peers)
	shareExchange := consensus.NewMemoryExchange[map[PeerID]ShareAndPoP](peers)

	results := make([]*Result, n)
	errs := make([]error, n)

	done := make(chan int, n)
	for i, self := range peers {
		i, self := i, self

		shares := shareExchange.PeerView(self)
		if corrupt != nil && i == 2 {
			shares = corrupt(shares)
		}

		go func() {
			d := NewDriver(self, peers, threshold, polyExchange.PeerView(self), shares, log.Default())
			r, err := d.Run(context.Background())
			results[i] = r
			errs[i] = err
			done <- i
		}()
	}
	for range peers {
		<-done
	}

	return results, errs
}

// tamperingShareExchange wraps a real ShareExchange and rewrites the
// wrapped peer's own outgoing share-and-PoP submission with mutate before
// it ever reaches the shared exchange, analogous to
// signer/e2e_test.go's corruptShareBroadcaster. mutate returns an error
// rather than calling into *testing.T directly, since Exchange runs on a
// peer's own background goroutine (see runCommitteeWith), not the test
// goroutine.
type tamperingShareExchange struct {
	inner  ShareExchange
	mutate func(ShareAndPoP) (ShareAndPoP, error)
}

func (e *tamperingShareExchange) Exchange(ctx context.Context, label string, mine map[PeerID]ShareAndPoP) (map[PeerID]map[PeerID]ShareAndPoP, error) {
	tampered := make(map[PeerID]ShareAndPoP, len(mine))
	for recipient, contribution := range mine {
		c, err := e.mutate(contribution)
		if err != nil {
			return nil, err
		}
		tampered[recipient] = c
	}
	return e.inner.Exchange(ctx, label, tampered)
}

func randomScalar() (*big.Int, error) {
	return rand.Int(rand.Reader, frost.Order())
}

func TestDriverProducesConsistentGroupKey(t *testing.T) {
	results := runCommittee(t, 4, 3)

	want := results[0].XOnlyGroupKey
	for i, r := range results {
		if r.XOnlyGroupKey != want {
			t.Fatalf("peer %d derived a different group key: %x != %x", i, r.XOnlyGroupKey, want)
		}
	}
}

func TestDriverVerificationSharesMatchSecretShares(t *testing.T) {
	results := runCommittee(t, 4, 3)

	for i, r := range results {
		self := PeerID(i + 1)
		expected := frost.BaseMul(r.SecretShare)
		got := r.VerificationShares[self]
		if got.X.Cmp(expected.X) != 0 || got.Y.Cmp(expected.Y) != 0 {
			t.Fatalf("peer %d's own verification share does not match its secret share", self)
		}
	}
}

// --- Negative paths: spec §4.2's "any validation failure of a peer's
// commitment, share, or PoP aborts the DKG with that peer named". ---

func TestDriverRejectsTamperedProofOfPossession(t *testing.T) {
	_, errs := runCommitteeWith(t, 4, 3, func(inner ShareExchange) ShareExchange {
		return &tamperingShareExchange{
			inner: inner,
			mutate: func(c ShareAndPoP) (ShareAndPoP, error) {
				var garbage PoP
				if _, err := rand.Read(garbage[:]); err != nil {
					return ShareAndPoP{}, err
				}
				c.PoP = garbage
				return c, nil
			},
		}
	})

	for i, err := range errs {
		failed, ok := err.(*ErrKeygenFailed)
		if !ok {
			t.Fatalf("peer %d: expected *ErrKeygenFailed from a tampered PoP, got %v", i, err)
		}
		if failed.Peer != PeerID(3) {
			t.Fatalf("peer %d: ErrKeygenFailed names peer %d, want 3", i, failed.Peer)
		}
	}
}

func TestDriverRejectsShareNotMatchingCommitment(t *testing.T) {
	_, errs := runCommitteeWith(t, 4, 3, func(inner ShareExchange) ShareExchange {
		return &tamperingShareExchange{
			inner: inner,
			mutate: func(c ShareAndPoP) (ShareAndPoP, error) {
				scalar, err := randomScalar()
				if err != nil {
					return ShareAndPoP{}, err
				}
				c.Share = scalar
				return c, nil
			},
		}
	})

	for i, err := range errs {
		failed, ok := err.(*ErrKeygenFailed)
		if !ok {
			t.Fatalf("peer %d: expected *ErrKeygenFailed from a share that does not match its sender's commitment, got %v", i, err)
		}
		if failed.Peer != PeerID(3) {
			t.Fatalf("peer %d: ErrKeygenFailed names peer %d, want 3", i, failed.Peer)
		}
	}
}
