package frost

import (
	"math/big"
	"sort"
	"testing"
)

func committeeForCoordinatorTests(t *testing.T) (*committeeFixture, []uint64) {
	t.Helper()
	fixture := runDKGFixture(t, 4, 3)
	return fixture, []uint64{1, 2, 3}
}

func buildSession(t *testing.T, fixture *committeeFixture, signingSet []uint64, digest []byte) ([]*NonceCommitment, map[uint64]*big.Int, map[uint64]*Nonce) {
	t.Helper()
	cs := NewBip340Ciphersuite()

	nonces := make(map[uint64]*Nonce, len(signingSet))
	commitments := make([]*NonceCommitment, 0, len(signingSet))
	for _, peer := range signingSet {
		signer := NewSigner(cs, fixture.groupKey, peer, fixture.secretShares[peer])
		nonce, commitment, err := signer.Round1()
		if err != nil {
			t.Fatalf("peer %d Round1: %v", peer, err)
		}
		nonces[peer] = nonce
		commitments = append(commitments, commitment)
	}
	sort.Slice(commitments, func(i, j int) bool { return commitments[i].PeerScalar < commitments[j].PeerScalar })

	shares := make(map[uint64]*big.Int, len(signingSet))
	for _, peer := range signingSet {
		signer := NewSigner(cs, fixture.groupKey, peer, fixture.secretShares[peer])
		share, err := signer.Round2(digest, nonces[peer], commitments)
		if err != nil {
			t.Fatalf("peer %d Round2: %v", peer, err)
		}
		shares[peer] = share
	}
	return commitments, shares, nonces
}

func TestCoordinatorVerifyShareRejectsForgedShare(t *testing.T) {
	fixture, signingSet := committeeForCoordinatorTests(t)
	digest := make([]byte, 32)
	digest[0] = 1
	commitments, shares, _ := buildSession(t, fixture, signingSet, digest)

	cs := NewBip340Ciphersuite()
	coordinator := NewCoordinator(cs, fixture.groupKey)

	forged := new(big.Int).Add(shares[1], big.NewInt(1))
	err := coordinator.VerifyShare(digest, commitments, 1, forged, fixture.verificationShares[1])
	if err == nil {
		t.Fatal("expected a forged share to fail verification")
	}
}

func TestCoordinatorVerifyShareRejectsWrongVerificationShare(t *testing.T) {
	fixture, signingSet := committeeForCoordinatorTests(t)
	digest := make([]byte, 32)
	digest[0] = 2
	commitments, shares, _ := buildSession(t, fixture, signingSet, digest)

	cs := NewBip340Ciphersuite()
	coordinator := NewCoordinator(cs, fixture.groupKey)

	// Peer 2's genuine share checked against peer 3's verification share
	// must not validate.
	err := coordinator.VerifyShare(digest, commitments, 2, shares[2], fixture.verificationShares[3])
	if err == nil {
		t.Fatal("expected a share checked against the wrong verification share to fail")
	}
}

func TestCoordinatorAggregateRejectsMismatchedShareCount(t *testing.T) {
	fixture, signingSet := committeeForCoordinatorTests(t)
	digest := make([]byte, 32)
	digest[0] = 3
	commitments, shares, _ := buildSession(t, fixture, signingSet, digest)

	cs := NewBip340Ciphersuite()
	coordinator := NewCoordinator(cs, fixture.groupKey)

	tooFew := []*big.Int{shares[signingSet[0]]}
	if _, err := coordinator.Aggregate(digest, commitments, tooFew); err == nil {
		t.Fatal("expected Aggregate to reject a share count mismatch")
	}
}

func TestValidateCommitmentsRejectsUnsortedList(t *testing.T) {
	fixture, signingSet := committeeForCoordinatorTests(t)
	digest := make([]byte, 32)
	digest[0] = 4
	commitments, _, _ := buildSession(t, fixture, signingSet, digest)

	unsorted := make([]*NonceCommitment, len(commitments))
	copy(unsorted, commitments)
	unsorted[0], unsorted[len(unsorted)-1] = unsorted[len(unsorted)-1], unsorted[0]

	cs := NewBip340Ciphersuite()
	coordinator := NewCoordinator(cs, fixture.groupKey)
	if _, err := coordinator.validateCommitments(unsorted, 0, false); err == nil {
		t.Fatal("expected validateCommitments to reject an unsorted commitment list")
	}
}

func TestValidateCommitmentsRequiresSelfWhenAsked(t *testing.T) {
	fixture, signingSet := committeeForCoordinatorTests(t)
	digest := make([]byte, 32)
	digest[0] = 5
	commitments, _, _ := buildSession(t, fixture, signingSet, digest)

	cs := NewBip340Ciphersuite()
	coordinator := NewCoordinator(cs, fixture.groupKey)
	if _, err := coordinator.validateCommitments(commitments, 99, true); err == nil {
		t.Fatal("expected validateCommitments to reject a missing self scalar")
	}
}
