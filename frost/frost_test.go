package frost

import (
	"crypto/rand"
	"math/big"
	"sort"
	"testing"
)

// committeeFixture runs a full, from-scratch Pedersen DKG over n peers with
// the given threshold, the same sequence dkg.Driver.Run drives one peer's
// side of, but synchronously and in-process so a single test can check the
// resulting keyset end to end.
type committeeFixture struct {
	threshold          int
	groupKey           *Point
	secretShares       map[uint64]*big.Int
	verificationShares map[uint64]*Point
}

func runDKGFixture(t *testing.T, n, threshold int) *committeeFixture {
	t.Helper()

	scalars := make([]uint64, n)
	for i := range scalars {
		scalars[i] = uint64(i + 1)
	}

	coefficients := make(map[uint64][]*big.Int, n)
	commitments := make(map[uint64]PolynomialCommitment, n)
	for _, peer := range scalars {
		secret, err := rand.Int(rand.Reader, Order())
		if err != nil {
			t.Fatalf("sampling peer %d's secret: %v", peer, err)
		}
		coeffs, err := GeneratePolynomial(secret, threshold)
		if err != nil {
			t.Fatalf("generating peer %d's polynomial: %v", peer, err)
		}
		coefficients[peer] = coeffs
		commitments[peer] = CommitPolynomial(coeffs)
	}

	received := make(map[uint64]map[uint64]*big.Int, n)
	for _, recipient := range scalars {
		received[recipient] = make(map[uint64]*big.Int, n)
	}
	for _, sender := range scalars {
		for _, recipient := range scalars {
			share := EvaluatePolynomial(coefficients[sender], recipient)
			if err := VerifyShareAgainstCommitment(commitments[sender], recipient, share); err != nil {
				t.Fatalf("peer %d's share to peer %d failed its own commitment check: %v", sender, recipient, err)
			}
			received[recipient][sender] = share
		}
	}

	rawGroupKey := CombineGroupKey(commitments)
	groupKey, sign := NormalizeGroupKey(rawGroupKey)

	secretShares := make(map[uint64]*big.Int, n)
	verificationShares := make(map[uint64]*Point, n)
	for _, peer := range scalars {
		secretShares[peer] = ApplyKeySign(CombineSecretShare(received[peer]), sign)
		verificationShares[peer] = ApplyKeySignPoint(CombineVerificationShare(commitments, peer), sign)
	}

	return &committeeFixture{
		threshold:          threshold,
		groupKey:           groupKey,
		secretShares:       secretShares,
		verificationShares: verificationShares,
	}
}

func TestFullDKGAndSignRoundTrip(t *testing.T) {
	const n, threshold = 5, 3
	fixture := runDKGFixture(t, n, threshold)
	cs := NewBip340Ciphersuite()

	if !HasEvenY(fixture.groupKey) {
		t.Fatal("normalized group key must have an even Y coordinate")
	}
	for peer, share := range fixture.secretShares {
		expected := BaseMul(share)
		if expected.X.Cmp(fixture.verificationShares[peer].X) != 0 {
			t.Fatalf("peer %d's secret share does not match its own verification share", peer)
		}
	}

	signingSet := []uint64{1, 2, 3}
	signers := make(map[uint64]*Signer, len(signingSet))
	for _, peer := range signingSet {
		signers[peer] = NewSigner(cs, fixture.groupKey, peer, fixture.secretShares[peer])
	}

	nonces := make(map[uint64]*Nonce, len(signingSet))
	commitments := make([]*NonceCommitment, 0, len(signingSet))
	for _, peer := range signingSet {
		nonce, commitment, err := signers[peer].Round1()
		if err != nil {
			t.Fatalf("peer %d Round1: %v", peer, err)
		}
		nonces[peer] = nonce
		commitments = append(commitments, commitment)
	}
	sort.Slice(commitments, func(i, j int) bool { return commitments[i].PeerScalar < commitments[j].PeerScalar })

	var digest [32]byte
	digest[0] = 0xab

	coordinator := NewCoordinator(cs, fixture.groupKey)
	shares := make([]*big.Int, 0, len(signingSet))
	for _, peer := range signingSet {
		share, err := signers[peer].Round2(digest[:], nonces[peer], commitments)
		if err != nil {
			t.Fatalf("peer %d Round2: %v", peer, err)
		}
		if err := coordinator.VerifyShare(digest[:], commitments, peer, share, fixture.verificationShares[peer]); err != nil {
			t.Fatalf("peer %d's own share failed verification: %v", peer, err)
		}
		shares = append(shares, share)
	}

	sig, err := coordinator.Aggregate(digest[:], commitments, shares)
	if err != nil {
		t.Fatalf("aggregating: %v", err)
	}
	if err := VerifySignature(sig, fixture.groupKey, digest[:]); err != nil {
		t.Fatalf("aggregated signature failed BIP-340 verification: %v", err)
	}
}

func TestFullDKGAndSignRoundTripDifferentSigningSet(t *testing.T) {
	// Any threshold-sized subset of the committee must produce a verifying
	// signature, not just one particular set (spec property: signing set
	// choice does not affect correctness).
	const n, threshold = 5, 3
	fixture := runDKGFixture(t, n, threshold)
	cs := NewBip340Ciphersuite()

	signingSet := []uint64{2, 4, 5}
	signers := make(map[uint64]*Signer, len(signingSet))
	for _, peer := range signingSet {
		signers[peer] = NewSigner(cs, fixture.groupKey, peer, fixture.secretShares[peer])
	}

	nonces := make(map[uint64]*Nonce, len(signingSet))
	commitments := make([]*NonceCommitment, 0, len(signingSet))
	for _, peer := range signingSet {
		nonce, commitment, err := signers[peer].Round1()
		if err != nil {
			t.Fatalf("peer %d Round1: %v", peer, err)
		}
		nonces[peer] = nonce
		commitments = append(commitments, commitment)
	}
	sort.Slice(commitments, func(i, j int) bool { return commitments[i].PeerScalar < commitments[j].PeerScalar })

	digest := []byte("a different message entirely")
	msgDigest := make([]byte, 32)
	copy(msgDigest, digest)

	coordinator := NewCoordinator(cs, fixture.groupKey)
	shares := make([]*big.Int, 0, len(signingSet))
	for _, peer := range signingSet {
		share, err := signers[peer].Round2(msgDigest, nonces[peer], commitments)
		if err != nil {
			t.Fatalf("peer %d Round2: %v", peer, err)
		}
		shares = append(shares, share)
	}

	sig, err := coordinator.Aggregate(msgDigest, commitments, shares)
	if err != nil {
		t.Fatalf("aggregating: %v", err)
	}
	if err := VerifySignature(sig, fixture.groupKey, msgDigest); err != nil {
		t.Fatalf("aggregated signature failed BIP-340 verification: %v", err)
	}
}
