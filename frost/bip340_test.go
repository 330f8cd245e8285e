package frost

import (
	"bytes"
	"testing"

	"github.com/resolvr-net/frostsigner/internal/testutils"
)

func TestBip340HashesAreDeterministic(t *testing.T) {
	cs := NewBip340Ciphersuite()
	msg := []byte("deterministic input")

	testutils.AssertBigIntsEqual(t, "H1", cs.H1(msg), cs.H1(msg))
	testutils.AssertBigIntsEqual(t, "H2", cs.H2(msg), cs.H2(msg))
	testutils.AssertBigIntsEqual(t, "H3", cs.H3(msg), cs.H3(msg))
	if !bytes.Equal(cs.H4(msg), cs.H4(msg)) {
		t.Fatal("H4 is not deterministic")
	}
	if !bytes.Equal(cs.H5(msg), cs.H5(msg)) {
		t.Fatal("H5 is not deterministic")
	}
}

func TestBip340HashesAreDomainSeparated(t *testing.T) {
	cs := NewBip340Ciphersuite()
	msg := []byte("same bytes, different tag")

	h1 := cs.H1(msg)
	h3 := cs.H3(msg)
	if h1.Cmp(h3) == 0 {
		t.Fatal("H1 and H3 produced the same scalar for the same input, tags are not separating them")
	}

	h4 := cs.H4(msg)
	h5 := cs.H5(msg)
	if bytes.Equal(h4, h5) {
		t.Fatal("H4 and H5 produced the same digest for the same input")
	}
}

func TestH2UsesBip340ChallengeTagRegardlessOfExtra(t *testing.T) {
	// H2's tag is pinned to BIP-340's own "BIP0340/challenge" string (see
	// bip340.go) rather than this ciphersuite's context string, which is
	// what makes Coordinator.Aggregate's output a plain BIP-340 signature.
	// A change to that tag would silently break cross-verification with
	// any standard BIP-340 verifier, so pin the computed value here.
	cs := NewBip340Ciphersuite()
	got := cs.H2([]byte("r"), []byte("pk"), []byte("m"))
	want := hashToScalar([]byte("BIP0340/challenge"), concat([]byte("r"), []byte("pk"), []byte("m")))
	testutils.AssertBigIntsEqual(t, "H2 challenge scalar", want, got)
}
