package signer

import (
	"testing"

	"golang.org/x/exp/slices"

	"github.com/resolvr-net/frostsigner/frost"
)

func peerScalars(commitments []*frost.NonceCommitment) []uint64 {
	out := make([]uint64, len(commitments))
	for i, c := range commitments {
		out[i] = c.PeerScalar
	}
	return out
}

func commitmentWithScalar(scalar uint64) *frost.NonceCommitment {
	_, point := frost.NormalizeScalarPoint(frost.Order())
	return &frost.NonceCommitment{PeerScalar: scalar, Hiding: point, Binding: point}
}

func TestBuildSessionSortsByPeerScalar(t *testing.T) {
	in := []*frost.NonceCommitment{
		commitmentWithScalar(3),
		commitmentWithScalar(1),
		commitmentWithScalar(2),
	}

	out := BuildSession(in)

	for i, c := range out {
		if want := uint64(i + 1); c.PeerScalar != want {
			t.Fatalf("position %d: expected peer scalar %d, got %d", i, want, c.PeerScalar)
		}
	}
}

func TestBuildSessionIsOrderIndependent(t *testing.T) {
	a := []*frost.NonceCommitment{commitmentWithScalar(2), commitmentWithScalar(1), commitmentWithScalar(3)}
	b := []*frost.NonceCommitment{commitmentWithScalar(3), commitmentWithScalar(2), commitmentWithScalar(1)}

	sessionA := BuildSession(a)
	sessionB := BuildSession(b)

	if !slices.Equal(peerScalars(sessionA), peerScalars(sessionB)) {
		t.Fatalf("sessions built from differently-ordered input disagree: %v vs %v",
			peerScalars(sessionA), peerScalars(sessionB))
	}
}

func TestBuildSessionDoesNotMutateInput(t *testing.T) {
	in := []*frost.NonceCommitment{commitmentWithScalar(3), commitmentWithScalar(1)}
	_ = BuildSession(in)

	if in[0].PeerScalar != 3 || in[1].PeerScalar != 1 {
		t.Fatal("BuildSession must not mutate its input slice in place")
	}
}
