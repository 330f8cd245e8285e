package signer

import (
	"golang.org/x/exp/slices"

	"github.com/resolvr-net/frostsigner/frost"
)

// BuildSession assembles the canonical, deterministic commitment list a
// FROST signing round is run over: the given nonces sorted by ascending
// peer scalar. Two honest peers given the same (message, nonce set) build
// byte-identical session state, since sorting erases any dependency on the
// order nonces arrived in (spec C6, property P1). Sorted with
// golang.org/x/exp/slices the same way the teacher's own test helpers reach
// for that package instead of stdlib sort.
func BuildSession(commitments []*frost.NonceCommitment) []*frost.NonceCommitment {
	sorted := make([]*frost.NonceCommitment, len(commitments))
	copy(sorted, commitments)
	slices.SortFunc(sorted, func(a, b *frost.NonceCommitment) int {
		switch {
		case a.PeerScalar < b.PeerScalar:
			return -1
		case a.PeerScalar > b.PeerScalar:
			return 1
		default:
			return 0
		}
	})
	return sorted
}
