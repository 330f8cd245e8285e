package consensus

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemorySubstrate is a deterministic, in-memory stand-in for the BFT
// consensus substrate this module plugs into. It is not a substrate
// implementation anyone should run in production -- it exists so the
// signer package's end-to-end scenario tests can drive a simulated
// committee through real Broadcaster/Exchange calls without a network.
//
// Ordering is deterministic: items are delivered to every peer in the
// order Propose was called across the whole substrate, which is what the
// "first t nonces in consensus order" rule (spec §4.5) needs to be
// testable at all. The teacher's root coordinator.go/member.go pass
// messages over unordered Go channels between goroutines; this reworks
// that into a single ordered log instead, since the spec requires total
// order with origin attribution that channels alone don't give you.
type MemorySubstrate struct {
	mu      sync.Mutex
	log     []Delivery
	peers   map[PeerID]chan Delivery
	closed  bool
	capHint int
}

// NewMemorySubstrate creates a substrate for exactly the given peers. Every
// peer must call Items() once to receive its delivery channel.
func NewMemorySubstrate(peers []PeerID) *MemorySubstrate {
	m := &MemorySubstrate{
		peers:   make(map[PeerID]chan Delivery, len(peers)),
		capHint: 256,
	}
	for _, p := range peers {
		m.peers[p] = make(chan Delivery, m.capHint)
	}
	return m
}

// PeerView returns a Broadcaster bound to a single peer's identity, used to
// call Propose as that peer while sharing the same underlying log.
func (m *MemorySubstrate) PeerView(self PeerID) Broadcaster {
	return &memoryPeerView{substrate: m, self: self}
}

func (m *MemorySubstrate) propose(origin PeerID, item Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("substrate closed")
	}
	d := Delivery{Origin: origin, Item: item}
	m.log = append(m.log, d)
	for _, ch := range m.peers {
		ch <- d
	}
	return nil
}

func (m *MemorySubstrate) items(self PeerID) <-chan Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.peers[self]
}

// Close stops delivery; any Propose call after Close returns an error.
func (m *MemorySubstrate) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	for _, ch := range m.peers {
		close(ch)
	}
}

// History returns every item proposed so far, in delivery order, for
// assertions in tests.
func (m *MemorySubstrate) History() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.log))
	copy(out, m.log)
	return out
}

type memoryPeerView struct {
	substrate *MemorySubstrate
	self      PeerID
}

func (v *memoryPeerView) Propose(_ context.Context, item Item) error {
	return v.substrate.propose(v.self, item)
}

func (v *memoryPeerView) Items() <-chan Delivery {
	return v.substrate.items(v.self)
}

// MemoryExchange is a barrier-style in-memory implementation of Exchange:
// every expected peer must submit its value for a label before any caller
// unblocks, exactly matching the "every committee member submits, then
// everyone receives the full map" one-shot semantics the DKG driver needs
// for its polynomial and share-and-PoP exchanges.
type MemoryExchange[T any] struct {
	mu       sync.Mutex
	expected []PeerID
	rounds   map[string]*exchangeRound[T]
}

type exchangeRound[T any] struct {
	mu     sync.Mutex
	values map[PeerID]T
	done   chan struct{}
}

// NewMemoryExchange creates an exchange point for exactly the given set of
// peers.
func NewMemoryExchange[T any](expected []PeerID) *MemoryExchange[T] {
	e := &MemoryExchange[T]{
		expected: append([]PeerID(nil), expected...),
		rounds:   make(map[string]*exchangeRound[T]),
	}
	sort.Slice(e.expected, func(i, j int) bool { return e.expected[i] < e.expected[j] })
	return e
}

func (e *MemoryExchange[T]) round(label string) *exchangeRound[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.rounds[label]
	if !ok {
		r = &exchangeRound[T]{
			values: make(map[PeerID]T, len(e.expected)),
			done:   make(chan struct{}),
		}
		e.rounds[label] = r
	}
	return r
}

// PeerView returns an Exchange[T] bound to a single peer's identity.
func (e *MemoryExchange[T]) PeerView(self PeerID) Exchange[T] {
	return &memoryExchangeView[T]{exchange: e, self: self}
}

func (e *MemoryExchange[T]) submit(ctx context.Context, label string, self PeerID, value T) (map[PeerID]T, error) {
	r := e.round(label)

	r.mu.Lock()
	r.values[self] = value
	if len(r.values) == len(e.expected) {
		close(r.done)
	}
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-r.done:
	}

	r.mu.Lock()
	out := make(map[PeerID]T, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	r.mu.Unlock()
	return out, nil
}

type memoryExchangeView[T any] struct {
	exchange *MemoryExchange[T]
	self     PeerID
}

func (v *memoryExchangeView[T]) Exchange(ctx context.Context, label string, mine T) (map[PeerID]T, error) {
	return v.exchange.submit(ctx, label, v.self, mine)
}
