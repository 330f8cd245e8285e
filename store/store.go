// Package store declares this module's persistence contract: a
// transactional key-value store with bucket-scoped prefix scan, translated
// from fedimint's typed-key database abstraction
// (`impl_db_record!`/`impl_db_lookup!` in the original `resolvr-server`
// module) into a plain Go bucket-and-cursor scheme.
package store

import (
	"encoding/binary"
)

// Bucket names this module's key scheme uses. Each maps to one entity kind
// from spec §3/§6.
var (
	BucketKeyMaterial = []byte("key_material")
	BucketCommittee   = []byte("committee")
	BucketPending     = []byte("pending_request")
	BucketInFlight    = []byte("in_flight_signature")
	BucketNonce       = []byte("nonce")
	BucketShare       = []byte("share")
)

// singletonKey is the sole key used in buckets that hold at most one
// value process-wide (key material, committee config, the single pending
// request / in-flight signature slot).
var singletonKey = []byte("singleton")

// NonceShareKey builds the composite key NonceRecord/ShareRecord rows are
// stored under: fingerprint (32 bytes) followed by the peer's big-endian
// uint64 ordinal, matching spec §3's "(Fingerprint, PeerID)" keying.
func NonceShareKey(fingerprint [32]byte, peer uint64) []byte {
	key := make([]byte, 40)
	copy(key, fingerprint[:])
	binary.BigEndian.PutUint64(key[32:], peer)
	return key
}

// FingerprintPrefix returns the key prefix that selects every row for a
// given fingerprint regardless of peer, for Tx.Iterate prefix scans (e.g.
// "how many nonces do we have for this fingerprint so far").
func FingerprintPrefix(fingerprint [32]byte) []byte {
	prefix := make([]byte, 32)
	copy(prefix, fingerprint[:])
	return prefix
}

// Tx is a single read or read-write pass over the store. Implementations
// (BoltStore, MemStore) guarantee Get/Put/Delete/Iterate calls made within
// one Tx observe a single consistent snapshot.
type Tx interface {
	Get(bucket, key []byte) ([]byte, error)
	Put(bucket, key, value []byte) error
	Delete(bucket, key []byte) error
	// Iterate calls fn for every key in bucket with the given prefix, in
	// ascending key order, stopping early if fn returns an error.
	Iterate(bucket, prefix []byte, fn func(key, value []byte) error) error
}

// Store is the persistence contract the signer package depends on.
type Store interface {
	Update(fn func(Tx) error) error
	View(fn func(Tx) error) error
	Close() error
}

// GetSingleton is a small helper for the at-most-one-row buckets
// (key material, committee config, pending request, in-flight signature).
func GetSingleton(tx Tx, bucket []byte) ([]byte, error) {
	return tx.Get(bucket, singletonKey)
}

// PutSingleton is the write-side counterpart of GetSingleton.
func PutSingleton(tx Tx, bucket, value []byte) error {
	return tx.Put(bucket, singletonKey, value)
}

// DeleteSingleton clears an at-most-one-row bucket.
func DeleteSingleton(tx Tx, bucket []byte) error {
	return tx.Delete(bucket, singletonKey)
}
